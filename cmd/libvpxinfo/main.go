// Command libvpxinfo is the build stub for the shared library:
//
//	go build -buildmode=c-shared -o libvpxinfo.so ./cmd/libvpxinfo
//
// Importing the ffi package pulls the exported C symbols into the library;
// main itself never runs.
package main

import (
	_ "github.com/surtarso/vpxinfo/ffi"
)

func main() {}
