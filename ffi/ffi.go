package ffi

/*
#include <stdlib.h>
#include <string.h>
*/
import "C"

import (
	"unsafe"

	"go.uber.org/zap"
)

// get_vpx_table_info_as_json returns the table-info record of the container
// at path as a JSON document, or NULL on any failure. The caller owns the
// returned buffer and must release it with free_vpx_string.
//
//export get_vpx_table_info_as_json
func get_vpx_table_info_as_json(path *C.char) *C.char {
	s, err := TableInfoJSON(pathBytes(path))
	if err != nil {
		// Stage diagnostics are already logged where detected.
		return nil
	}
	return cString(s)
}

// get_vpx_gamedata_code returns the embedded script source of the container
// at path, or NULL on any failure. The caller owns the returned buffer and
// must release it with free_vpx_string.
//
//export get_vpx_gamedata_code
func get_vpx_gamedata_code(path *C.char) *C.char {
	s, err := GameDataCode(pathBytes(path))
	if err != nil {
		return nil
	}
	return cString(s)
}

// free_vpx_string releases a buffer previously returned by this library.
// NULL is a no-op. Releasing the same buffer twice, or a foreign pointer,
// is undefined behavior.
//
//export free_vpx_string
func free_vpx_string(s *C.char) {
	if s == nil {
		return
	}
	C.free(unsafe.Pointer(s))
}

// pathBytes copies the NUL-terminated C string into Go memory.
// A NULL pointer maps to a nil slice so validation can report it.
func pathBytes(p *C.char) []byte {
	if p == nil {
		return nil
	}
	n := C.strlen(p)
	if n == 0 {
		return []byte{}
	}
	return C.GoBytes(unsafe.Pointer(p), C.int(n))
}

// cString copies s into a freshly allocated, NUL-terminated C buffer and
// hands ownership to the caller. calloc is used so the terminator is in
// place and so allocation failure is observable rather than fatal.
func cString(s string) *C.char {
	p := C.calloc(C.size_t(len(s)+1), 1)
	if p == nil {
		Logger().Error("result buffer allocation failed",
			zap.Error(allocFailure(len(s)+1)))
		return nil
	}
	copy(unsafe.Slice((*byte)(p), len(s)), s)
	return (*C.char)(p)
}
