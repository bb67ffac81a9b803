// Package ffi is the exported C ABI surface of the library.
//
// Built into a shared library (cmd/libvpxinfo), it exports:
//
//	char* get_vpx_table_info_as_json(const char* path);
//	char* get_vpx_gamedata_code(const char* path);
//	void  free_vpx_string(char* s);
//
// # Ownership
//
// A non-NULL result is a C-heap, NUL-terminated buffer owned exclusively by
// the caller. It must be released through free_vpx_string exactly once.
// Passing the same buffer twice, or a pointer this library did not return,
// is undefined behavior; the library keeps no record of outstanding buffers.
// Passing NULL to free_vpx_string is a safe no-op.
//
// # Failure
//
// Every failure, from a null path to a fault inside the decoder, collapses
// to a NULL result. Callers must not distinguish failure kinds; diagnostics
// are emitted to the package logger for operators only.
package ffi
