// Package vpxinfo extracts metadata and script source from Visual Pinball X
// table containers and exposes that capability to foreign callers over a
// C-compatible ABI.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	vpxinfo/         Root package (documentation only)
//	├── vpx/         VPX container decoder: compound-file reader, table-info
//	│                and game-data records
//	├── extract/     Extraction pipelines: path validation, crash isolation,
//	│                JSON document construction
//	├── ffi/         Exported C ABI surface and buffer ownership transfer
//	└── errors/      Structured error types shared by all packages
//
// # FFI Contract
//
// Built with -buildmode=c-shared (see cmd/libvpxinfo), the library exports
// three symbols:
//
//	char* get_vpx_table_info_as_json(const char* path);
//	char* get_vpx_gamedata_code(const char* path);
//	void  free_vpx_string(char* s);
//
// Both getters return a heap-allocated, NUL-terminated buffer that the caller
// owns exclusively, or NULL on any failure. Every non-NULL buffer must be
// passed to free_vpx_string exactly once. Failures are never reported as
// structured values across the ABI; diagnostics go to the configured zap
// logger instead.
//
// # Thread Safety
//
// Every exported call is an independent pipeline with no shared mutable
// state. Concurrent calls from any number of caller threads are safe.
package vpxinfo
