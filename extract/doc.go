// Package extract implements the extraction pipelines behind the exported
// FFI surface.
//
// Each operation is one independent pipeline: validate the path, open the
// container through the decoder, read one record, and marshal the result.
// The whole pipeline runs inside a crash isolation scope: a panic anywhere in
// the decode path is converted to a structured internal-fault error instead
// of unwinding into the caller. Nothing is cached and no state is shared
// between calls, so all operations are safe to invoke concurrently.
//
// The decoder is consumed through the Container interface so tests can
// substitute failing or panicking decoders; production use goes through
// vpx.Open.
package extract
