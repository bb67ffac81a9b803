// Package errors provides structured error types for the vpxinfo library.
//
// Errors are categorized by Phase (where in the extraction pipeline the error
// occurred) and Kind (error category). The Error type carries the file path
// involved, a human-readable detail, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindDecodeFailed).
//		File("/tables/funhouse.vpx").
//		Detail("GameData stream truncated").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OpenFailed(path, cause)
//	err := errors.Internal(path, recovered)
//
// All errors implement the standard error interface and support errors.Is/As.
// The closed Phase/Kind sets are the only failure classification in the
// module: nothing richer ever crosses the C boundary.
package errors
