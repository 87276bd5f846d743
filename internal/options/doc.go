// Package options implements typed option schemas and the safety filter that
// turns an untrusted option mapping into a map holding only declared keys
// with values coerced to their declared type.
//
// Coercion failures and unknown keys never surface as errors to the caller of
// [Filter]; they are returned as [Rejection] values so the caller can decide
// whether to report them.
package options
