// Package util provides the error conventions shared by the qproc packages.
//
// # Error Conventions
//
// This project follows a standardized error pattern across all packages:
//
//   - Sentinel errors (errors.New) for well-known, stable conditions
//     that callers check with errors.Is(). Example: ErrDuplicateAlias.
//   - Structured error types for context-rich errors that carry
//     additional fields (ConfigError). Each type implements Error(),
//     Unwrap() (if wrapping), and Is().
//   - fmt.Errorf with %w for ad-hoc wrapping that adds context to an
//     existing error without introducing a new type.
//
// Only schema compilation and configuration loading produce errors.
// Query execution degrades instead of failing.
package util
