// Package errors provides the classified error primitives used across sitebuilder.
//
// Every failure the build pipeline can surface is a ClassifiedError carrying a
// category (not_found, already_exists, date_parse, asset_copy, ...), a severity
// and structured context. Nothing here is retried.
//
// Example usage:
//
//	err := errors.AlreadyExistsError("output file already exists").
//		WithContext("path", dst).
//		Build()
package errors
