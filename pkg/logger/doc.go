// Package logger provides a slog factory with JSON and text output formats.
//
// The returned *slog.Logger is plugged into components that accept one,
// such as the multipart parser's WithLogger option.
package logger
