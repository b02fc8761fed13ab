// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured JSON logging
// with configurable log levels, and carries request-scoped loggers through contexts so
// trace identifiers flow from the HTTP layer down into services and stores.
package logger
