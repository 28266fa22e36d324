// Package logger configures structured logging and carries request-scoped
// loggers through context.
package logger
