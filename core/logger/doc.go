// Package logger builds the application's zap logger.
//
// Debug level uses zap's development config (ISO8601 timestamps); anything else
// uses the production config. Console format adds colored level names and drops
// stack traces. Keys are normalized to level, time and message.
package logger
