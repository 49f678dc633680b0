// Package utils converts loosely typed values, mostly what encoding/json
// produces for map[string]any, into concrete Go types.
package utils
