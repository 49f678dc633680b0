// Package server holds the HTTP server configuration for the runs API.
//
// The Config struct defines the listen port, the API key that protects every
// route except the swagger docs, and the request read timeout.
package server
