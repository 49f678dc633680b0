// Package screenshot uploads subscription review screenshots.
//
// The upload is three steps: reserve a slot (file name and size), PUT each
// byte range to the pre-signed destinations the reservation returns, then
// commit with the file's MD5. The chunk destinations are not App Store Connect
// endpoints and never receive the bearer token.
package screenshot
