// Package middleware contains HTTP middleware for the runs API.
//
// # Components
//
//   - Auth: API key validation protecting every route registered after it.
//   - RayID: a per-request id stored in fiber locals and echoed in the
//     X-Ray-ID response header, picked up by logger.WithRayID.
package middleware
