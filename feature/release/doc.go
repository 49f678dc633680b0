// Package release drives the app version lifecycle.
//
// EnsureVersion picks the version the next release lands on: it creates 1.0.0
// for a new app, bumps the patch component after a release, reuses a version
// still in flight and refuses to continue while a build awaits manual release.
//
// Submit waits for the matching build to finish processing, attaches it and
// sends the version to review.
package release
