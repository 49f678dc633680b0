// Package app manages the app record itself.
//
// Create registers the app record for a bundle id that already exists in the
// developer account. Setup sets the content rights declaration and the app's
// price schedule from a price tier, where tier 0 means free.
package app
