// Package wren generates Go constants for the keys of strings.properties
// resource bundles.
package wren

// Version is the current wren release.
const Version = "0.1.0"
