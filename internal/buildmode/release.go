//go:build release

package buildmode

// Strict is true outside release builds.
const Strict = false
