// Package assemble places timed clips on a silent timeline equal to the
// video duration. Overlapping clips sum; audio past the track boundary is
// truncated.
package assemble
