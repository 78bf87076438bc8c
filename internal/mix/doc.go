// Package mix combines the original program audio with the dubbed track.
// The original is attenuated by a constant ducking factor so background
// music and effects stay audible under the dub.
package mix
