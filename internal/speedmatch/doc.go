// Package speedmatch fits synthesized clips into their original time
// windows. Clips that run long are time-stretched up to a configured speed
// ceiling; clips that would need more than the ceiling keep the ceiling and
// overflow into the next window. Speech is never truncated to fit.
package speedmatch
