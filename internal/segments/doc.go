// Package segments defines the per-job transcript data model and the store
// that carries segments through the pipeline: transcription populates it,
// translation and synthesis enrich it, and the timing stages consume it.
package segments
