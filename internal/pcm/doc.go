// Package pcm provides the in-process audio representation shared by the
// speed matcher, assembler, and mixer: mono float64 sample buffers at a
// single working sample rate, plus a 16-bit PCM WAV codec for exchanging
// audio with external tools.
package pcm
