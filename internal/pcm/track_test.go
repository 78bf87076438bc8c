package pcm

import (
	"bytes"
	"math"
	"testing"
)

func TestSilenceDuration(t *testing.T) {
	track := Silence(16000, 2.5)
	if len(track.Samples) != 40000 {
		t.Fatalf("expected 40000 samples, got %d", len(track.Samples))
	}
	if track.Duration() != 2.5 {
		t.Fatalf("expected 2.5s, got %v", track.Duration())
	}
}

func TestOverlayAtSums(t *testing.T) {
	base := Silence(1000, 1.0)
	for i := range base.Samples {
		base.Samples[i] = 0.25
	}
	clip := New(1000, []float64{0.5, 0.5, 0.5})

	if err := base.OverlayAt(clip, 0.5); err != nil {
		t.Fatalf("OverlayAt failed: %v", err)
	}
	if base.Samples[499] != 0.25 {
		t.Fatalf("sample before overlay changed: %v", base.Samples[499])
	}
	if base.Samples[500] != 0.75 {
		t.Fatalf("overlap should sum, got %v", base.Samples[500])
	}
}

func TestOverlayAtClampsAtTrackEnd(t *testing.T) {
	base := Silence(1000, 0.01) // 10 samples
	clip := New(1000, make([]float64, 100))
	for i := range clip.Samples {
		clip.Samples[i] = 1
	}
	if err := base.OverlayAt(clip, 0.005); err != nil {
		t.Fatalf("OverlayAt failed: %v", err)
	}
	if len(base.Samples) != 10 {
		t.Fatalf("track grew past its boundary: %d samples", len(base.Samples))
	}
	if base.Samples[9] != 1 {
		t.Fatalf("expected clip audio up to the boundary, got %v", base.Samples[9])
	}
}

func TestOverlayAtRejectsRateMismatch(t *testing.T) {
	base := Silence(16000, 1)
	clip := Silence(8000, 0.5)
	clip.Samples[0] = 1
	if err := base.OverlayAt(clip, 0); err == nil {
		t.Fatal("expected rate mismatch error")
	}
}

func TestHardClip(t *testing.T) {
	track := New(16000, []float64{1.7, -2.0, 0.5})
	track.HardClip()
	want := []float64{1, -1, 0.5}
	for i, w := range want {
		if track.Samples[i] != w {
			t.Fatalf("sample %d = %v, want %v", i, track.Samples[i], w)
		}
	}
}

func TestConform(t *testing.T) {
	track := New(16000, []float64{0.1, 0.2, 0.3})
	track.Conform(5)
	if len(track.Samples) != 5 || track.Samples[4] != 0 {
		t.Fatalf("pad failed: %#v", track.Samples)
	}
	track.Conform(2)
	if len(track.Samples) != 2 || track.Samples[1] != 0.2 {
		t.Fatalf("trim failed: %#v", track.Samples)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	track := Silence(16000, 0.01)
	for i := range track.Samples {
		track.Samples[i] = math.Sin(float64(i) / 10)
	}

	var buf bytes.Buffer
	if err := EncodeWAV(&buf, track); err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	decoded, err := DecodeWAV(&buf)
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if decoded.Rate != 16000 {
		t.Fatalf("rate = %d", decoded.Rate)
	}
	if len(decoded.Samples) != len(track.Samples) {
		t.Fatalf("sample count %d, want %d", len(decoded.Samples), len(track.Samples))
	}
	// Rounded, symmetric quantization bounds the error by half a step.
	tolerance := 0.51 / 32767
	for i := range track.Samples {
		if math.Abs(decoded.Samples[i]-track.Samples[i]) > tolerance {
			t.Fatalf("sample %d diverged: %v vs %v", i, decoded.Samples[i], track.Samples[i])
		}
	}
}

func TestDecodeWAVStereoDownmix(t *testing.T) {
	// Hand-build a 2-frame stereo file: L=0.5 R=0.25 then L=R=-0.5.
	mono := New(8000, []float64{0.5, 0.25, -0.5, -0.5})
	var buf bytes.Buffer
	if err := EncodeWAV(&buf, mono); err != nil {
		t.Fatalf("EncodeWAV failed: %v", err)
	}
	raw := buf.Bytes()
	raw[22] = 2 // channels
	// byte rate and block align for stereo
	raw[28], raw[29], raw[30], raw[31] = 0x80, 0x7d, 0x00, 0x00 // 32000
	raw[32] = 4

	decoded, err := DecodeWAV(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeWAV failed: %v", err)
	}
	if len(decoded.Samples) != 2 {
		t.Fatalf("expected 2 mono frames, got %d", len(decoded.Samples))
	}
	if math.Abs(decoded.Samples[0]-0.375) > 0.001 {
		t.Fatalf("downmix average wrong: %v", decoded.Samples[0])
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, err := DecodeWAV(bytes.NewReader([]byte("definitely not audio data"))); err == nil {
		t.Fatal("expected error for non-WAV input")
	}
}
