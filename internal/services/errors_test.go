package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapTagsKind(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrDownload, "downloading", "yt-dlp", "fetch failed", cause)

	if !errors.Is(err, ErrDownload) {
		t.Fatalf("expected download marker, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to remain unwrappable")
	}
	if Classify(err) != KindDownload {
		t.Fatalf("unexpected kind: %s", Classify(err))
	}
	if !strings.Contains(err.Error(), "downloading: yt-dlp: fetch failed") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestWrapWithoutMarkerDefaultsToExternalTool(t *testing.T) {
	err := Wrap(nil, "mixing", "", "", nil)
	if Classify(err) != KindExternalTool {
		t.Fatalf("unexpected kind: %s", Classify(err))
	}
}

func TestSegmentScoped(t *testing.T) {
	cases := []struct {
		marker error
		want   bool
	}{
		{ErrSynthesis, true},
		{ErrInvalidSegment, true},
		{ErrTranslation, false},
		{ErrMux, false},
	}
	for _, tc := range cases {
		err := Wrap(tc.marker, "stage", "op", "msg", nil)
		if SegmentScoped(err) != tc.want {
			t.Fatalf("SegmentScoped(%v) = %v, want %v", tc.marker, !tc.want, tc.want)
		}
	}
}

func TestDetailsNil(t *testing.T) {
	details := Details(nil)
	if details.Kind != KindUnknown || details.Cause != nil {
		t.Fatalf("unexpected details for nil error: %#v", details)
	}
}
