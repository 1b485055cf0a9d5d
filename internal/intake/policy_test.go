package intake

import (
	"testing"

	"taskboard/internal/imaging"
)

func TestDefaultPolicyValues(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxCount != 8 {
		t.Errorf("MaxCount = %d, want 8", p.MaxCount)
	}
	if p.PerFileLimit != 409600 {
		t.Errorf("PerFileLimit = %d, want 409600", p.PerFileLimit)
	}
	if p.AggregateLimit != 829440 {
		t.Errorf("AggregateLimit = %d, want 829440", p.AggregateLimit)
	}
	if p.RawSourceCeiling != 20971520 {
		t.Errorf("RawSourceCeiling = %d, want 20971520", p.RawSourceCeiling)
	}
	if p.DisableRawCeiling {
		t.Error("raw ceiling must be enforced by default")
	}
	if p.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", p.Concurrency)
	}
	if p.OutputExtension != "jpg" || p.OutputMIME != "image/jpeg" {
		t.Errorf("output = %s/%s, want jpg/image/jpeg", p.OutputExtension, p.OutputMIME)
	}
	want := imaging.Params{MaxWidth: 800, MaxHeight: 800, InitialQuality: 90, QualityStep: 20, MaxRetries: 4}
	if p.Compression != want {
		t.Errorf("Compression = %+v, want %+v", p.Compression, want)
	}
}

func TestAcceptsMIME(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		mime string
		want bool
	}{
		{"image/jpeg", true},
		{"image/jpg", true},
		{"IMAGE/PNG", true},
		{"image/png; charset=binary", true},
		{"image/webp", true},
		{" image/jpeg ", true},
		{"image/gif", false},
		{"image/svg+xml", false},
		{"text/plain", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := p.AcceptsMIME(tc.mime); got != tc.want {
			t.Errorf("AcceptsMIME(%q) = %v, want %v", tc.mime, got, tc.want)
		}
	}
}

func TestNormalizeFillsOnlyZeroFields(t *testing.T) {
	p := Policy{MaxCount: 3, PerFileLimit: 1000}.Normalize()
	if p.MaxCount != 3 {
		t.Errorf("MaxCount = %d, want explicit 3 preserved", p.MaxCount)
	}
	if p.PerFileLimit != 1000 {
		t.Errorf("PerFileLimit = %d, want explicit 1000 preserved", p.PerFileLimit)
	}
	if p.AggregateLimit != DefaultAggregateLimit {
		t.Errorf("AggregateLimit = %d, want default", p.AggregateLimit)
	}
	if len(p.AcceptedFormats) == 0 {
		t.Error("AcceptedFormats not filled")
	}
	if p.Compression.InitialQuality != imaging.DefaultInitialQuality {
		t.Errorf("Compression.InitialQuality = %d, want default", p.Compression.InitialQuality)
	}
}

func TestDetectMIME(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"png", []byte("\x89PNG\r\n\x1a\nrest"), "image/png"},
		{"jpeg", []byte("\xff\xd8\xff\xe0rest"), "image/jpeg"},
		{"gif", []byte("GIF89a"), "image/gif"},
		{"webp", []byte("RIFF\x00\x00\x00\x00WEBPVP8 "), "image/webp"},
		{"text", []byte("hello world"), "text/plain"},
	}
	for _, tc := range cases {
		if got := DetectMIME(tc.data); got != tc.want {
			t.Errorf("%s: DetectMIME = %q, want %q", tc.name, got, tc.want)
		}
	}
}
