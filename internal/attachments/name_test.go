package attachments

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name      string
		input     string
		mediaType string
		want      string
	}{
		{"plain", "photo.jpg", "image/jpeg", "photo.jpg"},
		{"spaces and unicode", "my vacation photo!.jpg", "image/jpeg", "my_vacation_photo_.jpg"},
		{"path traversal", "../../etc/passwd.png", "image/png", "passwd.png"},
		{"missing extension backfilled", "snapshot", "image/png", "snapshot.png"},
		{"missing extension unknown type", "snapshot", "application/weird", "snapshot"},
		{"empty", "   ", "image/jpeg", ""},
		{"only separators", "...", "image/jpeg", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFileName(tc.input, tc.mediaType); got != tc.want {
				t.Fatalf("SanitizeFileName(%q, %q) = %q, want %q", tc.input, tc.mediaType, got, tc.want)
			}
		})
	}
}

func TestSanitizeFileNameTruncatesLongNames(t *testing.T) {
	long := strings.Repeat("a", 200) + ".jpg"
	got := SanitizeFileName(long, "image/jpeg")
	if len(got) > maxFilenameLength {
		t.Fatalf("expected at most %d characters, got %d", maxFilenameLength, len(got))
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		input    string
		wantBase string
		wantExt  string
	}{
		{"photo.jpg", "photo", "jpg"},
		{"archive.tar.gz", "archive.tar", "gz"},
		{"UPPER.JPG", "UPPER", "jpg"},
		{"noext", "noext", ""},
		{".hidden", ".hidden", ""},
		{"trailingdot.", "trailingdot.", ""},
	}
	for _, tc := range cases {
		base, ext := SplitName(tc.input)
		if base != tc.wantBase || ext != tc.wantExt {
			t.Errorf("SplitName(%q) = (%q, %q), want (%q, %q)", tc.input, base, ext, tc.wantBase, tc.wantExt)
		}
	}
}

func TestExtensionMIMERoundTrip(t *testing.T) {
	for _, mime := range []string{"image/png", "image/jpeg", "image/gif", "image/webp"} {
		ext := InferExtension(mime)
		if ext == "" {
			t.Fatalf("expected extension for %s", mime)
		}
		if got := MIMEForExtension(ext); got != mime {
			t.Errorf("MIMEForExtension(%q) = %q, want %q", ext, got, mime)
		}
	}
	if InferExtension("application/pdf") != "" {
		t.Fatalf("expected no extension for non-image types")
	}
	if MIMEForExtension("jpeg") != "image/jpeg" {
		t.Fatalf("expected jpeg alias to map to image/jpeg")
	}
}

func TestOutputFilename(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"vacation.png", "vacation.jpg"},
		{"no extension", "no_extension.jpg"},
		{"", "image.jpg"},
		{"weird/..name!.webp", "name_.jpg"},
		{"  ", "image.jpg"},
	}
	for _, tc := range cases {
		if got := OutputFilename(tc.source, "jpg"); got != tc.want {
			t.Errorf("OutputFilename(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}
