package attachments

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	interrors "taskboard/internal/errors"
)

func TestEstimateEncodedSizeIsExactRatio(t *testing.T) {
	// 3/4 of the textual length, regardless of padding content.
	cases := []struct {
		encoded string
		want    int64
	}{
		{"", 0},
		{"AAAA", 3},
		{"AAAAAAAA", 6},
		{strings.Repeat("A", 4000), 3000},
		{"QUJD", 3}, // "ABC"
	}
	for _, tc := range cases {
		if got := EstimateEncodedSize(tc.encoded); got != tc.want {
			t.Errorf("EstimateEncodedSize(len %d) = %d, want %d", len(tc.encoded), got, tc.want)
		}
	}
}

func TestEstimateEncodedSizeStripsDataURLPrefix(t *testing.T) {
	payload := strings.Repeat("A", 400)
	url := "data:image/jpeg;base64," + payload
	if got, want := EstimateEncodedSize(url), int64(300); got != want {
		t.Fatalf("expected prefix excluded from estimate: got %d, want %d", got, want)
	}
}

func TestEstimateEncodedSizeIgnoresPadding(t *testing.T) {
	// "A" encodes to "QQ==": the estimate stays len*3/4 even though the
	// decoded payload is a single byte.
	encoded := base64.StdEncoding.EncodeToString([]byte("A"))
	if got := EstimateEncodedSize(encoded); got != int64(len(encoded))*3/4 {
		t.Fatalf("expected raw ratio, got %d", got)
	}
}

func TestEstimateRawEncodedSizeMatchesEncodedEstimate(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 100, 1023, 4096} {
		raw := bytes.Repeat([]byte{0xAB}, n)
		encoded := base64.StdEncoding.EncodeToString(raw)
		if got, want := EstimateRawEncodedSize(n), EstimateEncodedSize(encoded); got != want {
			t.Errorf("EstimateRawEncodedSize(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestBuildAndParseDataURL(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	url := BuildDataURL("image/jpeg", raw)

	if !IsDataURL(url) {
		t.Fatalf("expected data URL form, got %q", url)
	}

	mimeType, data, err := ParseDataURL(url)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if mimeType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", mimeType)
	}
	if !bytes.Equal(data, raw) {
		t.Fatalf("expected round-tripped payload")
	}
}

func TestParseDataURLRejectsNonDataURL(t *testing.T) {
	_, _, err := ParseDataURL("https://example.com/image.png")
	if err == nil {
		t.Fatalf("expected error for non data URL")
	}
	if !interrors.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input classification, got %v", err)
	}
}

func TestParseDataURLRejectsNonBase64Encoding(t *testing.T) {
	_, _, err := ParseDataURL("data:text/plain,hello%20world")
	if err == nil {
		t.Fatalf("expected error for percent-encoded payload")
	}
	if !interrors.IsInvalidInput(err) {
		t.Fatalf("expected invalid-input classification, got %v", err)
	}
}

func TestDecodeBase64ToleratesMissingPadding(t *testing.T) {
	raw := []byte("hello!")
	padded := base64.StdEncoding.EncodeToString(raw)
	unpadded := strings.TrimRight(padded, "=")

	for _, payload := range []string{padded, unpadded, "  " + padded + "  "} {
		got, err := DecodeBase64(payload)
		if err != nil {
			t.Fatalf("DecodeBase64(%q): %v", payload, err)
		}
		if !bytes.Equal(got, raw) {
			t.Fatalf("expected %q, got %q", raw, got)
		}
	}
}

func TestDecodeBase64RejectsGarbage(t *testing.T) {
	if _, err := DecodeBase64("!!not base64!!"); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
