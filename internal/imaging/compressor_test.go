package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"testing"
)

// gradientImage compresses well: smooth tonal ramps are JPEG's best case.
func gradientImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) * 255 / (width + height)),
				A: 255,
			})
		}
	}
	return img
}

// noisyImage compresses poorly: per-pixel noise defeats the DCT, so the
// quality ladder has to walk all the way down.
func noisyImage(width, height int) *image.RGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func encodeJPEGBytes(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encode fixture jpeg: %v", err)
	}
	return buf.Bytes()
}

func encodePNGBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture png: %v", err)
	}
	return buf.Bytes()
}

func TestProbeReportsDimensionsAndFormat(t *testing.T) {
	data := encodePNGBytes(t, gradientImage(320, 240))
	bounds, err := Probe(data)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if bounds.Width != 320 || bounds.Height != 240 {
		t.Fatalf("expected 320x240, got %dx%d", bounds.Width, bounds.Height)
	}
	if bounds.Format != "png" {
		t.Fatalf("expected png, got %q", bounds.Format)
	}
}

func TestProbeRejectsGarbage(t *testing.T) {
	if _, err := Probe([]byte("definitely not pixels")); err == nil {
		t.Fatalf("expected error for non-image bytes")
	}
}

func TestCompressHappyPathResamplesToMaxDimension(t *testing.T) {
	source := encodeJPEGBytes(t, gradientImage(2000, 1000), 95)
	c := NewCompressor(Params{}, nil)

	result, err := c.Compress(context.Background(), source, 400<<10)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if result.Width != 800 || result.Height != 400 {
		t.Fatalf("expected 800x400 output, got %dx%d", result.Width, result.Height)
	}
	if result.SourceWidth != 2000 || result.SourceHeight != 1000 {
		t.Fatalf("expected source dims recorded, got %dx%d", result.SourceWidth, result.SourceHeight)
	}
	if !result.UnderLimit {
		t.Fatalf("expected gradient to fit the limit, estimated %d", result.EstimatedSize)
	}
	if len(result.Attempts) != 1 {
		t.Fatalf("expected a single attempt, got %d", len(result.Attempts))
	}
	if result.Quality != DefaultInitialQuality {
		t.Fatalf("expected initial quality %d, got %d", DefaultInitialQuality, result.Quality)
	}
	if int64(len(result.Data)) == 0 {
		t.Fatalf("expected encoded output")
	}
}

func TestCompressLadderIsMonotonic(t *testing.T) {
	source := encodeJPEGBytes(t, noisyImage(1200, 900), 95)
	c := NewCompressor(Params{}, nil)

	// Unreachable limit: the ladder must exhaust every retry.
	result, err := c.Compress(context.Background(), source, 1<<10)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	wantAttempts := 1 + DefaultMaxRetries
	if len(result.Attempts) != wantAttempts {
		t.Fatalf("expected %d attempts, got %d", wantAttempts, len(result.Attempts))
	}
	for i := 1; i < len(result.Attempts); i++ {
		prev, cur := result.Attempts[i-1], result.Attempts[i]
		if cur.Quality >= prev.Quality {
			t.Fatalf("expected quality to decrease: attempt %d q=%d after q=%d", i+1, cur.Quality, prev.Quality)
		}
		if cur.EstimatedSize > prev.EstimatedSize {
			t.Fatalf("quality step increased size: attempt %d %dB after %dB", i+1, cur.EstimatedSize, prev.EstimatedSize)
		}
	}
	if result.UnderLimit {
		t.Fatalf("expected noisy source to stay over a 1KB limit")
	}
	if last := result.Attempts[len(result.Attempts)-1]; last.Quality != minJPEGQuality {
		t.Fatalf("expected ladder to bottom out at %d, got %d", minJPEGQuality, last.Quality)
	}
	if result.EstimatedSize != result.Attempts[len(result.Attempts)-1].EstimatedSize {
		t.Fatalf("expected smallest attempt kept as result")
	}
}

func TestCompressStopsAsSoonAsUnderLimit(t *testing.T) {
	source := encodeJPEGBytes(t, gradientImage(1600, 1200), 95)
	c := NewCompressor(Params{}, nil)

	generous := int64(10 << 20)
	result, err := c.Compress(context.Background(), source, generous)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(result.Attempts) != 1 {
		t.Fatalf("expected ladder to stop after first fitting encode, got %d attempts", len(result.Attempts))
	}
}

func TestCompressSmallSourceKeepsDimensions(t *testing.T) {
	source := encodeJPEGBytes(t, gradientImage(300, 200), 90)
	c := NewCompressor(Params{}, nil)

	result, err := c.Compress(context.Background(), source, 400<<10)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if result.Width != 300 || result.Height != 200 {
		t.Fatalf("expected dimensions preserved, got %dx%d", result.Width, result.Height)
	}
}

func TestCompressRejectsUndecodableSource(t *testing.T) {
	c := NewCompressor(Params{}, nil)
	if _, err := c.Compress(context.Background(), []byte("junk"), 400<<10); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCompressHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := encodeJPEGBytes(t, gradientImage(100, 100), 90)
	c := NewCompressor(Params{}, nil)
	if _, err := c.Compress(ctx, source, 400<<10); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestParamsNormalize(t *testing.T) {
	p := Params{}.Normalize()
	if p.MaxWidth != DefaultMaxDimension || p.MaxHeight != DefaultMaxDimension {
		t.Fatalf("expected default dimensions, got %dx%d", p.MaxWidth, p.MaxHeight)
	}
	if p.InitialQuality != DefaultInitialQuality || p.QualityStep != DefaultQualityStep {
		t.Fatalf("expected default ladder, got q=%d step=%d", p.InitialQuality, p.QualityStep)
	}

	clamped := Params{InitialQuality: 400}.Normalize()
	if clamped.InitialQuality != DefaultInitialQuality {
		t.Fatalf("expected out-of-range quality clamped, got %d", clamped.InitialQuality)
	}
}
