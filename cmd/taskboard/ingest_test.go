package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskboard/internal/config"
	"taskboard/internal/intake"
)

func writeTestPNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: 64,
				A: 255,
			})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testCLI(out io.Writer) *CLI {
	return &CLI{
		cfg: config.Config{Intake: intake.DefaultPolicy()},
		out: out,
	}
}

func TestRunIngestMixedBatch(t *testing.T) {
	dir := t.TempDir()
	pngPath := writeTestPNG(t, dir, "photo.png", 64, 64)
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "gone.png")

	var buf bytes.Buffer
	cli := testCLI(&buf)
	if err := cli.runIngest(context.Background(), []string{pngPath, txtPath, missing}, false); err != nil {
		t.Fatalf("runIngest returned error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"photo.jpg",
		"image/jpeg",
		"notes.txt",
		"unsupported format",
		"gone.png",
		"read failed",
		"1 accepted, 2 rejected",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ingest output missing %q:\n%s", want, out)
		}
	}
}

func TestRunIngestJSON(t *testing.T) {
	dir := t.TempDir()
	pngPath := writeTestPNG(t, dir, "shot.png", 48, 48)

	var buf bytes.Buffer
	cli := testCLI(&buf)
	if err := cli.runIngest(context.Background(), []string{pngPath}, true); err != nil {
		t.Fatalf("runIngest returned error: %v", err)
	}

	var out ingestOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("ingest JSON did not parse: %v", err)
	}
	if len(out.Accepted) != 1 {
		t.Fatalf("accepted %d files, want 1", len(out.Accepted))
	}
	got := out.Accepted[0]
	if got.Filename != "shot.jpg" {
		t.Errorf("Filename = %q, want %q", got.Filename, "shot.jpg")
	}
	if got.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", got.MIMEType)
	}
	if got.Size <= 0 {
		t.Errorf("Size = %d, want > 0", got.Size)
	}
	if len(got.Digest) != 64 {
		t.Errorf("Digest = %q, want 64 hex chars", got.Digest)
	}
	if out.TotalSize != got.Size {
		t.Errorf("TotalSize = %d, want %d", out.TotalSize, got.Size)
	}
	if !out.Rejected.IsEmpty() {
		t.Errorf("Rejected = %+v, want empty report", out.Rejected)
	}
}

func TestRunIngestNothingAccepted(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	cli := testCLI(&buf)
	err := cli.runIngest(context.Background(), []string{txtPath}, false)
	if err == nil {
		t.Fatal("runIngest accepted nothing but returned nil error")
	}
	if !strings.Contains(err.Error(), "no files accepted") {
		t.Errorf("error = %v, want mention of no files accepted", err)
	}
}

func TestIngestThroughRootCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	pngPath := writeTestPNG(t, dir, "board.png", 32, 32)

	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"ingest", "--json", pngPath})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	var out ingestOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("ingest JSON did not parse: %v\n%s", err, buf.String())
	}
	if len(out.Accepted) != 1 || out.Accepted[0].Filename != "board.jpg" {
		t.Fatalf("accepted = %+v, want a single board.jpg", out.Accepted)
	}
}
