// Package source models the file-like candidates handed to the intake
// pipeline: picker selections, in-memory payloads, data URLs and images
// extracted from dropped HTML fragments.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"taskboard/internal/attachments"
	interrors "taskboard/internal/errors"
)

// File is one candidate for intake. Bytes are read lazily through the
// opener so read failures surface per file, never as a batch error.
type File struct {
	Name         string
	DeclaredMIME string
	DeclaredSize int64

	opener func() (io.ReadCloser, error)
}

// New builds a File from an arbitrary opener.
func New(name, declaredMIME string, declaredSize int64, opener func() (io.ReadCloser, error)) File {
	return File{
		Name:         name,
		DeclaredMIME: strings.ToLower(strings.TrimSpace(declaredMIME)),
		DeclaredSize: declaredSize,
		opener:       opener,
	}
}

// Open returns a reader over the candidate's bytes.
func (f File) Open() (io.ReadCloser, error) {
	if f.opener == nil {
		return nil, interrors.NewRead(f.Name, "open", fmt.Errorf("no content source"))
	}
	rc, err := f.opener()
	if err != nil {
		return nil, interrors.NewRead(f.Name, "open", err)
	}
	return rc, nil
}

// Read returns the candidate's bytes. When maxBytes is positive, at most
// maxBytes+1 bytes are read so oversized sources are detected without
// buffering the whole file.
func (f File) Read(maxBytes int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var reader io.Reader = rc
	if maxBytes > 0 {
		reader = io.LimitReader(rc, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, interrors.NewRead(f.Name, "read", err)
	}
	return data, nil
}

// FromPath wraps an on-disk file, the picker analog. The declared media type
// is inferred from the extension; sniffing later corrects lies.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, interrors.NewRead(path, "stat", err)
	}
	if info.IsDir() {
		return File{}, interrors.NewInvalidInput(fmt.Sprintf("%s is a directory", path), nil)
	}
	_, ext := attachments.SplitName(info.Name())
	return New(info.Name(), attachments.MIMEForExtension(ext), info.Size(), func() (io.ReadCloser, error) {
		return os.Open(path)
	}), nil
}

// FromBytes wraps an in-memory payload.
func FromBytes(name, declaredMIME string, data []byte) File {
	return New(name, declaredMIME, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// FromDataURL decodes a data URL into a candidate. The declared media type
// comes from the URL itself.
func FromDataURL(name, dataURL string) (File, error) {
	mimeType, data, err := attachments.ParseDataURL(dataURL)
	if err != nil {
		return File{}, err
	}
	if name == "" {
		name = defaultNameForMIME(mimeType, 1)
	}
	return FromBytes(name, mimeType, data), nil
}

func defaultNameForMIME(mimeType string, n int) string {
	ext := attachments.InferExtension(mimeType)
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("dropped-%d.%s", n, ext)
}
