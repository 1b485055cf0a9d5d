// Package store persists compressed attachment payloads on disk, keyed by
// content digest. Storing the bytes once per digest keeps identical drops
// from multiplying on disk and gives the API a stable payload URL that
// outlives the editor session.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	interrors "taskboard/internal/errors"
	"taskboard/internal/logging"
)

// payloadNamePattern is the only filename shape the store reads back:
// 64 hex digest characters plus an optional short extension. Anything else
// in the directory is ignored, which doubles as path-escape defense.
var payloadNamePattern = regexp.MustCompile(`^[a-f0-9]{64}(\.[a-z0-9]{1,10})?$`)

var digestPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// readCacheSize bounds the LRU of recently served payloads.
const readCacheSize = 128

type cachedPayload struct {
	data []byte
	ext  string
}

// PayloadStore is a content-addressed file store. Writes are atomic
// (temp file + rename) and reads re-verify the digest before returning.
type PayloadStore struct {
	dir    string
	cache  *lru.Cache[string, cachedPayload]
	logger logging.Logger
}

// New opens (creating if needed) a payload store rooted at dir. A leading
// ~/ expands to the user's home directory.
func New(dir string, logger logging.Logger) (*PayloadStore, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("payload store dir is required")
	}
	if strings.HasPrefix(trimmed, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~/"))
		}
	}
	trimmed = filepath.Clean(trimmed)
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create payload store dir: %w", err)
	}
	cache, err := lru.New[string, cachedPayload](readCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create payload cache: %w", err)
	}
	return &PayloadStore{
		dir:    trimmed,
		cache:  cache,
		logger: logging.OrNop(logger),
	}, nil
}

// Dir returns the resolved store root.
func (s *PayloadStore) Dir() string {
	return s.dir
}

// Put persists data under its sha256 digest and returns the digest. Writing
// bytes that are already stored is a cheap no-op.
func (s *PayloadStore) Put(data []byte, ext string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("payload store is nil")
	}
	if len(data) == 0 {
		return "", interrors.NewInvalidInput("payload is empty", nil)
	}

	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	filename := digest + sanitizeExt(ext)
	path := filepath.Join(s.dir, filename)

	if _, err := os.Stat(path); err == nil {
		return digest, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("stat payload: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, filename+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp payload: %w", err)
	}
	tmpPath := tmp.Name()
	writeErr := func() error {
		if _, err := tmp.Write(data); err != nil {
			return err
		}
		return tmp.Close()
	}()
	if writeErr != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write payload: %w", writeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		// A concurrent writer of the same digest wrote identical bytes, so
		// losing the rename race is success.
		if _, statErr := os.Stat(path); statErr == nil {
			return digest, nil
		}
		return "", fmt.Errorf("finalize payload: %w", err)
	}

	s.logger.Debug("store: persisted payload %s (%d bytes)", filename, len(data))
	return digest, nil
}

// Get returns the payload bytes and stored extension for a digest. The
// bytes are re-hashed before they are served; a mismatch means on-disk
// corruption and is an error, never silently served.
func (s *PayloadStore) Get(digest string) ([]byte, string, error) {
	if !digestPattern.MatchString(digest) {
		return nil, "", interrors.NewInvalidInput(fmt.Sprintf("malformed payload digest %q", digest), nil)
	}

	if hit, ok := s.cache.Get(digest); ok {
		return hit.data, hit.ext, nil
	}

	path, ext, err := s.find(digest)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read payload: %w", err)
	}

	sum := sha256.Sum256(data)
	if hex.EncodeToString(sum[:]) != digest {
		return nil, "", fmt.Errorf("payload %s failed digest verification", digest)
	}

	s.cache.Add(digest, cachedPayload{data: data, ext: ext})
	return data, ext, nil
}

// Has reports whether a payload for the digest exists.
func (s *PayloadStore) Has(digest string) bool {
	if !digestPattern.MatchString(digest) {
		return false
	}
	if _, ok := s.cache.Get(digest); ok {
		return true
	}
	_, _, err := s.find(digest)
	return err == nil
}

// find locates the stored file for a digest, tolerating any extension it
// was written with.
func (s *PayloadStore) find(digest string) (path, ext string, err error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, digest+"*"))
	if err != nil {
		return "", "", fmt.Errorf("scan payload store: %w", err)
	}
	for _, match := range matches {
		name := filepath.Base(match)
		if !payloadNamePattern.MatchString(name) {
			continue
		}
		if idx := strings.IndexByte(name, '.'); idx >= 0 {
			ext = name[idx+1:]
		}
		return match, ext, nil
	}
	return "", "", interrors.NewNotFound("payload", digest)
}

// sanitizeExt reduces an extension to lowercase ASCII alphanumerics of at
// most ten characters, or nothing.
func sanitizeExt(ext string) string {
	trimmed := strings.ToLower(strings.TrimSpace(ext))
	trimmed = strings.TrimPrefix(trimmed, ".")
	if trimmed == "" || len(trimmed) > 10 {
		return ""
	}
	for _, r := range trimmed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			continue
		}
		return ""
	}
	return "." + trimmed
}
