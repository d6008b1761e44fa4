package store

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps the access token in a file under a state directory.
// This is the primary persistent storage of the client.
//
// Clear also sweeps a legacy directory, where older console builds kept
// their session artifacts.
type FileStore struct {
	stateDir  string
	legacyDir string
}

// NewFileStore creates a FileStore rooted at stateDir. legacyDir may be
// empty when there is no older installation to clean up after.
func NewFileStore(stateDir, legacyDir string) *FileStore {
	return &FileStore{stateDir: stateDir, legacyDir: legacyDir}
}

func (s *FileStore) tokenPath() string {
	return filepath.Join(s.stateDir, KeyAccessToken)
}

// Has reports whether a non-empty token is on disk.
func (s *FileStore) Has() bool {
	_, ok := s.Get()
	return ok
}

// Get reads the stored token. A missing or empty file yields ("", false).
func (s *FileStore) Get() (string, bool) {
	raw, err := os.ReadFile(s.tokenPath())
	if err != nil {
		return "", false
	}
	tok := strings.TrimSpace(string(raw))
	if tok == "" {
		return "", false
	}
	return tok, true
}

// Set writes the token to the primary location, creating the state
// directory on first use. The token is credential material, hence 0600.
func (s *FileStore) Set(token string) error {
	if err := os.MkdirAll(s.stateDir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.tokenPath(), []byte(token), 0o600)
}

// Clear removes the token and all legacy artifacts from both storage
// areas. Missing files are not errors; Clear is idempotent.
func (s *FileStore) Clear() error {
	dirs := []string{s.stateDir}
	if s.legacyDir != "" {
		dirs = append(dirs, s.legacyDir)
	}

	var errs []error
	for _, dir := range dirs {
		for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUser} {
			if err := os.Remove(filepath.Join(dir, key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
