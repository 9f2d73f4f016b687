package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/azulcreative/server/internal/domain"
)

// FileBackend persists cache entries as JSON files under a base directory,
// one file per key. An optional byte budget emulates the bounded quota of a
// browser origin store: writes that would push the directory past MaxBytes
// fail with domain.ErrQuotaExceeded, as do writes hitting a full disk.
type FileBackend struct {
	basePath string
	maxBytes int64
}

// NewFileBackend initializes a FileBackend rooted at basePath. maxBytes of
// zero disables the quota.
func NewFileBackend(basePath string, maxBytes int64) (*FileBackend, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("localstore: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: ensure base path: %w", err)
	}
	return &FileBackend{basePath: basePath, maxBytes: maxBytes}, nil
}

func (b *FileBackend) path(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("localstore: key is required")
	}
	cleaned := filepath.Clean(key)
	if cleaned != filepath.Base(cleaned) {
		return "", errors.New("localstore: invalid key")
	}
	return filepath.Join(b.basePath, cleaned+".json"), nil
}

// ReadItem returns the stored bytes for key, or an error when the entry is
// absent or unreadable.
func (b *FileBackend) ReadItem(key string) ([]byte, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// WriteItem persists data at key, enforcing the configured byte budget
// across all entries before touching the disk.
func (b *FileBackend) WriteItem(key string, data []byte) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if b.maxBytes > 0 {
		used, err := b.usageExcluding(path)
		if err != nil {
			return fmt.Errorf("localstore: measure usage: %w", err)
		}
		if used+int64(len(data)) > b.maxBytes {
			return fmt.Errorf("localstore: write %s: %w", key, domain.ErrQuotaExceeded)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		if isDiskFull(err) {
			return fmt.Errorf("localstore: write %s: %w", key, domain.ErrQuotaExceeded)
		}
		return fmt.Errorf("localstore: write file: %w", err)
	}
	return nil
}

// RemoveItem deletes the entry for key. Removing an absent entry is not an
// error.
func (b *FileBackend) RemoveItem(key string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("localstore: remove file: %w", err)
	}
	return nil
}

// usageExcluding sums the size of every entry except the one being
// rewritten.
func (b *FileBackend) usageExcluding(path string) (int64, error) {
	entries, err := os.ReadDir(b.basePath)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(b.basePath, entry.Name())
		if full == path {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

func isDiskFull(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT)
}
