package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/domain"
)

// KeyPrefix namespaces gallery entries in the backing store, one item per
// user: AZUL_GALLERY_<userId>.
const KeyPrefix = "AZUL_GALLERY_"

// Backend abstracts the durable key-value medium behind the cache. Writes
// that fail because the medium is out of space must return an error
// wrapping domain.ErrQuotaExceeded; the store recovers from those by
// evicting the oldest gallery entries and retrying.
type Backend interface {
	ReadItem(key string) ([]byte, error)
	WriteItem(key string, data []byte) error
	RemoveItem(key string) error
}

// Store keeps a bounded, newest-first gallery per user in a Backend. Reads
// never fail: absent or corrupt data is treated as an empty gallery. All
// mutations are read-modify-write under a per-user lock.
type Store struct {
	backend Backend
	logger  zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New constructs a Store over the given backend.
func New(backend Backend, logger zerolog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger,
		locks:   map[string]*sync.Mutex{},
	}
}

func (s *Store) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func galleryKey(userID string) string {
	return KeyPrefix + userID
}

// Put upserts the creative at the head of the user's gallery, truncates to
// MaxGalleryItems and persists. Quota failures are recovered by evicting
// the oldest entry and retrying; on success the returned list is the one
// actually persisted. When even a single-element list cannot be persisted
// the write is abandoned and the best-effort in-memory list is returned
// without error. Any other write failure is reported as a StorageFailure,
// still alongside the in-memory list so callers can keep the UI
// responsive.
func (s *Store) Put(userID string, creative domain.Creative) ([]domain.Creative, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	items := s.load(userID)

	// Idempotent upsert: drop any existing entry with the same id.
	filtered := items[:0]
	for _, item := range items {
		if item.ID != creative.ID {
			filtered = append(filtered, item)
		}
	}
	items = append([]domain.Creative{creative}, filtered...)
	if len(items) > domain.MaxGalleryItems {
		items = items[:domain.MaxGalleryItems]
	}

	persisted := items
	for {
		err := s.persist(userID, persisted)
		if err == nil {
			return persisted, nil
		}
		if !errors.Is(err, domain.ErrQuotaExceeded) {
			return items, fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
		}
		if len(persisted) <= 1 {
			s.logger.Warn().Str("user_id", userID).Msg("localstore: quota exhausted, gallery write abandoned")
			return items, nil
		}
		// Evict the oldest entry and retry.
		persisted = persisted[:len(persisted)-1]
		s.logger.Debug().Str("user_id", userID).Int("len", len(persisted)).Msg("localstore: quota pressure, evicting oldest")
	}
}

// Get returns the stored gallery. Absence and deserialization failures both
// read as an empty list.
func (s *Store) Get(userID string) []domain.Creative {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return s.load(userID)
}

// UpdateCaption sets the caption on the matching entry. Unknown ids and
// persistence failures are silently tolerated; captioning must never
// surface an error.
func (s *Store) UpdateCaption(userID, creativeID, caption string) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	items := s.load(userID)
	found := false
	for i := range items {
		if items[i].ID == creativeID {
			items[i].Caption = caption
			found = true
			break
		}
	}
	if !found {
		return
	}
	if err := s.persist(userID, items); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("localstore: caption write failed")
	}
}

// Remove filters out the entry and persists the result, returning the
// remaining list. Persistence failures are logged; the filtered in-memory
// list is returned regardless.
func (s *Store) Remove(userID, creativeID string) []domain.Creative {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	items := s.load(userID)
	remaining := items[:0]
	for _, item := range items {
		if item.ID != creativeID {
			remaining = append(remaining, item)
		}
	}
	if err := s.persist(userID, remaining); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("localstore: remove write failed")
	}
	return remaining
}

// Clear drops the user's cached gallery entirely.
func (s *Store) Clear(userID string) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	if err := s.backend.RemoveItem(galleryKey(userID)); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("localstore: clear failed")
	}
}

func (s *Store) load(userID string) []domain.Creative {
	raw, err := s.backend.ReadItem(galleryKey(userID))
	if err != nil || len(raw) == 0 {
		return []domain.Creative{}
	}
	var items []domain.Creative
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("localstore: corrupt gallery data, treating as empty")
		return []domain.Creative{}
	}
	return items
}

func (s *Store) persist(userID string, items []domain.Creative) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.backend.WriteItem(galleryKey(userID), raw)
}
