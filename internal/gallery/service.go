package gallery

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/localstore"
)

// Service reconciles the cloud gallery with the per-user local cache. The
// remote store is optional; when it is absent every operation works purely
// against the cache. When it is present the cloud is the source of truth
// and the cache is both a fallback for remote outages and a write-behind
// copy kept current on every read.
type Service struct {
	remote domain.RemoteGalleryStore
	local  *localstore.Store
	logger zerolog.Logger
}

// New constructs a Service. remote may be nil for cache-only deployments.
func New(remote domain.RemoteGalleryStore, local *localstore.Store, logger zerolog.Logger) *Service {
	return &Service{remote: remote, local: local, logger: logger}
}

// Save stores a freshly generated creative and returns the resulting
// gallery, newest first and capped at MaxGalleryItems. With a remote store
// the insert is followed by cap enforcement against the cloud rows; any
// remote failure degrades to a cache-only save so the user never loses the
// artifact they just produced.
func (s *Service) Save(ctx context.Context, userID string, creative domain.Creative) ([]domain.Creative, error) {
	if s.remote == nil {
		return s.local.Put(userID, creative)
	}

	if err := s.remote.Insert(ctx, userID, creative); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("gallery: remote insert failed, saving to cache")
		return s.local.Put(userID, creative)
	}
	if err := s.enforceRemoteCap(ctx, userID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("gallery: remote cap enforcement failed")
	}
	return s.Fetch(ctx, userID), nil
}

// Fetch returns the user's gallery. Remote reads refresh the cache; a
// failed or empty remote read falls back to whatever the cache holds.
func (s *Service) Fetch(ctx context.Context, userID string) []domain.Creative {
	if s.remote == nil {
		return s.local.Get(userID)
	}

	items, err := s.remote.ListByUser(ctx, userID, domain.MaxGalleryItems)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("gallery: remote list failed, serving cache")
		return s.local.Get(userID)
	}
	if len(items) == 0 {
		// An empty cloud gallery may mean the rows simply have not
		// synced yet, so prefer any cached copy.
		return s.local.Get(userID)
	}
	s.refreshCache(userID, items)
	return items
}

// UpdateCaption applies the caption locally first, then mirrors it to the
// remote store on a best-effort basis. Captioning never fails.
func (s *Service) UpdateCaption(ctx context.Context, userID, creativeID, caption string) {
	s.local.UpdateCaption(userID, creativeID, caption)
	if s.remote == nil {
		return
	}
	if err := s.remote.UpdateCaption(ctx, creativeID, caption); err != nil {
		s.logger.Warn().Err(err).Str("creative_id", creativeID).Msg("gallery: remote caption update failed")
	}
}

// Delete removes the creative from the cache and, when configured, from
// the remote store, returning the resulting gallery.
func (s *Service) Delete(ctx context.Context, userID, creativeID string) []domain.Creative {
	localItems := s.local.Remove(userID, creativeID)
	if s.remote == nil {
		return localItems
	}

	if err := s.remote.Delete(ctx, creativeID); err != nil {
		s.logger.Warn().Err(err).Str("creative_id", creativeID).Msg("gallery: remote delete failed")
		return localItems
	}
	items, err := s.remote.ListByUser(ctx, userID, domain.MaxGalleryItems)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("gallery: remote list after delete failed")
		return localItems
	}
	s.refreshCache(userID, items)
	return items
}

// enforceRemoteCap trims cloud rows beyond MaxGalleryItems, oldest first.
func (s *Service) enforceRemoteCap(ctx context.Context, userID string) error {
	all, err := s.remote.ListByUser(ctx, userID, 0)
	if err != nil {
		return err
	}
	for _, stale := range all[min(len(all), domain.MaxGalleryItems):] {
		if err := s.remote.Delete(ctx, stale.ID); err != nil {
			return err
		}
	}
	return nil
}

// refreshCache rewrites the cached gallery to mirror the remote rows.
func (s *Service) refreshCache(userID string, items []domain.Creative) {
	for i := len(items) - 1; i >= 0; i-- {
		if _, err := s.local.Put(userID, items[i]); err != nil {
			s.logger.Debug().Err(err).Str("user_id", userID).Msg("gallery: cache refresh write failed")
			return
		}
	}
}
