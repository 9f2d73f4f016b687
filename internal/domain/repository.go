package domain

import "context"

// RemoteGalleryStore is the cloud half of a user's gallery. It is
// authoritative when reachable; callers never assume its operations succeed
// and fall back to the local cache on failure. A nil store means the remote
// backend is not configured.
type RemoteGalleryStore interface {
	Insert(ctx context.Context, userID string, creative Creative) error
	// ListByUser returns up to limit creatives ordered by timestamp
	// descending. limit <= 0 means no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]Creative, error)
	UpdateCaption(ctx context.Context, creativeID, caption string) error
	Delete(ctx context.Context, creativeID string) error
}

// UserStore defines persistence for accounts.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateStatus(ctx context.Context, id string, status UserStatus) error
	UpdateRole(ctx context.Context, id string, role UserRole) error
	Delete(ctx context.Context, id string) error
}
