package gallery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/azulcreative/server/internal/domain"
	"github.com/azulcreative/server/internal/localstore"
)

type memBackend struct {
	items map[string][]byte
}

func (m *memBackend) ReadItem(key string) ([]byte, error) {
	raw, ok := m.items[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return raw, nil
}

func (m *memBackend) WriteItem(key string, data []byte) error {
	m.items[key] = data
	return nil
}

func (m *memBackend) RemoveItem(key string) error {
	delete(m.items, key)
	return nil
}

// fakeRemote is an in-memory domain.RemoteGalleryStore with switchable
// failures.
type fakeRemote struct {
	rows      []domain.Creative
	insertErr error
	listErr   error
	deleteErr error
}

func (f *fakeRemote) Insert(ctx context.Context, userID string, c domain.Creative) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.rows = append([]domain.Creative{c}, f.rows...)
	return nil
}

func (f *fakeRemote) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Creative, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit <= 0 || limit > len(f.rows) {
		limit = len(f.rows)
	}
	out := make([]domain.Creative, limit)
	copy(out, f.rows[:limit])
	return out, nil
}

func (f *fakeRemote) UpdateCaption(ctx context.Context, creativeID, caption string) error {
	for i := range f.rows {
		if f.rows[i].ID == creativeID {
			f.rows[i].Caption = caption
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeRemote) Delete(ctx context.Context, creativeID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.rows {
		if f.rows[i].ID == creativeID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func newLocal() *localstore.Store {
	return localstore.New(&memBackend{items: map[string][]byte{}}, zerolog.Nop())
}

func creativeN(n int) domain.Creative {
	return domain.Creative{
		ID:        fmt.Sprintf("id-%03d", n),
		URL:       fmt.Sprintf("data:image/png;base64,img%d", n),
		Timestamp: int64(1700000000000 + n),
	}
}

func TestSaveEnforcesRemoteCap(t *testing.T) {
	remote := &fakeRemote{}
	svc := New(remote, newLocal(), zerolog.Nop())
	ctx := context.Background()

	var items []domain.Creative
	for i := 0; i < domain.MaxGalleryItems+1; i++ {
		var err error
		items, err = svc.Save(ctx, "u1", creativeN(i))
		if err != nil {
			t.Fatalf("Save(%d) error = %v", i, err)
		}
	}

	if len(items) != domain.MaxGalleryItems {
		t.Fatalf("len(items) = %d, want %d", len(items), domain.MaxGalleryItems)
	}
	if len(remote.rows) != domain.MaxGalleryItems {
		t.Fatalf("remote rows = %d, want %d", len(remote.rows), domain.MaxGalleryItems)
	}
	if items[0].ID != "id-012" {
		t.Fatalf("items[0].ID = %q, want newest first", items[0].ID)
	}
	for _, row := range remote.rows {
		if row.ID == "id-000" {
			t.Fatalf("oldest row survived cap enforcement")
		}
	}
}

func TestSaveFallsBackToCacheOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{insertErr: domain.ErrTransport}
	local := newLocal()
	svc := New(remote, local, zerolog.Nop())

	items, err := svc.Save(context.Background(), "u1", creativeN(1))
	if err != nil {
		t.Fatalf("Save error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if got := local.Get("u1"); len(got) != 1 || got[0].ID != "id-001" {
		t.Fatalf("cache = %+v, want the saved creative", got)
	}
	if len(remote.rows) != 0 {
		t.Fatalf("remote rows = %d, want 0", len(remote.rows))
	}
}

func TestFetchPrefersRemoteAndRefreshesCache(t *testing.T) {
	remote := &fakeRemote{rows: []domain.Creative{creativeN(2), creativeN(1)}}
	local := newLocal()
	svc := New(remote, local, zerolog.Nop())

	items := svc.Fetch(context.Background(), "u1")
	if len(items) != 2 || items[0].ID != "id-002" {
		t.Fatalf("Fetch = %+v, want remote rows newest first", items)
	}
	if got := local.Get("u1"); len(got) != 2 || got[0].ID != "id-002" {
		t.Fatalf("cache after Fetch = %+v, want mirror of remote", got)
	}
}

func TestFetchFallsBackToCache(t *testing.T) {
	local := newLocal()
	if _, err := local.Put("u1", creativeN(7)); err != nil {
		t.Fatalf("Put error = %v", err)
	}

	cases := []struct {
		name   string
		remote *fakeRemote
	}{
		{"remote error", &fakeRemote{listErr: domain.ErrTransport}},
		{"permission denied", &fakeRemote{listErr: domain.ErrPermissionDenied}},
		{"empty remote", &fakeRemote{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := New(tc.remote, local, zerolog.Nop())
			items := svc.Fetch(context.Background(), "u1")
			if len(items) != 1 || items[0].ID != "id-007" {
				t.Fatalf("Fetch = %+v, want cached copy", items)
			}
		})
	}
}

func TestFetchWithoutRemoteUsesCache(t *testing.T) {
	local := newLocal()
	if _, err := local.Put("u1", creativeN(3)); err != nil {
		t.Fatalf("Put error = %v", err)
	}
	svc := New(nil, local, zerolog.Nop())

	items := svc.Fetch(context.Background(), "u1")
	if len(items) != 1 || items[0].ID != "id-003" {
		t.Fatalf("Fetch = %+v, want cached copy", items)
	}
}

func TestUpdateCaptionSwallowsRemoteFailure(t *testing.T) {
	local := newLocal()
	if _, err := local.Put("u1", creativeN(1)); err != nil {
		t.Fatalf("Put error = %v", err)
	}
	// The creative exists only locally; the remote rejects the update.
	svc := New(&fakeRemote{}, local, zerolog.Nop())

	svc.UpdateCaption(context.Background(), "u1", "id-001", "nova legenda")

	got := local.Get("u1")
	if len(got) != 1 || got[0].Caption != "nova legenda" {
		t.Fatalf("cache = %+v, want caption applied locally", got)
	}
}

func TestDeleteRemovesEverywhere(t *testing.T) {
	remote := &fakeRemote{rows: []domain.Creative{creativeN(2), creativeN(1)}}
	local := newLocal()
	svc := New(remote, local, zerolog.Nop())
	ctx := context.Background()

	svc.Fetch(ctx, "u1")
	items := svc.Delete(ctx, "u1", "id-002")

	if len(items) != 1 || items[0].ID != "id-001" {
		t.Fatalf("Delete = %+v, want remaining row", items)
	}
	if len(remote.rows) != 1 {
		t.Fatalf("remote rows = %d, want 1", len(remote.rows))
	}
}

func TestDeleteFallsBackToLocalListOnRemoteFailure(t *testing.T) {
	remote := &fakeRemote{rows: []domain.Creative{creativeN(2), creativeN(1)}, deleteErr: domain.ErrTransport}
	local := newLocal()
	svc := New(remote, local, zerolog.Nop())
	ctx := context.Background()

	svc.Fetch(ctx, "u1")
	items := svc.Delete(ctx, "u1", "id-002")

	if len(items) != 1 || items[0].ID != "id-001" {
		t.Fatalf("Delete = %+v, want local list without the entry", items)
	}
}
