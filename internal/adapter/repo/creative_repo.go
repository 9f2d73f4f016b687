package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/azulcreative/server/internal/domain"
)

// CreativeRepositoryPG implements domain.RemoteGalleryStore backed by
// PostgreSQL. Driver failures are folded into the domain error taxonomy so
// callers can decide between falling back to the local cache and surfacing
// the problem.
type CreativeRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCreativeRepository creates a new CreativeRepositoryPG.
func NewCreativeRepository(pool *pgxpool.Pool) *CreativeRepositoryPG {
	return &CreativeRepositoryPG{pool: pool}
}

// Insert stores a creative for the given user.
func (r *CreativeRepositoryPG) Insert(ctx context.Context, userID string, creative domain.Creative) error {
	settings, err := json.Marshal(creative.Settings)
	if err != nil {
		return fmt.Errorf("repo: encode settings: %w", err)
	}

	query := `
INSERT INTO creatives (id, user_id, image_data, settings, caption, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
ON CONFLICT (id) DO UPDATE
SET image_data = EXCLUDED.image_data,
    settings   = EXCLUDED.settings,
    caption    = EXCLUDED.caption;
`
	if _, err := r.pool.Exec(ctx, query, creative.ID, userID, creative.URL, settings, creative.Caption, creative.Timestamp); err != nil {
		return classifyPGError(err)
	}
	return nil
}

// ListByUser returns the user's creatives newest first. A limit of zero or
// less returns all rows.
func (r *CreativeRepositoryPG) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Creative, error) {
	query := `
SELECT id, image_data, settings, COALESCE(caption, ''), created_at
FROM creatives
WHERE user_id = $1
ORDER BY created_at DESC
`
	args := []any{userID}
	if limit > 0 {
		query += "LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyPGError(err)
	}
	defer rows.Close()

	items := []domain.Creative{}
	for rows.Next() {
		c, err := scanCreative(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPGError(err)
	}
	return items, nil
}

// UpdateCaption sets the caption on a creative.
func (r *CreativeRepositoryPG) UpdateCaption(ctx context.Context, creativeID, caption string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE creatives SET caption = $2 WHERE id = $1`, creativeID, caption)
	if err != nil {
		return classifyPGError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a creative.
func (r *CreativeRepositoryPG) Delete(ctx context.Context, creativeID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM creatives WHERE id = $1`, creativeID); err != nil {
		return classifyPGError(err)
	}
	return nil
}

func scanCreative(row pgx.Row) (domain.Creative, error) {
	var (
		c        domain.Creative
		settings []byte
	)
	if err := row.Scan(&c.ID, &c.URL, &settings, &c.Caption, &c.Timestamp); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Creative{}, domain.ErrNotFound
		}
		return domain.Creative{}, classifyPGError(err)
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &c.Settings); err != nil {
			return domain.Creative{}, fmt.Errorf("repo: decode settings: %w", err)
		}
	}
	return c, nil
}

// classifyPGError maps PostgreSQL error codes onto the domain taxonomy.
// Privilege and authentication failures read as permission problems,
// resource exhaustion as quota, everything else as a transport fault.
func classifyPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501" || pgErr.Code == "28000" || pgErr.Code == "28P01":
			return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, pgErr.Message)
		case strings.HasPrefix(pgErr.Code, "53"):
			return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrTransport, err)
}
