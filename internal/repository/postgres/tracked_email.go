// Package postgres implements the tracking repository against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignite/openbeacon/internal/domain"
	"github.com/ignite/openbeacon/internal/service/track"
)

// TrackedEmailRepo implements track.Repository against PostgreSQL.
type TrackedEmailRepo struct{ db *sql.DB }

// NewTrackedEmailRepo creates a Postgres-backed tracked-email repository.
func NewTrackedEmailRepo(db *sql.DB) *TrackedEmailRepo { return &TrackedEmailRepo{db: db} }

func (r *TrackedEmailRepo) Create(ctx context.Context, e *domain.TrackedEmail) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tracked_emails
			(id, token, recipient_email, description, owner_user_id, seen, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
	`, e.ID, e.Token, e.RecipientEmail, e.Description, e.OwnerUserID, e.CreatedAt)
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return track.ErrDuplicateToken
	}
	if err != nil {
		return fmt.Errorf("create tracked email: %w", err)
	}
	return nil
}

func (r *TrackedEmailRepo) GetByToken(ctx context.Context, token string) (*track.TokenState, error) {
	s := &track.TokenState{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, seen FROM tracked_emails WHERE token = $1
	`, token).Scan(&s.ID, &s.Seen)
	if err == sql.ErrNoRows {
		return nil, track.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	return s, nil
}

// MarkSeen is the single conditional write that closes the concurrent
// first-open race: the seen=FALSE predicate lets at most one request per
// token observe an affected row.
func (r *TrackedEmailRepo) MarkSeen(ctx context.Context, token string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tracked_emails
		SET seen = TRUE, seen_at = $2
		WHERE token = $1 AND seen = FALSE
	`, token, at)
	if err != nil {
		return false, fmt.Errorf("mark seen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark seen rows: %w", err)
	}
	return n == 1, nil
}

func (r *TrackedEmailRepo) List(ctx context.Context, ownerUserID string) ([]domain.TrackedEmail, error) {
	q := `
		SELECT id, token, recipient_email, COALESCE(description,''),
		       COALESCE(owner_user_id,''), seen, seen_at, created_at
		FROM tracked_emails`
	args := []interface{}{}
	if ownerUserID != "" {
		q += ` WHERE owner_user_id = $1`
		args = append(args, ownerUserID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tracked emails: %w", err)
	}
	defer rows.Close()

	var out []domain.TrackedEmail
	for rows.Next() {
		var e domain.TrackedEmail
		if err := rows.Scan(
			&e.ID, &e.Token, &e.RecipientEmail, &e.Description,
			&e.OwnerUserID, &e.Seen, &e.SeenAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tracked email: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
