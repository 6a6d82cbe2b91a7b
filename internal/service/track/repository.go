package track

import (
	"context"
	"time"

	"github.com/ignite/openbeacon/internal/domain"
)

// TokenState is the minimal projection the recorder needs to resolve a token.
type TokenState struct {
	ID   string
	Seen bool
}

// Repository defines the data access contract for tracked emails.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Create inserts a pending tracked email. Returns ErrDuplicateToken if
	// the token is already present.
	Create(ctx context.Context, e *domain.TrackedEmail) error

	// GetByToken resolves a token to id and seen state only.
	// Returns ErrNotFound if no row carries the token.
	GetByToken(ctx context.Context, token string) (*TokenState, error)

	// MarkSeen performs the conditional seen-transition: set seen=true and
	// seen_at=at where the token matches and seen is still false. Returns
	// true iff this call won the transition. Under concurrent first opens
	// of one token, exactly one caller observes true.
	MarkSeen(ctx context.Context, token string, at time.Time) (bool, error)

	// List returns an owner's tracked emails, newest first. Consumed by the
	// dashboard collaborator, never by the recorder.
	List(ctx context.Context, ownerUserID string) ([]domain.TrackedEmail, error)
}

// SeenCache is an optional shared cache of terminal seen state. Because
// seen never reverts, a positive entry can never go stale; implementations
// must never cache "not seen".
type SeenCache interface {
	// IsSeen reports whether the token is cached as seen. Errors are
	// treated as cache misses by the caller.
	IsSeen(ctx context.Context, token string) (bool, error)

	// MarkSeen records the token as seen.
	MarkSeen(ctx context.Context, token string) error
}
