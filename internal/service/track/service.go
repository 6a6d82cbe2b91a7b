package track

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/openbeacon/internal/domain"
	"github.com/ignite/openbeacon/internal/pkg/logger"
	"github.com/ignite/openbeacon/internal/token"
)

// OpenOutcome classifies what a single open request did. Every outcome maps
// to the identical HTTP response; outcomes exist for logging and tests.
type OpenOutcome int

const (
	// OpenSkipped: no token on the request, store never contacted.
	OpenSkipped OpenOutcome = iota
	// OpenRecorded: this request won the seen-transition.
	OpenRecorded
	// OpenAlreadySeen: terminal state reached earlier; no-op.
	OpenAlreadySeen
	// OpenUnknownToken: token resolves to nothing. Includes the compose-time
	// race where the pixel is fetched before the issuer's row commits; the
	// mail client's own re-fetch retries that case.
	OpenUnknownToken
	// OpenStoreFault: the store failed or timed out mid-protocol.
	OpenStoreFault
)

var outcomeNames = map[OpenOutcome]string{
	OpenSkipped:      "skipped",
	OpenRecorded:     "recorded",
	OpenAlreadySeen:  "already_seen",
	OpenUnknownToken: "unknown_token",
	OpenStoreFault:   "store_fault",
}

// String returns the log name of the outcome.
func (o OpenOutcome) String() string { return outcomeNames[o] }

// IssueInput holds the compose-time metadata for a new tracked email.
type IssueInput struct {
	RecipientEmail string `json:"recipient_email"`
	Description    string `json:"description"`
	OwnerUserID    string `json:"owner_user_id"`
}

// IssuedEmail is the issuer's response: the persisted row plus the pixel
// artifacts the compose flow embeds in the outgoing email.
type IssuedEmail struct {
	domain.TrackedEmail
	PixelURL string `json:"pixel_url"`
	ImgTag   string `json:"img_tag"`
}

// Service implements token issuance and open recording. Stateless across
// requests: all coordination goes through the repository's conditional
// write, so concurrent invocations need no in-process synchronization.
type Service struct {
	repo         Repository
	cache        SeenCache // nil disables the seen cache
	baseURL      string
	storeTimeout time.Duration
	now          func() time.Time
}

// NewService creates a tracking service. cache may be nil.
func NewService(repo Repository, cache SeenCache, baseURL string, storeTimeout time.Duration) *Service {
	if storeTimeout <= 0 {
		storeTimeout = 3 * time.Second
	}
	return &Service{
		repo:         repo,
		cache:        cache,
		baseURL:      baseURL,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// Issue mints a token, persists the pending row, and returns the row with
// its pixel URL and img tag. The row must be durably committed before the
// caller sends the email.
func (s *Service) Issue(ctx context.Context, in IssueInput) (*IssuedEmail, error) {
	if !domain.ValidRecipient(in.RecipientEmail) {
		return nil, ErrInvalidRecipient
	}

	e := &domain.TrackedEmail{
		ID:             uuid.New().String(),
		Token:          token.New(),
		RecipientEmail: strings.TrimSpace(in.RecipientEmail),
		Description:    in.Description,
		OwnerUserID:    in.OwnerUserID,
		Seen:           false,
		CreatedAt:      s.now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return &IssuedEmail{
		TrackedEmail: *e,
		PixelURL:     token.PixelURL(s.baseURL, e.Token),
		ImgTag:       token.ImgTag(s.baseURL, e.Token),
	}, nil
}

// List returns an owner's tracked emails for the dashboard collaborator.
func (s *Service) List(ctx context.Context, ownerUserID string) ([]domain.TrackedEmail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.repo.List(ctx, ownerUserID)
}

// RecordOpen runs the recorder state machine for one pixel fetch. It never
// returns an error: every fault is absorbed here so the handler can answer
// with the uniform pixel response regardless of outcome.
func (s *Service) RecordOpen(ctx context.Context, tok string) OpenOutcome {
	if tok == "" {
		logger.Debug("open request without token")
		return OpenSkipped
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	// Terminal-state cache: repeat opens are the common case and need no
	// store round trip. Cache errors degrade to a miss.
	if s.cache != nil {
		if seen, err := s.cache.IsSeen(ctx, tok); err != nil {
			logger.Warn("seen cache unavailable", "token", tok, "error", err.Error())
		} else if seen {
			logger.Debug("open short-circuited by cache", "token", tok)
			return OpenAlreadySeen
		}
	}

	state, err := s.repo.GetByToken(ctx, tok)
	if errors.Is(err, ErrNotFound) {
		logger.Info("open for unknown token", "token", tok)
		return OpenUnknownToken
	}
	if err != nil {
		logger.Error("open lookup failed", "token", tok, "step", "resolve", "error", err.Error())
		return OpenStoreFault
	}

	if state.Seen {
		s.cacheSeen(ctx, tok)
		logger.Debug("open for already-seen email", "token", tok, "id", state.ID)
		return OpenAlreadySeen
	}

	won, err := s.repo.MarkSeen(ctx, tok, s.now().UTC())
	if err != nil {
		logger.Error("open transition failed", "token", tok, "step", "transition", "error", err.Error())
		return OpenStoreFault
	}

	s.cacheSeen(ctx, tok)
	if !won {
		// A concurrent request beat us to the transition.
		logger.Debug("open lost transition race", "token", tok, "id", state.ID)
		return OpenAlreadySeen
	}

	logger.Info("open recorded", "token", tok, "id", state.ID)
	return OpenRecorded
}

func (s *Service) cacheSeen(ctx context.Context, tok string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.MarkSeen(ctx, tok); err != nil {
		logger.Warn("seen cache write failed", "token", tok, "error", err.Error())
	}
}
