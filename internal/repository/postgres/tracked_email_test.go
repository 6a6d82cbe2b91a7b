package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/openbeacon/internal/domain"
	"github.com/ignite/openbeacon/internal/service/track"
)

func newMockRepo(t *testing.T) (*TrackedEmailRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTrackedEmailRepo(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO tracked_emails").
		WithArgs(sqlmock.AnyArg(), "tok-1", "r@example.com", "hello", "owner-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), &domain.TrackedEmail{
		Token:          "tok-1",
		RecipientEmail: "r@example.com",
		Description:    "hello",
		OwnerUserID:    "owner-1",
		CreatedAt:      time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByToken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, seen FROM tracked_emails").
		WithArgs("tok-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seen"}).AddRow("id-1", false))

	state, err := repo.GetByToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", state.ID)
	assert.False(t, state.Seen)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByTokenNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, seen FROM tracked_emails").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "seen"}))

	_, err := repo.GetByToken(context.Background(), "missing")
	assert.ErrorIs(t, err, track.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSeenWinsTransition(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE tracked_emails").
		WithArgs("tok-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	won, err := repo.MarkSeen(context.Background(), "tok-1", at)
	require.NoError(t, err)
	assert.True(t, won)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSeenAlreadySeen(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Now().UTC()

	// seen=FALSE predicate matched nothing: a previous request already won.
	mock.ExpectExec("UPDATE tracked_emails").
		WithArgs("tok-1", at).
		WillReturnResult(sqlmock.NewResult(0, 0))

	won, err := repo.MarkSeen(context.Background(), "tok-1", at)
	require.NoError(t, err)
	assert.False(t, won)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	seenAt := now.Add(-time.Hour)

	mock.ExpectQuery("SELECT id, token, recipient_email").
		WithArgs("owner-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "token", "recipient_email", "description", "owner_user_id", "seen", "seen_at", "created_at",
		}).
			AddRow("id-1", "tok-1", "a@example.com", "first", "owner-1", true, seenAt, now.Add(-2*time.Hour)).
			AddRow("id-2", "tok-2", "b@example.com", "second", "owner-1", false, nil, now))

	emails, err := repo.List(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Len(t, emails, 2)

	assert.True(t, emails[0].Seen)
	require.NotNil(t, emails[0].SeenAt)
	assert.True(t, emails[0].SeenAt.Equal(seenAt))

	assert.False(t, emails[1].Seen)
	assert.Nil(t, emails[1].SeenAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
