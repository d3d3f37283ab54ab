package repo_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/babyline/internal/model"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
	"github.com/xxxsen/babyline/internal/pkg/timeutil"
	"github.com/xxxsen/babyline/internal/repo"
	"github.com/xxxsen/babyline/test/testutil"
)

func seedOwnerAndBaby(t *testing.T, db *sql.DB) (string, string) {
	t.Helper()
	now := timeutil.NowUnix()
	users := repo.NewUserRepo(db)
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Ctime:        now,
		Mtime:        now,
	}
	require.NoError(t, users.Create(context.Background(), user))

	babies := repo.NewBabyRepo(db)
	baby := &model.Baby{
		ID:        uuid.NewString(),
		CreatedBy: user.ID,
		Name:      "June",
		Birthdate: "2025-01-15",
		Ctime:     now,
		Mtime:     now,
	}
	require.NoError(t, babies.Create(context.Background(), baby))
	return user.ID, baby.ID
}

func newShareLink(ownerID, babyID string) *model.ShareLink {
	now := timeutil.NowUnix()
	return &model.ShareLink{
		ID:        uuid.NewString(),
		BabyID:    babyID,
		Token:     uuid.NewString(),
		CreatedBy: ownerID,
		State:     model.ShareStateActive,
		Ctime:     now,
		Mtime:     now,
	}
}

func TestShareRepoCRUDAndIsolation(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	shares := repo.NewShareRepo(db)

	link := newShareLink(ownerID, babyID)
	require.NoError(t, shares.Create(context.Background(), link))

	fetched, err := shares.GetByToken(context.Background(), link.Token)
	require.NoError(t, err)
	require.Equal(t, babyID, fetched.BabyID)
	require.Equal(t, model.ShareStateActive, fetched.State)

	_, err = shares.GetByID(context.Background(), ownerID, link.ID)
	require.NoError(t, err)

	_, err = shares.GetByID(context.Background(), uuid.NewString(), link.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	items, err := shares.ListByBaby(context.Background(), ownerID, babyID)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestShareRepoTokenUnique(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	shares := repo.NewShareRepo(db)

	first := newShareLink(ownerID, babyID)
	require.NoError(t, shares.Create(context.Background(), first))

	duplicate := newShareLink(ownerID, babyID)
	duplicate.Token = first.Token
	err := shares.Create(context.Background(), duplicate)
	require.ErrorIs(t, err, appErr.ErrConflict)
}

func TestShareRepoRevokeIsTerminal(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	shares := repo.NewShareRepo(db)

	link := newShareLink(ownerID, babyID)
	require.NoError(t, shares.Create(context.Background(), link))

	require.NoError(t, shares.Revoke(context.Background(), ownerID, link.ID, timeutil.NowUnix()))
	fetched, err := shares.GetByToken(context.Background(), link.Token)
	require.NoError(t, err)
	require.Equal(t, model.ShareStateRevoked, fetched.State)

	// revoking again is a no-op, not an error
	require.NoError(t, shares.Revoke(context.Background(), ownerID, link.ID, timeutil.NowUnix()))
	fetched, err = shares.GetByToken(context.Background(), link.Token)
	require.NoError(t, err)
	require.Equal(t, model.ShareStateRevoked, fetched.State)
}

func TestShareRepoRevokeScopedToOwner(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	shares := repo.NewShareRepo(db)

	link := newShareLink(ownerID, babyID)
	require.NoError(t, shares.Create(context.Background(), link))

	require.NoError(t, shares.Revoke(context.Background(), uuid.NewString(), link.ID, timeutil.NowUnix()))
	fetched, err := shares.GetByToken(context.Background(), link.Token)
	require.NoError(t, err)
	require.Equal(t, model.ShareStateActive, fetched.State)
}
