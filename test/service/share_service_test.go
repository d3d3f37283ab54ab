package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/babyline/internal/access"
	"github.com/xxxsen/babyline/internal/model"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
	"github.com/xxxsen/babyline/internal/pkg/password"
	"github.com/xxxsen/babyline/internal/pkg/timeutil"
	"github.com/xxxsen/babyline/internal/repo"
	"github.com/xxxsen/babyline/internal/service"
	"github.com/xxxsen/babyline/test/testutil"
)

type env struct {
	shares  *service.ShareService
	ownerID string
	babyID  string
}

func newEnv(t *testing.T, db *sql.DB) *env {
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

	babyRepo := repo.NewBabyRepo(db)
	baby := &model.Baby{
		ID:        uuid.NewString(),
		CreatedBy: user.ID,
		Name:      "June",
		Birthdate: "2025-01-15",
		Ctime:     now,
		Mtime:     now,
	}
	require.NoError(t, babyRepo.Create(context.Background(), baby))

	measurementRepo := repo.NewMeasurementRepo(db)
	require.NoError(t, measurementRepo.Create(context.Background(), &model.Measurement{
		ID:         uuid.NewString(),
		BabyID:     baby.ID,
		MeasuredAt: "2026-02-01",
		WeightKg:   6.2,
		HeightCm:   60,
		RecordedBy: user.ID,
		Ctime:      now,
		Mtime:      now,
	}))

	shareRepo := repo.NewShareRepo(db)
	photoRepo := repo.NewPhotoRepo(db)
	engine := access.NewEngine(babyRepo, shareRepo, password.Compare, nil)
	return &env{
		shares:  service.NewShareService(shareRepo, babyRepo, measurementRepo, photoRepo, engine),
		ownerID: user.ID,
		babyID:  baby.ID,
	}
}

func TestShareLinkLifecycle(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	e := newEnv(t, db)
	ctx := context.Background()

	link, err := e.shares.CreateShareLink(ctx, e.ownerID, e.babyID, service.CreateShareInput{
		Password:  "peekaboo",
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, link.Token)
	require.Equal(t, model.ShareStateActive, link.State)
	require.NotEmpty(t, link.PasswordHash)
	require.NotEqual(t, "peekaboo", link.PasswordHash)

	capability, err := e.shares.ValidateShareToken(ctx, link.Token, "peekaboo")
	require.NoError(t, err)
	require.Equal(t, e.babyID, capability.BabyID)
	require.True(t, capability.ReadOnly)

	_, err = e.shares.ValidateShareToken(ctx, link.Token, "wrong")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	_, err = e.shares.ValidateShareToken(ctx, link.Token, "")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	baby, err := e.shares.GetSharedBaby(ctx, link.Token, "peekaboo")
	require.NoError(t, err)
	require.Equal(t, "June", baby.Name)

	items, err := e.shares.ListSharedMeasurements(ctx, link.Token, "peekaboo", 0)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, e.shares.RevokeShareLink(ctx, e.ownerID, link.ID))
	_, err = e.shares.ValidateShareToken(ctx, link.Token, "peekaboo")
	require.ErrorIs(t, err, appErr.ErrNotFound)

	// revoking again succeeds silently
	require.NoError(t, e.shares.RevokeShareLink(ctx, e.ownerID, link.ID))
}

func TestShareLinkWithoutPassword(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	e := newEnv(t, db)
	ctx := context.Background()

	link, err := e.shares.CreateShareLink(ctx, e.ownerID, e.babyID, service.CreateShareInput{})
	require.NoError(t, err)
	require.Empty(t, link.PasswordHash)
	require.Zero(t, link.ExpiresAt)

	// open link: any supplied password is ignored
	_, err = e.shares.ValidateShareToken(ctx, link.Token, "")
	require.NoError(t, err)
	_, err = e.shares.ValidateShareToken(ctx, link.Token, "anything")
	require.NoError(t, err)
}

func TestShareLinkCreateRejectsBadInput(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	e := newEnv(t, db)
	ctx := context.Background()

	_, err := e.shares.CreateShareLink(ctx, e.ownerID, e.babyID, service.CreateShareInput{
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = e.shares.CreateShareLink(ctx, e.ownerID, e.babyID, service.CreateShareInput{
		Password: "abc",
	})
	require.ErrorIs(t, err, appErr.ErrInvalid)

	// only the owner may share
	_, err = e.shares.CreateShareLink(ctx, uuid.NewString(), e.babyID, service.CreateShareInput{})
	require.ErrorIs(t, err, appErr.ErrForbidden)
}

func TestMultipleActiveLinksPerBaby(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	e := newEnv(t, db)
	ctx := context.Background()

	first, err := e.shares.CreateShareLink(ctx, e.ownerID, e.babyID, service.CreateShareInput{})
	require.NoError(t, err)
	second, err := e.shares.CreateShareLink(ctx, e.ownerID, e.babyID, service.CreateShareInput{})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// revoking one leaves the other usable
	require.NoError(t, e.shares.RevokeShareLink(ctx, e.ownerID, first.ID))
	_, err = e.shares.ValidateShareToken(ctx, first.Token, "")
	require.ErrorIs(t, err, appErr.ErrNotFound)
	_, err = e.shares.ValidateShareToken(ctx, second.Token, "")
	require.NoError(t, err)
}

func TestRevokeRequiresOwnership(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	e := newEnv(t, db)
	ctx := context.Background()

	link, err := e.shares.CreateShareLink(ctx, e.ownerID, e.babyID, service.CreateShareInput{})
	require.NoError(t, err)

	require.ErrorIs(t, e.shares.RevokeShareLink(ctx, uuid.NewString(), link.ID), appErr.ErrNotFound)
	_, err = e.shares.ValidateShareToken(ctx, link.Token, "")
	require.NoError(t, err)

	require.NoError(t, e.shares.RevokeShareLink(ctx, e.ownerID, link.ID))
	_, err = e.shares.ValidateShareToken(ctx, link.Token, "")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestUnknownTokenDenied(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()
	e := newEnv(t, db)

	_, err := e.shares.ValidateShareToken(context.Background(), uuid.NewString(), "")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
