package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/babyline/internal/model"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
	"github.com/xxxsen/babyline/internal/pkg/timeutil"
	"github.com/xxxsen/babyline/internal/repo"
	"github.com/xxxsen/babyline/test/testutil"
)

func TestBabyRepoCRUDAndIsolation(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	babies := repo.NewBabyRepo(db)

	fetched, err := babies.GetByID(context.Background(), ownerID, babyID)
	require.NoError(t, err)
	require.Equal(t, "June", fetched.Name)

	owner, err := babies.GetOwner(context.Background(), babyID)
	require.NoError(t, err)
	require.Equal(t, ownerID, owner)

	_, err = babies.GetByID(context.Background(), uuid.NewString(), babyID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	fetched.Name = "June Rose"
	fetched.Mtime = timeutil.NowUnix()
	require.NoError(t, babies.Update(context.Background(), fetched))

	items, err := babies.List(context.Background(), ownerID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "June Rose", items[0].Name)

	require.NoError(t, babies.Delete(context.Background(), ownerID, babyID))
	_, err = babies.GetByID(context.Background(), ownerID, babyID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestBabyRepoDeleteCascades(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	babies := repo.NewBabyRepo(db)
	measurements := repo.NewMeasurementRepo(db)
	photos := repo.NewPhotoRepo(db)
	shares := repo.NewShareRepo(db)

	now := timeutil.NowUnix()
	require.NoError(t, measurements.Create(context.Background(), &model.Measurement{
		ID:         uuid.NewString(),
		BabyID:     babyID,
		MeasuredAt: "2026-02-01",
		WeightKg:   6.2,
		RecordedBy: ownerID,
		Ctime:      now,
		Mtime:      now,
	}))
	require.NoError(t, photos.Create(context.Background(), &model.Photo{
		ID:         uuid.NewString(),
		BabyID:     babyID,
		FileKey:    uuid.NewString() + ".jpg",
		TakenAt:    "2026-02-01",
		UploadedBy: ownerID,
		Ctime:      now,
		Mtime:      now,
	}))
	link := newShareLink(ownerID, babyID)
	require.NoError(t, shares.Create(context.Background(), link))

	require.NoError(t, babies.Delete(context.Background(), ownerID, babyID))

	count, err := measurements.Count(context.Background(), babyID)
	require.NoError(t, err)
	require.Zero(t, count)

	remaining, err := photos.ListByBaby(context.Background(), babyID, 0)
	require.NoError(t, err)
	require.Empty(t, remaining)

	_, err = shares.GetByToken(context.Background(), link.Token)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}

func TestBabyRepoDeleteMissing(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	babies := repo.NewBabyRepo(db)
	err := babies.Delete(context.Background(), uuid.NewString(), uuid.NewString())
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
