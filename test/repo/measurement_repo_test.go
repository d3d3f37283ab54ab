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

func TestMeasurementRepoListOrderAndRange(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	measurements := repo.NewMeasurementRepo(db)
	now := timeutil.NowUnix()

	for _, date := range []string{"2026-01-01", "2026-02-01", "2026-03-01"} {
		require.NoError(t, measurements.Create(context.Background(), &model.Measurement{
			ID:         uuid.NewString(),
			BabyID:     babyID,
			MeasuredAt: date,
			WeightKg:   6.0,
			RecordedBy: ownerID,
			Ctime:      now,
			Mtime:      now,
		}))
	}

	items, err := measurements.ListByBaby(context.Background(), babyID, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "2026-03-01", items[0].MeasuredAt)
	require.Equal(t, "2026-01-01", items[2].MeasuredAt)

	limited, err := measurements.ListByBaby(context.Background(), babyID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)

	ranged, err := measurements.ListByDateRange(context.Background(), babyID, "2026-01-15", "2026-02-15")
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	require.Equal(t, "2026-02-01", ranged[0].MeasuredAt)

	count, err := measurements.Count(context.Background(), babyID)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestMeasurementRepoOwnerScoping(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ownerID, babyID := seedOwnerAndBaby(t, db)
	measurements := repo.NewMeasurementRepo(db)
	now := timeutil.NowUnix()

	m := &model.Measurement{
		ID:         uuid.NewString(),
		BabyID:     babyID,
		MeasuredAt: "2026-02-01",
		WeightKg:   6.2,
		RecordedBy: ownerID,
		Ctime:      now,
		Mtime:      now,
	}
	require.NoError(t, measurements.Create(context.Background(), m))

	_, err := measurements.GetByID(context.Background(), ownerID, m.ID)
	require.NoError(t, err)
	_, err = measurements.GetByID(context.Background(), uuid.NewString(), m.ID)
	require.ErrorIs(t, err, appErr.ErrNotFound)

	m.WeightKg = 6.5
	m.Mtime = timeutil.NowUnix()
	require.ErrorIs(t, measurements.Update(context.Background(), uuid.NewString(), m), appErr.ErrNotFound)
	require.NoError(t, measurements.Update(context.Background(), ownerID, m))

	require.ErrorIs(t, measurements.Delete(context.Background(), uuid.NewString(), m.ID), appErr.ErrNotFound)
	require.NoError(t, measurements.Delete(context.Background(), ownerID, m.ID))
}
