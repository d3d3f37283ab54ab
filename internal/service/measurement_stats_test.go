package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/babyline/internal/model"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := computeStats(nil)
	require.Zero(t, stats.Total)
	require.Empty(t, stats.FirstDate)
	require.Zero(t, stats.AvgWeightKg)
}

func TestComputeStats(t *testing.T) {
	// newest first, matching repo list order
	items := []model.Measurement{
		{MeasuredAt: "2026-03-01", WeightKg: 7.5, HeightCm: 64},
		{MeasuredAt: "2026-02-01", WeightKg: 6.8, HeightCm: 62},
		{MeasuredAt: "2026-01-01", WeightKg: 6.1, HeightCm: 60},
	}
	stats := computeStats(items)
	require.Equal(t, 3, stats.Total)
	require.Equal(t, "2026-01-01", stats.FirstDate)
	require.Equal(t, "2026-03-01", stats.LatestDate)
	require.InDelta(t, 1.4, stats.WeightChangeKg, 0.001)
	require.InDelta(t, 4.0, stats.HeightChangeCm, 0.001)
	require.InDelta(t, 6.8, stats.AvgWeightKg, 0.001)
	require.InDelta(t, 62.0, stats.AvgHeightCm, 0.001)
	require.InDelta(t, 7.5, stats.LatestWeightKg, 0.001)
}

func TestComputeStatsSkipsMissingValues(t *testing.T) {
	items := []model.Measurement{
		{MeasuredAt: "2026-02-01", WeightKg: 7.0},
		{MeasuredAt: "2026-01-01", HeightCm: 60},
	}
	stats := computeStats(items)
	require.Equal(t, 2, stats.Total)
	// change needs a value at both ends
	require.Zero(t, stats.WeightChangeKg)
	require.Zero(t, stats.HeightChangeCm)
	require.InDelta(t, 7.0, stats.AvgWeightKg, 0.001)
	require.InDelta(t, 60.0, stats.AvgHeightCm, 0.001)
}
