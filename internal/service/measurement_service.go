package service

import (
	"context"
	"math"

	"github.com/xxxsen/babyline/internal/access"
	"github.com/xxxsen/babyline/internal/model"
	"github.com/xxxsen/babyline/internal/pkg/timeutil"
	"github.com/xxxsen/babyline/internal/repo"
)

type MeasurementService struct {
	measurements *repo.MeasurementRepo
	engine       *access.Engine
}

func NewMeasurementService(measurements *repo.MeasurementRepo, engine *access.Engine) *MeasurementService {
	return &MeasurementService{measurements: measurements, engine: engine}
}

type MeasurementInput struct {
	MeasuredAt string
	WeightKg   float64
	HeightCm   float64
	Notes      string
}

func (s *MeasurementService) Create(ctx context.Context, ownerID, babyID string, in MeasurementInput) (*model.Measurement, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpCreate, babyID); err != nil {
		return nil, err
	}
	m, err := model.NewMeasurement(newID(), babyID, in.MeasuredAt, in.WeightKg, in.HeightCm, in.Notes, ownerID, timeutil.NowUnix())
	if err != nil {
		return nil, err
	}
	if err := s.measurements.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeasurementService) List(ctx context.Context, ownerID, babyID string, limit uint) ([]model.Measurement, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpRead, babyID); err != nil {
		return nil, err
	}
	return s.measurements.ListByBaby(ctx, babyID, limit)
}

func (s *MeasurementService) ListByDateRange(ctx context.Context, ownerID, babyID, startDate, endDate string) ([]model.Measurement, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpRead, babyID); err != nil {
		return nil, err
	}
	return s.measurements.ListByDateRange(ctx, babyID, startDate, endDate)
}

func (s *MeasurementService) Update(ctx context.Context, ownerID, measurementID string, in MeasurementInput) (*model.Measurement, error) {
	m, err := s.measurements.GetByID(ctx, ownerID, measurementID)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpUpdate, m.BabyID); err != nil {
		return nil, err
	}
	m.WeightKg = in.WeightKg
	m.HeightCm = in.HeightCm
	m.Notes = in.Notes
	m.Mtime = timeutil.NowUnix()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := s.measurements.Update(ctx, ownerID, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeasurementService) Delete(ctx context.Context, ownerID, measurementID string) error {
	m, err := s.measurements.GetByID(ctx, ownerID, measurementID)
	if err != nil {
		return err
	}
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpDelete, m.BabyID); err != nil {
		return err
	}
	return s.measurements.Delete(ctx, ownerID, measurementID)
}

type GrowthStats struct {
	Total           int     `json:"total"`
	FirstDate       string  `json:"first_date,omitempty"`
	LatestDate      string  `json:"latest_date,omitempty"`
	WeightChangeKg  float64 `json:"weight_change_kg"`
	HeightChangeCm  float64 `json:"height_change_cm"`
	AvgWeightKg     float64 `json:"avg_weight_kg"`
	AvgHeightCm     float64 `json:"avg_height_cm"`
	LatestWeightKg  float64 `json:"latest_weight_kg"`
	LatestHeightCm  float64 `json:"latest_height_cm"`
}

func (s *MeasurementService) Stats(ctx context.Context, ownerID, babyID string) (*GrowthStats, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpRead, babyID); err != nil {
		return nil, err
	}
	items, err := s.measurements.ListByBaby(ctx, babyID, 0)
	if err != nil {
		return nil, err
	}
	return computeStats(items), nil
}

// computeStats expects newest-first input, the repo's list order.
func computeStats(items []model.Measurement) *GrowthStats {
	stats := &GrowthStats{Total: len(items)}
	if len(items) == 0 {
		return stats
	}
	latest := items[0]
	first := items[len(items)-1]
	stats.FirstDate = first.MeasuredAt
	stats.LatestDate = latest.MeasuredAt
	stats.LatestWeightKg = latest.WeightKg
	stats.LatestHeightCm = latest.HeightCm
	if first.WeightKg > 0 && latest.WeightKg > 0 {
		stats.WeightChangeKg = round(latest.WeightKg-first.WeightKg, 2)
	}
	if first.HeightCm > 0 && latest.HeightCm > 0 {
		stats.HeightChangeCm = round(latest.HeightCm-first.HeightCm, 1)
	}
	var weightSum, heightSum float64
	var weightCount, heightCount int
	for _, m := range items {
		if m.WeightKg > 0 {
			weightSum += m.WeightKg
			weightCount++
		}
		if m.HeightCm > 0 {
			heightSum += m.HeightCm
			heightCount++
		}
	}
	if weightCount > 0 {
		stats.AvgWeightKg = round(weightSum/float64(weightCount), 2)
	}
	if heightCount > 0 {
		stats.AvgHeightCm = round(heightSum/float64(heightCount), 1)
	}
	return stats
}

func round(v float64, digits int) float64 {
	factor := math.Pow(10, float64(digits))
	return math.Round(v*factor) / factor
}
