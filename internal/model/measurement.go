package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

// Realistic baby/toddler ranges; values outside them are rejected as input
// mistakes rather than stored.
const (
	MinWeightKg    = 0.5
	MaxWeightKg    = 50.0
	MinHeightCm    = 30.0
	MaxHeightCm    = 200.0
	MaxNotesLength = 500
)

// Measurement is a dated record under a baby. Zero weight/height means the
// field was not recorded; at least one of the two must be present.
type Measurement struct {
	ID         string  `json:"id"`
	BabyID     string  `json:"baby_id"`
	MeasuredAt string  `json:"measured_at"` // YYYY-MM-DD
	WeightKg   float64 `json:"weight_kg,omitempty"`
	HeightCm   float64 `json:"height_cm,omitempty"`
	Notes      string  `json:"notes,omitempty"`
	RecordedBy string  `json:"recorded_by"`
	Ctime      int64   `json:"ctime"`
	Mtime      int64   `json:"mtime"`
}

func NewMeasurement(id, babyID, measuredAt string, weightKg, heightCm float64, notes, recordedBy string, now int64) (*Measurement, error) {
	m := &Measurement{
		ID:         id,
		BabyID:     babyID,
		MeasuredAt: measuredAt,
		WeightKg:   weightKg,
		HeightCm:   heightCm,
		Notes:      notes,
		RecordedBy: recordedBy,
		Ctime:      now,
		Mtime:      now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Measurement) Validate() error {
	if m.WeightKg == 0 && m.HeightCm == 0 {
		return appErr.ErrInvalid
	}
	if m.WeightKg != 0 && (m.WeightKg < MinWeightKg || m.WeightKg > MaxWeightKg) {
		return appErr.ErrInvalid
	}
	if m.HeightCm != 0 && (m.HeightCm < MinHeightCm || m.HeightCm > MaxHeightCm) {
		return appErr.ErrInvalid
	}
	err := validation.ValidateStruct(m,
		validation.Field(&m.ID, validation.Required),
		validation.Field(&m.BabyID, validation.Required),
		validation.Field(&m.MeasuredAt, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&m.Notes, validation.Length(0, MaxNotesLength)),
	)
	if err != nil {
		return appErr.ErrInvalid
	}
	return nil
}
