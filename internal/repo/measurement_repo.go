package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/babyline/internal/model"
	"github.com/xxxsen/babyline/internal/pkg/dbutil"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

var measurementFields = []string{"id", "baby_id", "measured_at", "weight_kg", "height_cm", "notes", "recorded_by", "ctime", "mtime"}

type MeasurementRepo struct {
	db *sql.DB
}

func NewMeasurementRepo(db *sql.DB) *MeasurementRepo {
	return &MeasurementRepo{db: db}
}

func (r *MeasurementRepo) Create(ctx context.Context, m *model.Measurement) error {
	data := map[string]interface{}{
		"id":          m.ID,
		"baby_id":     m.BabyID,
		"measured_at": m.MeasuredAt,
		"weight_kg":   m.WeightKg,
		"height_cm":   m.HeightCm,
		"notes":       m.Notes,
		"recorded_by": m.RecordedBy,
		"ctime":       m.Ctime,
		"mtime":       m.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("measurements", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

// ListByBaby returns measurements newest first. Callers authorize the baby
// read before asking for its children; child rows carry no policy of their
// own.
func (r *MeasurementRepo) ListByBaby(ctx context.Context, babyID string, limit uint) ([]model.Measurement, error) {
	where := map[string]interface{}{"baby_id": babyID, "_orderby": "measured_at desc"}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("measurements", where, measurementFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryList(ctx, sqlStr, args)
}

func (r *MeasurementRepo) ListByDateRange(ctx context.Context, babyID, startDate, endDate string) ([]model.Measurement, error) {
	where := map[string]interface{}{
		"baby_id":         babyID,
		"measured_at >=": startDate,
		"measured_at <=": endDate,
		"_orderby":        "measured_at asc",
	}
	sqlStr, args, err := builder.BuildSelect("measurements", where, measurementFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryList(ctx, sqlStr, args)
}

// Update is owner-scoped through the parent baby. The measurement date is
// immutable; record a new measurement instead.
func (r *MeasurementRepo) Update(ctx context.Context, userID string, m *model.Measurement) error {
	sqlStr, args := dbutil.Finalize(`
		UPDATE measurements m
		SET weight_kg = ?, height_cm = ?, notes = ?, mtime = ?
		WHERE m.id = ?
		  AND EXISTS (SELECT 1 FROM babies b WHERE b.id = m.baby_id AND b.created_by = ?)
	`, []interface{}{m.WeightKg, m.HeightCm, m.Notes, m.Mtime, m.ID, userID})
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *MeasurementRepo) Delete(ctx context.Context, userID, measurementID string) error {
	sqlStr, args := dbutil.Finalize(`
		DELETE FROM measurements m
		WHERE m.id = ?
		  AND EXISTS (SELECT 1 FROM babies b WHERE b.id = m.baby_id AND b.created_by = ?)
	`, []interface{}{measurementID, userID})
	result, err := r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return appErr.ErrNotFound
	}
	return nil
}

func (r *MeasurementRepo) GetByID(ctx context.Context, userID, measurementID string) (*model.Measurement, error) {
	sqlStr, args := dbutil.Finalize(`
		SELECT m.id, m.baby_id, m.measured_at, m.weight_kg, m.height_cm, m.notes, m.recorded_by, m.ctime, m.mtime
		FROM measurements m
		JOIN babies b ON b.id = m.baby_id
		WHERE m.id = ? AND b.created_by = ?
	`, []interface{}{measurementID, userID})
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var m model.Measurement
	if err := scanMeasurement(rows, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MeasurementRepo) Count(ctx context.Context, babyID string) (int, error) {
	sqlStr, args := dbutil.Finalize("SELECT COUNT(1) FROM measurements WHERE baby_id = ?", []interface{}{babyID})
	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MeasurementRepo) queryList(ctx context.Context, sqlStr string, args []interface{}) ([]model.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.Measurement, 0)
	for rows.Next() {
		var m model.Measurement
		if err := scanMeasurement(rows, &m); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func scanMeasurement(rows *sql.Rows, m *model.Measurement) error {
	return rows.Scan(&m.ID, &m.BabyID, &m.MeasuredAt, &m.WeightKg, &m.HeightCm, &m.Notes, &m.RecordedBy, &m.Ctime, &m.Mtime)
}
