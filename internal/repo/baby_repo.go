package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/babyline/internal/model"
	"github.com/xxxsen/babyline/internal/pkg/dbutil"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

var babyFields = []string{"id", "created_by", "name", "birthdate", "photo_key", "ctime", "mtime"}

type BabyRepo struct {
	db *sql.DB
}

func NewBabyRepo(db *sql.DB) *BabyRepo {
	return &BabyRepo{db: db}
}

func (r *BabyRepo) Create(ctx context.Context, baby *model.Baby) error {
	data := map[string]interface{}{
		"id":         baby.ID,
		"created_by": baby.CreatedBy,
		"name":       baby.Name,
		"birthdate":  baby.Birthdate,
		"photo_key":  baby.PhotoKey,
		"ctime":      baby.Ctime,
		"mtime":      baby.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("babies", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		if dbutil.IsConflict(err) {
			return appErr.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID is owner-scoped: a caller only ever sees their own babies.
func (r *BabyRepo) GetByID(ctx context.Context, userID, babyID string) (*model.Baby, error) {
	return r.getOne(ctx, map[string]interface{}{"id": babyID, "created_by": userID})
}

// GetUnscoped fetches a baby row without owner filtering. Viewer reads use it
// after the share token has been validated against the baby.
func (r *BabyRepo) GetUnscoped(ctx context.Context, babyID string) (*model.Baby, error) {
	return r.getOne(ctx, map[string]interface{}{"id": babyID})
}

// GetOwner satisfies the policy engine's BabyStore.
func (r *BabyRepo) GetOwner(ctx context.Context, babyID string) (string, error) {
	baby, err := r.GetUnscoped(ctx, babyID)
	if err != nil {
		return "", err
	}
	return baby.CreatedBy, nil
}

func (r *BabyRepo) List(ctx context.Context, userID string) ([]model.Baby, error) {
	where := map[string]interface{}{"created_by": userID, "_orderby": "ctime asc"}
	sqlStr, args, err := builder.BuildSelect("babies", where, babyFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.Baby, 0)
	for rows.Next() {
		var baby model.Baby
		if err := rows.Scan(&baby.ID, &baby.CreatedBy, &baby.Name, &baby.Birthdate, &baby.PhotoKey, &baby.Ctime, &baby.Mtime); err != nil {
			return nil, err
		}
		items = append(items, baby)
	}
	return items, rows.Err()
}

func (r *BabyRepo) Update(ctx context.Context, baby *model.Baby) error {
	where := map[string]interface{}{"id": baby.ID, "created_by": baby.CreatedBy}
	update := map[string]interface{}{
		"name":      baby.Name,
		"birthdate": baby.Birthdate,
		"photo_key": baby.PhotoKey,
		"mtime":     baby.Mtime,
	}
	sqlStr, args, err := builder.BuildUpdate("babies", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
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

// Delete removes a baby and everything hanging off it in one transaction.
// The explicit child deletes make the cascade independent of the FK clauses.
func (r *BabyRepo) Delete(ctx context.Context, userID, babyID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"share_links", "photos", "measurements"} {
		stmt, args := dbutil.Finalize(
			fmt.Sprintf("DELETE FROM %s WHERE baby_id = ? AND EXISTS (SELECT 1 FROM babies b WHERE b.id = ? AND b.created_by = ?)", table),
			[]interface{}{babyID, babyID, userID},
		)
		if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	stmt, args := dbutil.Finalize("DELETE FROM babies WHERE id = ? AND created_by = ?", []interface{}{babyID, userID})
	result, err := tx.ExecContext(ctx, stmt, args...)
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
	return tx.Commit()
}

func (r *BabyRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.Baby, error) {
	sqlStr, args, err := builder.BuildSelect("babies", where, babyFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var baby model.Baby
	if err := rows.Scan(&baby.ID, &baby.CreatedBy, &baby.Name, &baby.Birthdate, &baby.PhotoKey, &baby.Ctime, &baby.Mtime); err != nil {
		return nil, err
	}
	return &baby, nil
}
