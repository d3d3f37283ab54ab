package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/babyline/internal/model"
	"github.com/xxxsen/babyline/internal/pkg/dbutil"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

var photoFields = []string{"id", "baby_id", "file_key", "caption", "taken_at", "url", "url_expires_at", "uploaded_by", "ctime", "mtime"}

type PhotoRepo struct {
	db *sql.DB
}

func NewPhotoRepo(db *sql.DB) *PhotoRepo {
	return &PhotoRepo{db: db}
}

func (r *PhotoRepo) Create(ctx context.Context, photo *model.Photo) error {
	data := map[string]interface{}{
		"id":             photo.ID,
		"baby_id":        photo.BabyID,
		"file_key":       photo.FileKey,
		"caption":        photo.Caption,
		"taken_at":       photo.TakenAt,
		"url":            photo.URL,
		"url_expires_at": photo.URLExpiresAt,
		"uploaded_by":    photo.UploadedBy,
		"ctime":          photo.Ctime,
		"mtime":          photo.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("photos", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PhotoRepo) ListByBaby(ctx context.Context, babyID string, limit uint) ([]model.Photo, error) {
	where := map[string]interface{}{"baby_id": babyID, "_orderby": "taken_at desc"}
	if limit > 0 {
		where["_limit"] = []uint{0, limit}
	}
	sqlStr, args, err := builder.BuildSelect("photos", where, photoFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryList(ctx, sqlStr, args)
}

func (r *PhotoRepo) GetByID(ctx context.Context, userID, photoID string) (*model.Photo, error) {
	sqlStr, args := dbutil.Finalize(`
		SELECT p.id, p.baby_id, p.file_key, p.caption, p.taken_at, p.url, p.url_expires_at, p.uploaded_by, p.ctime, p.mtime
		FROM photos p
		JOIN babies b ON b.id = p.baby_id
		WHERE p.id = ? AND b.created_by = ?
	`, []interface{}{photoID, userID})
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	var photo model.Photo
	if err := scanPhoto(rows, &photo); err != nil {
		return nil, err
	}
	return &photo, nil
}

func (r *PhotoRepo) Delete(ctx context.Context, userID, photoID string) error {
	sqlStr, args := dbutil.Finalize(`
		DELETE FROM photos p
		WHERE p.id = ?
		  AND EXISTS (SELECT 1 FROM babies b WHERE b.id = p.baby_id AND b.created_by = ?)
	`, []interface{}{photoID, userID})
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

// ListURLExpiringBefore feeds the signed-url refresh job.
func (r *PhotoRepo) ListURLExpiringBefore(ctx context.Context, deadline int64, limit uint) ([]model.Photo, error) {
	where := map[string]interface{}{
		"url_expires_at >": 0,
		"url_expires_at <": deadline,
		"_orderby":         "url_expires_at asc",
		"_limit":           []uint{0, limit},
	}
	sqlStr, args, err := builder.BuildSelect("photos", where, photoFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return r.queryList(ctx, sqlStr, args)
}

func (r *PhotoRepo) UpdateURL(ctx context.Context, photoID, url string, urlExpiresAt, mtime int64) error {
	where := map[string]interface{}{"id": photoID}
	update := map[string]interface{}{"url": url, "url_expires_at": urlExpiresAt, "mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("photos", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *PhotoRepo) queryList(ctx context.Context, sqlStr string, args []interface{}) ([]model.Photo, error) {
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.Photo, 0)
	for rows.Next() {
		var photo model.Photo
		if err := scanPhoto(rows, &photo); err != nil {
			return nil, err
		}
		items = append(items, photo)
	}
	return items, rows.Err()
}

func scanPhoto(rows *sql.Rows, p *model.Photo) error {
	return rows.Scan(&p.ID, &p.BabyID, &p.FileKey, &p.Caption, &p.TakenAt, &p.URL, &p.URLExpiresAt, &p.UploadedBy, &p.Ctime, &p.Mtime)
}
