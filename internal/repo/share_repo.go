package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/babyline/internal/model"
	"github.com/xxxsen/babyline/internal/pkg/dbutil"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

var shareFields = []string{"id", "baby_id", "token", "password_hash", "created_by", "state", "expires_at", "ctime", "mtime"}

type ShareRepo struct {
	db *sql.DB
}

func NewShareRepo(db *sql.DB) *ShareRepo {
	return &ShareRepo{db: db}
}

// Create returns ErrConflict on a duplicate token so the caller can
// regenerate; the unique index on token is the authoritative guard.
func (r *ShareRepo) Create(ctx context.Context, link *model.ShareLink) error {
	data := map[string]interface{}{
		"id":            link.ID,
		"baby_id":       link.BabyID,
		"token":         link.Token,
		"password_hash": link.PasswordHash,
		"created_by":    link.CreatedBy,
		"state":         link.State,
		"expires_at":    link.ExpiresAt,
		"ctime":         link.Ctime,
		"mtime":         link.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("share_links", []map[string]interface{}{data})
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

// GetByToken satisfies the policy engine's ShareStore. The state and expiry
// checks live in the engine, not here, so the uniform denial is decided in
// one place.
func (r *ShareRepo) GetByToken(ctx context.Context, token string) (*model.ShareLink, error) {
	return r.getOne(ctx, map[string]interface{}{"token": token})
}

// GetByID is owner-scoped.
func (r *ShareRepo) GetByID(ctx context.Context, userID, linkID string) (*model.ShareLink, error) {
	return r.getOne(ctx, map[string]interface{}{"id": linkID, "created_by": userID})
}

func (r *ShareRepo) ListByBaby(ctx context.Context, userID, babyID string) ([]model.ShareLink, error) {
	where := map[string]interface{}{"baby_id": babyID, "created_by": userID, "_orderby": "ctime desc"}
	sqlStr, args, err := builder.BuildSelect("share_links", where, shareFields)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := make([]model.ShareLink, 0)
	for rows.Next() {
		var link model.ShareLink
		if err := scanShare(rows, &link); err != nil {
			return nil, err
		}
		items = append(items, link)
	}
	return items, rows.Err()
}

// Revoke marks a link inactive. Revoking an already revoked link is a no-op
// success; there is no path back to the active state.
func (r *ShareRepo) Revoke(ctx context.Context, userID, linkID string, mtime int64) error {
	where := map[string]interface{}{"id": linkID, "created_by": userID, "state": model.ShareStateActive}
	update := map[string]interface{}{"state": model.ShareStateRevoked, "mtime": mtime}
	sqlStr, args, err := builder.BuildUpdate("share_links", where, update)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ShareRepo) getOne(ctx context.Context, where map[string]interface{}) (*model.ShareLink, error) {
	sqlStr, args, err := builder.BuildSelect("share_links", where, shareFields)
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
	var link model.ShareLink
	if err := scanShare(rows, &link); err != nil {
		return nil, err
	}
	return &link, nil
}

func scanShare(rows *sql.Rows, link *model.ShareLink) error {
	return rows.Scan(&link.ID, &link.BabyID, &link.Token, &link.PasswordHash, &link.CreatedBy, &link.State, &link.ExpiresAt, &link.Ctime, &link.Mtime)
}
