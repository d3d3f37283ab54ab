package service

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/babyline/internal/access"
	"github.com/xxxsen/babyline/internal/filestore"
	"github.com/xxxsen/babyline/internal/model"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
	"github.com/xxxsen/babyline/internal/pkg/timeutil"
	"github.com/xxxsen/babyline/internal/repo"
)

const MaxPhotoSizeBytes = 10 << 20

type PhotoService struct {
	photos *repo.PhotoRepo
	store  filestore.Store
	engine *access.Engine
	urlTTL time.Duration
}

func NewPhotoService(photos *repo.PhotoRepo, store filestore.Store, engine *access.Engine, urlTTL time.Duration) *PhotoService {
	return &PhotoService{photos: photos, store: store, engine: engine, urlTTL: urlTTL}
}

type UploadPhotoInput struct {
	Filename string
	Size     int64
	Caption  string
	TakenAt  string
	Body     filestore.ReadSeekCloser
}

func (s *PhotoService) Upload(ctx context.Context, ownerID, babyID string, in UploadPhotoInput) (*model.Photo, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpCreate, babyID); err != nil {
		return nil, err
	}
	if in.Size <= 0 || in.Size > MaxPhotoSizeBytes {
		return nil, appErr.ErrInvalid
	}
	ext := strings.ToLower(filepath.Ext(in.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, appErr.ErrInvalid
	}
	key := newID() + ext
	if err := s.store.Save(ctx, key, in.Body, in.Size); err != nil {
		return nil, err
	}
	url, urlExpiresAt, err := s.store.URL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, err
	}
	photo, err := model.NewPhoto(newID(), babyID, key, in.Caption, in.TakenAt, ownerID, timeutil.NowUnix())
	if err != nil {
		return nil, err
	}
	photo.URL = url
	photo.URLExpiresAt = urlExpiresAt
	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *PhotoService) List(ctx context.Context, ownerID, babyID string, limit uint) ([]model.Photo, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpRead, babyID); err != nil {
		return nil, err
	}
	return s.photos.ListByBaby(ctx, babyID, limit)
}

func (s *PhotoService) Delete(ctx context.Context, ownerID, photoID string) error {
	photo, err := s.photos.GetByID(ctx, ownerID, photoID)
	if err != nil {
		return err
	}
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpDelete, photo.BabyID); err != nil {
		return err
	}
	return s.photos.Delete(ctx, ownerID, photoID)
}

// RefreshExpiringURLs re-signs photo links that die within the lead window.
// Rows whose links never expire are skipped by the repo query.
func (s *PhotoService) RefreshExpiringURLs(ctx context.Context, lead time.Duration, batch uint) (int, error) {
	deadline := time.Now().Add(lead).Unix()
	photos, err := s.photos.ListURLExpiringBefore(ctx, deadline, batch)
	if err != nil {
		return 0, err
	}
	refreshed := 0
	for _, photo := range photos {
		url, urlExpiresAt, err := s.store.URL(ctx, photo.FileKey, s.urlTTL)
		if err != nil {
			logutil.GetLogger(ctx).Error("refresh photo url failed",
				zap.String("photo_id", photo.ID),
				zap.Error(err),
			)
			continue
		}
		if err := s.photos.UpdateURL(ctx, photo.ID, url, urlExpiresAt, timeutil.NowUnix()); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	return refreshed, nil
}
