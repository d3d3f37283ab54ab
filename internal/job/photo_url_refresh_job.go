package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/babyline/internal/service"
)

// PhotoURLRefreshJob re-signs photo links before they expire so viewers never
// hit a dead image in a still-valid shared timeline.
type PhotoURLRefreshJob struct {
	photos *service.PhotoService
	lead   time.Duration
	batch  uint
}

func NewPhotoURLRefreshJob(photos *service.PhotoService, lead time.Duration, batch uint) *PhotoURLRefreshJob {
	return &PhotoURLRefreshJob{photos: photos, lead: lead, batch: batch}
}

func (j *PhotoURLRefreshJob) Name() string {
	return "photo_url_refresh"
}

func (j *PhotoURLRefreshJob) Run(ctx context.Context) error {
	if j.photos == nil {
		return nil
	}
	lead := j.lead
	if lead <= 0 {
		lead = 24 * time.Hour
	}
	batch := j.batch
	if batch == 0 {
		batch = 200
	}
	refreshed, err := j.photos.RefreshExpiringURLs(ctx, lead, batch)
	if err != nil {
		return err
	}
	if refreshed > 0 {
		logutil.GetLogger(ctx).Info("photo urls refreshed", zap.Int("count", refreshed))
	}
	return nil
}
