package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/babyline/internal/access"
	"github.com/xxxsen/babyline/internal/model"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
	"github.com/xxxsen/babyline/internal/pkg/password"
	"github.com/xxxsen/babyline/internal/pkg/timeutil"
	"github.com/xxxsen/babyline/internal/repo"
)

const (
	// Collisions at the token's entropy are astronomically unlikely; if the
	// retry budget is ever exhausted the generator itself is broken and the
	// error should reach an operator.
	tokenRetryLimit = 5

	minSharePasswordLength = 4
)

// ShareService is the one entry point for share-link work: owners create,
// list and revoke links; viewers trade a token (and password, if set) for
// read-only access. Every call re-derives authorization through the policy
// engine; nothing is cached between requests.
type ShareService struct {
	shares       *repo.ShareRepo
	babies       *repo.BabyRepo
	measurements *repo.MeasurementRepo
	photos       *repo.PhotoRepo
	engine       *access.Engine
}

func NewShareService(shares *repo.ShareRepo, babies *repo.BabyRepo, measurements *repo.MeasurementRepo, photos *repo.PhotoRepo, engine *access.Engine) *ShareService {
	return &ShareService{shares: shares, babies: babies, measurements: measurements, photos: photos, engine: engine}
}

type CreateShareInput struct {
	Password  string
	ExpiresAt int64
}

// Capability is what a validated token grants: read-only access to one baby.
type Capability struct {
	BabyID   string `json:"baby_id"`
	ReadOnly bool   `json:"read_only"`
}

func (s *ShareService) CreateShareLink(ctx context.Context, ownerID, babyID string, in CreateShareInput) (*model.ShareLink, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpCreate, babyID); err != nil {
		return nil, err
	}
	if in.ExpiresAt != 0 && in.ExpiresAt <= timeutil.NowUnix() {
		return nil, appErr.ErrInvalid
	}
	hash := ""
	if in.Password != "" {
		if len(in.Password) < minSharePasswordLength {
			return nil, appErr.ErrInvalid
		}
		var err error
		hash, err = password.Hash(in.Password)
		if err != nil {
			return nil, err
		}
	}
	now := timeutil.NowUnix()
	for attempt := 1; attempt <= tokenRetryLimit; attempt++ {
		link := &model.ShareLink{
			ID:           newID(),
			BabyID:       babyID,
			Token:        newShareToken(),
			PasswordHash: hash,
			CreatedBy:    ownerID,
			State:        model.ShareStateActive,
			ExpiresAt:    in.ExpiresAt,
			Ctime:        now,
			Mtime:        now,
		}
		err := s.shares.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if !appErr.IsConflict(err) {
			return nil, err
		}
		logutil.GetLogger(ctx).Warn("share token collision, regenerating",
			zap.String("baby_id", babyID),
			zap.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("share token generation exhausted %d retries: %w", tokenRetryLimit, appErr.ErrConflict)
}

// ValidateShareToken applies the full viewer predicate and returns the
// capability the token grants. All failures surface as ErrNotFound.
func (s *ShareService) ValidateShareToken(ctx context.Context, token, plainPassword string) (*Capability, error) {
	link, err := s.engine.ResolveViewer(ctx, token, plainPassword)
	if err != nil {
		return nil, err
	}
	return &Capability{BabyID: link.BabyID, ReadOnly: true}, nil
}

// RevokeShareLink is idempotent: revoking an already revoked link succeeds
// silently. There is no way to reactivate a revoked link.
func (s *ShareService) RevokeShareLink(ctx context.Context, ownerID, linkID string) error {
	link, err := s.shares.GetByID(ctx, ownerID, linkID)
	if err != nil {
		return err
	}
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpUpdate, link.BabyID); err != nil {
		return err
	}
	if link.State == model.ShareStateRevoked {
		return nil
	}
	return s.shares.Revoke(ctx, ownerID, linkID, timeutil.NowUnix())
}

func (s *ShareService) ListShareLinks(ctx context.Context, ownerID, babyID string) ([]model.ShareLink, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpRead, babyID); err != nil {
		return nil, err
	}
	return s.shares.ListByBaby(ctx, ownerID, babyID)
}

// Viewer reads below re-validate the token on every call; a link revoked or
// expired between two requests fails on the second one.

func (s *ShareService) GetSharedBaby(ctx context.Context, token, plainPassword string) (*model.Baby, error) {
	link, err := s.engine.ResolveViewer(ctx, token, plainPassword)
	if err != nil {
		return nil, err
	}
	return s.babies.GetUnscoped(ctx, link.BabyID)
}

func (s *ShareService) ListSharedMeasurements(ctx context.Context, token, plainPassword string, limit uint) ([]model.Measurement, error) {
	link, err := s.engine.ResolveViewer(ctx, token, plainPassword)
	if err != nil {
		return nil, err
	}
	return s.measurements.ListByBaby(ctx, link.BabyID, limit)
}

func (s *ShareService) ListSharedPhotos(ctx context.Context, token, plainPassword string, limit uint) ([]model.Photo, error) {
	link, err := s.engine.ResolveViewer(ctx, token, plainPassword)
	if err != nil {
		return nil, err
	}
	return s.photos.ListByBaby(ctx, link.BabyID, limit)
}
