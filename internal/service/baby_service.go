package service

import (
	"context"

	"github.com/xxxsen/babyline/internal/access"
	"github.com/xxxsen/babyline/internal/model"
	"github.com/xxxsen/babyline/internal/pkg/timeutil"
	"github.com/xxxsen/babyline/internal/repo"
)

type BabyService struct {
	babies *repo.BabyRepo
	engine *access.Engine
}

func NewBabyService(babies *repo.BabyRepo, engine *access.Engine) *BabyService {
	return &BabyService{babies: babies, engine: engine}
}

func (s *BabyService) Create(ctx context.Context, ownerID, name, birthdate string) (*model.Baby, error) {
	baby, err := model.NewBaby(newID(), ownerID, name, birthdate, timeutil.NowUnix())
	if err != nil {
		return nil, err
	}
	if err := s.babies.Create(ctx, baby); err != nil {
		return nil, err
	}
	return baby, nil
}

func (s *BabyService) Get(ctx context.Context, ownerID, babyID string) (*model.Baby, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpRead, babyID); err != nil {
		return nil, err
	}
	return s.babies.GetByID(ctx, ownerID, babyID)
}

func (s *BabyService) List(ctx context.Context, ownerID string) ([]model.Baby, error) {
	return s.babies.List(ctx, ownerID)
}

func (s *BabyService) Update(ctx context.Context, ownerID, babyID, name, birthdate string) (*model.Baby, error) {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpUpdate, babyID); err != nil {
		return nil, err
	}
	baby, err := s.babies.GetByID(ctx, ownerID, babyID)
	if err != nil {
		return nil, err
	}
	baby.Name = name
	baby.Birthdate = birthdate
	baby.Mtime = timeutil.NowUnix()
	if err := baby.Validate(); err != nil {
		return nil, err
	}
	if err := s.babies.Update(ctx, baby); err != nil {
		return nil, err
	}
	return baby, nil
}

// Delete removes the baby with all its measurements, photos and share links;
// the repo does it in a single transaction.
func (s *BabyService) Delete(ctx context.Context, ownerID, babyID string) error {
	if err := s.engine.Decide(ctx, access.Owner{UserID: ownerID}, access.OpDelete, babyID); err != nil {
		return err
	}
	return s.babies.Delete(ctx, ownerID, babyID)
}
