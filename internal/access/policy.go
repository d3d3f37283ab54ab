package access

import (
	"context"
	"time"

	"github.com/xxxsen/babyline/internal/model"
	appErr "github.com/xxxsen/babyline/internal/pkg/errors"
)

// BabyStore resolves a baby to its owning user.
type BabyStore interface {
	GetOwner(ctx context.Context, babyID string) (string, error)
}

// ShareStore resolves a share token to its link row, ErrNotFound if absent.
type ShareStore interface {
	GetByToken(ctx context.Context, token string) (*model.ShareLink, error)
}

// PasswordVerifier reports nil when plain matches hash.
type PasswordVerifier func(hash, plain string) error

// Engine is the authorization decision function. The same predicate is
// mirrored by the repo layer's owner-scoped queries and the row security
// policies in the migration DDL; keep the three in sync.
type Engine struct {
	babies BabyStore
	shares ShareStore
	verify PasswordVerifier
	now    func() time.Time
}

func NewEngine(babies BabyStore, shares ShareStore, verify PasswordVerifier, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{babies: babies, shares: shares, verify: verify, now: now}
}

// Decide returns nil to allow the operation, an error to deny it. Owner
// denials are specific; viewer denials are always ErrNotFound so a caller
// cannot tell a dead token from one that never existed, nor use password
// correctness as an oracle for token validity.
func (e *Engine) Decide(ctx context.Context, id Identity, op Operation, babyID string) error {
	switch who := id.(type) {
	case Owner:
		return e.decideOwner(ctx, who, babyID)
	case Viewer:
		if op != OpRead {
			return appErr.ErrNotFound
		}
		link, err := e.ResolveViewer(ctx, who.Token, who.Password)
		if err != nil {
			return err
		}
		if babyID != "" && link.BabyID != babyID {
			return appErr.ErrNotFound
		}
		return nil
	default:
		return appErr.ErrUnauthorized
	}
}

func (e *Engine) decideOwner(ctx context.Context, who Owner, babyID string) error {
	if who.UserID == "" {
		return appErr.ErrUnauthorized
	}
	owner, err := e.babies.GetOwner(ctx, babyID)
	if err != nil {
		return err
	}
	if owner != who.UserID {
		return appErr.ErrForbidden
	}
	return nil
}

// ResolveViewer checks a token against the full usability predicate: the link
// exists, is active, is unexpired at this instant, and the supplied password
// verifies if one is set. Every failure collapses into ErrNotFound.
func (e *Engine) ResolveViewer(ctx context.Context, token, plainPassword string) (*model.ShareLink, error) {
	if token == "" {
		return nil, appErr.ErrNotFound
	}
	link, err := e.shares.GetByToken(ctx, token)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	if link.State != model.ShareStateActive {
		return nil, appErr.ErrNotFound
	}
	if link.ExpiresAt > 0 && e.now().Unix() >= link.ExpiresAt {
		return nil, appErr.ErrNotFound
	}
	if link.PasswordHash != "" {
		if err := e.verify(link.PasswordHash, plainPassword); err != nil {
			return nil, appErr.ErrNotFound
		}
	}
	return link, nil
}
