package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guestlist/src-server/model"
	"time"

	"github.com/uptrace/bun"
)

// BunBackend stores sets in the guest_sessions table.
type BunBackend struct {
	db bun.IDB
}

var _ Backend = (*BunBackend)(nil)

func NewBunBackend(db bun.IDB) *BunBackend {
	return &BunBackend{db: db}
}

func (b *BunBackend) Load(ctx context.Context, key string) (*Set, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	session := new(model.GuestSession)
	if err := b.db.NewSelect().
		Model(session).
		Where("secret = ?", key).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewSet(), nil
		}
		return nil, fmt.Errorf("(*BunBackend).Load: %w", err)
	}
	return SetFrom(session.Tokens), nil
}

func (b *BunBackend) Save(ctx context.Context, key string, set *Set) error {
	if key == "" {
		return ErrEmptyKey
	}
	now := time.Now().UTC().Unix()
	session := &model.GuestSession{
		Secret:    key,
		Tokens:    model.TokenIndex(set.Index()),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := b.db.NewInsert().
		Model(session).
		On("CONFLICT (secret) DO UPDATE").
		Set("tokens = EXCLUDED.tokens").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx); err != nil {
		return fmt.Errorf("(*BunBackend).Save: %w", err)
	}
	set.markClean()
	return nil
}
