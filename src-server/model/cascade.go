package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type cascadeCtxKeyType string

const cascadeCtxKey cascadeCtxKeyType = "cascade"

// AfterDelete hooks need to know which parent rows went away and which
// connection (usually a transaction) to keep deleting on.
type cascade struct {
	db  bun.IDB
	ids []int64
}

func WithCascade(ctx context.Context, db bun.IDB, ids ...int64) context.Context {
	return context.WithValue(ctx, cascadeCtxKey, cascade{db: db, ids: ids})
}

func cascadeFromCtx(ctx context.Context) (cascade, error) {
	switch c := ctx.Value(cascadeCtxKey).(type) {
	case cascade:
		if c.db == nil {
			return cascade{}, fmt.Errorf("cascade db is nil")
		}
		if len(c.ids) == 0 {
			return cascade{}, fmt.Errorf("cascade ids are empty")
		}
		return c, nil
	case nil:
		return cascade{}, fmt.Errorf("cascade is missing from context")
	default:
		return cascade{}, fmt.Errorf("wrong cascade type | type=%T", c)
	}
}
