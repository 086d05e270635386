package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"
)

// TokenIndex maps an event hash to the rsvp tokens a guest holds for it.
// Stored as a JSON object.
type TokenIndex map[string][]string

func (t TokenIndex) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string][]string(t))
	if err != nil {
		return nil, fmt.Errorf("TokenIndex.Value: %w", err)
	}
	return string(b), nil
}

func (t *TokenIndex) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = TokenIndex{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("(*TokenIndex).Scan: unsupported type %T", src)
	}
	index := TokenIndex{}
	if err := json.Unmarshal(raw, &index); err != nil {
		return fmt.Errorf("(*TokenIndex).Scan: %w", err)
	}
	*t = index
	return nil
}

// GuestSession is the server side of the guest-session cookie. It carries no
// identity, only the rsvp tokens handed out to whoever holds the cookie.
type GuestSession struct {
	bun.BaseModel `bun:"table:guest_sessions"`

	Secret    string     `bun:"secret,pk"`               // required
	Tokens    TokenIndex `bun:"tokens,notnull,type:text"` // required
	CreatedAt int64      `bun:"created_at,notnull"`
	UpdatedAt int64      `bun:"updated_at"`
}
