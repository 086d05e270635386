package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"guestlist/src-server/hashid"
	"guestlist/src-server/utils"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnpublished = errors.New("event is not published")
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID         int64  `bun:"id,pk,autoincrement"`
	Title      string `bun:"title,notnull"` // required
	Body       string `bun:"body"`
	Date       int64  `bun:"date"` // unix UTC, 0 when unset
	Published  bool   `bun:"published,notnull"`
	AdminToken string `bun:"admin_token,notnull,unique"`
	CreatedAt  int64  `bun:"created_at,notnull"`

	CustomFields []*CustomField `bun:"rel:has-many,join:id=event_id"`
	Rsvps        []*Rsvp        `bun:"rel:has-many,join:id=event_id"`

	// public hash of ID, filled by whoever resolved the event
	Hash string `bun:"-"`
}

var _ bun.AfterDeleteHook = (*Event)(nil)

// Cleanup rsvps (and through them their responses) and custom fields.
func (e *Event) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	c, err := cascadeFromCtx(ctx)
	if err != nil {
		return fmt.Errorf("(*Event).AfterDelete: %w", err)
	}

	rsvpIDs := make([]int64, 0)
	if err := c.db.NewSelect().
		Model((*Rsvp)(nil)).
		Column("id").
		Where("event_id IN (?)", bun.In(c.ids)).
		Scan(ctx, &rsvpIDs); err != nil {
		return fmt.Errorf("(*Event).AfterDelete: can't get rsvp ids: %w", err)
	}
	if err := DeleteRsvps(ctx, c.db, rsvpIDs...); err != nil {
		return fmt.Errorf("(*Event).AfterDelete: %w", err)
	}

	fieldIDs := make([]int64, 0)
	if err := c.db.NewSelect().
		Model((*CustomField)(nil)).
		Column("id").
		Where("event_id IN (?)", bun.In(c.ids)).
		Scan(ctx, &fieldIDs); err != nil {
		return fmt.Errorf("(*Event).AfterDelete: can't get custom field ids: %w", err)
	}
	if len(fieldIDs) == 0 {
		return nil
	}
	if _, err := c.db.NewDelete().
		Model((*CustomField)(nil)).
		Where("id IN (?)", bun.In(fieldIDs)).
		Exec(WithCascade(ctx, c.db, fieldIDs...)); err != nil {
		return fmt.Errorf("(*Event).AfterDelete: can't delete custom fields: %w", err)
	}

	return nil
}

// Insert validates and stores a new event. New events are published.
func (e *Event) Insert(ctx context.Context, db bun.IDB) error {
	e.Title = strings.TrimSpace(e.Title)
	switch {
	case e.ID != 0:
		return fmt.Errorf("(*Event).Insert: event already has an id")
	case e.Title == "":
		return fmt.Errorf("(*Event).Insert: title is blank")
	case utf8.RuneCountInString(e.Title) > MaxStringLength:
		return fmt.Errorf("(*Event).Insert: title is longer than %d characters", MaxStringLength)
	case e.Date < 0:
		return fmt.Errorf("(*Event).Insert: date is negative")
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().UTC().Unix()
	}
	if e.AdminToken == "" {
		e.AdminToken = uuid.NewString()
	}
	e.Published = true

	if _, err := db.NewInsert().
		Model(e).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Event).Insert: %w", err)
	}
	return nil
}

// PublicID is "<hash>-<slug>"; only the hash is significant for lookups.
func (e *Event) PublicID() string {
	slug := utils.Slugify(e.Title)
	if slug == "" {
		return e.Hash
	}
	return e.Hash + "-" + slug
}

// FindPublishedEvent resolves a public id to an event with its custom fields
// loaded in position order. Unpublished events are returned together with
// ErrUnpublished so callers can still tell what they hit.
func FindPublishedEvent(ctx context.Context, db bun.IDB, codec *hashid.Codec, publicID string) (*Event, error) {
	hash, _, _ := strings.Cut(strings.TrimSpace(publicID), "-")
	id, err := codec.Decode(hash)
	if err != nil {
		return nil, ErrNotFound
	}

	event := new(Event)
	if err := db.NewSelect().
		Model(event).
		Where("id = ?", id).
		Relation("CustomFields", OrderedFields).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("FindPublishedEvent: %w", err)
	}
	if event.Hash, err = codec.Encode(event.ID); err != nil {
		return nil, fmt.Errorf("FindPublishedEvent: %w", err)
	}

	if !event.Published {
		return event, ErrUnpublished
	}
	return event, nil
}

// DeleteEvent removes events together with everything hanging off them.
func DeleteEvent(ctx context.Context, db bun.IDB, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := db.NewDelete().
		Model((*Event)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(WithCascade(ctx, db, ids...)); err != nil {
		return fmt.Errorf("DeleteEvent: %w", err)
	}
	return nil
}
