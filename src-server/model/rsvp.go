package model

import (
	"context"
	"fmt"
	"guestlist/src-server/utils"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/uptrace/bun"
)

type Response string

const (
	ResponseYes   Response = "yes"
	ResponseMaybe Response = "maybe"
	ResponseNo    Response = "no"
)

var Responses = []Response{ResponseYes, ResponseMaybe, ResponseNo}

// ParseResponse matches the submit button value case-insensitively.
func ParseResponse(s string) (Response, bool) {
	folded := utils.FoldCase(strings.TrimSpace(s))
	for _, r := range Responses {
		if string(r) == folded {
			return r, true
		}
	}
	return "", false
}

var validate = validator.New()

type Rsvp struct {
	bun.BaseModel `bun:"table:rsvps"`

	ID        int64    `bun:"id,pk,autoincrement"`
	EventID   int64    `bun:"event_id,notnull" validate:"required"`
	Name      string   `bun:"name,notnull" validate:"required"`
	Response  Response `bun:"response,notnull,type:varchar" validate:"required,oneof=yes maybe no"`
	CreatedAt int64    `bun:"created_at,notnull"`

	Event                *Event                 `bun:"rel:belongs-to,join:event_id=id"`
	CustomFieldResponses []*CustomFieldResponse `bun:"rel:has-many,join:id=rsvp_id"`

	// public capability handle, derived from ID
	Token string `bun:"-"`
}

var _ bun.AfterDeleteHook = (*Rsvp)(nil)

// Cleanup the responses of the deleted rsvps
func (r *Rsvp) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	c, err := cascadeFromCtx(ctx)
	if err != nil {
		return fmt.Errorf("(*Rsvp).AfterDelete: %w", err)
	}
	if _, err := c.db.NewDelete().
		Model((*CustomFieldResponse)(nil)).
		Where("rsvp_id IN (?)", bun.In(c.ids)).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Rsvp).AfterDelete: can't delete responses: %w", err)
	}
	return nil
}

func (r *Rsvp) Insert(ctx context.Context, db bun.IDB) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.ID != 0 {
		return fmt.Errorf("(*Rsvp).Insert: rsvp already has an id")
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("(*Rsvp).Insert: %w", err)
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().UTC().Unix()
	}
	if _, err := db.NewInsert().
		Model(r).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Rsvp).Insert: %w", err)
	}
	return nil
}

// CustomFieldResponseFor returns the loaded answer to field, or nil.
func (r *Rsvp) CustomFieldResponseFor(field *CustomField) *CustomFieldResponse {
	if field == nil {
		return nil
	}
	for _, response := range r.CustomFieldResponses {
		if response.CustomFieldID == field.ID {
			return response
		}
	}
	return nil
}

// CustomFieldValueFor returns the stored answer to field, "" when there is none.
func (r *Rsvp) CustomFieldValueFor(field *CustomField) string {
	if response := r.CustomFieldResponseFor(field); response != nil {
		return response.ResponseValue
	}
	return ""
}

// DeleteRsvps removes rsvps and their responses.
func DeleteRsvps(ctx context.Context, db bun.IDB, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := db.NewDelete().
		Model((*Rsvp)(nil)).
		Where("id IN (?)", bun.In(ids)).
		Exec(WithCascade(ctx, db, ids...)); err != nil {
		return fmt.Errorf("DeleteRsvps: %w", err)
	}
	return nil
}
