package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/uptrace/bun"
)

// CustomFieldResponse is one guest's answer to one custom field.
type CustomFieldResponse struct {
	bun.BaseModel `bun:"table:custom_field_responses"`

	ID            int64  `bun:"id,pk,autoincrement"`
	RsvpID        int64  `bun:"rsvp_id,notnull,unique:rsvp_custom_field"`         // required
	CustomFieldID int64  `bun:"custom_field_id,notnull,unique:rsvp_custom_field"` // required
	ResponseValue string `bun:"response_value,type:varchar(255)"`

	Rsvp        *Rsvp        `bun:"rel:belongs-to,join:rsvp_id=id"`
	CustomField *CustomField `bun:"rel:belongs-to,join:custom_field_id=id"`
}

// Insert re-reads the field it answers and checks the answer against the
// field as it is stored right now, then inserts. The unique
// (rsvp_id, custom_field_id) index rejects a second answer to the same field.
func (c *CustomFieldResponse) Insert(ctx context.Context, db bun.IDB, eventID int64) error {
	if c.RsvpID == 0 {
		return fmt.Errorf("(*CustomFieldResponse).Insert: rsvp id is required")
	}

	field := new(CustomField)
	if err := db.NewSelect().
		Model(field).
		Where("id = ?", c.CustomFieldID).
		Where("event_id = ?", eventID).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("(*CustomFieldResponse).Insert: custom field %d not found for event %d", c.CustomFieldID, eventID)
		}
		return fmt.Errorf("(*CustomFieldResponse).Insert: %w", err)
	}

	switch {
	case field.Required && strings.TrimSpace(c.ResponseValue) == "":
		return fmt.Errorf("(*CustomFieldResponse).Insert: %q is required", field.FieldName)
	case utf8.RuneCountInString(c.ResponseValue) > MaxStringLength:
		return fmt.Errorf("(*CustomFieldResponse).Insert: %q is longer than %d characters", field.FieldName, MaxStringLength)
	case field.IsDropdown() && !field.HasOption(c.ResponseValue):
		return fmt.Errorf("(*CustomFieldResponse).Insert: %q is not an option of %q", c.ResponseValue, field.FieldName)
	}

	if _, err := db.NewInsert().
		Model(c).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*CustomFieldResponse).Insert: %w", err)
	}
	c.CustomField = field
	return nil
}
