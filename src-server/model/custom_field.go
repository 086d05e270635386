package model

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/uptrace/bun"
)

// MaxStringLength bounds field names and response values.
const MaxStringLength = 255

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeDropdown FieldType = "dropdown"
)

func (t FieldType) Valid() bool {
	return t == FieldTypeText || t == FieldTypeDropdown
}

// Options is the ordered choice list of a dropdown. It is persisted as a JSON
// array in a text column; an empty list is stored as NULL.
type Options []string

var (
	_ driver.Valuer = Options(nil)
	_ interface{ Scan(any) error } = (*Options)(nil)
)

func (o Options) Value() (driver.Value, error) {
	if len(o) == 0 {
		return nil, nil
	}
	b, err := json.Marshal([]string(o))
	if err != nil {
		return nil, fmt.Errorf("Options.Value: %w", err)
	}
	return string(b), nil
}

// Scan treats unparsable stored options as no options at all.
func (o *Options) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*o = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("(*Options).Scan: unsupported type %T", src)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		*o = nil
		return nil
	}
	*o = list
	return nil
}

// ParseOptions turns a textarea blob (one option per line) into an option
// list: lines are trimmed and blank ones dropped.
func ParseOptions(blob string) Options {
	var options Options
	for _, line := range strings.Split(blob, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			options = append(options, line)
		}
	}
	return options
}

// CustomField is one organizer-defined RSVP question.
type CustomField struct {
	bun.BaseModel `bun:"table:custom_fields"`

	ID        int64     `bun:"id,pk,autoincrement"`
	EventID   int64     `bun:"event_id,notnull"`   // required
	FieldName string    `bun:"field_name,notnull"` // required
	FieldType FieldType `bun:"field_type,notnull"` // required
	Required  bool      `bun:"required,notnull"`
	Options   Options   `bun:"options,type:text"`
	Position  int       `bun:"position,notnull"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id"`
}

var _ bun.AfterDeleteHook = (*CustomField)(nil)

// Cleanup responses given to the deleted fields
func (f *CustomField) AfterDelete(ctx context.Context, query *bun.DeleteQuery) error {
	c, err := cascadeFromCtx(ctx)
	if err != nil {
		return fmt.Errorf("(*CustomField).AfterDelete: %w", err)
	}
	if _, err := c.db.NewDelete().
		Model((*CustomFieldResponse)(nil)).
		Where("custom_field_id IN (?)", bun.In(c.ids)).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*CustomField).AfterDelete: can't delete responses: %w", err)
	}
	return nil
}

func (f *CustomField) IsDropdown() bool {
	return f.FieldType == FieldTypeDropdown
}

func (f *CustomField) IsText() bool {
	return f.FieldType == FieldTypeText
}

// HasOption reports whether value is exactly one of the dropdown choices.
func (f *CustomField) HasOption(value string) bool {
	for _, option := range f.Options {
		if option == value {
			return true
		}
	}
	return false
}

// Validate checks the invariants a field must hold before it is stored.
func (f *CustomField) Validate() error {
	switch {
	case strings.TrimSpace(f.FieldName) == "":
		return fmt.Errorf("field name is blank")
	case utf8.RuneCountInString(f.FieldName) > MaxStringLength:
		return fmt.Errorf("field name is longer than %d characters", MaxStringLength)
	case !f.FieldType.Valid():
		return fmt.Errorf("field type %q is not one of text, dropdown", f.FieldType)
	case f.Position < 0:
		return fmt.Errorf("position is negative")
	case f.IsDropdown() && len(f.Options) == 0:
		return fmt.Errorf("dropdown %q has no options", f.FieldName)
	}
	return nil
}

func (f *CustomField) Insert(ctx context.Context, db bun.IDB) error {
	if f.EventID == 0 {
		return fmt.Errorf("(*CustomField).Insert: event id is required")
	}
	if f.IsText() {
		f.Options = nil
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("(*CustomField).Insert: %w", err)
	}
	if _, err := db.NewInsert().
		Model(f).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*CustomField).Insert: %w", err)
	}
	return nil
}

// OrderedFields sorts a custom field query into display/validation order.
func OrderedFields(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("position ASC", "id ASC")
}

// ListCustomFields returns the fields of an event in position order.
func ListCustomFields(ctx context.Context, db bun.IDB, eventID int64) ([]*CustomField, error) {
	fields := make([]*CustomField, 0)
	if err := db.NewSelect().
		Model(&fields).
		Where("event_id = ?", eventID).
		Apply(OrderedFields).
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("ListCustomFields: %w", err)
	}
	return fields, nil
}

// CreateCustomFields stores a batch of fields for one event, stopping at the
// first field that fails. Callers wanting all or nothing pass a transaction.
func CreateCustomFields(ctx context.Context, db bun.IDB, eventID int64, fields []*CustomField) error {
	for _, field := range fields {
		field.EventID = eventID
		if err := field.Insert(ctx, db); err != nil {
			return fmt.Errorf("CreateCustomFields: %w", err)
		}
	}
	return nil
}
