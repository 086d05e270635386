package form

import (
	"context"
	"fmt"
	"guestlist/src-server/model"
	"strings"

	"github.com/uptrace/bun"
)

// FieldSpec is one raw custom field as submitted with the event form.
type FieldSpec struct {
	FieldName string
	FieldType string
	Required  bool
	Options   string // one option per line
}

// BuildFields turns the submitted specs into custom fields. Position is the
// index of the spec in the submission, counting specs that get skipped for
// missing a name or a type. A single invalid field fails the whole batch.
func BuildFields(specs []FieldSpec) ([]*model.CustomField, error) {
	fields := make([]*model.CustomField, 0, len(specs))
	for position, spec := range specs {
		name := strings.TrimSpace(spec.FieldName)
		fieldType := model.FieldType(strings.TrimSpace(spec.FieldType))
		if name == "" || fieldType == "" {
			continue
		}

		field := &model.CustomField{
			FieldName: name,
			FieldType: fieldType,
			Required:  spec.Required,
			Position:  position,
		}
		if field.IsDropdown() {
			field.Options = model.ParseOptions(spec.Options)
		}
		if err := field.Validate(); err != nil {
			return nil, fmt.Errorf("%w: field %d: %w", ErrSchemaInvalid, position, err)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// CreateFields builds the batch and stores it for the event. Run it inside
// the transaction that created the event to keep event and schema together.
func CreateFields(ctx context.Context, db bun.IDB, eventID int64, specs []FieldSpec) ([]*model.CustomField, error) {
	fields, err := BuildFields(specs)
	if err != nil {
		return nil, fmt.Errorf("CreateFields: %w", err)
	}
	if err := model.CreateCustomFields(ctx, db, eventID, fields); err != nil {
		return nil, fmt.Errorf("CreateFields: %w: %w", ErrSchemaInvalid, err)
	}
	return fields, nil
}
