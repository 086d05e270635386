package form

import (
	"errors"
	"fmt"
	"guestlist/src-server/model"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Answer is a validated value for one custom field, ready to be stored.
type Answer struct {
	Field *model.CustomField
	Value string
}

// Validate checks raw answers, keyed by custom field id, against the ordered
// fields of one event. Every missing required field is reported at once; the
// remaining checks stop at the first bad answer. On success the answers come
// back in field order with blank optional answers left out.
//
// Validate never touches the database and reads fields only.
func Validate(fields []*model.CustomField, raw map[string]string) ([]Answer, error) {
	byID := make(map[int64]*model.CustomField, len(fields))
	for _, field := range fields {
		byID[field.ID] = field
	}
	values := make(map[int64]string, len(raw))

	// required fields first
	missing := make([]error, 0)
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(raw[strconv.FormatInt(field.ID, 10)]) == "" {
			missing = append(missing, fmt.Errorf("%w: %q (id %d)", ErrMissingRequiredField, field.FieldName, field.ID))
		}
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(raw[key])
		if value == "" {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		field, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, key)
		}
		if field.IsDropdown() && !field.HasOption(value) {
			return nil, fmt.Errorf("%w: %q is not an option of %q", ErrInvalidOption, value, field.FieldName)
		}
		if utf8.RuneCountInString(value) > model.MaxStringLength {
			return nil, fmt.Errorf("%w: %q is longer than %d characters", ErrValueTooLong, field.FieldName, model.MaxStringLength)
		}
		values[id] = value
	}

	answers := make([]Answer, 0, len(values))
	for _, field := range fields {
		if value, ok := values[field.ID]; ok {
			answers = append(answers, Answer{Field: field, Value: value})
		}
	}
	return answers, nil
}
