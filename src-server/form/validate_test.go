package form_test

import (
	"errors"
	"guestlist/src-server/form"
	"guestlist/src-server/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mealAndAllergies() []*model.CustomField {
	return []*model.CustomField{
		{ID: 11, FieldName: "Allergies", FieldType: model.FieldTypeText, Position: 0},
		{ID: 12, FieldName: "Meal", FieldType: model.FieldTypeDropdown, Required: true, Options: model.Options{"Veg", "Meat"}, Position: 1},
	}
}

func TestValidateMealExample(t *testing.T) {
	fields := mealAndAllergies()

	_, err := form.Validate(fields, map[string]string{"12": "Fish"})
	assert.ErrorIs(t, err, form.ErrInvalidOption)
	assert.ErrorIs(t, err, form.ErrValidationFailed)

	answers, err := form.Validate(fields, map[string]string{"12": "Veg"})
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "Meal", answers[0].Field.FieldName)
	assert.Equal(t, "Veg", answers[0].Value)
}

func TestValidate(t *testing.T) {
	fields := []*model.CustomField{
		{ID: 1, FieldName: "Name tag", FieldType: model.FieldTypeText, Required: true, Position: 0},
		{ID: 2, FieldName: "Notes", FieldType: model.FieldTypeText, Position: 1},
		{ID: 3, FieldName: "Meal", FieldType: model.FieldTypeDropdown, Required: true, Options: model.Options{"Veg", "Meat"}, Position: 2},
		{ID: 4, FieldName: "Shirt", FieldType: model.FieldTypeDropdown, Options: model.Options{"S", "M", "L"}, Position: 3},
	}

	for _, tc := range []struct {
		name    string
		raw     map[string]string
		wantErr error
		want    map[string]string // field name -> stored value
	}{
		{
			name: "all required present",
			raw:  map[string]string{"1": "Ann", "3": "Meat"},
			want: map[string]string{"Name tag": "Ann", "Meal": "Meat"},
		},
		{
			name: "values are trimmed",
			raw:  map[string]string{"1": "  Ann ", "3": " Veg\t", "2": "  "},
			want: map[string]string{"Name tag": "Ann", "Meal": "Veg"},
		},
		{
			name: "optional dropdown answered",
			raw:  map[string]string{"1": "Ann", "3": "Veg", "4": "M", "2": "no nuts"},
			want: map[string]string{"Name tag": "Ann", "Meal": "Veg", "Shirt": "M", "Notes": "no nuts"},
		},
		{
			name:    "required missing",
			raw:     map[string]string{"3": "Veg"},
			wantErr: form.ErrMissingRequiredField,
		},
		{
			name:    "required blank",
			raw:     map[string]string{"1": " ", "3": "Veg"},
			wantErr: form.ErrMissingRequiredField,
		},
		{
			name:    "nothing submitted",
			raw:     nil,
			wantErr: form.ErrMissingRequiredField,
		},
		{
			name:    "unknown id",
			raw:     map[string]string{"1": "Ann", "3": "Veg", "99": "x"},
			wantErr: form.ErrUnknownField,
		},
		{
			name:    "non numeric key",
			raw:     map[string]string{"1": "Ann", "3": "Veg", "meal": "x"},
			wantErr: form.ErrUnknownField,
		},
		{
			name: "blank unknown entry is ignored",
			raw:  map[string]string{"1": "Ann", "3": "Veg", "99": ""},
			want: map[string]string{"Name tag": "Ann", "Meal": "Veg"},
		},
		{
			name:    "option match is exact",
			raw:     map[string]string{"1": "Ann", "3": "veg"},
			wantErr: form.ErrInvalidOption,
		},
		{
			name:    "optional dropdown with bad option",
			raw:     map[string]string{"1": "Ann", "3": "Veg", "4": "XL"},
			wantErr: form.ErrInvalidOption,
		},
		{
			name:    "text too long",
			raw:     map[string]string{"1": "Ann", "3": "Veg", "2": strings.Repeat("é", model.MaxStringLength+1)},
			wantErr: form.ErrValueTooLong,
		},
		{
			name: "text at the limit",
			raw:  map[string]string{"1": strings.Repeat("é", model.MaxStringLength), "3": "Veg"},
			want: map[string]string{"Name tag": strings.Repeat("é", model.MaxStringLength), "Meal": "Veg"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			answers, err := form.Validate(fields, tc.raw)
			if tc.wantErr != nil {
				assert.Nil(t, answers)
				assert.ErrorIs(t, err, tc.wantErr)
				assert.ErrorIs(t, err, form.ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			got := make(map[string]string, len(answers))
			for _, answer := range answers {
				got[answer.Field.FieldName] = answer.Value
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateReportsEveryMissingField(t *testing.T) {
	fields := []*model.CustomField{
		{ID: 1, FieldName: "A", FieldType: model.FieldTypeText, Required: true},
		{ID: 2, FieldName: "B", FieldType: model.FieldTypeText, Required: true},
		{ID: 3, FieldName: "C", FieldType: model.FieldTypeText},
	}
	_, err := form.Validate(fields, map[string]string{"3": "x"})
	require.Error(t, err)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	assert.Len(t, joined.Unwrap(), 2)
	for _, e := range joined.Unwrap() {
		assert.True(t, errors.Is(e, form.ErrMissingRequiredField))
	}
}

func TestValidateKeepsFieldOrder(t *testing.T) {
	fields := []*model.CustomField{
		{ID: 30, FieldName: "first", FieldType: model.FieldTypeText, Position: 0},
		{ID: 10, FieldName: "second", FieldType: model.FieldTypeText, Position: 1},
		{ID: 20, FieldName: "third", FieldType: model.FieldTypeText, Position: 2},
	}
	answers, err := form.Validate(fields, map[string]string{"10": "b", "20": "c", "30": "a"})
	require.NoError(t, err)
	require.Len(t, answers, 3)
	assert.Equal(t, "first", answers[0].Field.FieldName)
	assert.Equal(t, "second", answers[1].Field.FieldName)
	assert.Equal(t, "third", answers[2].Field.FieldName)
}

func TestValidateDoesNotModifyFields(t *testing.T) {
	fields := mealAndAllergies()
	before := *fields[1]
	_, _ = form.Validate(fields, map[string]string{"12": "Veg", "11": "nuts"})
	assert.Equal(t, before, *fields[1])
}
