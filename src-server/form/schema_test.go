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

func TestBuildFields(t *testing.T) {
	// case: options blob is split, trimmed and blank lines dropped
	func() {
		fields, err := form.BuildFields([]form.FieldSpec{
			{FieldName: "Meal", FieldType: "dropdown", Required: true, Options: "Veg\n\nMeat\n "},
		})
		require.NoError(t, err)
		require.Len(t, fields, 1)
		assert.Equal(t, model.Options{"Veg", "Meat"}, fields[0].Options)
		assert.True(t, fields[0].Required)
		assert.Equal(t, 0, fields[0].Position)
	}()

	// case: specs without name or type are skipped but still take a position
	func() {
		fields, err := form.BuildFields([]form.FieldSpec{
			{FieldName: "", FieldType: "text"},
			{FieldName: "Allergies", FieldType: "text", Options: "ignored\nlines"},
			{FieldName: "Plus one", FieldType: ""},
			{FieldName: "Meal", FieldType: "dropdown", Options: "Veg"},
		})
		require.NoError(t, err)
		require.Len(t, fields, 2)
		assert.Equal(t, "Allergies", fields[0].FieldName)
		assert.Equal(t, 1, fields[0].Position)
		assert.Nil(t, fields[0].Options)
		assert.Equal(t, "Meal", fields[1].FieldName)
		assert.Equal(t, 3, fields[1].Position)
	}()

	// case: a dropdown left without options fails the whole batch
	func() {
		fields, err := form.BuildFields([]form.FieldSpec{
			{FieldName: "Allergies", FieldType: "text"},
			{FieldName: "Meal", FieldType: "dropdown", Options: "\n  \n"},
		})
		assert.Nil(t, fields)
		assert.True(t, errors.Is(err, form.ErrSchemaInvalid))
	}()

	// case: unknown type
	func() {
		_, err := form.BuildFields([]form.FieldSpec{
			{FieldName: "Shirt size", FieldType: "checkbox"},
		})
		assert.ErrorIs(t, err, form.ErrSchemaInvalid)
	}()

	// case: name too long
	func() {
		_, err := form.BuildFields([]form.FieldSpec{
			{FieldName: strings.Repeat("a", model.MaxStringLength+1), FieldType: "text"},
		})
		assert.ErrorIs(t, err, form.ErrSchemaInvalid)
	}()

	// case: empty batch
	func() {
		fields, err := form.BuildFields(nil)
		require.NoError(t, err)
		assert.Empty(t, fields)
	}()
}
