package route

import (
	"guestlist/src-server/form"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldSpecsFromForm(t *testing.T) {
	specs := fieldSpecsFromForm(url.Values{
		"title":                         {"ignored"},
		"custom_fields[10][field_name]": {"Last"},
		"custom_fields[10][field_type]": {"text"},
		"custom_fields[2][field_name]":  {"Meal"},
		"custom_fields[2][field_type]":  {"dropdown"},
		"custom_fields[2][required]":    {"0", "1"},
		"custom_fields[2][options]":     {"Veg\nMeat"},
		"custom_fields[x][field_name]":  {"bad index"},
	})
	assert.Equal(t, []form.FieldSpec{
		{FieldName: "Meal", FieldType: "dropdown", Required: true, Options: "Veg\nMeat"},
		{FieldName: "Last", FieldType: "text"},
	}, specs)
}

func TestAnswersFromForm(t *testing.T) {
	answers := answersFromForm(url.Values{
		"name":                       {"Ann"},
		"custom_field_responses[3]":  {"Veg"},
		"custom_field_responses[17]": {""},
	})
	assert.Equal(t, map[string]string{"3": "Veg", "17": ""}, answers)
}

func TestCheckbox(t *testing.T) {
	for _, on := range []string{"1", "on", "true", " TRUE "} {
		assert.True(t, checkbox(on), on)
	}
	for _, off := range []string{"", "0", "off", "false"} {
		assert.False(t, checkbox(off), off)
	}
}
