package route

import (
	"guestlist/src-server/form"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	customFieldParam         = regexp.MustCompile(`^custom_fields\[(\d+)\]\[(\w+)\]$`)
	customFieldResponseParam = regexp.MustCompile(`^custom_field_responses\[([^\]]*)\]$`)
)

// checkbox reads the usual ways a browser or script says "checked".
func checkbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "true", "yes":
		return true
	}
	return false
}

// fieldSpecsFromForm collects custom_fields[i][...] parameters in index order.
func fieldSpecsFromForm(values url.Values) []form.FieldSpec {
	specs := make(map[int]*form.FieldSpec)
	for key, vals := range values {
		match := customFieldParam.FindStringSubmatch(key)
		if match == nil || len(vals) == 0 {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		spec, ok := specs[index]
		if !ok {
			spec = new(form.FieldSpec)
			specs[index] = spec
		}
		value := vals[len(vals)-1]
		switch match[2] {
		case "field_name":
			spec.FieldName = value
		case "field_type":
			spec.FieldType = value
		case "required":
			spec.Required = checkbox(value)
		case "options":
			spec.Options = value
		}
	}

	indexes := make([]int, 0, len(specs))
	for index := range specs {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	ordered := make([]form.FieldSpec, 0, len(indexes))
	for _, index := range indexes {
		ordered = append(ordered, *specs[index])
	}
	return ordered
}

// answersFromForm collects custom_field_responses[<field id>] parameters.
func answersFromForm(values url.Values) map[string]string {
	answers := make(map[string]string)
	for key, vals := range values {
		match := customFieldResponseParam.FindStringSubmatch(key)
		if match == nil || len(vals) == 0 {
			continue
		}
		answers[match[1]] = vals[len(vals)-1]
	}
	return answers
}
