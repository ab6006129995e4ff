package utils

import "strings"

// ParseCodeList splits a comma-separated list of "system|code" pairs,
// trimming whitespace and dropping empty items. A blank or whitespace-only
// input yields nil so callers can omit the code filter entirely.
func ParseCodeList(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}

	var codes []string
	for _, item := range strings.Split(csv, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		codes = append(codes, item)
	}
	return codes
}

// ReferenceID returns the id portion of a FHIR reference of the given
// resource type, e.g. ReferenceID("Encounter/42", "Encounter") == "42".
func ReferenceID(reference, resourceType string) string {
	reference = strings.TrimSpace(reference)
	prefix := resourceType + "/"
	if !strings.HasPrefix(reference, prefix) {
		return ""
	}
	return strings.TrimPrefix(reference, prefix)
}
