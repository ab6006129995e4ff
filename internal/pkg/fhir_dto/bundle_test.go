package fhir_dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextLink(t *testing.T) {
	t.Run("Next Relation Found", func(t *testing.T) {
		bundle := &FHIRBundle{
			Link: []BundleLink{
				{Relation: "self", URL: "https://fhir.example.org/Encounter?page=1"},
				{Relation: "next", URL: "https://fhir.example.org/Encounter?page=2"},
			},
		}
		assert.Equal(t, "https://fhir.example.org/Encounter?page=2", bundle.NextLink())
	})

	t.Run("No Next Relation", func(t *testing.T) {
		bundle := &FHIRBundle{
			Link: []BundleLink{
				{Relation: "self", URL: "https://fhir.example.org/Encounter?page=1"},
			},
		}
		assert.Empty(t, bundle.NextLink())
	})

	t.Run("No Links At All", func(t *testing.T) {
		assert.Empty(t, (&FHIRBundle{}).NextLink())
	})
}

func TestEncounterPatientID(t *testing.T) {
	testCases := []struct {
		name     string
		subject  *Reference
		expected string
	}{
		{name: "Patient Reference", subject: &Reference{Reference: "Patient/123"}, expected: "123"},
		{name: "Whitespace Trimmed", subject: &Reference{Reference: "  Patient/123"}, expected: "123"},
		{name: "Non Patient Reference", subject: &Reference{Reference: "Group/9"}, expected: ""},
		{name: "Empty Reference", subject: &Reference{}, expected: ""},
		{name: "Absent Subject", subject: nil, expected: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encounter := &Encounter{Subject: tc.subject}
			assert.Equal(t, tc.expected, encounter.PatientID())
		})
	}
}
