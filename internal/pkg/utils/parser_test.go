package utils

import (
	"caselink-service/internal/pkg/constvars"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCodeList(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "Empty Input Yields Nil", input: "", expected: nil},
		{name: "Whitespace Only Yields Nil", input: "   ", expected: nil},
		{name: "Single Code", input: "A01", expected: []string{"A01"}},
		{name: "Multiple Codes Trimmed", input: " A01 , B02 ,C03", expected: []string{"A01", "B02", "C03"}},
		{name: "Empty Items Dropped", input: "A01,,B02,", expected: []string{"A01", "B02"}},
		{name: "System Qualified Codes", input: "http://snomed.info/sct|840539006,U07.1", expected: []string{"http://snomed.info/sct|840539006", "U07.1"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseCodeList(tc.input))
		})
	}
}

func TestReferenceID(t *testing.T) {
	assert.Equal(t, "42", ReferenceID("Encounter/42", "Encounter"))
	assert.Equal(t, "42", ReferenceID("  Encounter/42", "Encounter"))
	assert.Empty(t, ReferenceID("Patient/42", "Encounter"))
	assert.Empty(t, ReferenceID("", "Encounter"))
	assert.Empty(t, ReferenceID("Encounter", "Encounter"))
}

func TestGenerateRequestID(t *testing.T) {
	first := GenerateRequestID()
	second := GenerateRequestID()
	assert.True(t, strings.HasPrefix(first, constvars.REQUEST_ID_PREFIX))
	assert.NotEqual(t, first, second)
}

func TestIsTimeoutError(t *testing.T) {
	assert.False(t, IsTimeoutError(nil))
	assert.False(t, IsTimeoutError(assert.AnError))
	assert.True(t, IsTimeoutError(context.DeadlineExceeded))
	assert.True(t, IsTimeoutError(timeoutNetError{}))
}

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }
