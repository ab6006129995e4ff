package contracts

import (
	"caselink-service/internal/pkg/fhir_dto"
	"context"
)

// EncounterSearchInput holds the search filters shared by all resolution
// strategies. Codes are "system|code" pairs; an empty slice omits the code
// filter.
type EncounterSearchInput struct {
	StartDate       string
	EndDate         string
	DateField       string
	Codes           []string
	PatientID       string
	EncounterStatus string
	IncludeSubject  bool
}

type EncounterFhirClient interface {
	FindEncountersByDateRange(ctx context.Context, token string, input *EncounterSearchInput) ([]fhir_dto.Encounter, error)
	FindEncountersByConditionCodes(ctx context.Context, token string, input *EncounterSearchInput) ([]fhir_dto.Encounter, error)
	SearchEncountersByConditionPost(ctx context.Context, token string, input *EncounterSearchInput) ([]fhir_dto.Encounter, error)
}
