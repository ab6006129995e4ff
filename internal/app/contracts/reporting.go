package contracts

import (
	"caselink-service/internal/pkg/fhir_dto"
	"context"
)

type LaunchPatientInput struct {
	FhirServerURL   string
	PatientID       string
	EncounterID     string
	ValidateOnly    bool
	ThrottleContext string
}

type CaseReportingClient interface {
	LaunchPatient(ctx context.Context, token string, input *LaunchPatientInput) error
	DeliverNotification(ctx context.Context, token string, bundle *fhir_dto.FHIRBundle) error
}

// NotificationMeta is the optional subscription metadata stamped into a
// notification bundle.
type NotificationMeta struct {
	SubscriptionURL   string
	TopicURL          string
	EventsSinceStart  int
	NotificationEvent int
}

type NotificationBundleBuilder interface {
	BuildNotificationBundle(encounter *fhir_dto.Encounter, meta *NotificationMeta) (*fhir_dto.FHIRBundle, error)
}
