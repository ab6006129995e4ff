package notifications

import (
	"caselink-service/internal/app/contracts"
	"caselink-service/internal/pkg/constvars"
	"caselink-service/internal/pkg/exceptions"
	"caselink-service/internal/pkg/fhir_dto"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

type notificationBundleBuilder struct {
	idGen contracts.IDGenerator
	log   *zap.Logger
}

func NewNotificationBundleBuilder(idGen contracts.IDGenerator, logger *zap.Logger) contracts.NotificationBundleBuilder {
	return &notificationBundleBuilder{
		idGen: idGen,
		log:   logger,
	}
}

// BuildNotificationBundle wraps one Encounter in a history Bundle shaped like
// a subscription event notification: entry one is the SubscriptionStatus
// Parameters resource, entry two the Encounter itself. Resource ids are fresh
// per call.
func (b *notificationBundleBuilder) BuildNotificationBundle(encounter *fhir_dto.Encounter, meta *contracts.NotificationMeta) (*fhir_dto.FHIRBundle, error) {
	b.log.Debug("notificationBundleBuilder.BuildNotificationBundle called",
		zap.String(constvars.LoggingEncounterIDKey, encounter.ID),
	)

	if meta == nil {
		meta = &contracts.NotificationMeta{}
	}

	statusID := b.idGen.NewID()
	eventsSinceStart := meta.EventsSinceStart
	if eventsSinceStart == 0 {
		eventsSinceStart = 1
	}
	notificationEvent := meta.NotificationEvent
	if notificationEvent == 0 {
		notificationEvent = eventsSinceStart
	}

	status := fhir_dto.Parameters{
		ResourceType: constvars.ResourceParameters,
		ID:           statusID,
		Meta: &fhir_dto.Meta{
			Profile: []string{constvars.FhirSubscriptionStatusProfile},
		},
		Parameter: []fhir_dto.Parameter{
			{
				Name:           "subscription",
				ValueReference: &fhir_dto.Reference{Reference: meta.SubscriptionURL},
			},
			{
				Name:           "topic",
				ValueCanonical: meta.TopicURL,
			},
			{
				Name:      "type",
				ValueCode: constvars.FhirNotificationTypeEventNotification,
			},
			{
				Name:      "status",
				ValueCode: constvars.FhirSubscriptionStatusActive,
			},
			{
				Name:        "events-since-subscription-start",
				ValueString: strconv.Itoa(eventsSinceStart),
			},
			{
				Name: "notification-event",
				Part: []fhir_dto.Parameter{
					{
						Name:        "event-number",
						ValueString: strconv.Itoa(notificationEvent),
					},
				},
			},
		},
	}

	statusJSON, err := json.Marshal(status)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	encounterJSON, err := json.Marshal(encounter)
	if err != nil {
		return nil, exceptions.ErrCannotMarshalJSON(err)
	}

	encounterID := encounter.ID
	if encounterID == "" {
		encounterID = "unknown"
	}

	bundle := &fhir_dto.FHIRBundle{
		ResourceType: constvars.ResourceBundle,
		ID:           b.idGen.NewID(),
		Type:         constvars.FhirBundleTypeHistory,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Entry: []fhir_dto.BundleEntry{
			{
				FullUrl:  "urn:uuid:" + statusID,
				Resource: statusJSON,
			},
			{
				FullUrl:  constvars.ResourceEncounter + "/" + encounterID,
				Resource: encounterJSON,
			},
		},
	}
	return bundle, nil
}
