package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingCorrelationIDKey  = "correlation_id"
	LoggingFlowKey           = "flow"
	LoggingAuthModeKey       = "auth_mode"
	LoggingEncounterIDKey    = "encounter_id"
	LoggingPatientIDKey      = "patient_id"
	LoggingReferenceKey      = "reference"
	LoggingEncounterCountKey = "encounter_count"
	LoggingPageCountKey      = "page_count"
)
