package constvars

const (
	ResourcePatient    = "Patient"
	ResourceCondition  = "Condition"
	ResourceEncounter  = "Encounter"
	ResourceBundle     = "Bundle"
	ResourceParameters = "Parameters"
)

const (
	FhirBundleTypeHistory = "history"
)

const (
	FhirLinkRelationNext = "next"
)

const (
	FhirNotificationTypeEventNotification = "event-notification"
	FhirSubscriptionStatusActive          = "active"
	FhirSubscriptionStatusProfile         = "http://hl7.org/fhir/uv/subscriptions-backport/StructureDefinition/backport-subscription-status"
)

const (
	FhirSearchParamDate       = "date"
	FhirSearchParamPatient    = "patient"
	FhirSearchParamStatus     = "status"
	FhirSearchParamCode       = "code"
	FhirSearchParamReasonCode = "reason-code"
	FhirSearchParamInclude    = "_include"

	FhirIncludeConditionEncounter = "Condition:encounter"
	FhirIncludeConditionSubject   = "Condition:subject"
)

const (
	FhirDatePrefixGreaterOrEqual = "ge"
	FhirDatePrefixLessOrEqual    = "le"
)
