package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY ContextKey = "request_id"
)

const (
	REQUEST_ID_PREFIX = "CSLNK_SVC_"
)

const (
	FlowModeLaunch = "launch"
	FlowModeNotify = "notify"
)

// Per-call-class HTTP timeouts in seconds.
const (
	TimeoutFhirTokenSeconds      = 25
	TimeoutReportingTokenSeconds = 20
	TimeoutFhirSearchSeconds     = 30
	TimeoutSubmissionSeconds     = 60
)

const (
	LaunchPatientPath = "/api/launchPatient"
)
