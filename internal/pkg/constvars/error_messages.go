package constvars

// Client messages are safe for operator-facing output.
const (
	ErrClientCannotProcessRequest          = "Cannot process your request, please check your request"
	ErrClientSomethingWrongWithApplication = "Something is wrong with the application, please contact the administrator"
	ErrClientInvalidConfiguration          = "Configuration is incomplete or invalid, please check the environment"
	ErrClientNotAuthorized                 = "You're not authorized, please login first"
	ErrClientServerLongRespond             = "Server takes too long to respond, please try again"
)

// Dev messages carry the diagnostic detail.
const (
	ErrDevMissingConfigFields     = "missing required configuration fields: %s"
	ErrDevUnsupportedAuthMode     = "unsupported auth mode %q"
	ErrDevUnsupportedFlowMode     = "unsupported flow mode %q"
	ErrDevTokenResponseNoToken    = "token endpoint response has no access_token, body: %s"
	ErrDevReadPrivateKey          = "failed to read private key file %s"
	ErrDevParsePrivateKey         = "failed to parse private key material"
	ErrDevSignAssertion           = "failed to sign client assertion"
	ErrDevRequestTimeout          = "request to %s timed out"
	ErrDevCreateHTTPRequest       = "failed to create HTTP request"
	ErrDevSendHTTPRequest         = "failed to send HTTP request"
	ErrDevCannotMarshalJSON       = "cannot convert struct or other data types to JSON"
	ErrDevGetFHIRResource         = "failed to get FHIR %s from the clinical data server"
	ErrDevSearchFHIRResource      = "failed to search FHIR %s on the clinical data server"
	ErrDevDecodeFHIRResource      = "failed to decode FHIR %s response"
	ErrDevReportingTokenEmpty     = "case-reporting service returned an empty token"
	ErrDevLaunchRequestRejected   = "launch request rejected with status %d, body: %s"
	ErrDevNotificationRejected    = "notification delivery rejected with status %d, body: %s"
	ErrDevValidationFailed        = "validation failed"
)
