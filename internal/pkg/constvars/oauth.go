package constvars

const (
	OAuthGrantTypeClientCredentials = "client_credentials"

	OAuthParamGrantType           = "grant_type"
	OAuthParamScope               = "scope"
	OAuthParamAudience            = "aud"
	OAuthParamClientID            = "client_id"
	OAuthParamClientSecret        = "client_secret"
	OAuthParamUserID              = "userId"
	OAuthParamClientAssertion     = "client_assertion"
	OAuthParamClientAssertionType = "client_assertion_type"

	OAuthClientAssertionTypeJWTBearer = "urn:ietf:params:oauth:client-assertion-type:jwt-bearer"

	OAuthDefaultScope = "system/*.read"
)

// Client assertions are short-lived by the SMART backend services spec.
const OAuthAssertionLifetimeSeconds = 300
