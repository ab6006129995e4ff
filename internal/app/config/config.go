package config

import (
	"caselink-service/internal/pkg/exceptions"
	"caselink-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                 utils.GetEnvString("APP_ENV", "development"),
			LoggerLevel:         utils.GetEnvString("LOGGER_LEVEL", "info"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "relay.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "relay_error.log"),
			SubmitThrottleRPS:   utils.GetEnvInt("SUBMIT_THROTTLE_RPS", 0),
		},
		Auth: Auth{
			Mode:           utils.GetEnvString("AUTH_MODE", ""),
			TokenURL:       utils.GetEnvString("TOKEN_URL", ""),
			ClientID:       utils.GetEnvString("CLIENT_ID", ""),
			ClientSecret:   utils.GetEnvString("CLIENT_SECRET", ""),
			KeyID:          utils.GetEnvString("KEY_ID", ""),
			PrivateKeyPath: utils.GetEnvString("PRIVATE_KEY_PATH", ""),
			Scope:          utils.GetEnvString("SCOPE", "system/*.read"),
			AudRequired:    utils.GetEnvBool("AUD_REQUIRED", false),
			AudValue:       utils.GetEnvString("AUD_VALUE", ""),
		},
		FHIR: FHIR{
			BaseUrl: utils.GetEnvString("FHIR_BASE_URL", ""),
		},
		Reporting: Reporting{
			TokenURL:             utils.GetEnvString("REPORTING_TOKEN_URL", ""),
			ClientID:             utils.GetEnvString("REPORTING_CLIENT_ID", ""),
			ClientSecret:         utils.GetEnvString("REPORTING_CLIENT_SECRET", ""),
			UserID:               utils.GetEnvString("REPORTING_USER_ID", ""),
			BaseUrl:              utils.GetEnvString("REPORTING_BASE_URL", ""),
			NotificationEndpoint: utils.GetEnvString("NOTIFICATION_ENDPOINT", ""),
			SubscriptionURL:      utils.GetEnvString("SUBSCRIPTION_URL", ""),
			SubscriptionTopic:    utils.GetEnvString("SUBSCRIPTION_TOPIC", ""),
		},
		Search: Search{
			StartDate:           utils.GetEnvString("START_DATE", ""),
			EndDate:             utils.GetEnvString("END_DATE", ""),
			DateField:           utils.GetEnvString("DATE_FIELD", "date"),
			ConditionCodes:      utils.GetEnvString("CONDITION_CODES", ""),
			ConditionPostSearch: utils.GetEnvBool("CONDITION_POST_SEARCH", false),
			IncludeSubject:      utils.GetEnvBool("INCLUDE_SUBJECT", false),
			PatientID:           utils.GetEnvString("PATIENT_ID", ""),
			EncounterStatus:     utils.GetEnvString("ENCOUNTER_STATUS", ""),
		},
		Flow: Flow{
			Mode:            utils.GetEnvString("FLOW_MODE", "notify"),
			ValidateOnly:    utils.GetEnvBool("VALIDATE_ONLY", false),
			ThrottleContext: utils.GetEnvString("THROTTLE_CONTEXT", ""),
		},
	}
}

// Validate runs format-level checks (URL shapes) on the loaded settings.
// Mode-dependent required-field checks live with the components that own
// those settings.
func (c *InternalConfig) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return exceptions.ErrInputValidation(err)
	}
	return nil
}
