package config

// InternalConfig is constructed once from the environment and passed by
// pointer into every component. Nothing mutates it after construction.
type InternalConfig struct {
	App       App
	Auth      Auth
	FHIR      FHIR
	Reporting Reporting
	Search    Search
	Flow      Flow
}

type App struct {
	Env                 string
	LoggerLevel         string
	OutputFileName      string
	OutputErrorFileName string
	SubmitThrottleRPS   int
}

type Auth struct {
	Mode           string
	TokenURL       string `validate:"omitempty,url"`
	ClientID       string
	ClientSecret   string
	KeyID          string
	PrivateKeyPath string
	Scope          string
	AudRequired    bool
	AudValue       string
}

type FHIR struct {
	BaseUrl string `validate:"omitempty,url"`
}

type Reporting struct {
	TokenURL             string `validate:"omitempty,url"`
	ClientID             string
	ClientSecret         string
	UserID               string
	BaseUrl              string `validate:"omitempty,url"`
	NotificationEndpoint string `validate:"omitempty,url"`
	SubscriptionURL      string
	SubscriptionTopic    string
}

type Search struct {
	StartDate           string
	EndDate             string
	DateField           string
	ConditionCodes      string
	ConditionPostSearch bool
	IncludeSubject      bool
	PatientID           string
	EncounterStatus     string
}

type Flow struct {
	Mode            string
	ValidateOnly    bool
	ThrottleContext string
}
