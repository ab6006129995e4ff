package reporting

import (
	"bytes"
	"caselink-service/internal/app/config"
	"caselink-service/internal/app/contracts"
	"caselink-service/internal/pkg/constvars"
	"caselink-service/internal/pkg/exceptions"
	"caselink-service/internal/pkg/fhir_dto"
	"caselink-service/internal/pkg/utils"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

type caseReportingClient struct {
	baseUrl              string
	notificationEndpoint string
	idGen                contracts.IDGenerator
	log                  *zap.Logger
	httpClient           *http.Client
}

func NewCaseReportingClient(cfg *config.InternalConfig, idGen contracts.IDGenerator, logger *zap.Logger) contracts.CaseReportingClient {
	return &caseReportingClient{
		baseUrl:              strings.TrimRight(cfg.Reporting.BaseUrl, "/"),
		notificationEndpoint: cfg.Reporting.NotificationEndpoint,
		idGen:                idGen,
		log:                  logger,
		httpClient: &http.Client{
			Timeout: constvars.TimeoutSubmissionSeconds * time.Second,
		},
	}
}

type launchPatientRequest struct {
	FhirServerURL   string `json:"fhirServerURL"`
	PatientID       string `json:"patientId"`
	EncounterID     string `json:"encounterId"`
	ValidationMode  bool   `json:"validationMode"`
	ThrottleContext string `json:"throttleContext,omitempty"`
}

// LaunchPatient posts one launch request to the case-reporting API. Every
// call carries fresh request and correlation identifiers.
func (c *caseReportingClient) LaunchPatient(ctx context.Context, token string, input *contracts.LaunchPatientInput) error {
	requestID := c.idGen.NewID()
	correlationID := c.idGen.NewID()
	c.log.Info("caseReportingClient.LaunchPatient called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCorrelationIDKey, correlationID),
		zap.String(constvars.LoggingEncounterIDKey, input.EncounterID),
		zap.String(constvars.LoggingPatientIDKey, input.PatientID),
	)

	payload := launchPatientRequest{
		FhirServerURL:   input.FhirServerURL,
		PatientID:       input.PatientID,
		EncounterID:     input.EncounterID,
		ValidationMode:  input.ValidateOnly,
		ThrottleContext: input.ThrottleContext,
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	launchURL := c.baseUrl + constvars.LaunchPatientPath
	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, launchURL, bytes.NewBuffer(payloadJSON))
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
	req.Header.Set(constvars.HeaderXRequestID, requestID)
	req.Header.Set(constvars.HeaderXCorrelationID, correlationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if utils.IsTimeoutError(err) {
			return exceptions.ErrRequestTimeout(err, launchURL)
		}
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK && resp.StatusCode != constvars.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return exceptions.ErrLaunchRequestRejected(resp.StatusCode, string(bodyBytes))
	}

	c.log.Info("caseReportingClient.LaunchPatient succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingEncounterIDKey, input.EncounterID),
	)
	return nil
}

// DeliverNotification posts a subscription notification Bundle to the
// configured receiving endpoint as FHIR JSON.
func (c *caseReportingClient) DeliverNotification(ctx context.Context, token string, bundle *fhir_dto.FHIRBundle) error {
	requestID := c.idGen.NewID()
	correlationID := c.idGen.NewID()
	c.log.Info("caseReportingClient.DeliverNotification called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingCorrelationIDKey, correlationID),
	)

	bundleJSON, err := json.Marshal(bundle)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.notificationEndpoint, bytes.NewBuffer(bundleJSON))
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationFHIRJSON)
	req.Header.Set(constvars.HeaderAuthorization, "Bearer "+token)
	req.Header.Set(constvars.HeaderXRequestID, requestID)
	req.Header.Set(constvars.HeaderXCorrelationID, correlationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if utils.IsTimeoutError(err) {
			return exceptions.ErrRequestTimeout(err, c.notificationEndpoint)
		}
		return exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < constvars.StatusOK || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return exceptions.ErrNotificationRejected(resp.StatusCode, string(bodyBytes))
	}

	c.log.Info("caseReportingClient.DeliverNotification succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return nil
}
