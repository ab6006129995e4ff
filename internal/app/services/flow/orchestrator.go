package flow

import (
	"caselink-service/internal/app/config"
	"caselink-service/internal/app/contracts"
	"caselink-service/internal/pkg/constvars"
	"caselink-service/internal/pkg/exceptions"
	"caselink-service/internal/pkg/fhir_dto"
	"caselink-service/internal/pkg/utils"
	"context"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Orchestrator sequences token acquisition, encounter resolution, and
// per-encounter submission for the flow selected at startup.
type Orchestrator struct {
	cfg            *config.InternalConfig
	fhirToken      contracts.FhirTokenClient
	reportingToken contracts.ReportingTokenClient
	encounters     contracts.EncounterFhirClient
	reporting      contracts.CaseReportingClient
	notifications  contracts.NotificationBundleBuilder
	limiter        *rate.Limiter
	log            *zap.Logger
}

func NewOrchestrator(
	cfg *config.InternalConfig,
	fhirToken contracts.FhirTokenClient,
	reportingToken contracts.ReportingTokenClient,
	encounters contracts.EncounterFhirClient,
	reporting contracts.CaseReportingClient,
	notifications contracts.NotificationBundleBuilder,
	logger *zap.Logger,
) *Orchestrator {
	var limiter *rate.Limiter
	if cfg.App.SubmitThrottleRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.App.SubmitThrottleRPS), 1)
	}
	return &Orchestrator{
		cfg:            cfg,
		fhirToken:      fhirToken,
		reportingToken: reportingToken,
		encounters:     encounters,
		reporting:      reporting,
		notifications:  notifications,
		limiter:        limiter,
		log:            logger,
	}
}

// Run executes the configured flow. Errors returned here are terminal for
// the whole run; per-encounter failures inside a flow are logged and
// swallowed so one bad encounter cannot fail the batch.
func (o *Orchestrator) Run(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	o.log.Info("orchestrator.Run called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingFlowKey, o.cfg.Flow.Mode),
	)

	switch o.cfg.Flow.Mode {
	case constvars.FlowModeLaunch:
		return o.runLaunchFlow(ctx)
	case constvars.FlowModeNotify:
		return o.runNotifyFlow(ctx)
	default:
		return exceptions.ErrUnsupportedFlowMode(o.cfg.Flow.Mode)
	}
}

func (o *Orchestrator) acquireTokens(ctx context.Context) (fhirToken, reportingToken string, err error) {
	fhirToken, err = o.fhirToken.AcquireToken(ctx)
	if err != nil {
		return "", "", err
	}
	reportingToken, err = o.reportingToken.AcquireToken(ctx)
	if err != nil {
		return "", "", err
	}
	if reportingToken == "" {
		return "", "", exceptions.ErrReportingTokenEmpty()
	}
	return fhirToken, reportingToken, nil
}

func (o *Orchestrator) searchInput() *contracts.EncounterSearchInput {
	return &contracts.EncounterSearchInput{
		StartDate:       o.cfg.Search.StartDate,
		EndDate:         o.cfg.Search.EndDate,
		DateField:       o.cfg.Search.DateField,
		Codes:           utils.ParseCodeList(o.cfg.Search.ConditionCodes),
		PatientID:       o.cfg.Search.PatientID,
		EncounterStatus: o.cfg.Search.EncounterStatus,
		IncludeSubject:  o.cfg.Search.IncludeSubject,
	}
}

func (o *Orchestrator) throttle(ctx context.Context) error {
	if o.limiter == nil {
		return nil
	}
	return o.limiter.Wait(ctx)
}

// runLaunchFlow resolves encounters by date range and posts one launch
// request per encounter that carries both an Encounter id and a Patient id.
func (o *Orchestrator) runLaunchFlow(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	fhirToken, reportingToken, err := o.acquireTokens(ctx)
	if err != nil {
		return err
	}

	resolved, err := o.encounters.FindEncountersByDateRange(ctx, fhirToken, o.searchInput())
	if err != nil {
		return err
	}
	o.log.Info("orchestrator.runLaunchFlow encounters resolved",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEncounterCountKey, len(resolved)),
	)

	submitted := 0
	skipped := 0
	for _, encounter := range resolved {
		patientID := encounter.PatientID()
		if encounter.ID == "" || patientID == "" {
			skipped++
			o.log.Warn("orchestrator.runLaunchFlow skipping encounter without resolvable patient",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEncounterIDKey, encounter.ID),
			)
			continue
		}

		if err := o.throttle(ctx); err != nil {
			return err
		}

		err := o.reporting.LaunchPatient(ctx, reportingToken, &contracts.LaunchPatientInput{
			FhirServerURL:   o.cfg.FHIR.BaseUrl,
			PatientID:       patientID,
			EncounterID:     encounter.ID,
			ValidateOnly:    o.cfg.Flow.ValidateOnly,
			ThrottleContext: o.cfg.Flow.ThrottleContext,
		})
		if err != nil {
			skipped++
			o.log.Warn("orchestrator.runLaunchFlow launch request failed, continuing",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEncounterIDKey, encounter.ID),
				zap.Error(err),
			)
			continue
		}
		submitted++
	}

	o.log.Info("orchestrator.runLaunchFlow finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("submitted", submitted),
		zap.Int("skipped", skipped),
	)
	return nil
}

// runNotifyFlow resolves encounters via condition codes and delivers one
// subscription notification Bundle per encounter.
func (o *Orchestrator) runNotifyFlow(ctx context.Context) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	fhirToken, reportingToken, err := o.acquireTokens(ctx)
	if err != nil {
		return err
	}

	input := o.searchInput()
	var resolved []fhir_dto.Encounter
	if o.cfg.Search.ConditionPostSearch {
		resolved, err = o.encounters.SearchEncountersByConditionPost(ctx, fhirToken, input)
	} else {
		resolved, err = o.encounters.FindEncountersByConditionCodes(ctx, fhirToken, input)
	}
	if err != nil {
		return err
	}
	o.log.Info("orchestrator.runNotifyFlow encounters resolved",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingEncounterCountKey, len(resolved)),
	)

	delivered := 0
	skipped := 0
	for i, encounter := range resolved {
		bundle, err := o.notifications.BuildNotificationBundle(&encounter, &contracts.NotificationMeta{
			SubscriptionURL:   o.cfg.Reporting.SubscriptionURL,
			TopicURL:          o.cfg.Reporting.SubscriptionTopic,
			EventsSinceStart:  i + 1,
			NotificationEvent: i + 1,
		})
		if err != nil {
			skipped++
			o.log.Warn("orchestrator.runNotifyFlow bundle build failed, continuing",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEncounterIDKey, encounter.ID),
				zap.Error(err),
			)
			continue
		}

		if err := o.throttle(ctx); err != nil {
			return err
		}

		if err := o.reporting.DeliverNotification(ctx, reportingToken, bundle); err != nil {
			skipped++
			o.log.Warn("orchestrator.runNotifyFlow notification delivery failed, continuing",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingEncounterIDKey, encounter.ID),
				zap.Error(err),
			)
			continue
		}
		delivered++
	}

	o.log.Info("orchestrator.runNotifyFlow finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("delivered", delivered),
		zap.Int("skipped", skipped),
	)
	return nil
}
