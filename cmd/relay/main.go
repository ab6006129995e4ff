package main

import (
	"caselink-service/internal/app/config"
	"caselink-service/internal/app/drivers/logger"
	"caselink-service/internal/app/services/auth"
	"caselink-service/internal/app/services/encounters"
	"caselink-service/internal/app/services/flow"
	"caselink-service/internal/app/services/notifications"
	"caselink-service/internal/app/services/reporting"
	"caselink-service/internal/pkg/constvars"
	"caselink-service/internal/pkg/exceptions"
	"caselink-service/internal/pkg/utils"
	"context"
	"os"

	"go.uber.org/zap"
)

func main() {
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(internalConfig)
	defer zapLogger.Sync()

	if err := internalConfig.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	requestID := utils.GenerateRequestID()
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, requestID)

	orchestrator := bootstrapTheApp(internalConfig, zapLogger)
	if err := orchestrator.Run(ctx); err != nil {
		if customErr, ok := exceptions.IsCustomError(err); ok {
			log.Errorf("Run failed: %s", customErr.DevMessage)
		} else {
			log.Errorf("Run failed: %v", err)
		}
		os.Exit(1)
	}

	log.Println("Run finished")
}

func bootstrapTheApp(internalConfig *config.InternalConfig, zapLogger *zap.Logger) *flow.Orchestrator {
	idGenerator := utils.NewUUIDGenerator()

	// Auth
	assertionSigner := auth.NewAssertionSigner(idGenerator, zapLogger)
	fhirTokenClient := auth.NewFhirTokenClient(internalConfig, assertionSigner, zapLogger)
	reportingTokenClient := auth.NewReportingTokenClient(internalConfig, zapLogger)

	// FHIR
	encounterFhirClient := encounters.NewEncounterFhirClient(internalConfig.FHIR.BaseUrl, zapLogger)

	// Case reporting
	caseReportingClient := reporting.NewCaseReportingClient(internalConfig, idGenerator, zapLogger)
	notificationBuilder := notifications.NewNotificationBundleBuilder(idGenerator, zapLogger)

	return flow.NewOrchestrator(
		internalConfig,
		fhirTokenClient,
		reportingTokenClient,
		encounterFhirClient,
		caseReportingClient,
		notificationBuilder,
		zapLogger,
	)
}
