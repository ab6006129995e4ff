package exceptions

import (
	"caselink-service/internal/pkg/constvars"
	"fmt"
	"strings"
)

var (
	// Configuration
	ErrMissingConfigFields = func(fields []string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientInvalidConfiguration, fmt.Sprintf(constvars.ErrDevMissingConfigFields, strings.Join(fields, ", ")))
	}
	ErrUnsupportedAuthMode = func(mode string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientInvalidConfiguration, fmt.Sprintf(constvars.ErrDevUnsupportedAuthMode, mode))
	}
	ErrUnsupportedFlowMode = func(mode string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientInvalidConfiguration, fmt.Sprintf(constvars.ErrDevUnsupportedFlowMode, mode))
	}
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientInvalidConfiguration, constvars.ErrDevValidationFailed)
	}

	// Credential material
	ErrReadPrivateKey = func(err error, path string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevReadPrivateKey, path))
	}
	ErrParsePrivateKey = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevParsePrivateKey)
	}
	ErrSignAssertion = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevSignAssertion)
	}

	// Token exchange
	ErrTokenResponse = func(body string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevTokenResponseNoToken, body))
	}
	ErrReportingTokenEmpty = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, constvars.ErrDevReportingTokenEmpty)
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevSendHTTPRequest)
	}
	ErrRequestTimeout = func(err error, url string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, fmt.Sprintf(constvars.ErrDevRequestTimeout, url))
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}

	// FHIR
	ErrGetFHIRResource = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevGetFHIRResource, resource))
	}
	ErrSearchFHIRResource = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevSearchFHIRResource, resource))
	}
	ErrDecodeResponse = func(err error, resource string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevDecodeFHIRResource, resource))
	}

	// Case reporting
	ErrLaunchRequestRejected = func(statusCode int, body string) *CustomError {
		return BuildNewCustomError(nil, statusCode, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevLaunchRequestRejected, statusCode, body))
	}
	ErrNotificationRejected = func(statusCode int, body string) *CustomError {
		return BuildNewCustomError(nil, statusCode, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevNotificationRejected, statusCode, body))
	}
)
