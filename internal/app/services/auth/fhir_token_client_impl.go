package auth

import (
	"caselink-service/internal/app/config"
	"caselink-service/internal/app/contracts"
	"caselink-service/internal/pkg/constvars"
	"caselink-service/internal/pkg/exceptions"
	"caselink-service/internal/pkg/utils"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// AuthMode enumerates the supported client-authentication mechanisms.
type AuthMode string

const (
	AuthModeSOFBackend        AuthMode = "SOF_BACKEND"
	AuthModePrivateKeyJWT     AuthMode = "PRIVATE_KEY_JWT"
	AuthModeClientSecretBasic AuthMode = "CLIENT_SECRET_BASIC"
	AuthModeClientSecretPost  AuthMode = "CLIENT_SECRET_POST"
)

type fhirTokenClient struct {
	cfg        *config.InternalConfig
	signer     contracts.AssertionSigner
	log        *zap.Logger
	httpClient *http.Client
}

func NewFhirTokenClient(cfg *config.InternalConfig, signer contracts.AssertionSigner, logger *zap.Logger) contracts.FhirTokenClient {
	return &fhirTokenClient{
		cfg:    cfg,
		signer: signer,
		log:    logger,
		httpClient: &http.Client{
			Timeout: constvars.TimeoutFhirTokenSeconds * time.Second,
		},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// AcquireToken exchanges the configured client credentials for a bearer token.
// The mode is checked first, then its required settings, all before any network
// call, so an unknown mode is reported as such rather than as missing fields.
func (c *fhirTokenClient) AcquireToken(ctx context.Context) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	mode := AuthMode(strings.TrimSpace(c.cfg.Auth.Mode))
	c.log.Info("fhirTokenClient.AcquireToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAuthModeKey, string(mode)),
	)

	switch mode {
	case AuthModeSOFBackend, AuthModePrivateKeyJWT, AuthModeClientSecretBasic, AuthModeClientSecretPost:
	default:
		return "", exceptions.ErrUnsupportedAuthMode(string(mode))
	}

	if missing := c.missingFields(mode); len(missing) > 0 {
		return "", exceptions.ErrMissingConfigFields(missing)
	}

	form := url.Values{}
	form.Set(constvars.OAuthParamGrantType, constvars.OAuthGrantTypeClientCredentials)

	scope := c.cfg.Auth.Scope
	if scope == "" {
		scope = constvars.OAuthDefaultScope
	}
	form.Set(constvars.OAuthParamScope, scope)

	if c.cfg.Auth.AudRequired {
		aud := c.cfg.Auth.AudValue
		if aud == "" {
			aud = c.cfg.Auth.TokenURL
		}
		form.Set(constvars.OAuthParamAudience, aud)
	}

	var basicAuth bool
	switch mode {
	case AuthModeSOFBackend, AuthModePrivateKeyJWT:
		assertion, err := c.signer.SignAssertion(ctx, &contracts.SignAssertionInput{
			ClientID:       c.cfg.Auth.ClientID,
			Audience:       c.cfg.Auth.TokenURL,
			KeyID:          c.cfg.Auth.KeyID,
			PrivateKeyPath: c.cfg.Auth.PrivateKeyPath,
		})
		if err != nil {
			return "", err
		}
		form.Set(constvars.OAuthParamClientAssertionType, constvars.OAuthClientAssertionTypeJWTBearer)
		form.Set(constvars.OAuthParamClientAssertion, assertion)
	case AuthModeClientSecretBasic:
		basicAuth = true
	case AuthModeClientSecretPost:
		form.Set(constvars.OAuthParamClientID, c.cfg.Auth.ClientID)
		form.Set(constvars.OAuthParamClientSecret, c.cfg.Auth.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.cfg.Auth.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if basicAuth {
		req.SetBasicAuth(c.cfg.Auth.ClientID, c.cfg.Auth.ClientSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if utils.IsTimeoutError(err) {
			c.log.Error("fhirTokenClient.AcquireToken request timed out",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return "", exceptions.ErrRequestTimeout(err, c.cfg.Auth.TokenURL)
		}
		c.log.Error("fhirTokenClient.AcquireToken error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", exceptions.ErrSendHTTPRequest(err)
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return "", exceptions.ErrTokenResponse(string(bodyBytes))
	}
	if tokenResp.AccessToken == "" {
		c.log.Error("fhirTokenClient.AcquireToken response has no access_token",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return "", exceptions.ErrTokenResponse(string(bodyBytes))
	}

	c.log.Info("fhirTokenClient.AcquireToken succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingAuthModeKey, string(mode)),
	)
	return tokenResp.AccessToken, nil
}

// missingFields returns the env-style names of required settings absent for
// the given mode. The caller rejects unknown modes before calling this.
func (c *fhirTokenClient) missingFields(mode AuthMode) []string {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	require("TOKEN_URL", c.cfg.Auth.TokenURL)
	require("CLIENT_ID", c.cfg.Auth.ClientID)

	switch mode {
	case AuthModeSOFBackend, AuthModePrivateKeyJWT:
		require("KEY_ID", c.cfg.Auth.KeyID)
		require("PRIVATE_KEY_PATH", c.cfg.Auth.PrivateKeyPath)
	case AuthModeClientSecretBasic, AuthModeClientSecretPost:
		require("CLIENT_SECRET", c.cfg.Auth.ClientSecret)
	}
	return missing
}
