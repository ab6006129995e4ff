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

type reportingTokenClient struct {
	cfg        *config.InternalConfig
	log        *zap.Logger
	httpClient *http.Client
}

func NewReportingTokenClient(cfg *config.InternalConfig, logger *zap.Logger) contracts.ReportingTokenClient {
	return &reportingTokenClient{
		cfg: cfg,
		log: logger,
		httpClient: &http.Client{
			Timeout: constvars.TimeoutReportingTokenSeconds * time.Second,
		},
	}
}

// AcquireToken performs the plain client_credentials exchange against the
// case-reporting authorization server. Secret and user id are optional form
// fields. An absent access_token yields "", not an error; the caller decides.
func (c *reportingTokenClient) AcquireToken(ctx context.Context) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	c.log.Info("reportingTokenClient.AcquireToken called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	var missing []string
	if strings.TrimSpace(c.cfg.Reporting.TokenURL) == "" {
		missing = append(missing, "REPORTING_TOKEN_URL")
	}
	if strings.TrimSpace(c.cfg.Reporting.ClientID) == "" {
		missing = append(missing, "REPORTING_CLIENT_ID")
	}
	if len(missing) > 0 {
		return "", exceptions.ErrMissingConfigFields(missing)
	}

	form := url.Values{}
	form.Set(constvars.OAuthParamGrantType, constvars.OAuthGrantTypeClientCredentials)
	form.Set(constvars.OAuthParamClientID, c.cfg.Reporting.ClientID)
	if c.cfg.Reporting.ClientSecret != "" {
		form.Set(constvars.OAuthParamClientSecret, c.cfg.Reporting.ClientSecret)
	}
	if c.cfg.Reporting.UserID != "" {
		form.Set(constvars.OAuthParamUserID, c.cfg.Reporting.UserID)
	}

	req, err := http.NewRequestWithContext(ctx, constvars.MethodPost, c.cfg.Reporting.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", exceptions.ErrCreateHTTPRequest(err)
	}
	req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationForm)
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if utils.IsTimeoutError(err) {
			return "", exceptions.ErrRequestTimeout(err, c.cfg.Reporting.TokenURL)
		}
		c.log.Error("reportingTokenClient.AcquireToken error sending HTTP request",
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

	c.log.Info("reportingTokenClient.AcquireToken finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Bool("token_present", tokenResp.AccessToken != ""),
	)
	return tokenResp.AccessToken, nil
}
