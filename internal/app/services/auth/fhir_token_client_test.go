package auth

import (
	"caselink-service/internal/app/config"
	"caselink-service/internal/pkg/exceptions"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturedTokenRequest struct {
	form          url.Values
	authHeader    string
	contentType   string
	basicUser     string
	basicPass     string
	basicProvided bool
}

func newTokenServer(t *testing.T, responseBody string) (*httptest.Server, *capturedTokenRequest) {
	t.Helper()
	captured := &capturedTokenRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		captured.form = r.PostForm
		captured.authHeader = r.Header.Get("Authorization")
		captured.contentType = r.Header.Get("Content-Type")
		captured.basicUser, captured.basicPass, captured.basicProvided = r.BasicAuth()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(responseBody))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func tokenTestConfig(mode, tokenURL string) *config.InternalConfig {
	return &config.InternalConfig{
		Auth: config.Auth{
			Mode:         mode,
			TokenURL:     tokenURL,
			ClientID:     "relay-client",
			ClientSecret: "s3cret",
			Scope:        "system/*.read",
		},
	}
}

func TestAcquireFhirToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Client Secret Post Mode", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"tok-post","token_type":"bearer","expires_in":300}`)
		cfg := tokenTestConfig("CLIENT_SECRET_POST", server.URL)

		client := NewFhirTokenClient(cfg, nil, zap.NewNop())
		token, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-post", token)

		assert.Equal(t, "client_credentials", captured.form.Get("grant_type"))
		assert.Equal(t, "system/*.read", captured.form.Get("scope"))
		assert.Equal(t, "relay-client", captured.form.Get("client_id"))
		assert.Equal(t, "s3cret", captured.form.Get("client_secret"))
		assert.Empty(t, captured.form.Get("client_assertion"), "assertion belongs only to the JWT modes")
		assert.False(t, captured.basicProvided, "POST mode must not send a basic Authorization header")
		assert.Equal(t, "application/x-www-form-urlencoded", captured.contentType)
	})

	t.Run("Client Secret Basic Mode", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"tok-basic"}`)
		cfg := tokenTestConfig("CLIENT_SECRET_BASIC", server.URL)

		client := NewFhirTokenClient(cfg, nil, zap.NewNop())
		token, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-basic", token)

		require.True(t, captured.basicProvided)
		assert.Equal(t, "relay-client", captured.basicUser)
		assert.Equal(t, "s3cret", captured.basicPass)
		assert.Empty(t, captured.form.Get("client_secret"), "basic mode keeps the secret out of the body")
		assert.Empty(t, captured.form.Get("client_id"))
		assert.Empty(t, captured.form.Get("client_assertion"))
	})

	t.Run("Private Key JWT Mode", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"tok-jwt"}`)
		keyPath, _ := writeTestPrivateKey(t)

		cfg := tokenTestConfig("PRIVATE_KEY_JWT", server.URL)
		cfg.Auth.ClientSecret = ""
		cfg.Auth.KeyID = "key-1"
		cfg.Auth.PrivateKeyPath = keyPath

		signer := NewAssertionSigner(&stubIDGenerator{}, zap.NewNop())
		client := NewFhirTokenClient(cfg, signer, zap.NewNop())
		token, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-jwt", token)

		assert.Equal(t, "urn:ietf:params:oauth:client-assertion-type:jwt-bearer", captured.form.Get("client_assertion_type"))
		assert.NotEmpty(t, captured.form.Get("client_assertion"))
		assert.False(t, captured.basicProvided)
		assert.Empty(t, captured.form.Get("client_secret"))

		claims := decodeClaims(t, captured.form.Get("client_assertion"))
		assert.Equal(t, server.URL, claims["aud"], "assertion audience must be the token endpoint")
	})

	t.Run("SOF Backend Mode", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"tok-sof"}`)
		keyPath, _ := writeTestPrivateKey(t)

		cfg := tokenTestConfig("SOF_BACKEND", server.URL)
		cfg.Auth.ClientSecret = ""
		cfg.Auth.KeyID = "key-1"
		cfg.Auth.PrivateKeyPath = keyPath

		signer := NewAssertionSigner(&stubIDGenerator{}, zap.NewNop())
		client := NewFhirTokenClient(cfg, signer, zap.NewNop())
		token, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-sof", token)
		assert.NotEmpty(t, captured.form.Get("client_assertion"))
	})

	t.Run("Audience Parameter", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"tok"}`)
		cfg := tokenTestConfig("CLIENT_SECRET_POST", server.URL)
		cfg.Auth.AudRequired = true
		cfg.Auth.AudValue = "https://fhir.example.org"

		client := NewFhirTokenClient(cfg, nil, zap.NewNop())
		_, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://fhir.example.org", captured.form.Get("aud"))
	})

	t.Run("Audience Defaults To Token URL", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"tok"}`)
		cfg := tokenTestConfig("CLIENT_SECRET_POST", server.URL)
		cfg.Auth.AudRequired = true

		client := NewFhirTokenClient(cfg, nil, zap.NewNop())
		_, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, server.URL, captured.form.Get("aud"))
	})

	t.Run("Missing Fields Per Mode", func(t *testing.T) {
		testCases := []struct {
			name     string
			mode     string
			expected []string
		}{
			{name: "JWT Mode Needs Key Material", mode: "PRIVATE_KEY_JWT", expected: []string{"TOKEN_URL", "CLIENT_ID", "KEY_ID", "PRIVATE_KEY_PATH"}},
			{name: "SOF Backend Needs Key Material", mode: "SOF_BACKEND", expected: []string{"TOKEN_URL", "CLIENT_ID", "KEY_ID", "PRIVATE_KEY_PATH"}},
			{name: "Basic Mode Needs Secret", mode: "CLIENT_SECRET_BASIC", expected: []string{"TOKEN_URL", "CLIENT_ID", "CLIENT_SECRET"}},
			{name: "Post Mode Needs Secret", mode: "CLIENT_SECRET_POST", expected: []string{"TOKEN_URL", "CLIENT_ID", "CLIENT_SECRET"}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				cfg := &config.InternalConfig{Auth: config.Auth{Mode: tc.mode}}
				client := NewFhirTokenClient(cfg, nil, zap.NewNop())

				_, err := client.AcquireToken(ctx)
				require.Error(t, err)
				customErr, ok := exceptions.IsCustomError(err)
				require.True(t, ok)
				for _, field := range tc.expected {
					assert.Contains(t, customErr.DevMessage, field)
				}
			})
		}
	})

	t.Run("Unsupported Mode", func(t *testing.T) {
		server, _ := newTokenServer(t, `{"access_token":"tok"}`)
		cfg := tokenTestConfig("SAML_BEARER", server.URL)

		client := NewFhirTokenClient(cfg, nil, zap.NewNop())
		_, err := client.AcquireToken(ctx)
		require.Error(t, err)
		customErr, ok := exceptions.IsCustomError(err)
		require.True(t, ok)
		assert.Contains(t, customErr.DevMessage, "SAML_BEARER")
	})

	t.Run("Unsupported Mode Reported Before Missing Fields", func(t *testing.T) {
		cfg := &config.InternalConfig{Auth: config.Auth{Mode: "SAML_BEARER"}}

		client := NewFhirTokenClient(cfg, nil, zap.NewNop())
		_, err := client.AcquireToken(ctx)
		require.Error(t, err)
		customErr, ok := exceptions.IsCustomError(err)
		require.True(t, ok)
		assert.Contains(t, customErr.DevMessage, "SAML_BEARER", "a bogus mode must be named even when required fields are also blank")
		assert.NotContains(t, customErr.DevMessage, "TOKEN_URL")
	})

	t.Run("Response Without Access Token", func(t *testing.T) {
		server, _ := newTokenServer(t, `{"error":"invalid_client"}`)
		cfg := tokenTestConfig("CLIENT_SECRET_POST", server.URL)

		client := NewFhirTokenClient(cfg, nil, zap.NewNop())
		_, err := client.AcquireToken(ctx)
		require.Error(t, err)
		customErr, ok := exceptions.IsCustomError(err)
		require.True(t, ok)
		assert.Contains(t, customErr.DevMessage, "invalid_client")
	})
}
