package auth

import (
	"caselink-service/internal/app/config"
	"caselink-service/internal/pkg/exceptions"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAcquireReportingToken(t *testing.T) {
	ctx := context.Background()

	t.Run("All Optional Fields Present", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"rep-tok"}`)
		cfg := &config.InternalConfig{
			Reporting: config.Reporting{
				TokenURL:     server.URL,
				ClientID:     "reporting-client",
				ClientSecret: "reporting-secret",
				UserID:       "user-42",
			},
		}

		client := NewReportingTokenClient(cfg, zap.NewNop())
		token, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "rep-tok", token)

		assert.Equal(t, "client_credentials", captured.form.Get("grant_type"))
		assert.Equal(t, "reporting-client", captured.form.Get("client_id"))
		assert.Equal(t, "reporting-secret", captured.form.Get("client_secret"))
		assert.Equal(t, "user-42", captured.form.Get("userId"))
	})

	t.Run("Optional Fields Omitted When Empty", func(t *testing.T) {
		server, captured := newTokenServer(t, `{"access_token":"rep-tok"}`)
		cfg := &config.InternalConfig{
			Reporting: config.Reporting{
				TokenURL: server.URL,
				ClientID: "reporting-client",
			},
		}

		client := NewReportingTokenClient(cfg, zap.NewNop())
		_, err := client.AcquireToken(ctx)
		require.NoError(t, err)

		_, hasSecret := captured.form["client_secret"]
		_, hasUserID := captured.form["userId"]
		assert.False(t, hasSecret)
		assert.False(t, hasUserID)
	})

	t.Run("Absent Token Is Not An Error", func(t *testing.T) {
		server, _ := newTokenServer(t, `{"token_type":"bearer"}`)
		cfg := &config.InternalConfig{
			Reporting: config.Reporting{
				TokenURL: server.URL,
				ClientID: "reporting-client",
			},
		}

		client := NewReportingTokenClient(cfg, zap.NewNop())
		token, err := client.AcquireToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)
	})

	t.Run("Missing Required Settings", func(t *testing.T) {
		client := NewReportingTokenClient(&config.InternalConfig{}, zap.NewNop())
		_, err := client.AcquireToken(ctx)
		require.Error(t, err)
		customErr, ok := exceptions.IsCustomError(err)
		require.True(t, ok)
		assert.Contains(t, customErr.DevMessage, "REPORTING_TOKEN_URL")
		assert.Contains(t, customErr.DevMessage, "REPORTING_CLIENT_ID")
	})
}
