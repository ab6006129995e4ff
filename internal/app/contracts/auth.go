package contracts

import "context"

// SignAssertionInput carries everything the signer needs to mint one
// client assertion.
type SignAssertionInput struct {
	ClientID       string
	Audience       string
	KeyID          string
	PrivateKeyPath string
}

type AssertionSigner interface {
	SignAssertion(ctx context.Context, input *SignAssertionInput) (string, error)
}

type FhirTokenClient interface {
	// AcquireToken validates mode-dependent required settings before any
	// network call, then exchanges the configured credentials for a bearer
	// access token.
	AcquireToken(ctx context.Context) (string, error)
}

type ReportingTokenClient interface {
	// AcquireToken returns the raw token string; callers must treat an empty
	// result as a failure.
	AcquireToken(ctx context.Context) (string, error)
}
