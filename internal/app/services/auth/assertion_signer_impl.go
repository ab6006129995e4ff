package auth

import (
	"caselink-service/internal/app/contracts"
	"caselink-service/internal/pkg/constvars"
	"caselink-service/internal/pkg/exceptions"
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

type assertionSigner struct {
	log   *zap.Logger
	idGen contracts.IDGenerator
}

func NewAssertionSigner(idGen contracts.IDGenerator, logger *zap.Logger) contracts.AssertionSigner {
	return &assertionSigner{
		log:   logger,
		idGen: idGen,
	}
}

// SignAssertion mints a compact RS256 client assertion from the key file at
// input.PrivateKeyPath. The assertion asserts iss == sub == client id and
// expires 300 seconds after issuance.
func (s *assertionSigner) SignAssertion(ctx context.Context, input *contracts.SignAssertionInput) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.log.Info("assertionSigner.SignAssertion called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	pemBytes, err := os.ReadFile(input.PrivateKeyPath)
	if err != nil {
		s.log.Error("assertionSigner.SignAssertion error reading key file",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrReadPrivateKey(err, input.PrivateKeyPath)
	}

	privateKey, err := parseRSAPrivateKey(pemBytes)
	if err != nil {
		s.log.Error("assertionSigner.SignAssertion error parsing key material",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrParsePrivateKey(err)
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss": input.ClientID,
		"sub": input.ClientID,
		"aud": input.Audience,
		"jti": s.idGen.NewID(),
		"iat": now.Unix(),
		"exp": now.Add(constvars.OAuthAssertionLifetimeSeconds * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = input.KeyID

	signed, err := token.SignedString(privateKey)
	if err != nil {
		s.log.Error("assertionSigner.SignAssertion error signing assertion",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return "", exceptions.ErrSignAssertion(err)
	}

	s.log.Info("assertionSigner.SignAssertion succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)
	return signed, nil
}

func parseRSAPrivateKey(pemBytes []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block")
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS1 private key: %w", err)
		}
		return key, nil
	case "PRIVATE KEY": // PKCS#8
		keyAny, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS8 private key: %w", err)
		}
		if rsaKey, ok := keyAny.(*rsa.PrivateKey); ok {
			return rsaKey, nil
		}
		return nil, fmt.Errorf("PKCS8 key is not RSA")
	default:
		return nil, fmt.Errorf("unsupported RSA PEM type: %s", block.Type)
	}
}
