package main

import (
	"caselink-service/internal/pkg/utils"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"os"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// keygen generates the RSA keypair backing the private_key_jwt auth modes:
// a PKCS#8 private key PEM at PRIVATE_KEY_PATH and the matching public key
// as a JWK set in jwks.json, both written with restrictive permissions.

const jwksFileName = "jwks.json"

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

func main() {
	keyPath := utils.GetEnvString("PRIVATE_KEY_PATH", "private_key.pem")
	keyID := utils.GetEnvString("KEY_ID", "caselink-signing-key")

	if _, err := writeKeyMaterial(keyPath, jwksFileName, keyID); err != nil {
		logrus.Fatalf("Failed to generate key material: %v", err)
	}

	logrus.Printf("Wrote %s and %s (kid=%s)", keyPath, jwksFileName, keyID)
}

// writeKeyMaterial generates a fresh RSA-2048 keypair, writes the private key
// as PKCS#8 PEM to keyPath and the public key as a JWK set to jwksPath, both
// with 0600 permissions. The generated key is returned so callers can verify
// the written material against it.
func writeKeyMaterial(keyPath, jwksPath, keyID string) (*rsa.PrivateKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, err
	}

	keyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, err
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PRIVATE KEY",
		Bytes: keyBytes,
	})
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return nil, err
	}

	set := jwkSet{
		Keys: []jwk{
			{
				Kty: "RSA",
				Use: "sig",
				Alg: "RS256",
				Kid: keyID,
				N:   base64.RawURLEncoding.EncodeToString(privateKey.PublicKey.N.Bytes()),
				E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(privateKey.PublicKey.E)).Bytes()),
			},
		},
	}
	setJSON, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(jwksPath, setJSON, 0600); err != nil {
		return nil, err
	}

	return privateKey, nil
}
