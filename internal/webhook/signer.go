package webhook

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner mints short-lived RS256 bearer tokens for outbound deliveries.
type TokenSigner struct {
	priv   *rsa.PrivateKey
	issuer string
	ttl    time.Duration
}

func NewTokenSigner(keyPEM string, issuer string) (*TokenSigner, error) {
	priv, err := ParseRSAPrivateKeyPEM(keyPEM)
	if err != nil {
		return nil, err
	}
	if issuer == "" {
		issuer = "stockpipe"
	}
	return &TokenSigner{
		priv:   priv,
		issuer: issuer,
		ttl:    5 * time.Minute,
	}, nil
}

func (s *TokenSigner) Mint(subject string) (string, error) {
	now := time.Now().UTC()

	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return tok.SignedString(s.priv)
}

// ParseRSAPrivateKeyPEM accepts PKCS#1 and PKCS#8 PEM blocks, including
// single-line values with \n escapes as stored in env vars.
func ParseRSAPrivateKeyPEM(raw string) (*rsa.PrivateKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("private key pem is empty")
	}

	// Support single-line env with \n escapes
	raw = strings.ReplaceAll(raw, `\n`, "\n")

	block, _ := pem.Decode([]byte(raw))
	if block == nil {
		return nil, errors.New("pem decode failed")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		// PKCS#1
		priv, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs1 private key failed: %w", err)
		}
		return priv, nil

	case "PRIVATE KEY":
		// PKCS#8
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse pkcs8 private key failed: %w", err)
		}
		priv, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("pkcs8 key is not rsa")
		}
		return priv, nil

	default:
		return nil, fmt.Errorf("unsupported pem type: %s", block.Type)
	}
}
