package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	// ErrMissingSignature is returned when the signature header is absent.
	ErrMissingSignature = errors.New("missing webhook signature")
	// ErrInvalidSignature is returned when the signature does not match the body.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// SignatureVerifier checks gateway webhook signatures: a hex-encoded
// HMAC-SHA256 over the raw request body.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier creates a verifier for the shared webhook secret.
// An empty secret is a configuration error and refused at construction.
func NewSignatureVerifier(secret string) (*SignatureVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("webhook secret cannot be empty")
	}
	return &SignatureVerifier{secret: []byte(secret)}, nil
}

// Verify checks the signature against the raw body. The comparison is
// constant-time; neither the secret nor any computed digest is ever
// returned or logged.
func (v *SignatureVerifier) Verify(body []byte, signature string) error {
	if signature == "" {
		return ErrMissingSignature
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	computed := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(computed), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// Sign computes the hex signature for a body. Used by tests and the mock
// gateway to produce valid deliveries.
func (v *SignatureVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
