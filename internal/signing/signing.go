// Package signing implements the HMAC-SHA256 request authentication shared
// by Central and Workers. Every cross-service request carries a hex signature
// over the timestamp and body plus the timestamp itself, giving both
// authenticity and replay protection. GitHub webhook verification uses the
// same primitive without the timestamp, matching X-Hub-Signature-256.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Header names used on signed requests between Central and Workers.
const (
	HeaderCentralSignature = "X-Central-Signature"
	HeaderWorkerSignature  = "X-Worker-Signature"
	HeaderTimestamp        = "X-Request-Timestamp"
	// HeaderGitHubSignature is GitHub's webhook signature header.
	HeaderGitHubSignature = "X-Hub-Signature-256"
)

const (
	// MaxSignatureAge bounds how old a signed request may be.
	MaxSignatureAge = 300 * time.Second
	// FutureTolerance absorbs clock skew between peers.
	FutureTolerance = 60 * time.Second

	signaturePrefix = "sha256="
)

var (
	// ErrInvalidSignature means the signature does not match the payload.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrExpired means the timestamp is outside the accepted window.
	ErrExpired = errors.New("signature timestamp outside accepted window")
	// ErrMalformedHeader means a signature or timestamp header could not be parsed.
	ErrMalformedHeader = errors.New("malformed signature header")
)

// TimeProvider supplies the current time; it exists so verification windows
// can be tested without sleeping.
type TimeProvider interface {
	Now() time.Time
}

// Signer signs and verifies request bodies with a shared secret.
type Signer struct {
	secret []byte
	clock  TimeProvider
}

// Options configures a Signer.
type Options struct {
	Secret []byte
	// Clock defaults to real system time when nil.
	Clock TimeProvider
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// New creates a Signer from options.
func New(opts Options) (*Signer, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &Signer{secret: opts.Secret, clock: clock}, nil
}

// Sign computes the signature for body at the current time.
// It returns the signature value and the unix timestamp that was signed;
// both must travel with the request.
func (s *Signer) Sign(body []byte) (signature string, timestamp int64) {
	ts := s.clock.Now().Unix()
	return s.compute(body, ts), ts
}

// Verify checks a signature against body and timestamp, enforcing the replay
// window. The comparison is constant-time.
func (s *Signer) Verify(body []byte, signature string, timestamp int64) error {
	now := s.clock.Now().Unix()
	if now-timestamp > int64(MaxSignatureAge.Seconds()) {
		return fmt.Errorf("%w: signed %ds ago", ErrExpired, now-timestamp)
	}
	if timestamp > now+int64(FutureTolerance.Seconds()) {
		return fmt.Errorf("%w: signed %ds in the future", ErrExpired, timestamp-now)
	}
	expected := s.compute(body, timestamp)
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// ParseTimestamp parses the timestamp header value.
func ParseTimestamp(value string) (int64, error) {
	ts, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a unix timestamp", ErrMalformedHeader, value)
	}
	return ts, nil
}

func (s *Signer) compute(body []byte, timestamp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(timestamp))
	mac.Write(ts[:])
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// VerifyGitHub checks a GitHub webhook signature (X-Hub-Signature-256).
// GitHub does not sign a timestamp, so there is no replay window.
func VerifyGitHub(secret, payload []byte, signature string) error {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := signaturePrefix + hex.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}
