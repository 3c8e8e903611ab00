package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func newTestSigner(t *testing.T, secret string) (*Signer, *fixedClock) {
	t.Helper()
	clock := &fixedClock{t: time.Unix(1_700_000_000, 0)}
	s, err := New(Options{Secret: []byte(secret), Clock: clock})
	require.NoError(t, err)
	return s, clock
}

func TestSigner_SignAndVerify(t *testing.T) {
	t.Parallel()
	s, _ := newTestSigner(t, "test-secret")

	body := []byte(`{"job_id":"abc"}`)
	sig, ts := s.Sign(body)

	assert.Contains(t, sig, "sha256=")
	require.NoError(t, s.Verify(body, sig, ts))
}

func TestSigner_RejectsTamperedBody(t *testing.T) {
	t.Parallel()
	s, _ := newTestSigner(t, "test-secret")

	sig, ts := s.Sign([]byte("original"))
	err := s.Verify([]byte("tampered"), sig, ts)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestSigner_RejectsWrongSecret(t *testing.T) {
	t.Parallel()
	signer, clock := newTestSigner(t, "secret-a")
	other, err := New(Options{Secret: []byte("secret-b"), Clock: clock})
	require.NoError(t, err)

	body := []byte("body")
	sig, ts := signer.Sign(body)
	require.ErrorIs(t, other.Verify(body, sig, ts), ErrInvalidSignature)
}

func TestSigner_RejectsTamperedTimestamp(t *testing.T) {
	t.Parallel()
	s, _ := newTestSigner(t, "test-secret")

	body := []byte("body")
	sig, ts := s.Sign(body)
	// Same signature with a shifted timestamp must not verify even though
	// the shifted value is still inside the replay window.
	require.ErrorIs(t, s.Verify(body, sig, ts+1), ErrInvalidSignature)
}

func TestSigner_RejectsExpired(t *testing.T) {
	t.Parallel()
	s, clock := newTestSigner(t, "test-secret")

	body := []byte("body")
	sig, ts := s.Sign(body)

	clock.t = clock.t.Add(301 * time.Second)
	require.ErrorIs(t, s.Verify(body, sig, ts), ErrExpired)
}

func TestSigner_AcceptsWithinWindow(t *testing.T) {
	t.Parallel()
	s, clock := newTestSigner(t, "test-secret")

	body := []byte("body")
	sig, ts := s.Sign(body)

	clock.t = clock.t.Add(299 * time.Second)
	require.NoError(t, s.Verify(body, sig, ts))
}

func TestSigner_RejectsFuture(t *testing.T) {
	t.Parallel()
	s, clock := newTestSigner(t, "test-secret")

	body := []byte("body")
	clock.t = clock.t.Add(5 * time.Minute)
	sig, ts := s.Sign(body)

	// Verifier's clock is five minutes behind the signer's.
	clock.t = clock.t.Add(-5 * time.Minute)
	require.ErrorIs(t, s.Verify(body, sig, ts), ErrExpired)
}

func TestSigner_AcceptsSmallSkew(t *testing.T) {
	t.Parallel()
	s, clock := newTestSigner(t, "test-secret")

	body := []byte("body")
	clock.t = clock.t.Add(30 * time.Second)
	sig, ts := s.Sign(body)

	clock.t = clock.t.Add(-30 * time.Second)
	require.NoError(t, s.Verify(body, sig, ts))
}

func TestNew_RequiresSecret(t *testing.T) {
	t.Parallel()
	_, err := New(Options{})
	require.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	ts, err := ParseTimestamp("1700000000")
	require.NoError(t, err)
	assert.Equal(t, int64(1_700_000_000), ts)

	_, err = ParseTimestamp("not-a-number")
	require.ErrorIs(t, err, ErrMalformedHeader)
}

func TestVerifyGitHub(t *testing.T) {
	t.Parallel()

	secret := []byte("webhook-secret")
	payload := []byte(`{"action":"opened"}`)

	// Known-good signature for this secret and payload.
	sig := githubSignature(secret, payload)

	require.NoError(t, VerifyGitHub(secret, payload, sig))
	require.ErrorIs(t, VerifyGitHub(secret, payload, "sha256=wrong"), ErrInvalidSignature)
	require.ErrorIs(t, VerifyGitHub([]byte("other"), payload, sig), ErrInvalidSignature)
}

// githubSignature mirrors how GitHub computes X-Hub-Signature-256.
func githubSignature(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
