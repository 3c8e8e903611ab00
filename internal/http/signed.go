package httpx

import (
	"errors"
	"io"
	"net/http"

	"github.com/halyard-dev/halyard/internal/signing"
)

// readSignedBody reads the full request body and verifies its HMAC signature
// from the given header. On failure it writes the error response and returns
// ok=false. Both signature and timestamp headers are required.
func readSignedBody(w http.ResponseWriter, r *http.Request, signer *signing.Signer, header string) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "unreadable_body", Err: err})
		return nil, false
	}

	sig := r.Header.Get(header)
	if sig == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "missing_signature",
			Err:     errors.New("missing " + header + " header"),
		})
		return nil, false
	}

	ts, err := signing.ParseTimestamp(r.Header.Get(signing.HeaderTimestamp))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "bad_timestamp", Err: err})
		return nil, false
	}

	if err := signer.Verify(body, sig, ts); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "invalid_signature", Err: err})
		return nil, false
	}
	return body, true
}
