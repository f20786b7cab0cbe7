package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Verifier authenticates webhook payloads with HMAC-SHA256 over the raw
// request body. The digest must be computed on the exact bytes as sent:
// parsing and re-serializing the payload produces a different digest.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) Verifier {
	return Verifier{secret: []byte(secret)}
}

// Verify reports whether signature is the base64 encoded HMAC-SHA256 of body
// Empty secret or empty signature never verifies
func (v Verifier) Verify(body []byte, signature string) bool {
	if len(v.secret) == 0 || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign returns the base64 encoded HMAC-SHA256 of body
// Used by tests and by senders that emulate the upstream source
func (v Verifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
