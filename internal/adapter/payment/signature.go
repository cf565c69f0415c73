package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks payment confirmation signatures against the shared webhook
// secret. The processor signs the string orderRef + "|" + paymentRef with
// HMAC-SHA256 and hex-encodes the digest.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier for the shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify recomputes the expected signature and compares in constant time.
func (v *Verifier) Verify(orderRef, paymentRef, signature string) bool {
	expected := v.Sign(orderRef, paymentRef)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature the processor would emit for the pair.
func (v *Verifier) Sign(orderRef, paymentRef string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderRef + "|" + paymentRef))
	return hex.EncodeToString(mac.Sum(nil))
}
