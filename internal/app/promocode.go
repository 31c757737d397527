package app

import "crypto/rand"

const (
	promoCodeLength   = 8
	promoCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Collisions within a discount are resolved by regeneration; this bounds
	// the retry loop against a broken random source.
	promoCodeMaxAttempts = 5
)

// newPromoCode returns an 8-character uppercase alphanumeric redemption code.
func newPromoCode() string {
	buf := make([]byte, promoCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	for i, b := range buf {
		buf[i] = promoCodeAlphabet[int(b)%len(promoCodeAlphabet)]
	}
	return string(buf)
}
