package app

import (
	"strings"
	"testing"
)

func TestNewPromoCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := newPromoCode()
		if len(code) != promoCodeLength {
			t.Fatalf("expected length %d, got %q", promoCodeLength, code)
		}
		for _, r := range code {
			if !strings.ContainsRune(promoCodeAlphabet, r) {
				t.Fatalf("unexpected character %q in code %q", r, code)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 36^8 space should never repeat.
	if len(seen) != 100 {
		t.Fatalf("expected 100 distinct codes, got %d", len(seen))
	}
}
