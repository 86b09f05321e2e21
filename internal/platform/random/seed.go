// Package random generates high-entropy seeds for the per-session RNGs.
// Sessions created without an explicit seed draw one here so replays stay
// possible: the chosen seed is part of the session, not hidden clock state.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed draws a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
