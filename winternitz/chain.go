package winternitz

import "crypto/sha256"

// Advance walks a hash chain: steps applications of SHA-256 starting from
// seed. Advance(seed, 0) returns seed unchanged. This must stay
// bit-identical to the chain function used at key-generation time; it is a
// compatibility contract, not an implementation choice.
func Advance(seed [HashLen]byte, steps int) [HashLen]byte {
	v := seed
	for i := 0; i < steps; i++ {
		v = sha256.Sum256(v[:])
	}
	return v
}
