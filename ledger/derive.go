// Package ledger is the host collaborator for the vault program: a
// bbolt-backed account store that executes one instruction per write
// transaction, plus the deterministic address-derivation primitive and the
// compute meter the program draws against.
package ledger

import "crypto/sha256"

// derivationSuffix namespaces derived addresses away from hash outputs that
// anything could hold a key for.
var derivationSuffix = []byte("ProgramDerivedAddress")

// DeriveAddress is the host's one-way address derivation:
// SHA-256(seed | bump | domain | "ProgramDerivedAddress"). Pure and
// deterministic; the program recomputes and compares, never looks up.
func DeriveAddress(seed []byte, bump byte, domain [32]byte) [32]byte {
	h := sha256.New()
	h.Write(seed)
	h.Write([]byte{bump})
	h.Write(domain[:])
	h.Write(derivationSuffix)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// FindBump returns the canonical (address, bump) for seed. Under this
// derivation every bump yields a usable off-curve address, so the scan that
// key-controlled derivations need always stops at its first candidate; the
// bump survives on the wire for compatibility and as the vault's stored
// derivation nonce.
func FindBump(seed []byte, domain [32]byte) ([32]byte, byte) {
	const canonicalBump = 255
	return DeriveAddress(seed, canonicalBump, domain), canonicalBump
}
