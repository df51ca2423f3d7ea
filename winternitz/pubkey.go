package winternitz

import "crypto/sha256"

// merkleLeaves is NumChains padded up to the next power of two.
const merkleLeaves = 32

// MerklizeOps is the number of compression calls one Merklize performs,
// exposed so callers can charge compute for it ahead of time.
const MerklizeOps = merkleLeaves - 1

// Pubkey is the raw public key: the tip of every chain, in chain order.
// Ephemeral; only its Merklize root is ever persisted.
type Pubkey struct {
	Tips [NumChains][HashLen]byte
}

// Merklize compresses the tips into the 32-byte commitment: pad the leaf
// list to merkleLeaves by duplicating the final tip, then fold adjacent
// pairs with SHA-256(left || right) until one root remains. The padding and
// pairing convention is a protocol constant; see winternitz_test.go for the
// vectors that pin it.
func (p *Pubkey) Merklize() [HashLen]byte {
	level := make([][HashLen]byte, merkleLeaves)
	copy(level[:NumChains], p.Tips[:])
	for i := NumChains; i < merkleLeaves; i++ {
		level[i] = p.Tips[NumChains-1]
	}

	var pre [2 * HashLen]byte
	for len(level) > 1 {
		next := make([][HashLen]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			copy(pre[:HashLen], level[i][:])
			copy(pre[HashLen:], level[i+1][:])
			next = append(next, sha256.Sum256(pre[:]))
		}
		level = next
	}
	return level[0]
}

// Bytes flattens the tips to the 896-byte wire form.
func (p *Pubkey) Bytes() []byte {
	out := make([]byte, 0, SignatureLen)
	for i := range p.Tips {
		out = append(out, p.Tips[i][:]...)
	}
	return out
}
