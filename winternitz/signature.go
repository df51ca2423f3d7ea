package winternitz

import "fmt"

// Signature is a one-time signature: for each chain, the element at the
// message digit's position. Ephemeral; never persisted.
type Signature struct {
	Elems [NumChains][HashLen]byte
}

// SignatureFromBytes parses the fixed 896-byte wire form. Length is the
// only thing checked here; a malformed-but-right-sized signature simply
// recovers to the wrong public key downstream.
func SignatureFromBytes(b []byte) (*Signature, error) {
	if len(b) != SignatureLen {
		return nil, fmt.Errorf("winternitz: signature must be %d bytes, got %d", SignatureLen, len(b))
	}
	s := &Signature{}
	for i := range s.Elems {
		copy(s.Elems[i][:], b[i*HashLen:(i+1)*HashLen])
	}
	return s, nil
}

// Bytes flattens the signature to its wire form.
func (s *Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureLen)
	for i := range s.Elems {
		out = append(out, s.Elems[i][:]...)
	}
	return out
}

// Recover completes every chain to its tip under msg's digits, yielding the
// public key the signature claims. Recovery cannot fail: a forged or
// bit-flipped signature recovers to a different key whose commitment will
// not match any vault. The second return is the exact number of chain
// compression calls performed, for compute accounting (it varies with the
// digit values, so callers budget against it rather than a worst case).
func (s *Signature) Recover(msg []byte) (*Pubkey, uint64) {
	d := messageDigits(msg)
	p := &Pubkey{}
	var ops uint64
	for i := range s.Elems {
		steps := (ChainLen - 1) - int(d[i])
		p.Tips[i] = Advance(s.Elems[i], steps)
		ops += uint64(steps)
	}
	return p, ops
}
