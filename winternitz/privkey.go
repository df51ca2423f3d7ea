package winternitz

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// hkdfInfo binds chain-seed expansion to this scheme instantiation.
var hkdfInfo = []byte("winternitz-vault/v1/chain-seeds")

// Privkey holds the N chain seeds (chain position 0). Signing reveals
// interior chain values, so a Privkey must sign at most one message.
type Privkey struct {
	Seeds [NumChains][HashLen]byte
}

// PrivkeyFromSeed deterministically expands a 32-byte master seed into the
// N chain seeds via HKDF-SHA256. The same master seed always yields the
// same keypair.
func PrivkeyFromSeed(seed [HashLen]byte) (*Privkey, error) {
	r := hkdf.New(sha256.New, seed[:], nil, hkdfInfo)
	k := &Privkey{}
	for i := range k.Seeds {
		if _, err := io.ReadFull(r, k.Seeds[i][:]); err != nil {
			return nil, fmt.Errorf("winternitz: expand chain seeds: %w", err)
		}
	}
	return k, nil
}

// GeneratePrivkey draws a fresh master seed from rnd and expands it.
// It returns the master seed so the caller can persist it; the chain seeds
// are rederivable from it alone.
func GeneratePrivkey(rnd io.Reader) (*Privkey, [HashLen]byte, error) {
	var seed [HashLen]byte
	if _, err := io.ReadFull(rnd, seed[:]); err != nil {
		return nil, seed, fmt.Errorf("winternitz: read master seed: %w", err)
	}
	k, err := PrivkeyFromSeed(seed)
	return k, seed, err
}

// Pubkey advances every chain to its tip (position ChainLen-1).
func (k *Privkey) Pubkey() *Pubkey {
	p := &Pubkey{}
	for i := range k.Seeds {
		p.Tips[i] = Advance(k.Seeds[i], ChainLen-1)
	}
	return p
}

// Sign produces the one-time signature over msg: element i is chain i
// advanced to the message's digit position. One use only; a second
// signature with the same key leaks enough chain interiors to forge.
func (k *Privkey) Sign(msg []byte) *Signature {
	d := messageDigits(msg)
	s := &Signature{}
	for i := range k.Seeds {
		s.Elems[i] = Advance(k.Seeds[i], int(d[i]))
	}
	return s
}
