// Package winternitz implements the hash-chain one-time signature scheme
// used by the vault program: chain advancement, key generation, signing,
// public-key recovery, and commitment compression.
//
// All parameters are protocol constants. A signature or public key is 28
// chains of 32 bytes; the message digest contributes 26 base-256 digits and
// a 2-digit checksum. Every hash in the scheme is single-block SHA-256 with
// no domain separation, matching the external key generator bit-for-bit.
package winternitz

import (
	"crypto/sha256"
	"encoding/binary"
)

const (
	// HashLen is the size of every chain element, tip, and commitment.
	HashLen = 32

	// ChainLen is W: each chain has positions 0..ChainLen-1.
	ChainLen = 256

	// MsgDigits is the number of digest bytes consumed as chain digits.
	MsgDigits = 26

	// ChecksumDigits encode sum(255 - digit) big-endian over the message
	// digits. Max sum is 26*255 = 6630, which fits a uint16.
	ChecksumDigits = 2

	// NumChains is the total chain count N.
	NumChains = MsgDigits + ChecksumDigits

	// SignatureLen is the wire size of a signature (and of a raw pubkey).
	SignatureLen = NumChains * HashLen
)

// messageDigits derives the N chain digits for a message: the first
// MsgDigits bytes of SHA-256(msg), followed by the checksum digits.
// The checksum makes any digit decrease (the only direction an attacker
// can move a chain without a preimage) force a checksum digit increase.
func messageDigits(msg []byte) [NumChains]byte {
	digest := sha256.Sum256(msg)

	var d [NumChains]byte
	copy(d[:MsgDigits], digest[:MsgDigits])

	var sum uint16
	for _, b := range d[:MsgDigits] {
		sum += uint16(ChainLen-1) - uint16(b)
	}
	binary.BigEndian.PutUint16(d[MsgDigits:], sum)
	return d
}
