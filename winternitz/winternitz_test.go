package winternitz

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"testing"
)

func testSeed(tag byte) [HashLen]byte {
	var s [HashLen]byte
	for i := range s {
		s[i] = tag
	}
	return s
}

func hex32(t *testing.T, s string) [HashLen]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != HashLen {
		t.Fatalf("bad vector constant %q", s)
	}
	var out [HashLen]byte
	copy(out[:], b)
	return out
}

// TestSchemeVectors pins the scheme's bit-compatibility conventions with
// known-answer vectors: the chain hash, the HKDF chain-seed expansion, the
// digit/checksum split, and the duplicate-final-leaf merklize padding.
// Any reimplementation (or refactor here) that drifts from these bytes
// produces unverifiable signatures, so these constants must never change.
func TestSchemeVectors(t *testing.T) {
	if got := Advance(testSeed(0xa1), 5); got != hex32(t, "198138088ecfab98e12a80deb6778bef967be5b6b7822cbc07b5ff3f671b6315") {
		t.Fatalf("Advance vector drifted: %x", got)
	}

	msg := []byte("winternitz vault test vector")
	d := messageDigits(msg)
	wantDigits, err := hex.DecodeString("6eac3fd7d5f73938f69fb08c706dc7438982a08b6f39f667aef6")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(d[:MsgDigits], wantDigits) {
		t.Fatalf("message digits drifted: %x", d[:MsgDigits])
	}
	if d[MsgDigits] != 0x0a || d[MsgDigits+1] != 0xe2 {
		t.Fatalf("checksum digits drifted: %x (sum 2786 big-endian expected)", d[MsgDigits:])
	}

	k, err := PrivkeyFromSeed(testSeed(0x3c))
	if err != nil {
		t.Fatal(err)
	}
	if k.Seeds[0] != hex32(t, "17d8afcc99204ddbae75d35633bb2368bbae99287f0319af318f4e306fd85138") {
		t.Fatalf("chain-seed expansion drifted: %x", k.Seeds[0])
	}

	pk := k.Pubkey()
	if pk.Tips[0] != hex32(t, "43523b808da5016e4a0362c6e8941bc26440f52fd42798f2b12dcf8cd2bf62e4") {
		t.Fatalf("chain tip drifted: %x", pk.Tips[0])
	}

	commitment := hex32(t, "ba67093552771213f48ea1fd2599f1a5a81201941de333f675a0e7856907eb63")
	if got := pk.Merklize(); got != commitment {
		t.Fatalf("merklize vector drifted: %x", got)
	}

	sig := k.Sign(msg)
	if sig.Elems[0] != hex32(t, "2044675fae6a249b903f4955c4a85e3343a2dcaa71622923178cef760e064a2e") {
		t.Fatalf("signature element drifted: %x", sig.Elems[0])
	}
	rec, _ := sig.Recover(msg)
	if got := rec.Merklize(); got != commitment {
		t.Fatalf("recovered commitment drifted: %x", got)
	}
}

func TestAdvanceZeroSteps(t *testing.T) {
	seed := testSeed(0xa1)
	if Advance(seed, 0) != seed {
		t.Fatalf("Advance(seed, 0) must return seed unchanged")
	}
}

func TestAdvanceComposes(t *testing.T) {
	seed := testSeed(0x07)
	full := Advance(seed, 17)
	split := Advance(Advance(seed, 5), 12)
	if full != split {
		t.Fatalf("Advance(s, 17) != Advance(Advance(s, 5), 12)")
	}
	one := Advance(seed, 1)
	if one != sha256.Sum256(seed[:]) {
		t.Fatalf("single step must be one SHA-256 application")
	}
}

func TestMessageDigitsChecksum(t *testing.T) {
	msgs := [][]byte{
		nil,
		[]byte("hello"),
		bytes.Repeat([]byte{0xff}, 72),
		bytes.Repeat([]byte{0x00}, 32),
	}
	for _, msg := range msgs {
		d := messageDigits(msg)

		digest := sha256.Sum256(msg)
		if !bytes.Equal(d[:MsgDigits], digest[:MsgDigits]) {
			t.Fatalf("message digits must be the first %d digest bytes", MsgDigits)
		}

		var sum uint16
		for _, b := range d[:MsgDigits] {
			sum += uint16(ChainLen-1) - uint16(b)
		}
		if binary.BigEndian.Uint16(d[MsgDigits:]) != sum {
			t.Fatalf("checksum digits must encode sum(255-digit) big-endian")
		}
	}
}

func TestSignRecoverRoundtrip(t *testing.T) {
	k, err := PrivkeyFromSeed(testSeed(0x3c))
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("one-time message")

	want := k.Pubkey()
	sig := k.Sign(msg)
	got, ops := sig.Recover(msg)

	if got.Tips != want.Tips {
		t.Fatalf("recovered tips differ from generated pubkey")
	}
	if got.Merklize() != want.Merklize() {
		t.Fatalf("recovered commitment differs from generated commitment")
	}

	d := messageDigits(msg)
	var wantOps uint64
	for _, digit := range d {
		wantOps += uint64(ChainLen-1) - uint64(digit)
	}
	if ops != wantOps {
		t.Fatalf("recover ops = %d, want %d", ops, wantOps)
	}
}

func TestPrivkeyFromSeedDeterministic(t *testing.T) {
	k1, err := PrivkeyFromSeed(testSeed(0x55))
	if err != nil {
		t.Fatal(err)
	}
	k2, err := PrivkeyFromSeed(testSeed(0x55))
	if err != nil {
		t.Fatal(err)
	}
	if k1.Pubkey().Merklize() != k2.Pubkey().Merklize() {
		t.Fatalf("same master seed must yield the same commitment")
	}

	k3, err := PrivkeyFromSeed(testSeed(0x56))
	if err != nil {
		t.Fatal(err)
	}
	if k1.Pubkey().Merklize() == k3.Pubkey().Merklize() {
		t.Fatalf("different master seeds must yield different commitments")
	}
}

func TestRecoverRejectsBitFlips(t *testing.T) {
	k, err := PrivkeyFromSeed(testSeed(0x9e))
	if err != nil {
		t.Fatal(err)
	}
	msg := []byte("bind me")
	commitment := k.Pubkey().Merklize()
	sigBytes := k.Sign(msg).Bytes()

	// One flipped bit per chain, spread across bit positions.
	for chain := 0; chain < NumChains; chain++ {
		pos := chain * HashLen
		bit := byte(1) << (chain % 8)
		mutated := append([]byte(nil), sigBytes...)
		mutated[pos] ^= bit

		sig, err := SignatureFromBytes(mutated)
		if err != nil {
			t.Fatal(err)
		}
		pk, _ := sig.Recover(msg)
		if pk.Merklize() == commitment {
			t.Fatalf("chain %d: flipped signature bit still recovered the commitment", chain)
		}
	}
}

func TestRecoverBindsMessage(t *testing.T) {
	k, err := PrivkeyFromSeed(testSeed(0x42))
	if err != nil {
		t.Fatal(err)
	}
	commitment := k.Pubkey().Merklize()
	sig := k.Sign([]byte("message A"))

	pk, _ := sig.Recover([]byte("message B"))
	if pk.Merklize() == commitment {
		t.Fatalf("signature over A must not recover the commitment under B")
	}
}

func TestSignatureFromBytesLength(t *testing.T) {
	for _, n := range []int{0, 1, HashLen, SignatureLen - 1, SignatureLen + 1, 2 * SignatureLen} {
		if _, err := SignatureFromBytes(make([]byte, n)); err == nil {
			t.Fatalf("length %d: want error", n)
		}
	}

	k, err := PrivkeyFromSeed(testSeed(0x11))
	if err != nil {
		t.Fatal(err)
	}
	sig := k.Sign([]byte("x"))
	parsed, err := SignatureFromBytes(sig.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.Elems != sig.Elems {
		t.Fatalf("wire roundtrip changed signature")
	}
}

func TestMerklizeCoversEveryTip(t *testing.T) {
	k, err := PrivkeyFromSeed(testSeed(0x77))
	if err != nil {
		t.Fatal(err)
	}
	base := k.Pubkey()
	root := base.Merklize()

	// Every tip, including the final one that doubles as tree padding,
	// must influence the root.
	for i := 0; i < NumChains; i++ {
		mutated := *base
		mutated.Tips[i][0] ^= 0x01
		if mutated.Merklize() == root {
			t.Fatalf("tip %d does not affect the commitment", i)
		}
	}
}

func TestGeneratePrivkeyRoundtrip(t *testing.T) {
	src := bytes.NewReader(bytes.Repeat([]byte{0xab}, HashLen))
	k, seed, err := GeneratePrivkey(src)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := PrivkeyFromSeed(seed)
	if err != nil {
		t.Fatal(err)
	}
	if k.Pubkey().Merklize() != k2.Pubkey().Merklize() {
		t.Fatalf("persisted master seed must rederive the same key")
	}
}
