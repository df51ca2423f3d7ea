package vault

import "encoding/binary"

// Signed messages are assembled here from instruction fields, never taken
// from caller input, so a signature's scope cannot be decoupled from the
// effect it authorizes.

// SplitMessage is amount (8 bytes LE) | split address | refund address.
func SplitMessage(amount uint64, split, refund [32]byte) []byte {
	msg := make([]byte, 72)
	binary.LittleEndian.PutUint64(msg[0:8], amount)
	copy(msg[8:40], split[:])
	copy(msg[40:72], refund[:])
	return msg
}

// CloseMessage is the refund address alone.
func CloseMessage(refund [32]byte) []byte {
	msg := make([]byte, 32)
	copy(msg, refund[:])
	return msg
}
