package vault

import (
	"encoding/binary"

	"github.com/chaitanyaBytes/quantum-vault-go/winternitz"
)

// Instruction discriminators, the first byte of instruction data.
const (
	DiscOpen  byte = 0
	DiscSplit byte = 1
	DiscClose byte = 2
)

// Payload sizes after the discriminator. Fixed layouts, no trailing bytes.
const (
	openPayloadLen  = 32 + 1                          // commitment | bump
	splitPayloadLen = winternitz.SignatureLen + 1 + 8 // signature | bump | amount LE
	closePayloadLen = winternitz.SignatureLen + 1     // signature | bump
)

// VaultDataLen is the persisted account payload: commitment | bump.
const VaultDataLen = 32 + 1

type OpenInstruction struct {
	Commitment [32]byte
	Bump       byte
}

type SplitInstruction struct {
	Signature *winternitz.Signature
	Bump      byte
	Amount    uint64
}

type CloseInstruction struct {
	Signature *winternitz.Signature
	Bump      byte
}

func parseOpen(payload []byte) (*OpenInstruction, error) {
	if len(payload) != openPayloadLen {
		return nil, vaulterr(VAULT_ERR_PARSE, "open: invalid payload length")
	}
	ins := &OpenInstruction{Bump: payload[32]}
	copy(ins.Commitment[:], payload[:32])
	return ins, nil
}

func parseSplit(payload []byte) (*SplitInstruction, error) {
	if len(payload) != splitPayloadLen {
		return nil, vaulterr(VAULT_ERR_PARSE, "split: invalid payload length")
	}
	sig, err := winternitz.SignatureFromBytes(payload[:winternitz.SignatureLen])
	if err != nil {
		return nil, vaulterr(VAULT_ERR_PARSE, "split: bad signature encoding")
	}
	return &SplitInstruction{
		Signature: sig,
		Bump:      payload[winternitz.SignatureLen],
		Amount:    binary.LittleEndian.Uint64(payload[winternitz.SignatureLen+1:]),
	}, nil
}

func parseClose(payload []byte) (*CloseInstruction, error) {
	if len(payload) != closePayloadLen {
		return nil, vaulterr(VAULT_ERR_PARSE, "close: invalid payload length")
	}
	sig, err := winternitz.SignatureFromBytes(payload[:winternitz.SignatureLen])
	if err != nil {
		return nil, vaulterr(VAULT_ERR_PARSE, "close: bad signature encoding")
	}
	return &CloseInstruction{Signature: sig, Bump: payload[winternitz.SignatureLen]}, nil
}

// OpenInstructionBytes encodes a full Open instruction, discriminator first.
func OpenInstructionBytes(commitment [32]byte, bump byte) []byte {
	out := make([]byte, 0, 1+openPayloadLen)
	out = append(out, DiscOpen)
	out = append(out, commitment[:]...)
	out = append(out, bump)
	return out
}

// SplitInstructionBytes encodes a full Split instruction.
func SplitInstructionBytes(sig *winternitz.Signature, bump byte, amount uint64) []byte {
	out := make([]byte, 0, 1+splitPayloadLen)
	out = append(out, DiscSplit)
	out = append(out, sig.Bytes()...)
	out = append(out, bump)
	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], amount)
	out = append(out, tmp8[:]...)
	return out
}

// CloseInstructionBytes encodes a full Close instruction.
func CloseInstructionBytes(sig *winternitz.Signature, bump byte) []byte {
	out := make([]byte, 0, 1+closePayloadLen)
	out = append(out, DiscClose)
	out = append(out, sig.Bytes()...)
	out = append(out, bump)
	return out
}
