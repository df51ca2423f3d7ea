// Package vault is the one-time-signature vault program: an account that
// holds value and is unlocked exactly once by a hash-chain signature whose
// recovered commitment re-derives to the vault's own address.
//
// The package is pure computation over the accounts an instruction names.
// Persistence, atomicity, address derivation, and compute accounting belong
// to the host ledger, consumed through the narrow Host interface.
package vault

// ProgramID is the program's 32-byte identity, mixed into every address
// derivation so vault addresses cannot collide with another program's.
var ProgramID = [32]byte{
	0x0f, 0x1e, 0x6b, 0x14, 0x21, 0xc0, 0x4a, 0x07, 0x04, 0x31, 0x26, 0x5c, 0x19, 0xc5, 0xbb, 0xee,
	0x19, 0x92, 0xba, 0xe8, 0xaf, 0xd1, 0xcd, 0x07, 0x8e, 0xf8, 0xaf, 0x70, 0x47, 0xdc, 0x11, 0xf7,
}

// Account is the host's view of one account record.
type Account struct {
	Balance uint64
	Owner   [32]byte
	Data    []byte
}

// AccountMeta names one account an instruction operates on.
type AccountMeta struct {
	Address [32]byte
	Signer  bool
}

// Host is the ledger collaborator interface the processor consumes. One
// Process call runs inside one host transaction: any error aborts every
// mutation made through the Host. The processor never retries and never
// observes partial state.
type Host interface {
	// Account reads a record; the bool reports existence.
	Account(addr [32]byte) (Account, bool, error)

	// CreateAccount writes a new record at addr, moving balance from
	// funder. Fails if addr already exists or funder cannot pay.
	CreateAccount(addr, funder, owner [32]byte, balance uint64, data []byte) error

	// Transfer moves amount between existing accounts.
	Transfer(from, to [32]byte, amount uint64) error

	// CloseAccount deletes addr, reclaiming its whole balance to recipient.
	CloseAccount(addr, recipient [32]byte) error

	// MinBalance is the smallest balance the host will keep an account
	// alive with, as a function of its data size.
	MinBalance(dataLen int) uint64

	// DeriveAddress is the host's deterministic, one-way address
	// derivation over (seed material, bump), already bound to this
	// program's derivation domain.
	DeriveAddress(seed []byte, bump byte) [32]byte

	// ConsumeCompute draws units from the instruction's execution budget,
	// erroring once the budget is exhausted.
	ConsumeCompute(units uint64) error
}
