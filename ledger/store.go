package ledger

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chaitanyaBytes/quantum-vault-go/vault"

	bolt "go.etcd.io/bbolt"
)

var bucketAccounts = []byte("accounts_by_address")

// SystemOwner marks plain value-holding accounts (payers, recipients) that
// no program owns.
var SystemOwner [32]byte

// Rent model: the minimum balance that keeps an account alive scales with
// its storage footprint, including fixed per-account overhead.
const (
	accountStorageOverhead = 128
	rentPerByte            = 6_960
)

// DefaultDataDir is where the CLI keeps its ledger unless told otherwise.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".qvault"
	}
	return filepath.Join(home, ".qvault")
}

// DB is a bbolt-backed account store. Execute runs one program instruction
// inside one bolt write transaction, which is what gives the program its
// all-or-nothing abort semantics: an error anywhere rolls back every
// account mutation and leaves no partial state.
type DB struct {
	path string
	db   *bolt.DB
}

func Open(datadir string) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("datadir required")
	}
	if err := os.MkdirAll(datadir, 0o700); err != nil {
		return nil, fmt.Errorf("create datadir: %w", err)
	}

	path := filepath.Join(datadir, "ledger.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open bbolt: %w", err)
	}

	if err := bdb.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAccounts)
		return err
	}); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("create bucket %s: %w", string(bucketAccounts), err)
	}

	return &DB{path: path, db: bdb}, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Path() string { return d.path }

// GetAccount reads one account outside any instruction.
func (d *DB) GetAccount(addr [32]byte) (vault.Account, bool, error) {
	var out vault.Account
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAccounts).Get(addr[:])
		if v == nil {
			return nil
		}
		a, err := decodeAccount(v)
		if err != nil {
			return err
		}
		out = a
		ok = true
		return nil
	})
	return out, ok, err
}

// Airdrop credits an address from thin air, creating a system-owned account
// if needed. Test and dev funding only; the program itself can never mint.
func (d *DB) Airdrop(addr [32]byte, amount uint64) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		return creditAccount(tx.Bucket(bucketAccounts), addr, amount)
	})
}

// Execute runs one instruction with the given compute budget. The vault
// processor observes the store only through the txHost bound to this one
// bolt transaction; returning its error aborts the transaction, so failed
// instructions mutate nothing.
func (d *DB) Execute(accounts []vault.AccountMeta, data []byte, budget uint64) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		h := &txHost{
			b:     tx.Bucket(bucketAccounts),
			meter: NewComputeMeter(budget),
		}
		return vault.Process(h, accounts, data)
	})
}

// txHost implements vault.Host over one bolt write transaction.
type txHost struct {
	b     *bolt.Bucket
	meter *ComputeMeter
}

func (h *txHost) Account(addr [32]byte) (vault.Account, bool, error) {
	v := h.b.Get(addr[:])
	if v == nil {
		return vault.Account{}, false, nil
	}
	a, err := decodeAccount(v)
	if err != nil {
		return vault.Account{}, false, err
	}
	return a, true, nil
}

func (h *txHost) CreateAccount(addr, funder, owner [32]byte, balance uint64, data []byte) error {
	if h.b.Get(addr[:]) != nil {
		return fmt.Errorf("create: account exists")
	}
	if err := debitAccount(h.b, funder, balance); err != nil {
		return err
	}
	return putAccount(h.b, addr, vault.Account{
		Balance: balance,
		Owner:   owner,
		Data:    data,
	})
}

func (h *txHost) Transfer(from, to [32]byte, amount uint64) error {
	if err := debitAccount(h.b, from, amount); err != nil {
		return err
	}
	return creditAccount(h.b, to, amount)
}

func (h *txHost) CloseAccount(addr, recipient [32]byte) error {
	v := h.b.Get(addr[:])
	if v == nil {
		return fmt.Errorf("close: account missing")
	}
	a, err := decodeAccount(v)
	if err != nil {
		return err
	}
	if err := h.b.Delete(addr[:]); err != nil {
		return err
	}
	return creditAccount(h.b, recipient, a.Balance)
}

func (h *txHost) MinBalance(dataLen int) uint64 {
	return uint64(accountStorageOverhead+dataLen) * rentPerByte // #nosec G115 -- dataLen is a small fixed layout size.
}

func (h *txHost) DeriveAddress(seed []byte, bump byte) [32]byte {
	return DeriveAddress(seed, bump, vault.ProgramID)
}

func (h *txHost) ConsumeCompute(units uint64) error {
	return h.meter.Consume(units)
}

func debitAccount(b *bolt.Bucket, addr [32]byte, amount uint64) error {
	v := b.Get(addr[:])
	if v == nil {
		return fmt.Errorf("debit: account missing")
	}
	a, err := decodeAccount(v)
	if err != nil {
		return err
	}
	if a.Balance < amount {
		return fmt.Errorf("debit: insufficient balance")
	}
	a.Balance -= amount
	return putAccount(b, addr, a)
}

func creditAccount(b *bolt.Bucket, addr [32]byte, amount uint64) error {
	a := vault.Account{Owner: SystemOwner}
	if v := b.Get(addr[:]); v != nil {
		dec, err := decodeAccount(v)
		if err != nil {
			return err
		}
		a = dec
	}
	next := a.Balance + amount
	if next < a.Balance {
		return fmt.Errorf("credit: balance overflow")
	}
	a.Balance = next
	return putAccount(b, addr, a)
}

func putAccount(b *bolt.Bucket, addr [32]byte, a vault.Account) error {
	v, err := encodeAccount(a)
	if err != nil {
		return err
	}
	return b.Put(addr[:], v)
}

func encodeAccount(a vault.Account) ([]byte, error) {
	if len(a.Data) > 0xffff {
		return nil, fmt.Errorf("account: data too large")
	}
	// Layout: balance u64le | owner 32 | data_len u16le | data
	out := make([]byte, 8+32+2+len(a.Data))
	binary.LittleEndian.PutUint64(out[0:8], a.Balance)
	copy(out[8:40], a.Owner[:])
	binary.LittleEndian.PutUint16(out[40:42], uint16(len(a.Data))) // #nosec G115 -- len checked against 0xffff above.
	copy(out[42:], a.Data)
	return out, nil
}

func decodeAccount(v []byte) (vault.Account, error) {
	if len(v) < 8+32+2 {
		return vault.Account{}, fmt.Errorf("account: truncated")
	}
	var a vault.Account
	a.Balance = binary.LittleEndian.Uint64(v[0:8])
	copy(a.Owner[:], v[8:40])
	dataLen := int(binary.LittleEndian.Uint16(v[40:42]))
	if 42+dataLen != len(v) {
		return vault.Account{}, fmt.Errorf("account: bad data len")
	}
	a.Data = append([]byte(nil), v[42:]...)
	return a, nil
}
