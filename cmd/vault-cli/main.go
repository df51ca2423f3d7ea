// vault-cli is a development driver for the vault program: it runs one
// operation per invocation against a local bbolt ledger, reading a JSON
// request on stdin and writing a JSON response on stdout.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/chaitanyaBytes/quantum-vault-go/ledger"
	"github.com/chaitanyaBytes/quantum-vault-go/vault"
	"github.com/chaitanyaBytes/quantum-vault-go/winternitz"
)

type Request struct {
	Op            string `json:"op"`
	SeedHex       string `json:"seed,omitempty"`
	CommitmentHex string `json:"commitment,omitempty"`
	AddressHex    string `json:"address,omitempty"`
	PayerHex      string `json:"payer,omitempty"`
	SplitHex      string `json:"split,omitempty"`
	RefundHex     string `json:"refund,omitempty"`
	Amount        uint64 `json:"amount,omitempty"`
	Budget        uint64 `json:"budget,omitempty"`
}

type Response struct {
	Ok            bool   `json:"ok"`
	Err           string `json:"err,omitempty"`
	SeedHex       string `json:"seed,omitempty"`
	CommitmentHex string `json:"commitment,omitempty"`
	AddressHex    string `json:"address,omitempty"`
	OwnerHex      string `json:"owner,omitempty"`
	Bump          uint8  `json:"bump,omitempty"`
	Balance       uint64 `json:"balance,omitempty"`
	Exists        bool   `json:"exists,omitempty"`
}

func writeResp(w io.Writer, resp Response) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(resp)
}

func fail(w io.Writer, err error) {
	if ve, ok := err.(*vault.VaultError); ok {
		writeResp(w, Response{Ok: false, Err: string(ve.Code)})
		return
	}
	writeResp(w, Response{Ok: false, Err: err.Error()})
}

func parse32(s string) ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		return out, fmt.Errorf("want 32 hex bytes")
	}
	copy(out[:], b)
	return out, nil
}

func keyFromSeedHex(seedHex string) (*winternitz.Privkey, [32]byte, byte, [32]byte, error) {
	seed, err := parse32(seedHex)
	if err != nil {
		return nil, [32]byte{}, 0, [32]byte{}, fmt.Errorf("bad seed: %w", err)
	}
	key, err := winternitz.PrivkeyFromSeed(seed)
	if err != nil {
		return nil, [32]byte{}, 0, [32]byte{}, err
	}
	commitment := key.Pubkey().Merklize()
	addr, bump := ledger.FindBump(commitment[:], vault.ProgramID)
	return key, commitment, bump, addr, nil
}

func run(req Request, datadir string, w io.Writer) {
	budget := req.Budget
	if budget == 0 {
		budget = ledger.DefaultComputeBudget
	}

	switch req.Op {
	case "keygen":
		seedHex := req.SeedHex
		if seedHex == "" {
			var seed [32]byte
			if _, err := rand.Read(seed[:]); err != nil {
				fail(w, err)
				return
			}
			seedHex = hex.EncodeToString(seed[:])
		}
		_, commitment, bump, addr, err := keyFromSeedHex(seedHex)
		if err != nil {
			fail(w, err)
			return
		}
		writeResp(w, Response{
			Ok:            true,
			SeedHex:       seedHex,
			CommitmentHex: hex.EncodeToString(commitment[:]),
			AddressHex:    hex.EncodeToString(addr[:]),
			Bump:          bump,
		})

	case "derive":
		commitment, err := parse32(req.CommitmentHex)
		if err != nil {
			fail(w, fmt.Errorf("bad commitment: %w", err))
			return
		}
		addr, bump := ledger.FindBump(commitment[:], vault.ProgramID)
		writeResp(w, Response{Ok: true, AddressHex: hex.EncodeToString(addr[:]), Bump: bump})

	case "airdrop":
		addr, err := parse32(req.AddressHex)
		if err != nil {
			fail(w, fmt.Errorf("bad address: %w", err))
			return
		}
		d, err := ledger.Open(datadir)
		if err != nil {
			fail(w, err)
			return
		}
		defer d.Close()
		if err := d.Airdrop(addr, req.Amount); err != nil {
			fail(w, err)
			return
		}
		writeResp(w, Response{Ok: true, AddressHex: req.AddressHex, Balance: req.Amount})

	case "account":
		addr, err := parse32(req.AddressHex)
		if err != nil {
			fail(w, fmt.Errorf("bad address: %w", err))
			return
		}
		d, err := ledger.Open(datadir)
		if err != nil {
			fail(w, err)
			return
		}
		defer d.Close()
		a, ok, err := d.GetAccount(addr)
		if err != nil {
			fail(w, err)
			return
		}
		writeResp(w, Response{
			Ok:       true,
			Exists:   ok,
			Balance:  a.Balance,
			OwnerHex: hex.EncodeToString(a.Owner[:]),
		})

	case "open":
		payer, err := parse32(req.PayerHex)
		if err != nil {
			fail(w, fmt.Errorf("bad payer: %w", err))
			return
		}
		commitment, err := parse32(req.CommitmentHex)
		if err != nil {
			fail(w, fmt.Errorf("bad commitment: %w", err))
			return
		}
		addr, bump := ledger.FindBump(commitment[:], vault.ProgramID)
		d, err := ledger.Open(datadir)
		if err != nil {
			fail(w, err)
			return
		}
		defer d.Close()
		accounts := []vault.AccountMeta{{Address: payer, Signer: true}, {Address: addr}}
		if err := d.Execute(accounts, vault.OpenInstructionBytes(commitment, bump), budget); err != nil {
			fail(w, err)
			return
		}
		writeResp(w, Response{Ok: true, AddressHex: hex.EncodeToString(addr[:]), Bump: bump})

	case "split":
		key, _, bump, vaultAddr, err := keyFromSeedHex(req.SeedHex)
		if err != nil {
			fail(w, err)
			return
		}
		splitTo, err := parse32(req.SplitHex)
		if err != nil {
			fail(w, fmt.Errorf("bad split address: %w", err))
			return
		}
		refundTo, err := parse32(req.RefundHex)
		if err != nil {
			fail(w, fmt.Errorf("bad refund address: %w", err))
			return
		}
		sig := key.Sign(vault.SplitMessage(req.Amount, splitTo, refundTo))
		d, err := ledger.Open(datadir)
		if err != nil {
			fail(w, err)
			return
		}
		defer d.Close()
		accounts := []vault.AccountMeta{{Address: vaultAddr}, {Address: splitTo}, {Address: refundTo}}
		if err := d.Execute(accounts, vault.SplitInstructionBytes(sig, bump, req.Amount), budget); err != nil {
			fail(w, err)
			return
		}
		writeResp(w, Response{Ok: true, AddressHex: hex.EncodeToString(vaultAddr[:])})

	case "close":
		key, _, bump, vaultAddr, err := keyFromSeedHex(req.SeedHex)
		if err != nil {
			fail(w, err)
			return
		}
		refundTo, err := parse32(req.RefundHex)
		if err != nil {
			fail(w, fmt.Errorf("bad refund address: %w", err))
			return
		}
		sig := key.Sign(vault.CloseMessage(refundTo))
		d, err := ledger.Open(datadir)
		if err != nil {
			fail(w, err)
			return
		}
		defer d.Close()
		accounts := []vault.AccountMeta{{Address: vaultAddr}, {Address: refundTo}}
		if err := d.Execute(accounts, vault.CloseInstructionBytes(sig, bump), budget); err != nil {
			fail(w, err)
			return
		}
		writeResp(w, Response{Ok: true, AddressHex: hex.EncodeToString(vaultAddr[:])})

	default:
		writeResp(w, Response{Ok: false, Err: fmt.Sprintf("unknown op: %q", req.Op)})
	}
}

func main() {
	datadir := flag.String("datadir", ledger.DefaultDataDir(), "ledger data directory")
	flag.Parse()

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResp(os.Stdout, Response{Ok: false, Err: fmt.Sprintf("bad request: %v", err)})
		return
	}
	run(req, *datadir, os.Stdout)
}
