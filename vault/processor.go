package vault

import "github.com/chaitanyaBytes/quantum-vault-go/winternitz"

// Compute pricing. The base cost covers dispatch, parsing, message assembly
// and one address derivation; chain and tree compressions are charged per
// call at computeHashCost, using the exact count recovery reports.
const (
	computeBaseCost = 2_000
	computeHashCost = 100
)

// Process executes one instruction against the host: discriminator-first
// dispatch over Open, Split, and Close. Any returned error means the host
// must abort the surrounding transaction; the processor performs no
// rollback of its own.
func Process(host Host, accounts []AccountMeta, data []byte) error {
	if len(data) == 0 {
		return vaulterr(VAULT_ERR_PARSE, "empty instruction data")
	}
	disc, payload := data[0], data[1:]

	if err := host.ConsumeCompute(computeBaseCost); err != nil {
		return vaulterr(VAULT_ERR_COMPUTE_BUDGET, "base cost")
	}

	switch disc {
	case DiscOpen:
		ins, err := parseOpen(payload)
		if err != nil {
			return err
		}
		return processOpen(host, accounts, ins)
	case DiscSplit:
		ins, err := parseSplit(payload)
		if err != nil {
			return err
		}
		return processSplit(host, accounts, ins)
	case DiscClose:
		ins, err := parseClose(payload)
		if err != nil {
			return err
		}
		return processClose(host, accounts, ins)
	default:
		return vaulterr(VAULT_ERR_PARSE, "unknown discriminator")
	}
}

// processOpen establishes a vault's identity. No cryptography runs here:
// the creator supplies the commitment and bump, and a wrong commitment
// simply produces a vault nobody can ever unlock.
func processOpen(host Host, accounts []AccountMeta, ins *OpenInstruction) error {
	if len(accounts) < 2 {
		return vaulterr(VAULT_ERR_NOT_ENOUGH_ACCOUNTS, "open: want payer, vault")
	}
	payer, vaultAcct := accounts[0], accounts[1]
	if !payer.Signer {
		return vaulterr(VAULT_ERR_MISSING_SIGNER, "open: payer must sign")
	}

	// Never trust the caller-supplied vault address; recompute.
	derived := host.DeriveAddress(ins.Commitment[:], ins.Bump)
	if derived != vaultAcct.Address {
		return vaulterr(VAULT_ERR_IDENTITY_MISMATCH, "open: vault address is not the derived address")
	}

	if _, exists, err := host.Account(vaultAcct.Address); err != nil {
		return err
	} else if exists {
		return vaulterr(VAULT_ERR_ACCOUNT_EXISTS, "open: vault already exists")
	}

	data := make([]byte, 0, VaultDataLen)
	data = append(data, ins.Commitment[:]...)
	data = append(data, ins.Bump)
	return host.CreateAccount(vaultAcct.Address, payer.Address, ProgramID, host.MinBalance(len(data)), data)
}

// processSplit pays amount to the split account, refunds the remainder, and
// destroys the vault, gated on the one-time signature over exactly that
// (amount, split, refund) triple.
func processSplit(host Host, accounts []AccountMeta, ins *SplitInstruction) error {
	if len(accounts) < 3 {
		return vaulterr(VAULT_ERR_NOT_ENOUGH_ACCOUNTS, "split: want vault, split, refund")
	}
	vaultAcct, splitAcct, refundAcct := accounts[0], accounts[1], accounts[2]

	acct, err := loadVault(host, vaultAcct.Address)
	if err != nil {
		return err
	}

	msg := SplitMessage(ins.Amount, splitAcct.Address, refundAcct.Address)
	if err := verifyAuthorization(host, vaultAcct.Address, ins.Signature, ins.Bump, msg); err != nil {
		return err
	}

	if ins.Amount > acct.Balance {
		return vaulterr(VAULT_ERR_INSUFFICIENT_FUNDS, "split: amount exceeds vault balance")
	}

	if err := host.Transfer(vaultAcct.Address, splitAcct.Address, ins.Amount); err != nil {
		return err
	}
	// Remaining balance rides out with the close; the vault ends at zero.
	return host.CloseAccount(vaultAcct.Address, refundAcct.Address)
}

// processClose refunds the whole balance and destroys the vault, gated on
// the one-time signature over the refund address.
func processClose(host Host, accounts []AccountMeta, ins *CloseInstruction) error {
	if len(accounts) < 2 {
		return vaulterr(VAULT_ERR_NOT_ENOUGH_ACCOUNTS, "close: want vault, refund")
	}
	vaultAcct, refundAcct := accounts[0], accounts[1]

	if _, err := loadVault(host, vaultAcct.Address); err != nil {
		return err
	}

	msg := CloseMessage(refundAcct.Address)
	if err := verifyAuthorization(host, vaultAcct.Address, ins.Signature, ins.Bump, msg); err != nil {
		return err
	}

	return host.CloseAccount(vaultAcct.Address, refundAcct.Address)
}

func loadVault(host Host, addr [32]byte) (Account, error) {
	acct, exists, err := host.Account(addr)
	if err != nil {
		return Account{}, err
	}
	if !exists {
		return Account{}, vaulterr(VAULT_ERR_ACCOUNT_NOT_FOUND, "vault account does not exist")
	}
	if acct.Owner != ProgramID {
		return Account{}, vaulterr(VAULT_ERR_INVALID_OWNER, "vault account not owned by program")
	}
	return acct, nil
}

// verifyAuthorization runs the recover -> merklize -> derive pipeline and
// compares against the vault's actual address. A mismatch never says
// whether the signature was forged or aimed at a different vault.
func verifyAuthorization(host Host, vaultAddr [32]byte, sig *winternitz.Signature, bump byte, msg []byte) error {
	pubkey, ops := sig.Recover(msg)
	if err := host.ConsumeCompute((ops + winternitz.MerklizeOps) * computeHashCost); err != nil {
		return vaulterr(VAULT_ERR_COMPUTE_BUDGET, "signature verification")
	}
	commitment := pubkey.Merklize()

	derived := host.DeriveAddress(commitment[:], bump)
	if derived != vaultAddr {
		return vaulterr(VAULT_ERR_IDENTITY_MISMATCH, "recovered commitment does not derive the vault address")
	}
	return nil
}
