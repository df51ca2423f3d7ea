package vault

import "fmt"

type ErrorCode string

const (
	VAULT_ERR_PARSE               ErrorCode = "VAULT_ERR_PARSE"
	VAULT_ERR_NOT_ENOUGH_ACCOUNTS ErrorCode = "VAULT_ERR_NOT_ENOUGH_ACCOUNTS"
	VAULT_ERR_MISSING_SIGNER      ErrorCode = "VAULT_ERR_MISSING_SIGNER"

	// VAULT_ERR_IDENTITY_MISMATCH covers both a wrong/forged signature and a
	// signature aimed at a different vault. The two are indistinguishable to
	// the caller: both surface as a derived address that is not the target
	// account, and the code does not say which half failed.
	VAULT_ERR_IDENTITY_MISMATCH ErrorCode = "VAULT_ERR_IDENTITY_MISMATCH"

	VAULT_ERR_ACCOUNT_NOT_FOUND  ErrorCode = "VAULT_ERR_ACCOUNT_NOT_FOUND"
	VAULT_ERR_ACCOUNT_EXISTS     ErrorCode = "VAULT_ERR_ACCOUNT_EXISTS"
	VAULT_ERR_INVALID_OWNER      ErrorCode = "VAULT_ERR_INVALID_OWNER"
	VAULT_ERR_INSUFFICIENT_FUNDS ErrorCode = "VAULT_ERR_INSUFFICIENT_FUNDS"
	VAULT_ERR_COMPUTE_BUDGET     ErrorCode = "VAULT_ERR_COMPUTE_BUDGET"
	VAULT_ERR_HOST               ErrorCode = "VAULT_ERR_HOST"
)

type VaultError struct {
	Code ErrorCode
	Msg  string
}

func (e *VaultError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func vaulterr(code ErrorCode, msg string) error {
	return &VaultError{Code: code, Msg: msg}
}

// CodeOf extracts the error code, or VAULT_ERR_HOST for errors that bubbled
// up from the host collaborator unclassified.
func CodeOf(err error) ErrorCode {
	if ve, ok := err.(*VaultError); ok {
		return ve.Code
	}
	return VAULT_ERR_HOST
}
