package ledger

import "errors"

// DefaultComputeBudget is generous enough for a worst-case Split or Close,
// whose cost is dominated by chain advancement during recovery.
const DefaultComputeBudget = 1_400_000

// ErrComputeExhausted aborts the instruction like any other error; the
// surrounding transaction rolls back whole.
var ErrComputeExhausted = errors.New("ledger: compute budget exhausted")

// ComputeMeter tracks one instruction's execution budget.
type ComputeMeter struct {
	remaining uint64
}

func NewComputeMeter(budget uint64) *ComputeMeter {
	return &ComputeMeter{remaining: budget}
}

func (m *ComputeMeter) Consume(units uint64) error {
	if units > m.remaining {
		m.remaining = 0
		return ErrComputeExhausted
	}
	m.remaining -= units
	return nil
}

// Remaining reports the unspent budget.
func (m *ComputeMeter) Remaining() uint64 { return m.remaining }
