package ledger

import "time"

// Transaction kinds. The ledger is append-only; corrections are recorded as
// new entries, never edits.
const (
	KindBonus           = "bonus"
	KindAddition        = "addition"
	KindAdvance         = "advance"
	KindDeduction       = "deduction"
	KindEmployeeExpense = "employee_expense"
)

// InstallmentMarker is the legacy free-text tag older deduction rows carry in
// remarks alongside the advance id. New rows link through RepaysID instead.
const InstallmentMarker = "Advance Installment"

type Transaction struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Date       time.Time `json:"date"`
	Kind       string    `json:"kind"`
	Amount     float64   `json:"amount"`
	Remarks    string    `json:"remarks,omitempty"`

	// Installments is only meaningful on an advance: the number of scheduled
	// repayments.
	Installments int `json:"installments,omitempty"`

	// RepaysID links a deduction to the advance it repays.
	RepaysID string `json:"repaysTransactionId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

func ValidKind(kind string) bool {
	switch kind {
	case KindBonus, KindAddition, KindAdvance, KindDeduction, KindEmployeeExpense:
		return true
	}
	return false
}

// Validate enforces the per-kind field rules: amounts are strictly positive,
// installments only appear on advances, and only deductions may reference an
// advance.
func (t Transaction) Validate() (field, reason string) {
	if t.EmployeeID == "" {
		return "employeeId", "is required"
	}
	if t.Date.IsZero() {
		return "date", "is required"
	}
	if !ValidKind(t.Kind) {
		return "kind", "must be one of bonus, addition, advance, deduction, employee_expense"
	}
	if t.Amount <= 0 {
		return "amount", "must be positive"
	}
	if t.Installments != 0 && t.Kind != KindAdvance {
		return "installments", "is only valid on an advance"
	}
	if t.Installments < 0 {
		return "installments", "must not be negative"
	}
	if t.RepaysID != "" && t.Kind != KindDeduction {
		return "repaysTransactionId", "is only valid on a deduction"
	}
	return "", ""
}

// AdvanceSummary is the derived view over the latest advance: how much was
// given, how many repayments matched, and what remains outstanding.
type AdvanceSummary struct {
	ID                 string  `json:"id"`
	Date               string  `json:"date"`
	TotalAdvance       float64 `json:"totalAdvance"`
	Installments       int     `json:"installments"`
	CurrentInstallment int     `json:"currentInstallment"`
	RemainingAmount    float64 `json:"remainingAmount"`
}
