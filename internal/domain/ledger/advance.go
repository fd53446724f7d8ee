package ledger

import (
	"sort"
	"strings"
)

// ResolveAdvance locates the employee's most recent advance and reconciles
// its repayments. A deduction counts as a repayment when it carries an
// explicit repaysTransactionId for the advance. Rows written before that
// column existed are matched by their remarks instead, which must contain
// both the installment marker and the advance id.
//
// RemainingAmount is not clamped at zero: a negative value means
// over-repayment or a false remarks match, and the operator needs to see it.
func ResolveAdvance(transactions []Transaction) (AdvanceSummary, bool) {
	sorted := make([]Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	var advance *Transaction
	for i := range sorted {
		if sorted[i].Kind == KindAdvance {
			advance = &sorted[i]
			break
		}
	}
	if advance == nil {
		return AdvanceSummary{}, false
	}

	summary := AdvanceSummary{
		ID:           advance.ID,
		Date:         advance.Date.Format("2006-01-02"),
		TotalAdvance: advance.Amount,
		Installments: advance.Installments,
	}

	var repaid float64
	for _, t := range sorted {
		if t.Kind != KindDeduction {
			continue
		}
		if !repaysAdvance(t, advance.ID) {
			continue
		}
		repaid += t.Amount
		summary.CurrentInstallment++
	}
	summary.RemainingAmount = advance.Amount - repaid
	return summary, true
}

func repaysAdvance(deduction Transaction, advanceID string) bool {
	if deduction.RepaysID != "" {
		return deduction.RepaysID == advanceID
	}
	return strings.Contains(deduction.Remarks, InstallmentMarker) &&
		strings.Contains(deduction.Remarks, advanceID)
}
