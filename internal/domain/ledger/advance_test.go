package ledger

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveAdvanceWithRepayments(t *testing.T) {
	transactions := []Transaction{
		{ID: "adv-1", Kind: KindAdvance, Amount: 3000, Installments: 3, Date: day(2025, 1, 5)},
		{ID: "ded-1", Kind: KindDeduction, Amount: 1000, RepaysID: "adv-1", Date: day(2025, 2, 20)},
		{ID: "ded-2", Kind: KindDeduction, Amount: 1000, RepaysID: "adv-1", Date: day(2025, 3, 20)},
		{ID: "bon-1", Kind: KindBonus, Amount: 500, Date: day(2025, 3, 1)},
	}

	summary, ok := ResolveAdvance(transactions)
	if !ok {
		t.Fatal("expected an active advance")
	}
	if summary.ID != "adv-1" {
		t.Fatalf("expected advance adv-1, got %s", summary.ID)
	}
	if summary.TotalAdvance != 3000 {
		t.Fatalf("expected total 3000, got %v", summary.TotalAdvance)
	}
	if summary.Installments != 3 {
		t.Fatalf("expected 3 installments, got %d", summary.Installments)
	}
	if summary.CurrentInstallment != 2 {
		t.Fatalf("expected current installment 2, got %d", summary.CurrentInstallment)
	}
	if summary.RemainingAmount != 1000 {
		t.Fatalf("expected remaining 1000, got %v", summary.RemainingAmount)
	}
}

func TestResolveAdvanceLegacyRemarksMatch(t *testing.T) {
	transactions := []Transaction{
		{ID: "adv-9", Kind: KindAdvance, Amount: 2000, Installments: 2, Date: day(2025, 1, 5)},
		{ID: "ded-1", Kind: KindDeduction, Amount: 1000, Remarks: "Advance Installment for adv-9", Date: day(2025, 2, 20)},
		{ID: "ded-2", Kind: KindDeduction, Amount: 200, Remarks: "uniform cost", Date: day(2025, 2, 21)},
	}

	summary, ok := ResolveAdvance(transactions)
	if !ok {
		t.Fatal("expected an active advance")
	}
	if summary.CurrentInstallment != 1 {
		t.Fatalf("expected 1 matched repayment, got %d", summary.CurrentInstallment)
	}
	if summary.RemainingAmount != 1000 {
		t.Fatalf("expected remaining 1000, got %v", summary.RemainingAmount)
	}
}

func TestResolveAdvanceExplicitReferenceBeatsRemarks(t *testing.T) {
	// A deduction with an explicit reference to a different advance must not
	// match on remarks text mentioning this one.
	transactions := []Transaction{
		{ID: "adv-1", Kind: KindAdvance, Amount: 1000, Date: day(2025, 3, 5)},
		{ID: "ded-1", Kind: KindDeduction, Amount: 500, RepaysID: "adv-0", Remarks: "Advance Installment adv-1", Date: day(2025, 3, 20)},
	}

	summary, ok := ResolveAdvance(transactions)
	if !ok {
		t.Fatal("expected an active advance")
	}
	if summary.CurrentInstallment != 0 {
		t.Fatalf("expected no matched repayments, got %d", summary.CurrentInstallment)
	}
	if summary.RemainingAmount != 1000 {
		t.Fatalf("expected remaining 1000, got %v", summary.RemainingAmount)
	}
}

func TestResolveAdvancePicksLatest(t *testing.T) {
	transactions := []Transaction{
		{ID: "adv-old", Kind: KindAdvance, Amount: 5000, Date: day(2024, 6, 1)},
		{ID: "ded-old", Kind: KindDeduction, Amount: 5000, RepaysID: "adv-old", Date: day(2024, 12, 20)},
		{ID: "adv-new", Kind: KindAdvance, Amount: 1500, Installments: 3, Date: day(2025, 2, 1)},
	}

	summary, ok := ResolveAdvance(transactions)
	if !ok {
		t.Fatal("expected an active advance")
	}
	if summary.ID != "adv-new" {
		t.Fatalf("expected the newest advance, got %s", summary.ID)
	}
	if summary.RemainingAmount != 1500 {
		t.Fatalf("expected remaining 1500, got %v", summary.RemainingAmount)
	}
}

func TestResolveAdvanceNone(t *testing.T) {
	transactions := []Transaction{
		{ID: "bon-1", Kind: KindBonus, Amount: 100, Date: day(2025, 1, 1)},
		{ID: "ded-1", Kind: KindDeduction, Amount: 50, Date: day(2025, 1, 15)},
	}

	if _, ok := ResolveAdvance(transactions); ok {
		t.Fatal("expected no active advance")
	}
	if _, ok := ResolveAdvance(nil); ok {
		t.Fatal("expected no active advance for empty ledger")
	}
}

func TestResolveAdvanceNegativeRemainingSurfaces(t *testing.T) {
	transactions := []Transaction{
		{ID: "adv-1", Kind: KindAdvance, Amount: 1000, Date: day(2025, 1, 5)},
		{ID: "ded-1", Kind: KindDeduction, Amount: 700, RepaysID: "adv-1", Date: day(2025, 2, 20)},
		{ID: "ded-2", Kind: KindDeduction, Amount: 700, RepaysID: "adv-1", Date: day(2025, 3, 20)},
	}

	summary, ok := ResolveAdvance(transactions)
	if !ok {
		t.Fatal("expected an active advance")
	}
	if summary.RemainingAmount != -400 {
		t.Fatalf("expected remaining -400 (not clamped), got %v", summary.RemainingAmount)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		EmployeeID:   "emp-1",
		Date:         day(2025, 3, 1),
		Kind:         KindAdvance,
		Amount:       3000,
		Installments: 3,
	}
	if field, _ := valid.Validate(); field != "" {
		t.Fatalf("expected valid transaction, got issue on %q", field)
	}

	tests := []struct {
		name      string
		tx        Transaction
		wantField string
	}{
		{
			name:      "zero amount",
			tx:        Transaction{EmployeeID: "e", Date: day(2025, 1, 1), Kind: KindBonus, Amount: 0},
			wantField: "amount",
		},
		{
			name:      "negative amount",
			tx:        Transaction{EmployeeID: "e", Date: day(2025, 1, 1), Kind: KindDeduction, Amount: -5},
			wantField: "amount",
		},
		{
			name:      "installments on bonus",
			tx:        Transaction{EmployeeID: "e", Date: day(2025, 1, 1), Kind: KindBonus, Amount: 10, Installments: 2},
			wantField: "installments",
		},
		{
			name:      "repays reference on advance",
			tx:        Transaction{EmployeeID: "e", Date: day(2025, 1, 1), Kind: KindAdvance, Amount: 10, RepaysID: "x"},
			wantField: "repaysTransactionId",
		},
		{
			name:      "unknown kind",
			tx:        Transaction{EmployeeID: "e", Date: day(2025, 1, 1), Kind: "loan", Amount: 10},
			wantField: "kind",
		},
		{
			name:      "missing employee",
			tx:        Transaction{Date: day(2025, 1, 1), Kind: KindBonus, Amount: 10},
			wantField: "employeeId",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			field, _ := tc.tx.Validate()
			if field != tc.wantField {
				t.Fatalf("expected issue on %q, got %q", tc.wantField, field)
			}
		})
	}
}
