package vehicle

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusInStock, StatusBooked, true},
		{StatusInStock, StatusSold, true},
		{StatusInStock, StatusInService, true},
		{StatusBooked, StatusSold, true},
		{StatusBooked, StatusInStock, true},
		{StatusBooked, StatusInService, false},
		{StatusInService, StatusInStock, true},
		{StatusInService, StatusSold, false},
		{StatusSold, StatusInStock, false},
		{StatusSold, StatusBooked, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestMargin(t *testing.T) {
	sale := 5_400_000.0
	v := Vehicle{PurchasePrice: 4_500_000, SalePrice: &sale}
	if got := v.Margin(150_000); got != 750_000 {
		t.Fatalf("margin = %.2f, want 750000", got)
	}

	unsold := Vehicle{PurchasePrice: 4_500_000}
	if got := unsold.Margin(0); got != 0 {
		t.Fatalf("margin for unsold vehicle = %.2f, want 0", got)
	}
}
