package vehicle

import "time"

const (
	StatusInStock   = "in_stock"
	StatusBooked    = "booked"
	StatusSold      = "sold"
	StatusInService = "in_service"
)

type Vehicle struct {
	ID            string     `json:"id"`
	VIN           string     `json:"vin"`
	Make          string     `json:"make"`
	Model         string     `json:"model"`
	Year          int        `json:"year"`
	Status        string     `json:"status"`
	PurchasePrice float64    `json:"purchasePrice"`
	PurchaseDate  time.Time  `json:"purchaseDate"`
	SalePrice     *float64   `json:"salePrice,omitempty"`
	SaleDate      *time.Time `json:"saleDate,omitempty"`
	BuyerName     string     `json:"buyerName,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Margin is sale price minus purchase price and accumulated maintenance
// cost. Only meaningful once the vehicle is sold.
func (v Vehicle) Margin(maintenanceCost float64) float64 {
	if v.SalePrice == nil {
		return 0
	}
	return *v.SalePrice - v.PurchasePrice - maintenanceCost
}

type MaintenanceJob struct {
	ID          string     `json:"id"`
	VehicleID   string     `json:"vehicleId"`
	Description string     `json:"description"`
	Cost        float64    `json:"cost"`
	OpenedAt    time.Time  `json:"openedAt"`
	ClosedAt    *time.Time `json:"closedAt,omitempty"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusInStock, StatusBooked, StatusSold, StatusInService:
		return true
	}
	return false
}

// validTransitions holds the allowed status moves. Sold is terminal.
var validTransitions = map[string][]string{
	StatusInStock:   {StatusBooked, StatusSold, StatusInService},
	StatusBooked:    {StatusInStock, StatusSold},
	StatusInService: {StatusInStock},
	StatusSold:      {},
}

func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
