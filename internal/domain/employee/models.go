package employee

import "time"

const (
	StatusActive  = "active"
	StatusOnLeave = "on_leave"
	StatusLeft    = "left"
)

type Employee struct {
	ID             string     `json:"id"`
	UserID         string     `json:"userId,omitempty"`
	EmployeeNumber string     `json:"employeeNumber"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Department     string     `json:"department"`
	Position       string     `json:"position"`
	BaseSalary     *float64   `json:"baseSalary,omitempty"`
	Currency       string     `json:"currency"`
	BankAccount    string     `json:"bankAccount,omitempty"`
	HireDate       *time.Time `json:"hireDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusOnLeave, StatusLeft:
		return true
	}
	return false
}
