package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
	EmployeeOnLeave  EmployeeStatus = "on_leave"
)

type Employee struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Salary     decimal.Decimal `json:"salary"`
	HireDate   time.Time       `json:"hire_date"`
	Status     EmployeeStatus  `json:"status"`
}

type EmployeePatch struct {
	Name       *string          `json:"name,omitempty"`
	Position   *string          `json:"position,omitempty"`
	Department *string          `json:"department,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	Salary     *decimal.Decimal `json:"salary,omitempty"`
	HireDate   *time.Time       `json:"hire_date,omitempty"`
	Status     *EmployeeStatus  `json:"status,omitempty"`
}

func (e *Employee) Apply(patch EmployeePatch) {
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	if patch.Position != nil {
		e.Position = *patch.Position
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if patch.Email != nil {
		e.Email = *patch.Email
	}
	if patch.Phone != nil {
		e.Phone = *patch.Phone
	}
	if patch.Salary != nil {
		e.Salary = *patch.Salary
	}
	if patch.HireDate != nil {
		e.HireDate = *patch.HireDate
	}
	if patch.Status != nil {
		e.Status = *patch.Status
	}
}
