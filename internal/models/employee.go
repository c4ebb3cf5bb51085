package models

import "time"

// Employee is a tenant staff member. Password carries the bcrypt hash on
// reads and the plaintext on writes; it is never serialized.
type Employee struct {
	ID       string     `json:"id" db:"id"`
	Name     string     `json:"name" db:"name"`
	Position *string    `json:"position" db:"position"`
	Email    *string    `json:"email" db:"email"`
	Phone    *string    `json:"phone" db:"phone"`
	Username *string    `json:"username" db:"username"`
	Password string     `json:"-" db:"password"`
	Salary   *float64   `json:"salary" db:"salary"`
	HireDate *time.Time `json:"hireDate" db:"hire_date"`
	Active   bool       `json:"active" db:"active"`
}

// EmployeeInput is the request body for create and update. Password is
// optional on update.
type EmployeeInput struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Position *string    `json:"position"`
	Email    *string    `json:"email"`
	Phone    *string    `json:"phone"`
	Username *string    `json:"username"`
	Password string     `json:"password"`
	Salary   *float64   `json:"salary"`
	HireDate *time.Time `json:"hireDate"`
	Active   *bool      `json:"active"`
}
