package models

type Customer struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Phone         *string `json:"phone" db:"phone"`
	Email         *string `json:"email" db:"email"`
	Address       *string `json:"address" db:"address"`
	LoyaltyPoints int     `json:"loyaltyPoints" db:"loyalty_points"`
	Active        bool    `json:"active" db:"active"`
}
