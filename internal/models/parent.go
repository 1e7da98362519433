package models

import "time"

// Parent represents a parent account in the system
type Parent struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
