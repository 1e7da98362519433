package models

import "time"

// Child represents a child reader profile
type Child struct {
	ID         int64
	ParentID   int64
	Name       string
	IsActive   bool
	AgeGroupID *int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
