package models

// Category is a content category books are tagged with
type Category struct {
	ID   int64
	Name string
	Slug string
}

// AgeGroup is an age bracket books are targeted at
type AgeGroup struct {
	ID     int64
	Name   string
	MinAge int
	MaxAge int
}
