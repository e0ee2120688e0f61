package database

import "gorm.io/gorm"

// Order is one journaled order placement.
type Order struct {
	gorm.Model
	OrderID        string
	ClientOrderID  string
	Symbol         string
	Side           string
	Strategy       string
	Reason         string
	Notional       float64
	Qty            float64
	FilledAvgPrice float64
	Status         string
}
