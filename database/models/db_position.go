package database

import "gorm.io/gorm"

// Exit is one journaled position close with its trigger.
type Exit struct {
	gorm.Model
	Symbol   string
	Strategy string
	Trigger  string
	Profit   float64
}

// BlockedEntry records an entry the filters or the edge gate refused,
// kept for post-session review of how much the gates cost.
type BlockedEntry struct {
	gorm.Model
	Symbol   string
	Strategy string
	Reason   string
}
