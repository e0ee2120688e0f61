package models

// Account is the brokerage account summary.
type Account struct {
	Equity      float64
	Cash        float64
	BuyingPower float64
	Currency    string
	Status      string
}
