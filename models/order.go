package models

import "time"

type SideType string

type OrderStatusType string

const (
	SideTypeBuy  SideType = "buy"
	SideTypeSell SideType = "sell"

	OrderStatusNew             OrderStatusType = "new"
	OrderStatusAccepted        OrderStatusType = "accepted"
	OrderStatusPartiallyFilled OrderStatusType = "partially_filled"
	OrderStatusFilled          OrderStatusType = "filled"
	OrderStatusCanceled        OrderStatusType = "canceled"
	OrderStatusRejected        OrderStatusType = "rejected"
)

// OrderRequest sizes by notional dollars for equities and by quantity for
// crypto, exactly one of the two should be set.
type OrderRequest struct {
	Symbol        string
	Side          SideType
	Notional      float64
	Qty           float64
	ClientOrderID string
}

type Order struct {
	ID             string
	ClientOrderID  string
	Symbol         string
	Side           SideType
	Notional       float64
	Qty            float64
	FilledQty      float64
	FilledAvgPrice float64
	Status         OrderStatusType
	SubmittedAt    time.Time
	FilledAt       time.Time
}
