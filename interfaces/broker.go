package interfaces

import (
	"time"

	"github.com/deanturpin/lft/models"
)

// MarketData is the read-only slice of a brokerage: quotes and bars.
type MarketData interface {
	GetSnapshot(symbol string) (*models.Snapshot, error)
	GetBars(symbol string, timeframe string, start time.Time, end time.Time, limit int) ([]models.Bar, error)
}

// Broker adds account state and order flow on top of market data.
type Broker interface {
	MarketData
	GetAccount() (*models.Account, error)
	GetPositions() ([]models.Position, error)
	GetPosition(symbol string) (*models.Position, error)
	PlaceOrder(request models.OrderRequest) (*models.Order, error)
	GetOrders(status string, limit int) ([]models.Order, error)
	ClosePosition(symbol string) error
}
