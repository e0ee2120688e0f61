package services

import (
	"errors"
	"time"

	"github.com/deanturpin/lft/models"
)

// mockBroker is a canned-response brokerage for service tests. Zero-value
// maps are fine, lookups just miss.
type mockBroker struct {
	snapshots map[string]*models.Snapshot
	bars      map[string][]models.Bar
	barsErr   map[string]error
	account   models.Account
	positions []models.Position
	orders    []models.Order

	placed   []models.OrderRequest
	closed   []string
	closeErr error
	placeErr error

	snapshotCalls int
}

func (m *mockBroker) GetSnapshot(symbol string) (*models.Snapshot, error) {
	m.snapshotCalls++
	snapshot, ok := m.snapshots[symbol]
	if !ok {
		return nil, errors.New("no snapshot")
	}
	return snapshot, nil
}

func (m *mockBroker) GetBars(symbol string, timeframe string, start time.Time, end time.Time, limit int) ([]models.Bar, error) {
	if err, ok := m.barsErr[symbol]; ok {
		return nil, err
	}
	return m.bars[symbol], nil
}

func (m *mockBroker) GetAccount() (*models.Account, error) {
	account := m.account
	return &account, nil
}

func (m *mockBroker) GetPositions() ([]models.Position, error) {
	return m.positions, nil
}

func (m *mockBroker) GetPosition(symbol string) (*models.Position, error) {
	for i := range m.positions {
		if m.positions[i].Symbol == symbol {
			return &m.positions[i], nil
		}
	}
	return nil, errors.New("position does not exist")
}

func (m *mockBroker) PlaceOrder(request models.OrderRequest) (*models.Order, error) {
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	m.placed = append(m.placed, request)
	return &models.Order{
		ID:            "mock-order",
		ClientOrderID: request.ClientOrderID,
		Symbol:        request.Symbol,
		Side:          request.Side,
		Status:        models.OrderStatusFilled,
	}, nil
}

func (m *mockBroker) GetOrders(status string, limit int) ([]models.Order, error) {
	return m.orders, nil
}

func (m *mockBroker) ClosePosition(symbol string) error {
	if m.closeErr != nil {
		return m.closeErr
	}
	m.closed = append(m.closed, symbol)
	return nil
}

type journalExit struct {
	symbol   string
	strategy string
	trigger  models.ExitTrigger
	profit   float64
}

type mockJournal struct {
	orders  []string
	exits   []journalExit
	blocked []string
}

func (j *mockJournal) RecordOrder(order models.Order, strategy string, reason string) {
	j.orders = append(j.orders, strategy)
}

func (j *mockJournal) RecordExit(symbol string, strategy string, trigger models.ExitTrigger, profit float64) {
	j.exits = append(j.exits, journalExit{symbol: symbol, strategy: strategy, trigger: trigger, profit: profit})
}

func (j *mockJournal) RecordBlocked(symbol string, strategy string, reason string) {
	j.blocked = append(j.blocked, reason)
}

func flatBars(n int, close float64, volume int64, start time.Time, step time.Duration) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: start.Add(time.Duration(i) * step),
			Open:      close, High: close, Low: close, Close: close,
			Volume: volume,
		}
	}
	return bars
}
