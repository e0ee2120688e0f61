package paper

import (
	"fmt"
	"strconv"
	"time"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/interfaces"
	"github.com/deanturpin/lft/models"
	"github.com/deanturpin/lft/services"
)

// PaperService is an in-memory broker over any market-data source. Fills
// happen at mid plus or minus half the simulated spread, the same model
// calibration uses, so paper sessions and backtests agree.
type PaperService struct {
	data      interfaces.MarketData
	cfg       *models.TradingConfig
	cash      float64
	positions map[string]*paperPosition
	orders    []models.Order
	nextID    int
}

type paperPosition struct {
	symbol     string
	qty        float64
	entryPrice float64
}

func NewPaperService(data interfaces.MarketData, cfg *models.TradingConfig) *PaperService {
	return &PaperService{
		data:      data,
		cfg:       cfg,
		cash:      cfg.StartingCash,
		positions: make(map[string]*paperPosition),
	}
}

func (paperService *PaperService) GetSnapshot(symbol string) (*models.Snapshot, error) {
	return paperService.data.GetSnapshot(symbol)
}

func (paperService *PaperService) GetBars(symbol string, timeframe string,
	start time.Time, end time.Time, limit int) ([]models.Bar, error) {
	return paperService.data.GetBars(symbol, timeframe, start, end, limit)
}

func (paperService *PaperService) GetAccount() (*models.Account, error) {
	equity := paperService.cash
	for _, position := range paperService.positions {
		equity += position.qty * paperService.currentPrice(position)
	}
	return &models.Account{
		Equity:      equity,
		Cash:        paperService.cash,
		BuyingPower: paperService.cash,
		Currency:    "USD",
		Status:      "PAPER",
	}, nil
}

func (paperService *PaperService) GetPositions() ([]models.Position, error) {
	positions := make([]models.Position, 0, len(paperService.positions))
	for _, position := range paperService.positions {
		positions = append(positions, paperService.toModel(position))
	}
	return positions, nil
}

func (paperService *PaperService) GetPosition(symbol string) (*models.Position, error) {
	position, ok := paperService.positions[symbol]
	if !ok {
		return nil, models.NewBrokerError(models.ErrUnknown, "get_position", 404,
			fmt.Errorf("no open position for %s", symbol))
	}
	model := paperService.toModel(position)
	return &model, nil
}

func (paperService *PaperService) PlaceOrder(request models.OrderRequest) (*models.Order, error) {
	snapshot, err := paperService.data.GetSnapshot(request.Symbol)
	if err != nil {
		return nil, err
	}
	spread := paperService.cfg.SpreadFraction(helpers.IsCrypto(request.Symbol))

	if request.Side == models.SideTypeBuy {
		fill := services.ApplySpread(snapshot.Mid(), spread, true)
		qty := request.Qty
		if qty == 0.0 {
			qty = request.Notional / fill
		}
		cost := qty * fill
		if cost > paperService.cash {
			return nil, models.NewBrokerError(models.ErrUnknown, "place_order", 403,
				fmt.Errorf("insufficient paper cash %.2f for %.2f", paperService.cash, cost))
		}
		paperService.cash -= cost
		if existing, ok := paperService.positions[request.Symbol]; ok {
			total := existing.qty + qty
			existing.entryPrice = (existing.entryPrice*existing.qty + fill*qty) / total
			existing.qty = total
		} else {
			paperService.positions[request.Symbol] = &paperPosition{
				symbol:     request.Symbol,
				qty:        qty,
				entryPrice: fill,
			}
		}
		order := paperService.record(request, qty, fill)
		return &order, nil
	}

	position, ok := paperService.positions[request.Symbol]
	if !ok {
		return nil, models.NewBrokerError(models.ErrUnknown, "place_order", 404,
			fmt.Errorf("no position to sell for %s", request.Symbol))
	}
	fill := services.ApplySpread(snapshot.Mid(), spread, false)
	qty := request.Qty
	if qty == 0.0 || qty > position.qty {
		qty = position.qty
	}
	paperService.cash += qty * fill
	position.qty -= qty
	if position.qty <= 0.0 {
		delete(paperService.positions, request.Symbol)
	}
	order := paperService.record(request, qty, fill)
	return &order, nil
}

func (paperService *PaperService) GetOrders(status string, limit int) ([]models.Order, error) {
	orders := paperService.orders
	if limit > 0 && len(orders) > limit {
		orders = orders[len(orders)-limit:]
	}
	result := make([]models.Order, len(orders))
	copy(result, orders)
	return result, nil
}

func (paperService *PaperService) ClosePosition(symbol string) error {
	position, ok := paperService.positions[symbol]
	if !ok {
		return models.NewBrokerError(models.ErrUnknown, "close_position", 404,
			fmt.Errorf("no open position for %s", symbol))
	}
	_, err := paperService.PlaceOrder(models.OrderRequest{
		Symbol: symbol,
		Side:   models.SideTypeSell,
		Qty:    position.qty,
	})
	return err
}

func (paperService *PaperService) currentPrice(position *paperPosition) float64 {
	snapshot, err := paperService.data.GetSnapshot(position.symbol)
	if err != nil || snapshot.Mid() == 0.0 {
		return position.entryPrice
	}
	return snapshot.Mid()
}

func (paperService *PaperService) toModel(position *paperPosition) models.Position {
	current := paperService.currentPrice(position)
	unrealized := position.qty * (current - position.entryPrice)
	model := models.Position{
		Symbol:        position.symbol,
		Qty:           position.qty,
		AvgEntryPrice: position.entryPrice,
		CurrentPrice:  current,
		UnrealizedPL:  unrealized,
		MarketValue:   position.qty * current,
	}
	if basis := model.CostBasis(); basis != 0.0 {
		model.UnrealizedPLPct = unrealized / basis
	}
	return model
}

func (paperService *PaperService) record(request models.OrderRequest, qty float64, fill float64) models.Order {
	paperService.nextID++
	order := models.Order{
		ID:             strconv.Itoa(paperService.nextID),
		ClientOrderID:  request.ClientOrderID,
		Symbol:         request.Symbol,
		Side:           request.Side,
		Notional:       request.Notional,
		Qty:            qty,
		FilledQty:      qty,
		FilledAvgPrice: fill,
		Status:         models.OrderStatusFilled,
		SubmittedAt:    time.Now(),
		FilledAt:       time.Now(),
	}
	paperService.orders = append(paperService.orders, order)
	return order
}
