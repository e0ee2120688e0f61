package alpaca

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/models"
)

const (
	defaultTradingURL = "https://paper-api.alpaca.markets"
	defaultDataURL    = "https://data.alpaca.markets"

	// Order placement must fail fast, historical fetches can take their
	// time. Two clients so one concern cannot starve the other.
	tradingTimeout = 5 * time.Second
	dataTimeout    = 30 * time.Second
)

// AlpacaService talks to the Alpaca trading and data APIs over plain
// HTTP. It implements interfaces.Broker.
type AlpacaService struct {
	tradingURL  string
	dataURL     string
	keyID       string
	secretKey   string
	tradingHTTP *http.Client
	dataHTTP    *http.Client
}

// NewAlpacaService reads credentials from the environment. Missing
// credentials are the one startup-fatal condition, surfaced here as an
// error for main to act on.
func NewAlpacaService() (*AlpacaService, error) {
	keyID := os.Getenv("alpacaKeyId")
	secretKey := os.Getenv("alpacaSecretKey")
	if keyID == "" || secretKey == "" {
		return nil, fmt.Errorf("alpaca: alpacaKeyId and alpacaSecretKey must be set")
	}
	tradingURL := os.Getenv("alpacaBaseUrl")
	if tradingURL == "" {
		tradingURL = defaultTradingURL
	}
	dataURL := os.Getenv("alpacaDataUrl")
	if dataURL == "" {
		dataURL = defaultDataURL
	}
	return &AlpacaService{
		tradingURL:  tradingURL,
		dataURL:     dataURL,
		keyID:       keyID,
		secretKey:   secretKey,
		tradingHTTP: &http.Client{Timeout: tradingTimeout},
		dataHTTP:    &http.Client{Timeout: dataTimeout},
	}, nil
}

type snapshotResponse struct {
	LatestTrade struct {
		Price     float64   `json:"p"`
		Timestamp time.Time `json:"t"`
	} `json:"latestTrade"`
	LatestQuote struct {
		BidPrice float64 `json:"bp"`
		AskPrice float64 `json:"ap"`
	} `json:"latestQuote"`
	PrevDailyBar struct {
		Close float64 `json:"c"`
	} `json:"prevDailyBar"`
}

func (r *snapshotResponse) toModel(symbol string) *models.Snapshot {
	return &models.Snapshot{
		Symbol:         symbol,
		LastTradePrice: r.LatestTrade.Price,
		Bid:            r.LatestQuote.BidPrice,
		Ask:            r.LatestQuote.AskPrice,
		PrevClose:      r.PrevDailyBar.Close,
		Timestamp:      r.LatestTrade.Timestamp,
	}
}

func (s *AlpacaService) GetSnapshot(symbol string) (*models.Snapshot, error) {
	if helpers.IsCrypto(symbol) {
		endpoint := fmt.Sprintf("%s/v1beta3/crypto/us/snapshots?symbols=%s",
			s.dataURL, url.QueryEscape(symbol))
		var response struct {
			Snapshots map[string]snapshotResponse `json:"snapshots"`
		}
		if err := s.get(s.dataHTTP, endpoint, "get_snapshot", false, &response); err != nil {
			return nil, err
		}
		snapshot, ok := response.Snapshots[symbol]
		if !ok {
			return nil, models.NewBrokerError(models.ErrUnknown, "get_snapshot", 0,
				fmt.Errorf("no snapshot for %s", symbol))
		}
		return snapshot.toModel(symbol), nil
	}

	endpoint := fmt.Sprintf("%s/v2/stocks/%s/snapshot", s.dataURL, url.PathEscape(symbol))
	var response snapshotResponse
	if err := s.get(s.dataHTTP, endpoint, "get_snapshot", false, &response); err != nil {
		return nil, err
	}
	return response.toModel(symbol), nil
}

type barResponse struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

func toBars(raw []barResponse) []models.Bar {
	bars := make([]models.Bar, 0, len(raw))
	for _, bar := range raw {
		bars = append(bars, models.Bar{
			Timestamp: bar.Timestamp,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    int64(bar.Volume),
		})
	}
	return bars
}

func (s *AlpacaService) GetBars(symbol string, timeframe string, start time.Time, end time.Time, limit int) ([]models.Bar, error) {
	query := url.Values{}
	query.Set("timeframe", timeframe)
	query.Set("start", start.UTC().Format(time.RFC3339))
	query.Set("end", end.UTC().Format(time.RFC3339))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	if helpers.IsCrypto(symbol) {
		query.Set("symbols", symbol)
		endpoint := fmt.Sprintf("%s/v1beta3/crypto/us/bars?%s", s.dataURL, query.Encode())
		var response struct {
			Bars map[string][]barResponse `json:"bars"`
		}
		if err := s.get(s.dataHTTP, endpoint, "get_bars", true, &response); err != nil {
			return nil, err
		}
		return toBars(response.Bars[symbol]), nil
	}

	endpoint := fmt.Sprintf("%s/v2/stocks/%s/bars?%s", s.dataURL, url.PathEscape(symbol), query.Encode())
	var response struct {
		Bars []barResponse `json:"bars"`
	}
	if err := s.get(s.dataHTTP, endpoint, "get_bars", true, &response); err != nil {
		return nil, err
	}
	return toBars(response.Bars), nil
}

// Trading API numerics arrive as JSON strings.
type accountResponse struct {
	Equity      string `json:"equity"`
	Cash        string `json:"cash"`
	BuyingPower string `json:"buying_power"`
	Currency    string `json:"currency"`
	Status      string `json:"status"`
}

func (s *AlpacaService) GetAccount() (*models.Account, error) {
	var response accountResponse
	if err := s.get(s.tradingHTTP, s.tradingURL+"/v2/account", "get_account", false, &response); err != nil {
		return nil, err
	}
	return &models.Account{
		Equity:      parseFloat(response.Equity),
		Cash:        parseFloat(response.Cash),
		BuyingPower: parseFloat(response.BuyingPower),
		Currency:    response.Currency,
		Status:      response.Status,
	}, nil
}

type positionResponse struct {
	Symbol        string `json:"symbol"`
	Qty           string `json:"qty"`
	AvgEntryPrice string `json:"avg_entry_price"`
	CurrentPrice  string `json:"current_price"`
	UnrealizedPL  string `json:"unrealized_pl"`
	UnrealizedPLP string `json:"unrealized_plpc"`
	MarketValue   string `json:"market_value"`
}

func (r *positionResponse) toModel() models.Position {
	return models.Position{
		Symbol:          r.Symbol,
		Qty:             parseFloat(r.Qty),
		AvgEntryPrice:   parseFloat(r.AvgEntryPrice),
		CurrentPrice:    parseFloat(r.CurrentPrice),
		UnrealizedPL:    parseFloat(r.UnrealizedPL),
		UnrealizedPLPct: parseFloat(r.UnrealizedPLP),
		MarketValue:     parseFloat(r.MarketValue),
	}
}

func (s *AlpacaService) GetPositions() ([]models.Position, error) {
	var response []positionResponse
	if err := s.get(s.tradingHTTP, s.tradingURL+"/v2/positions", "get_positions", false, &response); err != nil {
		return nil, err
	}
	positions := make([]models.Position, 0, len(response))
	for i := range response {
		positions = append(positions, response[i].toModel())
	}
	return positions, nil
}

func (s *AlpacaService) GetPosition(symbol string) (*models.Position, error) {
	endpoint := s.tradingURL + "/v2/positions/" + url.PathEscape(symbol)
	var response positionResponse
	if err := s.get(s.tradingHTTP, endpoint, "get_position", false, &response); err != nil {
		return nil, err
	}
	position := response.toModel()
	return &position, nil
}

type orderResponse struct {
	ID             string     `json:"id"`
	ClientOrderID  string     `json:"client_order_id"`
	Symbol         string     `json:"symbol"`
	Side           string     `json:"side"`
	Notional       string     `json:"notional"`
	Qty            string     `json:"qty"`
	FilledQty      string     `json:"filled_qty"`
	FilledAvgPrice string     `json:"filled_avg_price"`
	Status         string     `json:"status"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	FilledAt       *time.Time `json:"filled_at"`
}

func (r *orderResponse) toModel() models.Order {
	order := models.Order{
		ID:             r.ID,
		ClientOrderID:  r.ClientOrderID,
		Symbol:         r.Symbol,
		Side:           models.SideType(r.Side),
		Notional:       parseFloat(r.Notional),
		Qty:            parseFloat(r.Qty),
		FilledQty:      parseFloat(r.FilledQty),
		FilledAvgPrice: parseFloat(r.FilledAvgPrice),
		Status:         models.OrderStatusType(r.Status),
		SubmittedAt:    r.SubmittedAt,
	}
	if r.FilledAt != nil {
		order.FilledAt = *r.FilledAt
	}
	return order
}

func (s *AlpacaService) PlaceOrder(request models.OrderRequest) (*models.Order, error) {
	payload := map[string]string{
		"symbol":        request.Symbol,
		"side":          string(request.Side),
		"type":          "market",
		"time_in_force": "day",
	}
	if helpers.IsCrypto(request.Symbol) {
		payload["time_in_force"] = "gtc"
	}
	if request.Notional > 0.0 {
		payload["notional"] = strconv.FormatFloat(request.Notional, 'f', 2, 64)
	} else {
		payload["qty"] = strconv.FormatFloat(request.Qty, 'f', -1, 64)
	}
	if request.ClientOrderID != "" {
		payload["client_order_id"] = request.ClientOrderID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, models.NewBrokerError(models.ErrUnknown, "place_order", 0, err)
	}
	var response orderResponse
	if err := s.do(s.tradingHTTP, http.MethodPost, s.tradingURL+"/v2/orders",
		bytes.NewReader(body), "place_order", false, &response); err != nil {
		return nil, err
	}
	order := response.toModel()
	return &order, nil
}

func (s *AlpacaService) GetOrders(status string, limit int) ([]models.Order, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	query.Set("direction", "asc")

	endpoint := s.tradingURL + "/v2/orders?" + query.Encode()
	var response []orderResponse
	if err := s.get(s.tradingHTTP, endpoint, "get_orders", false, &response); err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(response))
	for i := range response {
		orders = append(orders, response[i].toModel())
	}
	return orders, nil
}

func (s *AlpacaService) ClosePosition(symbol string) error {
	endpoint := s.tradingURL + "/v2/positions/" + url.PathEscape(symbol)
	return s.do(s.tradingHTTP, http.MethodDelete, endpoint, nil, "close_position", false, nil)
}

func (s *AlpacaService) get(client *http.Client, endpoint string, op string, barsEndpoint bool, out interface{}) error {
	return s.do(client, http.MethodGet, endpoint, nil, op, barsEndpoint, out)
}

func (s *AlpacaService) do(client *http.Client, method string, endpoint string, body io.Reader,
	op string, barsEndpoint bool, out interface{}) error {
	request, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		return models.NewBrokerError(models.ErrUnknown, op, 0, err)
	}
	request.Header.Set("APCA-API-KEY-ID", s.keyID)
	request.Header.Set("APCA-API-SECRET-KEY", s.secretKey)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.Do(request)
	if err != nil {
		return models.NewBrokerError(models.ErrNetwork, op, 0, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		kind := models.ClassifyStatus(response.StatusCode, barsEndpoint)
		return models.NewBrokerError(kind, op, response.StatusCode,
			fmt.Errorf("%s", string(payload)))
	}
	if out == nil {
		io.Copy(io.Discard, response.Body)
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return models.NewBrokerError(models.ErrParse, op, response.StatusCode, err)
	}
	return nil
}

func parseFloat(value string) float64 {
	parsed, _ := strconv.ParseFloat(value, 64)
	return parsed
}
