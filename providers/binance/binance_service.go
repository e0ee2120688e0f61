package binance

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/deanturpin/lft/models"
)

// BinanceService serves crypto market data for paper sessions. It
// implements interfaces.MarketData only, order flow stays with the
// brokerage or the paper broker.
type BinanceService struct {
	binanceClient *binance.Client
	apiKey        string
	apiSecret     string
}

func NewBinanceService() *BinanceService {
	binanceService := BinanceService{}
	binanceService.apiKey = os.Getenv("binanceAPIKey")
	binanceService.apiSecret = os.Getenv("binanceAPISecret")
	binanceService.binanceClient = binance.NewClient(binanceService.apiKey, binanceService.apiSecret)
	return &binanceService
}

// pairFor maps a slash pair onto Binance's concatenated form, with USD
// quoted as USDT.
func pairFor(symbol string) string {
	base, quote, found := strings.Cut(symbol, "/")
	if !found {
		return symbol
	}
	if quote == "USD" {
		quote = "USDT"
	}
	return base + quote
}

var intervalForTimeframe = map[string]string{
	"1Min":  "1m",
	"5Min":  "5m",
	"15Min": "15m",
	"1Hour": "1h",
	"1Day":  "1d",
}

func (binanceService *BinanceService) GetSnapshot(symbol string) (*models.Snapshot, error) {
	stats, err := binanceService.binanceClient.NewListPriceChangeStatsService().
		Symbol(pairFor(symbol)).Do(context.Background())
	if err != nil {
		return nil, models.NewBrokerError(models.ErrNetwork, "get_snapshot", 0, err)
	}
	if len(stats) == 0 {
		return nil, models.NewBrokerError(models.ErrUnknown, "get_snapshot", 0,
			fmt.Errorf("no ticker stats for %s", symbol))
	}
	stat := stats[0]
	return &models.Snapshot{
		Symbol:         symbol,
		LastTradePrice: parseFloat(stat.LastPrice),
		Bid:            parseFloat(stat.BidPrice),
		Ask:            parseFloat(stat.AskPrice),
		PrevClose:      parseFloat(stat.PrevClosePrice),
		Timestamp:      time.UnixMilli(stat.CloseTime),
	}, nil
}

func (binanceService *BinanceService) GetBars(symbol string, timeframe string,
	start time.Time, end time.Time, limit int) ([]models.Bar, error) {
	interval, ok := intervalForTimeframe[timeframe]
	if !ok {
		return nil, models.NewBrokerError(models.ErrUnknown, "get_bars", 0,
			fmt.Errorf("unsupported timeframe %s", timeframe))
	}

	service := binanceService.binanceClient.NewKlinesService().
		Symbol(pairFor(symbol)).Interval(interval).
		StartTime(start.UnixMilli()).EndTime(end.UnixMilli())
	if limit > 0 {
		service = service.Limit(limit)
	}
	klines, err := service.Do(context.Background())
	if err != nil {
		return nil, models.NewBrokerError(models.ErrNetwork, "get_bars", 0, err)
	}

	bars := make([]models.Bar, 0, len(klines))
	for _, kline := range klines {
		bars = append(bars, models.Bar{
			Timestamp: time.UnixMilli(kline.OpenTime),
			Open:      parseFloat(kline.Open),
			High:      parseFloat(kline.High),
			Low:       parseFloat(kline.Low),
			Close:     parseFloat(kline.Close),
			Volume:    int64(parseFloat(kline.Volume)),
		})
	}
	return bars, nil
}

func parseFloat(value string) float64 {
	parsed, _ := strconv.ParseFloat(value, 64)
	return parsed
}
