package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/deanturpin/lft/helpers"
	"github.com/deanturpin/lft/interfaces"
	"github.com/deanturpin/lft/market"
	"github.com/deanturpin/lft/models"
	"github.com/deanturpin/lft/strategies"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// LoadConfigFromEnv overlays environment settings on the defaults.
// Unset or unparsable values keep their default.
func LoadConfigFromEnv() *models.TradingConfig {
	cfg := models.NewTradingConfig()

	if symbols := os.Getenv("symbols"); symbols != "" {
		for _, symbol := range strings.Split(symbols, ",") {
			if trimmed := strings.TrimSpace(symbol); trimmed != "" {
				cfg.Symbols = append(cfg.Symbols, trimmed)
			}
		}
	}

	envFloat("takeProfitPct", &cfg.TakeProfitPct)
	envFloat("stopLossPct", &cfg.StopLossPct)
	envFloat("trailingStopPct", &cfg.TrailingStopPct)
	envFloat("panicStopPct", &cfg.PanicStopPct)
	envFloat("tradeNotional", &cfg.TradeNotional)
	envFloat("minConfidence", &cfg.MinConfidence)
	envFloat("maxSpreadBpsStock", &cfg.MaxSpreadBpsStock)
	envFloat("maxSpreadBpsCrypto", &cfg.MaxSpreadBpsCrypto)
	envFloat("minVolumeRatio", &cfg.MinVolumeRatio)
	envFloat("minEdgeBps", &cfg.MinEdgeBps)
	envFloat("startingCash", &cfg.StartingCash)
	envInt("minTradesToEnable", &cfg.MinTradesToEnable)
	envInt("calibrationDays", &cfg.CalibrationDays)
	envDuration("sessionDuration", &cfg.SessionDuration)
	envDuration("entryCadence", &cfg.EntryCadence)
	envDuration("exitCadence", &cfg.ExitCadence)
	envDuration("panicCadence", &cfg.PanicCadence)
	envDuration("cooldown", &cfg.Cooldown)
	envDuration("riskOffAfter", &cfg.RiskOffAfter)
	envBool("adaptiveExits", &cfg.AdaptiveExits)
	envBool("paperTrading", &cfg.PaperTrading)

	return cfg
}

func envFloat(key string, target *float64) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func envInt(key string, target *int) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func envBool(key string, target *bool) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func envDuration(key string, target *time.Duration) {
	if value := os.Getenv(key); value != "" {
		if parsed, err := str2duration.ParseDuration(value); err == nil {
			*target = parsed
		}
	}
}

// SessionService is the single-threaded control loop: calibrate once,
// then entries, exits and panic checks strictly in sequence on their
// cadences until the session expires. The process exits afterwards so a
// supervisor restarts it with a fresh calibration.
type SessionService struct {
	broker      interfaces.Broker
	cfg         *models.TradingConfig
	tracker     *PositionTracker
	histories   map[string]*market.PriceHistory
	stats       map[string]*models.StrategyStats
	calibration *CalibrationService
	entry       *EntryService
	exit        *ExitService
	evaluation  *EvaluationService
	log         *helpers.FileLogger
	liquidated  bool

	// Injectable for tests.
	Clock func() time.Time
	Sleep func(time.Duration)
}

func NewSessionService(broker interfaces.Broker, cfg *models.TradingConfig) *SessionService {
	histories := make(map[string]*market.PriceHistory)
	stats := make(map[string]*models.StrategyStats)
	for _, strategy := range strategies.All() {
		stats[strategy.Name()] = &models.StrategyStats{StrategyName: strategy.Name()}
	}
	tracker := NewPositionTracker()

	return &SessionService{
		broker:      broker,
		cfg:         cfg,
		tracker:     tracker,
		histories:   histories,
		stats:       stats,
		calibration: NewCalibrationService(broker, cfg),
		entry:       NewEntryService(broker, cfg, tracker, histories, stats),
		exit:        NewExitService(broker, cfg, tracker, histories, stats),
		evaluation:  NewEvaluationService(broker, cfg, histories),
		log:         &helpers.Logger,
	}
}

func (s *SessionService) SetJournal(journal Journal) {
	s.entry.SetJournal(journal)
	s.exit.SetJournal(journal)
}

func (s *SessionService) Evaluation() *EvaluationService {
	return s.evaluation
}

func (s *SessionService) Stats() map[string]*models.StrategyStats {
	return s.stats
}

func (s *SessionService) Start() error {
	if s.Clock == nil {
		s.Clock = time.Now
	}
	if s.Sleep == nil {
		s.Sleep = time.Sleep
	}
	if len(s.cfg.Symbols) == 0 {
		return fmt.Errorf("session: no symbols configured")
	}

	start := s.Clock()
	s.log.Infoln(fmt.Sprintf("session: calibrating %d symbols over %d days",
		len(s.cfg.Symbols), s.cfg.CalibrationDays))
	result, err := s.calibration.Calibrate(s.cfg.Symbols, start)
	if err != nil {
		return fmt.Errorf("session: calibration failed: %w", err)
	}
	s.entry.ApplyCalibration(result)
	s.evaluation.SetBars(result.Bars)

	enabled := s.entry.EnabledStrategies()
	if len(enabled) == 0 {
		s.log.Warnln("session: no strategy enabled, running exits only")
	}

	sessionEnd := start.Add(s.cfg.SessionDuration)
	nextEntry := helpers.NextEntryTick(start, s.cfg.EntryCadence)
	nextExit := start.Add(s.cfg.ExitCadence)
	nextPanic := start.Add(s.cfg.PanicCadence)

	for {
		now := s.Clock()
		if !now.Before(sessionEnd) {
			break
		}
		if !now.Before(nextPanic) {
			s.exit.RunPanicCycle(now)
			nextPanic = now.Add(s.cfg.PanicCadence)
		}
		if !now.Before(nextExit) {
			s.exit.RunCycle(now)
			nextExit = now.Add(s.cfg.ExitCadence)
		}
		if !now.Before(nextEntry) {
			s.entry.RunCycle(now)
			nextEntry = helpers.NextEntryTick(now, s.cfg.EntryCadence)
		}
		if !s.liquidated && helpers.IsMarketHours(now) && helpers.IsPastEODCutoff(now) {
			s.log.Infoln("session: end of day, liquidating equity positions")
			s.exit.LiquidateEquities(now)
			s.liquidated = true
		}
		s.Sleep(time.Second)
	}

	s.logSummary()
	return nil
}

func (s *SessionService) logSummary() {
	s.log.Infoln("session: finished")
	for _, strategy := range strategies.All() {
		stats := s.stats[strategy.Name()]
		if stats.TradesExecuted == 0 && stats.SignalsGenerated == 0 {
			continue
		}
		s.log.Infoln(fmt.Sprintf("session: %s signals=%d trades=%d closed=%d win=%.0f%% net=%.2f",
			stats.StrategyName, stats.SignalsGenerated, stats.TradesExecuted,
			stats.TradesClosed, stats.WinRate(), stats.NetProfit()))
	}
}
