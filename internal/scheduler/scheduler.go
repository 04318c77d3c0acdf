package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"MomentumScalper/internal/broker"
	"MomentumScalper/internal/config"
	"MomentumScalper/internal/model"
	"MomentumScalper/internal/notifier"
	"MomentumScalper/internal/recorder"
	"MomentumScalper/internal/screener"
	"MomentumScalper/internal/strategy"
	"MomentumScalper/internal/trader"
	"MomentumScalper/internal/universe"
)

// State is the session phase the bot is in.
type State int32

const (
	StateWaitingForOpen State = iota
	StateActive
	StateLiquidating
)

func (s State) String() string {
	switch s {
	case StateWaitingForOpen:
		return "waiting for open"
	case StateActive:
		return "active"
	case StateLiquidating:
		return "liquidating"
	default:
		return "unknown"
	}
}

// Scheduler drives the session state machine: idle until the trading window
// opens, trade on a fixed cycle inside it, flatten everything at its end.
type Scheduler struct {
	Cfg       *config.Config
	Gateway   broker.Gateway
	Screener  *screener.Screener
	Local     *screener.LocalFilter
	Generator *strategy.Generator
	Trader    *trader.Trader
	Notifier  *notifier.TelegramNotifier
	Recorder  recorder.Recorder

	cron *cron.Cron
	ctx  context.Context

	state        atomic.Int32
	rescanWanted atomic.Bool

	mu         sync.Mutex
	universe   []string
	candidates []model.TrendingStock
}

// New creates a Scheduler over a loaded universe.
func New(cfg *config.Config, gw broker.Gateway, tn *notifier.TelegramNotifier, rec recorder.Recorder, symbols []string) *Scheduler {
	return &Scheduler{
		Cfg:       cfg,
		Gateway:   gw,
		Screener:  screener.NewScreener(gw),
		Local:     screener.NewLocalFilter(gw),
		Generator: strategy.NewGenerator(gw, cfg.Trading.StopLimitPct, cfg.Trading.MinEdgePct),
		Trader:    trader.New(gw, rec, cfg.Trading.PerSymbolCap, cfg.Trading.MinEdgeCents),
		Notifier:  tn,
		Recorder:  rec,
		cron:      cron.New(cron.WithSeconds()),
		universe:  symbols,
	}
}

// Run executes the session loop until ctx is cancelled. Cancellation during an
// active session still flattens all positions before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	s.ctx = ctx

	// A restart mid-session reuses the ranked list saved by the earlier run;
	// a list from a previous day is stale and forces a fresh scan.
	saved, err := universe.LoadCandidates(s.Cfg.Universe.CandidatesFile)
	if err != nil {
		log.Printf("[WARN] load saved candidates: %v", err)
	}
	if len(saved) > 0 && !savedToday(s.Cfg.Universe.CandidatesFile) {
		log.Printf("[INFO] discarding %d candidates from a previous session", len(saved))
		saved = nil
	}
	s.mu.Lock()
	s.candidates = saved
	s.mu.Unlock()
	if len(saved) == 0 {
		s.rescanWanted.Store(true)
	} else {
		log.Printf("[INFO] resuming with %d saved candidates", len(saved))
	}

	if _, err := s.cron.AddFunc(s.Cfg.Schedule.RescanCron, func() {
		log.Println("[INFO] scheduled rescan requested")
		s.rescanWanted.Store(true)
	}); err != nil {
		return fmt.Errorf("register rescan cron: %w", err)
	}
	s.cron.Start()
	defer s.cron.Stop()

	log.Printf("[INFO] session loop started, window %s-%s UTC",
		s.Cfg.Trading.OpenBoundaryUTC, s.Cfg.Trading.CloseBoundaryUTC)

	for {
		select {
		case <-ctx.Done():
			if State(s.state.Load()) == StateActive {
				log.Println("[WARN] shutdown during active session, liquidating first")
				s.liquidate()
			}
			return ctx.Err()
		default:
		}

		switch State(s.state.Load()) {
		case StateWaitingForOpen:
			s.waitingStep()
		case StateActive:
			s.activeStep()
		case StateLiquidating:
			s.liquidate()
			log.Println("[INFO] session complete")
			return nil
		}
	}
}

func (s *Scheduler) waitingStep() {
	clock, err := s.Gateway.GetMarketClock()
	if err != nil {
		log.Printf("[ERROR] market clock: %v", err)
		s.sleep(s.Cfg.IdlePollEvery)
		return
	}
	// Started too late for today's window: flatten whatever a previous run
	// may have left behind and finish.
	if clock.IsOpen && s.pastClose(time.Now()) {
		s.state.Store(int32(StateLiquidating))
		return
	}
	if !clock.IsOpen || !s.withinWindow(time.Now()) {
		s.sleep(s.Cfg.IdlePollEvery)
		return
	}

	log.Println("[INFO] trading window open, session active")
	if s.rescanWanted.Swap(false) || s.candidateCount() == 0 {
		s.runScreener()
	}
	s.state.Store(int32(StateActive))
}

func (s *Scheduler) activeStep() {
	clock, err := s.Gateway.GetMarketClock()
	if err != nil {
		// One unreadable clock must not strand open positions; treat it
		// as session end only once the local close boundary passes.
		log.Printf("[ERROR] market clock: %v", err)
	}
	if (err == nil && !clock.IsOpen) || !s.withinWindow(time.Now()) {
		log.Println("[INFO] trading window closed, entering liquidation")
		s.state.Store(int32(StateLiquidating))
		return
	}

	if s.rescanWanted.Swap(false) {
		s.runScreener()
	}
	s.runCycle()
	s.sleep(s.Cfg.CycleEvery)
}

// withinWindow checks the wall-clock trading window in UTC.
func (s *Scheduler) withinWindow(now time.Time) bool {
	offset := sinceMidnightUTC(now)
	return offset >= s.Cfg.OpenBoundary && offset < s.Cfg.CloseBoundary
}

func (s *Scheduler) pastClose(now time.Time) bool {
	return sinceMidnightUTC(now) >= s.Cfg.CloseBoundary
}

func sinceMidnightUTC(now time.Time) time.Duration {
	now = now.UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return now.Sub(midnight)
}

// runScreener refreshes the ranked candidate list from the full universe and
// persists it for crash recovery and analysis.
func (s *Scheduler) runScreener() {
	s.mu.Lock()
	symbols := s.universe
	s.mu.Unlock()

	log.Printf("[INFO] screening %d universe symbols", len(symbols))
	trending := s.Screener.Screen(symbols)
	log.Printf("[INFO] screener found %d trending symbols", len(trending))

	s.mu.Lock()
	s.candidates = trending
	s.mu.Unlock()

	if err := s.Recorder.RecordScreenerRun(trending); err != nil {
		log.Printf("[ERROR] record screener run: %v", err)
	}
	if err := universe.SaveCandidates(s.Cfg.Universe.CandidatesFile, trending); err != nil {
		log.Printf("[ERROR] save candidates: %v", err)
	}
	s.trySend(notifier.FormatScreenerReport(trending))
}

// runCycle executes one active trading cycle: local re-confirmation, CCI
// signal classification, then sells before buys so freed buying power is
// available to new entries.
func (s *Scheduler) runCycle() {
	positions, err := s.Gateway.ListPositions()
	if err != nil {
		log.Printf("[ERROR] list positions: %v, skipping cycle", err)
		return
	}
	heldSyms := make([]string, len(positions))
	heldSet := make(map[string]bool, len(positions))
	for i, p := range positions {
		heldSyms[i] = p.Symbol
		heldSet[p.Symbol] = true
	}

	s.mu.Lock()
	candidateSyms := make([]string, len(s.candidates))
	for i, c := range s.candidates {
		candidateSyms[i] = c.Symbol
	}
	universeSize := len(s.universe)
	s.mu.Unlock()

	monitored := s.Local.Filter(candidateSyms, heldSyms)
	sig := s.Generator.Evaluate(monitored, heldSet)

	if len(sig.Buys) > 0 {
		if err := s.Recorder.RecordTradeDecisions(sig.Buys); err != nil {
			log.Printf("[ERROR] record trade decisions: %v", err)
		}
	}

	sellsSubmitted, sellsSkipped := s.Trader.SellStocks(sig.Sells)
	buysSubmitted, buysSkipped := s.Trader.BuyStocks(sig.Buys)

	sum := model.CycleSummary{
		UniverseSize:   universeSize,
		TrendingCount:  len(monitored),
		BuySignals:     len(sig.Buys),
		SellSignals:    len(sig.Sells),
		BuysSubmitted:  buysSubmitted,
		SellsSubmitted: sellsSubmitted,
		Skipped:        buysSkipped + sellsSkipped,
	}
	log.Printf("[INFO] cycle done: monitored=%d buys=%d/%d sells=%d/%d skipped=%d",
		sum.TrendingCount, sum.BuysSubmitted, sum.BuySignals,
		sum.SellsSubmitted, sum.SellSignals, sum.Skipped)
	s.trySend(notifier.FormatCycleReport(sum, sig.Buys, sig.Sells))
}

// liquidate flattens the book at session end.
func (s *Scheduler) liquidate() {
	log.Println("[INFO] liquidating all positions")
	submitted, skipped := s.Trader.Liquidate()
	s.trySend(notifier.FormatLiquidationReport(submitted, skipped))
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/status":
		positions, err := s.Gateway.ListPositions()
		if err != nil {
			return fmt.Sprintf("position query failed: %v", err)
		}
		return notifier.FormatStatus(State(s.state.Load()).String(), positions, s.candidateCount())
	case "/rescan":
		s.rescanWanted.Store(true)
		return "Rescan scheduled for the next cycle."
	case "/report":
		s.mu.Lock()
		list := s.candidates
		s.mu.Unlock()
		return notifier.FormatScreenerReport(list)
	default:
		return "Commands:\n• /status\n• /rescan\n• /report"
	}
}

func savedToday(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	now := time.Now().UTC()
	mod := fi.ModTime().UTC()
	return mod.Year() == now.Year() && mod.YearDay() == now.YearDay()
}

func (s *Scheduler) candidateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.candidates)
}

// sleep waits for d or until the run context is cancelled.
func (s *Scheduler) sleep(d time.Duration) {
	select {
	case <-s.ctx.Done():
	case <-time.After(d):
	}
}

func (s *Scheduler) trySend(text string) {
	if text == "" || s.Notifier == nil || s.Notifier.BotToken == "" {
		return
	}
	if err := s.Notifier.SendWithRetry(s.ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
