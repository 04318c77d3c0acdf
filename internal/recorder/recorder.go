package recorder

import "MomentumScalper/internal/model"

// OrderEvent records one order submission attempt and its outcome.
type OrderEvent struct {
	Symbol     string
	Side       model.OrderSide
	LimitPrice float64
	Qty        int64
	Status     string // "accepted", "rejected", "transport_error", "skipped"
	Note       string
}

// Recorder persists the pipeline's observable artifacts: the ranked candidate
// list per screener run, the append-only buy-decision log, and order outcomes.
type Recorder interface {
	RecordScreenerRun(stocks []model.TrendingStock) error
	RecordTradeDecisions(decisions []model.TradeDecision) error
	RecordOrderEvent(evt *OrderEvent) error
	Close() error
}
