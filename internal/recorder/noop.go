package recorder

import "MomentumScalper/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScreenerRun(_ []model.TrendingStock) error       { return nil }
func (n *NoopRecorder) RecordTradeDecisions(_ []model.TradeDecision) error    { return nil }
func (n *NoopRecorder) RecordOrderEvent(_ *OrderEvent) error                  { return nil }
func (n *NoopRecorder) Close() error                                          { return nil }
