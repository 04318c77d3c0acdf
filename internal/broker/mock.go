package broker

import (
	"time"

	"MomentumScalper/internal/config"
	"MomentumScalper/internal/model"
)

// SubmittedOrder captures one SubmitLimitOrder call made against the mock.
type SubmittedOrder struct {
	Symbol     string
	Side       model.OrderSide
	LimitPrice float64
	Qty        int64
}

// MockGateway returns controllable fixed data for development and testing.
type MockGateway struct {
	Bars       map[config.Resolution]map[string][]model.OHLCV
	Quotes     map[string]model.Quote
	Account    model.Account
	Positions  []model.Position
	OpenOrders []model.OpenOrder
	Clock      model.Clock

	BarsErr  error
	QuoteErr error

	// SubmitStatus overrides the outcome per symbol; unset means accepted.
	SubmitStatus map[string]SubmitStatus
	Submitted    []SubmittedOrder
	Cancelled    bool
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) GetBars(symbols []string, res config.Resolution, _, _ time.Time) (map[string][]model.OHLCV, error) {
	if m.BarsErr != nil {
		return nil, m.BarsErr
	}
	out := make(map[string][]model.OHLCV)
	series := m.Bars[res]
	for _, s := range symbols {
		if bars, ok := series[s]; ok {
			out[s] = bars
		}
	}
	return out, nil
}

func (m *MockGateway) GetLatestQuote(symbol string) (model.Quote, error) {
	if m.QuoteErr != nil {
		return model.Quote{}, m.QuoteErr
	}
	q, ok := m.Quotes[symbol]
	if !ok {
		return model.Quote{Symbol: symbol}, nil
	}
	return q, nil
}

func (m *MockGateway) GetAccount() (model.Account, error) {
	return m.Account, nil
}

func (m *MockGateway) ListPositions() ([]model.Position, error) {
	return m.Positions, nil
}

func (m *MockGateway) ListOpenOrders() ([]model.OpenOrder, error) {
	return m.OpenOrders, nil
}

func (m *MockGateway) SubmitLimitOrder(symbol string, side model.OrderSide, limitPrice float64, qty int64) SubmitResult {
	if status, ok := m.SubmitStatus[symbol]; ok && status != SubmitAccepted {
		return SubmitResult{Status: status}
	}
	m.Submitted = append(m.Submitted, SubmittedOrder{Symbol: symbol, Side: side, LimitPrice: limitPrice, Qty: qty})
	return SubmitResult{Status: SubmitAccepted, OrderID: symbol + "-mock"}
}

func (m *MockGateway) CancelAllOrders() error {
	m.Cancelled = true
	return nil
}

func (m *MockGateway) GetMarketClock() (model.Clock, error) {
	return m.Clock, nil
}
