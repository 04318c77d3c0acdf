package broker

import (
	"errors"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"MomentumScalper/internal/calculator"
	"MomentumScalper/internal/config"
	"MomentumScalper/internal/model"
)

// AlpacaGateway implements Gateway against the Alpaca trading and data APIs.
type AlpacaGateway struct {
	trading *alpaca.Client
	data    *marketdata.Client
	feed    marketdata.Feed
}

// NewAlpacaGateway creates a gateway for the given account. baseURL selects
// paper or production trading.
func NewAlpacaGateway(keyID, secretKey, baseURL, feed string) *AlpacaGateway {
	return &AlpacaGateway{
		trading: alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    keyID,
			APISecret: secretKey,
			BaseURL:   baseURL,
		}),
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    keyID,
			APISecret: secretKey,
		}),
		feed: marketdata.Feed(feed),
	}
}

func (g *AlpacaGateway) Name() string { return "alpaca" }

func timeFrame(queryTimeFrame string) (marketdata.TimeFrame, error) {
	switch queryTimeFrame {
	case config.TimeFrameDay:
		return marketdata.OneDay, nil
	case config.TimeFrameFifteenMin:
		return marketdata.NewTimeFrame(15, marketdata.Min), nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("unknown query timeframe %q", queryTimeFrame)
	}
}

func (g *AlpacaGateway) GetBars(symbols []string, res config.Resolution, start, end time.Time) (map[string][]model.OHLCV, error) {
	if len(symbols) == 0 {
		return map[string][]model.OHLCV{}, nil
	}
	if len(symbols) > MaxSymbolsPerQuery {
		return nil, fmt.Errorf("too many symbols in one query: %d > %d", len(symbols), MaxSymbolsPerQuery)
	}
	spec, err := config.SpecFor(res)
	if err != nil {
		return nil, err
	}
	tf, err := timeFrame(spec.QueryTimeFrame)
	if err != nil {
		return nil, err
	}

	raw, err := g.data.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     start,
		End:       end,
		Feed:      g.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", res, err)
	}

	out := make(map[string][]model.OHLCV, len(raw))
	for symbol, series := range raw {
		bars := make([]model.OHLCV, len(series))
		for i, b := range series {
			bars[i] = model.OHLCV{
				Time:   b.Timestamp,
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: float64(b.Volume),
			}
		}
		if spec.Resample {
			bars = calculator.ResampleHourly(bars)
		}
		// Trim to the configured window size.
		if len(bars) > spec.QueryLimit {
			bars = bars[len(bars)-spec.QueryLimit:]
		}
		out[symbol] = bars
	}
	return out, nil
}

func (g *AlpacaGateway) GetLatestQuote(symbol string) (model.Quote, error) {
	q, err := g.data.GetLatestQuote(symbol, marketdata.GetLatestQuoteRequest{Feed: g.feed})
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch latest quote for %s: %w", symbol, err)
	}
	return model.Quote{Symbol: symbol, Bid: q.BidPrice, Ask: q.AskPrice}, nil
}

func (g *AlpacaGateway) GetAccount() (model.Account, error) {
	acct, err := g.trading.GetAccount()
	if err != nil {
		return model.Account{}, fmt.Errorf("fetch account: %w", err)
	}
	return model.Account{BuyingPower: acct.BuyingPower.InexactFloat64()}, nil
}

func (g *AlpacaGateway) ListPositions() ([]model.Position, error) {
	raw, err := g.trading.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	positions := make([]model.Position, len(raw))
	for i, p := range raw {
		positions[i] = model.Position{Symbol: p.Symbol, Quantity: p.Qty.IntPart()}
	}
	return positions, nil
}

func (g *AlpacaGateway) ListOpenOrders() ([]model.OpenOrder, error) {
	raw, err := g.trading.GetOrders(alpaca.GetOrdersRequest{Status: "open", Limit: 500})
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}
	orders := make([]model.OpenOrder, len(raw))
	for i, o := range raw {
		orders[i] = model.OpenOrder{Symbol: o.Symbol, Side: model.OrderSide(o.Side)}
	}
	return orders, nil
}

func (g *AlpacaGateway) SubmitLimitOrder(symbol string, side model.OrderSide, limitPrice float64, qty int64) SubmitResult {
	q := decimal.NewFromInt(qty)
	lp := decimal.NewFromFloat(limitPrice)
	order, err := g.trading.PlaceOrder(alpaca.PlaceOrderRequest{
		Symbol:      symbol,
		Qty:         &q,
		Side:        alpaca.Side(side),
		Type:        alpaca.Limit,
		LimitPrice:  &lp,
		TimeInForce: alpaca.Day,
	})
	if err != nil {
		var apiErr *alpaca.APIError
		if errors.As(err, &apiErr) {
			return SubmitResult{Status: SubmitRejected, Err: err}
		}
		return SubmitResult{Status: SubmitTransportError, Err: err}
	}
	return SubmitResult{Status: SubmitAccepted, OrderID: order.ID}
}

func (g *AlpacaGateway) CancelAllOrders() error {
	if err := g.trading.CancelAllOrders(); err != nil {
		return fmt.Errorf("cancel all orders: %w", err)
	}
	return nil
}

func (g *AlpacaGateway) GetMarketClock() (model.Clock, error) {
	clock, err := g.trading.GetClock()
	if err != nil {
		return model.Clock{}, fmt.Errorf("fetch market clock: %w", err)
	}
	return model.Clock{
		IsOpen:    clock.IsOpen,
		NextOpen:  clock.NextOpen,
		NextClose: clock.NextClose,
	}, nil
}
