package trader

import (
	"log"
	"math"

	"MomentumScalper/internal/broker"
	"MomentumScalper/internal/model"
	"MomentumScalper/internal/recorder"
)

// Trader reconciles signal output against live broker state and submits
// limit orders under the capital constraint. It holds no broker state of its
// own: positions, orders, and buying power are re-queried on every call.
type Trader struct {
	Gateway      broker.Gateway
	Recorder     recorder.Recorder
	PerSymbolCap float64
	MinEdgeCents int
}

// New creates a Trader.
func New(gw broker.Gateway, rec recorder.Recorder, perSymbolCap float64, minEdgeCents int) *Trader {
	return &Trader{Gateway: gw, Recorder: rec, PerSymbolCap: perSymbolCap, MinEdgeCents: minEdgeCents}
}

// sizedBuy is one buy decision with its resolved price and quantity.
type sizedBuy struct {
	decision model.TradeDecision
	price    float64
	qty      int64
}

// BuyStocks reconciles the buy set against held positions and open orders,
// sizes the remainder under the budget, and submits limit buys.
// Returns submitted and skipped counts.
func (t *Trader) BuyStocks(decisions []model.TradeDecision) (submitted, skipped int) {
	if len(decisions) == 0 {
		return 0, 0
	}

	positions, err := t.Gateway.ListPositions()
	if err != nil {
		log.Printf("[ERROR] list positions: %v, skipping buys this cycle", err)
		return 0, len(decisions)
	}
	openOrders, err := t.Gateway.ListOpenOrders()
	if err != nil {
		log.Printf("[ERROR] list open orders: %v, skipping buys this cycle", err)
		return 0, len(decisions)
	}

	// Never buy what is already held or already the target of a working order.
	owned := make(map[string]bool, len(positions)+len(openOrders))
	for _, p := range positions {
		owned[p.Symbol] = true
	}
	for _, o := range openOrders {
		owned[o.Symbol] = true
	}
	pending := decisions[:0:0]
	for _, d := range decisions {
		if owned[d.Symbol] {
			continue
		}
		pending = append(pending, d)
	}
	if len(pending) == 0 {
		return 0, 0
	}

	account, err := t.Gateway.GetAccount()
	if err != nil {
		log.Printf("[ERROR] fetch account: %v, skipping buys this cycle", err)
		return 0, len(pending)
	}

	priced := t.priceBuys(pending)
	skipped += len(pending) - len(priced)

	sized := t.sizeBuys(priced, account.BuyingPower)
	skipped += len(priced) - len(sized)

	for _, b := range sized {
		if t.submit(b.decision.Symbol, model.SideBuy, b.price, b.qty, "entry") {
			submitted++
		} else {
			skipped++
		}
	}
	return submitted, skipped
}

// priceBuys resolves the buy price per symbol: the latest ask, falling back
// to the signal's last close when the quote is non-positive, rounded up to
// the next cent. A failed quote skips just that symbol.
func (t *Trader) priceBuys(pending []model.TradeDecision) []sizedBuy {
	priced := make([]sizedBuy, 0, len(pending))
	for _, d := range pending {
		quote, err := t.Gateway.GetLatestQuote(d.Symbol)
		if err != nil {
			log.Printf("[WARN] quote %s: %v, skipping this cycle", d.Symbol, err)
			continue
		}
		price := quote.Ask
		if price <= 0 {
			price = d.LastClose
		}
		priced = append(priced, sizedBuy{decision: d, price: roundUpCent(price)})
	}
	return priced
}

// sizeBuys iterates the per-symbol budget to a fixed point: symbols whose
// quantity is zero or whose rounded edge is too thin drop out, and the freed
// budget is redistributed over the shrunken set. Every survivor is sized with
// the final denominator, so allocation does not depend on iteration order.
func (t *Trader) sizeBuys(priced []sizedBuy, buyingPower float64) []sizedBuy {
	eligible := priced
	for len(eligible) > 0 {
		budget := math.Min(buyingPower/float64(len(eligible)), t.PerSymbolCap)
		kept := make([]sizedBuy, 0, len(eligible))
		for _, b := range eligible {
			b.qty = int64(math.Floor(budget / b.price))
			edgeCents := math.Floor((b.decision.Target - b.price) * 100)
			if b.qty > 0 && edgeCents > float64(t.MinEdgeCents) {
				kept = append(kept, b)
			} else {
				log.Printf("[INFO] %s sized out: qty=%d edge=%.0f cents", b.decision.Symbol, b.qty, edgeCents)
			}
		}
		if len(kept) == len(eligible) {
			return kept
		}
		eligible = kept
	}
	return nil
}

// SellStocks submits a limit sell for the full held quantity of every held
// symbol present in the sell set, priced at the latest bid floored to the cent.
func (t *Trader) SellStocks(sellable []string) (submitted, skipped int) {
	positions, err := t.Gateway.ListPositions()
	if err != nil {
		log.Printf("[ERROR] list positions: %v, skipping sells this cycle", err)
		return 0, 0
	}
	if len(positions) == 0 {
		return 0, 0
	}

	sellSet := make(map[string]bool, len(sellable))
	for _, s := range sellable {
		sellSet[s] = true
	}

	for _, p := range positions {
		if !sellSet[p.Symbol] {
			continue
		}
		quote, err := t.Gateway.GetLatestQuote(p.Symbol)
		if err != nil {
			log.Printf("[WARN] quote %s: %v, skipping this cycle", p.Symbol, err)
			skipped++
			continue
		}
		price := roundDownCent(quote.Bid)
		if price <= 0 {
			log.Printf("[WARN] %s has no usable bid (%.2f), skipping this cycle", p.Symbol, quote.Bid)
			skipped++
			continue
		}
		if t.submit(p.Symbol, model.SideSell, price, p.Quantity, "exit") {
			submitted++
		} else {
			skipped++
		}
	}
	return submitted, skipped
}

// Liquidate cancels all working orders and sells every held symbol
// unconditionally, regardless of signal state.
func (t *Trader) Liquidate() (submitted, skipped int) {
	if err := t.Gateway.CancelAllOrders(); err != nil {
		log.Printf("[ERROR] cancel all orders: %v", err)
	}

	positions, err := t.Gateway.ListPositions()
	if err != nil {
		log.Printf("[ERROR] list positions for liquidation: %v", err)
		return 0, 0
	}
	symbols := make([]string, len(positions))
	for i, p := range positions {
		symbols[i] = p.Symbol
	}
	return t.SellStocks(symbols)
}

// submit sends one limit order and branches explicitly on the outcome.
// Rejections and transport failures leave the symbol unactioned this cycle;
// the next cycle re-evaluates from fresh broker state.
func (t *Trader) submit(symbol string, side model.OrderSide, price float64, qty int64, note string) bool {
	result := t.Gateway.SubmitLimitOrder(symbol, side, price, qty)

	evt := &recorder.OrderEvent{
		Symbol: symbol, Side: side, LimitPrice: price, Qty: qty,
		Status: result.Status.String(), Note: note,
	}
	if err := t.Recorder.RecordOrderEvent(evt); err != nil {
		log.Printf("[ERROR] record order event: %v", err)
	}

	switch result.Status {
	case broker.SubmitAccepted:
		log.Printf("[INFO] %s %s %d @ %.2f accepted (%s)", side, symbol, qty, price, result.OrderID)
		return true
	case broker.SubmitRejected:
		log.Printf("[WARN] %s %s %d @ %.2f rejected: %v", side, symbol, qty, price, result.Err)
		return false
	default:
		log.Printf("[WARN] %s %s %d @ %.2f transport failure: %v", side, symbol, qty, price, result.Err)
		return false
	}
}

// roundUpCent pays one tick through the quoted price.
func roundUpCent(p float64) float64 {
	return math.Floor((p+0.01)*100) / 100
}

func roundDownCent(p float64) float64 {
	return math.Floor(p*100) / 100
}
