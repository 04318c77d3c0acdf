package trader

import (
	"testing"

	"MomentumScalper/internal/broker"
	"MomentumScalper/internal/model"
	"MomentumScalper/internal/recorder"
)

func newTestTrader(gw *broker.MockGateway) *Trader {
	return New(gw, recorder.NewNoopRecorder(), 5000, 1)
}

func decision(symbol string, lastClose, target float64) model.TradeDecision {
	return model.TradeDecision{Symbol: symbol, LastClose: lastClose, Target: target, Edge: target - lastClose}
}

func TestBuyStocks_BudgetNeverExceedsBuyingPower(t *testing.T) {
	gw := &broker.MockGateway{
		Account: model.Account{BuyingPower: 10000},
		Quotes: map[string]model.Quote{
			"AAA": {Symbol: "AAA", Bid: 99.90, Ask: 100.00},
			"BBB": {Symbol: "BBB", Bid: 49.95, Ask: 50.00},
			"CCC": {Symbol: "CCC", Bid: 24.98, Ask: 25.00},
		},
	}
	tr := newTestTrader(gw)

	submitted, _ := tr.BuyStocks([]model.TradeDecision{
		decision("AAA", 100, 102),
		decision("BBB", 50, 51),
		decision("CCC", 25, 25.50),
	})
	if submitted != 3 {
		t.Fatalf("expected 3 submissions, got %d", submitted)
	}

	var total float64
	for _, o := range gw.Submitted {
		if o.Side != model.SideBuy {
			t.Errorf("unexpected side %s for %s", o.Side, o.Symbol)
		}
		cost := o.LimitPrice * float64(o.Qty)
		if cost > 5000 {
			t.Errorf("%s cost %.2f exceeds per-symbol cap", o.Symbol, cost)
		}
		total += cost
	}
	if total > 10000 {
		t.Errorf("total commitment %.2f exceeds buying power", total)
	}
}

func TestBuyStocks_ThinEdgeFreesBudgetForSurvivors(t *testing.T) {
	gw := &broker.MockGateway{
		Account: model.Account{BuyingPower: 10000},
		Quotes: map[string]model.Quote{
			"AAA": {Symbol: "AAA", Bid: 99.90, Ask: 100.00},
			"BBB": {Symbol: "BBB", Bid: 99.90, Ask: 100.00},
			"CCC": {Symbol: "CCC", Bid: 99.90, Ask: 100.00},
		},
	}
	tr := newTestTrader(gw)

	// CCC's target clears its price by a single cent, inside the minimum
	// edge, so it drops out and the other two split the full buying power.
	submitted, skipped := tr.BuyStocks([]model.TradeDecision{
		decision("AAA", 100, 101.00),
		decision("BBB", 100, 101.00),
		decision("CCC", 100, 100.02),
	})
	if submitted != 2 || skipped != 1 {
		t.Fatalf("expected 2 submitted / 1 skipped, got %d / %d", submitted, skipped)
	}
	for _, o := range gw.Submitted {
		if o.Symbol == "CCC" {
			t.Fatal("thin-edge symbol must not be submitted")
		}
		// budget 5000 at 100.01, not 10000/3.
		if o.Qty != 49 {
			t.Errorf("%s qty = %d, want 49 after budget redistribution", o.Symbol, o.Qty)
		}
	}
}

func TestBuyStocks_SkipsHeldAndWorkingOrders(t *testing.T) {
	gw := &broker.MockGateway{
		Account:    model.Account{BuyingPower: 10000},
		Positions:  []model.Position{{Symbol: "HELD", Quantity: 10}},
		OpenOrders: []model.OpenOrder{{Symbol: "PEND", Side: model.SideBuy}},
		Quotes: map[string]model.Quote{
			"FRESH": {Symbol: "FRESH", Bid: 19.98, Ask: 20.00},
		},
	}
	tr := newTestTrader(gw)

	decisions := []model.TradeDecision{
		decision("HELD", 30, 31),
		decision("PEND", 40, 41),
		decision("FRESH", 20, 21),
	}
	submitted, _ := tr.BuyStocks(decisions)
	if submitted != 1 || len(gw.Submitted) != 1 || gw.Submitted[0].Symbol != "FRESH" {
		t.Fatalf("expected only FRESH submitted, got %+v", gw.Submitted)
	}

	// Re-running against the now-working order must be a no-op.
	gw.OpenOrders = append(gw.OpenOrders, model.OpenOrder{Symbol: "FRESH", Side: model.SideBuy})
	submitted, _ = tr.BuyStocks(decisions)
	if submitted != 0 || len(gw.Submitted) != 1 {
		t.Errorf("second run must not resubmit, got %d new (%d total)", submitted, len(gw.Submitted))
	}
}

func TestBuyStocks_QuoteFallbackToLastClose(t *testing.T) {
	// No quote registered for GAPPY: the mock returns a zero quote and the
	// trader must fall back to the signal's last close.
	gw := &broker.MockGateway{
		Account: model.Account{BuyingPower: 10000},
	}
	tr := newTestTrader(gw)

	submitted, _ := tr.BuyStocks([]model.TradeDecision{decision("GAPPY", 50.00, 51.00)})
	if submitted != 1 {
		t.Fatalf("expected submission from fallback price, got %d", submitted)
	}
	if got := gw.Submitted[0].LimitPrice; got != 50.01 {
		t.Errorf("fallback limit price = %v, want 50.01", got)
	}
}

func TestBuyStocks_RejectionDoesNotAbortCycle(t *testing.T) {
	gw := &broker.MockGateway{
		Account: model.Account{BuyingPower: 10000},
		Quotes: map[string]model.Quote{
			"AAA": {Symbol: "AAA", Bid: 99.90, Ask: 100.00},
			"BBB": {Symbol: "BBB", Bid: 49.95, Ask: 50.00},
		},
		SubmitStatus: map[string]broker.SubmitStatus{"AAA": broker.SubmitRejected},
	}
	tr := newTestTrader(gw)

	submitted, skipped := tr.BuyStocks([]model.TradeDecision{
		decision("AAA", 100, 101),
		decision("BBB", 50, 51),
	})
	if submitted != 1 || skipped != 1 {
		t.Fatalf("expected 1 submitted / 1 skipped, got %d / %d", submitted, skipped)
	}
	if len(gw.Submitted) != 1 || gw.Submitted[0].Symbol != "BBB" {
		t.Errorf("expected BBB to survive AAA's rejection, got %+v", gw.Submitted)
	}
}

func TestSellStocks_PricesAtFlooredBid(t *testing.T) {
	gw := &broker.MockGateway{
		Positions: []model.Position{
			{Symbol: "AAA", Quantity: 10},
			{Symbol: "KEEP", Quantity: 7},
		},
		Quotes: map[string]model.Quote{
			"AAA": {Symbol: "AAA", Bid: 50.006, Ask: 50.05},
		},
	}
	tr := newTestTrader(gw)

	submitted, _ := tr.SellStocks([]string{"AAA", "GHOST"})
	if submitted != 1 || len(gw.Submitted) != 1 {
		t.Fatalf("expected exactly one sell, got %+v", gw.Submitted)
	}
	o := gw.Submitted[0]
	if o.Side != model.SideSell || o.Qty != 10 {
		t.Errorf("expected full-quantity sell, got %+v", o)
	}
	if o.LimitPrice != 50.00 {
		t.Errorf("limit price = %v, want the bid floored to 50.00", o.LimitPrice)
	}
}

func TestLiquidate_SellsEverythingHeld(t *testing.T) {
	gw := &broker.MockGateway{
		Positions: []model.Position{
			{Symbol: "AAA", Quantity: 10},
			{Symbol: "BBB", Quantity: 5},
		},
		Quotes: map[string]model.Quote{
			"AAA": {Symbol: "AAA", Bid: 50.00, Ask: 50.05},
			"BBB": {Symbol: "BBB", Bid: 20.00, Ask: 20.03},
		},
	}
	tr := newTestTrader(gw)

	submitted, _ := tr.Liquidate()
	if !gw.Cancelled {
		t.Error("liquidation must cancel working orders first")
	}
	if submitted != 2 || len(gw.Submitted) != 2 {
		t.Fatalf("expected 2 liquidation sells, got %+v", gw.Submitted)
	}
	want := map[string]int64{"AAA": 10, "BBB": 5}
	for _, o := range gw.Submitted {
		if o.Side != model.SideSell || o.Qty != want[o.Symbol] {
			t.Errorf("unexpected liquidation order %+v", o)
		}
	}
}

func TestRoundUpCent(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{100.00, 100.01},
		{100.001, 100.01},
		{99.999, 100.00},
	}
	for _, tt := range tests {
		if got := roundUpCent(tt.in); got != tt.want {
			t.Errorf("roundUpCent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
