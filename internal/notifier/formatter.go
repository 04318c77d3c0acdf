package notifier

import (
	"fmt"
	"strings"
	"time"

	"MomentumScalper/internal/model"
)

// FormatScreenerReport formats the ranked screener output into a Telegram message.
func FormatScreenerReport(stocks []model.TrendingStock) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔎 <b>Screener run</b> | %s\n\n", time.Now().UTC().Format("2006-01-02 15:04")))

	if len(stocks) == 0 {
		b.WriteString("No symbols passed the trend criteria today.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%d trending symbols:\n", len(stocks)))
	limit := len(stocks)
	if limit > 15 {
		limit = 15
	}
	for i := 0; i < limit; i++ {
		s := stocks[i]
		b.WriteString(fmt.Sprintf("  %2d. %s  slope %+.2f%%/d  range %.1f%%\n", i+1, s.Symbol, s.Slope, s.AvgRangePct))
	}
	if len(stocks) > limit {
		b.WriteString(fmt.Sprintf("  … and %d more\n", len(stocks)-limit))
	}
	return b.String()
}

// FormatCycleReport formats one active cycle's outcome. Cycles that produced
// no orders return an empty string so the chat is not flooded every 5 minutes.
func FormatCycleReport(sum model.CycleSummary, buys []model.TradeDecision, sells []string) string {
	if sum.BuysSubmitted == 0 && sum.SellsSubmitted == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("⚡ <b>Cycle report</b> | %s\n\n", time.Now().UTC().Format("15:04")))
	b.WriteString(fmt.Sprintf("Monitored %d of %d universe symbols\n", sum.TrendingCount, sum.UniverseSize))
	b.WriteString(fmt.Sprintf("Signals: %d buy / %d sell\n", sum.BuySignals, sum.SellSignals))
	b.WriteString(fmt.Sprintf("Orders: %d buys, %d sells, %d skipped\n", sum.BuysSubmitted, sum.SellsSubmitted, sum.Skipped))

	if len(buys) > 0 {
		b.WriteString("\n📈 <b>Buy signals:</b>\n")
		for _, d := range buys {
			b.WriteString(fmt.Sprintf("  %s close %.2f → target %.2f (+%.2f)\n", d.Symbol, d.LastClose, d.Target, d.Edge))
		}
	}
	if len(sells) > 0 {
		b.WriteString("\n📉 <b>Sell signals:</b> " + strings.Join(sells, ", ") + "\n")
	}
	return b.String()
}

// FormatLiquidationReport formats the end-of-session flatten result.
func FormatLiquidationReport(submitted, skipped int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏁 <b>Session close</b> | %s\n\n", time.Now().UTC().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Cancelled working orders, submitted %d liquidation sells", submitted))
	if skipped > 0 {
		b.WriteString(fmt.Sprintf(" (%d skipped)", skipped))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatStatus formats the /status reply.
func FormatStatus(state string, positions []model.Position, monitored int) string {
	var b strings.Builder
	b.WriteString("🤖 <b>Scalper status</b>\n\n")
	b.WriteString(fmt.Sprintf("Session state: %s\n", state))
	b.WriteString(fmt.Sprintf("Monitored symbols: %d\n", monitored))
	if len(positions) == 0 {
		b.WriteString("Positions: none\n")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Positions (%d):\n", len(positions)))
	for _, p := range positions {
		b.WriteString(fmt.Sprintf("  %s × %d\n", p.Symbol, p.Quantity))
	}
	return b.String()
}
