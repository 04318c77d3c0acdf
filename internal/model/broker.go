package model

import "time"

// OrderSide is the direction of an order.
type OrderSide string

const (
	SideBuy  OrderSide = "buy"
	SideSell OrderSide = "sell"
)

// Quote is the latest bid/ask for a symbol.
type Quote struct {
	Symbol string
	Bid    float64
	Ask    float64
}

// Position is a broker-reported holding. The broker is the source of truth;
// positions are re-queried every cycle and never cached across cycles.
type Position struct {
	Symbol   string
	Quantity int64
}

// OpenOrder is a broker-reported working order.
type OpenOrder struct {
	Symbol string
	Side   OrderSide
}

// Account holds the account fields consumed by the order orchestrator.
type Account struct {
	BuyingPower float64
}

// Clock is the broker market clock.
type Clock struct {
	IsOpen    bool
	NextOpen  time.Time
	NextClose time.Time
}
