package broker

import (
	"time"

	"MomentumScalper/internal/config"
	"MomentumScalper/internal/model"
)

// MaxSymbolsPerQuery is the broker's per-request symbol limit for bar queries.
const MaxSymbolsPerQuery = 100

// Gateway is the broker interface the pipeline consumes. All calls are
// synchronous and never retried; callers re-query fresh state every cycle.
type Gateway interface {
	// GetBars returns bars at the requested resolution for up to
	// MaxSymbolsPerQuery symbols. Callers are responsible for chunking.
	// Symbols with no data are simply absent from the result.
	GetBars(symbols []string, res config.Resolution, start, end time.Time) (map[string][]model.OHLCV, error)
	GetLatestQuote(symbol string) (model.Quote, error)
	GetAccount() (model.Account, error)
	ListPositions() ([]model.Position, error)
	ListOpenOrders() ([]model.OpenOrder, error)
	SubmitLimitOrder(symbol string, side model.OrderSide, limitPrice float64, qty int64) SubmitResult
	CancelAllOrders() error
	GetMarketClock() (model.Clock, error)
	Name() string
}

// SubmitStatus classifies the outcome of one order submission attempt.
type SubmitStatus int

const (
	SubmitAccepted SubmitStatus = iota
	SubmitRejected               // broker declined the order
	SubmitTransportError         // request never reached a verdict
)

func (s SubmitStatus) String() string {
	switch s {
	case SubmitAccepted:
		return "accepted"
	case SubmitRejected:
		return "rejected"
	case SubmitTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// SubmitResult is the explicit per-attempt outcome the orchestrator branches on.
type SubmitResult struct {
	Status  SubmitStatus
	OrderID string
	Err     error
}

// Chunk breaks a symbol list into query-able chunks of at most size symbols.
func Chunk(symbols []string, size int) [][]string {
	if size <= 0 || len(symbols) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(symbols)+size-1)/size)
	for i := 0; i < len(symbols); i += size {
		end := i + size
		if end > len(symbols) {
			end = len(symbols)
		}
		chunks = append(chunks, symbols[i:end])
	}
	return chunks
}
