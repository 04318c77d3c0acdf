package universe

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"MomentumScalper/internal/model"
)

type tickerRow struct {
	Symbol string `csv:"symbol"`
}

// Load reads the full tradeable universe from a CSV file with a "symbol" column.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticker file: %w", err)
	}
	defer f.Close()

	var rows []*tickerRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse ticker file: %w", err)
	}

	seen := make(map[string]bool, len(rows))
	symbols := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Symbol == "" || seen[r.Symbol] {
			continue
		}
		seen[r.Symbol] = true
		symbols = append(symbols, r.Symbol)
	}
	return symbols, nil
}

// SaveCandidates writes the ranked screener output, overwriting any prior run.
func SaveCandidates(path string, list []model.TrendingStock) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create candidates file: %w", err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&list, f); err != nil {
		return fmt.Errorf("write candidates file: %w", err)
	}
	return nil
}

// LoadCandidates reads a previously saved ranked list. A missing file yields
// an empty list, not an error, so a fresh start just triggers a new scan.
func LoadCandidates(path string) ([]model.TrendingStock, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open candidates file: %w", err)
	}
	defer f.Close()

	var list []model.TrendingStock
	if err := gocsv.UnmarshalFile(f, &list); err != nil {
		return nil, fmt.Errorf("parse candidates file: %w", err)
	}
	return list, nil
}
