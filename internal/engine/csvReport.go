package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"rebalancer/types"
)

// WriteFillsCSVFile writes a pass's executed fills to a CSV file at the given path.
func WriteFillsCSVFile(path string, fills []types.Fill) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fills file: %w", err)
	}
	defer f.Close()

	return writeFillsCSV(f, fills)
}

// writeFillsCSV writes fills to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func writeFillsCSV(w io.Writer, fills []types.Fill) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"fill_id",
		"symbol",
		"side",
		"quantity",
		"price",
		"value",
		"time", // RFC3339
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, fill := range fills {
		record := []string{
			fill.ID,
			fill.Symbol,
			string(fill.Side),
			strconv.FormatInt(fill.Quantity, 10),
			fill.Price.String(),
			fill.Value().String(),
			fill.Time.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
