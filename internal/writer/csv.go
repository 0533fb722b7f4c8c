// Package writer serializes extraction results into the interchange
// formats downstream consumers ingest: CSV for spreadsheets and JSON for
// programmatic use.
package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/parseledger/statement-extractor/internal/models"
	"github.com/parseledger/statement-extractor/internal/reconcile"
)

// WriteTransactionsCSV writes the transaction table. Column names come
// from the struct csv tags and are a stable contract; an empty statement
// still gets a header row.
func WriteTransactionsCSV(w io.Writer, txns []models.TransactionRecord) error {
	if err := gocsv.Marshal(&txns, w); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	return nil
}

// WriteBalancesCSV writes the daily balance table.
func WriteBalancesCSV(w io.Writer, balances []models.BalanceRecord) error {
	if err := gocsv.Marshal(&balances, w); err != nil {
		return fmt.Errorf("write balances csv: %w", err)
	}
	return nil
}

// TransactionsCSVString renders the transaction table in memory, for API
// responses.
func TransactionsCSVString(txns []models.TransactionRecord) (string, error) {
	var buf bytes.Buffer
	if err := WriteTransactionsCSV(&buf, txns); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Export bundles a statement with its reconciliation report for JSON
// output.
type Export struct {
	Statement *models.Statement `json:"statement"`
	Report    *reconcile.Report `json:"reconciliation,omitempty"`
}

// WriteJSON writes the full extraction result as indented JSON.
func WriteJSON(w io.Writer, export Export) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteFile writes content through fn into path, creating or truncating
// the file.
func WriteFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return err
	}
	return f.Close()
}
