package writer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parseledger/statement-extractor/internal/models"
)

func TestWriteTransactionsCSV(t *testing.T) {
	txns := []models.TransactionRecord{
		{Date: "01/05", Description: "Paycheck, Inc", Amount: 1000, Type: "Deposits", SourcePage: 1},
		{Date: "01/07", Description: "Rent", Amount: -500.5, Type: "Withdrawals", SourcePage: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, txns))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Description,Amount,Type,Source_Page", lines[0])
	assert.Equal(t, `01/05,"Paycheck, Inc",1000,Deposits,1`, lines[1])
	assert.Equal(t, "01/07,Rent,-500.5,Withdrawals,2", lines[2])
}

func TestWriteTransactionsCSVEmptyKeepsHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, nil))
	assert.Equal(t, "Date,Description,Amount,Type,Source_Page", strings.TrimSpace(buf.String()))
}

func TestWriteBalancesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBalancesCSV(&buf, []models.BalanceRecord{
		{Date: "01/05", Balance: 1500, Page: 1},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Balance", lines[0])
	assert.Equal(t, "01/05,1500", lines[1])
}

func TestWriteJSON(t *testing.T) {
	st := &models.Statement{
		Bank: "chase",
		Transactions: []models.TransactionRecord{
			{Date: "01/05", Description: "Paycheck", Amount: 1000, Type: "Deposits", SourcePage: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Export{Statement: st}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	stmt, ok := decoded["statement"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "chase", stmt["bank"])
}
