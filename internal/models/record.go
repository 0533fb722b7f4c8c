package models

// Section identifies the logical statement region a line belongs to.
// The active section gates which extraction patterns and sign rules apply.
type Section string

const (
	SectionUnknown        Section = "Unknown"
	SectionDeposits       Section = "Deposits"
	SectionWithdrawals    Section = "Withdrawals"
	SectionChecks         Section = "Checks"
	SectionFees           Section = "Fees"
	SectionDailyBalance   Section = "Daily Balance"
	SectionAccountSummary Section = "Account Summary"
	SectionIgnore         Section = "Ignore"
)

// TransactionRecord is a single extracted transaction.
//
// The csv tag names (Date, Description, Amount, Type, Source_Page) are the
// interchange contract for downstream consumers — do not rename them.
type TransactionRecord struct {
	Date        string  `csv:"Date" json:"date"`
	Description string  `csv:"Description" json:"description"`
	Amount      float64 `csv:"Amount" json:"amount"`
	Type        string  `csv:"Type" json:"type"`
	SourcePage  int     `csv:"Source_Page" json:"sourcePage"`
	Sequence    int     `csv:"-" json:"sequence"`
}

// BalanceRecord is one entry from a daily balance section.
// Immutable on creation; never extended by continuation lines.
type BalanceRecord struct {
	Date    string  `csv:"Date" json:"date"`
	Balance float64 `csv:"Balance" json:"balance"`
	Page    int     `csv:"-" json:"page"`
}

// SummaryEntry is one stated figure from the account summary block.
type SummaryEntry struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// Statement is the full extraction result for one document.
type Statement struct {
	Bank         string              `json:"bank"`
	Year         string              `json:"year,omitempty"`
	Transactions []TransactionRecord `json:"transactions"`
	Balances     []BalanceRecord     `json:"balances"`
	Summary      []SummaryEntry      `json:"summary"`

	// UnparsedAmounts counts records whose amount token could not be parsed
	// and was recorded as 0. A non-zero count means the output needs review.
	UnparsedAmounts int `json:"unparsedAmounts,omitempty"`
}

// SummaryValue returns the extracted figure for a category, if present.
func (s *Statement) SummaryValue(category string) (float64, bool) {
	for _, e := range s.Summary {
		if e.Category == category {
			return e.Amount, true
		}
	}
	return 0, false
}
