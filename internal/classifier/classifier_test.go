package classifier

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parseledger/statement-extractor/internal/extractor"
	"github.com/parseledger/statement-extractor/internal/models"
	"github.com/parseledger/statement-extractor/internal/profile"
)

func testProfile() *profile.Profile {
	primary := regexp.MustCompile(`^(?P<date>\d{0,2}/\d{2})\s+(?P<desc>.+?)\s+\$?(?P<amt>-?[\d,]+\.\d{2})$`)
	return &profile.Profile{
		Name:                  "testbank",
		CaseSensitiveSections: true,
		SectionRules: []profile.SectionRule{
			{Match: "ACCOUNT SUMMARY", Section: models.SectionAccountSummary},
			{Match: "DEPOSITS AND ADDITIONS", Section: models.SectionDeposits},
			{Match: "CHECKS PAID", Section: models.SectionChecks},
			{Match: "WITHDRAWALS", Section: models.SectionWithdrawals},
			{Match: "FEES", Section: models.SectionFees},
			{Match: "DAILY ENDING BALANCE", Section: models.SectionDailyBalance},
		},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^page \d+ of \d+`),
			regexp.MustCompile(`(?i)^total\b`),
		},
		Primary: map[models.Section]*regexp.Regexp{
			models.SectionDeposits:    primary,
			models.SectionWithdrawals: primary,
			models.SectionFees:        primary,
		},
		Multi: map[models.Section]*regexp.Regexp{
			models.SectionChecks:       regexp.MustCompile(`(?P<check>\d+\*?)\s+(?P<date>\d{0,2}/\d{2})\s+\$?(?P<amt>[\d,]+\.\d{2})`),
			models.SectionDailyBalance: regexp.MustCompile(`(?P<date>\d{0,2}/\d{2})\s+\$?(?P<amt>-?[\d,]+\.\d{2})`),
		},
		Summary: []profile.SummaryRule{
			{Category: "Beginning Balance", Role: profile.RoleBeginning, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Beginning Balance\s+\$?(-?[\d,]+\.\d{2})`),
			}},
			{Category: "Deposits", Role: profile.RoleFlow, Sections: []models.Section{models.SectionDeposits}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Deposits\s+\$?([\d,]+\.\d{2})`),
			}},
		},
		Sign: map[models.Section]int{
			models.SectionDeposits:    +1,
			models.SectionWithdrawals: -1,
			models.SectionChecks:      -1,
			models.SectionFees:        -1,
		},
		FallbackMonth: "04",
	}
}

func pagesOf(texts ...string) []extractor.Page {
	pages := make([]extractor.Page, 0, len(texts))
	for _, t := range texts {
		pages = append(pages, extractor.Page{Text: t})
	}
	return pages
}

func TestExtractSectionsAndSigns(t *testing.T) {
	st := Extract(pagesOf(
		"Statement Period 01/01/2024 - 01/31/2024\n"+
			"DEPOSITS AND ADDITIONS\n"+
			"01/05 Paycheck 1000.00\n"+
			"WITHDRAWALS\n"+
			"01/07 Rent 500.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 2)

	dep := st.Transactions[0]
	assert.Equal(t, "01/05", dep.Date)
	assert.Equal(t, "Paycheck", dep.Description)
	assert.InDelta(t, 1000.00, dep.Amount, 1e-9)
	assert.Equal(t, "Deposits", dep.Type)
	assert.Equal(t, 1, dep.SourcePage)

	wd := st.Transactions[1]
	assert.InDelta(t, -500.00, wd.Amount, 1e-9)
	assert.Equal(t, "Withdrawals", wd.Type)

	assert.Equal(t, "2024", st.Year)
}

func TestExtractForcesSectionSign(t *testing.T) {
	// A stray sign on the token never overrides the section convention.
	st := Extract(pagesOf(
		"DEPOSITS AND ADDITIONS\n01/05 Refund -25.00\nFEES\n01/31 Monthly Service Fee 12.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 2)
	assert.InDelta(t, 25.00, st.Transactions[0].Amount, 1e-9)
	assert.InDelta(t, -12.00, st.Transactions[1].Amount, 1e-9)
	assert.Equal(t, "Fees", st.Transactions[1].Type)
}

func TestExtractHeaderOutranksTransaction(t *testing.T) {
	// A line containing a section keyword switches sections even if its
	// tail would parse as a transaction.
	st := Extract(pagesOf(
		"DEPOSITS AND ADDITIONS\n01/05 Paycheck 1000.00\nWITHDRAWALS 01/07 500.00\n01/08 Groceries 80.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 2)
	assert.InDelta(t, 1000.00, st.Transactions[0].Amount, 1e-9)
	assert.InDelta(t, -80.00, st.Transactions[1].Amount, 1e-9)
}

func TestExtractNoiseOutranksTransaction(t *testing.T) {
	st := Extract(pagesOf(
		"DEPOSITS AND ADDITIONS\n01/05 Paycheck 1000.00\nTotal Deposits and Additions 1,000.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 1)
}

func TestExtractDropsLinesOutsideKnownSection(t *testing.T) {
	st := Extract(pagesOf(
		"01/02 Early line before any header 55.00\nDEPOSITS AND ADDITIONS\n01/05 Paycheck 1000.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "Paycheck", st.Transactions[0].Description)
}

func TestExtractContinuationLines(t *testing.T) {
	st := Extract(pagesOf(
		"WITHDRAWALS\n04/01 Coffee Shop 4.50\nextra note\n04/02 Rent 1200.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 2)
	assert.Equal(t, "Coffee Shop extra note", st.Transactions[0].Description)
	assert.Equal(t, "Rent", st.Transactions[1].Description)
}

func TestContinuationSkipsDuplicateBoilerplate(t *testing.T) {
	st := Extract(pagesOf(
		"WITHDRAWALS\n04/01 Card Purchase 4829 Coffee Shop 4.50\nCoffee Shop\n",
	), testProfile())

	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "Card Purchase 4829 Coffee Shop", st.Transactions[0].Description)
}

func TestContinuationRejectsAmountBearingLine(t *testing.T) {
	st := Extract(pagesOf(
		"WITHDRAWALS\n04/01 Coffee Shop 4.50\nsome malformed row 12.99\n",
	), testProfile())

	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "Coffee Shop", st.Transactions[0].Description)
}

func TestContinuationDoesNotCrossPages(t *testing.T) {
	st := Extract(pagesOf(
		"WITHDRAWALS\n04/01 Coffee Shop 4.50\n",
		"WITHDRAWALS\norphan text from next page\n04/02 Rent 1200.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 2)
	assert.Equal(t, "Coffee Shop", st.Transactions[0].Description)
}

func TestExtractRepairsCorruptedDates(t *testing.T) {
	st := Extract(pagesOf(
		"WITHDRAWALS\n03/02 Groceries 80.00\n/14 Gas Station 30.00\n",
	), testProfile())

	require.Len(t, st.Transactions, 2)
	assert.Equal(t, "03/14", st.Transactions[1].Date)
}

func TestExtractChecksSection(t *testing.T) {
	st := Extract(pagesOf(
		"CHECKS PAID\n101 01/10 250.00 102* 01/12 75.50\n",
	), testProfile())

	require.Len(t, st.Transactions, 2)
	assert.Equal(t, "Check #101", st.Transactions[0].Description)
	assert.InDelta(t, -250.00, st.Transactions[0].Amount, 1e-9)
	assert.Equal(t, "Check #102 (Out of sequence)", st.Transactions[1].Description)
	assert.InDelta(t, -75.50, st.Transactions[1].Amount, 1e-9)
	for _, tr := range st.Transactions {
		assert.Equal(t, "Checks", tr.Type)
	}
}

func TestExtractDailyBalances(t *testing.T) {
	st := Extract(pagesOf(
		"DAILY ENDING BALANCE\n04/28 1,500.00 /29 1,400.00 /02 1,350.00\n",
	), testProfile())

	require.Len(t, st.Balances, 3)
	assert.Equal(t, "04/28", st.Balances[0].Date)
	assert.Equal(t, "04/29", st.Balances[1].Date)
	// Day shrank, so the fragment rolls into the next month.
	assert.Equal(t, "05/02", st.Balances[2].Date)
	assert.InDelta(t, 1350.00, st.Balances[2].Balance, 1e-9)
}

func TestExtractSummaryFirstMatchWins(t *testing.T) {
	st := Extract(pagesOf(
		"ACCOUNT SUMMARY\nBeginning Balance $2,000.00\nDeposits $3,500.00\nBeginning Balance $9,999.99\n",
	), testProfile())

	v, ok := st.SummaryValue("Beginning Balance")
	require.True(t, ok)
	assert.InDelta(t, 2000.00, v, 1e-9)

	v, ok = st.SummaryValue("Deposits")
	require.True(t, ok)
	assert.InDelta(t, 3500.00, v, 1e-9)
}

func TestExtractIsIdempotent(t *testing.T) {
	pages := pagesOf(
		"Statement Period 03/01/2024\nDEPOSITS AND ADDITIONS\n03/05 Paycheck 1000.00\nmemo line\nWITHDRAWALS\n03/07 Rent 500.00\nDAILY ENDING BALANCE\n03/05 1,000.00 /07 500.00\n",
	)
	prof := testProfile()

	first := Extract(pages, prof)
	second := Extract(pages, prof)
	assert.Equal(t, first, second)
}

func TestExtractAppendsYear(t *testing.T) {
	prof := testProfile()
	prof.AppendYear = true

	st := Extract(pagesOf(
		"Statement Period ending 06/30/2024\nDEPOSITS AND ADDITIONS\n06/05 Paycheck 1000.00\n",
	), prof)

	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "06/05/24", st.Transactions[0].Date)
}
