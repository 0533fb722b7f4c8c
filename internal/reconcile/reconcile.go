// Package reconcile cross-checks extracted transactions against the
// statement's own stated summary figures and daily balances. The checks
// are advisory: a failed reconciliation flags the output for review, it
// never blocks it.
package reconcile

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/parseledger/statement-extractor/internal/models"
	"github.com/parseledger/statement-extractor/internal/profile"
)

// Tolerance absorbs float noise accumulated upstream of the decimal sums.
var Tolerance = decimal.NewFromFloat(0.01)

// CategoryResult compares one summary category's stated figure against
// the sum computed from extracted transactions.
type CategoryResult struct {
	Category   string  `json:"category"`
	Extracted  float64 `json:"extracted"`
	Computed   float64 `json:"computed"`
	Difference float64 `json:"difference"`
	Match      bool    `json:"match"`
}

// Metrics aggregates the extracted transactions.
type Metrics struct {
	TotalDeposits    float64 `json:"totalDeposits"`
	TotalWithdrawals float64 `json:"totalWithdrawals"`
	TotalChecks      float64 `json:"totalChecks"`
	TotalFees        float64 `json:"totalFees"`
	NetChange        float64 `json:"netChange"`
	Count            int     `json:"count"`
}

// Report is the full reconciliation verdict for one statement.
type Report struct {
	Categories []CategoryResult `json:"categories"`
	// BalanceMismatches lists daily-balance dates where the running
	// balance computed from transactions drifted past tolerance.
	BalanceMismatches []string `json:"balanceMismatches,omitempty"`
	Passed            bool     `json:"passed"`
	Metrics           Metrics  `json:"metrics"`
}

// Reconcile compares the statement's stated summary and daily balances
// against the extracted transactions, per the profile's summary rules.
func Reconcile(st *models.Statement, prof *profile.Profile) *Report {
	rep := &Report{Passed: true}
	rep.Metrics = computeMetrics(st)

	sums := sectionSums(st)
	total := decimal.Zero
	for _, s := range sums {
		total = total.Add(s)
	}

	beginning := decimal.Zero
	haveBeginning := false
	for _, rule := range prof.Summary {
		if rule.Role == profile.RoleBeginning {
			if v, ok := st.SummaryValue(rule.Category); ok {
				beginning = decimal.NewFromFloat(v)
				haveBeginning = true
			}
			break
		}
	}

	for _, rule := range prof.Summary {
		extracted, stated := st.SummaryValue(rule.Category)
		if !stated && rule.Role != profile.RoleEnding {
			// A category the statement never printed has nothing to
			// compare against.
			continue
		}
		ext := decimal.NewFromFloat(extracted)
		if rule.Negate {
			ext = ext.Neg()
		}

		var computed decimal.Decimal
		switch rule.Role {
		case profile.RoleBeginning:
			computed = ext
		case profile.RoleEnding:
			if !stated || !haveBeginning {
				continue
			}
			computed = beginning.Add(total)
		default:
			for _, sec := range rule.Sections {
				computed = computed.Add(sums[sec])
			}
		}

		diff := ext.Sub(computed)
		match := diff.Abs().LessThanOrEqual(Tolerance)
		if !match {
			rep.Passed = false
		}
		rep.Categories = append(rep.Categories, CategoryResult{
			Category:   rule.Category,
			Extracted:  ext.InexactFloat64(),
			Computed:   computed.InexactFloat64(),
			Difference: diff.InexactFloat64(),
			Match:      match,
		})
	}

	if haveBeginning {
		rep.BalanceMismatches = checkDailyBalances(st, beginning)
		if len(rep.BalanceMismatches) > 0 {
			rep.Passed = false
		}
	}
	return rep
}

// checkDailyBalances replays the transactions in date order against the
// beginning balance and compares the running total with each stated
// daily balance.
func checkDailyBalances(st *models.Statement, beginning decimal.Decimal) []string {
	if len(st.Balances) == 0 {
		return nil
	}
	var mismatches []string
	for _, bal := range st.Balances {
		running := beginning
		for _, tr := range st.Transactions {
			if dateLE(tr.Date, bal.Date) {
				running = running.Add(decimal.NewFromFloat(tr.Amount))
			}
		}
		stated := decimal.NewFromFloat(bal.Balance)
		if running.Sub(stated).Abs().GreaterThan(Tolerance) {
			mismatches = append(mismatches, bal.Date)
		}
	}
	return mismatches
}

func computeMetrics(st *models.Statement) Metrics {
	deposits, withdrawals, checks, fees, net := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, tr := range st.Transactions {
		amt := decimal.NewFromFloat(tr.Amount)
		net = net.Add(amt)
		switch models.Section(tr.Type) {
		case models.SectionDeposits:
			deposits = deposits.Add(amt)
		case models.SectionWithdrawals:
			withdrawals = withdrawals.Add(amt.Abs())
		case models.SectionChecks:
			checks = checks.Add(amt.Abs())
		case models.SectionFees:
			fees = fees.Add(amt.Abs())
		}
	}
	return Metrics{
		TotalDeposits:    deposits.InexactFloat64(),
		TotalWithdrawals: withdrawals.InexactFloat64(),
		TotalChecks:      checks.InexactFloat64(),
		TotalFees:        fees.InexactFloat64(),
		NetChange:        net.InexactFloat64(),
		Count:            len(st.Transactions),
	}
}

func sectionSums(st *models.Statement) map[models.Section]decimal.Decimal {
	sums := make(map[models.Section]decimal.Decimal)
	for _, tr := range st.Transactions {
		sec := models.Section(tr.Type)
		sums[sec] = sums[sec].Add(decimal.NewFromFloat(tr.Amount))
	}
	return sums
}

// dateLE orders MM/DD or MM/DD/YY dates; malformed dates sort first so a
// corrupted record never silently drops out of the running balance.
func dateLE(a, b string) bool {
	ka, kb := dateKey(a), dateKey(b)
	return ka <= kb
}

func dateKey(date string) int {
	parts := strings.Split(date, "/")
	if len(parts) < 2 {
		return 0
	}
	year := 0
	if len(parts) >= 3 {
		year, _ = strconv.Atoi(parts[2])
	}
	month, _ := strconv.Atoi(parts[0])
	day, _ := strconv.Atoi(parts[1])
	return year*10000 + month*100 + day
}
