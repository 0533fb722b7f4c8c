// Package classifier turns extracted page text into structured statement
// records. A single generic pass walks each page line by line, tracking
// the active section, and applies the bank profile's patterns: section
// headers first, then noise, then section-specific extraction, then
// multi-line continuation. Lines matching nothing are dropped silently.
package classifier

import (
	"regexp"
	"strings"

	"github.com/parseledger/statement-extractor/internal/extractor"
	"github.com/parseledger/statement-extractor/internal/models"
	"github.com/parseledger/statement-extractor/internal/profile"
)

// Extract classifies every line of the document against the bank profile
// and returns the structured statement. Pages must be in order; section
// state and last-seen dates carry across page boundaries, while open
// records for continuation do not.
func Extract(pages []extractor.Page, prof *profile.Profile) *models.Statement {
	st := &models.Statement{
		Bank:         prof.Name,
		Transactions: []models.TransactionRecord{},
		Balances:     []models.BalanceRecord{},
		Summary:      []models.SummaryEntry{},
	}
	c := &walker{prof: prof, st: st, section: models.SectionUnknown, open: -1}

	for i, page := range pages {
		pageNum := i + 1
		if pageNum == 1 {
			st.Year = sniffYear(page.Text)
			if prof.SummaryFirstPage {
				for _, line := range page.Lines() {
					c.matchSummary(line)
				}
			}
		}
		// A record never absorbs continuation lines from a later page.
		c.open = -1
		for _, line := range page.Lines() {
			c.processLine(line, pageNum)
		}
	}

	if len(st.Transactions) == 0 && prof.Spatial != nil {
		spatialFallback(pages, prof, st)
	}
	return st
}

// walker carries the classifier state across lines and pages.
type walker struct {
	prof    *profile.Profile
	st      *models.Statement
	section models.Section
	// open indexes the transaction eligible for continuation; -1 is none.
	open     int
	openPage int

	lastTxnDate string
	lastBalDate string
	seq         int
}

func (c *walker) processLine(line string, page int) {
	// Header detection outranks every other interpretation of a line.
	if sec, ok := c.prof.MatchSection(line); ok {
		c.section = sec
		c.open = -1
		return
	}
	if c.prof.IsNoise(line) {
		c.open = -1
		return
	}

	switch c.section {
	case models.SectionAccountSummary:
		c.matchSummary(line)
	case models.SectionDailyBalance:
		c.matchBalances(line, page)
	case models.SectionChecks:
		c.matchChecks(line, page)
	case models.SectionDeposits, models.SectionWithdrawals, models.SectionFees:
		if !c.matchPrimary(line, page) {
			c.tryContinuation(line, page)
		}
	default:
		// Unknown or Ignore: drop.
	}
}

// matchPrimary extracts a single transaction from a line in a deposit,
// withdrawal, or fee section. Returns false when the line is not a
// transaction, leaving it for the reassembler.
func (c *walker) matchPrimary(line string, page int) bool {
	re := c.prof.Primary[c.section]
	if re == nil {
		return false
	}
	m := re.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	g := namedGroups(re, m)

	date := c.transactionDate(g)
	amt, ok := normalizeAmount(g["amt"])
	if !ok {
		c.st.UnparsedAmounts++
	}
	amt = applySign(amt, c.prof.Sign[c.section])

	c.seq++
	c.st.Transactions = append(c.st.Transactions, models.TransactionRecord{
		Date:        c.withYear(date),
		Description: collapseSpaces(g["desc"]),
		Amount:      amt,
		Type:        string(c.section),
		SourcePage:  page,
		Sequence:    c.seq,
	})
	c.lastTxnDate = date
	c.open = len(c.st.Transactions) - 1
	c.openPage = page
	return true
}

// matchChecks extracts every check on the line; check sections pack
// several records per physical row. Check records are complete on
// creation and never extended by continuation.
func (c *walker) matchChecks(line string, page int) {
	re := c.prof.Multi[models.SectionChecks]
	if re == nil {
		return
	}
	for _, m := range re.FindAllStringSubmatch(line, -1) {
		g := namedGroups(re, m)

		desc := "Check #" + strings.TrimSuffix(g["check"], "*")
		if strings.HasSuffix(g["check"], "*") {
			desc += " (Out of sequence)"
		}
		if ref := strings.Trim(g["ref"], "^"); ref != "" {
			desc += " Ref " + ref
		}

		date := c.transactionDate(g)
		amt, ok := normalizeAmount(g["amt"])
		if !ok {
			c.st.UnparsedAmounts++
		}
		amt = applySign(amt, c.prof.Sign[models.SectionChecks])

		c.seq++
		c.st.Transactions = append(c.st.Transactions, models.TransactionRecord{
			Date:        c.withYear(date),
			Description: desc,
			Amount:      amt,
			Type:        string(models.SectionChecks),
			SourcePage:  page,
			Sequence:    c.seq,
		})
		c.lastTxnDate = date
	}
	c.open = -1
}

// matchBalances extracts every date/balance pair on the line. Balance
// dates get the stronger monotonic repair since daily balances are listed
// strictly in order.
func (c *walker) matchBalances(line string, page int) {
	re := c.prof.Multi[models.SectionDailyBalance]
	if re == nil {
		return
	}
	for _, m := range re.FindAllStringSubmatch(line, -1) {
		g := namedGroups(re, m)

		date := rawDate(g)
		if !isMonthNamed(g) {
			date = RepairBalanceDate(date, c.lastBalDate, c.prof.FallbackMonth)
		}
		bal, ok := normalizeAmount(g["amt"])
		if !ok {
			continue
		}
		c.st.Balances = append(c.st.Balances, models.BalanceRecord{
			Date:    c.withYear(date),
			Balance: bal,
			Page:    page,
		})
		c.lastBalDate = date
	}
	c.open = -1
}

// matchSummary records account-summary figures. Rules run in profile
// order; the first value captured for a category wins and later matches
// are ignored.
func (c *walker) matchSummary(line string) {
	for _, rule := range c.prof.Summary {
		if _, done := c.st.SummaryValue(rule.Category); done {
			continue
		}
		for _, re := range rule.Patterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if v, ok := normalizeAmount(m[1]); ok {
				c.st.Summary = append(c.st.Summary, models.SummaryEntry{
					Category: rule.Category,
					Amount:   v,
				})
			}
			break
		}
	}
}

// transactionDate assembles and repairs the date from match groups.
// Month-name layouts carry mon+day; numeric layouts carry date with an
// optional date2 (posted date) that takes precedence.
func (c *walker) transactionDate(g map[string]string) string {
	if isMonthNamed(g) {
		day := g["day"]
		if len(day) == 1 {
			day = "0" + day
		}
		return monthNumbers[g["mon"]] + "/" + day
	}
	return RepairDate(rawDate(g), c.lastTxnDate, c.prof.FallbackMonth)
}

func rawDate(g map[string]string) string {
	if isMonthNamed(g) {
		day := g["day"]
		if len(day) == 1 {
			day = "0" + day
		}
		return monthNumbers[g["mon"]] + "/" + day
	}
	if d2 := g["date2"]; d2 != "" {
		return d2
	}
	return g["date"]
}

func isMonthNamed(g map[string]string) bool {
	return g["mon"] != ""
}

// withYear appends the sniffed statement year to MM/DD dates for
// profiles that want fully qualified dates. Dates already carrying a
// year pass through.
func (c *walker) withYear(date string) string {
	if !c.prof.AppendYear || date == "" {
		return date
	}
	if strings.Count(date, "/") >= 2 {
		return date
	}
	year := c.st.Year
	if year == "" {
		year = "2025"
	}
	return date + "/" + year[len(year)-2:]
}

var yearPattern = regexp.MustCompile(`\b(20\d{2})\b`)

// sniffYear pulls the statement year from first-page text, typically the
// statement period line.
func sniffYear(text string) string {
	if m := yearPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

func namedGroups(re *regexp.Regexp, m []string) map[string]string {
	g := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" || i >= len(m) {
			continue
		}
		if m[i] != "" {
			g[name] = m[i]
		}
	}
	return g
}

var spaceRun = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
