package classifier

import (
	"regexp"
	"strings"
)

// trailingAmount rejects continuation candidates that end in a currency
// token. A line ending in an amount is a transaction the primary pattern
// failed to parse; folding it into the previous description would destroy
// a record.
var trailingAmount = regexp.MustCompile(`[\d,]+\.\d{2}[-+]?$`)

// tryContinuation folds an unmatched line into the open record's
// description. Statements wrap long payee and memo text onto following
// physical lines; this reassembles them into one logical record.
//
// A line is absorbed only when a record is open on the same page and in
// the same section, the line carries no trailing amount, does not start
// with "$", is not a totals line, and is not boilerplate already present
// in the open description.
func (c *walker) tryContinuation(line string, page int) {
	if c.open < 0 {
		return
	}
	if page != c.openPage {
		c.open = -1
		return
	}
	rec := &c.st.Transactions[c.open]
	if rec.Type != string(c.section) {
		c.open = -1
		return
	}

	if strings.HasPrefix(line, "$") {
		return
	}
	if strings.HasPrefix(strings.ToLower(line), "total") {
		return
	}
	if trailingAmount.MatchString(line) {
		return
	}
	extra := collapseSpaces(line)
	// Repeated boilerplate fragments (card numbers, branch footers) show
	// up twice in some text streams; absorbing the duplicate doubles the
	// description.
	if strings.Contains(rec.Description, extra) {
		return
	}
	rec.Description = strings.TrimSpace(rec.Description + " " + extra)
}
