package classifier

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/parseledger/statement-extractor/internal/extractor"
	"github.com/parseledger/statement-extractor/internal/models"
	"github.com/parseledger/statement-extractor/internal/profile"
)

var (
	rowDate   = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)
	rowAmount = regexp.MustCompile(`^-?[\d,]+\.\d{2}-?$`)
)

// spatialFallback reconstructs transactions from word positions when the
// text-stream pass produced nothing. Some statements render tables whose
// text stream interleaves columns beyond repair; the geometry still holds.
// Words are grouped into visual rows by rounded vertical position, ordered
// left to right, and each amount is classified by which calibrated column
// zone its x position falls in.
func spatialFallback(pages []extractor.Page, prof *profile.Profile, st *models.Statement) {
	zones := prof.Spatial
	seq := 0
	for i, page := range pages {
		pageNum := i + 1
		for _, row := range groupRows(page.Words) {
			if len(row) == 0 {
				continue
			}
			if !rowDate.MatchString(row[0].Text) {
				// A dateless row starting in the description column
				// continues the previous record.
				if len(st.Transactions) > 0 && row[0].X0 < zones.DescriptionMax && !isColumnHeader(row) {
					last := &st.Transactions[len(st.Transactions)-1]
					if last.SourcePage == pageNum {
						last.Description = strings.TrimSpace(last.Description + " " + rowText(row))
					}
				}
				continue
			}

			date := row[0].Text
			var desc []string
			for _, w := range row[1:] {
				if rowAmount.MatchString(w.Text) {
					continue
				}
				if w.X0 < zones.DescriptionMax {
					desc = append(desc, w.Text)
				}
			}

			for _, w := range row[1:] {
				if !rowAmount.MatchString(w.Text) {
					continue
				}
				amt, ok := normalizeAmount(w.Text)
				if !ok {
					continue
				}
				switch {
				case w.X0 >= zones.DepositMin && w.X0 < zones.DepositMax:
					seq++
					st.Transactions = append(st.Transactions, models.TransactionRecord{
						Date:        date,
						Description: strings.Join(desc, " "),
						Amount:      math.Abs(amt),
						Type:        string(models.SectionDeposits),
						SourcePage:  pageNum,
						Sequence:    seq,
					})
				case w.X0 >= zones.DepositMax && w.X0 < zones.WithdrawalMax:
					seq++
					st.Transactions = append(st.Transactions, models.TransactionRecord{
						Date:        date,
						Description: strings.Join(desc, " "),
						Amount:      -math.Abs(amt),
						Type:        string(models.SectionWithdrawals),
						SourcePage:  pageNum,
						Sequence:    seq,
					})
				case w.X0 >= zones.BalanceMin:
					st.Balances = append(st.Balances, models.BalanceRecord{
						Date:    date,
						Balance: amt,
						Page:    pageNum,
					})
				}
			}
		}
	}
}

// groupRows buckets words into visual rows by rounded vertical position
// and orders each row left to right.
func groupRows(words []extractor.Word) [][]extractor.Word {
	rows := make(map[int][]extractor.Word)
	for _, w := range words {
		key := int(math.Round(w.Top))
		rows[key] = append(rows[key], w)
	}
	keys := make([]int, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([][]extractor.Word, 0, len(keys))
	for _, k := range keys {
		row := rows[k]
		sort.Slice(row, func(i, j int) bool { return row[i].X0 < row[j].X0 })
		out = append(out, row)
	}
	return out
}

func rowText(row []extractor.Word) string {
	parts := make([]string, 0, len(row))
	for _, w := range row {
		parts = append(parts, w.Text)
	}
	return strings.Join(parts, " ")
}

var headerWords = map[string]bool{
	"date": true, "description": true, "deposits": true, "credits": true,
	"withdrawals": true, "debits": true, "balance": true, "ending": true,
	"daily": true, "number": true, "additions": true, "subtractions": true,
}

func isColumnHeader(row []extractor.Word) bool {
	for _, w := range row {
		if !headerWords[strings.ToLower(strings.Trim(w.Text, "/"))] {
			return false
		}
	}
	return true
}
