package classifier

import (
	"fmt"
	"strconv"
	"strings"
)

var monthNumbers = map[string]string{
	"Jan": "01", "Feb": "02", "Mar": "03", "Apr": "04",
	"May": "05", "Jun": "06", "Jul": "07", "Aug": "08",
	"Sep": "09", "Oct": "10", "Nov": "11", "Dec": "12",
}

// RepairDate fixes a date token whose month digits were lost in text
// extraction (e.g. "/14"). The missing month is inherited from the most
// recent accepted date in the same stream, or from fallbackMonth when no
// prior date exists. Intact tokens pass through unchanged.
func RepairDate(token, last, fallbackMonth string) string {
	token = strings.TrimSpace(token)
	if !strings.HasPrefix(token, "/") {
		return token
	}
	if m := monthOf(last); m != "" {
		return m + token
	}
	return fallbackMonth + token
}

// RepairBalanceDate repairs a daily-balance date under the expectation
// that balance dates never move backward within a statement.
//
// Two corrections apply, both heuristic and knowingly lossy:
// a month-less fragment whose day is smaller than the previous entry's
// rolls forward into the next month (Dec wraps to Jan), and an intact
// token whose month jumps backward takes the previous entry's month.
// A statement that legitimately restarts early in a month will be
// mis-corrected; the alternative misfiles every corrupted date.
func RepairBalanceDate(token, last, fallbackMonth string) string {
	token = strings.TrimSpace(token)
	if last == "" {
		return RepairDate(token, "", fallbackMonth)
	}
	lastMonth, lastDay, ok := splitMonthDay(last)
	if !ok {
		return RepairDate(token, last, fallbackMonth)
	}

	if strings.HasPrefix(token, "/") {
		day, err := strconv.Atoi(strings.TrimPrefix(token, "/"))
		if err != nil {
			return RepairDate(token, last, fallbackMonth)
		}
		month := lastMonth
		if day < lastDay {
			month++
			if month > 12 {
				month = 1
			}
		}
		return fmt.Sprintf("%02d%s", month, token)
	}

	month, _, ok := splitMonthDay(token)
	if !ok {
		return token
	}
	if month < lastMonth && !(lastMonth == 12 && month == 1) {
		rest := token[strings.Index(token, "/")+1:]
		return fmt.Sprintf("%02d/%s", lastMonth, rest)
	}
	return token
}

func monthOf(date string) string {
	i := strings.Index(date, "/")
	if i <= 0 {
		return ""
	}
	return date[:i]
}

// splitMonthDay parses the leading MM/DD of a date in MM/DD or MM/DD/YY
// form.
func splitMonthDay(date string) (month, day int, ok bool) {
	parts := strings.Split(date, "/")
	if len(parts) < 2 || parts[0] == "" {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return m, d, true
}
