package profile

import (
	"regexp"

	"github.com/parseledger/statement-extractor/internal/models"
)

// monthPat matches abbreviated month names used by month-name layouts.
const monthPat = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

var outflowSigns = map[models.Section]int{
	models.SectionDeposits:    +1,
	models.SectionWithdrawals: -1,
	models.SectionChecks:      -1,
	models.SectionFees:        -1,
}

var builtins = []*Profile{chaseProfile(), boaProfile(), wellsFargoProfile(), citizensProfile(), usBankProfile()}

// Builtins returns the registry of built-in bank profiles, in detection
// order.
func Builtins() []*Profile {
	return builtins
}

func chaseProfile() *Profile {
	return &Profile{
		Name:        "chase",
		DisplayName: "Chase",
		Detect:      []string{"jpmorgan chase", "chase.com", "chase bank"},
		// Headers are ALL CAPS; body text reuses the same words in prose,
		// so matching stays case sensitive here.
		CaseSensitiveSections: true,
		SectionRules: []SectionRule{
			{"CHECKING SUMMARY", models.SectionAccountSummary},
			{"SAVINGS SUMMARY", models.SectionAccountSummary},
			{"DEPOSITS AND ADDITIONS", models.SectionDeposits},
			{"CHECKS PAID", models.SectionChecks},
			{"ATM & DEBIT CARD WITHDRAWALS", models.SectionWithdrawals},
			{"ELECTRONIC WITHDRAWALS", models.SectionWithdrawals},
			{"OTHER WITHDRAWALS", models.SectionWithdrawals},
			{"FEES", models.SectionFees},
			{"DAILY ENDING BALANCE", models.SectionDailyBalance},
		},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^page\s+\d+\s*(of\s+\d+)?`),
			regexp.MustCompile(`(?i)account\s+number`),
			regexp.MustCompile(`(?i)^total\b`),
			regexp.MustCompile(`(?i)continued on next page`),
			regexp.MustCompile(`(?i)jpmorgan chase bank`),
			regexp.MustCompile(`(?i)member fdic`),
			regexp.MustCompile(`^DATE\s+DESCRIPTION\s+AMOUNT`),
		},
		Primary: map[models.Section]*regexp.Regexp{
			models.SectionDeposits:    chasePrimary,
			models.SectionWithdrawals: chasePrimary,
			models.SectionFees:        chasePrimary,
		},
		Multi: map[models.Section]*regexp.Regexp{
			models.SectionChecks:       regexp.MustCompile(`(?P<check>\d+)\s*(?P<ref>\^?)\s+(?P<date>\d{0,2}/\d{2})\s+\$?(?P<amt>-?[\d,]+\.\d{2})`),
			models.SectionDailyBalance: regexp.MustCompile(`(?P<date>\d{0,2}/\d{2})\s+\$?(?P<amt>-?[\d,]+\.\d{2})`),
		},
		Summary: []SummaryRule{
			{Category: "Beginning Balance", Role: RoleBeginning, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Beginning Balance\s+\$?(-?[\d,]+\.\d{2})`),
			}},
			{Category: "Deposits and Additions", Role: RoleFlow, Sections: []models.Section{models.SectionDeposits}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Deposits and Additions\s+\$?(-?[\d,]+\.\d{2})`),
			}},
			{Category: "Checks Paid", Role: RoleFlow, Sections: []models.Section{models.SectionChecks}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Checks Paid\s+-?\s*\$?(-?[\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Withdrawals", Role: RoleFlow, Sections: []models.Section{models.SectionWithdrawals}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`ATM & Debit Card Withdrawals\s+-?\s*\$?(-?[\d,]+\.\d{2})`),
				regexp.MustCompile(`Electronic Withdrawals\s+-?\s*\$?(-?[\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Fees", Role: RoleFlow, Sections: []models.Section{models.SectionFees}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Fees\s+-?\s*\$?(-?[\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Ending Balance", Role: RoleEnding, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Ending Balance\s+\$?(-?[\d,]+\.\d{2})`),
			}},
		},
		Sign:          outflowSigns,
		FallbackMonth: "04",
	}
}

// chasePrimary tolerates a zero-length month in the date so that lines with
// a corrupted leading date (e.g. "/14 Card Purchase ...") still extract and
// get repaired downstream.
var chasePrimary = regexp.MustCompile(`(?P<date>\d{0,2}/\d{2})\s+(?P<desc>.*?)\s+\$?(?P<amt>-?[\d,]+\.\d{2})\s*$`)

func boaProfile() *Profile {
	primary := regexp.MustCompile(`^(?P<date>\d{2}/\d{2}/\d{2})\s+(?P<desc>.*?)\s+(?P<amt>-?[\d,]+\.\d{2})$`)
	return &Profile{
		Name:        "boa",
		DisplayName: "Bank of America",
		Detect:      []string{"bank of america", "bankofamerica.com"},
		SectionRules: []SectionRule{
			{"Deposits and other credits", models.SectionDeposits},
			{"Withdrawals and other debits", models.SectionWithdrawals},
			{"Service fees", models.SectionFees},
			{"Daily ledger balances", models.SectionDailyBalance},
			{"Checks", models.SectionChecks},
		},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^page\s+\d+`),
			regexp.MustCompile(`(?i)^total\b`),
			regexp.MustCompile(`(?i)continued on the next page`),
			regexp.MustCompile(`(?i)^date\s+description\s+amount`),
			regexp.MustCompile(`(?i)^account\s*#`),
			regexp.MustCompile(`(?i)pull:\s*e\s*cycle`),
		},
		Primary: map[models.Section]*regexp.Regexp{
			models.SectionDeposits:    primary,
			models.SectionWithdrawals: primary,
			models.SectionFees:        primary,
		},
		Multi: map[models.Section]*regexp.Regexp{
			models.SectionChecks:       regexp.MustCompile(`(?P<date>\d{2}/\d{2}/\d{2})\s+(?:(?P<check>\d+\*?)\s+)?(?P<amt>-?[\d,]+\.\d{2})`),
			models.SectionDailyBalance: regexp.MustCompile(`(?P<date>\d{2}/\d{2}/\d{2})\s+(?P<amt>-?[\d,]+\.\d{2})`),
		},
		Summary: []SummaryRule{
			{Category: "Beginning Balance", Role: RoleBeginning, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Beginning balance on .*?\$(-?[\d,]+\.\d{2})`),
				regexp.MustCompile(`(?i)Beginning balance\s+\$?(-?[\d,]+\.\d{2})`),
			}},
			{Category: "Deposits and other credits", Role: RoleFlow, Sections: []models.Section{models.SectionDeposits}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Deposits and other credits\s+\$?(-?[\d,]+\.\d{2})`),
			}},
			{Category: "Withdrawals and other debits", Role: RoleFlow, Sections: []models.Section{models.SectionWithdrawals}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Withdrawals and other debits\s+-?\$?([\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Checks", Role: RoleFlow, Sections: []models.Section{models.SectionChecks}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)^Checks\s+-?\$?([\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Service fees", Role: RoleFlow, Sections: []models.Section{models.SectionFees}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Service fees\s+-?\$?([\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Ending Balance", Role: RoleEnding, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Ending balance on .*?\$(-?[\d,]+\.\d{2})`),
				regexp.MustCompile(`(?i)Ending balance\s+\$?(-?[\d,]+\.\d{2})`),
			}},
		},
		SummaryFirstPage: true,
		Sign:             outflowSigns,
		FallbackMonth:    "04",
	}
}

func wellsFargoProfile() *Profile {
	// Amount precedes description on Wells Fargo layouts. date2 is the
	// posted date when the line carries both transaction and posted dates.
	primary := regexp.MustCompile(`^(?P<date>\d{1,2}/\d{1,2})\s+(?:(?P<date2>\d{1,2}/\d{1,2})\s+)?(?P<amt>[\d,]+\.\d{2})\s+(?P<desc>.*)$`)
	return &Profile{
		Name:        "wellsfargo",
		DisplayName: "Wells Fargo",
		Detect:      []string{"wells fargo", "wellsfargo.com"},
		SectionRules: []SectionRule{
			{"Daily ledger balance", models.SectionDailyBalance},
			{"Daily ending balance", models.SectionDailyBalance},
			{"Checks paid", models.SectionChecks},
			{"Average daily", models.SectionIgnore},
			{"Interest summary", models.SectionIgnore},
			{"Deposits", models.SectionDeposits},
			{"Credits", models.SectionDeposits},
			{"Withdrawals", models.SectionWithdrawals},
			{"Debits", models.SectionWithdrawals},
		},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^page\s+\d+`),
			regexp.MustCompile(`(?i)account\s+number`),
			regexp.MustCompile(`(?i)^totals?\b`),
			regexp.MustCompile(`(?i)wells fargo bank`),
			regexp.MustCompile(`(?i)^date\s+.*amount`),
			regexp.MustCompile(`(?i)continued on next page`),
		},
		Primary: map[models.Section]*regexp.Regexp{
			models.SectionDeposits:    primary,
			models.SectionWithdrawals: primary,
			models.SectionFees:        primary,
		},
		Multi: map[models.Section]*regexp.Regexp{
			models.SectionChecks:       regexp.MustCompile(`(?P<check>\d+\*?)\s+(?P<amt>[\d,]+\.\d{2})\s+(?P<date>\d{1,2}/\d{1,2})`),
			models.SectionDailyBalance: regexp.MustCompile(`(?P<date>\d{1,2}/\d{1,2})\s+(?P<amt>-?[\d,]+\.\d{2}-?)`),
		},
		Summary: []SummaryRule{
			{Category: "Beginning balance", Role: RoleBeginning, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Beginning balance\s+\$?(-?[\d,]+\.\d{2})`),
			}},
			{Category: "Deposits/Credits", Role: RoleFlow, Sections: []models.Section{models.SectionDeposits}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Deposits/Credits\s+\$?([\d,]+\.\d{2})`),
			}},
			{Category: "Withdrawals/Debits", Role: RoleFlow, Sections: []models.Section{models.SectionWithdrawals, models.SectionChecks}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Withdrawals/Debits\s+-?\s*\$?([\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Ending balance", Role: RoleEnding, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`(?i)Ending balance\s+\$?(-?[\d,]+\.\d{2})`),
			}},
		},
		SummaryFirstPage: true,
		Sign:             outflowSigns,
		FallbackMonth:    "04",
		Spatial: &SpatialZones{
			DepositMin:     390,
			DepositMax:     455,
			WithdrawalMax:  515,
			BalanceMin:     515,
			DescriptionMax: 390,
		},
	}
}

func citizensProfile() *Profile {
	// Citizens text streams arrive with spaces squeezed out of headings
	// ("Deposits&Credits", "DailyBalance"), so the keywords match the
	// squished forms.
	return &Profile{
		Name:        "citizens",
		DisplayName: "Citizens Bank",
		Detect:      []string{"citizens bank", "citizensbank.com", "citizens financial"},
		SectionRules: []SectionRule{
			{"Checks(Note", models.SectionChecks},
			{"DailyBalance", models.SectionDailyBalance},
			{"Daily Balance", models.SectionDailyBalance},
			{"Deposits&Credit", models.SectionDeposits},
			{"Deposits & Credit", models.SectionDeposits},
			{"OtherDebits", models.SectionWithdrawals},
			{"ATM/Purchases", models.SectionWithdrawals},
			{"Debits", models.SectionWithdrawals},
			{"Checks", models.SectionChecks},
		},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^page\s*\d+\s*of\s*\d+`),
			regexp.MustCompile(`(?i)^total\b`),
			regexp.MustCompile(`(?i)member fdic`),
			regexp.MustCompile(`(?i)customer service`),
			regexp.MustCompile(`^Date\s*Amount`),
			regexp.MustCompile(`(?i)balance calculation`),
		},
		Primary: map[models.Section]*regexp.Regexp{
			models.SectionDeposits:    citizensPrimary,
			models.SectionWithdrawals: citizensPrimary,
			models.SectionFees:        citizensPrimary,
		},
		Multi: map[models.Section]*regexp.Regexp{
			models.SectionChecks:       regexp.MustCompile(`(?P<check>\d+\*?)\s+(?P<amt>[\d,]*\.\d{2})\s+(?P<date>\d{2}/\d{2})(?:\s|$)`),
			models.SectionDailyBalance: regexp.MustCompile(`(?P<date>\d{2}/\d{2})\s+(?P<amt>-?[\d,]*\.\d{2})`),
		},
		Summary: []SummaryRule{
			{Category: "Previous Balance", Role: RoleBeginning, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Previous\s*Balance\s+(-?[\d,]*\.\d{2})`),
			}},
			{Category: "Checks", Role: RoleFlow, Sections: []models.Section{models.SectionChecks}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Checks\s*-\s*([\d,]*\.\d{2})`),
			}, Negate: true},
			{Category: "Debits", Role: RoleFlow, Sections: []models.Section{models.SectionWithdrawals}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Debits\s*-\s*([\d,]*\.\d{2})`),
			}, Negate: true},
			{Category: "Deposits & Credits", Role: RoleFlow, Sections: []models.Section{models.SectionDeposits}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Deposits\s*&\s*Credits\s*\+?\s*([\d,]*\.\d{2})`),
			}},
			{Category: "Current Balance", Role: RoleEnding, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Current\s*Balance\s*=?\s*(-?[\d,]*\.\d{2})`),
			}},
		},
		SummaryFirstPage: true,
		Sign:             outflowSigns,
		FallbackMonth:    "04",
		AppendYear:       true,
	}
}

func usBankProfile() *Profile {
	primary := regexp.MustCompile(`^(?P<mon>` + monthPat + `)\s+(?P<day>\d{1,2})\s+(?P<desc>.+?)\s+\$?\s*(?P<amt>[\d,]+\.\d{2}-?)$`)
	return &Profile{
		Name:        "usbank",
		DisplayName: "U.S. Bank",
		Detect:      []string{"u.s. bank", "us bank", "usbank.com"},
		SectionRules: []SectionRule{
			{"Customer Deposits", models.SectionDeposits},
			{"Other Deposits", models.SectionDeposits},
			{"Card Deposits", models.SectionDeposits},
			{"Card Withdrawals", models.SectionWithdrawals},
			{"Other Withdrawals", models.SectionWithdrawals},
			{"Checks Presented", models.SectionChecks},
			{"Checks Paid", models.SectionChecks},
			{"Balance Summary", models.SectionDailyBalance},
			{"Account Summary", models.SectionAccountSummary},
			{"Analysis Service Charge", models.SectionFees},
		},
		Noise: []*regexp.Regexp{
			regexp.MustCompile(`(?i)^page\s+\d+\s+of\s+\d+`),
			regexp.MustCompile(`(?i)^sub\s?total\b`),
			regexp.MustCompile(`(?i)^total\b`),
			regexp.MustCompile(`(?i)^date\s+description`),
			regexp.MustCompile(`(?i)^number\s+date\s+ref`),
			regexp.MustCompile(`(?i)continued on next page`),
			regexp.MustCompile(`(?i)member fdic`),
			regexp.MustCompile(`(?i)\* gap in check sequence`),
			regexp.MustCompile(`(?i)balances only appear`),
		},
		Primary: map[models.Section]*regexp.Regexp{
			models.SectionDeposits:    primary,
			models.SectionWithdrawals: primary,
			models.SectionFees:        primary,
		},
		Multi: map[models.Section]*regexp.Regexp{
			models.SectionChecks:       regexp.MustCompile(`(?P<check>\d+\*?)\s+(?P<mon>` + monthPat + `)\s+(?P<day>\d{1,2})\s+(?P<ref>\d{8,})\s+\$?\s*(?P<amt>[\d,]+\.\d{2})`),
			models.SectionDailyBalance: regexp.MustCompile(`(?P<mon>` + monthPat + `)\s+(?P<day>\d{1,2})\s+\$?\s*(?P<amt>-?[\d,]+\.\d{2}-?)`),
		},
		Summary: []SummaryRule{
			{Category: "Beginning Balance", Role: RoleBeginning, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Beginning Balance on .*?\$?\s*(-?[\d,]+\.\d{2})`),
				regexp.MustCompile(`Beginning Balance\s+\$?\s*(-?[\d,]+\.\d{2})`),
			}},
			{Category: "Deposits / Credits", Role: RoleFlow, Sections: []models.Section{models.SectionDeposits}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Deposits\s*/\s*Credits\s+\$?\s*([\d,]+\.\d{2})`),
				regexp.MustCompile(`Other Deposits\s+\$?\s*([\d,]+\.\d{2})`),
			}},
			{Category: "Withdrawals / Debits", Role: RoleFlow, Sections: []models.Section{models.SectionWithdrawals}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Withdrawals\s*/\s*Debits\s+-?\s*\$?\s*([\d,]+\.\d{2})`),
				regexp.MustCompile(`Other Withdrawals\s+-?\s*\$?\s*([\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Checks Paid", Role: RoleFlow, Sections: []models.Section{models.SectionChecks}, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Checks Paid\s+-?\s*\$?\s*([\d,]+\.\d{2})`),
			}, Negate: true},
			{Category: "Ending Balance", Role: RoleEnding, Patterns: []*regexp.Regexp{
				regexp.MustCompile(`Ending Balance on .*?\$?\s*(-?[\d,]+\.\d{2})`),
				regexp.MustCompile(`Ending Balance\s+\$?\s*(-?[\d,]+\.\d{2})`),
			}},
		},
		Sign:          outflowSigns,
		FallbackMonth: "04",
		AppendYear:    true,
	}
}

var citizensPrimary = regexp.MustCompile(`^(?P<date>\d{2}/\d{2})\s+(?P<amt>[\d,]*\.\d{2})\s+(?P<desc>.*)$`)
