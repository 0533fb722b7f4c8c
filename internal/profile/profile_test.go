package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parseledger/statement-extractor/internal/models"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  string
	}{
		{"chase", []string{"JPMorgan Chase Bank, N.A.\nStatement Period"}, "chase"},
		{"boa", []string{"Bank of America, N.A.\nYour checking account"}, "boa"},
		{"wells fargo", []string{"Wells Fargo Everyday Checking\nStatement"}, "wellsfargo"},
		{"citizens", []string{"Citizens Bank, N.A.\nOne Citizens Plaza"}, "citizens"},
		{"us bank", []string{"U.S. Bank National Association"}, "usbank"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Detect(tt.pages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name)
		})
	}
}

func TestDetectUnknownBank(t *testing.T) {
	_, err := Detect([]string{"Some Credit Union\nMonthly Statement"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not identify bank")
}

func TestGet(t *testing.T) {
	p, err := Get("Chase")
	require.NoError(t, err)
	assert.Equal(t, "chase", p.Name)

	_, err = Get("monzo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported bank")
}

func TestMatchSectionOrderAndLengthGuard(t *testing.T) {
	p, err := Get("chase")
	require.NoError(t, err)

	sec, ok := p.MatchSection("DEPOSITS AND ADDITIONS")
	require.True(t, ok)
	assert.Equal(t, models.SectionDeposits, sec)

	// Header keywords buried in long prose lines must not switch sections.
	long := "Please note the FEES described in the enclosed disclosure may change at any time without prior notice to you"
	_, ok = p.MatchSection(long)
	assert.False(t, ok)

	// Case sensitive profiles must not match lowercase body text.
	_, ok = p.MatchSection("fees may apply to this account")
	assert.False(t, ok)
}

func TestMatchSectionCaseInsensitive(t *testing.T) {
	p, err := Get("boa")
	require.NoError(t, err)

	sec, ok := p.MatchSection("DEPOSITS AND OTHER CREDITS")
	require.True(t, ok)
	assert.Equal(t, models.SectionDeposits, sec)
}

func TestBuiltinsAreValid(t *testing.T) {
	for _, p := range Builtins() {
		t.Run(p.Name, func(t *testing.T) {
			require.NoError(t, p.validate())
			assert.NotEmpty(t, p.Detect)
			assert.NotEmpty(t, p.Sign)
			for sec, re := range p.Primary {
				names := re.SubexpNames()
				assert.Contains(t, names, "amt", "primary pattern for %s needs an amt group", sec)
				assert.Contains(t, names, "desc", "primary pattern for %s needs a desc group", sec)
			}
			for sec, re := range p.Multi {
				assert.Contains(t, re.SubexpNames(), "amt", "multi pattern for %s needs an amt group", sec)
			}
		})
	}
}

const sampleYAML = `
name: FirstState
display_name: First State Bank
detect: ["first state bank"]
append_year: true
fallback_month: "04"
sections:
  - {match: "Deposits", section: deposits}
  - {match: "Withdrawals", section: withdrawals}
  - {match: "Daily Balance", section: daily_balance}
noise:
  - '(?i)^page \d+'
primary:
  deposits: '^(?P<date>\d{2}/\d{2})\s+(?P<desc>.+?)\s+(?P<amt>[\d,]+\.\d{2})$'
  withdrawals: '^(?P<date>\d{2}/\d{2})\s+(?P<desc>.+?)\s+(?P<amt>[\d,]+\.\d{2})$'
multi:
  daily_balance: '(?P<date>\d{2}/\d{2})\s+(?P<amt>[\d,]+\.\d{2})'
summary:
  - category: Beginning Balance
    role: beginning
    patterns: ['Beginning Balance\s+([\d,]+\.\d{2})']
  - category: Deposits
    sections: [deposits]
    patterns: ['Total Deposits\s+([\d,]+\.\d{2})']
`

func TestLoadYAML(t *testing.T) {
	p, err := LoadYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "firststate", p.Name)
	assert.True(t, p.AppendYear)
	require.Len(t, p.SectionRules, 3)
	assert.Equal(t, models.SectionDailyBalance, p.SectionRules[2].Section)
	assert.NotNil(t, p.Primary[models.SectionDeposits])
	assert.NotNil(t, p.Multi[models.SectionDailyBalance])
	require.Len(t, p.Summary, 2)
	assert.Equal(t, RoleBeginning, p.Summary[0].Role)
	assert.Equal(t, RoleFlow, p.Summary[1].Role)
	// Default outflow signs apply when the file does not override them.
	assert.Equal(t, -1, p.Sign[models.SectionWithdrawals])
}

func TestLoadYAMLRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"bad regex":       "name: x\nsections: [{match: A, section: deposits}]\nnoise: ['[unclosed']",
		"unknown section": "name: x\nsections: [{match: A, section: bogus}]",
		"no capture group": `
name: x
sections: [{match: A, section: deposits}]
summary:
  - category: C
    patterns: ['Total Deposits']
`,
		"no sections": "name: x",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}
