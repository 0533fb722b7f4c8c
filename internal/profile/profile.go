// Package profile describes per-bank statement layouts as data: ordered
// section keywords, noise patterns, field-extraction patterns, summary
// categories, and sign rules. The classifier is generic; everything that
// differs between issuing banks lives here.
package profile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/parseledger/statement-extractor/internal/models"
)

// SectionRule maps a header substring to a section label. Rules are
// checked in order; the first match wins.
type SectionRule struct {
	Match   string
	Section models.Section
}

// SummaryRole distinguishes how a summary category is reconciled.
type SummaryRole int

const (
	// RoleFlow categories compare a stated figure against the signed sum
	// of transactions of the matching section(s).
	RoleFlow SummaryRole = iota
	// RoleBeginning is the opening balance; taken as given.
	RoleBeginning
	// RoleEnding is compared against beginning + all signed transactions.
	RoleEnding
)

// SummaryRule extracts one account-summary category. Patterns are tried
// in order and the first capture group must be the amount; across lines,
// the first value captured for a category wins.
type SummaryRule struct {
	Category string
	Role     SummaryRole
	Sections []models.Section
	// Negate marks categories the statement prints as a positive outflow
	// magnitude while the classified transactions carry negative amounts.
	Negate   bool
	Patterns []*regexp.Regexp
}

// SpatialZones calibrates the word-position fallback strategy: x-ranges
// that classify an amount as deposit, withdrawal, or running balance.
type SpatialZones struct {
	DepositMin     float64 `yaml:"deposit_min"`
	DepositMax     float64 `yaml:"deposit_max"`
	WithdrawalMax  float64 `yaml:"withdrawal_max"`
	BalanceMin     float64 `yaml:"balance_min"`
	DescriptionMax float64 `yaml:"description_max"`
}

// Profile is the pluggable per-bank unit: everything the classifier
// needs to extract one bank's statement layout.
type Profile struct {
	Name        string
	DisplayName string

	// Detect holds lowercase fingerprints used by bank auto-detection.
	Detect []string

	SectionRules []SectionRule
	// CaseSensitiveSections keeps header matching exact for banks whose
	// headers are ALL CAPS and whose body text reuses the same words.
	CaseSensitiveSections bool
	// MaxHeaderLen rejects long prose lines that merely contain a section
	// keyword. Zero means the default of 80.
	MaxHeaderLen int

	Noise []*regexp.Regexp

	// Primary holds the single-transaction pattern per section. Named
	// groups: date (MM/DD or MM/DD/YY), date2 (optional posted date,
	// preferred), mon+day (month-name layouts), desc, amt.
	Primary map[models.Section]*regexp.Regexp
	// Multi holds find-all patterns for sections that pack several
	// logical records onto one physical line (checks, daily balances).
	// Extra named groups: check (check number, trailing * = out of
	// sequence), ref (reference number, appended to the description).
	Multi map[models.Section]*regexp.Regexp

	Summary []SummaryRule
	// SummaryFirstPage scans the summary patterns over page-1 text even
	// without an Account Summary section header.
	SummaryFirstPage bool

	// Sign forces the amount sign per section: +1 positive, -1 negative,
	// 0 keeps whatever the token carried.
	Sign map[models.Section]int

	// FallbackMonth repairs a corrupted date when no prior date exists.
	FallbackMonth string
	// AppendYear suffixes the sniffed statement year to MM/DD dates.
	AppendYear bool

	Spatial *SpatialZones
}

func (p *Profile) headerLimit() int {
	if p.MaxHeaderLen > 0 {
		return p.MaxHeaderLen
	}
	return 80
}

// MatchSection returns the section for a header line, if the line is one.
// Header detection has priority over every other line interpretation.
func (p *Profile) MatchSection(line string) (models.Section, bool) {
	if len(line) > p.headerLimit() {
		return "", false
	}
	probe := line
	if !p.CaseSensitiveSections {
		probe = strings.ToLower(line)
	}
	for _, rule := range p.SectionRules {
		match := rule.Match
		if !p.CaseSensitiveSections {
			match = strings.ToLower(match)
		}
		if strings.Contains(probe, match) {
			return rule.Section, true
		}
	}
	return "", false
}

// IsNoise reports whether the line matches any configured noise marker.
func (p *Profile) IsNoise(line string) bool {
	for _, re := range p.Noise {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func (p *Profile) validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	if len(p.SectionRules) == 0 {
		return fmt.Errorf("profile %q has no section rules", p.Name)
	}
	if p.FallbackMonth == "" {
		p.FallbackMonth = "04"
	}
	return nil
}

// Get returns the built-in profile with the given name.
func Get(name string) (*Profile, error) {
	for _, p := range Builtins() {
		if p.Name == strings.ToLower(strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unsupported bank %q (supported: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the built-in profile names.
func Names() []string {
	var names []string
	for _, p := range Builtins() {
		names = append(names, p.Name)
	}
	return names
}

// Detect sniffs the bank identity from page text and returns the matching
// profile. Fingerprints are checked per profile in registry order.
func Detect(pages []string) (*Profile, error) {
	combined := strings.ToLower(strings.Join(pages, "\n"))
	for _, p := range Builtins() {
		for _, needle := range p.Detect {
			if strings.Contains(combined, needle) {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("could not identify bank from statement content (supported: %s)", strings.Join(Names(), ", "))
}
