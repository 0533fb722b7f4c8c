package profile

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parseledger/statement-extractor/internal/models"
)

// yamlProfile is the on-disk schema. Patterns are plain regex strings and
// section labels are the Section enum names.
type yamlProfile struct {
	Name                  string `yaml:"name"`
	DisplayName           string `yaml:"display_name"`
	Detect                []string `yaml:"detect"`
	CaseSensitiveSections bool     `yaml:"case_sensitive_sections"`
	MaxHeaderLen          int      `yaml:"max_header_len"`
	FallbackMonth         string   `yaml:"fallback_month"`
	AppendYear            bool     `yaml:"append_year"`
	SummaryFirstPage      bool     `yaml:"summary_first_page"`

	Sections []struct {
		Match   string `yaml:"match"`
		Section string `yaml:"section"`
	} `yaml:"sections"`

	Noise   []string          `yaml:"noise"`
	Primary map[string]string `yaml:"primary"`
	Multi   map[string]string `yaml:"multi"`

	Summary []struct {
		Category string   `yaml:"category"`
		Role     string   `yaml:"role"`
		Sections []string `yaml:"sections"`
		Negate   bool     `yaml:"negate"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"summary"`

	Signs   map[string]int `yaml:"signs"`
	Spatial *SpatialZones  `yaml:"spatial"`
}

var sectionNames = map[string]models.Section{
	"deposits":        models.SectionDeposits,
	"withdrawals":     models.SectionWithdrawals,
	"checks":          models.SectionChecks,
	"fees":            models.SectionFees,
	"daily_balance":   models.SectionDailyBalance,
	"account_summary": models.SectionAccountSummary,
	"ignore":          models.SectionIgnore,
}

func parseSection(name string) (models.Section, error) {
	s, ok := sectionNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown section %q", name)
	}
	return s, nil
}

var roleNames = map[string]SummaryRole{
	"":          RoleFlow,
	"flow":      RoleFlow,
	"beginning": RoleBeginning,
	"ending":    RoleEnding,
}

// LoadYAML reads one bank profile from YAML. All regex patterns are
// compiled and validated up front so a broken profile fails at load time,
// not mid-extraction.
func LoadYAML(r io.Reader) (*Profile, error) {
	var raw yamlProfile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}

	p := &Profile{
		Name:                  strings.ToLower(strings.TrimSpace(raw.Name)),
		DisplayName:           raw.DisplayName,
		Detect:                make([]string, 0, len(raw.Detect)),
		CaseSensitiveSections: raw.CaseSensitiveSections,
		MaxHeaderLen:          raw.MaxHeaderLen,
		FallbackMonth:         raw.FallbackMonth,
		AppendYear:            raw.AppendYear,
		SummaryFirstPage:      raw.SummaryFirstPage,
		Primary:               map[models.Section]*regexp.Regexp{},
		Multi:                 map[models.Section]*regexp.Regexp{},
		Sign:                  map[models.Section]int{},
		Spatial:               raw.Spatial,
	}
	for _, d := range raw.Detect {
		p.Detect = append(p.Detect, strings.ToLower(d))
	}

	for _, s := range raw.Sections {
		sec, err := parseSection(s.Section)
		if err != nil {
			return nil, fmt.Errorf("profile %q: %w", raw.Name, err)
		}
		p.SectionRules = append(p.SectionRules, SectionRule{Match: s.Match, Section: sec})
	}

	for _, pat := range raw.Noise {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("profile %q: noise pattern %q: %w", raw.Name, pat, err)
		}
		p.Noise = append(p.Noise, re)
	}

	for name, pat := range raw.Primary {
		sec, err := parseSection(name)
		if err != nil {
			return nil, fmt.Errorf("profile %q: primary: %w", raw.Name, err)
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("profile %q: primary pattern for %s: %w", raw.Name, name, err)
		}
		p.Primary[sec] = re
	}
	for name, pat := range raw.Multi {
		sec, err := parseSection(name)
		if err != nil {
			return nil, fmt.Errorf("profile %q: multi: %w", raw.Name, err)
		}
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, fmt.Errorf("profile %q: multi pattern for %s: %w", raw.Name, name, err)
		}
		p.Multi[sec] = re
	}

	for _, s := range raw.Summary {
		role, ok := roleNames[strings.ToLower(s.Role)]
		if !ok {
			return nil, fmt.Errorf("profile %q: unknown summary role %q", raw.Name, s.Role)
		}
		rule := SummaryRule{Category: s.Category, Role: role, Negate: s.Negate}
		for _, name := range s.Sections {
			sec, err := parseSection(name)
			if err != nil {
				return nil, fmt.Errorf("profile %q: summary %q: %w", raw.Name, s.Category, err)
			}
			rule.Sections = append(rule.Sections, sec)
		}
		for _, pat := range s.Patterns {
			re, err := regexp.Compile(pat)
			if err != nil {
				return nil, fmt.Errorf("profile %q: summary %q pattern: %w", raw.Name, s.Category, err)
			}
			if re.NumSubexp() < 1 {
				return nil, fmt.Errorf("profile %q: summary %q pattern %q has no amount capture group", raw.Name, s.Category, pat)
			}
			rule.Patterns = append(rule.Patterns, re)
		}
		p.Summary = append(p.Summary, rule)
	}

	if len(raw.Signs) == 0 {
		p.Sign = outflowSigns
	} else {
		for name, sign := range raw.Signs {
			sec, err := parseSection(name)
			if err != nil {
				return nil, fmt.Errorf("profile %q: signs: %w", raw.Name, err)
			}
			p.Sign[sec] = sign
		}
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadYAMLFile loads a bank profile from a YAML file on disk.
func LoadYAMLFile(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}
