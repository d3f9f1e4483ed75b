// internal/workers/lookup/interpret-code/interpreter.go
package interpretcode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"unit-lookup/internal/models"
)

const RuleNone = "none"

var (
	digitRun = regexp.MustCompile(`[0-9]+`)

	// Prefixed unit codes like "torre1101" or "C90" are alphanumeric but never plates.
	prefixedCode = regexp.MustCompile(`^(torre|t|casa|c)[0-9]+$`)

	towerPrefixes = []string{"torre", "t"}
	housePrefixes = []string{"casa", "c"}
)

type input struct {
	trimmed    string // surrounding whitespace removed
	normalized string // hyphens and whitespace removed
	lower      string
}

func newInput(raw string) input {
	trimmed := strings.TrimSpace(raw)
	normalized := strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, trimmed)
	return input{
		trimmed:    trimmed,
		normalized: normalized,
		lower:      strings.ToLower(normalized),
	}
}

// rule returns ok=false when it does not apply and the next rule should run.
type rule struct {
	name  string
	apply func(in input, r Ranges) (models.ParsedQuery, bool)
}

// Evaluated in order; the first applicable rule decides.
var rules = []rule{
	{name: "plate", apply: plateRule},
	{name: "tower-prefix", apply: towerPrefixRule},
	{name: "house-prefix", apply: housePrefixRule},
	{name: "numeric", apply: longNumericRule},
	{name: "numeric-short", apply: shortNumericRule},
}

// Interpret turns free text into a ParsedQuery. It never fails; anything
// unrecognized comes back as an invalid query.
func Interpret(raw string, r Ranges) models.ParsedQuery {
	q, _ := Classify(raw, r)
	return q
}

// Classify is Interpret plus the name of the rule that decided.
func Classify(raw string, r Ranges) (models.ParsedQuery, string) {
	in := newInput(raw)
	if in.normalized == "" {
		return models.InvalidQuery("empty input"), RuleNone
	}
	for _, rl := range rules {
		if q, ok := rl.apply(in, r); ok {
			return q, rl.name
		}
	}
	return models.InvalidQuery("unrecognized format"), RuleNone
}

// plateRule takes any letters-and-digits text of plate length that has at
// least one letter. All-digit text is left to the numeric rules.
func plateRule(in input, r Ranges) (models.ParsedQuery, bool) {
	t := in.trimmed
	if utf8.RuneCountInString(t) < r.PlateMinLength || !isAlnum(t) || !hasLetter(t) {
		return models.ParsedQuery{}, false
	}
	if prefixedCode.MatchString(strings.ToLower(t)) {
		return models.ParsedQuery{}, false
	}
	return models.PlateQuery(t), true
}

func towerPrefixRule(in input, r Ranges) (models.ParsedQuery, bool) {
	rest, ok := stripPrefix(in.lower, towerPrefixes)
	if !ok {
		return models.ParsedQuery{}, false
	}
	digits := digitRun.FindString(rest)
	if digits == "" {
		return models.InvalidQuery("tower prefix without digits"), true
	}
	return fromDigits(digits, r), true
}

func housePrefixRule(in input, r Ranges) (models.ParsedQuery, bool) {
	rest, ok := stripPrefix(in.lower, housePrefixes)
	if !ok {
		return models.ParsedQuery{}, false
	}
	digits := digitRun.FindString(rest)
	if digits == "" {
		return models.InvalidQuery("house prefix without digits"), true
	}
	n, err := strconv.Atoi(digits)
	if err != nil || !r.House.Contains(n) {
		return models.InvalidQuery(fmt.Sprintf("house %s out of range", digits)), true
	}
	return models.HouseQuery(n), true
}

func longNumericRule(in input, r Ranges) (models.ParsedQuery, bool) {
	if len(in.normalized) < 4 || !isDigits(in.normalized) {
		return models.ParsedQuery{}, false
	}
	return fromDigits(in.normalized, r), true
}

func shortNumericRule(in input, r Ranges) (models.ParsedQuery, bool) {
	if len(in.normalized) > 3 || !isDigits(in.normalized) {
		return models.ParsedQuery{}, false
	}
	n, _ := strconv.Atoi(in.normalized)
	switch {
	case r.House.Contains(n):
		return models.HouseQuery(n), true
	case r.Apartment.Contains(n):
		return models.TowerApartmentQuery(0, n), true
	default:
		return models.InvalidQuery(fmt.Sprintf("%d is neither a house nor an apartment", n)), true
	}
}

// fromDigits splits four or more digits into tower and a three-digit
// apartment; shorter runs are an apartment with no tower constraint.
func fromDigits(digits string, r Ranges) models.ParsedQuery {
	if len(digits) < 4 {
		apt, _ := strconv.Atoi(digits)
		if !r.Apartment.Contains(apt) {
			return models.InvalidQuery(fmt.Sprintf("apartment %s out of range", digits))
		}
		return models.TowerApartmentQuery(0, apt)
	}

	split := len(digits) - 3
	tower, err := strconv.Atoi(digits[:split])
	if err != nil || !r.Tower.Contains(tower) {
		return models.InvalidQuery(fmt.Sprintf("tower %s out of range", digits[:split]))
	}
	apt, _ := strconv.Atoi(digits[split:])
	if !r.Apartment.Contains(apt) {
		return models.InvalidQuery(fmt.Sprintf("apartment %s out of range", digits[split:]))
	}
	return models.TowerApartmentQuery(tower, apt)
}

func stripPrefix(s string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return s[len(p):], true
		}
	}
	return "", false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isAlnum accepts Unicode letters and numbers, so "ÑAB123" qualifies.
func isAlnum(s string) bool {
	for _, c := range s {
		if !unicode.IsLetter(c) && !unicode.IsNumber(c) {
			return false
		}
	}
	return s != ""
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}
