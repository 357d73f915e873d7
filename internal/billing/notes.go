package billing

import (
	"regexp"
	"strings"
)

const (
	DefaultParticulars = "Old Gold Exchange"
	DefaultHSNCode     = "7113"
)

// Legacy exchange notes look like "Description: Old Ring | HSN Code: 7113".
// Each value runs to the next '|' or the end of the string.
var (
	descriptionPattern = regexp.MustCompile(`Description:\s*([^|]*)`)
	hsnPattern         = regexp.MustCompile(`HSN Code:\s*([^|]*)`)
)

// ExchangeParticulars are the invoice fields of an old gold exchange.
type ExchangeParticulars struct {
	Particulars string `json:"particulars"`
	HSNCode     string `json:"hsnCode"`
}

// ParseExchangeNotes extracts particulars and HSN code from free-text notes,
// falling back per field to the defaults.
func ParseExchangeNotes(notes string) ExchangeParticulars {
	return ExchangeParticulars{
		Particulars: extract(descriptionPattern, notes, DefaultParticulars),
		HSNCode:     extract(hsnPattern, notes, DefaultHSNCode),
	}
}

// FormatExchangeNotes writes particulars and HSN code in the legacy notes
// convention, followed by any extra free text.
func FormatExchangeNotes(particulars, hsnCode, extra string) string {
	parts := []string{
		"Description: " + strings.TrimSpace(particulars),
		"HSN Code: " + strings.TrimSpace(hsnCode),
	}
	if extra = strings.TrimSpace(extra); extra != "" {
		parts = append(parts, extra)
	}
	return strings.Join(parts, " | ")
}

// ResolveExchangeParticulars prefers the structured columns and only parses
// notes for the fields that are blank.
func ResolveExchangeParticulars(particulars, hsnCode, notes string) ExchangeParticulars {
	parsed := ParseExchangeNotes(notes)
	if p := strings.TrimSpace(particulars); p != "" {
		parsed.Particulars = p
	}
	if h := strings.TrimSpace(hsnCode); h != "" {
		parsed.HSNCode = h
	}
	return parsed
}

func extract(re *regexp.Regexp, s, fallback string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return fallback
	}
	if v := strings.TrimSpace(m[1]); v != "" {
		return v
	}
	return fallback
}
