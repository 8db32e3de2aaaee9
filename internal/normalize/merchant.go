package normalize

import (
	"regexp"
	"strings"
)

// DefaultNoisePatterns are the tokens removed from raw descriptions before
// grouping: payment networks, country and currency codes, company suffixes,
// long digit runs, masked cards, references and embedded short dates.
var DefaultNoisePatterns = []string{
	`\bPOS\b`, `\bEFTPOS\b`, `\bVISA\b`, `\bMASTERCARD\b`, `\bDEBIT\b`,
	`\bCARD\b`, `\bPURCHASE\b`, `\bPAYMENT\b`, `\bAU\b`, `\bAUS\b`,
	`\bUSA\b`, `\bGBR\b`, `\bUSD\b`, `\bAUD\b`, `\bNZD\b`,
	`\bPTY\b`, `\bLTD\b`, `\bINC\b`, `\bLLC\b`, `\bCORP\b`,
	`\b\d{4,}\b`,
	`\*+`, `#\d+`, `\bREF:?\s*\w+`,
	`\bCONF[:#]?\s*\w+`, `\bTRANS[:#]?\s*\w+`,
	`\bXX+\d*`, `\b\d{2}/\d{2}\b`,
}

// DefaultProcessorPrefixes are card-processor prefixes stripped from the
// front of a description.
var DefaultProcessorPrefixes = []string{"SQ *", "SP ", "PAYPAL *", "STRIPE *", "PP*"}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	edgeJunk      = regexp.MustCompile(`^[^A-Za-z0-9]+|[^A-Za-z0-9]+$`)
)

// MerchantNormalizer produces the grouping key for a raw description. The
// result is stable: normalizing an already normalized key returns it as is.
type MerchantNormalizer struct {
	patterns []*regexp.Regexp
	prefixes []string
}

// NewMerchantNormalizer compiles the given patterns case-insensitively.
func NewMerchantNormalizer(patterns, prefixes []string) (*MerchantNormalizer, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &MerchantNormalizer{
		patterns: compiled,
		prefixes: append([]string(nil), prefixes...),
	}, nil
}

// DefaultMerchantNormalizer uses the built-in noise and prefix lists.
func DefaultMerchantNormalizer() *MerchantNormalizer {
	n, err := NewMerchantNormalizer(DefaultNoisePatterns, DefaultProcessorPrefixes)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize returns the grouping key. For non-empty input it never returns
// an empty string.
func (n *MerchantNormalizer) Normalize(raw string) string {
	fallback := strings.ToUpper(strings.TrimSpace(raw))
	if fallback == "" {
		return ""
	}

	current := fallback
	for {
		next := n.pass(current)
		if next == current || next == "" {
			current = next
			break
		}
		current = next
	}

	if current == "" {
		return fallback
	}
	return current
}

func (n *MerchantNormalizer) pass(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, prefix := range n.prefixes {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimSpace(s[len(prefix):])
		}
	}
	for _, re := range n.patterns {
		s = re.ReplaceAllString(s, "")
	}
	s = strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
	return edgeJunk.ReplaceAllString(s, "")
}
