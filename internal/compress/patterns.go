package compress

import (
	"regexp"
	"sort"
	"strings"
)

// Wildcard is the marker substituted for variable-shaped substrings during
// preprocessing and for variable token positions inside templates.
const Wildcard = "<*>"

// MaskPattern is a named regex applied to a raw line during preprocessing.
// Every match is replaced by the wildcard marker.
type MaskPattern struct {
	Name     string
	re       *regexp.Regexp
	template string                  // replacement template, Wildcard unless the regex needs a capture
	mask     func(match string) bool // optional veto: return false to leave the match untouched
}

// Apply replaces every match of the pattern in line with the wildcard marker,
// except matches rejected by the pattern's veto, which are left as they are.
func (p MaskPattern) Apply(line string) string {
	if p.mask != nil {
		return p.re.ReplaceAllStringFunc(line, func(m string) string {
			if p.mask(m) {
				return Wildcard
			}
			return m
		})
	}
	return p.re.ReplaceAllString(line, p.template)
}

// Masking patterns for common variable shapes. Order matters: earlier
// replacements hide substrings from later patterns (IPv6 before IPv4,
// URLs before bare numbers).
var (
	isoTimestampRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:\d{2})?`)

	// Epoch milliseconds (13 digits) and seconds (10 digits). Requiring a
	// leading 1 keeps arbitrary long numbers out of this step; they are
	// still masked by the numeric patterns at the end of the catalogue.
	unixTimestampRegex = regexp.MustCompile(`\b1\d{12}\b|\b1\d{9}\b`)

	uuidMaskRegex = regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`)

	ipv6MaskRegex = regexp.MustCompile(`(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}|(?:[0-9a-fA-F]{1,4}:){1,7}:|(?:[0-9a-fA-F]{1,4}:){1,6}:[0-9a-fA-F]{1,4}|(?:[0-9a-fA-F]{1,4}:){1,5}(?::[0-9a-fA-F]{1,4}){1,2}|(?:[0-9a-fA-F]{1,4}:){1,4}(?::[0-9a-fA-F]{1,4}){1,3}|(?:[0-9a-fA-F]{1,4}:){1,3}(?::[0-9a-fA-F]{1,4}){1,4}|(?:[0-9a-fA-F]{1,4}:){1,2}(?::[0-9a-fA-F]{1,4}){1,5}|[0-9a-fA-F]{1,4}:(?::[0-9a-fA-F]{1,4}){1,6}|:(?::[0-9a-fA-F]{1,4}){1,7}|::`)

	ipv4MaskRegex = regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`)

	hexIDRegex   = regexp.MustCompile(`\b0[xX][0-9a-fA-F]+\b`)
	longHexRegex = regexp.MustCompile(`\b[0-9a-fA-F]{9,}\b`)

	blockIDRegex = regexp.MustCompile(`blk_-?\d+`)

	absPathRegex = regexp.MustCompile(`(^|\s)(/[^\s]+)`)

	urlMaskRegex = regexp.MustCompile(`https?://[^\s]+`)

	durationMaskRegex = regexp.MustCompile(`\b\d+(?:\.\d+)?(?:ns|µs|us|ms|sec|min|hr|[smh])\b`)
	numberMaskRegex   = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
)

// maskCatalogue is the built-in catalogue in application order.
var maskCatalogue = []MaskPattern{
	{Name: "iso_timestamp", re: isoTimestampRegex, template: Wildcard},
	{Name: "unix_timestamp", re: unixTimestampRegex, template: Wildcard},
	{Name: "uuid", re: uuidMaskRegex, template: Wildcard},
	{Name: "ipv6", re: ipv6MaskRegex, template: Wildcard},
	{Name: "ipv4", re: ipv4MaskRegex, template: Wildcard},
	{Name: "hex_id", re: hexIDRegex, template: Wildcard},
	// Long decimal runs are not hex identifiers; leave them for the
	// block-id and number patterns.
	{Name: "long_hex", re: longHexRegex, template: Wildcard, mask: containsHexLetter},
	{Name: "block_id", re: blockIDRegex, template: Wildcard},
	{Name: "abs_path", re: absPathRegex, template: "${1}" + Wildcard},
	{Name: "url", re: urlMaskRegex, template: Wildcard},
	{Name: "duration", re: durationMaskRegex, template: Wildcard},
	{Name: "number", re: numberMaskRegex, template: Wildcard},
}

func containsHexLetter(s string) bool {
	return strings.ContainsAny(s, "abcdefABCDEF")
}

// MaskCatalogue returns a copy of the built-in masking catalogue in
// application order.
func MaskCatalogue() []MaskPattern {
	out := make([]MaskPattern, len(maskCatalogue))
	copy(out, maskCatalogue)
	return out
}

// MaskLine applies the built-in catalogue to a line in order.
func MaskLine(line string) string {
	return applyMasks(line, maskCatalogue)
}

func applyMasks(line string, patterns []MaskPattern) string {
	for _, p := range patterns {
		line = p.Apply(line)
	}
	return line
}

// CompilePatterns compiles a named set of custom masking patterns. The
// returned patterns are ordered by name so that repeated runs apply them in
// the same order; callers append them after the built-in catalogue.
func CompilePatterns(named map[string]string) ([]MaskPattern, error) {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)

	patterns := make([]MaskPattern, 0, len(names))
	for _, name := range names {
		re, err := regexp.Compile(named[name])
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, MaskPattern{Name: name, re: re, template: Wildcard})
	}
	return patterns, nil
}
