package extract

import "regexp"

// nameMatcher is one entry of the ordered name-detection table. Matchers
// are tried strictly in table order and the first hit wins; there is no
// backtracking once a name is set.
type nameMatcher struct {
	label string
	match func(string) bool
}

func reMatcher(label, pattern string) nameMatcher {
	re := regexp.MustCompile(pattern)
	return nameMatcher{label: label, match: re.MatchString}
}

// word fragments shared by the name patterns.
const (
	capWord = `[A-Z][a-z]+`
	// capPart allows hyphenated, apostrophe and Mc/Mac-style segments.
	capPart = `[A-Z][a-z]*(?:['-][A-Za-z][a-z]*)*`
)

// nameMatchers is evaluated top to bottom: most specific shapes first,
// ALL-CAPS variants next, the permissive fallback last.
var nameMatchers = []nameMatcher{
	reMatcher("two capitalized words", `^`+capWord+` `+capWord+`$`),
	reMatcher("middle initial", `^`+capWord+` [A-Z]\.? `+capWord+`$`),
	reMatcher("hyphenated or apostrophe", `^`+capPart+` `+capPart+`$`),
	reMatcher("honorific prefix", `^(?:Dr|Mr|Mrs|Ms|Prof)\.? `+capWord+`(?: `+capWord+`)?$`),
	reMatcher("generational suffix", `^`+capWord+` `+capWord+`,? (?:Jr|Sr|II|III|IV|Esq|MD|PhD|CPA)\.?$`),
	reMatcher("three capitalized words", `^`+capWord+` `+capWord+` `+capWord+`$`),
	reMatcher("particle surname", `^`+capWord+` (?:Mc|Mac|De|Van|Von|La|Di)[A-Z][a-z]+$`),
	reMatcher("all-caps two words", `^[A-Z]{2,} [A-Z]{2,}$`),
	reMatcher("all-caps three words", `^[A-Z]{2,} [A-Z]{2,} [A-Z]{2,}$`),
	reMatcher("mixed case and caps", `^(?:`+capWord+` [A-Z]{2,}|[A-Z]{2,} `+capWord+`)$`),
	reMatcher("all-caps middle initial", `^[A-Z]{2,} [A-Z]\.? [A-Z]{2,}$`),
	{label: "generic capitalized words", match: genericNameShape},
}

var (
	genericWordsRe = regexp.MustCompile(`^(?:[A-Z][A-Za-z'.-]* ){1,3}[A-Z][A-Za-z'.-]*$`)
	anyDigitRe     = regexp.MustCompile(`\d`)
)

// genericNameShape is the last-resort heuristic: two to four
// capitalized-leading words that do not look like any other field.
func genericNameShape(line string) bool {
	if !genericWordsRe.MatchString(line) {
		return false
	}
	if anyDigitRe.MatchString(line) {
		return false
	}
	if emailRe.MatchString(line) || websiteRe.MatchString(line) || titleKeywordRe.MatchString(line) {
		return false
	}
	return true
}
