// Package extract converts raw recognized card text into a partially
// filled card record. It is a best-effort heuristic, not a validator:
// fields nothing matched stay empty and no error is ever raised. The
// caller prompts the user to fill a missing name before saving.
package extract

import (
	"regexp"
	"strings"

	"github.com/cardfolio/cardfolio/internal/models"
)

const (
	maxPhones    = 3
	maxAddresses = 2
	// nameLineWindow and companyLineWindow bound the primary scans.
	nameLineWindow    = 4
	companyLineWindow = 5
	// logoMaxLen is the longest a single-word line can be and still be
	// taken for a logo abbreviation.
	logoMaxLen = 4
)

var (
	emailRe   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe   = regexp.MustCompile(`(?:\+?\d{1,2}[\s.-]?)?(?:\(\d{3}\)|\d{3})[\s.-]?\d{3}[\s.-]?\d{4}`)
	websiteRe = regexp.MustCompile(`(?i)\b(?:https?://\S+|www\.[A-Za-z0-9.-]+\.[A-Za-z]{2,}\S*)`)
	addressRe = regexp.MustCompile(`(?i)\d+.*\b(?:street|st|avenue|ave|road|rd|boulevard|blvd|lane|ln|drive|dr|court|ct|suite|ste|way|plaza|floor|fl)\b\.?`)

	titleKeywordRe = regexp.MustCompile(`(?i)\b(?:director|manager|engineer|president|founder|partner|owner|principal|attorney|consultant|advisor|analyst|designer|developer|specialist|coordinator|supervisor|executive|officer|broker|agent|ceo|cfo|cto|coo|vp)\b`)
	telephonyRe    = regexp.MustCompile(`(?i)\b(?:tel|phone|fax|mobile|cell|office|email|e-mail)\b|@`)
	numericOnlyRe  = regexp.MustCompile(`^[\d\s\p{P}\p{S}]+$`)
)

// Extract runs the ordered pattern passes over the recognized text and
// returns a partially filled card. Precedence is fixed: within each field
// the first match wins, and the name cascade never revisits a decision.
func Extract(text string) models.Card {
	card := models.Card{
		Phones:    []string{},
		Addresses: []string{},
		Tags:      []string{models.TagScanned},
	}

	lines := splitLines(text)
	if len(lines) == 0 {
		return card
	}

	// claimed[i] records which field took line i, keeping later passes
	// (name, company) off lines already spoken for.
	claimed := make([]string, len(lines))
	logoIdx := -1

	for i, line := range lines {
		if card.Email == "" {
			if m := emailRe.FindString(line); m != "" {
				card.Email = m
				claimed[i] = "email"
			}
		}
		if len(card.Phones) < maxPhones {
			for _, m := range phoneRe.FindAllString(line, -1) {
				if len(card.Phones) >= maxPhones {
					break
				}
				if !containsString(card.Phones, m) {
					card.Phones = append(card.Phones, m)
					if claimed[i] == "" {
						claimed[i] = "phone"
					}
				}
			}
		}
		if card.Website == "" && !strings.Contains(line, "@") {
			if m := websiteRe.FindString(line); m != "" {
				card.Website = m
				if claimed[i] == "" {
					claimed[i] = "website"
				}
			}
		}
		if card.Title == "" && claimed[i] == "" && titleKeywordRe.MatchString(line) && !addressRe.MatchString(line) {
			card.Title = line
			claimed[i] = "title"
		}
		if len(card.Addresses) < maxAddresses && claimed[i] == "" && addressRe.MatchString(line) {
			card.Addresses = append(card.Addresses, line)
			claimed[i] = "address"
		}
		// A short single word high on the card is usually a logo
		// abbreviation; remember the first and keep it out of company
		// candidacy.
		if logoIdx < 0 && i < 3 && claimed[i] == "" &&
			!strings.Contains(line, " ") && len(line) <= logoMaxLen {
			logoIdx = i
		}
	}

	// Name: primary pass over the top of the card, then the whole card,
	// then derived from the email local-part.
	nameIdx := findName(lines, claimed, min(nameLineWindow, len(lines)))
	if nameIdx < 0 {
		nameIdx = findName(lines, claimed, len(lines))
	}
	if nameIdx >= 0 {
		card.Name = lines[nameIdx]
		claimed[nameIdx] = "name"
	} else if card.Email != "" {
		card.Name = nameFromEmail(card.Email)
	}

	card.Company = findCompany(lines, claimed, logoIdx)

	return card
}

// findName tries every matcher in table order across the first n lines;
// the first matcher with a hit wins and the earliest matching line breaks
// ties within a matcher.
func findName(lines []string, claimed []string, n int) int {
	for _, m := range nameMatchers {
		for i := 0; i < n; i++ {
			if claimed[i] != "" {
				continue
			}
			if m.match(lines[i]) {
				return i
			}
		}
	}
	return -1
}

// findCompany scans the first companyLineWindow lines and keeps the longest
// surviving candidate: longer descriptive names beat short abbreviations.
func findCompany(lines []string, claimed []string, logoIdx int) string {
	best := ""
	n := min(companyLineWindow, len(lines))
	for i := 0; i < n; i++ {
		line := lines[i]
		if claimed[i] != "" || i == logoIdx {
			continue
		}
		if numericOnlyRe.MatchString(line) {
			continue
		}
		if telephonyRe.MatchString(line) {
			continue
		}
		if !strings.Contains(line, " ") && len(line) <= logoMaxLen {
			continue
		}
		if len(line) > len(best) {
			best = line
		}
	}
	return best
}

// nameFromEmail derives a display name from the email local-part, splitting
// on separators or camelCase and title-casing each piece.
func nameFromEmail(email string) string {
	local := email[:strings.Index(email, "@")]

	var parts []string
	switch {
	case strings.ContainsAny(local, "._-"):
		parts = strings.FieldsFunc(local, func(r rune) bool {
			return r == '.' || r == '_' || r == '-'
		})
	default:
		parts = splitCamel(local)
	}

	var words []string
	for _, p := range parts {
		p = strings.TrimFunc(p, func(r rune) bool { return r >= '0' && r <= '9' })
		if p == "" {
			continue
		}
		words = append(words, titleCase(p))
	}
	return strings.Join(words, " ")
}

var camelBoundaryRe = regexp.MustCompile(`([a-z])([A-Z])`)

// splitCamel breaks janeDoe into [jane Doe]; a plain lowercase run stays a
// single part.
func splitCamel(s string) []string {
	marked := camelBoundaryRe.ReplaceAllString(s, `$1 $2`)
	return strings.Fields(marked)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
