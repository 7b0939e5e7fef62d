package resolver

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// The classifier works off ordered rule tables rather than code so the
// precedence and patterns stay reviewable and testable per rule.

// navigationCommands are the fixed command phrases that request the next match.
// Matching is a case-insensitive substring check against the normalized message.
var navigationCommands = []string{
	"volgende",
	"nog een",
	"nog eentje",
	"next",
	"another",
	"toon meer",
	"laat meer zien",
	"show more",
	"meer opties",
	"andere optie",
	"verder",
}

// IsNavigationCommand reports whether the normalized message asks for the next match.
func IsNavigationCommand(lower string) bool {
	for _, cmd := range navigationCommands {
		if strings.Contains(lower, cmd) {
			return true
		}
	}
	return false
}

// ingredientQuestionPatterns is tier 1: specific question templates that by
// themselves classify the turn as an ingredient question. Checked in order,
// first match wins. Each pattern captures the candidate ingredient name.
var ingredientQuestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`voordelen van\s+(.+)`),
	regexp.MustCompile(`benefits of\s+(.+)`),
	regexp.MustCompile(`wat doet\s+(.+)`),
	regexp.MustCompile(`what does\s+(.+?)\s+do\b`),
	regexp.MustCompile(`effecten? van\s+(.+)`),
	regexp.MustCompile(`effects? of\s+(.+)`),
	regexp.MustCompile(`werking van\s+(.+)`),
	regexp.MustCompile(`waarvoor dient\s+(.+)`),
	regexp.MustCompile(`waar is\s+(.+?)\s+goed voor`),
}

// ingredientInquiryPatterns is tier 2: general inquiry templates. A tier-2
// match only classifies as an ingredient question when the captured subject
// passes looksLikeIngredient.
var ingredientInquiryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`vertel (?:me |mij )?(?:iets |meer )?over\s+(.+)`),
	regexp.MustCompile(`tell me (?:something |more )?about\s+(.+)`),
	regexp.MustCompile(`(?:iets|meer) over\s+(.+)`),
	regexp.MustCompile(`informatie over\s+(.+)`),
}

// productCategoryTerms mark a subject as a product rather than an ingredient,
// and mark a whole message as a catalog query.
var productCategoryTerms = []string{
	"creme", "crème", "cream", "serum", "olie", "oil", "lotion", "masker",
	"mask", "scrub", "zeep", "soap", "shampoo", "conditioner", "gel",
	"balsem", "balm", "toner", "spray", "mist", "peeling", "cleanser",
	"reiniger", "zonnebrand", "sunscreen", "spf", "deodorant",
}

// ingredientIndicators are substrings that suggest a subject names an ingredient.
var ingredientIndicators = []string{
	"zuur", "acid", "extract", "vitamine", "vitamin", "retinol", "collageen",
	"collagen", "niacinamide", "peptide", "ceramide", "squalaan", "squalane",
	"aloe", "aloë", "panthenol", "glycerine", "glycerin", "keratine", "zink",
	"urea", "allantoine", "allantoin",
}

// subjectArticles are leading articles and generic nouns stripped from a
// captured ingredient subject before lookup.
var subjectArticles = []string{
	"de", "het", "een", "ingredient", "ingrediënt", "bestanddeel", "component", "stof",
}

// subjectTerminators cut a captured subject short: the capture runs to the end
// of the message, so everything from the first terminator on is dropped.
var subjectTerminators = []string{"?", "!", " voor ", " tegen ", " bij ", " in "}

// ContainsCategoryTerm reports whether the text mentions a known product category.
func ContainsCategoryTerm(s string) bool {
	for _, term := range productCategoryTerms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

// looksLikeIngredient applies the tier-2 heuristic: the subject must not
// contain a product-category term and must contain at least one
// ingredient-indicator substring.
func looksLikeIngredient(subject string) bool {
	if ContainsCategoryTerm(subject) {
		return false
	}
	for _, ind := range ingredientIndicators {
		if strings.Contains(subject, ind) {
			return true
		}
	}
	return false
}

// ExtractIngredientCandidate classifies the message against both pattern tiers
// and returns (classified, candidate name). The candidate may be empty even
// when classified: a template can match while its capture cleans down to
// nothing useful, in which case the caller falls back to catalog-text scanning.
func ExtractIngredientCandidate(lower string) (bool, string) {
	for _, re := range ingredientQuestionPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return true, cleanSubject(m[1])
		}
	}
	for _, re := range ingredientInquiryPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			subject := cleanSubject(m[1])
			if subject != "" && looksLikeIngredient(subject) {
				return true, subject
			}
		}
	}
	return false, ""
}

// cleanSubject trims a captured subject: cut at the first terminator, strip
// leading articles and generic nouns, and require more than two runes.
func cleanSubject(captured string) string {
	subject := captured
	for _, term := range subjectTerminators {
		if idx := strings.Index(subject, term); idx >= 0 {
			subject = subject[:idx]
		}
	}
	subject = strings.TrimSpace(subject)

	changed := true
	for changed {
		changed = false
		for _, art := range subjectArticles {
			if strings.HasPrefix(subject, art+" ") {
				subject = strings.TrimSpace(strings.TrimPrefix(subject, art+" "))
				changed = true
			}
		}
	}

	if utf8.RuneCountInString(subject) <= 2 {
		return ""
	}
	return subject
}
