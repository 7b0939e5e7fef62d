// Package resolver implements the rule-based message resolution core.
//
// It turns a free-text user message, in the context of an ongoing conversation,
// into a single best-matching answer drawn from the FAQ set, the ingredient
// knowledge base, or the product catalog, and supports "show me the next match"
// navigation across turns. All collaborators (stores, catalog, navigation state)
// are injected interfaces; the core itself performs no I/O of its own.
package resolver

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinTermLength is the minimum token length for a token to count as a meaningful term.
const MinTermLength = 3

// trailingPunctRegex matches punctuation characters directly following a letter or digit.
var trailingPunctRegex = regexp.MustCompile(`([\p{L}\p{N}])[?!.,;:]+`)

// NormalizedMessage is the deterministic normalization of one raw message.
type NormalizedMessage struct {
	// Raw is the original message text, trimmed.
	Raw string
	// Lower is the lowercased copy with word-trailing punctuation stripped; all
	// matching runs against this.
	Lower string
	// Tokens is Lower split on whitespace.
	Tokens []string
	// Terms is Tokens minus stop-words and tokens shorter than MinTermLength.
	// These are the meaningful terms used for relevance thresholds.
	Terms []string
}

// Normalize produces the matching views of a raw message. Pure, no side effects.
func Normalize(raw string) NormalizedMessage {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trailingPunctRegex.ReplaceAllString(trimmed, "$1"))

	tokens := strings.Fields(lower)
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < MinTermLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		terms = append(terms, tok)
	}

	return NormalizedMessage{
		Raw:    trimmed,
		Lower:  lower,
		Tokens: tokens,
		Terms:  terms,
	}
}

// stopWords lists Dutch and English filler words excluded from term matching.
// Tokens in this set never count toward the meaningful-term denominator.
var stopWords = map[string]struct{}{
	// Dutch
	"de": {}, "het": {}, "een": {}, "en": {}, "van": {}, "voor": {}, "met": {},
	"die": {}, "dat": {}, "wat": {}, "zijn": {}, "is": {}, "ik": {}, "je": {},
	"jij": {}, "u": {}, "op": {}, "in": {}, "aan": {}, "of": {}, "om": {},
	"te": {}, "er": {}, "ook": {}, "naar": {}, "bij": {}, "dan": {}, "als": {},
	"maar": {}, "heb": {}, "hebt": {}, "heeft": {}, "welke": {}, "welk": {},
	"kan": {}, "kun": {}, "mijn": {}, "jouw": {}, "uw": {}, "over": {},
	"deze": {}, "dit": {}, "niet": {}, "wel": {}, "geen": {}, "iets": {},
	"hoe": {}, "waar": {}, "wie": {}, "zou": {}, "wil": {}, "graag": {},
	"jullie": {}, "onze": {}, "ons": {}, "hier": {}, "daar": {}, "nog": {},
	"al": {}, "dus": {}, "toch": {}, "even": {}, "echt": {}, "heel": {},
	"goed": {}, "goede": {}, "beste": {}, "zoek": {}, "zoeken": {},
	// English
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "for": {}, "with": {},
	"that": {}, "this": {}, "what": {}, "are": {}, "was": {}, "you": {},
	"your": {}, "have": {}, "has": {}, "can": {}, "could": {}, "would": {},
	"about": {}, "some": {}, "any": {}, "not": {}, "but": {}, "how": {},
	"which": {}, "there": {}, "looking": {}, "need": {}, "want": {},
	"please": {}, "tell": {}, "show": {},
}
