package resolver

import "github.com/Nellyj1/chatai-sub002/internal/models"

// resolution is the tagged outcome of one turn, produced by exactly one of the
// matching components and consumed uniformly by ComposeReply. It replaces the
// shared formatting paths with an explicit value: precedence lives in the
// orchestration, framing lives here.
type resolution struct {
	source models.ResponseSource
	text   string
	// fresh marks a brand-new catalog search (as opposed to a continuing
	// navigation turn); multi marks that it produced more than one candidate.
	fresh bool
	multi bool
}

// Fixed framing and fallback strings. The generic fallback is a bulleted list
// of suggested next actions; the last-resort reply guards the contract that an
// empty final string is never returned to the caller.
const (
	multiMatchPrefix = "Ik heb meerdere producten gevonden die bij je vraag passen. Dit is de eerste:\n\n"

	fallbackReply = "Ik heb helaas geen passend antwoord gevonden. Je kunt het volgende proberen:\n" +
		"• Stel je vraag op een andere manier\n" +
		"• Vraag naar een specifiek product of ingrediënt\n" +
		"• Typ 'volgende' na een zoekopdracht om meer resultaten te zien"

	lastResortReply = "Daar kan ik je helaas niet mee helpen. Probeer je vraag anders te formuleren."
)

// ComposeReply assembles the final reply text for a resolved turn. Ingredient
// and FAQ responses are shown without a lead-in; a fresh multi-candidate
// catalog search gets the "first of several" prefix; navigation turns carry no
// prefix; everything else gets the generic fallback. Never returns "".
func ComposeReply(res resolution) string {
	switch res.source {
	case models.SourceIngredient, models.SourceFAQ, models.SourceNavigation:
		if res.text == "" {
			return lastResortReply
		}
		return res.text
	case models.SourceCatalog:
		if res.text == "" {
			return lastResortReply
		}
		if res.fresh && res.multi {
			return multiMatchPrefix + res.text
		}
		return res.text
	default:
		return fallbackReply
	}
}
