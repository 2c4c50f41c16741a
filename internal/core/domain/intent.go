package domain

import "strings"

// Intent is the classified purpose of a user query. Conversational
// collaborators use it to decide how to respond before any search runs.
type Intent string

const (
	// IntentGreeting is a salutation with no information need.
	IntentGreeting Intent = "greeting"
	// IntentThanks is an acknowledgement.
	IntentThanks Intent = "thanks"
	// IntentHelp asks what the assistant can do or for an overview.
	IntentHelp Intent = "help"
	// IntentDetails asks for detail about a specific object.
	IntentDetails Intent = "details"
	// IntentAmbiguous references an unnamed object ("tell me about it")
	// and needs clarification from conversation context.
	IntentAmbiguous Intent = "ambiguous"
	// IntentSearch is the default: treat the query as a search.
	IntentSearch Intent = "search"
)

// String returns the string representation.
func (i Intent) String() string {
	return string(i)
}

// intentRule pairs an intent with the phrases and words that signal it.
// Phrases match as substrings; words match on word boundaries. Rules are
// evaluated in order and the first match wins.
type intentRule struct {
	intent  Intent
	phrases []string
	words   []string
}

var intentRules = []intentRule{
	{
		intent: IntentAmbiguous,
		phrases: []string{
			"the module", "the report", "details on it",
			"tell me about it", "explain it",
		},
		words: []string{"it", "this", "that"},
	},
	{
		intent: IntentDetails,
		phrases: []string{
			"what is", "tell me about", "explain", "describe",
			"about this", "what does this", "in this report",
			"details about",
		},
	},
	{
		intent: IntentGreeting,
		phrases: []string{
			"good morning", "good afternoon", "good evening",
		},
		words: []string{"hello", "hi", "hey"},
	},
	{
		intent: IntentThanks,
		words:  []string{"thank", "thanks", "appreciate"},
	},
	{
		intent: IntentHelp,
		phrases: []string{
			"what can you do", "help me", "what reports",
			"show me all", "list all",
		},
	},
}

// ClassifyIntent maps a free-text query onto an Intent using the rule
// table. Matching is case-insensitive. Queries matching no rule are
// searches.
func ClassifyIntent(query string) Intent {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return IntentSearch
	}

	words := strings.FieldsFunc(q, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '!' || r == '?'
	})
	wordSet := make(map[string]bool, len(words))
	for _, w := range words {
		wordSet[w] = true
	}

	for _, rule := range intentRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(q, phrase) {
				return rule.intent
			}
		}
		for _, word := range rule.words {
			if wordSet[word] {
				return rule.intent
			}
		}
	}
	return IntentSearch
}
