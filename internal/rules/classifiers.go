package rules

import (
	"strings"
	"unicode"
)

// greetingTokens are the canonical greetings the classifier recognizes.
var greetingTokens = []string{
	"hello", "hi", "hey", "good morning", "good evening", "good afternoon",
	"good night", "howdy", "greetings", "hiya", "whats up", "sup", "yo",
	"bonjour", "namaste", "hola", "salaam", "good day",
}

// crisisLexicon contains self-harm and suicide phrasings. Matching is plain
// substring containment on the lowercased input.
var crisisLexicon = []string{
	"suicide", "kill myself", "end my life", "want to die", "kill me",
	"hurt myself", "self harm", "end it all", "not worth living",
	"better off dead", "want to disappear", "cut myself", "overdose",
	"jump off", "hang myself", "shoot myself", "drown myself",
	"life is not worth", "tired of living", "ready to die",
	"planning to kill", "thinking about dying", "thoughts of death",
	"suicidal thoughts", "suicidal ideation", "want to hurt myself",
}

// normalizeGreetingInput lowercases the input and strips everything that is
// not a letter or a space, so "hey!!" and "Hi there." classify cleanly.
func normalizeGreetingInput(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// IsGreeting reports whether the input is a greeting. A greeting is either a
// canonical token, a token followed by more text, or an elongation of a token
// ("hii", "helloo", "heyyy"). The elongation check requires every character
// of the input to belong to the token's character set, which rejects words
// that merely start with a greeting ("history" is not an elongated "hi").
func IsGreeting(input string) bool {
	cleaned := normalizeGreetingInput(input)
	if cleaned == "" {
		return false
	}
	for _, token := range greetingTokens {
		if cleaned == token {
			return true
		}
		if strings.HasPrefix(cleaned, token+" ") {
			return true
		}
		if len(cleaned) > len(token) && strings.HasPrefix(cleaned, token) && drawsFromCharset(cleaned, token) {
			return true
		}
	}
	return false
}

// drawsFromCharset reports whether every rune of s occurs somewhere in token.
func drawsFromCharset(s, token string) bool {
	for _, r := range s {
		if !strings.ContainsRune(token, r) {
			return false
		}
	}
	return true
}

// IsCrisis reports whether the input contains self-harm or suicide language.
// It runs independently of the greeting classifier and of the canned safety
// tiers.
func IsCrisis(input string) bool {
	lowered := strings.ToLower(strings.TrimSpace(input))
	for _, phrase := range crisisLexicon {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
