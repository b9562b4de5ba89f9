// Package extract turns free-form note text into action items, either with
// line-oriented pattern rules or with a local LLM.
package extract

import (
	"regexp"
	"strings"
)

// rule inspects a single trimmed line. When the line belongs to the rule's
// class it returns the candidate item text and true; the candidate may still
// be empty, which discards the line without consulting later rules.
type rule func(line string) (candidate string, ok bool)

// HeuristicExtractor extracts action items from text using an ordered list
// of pattern rules. It is a pure function of its input and never fails.
type HeuristicExtractor struct {
	rules []rule
}

// NewHeuristicExtractor returns an extractor with the default rule order:
// bullet/checkbox markers first, then keyword prefixes, then imperative
// sentences. Order matters: a numbered bullet whose payload starts with
// "Fix" must be handled by the bullet rule, not re-matched by the weaker
// imperative heuristic.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{
		rules: []rule{
			matchBullet,
			matchKeywordPrefix,
			matchImperative,
		},
	}
}

// Extract returns the action item candidates found in text, in input line
// order. Lines matching no rule are treated as narrative and skipped.
// Duplicates are preserved.
func (e *HeuristicExtractor) Extract(text string) []string {
	items := []string{}
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, r := range e.rules {
			candidate, ok := r(line)
			if !ok {
				continue
			}
			if candidate != "" {
				items = append(items, candidate)
			}
			break
		}
	}
	return items
}

var (
	// bullet markers: "- ", "* ", "• " or a numbered list marker "1. "
	bulletMarkerRe = regexp.MustCompile(`^([-*•]|\d+\.)\s+`)
	// checkbox markers at the start of the payload, possibly after a bullet
	checkboxRe = regexp.MustCompile(`(?i)^\[( |todo)\]\s*`)
)

// matchBullet strips list and checkbox markers and returns the remainder.
func matchBullet(line string) (string, bool) {
	rest := line
	matched := false

	if m := bulletMarkerRe.FindString(rest); m != "" {
		rest = rest[len(m):]
		matched = true
	}
	if m := checkboxRe.FindString(rest); m != "" {
		rest = rest[len(m):]
		matched = true
	}

	if !matched {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

var keywordPrefixes = []string{"todo:", "action:", "next:"}

// matchKeywordPrefix handles lines like "todo: review the release notes".
func matchKeywordPrefix(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, prefix := range keywordPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	return "", false
}

// actionVerbs is the closed set of imperative starters the sentence rule
// recognizes. "set up" is matched separately because it is two words.
var actionVerbs = map[string]struct{}{
	"add":         {},
	"analyze":     {},
	"check":       {},
	"create":      {},
	"deploy":      {},
	"design":      {},
	"document":    {},
	"fix":         {},
	"implement":   {},
	"investigate": {},
	"refactor":    {},
	"remove":      {},
	"review":      {},
	"schedule":    {},
	"update":      {},
	"verify":      {},
	"write":       {},
}

var firstWordRe = regexp.MustCompile(`^[A-Za-z']+`)

// matchImperative handles full sentences that start with an action verb,
// e.g. "Create a new user authentication system." The candidate is the
// whole line minus any trailing period.
func matchImperative(line string) (string, bool) {
	lower := strings.ToLower(line)

	first := firstWordRe.FindString(lower)
	if first == "" {
		return "", false
	}
	_, isVerb := actionVerbs[first]
	if !isVerb && !strings.HasPrefix(lower, "set up ") {
		return "", false
	}

	if !looksLikeSentence(line) {
		return "", false
	}

	return strings.TrimSpace(strings.TrimSuffix(line, ".")), true
}

// looksLikeSentence accepts lines with terminal punctuation or at least
// three words, so bare fragments like "fix" don't become items.
func looksLikeSentence(line string) bool {
	switch {
	case strings.HasSuffix(line, "."), strings.HasSuffix(line, "!"), strings.HasSuffix(line, "?"):
		return true
	default:
		return len(strings.Fields(line)) >= 3
	}
}
