package ai

import (
	"fmt"
	"regexp"
	"strings"
)

// Legacy plain-text labels some models echo from older prompt formats.
var legacyLabels = []string{"User:", "AI:"}

// nextTurnMarkers open a new turn; text from the first one onward is the
// model hallucinating a continuation, not part of the reply.
var nextTurnMarkers = append([]string{userOpen, assistantOpen}, legacyLabels...)

// artifacts are structural tokens with no place in user-visible text.
var artifacts = append([]string{userOpen, userClose, assistantOpen, assistantClose}, legacyLabels...)

var (
	timestampRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`)
	hspaceRe    = regexp.MustCompile(`[ \t]{2,}`)
	newlinesRe  = regexp.MustCompile(`\n{3,}`)
)

// Normalize turns raw backend output into user-visible text. Empty input
// stays empty; the caller decides whether to substitute the fallback.
// Normalize is idempotent.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := cutContinuation(raw)
	s = stripArtifacts(s)
	s = stripTimestamps(s)
	s = hspaceRe.ReplaceAllString(s, " ")
	s = newlinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// cutContinuation drops everything from the earliest next-turn marker. A
// single assistant open-marker at the very start is the echo of the prompt's
// reply position, not a continuation, so it is peeled off first.
func cutContinuation(s string) string {
	trimmed := strings.TrimLeft(s, " \t\n")
	if rest, ok := strings.CutPrefix(trimmed, assistantOpen); ok {
		s = rest
	}

	cut := len(s)
	for _, marker := range nextTurnMarkers {
		if idx := strings.Index(s, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return s[:cut]
}

// stripArtifacts removes structural tokens anywhere in the text, repeating
// until none remain so removals cannot splice new tokens together.
func stripArtifacts(s string) string {
	for {
		next := s
		for _, a := range artifacts {
			next = strings.ReplaceAll(next, a, "")
		}
		if next == s {
			return s
		}
		s = next
	}
}

// stripTimestamps scrubs ISO timestamps to fixpoint: removing one can butt
// surrounding digits together into a fresh match.
func stripTimestamps(s string) string {
	for {
		next := timestampRe.ReplaceAllString(s, "")
		if next == s {
			return s
		}
		s = next
	}
}

// degenerateReplies are filler outputs no user should ever see.
var degenerateReplies = map[string]struct{}{
	".": {}, "...": {}, "…": {},
}

// Degenerate reports whether a normalized reply is empty or meaningless
// filler that must be replaced with the fallback message.
func Degenerate(s string) bool {
	if s == "" {
		return true
	}
	_, ok := degenerateReplies[s]
	return ok
}

// FallbackMessage identifies the failing backend so operators can act on
// user reports without exposing backend internals.
func FallbackMessage(backend, model string) string {
	return fmt.Sprintf("I couldn't generate a reply right now. If this keeps happening, please check that the %s model %q is installed and reachable.", backend, model)
}
