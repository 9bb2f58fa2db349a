package normalize

import (
	"maps"
	"slices"

	"github.com/heartmarshall/anime-ingest/internal/domain"
)

// Rule names a rejection rule. Values are used as summary keys.
type Rule string

const (
	RuleDuplicate     Rule = "duplicate_title"
	RuleMusic         Rule = "music"
	RuleInvalidType   Rule = "invalid_type"
	RuleNoStudio      Rule = "no_studio"
	RuleUnknownStudio Rule = "unknown_studio"
	RuleBannedTag     Rule = "banned_genre_theme"
	RuleNoTags        Rule = "no_tags"
)

// State is the per-run memory of the normalizer: titles already seen and
// the rejections recorded so far. It is not safe for concurrent use.
type State struct {
	seen     map[string]struct{}
	skipped  []domain.SkipReason
	byRule   map[Rule]int
	accepted int
}

// NewState returns an empty run state.
func NewState() *State {
	return &State{
		seen:   make(map[string]struct{}),
		byRule: make(map[Rule]int),
	}
}

// claim records title as seen and reports whether it was new.
func (s *State) claim(title string) bool {
	if _, ok := s.seen[title]; ok {
		return false
	}
	s.seen[title] = struct{}{}
	return true
}

func (s *State) reject(rule Rule, reason domain.SkipReason) *domain.SkipReason {
	s.skipped = append(s.skipped, reason)
	s.byRule[rule]++
	return &reason
}

// Skipped returns the rejections in the order they happened.
func (s *State) Skipped() []domain.SkipReason {
	return slices.Clone(s.skipped)
}

// Accepted returns how many records passed every rule.
func (s *State) Accepted() int { return s.accepted }

// Rejected returns how many records were rejected.
func (s *State) Rejected() int { return len(s.skipped) }

// ByRule returns rejection counts keyed by rule.
func (s *State) ByRule() map[Rule]int {
	return maps.Clone(s.byRule)
}
