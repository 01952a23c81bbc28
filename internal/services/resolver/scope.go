package resolver

import "cargomail/internal/models"

// Scope is the tagged form of a category or service constraint. The storage
// layer keeps the "*" sentinel for compatibility with the configuration UI;
// everything in the matching path works on Scope so precedence comparisons
// stay exhaustive and a literal category named "*" cannot leak in.
type Scope struct {
	all  bool
	name string
}

// ScopeAll matches any value.
var ScopeAll = Scope{all: true}

// ScopeOf parses a stored constraint. Empty strings and the wildcard sentinel
// both mean "applies to all".
func ScopeOf(value string) Scope {
	if value == "" || value == models.Wildcard {
		return ScopeAll
	}
	return Scope{name: value}
}

func (s Scope) IsAll() bool { return s.all }

// Matches reports whether a rule constraint admits the requested value. An
// unspecified request value only matches wildcard rules; it is never treated
// as "anything goes" on the rule side.
func (s Scope) Matches(requested Scope) bool {
	if s.all {
		return true
	}
	if requested.all {
		return false
	}
	return s.name == requested.name
}

// String renders the storage form.
func (s Scope) String() string {
	if s.all {
		return models.Wildcard
	}
	return s.name
}

// specificity ranks a rule: exact category and service beats exact category
// with wildcard service, which beats wildcard category with exact service,
// which beats double wildcard.
func specificity(category, service Scope) int {
	score := 0
	if !category.IsAll() {
		score += 2
	}
	if !service.IsAll() {
		score++
	}
	return score
}
