package domain

// RuleSet maps field-path patterns to rules, remembering insertion order so
// wildcard fallback is deterministic.
type RuleSet struct {
	patterns []string
	rules    map[string]FieldRule
}

// NewRuleSet creates an empty rule set
func NewRuleSet() *RuleSet {
	return &RuleSet{rules: make(map[string]FieldRule)}
}

// Set adds or replaces the rule for a pattern. Replacing keeps the original
// position of the pattern.
func (rs *RuleSet) Set(pattern string, rule FieldRule) *RuleSet {
	if rule == nil {
		return rs
	}
	if _, exists := rs.rules[pattern]; !exists {
		rs.patterns = append(rs.patterns, pattern)
	}
	rs.rules[pattern] = rule
	return rs
}

// Remove deletes a pattern from the set
func (rs *RuleSet) Remove(pattern string) {
	if _, exists := rs.rules[pattern]; !exists {
		return
	}
	delete(rs.rules, pattern)
	for i, p := range rs.patterns {
		if p == pattern {
			rs.patterns = append(rs.patterns[:i], rs.patterns[i+1:]...)
			break
		}
	}
}

// Get returns the rule registered under exactly this pattern
func (rs *RuleSet) Get(pattern string) (FieldRule, bool) {
	if rs == nil {
		return nil, false
	}
	rule, ok := rs.rules[pattern]
	return rule, ok
}

// Patterns returns the patterns in insertion order
func (rs *RuleSet) Patterns() []string {
	if rs == nil {
		return nil
	}
	out := make([]string, len(rs.patterns))
	copy(out, rs.patterns)
	return out
}

// Len returns the number of patterns
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.patterns)
}

// Clone returns an independent copy. Rules are values so a shallow copy of
// the map is enough.
func (rs *RuleSet) Clone() *RuleSet {
	out := NewRuleSet()
	if rs == nil {
		return out
	}
	for _, p := range rs.patterns {
		out.Set(p, rs.rules[p])
	}
	return out
}
