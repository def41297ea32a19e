package models

import "sort"

// Rule names, as reported in rule_result.
const (
	RuleBlacklistedOriginator  = "blackUser"
	RuleBlacklistedDestination = "blackDevice"
	RuleRateExceeded           = "SpawmOver5PerMinute"
)

// RuleNames is the fixed set of rules every verdict carries.
var RuleNames = []string{
	RuleBlacklistedOriginator,
	RuleBlacklistedDestination,
	RuleRateExceeded,
}

// RuleVerdict maps each rule name to whether the transaction violated it.
type RuleVerdict map[string]bool

// NewRuleVerdict returns a verdict with one false entry per known rule.
func NewRuleVerdict() RuleVerdict {
	v := make(RuleVerdict, len(RuleNames))
	for _, name := range RuleNames {
		v[name] = false
	}
	return v
}

// Declined is true when any rule was violated.
func (v RuleVerdict) Declined() bool {
	for _, hit := range v {
		if hit {
			return true
		}
	}
	return false
}

// Violations returns the sorted names of violated rules.
func (v RuleVerdict) Violations() []string {
	var out []string
	for name, hit := range v {
		if hit {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
