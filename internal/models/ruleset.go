package models

import "strings"

// Rule is a single natural-language constraint applied to generated responses
type Rule struct {
	Value string `yaml:"value" toml:"value" json:"value"`
}

// Ruleset groups rules under a name (e.g. "tone", "format")
type Ruleset struct {
	Name  string `yaml:"name" toml:"name" json:"name"`
	Rules []Rule `yaml:"rules" toml:"rules" json:"rules"`
}

// NewRuleset builds a ruleset from plain rule strings
func NewRuleset(name string, rules ...string) Ruleset {
	rs := Ruleset{Name: name, Rules: make([]Rule, 0, len(rules))}
	for _, r := range rules {
		rs.Rules = append(rs.Rules, Rule{Value: r})
	}
	return rs
}

// Render formats the ruleset as a prompt section
func (r Ruleset) Render() string {
	var sb strings.Builder
	sb.WriteString("Ruleset name: ")
	sb.WriteString(r.Name)
	sb.WriteString("\n")
	for i, rule := range r.Rules {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("- ")
		sb.WriteString(rule.Value)
	}
	return sb.String()
}
