package emit

import (
	"fmt"
	"strings"

	"rulegen/pkg/ruleset"
)

// classicalRules renders the set as prefixed rule strings in the fixed
// order domains, keywords, cidrs. IPv6 prefixes are tagged IP-CIDR6 so
// clients that distinguish the families parse them correctly.
func classicalRules(set *ruleset.RuleSet) []string {
	rules := make([]string, 0, set.Size())
	for _, d := range set.Domains {
		rules = append(rules, "DOMAIN-SUFFIX,"+d)
	}
	for _, k := range set.Keywords {
		rules = append(rules, "DOMAIN-KEYWORD,"+k)
	}
	for _, c := range set.CIDRs {
		if strings.Contains(c, ":") {
			rules = append(rules, "IP-CIDR6,"+c)
		} else {
			rules = append(rules, "IP-CIDR,"+c)
		}
	}
	return rules
}

// header writes the deterministic comment block carried by the classical
// and Loon outputs. No timestamps: regenerating from unchanged input must
// produce byte-identical files.
func header(name string, set *ruleset.RuleSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# NAME: %s\n", name)
	fmt.Fprintf(&b, "# DOMAIN-SUFFIX: %d\n", len(set.Domains))
	fmt.Fprintf(&b, "# DOMAIN-KEYWORD: %d\n", len(set.Keywords))
	fmt.Fprintf(&b, "# IP-CIDR: %d\n", len(set.CIDRs))
	fmt.Fprintf(&b, "# TOTAL: %d\n", set.Size())
	return b.String()
}

// ClassicalYAML emits the full rule list as a Clash classical provider:
// a commented header followed by a payload document.
type ClassicalYAML struct{}

func (ClassicalYAML) Name() string     { return "classical-yaml" }
func (ClassicalYAML) Filename() string { return "classical.yaml" }

func (ClassicalYAML) Render(set *ruleset.RuleSet) ([]byte, error) {
	doc, err := marshalPayload(classicalRules(set))
	if err != nil {
		return nil, err
	}
	return append([]byte(header(set.Category, set)), doc...), nil
}

// ClassicalText emits the same rules without the YAML wrapper or header,
// one prefixed rule per line.
type ClassicalText struct{}

func (ClassicalText) Name() string     { return "classical-text" }
func (ClassicalText) Filename() string { return "classical.txt" }

func (ClassicalText) Render(set *ruleset.RuleSet) ([]byte, error) {
	return []byte(joinLines(classicalRules(set))), nil
}

// Loon emits the rules as a Loon .lsr ruleset.
type Loon struct{}

func (Loon) Name() string     { return "loon" }
func (Loon) Filename() string { return "loon.lsr" }

func (Loon) Render(set *ruleset.RuleSet) ([]byte, error) {
	return []byte(header("LSR-"+set.Category, set) + joinLines(classicalRules(set))), nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
