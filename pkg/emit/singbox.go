package emit

import (
	"encoding/json"
	"fmt"

	"rulegen/pkg/ruleset"
)

// singboxRule mirrors the headless rule object of a sing-box rule-set
// source file. Empty kinds omit their key entirely: the SRS compiler
// rejects rules carrying empty match lists.
type singboxRule struct {
	DomainSuffix  []string `json:"domain_suffix,omitempty"`
	DomainKeyword []string `json:"domain_keyword,omitempty"`
	IPCIDR        []string `json:"ip_cidr,omitempty"`
}

type singboxDocument struct {
	Version int           `json:"version"`
	Rules   []singboxRule `json:"rules"`
}

// Singbox emits a sing-box rule-set source document. This is the input the
// external SRS converter consumes.
type Singbox struct{}

func (Singbox) Name() string     { return "singbox" }
func (Singbox) Filename() string { return "singbox.json" }

func (Singbox) Render(set *ruleset.RuleSet) ([]byte, error) {
	doc := singboxDocument{
		Version: 3,
		Rules:   []singboxRule{},
	}
	if !set.Empty() {
		doc.Rules = append(doc.Rules, singboxRule{
			DomainSuffix:  set.Domains,
			DomainKeyword: set.Keywords,
			IPCIDR:        set.CIDRs,
		})
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rule-set: %w", err)
	}
	return append(out, '\n'), nil
}
