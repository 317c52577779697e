package emit

import "rulegen/pkg/ruleset"

// Adblock emits one ||domain^ directive per line. Keywords and CIDRs are
// excluded: AdBlock syntax only addresses whole hostnames.
type Adblock struct{}

func (Adblock) Name() string     { return "adblock" }
func (Adblock) Filename() string { return "adblock.txt" }

func (Adblock) Render(set *ruleset.RuleSet) ([]byte, error) {
	lines := make([]string, 0, len(set.Domains))
	for _, d := range set.Domains {
		lines = append(lines, "||"+d+"^")
	}
	return []byte(joinLines(lines)), nil
}

// DomainYAML emits the bare domain list as a payload document. This is the
// input the external MRS converter consumes.
type DomainYAML struct{}

func (DomainYAML) Name() string     { return "domain-yaml" }
func (DomainYAML) Filename() string { return "domain.yaml" }

func (DomainYAML) Render(set *ruleset.RuleSet) ([]byte, error) {
	return marshalPayload(set.Domains)
}

// DomainText emits bare domains, one per line.
type DomainText struct{}

func (DomainText) Name() string     { return "domain-text" }
func (DomainText) Filename() string { return "domain.txt" }

func (DomainText) Render(set *ruleset.RuleSet) ([]byte, error) {
	return []byte(joinLines(set.Domains)), nil
}

// IPCIDRYAML emits the bare CIDR list as a payload document.
type IPCIDRYAML struct{}

func (IPCIDRYAML) Name() string     { return "ipcidr-yaml" }
func (IPCIDRYAML) Filename() string { return "ipcidr.yaml" }

func (IPCIDRYAML) Render(set *ruleset.RuleSet) ([]byte, error) {
	return marshalPayload(set.CIDRs)
}

// IPCIDRText emits bare CIDRs, one per line.
type IPCIDRText struct{}

func (IPCIDRText) Name() string     { return "ipcidr-text" }
func (IPCIDRText) Filename() string { return "ipcidr.txt" }

func (IPCIDRText) Render(set *ruleset.RuleSet) ([]byte, error) {
	return []byte(joinLines(set.CIDRs)), nil
}
