// Package ruleset builds normalized rule sets from raw domain and IP lists.
package ruleset

// Kind classifies a parsed entry.
type Kind int

const (
	// KindDomain is a dotted hostname matched by suffix.
	KindDomain Kind = iota
	// KindKeyword is a dot-less token matched anywhere in a hostname.
	KindKeyword
	// KindCIDR is an IP prefix. Plain addresses are stored as
	// single-address prefixes (/32 or /128).
	KindCIDR
)

func (k Kind) String() string {
	switch k {
	case KindDomain:
		return "domain"
	case KindKeyword:
		return "keyword"
	case KindCIDR:
		return "cidr"
	default:
		return "unknown"
	}
}

// Entry is a single rule target parsed from an input line.
type Entry struct {
	Raw  string
	Text string
	Kind Kind
}

// ParseStats summarises list parsing results.
type ParseStats struct {
	TotalLines int
	Domains    int
	Keywords   int
	CIDRs      int
	Invalid    int
}
