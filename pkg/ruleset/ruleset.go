package ruleset

import (
	"sort"
	"strings"
)

// RuleSet is the normalized result of processing one category: exact-unique
// entries partitioned by kind, domains collapsed onto their broadest suffix,
// each partition sorted for deterministic output.
type RuleSet struct {
	Category string
	Domains  []string
	Keywords []string
	CIDRs    []string
}

// Empty reports whether the set holds no entries of any kind.
func (s *RuleSet) Empty() bool {
	return len(s.Domains) == 0 && len(s.Keywords) == 0 && len(s.CIDRs) == 0
}

// Size returns the total number of entries across all kinds.
func (s *RuleSet) Size() int {
	return len(s.Domains) + len(s.Keywords) + len(s.CIDRs)
}

type builder struct {
	category string
	domains  map[string]struct{}
	keywords map[string]struct{}
	cidrs    map[string]struct{}
}

func newBuilder(category string) *builder {
	return &builder{
		category: category,
		domains:  make(map[string]struct{}),
		keywords: make(map[string]struct{}),
		cidrs:    make(map[string]struct{}),
	}
}

func (b *builder) add(e Entry) {
	switch e.Kind {
	case KindDomain:
		b.domains[e.Text] = struct{}{}
	case KindKeyword:
		b.keywords[e.Text] = struct{}{}
	case KindCIDR:
		b.cidrs[e.Text] = struct{}{}
	}
}

func (b *builder) build() *RuleSet {
	return &RuleSet{
		Category: b.category,
		Domains:  collapseDomains(b.domains),
		Keywords: sortedKeys(b.keywords),
		CIDRs:    sortedKeys(b.cidrs),
	}
}

// collapseDomains removes every domain already covered by a broader suffix
// in the same set: with example.com present, sub.example.com is redundant
// because all emitted formats carry suffix semantics. Candidates are walked
// broadest first (fewest labels), and a domain survives only if none of its
// proper parent suffixes survived before it.
func collapseDomains(domains map[string]struct{}) []string {
	if len(domains) == 0 {
		return []string{}
	}

	candidates := make([]string, 0, len(domains))
	for d := range domains {
		candidates = append(candidates, d)
	}
	sort.Slice(candidates, func(i, j int) bool {
		li, lj := strings.Count(candidates[i], "."), strings.Count(candidates[j], ".")
		if li != lj {
			return li < lj
		}
		return candidates[i] < candidates[j]
	})

	kept := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, d := range candidates {
		if coveredBy(d, kept) {
			continue
		}
		kept[d] = struct{}{}
		out = append(out, d)
	}

	sort.Strings(out)
	return out
}

// coveredBy reports whether any proper parent suffix of name is in kept.
// Parents stop at the registrable level: a bare TLD never covers anything.
func coveredBy(name string, kept map[string]struct{}) bool {
	labels := strings.Split(name, ".")
	for i := 1; i < len(labels)-1; i++ {
		suffix := strings.Join(labels[i:], ".")
		if _, ok := kept[suffix]; ok {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
