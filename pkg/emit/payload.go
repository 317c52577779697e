package emit

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// marshalPayload renders the standard payload document consumed by Clash
// style rule providers. Items are single-quoted so values containing
// commas never need downstream guessing; an empty list renders as
// `payload: []`, which stays a valid document.
func marshalPayload(lines []string) ([]byte, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(lines) == 0 {
		seq.Style = yaml.FlowStyle
	}
	for _, line := range lines {
		seq.Content = append(seq.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Style: yaml.SingleQuotedStyle,
			Value: line,
		})
	}

	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "payload"},
			seq,
		},
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return out, nil
}
