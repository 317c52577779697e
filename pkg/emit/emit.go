// Package emit renders rule sets into client-specific file formats.
package emit

import (
	"rulegen/pkg/ruleset"
)

// Emitter serializes one RuleSet into one output format.
type Emitter interface {
	// Name is the format identifier used in configuration.
	Name() string
	// Filename is the output file name within a category directory.
	Filename() string
	// Render produces the complete file contents. Output is
	// byte-deterministic for identical input sets.
	Render(set *ruleset.RuleSet) ([]byte, error)
}

// All lists every registered emitter in output order.
var All = []Emitter{
	Adblock{},
	ClassicalYAML{},
	ClassicalText{},
	DomainYAML{},
	DomainText{},
	IPCIDRYAML{},
	IPCIDRText{},
	Singbox{},
	Loon{},
}

var byName = func() map[string]Emitter {
	m := make(map[string]Emitter, len(All))
	for _, e := range All {
		m[e.Name()] = e
	}
	return m
}()

// ByName looks up an emitter by its format name.
func ByName(name string) (Emitter, bool) {
	e, ok := byName[name]
	return e, ok
}

// Names returns all registered format names in output order.
func Names() []string {
	names := make([]string, 0, len(All))
	for _, e := range All {
		names = append(names, e.Name())
	}
	return names
}
