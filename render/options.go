package render

import (
	"fmt"
	"strings"
)

// Options controls ToStringReadable. Flags combine with bitwise or.
type Options int

const (
	// None renders bare names.
	None Options = 0

	// IncludeNamespace prefixes named types with their namespace.
	IncludeNamespace Options = 1

	// IncludeAssemblyDetails appends the assemblies of every referenced type.
	IncludeAssemblyDetails Options = 2
)

const allOptions = IncludeNamespace | IncludeAssemblyDetails

// Has reports whether all flags of o2 are set in o.
func (o Options) Has(o2 Options) bool {
	return o&o2 == o2
}

// String returns the flags joined with '|', or "None".
func (o Options) String() string {
	if o == None {
		return "None"
	}
	var parts []string
	if o.Has(IncludeNamespace) {
		parts = append(parts, "IncludeNamespace")
	}
	if o.Has(IncludeAssemblyDetails) {
		parts = append(parts, "IncludeAssemblyDetails")
	}
	if rest := o &^ allOptions; rest != 0 {
		parts = append(parts, fmt.Sprintf("Options(%d)", int(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseOptions parses a '|' or ',' separated list of flag names as produced by
// String. Names are case-insensitive; "namespace" and "assembly" are accepted
// as short forms.
func ParseOptions(s string) (Options, error) {
	var o Options
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ','
	})
	for _, f := range fields {
		switch strings.ToLower(strings.TrimSpace(f)) {
		case "", "none":
		case "includenamespace", "namespace":
			o |= IncludeNamespace
		case "includeassemblydetails", "assembly":
			o |= IncludeAssemblyDetails
		default:
			return None, fmt.Errorf("render: unknown option %q", strings.TrimSpace(f))
		}
	}
	return o, nil
}
