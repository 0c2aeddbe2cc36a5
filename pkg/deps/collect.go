package deps

import "sort"

// Collect merges both declaration groups into one mapping keyed by name.
//
// The packages group is applied first and the onchain group second, so a
// name declared in both resolves to its onchain scheme. Schemes are copied
// as-is. A nil or empty declaration set yields an empty map.
func Collect(d *Declarations) map[string]Scheme {
	schemes := make(map[string]Scheme, d.Len())
	if d == nil {
		return schemes
	}
	for _, group := range [][]Declaration{d.Packages, d.Onchain} {
		for _, decl := range group {
			schemes[decl.Name] = decl.Scheme
		}
	}
	return schemes
}

// Overrides returns, sorted, the names declared in both groups.
// Collect keeps the onchain scheme for each of them.
func Overrides(d *Declarations) []string {
	if d == nil {
		return nil
	}
	seen := make(map[string]bool, len(d.Packages))
	for _, decl := range d.Packages {
		seen[decl.Name] = true
	}
	var names []string
	for _, decl := range d.Onchain {
		if seen[decl.Name] {
			names = append(names, decl.Name)
		}
	}
	sort.Strings(names)
	return names
}
