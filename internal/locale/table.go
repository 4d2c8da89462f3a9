// File: internal/locale/table.go
package locale

import (
	"sort"
	"sync"
)

// Country is one entry of the country selector.
type Country struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Rule describes the address controls a country needs.
type Rule struct {
	HasSubRegionList   bool
	SubRegionOptions   []string
	PostalCodeRequired bool
	GDPRRequired       bool
}

// Table is read-only reference data. Accessors return copies.
type Table struct {
	countries  []Country
	names      map[string]string
	subRegions map[string][]string
	postal     map[string]bool
	gdpr       map[string]bool
}

// NewTable builds a table from explicit data. Inputs are copied.
func NewTable(countries []Country, subRegions map[string][]string, postal, gdpr []string) *Table {
	t := &Table{
		countries:  append([]Country(nil), countries...),
		names:      make(map[string]string, len(countries)),
		subRegions: make(map[string][]string, len(subRegions)),
		postal:     setOf(postal...),
		gdpr:       setOf(gdpr...),
	}
	for _, c := range countries {
		t.names[c.Code] = c.Name
	}
	for code, opts := range subRegions {
		t.subRegions[code] = append([]string(nil), opts...)
	}
	return t
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the built-in table.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = &Table{
			countries:  countryEntries,
			names:      make(map[string]string, len(countryEntries)),
			subRegions: subRegions,
			postal:     postalCodeRequired,
			gdpr:       gdprRequired,
		}
		for _, c := range countryEntries {
			defaultTable.names[c.Code] = c.Name
		}
	})
	return defaultTable
}

// Lookup returns the rule for a country code. Unknown codes, including "",
// get the zero rule: no sub-region list and no postal code.
func (t *Table) Lookup(code string) Rule {
	opts, hasList := t.subRegions[code]
	return Rule{
		HasSubRegionList:   hasList,
		SubRegionOptions:   append([]string(nil), opts...),
		PostalCodeRequired: t.postal[code],
		GDPRRequired:       t.gdpr[code],
	}
}

// Name returns the display name of a code.
func (t *Table) Name(code string) (string, bool) {
	name, ok := t.names[code]
	return name, ok
}

// Countries returns the entries in table order.
func (t *Table) Countries() []Country {
	return append([]Country(nil), t.countries...)
}

// SortedCountries returns the entries ordered by display name.
func (t *Table) SortedCountries() []Country {
	return SortCountries(t.countries)
}

// SortCountries orders entries ascending by display name using a byte-wise,
// case-sensitive comparison. Equal names keep their input order.
func SortCountries(in []Country) []Country {
	out := append([]Country(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
