// File: internal/locale/table_test.go
package locale

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	table := Default()

	t.Run("US has sub-regions and a postal code", func(t *testing.T) {
		rule := table.Lookup("US")
		assert.True(t, rule.HasSubRegionList)
		assert.True(t, rule.PostalCodeRequired)
		assert.False(t, rule.GDPRRequired)
		require.Len(t, rule.SubRegionOptions, 62)
		assert.Equal(t, "AL", rule.SubRegionOptions[0])
		assert.Equal(t, "AP", rule.SubRegionOptions[61])
	})

	t.Run("Germany needs a postal code and GDPR consent but no sub-region", func(t *testing.T) {
		rule := table.Lookup("DE")
		assert.False(t, rule.HasSubRegionList)
		assert.Empty(t, rule.SubRegionOptions)
		assert.True(t, rule.PostalCodeRequired)
		assert.True(t, rule.GDPRRequired)
	})

	t.Run("unknown and empty codes get the default rule", func(t *testing.T) {
		for _, code := range []string{"", "QQ", "us"} {
			assert.Equal(t, Rule{SubRegionOptions: []string{}}, normalize(table.Lookup(code)), code)
		}
	})

	t.Run("returned options are copies", func(t *testing.T) {
		rule := table.Lookup("US")
		rule.SubRegionOptions[0] = "XX"
		assert.Equal(t, "AL", table.Lookup("US").SubRegionOptions[0])
	})
}

// normalize turns a nil slice into an empty one so zero rules compare equal.
func normalize(r Rule) Rule {
	if r.SubRegionOptions == nil {
		r.SubRegionOptions = []string{}
	}
	return r
}

func TestDefaultTableData(t *testing.T) {
	table := Default()
	countries := table.Countries()
	assert.Len(t, countries, 293)

	seen := make(map[string]bool)
	for _, c := range countries {
		assert.False(t, seen[c.Code], "duplicate code %s", c.Code)
		seen[c.Code] = true
		assert.NotContains(t, c.Name, "&amp;", "names are stored unescaped")
	}

	name, ok := table.Name("AG")
	assert.True(t, ok)
	assert.Equal(t, "Antigua & Barbuda", name)
}

func TestSortCountries(t *testing.T) {
	t.Run("ascending by display name for any input permutation", func(t *testing.T) {
		want := Default().SortedCountries()
		for i := 1; i < len(want); i++ {
			assert.LessOrEqual(t, want[i-1].Name, want[i].Name)
		}

		rng := rand.New(rand.NewSource(7))
		for round := 0; round < 5; round++ {
			shuffled := Default().Countries()
			rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
			if diff := cmp.Diff(want, SortCountries(shuffled)); diff != "" {
				t.Fatalf("sorted order depends on input order (-want +got):\n%s", diff)
			}
		}
	})

	t.Run("comparison is case-sensitive and byte-wise", func(t *testing.T) {
		got := SortCountries([]Country{
			{Code: "b", Name: "bravo"},
			{Code: "A", Name: "Zulu"},
			{Code: "X", Name: "Åland"},
			{Code: "a", Name: "Alpha"},
		})
		assert.Equal(t, []string{"a", "A", "b", "X"}, codes(got))
	})

	t.Run("ties keep table order", func(t *testing.T) {
		got := SortCountries([]Country{
			{Code: "2", Name: "Same"},
			{Code: "1", Name: "Same"},
			{Code: "0", Name: "Earlier"},
		})
		assert.Equal(t, []string{"0", "2", "1"}, codes(got))
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := []Country{{Code: "B", Name: "b"}, {Code: "A", Name: "a"}}
		SortCountries(in)
		assert.Equal(t, "B", in[0].Code)
	})
}

func TestNewTable(t *testing.T) {
	subRegions := map[string][]string{"CA": {"ON", "QC"}}
	table := NewTable(
		[]Country{{Code: "CA", Name: "Canada"}, {Code: "FR", Name: "France"}},
		subRegions,
		[]string{"CA"},
		[]string{"FR"},
	)
	subRegions["CA"][0] = "mutated"

	assert.Equal(t, Rule{HasSubRegionList: true, SubRegionOptions: []string{"ON", "QC"}, PostalCodeRequired: true}, table.Lookup("CA"))
	assert.True(t, table.Lookup("FR").GDPRRequired)
	assert.False(t, table.Lookup("US").HasSubRegionList)
}

func codes(cs []Country) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Code)
	}
	return out
}
