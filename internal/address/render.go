// File: internal/address/render.go
package address

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/xkilldash9x/petition-cli/internal/locale"
)

// Control names of the rendered address group. They double as the field
// names of the signature payload.
const (
	CountryField    = "country_code"
	CityField       = "city"
	StateField      = "state_code"
	PostalCodeField = "postal_code"
)

// Placeholders shown as the first, empty-valued option of each select.
const (
	CountryPlaceholder = "Country"
	StatePlaceholder   = "State"
)

var groupTemplate = template.Must(template.New("address").Parse(
	`<div class="js-address-fields">` +
		`<div class="control-group"><div class="control"><div class="input"><div class="form-select">` +
		`<select name="{{.CountryField}}" autocomplete="country-name">` +
		`<option value="">{{.CountryPlaceholder}}</option>` +
		`{{range .Countries}}<option value="{{.Code}}">{{.Name}}</option>{{end}}` +
		`</select></div></div></div></div>` +
		`<div class="control-group"><div class="control"><div class="input">` +
		`<input placeholder="City" value="" name="{{.CityField}}" type="text">` +
		`</div></div></div>` +
		`<div class="control-group"><div class="control"><div class="input"><div class="form-select">` +
		`<select autocomplete="state" name="{{.StateField}}" style="display: none;"></select>` +
		`</div></div></div></div>` +
		`<div class="control-group"><div class="control"><div class="input">` +
		`<input placeholder="Postal code" value="" name="{{.PostalCodeField}}" type="text" style="display: none;">` +
		`</div></div></div>` +
		`</div>`))

var optionsTemplate = template.Must(template.New("options").Parse(
	`<option value="">{{.Placeholder}}</option>{{range .Options}}<option>{{.}}</option>{{end}}`))

// Render returns the markup of the address group: a country select sorted by
// display name, a city input, and a hidden, empty state select and postal
// code input. It has no side effects.
func Render(table *locale.Table) (string, error) {
	var buf bytes.Buffer
	err := groupTemplate.Execute(&buf, struct {
		CountryField, CityField, StateField, PostalCodeField string
		CountryPlaceholder                                   string
		Countries                                            []locale.Country
	}{
		CountryField:       CountryField,
		CityField:          CityField,
		StateField:         StateField,
		PostalCodeField:    PostalCodeField,
		CountryPlaceholder: CountryPlaceholder,
		Countries:          table.SortedCountries(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render address fields: %w", err)
	}
	return buf.String(), nil
}

// RenderSubRegionOptions returns the option list of the state select: the
// placeholder followed by the codes in the given order.
func RenderSubRegionOptions(codes []string) (string, error) {
	var buf bytes.Buffer
	err := optionsTemplate.Execute(&buf, struct {
		Placeholder string
		Options     []string
	}{Placeholder: StatePlaceholder, Options: codes})
	if err != nil {
		return "", fmt.Errorf("failed to render state options: %w", err)
	}
	return buf.String(), nil
}
