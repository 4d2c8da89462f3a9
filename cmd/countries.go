// File: cmd/countries.go
package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/petition-cli/internal/locale"
)

// countryRule is the printed form of one country's address rule.
type countryRule struct {
	Code               string   `json:"code" yaml:"code"`
	Name               string   `json:"name" yaml:"name"`
	PostalCodeRequired bool     `json:"postal_code_required" yaml:"postal_code_required"`
	GDPRRequired       bool     `json:"gdpr_required" yaml:"gdpr_required"`
	SubRegions         []string `json:"sub_regions,omitempty" yaml:"sub_regions,omitempty"`
}

func newCountriesCmd() *cobra.Command {
	var output string

	countriesCmd := &cobra.Command{
		Use:   "countries [code]",
		Short: "List the countries the address selector offers, or show one country's rule.",
		Args:  cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			table := locale.Default()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				countries := table.SortedCountries()
				if output == formatText {
					return writeCountriesText(out, countries)
				}
				return writeStructured(out, output, countries)
			}

			code := strings.ToUpper(args[0])
			name, ok := table.Name(code)
			if !ok {
				return fmt.Errorf("unknown country code %q", args[0])
			}
			rule := table.Lookup(code)
			view := countryRule{
				Code:               code,
				Name:               name,
				PostalCodeRequired: rule.PostalCodeRequired,
				GDPRRequired:       rule.GDPRRequired,
				SubRegions:         rule.SubRegionOptions,
			}
			if output == formatText {
				return writeRuleText(out, view)
			}
			return writeStructured(out, output, view)
		},
	}

	countriesCmd.Flags().StringVarP(&output, "output", "o", formatText, "output format (text, json, yaml)")
	return countriesCmd
}

func writeCountriesText(w io.Writer, countries []locale.Country) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range countries {
		fmt.Fprintf(tw, "%s\t%s\n", c.Code, c.Name)
	}
	return tw.Flush()
}

func writeRuleText(w io.Writer, r countryRule) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Country\t%s (%s)\n", r.Name, r.Code)
	fmt.Fprintf(tw, "Postal code\t%s\n", requiredLabel(r.PostalCodeRequired))
	fmt.Fprintf(tw, "GDPR consent\t%s\n", requiredLabel(r.GDPRRequired))
	if len(r.SubRegions) == 0 {
		fmt.Fprintf(tw, "Sub-regions\tnone\n")
	} else {
		fmt.Fprintf(tw, "Sub-regions\t%s\n", strings.Join(r.SubRegions, " "))
	}
	return tw.Flush()
}

func requiredLabel(b bool) string {
	if b {
		return "required"
	}
	return "not required"
}
