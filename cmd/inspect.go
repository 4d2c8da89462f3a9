// File: cmd/inspect.go
package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/petition-cli/internal/address"
	"github.com/xkilldash9x/petition-cli/internal/config"
	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/hoststate"
	"github.com/xkilldash9x/petition-cli/internal/network"
	"github.com/xkilldash9x/petition-cli/internal/observability"
	"github.com/xkilldash9x/petition-cli/internal/page"
	"github.com/xkilldash9x/petition-cli/internal/resolver"
	"github.com/xkilldash9x/petition-cli/internal/signature"
)

// inspectReport is what inspect prints about a page.
type inspectReport struct {
	URL       string            `json:"url" yaml:"url"`
	Variant   string            `json:"variant" yaml:"variant"`
	Container string            `json:"container,omitempty" yaml:"container,omitempty"`
	Fields    map[string]string `json:"fields" yaml:"fields"`
	Missing   []string          `json:"missing" yaml:"missing"`
	Anchors   anchorReport      `json:"anchors" yaml:"anchors"`
}

type anchorReport struct {
	AddressTrigger bool `json:"address_trigger" yaml:"address_trigger"`
	SignForm       bool `json:"sign_form" yaml:"sign_form"`
	SubmitButton   bool `json:"submit_button" yaml:"submit_button"`
}

func newInspectCmd(v *viper.Viper) *cobra.Command {
	var (
		src    sourceOptions
		output string
	)

	inspectCmd := &cobra.Command{
		Use:   "inspect [petition URL]",
		Short: "Show the host state and form anchors a page exposes.",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(output)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}
			logger := observability.GetLogger().Named("inspect")

			clientCfg, err := network.ClientConfigFromConfig(cfg.Network, logger)
			if err != nil {
				return err
			}
			client := network.NewClient(clientCfg)

			p, err := src.source(cfg, client.Jar, client, logger).Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load page: %w", err)
			}
			report, err := inspectPage(p, logger)
			if err != nil {
				return err
			}
			if output == formatText {
				return writeInspectText(cmd.OutOrStdout(), report)
			}
			return writeStructured(cmd.OutOrStdout(), output, report)
		},
	}

	src.register(inspectCmd)
	inspectCmd.Flags().StringVarP(&output, "output", "o", formatText, "output format (text, json, yaml)")
	return inspectCmd
}

// inspectPage summarizes a page. A page without host state is reported, not
// rejected; a malformed container is an error.
func inspectPage(p *page.Page, logger *zap.Logger) (*inspectReport, error) {
	doc := p.Document
	report := &inspectReport{
		URL:     p.URL,
		Variant: hoststate.VariantNone.String(),
		Fields:  map[string]string{},
		Missing: []string{},
		Anchors: anchorReport{
			AddressTrigger: hasAnchor(doc, address.TriggerSelectors...),
			SignForm:       hasAnchor(doc, signature.FormSelectors...),
			SubmitButton:   hasAnchor(doc, signature.SubmitSelector),
		},
	}

	state, err := hoststate.Locate(doc, logger)
	switch {
	case errors.Is(err, hoststate.ErrNoHostState):
		for _, f := range resolver.AllFields {
			report.Missing = append(report.Missing, string(f))
		}
		return report, nil
	case err != nil:
		return nil, err
	}

	report.Variant = state.Variant().String()
	report.Container = state.Source()
	resolved := resolver.ResolveAll(state)
	for _, f := range resolver.AllFields {
		if val, ok := resolved[f]; ok {
			report.Fields[string(f)] = val
		} else {
			report.Missing = append(report.Missing, string(f))
		}
	}
	return report, nil
}

func hasAnchor(doc *dom.Document, selectors ...string) bool {
	_, err := doc.FindFirst(selectors...)
	return err == nil
}

func writeInspectText(w io.Writer, r *inspectReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "URL\t%s\n", r.URL)
	fmt.Fprintf(tw, "Variant\t%s\n", r.Variant)
	if r.Container != "" {
		fmt.Fprintf(tw, "Container\t%s\n", r.Container)
	}
	for _, f := range resolver.AllFields {
		if val, ok := r.Fields[string(f)]; ok {
			fmt.Fprintf(tw, "%s\t%q\n", f, val)
		} else {
			fmt.Fprintf(tw, "%s\t-\n", f)
		}
	}
	fmt.Fprintf(tw, "address trigger\t%t\n", r.Anchors.AddressTrigger)
	fmt.Fprintf(tw, "sign form\t%t\n", r.Anchors.SignForm)
	fmt.Fprintf(tw, "submit button\t%t\n", r.Anchors.SubmitButton)
	return tw.Flush()
}
