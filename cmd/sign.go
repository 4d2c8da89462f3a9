// File: cmd/sign.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/petition-cli/internal/augment"
	"github.com/xkilldash9x/petition-cli/internal/browser"
	"github.com/xkilldash9x/petition-cli/internal/config"
	"github.com/xkilldash9x/petition-cli/internal/network"
	"github.com/xkilldash9x/petition-cli/internal/observability"
	"github.com/xkilldash9x/petition-cli/internal/page"
	"github.com/xkilldash9x/petition-cli/internal/signature"
)

// sourceOptions select where a page is loaded from.
type sourceOptions struct {
	file    string
	browser bool
}

func (o *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.file, "file", "", "read a saved copy of the page instead of fetching it")
	cmd.Flags().BoolVar(&o.browser, "browser", false, "render the page in headless Chrome before reading it")
	cmd.MarkFlagsMutuallyExclusive("file", "browser")
}

func (o *sourceOptions) source(cfg *config.Config, jar http.CookieJar, client page.Doer, logger *zap.Logger) page.Source {
	switch {
	case o.file != "":
		return &page.FileSource{Path: o.file, Logger: logger}
	case o.browser:
		return &browser.Source{Config: cfg.Browser, Jar: jar, Logger: logger}
	default:
		return &page.HTTPSource{Client: client, Logger: logger}
	}
}

func newSignCmd(v *viper.Viper) *cobra.Command {
	var (
		src     sourceOptions
		actions augment.Actions
	)

	signCmd := &cobra.Command{
		Use:   "sign [petition URL]",
		Short: "Sign a petition as the user the page identifies.",
		Long: `Loads the petition page, completes the address fields and submits the
signature through the host's signature API. Profile values missing from
the form are taken from the page's host state.`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			for key, name := range map[string]string{
				"submit.dry_run":          "dry-run",
				"submit.dedupe_in_flight": "dedupe",
				"submit.base_url":         "base-url",
			} {
				if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
					return fmt.Errorf("error binding flag %s: %w", name, err)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				return err
			}
			return runSign(cmd.Context(), cmd.OutOrStdout(), cfg, src, actions, args[0])
		},
	}

	src.register(signCmd)
	flags := signCmd.Flags()
	flags.BoolVar(&actions.ExpandAddress, "address", false, "expand the address section even if no address flag is given")
	flags.StringVar(&actions.Country, "country", "", "country code to select, e.g. US")
	flags.StringVar(&actions.State, "state", "", "state or province code to select")
	flags.StringVar(&actions.PostalCode, "postal-code", "", "postal code to enter")
	flags.StringVar(&actions.City, "city", "", "city to enter")
	flags.StringVar(&actions.FirstName, "first-name", "", "first name to enter")
	flags.StringVar(&actions.LastName, "last-name", "", "last name to enter")
	flags.StringVar(&actions.Email, "email", "", "email address to enter")
	flags.StringVar(&actions.MarketingConsent, "marketing-consent", "", "value of the marketing consent option to check")
	flags.BoolVar(&actions.ShareInfo, "share-info", false, "check the share info box")
	flags.BoolVar(&actions.NotPublic, "not-public", false, "check the box that hides the signature")
	flags.Bool("dry-run", false, "print the signature request instead of sending it")
	flags.Bool("dedupe", false, "share one request between concurrent submissions")
	flags.String("base-url", "", "scheme and host of the signature API")

	return signCmd
}

func runSign(ctx context.Context, out io.Writer, cfg *config.Config, src sourceOptions, actions augment.Actions, pageURL string) error {
	logger := observability.GetLogger().Named("sign")

	clientCfg, err := network.ClientConfigFromConfig(cfg.Network, logger)
	if err != nil {
		return err
	}
	client := network.NewClient(clientCfg)

	p, err := src.source(cfg, client.Jar, client, logger).Load(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	reporter := &cliReporter{out: out}
	session, err := augment.Attach(ctx, p, augment.Deps{
		Client:    client,
		Navigator: reporter,
		Notifier:  reporter,
		Submit:    cfg.Submit,
		Preview:   reporter.Preview,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if err := session.Perform(ctx, actions); err != nil {
		return err
	}
	if err := session.ClickSubmit(ctx); err != nil {
		return err
	}
	return reporter.outcome()
}

// cliReporter stands in for the browser window: redirects and
// notifications are printed instead of shown.
type cliReporter struct {
	out io.Writer

	mu         sync.Mutex
	redirectTo string
	previewed  bool
	failure    string
}

func (r *cliReporter) Navigate(ctx context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirectTo = url
	_, err := fmt.Fprintf(r.out, "Signed. Continue at %s\n", url)
	return err
}

func (r *cliReporter) Notify(ctx context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure = message
	fmt.Fprintf(r.out, "Signing failed: %s\n", message)
}

// requestPreview is the printed form of a signature request.
type requestPreview struct {
	Attempt string            `json:"attempt" yaml:"attempt"`
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Body    signature.Payload `json:"body" yaml:"body"`
}

func (r *cliReporter) Preview(ctx context.Context, a *signature.Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.previewed = true

	h := a.Headers()
	headers := make(map[string]string, len(h))
	for k := range h {
		headers[k] = h.Get(k)
	}
	preview := requestPreview{
		Attempt: a.ID.String(),
		Method:  http.MethodPost,
		URL:     a.Endpoint,
		Headers: headers,
		Body:    a.Payload,
	}
	if err := writeStructured(r.out, formatJSON, preview); err != nil {
		r.failure = err.Error()
	}
}

var errNoOutcome = errors.New("submission produced neither a redirect nor an error")

func (r *cliReporter) outcome() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.failure != "":
		return fmt.Errorf("signing failed: %s", r.failure)
	case r.redirectTo != "", r.previewed:
		return nil
	default:
		return errNoOutcome
	}
}
