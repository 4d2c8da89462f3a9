// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/observability"
	"github.com/xkilldash9x/petition-cli/internal/page"
)

const fixture = "testdata/petition.html"

// run executes a fresh command tree and returns everything it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	observability.ResetForTest()
	t.Cleanup(observability.ResetForTest)

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// -- Root and Version Tests --

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "petition version "+Version)
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "petition version "+Version+"\n", out)
}

func TestRootCmd_MissingExplicitConfig(t *testing.T) {
	_, err := run(t, "--config", "testdata/does-not-exist.yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

// -- Countries Tests --

func TestCountriesCmd(t *testing.T) {
	t.Run("lists sorted countries", func(t *testing.T) {
		out, err := run(t, "countries")
		require.NoError(t, err)
		assert.Regexp(t, `(?m)^US\s+United States$`, out)
		assert.Less(t, bytes.Index([]byte(out), []byte("Afghanistan")), bytes.Index([]byte(out), []byte("Zimbabwe")))
	})

	t.Run("shows one rule as json", func(t *testing.T) {
		out, err := run(t, "countries", "de", "-o", "json")
		require.NoError(t, err)

		var rule countryRule
		require.NoError(t, jsoniter.UnmarshalFromString(out, &rule))
		assert.Equal(t, countryRule{Code: "DE", Name: "Germany", PostalCodeRequired: true, GDPRRequired: true}, rule)
	})

	t.Run("shows sub-regions as text", func(t *testing.T) {
		out, err := run(t, "countries", "US")
		require.NoError(t, err)
		assert.Contains(t, out, "United States (US)")
		assert.Contains(t, out, "AL AK AZ")
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := run(t, "countries", "QQ")
		assert.ErrorContains(t, err, `unknown country code "QQ"`)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := run(t, "countries", "-o", "xml")
		assert.ErrorContains(t, err, "unsupported output format")
	})
}

// -- Inspect Tests --

func TestInspectCmd(t *testing.T) {
	t.Run("yaml report of a saved page", func(t *testing.T) {
		out, err := run(t, "inspect", "--file", fixture, "-o", "yaml", "https://www.change.org/p/save-the-trees")
		require.NoError(t, err)

		var report inspectReport
		require.NoError(t, yaml.Unmarshal([]byte(out), &report))
		assert.Equal(t, "ClientState", report.Variant)
		assert.Equal(t, "clientData", report.Container)
		assert.Equal(t, "42", report.Fields["petition_id"])
		assert.Equal(t, "T1", report.Fields["csrf_token"])
		assert.Empty(t, report.Missing)
		assert.Equal(t, anchorReport{AddressTrigger: true, SignForm: true, SubmitButton: true}, report.Anchors)
	})

	t.Run("page without host state is reported", func(t *testing.T) {
		out, err := run(t, "inspect", "--file", "testdata/no-state.html", "-o", "json", "https://example.com/")
		require.NoError(t, err)

		var report inspectReport
		require.NoError(t, jsoniter.UnmarshalFromString(out, &report))
		assert.Equal(t, "None", report.Variant)
		assert.Len(t, report.Missing, 8)
		assert.False(t, report.Anchors.SignForm)
	})

	t.Run("text output", func(t *testing.T) {
		out, err := run(t, "inspect", "--file", fixture, "https://www.change.org/p/save-the-trees")
		require.NoError(t, err)
		assert.Regexp(t, `(?m)^petition_id\s+"42"$`, out)
		assert.Regexp(t, `(?m)^submit button\s+true$`, out)
	})

	t.Run("file and browser are exclusive", func(t *testing.T) {
		_, err := run(t, "inspect", "--file", fixture, "--browser", "https://example.com/")
		assert.Error(t, err)
	})
}

func TestInspectPage_WarnsAboutSecondContainer(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	doc, err := dom.ParseString(`<html><head>
		<script type="application/json" id="app-data">{"apolloState":{"Petition:7":{}}}</script>
		<script type="application/json" id="clientData">{"appData":{"csrfToken":"T1"}}</script>
		</head><body></body></html>`, zap.NewNop())
	require.NoError(t, err)

	report, err := inspectPage(&page.Page{URL: "https://example.com/p/x", Document: doc}, zap.New(core))
	require.NoError(t, err)
	assert.Equal(t, "ClientState", report.Variant)
	assert.Equal(t, "T1", report.Fields["csrf_token"])
	assert.Equal(t, 1, logs.FilterMessageSnippet("more than one host state container").Len())
}

// -- Sign Tests --

type signatureAPI struct {
	*httptest.Server
	mu   sync.Mutex
	hits int
	path string
	body map[string]any
}

func newSignatureAPI(t *testing.T, status int, response string) *signatureAPI {
	t.Helper()
	api := &signatureAPI{}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.hits++
		api.path = r.URL.Path
		_ = jsoniter.Unmarshal(raw, &api.body)
		api.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(api.Close)
	return api
}

func TestSignCmd(t *testing.T) {
	t.Run("signs with the page identity and the given address", func(t *testing.T) {
		api := newSignatureAPI(t, http.StatusOK, `{"redirect_to":"https://www.change.org/p/x/share"}`)

		out, err := run(t, "sign", "--file", fixture, "--base-url", api.URL,
			"--country", "US", "--state", "NY", "--postal-code", "10001",
			"--marketing-consent", "true", "--share-info",
			"https://www.change.org/p/save-the-trees")
		require.NoError(t, err)
		assert.Contains(t, out, "Signed. Continue at https://www.change.org/p/x/share")

		api.mu.Lock()
		defer api.mu.Unlock()
		assert.Equal(t, 1, api.hits)
		assert.Equal(t, "/api-proxy/-/signatures/42", api.path)
		assert.Equal(t, "A", api.body["first_name"], "empty form value falls back to host state")
		assert.Equal(t, "Doe", api.body["last_name"])
		assert.Equal(t, "NY", api.body["state_code"])
		assert.Equal(t, "10001", api.body["postal_code"])
		assert.Equal(t, true, api.body["marketing_comms_consent"])
		assert.Equal(t, true, api.body["share_info"])
		assert.Equal(t, true, api.body["public"])
	})

	t.Run("dry run prints the request", func(t *testing.T) {
		api := newSignatureAPI(t, http.StatusOK, `{}`)

		out, err := run(t, "sign", "--file", fixture, "--base-url", api.URL, "--dry-run",
			"https://www.change.org/p/save-the-trees")
		require.NoError(t, err)

		var preview requestPreview
		require.NoError(t, jsoniter.UnmarshalFromString(out, &preview))
		assert.Equal(t, http.MethodPost, preview.Method)
		assert.Equal(t, api.URL+"/api-proxy/-/signatures/42", preview.URL)
		assert.Equal(t, "T1", preview.Headers["X-Csrf-Token"])
		assert.Equal(t, "https://www.change.org/p/save-the-trees", preview.Headers["Referer"])
		assert.Equal(t, "42", preview.Body["petition_id"])

		api.mu.Lock()
		defer api.mu.Unlock()
		assert.Zero(t, api.hits)
	})

	t.Run("rejection is shown and returned", func(t *testing.T) {
		api := newSignatureAPI(t, http.StatusUnprocessableEntity, `{"message":"already signed"}`)

		out, err := run(t, "sign", "--file", fixture, "--base-url", api.URL, "https://www.change.org/p/save-the-trees")
		require.Error(t, err)
		assert.Contains(t, out, `Signing failed: {"message":"already signed"}`)
		assert.ErrorContains(t, err, "already signed")
	})

	t.Run("page without host state", func(t *testing.T) {
		_, err := run(t, "sign", "--file", "testdata/no-state.html", "https://example.com/")
		assert.ErrorContains(t, err, "could not locate client or app data")
	})

	t.Run("unknown state option", func(t *testing.T) {
		api := newSignatureAPI(t, http.StatusOK, `{}`)
		_, err := run(t, "sign", "--file", fixture, "--base-url", api.URL,
			"--country", "US", "--state", "ZZ", "https://www.change.org/p/save-the-trees")
		assert.ErrorContains(t, err, `"ZZ"`)
	})
}
