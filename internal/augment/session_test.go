// File: internal/augment/session_test.go
package augment

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/petition-cli/internal/address"
	"github.com/xkilldash9x/petition-cli/internal/config"
	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/hoststate"
	"github.com/xkilldash9x/petition-cli/internal/page"
	"github.com/xkilldash9x/petition-cli/internal/signature"
)

const clientData = `<script type="application/json" id="clientData">{
	"appData": {
		"csrfToken": "T1",
		"currentUser": {"first_name": "A", "last_name": "B", "city": "C", "state_code": "CA", "country_code": "US", "email": "a@b.com"}
	},
	"bootstrapData": {"model": {"summary": {"id": 42}}}
}</script>`

const signForm = `<form name="sign-form">
	<input name="firstName" value="">
	<input name="lastName" value="Doe">
	<button type="button">Edit address</button>
	<input type="checkbox" name="share_info">
	<input type="checkbox" name="not_public">
	<input type="radio" name="marketing_comms_consent" value="true">
	<input type="radio" name="marketing_comms_consent" value="false">
	<button type="submit">Sign this petition</button>
</form>`

type recorder struct {
	mu        sync.Mutex
	redirects []string
	notices   []string
}

func (r *recorder) Navigate(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redirects = append(r.redirects, url)
	return nil
}

func (r *recorder) Notify(_ context.Context, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, message)
}

type signatureServer struct {
	*httptest.Server
	mu     sync.Mutex
	hits   int
	path   string
	body   map[string]any
	header http.Header
}

func newSignatureServer(t *testing.T) *signatureServer {
	t.Helper()
	s := &signatureServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.hits++
		s.path = r.URL.Path
		s.header = r.Header.Clone()
		s.body = nil
		_ = jsoniter.Unmarshal(raw, &s.body)
		s.mu.Unlock()
		_, _ = io.WriteString(w, `{"redirect_to":"https://www.change.org/p/x/share"}`)
	}))
	t.Cleanup(s.Close)
	return s
}

func loadPage(t *testing.T, head, body string) *page.Page {
	t.Helper()
	doc, err := dom.ParseString("<html><head>"+head+"</head><body>"+body+"</body></html>", zaptest.NewLogger(t))
	require.NoError(t, err)
	return &page.Page{URL: "https://www.change.org/p/save-the-trees", Document: doc}
}

func attach(t *testing.T, p *page.Page, server *signatureServer, rec *recorder) (*Session, error) {
	t.Helper()
	submit := config.NewDefaultConfig().Submit
	submit.BaseURL = server.URL
	return Attach(context.Background(), p, Deps{
		Client:    server.Client(),
		Navigator: rec,
		Notifier:  rec,
		Submit:    submit,
		Logger:    zaptest.NewLogger(t),
	})
}

// -- Attach Tests --

func TestAttach_WiresEverything(t *testing.T) {
	server := newSignatureServer(t)
	p := loadPage(t, clientData, signForm)

	session, err := attach(t, p, server, &recorder{})
	require.NoError(t, err)
	assert.Equal(t, hoststate.VariantClient, session.State.Variant())
	assert.NotNil(t, session.Address)
	assert.NotNil(t, session.Signature)
	assert.Equal(t, address.Collapsed, session.Address.State())

	assert.Nil(t, p.Document.QueryOne("//input[@name='firstName']"))
	assert.NotNil(t, p.Document.QueryOne("//input[@name='first_name']"))
	assert.NotNil(t, p.Document.QueryOne("//input[@name='last_name']"))
}

func TestAttach_NoHostStateAttachesNothing(t *testing.T) {
	server := newSignatureServer(t)
	p := loadPage(t, "", signForm)

	session, err := attach(t, p, server, &recorder{})
	assert.ErrorIs(t, err, hoststate.ErrNoHostState)
	assert.Nil(t, session)

	ev := p.Document.Click(context.Background(), p.Document.QueryOne(signature.SubmitSelector))
	assert.False(t, ev.DefaultPrevented(), "submit button is left alone")
	assert.Zero(t, server.hits)
	assert.NotNil(t, p.Document.QueryOne("//input[@name='firstName']"), "fields are not renamed")
}

func TestAttach_MalformedStateAttachesNothing(t *testing.T) {
	server := newSignatureServer(t)
	p := loadPage(t, `<script id="clientData" type="application/json">{broken</script>`, signForm)

	_, err := attach(t, p, server, &recorder{})
	var parseErr *hoststate.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestAttach_MissingAnchorsOnlyDisableTheirFeature(t *testing.T) {
	server := newSignatureServer(t)

	noTrigger := loadPage(t, clientData, `<form name="sign-form"><button type="submit">Sign</button></form>`)
	session, err := attach(t, noTrigger, server, &recorder{})
	require.NoError(t, err)
	assert.Nil(t, session.Address)
	assert.NotNil(t, session.Signature)

	noSubmit := loadPage(t, clientData, `<form name="sign-form"><button type="button">Edit</button></form>`)
	session, err = attach(t, noSubmit, server, &recorder{})
	require.NoError(t, err)
	assert.NotNil(t, session.Address)
	assert.Nil(t, session.Signature)
	assert.ErrorIs(t, session.ClickSubmit(context.Background()), ErrSigningUnavailable)
}

// -- End to End --

func TestSignFlow(t *testing.T) {
	server := newSignatureServer(t)
	rec := &recorder{}
	session, err := attach(t, loadPage(t, clientData, signForm), server, rec)
	require.NoError(t, err)

	require.NoError(t, session.Perform(context.Background(), Actions{
		Country:          "US",
		State:            "NY",
		PostalCode:       "10001",
		FirstName:        "Jane",
		MarketingConsent: "true",
		ShareInfo:        true,
	}))
	assert.Equal(t, address.Expanded, session.Address.State())

	require.NoError(t, session.ClickSubmit(context.Background()))

	assert.Equal(t, []string{"https://www.change.org/p/x/share"}, rec.redirects)
	assert.Empty(t, rec.notices)

	server.mu.Lock()
	defer server.mu.Unlock()
	assert.Equal(t, 1, server.hits)
	assert.Equal(t, "/api-proxy/-/signatures/42", server.path)
	assert.Equal(t, "https://www.change.org/p/save-the-trees", server.header.Get("Referer"))

	assert.Equal(t, "Jane", server.body["first_name"], "typed value")
	assert.Equal(t, "Doe", server.body["last_name"], "renamed page field")
	assert.Equal(t, "C", server.body["city"], "empty city falls back to host state")
	assert.Equal(t, "NY", server.body["state_code"], "selected state wins over host state")
	assert.Equal(t, "US", server.body["country_code"])
	assert.Equal(t, "10001", server.body["postal_code"])
	assert.Equal(t, "a@b.com", server.body["email"])
	assert.Equal(t, "42", server.body["petition_id"])
	assert.Equal(t, true, server.body["marketing_comms_consent"])
	assert.Equal(t, true, server.body["share_info"])
	assert.Equal(t, true, server.body["public"])
}

func TestPerform_Errors(t *testing.T) {
	server := newSignatureServer(t)

	t.Run("unknown country", func(t *testing.T) {
		session, err := attach(t, loadPage(t, clientData, signForm), server, &recorder{})
		require.NoError(t, err)
		assert.ErrorContains(t, session.Perform(context.Background(), Actions{Country: "QQ"}), "no option")
	})

	t.Run("state without a state list", func(t *testing.T) {
		session, err := attach(t, loadPage(t, clientData, signForm), server, &recorder{})
		require.NoError(t, err)
		err = session.Perform(context.Background(), Actions{Country: "FR", State: "NY"})
		assert.ErrorContains(t, err, "state_code has no option")
	})

	t.Run("address unavailable", func(t *testing.T) {
		session, err := attach(t, loadPage(t, clientData, `<form name="sign-form"></form>`), server, &recorder{})
		require.NoError(t, err)
		assert.Error(t, session.Perform(context.Background(), Actions{ExpandAddress: true}))
	})

	t.Run("unknown consent option", func(t *testing.T) {
		session, err := attach(t, loadPage(t, clientData, signForm), server, &recorder{})
		require.NoError(t, err)
		assert.Error(t, session.Perform(context.Background(), Actions{MarketingConsent: "sometimes"}))
	})
}

func TestPerform_AddsMissingFieldsToTheForm(t *testing.T) {
	server := newSignatureServer(t)
	p := loadPage(t, clientData, `<form name="sign-form"><button type="submit">Sign</button></form>`)
	session, err := attach(t, p, server, &recorder{})
	require.NoError(t, err)

	require.NoError(t, session.Perform(context.Background(), Actions{Email: "z@example.org"}))

	data := dom.CollectForm(p.Document.QueryOne("//form"))
	assert.Equal(t, "z@example.org", data.Get("email"))
}

func TestPerform_ExpandIsIdempotent(t *testing.T) {
	server := newSignatureServer(t)
	session, err := attach(t, loadPage(t, clientData, signForm), server, &recorder{})
	require.NoError(t, err)

	require.NoError(t, session.Perform(context.Background(), Actions{ExpandAddress: true}))
	require.NoError(t, session.Perform(context.Background(), Actions{Country: "GB"}))
	assert.Len(t, session.Page.Document.QueryAll("//div[@class='js-address-fields']"), 1)
}
