// File: internal/dom/document_test.go
package dom

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testPage = `<!DOCTYPE html>
<html><head><title>t</title></head>
<body>
  <form name="sign-form">
    <input name="firstName" value="Ada">
    <div class="wrap"><button type="button" id="trigger">Add address</button></div>
    <button type="submit" id="go">Sign</button>
  </form>
</body></html>`

func newTestDocument(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseString(markup, zaptest.NewLogger(t))
	require.NoError(t, err)
	return doc
}

// -- Query Tests --

func TestQueries(t *testing.T) {
	doc := newTestDocument(t, testPage)

	t.Run("QueryOne returns the first match", func(t *testing.T) {
		node := doc.QueryOne("//form[@name='sign-form']//button")
		require.NotNil(t, node)
		id, _ := Attr(node, "id")
		assert.Equal(t, "trigger", id)
	})

	t.Run("QueryAll preserves document order", func(t *testing.T) {
		nodes := doc.QueryAll("//button")
		require.Len(t, nodes, 2)
		first, _ := Attr(nodes[0], "id")
		second, _ := Attr(nodes[1], "id")
		assert.Equal(t, []string{"trigger", "go"}, []string{first, second})
	})

	t.Run("invalid expressions are treated as no match", func(t *testing.T) {
		assert.Nil(t, doc.QueryOne("//button[@"))
		assert.Nil(t, doc.QueryAll("//button[@"))
	})

	t.Run("FindFirst falls back to later selectors", func(t *testing.T) {
		node, err := doc.FindFirst("//div[@id='missing']", "//button[@type='submit']")
		require.NoError(t, err)
		id, _ := Attr(node, "id")
		assert.Equal(t, "go", id)
	})

	t.Run("FindFirst reports a typed error when nothing matches", func(t *testing.T) {
		_, err := doc.FindFirst("//nav", "//aside")
		var notFound *ElementNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, "//nav | //aside", notFound.Selector)
	})
}

// -- Event Dispatch Tests --

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("events bubble to ancestors", func(t *testing.T) {
		doc := newTestDocument(t, testPage)
		button := doc.QueryOne("//button[@id='trigger']")
		form := doc.QueryOne("//form")

		var order []string
		doc.AddEventListener(button, "click", func(ctx context.Context, ev *Event) { order = append(order, "button") })
		doc.AddEventListener(form, "click", func(ctx context.Context, ev *Event) { order = append(order, "form") })

		doc.Click(ctx, button)
		assert.Equal(t, []string{"button", "form"}, order)
	})

	t.Run("StopPropagation halts bubbling and PreventDefault is reported", func(t *testing.T) {
		doc := newTestDocument(t, testPage)
		button := doc.QueryOne("//button[@id='go']")
		form := doc.QueryOne("//form")

		formCalled := false
		doc.AddEventListener(button, "click", func(ctx context.Context, ev *Event) {
			ev.PreventDefault()
			ev.StopPropagation()
		})
		doc.AddEventListener(form, "click", func(ctx context.Context, ev *Event) { formCalled = true })

		ev := doc.Click(ctx, button)
		assert.True(t, ev.DefaultPrevented())
		assert.False(t, formCalled)
	})

	t.Run("event types are independent", func(t *testing.T) {
		doc := newTestDocument(t, testPage)
		button := doc.QueryOne("//button[@id='go']")
		called := false
		doc.AddEventListener(button, "change", func(ctx context.Context, ev *Event) { called = true })

		doc.Click(ctx, button)
		assert.False(t, called)
		doc.Dispatch(ctx, button, "change")
		assert.True(t, called)
	})

	t.Run("listeners added during dispatch fire on the next event only", func(t *testing.T) {
		doc := newTestDocument(t, testPage)
		button := doc.QueryOne("//button[@id='go']")
		late := 0
		doc.AddEventListener(button, "click", func(ctx context.Context, ev *Event) {
			doc.AddEventListener(button, "click", func(ctx context.Context, ev *Event) { late++ })
		})

		doc.Click(ctx, button)
		assert.Equal(t, 0, late)
		doc.Click(ctx, button)
		assert.Equal(t, 1, late)
	})
}

// -- Mutation Tests --

func TestReplaceWithHTML(t *testing.T) {
	doc := newTestDocument(t, testPage)
	trigger := doc.QueryOne("//button[@id='trigger']")
	fired := false
	doc.AddEventListener(trigger, "click", func(ctx context.Context, ev *Event) { fired = true })

	nodes, err := doc.ReplaceWithHTML(trigger, `<div class="js-address-fields"><input name="city"></div>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	assert.False(t, doc.Contains(trigger), "trigger must be detached")
	assert.Nil(t, doc.QueryOne("//button[@id='trigger']"))

	inserted := doc.QueryOne("//div[@class='wrap']/div[@class='js-address-fields']/input[@name='city']")
	assert.NotNil(t, inserted, "fragment must take the trigger's place")

	// Listeners of the detached node are dropped.
	doc.Click(context.Background(), trigger)
	assert.False(t, fired)

	_, err = doc.ReplaceWithHTML(trigger, "<p></p>")
	assert.Error(t, err, "a detached node cannot be replaced")
}

func TestSetInnerHTML(t *testing.T) {
	doc := newTestDocument(t, `<html><body><form><select name="state_code"><option>old</option></select></form></body></html>`)
	sel := doc.QueryOne("//select")

	require.NoError(t, doc.SetInnerHTML(sel, `<option value="">State</option><option value="NY">NY</option>`))
	assert.Equal(t, []string{"", "NY"}, OptionValues(sel))

	require.NoError(t, doc.SetInnerHTML(sel, ""))
	assert.Empty(t, OptionValues(sel))
}

func TestHTMLRendersMutations(t *testing.T) {
	doc := newTestDocument(t, testPage)
	input := doc.QueryOne("//input[@name='firstName']")
	SetAttr(input, "name", "first_name")

	out, err := doc.HTML()
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `name="first_name"`))
	assert.Contains(t, OuterHTML(input), "first_name")
}
