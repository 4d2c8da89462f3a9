// File: internal/augment/actions.go
package augment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/petition-cli/internal/address"
	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/signature"
)

// Actions is the input a user would give the page before signing. Empty
// strings and false leave the page untouched.
type Actions struct {
	ExpandAddress bool
	Country       string
	State         string
	PostalCode    string
	City          string

	FirstName string
	LastName  string
	Email     string

	// MarketingConsent is the value of the consent option to check.
	MarketingConsent string
	ShareInfo        bool
	NotPublic        bool
}

// Perform applies the actions through the same DOM events a user would
// trigger. Selecting a country implies expanding the address section.
func (s *Session) Perform(ctx context.Context, a Actions) error {
	doc := s.Page.Document

	needsAddress := a.ExpandAddress || a.Country != "" || a.State != "" || a.PostalCode != ""
	if needsAddress {
		if err := s.expandAddress(ctx); err != nil {
			return err
		}
	}

	if a.Country != "" {
		country := doc.QueryOne("//select[@name='" + address.CountryField + "']")
		if err := selectOption(country, address.CountryField, a.Country); err != nil {
			return err
		}
		doc.Dispatch(ctx, country, "change")
	}
	if a.State != "" {
		state := doc.QueryOne("//select[@name='" + address.StateField + "']")
		if err := selectOption(state, address.StateField, a.State); err != nil {
			return err
		}
		doc.Dispatch(ctx, state, "change")
	}

	for _, f := range []struct{ name, value string }{
		{address.PostalCodeField, a.PostalCode},
		{address.CityField, a.City},
		{"first_name", a.FirstName},
		{"last_name", a.LastName},
		{"email", a.Email},
	} {
		if f.value == "" {
			continue
		}
		if err := s.fill(f.name, f.value); err != nil {
			return err
		}
	}

	if a.MarketingConsent != "" {
		option := doc.QueryOne(fmt.Sprintf("//input[@name='%s' and @value='%s']",
			signature.MarketingConsentField, a.MarketingConsent))
		if option == nil {
			return fmt.Errorf("no %s option with value %q", signature.MarketingConsentField, a.MarketingConsent)
		}
		dom.SetChecked(option, true)
	}
	if err := s.check(signature.ShareInfoField, a.ShareInfo); err != nil {
		return err
	}
	return s.check("not_public", a.NotPublic)
}

func (s *Session) expandAddress(ctx context.Context) error {
	if s.Address == nil {
		return errors.New("address editing is unavailable on this page")
	}
	if s.Address.State() == address.Expanded {
		return nil
	}
	trigger, err := s.Page.Document.FindFirst(address.TriggerSelectors...)
	if err != nil {
		return fmt.Errorf("failed to expand address section: %w", err)
	}
	s.Page.Document.Click(ctx, trigger)
	if s.Address.State() != address.Expanded {
		return errors.New("address section did not expand")
	}
	return nil
}

func selectOption(sel *html.Node, name, value string) error {
	if sel == nil {
		return dom.NewElementNotFoundError(fmt.Sprintf("select[name=%s]", name))
	}
	dom.SetValue(sel, value)
	if dom.Value(sel) != value {
		return fmt.Errorf("%s has no option %q", name, value)
	}
	return nil
}

// fill sets a text control's value. A field the page doesn't render is
// added to the sign form as a hidden input so it still reaches the payload.
func (s *Session) fill(name, value string) error {
	doc := s.Page.Document
	if node := doc.QueryOne(fmt.Sprintf("//input[@name='%s']", name)); node != nil {
		dom.SetValue(node, value)
		return nil
	}
	form, err := doc.FindFirst(signature.FormSelectors...)
	if err != nil {
		return fmt.Errorf("cannot set %s: %w", name, err)
	}
	form.AppendChild(&html.Node{
		Type:     html.ElementNode,
		Data:     "input",
		DataAtom: atom.Input,
		Attr: []html.Attribute{
			{Key: "type", Val: "hidden"},
			{Key: "name", Val: name},
			{Key: "value", Val: value},
		},
	})
	s.logger.Debug("Added hidden form field.", zap.String("name", name))
	return nil
}

func (s *Session) check(name string, checked bool) error {
	if !checked {
		return nil
	}
	node := s.Page.Document.QueryOne(fmt.Sprintf("//input[@name='%s']", name))
	if node == nil {
		return dom.NewElementNotFoundError(fmt.Sprintf("input[name=%s]", name))
	}
	dom.SetChecked(node, true)
	return nil
}
