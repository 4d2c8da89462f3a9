// File: internal/address/controller.go
package address

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/xkilldash9x/petition-cli/internal/dom"
	"github.com/xkilldash9x/petition-cli/internal/locale"
)

// State of the address section.
type State int32

const (
	// Collapsed is the initial state: only the trigger is on the page.
	Collapsed State = iota
	// Expanded is terminal: the trigger has been replaced by the address group.
	Expanded
)

func (s State) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "collapsed"
}

// Trigger selectors, primary first.
var TriggerSelectors = []string{
	"//form[@name='sign-form']//button[@type='button']",
	"//div[contains(concat(' ', normalize-space(@class), ' '), ' js-edit-address ')]",
}

var (
	countryXPath    = "//select[@name='" + CountryField + "']"
	stateXPath      = "//select[@name='" + StateField + "']"
	postalCodeXPath = "//input[@name='" + PostalCodeField + "']"
)

// Controller swaps the "edit address" trigger for the address group on first
// click and keeps the state and postal code controls in line with the
// selected country.
type Controller struct {
	doc    *dom.Document
	table  *locale.Table
	logger *zap.Logger

	state atomic.Int32
}

// NewController creates a collapsed controller. A nil table means the built-in one.
func NewController(doc *dom.Document, table *locale.Table, logger *zap.Logger) *Controller {
	if table == nil {
		table = locale.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		doc:    doc,
		table:  table,
		logger: logger.Named("address"),
	}
}

// State returns the current state.
func (c *Controller) State() State { return State(c.state.Load()) }

// Wire attaches the click listener to the trigger. A missing trigger is
// returned as a *dom.ElementNotFoundError after logging a warning; the caller
// decides whether that matters.
func (c *Controller) Wire() error {
	trigger, err := c.doc.FindFirst(TriggerSelectors...)
	if err != nil {
		c.logger.Warn("Could not locate address button; address editing unavailable.", zap.Error(err))
		return err
	}
	c.doc.AddEventListener(trigger, "click", func(ctx context.Context, _ *dom.Event) {
		c.expand(trigger)
	})
	c.logger.Debug("Address button wired.")
	return nil
}

func (c *Controller) expand(trigger *html.Node) {
	// The trigger is removed below, so a second click can only come from a
	// caller holding a stale node.
	if !c.state.CompareAndSwap(int32(Collapsed), int32(Expanded)) {
		return
	}
	markup, err := Render(c.table)
	if err != nil {
		c.logger.Error("Failed to render address fields.", zap.Error(err))
		c.state.Store(int32(Collapsed))
		return
	}
	if _, err := c.doc.ReplaceWithHTML(trigger, markup); err != nil {
		c.logger.Error("Failed to insert address fields.", zap.Error(err))
		c.state.Store(int32(Collapsed))
		return
	}
	c.logger.Info("Address section expanded.")
	c.wireCountry()
}

func (c *Controller) wireCountry() {
	country := c.doc.QueryOne(countryXPath)
	if country == nil {
		c.logger.Warn("Could not locate country field.")
		return
	}
	c.doc.AddEventListener(country, "change", func(ctx context.Context, _ *dom.Event) {
		c.Sync(dom.Value(country))
	})
}

// Sync re-derives the state and postal code controls for a country code.
// Both updates run on every call and do not depend on each other.
func (c *Controller) Sync(countryCode string) {
	rule := c.table.Lookup(countryCode)
	c.logger.Debug("Country changed.",
		zap.String("country", countryCode),
		zap.Bool("sub_regions", rule.HasSubRegionList),
		zap.Bool("postal_code", rule.PostalCodeRequired))
	c.updateState(rule)
	c.updatePostalCode(rule)
}

func (c *Controller) updateState(rule locale.Rule) {
	field := c.doc.QueryOne(stateXPath)
	if field == nil {
		c.logger.Warn("Could not locate state field.")
		return
	}
	if !rule.HasSubRegionList {
		if err := c.doc.SetInnerHTML(field, ""); err != nil {
			c.logger.Error("Failed to clear state options.", zap.Error(err))
		}
		dom.Hide(field)
		return
	}
	markup, err := RenderSubRegionOptions(rule.SubRegionOptions)
	if err == nil {
		err = c.doc.SetInnerHTML(field, markup)
	}
	if err != nil {
		c.logger.Error("Failed to populate state options.", zap.Error(err))
		return
	}
	dom.Show(field)
}

func (c *Controller) updatePostalCode(rule locale.Rule) {
	field := c.doc.QueryOne(postalCodeXPath)
	if field == nil {
		c.logger.Warn("Could not locate postal code field.")
		return
	}
	if rule.PostalCodeRequired {
		dom.Show(field)
		return
	}
	dom.SetValue(field, "")
	dom.Hide(field)
}
