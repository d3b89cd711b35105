// Package refdata holds the static reference tables that constrain incident
// submissions: which sites, locations and machine models belong to each
// customer, which machine serials are installed at each site, and the fault
// code catalogue. Tables are loaded once at startup from a YAML file and are
// read-only afterwards.
package refdata

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v2"
)

// SerialModel pairs a machine serial number with the model installed under
// that serial. The serial is authoritative over any user-supplied model.
type SerialModel struct {
	Serial string `yaml:"serial"`
	Model  string `yaml:"model"`
}

type Tables struct {
	Customers   []string                 `yaml:"customers"`
	Sites       map[string][]string      `yaml:"sites"`
	Locations   map[string][]string      `yaml:"locations"`
	Models      map[string][]string      `yaml:"models"`
	SiteSerials map[string][]SerialModel `yaml:"site_serials"`
	FaultCodes  map[string]string        `yaml:"fault_codes"`
}

func Load(path string) (*Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}
	if len(t.Customers) == 0 {
		return nil, fmt.Errorf("reference data has no customers")
	}
	return &t, nil
}

func (t *Tables) KnownCustomer(customer string) bool {
	for _, c := range t.Customers {
		if c == customer {
			return true
		}
	}
	return false
}

func (t *Tables) SitesFor(customer string) []string {
	return t.Sites[customer]
}

func (t *Tables) LocationsFor(customer string) []string {
	return t.Locations[customer]
}

func (t *Tables) ModelsFor(customer string) []string {
	return t.Models[customer]
}

// ModelForSerial returns the model registered for serial at site, or false
// when the serial is not installed at that site.
func (t *Tables) ModelForSerial(site, serial string) (string, bool) {
	for _, sm := range t.SiteSerials[site] {
		if sm.Serial == serial {
			return sm.Model, true
		}
	}
	return "", false
}

func (t *Tables) SerialsFor(site string) []string {
	pairs := t.SiteSerials[site]
	serials := make([]string, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, sm := range pairs {
		if !seen[sm.Serial] {
			seen[sm.Serial] = true
			serials = append(serials, sm.Serial)
		}
	}
	return serials
}

// FaultDescription resolves a fault code to its catalogue description.
func (t *Tables) FaultDescription(code string) (string, bool) {
	desc, ok := t.FaultCodes[code]
	return desc, ok
}

func (t *Tables) SortedFaultCodes() []string {
	codes := make([]string, 0, len(t.FaultCodes))
	for code := range t.FaultCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Selection captures the fields of an in-progress submission that constrain
// the remaining choices.
type Selection struct {
	Customer  string
	Site      string
	FaultCode string
}

// Choices lists the allowed values per dependent field for a selection. The
// presentation layer calls this before rendering so that choice lists never
// need to be mutated in place.
type Choices struct {
	Customers         []string `json:"customers"`
	Sites             []string `json:"sites"`
	Locations         []string `json:"locations"`
	Models            []string `json:"models"`
	Serials           []string `json:"serials"`
	FaultCodes        []string `json:"fault_codes"`
	FaultDescriptions []string `json:"fault_descriptions"`
}

func (t *Tables) AllowedChoices(sel Selection) Choices {
	c := Choices{
		Customers:  t.Customers,
		FaultCodes: t.SortedFaultCodes(),
	}

	if sel.Customer != "" {
		c.Sites = t.SitesFor(sel.Customer)
		c.Locations = t.LocationsFor(sel.Customer)
		c.Models = t.ModelsFor(sel.Customer)
	}
	if sel.Site != "" {
		c.Serials = t.SerialsFor(sel.Site)
	}

	if sel.FaultCode != "" {
		// A chosen code pins the description to its mapped value.
		if desc, ok := t.FaultDescription(sel.FaultCode); ok {
			c.FaultDescriptions = []string{desc}
		}
	} else {
		seen := make(map[string]bool)
		for _, desc := range t.FaultCodes {
			if !seen[desc] {
				seen[desc] = true
				c.FaultDescriptions = append(c.FaultDescriptions, desc)
			}
		}
		sort.Strings(c.FaultDescriptions)
	}

	return c
}
