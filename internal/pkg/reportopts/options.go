// Package reportopts holds the section selection of the unfiltered report
// and builds its download URL.
package reportopts

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Report sections, in display order
const (
	Summary           = "summary"
	Protocols         = "protocols"
	Ports             = "ports"
	MACAddresses      = "mac_addresses"
	MACVendors        = "mac_vendors"
	PayloadStats      = "payload_stats"
	ThroughputStats   = "throughput_stats"
	NetworkEfficiency = "network_efficiency"
	ProtocolPayload   = "protocol_payload"
	Time              = "time"
	PacketSize        = "packet_size"
	TopIPs            = "top_ips"
)

// All lists every report section in display order
var All = []string{
	Summary,
	Protocols,
	Ports,
	MACAddresses,
	MACVendors,
	PayloadStats,
	ThroughputStats,
	NetworkEfficiency,
	ProtocolPayload,
	Time,
	PacketSize,
	TopIPs,
}

// Defaults are the sections the server uses when none are requested
var Defaults = []string{Summary, Protocols, Ports, MACAddresses}

// ErrNoOptionsSelected is returned when a report is requested with every
// section unchecked
var ErrNoOptionsSelected = errors.New("no report options selected")

// NoOptionsMessage is shown to the user for ErrNoOptionsSelected
const NoOptionsMessage = "Zaznacz co najmniej jedną opcję do wygenerowania raportu."

// IsKnown returns true if name is a report section
func IsKnown(name string) bool {
	for _, o := range All {
		if o == name {
			return true
		}
	}
	return false
}

// Selection is the set of checked report sections
type Selection struct {
	mu      sync.Mutex
	checked map[string]bool
}

// New creates a selection with the given sections checked
func New(checked ...string) (*Selection, error) {
	s := &Selection{checked: make(map[string]bool, len(All))}
	for _, name := range checked {
		if err := s.Set(name, true); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Set checks or unchecks one section
func (s *Selection) Set(name string, checked bool) error {
	name = strings.TrimSpace(name)
	if !IsKnown(name) {
		return fmt.Errorf("unknown report option: %s", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked[name] = checked
	return nil
}

// SelectAll checks every section
func (s *Selection) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range All {
		s.checked[name] = true
	}
}

// DeselectAll unchecks every section. It never reports an error;
// an empty selection is only rejected when the report is requested.
func (s *Selection) DeselectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range All {
		s.checked[name] = false
	}
}

// IsSelected returns true if the section is checked
func (s *Selection) IsSelected(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked[name]
}

// Selected returns the checked sections in display order
func (s *Selection) Selected() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	selected := make([]string, 0, len(All))
	for _, name := range All {
		if s.checked[name] {
			selected = append(selected, name)
		}
	}
	return selected
}

// BuildURL returns the report location for targetID with the checked
// sections, or ErrNoOptionsSelected when nothing is checked.
func (s *Selection) BuildURL(targetID string) (string, error) {
	selected := s.Selected()
	if len(selected) == 0 {
		return "", ErrNoOptionsSelected
	}

	params := url.Values{}
	for _, name := range selected {
		params.Add("options[]", name)
	}
	return "/generate_report/" + url.PathEscape(targetID) + "?" + params.Encode(), nil
}
