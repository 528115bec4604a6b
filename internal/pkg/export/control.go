package export

import "sync"

// Control is the button that triggers an export.
// While an export is in flight the control is disabled and shows a busy
// label; a disabled control ignores clicks.
type Control struct {
	mu      sync.Mutex
	enabled bool
	label   string
}

// NewControl creates an enabled control with the given label
func NewControl(label string) *Control {
	return &Control{enabled: true, label: label}
}

// Enabled returns true if the control accepts clicks
func (c *Control) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Label returns the current label
func (c *Control) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// Disable turns the control off and shows label
func (c *Control) Disable(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = false
	c.label = label
}

// Enable turns the control back on and shows label
func (c *Control) Enable(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = true
	c.label = label
}

// begin disables an enabled control in one step.
// Returns false if it was already disabled.
func (c *Control) begin(busyLabel string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return false
	}
	c.enabled = false
	c.label = busyLabel
	return true
}
