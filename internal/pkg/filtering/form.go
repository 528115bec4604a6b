package filtering

import "sync"

// FieldSource exposes the current value of form controls by id.
// ok is false when the control does not exist at all.
type FieldSource interface {
	Value(id string) (value string, ok bool)
}

// Read builds a Criteria snapshot from the controls of src.
// It never fails: a missing control is read as an empty value, which means
// "no constraint" for that field.
func Read(src FieldSource) Criteria {
	if src == nil {
		return Criteria{}
	}

	get := func(id string) string {
		v, ok := src.Value(id)
		if !ok {
			return ""
		}
		return v
	}

	return Criteria{
		SrcMAC:    get(ControlSrcMAC),
		DstMAC:    get(ControlDstMAC),
		SrcIP:     get(ControlSrcIP),
		DstIP:     get(ControlDstIP),
		Protocol:  get(ControlProtocol),
		Port:      get(ControlPort),
		LengthMin: get(ControlLengthMin),
		LengthMax: get(ControlLengthMax),
		TimeStart: get(ControlTimeStart),
		TimeEnd:   get(ControlTimeEnd),
	}
}

// Form is an in-memory set of filter controls.
// A control that was never added (or was removed) reads as missing.
type Form struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewForm creates a form holding every standard filter control, all empty
func NewForm() *Form {
	f := &Form{values: make(map[string]string, len(Controls))}
	for _, id := range Controls {
		f.values[id] = ""
	}
	return f
}

// NewFormFromCriteria creates a form pre-filled with c
func NewFormFromCriteria(c Criteria) *Form {
	f := NewForm()
	f.Fill(c)
	return f
}

// Value implements FieldSource
func (f *Form) Value(id string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[id]
	return v, ok
}

// Set sets a control value, adding the control if it is missing
func (f *Form) Set(id, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[id] = value
}

// Remove drops a control from the form
func (f *Form) Remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, id)
}

// Fill writes every field of c into the matching control
func (f *Form) Fill(c Criteria) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range Controls {
		if _, ok := f.values[id]; ok {
			f.values[id] = c.Get(id)
		}
	}
}

// Clear empties every present control. Missing controls stay missing.
func (f *Form) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id := range f.values {
		f.values[id] = ""
	}
}
