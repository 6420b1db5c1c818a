package render

// Section is one rendered group.
type Section struct {
	Title    string
	Columns  int
	Controls []Control
}

// Control returns the control for key.
func (s *Section) Control(key string) (Control, bool) {
	for _, ctrl := range s.Controls {
		if ctrl.Field().Key() == key {
			return ctrl, true
		}
	}
	return nil, false
}

// Rows splits the controls into rows of Columns controls each.
func (s *Section) Rows() [][]Control {
	cols := s.Columns
	if cols < 1 {
		cols = 1
	}
	var rows [][]Control
	for start := 0; start < len(s.Controls); start += cols {
		end := start + cols
		if end > len(s.Controls) {
			end = len(s.Controls)
		}
		rows = append(rows, s.Controls[start:end])
	}
	return rows
}

// Close detaches every control from its field.
func (s *Section) Close() {
	for _, ctrl := range s.Controls {
		ctrl.Close()
	}
}

// Form is a rendered schema.
type Form struct {
	Title    string
	Sections []*Section
}

// Control looks key up across all sections.
func (f *Form) Control(key string) (Control, bool) {
	for _, section := range f.Sections {
		if ctrl, ok := section.Control(key); ok {
			return ctrl, true
		}
	}
	return nil, false
}

// Controls returns every control in render order.
func (f *Form) Controls() []Control {
	var out []Control
	for _, section := range f.Sections {
		out = append(out, section.Controls...)
	}
	return out
}

// Invalid returns the controls currently marked invalid.
func (f *Form) Invalid() []Control {
	var out []Control
	for _, ctrl := range f.Controls() {
		if ctrl.State().Invalid {
			out = append(out, ctrl)
		}
	}
	return out
}

// Close detaches every control.
func (f *Form) Close() {
	for _, section := range f.Sections {
		section.Close()
	}
}
