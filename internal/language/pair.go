package language

// Pair holds a track's legacy and IETF language fields.
//
// Values read from an inspected file may populate both. Once either setter is
// called with a non-empty value the other field is cleared, so at most one of
// them is active.
type Pair struct {
	legacy string
	ietf   string
}

// NewPair records values as reported by mkvmerge without validation or
// clearing.
func NewPair(legacy, ietf string) Pair {
	return Pair{legacy: legacy, ietf: ietf}
}

func (p Pair) Legacy() string { return p.legacy }
func (p Pair) IETF() string   { return p.ietf }

// Effective returns the IETF tag when present, else the legacy code.
func (p Pair) Effective() string {
	if p.ietf != "" {
		return p.ietf
	}
	return p.legacy
}

// SetLegacy validates code as ISO 639-2. An empty code clears only the legacy
// field.
func (p *Pair) SetLegacy(code string) error {
	if code == "" {
		p.legacy = ""
		return nil
	}
	if err := ValidateISO6392(code); err != nil {
		return err
	}
	p.legacy = code
	p.ietf = ""
	return nil
}

// SetIETF validates tag as BCP-47. An empty tag clears only the IETF field.
func (p *Pair) SetIETF(tag string) error {
	if tag == "" {
		p.ietf = ""
		return nil
	}
	if err := ValidateBCP47(tag); err != nil {
		return err
	}
	p.ietf = tag
	p.legacy = ""
	return nil
}
