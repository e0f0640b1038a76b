package ledger

import (
	"encoding/json"
	"strings"
)

// tokens as they appear in the ledger file, indexed by Phase
func getPhaseMapping() []string {
	return []string{"not-started", "portal", "configure", "install", "starting", "complete"}
}

// Phase is one stage of the background installation. Phases are ordered and
// only ever move forward.
type Phase int

const (
	NotStarted Phase = iota
	PortalActive
	Configuring
	Installing
	Starting
	Complete
)

// PhaseCount is the number of phases including NotStarted.
const PhaseCount = int(Complete) + 1

// ParseError is returned when a string is not a known phase token.
type ParseError struct {
	reason string
}

// Error returns the error as a string
func (err *ParseError) Error() string {
	return err.reason
}

// ParsePhase converts a ledger token into a Phase. Surrounding whitespace is
// ignored.
func ParsePhase(token string) (Phase, error) {
	token = strings.TrimSpace(token)
	for n, str := range getPhaseMapping() {
		if str == token {
			return Phase(n), nil
		}
	}
	return NotStarted, &ParseError{"invalid installation phase: " + token}
}

func (p Phase) valid() bool {
	return p >= NotStarted && p <= Complete
}

// String returns the ledger token of the phase.
func (p Phase) String() string {
	if !p.valid() {
		return getPhaseMapping()[NotStarted]
	}
	return getPhaseMapping()[int(p)]
}

// Index is the position of the phase in the installation, 0 to 5.
func (p Phase) Index() int {
	if !p.valid() {
		return 0
	}
	return int(p)
}

// Progress is the percentage shown for the phase. It is derived from the
// index alone and saturates at 100.
func (p Phase) Progress() int {
	return ProgressForStep(p.Index())
}

// ProgressForStep maps a step index to a percentage in steps of 20.
func ProgressForStep(step int) int {
	percent := step * 20
	if percent > 100 {
		return 100
	}
	if percent < 0 {
		return 0
	}
	return percent
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(data []byte) error {
	val, err := ParsePhase(string(data))
	if err != nil {
		return err
	}
	*p = val
	return nil
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return err
	}
	return p.UnmarshalText([]byte(token))
}
