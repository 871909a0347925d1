package posture

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

type Posture int

const (
	Standing Posture = iota
	Crouching
	Proning
)

// Count is the number of postures; arrays indexed by Posture use it.
const Count = 3

func (p Posture) String() string {
	switch p {
	case Standing:
		return "standing"
	case Crouching:
		return "crouching"
	case Proning:
		return "proning"
	default:
		return fmt.Sprintf("posture(%d)", int(p))
	}
}

func (p Posture) Valid() bool {
	return p >= Standing && p <= Proning
}

// ExitPolicy decides where a prone body goes when prone is requested again.
type ExitPolicy int

const (
	// ExitToPrevious tries the posture held before proning, then standing,
	// then crouching.
	ExitToPrevious ExitPolicy = iota
	// ExitToStanding only ever leaves prone by standing up.
	ExitToStanding
)

func (e ExitPolicy) String() string {
	if e == ExitToStanding {
		return "standing"
	}
	return "previous"
}

func ParseExitPolicy(s string) (ExitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "previous":
		return ExitToPrevious, nil
	case "standing":
		return ExitToStanding, nil
	default:
		return ExitToPrevious, fmt.Errorf("unknown prone exit policy %q", s)
	}
}

// Probe reports whether the volume it guards is obstructed.
type Probe interface {
	IsColliding() bool
}

// Probes are the clearance checks for each target envelope.
type Probes struct {
	StandUp    Probe
	CrouchUp   Probe
	ProneFront Probe
	ProneBack  Probe
}

var ErrMissingProbe = errors.New("posture probe is nil")

func (p Probes) Validate() error {
	missing := make([]string, 0, 4)
	if p.StandUp == nil {
		missing = append(missing, "stand_up")
	}
	if p.CrouchUp == nil {
		missing = append(missing, "crouch_up")
	}
	if p.ProneFront == nil {
		missing = append(missing, "prone_front")
	}
	if p.ProneBack == nil {
		missing = append(missing, "prone_back")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingProbe, strings.Join(missing, ", "))
	}
	return nil
}

// Machine owns the current and previous posture. Requests that are not
// allowed leave the state untouched.
type Machine struct {
	current  Posture
	previous Posture
	probes   Probes
	policy   ExitPolicy
}

func NewMachine(probes Probes, policy ExitPolicy) (*Machine, error) {
	if err := probes.Validate(); err != nil {
		return nil, err
	}
	return &Machine{
		current:  Standing,
		previous: Standing,
		probes:   probes,
		policy:   policy,
	}, nil
}

func (m *Machine) Current() Posture  { return m.current }
func (m *Machine) Previous() Posture { return m.previous }
func (m *Machine) Policy() ExitPolicy {
	return m.policy
}

// Clear reports whether the envelope of p is free of obstruction.
func (m *Machine) Clear(p Posture) bool {
	switch p {
	case Standing:
		return !m.probes.StandUp.IsColliding()
	case Crouching:
		return !m.probes.CrouchUp.IsColliding()
	case Proning:
		return !m.probes.ProneFront.IsColliding() && !m.probes.ProneBack.IsColliding()
	default:
		return false
	}
}

// RequestCrouch toggles between standing and crouching, and raises a prone
// body to crouching. It returns true when the posture changed.
func (m *Machine) RequestCrouch() bool {
	switch m.current {
	case Standing:
		return m.set(Crouching)
	case Crouching:
		if m.Clear(Standing) {
			return m.set(Standing)
		}
	case Proning:
		if m.Clear(Crouching) {
			return m.set(Crouching)
		}
	}
	return false
}

// RequestProne lies down when both prone probes are clear, or gets up
// according to the exit policy when already prone.
func (m *Machine) RequestProne() bool {
	if m.current != Proning {
		if m.Clear(Proning) {
			return m.set(Proning)
		}
		return false
	}

	if m.policy == ExitToStanding {
		if m.Clear(Standing) {
			return m.set(Standing)
		}
		return false
	}

	candidates := [...]Posture{m.previous, Standing, Crouching}
	for _, p := range candidates {
		if p == Proning {
			continue
		}
		if m.Clear(p) {
			return m.set(p)
		}
	}
	return false
}

// RequestJump forces standing when the standing envelope is clear. The caller
// applies the jump impulse when this returns true.
func (m *Machine) RequestJump() bool {
	if !m.Clear(Standing) {
		return false
	}
	m.set(Standing)
	return true
}

func (m *Machine) set(next Posture) bool {
	prev := m.current
	m.previous = prev
	m.current = next
	if prev != next {
		slog.Debug("posture changed", "from", prev, "to", next)
	}
	return prev != next
}
