package body

import (
	"sync"

	"github.com/Versifine/stride/internal/physics"
)

// InputSnapshot is the intent consumed by one physics tick. Move uses X for
// right and Y for forward. The *Pressed fields are edges: they act once.
type InputSnapshot struct {
	Move          physics.Vec2
	MouseDelta    physics.Vec2
	SprintHeld    bool
	FreeLookHeld  bool
	CrouchPressed bool
	PronePressed  bool
	JumpPressed   bool

	// MouseDeltaOtherMode is motion made while free look was the opposite of
	// FreeLookHeld. It is applied before MouseDelta.
	MouseDeltaOtherMode physics.Vec2
}

// InputBuffer collects input arriving between physics ticks. Held states and
// the move vector keep their latest value, mouse motion accumulates per
// free-look mode and edges stay set until drained.
type InputBuffer struct {
	mu      sync.Mutex
	pending InputSnapshot
}

func (b *InputBuffer) Submit(in InputSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if in.FreeLookHeld != b.pending.FreeLookHeld {
		b.pending.MouseDelta, b.pending.MouseDeltaOtherMode = b.pending.MouseDeltaOtherMode, b.pending.MouseDelta
	}
	b.pending.Move = in.Move
	b.pending.SprintHeld = in.SprintHeld
	b.pending.FreeLookHeld = in.FreeLookHeld
	b.pending.MouseDelta = b.pending.MouseDelta.Add(in.MouseDelta)
	b.pending.MouseDeltaOtherMode = b.pending.MouseDeltaOtherMode.Add(in.MouseDeltaOtherMode)
	b.pending.CrouchPressed = b.pending.CrouchPressed || in.CrouchPressed
	b.pending.PronePressed = b.pending.PronePressed || in.PronePressed
	b.pending.JumpPressed = b.pending.JumpPressed || in.JumpPressed
}

// Drain returns everything buffered since the last drain and clears the
// one-shot parts. Held states carry over to the next tick.
func (b *InputBuffer) Drain() InputSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.pending
	b.pending.MouseDelta = physics.Vec2{}
	b.pending.MouseDeltaOtherMode = physics.Vec2{}
	b.pending.CrouchPressed = false
	b.pending.PronePressed = false
	b.pending.JumpPressed = false
	return out
}

func clampMove(v physics.Vec2) physics.Vec2 {
	if v.Length() > 1 {
		return v.Normalized()
	}
	return v
}
