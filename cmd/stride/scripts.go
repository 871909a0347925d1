package main

import (
	"fmt"
	"sort"

	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/physics"
)

// Script produces the input for a tick given the previous tick's report.
type Script func(tick int, last body.Report) body.InputSnapshot

var forward = physics.Vec2{Y: 1}

var scripts = map[string]Script{
	// Walk straight up the demo stair flight onto the landing.
	"walk-stairs": func(int, body.Report) body.InputSnapshot {
		return body.InputSnapshot{Move: forward}
	},
	// Sprint ahead and jump once the sprint is up to speed.
	"sprint-jump": func(tick int, _ body.Report) body.InputSnapshot {
		return body.InputSnapshot{Move: forward, SprintHeld: true, JumpPressed: tick == 30}
	},
	// Crouch, then go prone and crawl forward, then get back up.
	"crawl": func(tick int, _ body.Report) body.InputSnapshot {
		in := body.InputSnapshot{CrouchPressed: tick == 0, PronePressed: tick == 20 || tick == 140}
		if tick > 20 && tick < 140 {
			in.Move = forward
		}
		return in
	},
	// Look around while free-looking, then release.
	"free-look": func(tick int, _ body.Report) body.InputSnapshot {
		return body.InputSnapshot{
			Move:         forward,
			FreeLookHeld: tick < 60,
			MouseDelta:   physics.Vec2{X: 4},
		}
	},
	"idle": func(int, body.Report) body.InputSnapshot {
		return body.InputSnapshot{}
	},
}

func lookupScript(name string) (Script, error) {
	s, ok := scripts[name]
	if !ok {
		return nil, fmt.Errorf("unknown script %q (have %v)", name, scriptNames())
	}
	return s, nil
}

func scriptNames() []string {
	names := make([]string, 0, len(scripts))
	for name := range scripts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
