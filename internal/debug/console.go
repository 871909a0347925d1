package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/body"
	"github.com/Versifine/stride/internal/physics"
	"golang.org/x/term"
)

const (
	defaultMovePulse = 180 * time.Millisecond
	// lookStep is the mouse travel, in pixels, of one arrow key press.
	lookStep = 20.0
)

type ControlledBody interface {
	Submit(in body.InputSnapshot)
	Tick(delta float64) body.Report
	Teleport(origin physics.Vec3)
}

// Console drives a body from a raw terminal: W/A/S/D pulse movement, the
// arrows stand in for the mouse and single keys toggle or trigger actions.
type Console struct {
	body         ControlledBody
	delta        float64
	tickInterval time.Duration
	movePulse    time.Duration
	out          io.Writer

	mu            sync.Mutex
	sprint        bool
	freeLook      bool
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	last          body.Report
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

// NewConsole ticks b every delta seconds of wall time.
func NewConsole(b ControlledBody, delta float64) *Console {
	return &Console{
		body:         b,
		delta:        delta,
		tickInterval: time.Duration(delta * float64(time.Second)),
		movePulse:    defaultMovePulse,
		out:          os.Stdout,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.body == nil {
		return fmt.Errorf("console body is nil")
	}
	if c.tickInterval <= 0 {
		return fmt.Errorf("console tick interval must be positive, got %s", c.tickInterval)
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("console needs a terminal on stdin")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, arrows look, C crouch, Z prone, Space jump, [ sprint, F free look, :help)\r\n")
	c.renderStatusLine()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.tickLoop(ctx)

	return c.readKeys(ctx, bufio.NewReader(os.Stdin))
}

func (c *Console) readKeys(ctx context.Context, reader *bufio.Reader) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl+C
			return nil
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c.tick(now)
			c.renderStatusLine()
		}
	}
}

// tick refreshes the held input and advances the body one step.
func (c *Console) tick(now time.Time) body.Report {
	c.mu.Lock()
	c.expirePulsesLocked(now)
	in := c.heldLocked()
	c.mu.Unlock()

	c.body.Submit(in)
	report := c.body.Tick(c.delta)

	c.mu.Lock()
	c.last = report
	c.mu.Unlock()
	if report.SteppedUp || report.SteppedDown {
		slog.Debug("debug stair step", "up", report.SteppedUp, "down", report.SteppedDown, "y", report.Position.Y)
	}
	return report
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.forwardUntil, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.backwardUntil, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.leftUntil, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.rightUntil, &c.leftUntil)
	case 'c', 'C':
		c.trigger(body.InputSnapshot{CrouchPressed: true})
	case 'z', 'Z':
		c.trigger(body.InputSnapshot{PronePressed: true})
	case ' ':
		c.trigger(body.InputSnapshot{JumpPressed: true})
	case '[':
		c.toggle(&c.sprint, "sprint")
	case 'f', 'F':
		c.toggle(&c.freeLook, "free look")
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.trigger(body.InputSnapshot{MouseDelta: physics.Vec2{X: -lookStep}})
		case 'C': // right
			c.trigger(body.InputSnapshot{MouseDelta: physics.Vec2{X: lookStep}})
		case 'A': // up
			c.trigger(body.InputSnapshot{MouseDelta: physics.Vec2{Y: -lookStep}})
		case 'B': // down
			c.trigger(body.InputSnapshot{MouseDelta: physics.Vec2{Y: lookStep}})
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		r := c.lastReport()
		fmt.Fprintf(c.out, "[debug] posture=%s gait=%s speed=%.2f sprinting=%t grounded=%t\r\n",
			r.Posture, r.Gait, r.Speed, r.Sprinting, r.Grounded)
		fmt.Fprintf(c.out, "[debug] pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f)\r\n",
			r.Position.X, r.Position.Y, r.Position.Z,
			r.Velocity.X, r.Velocity.Y, r.Velocity.Z)
		fmt.Fprintf(c.out, "[debug] yaw=%.1f pitch=%.1f neck=%.1f roll=%.1f free_look=%t blend=(%.2f,%.2f)\r\n",
			physics.RadToDeg(r.Look.Yaw), physics.RadToDeg(r.Look.Pitch),
			physics.RadToDeg(r.Look.NeckYaw), physics.RadToDeg(r.Look.Roll),
			r.Look.FreeLooking, r.Blend.X, r.Blend.Y)
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		c.body.Teleport(physics.Vec3{X: x, Y: y, Z: z})
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Arrows: look (mouse stand-in)\r\n")
	fmt.Fprint(c.out, "  C: crouch / stand\r\n")
	fmt.Fprint(c.out, "  Z: prone / get up\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  [: toggle sprint\r\n")
	fmt.Fprint(c.out, "  F: toggle free look\r\n")
	fmt.Fprint(c.out, "  X: clear held input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	in := c.heldLocked()
	r := c.last
	width := c.statusWidth
	c.mu.Unlock()

	line := fmt.Sprintf(
		"[%s %s SPR:%s FL:%s | YAW:%.1f PIT:%.1f | X:%.2f Y:%.2f Z:%.2f v:%.2f ground:%t]",
		r.Posture,
		r.Gait,
		boolLabel(in.SprintHeld),
		boolLabel(in.FreeLookHeld),
		physics.RadToDeg(r.Look.Yaw),
		physics.RadToDeg(r.Look.Pitch),
		r.Position.X,
		r.Position.Y,
		r.Position.Z,
		r.Speed,
		r.Grounded,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

// trigger submits one-shot input together with the current held state.
func (c *Console) trigger(extra body.InputSnapshot) {
	c.mu.Lock()
	in := c.heldLocked()
	c.mu.Unlock()

	in.MouseDelta = extra.MouseDelta
	in.CrouchPressed = extra.CrouchPressed
	in.PronePressed = extra.PronePressed
	in.JumpPressed = extra.JumpPressed
	c.body.Submit(in)
}

func (c *Console) toggle(flag *bool, name string) {
	c.mu.Lock()
	*flag = !*flag
	enabled := *flag
	c.mu.Unlock()
	slog.Debug("debug toggle", "input", name, "enabled", enabled)
	c.trigger(body.InputSnapshot{})
}

func (c *Console) pulse(until, opposite *time.Time) {
	c.mu.Lock()
	*until = time.Now().Add(c.movePulse)
	*opposite = time.Time{}
	c.mu.Unlock()
	c.trigger(body.InputSnapshot{})
}

func (c *Console) expirePulsesLocked(now time.Time) {
	for _, until := range []*time.Time{&c.forwardUntil, &c.backwardUntil, &c.leftUntil, &c.rightUntil} {
		if !until.IsZero() && !now.Before(*until) {
			*until = time.Time{}
		}
	}
}

func (c *Console) heldLocked() body.InputSnapshot {
	var move physics.Vec2
	if !c.forwardUntil.IsZero() {
		move.Y++
	}
	if !c.backwardUntil.IsZero() {
		move.Y--
	}
	if !c.rightUntil.IsZero() {
		move.X++
	}
	if !c.leftUntil.IsZero() {
		move.X--
	}
	return body.InputSnapshot{
		Move:         move,
		SprintHeld:   c.sprint,
		FreeLookHeld: c.freeLook,
	}
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.sprint = false
	c.freeLook = false
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.mu.Unlock()
	c.trigger(body.InputSnapshot{})
}

func (c *Console) lastReport() body.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
