package world

import (
	"errors"
	"fmt"
	"os"

	"github.com/Versifine/stride/internal/physics"
	"gopkg.in/yaml.v3"
)

// Point is an x, y, z triple written as a YAML sequence: [x, y, z].
type Point physics.Vec3

func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	var xyz []float64
	if err := node.Decode(&xyz); err != nil {
		return fmt.Errorf("line %d: point must be a list of numbers: %w", node.Line, err)
	}
	if len(xyz) != 3 {
		return fmt.Errorf("line %d: point needs 3 coordinates, got %d", node.Line, len(xyz))
	}
	*p = Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}

func (p Point) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{p.X, p.Y, p.Z} {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprint(v)})
	}
	return node, nil
}

func (p Point) Vec() physics.Vec3 { return physics.Vec3(p) }

// Box is one solid, axis-aligned block of level geometry.
type Box struct {
	Name string `yaml:"name,omitempty"`
	Min  Point  `yaml:"min"`
	Max  Point  `yaml:"max"`
}

func (b Box) AABB() physics.AABB {
	return physics.AABB{Min: b.Min.Vec(), Max: b.Max.Vec()}
}

// Level is a static collision world plus where the body starts in it.
type Level struct {
	Name     string  `yaml:"name"`
	Spawn    Point   `yaml:"spawn"`
	SpawnYaw float64 `yaml:"spawn_yaw"` // degrees
	Boxes    []Box   `yaml:"boxes"`
}

var ErrEmptyLevel = errors.New("level has no boxes")

func ParseLevel(data []byte) (*Level, error) {
	lvl := &Level{}
	if err := yaml.Unmarshal(data, lvl); err != nil {
		return nil, fmt.Errorf("parse level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lvl, nil
}

// Load resolves a level reference: empty or "demo" is the built-in level,
// anything else is a file path.
func Load(ref string) (*Level, error) {
	if ref == "" || ref == DemoLevelName {
		return DemoLevel()
	}
	return LoadLevel(ref)
}

// Validate checks that every box has positive extent and that a standing
// body fits at the spawn point.
func (l *Level) Validate() error {
	if len(l.Boxes) == 0 {
		return ErrEmptyLevel
	}
	for i, b := range l.Boxes {
		if b.Min.X >= b.Max.X || b.Min.Y >= b.Max.Y || b.Min.Z >= b.Max.Z {
			return fmt.Errorf("box %d (%s): min %v must be below max %v on every axis", i, b.Name, b.Min, b.Max)
		}
	}
	envelope := physics.BoxAt(l.Spawn.Vec(), physics.StandingWidth, physics.StandingHeight)
	for i, b := range l.Boxes {
		if b.AABB().Intersects(envelope) {
			return fmt.Errorf("spawn %v is inside box %d (%s)", l.Spawn, i, b.Name)
		}
	}
	return nil
}

func (l *Level) Space() *physics.Space {
	space := physics.NewSpace()
	for _, b := range l.Boxes {
		space.Add(b.AABB())
	}
	return space
}

func (l *Level) SpawnTransform() physics.Transform {
	return physics.Transform{Origin: l.Spawn.Vec(), Yaw: physics.DegToRad(l.SpawnYaw)}
}

// NewBody builds the level's collision space and places a kinematic body at
// the spawn point.
func (l *Level) NewBody(opts ...physics.BodyOption) (*physics.KinematicBody, error) {
	body, err := physics.NewKinematicBody(l.Space(), l.Spawn.Vec(), opts...)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", l.Name, err)
	}
	body.SetTransform(l.SpawnTransform())
	return body, nil
}
