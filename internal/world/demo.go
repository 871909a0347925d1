package world

import (
	_ "embed"
)

const DemoLevelName = "demo"

//go:embed demo.yaml
var demoYAML []byte

// DemoLevel is the built-in level: a stair flight ahead of the spawn, a
// raised deck with 0.3 m edges, a crawl space with a low roof and a wall.
func DemoLevel() (*Level, error) {
	return ParseLevel(demoYAML)
}
