// Package hook runs external programs whenever the latched drive command
// changes. Hooks are plain executables in a directory; each transition is
// delivered as one JSON document on stdin and the hook answers with a JSON
// result on stdout. A broken hook never disturbs the control loop.
package hook

import "time"

// Event describes one command transition, as delivered to hooks.
type Event struct {
	ID       string    `json:"id"`
	Command  string    `json:"command"`
	Previous string    `json:"previous"`
	Fingers  int       `json:"fingers"`
	Left     float64   `json:"left"`
	Right    float64   `json:"right"`
	At       time.Time `json:"at"`
}

// Result is a hook's answer.
type Result struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Hook is one discovered executable.
type Hook struct {
	Name string
	Path string
}
