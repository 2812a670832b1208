// Package main provides an example transition hook.
// It appends every command transition to a plain-text log file.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event represents the input from the hook runner.
type Event struct {
	ID       string    `json:"id"`
	Command  string    `json:"command"`
	Previous string    `json:"previous"`
	Fingers  int       `json:"fingers"`
	Left     float64   `json:"left"`
	Right    float64   `json:"right"`
	At       time.Time `json:"at"`
}

// Result represents the output to the hook runner.
type Result struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func main() {
	// Read event from stdin
	var event Event
	if err := json.NewDecoder(os.Stdin).Decode(&event); err != nil {
		writeErrorResult(fmt.Sprintf("failed to decode event: %v", err))
		return
	}

	if err := appendLine(&event); err != nil {
		writeErrorResult(fmt.Sprintf("failed to log transition: %v", err))
		return
	}

	writeOKResult()
}

// logPath returns the log file location. MUDRA_LOG overrides the default
// ~/.mudra/transitions.log.
func logPath() (string, error) {
	if path := os.Getenv("MUDRA_LOG"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".mudra", "transitions.log"), nil
}

// appendLine formats the event as one log line and appends it.
func appendLine(event *Event) error {
	path, err := logPath()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	fingers := fmt.Sprintf("%d fingers", event.Fingers)
	if event.Fingers < 0 {
		fingers = "no hand"
	}

	line := fmt.Sprintf("%s %s -> %s (%s) wheels L %+.2f R %+.2f\n",
		event.At.Format(time.RFC3339), event.Previous, event.Command,
		fingers, event.Left, event.Right)

	_, err = f.WriteString(line)
	return err
}

// writeErrorResult writes an error result to stdout.
func writeErrorResult(errMsg string) {
	result := Result{
		OK:    false,
		Error: errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(result)
}

// writeOKResult writes a success result to stdout.
func writeOKResult() {
	result := Result{
		OK: true,
	}
	json.NewEncoder(os.Stdout).Encode(result)
}
