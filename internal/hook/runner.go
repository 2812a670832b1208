package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds a single hook invocation.
const DefaultTimeout = 5 * time.Second

// Runner discovers and executes hooks.
type Runner struct {
	dir     string
	timeout time.Duration
	mu      sync.RWMutex
	hooks   []Hook
}

// NewRunner creates a Runner over the given hook directory. A timeout of 0
// selects DefaultTimeout.
func NewRunner(dir string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{
		dir:     dir,
		timeout: timeout,
	}
}

// Discover scans the hook directory for executable files. Dotfiles and
// subdirectories are skipped. A missing directory simply leaves the hook
// list empty.
func (r *Runner) Discover() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hooks = nil

	entries, err := os.ReadDir(r.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.Mode()&0111 == 0 {
			continue
		}
		r.hooks = append(r.hooks, Hook{
			Name: entry.Name(),
			Path: filepath.Join(r.dir, entry.Name()),
		})
	}

	sort.Slice(r.hooks, func(i, j int) bool { return r.hooks[i].Name < r.hooks[j].Name })

	return nil
}

// Hooks returns the discovered hooks.
func (r *Runner) Hooks() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Hook, len(r.hooks))
	copy(out, r.hooks)
	return out
}

// Dir returns the hook directory path.
func (r *Runner) Dir() string {
	return r.dir
}

// Run executes one hook with the event on stdin and parses its stdout as a
// Result.
func (r *Runner) Run(h Hook, event Event) (*Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, h.Path)
	cmd.Dir = r.dir

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	cmd.Stdin = bytes.NewReader(eventJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("hook %s timeout after %s", h.Name, r.timeout)
	}
	if err != nil {
		if msg := stderr.String(); msg != "" {
			return nil, fmt.Errorf("hook %s failed: %w, stderr: %s", h.Name, err, msg)
		}
		return nil, fmt.Errorf("hook %s failed: %w", h.Name, err)
	}

	var result Result
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse hook %s response: %w, stdout: %s", h.Name, err, stdout.String())
	}

	return &result, nil
}

// Fire delivers the event to every discovered hook in name order. Failures
// are logged and counted but never propagate; the caller's control loop
// must not care whether a hook misbehaves.
func (r *Runner) Fire(event Event) int {
	failed := 0
	for _, h := range r.Hooks() {
		result, err := r.Run(h, event)
		if err != nil {
			log.Printf("hook %s: %v", h.Name, err)
			failed++
			continue
		}
		if !result.OK {
			log.Printf("hook %s reported failure: %s", h.Name, result.Error)
			failed++
		}
	}
	return failed
}
