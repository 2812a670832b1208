// Package app wires the capture, detection, classification and actuation
// stages into the gesture teleop daemon.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/drive"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing defaults.
const (
	// DefaultIdleFPS is the frame rate while nothing moves in front of
	// the camera.
	DefaultIdleFPS = 5
	// DefaultActiveFPS is the frame rate while a hand is being tracked.
	DefaultActiveFPS = 15
	// DefaultIdleAfter is how long the pipeline keeps the active pace
	// after the last sign of activity.
	DefaultIdleAfter = 10 * time.Second
)

// Config holds configuration options for the application.
type Config struct {
	Store *store.Store
	Link  drive.Link

	CameraID   int
	Mirror     bool
	Handedness string

	Detector detector.Config
	Policy   drive.Policy

	IdleFPS       int
	ActiveFPS     int
	IdleAfter     time.Duration
	WakeThreshold float64

	HooksDir    string
	HookTimeout time.Duration
}

// TransitionCallback is invoked after a command transition has been
// latched and its setpoint applied. Callbacks run on the pipeline
// goroutine and must return quickly.
type TransitionCallback func(previous, current gesture.Command, setpoint drive.VelocityPair)

// App orchestrates the frame loop: capture, hand detection, finger
// classification and wheel actuation, plus the transition side effects
// (log, store, hooks, callbacks).
type App struct {
	config Config

	camera   capture.Camera
	motion   *capture.MotionDetector
	detector detector.Detector

	extractor  *gesture.Extractor
	classifier *gesture.Classifier
	policy     drive.Policy
	link       drive.Link
	hooks      *hook.Runner

	mu        sync.RWMutex
	enabled   bool
	stopCh    chan struct{}
	done      chan struct{}
	callbacks []TransitionCallback

	statusMu        sync.RWMutex
	active          bool
	handPresent     bool
	fingers         int
	setpoint        drive.VelocityPair
	lastActivity    time.Time
	framesProcessed uint64
	malformedFrames uint64
	transitionCount uint64
	startedAt       time.Time

	frameMu    sync.RWMutex
	lastJPEG   []byte
	lastPoints []detector.Point
}

// New creates a new App instance with the given configuration. Zero config
// fields fall back to the package defaults.
func New(config Config) *App {
	if config.IdleFPS <= 0 {
		config.IdleFPS = DefaultIdleFPS
	}
	if config.ActiveFPS <= 0 {
		config.ActiveFPS = DefaultActiveFPS
	}
	if config.IdleAfter <= 0 {
		config.IdleAfter = DefaultIdleAfter
	}
	if config.WakeThreshold <= 0 {
		config.WakeThreshold = capture.DefaultWakeThreshold
	}
	if config.Handedness == "" {
		config.Handedness = "Right"
	}
	if config.Detector.MaxHands == 0 {
		config.Detector = detector.DefaultConfig()
	}
	if config.Policy == (drive.Policy{}) {
		config.Policy = drive.DefaultPolicy()
	}

	a := &App{
		config: config,
		camera: capture.NewCamera(config.CameraID, config.Mirror),
		motion: capture.NewMotionDetector(config.WakeThreshold),
		extractor: gesture.NewExtractor(gesture.ExtractorConfig{
			Handedness:    config.Handedness,
			MirroredInput: config.Mirror,
		}),
		classifier: gesture.NewClassifier(),
		policy:     config.Policy,
		link:       config.Link,
		hooks:      hook.NewRunner(config.HooksDir, config.HookTimeout),
		fingers:    -1,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables gesture control. Disabling stops the
// platform; a paused pipeline must never leave the wheels turning.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	wasEnabled := a.enabled
	a.enabled = enabled
	a.mu.Unlock()

	if wasEnabled && !enabled {
		a.haltPlatform("paused")
	}
}

// IsEnabled returns whether gesture control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Hooks returns the transition hook runner.
func (a *App) Hooks() *hook.Runner {
	return a.hooks
}

// Command returns the currently latched command.
func (a *App) Command() gesture.Command {
	return a.classifier.Current()
}

// RegisterTransitionCallback adds a callback invoked on every command
// transition. Register before Start.
func (a *App) RegisterTransitionCallback(cb TransitionCallback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, cb)
}

// DiscoverHooks scans the hook directory for transition hooks.
func (a *App) DiscoverHooks() error {
	if err := a.hooks.Discover(); err != nil {
		return err
	}
	if n := len(a.hooks.Hooks()); n > 0 {
		log.Printf("Discovered %d transition hooks in %s", n, a.hooks.Dir())
	}
	return nil
}

// Start opens the camera and begins the control loop.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(a.config.IdleFPS)

	a.statusMu.Lock()
	a.startedAt = time.Now()
	a.lastActivity = time.Now()
	a.statusMu.Unlock()

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.stopCh, a.done)

	log.Println("Control pipeline started")
	return nil
}

// Stop halts the control loop, stops the platform and releases resources.
// The stop setpoint always goes out before the link is torn down.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh == nil {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	a.stopCh = nil
	done := a.done
	a.mu.Unlock()

	<-done

	a.haltPlatform("shutdown")

	if a.link != nil {
		if err := a.link.Close(); err != nil {
			log.Printf("Error closing drive link: %v", err)
		}
	}
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Control pipeline stopped")
}

// EmergencyStop latches STOP and pushes a zero setpoint immediately,
// bypassing classification. The latch moves off STOP again on the next
// mapped gesture.
func (a *App) EmergencyStop() {
	a.haltPlatform("emergency stop")
}

// haltPlatform forces the latch to STOP and applies the zero setpoint.
// The transition, if it is one, goes through the usual side effects with
// a finger count of -1.
func (a *App) haltPlatform(reason string) {
	previous := a.classifier.Current()
	a.classifier.Force(gesture.Stop)

	stop := a.policy.Velocities(gesture.Stop)
	a.applySetpoint(stop)

	if previous != gesture.Stop {
		log.Printf("Platform halted (%s): %s -> STOP", reason, previous)
		a.recordTransition(previous, gesture.Stop, -1, stop)
	}
}
