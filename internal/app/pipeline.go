package app

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/drive"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hook"
	"github.com/ayusman/mudra/internal/store"
)

// Status is a point-in-time snapshot of the pipeline.
type Status struct {
	Running     bool `json:"running"`
	Enabled     bool `json:"enabled"`
	Active      bool `json:"active"`
	HandPresent bool `json:"hand_present"`

	Command string  `json:"command"`
	Fingers int     `json:"fingers"` // raised fingers in the last frame; -1 when no hand
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`

	FramesProcessed uint64    `json:"frames_processed"`
	MalformedFrames uint64    `json:"malformed_frames"`
	TransitionCount uint64    `json:"transition_count"`
	StartedAt       time.Time `json:"started_at"`
}

// runPipeline is the control loop. Each tick reads one frame and pushes it
// through processFrame; the tick rate follows the idle/active mode so a
// quiet scene costs almost nothing.
func (a *App) runPipeline(stopCh, done chan struct{}) {
	defer close(done)

	interval := time.Second / time.Duration(a.config.IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			wasActive := a.isActive()
			a.processFrame(frame)
			frame.Close()

			if nowActive := a.isActive(); nowActive != wasActive {
				fps := a.config.IdleFPS
				if nowActive {
					fps = a.config.ActiveFPS
				}
				interval = time.Second / time.Duration(fps)
				ticker.Reset(interval)
			}
		}
	}
}

// processFrame runs one iteration of the control pipeline on a single
// frame:
//
//  1. Motion gate: coarse frame differencing wakes the pipeline out of
//     idle mode; while idle, the hand model is skipped entirely.
//  2. Hand detection, then finger-state extraction on the first hand.
//     A malformed observation is logged and dropped; the latch is not
//     consulted with garbage.
//  3. The classifier latches the next command. Unmapped finger counts and
//     hand-free frames hold the previous command.
//  4. The latched command's setpoint is applied to the drive link on
//     every frame, changed or not, so the platform keeps tracking the
//     latch even across dropped packets.
//  5. A transition triggers the side effects: log line, store record,
//     hooks and callbacks.
func (a *App) processFrame(frame *gocv.Mat) {
	motionDetected, _ := a.motion.Detect(frame)
	if motionDetected {
		a.touchActivity()
		if !a.isActive() {
			a.setActive(true)
			a.camera.SetFPS(a.config.ActiveFPS)
			log.Println("Switched to active mode")
		}
	}

	var obs *detector.Observation
	var state *gesture.FingerState
	fingers := -1
	handPresent := false

	if a.isActive() {
		hands, err := a.Detector().Detect(frame)
		if err != nil {
			log.Printf("Error detecting hands: %v", err)
		}
		if len(hands) > 0 {
			o := hands[0]
			s, err := a.extractor.Extract(&o)
			if err != nil {
				log.Printf("Skipping frame: %v", err)
				a.countMalformed()
			} else {
				obs = &o
				state = &s
				fingers = s.Count()
				handPresent = true
				a.touchActivity()
			}
		}
	}

	previous := a.classifier.Current()
	cmd, changed := a.classifier.Update(state)

	setpoint := a.policy.Velocities(cmd)
	a.applySetpoint(setpoint)

	if changed {
		log.Printf("Command %s -> %s (%d fingers), wheels L %+.2f R %+.2f",
			previous, cmd, fingers, setpoint.Left, setpoint.Right)
		a.recordTransition(previous, cmd, fingers, setpoint)
	}

	a.updateFrameStatus(handPresent, fingers)
	a.publishFrame(frame, obs)

	if a.isActive() && !handPresent && a.sinceActivity() > a.config.IdleAfter {
		a.setActive(false)
		a.camera.SetFPS(a.config.IdleFPS)
		a.motion.Reset()
		log.Println("Switched to idle mode")
	}
}

// applySetpoint records the setpoint and ships it out over the link.
// Write failures are logged and dropped; the next frame re-sends anyway.
func (a *App) applySetpoint(v drive.VelocityPair) {
	a.statusMu.Lock()
	a.setpoint = v
	a.statusMu.Unlock()

	if a.link == nil {
		return
	}
	if err := a.link.Apply(v); err != nil {
		log.Printf("Error applying wheel setpoint: %v", err)
	}
}

// recordTransition runs the side effects of a latched command change.
func (a *App) recordTransition(previous, cmd gesture.Command, fingers int, v drive.VelocityPair) {
	id := uuid.NewString()
	now := time.Now()

	a.statusMu.Lock()
	a.transitionCount++
	a.statusMu.Unlock()

	if a.config.Store != nil {
		err := a.config.Store.Transitions().Create(&store.Transition{
			ID:            id,
			Command:       cmd.String(),
			Previous:      previous.String(),
			Fingers:       fingers,
			LeftVelocity:  v.Left,
			RightVelocity: v.Right,
			CreatedAt:     now,
		})
		if err != nil {
			log.Printf("Error recording transition: %v", err)
		}
	}

	// Hooks may be slow; they must not stall the frame loop.
	go a.hooks.Fire(hook.Event{
		ID:       id,
		Command:  cmd.String(),
		Previous: previous.String(),
		Fingers:  fingers,
		Left:     v.Left,
		Right:    v.Right,
		At:       now,
	})

	a.mu.RLock()
	callbacks := make([]TransitionCallback, len(a.callbacks))
	copy(callbacks, a.callbacks)
	a.mu.RUnlock()
	for _, cb := range callbacks {
		cb(previous, cmd, v)
	}
}

// Status returns a snapshot of the pipeline state.
func (a *App) Status() Status {
	a.mu.RLock()
	running := a.stopCh != nil
	enabled := a.enabled
	a.mu.RUnlock()

	a.statusMu.RLock()
	defer a.statusMu.RUnlock()

	return Status{
		Running:         running,
		Enabled:         enabled,
		Active:          a.active,
		HandPresent:     a.handPresent,
		Command:         a.classifier.Current().String(),
		Fingers:         a.fingers,
		Left:            a.setpoint.Left,
		Right:           a.setpoint.Right,
		FramesProcessed: a.framesProcessed,
		MalformedFrames: a.malformedFrames,
		TransitionCount: a.transitionCount,
		StartedAt:       a.startedAt,
	}
}

func (a *App) isActive() bool {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.active
}

func (a *App) setActive(active bool) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.active = active
}

func (a *App) touchActivity() {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.lastActivity = time.Now()
}

func (a *App) sinceActivity() time.Duration {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return time.Since(a.lastActivity)
}

func (a *App) countMalformed() {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.malformedFrames++
}

func (a *App) updateFrameStatus(handPresent bool, fingers int) {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	a.framesProcessed++
	a.handPresent = handPresent
	a.fingers = fingers
}
