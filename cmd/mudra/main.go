package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/drive"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	cameraID := flag.Int("camera", -1, "camera device ID (overrides config)")
	linkKind := flag.String("link", "", "drive link: none, serial or tcp (overrides config)")
	dryRun := flag.Bool("dry", false, "log wheel setpoints without driving hardware")
	flag.Parse()

	fmt.Println("Mudra - Gesture Teleop")

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *cameraID >= 0 {
		cfg.Camera.Device = *cameraID
	}
	if *linkKind != "" {
		cfg.Drive.Link = *linkKind
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid -link override: %v", err)
		}
	}

	// Data directory for the database and hooks
	dataDir, err := ensureDataDir()
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	storePath := cfg.Store.Path
	if storePath == "" {
		storePath = filepath.Join(dataDir, "mudra.db")
	}
	st, err := store.New(storePath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	link, err := openLink(cfg, *dryRun)
	if err != nil {
		log.Fatalf("Failed to open drive link: %v", err)
	}
	fmt.Printf("Drive link: %s\n", describeLink(cfg, *dryRun))

	hooksDir := cfg.Hooks.Dir
	if hooksDir == "" {
		hooksDir = filepath.Join(dataDir, "hooks")
	}

	a := app.New(app.Config{
		Store:      st,
		Link:       link,
		CameraID:   cfg.Camera.Device,
		Mirror:     cfg.Camera.Mirror,
		Handedness: cfg.Gesture.Handedness,
		Detector: detector.Config{
			MaxHands:        cfg.Detector.MaxHands,
			MinConfidence:   cfg.Detector.MinConfidence,
			MinTrackingConf: cfg.Detector.MinTrackingConf,
		},
		Policy:        drive.Policy{Speed: cfg.Drive.Speed, Turn: cfg.Drive.Turn},
		IdleFPS:       cfg.Pipeline.IdleFPS,
		ActiveFPS:     cfg.Pipeline.ActiveFPS,
		IdleAfter:     cfg.Pipeline.IdleAfter.Std(),
		WakeThreshold: cfg.Pipeline.WakeThreshold,
		HooksDir:      hooksDir,
		HookTimeout:   cfg.Hooks.Timeout.Std(),
	})

	if err := a.DiscoverHooks(); err != nil {
		log.Printf("Hook discovery failed: %v", err)
	}

	// Optional HTTP surface
	if cfg.Server.Enabled {
		webDir := findWebDir()
		if webDir != "" {
			fmt.Printf("Serving static files from: %s\n", webDir)
		}

		srv := server.New(server.Config{
			StaticDir: webDir,
			Store:     st,
			App:       a,
		})
		go func() {
			fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
			if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
	}

	// Tray wiring
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnEmergencyStop(a.EmergencyStop)
	t.OnDashboard(func() {
		openBrowser("http://" + cfg.Server.Addr)
	})

	a.RegisterTransitionCallback(func(_, current gesture.Command, setpoint drive.VelocityPair) {
		t.SetLastCommand(fmt.Sprintf("%s  L %+.1f R %+.1f", current, setpoint.Left, setpoint.Right))
	})

	a.SetEnabled(true)
	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	// Signals leave through the tray loop so there is one quit path.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		t.Quit()
	}()

	// Blocks until quit; systray wants the main thread.
	t.Run()

	// Stop applies the STOP setpoint before any teardown.
	a.Stop()
}

// loadConfig reads the YAML config, falling back through the default
// locations and finally the built-in defaults when no file exists.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	candidates := []string{"mudra.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".mudra", "mudra.yaml"))
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return config.Load(p)
		}
	}

	return config.Default(), nil
}

// ensureDataDir creates and returns ~/.mudra.
func ensureDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// openLink dials the configured drive link. A dry run or link "none" uses
// the in-memory mock so the pipeline still exercises the full path.
func openLink(cfg config.Config, dry bool) (drive.Link, error) {
	if dry {
		return drive.NewMockLink(), nil
	}

	switch cfg.Drive.Link {
	case config.LinkSerial:
		return drive.OpenSerialLink(cfg.Drive.SerialPort, cfg.Drive.Baud)
	case config.LinkTCP:
		return drive.DialTCPLink(cfg.Drive.TCPAddr)
	default:
		return drive.NewMockLink(), nil
	}
}

// describeLink names the active link for the startup banner.
func describeLink(cfg config.Config, dry bool) string {
	if dry {
		return "dry run (mock)"
	}
	switch cfg.Drive.Link {
	case config.LinkSerial:
		return fmt.Sprintf("serial %s @ %d baud", cfg.Drive.SerialPort, cfg.Drive.Baud)
	case config.LinkTCP:
		return fmt.Sprintf("tcp %s", cfg.Drive.TCPAddr)
	default:
		return "none (mock)"
	}
}

// findWebDir searches for the dashboard directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}

// openBrowser opens the URL with the platform's default browser.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}

	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}
