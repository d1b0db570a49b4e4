package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/config"
	"github.com/ayusman/airsketch/internal/naming"
	"github.com/ayusman/airsketch/internal/render"
	"github.com/ayusman/airsketch/internal/server"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/session"
	"github.com/ayusman/airsketch/internal/store"
	"github.com/ayusman/airsketch/internal/suggest"
	"github.com/ayusman/airsketch/internal/tray"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "path to config.yaml")
	addr := flag.String("addr", "", "listen address (overrides config)")
	camera := flag.Int("camera", -1, "camera device index (overrides config)")
	withTray := flag.Bool("tray", false, "show the system tray menu")
	flag.Parse()

	fmt.Println("AirSketch - Hand Drawing in the Air")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *camera >= 0 {
		cfg.Camera.Device = *camera
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	sessionCfg := cfg.Session
	if err := loadSettings(st, &sessionCfg.Settings); err != nil {
		log.Printf("Ignoring saved settings: %v", err)
	}

	// The in-process service also backs /api/recommend-shapes.
	service := naming.New(cfg.Naming.Config)
	namer := buildNamer(cfg, service)

	application, err := app.New(app.Config{
		CameraConfig:   cfg.Camera,
		Motion:         cfg.Motion,
		DetectorConfig: cfg.Detector,
		Session:        sessionCfg,
		Timing:         cfg.Pipeline,
		Namer:          namer,
		Suggest:        cfg.Suggest,
	})
	if err != nil {
		log.Fatalf("Failed to create app: %v", err)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		log.Printf("Camera unavailable, serving without hand tracking: %v", err)
	}

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir(cfg.DataDir)
	}
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Engine:    application,
		Namer:     service,
	})

	if !*withTray {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Server.Addr)
		if err := srv.ListenAndServe(cfg.Server.Addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()
	runTray(application, st, cfg.Server.Addr)
}

// loadSettings overlays settings saved through the API, if any.
func loadSettings(st *store.Store, settings *session.Settings) error {
	saved := *settings
	if err := st.Settings().GetJSON(api.SettingsKey, &saved); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := saved.Validate(); err != nil {
		return err
	}
	*settings = saved
	return nil
}

// buildNamer picks the suggestion source: a remote URL, then an external
// command, then the in-process service.
func buildNamer(cfg *config.Config, service *naming.Service) suggest.Namer {
	switch {
	case cfg.Naming.URL != "":
		log.Printf("Shape suggestions from %s", cfg.Naming.URL)
		return suggest.NewHTTPNamer(cfg.Naming.URL, nil)
	case cfg.Naming.Command != "":
		log.Printf("Shape suggestions from command %s", cfg.Naming.Command)
		return suggest.NewCommandNamer(cfg.Naming.Command, cfg.DataDir, cfg.Naming.CommandTimeout)
	case service.Configured():
		return service
	}
	log.Println("No naming backend configured, shape suggestions disabled")
	return nil
}

// runTray blocks on the tray menu. Menu actions run on the frame loop.
func runTray(a *app.App, st *store.Store, addr string) {
	t := tray.New()
	do := func(fn func(*session.Session)) {
		if err := a.Do(fn); err != nil {
			log.Printf("Tray command failed: %v", err)
		}
	}

	t.OnToggle(a.SetEnabled)
	t.OnMode(func(mode string) {
		do(func(s *session.Session) {
			if err := s.SetMode(mode); err != nil {
				log.Printf("Failed to set mode: %v", err)
			}
		})
	})
	t.OnUndo(func() { do(func(s *session.Session) { s.Undo() }) })
	t.OnRedo(func() { do(func(s *session.Session) { s.Redo() }) })
	t.OnClear(func() { do(func(s *session.Session) { s.Clear() }) })
	t.OnSnapshot(func() {
		if err := saveSnapshot(a, st); err != nil {
			log.Printf("Snapshot failed: %v", err)
		}
	})
	t.OnSettings(func() {
		fmt.Printf("Settings: http://localhost%s/\n", addr)
	})
	t.OnQuit(func() {
		a.Close()
		st.Close()
		os.Exit(0)
	})

	views, cancel := a.Subscribe()
	defer cancel()
	go func() {
		last, mode := 0, ""
		for v := range views {
			if string(v.Mode) != mode {
				mode = string(v.Mode)
				t.SetMode(mode)
			}
			if n := len(v.Shapes); n > 0 && n != last {
				t.SetLastShape(string(v.Shapes[n-1].Type))
			}
			last = len(v.Shapes)
		}
	}()

	t.Run()
}

// saveSnapshot stores the current composite in the gallery.
func saveSnapshot(a *app.App, st *store.Store) error {
	frame := a.Composite()
	defer frame.Close()

	png, err := render.EncodePNG(frame)
	if err != nil {
		return err
	}
	return st.Snapshots().Create(&store.Snapshot{
		Width:  frame.Cols(),
		Height: frame.Rows(),
		PNG:    png,
	})
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
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

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
