// Command spacenav drives a camera over a demo scene from a 6-DOF device.
//
// Run it:
//
//	go run ./cmd/spacenav -config spacenav.yaml
//	go run ./cmd/spacenav -headless -feed serial -port /dev/ttyUSB0
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/Carmen-Shannon/spacenav/engine"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/feed"
	"github.com/Carmen-Shannon/spacenav/engine/navigator"
	"github.com/Carmen-Shannon/spacenav/engine/renderer"
	"github.com/Carmen-Shannon/spacenav/engine/scene"
	"github.com/Carmen-Shannon/spacenav/engine/telemetry"
	"github.com/Carmen-Shannon/spacenav/engine/window"
)

const (
	gridCount   = 500
	gridSide    = 10
	gridSpacing = 3.0
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	feedType := flag.String("feed", "", "override feed type: spnav, serial, mqtt or joystick")
	port := flag.String("port", "", "override serial port")
	headless := flag.Bool("headless", false, "run without a window")
	profile := flag.Bool("profile", false, "log tick statistics")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, adjustments, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		for _, a := range adjustments {
			log.Printf("config: %s", a)
		}
		cfg = loaded
	}
	if *feedType != "" {
		cfg.Feed.Type = *feedType
	}
	if *port != "" {
		cfg.Feed.Port = *port
	}
	if *headless && cfg.Feed.Type == config.FeedJoystick {
		log.Fatalf("the joystick feed needs a window")
	}

	// ── Scene ───────────────────────────────────────────────────────────
	cam := camera.NewCamera(camera.WithLookAt(
		common.Vec3{40, 30, 60},
		common.Vec3{0, 6, 0},
		common.Vec3{0, 1, 0},
	))
	sc := scene.NewScene("spacenav", cam)
	scene.SpawnGrid(sc, gridCount, gridSide, gridSpacing, 1)

	commands := scene.NewCommands(sc)
	for index, name := range cfg.Buttons {
		if err := commands.Bind(index, name); err != nil {
			log.Printf("buttons: %v", err)
		}
	}
	markers := scene.NewMarkerStore()

	// ── Engine + Window ─────────────────────────────────────────────────
	var win window.Window
	if !*headless {
		w, err := window.NewWindow(window.WithTitle("spacenav"), window.WithSize(1280, 720))
		if err != nil {
			log.Fatalf("%v", err)
		}
		win = w
	}

	slot := feed.NewSlot(feed.DefaultButtonQueue)
	dispatcher := event.NewDispatcher()
	ctrl := navigator.NewController(
		navigator.WithConfig(cfg),
		navigator.WithDispatcher(dispatcher),
		navigator.WithButtonDispatcher(commands),
		navigator.WithMarkerSink(markers),
	)
	options := []engine.EngineBuilderOption{
		engine.WithProfiling(*profile),
		engine.WithTickInterval(time.Duration(cfg.PollIntervalMs) * time.Millisecond),
		engine.WithMarkerRate(time.Duration(cfg.MarkerIntervalMs) * time.Millisecond),
		engine.WithSlot(slot),
		engine.WithDispatcher(dispatcher),
		engine.WithController(ctrl),
	}
	if win != nil {
		options = append(options, engine.WithWindow(win))
	}
	eng := engine.NewEngine(options...)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			eng.Quit()
		case <-eng.Done():
			cancel()
		}
	}()

	// ── Feed ────────────────────────────────────────────────────────────
	if cfg.Feed.Type == config.FeedJoystick {
		joy := window.NewJoystickFeed(cfg.Feed.Joystick, cfg.AxisRange, slot)
		eng.SetUpdateCallback(joy.Poll)
	} else {
		f, err := feed.FromConfig(cfg.Feed)
		if err != nil {
			log.Fatalf("%v", err)
		}
		runner := feed.NewRunner(f, slot, feed.WithStateCallback(func(connected bool) {
			log.Printf("feed %s connected=%t", f.Name(), connected)
		}))
		go func() {
			if err := runner.Run(ctx); err != nil {
				log.Printf("feed %s stopped: %v", f.Name(), err)
			}
		}()
	}

	// ── Telemetry ───────────────────────────────────────────────────────
	if cfg.Telemetry.Listen != "" {
		hub := telemetry.NewHub()
		watcher := telemetry.NewPoseWatcher(hub, cam, markers.Marker, func() bool {
			return ctrl.State() == navigator.Active
		})
		eng.SetTickCallback(func(float32) { watcher.Check() })
		go func() {
			if err := hub.ListenAndServe(ctx, cfg.Telemetry.Listen); err != nil {
				log.Printf("telemetry: %v", err)
			}
		}()
	}

	// ── Renderer ────────────────────────────────────────────────────────
	if win != nil {
		r, err := renderer.NewRenderer(renderer.BackendTypeWGPU, win)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer r.Release()
		win.SetResizeCallback(r.Resize)
		eng.SetRenderCallback(func(float32) {
			if err := r.Render(cam.Pose(), markers.Marker()); err != nil {
				log.Printf("render: %v", err)
			}
		})
		win.SetKeyDownCallback(func(key window.Key) {
			eng.Post(func() { handleKey(key, ctrl, sc, commands) })
		})
	}

	eng.Post(func() { start(ctrl, sc) })
	eng.Run()

	if ctrl.State() == navigator.Active {
		_ = ctrl.Stop()
	}
}

// handleKey runs on the engine loop, where the controller lives.
func handleKey(key window.Key, ctrl navigator.Controller, sc scene.Scene, commands scene.Commands) {
	var err error
	switch key {
	case window.KeyF:
		err = commands.Run(scene.CommandViewFitAll)
	case window.KeyH:
		err = commands.Run(scene.CommandViewHome)
	case window.KeyO:
		err = commands.Run(scene.CommandToggleProjection)
	case window.KeySpace:
		if ctrl.State() == navigator.Active {
			err = ctrl.Stop()
			log.Printf("navigation stopped")
		} else {
			start(ctrl, sc)
		}
	}
	if err != nil {
		log.Printf("key %d: %v", key, err)
	}
}

func start(ctrl navigator.Controller, sc scene.Scene) {
	if err := ctrl.Start(sc); err != nil {
		log.Printf("navigation not started: %v", err)
		return
	}
	log.Printf("navigation started")
}
