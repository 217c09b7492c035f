// Command spacenav-monitor shows a live view of a 6-DOF feed in the terminal, or with -check lists
// the devices and spacenavd sockets it can find.
//
// Run it:
//
//	go run ./cmd/spacenav-monitor -config spacenav.yaml
//	go run ./cmd/spacenav-monitor -check
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/Carmen-Shannon/spacenav/engine/conditioner"
	"github.com/Carmen-Shannon/spacenav/engine/feed"
	"github.com/Carmen-Shannon/spacenav/engine/monitor"
	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	feedType := flag.String("feed", "", "override feed type: spnav, serial or mqtt")
	port := flag.String("port", "", "override serial port")
	check := flag.Bool("check", false, "list connected devices and sockets, then exit")
	raw := flag.Bool("raw", false, "show raw values only")
	flag.Parse()

	if *check {
		os.Exit(runCheck())
	}

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

	f, err := feed.FromConfig(cfg.Feed)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// The TUI owns the terminal.
	log.SetOutput(io.Discard)

	var cond conditioner.Conditioner
	if !*raw {
		cond = conditioner.NewConditioner(conditioner.WithSettings(cfg))
	}
	slot := feed.NewSlot(feed.DefaultButtonQueue)
	model := monitor.NewModel(f.Name(), slot, cond, time.Duration(cfg.PollIntervalMs)*time.Millisecond, cfg.AxisRange)
	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := feed.NewRunner(f, slot, feed.WithStateCallback(func(connected bool) {
		program.Send(monitor.StateMsg(connected))
	}))
	go func() {
		if err := runner.Run(ctx); err != nil {
			program.Send(monitor.ErrMsg{Err: err})
		}
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

func runCheck() int {
	devices, err := feed.ScanUSB(feed.SysfsUSBRoot)
	if err != nil {
		fmt.Printf("usb scan failed: %v\n", err)
	}
	if len(devices) == 0 {
		fmt.Println("no known 6-DOF devices connected")
	}
	for _, d := range devices {
		fmt.Printf("device  %s  %s\n", d.ID(), d.Name)
	}

	path, ok := feed.FindSpnavSocket(feed.SpnavSocketPaths)
	if !ok {
		fmt.Println("no spacenavd socket found")
		return 1
	}
	fmt.Printf("socket  %s\n", path)
	return 0
}
