package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/spacenav/common"
	"go.bug.st/serial"
)

// ParseLine decodes one line of the serial text protocol:
//
//	m <tx> <ty> <tz> <rx> <ry> <rz>
//	b <index> <0|1>
//
// Blank lines and lines starting with '#' are rejected with ErrSkipLine.
//
// Parameters:
//   - line: the line without its terminator
//
// Returns:
//   - Message: the decoded message
//   - error: ErrSkipLine for comments, otherwise a description of the malformed field
func ParseLine(line string) (Message, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Message{}, ErrSkipLine
	}
	fields := strings.Fields(line)

	switch fields[0] {
	case "m":
		if len(fields) != 7 {
			return Message{}, fmt.Errorf("motion line has %d axes, want 6", len(fields)-1)
		}
		var axes [6]float64
		for i := range axes {
			v, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return Message{}, fmt.Errorf("axis %d: %w", i, err)
			}
			axes[i] = v
		}
		if err := validAxes(axes); err != nil {
			return Message{}, err
		}
		return Message{Kind: MessageMotion, Sample: common.AxisSampleFromAxes(axes)}, nil
	case "b":
		if len(fields) != 3 {
			return Message{}, fmt.Errorf("button line has %d fields, want 2", len(fields)-1)
		}
		idx, err := strconv.Atoi(fields[1])
		if err != nil {
			return Message{}, fmt.Errorf("button index: %w", err)
		}
		if err := validButton(idx); err != nil {
			return Message{}, err
		}
		var pressed bool
		switch fields[2] {
		case "1":
			pressed = true
		case "0":
		default:
			return Message{}, fmt.Errorf("button state %q, want 0 or 1", fields[2])
		}
		return Message{Kind: MessageButton, Button: common.ButtonEvent{Index: idx, Pressed: pressed}}, nil
	default:
		return Message{}, fmt.Errorf("unknown line type %q", fields[0])
	}
}

type serialFeed struct {
	port string
	baud int
	open func(port string, mode *serial.Mode) (io.ReadCloser, error)
}

var _ Feed = &serialFeed{}

// NewSerialFeed creates a feed reading the line protocol from a serial port.
//
// Parameters:
//   - port: device name, e.g. /dev/ttyACM0
//   - baud: baud rate
//
// Returns:
//   - Feed: the serial feed
func NewSerialFeed(port string, baud int) Feed {
	return &serialFeed{
		port: port,
		baud: baud,
		open: func(port string, mode *serial.Mode) (io.ReadCloser, error) {
			return serial.Open(port, mode)
		},
	}
}

func (f *serialFeed) Name() string {
	return "serial:" + f.port
}

func (f *serialFeed) Run(ctx context.Context, sink Sink) error {
	port, err := f.open(f.port, &serial.Mode{BaudRate: f.baud})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", f.port, err)
	}
	notifyConnected(sink)
	return readLines(ctx, port, sink, f.Name())
}

// readLines feeds every parsable line of r into sink until r fails or ctx ends. It closes r.
func readLines(ctx context.Context, r io.ReadCloser, sink Sink, name string) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		r.Close()
	}()

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			m, perr := ParseLine(strings.TrimRight(line, "\r\n"))
			switch {
			case perr == nil:
				deliver(sink, m)
			case perr != ErrSkipLine:
				log.Printf("feed %s: dropping line: %v", name, perr)
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read failed: %w", err)
		}
	}
}
