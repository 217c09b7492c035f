package feed

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/Carmen-Shannon/spacenav/common"
)

// SpnavEventSize is the size of one spacenavd event: eight native int32 words.
const SpnavEventSize = 32

// spacenavd event types, first word of every event.
const (
	spnavMotion  = 0
	spnavPress   = 1
	spnavRelease = 2
)

// SpnavEvent is one decoded spacenavd event.
type SpnavEvent struct {
	Kind    MessageKind
	Sample  common.AxisSample
	Period  int
	Code    common.ButtonCode
	Pressed bool
}

// DecodeSpnavEvent decodes a 32-byte spacenavd event.
//
// Parameters:
//   - b: exactly SpnavEventSize bytes
//
// Returns:
//   - SpnavEvent: the decoded event
//   - error: on a short buffer or unknown event type
func DecodeSpnavEvent(b []byte) (SpnavEvent, error) {
	if len(b) != SpnavEventSize {
		return SpnavEvent{}, fmt.Errorf("spnav event is %d bytes, want %d", len(b), SpnavEventSize)
	}
	var w [8]int32
	for i := range w {
		w[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
	}

	switch w[0] {
	case spnavMotion:
		return SpnavEvent{
			Kind: MessageMotion,
			Sample: common.AxisSample{
				TX: float64(w[1]), TY: float64(w[2]), TZ: float64(w[3]),
				RX: float64(w[4]), RY: float64(w[5]), RZ: float64(w[6]),
			},
			Period: int(w[7]),
		}, nil
	case spnavPress, spnavRelease:
		return SpnavEvent{
			Kind:    MessageButton,
			Code:    common.ButtonCode(w[1]),
			Pressed: w[0] == spnavPress,
		}, nil
	default:
		return SpnavEvent{}, fmt.Errorf("unknown spnav event type %d", w[0])
	}
}

// EncodeSpnavEvent is the inverse of DecodeSpnavEvent, used by fakes and replay tools.
func EncodeSpnavEvent(ev SpnavEvent) []byte {
	var w [8]int32
	switch ev.Kind {
	case MessageMotion:
		s := ev.Sample
		w = [8]int32{spnavMotion, int32(s.TX), int32(s.TY), int32(s.TZ), int32(s.RX), int32(s.RY), int32(s.RZ), int32(ev.Period)}
	case MessageButton:
		w[0] = spnavRelease
		if ev.Pressed {
			w[0] = spnavPress
		}
		w[1] = int32(ev.Code)
	}
	b := make([]byte, SpnavEventSize)
	for i, v := range w {
		binary.LittleEndian.PutUint32(b[i*4:], uint32(v))
	}
	return b
}

type spnavFeed struct {
	path    string
	buttons common.ButtonMap
}

var _ Feed = &spnavFeed{}

// NewSpnavFeed creates a feed reading the spacenavd AF_UNIX socket.
// Button codes missing from buttons are dropped.
//
// Parameters:
//   - path: socket path, e.g. /var/run/spnav.sock
//   - buttons: raw code -> logical index, common.DefaultButtonMap() when nil
//
// Returns:
//   - Feed: the spacenavd feed
func NewSpnavFeed(path string, buttons common.ButtonMap) Feed {
	if buttons == nil {
		buttons = common.DefaultButtonMap()
	}
	return &spnavFeed{path: path, buttons: buttons}
}

func (f *spnavFeed) Name() string {
	return "spnav:" + f.path
}

func (f *spnavFeed) Run(ctx context.Context, sink Sink) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", f.path)
	if err != nil {
		return fmt.Errorf("failed to connect to spacenavd at %s: %w", f.path, err)
	}
	notifyConnected(sink)
	return f.read(ctx, conn, sink)
}

// read consumes events from conn until it fails or ctx ends. It closes conn.
func (f *spnavFeed) read(ctx context.Context, conn io.ReadCloser, sink Sink) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	buf := make([]byte, SpnavEventSize)
	for {
		if _, err := io.ReadFull(conn, buf); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("spacenavd connection lost: %w", err)
		}
		ev, err := DecodeSpnavEvent(buf)
		if err != nil {
			continue
		}
		switch ev.Kind {
		case MessageMotion:
			sink.PublishSample(ev.Sample)
		case MessageButton:
			if idx, ok := f.buttons.Lookup(ev.Code); ok {
				sink.PublishButton(common.ButtonEvent{Index: idx, Pressed: ev.Pressed})
			}
		}
	}
}
