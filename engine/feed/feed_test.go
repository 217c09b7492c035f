package feed

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

type recordingSink struct {
	mu      sync.Mutex
	samples []common.AxisSample
	buttons []common.ButtonEvent
}

func (s *recordingSink) PublishSample(sample common.AxisSample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
}

func (s *recordingSink) PublishButton(button common.ButtonEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buttons = append(s.buttons, button)
}

func (s *recordingSink) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.samples), len(s.buttons)
}

func TestSlot_CoalescesSamples(t *testing.T) {
	s := NewSlot(0)
	s.PublishSample(common.AxisSample{TX: 1})
	s.PublishSample(common.AxisSample{TX: 2})
	s.PublishSample(common.AxisSample{TX: 3})

	sample, ok, buttons := s.Take()
	assert.True(t, ok)
	assert.Equal(t, 3.0, sample.TX)
	assert.Empty(t, buttons)

	_, ok, _ = s.Take()
	assert.False(t, ok)

	stats := s.Stats()
	assert.Equal(t, uint64(3), stats.Samples)
	assert.Equal(t, uint64(2), stats.Coalesced)
}

func TestSlot_ButtonQueueKeepsOrderAndBound(t *testing.T) {
	s := NewSlot(3)
	for i := 0; i < 5; i++ {
		s.PublishButton(common.ButtonEvent{Index: i, Pressed: i%2 == 0})
	}
	_, ok, buttons := s.Take()
	assert.False(t, ok)
	require.Len(t, buttons, 3)
	assert.Equal(t, []int{2, 3, 4}, []int{buttons[0].Index, buttons[1].Index, buttons[2].Index})
	assert.Equal(t, uint64(2), s.Stats().Dropped)
}

func TestSlot_Notify(t *testing.T) {
	s := NewSlot(0)
	s.PublishSample(common.AxisSample{RY: 1})
	s.PublishButton(common.ButtonEvent{Index: 1})

	select {
	case <-s.Notify():
	default:
		t.Fatal("expected a wakeup")
	}
	select {
	case <-s.Notify():
		t.Fatal("wakeups should coalesce")
	default:
	}
}

func TestSlot_ConcurrentPublishers(t *testing.T) {
	s := NewSlot(1000)
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.PublishSample(common.AxisSample{TX: float64(i)})
				s.PublishButton(common.ButtonEvent{Index: 0, Pressed: true})
			}
		}()
	}
	wg.Wait()

	_, ok, buttons := s.Take()
	assert.True(t, ok)
	assert.Len(t, buttons, 400)
	assert.Equal(t, uint64(400), s.Stats().Samples)
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Message
		err  bool
		skip bool
	}{
		{"motion", "m 1 -2 3.5 0 0 -350", Message{Kind: MessageMotion, Sample: common.AxisSample{TX: 1, TY: -2, TZ: 3.5, RZ: -350}}, false, false},
		{"press", "b 1 1", Message{Kind: MessageButton, Button: common.ButtonEvent{Index: 1, Pressed: true}}, false, false},
		{"release", "  b 0 0  ", Message{Kind: MessageButton, Button: common.ButtonEvent{Index: 0}}, false, false},
		{"blank", "", Message{}, true, true},
		{"comment", "# hello", Message{}, true, true},
		{"short motion", "m 1 2 3", Message{}, true, false},
		{"bad axis", "m 1 2 x 4 5 6", Message{}, true, false},
		{"nan axis", "m NaN 0 0 0 0 0", Message{}, true, false},
		{"inf axis", "m 0 +Inf 0 0 0 0", Message{}, true, false},
		{"negative inf axis", "m 0 0 0 0 0 -inf", Message{}, true, false},
		{"bad state", "b 1 2", Message{}, true, false},
		{"bad index", "b 16 1", Message{}, true, false},
		{"unknown", "z 1", Message{}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.err {
				require.Error(t, err)
				assert.Equal(t, tt.skip, errors.Is(err, ErrSkipLine))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMessage(t *testing.T) {
	m, err := ParseMessage([]byte(`{"type":"motion","axes":[1,2,3,4,5,6]}`))
	require.NoError(t, err)
	assert.Equal(t, common.AxisSample{TX: 1, TY: 2, TZ: 3, RX: 4, RY: 5, RZ: 6}, m.Sample)

	m, err = ParseMessage([]byte(`{"type":"button","index":3,"pressed":true}`))
	require.NoError(t, err)
	assert.Equal(t, Message{Kind: MessageButton, Button: common.ButtonEvent{Index: 3, Pressed: true}}, m)

	for _, bad := range []string{
		`{"type":"motion","axes":[1,2]}`,
		`{"type":"motion","axes":[1e999,0,0,0,0,0]}`,
		`{"type":"button","index":-1}`,
		`{"type":"tilt"}`,
		`not json`,
	} {
		_, err := ParseMessage([]byte(bad))
		assert.Error(t, err, bad)
	}

	b, err := EncodeMessage(Message{Kind: MessageButton, Button: common.ButtonEvent{Index: 2, Pressed: true}})
	require.NoError(t, err)
	back, err := ParseMessage(b)
	require.NoError(t, err)
	assert.Equal(t, 2, back.Button.Index)
}

func TestDecodeSpnavEvent(t *testing.T) {
	motion := SpnavEvent{Kind: MessageMotion, Sample: common.AxisSample{TX: -12, TY: 40, TZ: 3, RX: 0, RY: 250, RZ: -350}, Period: 16}
	got, err := DecodeSpnavEvent(EncodeSpnavEvent(motion))
	require.NoError(t, err)
	assert.Equal(t, motion, got)

	press := SpnavEvent{Kind: MessageButton, Code: 1, Pressed: true}
	got, err = DecodeSpnavEvent(EncodeSpnavEvent(press))
	require.NoError(t, err)
	assert.Equal(t, press, got)

	_, err = DecodeSpnavEvent(make([]byte, 10))
	assert.Error(t, err)

	bad := make([]byte, SpnavEventSize)
	bad[0] = 9
	_, err = DecodeSpnavEvent(bad)
	assert.Error(t, err)
}

func TestSpnavFeed_ReadsSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "spnav")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "s.sock")

	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		conn.Write(EncodeSpnavEvent(SpnavEvent{Kind: MessageMotion, Sample: common.AxisSample{RY: 250}}))
		conn.Write(EncodeSpnavEvent(SpnavEvent{Kind: MessageButton, Code: 1, Pressed: true}))
		conn.Write(EncodeSpnavEvent(SpnavEvent{Kind: MessageButton, Code: 7, Pressed: true}))
		conn.Close()
	}()

	sink := &recordingSink{}
	f := NewSpnavFeed(path, nil)
	err = f.Run(context.Background(), sink)
	require.Error(t, err, "server closing is a lost connection")

	require.Len(t, sink.samples, 1)
	assert.Equal(t, 250.0, sink.samples[0].RY)
	assert.Equal(t, []common.ButtonEvent{{Index: 1, Pressed: true}}, sink.buttons, "unmapped codes are dropped")
}

func TestSpnavFeed_MissingSocket(t *testing.T) {
	f := NewSpnavFeed(filepath.Join(t.TempDir(), "none.sock"), nil)
	assert.Error(t, f.Run(context.Background(), &recordingSink{}))
}

func TestSerialFeed_ReadsLinesUntilCancel(t *testing.T) {
	r, w := io.Pipe()
	f := NewSerialFeed("/dev/fake", 115200).(*serialFeed)
	var gotBaud int
	f.open = func(_ string, mode *serial.Mode) (io.ReadCloser, error) {
		gotBaud = mode.BaudRate
		return r, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{}
	done := make(chan error, 1)
	go func() { done <- f.Run(ctx, sink) }()

	_, err := io.WriteString(w, "m 0 0 0 10 20 30\r\n# comment\ngarbage\nb 0 1\n")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		s, b := sink.counts()
		return s == 1 && b == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("feed did not stop")
	}
	assert.Equal(t, 115200, gotBaud)
	assert.Equal(t, common.AxisSample{RX: 10, RY: 20, RZ: 30}, sink.samples[0])
}

type flakyFeed struct {
	mu    sync.Mutex
	runs  int
	until int
}

func (f *flakyFeed) Name() string { return "flaky" }

func (f *flakyFeed) Run(ctx context.Context, sink Sink) error {
	f.mu.Lock()
	f.runs++
	n := f.runs
	f.mu.Unlock()
	if n < f.until {
		return errors.New("device unplugged")
	}
	sink.PublishSample(common.AxisSample{TX: float64(n)})
	<-ctx.Done()
	return ctx.Err()
}

func TestRunner_ReconnectsAfterDisconnect(t *testing.T) {
	slot := NewSlot(0)
	feed := &flakyFeed{until: 3}
	var states []bool
	var mu sync.Mutex
	r := NewRunner(feed, slot,
		WithBackoff(time.Millisecond, 4*time.Millisecond),
		WithStateCallback(func(connected bool) {
			mu.Lock()
			states = append(states, connected)
			mu.Unlock()
		}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	assert.Eventually(t, func() bool { return slot.Stats().Samples == 1 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	sample, ok, _ := slot.Take()
	assert.True(t, ok)
	assert.Equal(t, 3.0, sample.TX)

	mu.Lock()
	defer mu.Unlock()
	// the two failed attempts never reached the device
	assert.Equal(t, []bool{true, false}, states)
}

type connectingFeed struct {
	connected chan struct{}
}

func (f *connectingFeed) Name() string { return "connecting" }

func (f *connectingFeed) Run(ctx context.Context, sink Sink) error {
	notifyConnected(sink)
	close(f.connected)
	<-ctx.Done()
	return ctx.Err()
}

func TestRunner_ReportsConnectedOnlyAfterConnect(t *testing.T) {
	var states []bool
	var mu sync.Mutex
	record := WithStateCallback(func(connected bool) {
		mu.Lock()
		states = append(states, connected)
		mu.Unlock()
	})

	// a feed that never connects reports nothing
	dead := &flakyFeed{until: 1 << 30}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRunner(dead, NewSlot(0), WithBackoff(time.Millisecond, time.Millisecond), record).Run(ctx) }()
	assert.Eventually(t, func() bool {
		dead.mu.Lock()
		defer dead.mu.Unlock()
		return dead.runs >= 5
	}, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	assert.Empty(t, states)
	mu.Unlock()

	// a feed that connects without publishing is reported up
	live := &connectingFeed{connected: make(chan struct{})}
	ctx, cancel = context.WithCancel(context.Background())
	go func() { done <- NewRunner(live, NewSlot(0), record).Run(ctx) }()
	<-live.connected
	mu.Lock()
	assert.Equal(t, []bool{true}, states)
	mu.Unlock()
	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, states)
}

func TestRunSink_IgnoresPublishAfterClose(t *testing.T) {
	slot := NewSlot(0)
	ups := 0
	s := &runSink{Sink: slot, onUp: func() { ups++ }}

	_, up := s.close()
	assert.False(t, up)
	s.PublishSample(common.AxisSample{TX: 1})
	assert.Equal(t, 0, ups, "a late publish does not reopen the run")
	assert.Equal(t, uint64(1), slot.Stats().Samples)
}

func TestScanUSB(t *testing.T) {
	root := t.TempDir()
	write := func(dir, vendor, product string) {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "idVendor"), []byte(vendor+"\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "idProduct"), []byte(product+"\n"), 0o644))
	}
	write("1-1", "046D", "C626")
	write("1-2", "8087", "0024")
	write("2-1", "256f", "c635")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "usb1"), 0o755))

	found, err := ScanUSB(root)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "SpaceNavigator", found[0].Name)
	assert.Equal(t, "256f:c635", found[1].ID())

	_, err = ScanUSB(filepath.Join(root, "missing"))
	assert.Error(t, err)
}

func TestFindSpnavSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "spnav")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	plain := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(plain, nil, 0o644))
	sock := filepath.Join(dir, "s.sock")
	ln, err := net.Listen("unix", sock)
	require.NoError(t, err)
	defer ln.Close()

	got, ok := FindSpnavSocket([]string{filepath.Join(dir, "none"), plain, sock})
	assert.True(t, ok)
	assert.Equal(t, sock, got)

	_, ok = FindSpnavSocket([]string{plain})
	assert.False(t, ok)
}

func TestJoystickMapper(t *testing.T) {
	m := NewJoystickMapper(0)
	sink := &recordingSink{}

	m.Map([]float32{0.5, -1, 0, 0, 0.25, 1}, []bool{false, true}, sink)
	m.Map([]float32{0.5, -1, 0, 0, 0.25, 1}, []bool{false, true}, sink)
	m.Map([]float32{0, 0}, []bool{true, false, true}, sink)

	require.Len(t, sink.samples, 3)
	assert.Equal(t, common.AxisSample{TX: 175, TY: -350, RY: 87.5, RZ: 350}, sink.samples[0])
	assert.Equal(t, common.AxisSample{}, sink.samples[2], "missing axes read as zero")
	assert.Equal(t, []common.ButtonEvent{
		{Index: 1, Pressed: true},
		{Index: 0, Pressed: true},
		{Index: 1, Pressed: false},
		{Index: 2, Pressed: true},
	}, sink.buttons)
}
