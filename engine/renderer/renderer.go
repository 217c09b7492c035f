package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
	"github.com/Carmen-Shannon/spacenav/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// Clear colour layout: each channel sits in [clearBase, clearBase+clearRange] and the visible
// marker adds markerBoost.
const (
	clearBase   = 0.06
	clearRange  = 0.28
	markerBoost = 0.06
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	frames uint64

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
}

// Renderer presents the navigated view. It never draws geometry: every frame is a clear pass whose
// colour follows the committed camera orientation, which is enough to see navigation respond.
type Renderer interface {
	// Resize reconfigures the surface after a framebuffer resize.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode changes the present mode, applied on the next Resize.
	//
	// Parameters:
	//   - mode: VSync or Uncapped
	SetPresentMode(mode PresentMode)

	// Render clears and presents one frame for a committed pose.
	//
	// Parameters:
	//   - pose: the camera pose snapshot
	//   - marker: the pivot marker snapshot
	//
	// Returns:
	//   - error: when no surface image could be acquired
	Render(pose camera.Pose, marker pivot.Marker) error

	// Frames returns the number of presented frames.
	Frames() uint64

	// Release frees the GPU objects.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a presenter for the window's surface and configures it for the window size.
//
// Parameters:
//   - backendType: the GPU backend
//   - w: the window to present into
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the presenter
//   - error: when the backend cannot be created
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		b, err := newWGPURendererBackend(w.SurfaceDescriptor(), r.forceFallbackAdapter)
		if err != nil {
			return nil, fmt.Errorf("failed to create wgpu backend: %w", err)
		}
		r.backend = b
	default:
		return nil, fmt.Errorf("unsupported backend type %d", backendType)
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(w.Width(), w.Height())
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Render(pose camera.Pose, marker pivot.Marker) error {
	if err := r.backend.ClearFrame(ClearColor(pose, marker)); err != nil {
		return err
	}
	r.backend.Present()

	r.mu.Lock()
	r.frames++
	r.mu.Unlock()
	return nil
}

func (r *renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *renderer) Release() {
	r.backend.Release()
}

// ClearColor maps the view direction onto the clear colour: each forward component in [-1, 1]
// drives one channel, and a visible pivot marker lifts all three.
//
// Parameters:
//   - pose: the camera pose
//   - marker: the pivot marker
//
// Returns:
//   - wgpu.Color: the clear colour
func ClearColor(pose camera.Pose, marker pivot.Marker) wgpu.Color {
	f := pose.Forward()
	channel := func(v float64) float64 {
		return clearBase + clearRange*(v*0.5+0.5)
	}
	c := wgpu.Color{R: channel(f[0]), G: channel(f[1]), B: channel(-f[2]), A: 1}
	if marker.Visible {
		c.R += markerBoost
		c.G += markerBoost
		c.B += markerBoost
	}
	return c
}
