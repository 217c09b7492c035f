package navigator

import (
	"maps"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/conditioner"
	"github.com/Carmen-Shannon/spacenav/engine/event"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
)

// Session is everything one activation owns. It is built by Start and dropped by Stop; nothing of
// it outlives the session except the poses it committed to the camera.
type Session struct {
	cfg         config.Config
	conditioner conditioner.Conditioner
	engine      camera.CameraController
	resolver    pivot.Resolver
	viewport    Viewport
	reg         event.Registration
}

// newSession builds a session around a normalized copy of cfg.
func newSession(cfg config.Config, vp Viewport) *Session {
	cfg.Buttons = maps.Clone(cfg.Buttons)
	cfg.Normalize()
	return &Session{
		cfg:         cfg,
		conditioner: conditioner.NewConditioner(conditioner.WithSettings(cfg)),
		engine:      camera.NewCameraController(camera.WithSettings(cfg)),
		resolver:    pivot.NewResolver(pivot.WithFallbackScale(cfg.SceneScaleFallback)),
		viewport:    vp,
	}
}

// resolve returns the pivot and scene scale for the viewport's current bounds.
func (s *Session) resolve() (p common.Vec3, ok bool, scale float64) {
	sel, haveSel := s.viewport.SelectionBounds()
	scene, haveScene := s.viewport.SceneBounds()
	p, ok = s.resolver.ResolvePivot(sel, haveSel, scene, haveScene)
	scale = s.resolver.ResolveSceneScale(scene, haveScene)
	return p, ok, scale
}
