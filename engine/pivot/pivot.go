// Package pivot picks the world point navigation orbits around and sizes distance clamps to the scene.
package pivot

import (
	"github.com/Carmen-Shannon/spacenav/common"
)

// MinSceneScale is the smallest scene scale ever reported.
const MinSceneScale = 0.01

// DefaultSceneScale is the scale assumed when the scene has no bounds.
const DefaultSceneScale = 100.0

type resolverImpl struct {
	fallbackScale float64
}

// Resolver resolves pivots and scene scales from collaborator-supplied bounds.
type Resolver interface {
	// ResolvePivot returns the center of a non-degenerate selection, else the center of a non-empty
	// scene, else reports no pivot.
	//
	// Parameters:
	//   - selection: selection bounds, if any
	//   - haveSelection: whether selection bounds were supplied
	//   - scene: scene bounds, if any
	//   - haveScene: whether scene bounds were supplied
	//
	// Returns:
	//   - common.Vec3: the pivot
	//   - bool: false when no pivot could be determined
	ResolvePivot(selection common.BoundingBox, haveSelection bool, scene common.BoundingBox, haveScene bool) (common.Vec3, bool)

	// ResolveSceneScale returns the scene's bounding diagonal, or the fallback when the scene is empty.
	//
	// Parameters:
	//   - scene: scene bounds, if any
	//   - haveScene: whether scene bounds were supplied
	//
	// Returns:
	//   - float64: a scale of at least MinSceneScale
	ResolveSceneScale(scene common.BoundingBox, haveScene bool) float64
}

var _ Resolver = &resolverImpl{}

// NewResolver creates a Resolver.
//
// Parameters:
//   - options: functional options to configure the resolver
//
// Returns:
//   - Resolver: the newly created resolver
func NewResolver(options ...ResolverBuilderOption) Resolver {
	r := &resolverImpl{fallbackScale: DefaultSceneScale}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *resolverImpl) ResolvePivot(selection common.BoundingBox, haveSelection bool, scene common.BoundingBox, haveScene bool) (common.Vec3, bool) {
	return ResolvePivot(selection, haveSelection, scene, haveScene)
}

func (r *resolverImpl) ResolveSceneScale(scene common.BoundingBox, haveScene bool) float64 {
	return ResolveSceneScale(scene, haveScene, r.fallbackScale)
}

// ResolvePivot is the priority chain behind Resolver.ResolvePivot.
func ResolvePivot(selection common.BoundingBox, haveSelection bool, scene common.BoundingBox, haveScene bool) (common.Vec3, bool) {
	if haveSelection && !selection.Empty() && !selection.Degenerate() {
		return selection.Center(), true
	}
	if haveScene && !scene.Empty() {
		return scene.Center(), true
	}
	return common.Vec3{}, false
}

// ResolveSceneScale is the computation behind Resolver.ResolveSceneScale.
func ResolveSceneScale(scene common.BoundingBox, haveScene bool, fallback float64) float64 {
	if !haveScene || scene.Empty() {
		return max(fallback, MinSceneScale)
	}
	return max(scene.Diagonal(), MinSceneScale)
}
