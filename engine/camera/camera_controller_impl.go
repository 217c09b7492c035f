package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/config"
)

// Inputs at or below these magnitudes skip their branch entirely.
const (
	minRotationMagnitude = 1e-4
	minPanMagnitude      = 1e-3
	minZoomMagnitude     = 1e-3
)

// cameraControllerImpl is the single implementation of CameraController.
// It holds tuning only; poses flow through its methods by value.
type cameraControllerImpl struct {
	mu *sync.Mutex

	strategy config.Strategy

	rotationSensitivity    float64
	translationSensitivity float64
	zoomSensitivity        float64
	zoomStepLimit          float64

	// Distance clamps as multiples of the scene scale
	minDistanceFactor float64
	maxDistanceFactor float64
}

// tuning is a lock-free snapshot of the controller settings for one call.
type tuning struct {
	strategy  config.Strategy
	rotSens   float64
	transSens float64
	zoomSens  float64
	zoomStep  float64
	minFactor float64
	maxFactor float64
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a camera update engine with the default tuning and the pivot strategy.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	def := config.Default()
	cc := &cameraControllerImpl{
		mu:                     &sync.Mutex{},
		strategy:               def.Strategy,
		rotationSensitivity:    def.RotationSensitivity,
		translationSensitivity: def.TranslationSensitivity,
		zoomSensitivity:        def.ZoomSensitivity,
		zoomStepLimit:          def.ZoomStepLimit,
		minDistanceFactor:      def.MinDistanceFactor,
		maxDistanceFactor:      def.MaxDistanceFactor,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.maxDistanceFactor < cc.minDistanceFactor {
		cc.maxDistanceFactor = cc.minDistanceFactor
	}
	return cc
}

// --- internal helpers ---

func (cc *cameraControllerImpl) snapshot() tuning {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return tuning{
		strategy:  cc.strategy,
		rotSens:   cc.rotationSensitivity,
		transSens: cc.translationSensitivity,
		zoomSens:  cc.zoomSensitivity,
		zoomStep:  cc.zoomStepLimit,
		minFactor: cc.minDistanceFactor,
		maxFactor: cc.maxDistanceFactor,
	}
}

func (t tuning) limits(sceneScale float64) (lo, hi float64) {
	return sceneScale * t.minFactor, sceneScale * t.maxFactor
}

// subjectDistance is the distance pan and zoom scale with: the clamped distance to the pivot for
// the pivot strategy, the focal distance for the focal strategy.
func (t tuning) subjectDistance(pose Pose, pivot common.Vec3, sceneScale float64) float64 {
	if t.strategy == config.StrategyFocal {
		return pose.FocalDistance
	}
	lo, hi := t.limits(sceneScale)
	return common.Clamp(common.Distance(pivot, pose.Position), lo, hi)
}

// --- CameraController ---

func (cc *cameraControllerImpl) UpdatePose(sample common.AxisSample, pose Pose, pivot common.Vec3, hasPivot bool, sceneScale float64, projection Projection) Result {
	t := cc.snapshot()
	if t.strategy == config.StrategyPivot && !hasPivot {
		return Result{Pose: pose, Skipped: true}
	}
	if sample.IsZero() {
		return Result{Pose: pose}
	}

	var r Result
	cur := pose
	cur, r.Rotated = t.rotate(sample.Rotation(), cur, pivot, sceneScale)
	cur, r.Zoomed = t.zoom(sample.TZ, cur, pivot, sceneScale, projection)
	cur, r.Panned = t.pan(sample.TX, sample.TY, cur, pivot, sceneScale)

	if !r.Changed() {
		r.Pose = pose
		return r
	}
	r.Pose = cur
	return r
}

func (cc *cameraControllerImpl) Strategy() config.Strategy {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.strategy
}

func (cc *cameraControllerImpl) DistanceLimits(sceneScale float64) (lo, hi float64) {
	return cc.snapshot().limits(sceneScale)
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) Rotate(rotation common.Vec3, pose Pose, pivot common.Vec3, sceneScale float64) (Pose, bool) {
	return cc.snapshot().rotate(rotation, pose, pivot, sceneScale)
}

func (t tuning) rotate(rotation common.Vec3, pose Pose, pivot common.Vec3, sceneScale float64) (Pose, bool) {
	m := common.Length(rotation)
	if m <= minRotationMagnitude || t.rotSens == 0 {
		return pose, false
	}
	if t.strategy == config.StrategyFocal {
		return t.rotateFocal(rotation, pose), true
	}

	camDist := t.subjectDistance(pose, pivot, sceneScale)

	// The rotation vector is camera-local; its direction becomes the world-space axis.
	axis := common.QuatRotate(pose.Orientation, common.Scale(rotation, 1/m))
	delta := common.QuatFromAxisAngle(axis, m*t.rotSens)

	out := pose
	out.Orientation = common.QuatNormalize(common.QuatMul(delta, pose.Orientation))
	out.Position = common.Sub(pivot, common.Scale(out.Forward(), camDist))
	out.FocalDistance = camDist
	return out, true
}

// rotateFocal turns the camera about its focal point. Yaw is about world up so the horizon stays
// level; pitch and roll are camera-local. All three are composed in the camera frame.
func (t tuning) rotateFocal(rotation common.Vec3, pose Pose) Pose {
	o := pose.Orientation
	focal := pose.FocalPoint()

	pitch := common.QuatFromAxisAngle(common.AxisRight, -rotation[0]*t.rotSens)
	roll := common.QuatFromAxisAngle(common.AxisRoll, rotation[2]*t.rotSens)
	yawWorld := common.QuatFromAxisAngle(common.AxisUp, rotation[1]*t.rotSens)
	yawLocal := common.QuatMul(common.QuatMul(common.QuatInverse(o), yawWorld), o)
	combined := common.QuatMul(common.QuatMul(yawLocal, pitch), roll)

	out := pose
	out.Orientation = common.QuatNormalize(common.QuatMul(o, combined))
	out.Position = common.Sub(focal, common.Scale(out.Forward(), pose.FocalDistance))
	return out
}

func (cc *cameraControllerImpl) Zoom(amount float64, pose Pose, pivot common.Vec3, sceneScale float64, projection Projection) (Pose, bool) {
	return cc.snapshot().zoom(amount, pose, pivot, sceneScale, projection)
}

func (t tuning) zoom(amount float64, pose Pose, pivot common.Vec3, sceneScale float64, projection Projection) (Pose, bool) {
	if math.Abs(amount) <= minZoomMagnitude {
		return pose, false
	}
	factor := common.Clamp(1-amount*t.zoomSens, 1-t.zoomStep, 1+t.zoomStep)
	if factor == 1 {
		return pose, false
	}
	lo, hi := t.limits(sceneScale)

	out := pose
	if projection == Orthographic {
		out.Height = common.Clamp(pose.Height*factor, lo, hi)
		return out, out.Height != pose.Height
	}

	fwd := pose.Forward()
	if t.strategy == config.StrategyFocal {
		newDist := common.Clamp(pose.FocalDistance*factor, lo, hi)
		move := pose.FocalDistance - newDist
		out.Position = common.Add(pose.Position, common.Scale(fwd, move))
		out.FocalDistance = newDist
		return out, move != 0
	}

	camDist := t.subjectDistance(pose, pivot, sceneScale)
	newDist := common.Clamp(camDist*factor, lo, hi)
	out.Position = common.Sub(pivot, common.Scale(fwd, newDist))
	out.FocalDistance = newDist
	return out, true
}

func (cc *cameraControllerImpl) RotationSensitivity() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotationSensitivity
}

func (cc *cameraControllerImpl) ZoomSensitivity() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSensitivity
}

func (cc *cameraControllerImpl) ZoomStepLimit() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomStepLimit
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) Pan(dx, dy float64, pose Pose, pivot common.Vec3, sceneScale float64) (Pose, bool) {
	return cc.snapshot().pan(dx, dy, pose, pivot, sceneScale)
}

func (t tuning) pan(dx, dy float64, pose Pose, pivot common.Vec3, sceneScale float64) (Pose, bool) {
	if math.Abs(dx)+math.Abs(dy) <= minPanMagnitude || t.transSens == 0 {
		return pose, false
	}
	dist := t.subjectDistance(pose, pivot, sceneScale)
	scale := dist * t.transSens

	offset := common.Add(
		common.Scale(pose.Right(), dx*scale),
		common.Scale(pose.Up(), dy*scale),
	)
	out := pose
	out.Position = common.Add(pose.Position, offset)
	if t.strategy == config.StrategyPivot {
		out.Position = t.clampToPivot(out.Position, pivot, sceneScale)
		out.FocalDistance = dist
	}
	return out, true
}

// clampToPivot pulls position back along the pivot ray so its distance to the pivot stays within
// the scene limits. A pan moves sideways, so it always lengthens that distance a little.
func (t tuning) clampToPivot(position, pivot common.Vec3, sceneScale float64) common.Vec3 {
	lo, hi := t.limits(sceneScale)
	d := common.Distance(pivot, position)
	clamped := common.Clamp(d, lo, hi)
	if d == 0 || clamped == d {
		return position
	}
	return common.Add(pivot, common.Scale(common.Sub(position, pivot), clamped/d))
}

func (cc *cameraControllerImpl) TranslationSensitivity() float64 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.translationSensitivity
}
