package camera

import (
	"github.com/Carmen-Shannon/spacenav/config"
)

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithStrategy sets the orbit strategy. Unknown values fall back to the pivot strategy.
//
// Parameters:
//   - strategy: pivot or focal
//
// Returns:
//   - CameraControllerOption: functional option to set the strategy
func WithStrategy(strategy config.Strategy) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if strategy != config.StrategyFocal {
			strategy = config.StrategyPivot
		}
		cc.strategy = strategy
	}
}

// WithRotationSensitivity sets the radians applied per unit of rotation input.
//
// Parameters:
//   - sensitivity: rotation multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the rotation sensitivity
func WithRotationSensitivity(sensitivity float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotationSensitivity = max(sensitivity, 0)
	}
}

// WithTranslationSensitivity sets the pan multiplier.
//
// Parameters:
//   - sensitivity: pan multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the translation sensitivity
func WithTranslationSensitivity(sensitivity float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.translationSensitivity = max(sensitivity, 0)
	}
}

// WithZoomSensitivity sets the zoom multiplier.
//
// Parameters:
//   - sensitivity: zoom multiplier
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom sensitivity
func WithZoomSensitivity(sensitivity float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSensitivity = max(sensitivity, 0)
	}
}

// WithDistanceFactors sets the camera distance clamps as multiples of the scene scale.
//
// Parameters:
//   - minFactor: minimum distance factor
//   - maxFactor: maximum distance factor
//
// Returns:
//   - CameraControllerOption: functional option to set the distance clamps
func WithDistanceFactors(minFactor, maxFactor float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if minFactor > 0 {
			cc.minDistanceFactor = minFactor
		}
		if maxFactor > 0 {
			cc.maxDistanceFactor = maxFactor
		}
	}
}

// WithZoomStepLimit bounds the per-call zoom factor to [1-limit, 1+limit].
//
// Parameters:
//   - limit: the step limit in [0, 0.95]
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom step limit
func WithZoomStepLimit(limit float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomStepLimit = min(max(limit, 0), 0.95)
	}
}

// WithSettings applies every camera-related key of a configuration.
//
// Parameters:
//   - cfg: the navigation configuration
//
// Returns:
//   - CameraControllerOption: functional option to apply the configuration
func WithSettings(cfg config.Config) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		WithStrategy(cfg.Strategy)(cc)
		WithRotationSensitivity(cfg.RotationSensitivity)(cc)
		WithTranslationSensitivity(cfg.TranslationSensitivity)(cc)
		WithZoomSensitivity(cfg.ZoomSensitivity)(cc)
		WithDistanceFactors(cfg.MinDistanceFactor, cfg.MaxDistanceFactor)(cc)
		WithZoomStepLimit(cfg.ZoomStepLimit)(cc)
	}
}
