package pivot

type ResolverBuilderOption func(*resolverImpl)

// WithFallbackScale sets the scene scale reported for an empty scene.
//
// Parameters:
//   - scale: the fallback scale
//
// Returns:
//   - ResolverBuilderOption: a function that sets the fallback scale
func WithFallbackScale(scale float64) ResolverBuilderOption {
	return func(r *resolverImpl) {
		if scale > 0 {
			r.fallbackScale = scale
		}
	}
}
