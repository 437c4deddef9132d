package geo

// Ray casting configuration.
const (
	// segmentEpsilon is the tolerance for collinearity tests on the XZ plane.
	segmentEpsilon = 1e-9

	// MaxRayDistance caps a single query; longer rays are clipped.
	MaxRayDistance = 1000.0
)
