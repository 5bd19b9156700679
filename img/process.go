package img

import "math"

// AdjustBrightness adds value to every channel of m in place, saturating
// integral depths.
func AdjustBrightness(m *Mat, value float64) error {
	if err := m.check("AdjustBrightness"); err != nil {
		return err
	}
	return m.AddScalar(value)
}

// Blend writes alpha*a + (1-alpha)*b into out. a and b must be compatible;
// out is (re)created to match them and may be a or b itself.
// alpha is clamped to [0, 1] rather than rejected.
func Blend(a, b, out *Mat, alpha float64) error {
	const op = "Blend"
	if err := CheckCompatibility(a, b); err != nil {
		return wrapError(op, err, "")
	}
	if out == nil {
		return newError(op, ErrInvalidArgument, nil, "nil output")
	}
	if math.IsNaN(alpha) {
		return newError(op, ErrInvalidArgument, nil, "alpha is NaN")
	}
	alpha = max(0, min(1, alpha))
	beta := 1 - alpha

	// A no-op when out is a or b, since they already have the right shape.
	if err := out.Create(a.rows, a.cols, a.typ); err != nil {
		return wrapError(op, err, "")
	}
	kernelsFor(a.typ.Depth()).combine(out, a, b, func(x, y float64) float64 {
		return alpha*x + beta*y
	})
	return nil
}
