package img

// ConvertTo returns a copy of m with pixel type newType. Each channel is
// read into float64 and narrowed with Saturate, so 8U to 32F is exact and
// 32F to 8U rounds and saturates to [0, 255]. The channel count must not
// change. Converting to m's own type is a Clone.
func (m *Mat) ConvertTo(newType PixelType) (*Mat, error) {
	if err := m.check("Mat.ConvertTo"); err != nil {
		return nil, err
	}
	if newType == m.typ {
		dst, err := m.Clone()
		if err != nil {
			return nil, wrapError("Mat.ConvertTo", err, "%s to %s", m.typ, newType)
		}
		return dst, nil
	}
	return m.convert("Mat.ConvertTo", newType, 1, 0)
}

// ConvertScaled returns a copy of m with pixel type newType where every
// channel becomes Saturate(src*scale + shift). Same-type conversions are
// allowed and run in a single pass.
func (m *Mat) ConvertScaled(newType PixelType, scale, shift float64) (*Mat, error) {
	if err := m.check("Mat.ConvertScaled"); err != nil {
		return nil, err
	}
	if newType == m.typ && scale == 1 && shift == 0 {
		return m.ConvertTo(newType)
	}
	return m.convert("Mat.ConvertScaled", newType, scale, shift)
}

func (m *Mat) convert(op string, newType PixelType, scale, shift float64) (*Mat, error) {
	if err := newType.Validate(); err != nil {
		return nil, wrapError(op, err, "%s to %s", m.typ, newType)
	}
	if newType.Channels() != m.typ.Channels() {
		return nil, newError(op, ErrLogic, nil,
			"channel count cannot change: source has %d, %s has %d",
			m.typ.Channels(), newType, newType.Channels())
	}

	dst, err := New(m.rows, m.cols, newType)
	if err != nil {
		return nil, wrapError(op, err, "%s to %s", m.typ, newType)
	}

	src := kernelsFor(m.typ.Depth())
	out := kernelsFor(newType.Depth())
	buf := make([]float64, m.cols*m.typ.Channels())
	scaled := scale != 1 || shift != 0
	for r := 0; r < m.rows; r++ {
		src.loadRow(m.rowBytes(r), buf)
		if scaled {
			for i, v := range buf {
				buf[i] = v*scale + shift
			}
		}
		out.storeRow(dst.rowBytes(r), buf)
	}
	return dst, nil
}
