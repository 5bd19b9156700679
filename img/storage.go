package img

// storage is one shared pixel allocation. Every non-empty Mat points at
// exactly one storage record; the record goes back to its allocator when
// the last of them is released.
type storage struct {
	data  []byte
	refs  refCounter
	alloc Allocator
}

func newStorage(a Allocator, atomicCounter bool, size int) (*storage, error) {
	buf, err := a.Alloc(size)
	if err != nil {
		return nil, err
	}
	if err := checkAllocation(buf, size); err != nil {
		if len(buf) > 0 {
			a.Free(buf)
		}
		return nil, err
	}
	Logger().Debug("img: storage allocated", "bytes", size, "atomic", atomicCounter)
	return &storage{data: buf, refs: newRefCounter(atomicCounter), alloc: a}, nil
}

func (s *storage) retain() {
	s.refs.retain()
}

// release drops one reference and frees the payload at zero.
func (s *storage) release() {
	if s.refs.release() != 0 {
		return
	}
	Logger().Debug("img: storage freed", "bytes", len(s.data))
	s.alloc.Free(s.data)
	s.data = nil
}

// live reports whether the payload has not been freed yet.
func (s *storage) live() bool {
	return s.refs.load() > 0
}
