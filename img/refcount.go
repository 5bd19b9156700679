package img

import "sync/atomic"

// refCounter counts the Mats that reference one storage record.
// The plain counter assumes every Mat sharing the storage is used from one
// goroutine at a time; the atomic one makes retain and release safe to race.
type refCounter interface {
	retain()
	release() int32 // returns the count after decrementing
	load() int32
}

type plainCount struct{ n int32 }

func (c *plainCount) retain()        { c.n++ }
func (c *plainCount) release() int32 { c.n--; return c.n }
func (c *plainCount) load() int32    { return c.n }

type atomicCount struct{ n atomic.Int32 }

func (c *atomicCount) retain()        { c.n.Add(1) }
func (c *atomicCount) release() int32 { return c.n.Add(-1) }
func (c *atomicCount) load() int32    { return c.n.Load() }

// newRefCounter returns a counter initialised to 1.
func newRefCounter(atomicCounter bool) refCounter {
	if atomicCounter {
		c := &atomicCount{}
		c.n.Store(1)
		return c
	}
	return &plainCount{n: 1}
}
