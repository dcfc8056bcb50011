package picolog

// ring is a fixed-capacity FIFO of records. It is pure state: no I/O, no
// locking (the owning logger serializes access), and the backing array
// never grows after construction.
type ring struct {
	buf   []record
	head  int // index of the oldest record
	count int
}

func newRing(capacity int) *ring {
	if capacity < 1 {
		capacity = 1
	}
	return &ring{buf: make([]record, capacity)}
}

// push appends rec as the newest record. Returns false when full.
func (r *ring) push(rec record) bool {
	if r.count == len(r.buf) {
		return false
	}
	r.buf[(r.head+r.count)%len(r.buf)] = rec
	r.count++
	return true
}

// evictOldest removes and returns the oldest record. The caller accounts
// for the loss.
func (r *ring) evictOldest() (record, bool) {
	if r.count == 0 {
		return record{}, false
	}
	rec := r.buf[r.head]
	r.buf[r.head] = record{}
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return rec, true
}

// drain appends all records to dst in arrival order and empties the ring.
func (r *ring) drain(dst []record) []record {
	for r.count > 0 {
		rec, _ := r.evictOldest()
		dst = append(dst, rec)
	}
	return dst
}

func (r *ring) len() int { return r.count }

func (r *ring) capacity() int { return len(r.buf) }

func (r *ring) isFull() bool { return r.count == len(r.buf) }

func (r *ring) isEmpty() bool { return r.count == 0 }
