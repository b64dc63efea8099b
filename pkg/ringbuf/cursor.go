package ringbuf

// cursor is the index arithmetic shared by Ring and Bytes.
// Invariant: tail == (head + count) % capacity.
type cursor struct {
	head     int // oldest occupied slot
	tail     int // next free slot
	count    int
	capacity int
}

func (c *cursor) full() bool {
	return c.count == c.capacity
}

func (c *cursor) empty() bool {
	return c.count == 0
}

// advanceTail commits a write into the slot at tail. Callers check full first.
func (c *cursor) advanceTail() {
	c.tail = (c.tail + 1) % c.capacity
	c.count++
}

// advanceHead releases the slot at head. Callers check empty first.
func (c *cursor) advanceHead() {
	c.head = (c.head + 1) % c.capacity
	c.count--
}

// at maps the i-th occupied position (0 is the head) to a storage slot.
func (c *cursor) at(i int) int {
	return (c.head + i) % c.capacity
}

func (c *cursor) reset() {
	c.head = 0
	c.tail = 0
	c.count = 0
}

func (c *cursor) state(elemSize int) State {
	return State{
		Head:     c.head,
		Tail:     c.tail,
		Count:    c.count,
		Capacity: c.capacity,
		ElemSize: elemSize,
	}
}
