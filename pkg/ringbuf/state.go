package ringbuf

import "fmt"

// State is a point-in-time snapshot of the index bookkeeping of a buffer.
type State struct {
	Head     int `json:"head"`
	Tail     int `json:"tail"`
	Count    int `json:"count"`
	Capacity int `json:"capacity"`
	ElemSize int `json:"elem_size"`
}

// Empty reports whether the snapshot holds no elements.
func (s State) Empty() bool {
	return s.Count == 0
}

// Full reports whether the snapshot is at capacity.
func (s State) Full() bool {
	return s.Count == s.Capacity
}

// String renders the snapshot on one line for diagnostics.
func (s State) String() string {
	return fmt.Sprintf("elem_size=%d head=%d tail=%d count=%d capacity=%d empty=%s full=%s",
		s.ElemSize, s.Head, s.Tail, s.Count, s.Capacity, yesNo(s.Empty()), yesNo(s.Full()))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
