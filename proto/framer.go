package proto

// Framer accumulates raw byte chunks into candidate protocol lines.
//
// A line is emitted whenever LF is seen or the buffer reaches its capacity.
// An overflowing line is therefore flushed incomplete and will normally be
// rejected by Decode; the bytes that follow start a fresh line. CR is left in
// place for Decode to strip.
//
// A Framer is not safe for concurrent use; it belongs to the goroutine that
// reads the transport.
type Framer struct {
	buf []byte
	n   int
}

// NewFramer returns a Framer with the given capacity. Sizes below one fall
// back to DefaultFrameSize.
func NewFramer(size int) *Framer {
	if size < 1 {
		size = DefaultFrameSize
	}
	return &Framer{buf: make([]byte, size)}
}

// Feed appends chunk to the buffer and returns every line completed by it.
// Returned slices are copies and remain valid after later calls.
func (f *Framer) Feed(chunk []byte) [][]byte {
	var lines [][]byte
	for _, c := range chunk {
		f.buf[f.n] = c
		f.n++

		if c == '\n' || f.n == len(f.buf) {
			line := make([]byte, f.n)
			copy(line, f.buf[:f.n])
			lines = append(lines, line)
			f.n = 0
		}
	}
	return lines
}

// Reset discards any partial line, e.g. after the peer disconnected.
func (f *Framer) Reset() {
	f.n = 0
}

// Buffered returns the number of bytes waiting for a line terminator.
func (f *Framer) Buffered() int {
	return f.n
}

// Size returns the capacity of the buffer.
func (f *Framer) Size() int {
	return len(f.buf)
}
