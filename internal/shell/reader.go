package shell

import "io"

// repeatReader yields the same line forever.
type repeatReader struct {
	line []byte
	off  int
}

// RepeatingReader returns a reader producing line followed by a newline,
// endlessly. Attached to a Command's Stdin it answers every prompt an
// interactive script asks, the way `yes <line>` would. The child exiting
// ends the stream: os/exec stops copying once the pipe closes.
func RepeatingReader(line string) io.Reader {
	return &repeatReader{line: []byte(line + "\n")}
}

// Read implements io.Reader. It never returns io.EOF.
func (r *repeatReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		c := copy(p[n:], r.line[r.off:])
		n += c
		r.off += c
		if r.off == len(r.line) {
			r.off = 0
		}
	}
	return n, nil
}
