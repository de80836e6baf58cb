package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// WrapColumn is the line width of encoded output. 76 matches the MIME
// convention, which every text channel we care about passes through
// unmangled.
const WrapColumn = 76

// CorruptInputError reports a byte in the text input that is neither a
// symbol of the encoding alphabet nor whitespace, or a final block with
// invalid padding or length. Offset is the position of the offending
// byte in the raw input stream, counting whitespace; it is -1 when the
// damage is at end of stream and cannot be pinned to a single byte.
type CorruptInputError struct {
	Offset int64
	Byte   byte
	final  bool
}

func (e *CorruptInputError) Error() string {
	if e.final {
		return "corrupt input: truncated or invalid final block"
	}
	return fmt.Sprintf("corrupt input: illegal character %q at offset %d", e.Byte, e.Offset)
}

// NewEncoder returns a WriteCloser that base64-encodes everything
// written to it onto w, wrapped at WrapColumn characters. Close must be
// called to emit the final block and padding; padding is applied exactly
// once, at end of stream.
func NewEncoder(w io.Writer) io.WriteCloser {
	lw := &lineWrapper{w: w}
	return &encoder{b64: base64.NewEncoder(base64.StdEncoding, lw), lw: lw}
}

type encoder struct {
	b64 io.WriteCloser
	lw  *lineWrapper
}

func (e *encoder) Write(p []byte) (int, error) {
	return e.b64.Write(p)
}

func (e *encoder) Close() error {
	if err := e.b64.Close(); err != nil {
		return err
	}
	return e.lw.finish()
}

// lineWrapper inserts a newline after every WrapColumn bytes and
// terminates the output with a final newline if any bytes were written.
type lineWrapper struct {
	w   io.Writer
	col int
	any bool
}

func (l *lineWrapper) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		room := WrapColumn - l.col
		if room == 0 {
			if _, err := l.w.Write([]byte{'\n'}); err != nil {
				return written, err
			}
			l.col = 0
			continue
		}
		n := len(p)
		if n > room {
			n = room
		}
		m, err := l.w.Write(p[:n])
		written += m
		l.col += m
		if m > 0 {
			l.any = true
		}
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}

func (l *lineWrapper) finish() error {
	if !l.any || l.col == 0 {
		return nil
	}
	_, err := l.w.Write([]byte{'\n'})
	l.col = 0
	return err
}

// NewDecoder returns a Reader that decodes base64 text from r back into
// bytes. ASCII whitespace anywhere in the input is skipped and does not
// count toward the alphabet symbols. Reads fail with a
// *CorruptInputError on any other non-alphabet byte or on an invalid
// final block.
func NewDecoder(r io.Reader) io.Reader {
	f := &whitespaceFilter{r: r}
	return &decoder{b64: base64.NewDecoder(base64.StdEncoding, f), f: f}
}

type decoder struct {
	b64 io.Reader
	f   *whitespaceFilter
}

func (d *decoder) Read(p []byte) (int, error) {
	n, err := d.b64.Read(p)
	if err == nil || err == io.EOF {
		return n, err
	}
	// The filter's own corruption report is more precise than the
	// base64 decoder's (it has the raw-stream offset).
	var corrupt *CorruptInputError
	if errors.As(err, &corrupt) {
		return n, corrupt
	}
	var b64err base64.CorruptInputError
	if errors.As(err, &b64err) {
		return n, &CorruptInputError{Offset: -1, final: true}
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return n, &CorruptInputError{Offset: -1, final: true}
	}
	return n, err
}

// alphabet marks the bytes the decoder passes through to the base64
// layer: the 64 symbols plus the padding character.
var alphabet = func() [256]bool {
	var t [256]bool
	for _, c := range []byte("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/=") {
		t[c] = true
	}
	return t
}()

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// whitespaceFilter strips ASCII whitespace from the stream and rejects
// anything else outside the alphabet before it reaches the base64
// decoder.
type whitespaceFilter struct {
	r      io.Reader
	offset int64
	buf    [1024]byte
}

func (f *whitespaceFilter) Read(p []byte) (int, error) {
	for {
		limit := len(p)
		if limit > len(f.buf) {
			limit = len(f.buf)
		}
		n, err := f.r.Read(f.buf[:limit])
		kept := 0
		for i := range n {
			c := f.buf[i]
			if isSpace(c) {
				f.offset++
				continue
			}
			if !alphabet[c] {
				return kept, &CorruptInputError{Offset: f.offset, Byte: c}
			}
			f.offset++
			p[kept] = c
			kept++
		}
		if kept > 0 || err != nil {
			return kept, err
		}
		// Everything read was whitespace; go around again rather than
		// returning a zero-byte read.
	}
}
