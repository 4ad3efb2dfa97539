package parsec

import (
	"bufio"
	"fmt"
	"io"
)

const eof = -1

// Pos is a single point in an input: a byte offset plus its 1-based
// row/column, qualified by the name of the input it belongs to.
type Pos struct {
	Name   string
	Offset int
	Row    int
	Col    int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.Name, p.Row, p.Col)
}

// Mark identifies a rewind point opened with Input.Mark.
type Mark int

type markState struct {
	id     Mark
	offset int
	row    int
	col    int
	last   byte
}

// Input owns a byte source and a logical cursor over it. It tracks
// row/column, and buffers enough of the source to support rewinding to
// any mark still open, even when the source is not seekable (a pipe).
type Input struct {
	name string
	src  *bufio.Reader

	buf     []byte // bytes held for possible rewind, buf[i] == absolute offset bufBase+i
	bufBase int

	minWindow int // bytes behind the cursor retained even with no open marks

	offset int
	row    int
	col    int
	last   byte
	atEOF  bool

	marks  []markState
	nextID Mark
}

// OpenString builds an Input over an in-memory byte string.
func OpenString(name string, data []byte) *Input {
	in := &Input{name: name, row: 1, col: 1}
	in.buf = append([]byte(nil), data...)
	in.atEOF = true // nothing more will ever arrive from src
	return in
}

// OpenStream builds an Input over a seekable-or-not byte stream, using
// NewConfig's default buffering tunables. Bytes are read lazily, one
// fill at a time.
func OpenStream(name string, r io.Reader) *Input {
	return OpenStreamWithConfig(name, r, NewConfig())
}

// OpenStreamWithConfig is OpenStream with explicit buffering config.
// cfg's input.buffer.min_window sets a floor on how many bytes behind
// the cursor stay retained even with no open marks, so a bounded
// lookbehind window survives past the last Commit.
func OpenStreamWithConfig(name string, r io.Reader, cfg *Config) *Input {
	return &Input{name: name, row: 1, col: 1, src: bufio.NewReader(r), minWindow: cfg.Int("input.buffer.min_window")}
}

// Name returns the input's name, as passed to Open*.
func (in *Input) Name() string { return in.name }

// Position returns the current cursor location.
func (in *Input) Position() Pos {
	return Pos{Name: in.name, Offset: in.offset, Row: in.row, Col: in.col}
}

func (in *Input) available() int { return in.bufBase + len(in.buf) - in.offset }

// fill tries to make at least one more byte available past the cursor.
func (in *Input) fill() {
	if in.available() > 0 || in.atEOF || in.src == nil {
		return
	}
	b, err := in.src.ReadByte()
	if err != nil {
		in.atEOF = true
		return
	}
	in.buf = append(in.buf, b)
}

// Peek returns the byte under the cursor without consuming it, or
// (0, false) at end of input.
func (in *Input) Peek() (byte, bool) {
	in.fill()
	if in.available() <= 0 {
		return 0, false
	}
	return in.buf[in.offset-in.bufBase], true
}

// Eof reports whether the cursor is at the end of the input.
func (in *Input) Eof() bool {
	_, ok := in.Peek()
	return !ok
}

// LastByte returns the most recently consumed byte, or 0 before the
// first Next call.
func (in *Input) LastByte() byte { return in.last }

// Next consumes and returns the byte under the cursor, advancing
// position/row/col/last.
func (in *Input) Next() (byte, bool) {
	b, ok := in.Peek()
	if !ok {
		return 0, false
	}
	in.offset++
	in.col++
	if b == '\n' {
		in.row++
		in.col = 1
	}
	in.last = b
	in.trim()
	return b, true
}

// Mark registers a rewind point at the current cursor and returns its
// id. Marks nest like a stack.
func (in *Input) Mark() Mark {
	id := in.nextID
	in.nextID++
	in.marks = append(in.marks, markState{id: id, offset: in.offset, row: in.row, col: in.col, last: in.last})
	return id
}

// Rewind restores the cursor to the state at mark id, discarding that
// mark and any marks opened after it.
func (in *Input) Rewind(id Mark) {
	for i := len(in.marks) - 1; i >= 0; i-- {
		if in.marks[i].id == id {
			st := in.marks[i]
			in.offset, in.row, in.col, in.last = st.offset, st.row, st.col, st.last
			in.marks = in.marks[:i]
			return
		}
	}
}

// Commit drops mark id without rewinding, permitting the engine to
// trim buffered bytes the mark was protecting.
func (in *Input) Commit(id Mark) {
	for i := len(in.marks) - 1; i >= 0; i-- {
		if in.marks[i].id == id {
			in.marks = append(in.marks[:i], in.marks[i+1:]...)
			break
		}
	}
	in.trim()
}

// BacktrackDepth returns the number of marks currently open.
func (in *Input) BacktrackDepth() int { return len(in.marks) }

// PeekBehind returns the n bytes immediately preceding the cursor, for
// diagnostics that want a little context around an error position. ok
// is false once those bytes have fallen outside the retained window
// (every mark still open, plus input.buffer.min_window behind the
// cursor for a stream-backed Input; a string-backed Input never drops
// anything, so PeekBehind always succeeds there as long as n <= offset).
func (in *Input) PeekBehind(n int) (data []byte, ok bool) {
	start := in.offset - n
	if start < 0 || start < in.bufBase {
		return nil, false
	}
	return in.buf[start-in.bufBase : in.offset-in.bufBase], true
}

// trim releases buffered bytes that precede both the oldest open mark
// (or the cursor, if no marks are open) and the minWindow floor behind
// the cursor.
func (in *Input) trim() {
	if in.src == nil {
		return // string-backed inputs keep their whole buffer
	}
	keepFrom := in.offset
	for _, m := range in.marks {
		if m.offset < keepFrom {
			keepFrom = m.offset
		}
	}
	if floor := in.offset - in.minWindow; floor < keepFrom {
		keepFrom = floor
	}
	if keepFrom <= in.bufBase {
		return
	}
	drop := keepFrom - in.bufBase
	if drop > len(in.buf) {
		drop = len(in.buf)
	}
	in.buf = in.buf[drop:]
	in.bufBase += drop
}
