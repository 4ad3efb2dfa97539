package parsec

// Pass always succeeds with a nil value, consuming nothing.
func Pass() *Parser { return newParser(TagPass) }

// Fail always fails with msg as its Fail-kind message, consuming
// nothing.
func Fail(msg string) *Parser {
	p := newParser(TagFail)
	p.msg = msg
	return p
}

// Lift always succeeds, consuming nothing, with the value produced by
// calling f.
func Lift(f func() any) *Parser {
	p := newParser(TagLift)
	p.lift = f
	return p
}

// LiftVal is Lift with a constant value.
func LiftVal(v any) *Parser {
	return Lift(func() any { return v })
}

// Any matches and returns any single byte, failing only at EOF.
func Any() *Parser {
	return Satisfy(func(byte) bool { return true })
}

// Char matches a single literal byte, returning it.
func Char(c byte) *Parser {
	p := newParser(TagSingle)
	p.b = c
	return p
}

// RangeByte matches any byte in [lo, hi], inclusive.
func RangeByte(lo, hi byte) *Parser {
	p := newParser(TagRangeByte)
	p.lo, p.hi = lo, hi
	return p
}

func byteSet(bytes []byte) [256]bool {
	var set [256]bool
	for _, b := range bytes {
		set[b] = true
	}
	return set
}

// OneOf matches any byte present in set.
func OneOf(set []byte) *Parser {
	p := newParser(TagOneOf)
	p.set = byteSet(set)
	return p
}

// NoneOf matches any byte absent from set (and not EOF).
func NoneOf(set []byte) *Parser {
	p := newParser(TagNoneOf)
	p.set = byteSet(set)
	return p
}

// Satisfy matches a single byte for which pred returns true.
func Satisfy(pred func(byte) bool) *Parser {
	p := newParser(TagSatisfy)
	p.pred = pred
	return p
}

// Str matches a literal byte string, consuming it byte by byte and
// returning it as the matched value.
func Str(s string) *Parser {
	p := newParser(TagString)
	p.lit = []byte(s)
	return p
}

// AnchorFn succeeds with a nil value, consuming nothing, iff pred
// returns true given the previously consumed byte (0 at start of
// input) and the upcoming byte (with atEOF true when there isn't
// one).
func AnchorFn(pred func(last byte, next byte, atEOF bool) bool) *Parser {
	p := newParser(TagAnchor)
	p.anchor = pred
	return p
}

// SOI matches the start of input: succeeds only when nothing has been
// consumed yet.
func SOI() *Parser {
	return AnchorFn(func(last byte, _ byte, _ bool) bool { return last == 0 })
}

// EOI matches the end of input.
func EOI() *Parser {
	return AnchorFn(func(_ byte, _ byte, atEOF bool) bool { return atEOF })
}

// CurrentPos succeeds with the Input's current Pos as its value,
// consuming nothing. It is how a leaf-producing combinator like the
// grammar front-end's string/char/regex factors capture the position
// of a match's first byte (a Node's State) without needing the
// evaluator to thread position information through every combinator.
func CurrentPos() *Parser { return newParser(TagPos) }

// StartOfLine succeeds right after a '\n', or at the start of input.
func StartOfLine() *Parser {
	return AnchorFn(func(last byte, _ byte, _ bool) bool { return last == 0 || last == '\n' })
}

// EndOfLine succeeds right before a '\n', or at the end of input.
func EndOfLine() *Parser {
	return AnchorFn(func(_ byte, next byte, atEOF bool) bool { return atEOF || next == '\n' })
}

// WordByte reports whether b is a "word" byte ([A-Za-z0-9_]), the
// class \w matches in the regex front-end.
func WordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// WordBoundary succeeds at a transition between a word byte and a
// non-word byte (or an edge of input).
func WordBoundary() *Parser {
	return AnchorFn(func(last byte, next byte, atEOF bool) bool {
		lw := last != 0 && WordByte(last)
		nw := !atEOF && WordByte(next)
		return lw != nw
	})
}
