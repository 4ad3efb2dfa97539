package parsec

import (
	"fmt"
	"strconv"
)

// Flags controls matching behavior for Re, orthogonal to the pattern
// text itself (line-boundary anchoring, dot-matches-newline).
type Flags int

const (
	FlagNone Flags = 0
	// FlagMultiline makes ^ and $ also match at line boundaries, not
	// only at the very start/end of input.
	FlagMultiline Flags = 1 << iota
	// FlagDotAll makes . match '\n' too.
	FlagDotAll
)

type byteRange struct{ lo, hi byte }

type reKind int

const (
	reKindLit reKind = iota
	reKindAny
	reKindClass
	reKindStart
	reKindEnd
	reKindSeq
	reKindAlt
	reKindRepeat
)

// reNode is the regex compiler's own internal AST — distinct from the
// generic grammar-front-end Node (ast.go), since a regex never needs
// rule-tag chains, only enough structure to translate into a Parser
// tree built from the same combinators.
type reNode struct {
	kind   reKind
	lit    byte
	ranges []byteRange
	negate bool
	kids   []*reNode
	min    int
	max    int // -1 means unbounded
}

var (
	digitRanges = []byteRange{{'0', '9'}}
	wordRanges  = []byteRange{{'a', 'z'}, {'A', 'Z'}, {'0', '9'}, {'_', '_'}}
	spaceRanges = []byteRange{{' ', ' '}, {'\t', '\t'}, {'\n', '\n'}, {'\r', '\r'}, {'\f', '\f'}, {'\v', '\v'}}
)

func litNode(b byte) *reNode { return &reNode{kind: reKindLit, lit: b} }
func classNode(ranges []byteRange, negate bool) *reNode {
	return &reNode{kind: reKindClass, ranges: ranges, negate: negate}
}

type quantSpec struct{ min, max int }

var quantOne = quantSpec{1, 1}

// Re compiles a regex pattern string into a Parser matching a prefix
// of its future input. It works by parsing the pattern itself with a
// small hand-written combinator grammar, then translating the
// resulting AST into a parser tree built from the same combinators —
// the regex front-end never hand-rolls its own scanner.
func Re(pattern string, flags Flags) (*Parser, error) {
	ast, err := parseRegexSyntax(pattern)
	if err != nil {
		return nil, err
	}
	return translateRegex(ast, flags), nil
}

func parseRegexSyntax(pattern string) (*reNode, error) {
	g := buildRegexGrammar()
	defer Cleanup(g.retained)

	top := And(func(vs []any) (any, error) { return vs[0], nil }, []*Parser{g.alt, EOI()}, nil)
	val, err := Parse("<regex>", []byte(pattern), top)
	if err != nil {
		pe := err.(*Error)
		return nil, &GrammarError{Pos: pe.Pos, Msg: pe.Render()}
	}
	return val.(*reNode), nil
}

type regexGrammar struct {
	alt      *Parser
	retained []*Parser
}

func buildRegexGrammar() *regexGrammar {
	alt := New("re_alt")
	seq := New("re_seq")
	rep := New("re_rep")
	atom := New("re_atom")

	notSpecial := func(b byte) bool {
		for _, c := range []byte("^$.|?*+()[]\\") {
			if b == c {
				return false
			}
		}
		return true
	}

	literalAtom := Apply(Satisfy(notSpecial), func(v any) (any, error) { return litNode(v.(byte)), nil })

	dotAtom := Apply(Char('.'), func(any) (any, error) { return &reNode{kind: reKindAny}, nil })
	startAtom := Apply(Char('^'), func(any) (any, error) { return &reNode{kind: reKindStart}, nil })
	endAtom := Apply(Char('$'), func(any) (any, error) { return &reNode{kind: reKindEnd}, nil })

	groupAtom := Apply(
		And(nil, []*Parser{Char('('), alt, Char(')')}, nil),
		func(v any) (any, error) { return v.([]any)[1], nil },
	)

	escapeAtom := Apply(
		And(nil, []*Parser{Char('\\'), Any()}, nil),
		func(v any) (any, error) {
			c := v.([]any)[1].(byte)
			switch c {
			case 'n':
				return litNode('\n'), nil
			case 'r':
				return litNode('\r'), nil
			case 't':
				return litNode('\t'), nil
			case '\\', '.', '*', '+', '?', '|', '(', ')', '[', ']', '^', '$':
				return litNode(c), nil
			case 's':
				return classNode(spaceRanges, false), nil
			case 'S':
				return classNode(spaceRanges, true), nil
			case 'd':
				return classNode(digitRanges, false), nil
			case 'D':
				return classNode(digitRanges, true), nil
			case 'w':
				return classNode(wordRanges, false), nil
			case 'W':
				return classNode(wordRanges, true), nil
			default:
				return nil, fmt.Errorf("unsupported escape \\%c", c)
			}
		},
	)

	classCharByte := Satisfy(func(b byte) bool { return b != ']' && b != '\\' })
	classEscapeByte := Apply(
		And(nil, []*Parser{Char('\\'), Any()}, nil),
		func(v any) (any, error) {
			c := v.([]any)[1].(byte)
			switch c {
			case 'n':
				return byte('\n'), nil
			case 'r':
				return byte('\r'), nil
			case 't':
				return byte('\t'), nil
			case '\\', ']', '^', '-':
				return c, nil
			default:
				return nil, fmt.Errorf("unsupported class escape \\%c", c)
			}
		},
	)
	classAtomByte := Or(classEscapeByte, classCharByte)

	classRange := Apply(
		And(nil, []*Parser{classAtomByte, Char('-'), classAtomByte}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			return byteRange{parts[0].(byte), parts[2].(byte)}, nil
		},
	)
	classItem := Or(classRange, classAtomByte)
	classAtom := Apply(
		And(nil, []*Parser{Char('['), Maybe(Char('^'), nil), Many(nil, classItem), Char(']')}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			negate := parts[1] != nil
			var ranges []byteRange
			for _, it := range parts[2].([]any) {
				switch x := it.(type) {
				case byteRange:
					ranges = append(ranges, x)
				case byte:
					ranges = append(ranges, byteRange{x, x})
				}
			}
			return classNode(ranges, negate), nil
		},
	)

	Define(atom, Or(dotAtom, startAtom, endAtom, classAtom, groupAtom, escapeAtom, literalAtom))

	digits := Apply(
		Many1(nil, RangeByte('0', '9')),
		func(v any) (any, error) {
			buf := make([]byte, 0, len(v.([]any)))
			for _, b := range v.([]any) {
				buf = append(buf, b.(byte))
			}
			n, err := strconv.Atoi(string(buf))
			if err != nil {
				return nil, err
			}
			return n, nil
		},
	)

	quantBounded := Apply(
		And(nil, []*Parser{
			Char('{'), digits,
			Maybe(And(nil, []*Parser{Char(','), Maybe(digits, nil)}, nil), nil),
			Char('}'),
		}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			m := parts[1].(int)
			commaPart := parts[2]
			if commaPart == nil {
				return quantSpec{m, m}, nil
			}
			nAny := commaPart.([]any)[1]
			if nAny == nil {
				return quantSpec{m, -1}, nil
			}
			return quantSpec{m, nAny.(int)}, nil
		},
	)

	quantChar := Or(
		Apply(Char('?'), func(any) (any, error) { return quantSpec{0, 1}, nil }),
		Apply(Char('*'), func(any) (any, error) { return quantSpec{0, -1}, nil }),
		Apply(Char('+'), func(any) (any, error) { return quantSpec{1, -1}, nil }),
		quantBounded,
	)

	Define(rep, Apply(
		And(nil, []*Parser{atom, Maybe(quantChar, func() any { return quantOne })}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			a := parts[0].(*reNode)
			q := parts[1].(quantSpec)
			if q == quantOne {
				return a, nil
			}
			return &reNode{kind: reKindRepeat, kids: []*reNode{a}, min: q.min, max: q.max}, nil
		},
	))

	Define(seq, Apply(
		Many(nil, rep),
		func(v any) (any, error) {
			items := v.([]any)
			kids := make([]*reNode, len(items))
			for i, it := range items {
				kids[i] = it.(*reNode)
			}
			if len(kids) == 1 {
				return kids[0], nil
			}
			return &reNode{kind: reKindSeq, kids: kids}, nil
		},
	))

	Define(alt, Apply(
		And(nil, []*Parser{seq, Many(nil, And(nil, []*Parser{Char('|'), seq}, nil))}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			head := parts[0].(*reNode)
			tail := parts[1].([]any)
			if len(tail) == 0 {
				return head, nil
			}
			kids := []*reNode{head}
			for _, t := range tail {
				kids = append(kids, t.([]any)[1].(*reNode))
			}
			return &reNode{kind: reKindAlt, kids: kids}, nil
		},
	))

	return &regexGrammar{alt: alt, retained: []*Parser{alt, seq, rep, atom}}
}

func flattenBytes(v any) []byte {
	switch x := v.(type) {
	case byte:
		return []byte{x}
	case []byte:
		return x
	case []any:
		var out []byte
		for _, it := range x {
			out = append(out, flattenBytes(it)...)
		}
		return out
	default:
		return nil
	}
}

func concatBytesFold(values []any) (any, error) {
	buf := []byte{}
	for _, v := range values {
		buf = append(buf, flattenBytes(v)...)
	}
	return buf, nil
}

func translateRegex(n *reNode, flags Flags) *Parser {
	switch n.kind {
	case reKindLit:
		return Char(n.lit)
	case reKindAny:
		if flags&FlagDotAll != 0 {
			return Any()
		}
		return Satisfy(func(b byte) bool { return b != '\n' })
	case reKindClass:
		ranges := n.ranges
		negate := n.negate
		return Satisfy(func(b byte) bool {
			in := false
			for _, r := range ranges {
				if b >= r.lo && b <= r.hi {
					in = true
					break
				}
			}
			if negate {
				return !in
			}
			return in
		})
	case reKindStart:
		if flags&FlagMultiline != 0 {
			return StartOfLine()
		}
		return SOI()
	case reKindEnd:
		if flags&FlagMultiline != 0 {
			return EndOfLine()
		}
		return EOI()
	case reKindSeq:
		children := make([]*Parser, len(n.kids))
		for i, k := range n.kids {
			children[i] = translateRegex(k, flags)
		}
		return And(concatBytesFold, children, nil)
	case reKindAlt:
		children := make([]*Parser, len(n.kids))
		for i, k := range n.kids {
			children[i] = translateRegex(k, flags)
		}
		return Or(children...)
	case reKindRepeat:
		return translateRepeat(translateRegex(n.kids[0], flags), n.min, n.max)
	default:
		usagePanic("unknown regex ast kind %v", n.kind)
		return nil
	}
}

func optionalBytes(inner *Parser) *Parser {
	return Maybe(Apply(inner, func(v any) (any, error) { return flattenBytes(v), nil }), func() any { return []byte{} })
}

func translateRepeat(inner *Parser, min, max int) *Parser {
	switch {
	case min == 0 && max == -1:
		return Many(concatBytesFold, inner)
	case min == 1 && max == -1:
		return Many1(concatBytesFold, inner)
	case min == 0 && max == 1:
		return optionalBytes(inner)
	case max == -1:
		return And(concatBytesFold, []*Parser{Count(min, concatBytesFold, inner, nil), Many(concatBytesFold, inner)}, nil)
	default:
		return And(concatBytesFold, []*Parser{
			Count(min, concatBytesFold, inner, nil),
			Count(max-min, concatBytesFold, optionalBytes(inner), nil),
		}, nil)
	}
}
