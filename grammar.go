package parsec

// GFlags controls how Grammar compiles rule text into parsers,
// orthogonal to the grammar text itself.
type GFlags int

const (
	GDefault GFlags = 0
	// GPredictive wraps each alternative of every Or the compiler
	// produces in Predictive, so a consuming failure commits the Or.
	GPredictive GFlags = 1 << iota
	// GWhitespaceSensitive disables the default implicit
	// whitespace-skip the compiler otherwise inserts between
	// adjacent factors within a sequence.
	GWhitespaceSensitive
)

func (f GFlags) predictive() bool          { return f&GPredictive != 0 }
func (f GFlags) whitespaceSensitive() bool { return f&GWhitespaceSensitive != 0 }

type gKind int

const (
	gSeq gKind = iota
	gAlt
	gLitStr
	gLitChar
	gRegexLit
	gRef
	gQuant
)

// gNode is the grammar compiler's own internal AST describing the
// *grammar text itself* — distinct from the Node tree (ast.go) that
// the *compiled* grammar parser produces once it is run against real
// input.
type gNode struct {
	kind gKind
	str  string // literal string contents, regex pattern, or rule name
	b    byte   // literal char
	kids []*gNode
	min  int // quantifier bounds
	max  int
}

type gRuleDef struct {
	name  string
	label string
	alt   *gNode
}

// Grammar compiles src under flags, binding each rule's pre-declared
// retained parser in refs to the compiled body of its definition. It
// returns the retained parser for the first rule defined in src, the
// conventional entry point of a grammar file.
func Grammar(flags GFlags, src string, refs map[string]*Parser) (*Parser, error) {
	rules, err := parseGrammarSyntax(src)
	if err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, &GrammarError{Msg: "grammar has no rules"}
	}
	for _, d := range rules {
		ref, ok := refs[d.name]
		if !ok {
			usagePanic("grammar defines rule %q with no pre-declared parser in refs", d.name)
		}
		body, err := translateNode(d.alt, refs, flags)
		if err != nil {
			return nil, err
		}
		if d.label != "" {
			body = Expect(body, d.label)
		}
		name := d.name
		Define(ref, Apply(body, func(v any) (any, error) { return tagNode(v, name), nil }))
	}
	return refs[rules[0].name], nil
}

// Language is Grammar without the convenience return value: every
// rule's retained parser in refs is bound as a side effect regardless,
// so callers that already hold refs only need to know whether
// compilation succeeded.
func Language(flags GFlags, src string, refs map[string]*Parser) error {
	_, err := Grammar(flags, src, refs)
	return err
}

// GFlagsFromConfig derives the bitmask Grammar/Language consume from
// cfg's grammar.predictive and grammar.whitespace_sensitive keys.
func GFlagsFromConfig(cfg *Config) GFlags {
	var f GFlags
	if cfg.Bool("grammar.predictive") {
		f |= GPredictive
	}
	if cfg.Bool("grammar.whitespace_sensitive") {
		f |= GWhitespaceSensitive
	}
	return f
}

// GrammarWithConfig is Grammar with its flags read from cfg instead of
// passed directly, for callers that thread one Config through the
// compiler and the input layer alike.
func GrammarWithConfig(cfg *Config, src string, refs map[string]*Parser) (*Parser, error) {
	return Grammar(GFlagsFromConfig(cfg), src, refs)
}

// LanguageWithConfig is Language with its flags read from cfg.
func LanguageWithConfig(cfg *Config, src string, refs map[string]*Parser) error {
	return Language(GFlagsFromConfig(cfg), src, refs)
}

func tagNode(v any, name string) *Node {
	switch x := v.(type) {
	case *Node:
		return x.WithTag(name)
	case []any:
		return (&Node{Children: nodesFromAny(x)}).WithTag(name)
	default:
		return (&Node{}).WithTag(name)
	}
}

func nodesFromAny(items []any) []*Node {
	var kids []*Node
	for _, it := range items {
		if n, ok := it.(*Node); ok {
			kids = append(kids, n)
		}
	}
	return kids
}

func translateNode(n *gNode, refs map[string]*Parser, flags GFlags) (*Parser, error) {
	switch n.kind {
	case gLitStr:
		return leafParser(Str(n.str), "string"), nil
	case gLitChar:
		return leafParser(Char(n.b), "char"), nil
	case gRegexLit:
		re, err := Re(n.str, FlagNone)
		if err != nil {
			return nil, err
		}
		return leafParser(re, "regex"), nil
	case gRef:
		ref, ok := refs[n.str]
		if !ok {
			usagePanic("reference to undeclared rule <%s>", n.str)
		}
		return ref, nil
	case gQuant:
		inner, err := translateNode(n.kids[0], refs, flags)
		if err != nil {
			return nil, err
		}
		switch {
		case n.min == 0 && n.max == 1:
			return Maybe(inner, func() any { return nil }), nil
		case n.min == 0 && n.max == -1:
			return Many(nil, inner), nil
		case n.min == 1 && n.max == -1:
			return Many1(nil, inner), nil
		default:
			return inner, nil
		}
	case gSeq:
		children := make([]*Parser, 0, len(n.kids))
		for _, k := range n.kids {
			c, err := translateNode(k, refs, flags)
			if err != nil {
				return nil, err
			}
			if !flags.whitespaceSensitive() {
				c = skipTrailingWS(c)
			}
			children = append(children, c)
		}
		if len(children) == 1 {
			return children[0], nil
		}
		return And(grammarSeqFold, children, nil), nil
	case gAlt:
		children := make([]*Parser, len(n.kids))
		for i, k := range n.kids {
			c, err := translateNode(k, refs, flags)
			if err != nil {
				return nil, err
			}
			if flags.predictive() {
				// Predict each alternative individually so a
				// consuming failure inside it commits the Or
				// rather than falling through to the next
				// alternative — wrapping the whole Or instead
				// would only mark the merged failure as cut
				// after every alternative already ran.
				c = Predictive(c)
			}
			children[i] = c
		}
		return Or(children...), nil
	default:
		usagePanic("unknown grammar ast kind %v", n.kind)
		return nil, nil
	}
}

// leafParser wraps inner (a byte/[]byte-producing atom) so it captures
// the position of its first byte and reports itself as a Node leaf
// tagged with kind.
func leafParser(inner *Parser, kind string) *Parser {
	return And(func(vs []any) (any, error) {
		pos := vs[0].(Pos)
		return &Node{Tag: kind, Contents: flattenBytes(vs[1]), State: pos}, nil
	}, []*Parser{CurrentPos(), inner}, nil)
}

func skipTrailingWS(c *Parser) *Parser {
	return Apply(And(nil, []*Parser{c, Many(nil, OneOf([]byte(" \t\r\n")))}, nil),
		func(v any) (any, error) { return v.([]any)[0], nil })
}

func grammarSeqFold(values []any) (any, error) {
	var kids []*Node
	for _, v := range values {
		switch x := v.(type) {
		case *Node:
			kids = append(kids, x)
		case []any:
			kids = append(kids, nodesFromAny(x)...)
		}
	}
	if len(kids) == 1 {
		return kids[0], nil
	}
	var state Pos
	if len(kids) > 0 {
		state = kids[0].State
	}
	return &Node{Children: kids, State: state}, nil
}

// --- grammar-of-grammars: parsing the grammar text itself ---

func parseGrammarSyntax(src string) ([]*gRuleDef, error) {
	g := buildGrammarMeta()
	defer Cleanup(g.retained)

	top := And(func(vs []any) (any, error) { return vs[1], nil },
		[]*Parser{g.spacing, Many1(nil, g.rule), EOI()}, nil)
	val, err := Parse("<grammar>", []byte(src), top)
	if err != nil {
		pe := err.(*Error)
		return nil, &GrammarError{Pos: pe.Pos, Msg: pe.Render()}
	}
	items := val.([]any)
	out := make([]*gRuleDef, len(items))
	for i, it := range items {
		out[i] = it.(*gRuleDef)
	}
	return out, nil
}

type grammarMeta struct {
	rule     *Parser
	spacing  *Parser
	retained []*Parser
}

func buildGrammarMeta() *grammarMeta {
	altRef := New("gg_alt")

	spacing := Many(nil, OneOf([]byte(" \t\r\n")))
	token := func(p *Parser) *Parser {
		return Apply(And(nil, []*Parser{p, spacing}, nil), func(v any) (any, error) { return v.([]any)[0], nil })
	}

	identChar := Or(RangeByte('a', 'z'), RangeByte('A', 'Z'), RangeByte('0', '9'), Char('_'))
	identStart := Or(RangeByte('a', 'z'), RangeByte('A', 'Z'), Char('_'))
	identifier := Apply(
		And(nil, []*Parser{identStart, Many(nil, identChar)}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			buf := []byte{parts[0].(byte)}
			for _, b := range parts[1].([]any) {
				buf = append(buf, b.(byte))
			}
			return string(buf), nil
		},
	)
	identToken := token(identifier)

	unescapeLitChar := func(c byte) byte {
		switch c {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case 'r':
			return '\r'
		default:
			return c
		}
	}
	litCharExcept := func(delim byte) *Parser {
		return Or(
			Apply(And(nil, []*Parser{Char('\\'), Any()}, nil),
				func(v any) (any, error) { return unescapeLitChar(v.([]any)[1].(byte)), nil }),
			Satisfy(func(b byte) bool { return b != delim && b != '\\' }),
		)
	}

	bytesToString := func(items []any) string {
		buf := make([]byte, len(items))
		for i, it := range items {
			buf[i] = it.(byte)
		}
		return string(buf)
	}

	stringLit := func() *Parser {
		return Apply(
			And(nil, []*Parser{Char('"'), Many(nil, litCharExcept('"')), Char('"')}, nil),
			func(v any) (any, error) { return bytesToString(v.([]any)[1].([]any)), nil },
		)
	}

	stringFactor := token(Apply(stringLit(), func(v any) (any, error) { return &gNode{kind: gLitStr, str: v.(string)}, nil }))

	charFactor := token(Apply(
		And(nil, []*Parser{Char('\''), litCharExcept('\''), Char('\'')}, nil),
		func(v any) (any, error) { return &gNode{kind: gLitChar, b: v.([]any)[1].(byte)}, nil },
	))

	regexFactor := token(Apply(
		And(nil, []*Parser{Char('/'), Many(nil, Satisfy(func(b byte) bool { return b != '/' })), Char('/')}, nil),
		func(v any) (any, error) { return &gNode{kind: gRegexLit, str: bytesToString(v.([]any)[1].([]any))}, nil },
	))

	refFactor := token(Apply(
		And(nil, []*Parser{Char('<'), identifier, Char('>')}, nil),
		func(v any) (any, error) { return &gNode{kind: gRef, str: v.([]any)[1].(string)}, nil },
	))

	groupFactor := Apply(
		And(nil, []*Parser{token(Char('(')), altRef, token(Char(')'))}, nil),
		func(v any) (any, error) { return v.([]any)[1], nil },
	)

	primary := Or(stringFactor, charFactor, regexFactor, refFactor, groupFactor)

	quant := token(Or(Char('?'), Char('*'), Char('+')))
	factor := Apply(
		And(nil, []*Parser{primary, Maybe(quant, nil)}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			base := parts[0].(*gNode)
			q := parts[1]
			if q == nil {
				return base, nil
			}
			switch q.(byte) {
			case '?':
				return &gNode{kind: gQuant, kids: []*gNode{base}, min: 0, max: 1}, nil
			case '*':
				return &gNode{kind: gQuant, kids: []*gNode{base}, min: 0, max: -1}, nil
			default: // '+'
				return &gNode{kind: gQuant, kids: []*gNode{base}, min: 1, max: -1}, nil
			}
		},
	)

	seq := Apply(
		Many(nil, factor),
		func(v any) (any, error) {
			items := v.([]any)
			kids := make([]*gNode, len(items))
			for i, it := range items {
				kids[i] = it.(*gNode)
			}
			if len(kids) == 1 {
				return kids[0], nil
			}
			return &gNode{kind: gSeq, kids: kids}, nil
		},
	)

	alt := Apply(
		And(nil, []*Parser{seq, Many(nil, And(nil, []*Parser{token(Char('|')), seq}, nil))}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			head := parts[0].(*gNode)
			tail := parts[1].([]any)
			if len(tail) == 0 {
				return head, nil
			}
			kids := []*gNode{head}
			for _, t := range tail {
				kids = append(kids, t.([]any)[1].(*gNode))
			}
			return &gNode{kind: gAlt, kids: kids}, nil
		},
	)
	Define(altRef, alt)

	labelTok := token(stringLit())

	rule := Apply(
		And(nil, []*Parser{identToken, Maybe(labelTok, nil), token(Char(':')), altRef, token(Char(';'))}, nil),
		func(v any) (any, error) {
			parts := v.([]any)
			d := &gRuleDef{name: parts[0].(string), alt: parts[3].(*gNode)}
			if s, ok := parts[1].(string); ok {
				d.label = s
			}
			return d, nil
		},
	)

	return &grammarMeta{rule: rule, spacing: spacing, retained: []*Parser{altRef}}
}
