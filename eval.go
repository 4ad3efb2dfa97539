package parsec

import "io"

// Parse runs p against the bytes of data and returns its value, or a
// *Error describing why it failed. name is used only to qualify
// positions in diagnostics.
func Parse(name string, data []byte, p *Parser) (any, error) {
	in := OpenString(name, data)
	val, err := eval(p, in)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// ParseStream is Parse over a non-seekable byte source.
func ParseStream(name string, r io.Reader, p *Parser) (any, error) {
	return ParseStreamWithConfig(name, r, p, NewConfig())
}

// ParseStreamWithConfig is ParseStream with explicit input-buffering
// config (see OpenStreamWithConfig).
func ParseStreamWithConfig(name string, r io.Reader, p *Parser, cfg *Config) (any, error) {
	in := OpenStreamWithConfig(name, r, cfg)
	val, err := eval(p, in)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// eval dispatches p's evaluation rule by Tag. It never returns a nil
// *Error together with a non-nil error value or vice versa.
func eval(p *Parser, in *Input) (any, *Error) {
	switch p.Tag {
	case TagFail:
		return nil, NewFail(in.Position(), describe(in), p.msg)
	case TagPass:
		return nil, nil
	case TagLift:
		return p.lift(), nil
	case TagExpect:
		return evalExpect(p, in)
	case TagAnchor:
		return evalAnchor(p, in)
	case TagSingle:
		return evalSingle(p, in)
	case TagRangeByte:
		return evalRange(p, in)
	case TagOneOf:
		return evalOneOf(p, in)
	case TagNoneOf:
		return evalNoneOf(p, in)
	case TagSatisfy:
		return evalSatisfy(p, in)
	case TagString:
		return evalString(p, in)
	case TagApply:
		return evalApply(p, in)
	case TagCheck:
		return evalCheck(p, in)
	case TagPredict:
		return evalPredict(p, in)
	case TagNot:
		return evalNot(p, in)
	case TagMaybe:
		return evalMaybe(p, in)
	case TagMany:
		return evalMany(p, in)
	case TagMany1:
		return evalMany1(p, in)
	case TagCount:
		return evalCount(p, in)
	case TagOr:
		return evalOr(p, in)
	case TagAnd:
		return evalAnd(p, in)
	case TagRef:
		return evalRef(p, in)
	case TagPos:
		return in.Position(), nil
	default:
		usagePanic("unknown parser tag %v", p.Tag)
		return nil, nil
	}
}

func describe(in *Input) string {
	b, ok := in.Peek()
	if !ok {
		return "EOF"
	}
	if b == '\n' {
		return "\\n"
	}
	return string(b)
}

func defaultLabel(p *Parser) string {
	if p == nil {
		return "input"
	}
	switch p.Tag {
	case TagSingle:
		return "'" + string(p.b) + "'"
	case TagRangeByte:
		return "[" + string(p.lo) + "-" + string(p.hi) + "]"
	case TagOneOf:
		return "one of the expected characters"
	case TagNoneOf:
		return "none of the excluded characters"
	case TagSatisfy:
		return "a matching byte"
	case TagString:
		return "\"" + string(p.lit) + "\""
	default:
		if p.Name != "" {
			return p.Name
		}
		return "input"
	}
}

func foldValues(fold Fold, values []any, in *Input) (any, *Error) {
	if fold == nil {
		return values, nil
	}
	v, err := fold(values)
	if err != nil {
		return nil, NewFail(in.Position(), describe(in), err.Error())
	}
	return v, nil
}

func evalExpect(p *Parser, in *Input) (any, *Error) {
	val, err := eval(p.inner, in)
	if err != nil {
		return nil, Relabel(err, p.label)
	}
	return val, nil
}

func evalAnchor(p *Parser, in *Input) (any, *Error) {
	next, ok := in.Peek()
	if p.anchor(in.LastByte(), next, !ok) {
		return nil, nil
	}
	return nil, NewExpect(in.Position(), describe(in), defaultLabel(p))
}

func evalSingle(p *Parser, in *Input) (any, *Error) {
	b, ok := in.Peek()
	if ok && b == p.b {
		in.Next()
		return b, nil
	}
	return nil, NewExpect(in.Position(), describe(in), defaultLabel(p))
}

func evalRange(p *Parser, in *Input) (any, *Error) {
	b, ok := in.Peek()
	if ok && b >= p.lo && b <= p.hi {
		in.Next()
		return b, nil
	}
	return nil, NewExpect(in.Position(), describe(in), defaultLabel(p))
}

func evalOneOf(p *Parser, in *Input) (any, *Error) {
	b, ok := in.Peek()
	if ok && p.set[b] {
		in.Next()
		return b, nil
	}
	return nil, NewExpect(in.Position(), describe(in), defaultLabel(p))
}

func evalNoneOf(p *Parser, in *Input) (any, *Error) {
	b, ok := in.Peek()
	if ok && !p.set[b] {
		in.Next()
		return b, nil
	}
	return nil, NewExpect(in.Position(), describe(in), defaultLabel(p))
}

func evalSatisfy(p *Parser, in *Input) (any, *Error) {
	b, ok := in.Peek()
	if ok && p.pred(b) {
		in.Next()
		return b, nil
	}
	return nil, NewExpect(in.Position(), describe(in), defaultLabel(p))
}

func evalString(p *Parser, in *Input) (any, *Error) {
	for _, want := range p.lit {
		b, ok := in.Peek()
		if !ok || b != want {
			return nil, NewExpect(in.Position(), describe(in), defaultLabel(p))
		}
		in.Next()
	}
	return append([]byte(nil), p.lit...), nil
}

func evalApply(p *Parser, in *Input) (any, *Error) {
	val, err := eval(p.inner, in)
	if err != nil {
		return nil, err
	}
	out, ferr := p.applyFn(val)
	if ferr != nil {
		return nil, NewFail(in.Position(), describe(in), ferr.Error())
	}
	return out, nil
}

func evalCheck(p *Parser, in *Input) (any, *Error) {
	val, err := eval(p.inner, in)
	if err != nil {
		return nil, err
	}
	if !p.checkFn(val) {
		return nil, NewFail(in.Position(), describe(in), p.msg)
	}
	return val, nil
}

func evalPredict(p *Parser, in *Input) (any, *Error) {
	val, err := eval(p.inner, in)
	if err != nil {
		err.cut = true
		return nil, err
	}
	return val, nil
}

func evalNot(p *Parser, in *Input) (any, *Error) {
	id := in.Mark()
	val, err := eval(p.inner, in)
	if err == nil {
		if p.dtor != nil {
			p.dtor(val)
		}
		in.Rewind(id)
		return nil, NewUnexpected(in.Position(), describe(in), defaultLabel(p.inner))
	}
	in.Rewind(id)
	if p.lift2 != nil {
		return p.lift2(), nil
	}
	return nil, nil
}

func evalMaybe(p *Parser, in *Input) (any, *Error) {
	before := in.Position().Offset
	id := in.Mark()
	val, err := eval(p.inner, in)
	if err == nil {
		in.Commit(id)
		return val, nil
	}
	if in.Position().Offset != before {
		in.Commit(id) // consuming failure: leave the consumption, propagate
		return nil, err
	}
	in.Rewind(id)
	if p.lift2 != nil {
		return p.lift2(), nil
	}
	return nil, nil
}

// manyIterate runs inner repeatedly, following these termination and
// failure rules:
//   - a non-consuming failure stops the loop and is not an error
//   - a consuming failure under Predict (err.cut) is fatal: the
//     consumption stands and the error is returned as hard
//   - a consuming failure outside Predict rewinds that attempt and
//     stops the loop, same as a non-consuming failure
//   - a zero-width success stops the loop without being appended,
//     guaranteeing termination
func manyIterate(inner *Parser, in *Input) (values []any, exitErr *Error, hard *Error) {
	for {
		before := in.Position().Offset
		id := in.Mark()
		val, err := eval(inner, in)
		if err != nil {
			exitErr = err
			consumed := in.Position().Offset != before
			if consumed && err.cut {
				in.Commit(id)
				hard = err
				return
			}
			in.Rewind(id)
			return
		}
		in.Commit(id)
		if in.Position().Offset == before {
			return
		}
		values = append(values, val)
	}
}

func evalMany(p *Parser, in *Input) (any, *Error) {
	values, _, hard := manyIterate(p.inner, in)
	if hard != nil {
		return nil, hard
	}
	return foldValues(p.fold, values, in)
}

func evalMany1(p *Parser, in *Input) (any, *Error) {
	values, exitErr, hard := manyIterate(p.inner, in)
	if hard != nil {
		return nil, hard
	}
	if len(values) == 0 {
		if exitErr != nil {
			return nil, exitErr
		}
		return nil, NewExpect(in.Position(), describe(in), defaultLabel(p.inner))
	}
	return foldValues(p.fold, values, in)
}

func evalCount(p *Parser, in *Input) (any, *Error) {
	values := make([]any, 0, p.n)
	for i := 0; i < p.n; i++ {
		val, err := eval(p.inner, in)
		if err != nil {
			if p.dtor != nil {
				for _, v := range values {
					p.dtor(v)
				}
			}
			return nil, err
		}
		values = append(values, val)
	}
	return foldValues(p.fold, values, in)
}

func evalOr(p *Parser, in *Input) (any, *Error) {
	startPos := in.Position().Offset
	var merged *Error
	for _, child := range p.children {
		id := in.Mark()
		val, err := eval(child, in)
		if err == nil {
			in.Commit(id)
			return val, nil
		}
		consumed := in.Position().Offset != startPos
		if consumed && err.cut {
			in.Commit(id)
			return nil, err
		}
		in.Rewind(id)
		merged = Merge(merged, err)
	}
	return nil, merged
}

func evalAnd(p *Parser, in *Input) (any, *Error) {
	values := make([]any, 0, len(p.children))
	for i, child := range p.children {
		val, err := eval(child, in)
		if err != nil {
			for j := i - 1; j >= 0; j-- {
				if j < len(p.dtors) && p.dtors[j] != nil {
					p.dtors[j](values[j])
				}
			}
			return nil, err
		}
		values = append(values, val)
	}
	return foldValues(p.fold, values, in)
}

func evalRef(p *Parser, in *Input) (any, *Error) {
	if !p.defined || p.body == nil {
		usagePanic("reference to undefined parser %q", p.Name)
	}
	return eval(p.body, in)
}
