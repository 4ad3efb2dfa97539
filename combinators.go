package parsec

// Expect runs inner; on failure it replaces the error's expectation
// set with {label}, leaving position and fail message untouched.
func Expect(inner *Parser, label string) *Parser {
	p := newParser(TagExpect)
	p.inner, p.label = inner, label
	return p
}

// Apply runs inner, then transforms its value through fn. A non-nil
// error from fn becomes a Fail-kind parse failure at the
// post-inner position.
func Apply(inner *Parser, fn func(any) (any, error)) *Parser {
	p := newParser(TagApply)
	p.inner, p.applyFn = inner, fn
	return p
}

// Check runs inner, then validates its value with pred; a false
// verdict becomes a Fail-kind parse failure carrying msg.
func Check(inner *Parser, pred func(any) bool, msg string) *Parser {
	p := newParser(TagCheck)
	p.inner, p.checkFn, p.msg = inner, pred, msg
	return p
}

// Not succeeds, consuming nothing, iff inner fails; if inner succeeds,
// its value is passed to dtor (if non-nil) and Not fails with
// "unexpected". On success Not's value is produced by lift, or nil if
// lift is nil.
func Not(inner *Parser, dtor Destructor, lift func() any) *Parser {
	p := newParser(TagNot)
	p.inner, p.dtor, p.lift2 = inner, dtor, lift
	return p
}

// Maybe runs inner once. A non-consuming failure succeeds with the
// value produced by calling lift (nil if lift is nil); a consuming
// failure propagates.
func Maybe(inner *Parser, lift func() any) *Parser {
	p := newParser(TagMaybe)
	p.inner, p.lift2 = inner, lift
	return p
}

// Many repeats inner zero or more times, combining the collected
// values with fold. See eval.go for the exact termination and
// failure-propagation rules: a zero-width success stops the loop
// without appending, a consuming cut failure is hard, and any other
// failure rewinds to the last successful position and stops.
func Many(fold Fold, inner *Parser) *Parser {
	p := newParser(TagMany)
	p.inner, p.fold = inner, fold
	return p
}

// Many1 is Many requiring at least one (non-zero-width) successful
// iteration.
func Many1(fold Fold, inner *Parser) *Parser {
	p := newParser(TagMany1)
	p.inner, p.fold = inner, fold
	return p
}

// Count repeats inner exactly n times; fewer than n is a failure, and
// dtor (if non-nil) is invoked on every partial value collected before
// the failing attempt.
func Count(n int, fold Fold, inner *Parser, dtor Destructor) *Parser {
	p := newParser(TagCount)
	p.n, p.fold, p.inner, p.dtor = n, fold, inner, dtor
	return p
}

// Or tries each child in order, backtracking to the pre-attempt cursor
// position between them, and returns the first success. If every
// child fails, the errors are merged (see Error.Merge) and returned.
func Or(children ...*Parser) *Parser {
	p := newParser(TagOr)
	p.children = children
	return p
}

// And evaluates children left to right and folds their values into
// one. If child i fails, dtors[0:i] (whichever are non-nil) are
// invoked on the partial values already collected, then the failure
// propagates; none of the later children run.
func And(fold Fold, children []*Parser, dtors []Destructor) *Parser {
	p := newParser(TagAnd)
	p.fold, p.children, p.dtors = fold, children, dtors
	return p
}

// Predictive disables backtracking across inner's boundary: if inner
// fails after consuming at least one byte, that consumption is not
// rewound and the error propagates past any enclosing Or without
// trying further alternatives.
func Predictive(inner *Parser) *Parser {
	p := newParser(TagPredict)
	p.inner = inner
	return p
}
