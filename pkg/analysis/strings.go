package analysis

import (
	"fmt"
	"slices"

	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

func (p *pass) visitStringCompare(c *ir.StringCompare) {
	left, right := c.Left(), c.Right()
	switch c.Op() {
	case ir.OpEqual:
		l, lok := left.(*ir.StringVar)
		r, rok := right.(*ir.StringVar)
		if lok && rok {
			p.unionString(l, r)
			return
		}
		p.propagateString(p.asStringVar(left), right)
		p.propagateString(p.asStringVar(right), left)
	case ir.OpLessThan, ir.OpLessThanEqual:
		l, lok := left.(*ir.StringVar)
		r, rok := right.(*ir.StringVar)
		if !lok || !rok {
			return
		}
		a, b := padded(l.CharVars(), r.CharVars())
		if c.Op() == ir.OpLessThan {
			p.lessThanString(a, b, 0)
		} else {
			p.lessThanEqualString(a, b, 0)
		}
	}
}

// padded returns the character arrays as expressions of equal length,
// extending the shorter with the terminator.
func padded(a, b []*ir.IntVar) ([]ir.IntExpr, []ir.IntExpr) {
	n := max(len(a), len(b))
	pad := func(chars []*ir.IntVar) []ir.IntExpr {
		out := make([]ir.IntExpr, n)
		for i := range out {
			if i < len(chars) {
				out[i] = chars[i]
			} else {
				out[i] = ir.Zero
			}
		}
		return out
	}
	return pad(a), pad(b)
}

func (p *pass) equalString(a, b []ir.IntExpr) {
	for i := range a {
		p.equalInt(a[i], b[i])
	}
}

// lessThanString narrows position index of a < b, the first position whose
// order is not already decided.
func (p *pass) lessThanString(a, b []ir.IntExpr, index int) {
	for ; ; index++ {
		failIf(index == len(a), "a string cannot be less than an equal string")
		switch ir.Order(a[index], b[index]) {
		case ir.EQ:
			continue
		case ir.LT:
			return
		case ir.GT:
			fail("%v is greater than %v", a[index], b[index])
		}
		switch ir.OrderStrings(a, b, index+1) {
		case ir.EQ, ir.GT, ir.GE:
			p.lessThan(a[index], b[index])
		default:
			p.lessThanEqual(a[index], b[index])
		}
		return
	}
}

func (p *pass) lessThanEqualString(a, b []ir.IntExpr, index int) {
	for ; index < len(a) && index < len(b); index++ {
		switch ir.Order(a[index], b[index]) {
		case ir.EQ:
			continue
		case ir.LT:
			return
		case ir.GT:
			fail("%v is greater than %v", a[index], b[index])
		}
		if ir.OrderStrings(a, b, index+1) == ir.GT {
			p.lessThan(a[index], b[index])
		} else {
			p.lessThanEqual(a[index], b[index])
		}
		return
	}
}

// propagateString records that right equals the temporary or variable left.
func (p *pass) propagateString(left *ir.StringVar, right ir.StringExpr) {
	switch r := right.(type) {
	case *ir.StringVar:
		if r.IsTemp() {
			return
		}
		if !left.IsTemp() || restricts(left, r) {
			p.stats.Narrowings++
			p.unionString(r, left)
		}
	case *ir.Concat:
		p.propagatePrefix(p.asStringVar(r.Left()), left)
		p.propagateSuffix(p.asStringVar(r.Right()), left)
		p.propagateInt(left.Length(), ir.Sum(ir.NewLength(r.Left()), ir.NewLength(r.Right())))
	default:
		panic(fmt.Sprintf("analysis: unhandled string expression %T", right))
	}
}

func (p *pass) propagatePrefix(prefix, word ir.StringExpr) {
	pl, wl := prefix.Length(), word.Length()
	wordChars := p.charVars(word)
	{
		// What prefix can be: word's characters below prefix's minimum
		// length, word's characters or the terminator beyond it.
		chars := slices.Clone(wordChars)
		for i := pl.Low(); i < len(chars); i++ {
			chars[i] = p.tint(chars[i].Domain().Insert(0))
		}
		p.propagateString(p.boundHighLength(p.tstringOf(chars), wl.High()), prefix)
	}
	{
		// What word can be: prefix's certain characters, then anything.
		chars := slices.Clone(wordChars)
		prefixChars := p.charVars(prefix)
		copy(chars[:min(pl.Low(), len(prefixChars), len(chars))], prefixChars)
		p.propagateString(p.boundLowLength(p.tstringOf(chars), pl.Low()), word)
	}
}

func (p *pass) propagateSuffix(suffix, word ir.StringExpr) {
	sl, wl := suffix.Length(), word.Length()
	failIf(wl.High() < sl.Low(), "suffix of length %v is longer than %v", sl, wl)
	wordChars := word.Chars()
	{
		// Suffix starts in word somewhere in [low, high].
		low := max(0, wl.Low()-sl.High())
		high := wl.High() - sl.Low()
		chars := make([]*ir.IntVar, len(suffix.Chars()))
		for i := range chars {
			from := low + i
			if from >= len(wordChars) {
				chars[i] = ir.Zero
				continue
			}
			to := min(len(wordChars)-1, high+i)
			if from == to && i < sl.Low() {
				chars[i] = p.charAt(word, from)
				continue
			}
			d := domain.UnionAll(wordChars[from : to+1]...)
			if i >= sl.Low() {
				d = d.Insert(0)
			}
			chars[i] = p.tint(d)
		}
		p.propagateString(p.boundHighLength(p.tstringOf(chars), wl.High()), suffix)
	}
	if sl.Low() > 0 {
		// Word's last characters, counted back from its maximum length.
		chars := slices.Clone(p.charVars(word))
		suffixChars := suffix.Chars()
		d := suffixChars[sl.High()-1]
		for i := sl.High() - 1; i > sl.Low(); i-- {
			d = d.Union(suffixChars[i-1])
		}
		for i := 0; i < sl.Low(); i++ {
			d = d.Union(suffixChars[sl.Low()-i-1])
			index := wl.High() - i - 1
			if index >= wl.Low() {
				d = d.Insert(0)
			}
			chars[index] = p.tint(d)
		}
		p.propagateString(p.boundLowLength(p.tstringOf(chars), sl.Low()), word)
	}
}
