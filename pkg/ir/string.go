package ir

import "github.com/gitrdm/gokanir/pkg/domain"

// Concat is the concatenation left ++ right.
type Concat struct {
	left, right StringExpr
	chars       []domain.Domain
	length      domain.Domain
}

// NewConcat returns left ++ right. Its character array is as long as both
// operands' arrays together. At position i the character is either left's
// character i or, when left has length k ≤ i, right's character i-k.
func NewConcat(left, right StringExpr) *Concat {
	lc, rc := left.Chars(), right.Chars()
	ll, rl := left.Length(), right.Length()
	length := domain.Bound(ll.Low()+rl.Low(), ll.High()+rl.High())

	chars := make([]domain.Domain, len(lc)+len(rc))
	for i := range chars {
		if i < ll.Low() {
			chars[i] = lc[i]
			continue
		}
		var d domain.Domain
		if i < len(lc) {
			d = lc[i]
		}
		for k := range ll.All() {
			if k > i {
				break
			}
			if j := i - k; j < len(rc) {
				d = d.Union(rc[j])
			} else {
				d = d.Insert(0)
			}
		}
		if i >= length.Low() {
			d = d.Insert(0)
		}
		chars[i] = d
	}
	return &Concat{left: left, right: right, chars: chars, length: length}
}

func (c *Concat) Left() StringExpr      { return c.left }
func (c *Concat) Right() StringExpr     { return c.right }
func (c *Concat) Length() domain.Domain { return c.length }
func (c *Concat) String() string        { return c.left.String() + " ++ " + c.right.String() }
func (*Concat) expr()                   {}
func (*Concat) stringExpr()             {}

// Chars returns the character domains.
func (c *Concat) Chars() []domain.Domain {
	return append([]domain.Domain(nil), c.chars...)
}
