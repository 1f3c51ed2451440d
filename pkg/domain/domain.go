// Package domain provides the exact finite integer sets used by the IR to
// describe the values a variable or expression can statically take.
//
// A Domain has two internal representations:
//
//   - bounded: every integer in [low, high] is a member
//   - enumerated: members are stored explicitly as a sorted, duplicate-free slice
//
// Enumerations that turn out to be contiguous are collapsed into the bounded
// form, so every set has exactly one representation and Equal can compare
// structurally. The zero value is the empty domain.
//
// Domains are immutable. Every operation returns a new value (or the receiver
// when nothing changes), which makes them safe to share between expression
// trees and between goroutines analysing independent modules.
package domain

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	set "github.com/hashicorp/go-set/v3"
)

// Domain is an immutable finite set of integers.
type Domain struct {
	bounded bool
	low     int
	high    int
	values  []int // sorted and unique; nil when bounded or empty
}

// Commonly used boolean domains. Booleans are encoded as 0 (false) and 1 (true).
var (
	FalseDomain = Constant(0)
	TrueDomain  = Constant(1)
	BoolDomain  = Bound(0, 1)
)

// Empty returns the empty domain. An empty domain is a valid value meaning
// "no consistent assignment"; it propagates rather than panicking.
func Empty() Domain {
	return Domain{}
}

// Bound returns the contiguous domain [low, high].
// Panics if low > high: asking for an inverted range is a caller bug.
func Bound(low, high int) Domain {
	if low > high {
		panic(fmt.Sprintf("domain: invalid bounds [%d, %d]", low, high))
	}
	return Domain{bounded: true, low: low, high: high}
}

// boundOrEmpty is Bound without the inverted-range check. Used by the
// narrowing operations where an inverted range is a legitimate empty result.
func boundOrEmpty(low, high int) Domain {
	if low > high {
		return Domain{}
	}
	return Domain{bounded: true, low: low, high: high}
}

// Constant returns the singleton domain {value}.
func Constant(value int) Domain {
	return Domain{bounded: true, low: value, high: value}
}

// Enum returns the domain containing exactly the given values.
// Duplicates are ignored and order is irrelevant.
func Enum(values ...int) Domain {
	if len(values) == 0 {
		return Domain{}
	}
	sorted := set.TreeSetFrom(values, cmp.Compare[int]).Slice()
	return fromSorted(sorted)
}

// fromSorted builds a domain from a sorted, duplicate-free slice, choosing the
// bounded representation when the values are contiguous. It takes ownership
// of the slice.
func fromSorted(values []int) Domain {
	if len(values) == 0 {
		return Domain{}
	}
	low, high := values[0], values[len(values)-1]
	if high-low+1 == len(values) {
		return Domain{bounded: true, low: low, high: high}
	}
	return Domain{low: low, high: high, values: values}
}

// IsEmpty reports whether the domain has no members.
func (d Domain) IsEmpty() bool {
	return !d.bounded && len(d.values) == 0
}

// Size returns the number of members.
func (d Domain) Size() int {
	if d.bounded {
		return d.high - d.low + 1
	}
	return len(d.values)
}

// Low returns the smallest member, or 0 if the domain is empty.
func (d Domain) Low() int {
	return d.low
}

// High returns the largest member, or 0 if the domain is empty.
func (d Domain) High() int {
	return d.high
}

// IsBounded reports whether the domain uses the contiguous representation.
func (d Domain) IsBounded() bool {
	return d.bounded
}

// IsConstant reports whether the domain has exactly one member.
func (d Domain) IsConstant() bool {
	return d.Size() == 1
}

// Contains reports whether value is a member.
func (d Domain) Contains(value int) bool {
	if d.bounded {
		return value >= d.low && value <= d.high
	}
	_, found := slices.BinarySearch(d.values, value)
	return found
}

// Values returns the members in ascending order. The slice is a copy.
func (d Domain) Values() []int {
	if d.bounded {
		values := make([]int, 0, d.Size())
		for v := d.low; v <= d.high; v++ {
			values = append(values, v)
		}
		return values
	}
	return slices.Clone(d.values)
}

// All iterates the members in ascending order.
func (d Domain) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		if d.bounded {
			for v := d.low; v <= d.high; v++ {
				if !yield(v) {
					return
				}
			}
			return
		}
		for _, v := range d.values {
			if !yield(v) {
				return
			}
		}
	}
}

// Equal reports set equality. Representations are canonical, so this is a
// structural comparison.
func (d Domain) Equal(other Domain) bool {
	if d.bounded != other.bounded {
		return false
	}
	if d.bounded {
		return d.low == other.low && d.high == other.high
	}
	return slices.Equal(d.values, other.values)
}

// IsSubsetOf reports whether every member of d is a member of sup.
// Bound checks are tried first; the membership scan only runs when one side
// is enumerated.
func (d Domain) IsSubsetOf(sup Domain) bool {
	if d.IsEmpty() {
		return true
	}
	if d.Size() > sup.Size() {
		return false
	}
	if d.low < sup.low || d.high > sup.high {
		return false
	}
	if sup.bounded {
		// Bounds are already checked.
		return true
	}
	for v := range d.All() {
		if !sup.Contains(v) {
			return false
		}
	}
	return true
}

// Intersects reports whether d and other share at least one member.
func (d Domain) Intersects(other Domain) bool {
	if d.IsEmpty() || other.IsEmpty() {
		return false
	}
	if d.low > other.high || d.high < other.low {
		return false
	}
	if d.bounded && other.bounded {
		return true
	}
	small, large := d, other
	if small.Size() > large.Size() {
		small, large = large, small
	}
	for v := range small.All() {
		if large.Contains(v) {
			return true
		}
	}
	return false
}

// Union returns d ∪ other.
func (d Domain) Union(other Domain) Domain {
	if other.IsSubsetOf(d) {
		return d
	}
	if d.IsSubsetOf(other) {
		return other
	}
	if d.bounded && other.bounded {
		// Overlapping or adjacent ranges stay bounded.
		if d.low <= other.high+1 && other.low <= d.high+1 {
			return Bound(min(d.low, other.low), max(d.high, other.high))
		}
	}
	merged := make([]int, 0, d.Size()+other.Size())
	next, stop := iter.Pull(other.All())
	defer stop()
	o, ok := next()
	for v := range d.All() {
		for ok && o < v {
			merged = append(merged, o)
			o, ok = next()
		}
		if ok && o == v {
			o, ok = next()
		}
		merged = append(merged, v)
	}
	for ok {
		merged = append(merged, o)
		o, ok = next()
	}
	return fromSorted(merged)
}

// Intersection returns d ∩ other.
func (d Domain) Intersection(other Domain) Domain {
	if d.IsEmpty() || other.IsEmpty() {
		return Domain{}
	}
	if d.bounded && other.bounded {
		return boundOrEmpty(max(d.low, other.low), min(d.high, other.high))
	}
	if d.IsSubsetOf(other) {
		return d
	}
	if other.IsSubsetOf(d) {
		return other
	}
	small, large := d, other
	if small.Size() > large.Size() {
		small, large = large, small
	}
	return small.RetainAll(large.Contains)
}

// Difference returns d \ other.
func (d Domain) Difference(other Domain) Domain {
	if !d.Intersects(other) {
		return d
	}
	if d.bounded && other.bounded {
		switch {
		case other.low <= d.low && other.high >= d.high:
			return Domain{}
		case other.low <= d.low:
			return Bound(other.high+1, d.high)
		case other.high >= d.high:
			return Bound(d.low, other.low-1)
		}
	}
	return d.RemoveAll(other.Contains)
}

// Offset shifts every member by k. The representation is preserved.
func (d Domain) Offset(k int) Domain {
	if k == 0 || d.IsEmpty() {
		return d
	}
	if d.bounded {
		return Bound(d.low+k, d.high+k)
	}
	values := make([]int, len(d.values))
	for i, v := range d.values {
		values[i] = v + k
	}
	return Domain{low: d.low + k, high: d.high + k, values: values}
}

// Minus returns {-v | v ∈ d}.
func (d Domain) Minus() Domain {
	if d.IsEmpty() {
		return d
	}
	if d.bounded {
		return Bound(-d.high, -d.low)
	}
	values := make([]int, len(d.values))
	for i, v := range d.values {
		values[len(values)-1-i] = -v
	}
	return Domain{low: -d.high, high: -d.low, values: values}
}

// RetainAll returns the members for which keep returns true.
func (d Domain) RetainAll(keep func(int) bool) Domain {
	var values []int
	changed := false
	for v := range d.All() {
		if keep(v) {
			values = append(values, v)
		} else {
			changed = true
		}
	}
	if !changed {
		return d
	}
	return fromSorted(values)
}

// RemoveAll returns the members for which drop returns false.
func (d Domain) RemoveAll(drop func(int) bool) Domain {
	return d.RetainAll(func(v int) bool { return !drop(v) })
}

// BoundLow removes every member below low.
func (d Domain) BoundLow(low int) Domain {
	if d.IsEmpty() || low <= d.low {
		return d
	}
	if d.bounded {
		return boundOrEmpty(low, d.high)
	}
	i, _ := slices.BinarySearch(d.values, low)
	return fromSorted(slices.Clone(d.values[i:]))
}

// BoundHigh removes every member above high.
func (d Domain) BoundHigh(high int) Domain {
	if d.IsEmpty() || high >= d.high {
		return d
	}
	if d.bounded {
		return boundOrEmpty(d.low, high)
	}
	i, found := slices.BinarySearch(d.values, high)
	if found {
		i++
	}
	return fromSorted(slices.Clone(d.values[:i]))
}

// BoundBetween removes every member outside [low, high].
func (d Domain) BoundBetween(low, high int) Domain {
	return d.BoundLow(low).BoundHigh(high)
}

// Insert returns d ∪ {value}.
func (d Domain) Insert(value int) Domain {
	if d.Contains(value) {
		return d
	}
	if d.IsEmpty() {
		return Constant(value)
	}
	if d.bounded && (value == d.low-1 || value == d.high+1) {
		return Bound(min(d.low, value), max(d.high, value))
	}
	values := d.Values()
	i, _ := slices.BinarySearch(values, value)
	return fromSorted(slices.Insert(values, i, value))
}

// Remove returns d \ {value}.
func (d Domain) Remove(value int) Domain {
	if !d.Contains(value) {
		return d
	}
	if d.bounded {
		switch value {
		case d.low:
			return boundOrEmpty(d.low+1, d.high)
		case d.high:
			return boundOrEmpty(d.low, d.high-1)
		}
	}
	values := d.Values()
	i, _ := slices.BinarySearch(values, value)
	return fromSorted(slices.Delete(values, i, i+1))
}

// String renders the domain as "{}", "{3}", "{1..5}" or "{1,4,9}".
func (d Domain) String() string {
	switch {
	case d.IsEmpty():
		return "{}"
	case d.IsConstant():
		return fmt.Sprintf("{%d}", d.low)
	case d.bounded:
		return fmt.Sprintf("{%d..%d}", d.low, d.high)
	}
	var builder strings.Builder
	builder.WriteString("{")
	for i, v := range d.values {
		if i > 0 {
			builder.WriteString(",")
		}
		fmt.Fprintf(&builder, "%d", v)
	}
	builder.WriteString("}")
	return builder.String()
}

// UnionAll folds Union over ds. Returns the empty domain for no arguments.
func UnionAll(ds ...Domain) Domain {
	var result Domain
	for _, d := range ds {
		result = result.Union(d)
	}
	return result
}

// IntersectionAll folds Intersection over ds. Returns the empty domain for no
// arguments.
func IntersectionAll(ds ...Domain) Domain {
	if len(ds) == 0 {
		return Domain{}
	}
	result := ds[0]
	for _, d := range ds[1:] {
		result = result.Intersection(d)
	}
	return result
}
