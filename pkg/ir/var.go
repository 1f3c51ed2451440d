package ir

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gitrdm/gokanir/pkg/domain"
)

// MaxChar is the largest character code a string position may hold.
// Character code 0 is the terminator that pads a string past its length.
const MaxChar = 65535

// Construction errors. A malformed variable is a compiler defect upstream of
// the analysis, so these are never recovered locally.
var (
	ErrIllegalInt    = errors.New("ir: illegal int variable")
	ErrIllegalSet    = errors.New("ir: illegal set variable")
	ErrIllegalString = errors.New("ir: illegal string variable")
)

// Var is a variable of any sort.
type Var interface {
	Expr
	// Name returns the user-visible name. Temporaries are named "tempN".
	Name() string
	// IsTemp reports whether the variable was synthesized by an analysis.
	IsTemp() bool
	// IsConstant reports whether the variable is a literal constant.
	IsConstant() bool
}

// IntVar is an integer variable. Boolean variables are IntVars whose domain
// is a subset of {0, 1}; see BoolVar.
type IntVar struct {
	name     string
	domain   domain.Domain
	temp     bool
	constant bool
}

// NewIntVar creates a named integer variable.
func NewIntVar(name string, d domain.Domain) (*IntVar, error) {
	if d.IsEmpty() {
		return nil, fmt.Errorf("%w: %s has an empty domain", ErrIllegalInt, name)
	}
	return &IntVar{name: name, domain: d}, nil
}

// NewTempIntVar creates a temporary integer variable. The id must be unique
// within the analysis that creates it.
func NewTempIntVar(id int, d domain.Domain) (*IntVar, error) {
	v, err := NewIntVar(tempName(id), d)
	if err != nil {
		return nil, err
	}
	v.temp = true
	return v, nil
}

// Int creates a named integer variable and panics if the domain is empty.
func Int(name string, d domain.Domain) *IntVar {
	v, err := NewIntVar(name, d)
	if err != nil {
		panic(err)
	}
	return v
}

// Constant returns a constant integer. Constants are never listed among a
// module's variables and never renamed by a substitution.
func Constant(value int) *IntVar {
	return &IntVar{name: strconv.Itoa(value), domain: domain.Constant(value), constant: true}
}

// Zero is the shared constant 0, also the string terminator.
var Zero = Constant(0)

func (v *IntVar) Name() string          { return v.name }
func (v *IntVar) Domain() domain.Domain { return v.domain }
func (v *IntVar) IsTemp() bool          { return v.temp }
func (v *IntVar) IsConstant() bool      { return v.constant }

func (v *IntVar) String() string {
	if v.constant {
		return v.name
	}
	return v.name + "∈" + v.domain.String()
}

func (*IntVar) expr()    {}
func (*IntVar) intExpr() {}

// BoolVar is a boolean view of an IntVar whose domain is within {0, 1}.
// It is both an integer and a boolean expression.
type BoolVar struct {
	v *IntVar
}

// NewBoolVar wraps v as a boolean.
func NewBoolVar(v *IntVar) (BoolVar, error) {
	if !v.domain.IsSubsetOf(domain.BoolDomain) {
		return BoolVar{}, fmt.Errorf("%w: %s has non-boolean domain %v", ErrIllegalInt, v.name, v.domain)
	}
	return BoolVar{v: v}, nil
}

// Bool creates a named boolean variable with domain {0, 1}.
func Bool(name string) BoolVar {
	return BoolVar{v: Int(name, domain.BoolDomain)}
}

// AsBool wraps v as a boolean and panics if its domain is not within {0, 1}.
func AsBool(v *IntVar) BoolVar {
	b, err := NewBoolVar(v)
	if err != nil {
		panic(err)
	}
	return b
}

// Boolean constants.
var (
	True  = BoolVar{v: &IntVar{name: "true", domain: domain.TrueDomain, constant: true}}
	False = BoolVar{v: &IntVar{name: "false", domain: domain.FalseDomain, constant: true}}
)

// Var returns the underlying integer variable.
func (b BoolVar) Var() *IntVar          { return b.v }
func (b BoolVar) Name() string          { return b.v.name }
func (b BoolVar) Domain() domain.Domain { return b.v.domain }
func (b BoolVar) IsTemp() bool          { return b.v.temp }
func (b BoolVar) IsConstant() bool      { return b.v.constant }
func (b BoolVar) String() string        { return b.v.String() }
func (BoolVar) expr()                   {}
func (BoolVar) intExpr()                {}
func (BoolVar) boolExpr()               {}

// SetVar is a set-of-integers variable described by an envelope (possible
// members), a kernel (certain members) and a cardinality variable.
type SetVar struct {
	name     string
	env      domain.Domain
	ker      domain.Domain
	card     *IntVar
	temp     bool
	constant bool
}

// NewSetVar creates a named set variable. It requires ker ⊆ env and
// ker.Size() ≤ card.Low(), card.High() ≤ env.Size().
func NewSetVar(name string, env, ker domain.Domain, card *IntVar) (*SetVar, error) {
	if !ker.IsSubsetOf(env) {
		return nil, fmt.Errorf("%w: %s kernel %v is not within envelope %v", ErrIllegalSet, name, ker, env)
	}
	if card.domain.Low() < ker.Size() || card.domain.High() > env.Size() {
		return nil, fmt.Errorf("%w: %s cardinality %v is outside [%d, %d]",
			ErrIllegalSet, name, card.domain, ker.Size(), env.Size())
	}
	return &SetVar{name: name, env: env, ker: ker, card: card}, nil
}

// NewTempSetVar creates a temporary set variable.
func NewTempSetVar(id int, env, ker domain.Domain, card *IntVar) (*SetVar, error) {
	s, err := NewSetVar(tempName(id), env, ker, card)
	if err != nil {
		return nil, err
	}
	s.temp = true
	return s, nil
}

// Set creates a named set variable whose cardinality variable, named
// "|name|", ranges over [ker.Size(), env.Size()]. Panics on malformed input.
func Set(name string, env, ker domain.Domain) *SetVar {
	s, err := NewSetVar(name, env, ker, Int("|"+name+"|", domain.Bound(ker.Size(), env.Size())))
	if err != nil {
		panic(err)
	}
	return s
}

// SetWithCard is Set with an explicit cardinality domain.
func SetWithCard(name string, env, ker, card domain.Domain) *SetVar {
	s, err := NewSetVar(name, env, ker, Int("|"+name+"|", card))
	if err != nil {
		panic(err)
	}
	return s
}

// ConstantSet returns the constant set {values...}.
func ConstantSet(values ...int) *SetVar {
	d := domain.Enum(values...)
	return &SetVar{name: d.String(), env: d, ker: d, card: Constant(d.Size()), constant: true}
}

func (s *SetVar) Name() string        { return s.name }
func (s *SetVar) Env() domain.Domain  { return s.env }
func (s *SetVar) Ker() domain.Domain  { return s.ker }
func (s *SetVar) Card() domain.Domain { return s.card.domain }
func (s *SetVar) CardVar() *IntVar    { return s.card }
func (s *SetVar) IsTemp() bool        { return s.temp }
func (s *SetVar) IsConstant() bool    { return s.constant }
func (*SetVar) expr()                 {}
func (*SetVar) setExpr()              {}

func (s *SetVar) String() string {
	if s.constant {
		return s.name
	}
	return fmt.Sprintf("%s{env=%v ker=%v card=%v}", s.name, s.env, s.ker, s.card.domain)
}

// StringVar is a bounded-length string: a fixed array of character variables
// and a length variable. Positions at or past the length hold the terminator.
type StringVar struct {
	name     string
	chars    []*IntVar
	length   *IntVar
	temp     bool
	constant bool
}

// NewStringVar creates a named string variable, checking the terminator
// padding invariants.
func NewStringVar(name string, chars []*IntVar, length *IntVar) (*StringVar, error) {
	domains := make([]domain.Domain, len(chars))
	for i, c := range chars {
		domains[i] = c.domain
	}
	if err := checkString(domains, length.domain); err != nil {
		return nil, fmt.Errorf("%w: %s %v", ErrIllegalString, name, err)
	}
	return &StringVar{name: name, chars: chars, length: length}, nil
}

// NewTempStringVar creates a temporary string variable.
func NewTempStringVar(id int, chars []*IntVar, length *IntVar) (*StringVar, error) {
	s, err := NewStringVar(tempName(id), chars, length)
	if err != nil {
		return nil, err
	}
	s.temp = true
	return s, nil
}

// StringOf creates a named string variable of at most maxLength characters.
// Character variables are named "name[i]" and the length variable "|name|".
// Panics on malformed input.
func StringOf(name string, maxLength int, length domain.Domain) *StringVar {
	chars := make([]*IntVar, maxLength)
	for i := range chars {
		d := domain.Bound(0, MaxChar)
		if i < length.Low() {
			d = domain.Bound(1, MaxChar)
		}
		chars[i] = Int(fmt.Sprintf("%s[%d]", name, i), d)
	}
	s, err := NewStringVar(name, chars, Int("|"+name+"|", length))
	if err != nil {
		panic(err)
	}
	return s
}

// ConstantString returns the constant string s.
func ConstantString(s string) *StringVar {
	runes := []rune(s)
	chars := make([]*IntVar, len(runes))
	for i, r := range runes {
		chars[i] = Constant(int(r))
	}
	return &StringVar{name: strconv.Quote(s), chars: chars, length: Constant(len(runes)), constant: true}
}

func (s *StringVar) Name() string       { return s.name }
func (s *StringVar) IsTemp() bool       { return s.temp }
func (s *StringVar) IsConstant() bool   { return s.constant }
func (s *StringVar) LengthVar() *IntVar { return s.length }
func (s *StringVar) Length() domain.Domain {
	return s.length.domain
}

// CharVars returns the character variables. The slice must not be modified.
func (s *StringVar) CharVars() []*IntVar {
	return s.chars
}

// Chars returns the character domains.
func (s *StringVar) Chars() []domain.Domain {
	domains := make([]domain.Domain, len(s.chars))
	for i, c := range s.chars {
		domains[i] = c.domain
	}
	return domains
}

func (*StringVar) expr()       {}
func (*StringVar) stringExpr() {}

func (s *StringVar) String() string {
	if s.constant {
		return s.name
	}
	parts := make([]string, len(s.chars))
	for i, c := range s.chars {
		parts[i] = c.domain.String()
	}
	return fmt.Sprintf("%s[%s len=%v]", s.name, strings.Join(parts, " "), s.length.domain)
}

// checkString validates the string invariants over character and length
// domains.
func checkString(chars []domain.Domain, length domain.Domain) error {
	if length.IsEmpty() {
		return errors.New("has an empty length")
	}
	if length.Low() < 0 || length.High() > len(chars) {
		return fmt.Errorf("length %v is outside [0, %d]", length, len(chars))
	}
	for i, c := range chars {
		if c.IsEmpty() || c.Low() < 0 || c.High() > MaxChar {
			return fmt.Errorf("character %d domain %v is outside [0, %d]", i, c, MaxChar)
		}
		if i < length.Low() && c.IsConstant() && c.Low() == 0 {
			return fmt.Errorf("character %d is the terminator below the minimum length %d", i, length.Low())
		}
		if i >= length.High() && !c.Contains(0) {
			return fmt.Errorf("character %d excludes the terminator past the maximum length %d", i, length.High())
		}
	}
	return nil
}

func tempName(id int) string {
	return "temp" + strconv.Itoa(id)
}
