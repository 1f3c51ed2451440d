package analysis

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

// Result is a coalesced module and the renaming that produced it.
type Result struct {
	Module *ir.Module

	// Ints, Sets and Strings map every renamed variable of the input to
	// its canonical variable in Module. Variables absent from a map are
	// unchanged.
	Ints    map[*ir.IntVar]*ir.IntVar
	Sets    map[*ir.SetVar]*ir.SetVar
	Strings map[*ir.StringVar]*ir.StringVar

	Stats Stats
}

// Substitution returns the renaming as a substitution.
func (r *Result) Substitution() *ir.Substitution {
	return &ir.Substitution{Ints: r.Ints, Sets: r.Sets, Strings: r.Strings}
}

// Coalescer merges variables that every solution forces equal. A Coalescer
// holds no state between calls and is safe for concurrent use.
type Coalescer struct {
	cfg Config
	log *slog.Logger
}

// New returns a Coalescer for cfg.
func New(cfg Config) *Coalescer {
	return &Coalescer{cfg: cfg, log: cfg.logger()}
}

// Coalesce coalesces m with the default configuration.
func Coalesce(m *ir.Module) (*Result, error) {
	return New(DefaultConfig()).Coalesce(m)
}

// Coalesce finds the variables of m that are forced equal, merges every
// such class into one canonical variable and rewrites m over the canonical
// variables. It returns an error matching ErrUnsatisfiable when the
// constraints admit no solution; no partial result is returned then.
func (c *Coalescer) Coalesce(m *ir.Module) (res *Result, err error) {
	start := time.Now()
	p := newPass(c.log)
	var current ir.BoolExpr
	defer func() {
		if err != nil {
			c.log.Info("unsatisfiable", "error", err)
		}
	}()
	defer catch(&err, &current)

	p.findEquivalences(m.Constraints(), &current)
	res = p.merge(m)
	res.Stats.Duration = time.Since(start)
	c.log.Info("coalesced", "stats", res.Stats.String())
	return res, nil
}

// setClass is the merged shape of one set equivalence class.
type setClass struct {
	label    string
	env, ker domain.Domain
}

func stripParens(name string) string {
	if strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")") {
		return name[1 : len(name)-1]
	}
	return name
}

// label joins the names of the members of a class, or "" when none of them
// is named. A single name is kept as is.
func label(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = stripParens(n)
	}
	return "(" + strings.Join(parts, ";") + ")"
}

func named(v ir.Var) bool {
	return !v.IsTemp() && !v.IsConstant()
}

// merge builds the canonical variables from the equivalence classes and
// rewrites m.
func (p *pass) merge(m *ir.Module) *Result {
	var setVars []*ir.SetVar
	var stringVars []*ir.StringVar
	for _, v := range m.Variables() {
		switch v := v.(type) {
		case *ir.SetVar:
			setVars = append(setVars, v)
		case *ir.StringVar:
			stringVars = append(stringVars, v)
			p.normalizeString(v)
		}
	}

	for _, component := range p.strings.Components() {
		if len(component) < 2 {
			continue
		}
		p.stats.StringClasses++
		first := component[0]
		for _, s := range component[1:] {
			p.unionInt(first.LengthVar(), s.LengthVar())
			a, b := first.CharVars(), s.CharVars()
			for i := range max(len(a), len(b)) {
				switch {
				case i < len(a) && i < len(b):
					p.unionInt(a[i], b[i])
				case i < len(a):
					p.unionInt(a[i], ir.Zero)
				default:
					p.unionInt(b[i], ir.Zero)
				}
			}
		}
	}

	classes := make(map[*ir.SetVar]*setClass)
	for _, component := range p.sets.Components() {
		if len(component) < 2 {
			continue
		}
		p.stats.SetClasses++
		first := component[0]
		env, ker := first.Env(), first.Ker()
		var names []string
		for i, s := range component {
			if named(s) {
				names = append(names, s.Name())
			}
			if i > 0 {
				env = env.Intersection(s.Env())
				ker = ker.Union(s.Ker())
				p.unionInt(first.CardVar(), s.CardVar())
			}
		}
		failIf(!ker.IsSubsetOf(env), "set class %s must contain %v within %v", label(names), ker, env)
		p.unionInt(first.CardVar(), p.tbound(ker.Size(), env.Size()))
		cls := &setClass{label: label(names), env: env, ker: ker}
		for _, s := range component {
			if named(s) {
				classes[s] = cls
			}
		}
	}

	ints := make(map[*ir.IntVar]*ir.IntVar)
	intCache := make(map[string]*ir.IntVar)
	for _, component := range p.ints.Components() {
		if len(component) < 2 {
			continue
		}
		p.stats.IntClasses++
		var names []string
		d := component[0].Domain()
		for _, v := range component {
			if named(v) {
				names = append(names, v.Name())
			}
			d = d.Intersection(v.Domain())
		}
		failIf(d.IsEmpty(), "no common value for %s", label(names))
		k := label(names) + " " + d.String()
		canonical, ok := intCache[k]
		if !ok {
			var err error
			canonical, err = ir.NewIntVar(label(names), d)
			if err != nil {
				fail("%v", err)
			}
			intCache[k] = canonical
		}
		p.log.Debug("merged int class", "name", canonical.Name(), "domain", d, "size", len(component))
		for _, v := range component {
			if named(v) && (len(names) > 1 || !v.Domain().Equal(d)) {
				ints[v] = canonical
			}
		}
	}

	sets := make(map[*ir.SetVar]*ir.SetVar)
	cache := make(map[*setClass]*ir.SetVar)
	for _, s := range setVars {
		cls := classes[s]
		if cached, ok := cache[cls]; ok && cls != nil {
			sets[s] = cached
			continue
		}
		card, cardChanged := ints[s.CardVar()]
		if cls == nil && !cardChanged {
			continue
		}
		name, env, ker := s.Name(), s.Env(), s.Ker()
		if cls != nil {
			name, env, ker = cls.label, cls.env, cls.ker
		}
		if !cardChanged {
			card = s.CardVar()
		}
		canonical, err := ir.NewSetVar(name, env, ker, card)
		if err != nil {
			fail("%v", err)
		}
		if cls != nil {
			cache[cls] = canonical
		}
		sets[s] = canonical
	}

	stringsMap := make(map[*ir.StringVar]*ir.StringVar)
	stringCache := make(map[string]*ir.StringVar)
	ids := make(map[*ir.IntVar]int)
	key := func(vars []*ir.IntVar) string {
		var b strings.Builder
		for _, v := range vars {
			id, ok := ids[v]
			if !ok {
				id = len(ids)
				ids[v] = id
			}
			b.WriteString(strconv.Itoa(id))
			b.WriteByte(',')
		}
		return b.String()
	}
	for _, s := range stringVars {
		changed := false
		chars := make([]*ir.IntVar, len(s.CharVars()))
		for i, c := range s.CharVars() {
			chars[i] = c
			if r, ok := ints[c]; ok {
				chars[i] = r
				changed = true
			}
		}
		length := s.LengthVar()
		if r, ok := ints[length]; ok {
			length = r
			changed = true
		}
		if !changed {
			continue
		}
		k := key(append(slices.Clone(chars), length))
		canonical, ok := stringCache[k]
		if !ok {
			var err error
			canonical, err = ir.NewStringVar(s.Name(), chars, length)
			if err != nil {
				fail("%v", err)
			}
			stringCache[k] = canonical
		}
		stringsMap[s] = canonical
	}

	sub := &ir.Substitution{Ints: ints, Sets: sets, Strings: stringsMap}
	res := &Result{
		Module:  sub.Apply(m),
		Ints:    ints,
		Sets:    sets,
		Strings: stringsMap,
		Stats:   p.stats,
	}
	res.Stats.RenamedInts = len(ints)
	res.Stats.RenamedSets = len(sets)
	res.Stats.RenamedStrings = len(stringsMap)
	return res
}

// normalizeString pins the characters of s that its length already
// decides: characters below the minimum length are not the terminator and
// characters at or past the maximum length are.
func (p *pass) normalizeString(s *ir.StringVar) {
	chars, length := s.CharVars(), s.Length()
	for i := 0; i < length.Low(); i++ {
		if d := chars[i].Domain(); d.Contains(0) {
			p.unionInt(chars[i], p.tint(d.Remove(0)))
		}
	}
	for i := length.High(); i < len(chars); i++ {
		p.unionInt(chars[i], ir.Zero)
	}
}
