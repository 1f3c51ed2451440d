package analysis

import (
	"strings"

	"github.com/gitrdm/gokanir/pkg/domain"
	"github.com/gitrdm/gokanir/pkg/ir"
)

type mask uint8

const (
	envMask mask = 1 << iota
	kerMask
	cardMask
)

// partialSet is what is known about a set expression from one inference
// step. A field is meaningful only when its bit is in has. After against,
// mask holds the fields that actually tighten the target.
type partialSet struct {
	env, ker, card domain.Domain
	has, mask      mask
}

func newPartialSet(env, ker, card *domain.Domain) partialSet {
	var p partialSet
	if env != nil {
		p.env, p.has = *env, p.has|envMask
	}
	if ker != nil {
		p.ker, p.has = *ker, p.has|kerMask
	}
	if card != nil {
		p.card, p.has = *card, p.has|cardMask
	}
	return p
}

func envOf(d domain.Domain) partialSet  { return partialSet{env: d, has: envMask} }
func kerOf(d domain.Domain) partialSet  { return partialSet{ker: d, has: kerMask} }
func cardOf(d domain.Domain) partialSet { return partialSet{card: d, has: cardMask} }

// against returns a copy of p whose mask holds the fields that narrow s:
// an envelope that excludes a possible member, a kernel that adds a
// certain member, or a cardinality that excludes a possible size.
func (p partialSet) against(s ir.SetExpr) partialSet {
	p.mask = 0
	if p.has&envMask != 0 && !s.Env().IsSubsetOf(p.env) {
		p.mask |= envMask
	}
	if p.has&kerMask != 0 && !p.ker.IsSubsetOf(s.Ker()) {
		p.mask |= kerMask
	}
	if p.has&cardMask != 0 && !s.Card().IsSubsetOf(p.card) {
		p.mask |= cardMask
	}
	return p
}

func (p partialSet) isEnv() bool  { return p.mask&envMask != 0 }
func (p partialSet) isKer() bool  { return p.mask&kerMask != 0 }
func (p partialSet) isCard() bool { return p.mask&cardMask != 0 }

// envOr returns the envelope when present, for building derived partials.
func (p partialSet) envOr() *domain.Domain {
	if p.has&envMask == 0 {
		return nil
	}
	return &p.env
}

func (p partialSet) String() string {
	var parts []string
	if p.has&envMask != 0 {
		parts = append(parts, "env="+p.env.String())
	}
	if p.has&kerMask != 0 {
		parts = append(parts, "ker="+p.ker.String())
	}
	if p.has&cardMask != 0 {
		parts = append(parts, "card="+p.card.String())
	}
	return strings.Join(parts, " ")
}
