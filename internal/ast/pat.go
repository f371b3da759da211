package ast

import "disjoint/internal/source"

type PatKind uint8

const (
	PatIdent PatKind = iota // x, mut x
	PatWild                 // _
	PatTuple                // (a, b)
	PatRef                  // &x
)

type Pat struct {
	Kind  PatKind
	Span  source.Span
	Name  string
	Mut   bool
	Elems []PatID // PatTuple elements, or the single PatRef operand
}

type Pats struct {
	Arena *Arena[Pat]
}

func NewPats(capHint uint) *Pats {
	return &Pats{Arena: NewArena[Pat](capHint)}
}

func (p *Pats) New(pat Pat) PatID {
	return PatID(p.Arena.Allocate(pat))
}

func (p *Pats) Get(id PatID) *Pat {
	return p.Arena.Get(uint32(id))
}

// Bindings lists identifier patterns of id in left-to-right order.
func (p *Pats) Bindings(id PatID) []*Pat {
	var out []*Pat
	var walk func(PatID)
	walk = func(id PatID) {
		pat := p.Get(id)
		if pat == nil {
			return
		}
		switch pat.Kind {
		case PatIdent:
			out = append(out, pat)
		case PatTuple, PatRef:
			for _, e := range pat.Elems {
				walk(e)
			}
		}
	}
	walk(id)
	return out
}
