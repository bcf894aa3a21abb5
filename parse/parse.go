// Package parse parses the textual temporal logic used for workflow
// constraints into ir formulas.
package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signadot/wfsynth/ir"
	"github.com/signadot/wfsynth/token"
)

var (
	ErrEmpty        = errors.New("no formula")
	ErrFreeVariable = errors.New("unbound variable")
	ErrTrailing     = errors.New("trailing input")
)

type parser struct {
	toks []token.Token
	i    int
	end  *token.Pos
	opts *parseOpts
}

// Parse parses exactly one formula.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	ns, err := ParseAll(d, opts...)
	if err != nil {
		return nil, err
	}
	switch len(ns) {
	case 0:
		return nil, ErrEmpty
	case 1:
		return ns[0], nil
	}
	return nil, fmt.Errorf("%w: %d formulas", ErrTrailing, len(ns))
}

// ParseAll parses a sequence of formulas.
func ParseAll(d []byte, opts ...ParseOption) ([]*ir.Node, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	toks, err := token.Tokenize(nil, d)
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks: toks,
		end:  token.NewPosDoc(d).Pos(len(d)),
		opts: pOpts,
	}
	var res []*ir.Node
	for p.i < len(p.toks) {
		n, err := p.iff()
		if err != nil {
			return nil, err
		}
		if !pOpts.allowFree {
			if free := ir.FreeVars(n); len(free) > 0 {
				return nil, fmt.Errorf("%w: ?%s in %s", ErrFreeVariable, strings.Join(free, ", ?"), n)
			}
		}
		res = append(res, n)
	}
	return res, nil
}

func (p *parser) peek() *token.Token {
	if p.i >= len(p.toks) {
		return nil
	}
	return &p.toks[p.i]
}

func (p *parser) pos() *token.Pos {
	if t := p.peek(); t != nil {
		return t.Pos
	}
	return p.end
}

func (p *parser) accept(tt token.TokenType) *token.Token {
	t := p.peek()
	if t == nil || t.Type != tt {
		return nil
	}
	p.i++
	return t
}

func (p *parser) expect(tt token.TokenType, what string) (*token.Token, error) {
	t := p.accept(tt)
	if t == nil {
		return nil, token.ExpectedErr(what, p.pos())
	}
	return t, nil
}

func (p *parser) track(n *ir.Node, pos *token.Pos) *ir.Node {
	if p.opts.positions != nil && pos != nil {
		p.opts.positions[n] = pos
	}
	return n
}

func (p *parser) iff() (*ir.Node, error) {
	pos := p.pos()
	lhs, err := p.implies()
	if err != nil {
		return nil, err
	}
	for p.accept(token.TIff) != nil {
		rhs, err := p.implies()
		if err != nil {
			return nil, err
		}
		lhs = p.track(&ir.Node{Type: ir.IffType, Values: []*ir.Node{lhs, rhs}}, pos)
	}
	return lhs, nil
}

func (p *parser) implies() (*ir.Node, error) {
	pos := p.pos()
	lhs, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.accept(token.TImplies) == nil {
		return lhs, nil
	}
	rhs, err := p.implies()
	if err != nil {
		return nil, err
	}
	return p.track(&ir.Node{Type: ir.ImpliesType, Values: []*ir.Node{lhs, rhs}}, pos), nil
}

func (p *parser) or() (*ir.Node, error) {
	pos := p.pos()
	n, err := p.and()
	if err != nil {
		return nil, err
	}
	vs := []*ir.Node{n}
	for p.accept(token.TOr) != nil {
		n, err := p.and()
		if err != nil {
			return nil, err
		}
		vs = append(vs, n)
	}
	if len(vs) == 1 {
		return vs[0], nil
	}
	return p.track(&ir.Node{Type: ir.OrType, Values: vs}, pos), nil
}

func (p *parser) and() (*ir.Node, error) {
	pos := p.pos()
	n, err := p.until()
	if err != nil {
		return nil, err
	}
	vs := []*ir.Node{n}
	for p.accept(token.TAnd) != nil {
		n, err := p.until()
		if err != nil {
			return nil, err
		}
		vs = append(vs, n)
	}
	if len(vs) == 1 {
		return vs[0], nil
	}
	return p.track(&ir.Node{Type: ir.AndType, Values: vs}, pos), nil
}

func (p *parser) until() (*ir.Node, error) {
	pos := p.pos()
	lhs, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.accept(token.TUntil) == nil {
		return lhs, nil
	}
	rhs, err := p.until()
	if err != nil {
		return nil, err
	}
	return p.track(ir.Until(lhs, rhs), pos), nil
}

func (p *parser) unary() (*ir.Node, error) {
	t := p.peek()
	if t == nil {
		return nil, token.ExpectedErr("formula", p.end)
	}
	switch t.Type {
	case token.TNot, token.TGlobally, token.TFinally, token.TNext:
		p.i++
		sub, err := p.unary()
		if err != nil {
			return nil, err
		}
		var n *ir.Node
		switch t.Type {
		case token.TNot:
			n = &ir.Node{Type: ir.NotType, Values: []*ir.Node{sub}}
		case token.TGlobally:
			n = ir.Globally(sub)
		case token.TFinally:
			n = ir.Finally(sub)
		default:
			n = ir.Next(sub)
		}
		return p.track(n, t.Pos), nil
	case token.TExists, token.TForall:
		p.i++
		v, err := p.expect(token.TVar, "variable")
		if err != nil {
			return nil, err
		}
		sub, err := p.unary()
		if err != nil {
			return nil, err
		}
		if t.Type == token.TExists {
			return p.track(ir.Exists(v.String(), sub), t.Pos), nil
		}
		return p.track(ir.Forall(v.String(), sub), t.Pos), nil
	case token.TLAngle:
		return p.modal()
	}
	return p.primary()
}

func (p *parser) modal() (*ir.Node, error) {
	start := p.accept(token.TLAngle)
	id, err := p.expect(token.TQuoted, "quoted operation id")
	if err != nil {
		return nil, err
	}
	var ins, outs []string
	if p.accept(token.TLParen) != nil {
		ins, err = p.varList(token.TSemi)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TSemi, "';'"); err != nil {
			return nil, err
		}
		outs, err = p.varList(token.TRParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TRParen, "')'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.TRAngle, "'>'"); err != nil {
		return nil, err
	}
	sub, err := p.unary()
	if err != nil {
		return nil, err
	}
	return p.track(ir.Tool(id.String(), ins, outs, sub), start.Pos), nil
}

// varList reads comma separated variables up to, not including, stop.
func (p *parser) varList(stop token.TokenType) ([]string, error) {
	var res []string
	if t := p.peek(); t != nil && t.Type == stop {
		return nil, nil
	}
	for {
		v, err := p.expect(token.TVar, "variable")
		if err != nil {
			return nil, err
		}
		res = append(res, v.String())
		if p.accept(token.TComma) == nil {
			return res, nil
		}
	}
}

func (p *parser) pair() (string, string, error) {
	if _, err := p.expect(token.TLParen, "'('"); err != nil {
		return "", "", err
	}
	vs, err := p.varList(token.TRParen)
	if err != nil {
		return "", "", err
	}
	if len(vs) != 2 {
		return "", "", token.ExpectedErr("two variables", p.pos())
	}
	if _, err := p.expect(token.TRParen, "')'"); err != nil {
		return "", "", err
	}
	return vs[0], vs[1], nil
}

func (p *parser) primary() (*ir.Node, error) {
	t := p.peek()
	p.i++
	switch t.Type {
	case token.TTrue:
		return ir.True(), nil
	case token.TFalse:
		return ir.False(), nil
	case token.TLParen:
		n, err := p.iff()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TRParen, "')'"); err != nil {
			return nil, err
		}
		return n, nil
	case token.TQuoted:
		if p.accept(token.TLParen) == nil {
			return p.track(ir.Module(t.String()), t.Pos), nil
		}
		v, err := p.expect(token.TVar, "variable")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.TRParen, "')'"); err != nil {
			return nil, err
		}
		return p.track(ir.Pred(t.String(), v.String()), t.Pos), nil
	case token.TEq, token.TIdent:
		x, y, err := p.pair()
		if err != nil {
			return nil, err
		}
		return p.track(ir.Rel(t.String(), x, y), t.Pos), nil
	}
	return nil, token.UnexpectedErr(fmt.Sprintf("%s %q", t.Type, t.Bytes), t.Pos)
}
