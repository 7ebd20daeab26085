package atlf

import (
	"fmt"

	"github.com/edgsolve/atlcheck/pkg/cgs"
)

// Parse parses the textual ATL syntax described in spec §6:
// ⟨c1,c2⟩ F φ, [c1,c2] G φ, with &, |, !, parentheses, and U for until.
//
// Grammar (recursive descent, grounded on the lexer/parser pairing the
// teacher uses for its small DSLs, e.g. examples/lex-demo):
//
//	formula  := orExpr
//	orExpr   := andExpr ('|' andExpr)*
//	andExpr  := unary ('&' unary)*
//	unary    := '!' unary | atom
//	atom     := 'true' | 'false' | IDENT | '(' formula ')' | coalitionOp
//	coalitionOp := ('⟨' players '⟩' | '[' players ']') pathOp
//	pathOp   := ('X'|'F'|'G') unary | '(' formula 'U' formula ')'
//	players  := NUMBER (',' NUMBER)*
func Parse(src string) (Formula, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	f, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("atlf: unexpected trailing input at token %d (%s)", p.pos, p.peek().kind)
	}
	return f, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k tokenKind) (token, error) {
	t := p.peek()
	if t.kind != k {
		return token{}, fmt.Errorf("atlf: expected %s, got %s at token %d", k, t.kind, p.pos)
	}
	return p.advance(), nil
}

func (p *parser) parseOr() (Formula, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokPipe {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or(left, right)
	}
	return left, nil
}

func (p *parser) parseAnd() (Formula, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAmp {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = And(left, right)
	}
	return left, nil
}

func (p *parser) parseUnary() (Formula, error) {
	if p.peek().kind == tokBang {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Formula, error) {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		switch t.text {
		case "true":
			p.advance()
			return True, nil
		case "false":
			p.advance()
			return False, nil
		}
		p.advance()
		return Prop(t.text), nil
	case tokLParen:
		p.advance()
		// Could be a parenthesised sub-formula, or "a U b" for a
		// standalone Until inside a coalition operator's pathOp — but the
		// grammar only reaches '(' ... 'U' ... ')' via parsePathOp, so a
		// bare '(' here is always just grouping.
		f, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return f, nil
	case tokLAngle, tokLBracket:
		return p.parseCoalitionOp()
	}
	return nil, fmt.Errorf("atlf: unexpected token %s at position %d", t.kind, p.pos)
}

func (p *parser) parseCoalitionOp() (Formula, error) {
	enforce := p.peek().kind == tokLAngle
	open, close := tokLAngle, tokRAngle
	if !enforce {
		open, close = tokLBracket, tokRBracket
	}
	if _, err := p.expect(open); err != nil {
		return nil, err
	}
	var coalition []cgs.Player
	if p.peek().kind != close {
		for {
			num, err := p.expect(tokNumber)
			if err != nil {
				return nil, err
			}
			coalition = append(coalition, cgs.Player(num.num))
			if p.peek().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return p.parsePathOp(coalition, enforce)
}

func (p *parser) parsePathOp(coalition []cgs.Player, enforce bool) (Formula, error) {
	t := p.peek()
	if t.kind == tokLParen {
		// ( a U b )
		p.advance()
		a, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		uTok, err := p.expect(tokIdent)
		if err != nil || uTok.text != "U" {
			return nil, fmt.Errorf("atlf: expected 'U' inside until formula at token %d", p.pos)
		}
		b, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if enforce {
			return EnforceUntilF(coalition, a, b), nil
		}
		return DespiteUntilF(coalition, a, b), nil
	}
	if t.kind != tokIdent {
		return nil, fmt.Errorf("atlf: expected X, F, G, or '(' after coalition, got %s", t.kind)
	}
	switch t.text {
	case "X":
		p.advance()
		psi, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if enforce {
			return EnforceNextF(coalition, psi), nil
		}
		return DespiteNextF(coalition, psi), nil
	case "F":
		p.advance()
		psi, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if enforce {
			return EnforceEventuallyF(coalition, psi), nil
		}
		return DespiteEventuallyF(coalition, psi), nil
	case "G":
		p.advance()
		psi, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if enforce {
			return EnforceInvariantF(coalition, psi), nil
		}
		return DespiteInvariantF(coalition, psi), nil
	}
	return nil, fmt.Errorf("atlf: unknown path operator %q", t.text)
}
