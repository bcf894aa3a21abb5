package encoder

import "github.com/signadot/wfsynth/ir"

func hasQuantifier(n *ir.Node) bool {
	found := false
	ir.Walk(n, func(c *ir.Node) bool {
		if c.Type == ir.ExistsType || c.Type == ir.ForallType {
			found = true
		}
		return !found
	})
	return found
}

// pushNegations returns a formula equivalent to n, or to !n when neg is set,
// in which no quantifier occurs under a negation or on the left of an
// implication. Subformulas without quantifiers are returned as they are.
func pushNegations(n *ir.Node, neg bool) *ir.Node {
	if !hasQuantifier(n) {
		if neg {
			return ir.Not(n)
		}
		return n
	}
	switch n.Type {
	case ir.NotType:
		return pushNegations(n.Values[0], !neg)
	case ir.AndType, ir.OrType:
		vs := make([]*ir.Node, len(n.Values))
		for i, c := range n.Values {
			vs[i] = pushNegations(c, neg)
		}
		if (n.Type == ir.AndType) != neg {
			return ir.And(vs...)
		}
		return ir.Or(vs...)
	case ir.ImpliesType:
		x, y := n.Values[0], n.Values[1]
		if neg {
			return ir.And(pushNegations(x, false), pushNegations(y, true))
		}
		return ir.Or(pushNegations(x, true), pushNegations(y, false))
	case ir.IffType:
		x, y := n.Values[0], n.Values[1]
		return ir.Or(
			ir.And(pushNegations(x, false), pushNegations(y, neg)),
			ir.And(pushNegations(x, true), pushNegations(y, !neg)))
	case ir.NextType:
		x := pushNegations(n.Values[0], neg)
		if neg {
			// X is strong, so !X f also holds at the last point.
			return ir.Or(ir.Not(ir.Next(ir.True())), ir.Next(x))
		}
		return ir.Next(x)
	case ir.GloballyType, ir.FinallyType:
		x := pushNegations(n.Values[0], neg)
		if (n.Type == ir.GloballyType) != neg {
			return ir.Globally(x)
		}
		return ir.Finally(x)
	case ir.UntilType:
		if !neg {
			return ir.Until(pushNegations(n.Values[0], false), pushNegations(n.Values[1], false))
		}
		// !(a U b) is G !b | (!b U (!a & !b)).
		na, nb := pushNegations(n.Values[0], true), pushNegations(n.Values[1], true)
		return ir.Or(ir.Globally(nb), ir.Until(nb, ir.And(na, nb)))
	case ir.ExistsType, ir.ForallType:
		body := pushNegations(n.Values[0], neg)
		if (n.Type == ir.ExistsType) != neg {
			return ir.Exists(n.Name, body)
		}
		return ir.Forall(n.Name, body)
	case ir.ToolType:
		body := pushNegations(n.Values[0], neg)
		if !neg {
			return ir.Tool(n.Name, n.Args, n.Outs, body)
		}
		// !<T>f is !<T>true | <T>!f.
		return ir.Or(
			ir.Not(ir.Tool(n.Name, n.Args, n.Outs, ir.True())),
			ir.Tool(n.Name, n.Args, n.Outs, body))
	}
	if neg {
		return ir.Not(n)
	}
	return n
}
