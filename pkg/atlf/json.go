package atlf

import (
	"encoding/json"
	"fmt"

	"github.com/edgsolve/atlcheck/pkg/cgs"
)

// jsonNode is the on-disk shape for a Formula: a tagged union keyed by Op,
// using the operator names given in spec §6.
type jsonNode struct {
	Op        string     `json:"op"`
	Name      string     `json:"name,omitempty"`
	Coalition []int      `json:"coalition,omitempty"`
	Formula   *jsonNode  `json:"formula,omitempty"`
	Pre       *jsonNode  `json:"pre,omitempty"`
	Left      *jsonNode  `json:"left,omitempty"`
	Right     *jsonNode  `json:"right,omitempty"`
}

// MarshalJSON encodes f using the tag vocabulary from spec §6.
func MarshalJSON(f Formula) ([]byte, error) {
	node, err := toNode(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node)
}

// UnmarshalJSON decodes a formula previously produced by MarshalJSON.
func UnmarshalJSON(data []byte) (Formula, error) {
	var node jsonNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("atlf: unmarshal formula: %w", err)
	}
	return fromNode(&node)
}

func toNode(f Formula) (*jsonNode, error) {
	switch v := f.(type) {
	case tru:
		return &jsonNode{Op: "true"}, nil
	case fls:
		return &jsonNode{Op: "false"}, nil
	case prop:
		return &jsonNode{Op: "proposition", Name: v.name}, nil
	case not:
		inner, err := toNode(v.inner)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Op: "not", Formula: inner}, nil
	case or:
		l, err := toNode(v.a)
		if err != nil {
			return nil, err
		}
		r, err := toNode(v.b)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Op: "or", Left: l, Right: r}, nil
	case and:
		l, err := toNode(v.a)
		if err != nil {
			return nil, err
		}
		r, err := toNode(v.b)
		if err != nil {
			return nil, err
		}
		return &jsonNode{Op: "and", Left: l, Right: r}, nil
	case temporal:
		return temporalToNode(v)
	default:
		return nil, fmt.Errorf("atlf: unknown formula type %T", f)
	}
}

func temporalToNode(t temporal) (*jsonNode, error) {
	goal, err := toNode(t.goal)
	if err != nil {
		return nil, err
	}
	node := &jsonNode{Op: kindOp(t.kind), Coalition: playersToInts(t.coalit), Formula: goal}
	if t.pre != nil {
		pre, err := toNode(t.pre)
		if err != nil {
			return nil, err
		}
		node.Pre = pre
	}
	return node, nil
}

func kindOp(k Kind) string {
	switch k {
	case EnforceNext:
		return "enforce next"
	case DespiteNext:
		return "despite next"
	case EnforceUntil:
		return "enforce until"
	case DespiteUntil:
		return "despite until"
	case EnforceEventually:
		return "enforce eventually"
	case DespiteEventually:
		return "despite eventually"
	case EnforceInvariant:
		return "enforce invariant"
	case DespiteInvariant:
		return "despite invariant"
	}
	return "unknown"
}

func playersToInts(ps []cgs.Player) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = int(p)
	}
	return out
}

func intsToPlayers(is []int) []cgs.Player {
	out := make([]cgs.Player, len(is))
	for i, v := range is {
		out[i] = cgs.Player(v)
	}
	return out
}

func fromNode(n *jsonNode) (Formula, error) {
	if n == nil {
		return nil, fmt.Errorf("atlf: nil formula node")
	}
	switch n.Op {
	case "true":
		return True, nil
	case "false":
		return False, nil
	case "proposition":
		if n.Name == "" {
			return nil, fmt.Errorf("atlf: proposition node missing name")
		}
		return Prop(n.Name), nil
	case "not":
		inner, err := fromNode(n.Formula)
		if err != nil {
			return nil, err
		}
		return Not(inner), nil
	case "or":
		l, err := fromNode(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := fromNode(n.Right)
		if err != nil {
			return nil, err
		}
		return Or(l, r), nil
	case "and":
		l, err := fromNode(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := fromNode(n.Right)
		if err != nil {
			return nil, err
		}
		return And(l, r), nil
	case "enforce next", "despite next", "enforce until", "despite until",
		"enforce eventually", "despite eventually", "enforce invariant", "despite invariant":
		return temporalFromNode(n)
	default:
		return nil, fmt.Errorf("atlf: unknown op %q", n.Op)
	}
}

func temporalFromNode(n *jsonNode) (Formula, error) {
	goal, err := fromNode(n.Formula)
	if err != nil {
		return nil, err
	}
	c := intsToPlayers(n.Coalition)
	switch n.Op {
	case "enforce next":
		return EnforceNextF(c, goal), nil
	case "despite next":
		return DespiteNextF(c, goal), nil
	case "enforce eventually":
		return EnforceEventuallyF(c, goal), nil
	case "despite eventually":
		return DespiteEventuallyF(c, goal), nil
	case "enforce invariant":
		return EnforceInvariantF(c, goal), nil
	case "despite invariant":
		return DespiteInvariantF(c, goal), nil
	case "enforce until", "despite until":
		if n.Pre == nil {
			return nil, fmt.Errorf("atlf: until node missing pre")
		}
		pre, err := fromNode(n.Pre)
		if err != nil {
			return nil, err
		}
		if n.Op == "enforce until" {
			return EnforceUntilF(c, pre, goal), nil
		}
		return DespiteUntilF(c, pre, goal), nil
	}
	return nil, fmt.Errorf("atlf: unreachable op %q", n.Op)
}
