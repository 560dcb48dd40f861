package ast

import "encoding/json"

type jsonNode struct {
	Kind     string                 `json:"kind"`
	Pos      *jsonPosition          `json:"pos,omitempty"`
	Value    any                    `json:"value,omitempty"`
	Fields   map[string]string      `json:"fields,omitempty"`
	Children map[string]*jsonNode   `json:"children,omitempty"`
	Lists    map[string][]*jsonNode `json:"lists,omitempty"`
	Items    []*jsonNode            `json:"items,omitempty"`
}

type jsonPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// MarshalJSON encodes the whole program as nested JSON objects.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(toJSON(p))
}

// Marshal encodes any node the same way Program.MarshalJSON does.
func Marshal(n Node) ([]byte, error) {
	return json.Marshal(toJSON(n))
}

// JSON returns a value whose JSON encoding describes n.
func JSON(n Node) any {
	return toJSON(n)
}

func toJSON(n Node) *jsonNode {
	if n == nil {
		return nil
	}
	jn := &jsonNode{Kind: n.Kind().String()}
	if pos := n.Start(); pos.IsValid() {
		jn.Pos = &jsonPosition{Line: pos.Line, Column: pos.Column}
	}

	switch n := n.(type) {
	case *Integer:
		jn.Value = n.Value
	case *Float:
		jn.Value = n.Value
	case *String:
		jn.Value = n.Value
	case *Bool:
		jn.Value = n.Value
	case *VarUse:
		jn.Value = n.Name
	case *Operator:
		jn.Value = n.Symbol
	}

	s := shapeOf(n)
	if len(s.fields) > 0 {
		jn.Fields = make(map[string]string, len(s.fields))
		for _, f := range s.fields {
			jn.Fields[f.name] = f.value
		}
	}
	for _, k := range s.kids {
		switch {
		case k.list:
			if jn.Lists == nil {
				jn.Lists = make(map[string][]*jsonNode)
			}
			elems := make([]*jsonNode, len(k.elems))
			for i, e := range k.elems {
				elems[i] = toJSON(e)
			}
			jn.Lists[k.name] = elems
		case k.name == "item":
			jn.Items = append(jn.Items, toJSON(k.node))
		case k.node != nil:
			if jn.Children == nil {
				jn.Children = make(map[string]*jsonNode)
			}
			jn.Children[k.name] = toJSON(k.node)
		}
	}
	return jn
}
