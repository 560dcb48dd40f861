package ast

import (
	"io"
	"strconv"
	"strings"
)

type field struct {
	name  string
	value string
}

// child is either a single node or a named collection of nodes.
type child struct {
	name  string
	node  Node
	elems []Node
	list  bool
}

type shape struct {
	tag    string
	text   string
	fields []field
	kids   []child
}

func one(name string, n Node) child {
	return child{name: name, node: n}
}

func many(name string, elems []Node) child {
	return child{name: name, elems: elems, list: true}
}

func decls(ds []*Declaration) []Node {
	out := make([]Node, len(ds))
	for i, d := range ds {
		out[i] = d
	}
	return out
}

func clauses(cs []*IfClause) []Node {
	out := make([]Node, len(cs))
	for i, c := range cs {
		out[i] = c
	}
	return out
}

func shapeOf(n Node) shape {
	s := shape{tag: n.Kind().String()}
	switch n := n.(type) {
	case *Program:
		s.kids = []child{many("Instructions", n.Instructions)}
	case *Declaration:
		s.fields = []field{{"VarName", n.VarName}, {"Type", n.Type}}
	case *Definition:
		s.fields = []field{{"VarName", n.VarName}, {"Type", n.Type}}
		s.kids = []child{one("value", n.Value)}
	case *ConstDef:
		s.fields = []field{{"VarName", n.VarName}, {"Type", n.Type}}
		s.kids = []child{one("value", n.Value)}
	case *Assignment:
		s.fields = []field{{"VarName", n.VarName}}
		if n.Op != "" {
			s.fields = append(s.fields, field{"Op", n.Op})
		}
		s.kids = []child{one("value", n.Value)}
	case *Function:
		s.fields = []field{{"Name", n.Name}, {"ReturnType", n.ReturnType}}
		s.kids = []child{many("Args", decls(n.Args)), many("Body", n.Body)}
	case *ClassConstructor:
		s.fields = []field{{"Name", n.Name}}
		s.kids = []child{many("Args", decls(n.Args)), many("Body", n.Body)}
	case *Class:
		s.fields = []field{{"Name", n.Name}}
		if n.Constructor != nil {
			s.kids = append(s.kids, one("constructor", n.Constructor))
		}
		s.kids = append(s.kids, many("Body", n.Body))
	case *IfClause:
		s.kids = []child{
			one("condition", n.Condition),
			many("Body", n.Body),
			many("Elifs", clauses(n.Elifs)),
			many("Else", n.Else),
		}
	case *WhileLoop:
		s.kids = []child{one("condition", n.Condition), many("Body", n.Body)}
	case *Ret:
		s.kids = []child{one("value", n.Value)}
	case *Integer:
		s.text = strconv.FormatInt(n.Value, 10)
	case *Float:
		s.text = formatFloat(n.Value)
	case *String:
		s.text = strconv.Quote(n.Value)
	case *Bool:
		s.text = strconv.FormatBool(n.Value)
	case *VarUse:
		s.text = n.Name
	case *Operator:
		s.text = n.Symbol
	case *OperationsList:
		for _, item := range n.Items {
			s.kids = append(s.kids, one("item", item))
		}
	case *FunctionCall:
		s.fields = []field{{"Name", n.Name}}
		s.kids = []child{many("Args", n.Args)}
	case *MethodCall:
		s.fields = []field{{"Receiver", n.Receiver}, {"Name", n.Name}}
		s.kids = []child{many("Args", n.Args)}
	case *ClassInstanciation:
		s.fields = []field{{"ClassName", n.ClassName}}
		s.kids = []child{many("Args", n.Args)}
	case *End, *Elif, *Else:
	}
	return s
}

// formatFloat always keeps a fractional part so floats never read as integers.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

func isLeaf(n Node) bool {
	for _, k := range shapeOf(n).kids {
		if !k.list && k.node != nil {
			return false
		}
		if k.list && len(k.elems) > 0 {
			return false
		}
	}
	return true
}

func allLeaves(nodes []Node) bool {
	for _, n := range nodes {
		if !isLeaf(n) {
			return false
		}
	}
	return true
}

func isFlat(s shape) bool {
	for _, k := range s.kids {
		if k.list {
			if !allLeaves(k.elems) {
				return false
			}
		} else if k.node != nil && !isLeaf(k.node) {
			return false
		}
	}
	return true
}

type printer struct {
	b strings.Builder
}

func (p *printer) newline(indent int) {
	p.b.WriteByte('\n')
	for i := 0; i < indent; i++ {
		p.b.WriteString("  ")
	}
}

func (p *printer) node(n Node, indent int) {
	s := shapeOf(n)
	p.b.WriteString("(")
	p.b.WriteString(s.tag)
	if s.text != "" {
		p.b.WriteString(" ")
		p.b.WriteString(s.text)
	}
	for _, f := range s.fields {
		p.b.WriteString(" (")
		p.b.WriteString(f.name)
		p.b.WriteString(" ")
		p.b.WriteString(f.value)
		p.b.WriteString(")")
	}
	flat := isFlat(s)
	for _, k := range s.kids {
		if k.node == nil && !k.list {
			continue
		}
		if flat {
			p.b.WriteString(" ")
		} else {
			p.newline(indent + 1)
		}
		if k.list {
			p.collection(k, indent+1)
		} else {
			p.node(k.node, indent+1)
		}
	}
	p.b.WriteString(")")
}

func (p *printer) collection(k child, indent int) {
	p.b.WriteString("(")
	p.b.WriteString(k.name)
	switch {
	case len(k.elems) == 0:
		p.b.WriteString(" ()")
	case allLeaves(k.elems):
		for _, e := range k.elems {
			p.b.WriteString(" ")
			p.node(e, indent)
		}
	default:
		for _, e := range k.elems {
			p.newline(indent + 1)
			p.node(e, indent+1)
		}
	}
	p.b.WriteString(")")
}

// Sprint returns the canonical serialization of n. A Program renders as
// its instructions, one after another, each terminated by a newline.
func Sprint(n Node) string {
	var p printer
	if prog, ok := n.(*Program); ok {
		for _, inst := range prog.Instructions {
			p.node(inst, 0)
			p.b.WriteByte('\n')
		}
		return p.b.String()
	}
	p.node(n, 0)
	return p.b.String()
}

// Fprint writes the canonical serialization of n to w.
func Fprint(w io.Writer, n Node) error {
	_, err := io.WriteString(w, Sprint(n))
	return err
}
