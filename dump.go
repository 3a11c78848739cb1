package socow

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	tp "github.com/xlab/treeprint"
)

// Sketch returns a textual rendering of the vector's storage structure
// (for debugging purposes): mode, length, capacity, refcount and elements.
func (v *Vector[T]) Sketch() string {
	v.props = v.props.init()
	header := fmt.Sprintf("Vector(len=%d, cap=%d, N=%d)\n", v.length, v.capacity(), v.smallSize)
	printer := tp.New()
	var branch tp.Tree
	if v.mode == modeSmall {
		branch = printer.AddBranch("inline buffer")
	} else {
		branch = printer.AddBranch(fmt.Sprintf("shared buffer (refs=%d, cap=%d)", v.dyn.refs, v.dyn.capacity()))
	}
	for i, item := range v.view() {
		branch.AddNode(fmt.Sprintf("%d: %v", i, item))
	}
	return header + printer.String()
}

var (
	exclusiveColor = color.New(color.FgGreen)
	sharedColor    = color.New(color.FgRed)
)

// Printout writes a one-line colored summary of the vector to w, shared
// buffers highlighted in red, exclusively owned storage in green. Intended
// for interactive debugging on a terminal.
func (v *Vector[T]) Printout(w io.Writer) {
	v.props = v.props.init()
	c := exclusiveColor
	if !v.exclusive() {
		c = sharedColor
	}
	refs := 1
	if v.mode == modeShared {
		refs = v.dyn.refs
	}
	c.Fprintf(w, "%s %s len=%d cap=%d refs=%d\n", v.mode, v.String(), v.length, v.capacity(), refs)
}

// Dot writes the aliasing graph of a set of vectors in Graphviz DOT format
// (for debugging purposes): one node per vector, one node per heap buffer,
// with edges from vectors to the buffer they reference. Vectors sharing a
// buffer show up as a fan-in.
func Dot[T any](w io.Writer, vecs ...*Vector[T]) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	buffers := make(map[*buffer[T]]int)
	for i, v := range vecs {
		v.props = v.props.init()
		fmt.Fprintf(w, "\t\"v%d\" [shape=box,label=\"#%d %s\\nlen=%d\"];\n", i, i, v.mode, v.length)
		if v.mode == modeSmall {
			fmt.Fprintf(w, "\t\"v%d.inline\" [shape=record,label=\"inline cap=%d\"];\n", i, v.smallSize)
			fmt.Fprintf(w, "\t\"v%d\" -> \"v%d.inline\";\n", i, i)
			continue
		}
		id, seen := buffers[v.dyn]
		if !seen {
			id = len(buffers)
			buffers[v.dyn] = id
			fmt.Fprintf(w, "\t\"b%d\" [shape=record,label=\"buffer cap=%d refs=%d\"];\n",
				id, v.dyn.capacity(), v.dyn.refs)
		}
		fmt.Fprintf(w, "\t\"v%d\" -> \"b%d\";\n", i, id)
	}
	io.WriteString(w, "}\n")
}
