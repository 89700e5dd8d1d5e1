package network

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// EdgeStyle controls how one edge is drawn.
type EdgeStyle struct {
	Label    string
	Color    string
	Width    float64
	Dashed   bool
	Reversed bool // draw To -> From
}

// DOTOptions configures [ToDOT].
type DOTOptions struct {
	// Style returns the style of an edge. Nil draws every edge in the
	// digitizing direction labelled with its feature ID.
	Style func(*Edge) EdgeStyle
}

// ToDOT converts the graph to Graphviz DOT. Nodes are labelled with their
// degree; outlets are drawn as double circles.
func ToDOT(g *Graph, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10, width=0.3];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmt.Sprint(g.Degree(n.ID))), fmt.Sprintf("tooltip=%q", n.ID)}
		if n.Outlet {
			attrs = append(attrs, "shape=doublecircle", "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		st := EdgeStyle{Label: e.FeatureID}
		if opts.Style != nil {
			st = opts.Style(e)
		}
		from, to := e.From, e.To
		if st.Reversed {
			from, to = to, from
		}
		attrs := []string{fmt.Sprintf("label=%q", st.Label)}
		if st.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", st.Color))
		}
		if st.Width > 0 {
			attrs = append(attrs, fmt.Sprintf("penwidth=%g", st.Width))
		}
		if st.Dashed {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
