package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bissli/mnemon/internal/model"
)

var (
	vizFormat string
	vizOutput string
)

var vizCmd = &cobra.Command{
	Use:   "viz",
	Short: "Export mnemon graph for visualization",
	Args:  cobra.NoArgs,
	RunE:  runViz,
}

func init() {
	vizCmd.Flags().StringVar(&vizFormat, "format", "dot", "output format: dot or html")
	vizCmd.Flags().StringVarP(&vizOutput, "output", "o", "-", "output file (- for stdout)")
}

func runViz(cmd *cobra.Command, args []string) error {
	m, err := openMnemon()
	if err != nil {
		return err
	}
	defer m.Close()

	insights, edges, err := m.GraphSnapshot()
	if err != nil {
		return err
	}

	var out string
	switch vizFormat {
	case "dot":
		out = renderDOT(insights, edges)
	case "html":
		out = renderHTML(insights, edges)
	default:
		return fmt.Errorf("unsupported format: %s (use dot or html)", vizFormat)
	}

	if vizOutput == "" || vizOutput == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if err := os.WriteFile(vizOutput, []byte(out), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", vizOutput)
	return nil
}

func truncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nodeLabel(i *model.Insight) string {
	content := strings.ReplaceAll(i.Content, "\n", " ")
	if len(content) > 60 {
		content = content[:60] + "..."
	}
	return "[" + i.Category + "] " + content
}

var categoryColors = map[string]string{
	"decision":   "#e74c3c",
	"fact":       "#3498db",
	"insight":    "#9b59b6",
	"preference": "#2ecc71",
	"context":    "#f39c12",
}

func categoryColor(c string) string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return "#95a5a6"
}

var edgeColors = map[string]string{
	"temporal": "#aaaaaa",
	"semantic": "#3498db",
	"causal":   "#e74c3c",
	"entity":   "#2ecc71",
}

func edgeColor(t string) string {
	if color, ok := edgeColors[t]; ok {
		return color
	}
	return "#cccccc"
}

func renderDOT(insights []*model.Insight, edges []*model.Edge) string {
	var b strings.Builder
	b.WriteString("digraph mnemon {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=\"filled,rounded\", fontsize=10, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontsize=8, fontname=\"Helvetica\"];\n\n")

	active := make(map[string]bool, len(insights))
	for _, i := range insights {
		active[i.ID] = true
		label := strings.ReplaceAll(nodeLabel(i), `"`, `\"`)
		fmt.Fprintf(&b, "  %q [label=\"%s: %s\", fillcolor=%q, fontcolor=\"white\"];\n",
			i.ID, truncID(i.ID), label, categoryColor(i.Category))
	}

	b.WriteString("\n")
	for _, e := range edges {
		if !active[e.SourceID] || !active[e.TargetID] {
			continue
		}
		color := edgeColor(e.EdgeType)
		label := e.Metadata["sub_type"]
		if label == "" {
			label = e.EdgeType
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q, color=%q, fontcolor=%q];\n",
			e.SourceID, e.TargetID, label, color, color)
	}
	b.WriteString("}\n")
	return b.String()
}

func renderHTML(insights []*model.Insight, edges []*model.Edge) string {
	active := make(map[string]bool, len(insights))
	var nodeParts, edgeParts []string

	for _, i := range insights {
		active[i.ID] = true
		label := truncID(i.ID) + ": " + nodeLabel(i)
		title := strings.ReplaceAll(i.Content, "\n", "\\n")
		nodeParts = append(nodeParts, fmt.Sprintf(
			`{id:%s,label:%s,title:%s,color:%s,font:{color:"white"}}`,
			jsonStr(i.ID), jsonStr(label), jsonStr(title), jsonStr(categoryColor(i.Category))))
	}

	for _, e := range edges {
		if !active[e.SourceID] || !active[e.TargetID] {
			continue
		}
		color := edgeColor(e.EdgeType)
		label := e.Metadata["sub_type"]
		if label == "" {
			label = e.EdgeType
		}
		edgeParts = append(edgeParts, fmt.Sprintf(
			`{from:%s,to:%s,label:%s,color:{color:%s},arrows:"to",font:{color:%s,size:10}}`,
			jsonStr(e.SourceID), jsonStr(e.TargetID), jsonStr(label), jsonStr(color), jsonStr(color)))
	}

	out := htmlTemplate
	out = strings.ReplaceAll(out, "%NODES%", strings.Join(nodeParts, ",\n"))
	out = strings.ReplaceAll(out, "%EDGES%", strings.Join(edgeParts, ",\n"))
	return out
}

func jsonStr(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Mnemon Knowledge Graph</title>
<script src="https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"></script>
<style>
  body { margin: 0; padding: 0; background: #1a1a2e; font-family: sans-serif; }
  #graph { width: 100vw; height: 100vh; }
  #legend { position: fixed; top: 10px; right: 10px; background: rgba(0,0,0,0.7);
    color: white; padding: 12px; border-radius: 8px; font-size: 12px; }
  .leg-item { display: flex; align-items: center; margin: 4px 0; }
  .leg-dot { width: 12px; height: 12px; border-radius: 50%; margin-right: 8px; }
  .leg-line { width: 20px; height: 3px; margin-right: 8px; }
</style>
</head>
<body>
<div id="graph"></div>
<div id="legend">
  <b>Nodes</b>
  <div class="leg-item"><div class="leg-dot" style="background:#e74c3c"></div>decision</div>
  <div class="leg-item"><div class="leg-dot" style="background:#3498db"></div>fact</div>
  <div class="leg-item"><div class="leg-dot" style="background:#9b59b6"></div>insight</div>
  <div class="leg-item"><div class="leg-dot" style="background:#2ecc71"></div>preference</div>
  <div class="leg-item"><div class="leg-dot" style="background:#f39c12"></div>context</div>
  <div class="leg-item"><div class="leg-dot" style="background:#95a5a6"></div>general</div>
  <br><b>Edges</b>
  <div class="leg-item"><div class="leg-line" style="background:#aaaaaa"></div>temporal</div>
  <div class="leg-item"><div class="leg-line" style="background:#3498db"></div>semantic</div>
  <div class="leg-item"><div class="leg-line" style="background:#e74c3c"></div>causal</div>
  <div class="leg-item"><div class="leg-line" style="background:#2ecc71"></div>entity</div>
</div>
<script>
var nodes = new vis.DataSet([%NODES%]);
var edges = new vis.DataSet([%EDGES%]);
var container = document.getElementById("graph");
var data = { nodes: nodes, edges: edges };
var options = {
  physics: { solver: "forceAtlas2Based", forceAtlas2Based: { gravitationalConstant: -30 } },
  interaction: { hover: true, tooltipDelay: 100 },
  nodes: { shape: "box", margin: 8, borderWidth: 0, font: { size: 11 } },
  edges: { smooth: { type: "continuous" }, font: { size: 9 } }
};
new vis.Network(container, data, options);
</script>
</body>
</html>`
