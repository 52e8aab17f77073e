package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/warriorguo/pipeline/types"
)

func (e *editor) RenderDOT() (string, error) {
	snapshot := e.Snapshot()
	renderer := newPipelineRenderer()
	return renderer.generateDOT(snapshot.Nodes, snapshot.Edges, nil)
}

// RenderLastRun colours the current canvas with the trace records of the
// last run instead of the live statuses.
func (e *editor) RenderLastRun(ctx context.Context) (string, error) {
	if _, err := e.trace.lastGeneration(ctx); err != nil {
		return "", errors.Trace(err)
	}
	records, err := e.trace.load(ctx)
	if err != nil {
		return "", errors.Trace(err)
	}
	snapshot := e.Snapshot()
	renderer := newPipelineRenderer()
	return renderer.generateDOT(snapshot.Nodes, snapshot.Edges, records)
}

func newPipelineRenderer() *pipelineRenderer {
	return &pipelineRenderer{nil, &strings.Builder{}}
}

type pipelineRenderer struct {
	records map[string]*types.NodeTraceRecord
	sb      *strings.Builder
}

func (d *pipelineRenderer) generateDOT(nodes []types.Node, edges []types.Edge, records map[string]*types.NodeTraceRecord) (string, error) {
	d.records = records

	d.write("digraph pipeline {")
	d.write("rankdir=LR")
	for _, node := range nodes {
		d.drawNode(node)
	}
	for _, edge := range edges {
		d.write("%s -> %s", idString(edge.Source), idString(edge.Target))
	}
	d.write("}")
	return d.sb.String(), nil
}

func packToComment(r *types.NodeTraceRecord) string {
	s, _ := json.Marshal(r)
	return formatNL(addSlashes(string(s)))
}

func statusColor(status types.NodeStatus) string {
	switch status {
	case types.NodeRunning:
		return "yellow"
	case types.NodeCompleted:
		return "green"
	case types.NodeError:
		return "red"
	default:
		return "white"
	}
}

func (d *pipelineRenderer) calcAttr(node types.Node) string {
	if d.records == nil {
		return fmt.Sprintf(" style=\"filled\" fillcolor=\"%s\"", statusColor(node.Status))
	}
	record, exists := d.records[node.ID]
	if !exists {
		return " style=\"filled\" fillcolor=\"white\""
	}
	return fmt.Sprintf(" style=\"filled\" fillcolor=\"%s\" comment=\"%s\"", statusColor(record.Status), packToComment(record))
}

func (d *pipelineRenderer) drawNode(node types.Node) {
	d.write("%s [label=%s shape=\"record\"%s]", idString(node.ID), quoteString(node.Label), d.calcAttr(node))
}

func (d *pipelineRenderer) write(format string, s ...any) {
	d.sb.WriteString(fmt.Sprintf(format+"\n", s...))
}

var (
	slashesToken = []string{"\\", "\"", "'", " "}
)

func addSlashes(s string) string {
	for _, token := range slashesToken {
		s = strings.ReplaceAll(s, token, "\\"+token)
	}
	return s
}

func formatNL(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

func quoteString(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

var idleChars = []string{"-", " ", "'", "\"", "(", ")", "*", "&", "^", "%", "$", "#", "@", "!", "?", "<", ">", "[", "]", "{", "}", "."}

func idString(s string) string {
	for _, ch := range idleChars {
		s = strings.ReplaceAll(s, ch, "_")
	}
	return s
}
