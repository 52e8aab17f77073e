package runtime

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warriorguo/pipeline/types"
)

func TestRenderDOT(t *testing.T) {
	e := newTestEditor(t)
	nodes := chain(t, e.GraphStore, types.DataSource, types.Sink)
	e.SetNodeStatus(nodes[0].ID, types.NodeCompleted)

	dot, err := e.RenderDOT()
	require.Nil(t, err)
	fmt.Printf("%s\n", dot)

	assert.Contains(t, dot, "digraph pipeline {")
	assert.Contains(t, dot, `datasource_1 [label="Data Source 1" shape="record" style="filled" fillcolor="green"]`)
	assert.Contains(t, dot, `sink_2 [label="Sink 2" shape="record" style="filled" fillcolor="white"]`)
	assert.Contains(t, dot, "datasource_1 -> sink_2")
}

func TestRenderLastRun(t *testing.T) {
	e := newTestEditor(t, types.WithFailureFunc(func(n types.Node) bool {
		return n.NodeType == types.Sink
	}))
	ctx := context.Background()

	_, err := e.RenderLastRun(ctx)
	assert.True(t, errors.IsNotFound(err))

	chain(t, e.GraphStore, types.DataSource, types.Sink)
	require.Nil(t, e.Execute(ctx))

	// live statuses are gone after reset, the trace is not
	e.Reset()
	dot, err := e.RenderLastRun(ctx)
	require.Nil(t, err)
	fmt.Printf("%s\n", dot)

	assert.Contains(t, dot, `datasource_1 [label="Data Source 1" shape="record" style="filled" fillcolor="green" comment=`)
	assert.Contains(t, dot, `sink_2 [label="Sink 2" shape="record" style="filled" fillcolor="red" comment=`)
}

func TestTraceRecords(t *testing.T) {
	e := newTestEditor(t)
	nodes := chain(t, e.GraphStore, types.DataSource, types.Model)
	ctx := context.Background()

	require.Nil(t, e.Execute(ctx))
	gen, err := e.trace.lastGeneration(ctx)
	require.Nil(t, err)

	records, err := e.trace.load(ctx)
	require.Nil(t, err)
	require.Len(t, records, 2)
	for _, n := range nodes {
		r := records[n.ID]
		require.NotNil(t, r)
		assert.Equal(t, gen, r.Generation)
		assert.Equal(t, types.NodeCompleted, r.Status)
		assert.False(t, r.EndTime.Before(r.StartTime))
	}

	// a new run drops the old records
	e.RemoveNode(nodes[1].ID)
	require.Nil(t, e.Execute(ctx))
	records, err = e.trace.load(ctx)
	require.Nil(t, err)
	assert.Len(t, records, 1)
}

func TestTraceRecordsUseClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e := newTestEditor(t, types.WithClock(func() time.Time { return now }))
	nodes := chain(t, e.GraphStore, types.DataSource, types.Sink)
	ctx := context.Background()

	require.Nil(t, e.Execute(ctx))
	records, err := e.trace.load(ctx)
	require.Nil(t, err)
	for _, n := range nodes {
		r := records[n.ID]
		require.NotNil(t, r)
		assert.True(t, now.Equal(r.StartTime), r.StartTime)
		assert.True(t, now.Equal(r.EndTime), r.EndTime)
	}
}

func TestIDString(t *testing.T) {
	assert.Equal(t, "datasource_1", idString("datasource-1"))
	assert.Equal(t, "a_b_c", idString("a.b c"))
	assert.Equal(t, `"say \"hi\""`, quoteString(`say "hi"`))
}
