package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/warriorguo/pipeline/types"
)

func init() {
	color.NoColor = true
}

func TestLog(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New(buf)

	p.Log(types.LogEntry{
		Timestamp: time.Date(2024, 1, 1, 9, 30, 5, 250*int(time.Millisecond), time.UTC),
		Message:   "Pipeline execution started",
		Type:      types.LogInfo,
	})
	assert.Equal(t, "09:30:05.250 [info   ] Pipeline execution started\n", buf.String())
}

func TestMessages(t *testing.T) {
	buf := &bytes.Buffer{}
	p := New(buf)

	p.Success("done %d", 1)
	p.Error("failed")
	p.Warning("careful")
	p.Info("note")
	assert.Equal(t, "✅ done 1\n❌ failed\n⚠️  careful\nℹ️  note\n", buf.String())
}

func TestNodeTypes(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf).NodeTypes([]types.NodeTypeData{{ID: "1", Name: types.DataSource}})
	assert.Equal(t, "ID   NAME\n1    Data Source\n", buf.String())

	buf.Reset()
	assert.Nil(t, New(buf).JSON(map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}
