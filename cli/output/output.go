package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/warriorguo/pipeline/types"
)

var std = New(os.Stdout)

// Printer writes coloured messages to w. Colours follow color.NoColor.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) Success(format string, args ...any) {
	color.New(color.FgGreen, color.Bold).Fprintf(p.w, "✅ "+format+"\n", args...)
}

func (p *Printer) Error(format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(p.w, "❌ "+format+"\n", args...)
}

func (p *Printer) Info(format string, args ...any) {
	color.New(color.FgCyan).Fprintf(p.w, "ℹ️  "+format+"\n", args...)
}

func (p *Printer) Warning(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(p.w, "⚠️  "+format+"\n", args...)
}

var logColors = map[types.LogType]*color.Color{
	types.LogInfo:    color.New(color.FgCyan),
	types.LogSuccess: color.New(color.FgGreen),
	types.LogError:   color.New(color.FgRed),
	types.LogWarning: color.New(color.FgYellow),
}

// Log renders one entry of the run log as "15:04:05.000 [type] message".
func (p *Printer) Log(entry types.LogEntry) {
	c, exists := logColors[entry.Type]
	if !exists {
		c = color.New(color.Reset)
	}
	ts := entry.Timestamp.Format("15:04:05.000")
	c.Fprintf(p.w, "%s [%-7s] %s\n", ts, entry.Type, entry.Message)
}

func (p *Printer) NodeTypes(nodeTypes []types.NodeTypeData) {
	bold := color.New(color.Bold)
	bold.Fprintf(p.w, "%-4s %s\n", "ID", "NAME")
	for _, nt := range nodeTypes {
		fmt.Fprintf(p.w, "%-4s %s\n", nt.ID, nt.Name)
	}
}

func (p *Printer) JSON(data any) error {
	encoder := json.NewEncoder(p.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func Success(format string, args ...any) {
	std.Success(format, args...)
}

func Error(format string, args ...any) {
	std.Error(format, args...)
}

func Info(format string, args ...any) {
	std.Info(format, args...)
}

func Warning(format string, args ...any) {
	std.Warning(format, args...)
}
