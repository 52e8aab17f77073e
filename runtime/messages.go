package runtime

import (
	"fmt"

	"github.com/warriorguo/pipeline/types"
)

const (
	msgEmptyPipeline   = "Pipeline is empty. Add some nodes first."
	msgInvalidPipeline = "Invalid pipeline: contains cycles or disconnected nodes"
	msgRunStarted      = "Pipeline execution started"
	msgRunFailed       = "❌ Pipeline execution failed"
	msgRunCompleted    = "✅ Pipeline execution completed successfully!"
)

var processingMessages = map[types.NodeTypeName]func(label string) string{
	types.DataSource: func(label string) string {
		return fmt.Sprintf("%q processed 100 records", label)
	},
	types.Transformer: func(label string) string {
		return fmt.Sprintf("%q applied feature scaling transformation", label)
	},
	types.Model: func(label string) string {
		return fmt.Sprintf("%q generated predictions for 100 samples", label)
	},
	types.Sink: func(label string) string {
		return fmt.Sprintf("%q saved results to database", label)
	},
}

func processingMessage(node types.Node) string {
	return fmt.Sprintf("▶ Processing %q...", node.Label)
}

func successMessage(node types.Node) string {
	tmpl, exists := processingMessages[node.NodeType]
	if !exists {
		return fmt.Sprintf("✓ %q processed", node.Label)
	}
	return "✓ " + tmpl(node.Label)
}

func failureMessage(node types.Node) string {
	return fmt.Sprintf("✗ Error in %q: Simulated processing failure", node.Label)
}

func faultMessage(err error) string {
	return "Unexpected error: " + err.Error()
}
