package runtime

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/store"
	"github.com/warriorguo/pipeline/types"
	"github.com/warriorguo/pipeline/utils"
)

const (
	RecordPath = "/record/"
	RunPath    = "/run/"

	generationKey = "generation"
)

// traceRecorder keeps one NodeTraceRecord per node of the last run so the run
// can be rendered after the fact. Store failures are logged, never surfaced.
type traceRecorder struct {
	mu    sync.Mutex
	store store.Store
	now   func() time.Time

	generation uint64
	records    map[string]*types.NodeTraceRecord
}

func newTraceRecorder(s store.Store, now func() time.Time) *traceRecorder {
	return &traceRecorder{store: s, now: now, records: make(map[string]*types.NodeTraceRecord)}
}

func (t *traceRecorder) begin(ctx context.Context, generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation = generation
	t.records = make(map[string]*types.NodeTraceRecord)

	if err := store.RemovePrefix(ctx, t.store, RecordPath); err != nil {
		log.Errorf("run %d failed to clear records: %v", generation, err)
	}
	value := []byte(strconv.FormatUint(generation, 10))
	if err := t.store.Set(ctx, RunPath, generationKey, value); err != nil {
		log.Errorf("run %d failed to save generation: %v", generation, err)
	}
}

func (t *traceRecorder) startNode(ctx context.Context, node types.Node) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record := &types.NodeTraceRecord{
		NodeID:     node.ID,
		Label:      node.Label,
		NodeType:   node.NodeType,
		Generation: t.generation,
		StartTime:  t.now(),
		Status:     types.NodeRunning,
	}
	t.records[node.ID] = record
	t.saveLocked(ctx, record)
}

func (t *traceRecorder) endNode(ctx context.Context, node types.Node, status types.NodeStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	record, exists := t.records[node.ID]
	if !exists {
		return
	}
	record.EndTime = t.now()
	record.Status = status
	if err != nil {
		record.Error = err.Error()
	}
	t.saveLocked(ctx, record)
}

func (t *traceRecorder) saveLocked(ctx context.Context, record *types.NodeTraceRecord) {
	b, err := utils.Serialize(record)
	if err != nil {
		log.Errorf("run %d failed to serialize record %s: %v", t.generation, record.NodeID, err)
		return
	}
	if err := t.store.Set(ctx, RecordPath, record.NodeID, b); err != nil {
		log.Errorf("run %d failed to save record %s: %v", t.generation, record.NodeID, err)
	}
}

// load reads back the records of the last run from the store.
func (t *traceRecorder) load(ctx context.Context) (map[string]*types.NodeTraceRecord, error) {
	records := make(map[string]*types.NodeTraceRecord)
	err := t.store.List(ctx, RecordPath, func(nodeID string) bool {
		b, err := t.store.Get(ctx, RecordPath, nodeID)
		if err != nil {
			log.Errorf("load %s %s from store failed: %v", RecordPath, nodeID, err)
			return true
		}
		record := &types.NodeTraceRecord{}
		if err := utils.Unserialize(b, record); err != nil {
			log.Errorf("unserialize %s %s from store:%s failed: %v", RecordPath, nodeID, string(b), err)
			return true
		}
		records[nodeID] = record
		return true
	})
	return records, errors.Trace(err)
}

func (t *traceRecorder) lastGeneration(ctx context.Context) (uint64, error) {
	b, err := t.store.Get(ctx, RunPath, generationKey)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if b == nil {
		return 0, errors.NotFoundf("no run recorded")
	}
	gen, err := strconv.ParseUint(string(b), 10, 64)
	return gen, errors.Trace(err)
}
