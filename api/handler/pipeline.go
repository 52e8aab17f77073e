package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/api/dto"
	"github.com/warriorguo/pipeline/types"
)

type PipelineHandler struct {
	editor types.Editor
	// runs outlive the request that started them
	runCtx context.Context
}

func NewPipelineHandler(editor types.Editor, runCtx context.Context) *PipelineHandler {
	return &PipelineHandler{editor: editor, runCtx: runCtx}
}

// Get
// GET /api/pipeline
func (h *PipelineHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.editor.Snapshot()))
}

// Order
// GET /api/pipeline/order
func (h *PipelineHandler) Order(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.OrderResponse{Order: h.editor.ExecutionOrder()}))
}

// Logs
// GET /api/pipeline/logs
func (h *PipelineHandler) Logs(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.editor.Logs()))
}

// AddNode handles a palette drop.
// POST /api/pipeline/nodes
func (h *PipelineHandler) AddNode(c *gin.Context) {
	req := &dto.DropRequest{}
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, errors.BadRequestf("invalid drop: %v", err))
		return
	}
	nodeType, err := types.NodeTypeFromPayload(req.Payload)
	if err != nil {
		abortWithError(c, err)
		return
	}
	node := h.editor.AddNode(nodeType, req.Position)
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(node))
}

// RemoveNode
// DELETE /api/pipeline/nodes/:id
func (h *PipelineHandler) RemoveNode(c *gin.Context) {
	h.editor.RemoveNode(c.Param("id"))
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.editor.Snapshot()))
}

// RemoveEdge
// DELETE /api/pipeline/edges/:id
func (h *PipelineHandler) RemoveEdge(c *gin.Context) {
	h.editor.RemoveEdge(c.Param("id"))
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.editor.Snapshot()))
}

// NodeChanges
// PATCH /api/pipeline/nodes
func (h *PipelineHandler) NodeChanges(c *gin.Context) {
	var changes []types.NodeChange
	if err := c.ShouldBindJSON(&changes); err != nil {
		abortWithError(c, errors.BadRequestf("invalid node changes: %v", err))
		return
	}
	h.editor.ApplyNodeChanges(changes)
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.editor.Snapshot()))
}

// EdgeChanges
// PATCH /api/pipeline/edges
func (h *PipelineHandler) EdgeChanges(c *gin.Context) {
	var changes []types.EdgeChange
	if err := c.ShouldBindJSON(&changes); err != nil {
		abortWithError(c, errors.BadRequestf("invalid edge changes: %v", err))
		return
	}
	h.editor.ApplyEdgeChanges(changes)
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.editor.Snapshot()))
}

// Connect answers 200 whether or not the edge was accepted, the reason of a
// rejection is in the log.
// POST /api/pipeline/connections
func (h *PipelineHandler) Connect(c *gin.Context) {
	conn := types.Connection{}
	if err := c.ShouldBindJSON(&conn); err != nil {
		abortWithError(c, errors.BadRequestf("invalid connection: %v", err))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ConnectResponse{Accepted: h.editor.Connect(conn)}))
}

// Execute
// POST /api/pipeline/execute
func (h *PipelineHandler) Execute(c *gin.Context) {
	if err := h.editor.Start(h.runCtx); err != nil {
		abortWithError(c, err)
		return
	}
	log.Infof("pipeline run submitted by %s", c.ClientIP())
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(dto.ExecuteResponse{ExecutionState: h.editor.ExecutionState()}))
}

// Reset
// POST /api/pipeline/reset
func (h *PipelineHandler) Reset(c *gin.Context) {
	h.editor.Reset()
	c.JSON(http.StatusOK, dto.NewSuccessResponse(h.editor.Snapshot()))
}

// DOT
// GET /api/pipeline/dot?run=last
func (h *PipelineHandler) DOT(c *gin.Context) {
	var dot string
	var err error
	if c.Query("run") == "last" {
		dot, err = h.editor.RenderLastRun(c.Request.Context())
	} else {
		dot, err = h.editor.RenderDOT()
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.DOTResponse{DOT: dot}))
}
