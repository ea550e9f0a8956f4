package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/0STG0T/t1-solution-2/internal/export"
	"github.com/0STG0T/t1-solution-2/internal/flow"
	"github.com/0STG0T/t1-solution-2/pkg/api"
	"github.com/0STG0T/t1-solution-2/pkg/log"
)

var (
	ErrExportDisabled = errors.New("export is not configured")
	ErrExportFlow     = errors.New("failed to export flow")
	ErrRestoreFlow    = errors.New("failed to restore flow")
	ErrFlowNotOpen    = errors.New("flow is not open")
)

func (s *Server) getFlow(c *gin.Context) {
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, flowResponse(ed))
}

func (s *Server) closeFlow(c *gin.Context) {
	flowID := api.FlowID(c.Param("flowID"))
	if !s.registry.Close(flowID) {
		writeError(c, http.StatusNotFound,
			fmt.Errorf("%w: %s", ErrFlowNotOpen, flowID))
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "Flow closed",
	})
}

func (s *Server) insertItem(c *gin.Context) {
	ed, ok := s.editor(c)
	if !ok {
		return
	}

	var req api.InsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest,
			fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	item, err := ed.Insert(req.Type, req.Label)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusCreated, api.ItemInsertedResponse{
		Item:    item,
		Message: "Item added",
	})
}

func (s *Server) reorder(c *gin.Context) {
	ed, ok := s.editor(c)
	if !ok {
		return
	}

	var req api.DragEndRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest,
			fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	res, err := ed.DragEnd(flow.GestureFromRequest(req))
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, api.ReorderResponse{
		Items: res.Items,
		Moved: res.Moved,
	})
}

func (s *Server) moveItem(c *gin.Context) {
	ed, ok := s.editor(c)
	if !ok {
		return
	}

	var req api.MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest,
			fmt.Errorf("%w: %w", ErrInvalidJSON, err))
		return
	}

	res, err := ed.MoveBy(api.ItemID(c.Param("itemID")), req.Delta)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, api.ReorderResponse{
		Items: res.Items,
		Moved: res.Moved,
	})
}

func (s *Server) getPreview(c *gin.Context) {
	ed, ok := s.editor(c)
	if !ok {
		return
	}
	p := ed.Preview()
	c.JSON(http.StatusOK, api.PreviewResponse{
		FlowID:  p.FlowID,
		Entries: p.Entries,
		Count:   len(p.Entries),
	})
}

func (s *Server) exportFlow(c *gin.Context) {
	if s.exporter == nil {
		writeError(c, http.StatusServiceUnavailable, ErrExportDisabled)
		return
	}
	ed, ok := s.editor(c)
	if !ok {
		return
	}

	items := ed.Items()
	key, err := s.exporter.Export(c.Request.Context(), ed.FlowID(), items)
	if err != nil {
		slog.Error("Flow export failed",
			log.FlowID(ed.FlowID()),
			log.Error(err))
		writeError(c, http.StatusInternalServerError,
			fmt.Errorf("%w: %w", ErrExportFlow, err))
		return
	}

	c.JSON(http.StatusOK, api.ExportResponse{
		Key:   key,
		Count: len(items),
	})
}

func (s *Server) restoreFlow(c *gin.Context) {
	if s.exporter == nil {
		writeError(c, http.StatusServiceUnavailable, ErrExportDisabled)
		return
	}
	ed, ok := s.editor(c)
	if !ok {
		return
	}

	items, err := s.exporter.Read(c.Request.Context(), ed.FlowID())
	if err != nil {
		if errors.Is(err, export.ErrExportNotFound) {
			writeError(c, http.StatusNotFound, err)
			return
		}
		writeError(c, http.StatusInternalServerError,
			fmt.Errorf("%w: %w", ErrRestoreFlow, err))
		return
	}

	if err := ed.Restore(items); err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, flowResponse(ed))
}

func (s *Server) editor(c *gin.Context) (*flow.Editor, bool) {
	flowID := api.FlowID(c.Param("flowID"))
	ed, err := s.registry.Editor(flowID)
	if err != nil {
		writeError(c, statusFor(err), err)
		return nil, false
	}
	return ed, true
}

func flowResponse(ed *flow.Editor) api.FlowResponse {
	items, seq := ed.Snapshot()
	return api.FlowResponse{
		FlowID:   ed.FlowID(),
		Items:    items,
		Count:    len(items),
		Sequence: seq,
	}
}

func statusFor(err error) int {
	switch {
	case flow.IsValidationError(err),
		errors.Is(err, api.ErrFlowIDEmpty),
		errors.Is(err, api.ErrFlowIDInvalid),
		errors.Is(err, api.ErrFlowIDTooLong):
		return http.StatusBadRequest
	case errors.Is(err, flow.ErrInvariantViolation):
		return http.StatusConflict
	case errors.Is(err, flow.ErrEditorClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
