package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avirtanen/agentlab/internal/datastore"
)

// ExtractRequest is the body of the extract endpoints.
type ExtractRequest struct {
	Text     string `json:"text"`
	SaveNote bool   `json:"save_note"`
}

// ExtractResponse carries the persisted items and, when save_note was set,
// the id of the created note.
type ExtractResponse struct {
	NoteID *uint                  `json:"note_id"`
	Items  []datastore.ActionItem `json:"items"`
}

// MarkDoneRequest is the body of POST /action-items/:id/done.
type MarkDoneRequest struct {
	Done bool `json:"done"`
}

// ExtractActionItems handles POST /action-items/extract using the pattern
// rules.
func (c *Controller) ExtractActionItems(ctx echo.Context) error {
	req, ok := c.bindExtractRequest(ctx)
	if !ok {
		return nil
	}

	texts := c.Heuristic.Extract(req.Text)
	return c.persistExtraction(ctx, req, texts, "heuristic")
}

// ExtractActionItemsLLM handles POST /action-items/extract-llm using the
// local inference endpoint.
func (c *Controller) ExtractActionItemsLLM(ctx echo.Context) error {
	req, ok := c.bindExtractRequest(ctx)
	if !ok {
		return nil
	}

	start := time.Now()
	texts, err := c.LLM.Extract(ctx.Request().Context(), req.Text)
	c.metrics.ObserveUpstream("ollama", time.Since(start).Seconds())
	if err != nil {
		c.metrics.RecordExtraction("llm", "error", 0)
		return c.HandleError(ctx, err, "failed to extract action items with LLM")
	}

	return c.persistExtraction(ctx, req, texts, "llm")
}

// bindExtractRequest binds and validates the shared extract body. On
// failure the 400 response has already been written and ok is false.
func (c *Controller) bindExtractRequest(ctx echo.Context) (ExtractRequest, bool) {
	var req ExtractRequest
	if err := ctx.Bind(&req); err != nil {
		_ = c.ValidationError(ctx, "invalid request body")
		return req, false
	}
	if strings.TrimSpace(req.Text) == "" {
		_ = c.ValidationError(ctx, "text cannot be empty or only whitespace")
		return req, false
	}
	return req, true
}

// persistExtraction saves the note when requested, always persists the
// extracted items, and writes the response.
func (c *Controller) persistExtraction(ctx echo.Context, req ExtractRequest, texts []string, method string) error {
	var noteID *uint
	if req.SaveNote {
		note, err := c.DS.CreateNote(req.Text)
		if err != nil {
			c.metrics.RecordExtraction(method, "error", 0)
			return c.HandleError(ctx, err, "failed to save note")
		}
		noteID = &note.ID
	}

	items, err := c.DS.CreateActionItems(noteID, texts)
	if err != nil {
		c.metrics.RecordExtraction(method, "error", 0)
		return c.HandleError(ctx, err, "failed to persist action items")
	}

	c.metrics.RecordExtraction(method, "ok", len(items))
	c.apiLogger.Info("extraction complete", "method", method, "items", len(items), "saved_note", req.SaveNote)

	return ctx.JSON(http.StatusOK, ExtractResponse{NoteID: noteID, Items: items})
}

// ListActionItems handles GET /action-items with an optional note_id query
// parameter.
func (c *Controller) ListActionItems(ctx echo.Context) error {
	var noteID *uint
	if raw := ctx.QueryParam("note_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			return c.ValidationError(ctx, "invalid note_id")
		}
		noteID = &id
	}

	items, err := c.DS.ListActionItems(noteID)
	if err != nil {
		return c.HandleError(ctx, err, "failed to list action items")
	}

	return ctx.JSON(http.StatusOK, items)
}

// SetActionItemDone handles POST /action-items/:id/done.
func (c *Controller) SetActionItemDone(ctx echo.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return c.ValidationError(ctx, "invalid action item id")
	}

	var req MarkDoneRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ValidationError(ctx, "invalid request body")
	}

	item, err := c.DS.SetActionItemDone(id, req.Done)
	if err != nil {
		return c.HandleError(ctx, err, "failed to update action item")
	}

	return ctx.JSON(http.StatusOK, item)
}
