package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// CreateNoteRequest is the body of POST /notes.
type CreateNoteRequest struct {
	Content string `json:"content"`
}

// CreateNote handles POST /notes.
func (c *Controller) CreateNote(ctx echo.Context) error {
	var req CreateNoteRequest
	if err := ctx.Bind(&req); err != nil {
		return c.ValidationError(ctx, "invalid request body")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return c.ValidationError(ctx, "content cannot be empty or only whitespace")
	}

	note, err := c.DS.CreateNote(content)
	if err != nil {
		return c.HandleError(ctx, err, "failed to create note")
	}

	return ctx.JSON(http.StatusCreated, note)
}

// GetNote handles GET /notes/:id.
func (c *Controller) GetNote(ctx echo.Context) error {
	id, err := parseID(ctx.Param("id"))
	if err != nil {
		return c.ValidationError(ctx, "invalid note id")
	}

	note, err := c.DS.GetNote(id)
	if err != nil {
		return c.HandleError(ctx, err, "failed to get note")
	}

	return ctx.JSON(http.StatusOK, note)
}

// ListNotes handles GET /notes.
func (c *Controller) ListNotes(ctx echo.Context) error {
	notes, err := c.DS.ListNotes()
	if err != nil {
		return c.HandleError(ctx, err, "failed to list notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
