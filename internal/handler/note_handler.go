package handler

import (
	"net/http"

	"taskhive/internal/middleware"
	"taskhive/internal/model"
	"taskhive/internal/repository"
	"taskhive/internal/response"

	"github.com/gin-gonic/gin"
)

type NoteHandler struct {
	notes    *repository.NoteRepository
	projects repository.ProjectRepositoryInterface
}

func NewNoteHandler(notes *repository.NoteRepository, projects repository.ProjectRepositoryInterface) *NoteHandler {
	return &NoteHandler{notes: notes, projects: projects}
}

func (h *NoteHandler) GetNotes(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	notes, err := h.notes.FindByProject(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, notes, "Notes fetched successfully")
}

func (h *NoteHandler) GetNoteByID(c *gin.Context) {
	noteID, apiErr := parseUUIDParam(c, "noteId", "Invalid Note Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	note, err := h.notes.GetByID(c.Request.Context(), noteID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if note == nil {
		response.Abort(c, response.NotFound("Note not found"))
		return
	}

	response.OK(c, http.StatusOK, note, "Note fetched successfully")
}

type CreateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *NoteHandler) Create(c *gin.Context) {
	projectID, apiErr := parseUUIDParam(c, "projectId", "Invalid Project Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Content is required", bindingErrors(err)...))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	project, err := h.projects.GetByID(c.Request.Context(), projectID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if project == nil {
		response.Abort(c, response.NotFound("Project not found"))
		return
	}

	note := &model.ProjectNote{
		ProjectID: projectID,
		Content:   req.Content,
		CreatedBy: userID,
	}
	if err := h.notes.Create(c.Request.Context(), note); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, note, "Note created successfully")
}

type UpdateNoteRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update rewrites a note's content. Only the author may update it, even
// if the caller outranks them in the project.
func (h *NoteHandler) Update(c *gin.Context) {
	noteID, apiErr := parseUUIDParam(c, "noteId", "Invalid Note Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Abort(c, response.UnprocessableEntity("Content is required", bindingErrors(err)...))
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	note, err := h.notes.GetByID(c.Request.Context(), noteID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if note == nil {
		response.Abort(c, response.NotFound("Note not found"))
		return
	}
	if note.CreatedBy != userID {
		response.Abort(c, response.Forbidden("Only the author can update this note"))
		return
	}

	note.Content = req.Content
	if err := h.notes.Save(c.Request.Context(), note); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, note, "Note updated successfully")
}

// Delete removes a note; author-only, same as Update.
func (h *NoteHandler) Delete(c *gin.Context) {
	noteID, apiErr := parseUUIDParam(c, "noteId", "Invalid Note Id")
	if apiErr != nil {
		response.Abort(c, apiErr)
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Abort(c, response.Unauthorized("Not authenticated"))
		return
	}

	note, err := h.notes.GetByID(c.Request.Context(), noteID)
	if err != nil {
		response.Abort(c, err)
		return
	}
	if note == nil {
		response.Abort(c, response.NotFound("Note not found"))
		return
	}
	if note.CreatedBy != userID {
		response.Abort(c, response.Forbidden("Only the author can delete this note"))
		return
	}

	if err := h.notes.Delete(c.Request.Context(), note.ID); err != nil {
		response.Abort(c, err)
		return
	}

	response.OK(c, http.StatusOK, note, "Note deleted successfully")
}
