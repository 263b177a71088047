package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/neobrutal/internal/task"
	"github.com/roach88/neobrutal/internal/view"
)

type createTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	DueDate     *task.DueDate `json:"dueDate,omitempty"`
	Status      string        `json:"status,omitempty"`
}

type updateTaskRequest struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueDate     *task.DueDate `json:"dueDate,omitempty"`
	ClearDue    bool          `json:"clearDue,omitempty"`
	Status      *string       `json:"status,omitempty"`
}

func (r updateTaskRequest) patch() task.Patch {
	p := task.Patch{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate.TimePtr(),
		ClearDue:    r.ClearDue,
	}
	if r.Status != nil {
		st := task.Status(*r.Status)
		p.Status = &st
	}
	return p
}

type clearCompletedResponse struct {
	Removed int `json:"removed"`
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	mode, err := view.ParseFilter(c.Query("filter"))
	if err != nil {
		abort(c, newBadRequestError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, view.Cards(h.tasks.Filtered(mode)))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	created, err := h.tasks.Add(req.Title, task.Fields{
		Description: req.Description,
		DueDate:     req.DueDate.TimePtr(),
		Status:      task.Status(req.Status),
	})
	if err != nil {
		abort(c, newUnprocessableError(err))
		return
	}

	c.JSON(http.StatusCreated, view.Card{Task: created, Accent: view.Accent(created.ID)})
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	if req.ClearDue && req.DueDate != nil {
		abort(c, newBadRequestError("dueDate and clearDue are mutually exclusive"))
		return
	}

	if err := h.tasks.Update(task.ID(c.Param("id")), req.patch()); err != nil {
		abort(c, newUnprocessableError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	h.tasks.Toggle(task.ID(c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	h.tasks.Delete(task.ID(c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleClearCompleted(c *gin.Context) {
	c.JSON(http.StatusOK, clearCompletedResponse{Removed: h.tasks.ClearCompleted()})
}

func (h *handlerImpl) HandleStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.tasks.Stats())
}
