package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/logger"

	"github.com/gin-gonic/gin"
)

// GetTasks lists every task; any authenticated user sees the whole board.
func (h *Handler) GetTasks(c *gin.Context) {
	tasks, err := h.Tasks.ListTasks(c.Request.Context())
	if err != nil {
		respondError(c, "Couldn't get tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTasksByAssignee(c *gin.Context) {
	tasks, err := h.Tasks.ListTasksByAssignee(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, "Couldn't get tasks", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req domain.NewTaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Couldn't create task", err)
		return
	}

	t, err := h.Tasks.CreateTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Couldn't create task", err)
		return
	}
	if p, ok := principal(c); ok {
		logger.WithContext(c.Request.Context()).Info("task created", "task_id", t.ID, "by", p.ID)
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	var patch domain.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Couldn't update task", err)
		return
	}

	t, err := h.Tasks.UpdateTask(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, "Couldn't update task", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	t, err := h.Tasks.DeleteTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "Couldn't delete task", err)
		return
	}
	if p, ok := principal(c); ok {
		logger.WithContext(c.Request.Context()).Info("task deleted", "task_id", t.ID, "by", p.ID)
	}
	c.JSON(http.StatusOK, t)
}
