package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/zenstudy/backend/internal/middleware"
	"github.com/zenstudy/backend/internal/models"
	"github.com/zenstudy/backend/internal/service"
)

type createTaskRequest struct {
	Subject  string `json:"subject"`
	Deadline string `json:"deadline"`
	Hours    int    `json:"hours"`
	Priority string `json:"priority"`
}

// updateTaskRequest uses pointers so absent fields stay untouched.
type updateTaskRequest struct {
	Subject  *string `json:"subject"`
	Deadline *string `json:"deadline"`
	Hours    *int    `json:"hours"`
	Priority *string `json:"priority"`
	Status   *string `json:"status"`
}

type updateTaskResponse struct {
	models.Task
	NewBadges []models.Badge `json:"newBadges,omitempty"`
}

// handleListTasks returns the account's tasks ordered by deadline.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	tasks, err := s.taskService.List(r.Context(), accountID)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// handleCreateTask creates a new Pending task for the account.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	var req createTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	task, err := s.taskService.Create(r.Context(), accountID, req.Subject, req.Deadline, req.Hours, req.Priority)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// handleUpdateTask applies a partial update. The response includes any badges
// the completion event unlocked so the client can show them once.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	taskID, err := taskIDParam(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	var req updateTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, s.logger, err)
		return
	}

	update, err := s.taskService.Update(r.Context(), accountID, taskID, service.TaskPatch{
		Subject:  req.Subject,
		Deadline: req.Deadline,
		Hours:    req.Hours,
		Priority: req.Priority,
		Status:   req.Status,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updateTaskResponse{
		Task:      *update.Task,
		NewBadges: update.NewBadges,
	})
}

// handleDeleteTask removes a task. Awarded points are not adjusted.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	accountID := middleware.GetAccountID(r.Context())

	taskID, err := taskIDParam(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	if err := s.taskService.Delete(r.Context(), accountID, taskID); err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

func taskIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid task id", service.ErrInvalidInput)
	}
	return id, nil
}
