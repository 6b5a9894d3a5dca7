package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"svgshare/internal/database"
	"svgshare/internal/models"
	"svgshare/internal/websocket"

	"github.com/sirupsen/logrus"
)

type ListUsersResponse struct {
	Users []models.UserWithUsage `json:"users"`
	Total int64                  `json:"total" example:"42"`
	Page  int                    `json:"page" example:"1"`
	Limit int                    `json:"limit" example:"20"`
}

func parsePagination(r *http.Request) (page, limit int, err error) {
	query := r.URL.Query()
	if v := query.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 1 {
			return 0, 0, errors.New("invalid page")
		}
	}
	if v := query.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 {
			return 0, 0, errors.New("invalid limit")
		}
	}
	return page, limit, nil
}

// @Summary      List users
// @Description  Filterable, paginated user listing with storage usage, newest first.
// @Tags         admin
// @Produce      json
// @Security     SessionCookie
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size, max 100"
// @Param        role    query     string  false  "user or admin"
// @Param        status  query     string  false  "pending, active or locked"
// @Param        search  query     string  false  "Username substring"
// @Success      200     {object}  ListUsersResponse
// @Failure      400     {string}  string "Invalid pagination parameters / Invalid role / Invalid status"
// @Failure      403     {string}  string "Forbidden"
// @Router       /api/admin/users [get]
func (s *Server) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePagination(r)
	if err != nil {
		http.Error(w, "Invalid pagination parameters", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	params := database.ListUsersParams{
		Role:   query.Get("role"),
		Status: query.Get("status"),
		Search: query.Get("search"),
		Page:   page,
		Limit:  limit,
	}
	if params.Role != "" && !models.ValidRole(params.Role) {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	if params.Status != "" && !models.ValidStatus(params.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}
	params.Normalize()

	users, total, err := s.store.ListUsers(r.Context(), params)
	if err != nil {
		s.logger.WithError(err).Error("failed to list users")
		http.Error(w, "Failed to list users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, ListUsersResponse{
		Users: users,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	})
}

type UpdateStatusRequest struct {
	Status string `json:"status" example:"active"`
}

// @Summary      Change account status
// @Description  Approves, locks or unlocks an account. Admins cannot change their own status.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int                  true  "User ID"
// @Param        request  body      UpdateStatusRequest  true  "New status"
// @Success      200      {object}  models.User
// @Failure      400      {string}  string "Invalid status"
// @Failure      403      {string}  string "Forbidden"
// @Failure      404      {string}  string "Not Found"
// @Router       /api/admin/users/{id}/status [patch]
func (s *Server) UpdateUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	admin := GetUserFromContext(r.Context())

	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !models.ValidStatus(req.Status) {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}
	if id == admin.ID {
		http.Error(w, "Cannot change your own status", http.StatusBadRequest)
		return
	}

	user, err := s.store.UpdateUserStatus(r.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, database.ErrInvalidStatus) {
			http.Error(w, "Invalid status", http.StatusBadRequest)
			return
		}
		s.logger.WithError(err).WithField("target_user_id", id).Error("failed to update user status")
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":       admin.ID,
		"target_user_id": user.ID,
		"status":         user.Status,
	}).Info("user status changed")
	s.publish(user.ID, websocket.Event{Type: websocket.EventAccountUpdated, Data: user})
	writeJSON(w, http.StatusOK, user)
}

type UpdateQuotaRequest struct {
	Limit *int64 `json:"limit" example:"104857600"`
}

// @Summary      Set storage quota
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int                 true  "User ID"
// @Param        request  body      UpdateQuotaRequest  true  "Limit in bytes"
// @Success      200      {object}  models.User
// @Failure      400      {string}  string "Invalid quota"
// @Failure      403      {string}  string "Forbidden"
// @Failure      404      {string}  string "Not Found"
// @Router       /api/admin/users/{id}/quota [patch]
func (s *Server) UpdateUserQuotaHandler(w http.ResponseWriter, r *http.Request) {
	admin := GetUserFromContext(r.Context())

	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	var req UpdateQuotaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid quota", http.StatusBadRequest)
		return
	}
	if req.Limit == nil || *req.Limit < 0 {
		http.Error(w, "Invalid quota", http.StatusBadRequest)
		return
	}

	user, err := s.store.UpdateUserQuota(r.Context(), id, *req.Limit)
	if err != nil {
		if errors.Is(err, database.ErrInvalidQuota) {
			http.Error(w, "Invalid quota", http.StatusBadRequest)
			return
		}
		s.logger.WithError(err).WithField("target_user_id", id).Error("failed to update user quota")
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"admin_id":       admin.ID,
		"target_user_id": user.ID,
		"storage_limit":  user.StorageLimit,
	}).Info("user quota changed")
	s.publish(user.ID, websocket.Event{Type: websocket.EventAccountUpdated, Data: user})
	writeJSON(w, http.StatusOK, user)
}
