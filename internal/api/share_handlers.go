package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"svgshare/internal/database"
	"svgshare/internal/storage"
	"svgshare/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
)

const shareIDLength = 21

var generateShareID = func() func() string {
	generate, err := nanoid.Standard(shareIDLength)
	if err != nil {
		panic(err)
	}
	return generate
}()

type ShareRequest struct {
	Enable *bool `json:"enable,omitempty" example:"true"`
}

// @Summary      Create or toggle a share
// @Description  Creates the public link on first call. Later calls set is_enabled to "enable", or flip it when "enable" is omitted. The share id never changes.
// @Tags         shares
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int           true   "File ID"
// @Param        request  body      ShareRequest  false  "Desired state"
// @Success      200      {object}  models.Share
// @Success      201      {object}  models.Share
// @Failure      400      {string}  string "Invalid request body"
// @Failure      403      {string}  string "Account locked or pending approval"
// @Failure      404      {string}  string "Not Found"
// @Router       /api/files/{id}/share [post]
func (s *Server) ShareFileHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	file, ok := s.loadOwnedFile(w, r, user)
	if !ok {
		return
	}

	var req ShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	share, created, err := s.store.UpsertShare(r.Context(), database.UpsertShareParams{
		FileID:     file.ID,
		NewShareID: generateShareID(),
		Enable:     req.Enable,
	})
	if err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Error("failed to update share")
		http.Error(w, "Failed to update share", http.StatusInternalServerError)
		return
	}

	s.publish(user.ID, websocket.Event{Type: websocket.EventShareUpdated, FileID: file.ID, Data: share})

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, share)
}

// @Summary      Public share metadata
// @Tags         shares
// @Produce      json
// @Param        shareId  path      string  true  "Share ID"
// @Success      200      {object}  models.PublicShare
// @Failure      404      {string}  string "Not Found or Disabled"
// @Failure      429      {string}  string "Too Many Requests"
// @Router       /api/s/{shareId} [get]
func (s *Server) PublicShareHandler(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareId")

	share, err := s.store.GetPublicShare(r.Context(), shareID)
	if err != nil {
		s.logger.WithError(err).WithField("share_id", shareID).Error("failed to load share")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if share == nil {
		http.Error(w, "Not Found or Disabled", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, share)
}

// @Summary      Public share content
// @Description  Streams the shared SVG and counts the visit.
// @Tags         shares
// @Produce      image/svg+xml
// @Param        shareId  path      string  true  "Share ID"
// @Success      200      {file}    binary
// @Success      304
// @Failure      404      {string}  string "Not Found or Disabled / File Missing"
// @Failure      429      {string}  string "Too Many Requests"
// @Router       /raw/{shareId} [get]
func (s *Server) RawShareHandler(w http.ResponseWriter, r *http.Request) {
	shareID := chi.URLParam(r, "shareId")

	share, err := s.store.GetPublicShare(r.Context(), shareID)
	if err != nil {
		s.logger.WithError(err).WithField("share_id", shareID).Error("failed to load share")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if share == nil {
		http.Error(w, "Not Found or Disabled", http.StatusNotFound)
		return
	}

	obj, err := s.storage.Get(r.Context(), share.UserID, share.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "File Missing", http.StatusNotFound)
			return
		}
		s.logger.WithError(err).WithField("share_id", shareID).Error("failed to open shared blob")
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	s.metrics.shareVisits.Inc()
	s.background(r.Context(), "increment_visit_count", func(ctx context.Context) error {
		return s.store.IncrementVisitCount(ctx, shareID)
	})

	if err := writeBlob(w, r, obj, share.Filename); err != nil {
		s.logger.WithError(err).WithField("share_id", shareID).Warn("blob stream interrupted")
	}
}
