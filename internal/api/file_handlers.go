package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"svgshare/internal/database"
	"svgshare/internal/models"
	"svgshare/internal/storage"
	"svgshare/internal/svg"
	"svgshare/internal/websocket"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	multipartOverhead = 64 << 10
	maxFilenameLength = 255
)

type upload struct {
	filename string
	content  []byte
	width    int
	height   int
}

// readUpload extracts and validates the "file" part. On failure it has
// already written the response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	maxBytes := s.config.Upload.MaxBytes
	tooLarge := "File too large (>" + humanBytes(maxBytes) + ")"

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(maxBytes + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, tooLarge, http.StatusBadRequest)
			return nil, false
		}
		http.Error(w, "No file provided", http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file provided", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	if header.Size > maxBytes {
		http.Error(w, tooLarge, http.StatusBadRequest)
		return nil, false
	}

	content, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusBadRequest)
		return nil, false
	}
	if int64(len(content)) > maxBytes {
		http.Error(w, tooLarge, http.StatusBadRequest)
		return nil, false
	}

	filename := strings.TrimSpace(filepath.Base(header.Filename))
	if len(filename) > maxFilenameLength {
		http.Error(w, "Filename too long", http.StatusBadRequest)
		return nil, false
	}

	if err := svg.Validate(filename, header.Header.Get("Content-Type"), content); err != nil {
		http.Error(w, "Only SVG allowed", http.StatusBadRequest)
		return nil, false
	}

	width, height := svg.ParseDimensions(content)
	return &upload{filename: filename, content: content, width: width, height: height}, true
}

// checkQuota reports whether replacing oldSize bytes with newSize keeps the
// user within their storage limit.
func (s *Server) checkQuota(w http.ResponseWriter, r *http.Request, user *models.User, oldSize, newSize int64) bool {
	used, err := s.store.GetStorageUsed(r.Context(), user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to compute storage usage")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return false
	}
	if used-oldSize+newSize > user.StorageLimit {
		s.metrics.uploads.WithLabelValues("quota_exceeded").Inc()
		http.Error(w, "Storage quota exceeded", http.StatusRequestEntityTooLarge)
		return false
	}
	return true
}

func (s *Server) loadOwnedFile(w http.ResponseWriter, r *http.Request, user *models.User) (*models.File, bool) {
	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid file id", http.StatusBadRequest)
		return nil, false
	}

	file, err := s.store.GetFileByID(r.Context(), id, user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("file_id", id).Error("failed to load file")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	if file == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return nil, false
	}
	return file, true
}

// @Summary      List files
// @Description  Lists the caller's files, newest first, with their share state.
// @Tags         files
// @Produce      json
// @Security     SessionCookie
// @Success      200  {array}   models.FileWithShare
// @Failure      401  {string}  string "Unauthorized"
// @Failure      403  {string}  string "Account locked"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /api/files [get]
func (s *Server) ListFilesHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	files, err := s.store.ListFilesByUser(r.Context(), user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to list files")
		http.Error(w, "Failed to list files", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// @Summary      Upload an SVG
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionCookie
// @Param        file  formData  file  true  "SVG file"
// @Success      201   {object}  models.File
// @Failure      400   {string}  string "No file provided / Only SVG allowed / File too large"
// @Failure      401   {string}  string "Unauthorized"
// @Failure      403   {string}  string "Account locked or pending approval"
// @Failure      413   {string}  string "Storage quota exceeded"
// @Failure      500   {string}  string "Internal Server Error"
// @Router       /api/files [post]
func (s *Server) UploadFileHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	up, ok := s.readUpload(w, r)
	if !ok {
		s.metrics.uploads.WithLabelValues("rejected").Inc()
		return
	}
	size := int64(len(up.content))

	if !s.checkQuota(w, r, user, 0, size) {
		return
	}

	storageKey := uuid.NewString()
	if err := s.storage.Put(r.Context(), user.ID, storageKey, bytes.NewReader(up.content), size, svg.ContentType); err != nil {
		s.logger.WithError(err).WithField("user_id", user.ID).Error("failed to store upload")
		s.metrics.uploads.WithLabelValues("error").Inc()
		http.Error(w, "Failed to store file", http.StatusInternalServerError)
		return
	}

	file, err := s.store.CreateFile(r.Context(), database.CreateFileParams{
		UserID:     user.ID,
		Filename:   up.filename,
		Size:       size,
		StorageKey: storageKey,
		Width:      up.width,
		Height:     up.height,
	})
	if err != nil {
		log := s.logger.WithFields(logrus.Fields{"user_id": user.ID, "storage_key": storageKey})
		log.WithError(err).Error("failed to create file record")
		if delErr := s.storage.Delete(r.Context(), user.ID, storageKey); delErr != nil {
			log.WithError(delErr).Warn("failed to remove orphaned blob")
		}
		s.metrics.uploads.WithLabelValues("error").Inc()
		http.Error(w, "Failed to create file record", http.StatusInternalServerError)
		return
	}

	s.metrics.uploads.WithLabelValues("created").Inc()
	s.publish(user.ID, websocket.Event{Type: websocket.EventFileCreated, FileID: file.ID})
	writeJSON(w, http.StatusCreated, file)
}

// @Summary      Delete a file
// @Description  Removes the blob, then the file row and its share.
// @Tags         files
// @Security     SessionCookie
// @Param        id   path      int  true  "File ID"
// @Success      204
// @Failure      400  {string}  string "Invalid file id"
// @Failure      403  {string}  string "Account locked or pending approval"
// @Failure      404  {string}  string "Not Found"
// @Failure      500  {string}  string "Internal Server Error"
// @Router       /api/files/{id} [delete]
func (s *Server) DeleteFileHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	file, ok := s.loadOwnedFile(w, r, user)
	if !ok {
		return
	}

	if err := s.storage.Delete(r.Context(), user.ID, file.StorageKey); err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Error("failed to delete blob")
		http.Error(w, "Failed to delete file", http.StatusInternalServerError)
		return
	}

	deleted, err := s.store.DeleteFile(r.Context(), file.ID, user.ID)
	if err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Error("failed to delete file record")
		http.Error(w, "Failed to delete file", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	s.publish(user.ID, websocket.Event{Type: websocket.EventFileDeleted, FileID: file.ID})
	w.WriteHeader(http.StatusNoContent)
}

// @Summary      Download file content
// @Tags         files
// @Produce      image/svg+xml
// @Security     SessionCookie
// @Param        id   path      int  true  "File ID"
// @Success      200  {file}    binary
// @Success      304
// @Failure      404  {string}  string "Not Found / File Missing"
// @Router       /api/files/{id}/content [get]
func (s *Server) GetFileContentHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	file, ok := s.loadOwnedFile(w, r, user)
	if !ok {
		return
	}

	obj, err := s.storage.Get(r.Context(), user.ID, file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "File Missing", http.StatusNotFound)
			return
		}
		s.logger.WithError(err).WithField("file_id", file.ID).Error("failed to open blob")
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	if err := writeBlob(w, r, obj, file.Filename); err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Warn("blob stream interrupted")
	}
}

// @Summary      Replace file content
// @Description  Overwrites the blob in place and refreshes size and dimensions.
// @Tags         files
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionCookie
// @Param        id    path      int   true  "File ID"
// @Param        file  formData  file  true  "SVG file"
// @Success      200   {object}  models.File
// @Failure      400   {string}  string "Only SVG allowed / File too large"
// @Failure      404   {string}  string "Not Found"
// @Failure      413   {string}  string "Storage quota exceeded"
// @Router       /api/files/{id}/content [put]
func (s *Server) ReplaceFileContentHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	file, ok := s.loadOwnedFile(w, r, user)
	if !ok {
		return
	}

	up, ok := s.readUpload(w, r)
	if !ok {
		s.metrics.uploads.WithLabelValues("rejected").Inc()
		return
	}
	size := int64(len(up.content))

	if !s.checkQuota(w, r, user, file.Size, size) {
		return
	}

	if err := s.storage.Put(r.Context(), user.ID, file.StorageKey, bytes.NewReader(up.content), size, svg.ContentType); err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Error("failed to overwrite blob")
		s.metrics.uploads.WithLabelValues("error").Inc()
		http.Error(w, "Failed to store file", http.StatusInternalServerError)
		return
	}

	updated, err := s.store.UpdateFileContent(r.Context(), database.UpdateFileContentParams{
		ID:      file.ID,
		OwnerID: user.ID,
		Size:    size,
		Width:   up.width,
		Height:  up.height,
	})
	if err != nil {
		s.logger.WithError(err).WithField("file_id", file.ID).Error("failed to update file record")
		s.metrics.uploads.WithLabelValues("error").Inc()
		http.Error(w, "Failed to update file record", http.StatusInternalServerError)
		return
	}
	if updated == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	s.metrics.uploads.WithLabelValues("replaced").Inc()
	s.publish(user.ID, websocket.Event{Type: websocket.EventFileUpdated, FileID: updated.ID})
	writeJSON(w, http.StatusOK, updated)
}

type RenameFileRequest struct {
	Filename string `json:"filename" example:"logo.svg"`
}

// @Summary      Rename a file
// @Tags         files
// @Accept       json
// @Produce      json
// @Security     SessionCookie
// @Param        id       path      int                true  "File ID"
// @Param        request  body      RenameFileRequest  true  "New name"
// @Success      200      {object}  models.File
// @Failure      400      {string}  string "Filename must end with .svg"
// @Failure      404      {string}  string "Not Found"
// @Router       /api/files/{id} [patch]
func (s *Server) RenameFileHandler(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, ok := parseIDParam(r, "id")
	if !ok {
		http.Error(w, "Invalid file id", http.StatusBadRequest)
		return
	}

	var req RenameFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	filename := strings.TrimSpace(req.Filename)
	switch {
	case filename == "":
		http.Error(w, "Filename is required", http.StatusBadRequest)
		return
	case strings.ContainsAny(filename, `/\`):
		http.Error(w, "Invalid filename", http.StatusBadRequest)
		return
	case len(filename) > maxFilenameLength:
		http.Error(w, "Filename too long", http.StatusBadRequest)
		return
	case !strings.EqualFold(filepath.Ext(filename), ".svg"):
		http.Error(w, "Filename must end with .svg", http.StatusBadRequest)
		return
	}

	file, err := s.store.RenameFile(r.Context(), id, user.ID, filename)
	if err != nil {
		s.logger.WithError(err).WithField("file_id", id).Error("failed to rename file")
		http.Error(w, "Failed to rename file", http.StatusInternalServerError)
		return
	}
	if file == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	s.publish(user.ID, websocket.Event{Type: websocket.EventFileUpdated, FileID: file.ID})
	writeJSON(w, http.StatusOK, file)
}
