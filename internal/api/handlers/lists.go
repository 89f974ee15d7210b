package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"golistarr/internal/controllers"
)

// ListsHandler handles list CRUD requests
type ListsHandler struct {
	listCtrl *controllers.ListController
	logger   *logrus.Logger
}

// NewListsHandler creates a new lists handler
func NewListsHandler(listCtrl *controllers.ListController, logger *logrus.Logger) *ListsHandler {
	return &ListsHandler{listCtrl: listCtrl, logger: logger}
}

// createListRequest is the POST /api/lists payload
type createListRequest struct {
	Name   string `json:"name"`
	FileID string `json:"fileId"`
}

// Create handles POST /api/lists
func (h *ListsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	var req createListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.FileID == "" {
		http.Error(w, "name and fileId are required", http.StatusBadRequest)
		return
	}

	list, err := h.listCtrl.Create(req.Name, req.FileID, user)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

// Get handles GET /api/lists/{id}
func (h *ListsHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	list, err := h.listCtrl.Get(r.PathValue("id"), user)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// List handles GET /api/lists
func (h *ListsHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	page, limit := pageParams(r)
	result, err := h.listCtrl.List(user, r.URL.Query().Get("name"), page, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Delete handles DELETE /api/lists/{id}
func (h *ListsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.listCtrl.Delete(r.PathValue("id"), user); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
