package controllers

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"golistarr/internal/models"
	"golistarr/internal/services/filestore"
)

// ErrForbidden is returned when a referenced resource exists but does not
// belong to the caller, or does not exist at all
var ErrForbidden = errors.New("file not found or access denied")

// Paged wraps a page of results with pagination metadata
type Paged struct {
	Results      interface{} `json:"results"`
	TotalPages   int         `json:"totalPages"`
	Page         int         `json:"page"`
	TotalResults int64       `json:"totalResults"`
}

func newPaged(results interface{}, page, limit int, total int64) *Paged {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Paged{
		Results:      results,
		TotalPages:   totalPages,
		Page:         page,
		TotalResults: total,
	}
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// normalizePage clamps pagination parameters: page >= 1, 1 <= limit <= cap
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// ListController owns list CRUD. Creation always succeeds once the file
// check passes; processing runs asynchronously on the import workers.
type ListController struct {
	db         *models.Database
	files      *filestore.Store
	importCtrl *ImportController
	logger     *logrus.Logger
}

// NewListController creates a new list controller
func NewListController(db *models.Database, files *filestore.Store, importCtrl *ImportController, logger *logrus.Logger) *ListController {
	return &ListController{
		db:         db,
		files:      files,
		importCtrl: importCtrl,
		logger:     logger,
	}
}

// Create makes a new list in PROCESSING state and enqueues its import
func (c *ListController) Create(name, fileID, userID string) (*models.List, error) {
	if _, err := c.files.GetOwned(fileID, userID); err != nil {
		return nil, ErrForbidden
	}

	list := &models.List{
		ID:     uuid.NewString(),
		Name:   name,
		FileID: fileID,
		UserID: userID,
		Status: models.ListStatusProcessing,
	}
	if err := c.db.CreateList(list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	c.importCtrl.Enqueue(list.ID)

	c.logger.WithFields(logrus.Fields{
		"list_id": list.ID,
		"name":    name,
	}).Info("List created, import enqueued")

	return list, nil
}

// Get retrieves one of the caller's lists
func (c *ListController) Get(id, userID string) (*models.List, error) {
	return c.db.GetListForUser(id, userID)
}

// List retrieves the caller's lists, newest first, optionally name-filtered
func (c *ListController) List(userID, name string, page, limit int) (*Paged, error) {
	page, limit = normalizePage(page, limit)
	lists, total, err := c.db.GetLists(userID, name, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return newPaged(lists, page, limit, total), nil
}

// Delete removes one of the caller's lists along with its items and backing
// file. Shared media items stay behind for the orphan sweep.
func (c *ListController) Delete(id, userID string) error {
	list, err := c.db.GetListForUser(id, userID)
	if err != nil {
		return err
	}

	if err := c.files.Delete(list.FileID); err != nil {
		c.logger.WithError(err).WithField("file_id", list.FileID).Warn("Failed to delete list file")
	}

	return c.db.DeleteList(list.ID)
}
