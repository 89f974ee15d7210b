package filestore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"golistarr/internal/models"
)

// Store is the file collaborator: uploaded list exports live as opaque blobs
// on disk with their metadata in the database.
type Store struct {
	dir    string
	db     *models.Database
	logger *logrus.Logger
}

// NewStore creates a disk-backed file store rooted at dir
func NewStore(dir string, db *models.Database, logger *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create file store directory: %w", err)
	}
	return &Store{dir: dir, db: db, logger: logger}, nil
}

// Save stores a new blob for a user and returns its metadata record
func (s *Store) Save(userID, name string, content []byte) (*models.File, error) {
	file := &models.File{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
		Size:   int64(len(content)),
	}

	if err := os.WriteFile(s.path(file.ID), content, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if err := s.db.CreateFile(file); err != nil {
		// roll back the blob so metadata and disk stay in step
		_ = os.Remove(s.path(file.ID))
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"file_id": file.ID,
		"size":    file.Size,
	}).Info("File stored")

	return file, nil
}

// GetOwned retrieves a file record if it exists and belongs to the user
func (s *Store) GetOwned(fileID, userID string) (*models.File, error) {
	file, err := s.db.GetFileByID(fileID)
	if err != nil {
		return nil, err
	}
	if file.UserID != userID {
		return nil, fmt.Errorf("file %s does not belong to user", fileID)
	}
	return file, nil
}

// Download returns the raw content of a stored blob
func (s *Store) Download(fileID string) (string, error) {
	content, err := os.ReadFile(s.path(fileID))
	if err != nil {
		return "", fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	return string(content), nil
}

// Delete removes the blob and its metadata
func (s *Store) Delete(fileID string) error {
	if err := os.Remove(s.path(fileID)); err != nil && !os.IsNotExist(err) {
		s.logger.WithError(err).WithField("file_id", fileID).Warn("Failed to remove file blob")
	}
	return s.db.DeleteFile(fileID)
}

func (s *Store) path(fileID string) string {
	return filepath.Join(s.dir, fileID)
}
