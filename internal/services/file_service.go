package services

import (
	"bytes"
	"context"
	"path"

	"userhub_backend/internal/storage"
	"userhub_backend/pkg/apperrors"
)

// FileService stores and removes profile images through the storage
// collaborator. Validation of size and content type happens in the
// validation pipeline before anything reaches this service.
type FileService interface {
	// SaveProfileImage persists raw image bytes under a random filename
	// and returns that filename.
	SaveProfileImage(ctx context.Context, data []byte) (string, error)

	// DeleteProfileImage removes a previously stored image; a missing file
	// is not an error.
	DeleteProfileImage(ctx context.Context, filename string) error
}

type fileService struct {
	storage    storage.Storage
	profileDir string
}

// NewFileService creates a new FileService writing under profileDir.
func NewFileService(st storage.Storage, profileDir string) FileService {
	return &fileService{
		storage:    st,
		profileDir: profileDir,
	}
}

func (s *fileService) SaveProfileImage(ctx context.Context, data []byte) (string, error) {
	filename := randomToken(32)
	if err := s.storage.Save(ctx, path.Join(s.profileDir, filename), bytes.NewReader(data)); err != nil {
		return "", apperrors.InternalError(err)
	}
	return filename, nil
}

func (s *fileService) DeleteProfileImage(ctx context.Context, filename string) error {
	if filename == "" {
		return nil
	}
	if err := s.storage.Delete(ctx, path.Join(s.profileDir, filename)); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
