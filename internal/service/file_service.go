package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fouad-abdeen/SocialApp-Server/internal/repository"
	"github.com/fouad-abdeen/SocialApp-Server/internal/storage"
)

type FileService interface {
	GetFileURL(ctx context.Context, fileID string) (string, error)
}

type fileService struct {
	fileRepo repository.FileRepository
	storage  storage.Storage
}

func NewFileService(fileRepo repository.FileRepository, blobStorage storage.Storage) FileService {
	return &fileService{fileRepo: fileRepo, storage: blobStorage}
}

// GetFileURL returns a fresh signed URL for the stored object. The file
// record keeps the last issued URL; refreshing it is best-effort.
func (s *fileService) GetFileURL(ctx context.Context, fileID string) (string, error) {
	record, err := s.fileRepo.GetFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("%w: file not found", ErrNotFound)
		}
		return "", err
	}

	url, err := s.storage.GetImageURL(ctx, record.Key)
	if err != nil {
		return "", fmt.Errorf("signing file url: %w", err)
	}

	if err := s.fileRepo.UpdateFileURL(ctx, fileID, url); err != nil {
		log.Printf("failed to refresh url of file %s: %v", fileID, err)
	}

	return url, nil
}
