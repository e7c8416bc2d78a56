package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
)

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) CreateFile(ctx context.Context, file *models.File) error {
	if file.FileID == "" {
		file.FileID = uuid.New().String()
	}

	query := `
		INSERT INTO files (file_id, key, url)
		VALUES (:file_id, :key, :url)
	`

	_, err := r.db.NamedExecContext(ctx, query, file)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	return nil
}

func (r *fileRepository) GetFileByID(ctx context.Context, fileID string) (*models.File, error) {
	var file models.File

	query := `SELECT * FROM files WHERE file_id = $1`

	err := r.db.GetContext(ctx, &file, query, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

func (r *fileRepository) UpdateFileURL(ctx context.Context, fileID, url string) error {
	query := `UPDATE files SET url = $1, updated_at = NOW() WHERE file_id = $2`

	result, err := r.db.ExecContext(ctx, query, url, fileID)
	if err != nil {
		return fmt.Errorf("failed to update file url: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update file url: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *fileRepository) DeleteFile(ctx context.Context, fileID string) error {
	query := `DELETE FROM files WHERE file_id = $1`

	result, err := r.db.ExecContext(ctx, query, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
