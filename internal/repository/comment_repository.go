package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fouad-abdeen/SocialApp-Server/internal/models"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

var commentUpdateFields = map[string]fieldKind{
	"content": fieldScalar,
	"likes":   fieldTextArray,
	"replies": fieldTextArray,
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}
	if comment.Likes == nil {
		comment.Likes = pq.StringArray{}
	}
	if comment.Replies == nil {
		comment.Replies = pq.StringArray{}
	}

	query := `
		INSERT INTO comments (comment_id, user_id, post_id, content, likes, replies, reply_to)
		VALUES (:comment_id, :user_id, :post_id, :content, :likes, :replies, :reply_to)
	`

	_, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *commentRepository) GetCommentByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment

	query := `SELECT * FROM comments WHERE comment_id = $1`

	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) GetPostComments(ctx context.Context, postID string, pagination Pagination) ([]*models.Comment, error) {
	pagination = pagination.Normalize()

	var comments []*models.Comment

	// Top-level comments only, replies are fetched per parent comment.
	query := `
		SELECT * FROM comments
		WHERE post_id = $1 AND reply_to = ''
		AND ($2 = '' OR created_at < (SELECT created_at FROM comments WHERE comment_id = $2))
		ORDER BY created_at DESC, comment_id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &comments, query, postID, pagination.LastDocumentID, pagination.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get post comments: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) GetCommentReplies(ctx context.Context, commentID string, pagination Pagination) ([]*models.Comment, error) {
	pagination = pagination.Normalize()

	var replies []*models.Comment

	query := `
		SELECT * FROM comments
		WHERE reply_to = $1
		AND ($2 = '' OR created_at < (SELECT created_at FROM comments WHERE comment_id = $2))
		ORDER BY created_at DESC, comment_id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &replies, query, commentID, pagination.LastDocumentID, pagination.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment replies: %w", err)
	}

	return replies, nil
}

func (r *commentRepository) UpdateComment(ctx context.Context, commentID string, cmd *UpdateCommand) (*models.Comment, error) {
	query, args, err := buildUpdateSQL("comments", "comment_id", commentID, commentUpdateFields, cmd)
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	err = r.db.GetContext(ctx, &comment, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) DeleteComment(ctx context.Context, commentID string) error {
	query := `DELETE FROM comments WHERE comment_id = $1`

	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *commentRepository) DeletePostComments(ctx context.Context, postID string) error {
	query := `DELETE FROM comments WHERE post_id = $1`

	_, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post comments: %w", err)
	}

	return nil
}

func (r *commentRepository) DeleteCommentReplies(ctx context.Context, commentID string) error {
	query := `DELETE FROM comments WHERE reply_to = $1`

	_, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment replies: %w", err)
	}

	return nil
}
