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

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

var postUpdateFields = map[string]fieldKind{
	"content":  fieldScalar,
	"image":    fieldScalar,
	"likes":    fieldTextArray,
	"comments": fieldTextArray,
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	if post.Likes == nil {
		post.Likes = pq.StringArray{}
	}
	if post.Comments == nil {
		post.Comments = pq.StringArray{}
	}

	query := `
		INSERT INTO posts (post_id, user_id, content, likes, comments, image)
		VALUES (:post_id, :user_id, :content, :likes, :comments, :image)
	`

	_, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *postRepository) GetPostByID(ctx context.Context, postID string) (*models.Post, error) {
	var post models.Post

	query := `SELECT * FROM posts WHERE post_id = $1`

	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) GetTimelinePosts(ctx context.Context, userIDs []string, pagination Pagination) ([]*models.Post, error) {
	pagination = pagination.Normalize()

	var posts []*models.Post

	query := `
		SELECT * FROM posts
		WHERE user_id = ANY($1)
		AND ($2 = '' OR created_at < (SELECT created_at FROM posts WHERE post_id = $2))
		ORDER BY created_at DESC, post_id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &posts, query, pq.StringArray(userIDs), pagination.LastDocumentID, pagination.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get timeline posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) GetUserPosts(ctx context.Context, userID string, pagination Pagination) ([]*models.Post, error) {
	pagination = pagination.Normalize()

	var posts []*models.Post

	query := `
		SELECT * FROM posts
		WHERE user_id = $1
		AND ($2 = '' OR created_at < (SELECT created_at FROM posts WHERE post_id = $2))
		ORDER BY created_at DESC, post_id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &posts, query, userID, pagination.LastDocumentID, pagination.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get user posts: %w", err)
	}

	return posts, nil
}

func (r *postRepository) UpdatePost(ctx context.Context, postID string, cmd *UpdateCommand) (*models.Post, error) {
	query, args, err := buildUpdateSQL("posts", "post_id", postID, postUpdateFields, cmd)
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = r.db.GetContext(ctx, &post, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return &post, nil
}

func (r *postRepository) DeletePost(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
