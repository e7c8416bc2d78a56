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

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// userUpdateFields whitelists the columns a typed update command may touch.
var userUpdateFields = map[string]fieldKind{
	"password_hash":       fieldScalar,
	"bio":                 fieldScalar,
	"first_name":          fieldScalar,
	"last_name":           fieldScalar,
	"avatar":              fieldScalar,
	"avatar_updated_at":   fieldScalar,
	"verified":            fieldScalar,
	"password_updated_at": fieldScalar,
	"tokens_denylist":     fieldJSONBArray,
	"followers":           fieldTextArray,
	"followings":          fieldTextArray,
	"posts":               fieldTextArray,
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.UserID == "" {
		user.UserID = uuid.New().String()
	}
	if user.TokensDenylist == nil {
		user.TokensDenylist = models.DenylistedTokens{}
	}
	if user.Followers == nil {
		user.Followers = pq.StringArray{}
	}
	if user.Followings == nil {
		user.Followings = pq.StringArray{}
	}
	if user.Posts == nil {
		user.Posts = pq.StringArray{}
	}

	query := `
		INSERT INTO users (user_id, username, email, password_hash, first_name, last_name, bio, avatar,
			avatar_updated_at, verified, tokens_denylist, password_updated_at, followers, followings, posts)
		VALUES (:user_id, :username, :email, :password_hash, :first_name, :last_name, :bio, :avatar,
			:avatar_updated_at, :verified, :tokens_denylist, :password_updated_at, :followers, :followings, :posts)
	`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if mapped := mapUserConflict(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getUserByField(ctx, "user_id", userID)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUserByField(ctx, "email", email)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUserByField(ctx, "username", username)
}

func (r *userRepository) getUserByField(ctx context.Context, field, value string) (*models.User, error) {
	var user models.User

	query := fmt.Sprintf(`SELECT * FROM users WHERE %s = $1`, field)

	err := r.db.GetContext(ctx, &user, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", field, err)
	}

	return &user, nil
}

func (r *userRepository) GetUsersByIDs(ctx context.Context, userIDs []string, pagination Pagination) ([]*models.User, error) {
	pagination = pagination.Normalize()

	var users []*models.User

	query := `
		SELECT * FROM users
		WHERE user_id = ANY($1)
		AND ($2 = '' OR created_at < (SELECT created_at FROM users WHERE user_id = $2))
		ORDER BY created_at DESC, user_id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &users, query, pq.StringArray(userIDs), pagination.LastDocumentID, pagination.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}

	return users, nil
}

func (r *userRepository) SearchUsersByUsername(ctx context.Context, usernamePrefix string, pagination Pagination) ([]*models.User, error) {
	pagination = pagination.Normalize()

	var users []*models.User

	query := `
		SELECT * FROM users
		WHERE username LIKE $1 || '%'
		AND ($2 = '' OR created_at < (SELECT created_at FROM users WHERE user_id = $2))
		ORDER BY created_at DESC, user_id DESC
		LIMIT $3
	`

	err := r.db.SelectContext(ctx, &users, query, usernamePrefix, pagination.LastDocumentID, pagination.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// PruneDenylistedTokens filters expired entries out of the jsonb denylist
// in place. The filter runs inside the UPDATE so entries appended by a
// concurrent sign-out or rotation are never overwritten.
func (r *userRepository) PruneDenylistedTokens(ctx context.Context, userID string, nowUnix int64) error {
	query := `UPDATE users SET updated_at = NOW(), tokens_denylist = COALESCE((SELECT jsonb_agg(entry) FROM jsonb_array_elements(tokens_denylist) AS entry WHERE (entry->>'expiresIn')::bigint > $2), '[]'::jsonb) WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, nowUnix)
	if err != nil {
		return fmt.Errorf("failed to prune tokens denylist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to prune tokens denylist: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *userRepository) UpdateUser(ctx context.Context, userID string, cmd *UpdateCommand) (*models.User, error) {
	query, args, err := buildUpdateSQL("users", "user_id", userID, userUpdateFields, cmd)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.GetContext(ctx, &user, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}
