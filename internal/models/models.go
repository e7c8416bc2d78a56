package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// DenylistedToken is a token that was invalidated before its natural expiry.
// ExpiresIn holds the token's exp claim in epoch seconds, so expired entries
// can be pruned from the list.
type DenylistedToken struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}

type DenylistedTokens []DenylistedToken

// Value marshals the list as a jsonb text literal. lib/pq would encode a
// []byte as bytea, so the value is returned as a string.
func (t DenylistedTokens) Value() (driver.Value, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (t *DenylistedTokens) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	case nil:
		*t = nil
		return nil
	}
	return fmt.Errorf("unsupported type for DenylistedTokens: %T", src)
}

// Contains reports whether the given token string is on the denylist,
// regardless of its expiry.
func (t DenylistedTokens) Contains(token string) bool {
	for _, entry := range t {
		if entry.Token == token {
			return true
		}
	}
	return false
}

// Prune returns the entries whose expiry is still in the future.
func (t DenylistedTokens) Prune(nowUnix int64) DenylistedTokens {
	alive := make(DenylistedTokens, 0, len(t))
	for _, entry := range t {
		if entry.ExpiresIn > nowUnix {
			alive = append(alive, entry)
		}
	}
	return alive
}

type User struct {
	UserID            string           `json:"userId" db:"user_id"`
	Username          string           `json:"username" db:"username"`
	Email             string           `json:"email" db:"email"`
	PasswordHash      string           `json:"-" db:"password_hash"`
	FirstName         string           `json:"firstName" db:"first_name"`
	LastName          string           `json:"lastName" db:"last_name"`
	Bio               string           `json:"bio" db:"bio"`
	Avatar            string           `json:"avatar" db:"avatar"`
	AvatarUpdatedAt   int64            `json:"avatarUpdatedAt" db:"avatar_updated_at"`
	Verified          bool             `json:"verified" db:"verified"`
	TokensDenylist    DenylistedTokens `json:"-" db:"tokens_denylist"`
	PasswordUpdatedAt int64            `json:"-" db:"password_updated_at"`
	Followers         pq.StringArray   `json:"followers" db:"followers"`
	Followings        pq.StringArray   `json:"followings" db:"followings"`
	Posts             pq.StringArray   `json:"posts" db:"posts"`
	CreatedAt         time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time        `json:"updatedAt" db:"updated_at"`
}

type Post struct {
	PostID    string         `json:"postId" db:"post_id"`
	UserID    string         `json:"userId" db:"user_id"`
	Content   string         `json:"content" db:"content"`
	Likes     pq.StringArray `json:"likes" db:"likes"`
	Comments  pq.StringArray `json:"comments" db:"comments"`
	Image     string         `json:"image" db:"image"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

type Comment struct {
	CommentID string         `json:"commentId" db:"comment_id"`
	UserID    string         `json:"userId" db:"user_id"`
	PostID    string         `json:"postId" db:"post_id"`
	Content   string         `json:"content" db:"content"`
	Likes     pq.StringArray `json:"likes" db:"likes"`
	Replies   pq.StringArray `json:"replies" db:"replies"`
	ReplyTo   string         `json:"replyTo" db:"reply_to"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

type File struct {
	FileID    string    `json:"fileId" db:"file_id"`
	Key       string    `json:"key" db:"key"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
