package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type NotificationAction string

const (
	ActionFollowRequest NotificationAction = "follow_request"
	ActionPostLike      NotificationAction = "post_like"
	ActionPostComment   NotificationAction = "post_comment"
	ActionCommentLike   NotificationAction = "comment_like"
	ActionCommentReply  NotificationAction = "comment_reply"
)

// Verb returns the action's verb segment, e.g. "like" for post_like.
func (a NotificationAction) Verb() string {
	parts := strings.SplitN(string(a), "_", 2)
	if len(parts) != 2 {
		return string(a)
	}
	return parts[1]
}

// PluralVerb returns the plural form of the action verb ("replies" for
// reply, otherwise verb+"s").
func (a NotificationAction) PluralVerb() string {
	verb := a.Verb()
	if verb == "reply" {
		return "replies"
	}
	return verb + "s"
}

type ContentType string

const (
	ContentTypePost    ContentType = "post"
	ContentTypeComment ContentType = "comment"
)

// NotificationActionMetadata describes what a notification is about.
// ActionDatabaseDocuments holds the ids of the acting entities already
// credited into the notification's count (liker user ids, reply comment
// ids), which is what makes repeat delivery and undo idempotent.
type NotificationActionMetadata struct {
	ActionDatabaseDocuments []string `json:"actionDatabaseDocuments,omitempty"`
	FollowerUsername        string   `json:"followerUsername,omitempty"`
	FollowingID             string   `json:"followingId,omitempty"`
	PostID                  string   `json:"postId,omitempty"`
	CommentID               string   `json:"commentId,omitempty"`
	ContentBrief            string   `json:"contentBrief,omitempty"`
}

func (m NotificationActionMetadata) Value() (driver.Value, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (m *NotificationActionMetadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = NotificationActionMetadata{}
		return nil
	}
	return fmt.Errorf("unsupported type for NotificationActionMetadata: %T", src)
}

// Credits reports whether the acting entity id is already counted into
// the notification.
func (m NotificationActionMetadata) Credits(id string) bool {
	for _, doc := range m.ActionDatabaseDocuments {
		if doc == id {
			return true
		}
	}
	return false
}

type Notification struct {
	NotificationID string                     `json:"notificationId" db:"notification_id"`
	UserID         string                     `json:"userId" db:"user_id"`
	Content        string                     `json:"content" db:"content"`
	Action         NotificationAction         `json:"action" db:"action"`
	ActionMetadata NotificationActionMetadata `json:"actionMetadata" db:"action_metadata"`
	IsRead         bool                       `json:"isRead" db:"is_read"`
	CreatedAt      time.Time                  `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time                  `json:"updatedAt" db:"updated_at"`
}
