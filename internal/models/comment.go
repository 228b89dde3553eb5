package models

import "time"

// Comment is a reply attached to a single post.
type Comment struct {
	// Seq is the insertion sequence used to break createdAt ties.
	Seq       int64       `gorm:"primaryKey;autoIncrement" json:"-"`
	ID        string      `gorm:"type:varchar(36);not null;uniqueIndex" json:"id"`
	PostID    string      `gorm:"type:varchar(36);not null;index:idx_comments_post_created,priority:1" json:"postId"`
	AuthorID  string      `gorm:"type:varchar(64);not null" json:"authorId"`
	Username  string      `gorm:"type:varchar(120)" json:"username"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Edits     EditHistory `gorm:"type:text;not null;default:'[]'" json:"edits"`
	CreatedAt time.Time   `gorm:"not null;index:idx_comments_post_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}

// CommentOrder selects the listing direction for a thread.
type CommentOrder string

const (
	CommentOrderNewest CommentOrder = "newest"
	CommentOrderOldest CommentOrder = "oldest"
)

// ParseCommentOrder maps a query value to an order, defaulting to newest first.
func ParseCommentOrder(raw string) CommentOrder {
	if CommentOrder(raw) == CommentOrderOldest {
		return CommentOrderOldest
	}
	return CommentOrderNewest
}
