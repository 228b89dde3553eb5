package models

import "time"

// EngagementKind selects the membership relation a toggle operates on.
type EngagementKind string

const (
	EngagementLike EngagementKind = "like"
	EngagementJoin EngagementKind = "join"
)

// Table returns the relation table for the kind.
func (k EngagementKind) Table() string {
	if k == EngagementJoin {
		return Join{}.TableName()
	}
	return Like{}.TableName()
}

// Counter returns the post counter kept in sync with the relation.
func (k EngagementKind) Counter() Counter {
	if k == EngagementJoin {
		return CounterParticipants
	}
	return CounterLikes
}

// Engagement is one (post, user) membership row in likes or joins. seq is
// assigned by the database and orders rows that share a created_at.
type Engagement struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like records that UserID likes PostID.
// The combination of PostID and UserID must be unique.
type Like struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	PostID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_post_user,priority:1" json:"postId"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_likes_post_user,priority:2" json:"userId"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Like) TableName() string {
	return "likes"
}

// Join records that UserID participates in the playdate PostID.
// The combination of PostID and UserID must be unique.
type Join struct {
	Seq       int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	PostID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_joins_post_user,priority:1" json:"postId"`
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_joins_post_user,priority:2" json:"userId"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName specifies the table name for GORM.
func (Join) TableName() string {
	return "joins"
}
