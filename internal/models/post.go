// Package models contains data structures for the application's domain models.
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Variant distinguishes the two kinds of post sharing the posts table.
type Variant string

const (
	// VariantCommunity is a general pet-owner post.
	VariantCommunity Variant = "community"
	// VariantPlaydate is a scheduled meetup post that users can join.
	VariantPlaydate Variant = "playdate"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	return v == VariantCommunity || v == VariantPlaydate
}

// Counter names a denormalized count column on posts.
type Counter string

const (
	CounterLikes        Counter = "likes"
	CounterComments     Counter = "comments"
	CounterParticipants Counter = "participants"
)

// Column returns the posts column backing the counter. Only the fixed set
// above is ever interpolated into SQL.
func (c Counter) Column() string {
	switch c {
	case CounterLikes, CounterComments, CounterParticipants:
		return string(c)
	}
	return ""
}

// EditHistory is the append-only list of prior text values, oldest first.
type EditHistory []string

// Append returns the history with prev added at the end.
func (h EditHistory) Append(prev string) EditHistory {
	out := make(EditHistory, len(h), len(h)+1)
	copy(out, h)
	return append(out, prev)
}

// Value stores the history as a JSON array.
func (h EditHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSON array column; NULL yields an empty history.
func (h *EditHistory) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*h = EditHistory{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("edit history: unsupported column type %T", src)
	}
	out := EditHistory{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("edit history: %w", err)
		}
	}
	*h = out
	return nil
}

// GeoLocation is the geocoded position of a playdate.
type GeoLocation struct {
	Lat      float64   `json:"lat"`
	Lng      float64   `json:"lng"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// Viewport is an optional bounding box returned by the geocoder.
type Viewport struct {
	NorthEast LatLng `json:"northeast"`
	SouthWest LatLng `json:"southwest"`
}

// LatLng is a single coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Post represents a community or playdate post.
type Post struct {
	Seq         int64       `gorm:"primaryKey;autoIncrement" json:"-"`
	ID          string      `gorm:"type:varchar(36);not null;uniqueIndex" json:"id"`
	Variant     Variant     `gorm:"type:varchar(16);not null;index:idx_posts_variant_created,priority:1" json:"variant"`
	AuthorID    string      `gorm:"type:varchar(64);not null;index" json:"authorId"`
	Description string      `gorm:"type:text;not null" json:"description"`
	Edits       EditHistory `gorm:"type:text;not null;default:'[]'" json:"edits"`
	ImageURL    string      `gorm:"type:text" json:"imageUrl,omitempty"`

	Likes        int64 `gorm:"not null;default:0" json:"likes"`
	Comments     int64 `gorm:"not null;default:0" json:"comments"`
	Participants int64 `gorm:"not null;default:0" json:"participants"`

	// community
	PetType  string `gorm:"type:varchar(64)" json:"petType,omitempty"`
	Category string `gorm:"type:varchar(64)" json:"category,omitempty"`

	// playdate
	Title    string       `gorm:"type:varchar(200)" json:"title,omitempty"`
	DogBreed string       `gorm:"type:varchar(120)" json:"dogBreed,omitempty"`
	Address  string       `gorm:"type:varchar(255)" json:"address,omitempty"`
	City     string       `gorm:"type:varchar(120)" json:"city,omitempty"`
	State    string       `gorm:"type:varchar(64)" json:"state,omitempty"`
	Zip      string       `gorm:"type:varchar(16)" json:"zip,omitempty"`
	WhenAt   *time.Time   `json:"whenAt,omitempty"`
	Place    string       `gorm:"type:varchar(255)" json:"place,omitempty"`
	Location *GeoLocation `gorm:"type:text;serializer:json" json:"location,omitempty"`

	CreatedAt time.Time `gorm:"not null;index:idx_posts_variant_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// LikedByMe is computed for the requesting user; not persisted
	LikedByMe *bool `gorm:"-" json:"likedByMe,omitempty"`
	// JoinedByMe is computed for the requesting user on playdates; not persisted
	JoinedByMe *bool `gorm:"-" json:"joinedByMe,omitempty"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// IsPlaydate reports whether the post accepts joins.
func (p *Post) IsPlaydate() bool {
	return p.Variant == VariantPlaydate
}
