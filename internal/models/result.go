package models

// Result is the soft-failure status returned by edit and delete operations.
type Result struct {
	Success bool `json:"success"`
}

// PostEdit is the outcome of editing a post's description.
type PostEdit struct {
	Success bool  `json:"success"`
	Post    *Post `json:"post,omitempty"`
}

// CommentEdit is the outcome of editing a comment's content.
type CommentEdit struct {
	Success bool     `json:"success"`
	Comment *Comment `json:"comment,omitempty"`
}
