package models

// Comment is owned by its parent article and has no lifecycle of its own
type Comment struct {
	ID          string `json:"id" db:"id"`
	CreatorID   string `json:"creatorId" db:"creator_id"`
	CreatorName string `json:"creatorName" db:"creator_name"`
	Text        string `json:"text" db:"text"`
	CreatedAt   string `json:"createdAt" db:"created_at"`
}

// CommentInput is the body of POST /article/:id/comment
type CommentInput struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}
