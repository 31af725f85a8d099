package models

// Article is a blog post together with its likes and embedded comments.
// CreatorID and CreatorName are a snapshot of the author at creation time.
type Article struct {
	ID          string    `json:"id" db:"id"`
	CreatorID   string    `json:"creatorId" db:"creator_id"`
	CreatorName string    `json:"creatorName" db:"creator_name"`
	Title       string    `json:"title" db:"title"`
	Text        string    `json:"text" db:"text"`
	CreatedAt   string    `json:"createdAt" db:"created_at"`
	EditedAt    *string   `json:"editedAt,omitempty" db:"edited_at"`
	Likes       []string  `json:"likes" db:"likes"`
	Comments    []Comment `json:"comments" db:"-"`
}

// HasLike reports whether userID is in the likes set
func (a *Article) HasLike(userID string) bool {
	for _, id := range a.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ArticleInput is the body of POST /article
type ArticleInput struct {
	Title     string `json:"title"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// ArticlePatch is the body of PATCH /article/:id; nil fields are left untouched
type ArticlePatch struct {
	Title    *string `json:"title"`
	Text     *string `json:"text"`
	EditedAt *string `json:"editedAt"`
}
