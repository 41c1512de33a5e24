package entity

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry owned by the user referenced by AuthorID.
type Post struct {
	ID        uuid.UUID
	AuthorID  uuid.UUID
	Title     string
	Body      string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostPatch carries the fields of a partial update. Nil fields are left unchanged.
type PostPatch struct {
	Title     *string
	Body      *string
	Published *bool
}

func (p PostPatch) IsEmpty() bool {
	return p.Title == nil && p.Body == nil && p.Published == nil
}
