package usecase

import (
	"context"
	"time"

	"quill/internal/domain/entity"
	"quill/internal/util"

	"github.com/google/uuid"
)

// ListPostsInput selects one page. Zero or negative values fall back to the defaults.
type ListPostsInput struct {
	Page int `query:"page"`
	Size int `query:"size"`
}

// CreatePostInput defines the data required to publish a post.
type CreatePostInput struct {
	Title     string `json:"title" validate:"required,max=200"`
	Body      string `json:"body" validate:"required"`
	Published bool   `json:"published"`
}

// UpdatePostInput is a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body      *string `json:"body,omitempty" validate:"omitempty,min=1"`
	Published *bool   `json:"published,omitempty"`
}

type PostView struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"authorId"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewPostView(post *entity.Post) *PostView {
	return &PostView{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Body:      post.Body,
		Published: post.Published,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

// PageMeta is the navigation block returned with every listing.
type PageMeta struct {
	Total        int64 `json:"total"`
	CurrentPage  int   `json:"currentPage"`
	TotalPerPage int   `json:"totalPerPage"`
	LastPage     int   `json:"lastPage"`
	PrevPage     *int  `json:"prevPage"`
	NextPage     *int  `json:"nextPage"`
}

func newPageMeta(meta util.PageMeta) PageMeta {
	return PageMeta{
		Total:        meta.Total,
		CurrentPage:  meta.CurrentPage,
		TotalPerPage: meta.TotalPerPage,
		LastPage:     meta.LastPage,
		PrevPage:     meta.PrevPage,
		NextPage:     meta.NextPage,
	}
}

// PostPage is one page of posts plus its navigation metadata.
type PostPage struct {
	Data []*PostView `json:"data"`
	Meta PageMeta    `json:"meta"`
}

// NewPostPage builds a page from the rows and the computed metadata.
func NewPostPage(posts []*entity.Post, meta util.PageMeta) *PostPage {
	views := make([]*PostView, 0, len(posts))
	for _, post := range posts {
		views = append(views, NewPostView(post))
	}

	return &PostPage{Data: views, Meta: newPageMeta(meta)}
}

// PostUsecase defines the post CRUD operations. Mutations take the acting user's id.
type PostUsecase interface {
	List(ctx context.Context, input *ListPostsInput) (*PostPage, error)
	Get(ctx context.Context, id uuid.UUID) (*PostView, error)
	Create(ctx context.Context, authorID uuid.UUID, input *CreatePostInput) (*PostView, error)
	Update(ctx context.Context, actorID, id uuid.UUID, input *UpdatePostInput) (*PostView, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) (*DeleteOutput, error)
}
