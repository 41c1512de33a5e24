package impl

import (
	"context"
	"fmt"
	"log/slog"

	deliverycontext "quill/internal/delivery/context"
	"quill/internal/domain/entity"
	domainerrors "quill/internal/domain/errors"
	"quill/internal/domain/repository"
	"quill/internal/errors"
	"quill/internal/usecase"
	"quill/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

type postService struct {
	txManager repository.TransactionManager
	postRepo  repository.PostRepository
	logger    *slog.Logger
}

// PostServiceParams holds dependencies for PostService, injected by Fx.
type PostServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	PostRepo  repository.PostRepository
	Logger    *slog.Logger
}

func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		txManager: params.TxManager,
		postRepo:  params.PostRepo,
		logger:    params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *postService) fail(ctx context.Context, msg string, err error, attrs ...any) error {
	logFailure(srv.log(ctx), msg, err, attrs...)

	return err
}

// List returns one page of posts, newest first.
func (srv *postService) List(ctx context.Context, input *usecase.ListPostsInput) (*usecase.PostPage, error) {
	page, size := util.NormalizePage(input.Page, input.Size)

	total, err := srv.postRepo.Count(ctx)
	if err != nil {
		return nil, srv.fail(ctx, "Failed to count posts", domainerrors.NewInternalError(err))
	}

	meta := util.NewPageMeta(total, page, size)
	if meta.PastEnd() {
		return usecase.NewPostPage(nil, meta), nil
	}

	posts, err := srv.postRepo.List(ctx, util.Offset(page, size), size)
	if err != nil {
		return nil, srv.fail(ctx, "Failed to list posts", domainerrors.NewInternalError(err), slog.Int("page", page), slog.Int("size", size))
	}

	return usecase.NewPostPage(posts, meta), nil
}

func (srv *postService) Get(ctx context.Context, id uuid.UUID) (*usecase.PostView, error) {
	post, err := srv.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, srv.fail(ctx, "Failed to get post", postFailure(err, id, nil), slog.Any("postID", id))
	}

	return usecase.NewPostView(post), nil
}

// Create stores a post owned by authorID. The author must still exist.
func (srv *postService) Create(ctx context.Context, authorID uuid.UUID, input *usecase.CreatePostInput) (*usecase.PostView, error) {
	post := &entity.Post{
		AuthorID:  authorID,
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
	}

	if err := srv.postRepo.Create(ctx, post); err != nil {
		return nil, srv.fail(ctx, "Failed to create post", postFailure(err, post.ID, authorID), slog.Any("authorID", authorID))
	}

	srv.log(ctx).Info("Post created", slog.Any("postID", post.ID), slog.Any("authorID", authorID))

	return usecase.NewPostView(post), nil
}

// Update applies a partial update. Only the author may change a post.
func (srv *postService) Update(ctx context.Context, actorID, id uuid.UUID, input *usecase.UpdatePostInput) (*usecase.PostView, error) {
	patch := entity.PostPatch{
		Title:     input.Title,
		Body:      input.Body,
		Published: input.Published,
	}

	var updated *entity.Post
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		if err := srv.authorize(ctx, postRepo, actorID, id); err != nil {
			return err
		}

		var err error
		updated, err = postRepo.Update(ctx, id, patch)
		if err != nil {
			return errors.Wrap(err, "failed to update post")
		}

		return nil
	})
	if err != nil {
		return nil, srv.fail(ctx, "Failed to update post", postFailure(err, id, actorID), slog.Any("postID", id))
	}

	srv.log(ctx).Info("Post updated", slog.Any("postID", id))

	return usecase.NewPostView(updated), nil
}

func (srv *postService) Delete(ctx context.Context, actorID, id uuid.UUID) (*usecase.DeleteOutput, error) {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		postRepo := repoFactory.PostRepo()

		if err := srv.authorize(ctx, postRepo, actorID, id); err != nil {
			return err
		}

		return errors.Wrap(postRepo.Delete(ctx, id), "failed to delete post")
	})
	if err != nil {
		return nil, srv.fail(ctx, "Failed to delete post", postFailure(err, id, actorID), slog.Any("postID", id))
	}

	srv.log(ctx).Info("Post deleted", slog.Any("postID", id))

	return &usecase.DeleteOutput{Message: fmt.Sprintf("Post %s deleted", id)}, nil
}

// authorize loads the post and checks that actorID wrote it.
func (srv *postService) authorize(ctx context.Context, postRepo repository.PostRepository, actorID, id uuid.UUID) error {
	post, err := postRepo.FindByID(ctx, id)
	if err != nil {
		return errors.Wrap(err, "failed to find post")
	}

	if post.AuthorID != actorID {
		return errors.Wrap(domainerrors.ErrForbidden, "only the author may modify a post")
	}

	return nil
}
