package postgres

import (
	"context"

	"quill/internal/domain/entity"
	"quill/internal/domain/repository"
	"quill/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository is the constructor for postRepository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (repo *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var postM model.PostModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&postM).Error; err != nil {
		return nil, classify("find post by id", err)
	}

	return model.ToPostDomain(&postM), nil
}

// List orders by created_at then id so pages are stable under equal timestamps.
func (repo *postRepository) List(ctx context.Context, offset, limit int) ([]*entity.Post, error) {
	var postMs []*model.PostModel
	err := repo.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&postMs).Error
	if err != nil {
		return nil, classify("list posts", err)
	}

	posts := make([]*entity.Post, 0, len(postMs))
	for _, postM := range postMs {
		posts = append(posts, model.ToPostDomain(postM))
	}

	return posts, nil
}

func (repo *postRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&model.PostModel{}).Count(&total).Error; err != nil {
		return 0, classify("count posts", err)
	}

	return total, nil
}

func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postM := model.FromPostDomain(post)

	if err := repo.db.WithContext(ctx).Create(postM).Error; err != nil {
		return classify("create post", err)
	}

	post.ID = postM.ID
	post.CreatedAt = postM.CreatedAt
	post.UpdatedAt = postM.UpdatedAt

	return nil
}

func (repo *postRepository) Update(ctx context.Context, id uuid.UUID, patch entity.PostPatch) (*entity.Post, error) {
	if !patch.IsEmpty() {
		result := repo.db.WithContext(ctx).
			Model(&model.PostModel{}).
			Where("id = ?", id).
			Updates(model.PostPatchColumns(patch))
		if result.Error != nil {
			return nil, classify("update post", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, notFound("update post")
		}
	}

	return repo.FindByID(ctx, id)
}

func (repo *postRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PostModel{})
	if result.Error != nil {
		return classify("delete post", result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound("delete post")
	}

	return nil
}
