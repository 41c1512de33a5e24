package postgres

import (
	"context"
	"testing"
	"time"

	"quill/internal/domain/entity"
	"quill/internal/domain/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create_UnknownAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`INSERT INTO "posts"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "posts_author_id_fkey"})

	err := repo.Create(context.Background(), &entity.Post{AuthorID: uuid.New(), Title: "T", Body: "B"})

	assert.Equal(t, repository.KindForeignKeyViolation, repository.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`INSERT INTO "posts"`).WillReturnResult(sqlmock.NewResult(0, 1))

	post := &entity.Post{AuthorID: uuid.New(), Title: "T", Body: "B"}
	require.NoError(t, repo.Create(context.Background(), post))

	assert.NotEqual(t, uuid.Nil, post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListAndCount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	now := time.Now().UTC()
	author := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT \* FROM "posts" ORDER BY created_at DESC,id DESC LIMIT .* OFFSET .*`).
		WillReturnRows(sqlmock.NewRows(postColumns).
			AddRow(uuid.NewString(), author.String(), "second", "b2", true, now, now).
			AddRow(uuid.NewString(), author.String(), "first", "b1", false, now, now))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)

	posts, err := repo.List(context.Background(), 10, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "second", posts[0].Title)
	assert.Equal(t, author, posts[1].AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).WillReturnRows(sqlmock.NewRows(postColumns))

	post, err := repo.FindByID(context.Background(), uuid.New())

	assert.Nil(t, post)
	assert.Equal(t, repository.KindNotFound, repository.KindOf(err))
}

func TestPostRepository_Update_Published(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)
	id := uuid.New()
	now := time.Now().UTC()
	published := true

	mock.ExpectExec(`UPDATE "posts" SET .*"published"=`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(postColumns).AddRow(id.String(), uuid.NewString(), "T", "B", true, now, now))

	post, err := repo.Update(context.Background(), id, entity.PostPatch{Published: &published})

	require.NoError(t, err)
	assert.True(t, post.Published)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectExec(`DELETE FROM "posts" WHERE id = \$1`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())

	assert.Equal(t, repository.KindNotFound, repository.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
