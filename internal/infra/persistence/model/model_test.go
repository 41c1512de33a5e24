package model

import (
	"testing"

	"quill/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserModel_BeforeCreateAssignsV7(t *testing.T) {
	m := &UserModel{Email: "a@x.com"}
	require.NoError(t, m.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, uuid.Version(7), m.ID.Version())

	preset := uuid.New()
	m = &UserModel{ID: preset}
	require.NoError(t, m.BeforeCreate(nil))
	assert.Equal(t, preset, m.ID)
}

func TestUserPatchColumns_OnlySetFields(t *testing.T) {
	name := "B"
	hash := "$2a$10$digest"

	columns := UserPatchColumns(entity.UserPatch{Name: &name, PasswordHash: &hash})

	assert.Equal(t, map[string]any{"name": "B", "password_hash": hash}, columns)
	assert.Empty(t, UserPatchColumns(entity.UserPatch{}))
}

func TestPostPatchColumns_KeepsFalse(t *testing.T) {
	published := false

	columns := PostPatchColumns(entity.PostPatch{Published: &published})

	assert.Equal(t, map[string]any{"published": false}, columns)
}
