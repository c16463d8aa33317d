package model

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestUser_PasswordNeverSerialized(t *testing.T) {
	u := User{ID: 7, Name: "A", Email: "a@x.com", Password: "$2a$10$hash", Role: RoleUser, CreatedAt: time.Now()}

	payload, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "password")
	assert.NotContains(t, string(payload), "$2a$10$hash")
}

func TestUser_Views(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	u := User{ID: 7, Name: "A", Email: "a@x.com", Password: "h", Role: RoleAdmin, CreatedAt: now, UpdatedAt: now}

	assert.Equal(t, PublicUser{ID: 7, Name: "A", Email: "a@x.com", Role: RoleAdmin}, u.Public())
	assert.Equal(t, UserView{ID: 7, Name: "A", Email: "a@x.com", Role: RoleAdmin, CreatedAt: now, UpdatedAt: now}, u.View())
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("owner").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestUserUpdate_Empty(t *testing.T) {
	assert.True(t, UserUpdate{}.Empty())
	name := "B"
	assert.False(t, UserUpdate{Name: &name}.Empty())
}

func TestUser_EmailColumnIsCaseSensitive(t *testing.T) {
	s, err := schema.Parse(&User{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("Email")
	require.NotNil(t, field)
	assert.Equal(t, schema.DataType("varchar(255) COLLATE utf8mb4_bin"), field.DataType)
	assert.Contains(t, field.TagSettings, "UNIQUEINDEX")
	assert.True(t, field.NotNull)
}
