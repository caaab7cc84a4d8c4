package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

func ptr[T any](v T) *T { return &v }

func TestLogin(t *testing.T) {
	tests := []struct {
		name string
		in   model.Credentials
		want []string
	}{
		{"валидно", model.Credentials{Username: "user@example.com", Password: "secret"}, nil},
		{"верхний регистр", model.Credentials{Username: "USER@EXAMPLE.COM", Password: "secret"}, nil},
		{"пустой username", model.Credentials{Username: "", Password: "secret"}, []string{"username is required"}},
		{"пробельный password", model.Credentials{Username: "user@example.com", Password: "   "}, []string{"password is required"}},
		{"оба пустые", model.Credentials{}, []string{"username is required", "password is required"}},
		{"не email", model.Credentials{Username: "user", Password: "secret"}, []string{"username must be a valid email address"}},
		{"без домена верхнего уровня", model.Credentials{Username: "user@example", Password: "secret"}, []string{"username must be a valid email address"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Login(tt.in))
		})
	}
}

func TestCreateUser_AggregatesAllErrors(t *testing.T) {
	msgs := CreateUser(model.CreateUserRequest{Username: "not-an-email"})

	assert.Equal(t, []string{
		"username must be a valid email address",
		"password is required",
		"first_name is required",
		"last_name is required",
	}, msgs)
}

func TestCreateUser_Valid(t *testing.T) {
	msgs := CreateUser(model.CreateUserRequest{
		Username:  "ann@example.com",
		Password:  "p",
		FirstName: "Ann",
		LastName:  "Lee",
	})
	assert.Empty(t, msgs)
}

func TestUpdateUser_OnlyPresentFields(t *testing.T) {
	assert.Empty(t, UpdateUser(model.UpdateUserRequest{}))
	assert.Empty(t, UpdateUser(model.UpdateUserRequest{FirstName: ptr("Ann")}))

	msgs := UpdateUser(model.UpdateUserRequest{
		Username: ptr("bad"),
		LastName: ptr(" "),
	})
	assert.Equal(t, []string{"username must be a valid email address", "last_name is required"}, msgs)
}

func TestCreateRole(t *testing.T) {
	assert.Empty(t, CreateRole(model.CreateRoleRequest{Name: "viewer", ContainerID: "realm"}))
	assert.Equal(t,
		[]string{"name is required", "container_id is required"},
		CreateRole(model.CreateRoleRequest{Name: " "}),
	)
	assert.Equal(t, []string{"name is required"}, UpdateRole(model.CreateRoleRequest{ContainerID: "realm"}))
}

func TestPatchRole(t *testing.T) {
	t.Run("все поля отсутствуют", func(t *testing.T) {
		assert.Equal(t, []string{"at least one field must be provided"}, PatchRole(model.PatchRoleRequest{}))
	})

	t.Run("одно поле", func(t *testing.T) {
		msgs := PatchRole(model.PatchRoleRequest{Composite: ptr(false)})
		assert.NotContains(t, msgs, "at least one field must be provided")
		assert.Empty(t, msgs)
	})

	t.Run("пустое имя", func(t *testing.T) {
		msgs := PatchRole(model.PatchRoleRequest{Name: ptr(""), ContainerID: ptr("")})
		assert.Equal(t, []string{"name is required", "container_id is required"}, msgs)
	})

	t.Run("пустое описание допустимо", func(t *testing.T) {
		assert.Empty(t, PatchRole(model.PatchRoleRequest{Description: ptr("")}))
	})
}

func TestPasswordAndRoleID(t *testing.T) {
	assert.Empty(t, Password("x"))
	assert.Equal(t, []string{"password is required"}, Password(""))

	assert.Empty(t, RoleID("role-1"))
	assert.Equal(t, []string{"role_id is required"}, RoleID(" \t"))

	assert.Empty(t, RefreshToken("rt"))
	assert.Equal(t, []string{"refresh_token is required"}, RefreshToken(""))
}

func TestErr(t *testing.T) {
	assert.NoError(t, Err(nil))

	err := Err([]string{"username is required", "password is required"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.Equal(t, "invalid input: username is required, password is required", err.Error())
}
