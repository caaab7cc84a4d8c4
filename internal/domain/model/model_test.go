package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Aliases(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"snake_case", `{"username":"a@b.io","password":"p","first_name":"Ann","last_name":"Lee"}`},
		{"camelCase", `{"userName":"a@b.io","password":"p","firstName":"Ann","lastName":"Lee"}`},
		{"kebab-case", `{"user-name":"a@b.io","password":"p","first-name":"Ann","last-name":"Lee"}`},
		{"email как username", `{"email":"a@b.io","password":"p","first_name":"Ann","last_name":"Lee"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateUserRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, CreateUserRequest{Username: "a@b.io", Password: "p", FirstName: "Ann", LastName: "Lee"}, req)
		})
	}
}

func TestCreateUserRequest_CanonicalKeyWins(t *testing.T) {
	var req CreateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"other@b.io","username":"a@b.io"}`), &req))
	assert.Equal(t, "a@b.io", req.Username)
}

func TestCreateUserRequest_WrongType(t *testing.T) {
	var req CreateUserRequest
	err := json.Unmarshal([]byte(`{"username":42}`), &req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
}

func TestUpdateUserRequest_Partial(t *testing.T) {
	var req UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"firstName":"Ann","last_name":null}`), &req))

	assert.Nil(t, req.Username)
	require.NotNil(t, req.FirstName)
	assert.Equal(t, "Ann", *req.FirstName)
	assert.Nil(t, req.LastName, "null трактуется как отсутствие поля")
}

func TestAssignRoleRequest_Aliases(t *testing.T) {
	for _, body := range []string{`{"role_id":"r1"}`, `{"roleId":"r1"}`, `{"role-id":"r1"}`} {
		var req AssignRoleRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		assert.Equal(t, "r1", req.RoleID, body)
	}
}

func TestCreateRoleRequest_Aliases(t *testing.T) {
	var req CreateRoleRequest
	body := `{"name":"viewer","clientRole":true,"container-id":"realm-1","composite":false}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	assert.Equal(t, "viewer", req.Name)
	assert.True(t, req.ClientRole)
	assert.False(t, req.Composite)
	assert.Equal(t, "realm-1", req.ContainerID)
	assert.Nil(t, req.Description)
}

func TestPatchRoleRequest_Empty(t *testing.T) {
	var req PatchRoleRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.True(t, req.Empty())

	require.NoError(t, json.Unmarshal([]byte(`{"client-role":false}`), &req))
	assert.False(t, req.Empty())
	require.NotNil(t, req.ClientRole)
	assert.False(t, *req.ClientRole)
}

func TestPatchRoleRequest_NotObject(t *testing.T) {
	var req PatchRoleRequest
	assert.Error(t, json.Unmarshal([]byte(`null`), &req))
	assert.Error(t, json.Unmarshal([]byte(`["name"]`), &req))
}
