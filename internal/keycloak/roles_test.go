package keycloak

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

func boolPtr(b bool) *bool { return &b }

// deletedRole - представление логически удалённой роли.
func deletedRole(id string) map[string]any {
	return map[string]any{
		"id": id, "name": "legacy", "containerId": "realm",
		"attributes": map[string]any{"deleted": []any{"true"}},
	}
}

func TestRoleAdapter_Create_FollowUpByName(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		switch {
		case r.Method == http.MethodPost && rec.Path == adminPath("/roles"):
			w.Header().Set("Location", "http://kc"+adminPath("/roles/team%20lead"))
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodGet && rec.Path == adminPath("/roles/team lead"):
			writeJSON(w, http.StatusOK, map[string]any{
				"id": "r9", "name": "team lead", "composite": false, "clientRole": false, "containerId": "realm",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	role, err := NewRoleAdapter(client).Create(context.Background(), testBearer, model.CreateRoleRequest{
		Name:        "team lead",
		ContainerID: "realm",
	})
	if err != nil {
		t.Fatalf("Create() вернул ошибку: %v", err)
	}
	if role.ID != "r9" || role.Name != "team lead" || role.ContainerID != "realm" {
		t.Errorf("Create() = %+v", role)
	}

	var body map[string]any
	_ = json.Unmarshal([]byte(mock.all()[0].Body), &body)
	if body["clientRole"] != false || body["containerId"] != "realm" {
		t.Errorf("неожиданное тело создания: %v", body)
	}
	if _, ok := body["description"]; ok {
		t.Error("отсутствующее описание не должно передаваться")
	}
}

func TestRoleAdapter_Create_FollowUpByID(t *testing.T) {
	_, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		switch {
		case r.Method == http.MethodPost:
			w.Header().Set("Location", "http://kc"+adminPath("/roles-by-id/r10"))
			w.WriteHeader(http.StatusCreated)
		case rec.Path == adminPath("/roles-by-id/r10"):
			writeJSON(w, http.StatusOK, map[string]any{"id": "r10", "name": "viewer"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	role, err := NewRoleAdapter(client).Create(context.Background(), testBearer, model.CreateRoleRequest{Name: "viewer", ContainerID: "realm"})
	if err != nil {
		t.Fatalf("Create() вернул ошибку: %v", err)
	}
	if role.ID != "r10" {
		t.Errorf("ID = %q, ожидается r10", role.ID)
	}
}

func TestRoleAdapter_Create_Conflict(t *testing.T) {
	_, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		w.WriteHeader(http.StatusConflict)
	})

	_, err := NewRoleAdapter(client).Create(context.Background(), testBearer, model.CreateRoleRequest{Name: "viewer"})
	assertKind(t, err, apperror.KindConflict)
}

func TestRoleAdapter_List_FiltersDeleted(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "r1", "name": "viewer", "description": "read only", "composite": true, "clientRole": false, "containerId": "realm"},
			deletedRole("r2"),
			{"id": "r3", "name": "editor", "attributes": map[string]any{"deleted": []any{"false"}}},
		})
	})

	roles, err := NewRoleAdapter(client).List(context.Background(), testBearer)
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}

	want := []model.Role{
		{ID: "r1", Name: "viewer", Description: "read only", Composite: true, ContainerID: "realm"},
		{ID: "r3", Name: "editor"},
	}
	if len(roles) != len(want) {
		t.Fatalf("List() = %+v, ожидается %+v", roles, want)
	}
	for i := range want {
		if roles[i] != want[i] {
			t.Errorf("roles[%d] = %+v, ожидается %+v", i, roles[i], want[i])
		}
	}

	if q := mock.all()[0].Query; q != "briefRepresentation=false" {
		t.Errorf("query = %q, ожидается briefRepresentation=false", q)
	}
}

func TestRoleAdapter_Get(t *testing.T) {
	_, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		switch rec.Path {
		case adminPath("/roles-by-id/r1"):
			writeJSON(w, http.StatusOK, map[string]any{"id": "r1", "name": "viewer"})
		case adminPath("/roles-by-id/r2"):
			writeJSON(w, http.StatusOK, deletedRole("r2"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	adapter := NewRoleAdapter(client)

	role, err := adapter.Get(context.Background(), testBearer, "r1")
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if *role != (model.Role{ID: "r1", Name: "viewer"}) {
		t.Errorf("Get() = %+v", role)
	}

	_, err = adapter.Get(context.Background(), testBearer, "r2")
	assertKind(t, err, apperror.KindNotFound)

	_, err = adapter.Get(context.Background(), testBearer, "r404")
	assertKind(t, err, apperror.KindNotFound)
}

func TestRoleAdapter_Update_PreservesFields(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]any{
				"id": "r1", "name": "viewer", "description": "read only",
				"composite": false, "clientRole": false, "containerId": "realm",
				"attributes": map[string]any{"team": []any{"core"}},
			})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	role, err := NewRoleAdapter(client).Update(context.Background(), testBearer, "r1", model.CreateRoleRequest{
		Name:        "reader",
		Composite:   true,
		ContainerID: "realm",
	})
	if err != nil {
		t.Fatalf("Update() вернул ошибку: %v", err)
	}

	want := model.Role{ID: "r1", Name: "reader", Description: "read only", Composite: true, ContainerID: "realm"}
	if *role != want {
		t.Errorf("Update() = %+v, ожидается %+v", *role, want)
	}

	var put map[string]any
	_ = json.Unmarshal([]byte(mock.all()[1].Body), &put)
	if put["description"] != "read only" {
		t.Errorf("описание должно сохраниться, получено %v", put["description"])
	}
	attrs, _ := put["attributes"].(map[string]any)
	if _, ok := attrs["team"]; !ok {
		t.Errorf("атрибуты должны сохраниться, получено %v", put["attributes"])
	}
}

func TestRoleAdapter_Update_DeletedRole(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		writeJSON(w, http.StatusOK, deletedRole("r2"))
	})

	_, err := NewRoleAdapter(client).Update(context.Background(), testBearer, "r2", model.CreateRoleRequest{Name: "x", ContainerID: "realm"})
	assertKind(t, err, apperror.KindValidation)
	if n := len(mock.all()); n != 1 {
		t.Errorf("удалённая роль не должна записываться, запросов: %d", n)
	}
}

func TestRoleAdapter_Update_Errors(t *testing.T) {
	tests := []struct {
		name string
		get  int
		put  int
		want apperror.Kind
	}{
		{"не найдена", http.StatusNotFound, 0, apperror.KindNotFound},
		{"конфликт имени", http.StatusOK, http.StatusConflict, apperror.KindConflict},
		{"нет прав", http.StatusOK, http.StatusForbidden, apperror.KindForbidden},
		{"токен отклонён", http.StatusOK, http.StatusUnauthorized, apperror.KindInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
				if r.Method == http.MethodGet {
					if tt.get != http.StatusOK {
						w.WriteHeader(tt.get)
						return
					}
					writeJSON(w, http.StatusOK, map[string]any{"id": "r1", "name": "viewer"})
					return
				}
				w.WriteHeader(tt.put)
			})

			_, err := NewRoleAdapter(client).Update(context.Background(), testBearer, "r1", model.CreateRoleRequest{Name: "x", ContainerID: "realm"})
			assertKind(t, err, tt.want)
		})
	}
}

func TestRoleAdapter_Patch(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "r1", "name": "viewer", "description": "new"})
	})

	role, err := NewRoleAdapter(client).Patch(context.Background(), testBearer, "r1", model.PatchRoleRequest{
		Description: strPtr("new"),
		ClientRole:  boolPtr(false),
	})
	if err != nil {
		t.Fatalf("Patch() вернул ошибку: %v", err)
	}
	if role.Description != "new" {
		t.Errorf("Description = %q, ожидается new", role.Description)
	}

	reqs := mock.all()
	if len(reqs) != 3 || reqs[0].Method != http.MethodGet || reqs[1].Method != http.MethodPut || reqs[2].Method != http.MethodGet {
		t.Fatalf("ожидались GET, PUT и GET, получено %+v", reqs)
	}
	var body map[string]any
	_ = json.Unmarshal([]byte(reqs[1].Body), &body)
	if len(body) != 2 || body["description"] != "new" || body["clientRole"] != false {
		t.Errorf("PUT должен содержать только переданные поля: %v", body)
	}
}

func TestRoleAdapter_Patch_NotFound(t *testing.T) {
	_, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := NewRoleAdapter(client).Patch(context.Background(), testBearer, "r404", model.PatchRoleRequest{Name: strPtr("x")})
	assertKind(t, err, apperror.KindNotFound)
}

func TestRoleAdapter_Patch_DeletedRoleUntouched(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id": "r1", "name": "viewer",
			"attributes": map[string]any{"deleted": []any{"true"}},
		})
	})

	_, err := NewRoleAdapter(client).Patch(context.Background(), testBearer, "r1", model.PatchRoleRequest{Name: strPtr("renamed")})
	assertKind(t, err, apperror.KindNotFound)

	for _, req := range mock.all() {
		if req.Method != http.MethodGet {
			t.Errorf("удалённая роль не должна изменяться, получен %s %s", req.Method, req.Path)
		}
	}
}

func TestRoleAdapter_Delete_MarksRole(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusOK, map[string]any{
				"id": "r1", "name": "viewer",
				"attributes": map[string]any{"team": []any{"core"}},
			})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := NewRoleAdapter(client).Delete(context.Background(), testBearer, "r1"); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}

	reqs := mock.all()
	if len(reqs) != 2 || reqs[1].Method != http.MethodPut || reqs[1].Path != adminPath("/roles-by-id/r1") {
		t.Fatalf("ожидались GET и PUT роли, получено %+v", reqs)
	}

	var put map[string]any
	_ = json.Unmarshal([]byte(reqs[1].Body), &put)
	attrs, _ := put["attributes"].(map[string]any)
	deleted, _ := attrs["deleted"].([]any)
	if len(deleted) != 1 || deleted[0] != "true" {
		t.Errorf("attributes.deleted = %v, ожидается [\"true\"]", attrs["deleted"])
	}
	if _, ok := attrs["team"]; !ok {
		t.Error("остальные атрибуты должны сохраниться")
	}
	if put["name"] != "viewer" {
		t.Errorf("поля роли должны сохраниться, name = %v", put["name"])
	}
}

func TestRoleAdapter_Delete_NotFound(t *testing.T) {
	mock, client := setupMockKeycloak(t, func(w http.ResponseWriter, r *http.Request, rec recordedRequest) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := NewRoleAdapter(client).Delete(context.Background(), testBearer, "r404")
	assertKind(t, err, apperror.KindNotFound)
	if n := len(mock.all()); n != 1 {
		t.Errorf("после 404 не должно быть записи, запросов: %d", n)
	}
}
