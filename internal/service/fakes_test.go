package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// testLogger создаёт logger, не пишущий в вывод тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAuth - in-memory AuthProvider.
type fakeAuth struct {
	calls   int
	session *model.Session
	err     error
}

func (f *fakeAuth) Login(_ context.Context, _ model.Credentials) (*model.Session, error) {
	f.calls++
	return f.session, f.err
}

func (f *fakeAuth) Refresh(_ context.Context, _ string) (*model.Session, error) {
	f.calls++
	return f.session, f.err
}

// fakeUsers - in-memory UserProvider, записывает имена вызванных методов.
type fakeUsers struct {
	calls  []string
	user   *model.User
	users  []model.User
	roles  []model.Role
	err    error
	bearer string
}

func (f *fakeUsers) record(name, bearer string) {
	f.calls = append(f.calls, name)
	f.bearer = bearer
}

func (f *fakeUsers) Create(_ context.Context, bearer string, _ model.CreateUserRequest) (*model.User, error) {
	f.record("Create", bearer)
	return f.user, f.err
}

func (f *fakeUsers) List(_ context.Context, bearer string, _ model.UserFilter) ([]model.User, error) {
	f.record("List", bearer)
	return f.users, f.err
}

func (f *fakeUsers) Get(_ context.Context, bearer, _ string) (*model.User, error) {
	f.record("Get", bearer)
	return f.user, f.err
}

func (f *fakeUsers) Update(_ context.Context, bearer, _ string, _ model.UpdateUserRequest) (*model.User, error) {
	f.record("Update", bearer)
	return f.user, f.err
}

func (f *fakeUsers) UpdatePassword(_ context.Context, bearer, _, _ string) error {
	f.record("UpdatePassword", bearer)
	return f.err
}

func (f *fakeUsers) Delete(_ context.Context, bearer, _ string) error {
	f.record("Delete", bearer)
	return f.err
}

func (f *fakeUsers) AddRole(_ context.Context, bearer, _, _ string) error {
	f.record("AddRole", bearer)
	return f.err
}

func (f *fakeUsers) RemoveRole(_ context.Context, bearer, _, _ string) error {
	f.record("RemoveRole", bearer)
	return f.err
}

func (f *fakeUsers) ListRoles(_ context.Context, bearer, _ string) ([]model.Role, error) {
	f.record("ListRoles", bearer)
	return f.roles, f.err
}

// fakeRoles - in-memory RoleProvider.
type fakeRoles struct {
	calls []string
	role  *model.Role
	roles []model.Role
	err   error
}

func (f *fakeRoles) Create(_ context.Context, _ string, _ model.CreateRoleRequest) (*model.Role, error) {
	f.calls = append(f.calls, "Create")
	return f.role, f.err
}

func (f *fakeRoles) List(_ context.Context, _ string) ([]model.Role, error) {
	f.calls = append(f.calls, "List")
	return f.roles, f.err
}

func (f *fakeRoles) Get(_ context.Context, _, _ string) (*model.Role, error) {
	f.calls = append(f.calls, "Get")
	return f.role, f.err
}

func (f *fakeRoles) Update(_ context.Context, _, _ string, _ model.CreateRoleRequest) (*model.Role, error) {
	f.calls = append(f.calls, "Update")
	return f.role, f.err
}

func (f *fakeRoles) Patch(_ context.Context, _, _ string, _ model.PatchRoleRequest) (*model.Role, error) {
	f.calls = append(f.calls, "Patch")
	return f.role, f.err
}

func (f *fakeRoles) Delete(_ context.Context, _, _ string) error {
	f.calls = append(f.calls, "Delete")
	return f.err
}
