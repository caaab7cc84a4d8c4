// routes.go - маршрутизация chi и привязка параметров запроса.
// Параметры пути и query разбираются через oapi-codegen runtime,
// обработчики получают уже типизированные значения.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	apierrors "github.com/bigkaa/goartstore/oauth-module/internal/api/errors"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// ServerInterface - набор операций HTTP API OAuth Module.
type ServerInterface interface {
	// (GET /health/live)
	HealthLive(w http.ResponseWriter, r *http.Request)
	// (GET /health/ready)
	HealthReady(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	GetMetrics(w http.ResponseWriter, r *http.Request)

	// (POST /login)
	Login(w http.ResponseWriter, r *http.Request)
	// (POST /refresh)
	Refresh(w http.ResponseWriter, r *http.Request)

	// (POST /users)
	CreateUser(w http.ResponseWriter, r *http.Request)
	// (GET /users)
	ListUsers(w http.ResponseWriter, r *http.Request, params ListUsersParams)
	// (GET /users/{id})
	GetUser(w http.ResponseWriter, r *http.Request, id string)
	// (PUT /users/{id})
	UpdateUser(w http.ResponseWriter, r *http.Request, id string)
	// (PATCH /users/{id})
	UpdateUserPassword(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /users/{id})
	DeleteUser(w http.ResponseWriter, r *http.Request, id string)
	// (GET /users/{id}/roles)
	ListUserRoles(w http.ResponseWriter, r *http.Request, id string)
	// (POST /users/{id}/roles)
	AddUserRole(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /users/{id}/roles/{role_id})
	RemoveUserRole(w http.ResponseWriter, r *http.Request, id string, roleID string)

	// (POST /roles)
	CreateRole(w http.ResponseWriter, r *http.Request)
	// (GET /roles)
	ListRoles(w http.ResponseWriter, r *http.Request)
	// (GET /roles/{id})
	GetRole(w http.ResponseWriter, r *http.Request, id string)
	// (PUT /roles/{id})
	UpdateRole(w http.ResponseWriter, r *http.Request, id string)
	// (PATCH /roles/{id})
	PatchRole(w http.ResponseWriter, r *http.Request, id string)
	// (DELETE /roles/{id})
	DeleteRole(w http.ResponseWriter, r *http.Request, id string)
}

var _ ServerInterface = (*APIHandler)(nil)

// ListUsersParams - query-параметры GET /users.
type ListUsersParams struct {
	Search *string `form:"search,omitempty" json:"search,omitempty"`
	First  *int    `form:"first,omitempty" json:"first,omitempty"`
	Max    *int    `form:"max,omitempty" json:"max,omitempty"`
}

// Filter преобразует параметры в фильтр сервисного слоя.
func (p ListUsersParams) Filter() model.UserFilter {
	filter := model.UserFilter{First: p.First, Max: p.Max}
	if p.Search != nil {
		filter.Search = *p.Search
	}
	return filter
}

// RouteOptions - middleware групп маршрутов.
type RouteOptions struct {
	// Public - middleware для /login и /refresh (rate limit).
	Public []func(http.Handler) http.Handler
	// Protected - middleware для /users и /roles (обязательный Authorization).
	Protected []func(http.Handler) http.Handler
}

// HandlerFromMux регистрирует все маршруты si в router.
func HandlerFromMux(si ServerInterface, router chi.Router, opts RouteOptions) http.Handler {
	wrapper := serverInterfaceWrapper{handler: si}

	router.Get("/health/live", si.HealthLive)
	router.Get("/health/ready", si.HealthReady)
	router.Get("/metrics", si.GetMetrics)

	router.Group(func(r chi.Router) {
		r.Use(opts.Public...)
		r.Post("/login", si.Login)
		r.Post("/refresh", si.Refresh)
	})

	router.Group(func(r chi.Router) {
		r.Use(opts.Protected...)

		r.Post("/users", si.CreateUser)
		r.Get("/users", wrapper.ListUsers)
		r.Get("/users/{id}", wrapper.withID(si.GetUser))
		r.Put("/users/{id}", wrapper.withID(si.UpdateUser))
		r.Patch("/users/{id}", wrapper.withID(si.UpdateUserPassword))
		r.Delete("/users/{id}", wrapper.withID(si.DeleteUser))
		r.Get("/users/{id}/roles", wrapper.withID(si.ListUserRoles))
		r.Post("/users/{id}/roles", wrapper.withID(si.AddUserRole))
		r.Delete("/users/{id}/roles/{role_id}", wrapper.RemoveUserRole)

		r.Post("/roles", si.CreateRole)
		r.Get("/roles", si.ListRoles)
		r.Get("/roles/{id}", wrapper.withID(si.GetRole))
		r.Put("/roles/{id}", wrapper.withID(si.UpdateRole))
		r.Patch("/roles/{id}", wrapper.withID(si.PatchRole))
		r.Delete("/roles/{id}", wrapper.withID(si.DeleteRole))
	})

	return router
}

// serverInterfaceWrapper разбирает параметры и вызывает обработчик.
type serverInterfaceWrapper struct {
	handler ServerInterface
}

// withID привязывает параметр пути {id}.
func (siw serverInterfaceWrapper) withID(next func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bindPathParam(r, "id")
		if err != nil {
			invalidParam(w, "id", err)
			return
		}
		next(w, r, id)
	}
}

// ListUsers привязывает query-параметры search, first, max.
func (siw serverInterfaceWrapper) ListUsers(w http.ResponseWriter, r *http.Request) {
	var params ListUsersParams
	query := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "search", query, &params.Search); err != nil {
		invalidParam(w, "search", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "first", query, &params.First); err != nil {
		invalidParam(w, "first", err)
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "max", query, &params.Max); err != nil {
		invalidParam(w, "max", err)
		return
	}

	siw.handler.ListUsers(w, r, params)
}

// RemoveUserRole привязывает параметры пути {id} и {role_id}.
func (siw serverInterfaceWrapper) RemoveUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := bindPathParam(r, "id")
	if err != nil {
		invalidParam(w, "id", err)
		return
	}
	roleID, err := bindPathParam(r, "role_id")
	if err != nil {
		invalidParam(w, "role_id", err)
		return
	}
	siw.handler.RemoveUserRole(w, r, id, roleID)
}

// bindPathParam разбирает обязательный параметр пути в стиле simple.
func bindPathParam(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	return value, err
}

// invalidParam пишет 400 для некорректного параметра.
func invalidParam(w http.ResponseWriter, name string, err error) {
	apierrors.ValidationError(w, fmt.Sprintf("invalid input: invalid format for parameter %s: %s", name, err.Error()))
}
