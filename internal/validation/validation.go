// Пакет validation - проверка входящих запросов до обращения к Keycloak.
// Каждая функция возвращает все нарушенные правила (пустой список - запрос валиден);
// в пределах одного поля сообщается только первое нарушенное правило.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bigkaa/goartstore/oauth-module/internal/domain/apperror"
	"github.com/bigkaa/goartstore/oauth-module/internal/domain/model"
)

// emailPattern - форма local@domain.tld без учёта регистра.
var emailPattern = regexp.MustCompile(`(?i)^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	tagNotBlank   = "notblank"
	tagLoginEmail = "login_email"
	tagAtLeastOne = "atleastone"
)

// validate безопасен для конкурентного использования и кэширует разбор тегов.
var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Имя поля в сообщениях берётся из тега label.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})

	mustRegister(v, tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, tagLoginEmail, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(func(sl validator.StructLevel) {
		in := sl.Current().Interface().(patchRoleInput)
		if in.Name == nil && in.Description == nil && in.Composite == nil &&
			in.ClientRole == nil && in.ContainerID == nil {
			sl.ReportError(nil, "", "", tagAtLeastOne, "")
		}
	}, patchRoleInput{})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("регистрация правила %s: %v", tag, err))
	}
}

// --- Входные структуры с правилами ---

type loginInput struct {
	Username string `label:"username" validate:"notblank,login_email"`
	Password string `label:"password" validate:"notblank"`
}

type createUserInput struct {
	Username  string `label:"username" validate:"notblank,login_email"`
	Password  string `label:"password" validate:"notblank"`
	FirstName string `label:"first_name" validate:"notblank"`
	LastName  string `label:"last_name" validate:"notblank"`
}

type updateUserInput struct {
	Username  *string `label:"username" validate:"omitnil,notblank,login_email"`
	FirstName *string `label:"first_name" validate:"omitnil,notblank"`
	LastName  *string `label:"last_name" validate:"omitnil,notblank"`
}

type roleInput struct {
	Name        string `label:"name" validate:"notblank"`
	ContainerID string `label:"container_id" validate:"notblank"`
}

type patchRoleInput struct {
	Name        *string `label:"name" validate:"omitnil,notblank"`
	Description *string `label:"description"`
	Composite   *bool   `label:"composite"`
	ClientRole  *bool   `label:"client_role"`
	ContainerID *string `label:"container_id" validate:"omitnil,notblank"`
}

type passwordInput struct {
	Password string `label:"password" validate:"notblank"`
}

type roleIDInput struct {
	RoleID string `label:"role_id" validate:"notblank"`
}

type refreshTokenInput struct {
	RefreshToken string `label:"refresh_token" validate:"notblank"`
}

// --- Проверки ---

// Login проверяет учётные данные для password grant.
func Login(c model.Credentials) []string {
	return check(loginInput{Username: c.Username, Password: c.Password})
}

// CreateUser проверяет запрос на создание пользователя.
func CreateUser(r model.CreateUserRequest) []string {
	return check(createUserInput{
		Username:  r.Username,
		Password:  r.Password,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	})
}

// UpdateUser проверяет только переданные поля частичного обновления.
func UpdateUser(r model.UpdateUserRequest) []string {
	return check(updateUserInput{
		Username:  r.Username,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	})
}

// CreateRole проверяет запрос на создание роли.
func CreateRole(r model.CreateRoleRequest) []string {
	return check(roleInput{Name: r.Name, ContainerID: r.ContainerID})
}

// UpdateRole проверяет запрос на полное обновление роли. Правила те же, что при создании.
func UpdateRole(r model.CreateRoleRequest) []string {
	return CreateRole(r)
}

// PatchRole требует хотя бы одно поле; переданные name и container_id не должны быть пустыми.
func PatchRole(r model.PatchRoleRequest) []string {
	return check(patchRoleInput{
		Name:        r.Name,
		Description: r.Description,
		Composite:   r.Composite,
		ClientRole:  r.ClientRole,
		ContainerID: r.ContainerID,
	})
}

// Password проверяет новый пароль. Политика сложности не применяется.
func Password(p string) []string {
	return check(passwordInput{Password: p})
}

// RoleID проверяет идентификатор роли при назначении пользователю.
func RoleID(id string) []string {
	return check(roleIDInput{RoleID: id})
}

// RefreshToken проверяет refresh token перед обменом.
func RefreshToken(token string) []string {
	return check(refreshTokenInput{RefreshToken: token})
}

// Err объединяет сообщения через ", " в ошибку валидации. Для пустого списка возвращает nil.
func Err(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return apperror.Validation(strings.Join(msgs, ", "))
}

// check прогоняет правила и переводит нарушения в сообщения.
func check(in any) []string {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return msgs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case tagNotBlank:
		return fe.Field() + " is required"
	case tagLoginEmail:
		return fe.Field() + " must be a valid email address"
	case tagAtLeastOne:
		return "at least one field must be provided"
	default:
		return fe.Error()
	}
}
