package keycloak

import "strings"

// deletedAttribute - атрибут роли, отмечающий логическое удаление.
// Keycloak хранит атрибуты как map[string][]string.
const deletedAttribute = "deleted"

// IsMarkedDeleted сообщает, содержит ли attributes роли отметку удаления.
// attributes.deleted допускается в трёх формах: true, "true"/"1"
// или массив, в котором есть такое значение. Строки сравниваются без учёта
// регистра и пробелов по краям.
func IsMarkedDeleted(attributes any) bool {
	attrs, ok := attributes.(map[string]any)
	if !ok {
		return false
	}

	switch v := attrs[deletedAttribute].(type) {
	case []any:
		for _, item := range v {
			if isTruthyMarker(item) {
				return true
			}
		}
		return false
	case []string:
		for _, item := range v {
			if isTruthyMarker(item) {
				return true
			}
		}
		return false
	default:
		return isTruthyMarker(v)
	}
}

func isTruthyMarker(v any) bool {
	switch m := v.(type) {
	case bool:
		return m
	case string:
		s := strings.ToLower(strings.TrimSpace(m))
		return s == "true" || s == "1"
	default:
		return false
	}
}

// MarkDeleted записывает attributes.deleted = ["true"] в RoleRepresentation,
// сохраняя остальные атрибуты.
func MarkDeleted(role map[string]any) {
	attrs, ok := role["attributes"].(map[string]any)
	if !ok {
		attrs = make(map[string]any)
	}
	attrs[deletedAttribute] = []string{"true"}
	role["attributes"] = attrs
}

func isRoleDeleted(role map[string]any) bool {
	return IsMarkedDeleted(role["attributes"])
}
