package audit

import "strings"

// Audited resources.
const (
	ResourceAuth    = "auth"
	ResourceUser    = "user"
	ResourceGeneral = "general"
)

// OperationResource returns the audit resource for a GraphQL operation name,
// e.g. "findAllUser" and "updateUser" -> "user", "signin" -> "auth".
func OperationResource(operation string) string {
	op := strings.ToLower(operation)
	switch {
	case op == "":
		return "unknown"
	case strings.HasPrefix(op, "sign"), strings.Contains(op, "token"):
		return ResourceAuth
	case op == "me", strings.HasSuffix(op, "user"):
		return ResourceUser
	default:
		return ResourceGeneral
	}
}
