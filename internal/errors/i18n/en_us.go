package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
const (
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSessionEmptyUserID = "SESSION_EMPTY_USER_ID"
	CodeRoleEmptyID        = "ROLE_EMPTY_ID"
	CodeRoleEmptyName      = "ROLE_EMPTY_NAME"
	CodeRoleNotFound       = "ROLE_NOT_FOUND"
	CodeRolesExist         = "ROLES_EXIST"
	CodeRosterEmpty        = "ROSTER_EMPTY"
	CodeActiveRoleUnset    = "ACTIVE_ROLE_UNSET"
	CodeIllegalAction      = "ILLEGAL_ACTION"
	CodeInvalidChoice      = "INVALID_CHOICE"
	CodeEmptyInput         = "EMPTY_INPUT"
	CodeTrekOver           = "TREK_OVER"
	CodeRouteUnknownTheme  = "ROUTE_UNKNOWN_THEME"
	CodeRouteUnknownNode   = "ROUTE_UNKNOWN_NODE"
	CodeNotFound           = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: "en-US",
	messages: map[Code]string{
		// Session errors
		CodeSessionNotFound:    "Unknown session: {{.SessionID}}",
		CodeSessionEmptyUserID: "User ID is required to start a session",

		// Role errors
		CodeRoleEmptyID:     "Role ID cannot be empty",
		CodeRoleEmptyName:   "Role name cannot be empty",
		CodeRoleNotFound:    "Unknown role: {{.RoleID}}",
		CodeRolesExist:      "Roles already exist; pass overwrite to replace them",
		CodeRosterEmpty:     "The party has no roles yet",
		CodeActiveRoleUnset: "No active role is selected",

		// Turn errors
		CodeIllegalAction: "Action {{.Action}} is not allowed during {{.Phase}}",
		CodeInvalidChoice: "Invalid choice: {{.Choice}}",
		CodeEmptyInput:    "Say something first",
		CodeTrekOver:      "The trek is over; only status queries are allowed",

		// Route errors
		CodeRouteUnknownTheme: "Unknown route theme: {{.Theme}}",
		CodeRouteUnknownNode:  "Unknown route node: {{.NodeID}}",

		// Storage errors
		CodeNotFound: "The requested resource was not found",
	},
}
