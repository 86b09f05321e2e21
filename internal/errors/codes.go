// Package errors provides structured error handling with i18n support.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Session errors
	CodeSessionNotFound    Code = "SESSION_NOT_FOUND"
	CodeSessionEmptyUserID Code = "SESSION_EMPTY_USER_ID"

	// Role errors
	CodeRoleEmptyID      Code = "ROLE_EMPTY_ID"
	CodeRoleEmptyName    Code = "ROLE_EMPTY_NAME"
	CodeRoleNotFound     Code = "ROLE_NOT_FOUND"
	CodeRolesExist       Code = "ROLES_EXIST"
	CodeRosterEmpty      Code = "ROSTER_EMPTY"
	CodeActiveRoleUnset  Code = "ACTIVE_ROLE_UNSET"

	// Turn errors
	CodeIllegalAction Code = "ILLEGAL_ACTION"
	CodeInvalidChoice Code = "INVALID_CHOICE"
	CodeEmptyInput    Code = "EMPTY_INPUT"
	CodeTrekOver      Code = "TREK_OVER"

	// Route errors
	CodeRouteUnknownTheme Code = "ROUTE_UNKNOWN_THEME"
	CodeRouteUnknownNode  Code = "ROUTE_UNKNOWN_NODE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeSessionEmptyUserID,
		CodeRoleEmptyID,
		CodeRoleEmptyName,
		CodeInvalidChoice,
		CodeEmptyInput:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeIllegalAction,
		CodeTrekOver,
		CodeRolesExist,
		CodeRosterEmpty,
		CodeActiveRoleUnset:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeSessionNotFound,
		CodeRoleNotFound,
		CodeRouteUnknownTheme,
		CodeRouteUnknownNode:
		return codes.NotFound

	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes for the JSON transport.
func (c Code) HTTPStatus() int {
	switch c.GRPCCode() {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.FailedPrecondition:
		return http.StatusConflict
	case codes.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
