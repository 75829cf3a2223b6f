package server

import (
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/thraizz/monopoly-server-go/internal/game/rules"
	"github.com/thraizz/monopoly-server-go/internal/tools"
)

// httpStatus maps an error code to the HTTP status clients see.
func httpStatus(code rules.Code) int {
	switch code {
	case tools.CodeInvalidArgument:
		return http.StatusBadRequest
	case rules.CodeNotFound:
		return http.StatusNotFound
	case rules.CodeIllegalAction, rules.CodeAuctionState:
		return http.StatusConflict
	case rules.CodeInsufficientFunds:
		return http.StatusPaymentRequired
	case rules.CodeOwnership:
		return http.StatusForbidden
	case rules.CodeUnevenBuild, rules.CodeInsufficientStock, rules.CodeNoJailCard:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// grpcCode maps an error code to a gRPC status code.
func grpcCode(code rules.Code) codes.Code {
	switch code {
	case tools.CodeInvalidArgument:
		return codes.InvalidArgument
	case rules.CodeNotFound:
		return codes.NotFound
	case rules.CodeIllegalAction, rules.CodeAuctionState, rules.CodeUnevenBuild,
		rules.CodeInsufficientStock, rules.CodeNoJailCard, rules.CodeInsufficientFunds:
		return codes.FailedPrecondition
	case rules.CodeOwnership:
		return codes.PermissionDenied
	default:
		return codes.Internal
	}
}

// grpcError converts an engine or hosting error into a status error that
// carries the rule code in its message prefix.
func grpcError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := rules.CodeOf(err)
	return status.Errorf(grpcCode(code), "%s: %v", code, err)
}
