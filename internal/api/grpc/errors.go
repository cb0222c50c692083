package grpc

import (
	"errors"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps rental errors onto gRPC codes. Unclassified errors are
// logged and reported as Internal without their message.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	var re *domain.RentError
	if errors.As(err, &re) {
		return status.Error(codeForKind(re.Kind), re.Message)
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	logger.Error("Unhandled error in rental API", "error", err)
	return status.Error(codes.Internal, "internal error")
}

func codeForKind(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindConflict:
		return codes.FailedPrecondition
	case domain.KindForbidden:
		return codes.PermissionDenied
	case domain.KindValidation:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}
