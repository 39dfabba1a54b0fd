package apperr

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GRPCStatus maps a taxonomy failure to a gRPC status for services that
// re-expose the todo API over gRPC. Unclassified errors map to Internal
// with a generic message, mirroring the HTTP translator.
func GRPCStatus(err error) *status.Status {
	var f *Failure
	if !errors.As(err, &f) {
		return status.New(codes.Internal, KindInternalServerError.Template)
	}
	return status.New(grpcCode(f), f.Kind.Code+": "+f.Message())
}

func grpcCode(f *Failure) codes.Code {
	switch f.Kind.Family {
	case FamilyAuthentication:
		return codes.Unauthenticated
	case FamilyAuthorization:
		if f.Status() == http.StatusTooManyRequests {
			return codes.ResourceExhausted
		}
		return codes.PermissionDenied
	case FamilyValidation:
		return codes.InvalidArgument
	}
	switch f.Status() {
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusBadRequest:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}
