package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/credgate/internal/server/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	token, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &LoginResponse{AccessToken: token}, nil
}

func (s *GRPCServer) Profile(ctx context.Context, _ *ProfileRequest) (*ProfileResponse, error) {
	claims, err := s.auth.Profile(ctx)
	if err != nil {
		s.logger.Error(ctx, "claims missing on protected method")
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &ProfileResponse{UserID: claims.UserID, Email: claims.Email}, nil
}

// toStatus maps service errors onto gRPC codes. Messages never reveal
// whether an email exists.
func toStatus(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "service unavailable")
	}

	if reason, ok := auth.RejectReason(err); ok {
		return status.Error(codes.Unauthenticated, "unauthorized: "+string(reason))
	}
	return status.Error(codes.Internal, "internal error")
}
