package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/credgate/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// protectedMethods require a bearer token in the authorization metadata.
var protectedMethods = map[string]bool{
	ProfileMethod: true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if !protectedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(strings.ToLower(common.AuthorizationHeaderName)); len(values) > 0 {
			header = values[0]
		}
	}

	var (
		resp any
		ran  bool
	)
	err := s.auth.Authorize(ctx, header, func(ctx context.Context) error {
		ran = true
		var herr error
		resp, herr = handler(ctx, req)
		return herr
	})
	if err != nil {
		if ran {
			return nil, err
		}
		return nil, toStatus(err)
	}

	return resp, nil
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	reqID := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(strings.ToLower(common.RequestIDHeaderName)); len(values) > 0 {
			reqID = values[0]
		}
	}
	if _, err := uuid.Parse(reqID); err != nil {
		reqID = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(strings.ToLower(common.RequestIDHeaderName), reqID))

	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "rpc finished",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start).String(),
		"request_id", reqID,
	)
	return resp, err
}
