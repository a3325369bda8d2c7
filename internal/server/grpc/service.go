package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName   = "authcore.AuthService"
	LoginMethod   = "/" + ServiceName + "/Login"
	ProfileMethod = "/" + ServiceName + "/Profile"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type ProfileRequest struct{}

type ProfileResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// AuthServer is implemented by *GRPCServer.
type AuthServer interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	Profile(ctx context.Context, req *ProfileRequest) (*ProfileResponse, error)
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: loginHandler},
		{MethodName: "Profile", Handler: profileHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func loginHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(LoginRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).Login(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LoginMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServer).Login(ctx, req.(*LoginRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func profileHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ProfileRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServer).Profile(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ProfileMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServer).Profile(ctx, req.(*ProfileRequest))
	}
	return interceptor(ctx, in, info, handler)
}
