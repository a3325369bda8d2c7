package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, nil)
	require.Error(t, srv.Run(context.Background()))
}

func startInProcess(t *testing.T) *grpc.ClientConn {
	t.Helper()

	srv, _ := newTestServer(t)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, lis) }()

	conn, err := grpc.NewClient(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func TestEndToEnd_LoginAndProfile(t *testing.T) {
	conn := startInProcess(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var login LoginResponse
	var header metadata.MD
	err := conn.Invoke(ctx, LoginMethod, &LoginRequest{Email: "a@x.com", Password: "secret"}, &login, grpc.Header(&header))
	require.NoError(t, err)
	require.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, header.Get("x-request-id"))

	authCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+login.AccessToken)
	var profile ProfileResponse
	require.NoError(t, conn.Invoke(authCtx, ProfileMethod, &ProfileRequest{}, &profile))
	assert.Equal(t, ProfileResponse{UserID: 1, Email: "a@x.com"}, profile)

	err = conn.Invoke(ctx, ProfileMethod, &ProfileRequest{}, &profile)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	err = conn.Invoke(ctx, LoginMethod, &LoginRequest{Email: "a@x.com", Password: "bad"}, &login)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestEndToEnd_Health(t *testing.T) {
	conn := startInProcess(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName},
		grpc.CallContentSubtype("proto"))
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
