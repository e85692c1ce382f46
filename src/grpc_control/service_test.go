package grpc_control

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"market-analyzer/src/config"
	datasource "market-analyzer/src/data_source"
	"market-analyzer/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func newTestService(t *testing.T, cfgPath string) *ControlService {
	t.Helper()
	sources := []models.MSourceConfig{{Name: "primary", Type: "yahoo"}}
	chain, err := datasource.NewSourceChain(sources, nil, nil)
	require.NoError(t, err)

	cfg := &config.Config{MConfig: &models.MConfig{
		Name:       "test",
		DataSource: models.MDataSourceConfig{Sources: sources},
	}}
	cache := datasource.NewCachedSource(chain, time.Minute, nil)
	return NewControlService(cfg, chain, cache, nil, cfgPath, nil, nil)
}

func dial(t *testing.T, svc *ControlService) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(svc)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHealthReportsServing(t *testing.T) {
	conn := dial(t, newTestService(t, ""))
	hc := healthpb.NewHealthClient(conn)
	ctx := context.Background()

	for _, name := range []string{"", ServiceName, "source/primary"} {
		resp, err := hc.Check(ctx, &healthpb.HealthCheckRequest{Service: name})
		require.NoError(t, err, name)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status, name)
	}
}

func TestSourceLifecycleOverGRPC(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	svc := newTestService(t, cfgPath)
	client := NewControlClient(dial(t, svc))
	ctx := context.Background()

	list, err := client.ListSources(ctx, &Empty{})
	require.NoError(t, err)
	require.Len(t, list.Sources, 1)
	assert.Equal(t, "yahoo", list.Sources[0].Type)

	added, err := client.AddSource(ctx, &AddSourceRequest{Name: "backup", Type: "financego"})
	require.NoError(t, err)
	assert.True(t, added.Success)

	list, err = client.ListSources(ctx, &Empty{})
	require.NoError(t, err)
	require.Len(t, list.Sources, 2)
	assert.Equal(t, "backup", list.Sources[1].Name)
	assert.Equal(t, 1, list.Sources[1].Position)

	saved, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(saved), "backup")

	removed, err := client.RemoveSource(ctx, &RemoveSourceRequest{Name: "backup"})
	require.NoError(t, err)
	assert.True(t, removed.Success)
	assert.Len(t, svc.Config.DataSource.Sources, 1)

	hc := healthpb.NewHealthClient(dial(t, svc))
	resp, err := hc.Check(ctx, &healthpb.HealthCheckRequest{Service: "source/backup"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.Status)

	missing, err := client.RemoveSource(ctx, &RemoveSourceRequest{Name: "backup"})
	require.NoError(t, err)
	assert.False(t, missing.Success)
}

func TestAddSourceRejectsBadRequests(t *testing.T) {
	client := NewControlClient(dial(t, newTestService(t, "")))
	ctx := context.Background()

	_, err := client.AddSource(ctx, &AddSourceRequest{Name: "x"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.AddSource(ctx, &AddSourceRequest{Name: "x", Type: "csv"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.AddSource(ctx, &AddSourceRequest{Name: "primary", Type: "yahoo"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestPurgeCacheAndStatus(t *testing.T) {
	svc := newTestService(t, "")
	client := NewControlClient(dial(t, svc))
	ctx := context.Background()

	purged, err := client.PurgeCache(ctx, &PurgeCacheRequest{All: true})
	require.NoError(t, err)
	assert.Equal(t, 0, purged.Removed)
	assert.Equal(t, 0, purged.Remaining)

	st, err := client.GetStatus(ctx, &Empty{})
	require.NoError(t, err)
	assert.Len(t, st.Sources, 1)
	assert.Equal(t, 0, st.CacheEntries)
	assert.Equal(t, 0, st.ActiveSessions)
}
