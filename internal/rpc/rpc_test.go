package rpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/shooting-gallery/internal/config"
	"github.com/xtding233/shooting-gallery/internal/gallery"
	"github.com/xtding233/shooting-gallery/internal/session"
)

func startServer(t *testing.T, balance int64) *Client {
	t.Helper()
	settings := config.DefaultSettings()
	settings.Engine.SpawnChance = 0
	settings.StartBalance = balance

	ctx, cancel := context.WithCancel(context.Background())
	mgr := session.NewManager(settings, session.Options{})
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterGalleryServer(srv, NewServer(ctx, mgr))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
		mgr.CloseAll()
		cancel()
	})
	return NewClient(conn)
}

func TestFireAndBet(t *testing.T) {
	c := startServer(t, 1000)
	ctx := context.Background()

	sid, err := c.Create(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	_, bal, err := c.Fire(ctx, sid, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(990), bal)

	stake, err := c.ChangeBet(ctx, sid, "up")
	require.NoError(t, err)
	assert.Equal(t, int64(50), stake)

	st, err := c.Status(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 50.0, st.GetFields()["stake"].GetNumberValue())

	snap, err := c.Snapshot(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 1280.0, snap.GetFields()["width"].GetNumberValue())
}

func TestErrorCodes(t *testing.T) {
	c := startServer(t, 5)
	ctx := context.Background()
	sid, err := c.Create(ctx)
	require.NoError(t, err)

	_, _, err = c.Fire(ctx, sid, 100, 100)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	bal, err := c.TopUp(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, 5+config.DefaultTopUp, bal)

	_, _, err = c.Fire(ctx, sid, -1, 100)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.ChangeBet(ctx, sid, "sideways")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, _, err = c.Fire(ctx, "00000000-0000-0000-0000-000000000000", 100, 100)
	assert.Equal(t, codes.NotFound, status.Code(err))

	require.NoError(t, c.Stop(ctx, strings.ToUpper(sid)))
	assert.Equal(t, codes.NotFound, status.Code(c.Stop(ctx, sid)))
}

func TestEventStream(t *testing.T) {
	c := startServer(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sid, err := c.Create(ctx)
	require.NoError(t, err)

	got := make(chan *structpb.Struct, 1)
	go func() {
		_ = c.Events(ctx, sid, func(ev *structpb.Struct) bool {
			got <- ev
			return false
		})
	}()

	// the subscription is registered asynchronously; keep firing until it sees one
	deadline := time.After(3 * time.Second)
	for {
		_, _, _ = c.Fire(ctx, sid, 100, 100)
		select {
		case ev := <-got:
			assert.Equal(t, string(gallery.EventInsufficientFunds), ev.GetFields()["kind"].GetStringValue())
			return
		case <-deadline:
			t.Fatal("no event streamed")
		case <-time.After(20 * time.Millisecond):
		}
	}
}
