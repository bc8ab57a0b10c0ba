package server

import (
	"bytes"
	"context"
	"image/png"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/undeconstructed/pictogo/game"
)

func newTestClient(t *testing.T) *SessionClient {
	t.Helper()

	s := newTestServer(t)

	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	RegisterSession(gs, s)
	go func() {
		_ = gs.Serve(lis)
	}()
	t.Cleanup(gs.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewSessionClient(conn)
}

func TestGrpc_session(t *testing.T) {
	cli := newTestClient(t)
	ctx := withTimeout(t)

	view, err := cli.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ann", view.Drawer)
	assert.Equal(t, game.Drawing, view.Phase)
	assert.Equal(t, game.Easy, view.Mode)
	assert.Equal(t, 3, view.Width)

	view, err = cli.Apply(ctx, "next")
	require.NoError(t, err)
	assert.Equal(t, game.Guessing, view.Phase)
	assert.Equal(t, "Bob", view.Turn)

	view, err = cli.Apply(ctx, "guess:bird")
	require.NoError(t, err)
	assert.Equal(t, 2, view.Attempts)

	view, err = cli.Apply(ctx, "guess:cat")
	require.NoError(t, err)
	assert.Equal(t, game.RoundOver, view.Phase)
	require.Len(t, view.Players, 2)
	assert.Equal(t, 1, view.Players[1].Score)
}

func TestGrpc_errors(t *testing.T) {
	cli := newTestClient(t)
	ctx := withTimeout(t)

	_, err := cli.Apply(ctx, "juggle")
	assert.ErrorIs(t, err, game.ErrBadRequest)

	_, err = cli.Apply(ctx, "guess:cat")
	assert.ErrorIs(t, err, game.ErrNotNow)

	_, err = cli.Apply(ctx, "open:/etc/hosts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not allowed remotely")
}

func TestGrpc_canvas(t *testing.T) {
	cli := newTestClient(t)
	ctx := withTimeout(t)

	data, err := cli.Canvas(ctx)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestToStatus(t *testing.T) {
	assert.Equal(t, codes.InvalidArgument, status.Code(toStatus(game.ErrUnknownCommand)))
	assert.Equal(t, codes.FailedPrecondition, status.Code(toStatus(game.ErrNotNow)))
	assert.Equal(t, codes.Unavailable, status.Code(toStatus(ErrStopped)))
	assert.Equal(t, codes.Canceled, status.Code(toStatus(context.Canceled)))
}
