package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

func TestLiveStream_SendsSnapshots(t *testing.T) {
	f := newFakeCDC(t)
	svc := newTestServices(t, f)
	h := NewLive(svc.Store, zerolog.Nop())

	srv := httptest.NewServer(http.HandlerFunc(h.Stream))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var msg liveMessage
	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, "state", msg.Type)
	assert.Equal(t, uint64(0), msg.State.Version)

	require.NoError(t, svc.Store.Dispatch(store.UsersLoaded{Items: []model.User{{ID: "1", Email: "ops@example.com"}}}))

	require.NoError(t, wsjson.Read(ctx, conn, &msg))
	assert.Equal(t, uint64(1), msg.State.Version)
	require.Len(t, msg.State.Users, 1)
	assert.Equal(t, "ops@example.com", msg.State.Users[0].Email)

	conn.Close(websocket.StatusNormalClosure, "")
}
