package telemetry

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/spacenav/common"
	"github.com/Carmen-Shannon/spacenav/engine/camera"
	"github.com/Carmen-Shannon/spacenav/engine/pivot"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoseEndpoint(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/pose")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cam := camera.NewCamera()
	hub.Publish(SnapshotOf(cam, pivot.Marker{}, false))

	resp, err = http.Get(srv.URL + "/api/pose")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var got Snapshot
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "perspective", strings.ToLower(got.Projection))
	assert.Equal(t, [3]float64(cam.Pose().Position), got.Position)
}

func TestWebsocketReceivesCommittedPoses(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	cam := camera.NewCamera()
	marker := pivot.Marker{Center: common.Vec3{1, 2, 3}, Scale: 0.5, Visible: true}
	w := NewPoseWatcher(hub, cam, func() pivot.Marker { return marker }, func() bool { return true })
	assert.True(t, w.Check(), "first check always publishes")
	assert.False(t, w.Check(), "unchanged revision is not republished")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var first Snapshot
	require.NoError(t, conn.ReadJSON(&first), "latest snapshot is sent on connect")
	assert.Equal(t, cam.Revision(), first.Revision)
	assert.True(t, first.Navigating)
	assert.Equal(t, marker, first.Marker)

	pose := cam.Pose()
	pose.Position = common.Vec3{0, 0, 42}
	cam.SetPose(pose)
	assert.True(t, w.Check())

	var second Snapshot
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, cam.Revision(), second.Revision)
	assert.Equal(t, [3]float64{0, 0, 42}, second.Position)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}
