package zkcli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func TestClient_GetW(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Create("/w", nil, Persistent, 0, nil)
	require.NoError(t, err)

	_, _, events, err := c.GetW("/w")
	require.NoError(t, err)

	_, err = c.Set("/w", []byte("x"), -1)
	require.NoError(t, err)

	ev := recvEvent(t, events)
	assert.Equal(t, EventNodeDataChanged, ev.Type)
	assert.Equal(t, "/w", ev.Path)
}

func TestClient_ExistsW_Creation(t *testing.T) {
	c, _ := newTestClient(t)

	_, ok, events, err := c.ExistsW("/later")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Create("/later", nil, Persistent, 0, nil)
	require.NoError(t, err)

	ev := recvEvent(t, events)
	assert.Equal(t, EventNodeCreated, ev.Type)
}

func TestClient_ChildrenW(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Create("/p", nil, Persistent, 0, nil)
	require.NoError(t, err)

	_, _, events, err := c.ChildrenW("/p")
	require.NoError(t, err)

	_, err = c.Create("/p/c", nil, Persistent, 0, nil)
	require.NoError(t, err)

	ev := recvEvent(t, events)
	assert.Equal(t, EventNodeChildrenChanged, ev.Type)
	assert.Equal(t, "/p", ev.Path)
}

func TestClient_WatchData_Rearms(t *testing.T) {
	c, conn := newTestClient(t)
	_, err := c.Create("/d", nil, Persistent, 0, nil)
	require.NoError(t, err)

	w := c.WatchData("/d")
	defer w.Stop()

	waitArmed := func() {
		require.Eventually(t, func() bool {
			return conn.DataWatchCount("/d") > 0
		}, 2*time.Second, time.Millisecond)
	}

	waitArmed()
	_, err = c.Set("/d", []byte("one"), -1)
	require.NoError(t, err)
	ev := recvEvent(t, w.Events())
	assert.Equal(t, EventNodeDataChanged, ev.Type)

	// one-shot native watches would be spent by now; the watcher re-arms
	waitArmed()
	_, err = c.Set("/d", []byte("two"), -1)
	require.NoError(t, err)
	ev = recvEvent(t, w.Events())
	assert.Equal(t, EventNodeDataChanged, ev.Type)
}

func TestClient_WatchData_MissingNode(t *testing.T) {
	c, _ := newTestClient(t)

	w := c.WatchChildren("/nope")
	defer w.Stop()
	// the child watch cannot be established on a missing node; the
	// channel closes instead of blocking forever
	select {
	case _, ok := <-w.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not terminate")
	}
}

func TestWatcher_Stop(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Create("/s", nil, Persistent, 0, nil)
	require.NoError(t, err)

	w := c.WatchData("/s")
	w.Stop()
	w.Stop() // idempotent
}
