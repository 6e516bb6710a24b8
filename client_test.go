package zkcli

import (
	"errors"
	"testing"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDial_Validate(t *testing.T) {
	t.Run("empty servers", func(t *testing.T) {
		client, err := Dial(nil, 10*time.Second)
		assert.Equal(t, errors.New("zkcli: server list must not be empty"), err)
		assert.Nil(t, client)
	})

	t.Run("timeout too small", func(t *testing.T) {
		client, err := Dial([]string{"localhost"}, 0)
		assert.Equal(t, errors.New("zkcli: session timeout must not be too small"), err)
		assert.Nil(t, client)
	})
}

func newTestClient(t *testing.T, options ...Option) (*Client, *FakeConn) {
	t.Helper()
	conn := NewFakeConn()
	return New(conn, options...), conn
}

func TestClient_CreateGetSetDelete(t *testing.T) {
	c, _ := newTestClient(t)

	created, err := c.Create("/foo", nil, Persistent, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "/foo", created)

	data, status, err := c.Get("/foo")
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, int32(0), status.Version)
	assert.False(t, status.IsEphemeral())

	status, err = c.Set("/foo", []byte("hello"), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), status.Version)

	data, status, err = c.Get("/foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, int32(5), status.DataLength)

	err = c.Delete("/foo", 1)
	require.NoError(t, err)

	_, _, err = c.Get("/foo")
	assert.True(t, IsNoNode(err))
}

func TestClient_CreateDispositions(t *testing.T) {
	t.Run("ephemeral", func(t *testing.T) {
		c, _ := newTestClient(t)
		_, err := c.Create("/e", nil, Ephemeral, 0, nil)
		require.NoError(t, err)

		status, ok, err := c.Exists("/e")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, status.IsEphemeral())

		_, err = c.Create("/e/child", nil, Persistent, 0, nil)
		assert.True(t, errors.Is(err, zk.ErrNoChildrenForEphemerals))
	})

	t.Run("sequential", func(t *testing.T) {
		c, _ := newTestClient(t)
		_, err := c.Create("/q", nil, Persistent, 0, nil)
		require.NoError(t, err)

		first, err := c.Create("/q/n-", nil, PersistentSequential, 0, nil)
		require.NoError(t, err)
		second, err := c.Create("/q/n-", nil, PersistentSequential, 0, nil)
		require.NoError(t, err)
		assert.Equal(t, "/q/n-0000000000", first)
		assert.Equal(t, "/q/n-0000000001", second)
	})

	t.Run("container", func(t *testing.T) {
		c, _ := newTestClient(t)
		created, err := c.Create("/c", nil, Container, 0, nil)
		require.NoError(t, err)
		assert.Equal(t, "/c", created)
	})

	t.Run("ttl", func(t *testing.T) {
		c, _ := newTestClient(t)
		created, err := c.Create("/t", nil, PersistentTTL, 30*time.Second, nil)
		require.NoError(t, err)
		assert.Equal(t, "/t", created)
	})

	t.Run("empty acl rejected before network", func(t *testing.T) {
		c, conn := newTestClient(t)
		conn.FailNext(errors.New("should not be called"))
		_, err := c.Create("/x", nil, Persistent, 0, []ACL{})
		assert.Equal(t, ErrEmptyACL, err)
	})
}

func TestClient_VersionChecks(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Create("/v", []byte("a"), Persistent, 0, nil)
	require.NoError(t, err)

	t.Run("set with wrong version", func(t *testing.T) {
		_, err := c.Set("/v", []byte("b"), 7)
		assert.True(t, IsBadVersion(err))
	})

	t.Run("set with force version", func(t *testing.T) {
		status, err := c.Set("/v", []byte("b"), -1)
		require.NoError(t, err)
		assert.Equal(t, int32(1), status.Version)
	})

	t.Run("delete with wrong version", func(t *testing.T) {
		err := c.Delete("/v", 0)
		assert.True(t, IsBadVersion(err))
	})
}

func TestClient_DeleteNotEmpty(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Create("/p", nil, Persistent, 0, nil)
	require.NoError(t, err)
	_, err = c.Create("/p/c", nil, Persistent, 0, nil)
	require.NoError(t, err)

	err = c.Delete("/p", -1)
	assert.True(t, IsNotEmpty(err))
}

func TestClient_Children(t *testing.T) {
	c, _ := newTestClient(t)
	for _, p := range []string{"/a", "/a/x", "/a/y"} {
		_, err := c.Create(p, nil, Persistent, 0, nil)
		require.NoError(t, err)
	}

	children, status, err := c.Children("/a")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, children)
	assert.Equal(t, int32(2), status.NumChildren)
}

func TestClient_ACL(t *testing.T) {
	c, _ := newTestClient(t)
	_, err := c.Create("/acl", nil, Persistent, 0, nil)
	require.NoError(t, err)

	acl, status, err := c.GetACL("/acl")
	require.NoError(t, err)
	assert.Equal(t, []ACL{{ID: WorldID(), Perms: PermAll}}, acl)
	assert.Equal(t, int32(0), status.ACLVersion)

	next := []ACL{{ID: WorldID(), Perms: PermRead}}
	status, err = c.SetACL("/acl", next, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(1), status.ACLVersion)

	acl, _, err = c.GetACL("/acl")
	require.NoError(t, err)
	assert.Equal(t, next, acl)

	t.Run("empty list rejected before network", func(t *testing.T) {
		_, err := c.SetACL("/acl", nil, -1)
		assert.Equal(t, ErrEmptyACL, err)
	})

	t.Run("acl version mismatch", func(t *testing.T) {
		_, err := c.SetACL("/acl", next, 0)
		assert.True(t, IsBadVersion(err))
	})
}

func TestClient_ReadOnly(t *testing.T) {
	c, conn := newTestClient(t, WithReadOnly())
	assert.True(t, c.ReadOnly())

	_, err := c.Create("/r", nil, Persistent, 0, nil)
	assert.Equal(t, ErrReadOnly, err)
	_, err = c.Set("/r", nil, -1)
	assert.Equal(t, ErrReadOnly, err)
	err = c.Delete("/r", -1)
	assert.Equal(t, ErrReadOnly, err)
	_, err = c.SetACL("/r", OpenACL(PermAll), -1)
	assert.Equal(t, ErrReadOnly, err)
	_, err = c.Transact([]Op{CheckOp{Path: "/", Version: -1}})
	assert.Equal(t, ErrReadOnly, err)

	// reads still pass through
	_, ok, err := c.Exists("/r")
	require.NoError(t, err)
	assert.False(t, ok)
	_ = conn
}

func TestClient_Session(t *testing.T) {
	c, _ := newTestClient(t)
	sess := c.Session()
	assert.Equal(t, int64(1), sess.ID)
	assert.Equal(t, StateConnected, sess.State)
}

func TestClient_Transact(t *testing.T) {
	t.Run("all or nothing success", func(t *testing.T) {
		c, _ := newTestClient(t)
		results, err := c.Transact([]Op{
			CreateOp{Path: "/t"},
			CreateOp{Path: "/t/a", Data: []byte("x")},
			SetOp{Path: "/t/a", Data: []byte("y"), Version: 0},
		})
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "/t", results[0].CreatedPath)
		assert.Equal(t, "/t/a", results[1].CreatedPath)
		assert.Equal(t, int32(1), results[2].Status.Version)

		data, _, err := c.Get("/t/a")
		require.NoError(t, err)
		assert.Equal(t, []byte("y"), data)
	})

	t.Run("failure applies nothing", func(t *testing.T) {
		c, _ := newTestClient(t)
		_, err := c.Create("/exists", nil, Persistent, 0, nil)
		require.NoError(t, err)

		results, err := c.Transact([]Op{
			CreateOp{Path: "/fresh"},
			CreateOp{Path: "/exists"},
		})
		assert.Nil(t, results)

		var terr *TransactError
		require.ErrorAs(t, err, &terr)
		require.Len(t, terr.Problems, 2)
		assert.NoError(t, terr.Problems[0].Err)
		assert.True(t, IsNodeExists(terr.Problems[1].Err))

		_, ok, err := c.Exists("/fresh")
		require.NoError(t, err)
		assert.False(t, ok, "failed transaction must not create /fresh")
	})

	t.Run("check version", func(t *testing.T) {
		c, _ := newTestClient(t)
		_, err := c.Create("/chk", nil, Persistent, 0, nil)
		require.NoError(t, err)

		_, err = c.Transact([]Op{
			CheckOp{Path: "/chk", Version: 3},
			SetOp{Path: "/chk", Data: []byte("x"), Version: -1},
		})
		var terr *TransactError
		require.ErrorAs(t, err, &terr)
		assert.True(t, IsBadVersion(terr.Problems[0].Err))

		data, _, err := c.Get("/chk")
		require.NoError(t, err)
		assert.Empty(t, data)
	})

	t.Run("ttl disposition rejected", func(t *testing.T) {
		c, _ := newTestClient(t)
		_, err := c.Transact([]Op{
			CreateOp{Path: "/x", Disposition: PersistentTTL},
		})
		assert.Error(t, err)
	})
}

func TestRender(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{zk.ErrNoNode, "no such node"},
		{zk.ErrBadVersion, "version mismatch"},
		{zk.ErrNodeExists, "node already exists"},
		{zk.ErrNotEmpty, "node has children"},
		{zk.ErrInvalidACL, "invalid ACL"},
		{zk.ErrNoChildrenForEphemerals, "ephemeral nodes cannot have children"},
		{zk.ErrSessionExpired, "session has expired"},
		{zk.ErrNoAuth, "not authorized"},
		{zk.ErrConnectionClosed, "connection lost"},
		{ErrReadOnly, "client is read-only"},
		{errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Render(tt.err))
	}
}
