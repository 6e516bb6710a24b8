package zkcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_Basics(t *testing.T) {
	c, _ := newTestClient(t)
	node := c.Node("/app/config")

	assert.Equal(t, "/app/config", node.Path().String())
	assert.Equal(t, "config", node.Name())

	parent, ok := node.Parent()
	require.True(t, ok)
	assert.Equal(t, "/app", parent.Path().String())

	root, ok := parent.Parent()
	require.True(t, ok)
	assert.Equal(t, "/", root.Path().String())

	_, ok = root.Parent()
	assert.False(t, ok)

	assert.Equal(t, "/app/config/db", node.Child("db").Path().String())
	assert.Equal(t, "/app/other", node.Resolve("../other").Path().String())
}

func TestNode_CRUD(t *testing.T) {
	c, _ := newTestClient(t)

	app := c.Node("/app")
	_, err := app.Create([]byte("root"))
	require.NoError(t, err)

	cfg := app.Child("config")
	_, err = cfg.Create([]byte("v1"))
	require.NoError(t, err)

	data, status, err := cfg.Get()
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), data)

	_, err = cfg.Set([]byte("v2"), status.Version)
	require.NoError(t, err)

	names, _, err := app.ChildNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"config"}, names)

	children, _, err := app.Children()
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "/app/config", children[0].Path().String())

	_, ok, err := cfg.Exists()
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, cfg.Delete(-1))
	_, ok, err = cfg.Exists()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNode_ACL(t *testing.T) {
	c, _ := newTestClient(t)
	node := c.Node("/secure")
	_, err := node.CreateWith(nil, Persistent, 0, []ACL{{ID: WorldID(), Perms: PermRead}})
	require.NoError(t, err)

	acl, _, err := node.GetACL()
	require.NoError(t, err)
	assert.Equal(t, []ACL{{ID: WorldID(), Perms: PermRead}}, acl)

	_, err = node.SetACL(OpenACL(PermAll), -1)
	require.NoError(t, err)
}
