package zkcli

import (
	"time"
)

// Node couples a client with a path for object-style access to one entry
// of the namespace. Nodes are cheap values; methods never cache state.
type Node struct {
	client *Client
	path   Path
}

// Node returns a Node for the given path string.
func (c *Client) Node(path string) *Node {
	return &Node{client: c, path: NewPath(path)}
}

// NodeAt returns a Node for an already-built path.
func (c *Client) NodeAt(path Path) *Node {
	return &Node{client: c, path: path}
}

// Path returns the node's path.
func (n *Node) Path() Path {
	return n.path
}

// Name returns the last part of the node's path.
func (n *Node) Name() string {
	return n.path.Base()
}

// Parent returns the enclosing node, or false at the top.
func (n *Node) Parent() (*Node, bool) {
	parent, ok := n.path.ParentOption()
	if !ok {
		return nil, false
	}
	return n.client.NodeAt(parent), true
}

// Child returns the node one level below with the given name.
func (n *Node) Child(name string) *Node {
	return n.client.NodeAt(n.path.Child(name))
}

// Resolve returns the node at rel interpreted against this node's path.
func (n *Node) Resolve(rel string) *Node {
	return n.client.NodeAt(n.path.Resolve(NewPath(rel)).Normalize())
}

// Create makes this node persistent with the given data and default ACL.
func (n *Node) Create(data []byte) (string, error) {
	return n.client.Create(n.path.String(), data, Persistent, 0, nil)
}

// CreateWith makes this node with full control over the creation mode.
func (n *Node) CreateWith(
	data []byte, disposition Disposition, ttl time.Duration, acl []ACL,
) (string, error) {
	return n.client.Create(n.path.String(), data, disposition, ttl, acl)
}

// Get returns the node's data and status.
func (n *Node) Get() ([]byte, Status, error) {
	return n.client.Get(n.path.String())
}

// GetW is Get with a one-shot data watch.
func (n *Node) GetW() ([]byte, Status, <-chan Event, error) {
	return n.client.GetW(n.path.String())
}

// Set replaces the node's data.
func (n *Node) Set(data []byte, version int32) (Status, error) {
	return n.client.Set(n.path.String(), data, version)
}

// Delete removes the node.
func (n *Node) Delete(version int32) error {
	return n.client.Delete(n.path.String(), version)
}

// Exists returns the node's status and whether it is present.
func (n *Node) Exists() (Status, bool, error) {
	return n.client.Exists(n.path.String())
}

// ChildNames lists the names one level below.
func (n *Node) ChildNames() ([]string, Status, error) {
	return n.client.Children(n.path.String())
}

// Children lists the nodes one level below.
func (n *Node) Children() ([]*Node, Status, error) {
	names, status, err := n.client.Children(n.path.String())
	if err != nil {
		return nil, Status{}, err
	}
	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, n.Child(name))
	}
	return nodes, status, nil
}

// GetACL returns the node's access-control list.
func (n *Node) GetACL() ([]ACL, Status, error) {
	return n.client.GetACL(n.path.String())
}

// SetACL replaces the node's access-control list.
func (n *Node) SetACL(acl []ACL, version int32) (Status, error) {
	return n.client.SetACL(n.path.String(), acl, version)
}
