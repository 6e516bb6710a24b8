package zkcli

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-zookeeper/zk"
)

// FakeConn is an in-memory implementation of Conn with ZooKeeper's node,
// version, ACL and one-shot watch semantics. It backs the wrapper and
// shell tests; no network is involved.
type FakeConn struct {
	mut sync.Mutex

	root      *fakeNode
	zxid      int64
	sessionID int64
	state     zk.State

	nextErr error

	muted   bool
	pending []pendingFire

	dataWatches  map[string][]chan zk.Event
	existWatches map[string][]chan zk.Event
	childWatches map[string][]chan zk.Event
}

type fakeNode struct {
	data      []byte
	acl       []zk.ACL
	children  map[string]*fakeNode
	ephemeral bool

	czxid    int64
	mzxid    int64
	pzxid    int64
	ctime    int64
	mtime    int64
	version  int32
	cversion int32
	aversion int32
	nextSeq  int32
}

func NewFakeConn() *FakeConn {
	return &FakeConn{
		root: &fakeNode{
			acl:      zk.WorldACL(zk.PermAll),
			children: map[string]*fakeNode{},
		},
		sessionID: 1,
		state:     zk.StateHasSession,

		dataWatches:  map[string][]chan zk.Event{},
		existWatches: map[string][]chan zk.Event{},
		childWatches: map[string][]chan zk.Event{},
	}
}

// DataWatchCount reports how many one-shot data watches are registered on
// path. Used by tests to wait for a watch to be re-armed.
func (c *FakeConn) DataWatchCount(path string) int {
	c.mut.Lock()
	defer c.mut.Unlock()
	return len(c.dataWatches[path])
}

// FailNext makes the next operation return err instead of running.
func (c *FakeConn) FailNext(err error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.nextErr = err
}

func (c *FakeConn) takeErr() error {
	err := c.nextErr
	c.nextErr = nil
	return err
}

func splitFakePath(p string) ([]string, error) {
	if !strings.HasPrefix(p, "/") {
		return nil, zk.ErrInvalidPath
	}
	if p == "/" {
		return nil, nil
	}
	return strings.Split(p[1:], "/"), nil
}

func (c *FakeConn) lookup(p string) (*fakeNode, error) {
	parts, err := splitFakePath(p)
	if err != nil {
		return nil, err
	}
	node := c.root
	for _, part := range parts {
		child, ok := node.children[part]
		if !ok {
			return nil, zk.ErrNoNode
		}
		node = child
	}
	return node, nil
}

func splitParent(p string) (parent string, name string) {
	idx := strings.LastIndexByte(p, '/')
	if idx <= 0 {
		return "/", p[idx+1:]
	}
	return p[:idx], p[idx+1:]
}

func (n *fakeNode) stat() *zk.Stat {
	var owner int64
	if n.ephemeral {
		owner = 1
	}
	return &zk.Stat{
		Czxid:          n.czxid,
		Mzxid:          n.mzxid,
		Pzxid:          n.pzxid,
		Ctime:          n.ctime,
		Mtime:          n.mtime,
		Version:        n.version,
		Cversion:       n.cversion,
		Aversion:       n.aversion,
		EphemeralOwner: owner,
		DataLength:     int32(len(n.data)),
		NumChildren:    int32(len(n.children)),
	}
}

type watchKind int

const (
	watchData watchKind = iota
	watchExist
	watchChild
)

type pendingFire struct {
	kind   watchKind
	path   string
	evType zk.EventType
}

func (c *FakeConn) watchMap(kind watchKind) map[string][]chan zk.Event {
	switch kind {
	case watchData:
		return c.dataWatches
	case watchExist:
		return c.existWatches
	default:
		return c.childWatches
	}
}

// fire triggers the one-shot watches of the given kind. Inside a
// transaction dry run the fires are buffered and replayed only on commit.
func (c *FakeConn) fire(kind watchKind, path string, evType zk.EventType) {
	if c.muted {
		c.pending = append(c.pending, pendingFire{kind: kind, path: path, evType: evType})
		return
	}
	watches := c.watchMap(kind)
	for _, ch := range watches[path] {
		ch <- zk.Event{Type: evType, State: zk.StateHasSession, Path: path}
		close(ch)
	}
	delete(watches, path)
}

func (c *FakeConn) fireNodeEvent(path string, evType zk.EventType) {
	c.fire(watchData, path, evType)
	c.fire(watchExist, path, evType)
	parent, _ := splitParent(path)
	c.fire(watchChild, parent, zk.EventNodeChildrenChanged)
}

func (c *FakeConn) create(
	path string, data []byte, flags int32, acl []zk.ACL, ttl time.Duration,
) (string, error) {
	_ = ttl

	if len(acl) == 0 {
		return "", zk.ErrInvalidACL
	}
	parentPath, name := splitParent(path)
	if name == "" {
		return "", zk.ErrInvalidPath
	}
	parent, err := c.lookup(parentPath)
	if err != nil {
		return "", err
	}
	if parent.ephemeral {
		return "", zk.ErrNoChildrenForEphemerals
	}
	if flags&zk.FlagSequence != 0 {
		name = fmt.Sprintf("%s%010d", name, parent.nextSeq)
		parent.nextSeq++
	}
	if _, ok := parent.children[name]; ok {
		return "", zk.ErrNodeExists
	}

	c.zxid++
	now := time.Now().UnixMilli()
	node := &fakeNode{
		data:      data,
		acl:       acl,
		children:  map[string]*fakeNode{},
		ephemeral: flags&zk.FlagEphemeral != 0,
		czxid:     c.zxid,
		mzxid:     c.zxid,
		pzxid:     c.zxid,
		ctime:     now,
		mtime:     now,
	}
	parent.children[name] = node
	parent.cversion++
	parent.pzxid = c.zxid

	created := parentPath + "/" + name
	if parentPath == "/" {
		created = "/" + name
	}
	c.fire(watchExist, created, zk.EventNodeCreated)
	c.fire(watchChild, parentPath, zk.EventNodeChildrenChanged)
	return created, nil
}

func (c *FakeConn) Create(path string, data []byte, flags int32, acl []zk.ACL) (string, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return "", err
	}
	return c.create(path, data, flags, acl, 0)
}

func (c *FakeConn) CreateContainer(path string, data []byte, flags int32, acl []zk.ACL) (string, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return "", err
	}
	if flags&zk.FlagTTL != zk.FlagTTL {
		return "", zk.ErrInvalidFlags
	}
	return c.create(path, data, 0, acl, 0)
}

func (c *FakeConn) CreateTTL(path string, data []byte, flags int32, acl []zk.ACL, ttl time.Duration) (string, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return "", err
	}
	if flags&zk.FlagTTL != zk.FlagTTL {
		return "", zk.ErrInvalidFlags
	}
	return c.create(path, data, flags&^zk.FlagTTL, acl, ttl)
}

func (c *FakeConn) del(path string, version int32) error {
	parentPath, name := splitParent(path)
	node, err := c.lookup(path)
	if err != nil {
		return err
	}
	if version != -1 && version != node.version {
		return zk.ErrBadVersion
	}
	if len(node.children) > 0 {
		return zk.ErrNotEmpty
	}
	parent, err := c.lookup(parentPath)
	if err != nil {
		return err
	}
	delete(parent.children, name)
	c.zxid++
	parent.cversion++
	parent.pzxid = c.zxid

	c.fireNodeEvent(path, zk.EventNodeDeleted)
	return nil
}

func (c *FakeConn) Delete(path string, version int32) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return err
	}
	return c.del(path, version)
}

func (c *FakeConn) set(path string, data []byte, version int32) (*zk.Stat, error) {
	node, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	if version != -1 && version != node.version {
		return nil, zk.ErrBadVersion
	}
	c.zxid++
	node.data = data
	node.version++
	node.mzxid = c.zxid
	node.mtime = time.Now().UnixMilli()

	c.fire(watchData, path, zk.EventNodeDataChanged)
	c.fire(watchExist, path, zk.EventNodeDataChanged)
	return node.stat(), nil
}

func (c *FakeConn) Set(path string, data []byte, version int32) (*zk.Stat, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, err
	}
	return c.set(path, data, version)
}

func (c *FakeConn) Get(path string) ([]byte, *zk.Stat, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, nil, err
	}
	node, err := c.lookup(path)
	if err != nil {
		return nil, nil, err
	}
	return node.data, node.stat(), nil
}

func (c *FakeConn) GetW(path string) ([]byte, *zk.Stat, <-chan zk.Event, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, nil, nil, err
	}
	node, err := c.lookup(path)
	if err != nil {
		return nil, nil, nil, err
	}
	ch := make(chan zk.Event, 1)
	c.dataWatches[path] = append(c.dataWatches[path], ch)
	return node.data, node.stat(), ch, nil
}

func (c *FakeConn) Exists(path string) (bool, *zk.Stat, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return false, nil, err
	}
	node, err := c.lookup(path)
	if err != nil {
		return false, nil, nil
	}
	return true, node.stat(), nil
}

func (c *FakeConn) ExistsW(path string) (bool, *zk.Stat, <-chan zk.Event, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return false, nil, nil, err
	}
	ch := make(chan zk.Event, 1)
	c.existWatches[path] = append(c.existWatches[path], ch)
	node, err := c.lookup(path)
	if err != nil {
		return false, nil, ch, nil
	}
	return true, node.stat(), ch, nil
}

func (c *FakeConn) Children(path string) ([]string, *zk.Stat, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, nil, err
	}
	node, err := c.lookup(path)
	if err != nil {
		return nil, nil, err
	}
	return childNames(node), node.stat(), nil
}

func (c *FakeConn) ChildrenW(path string) ([]string, *zk.Stat, <-chan zk.Event, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, nil, nil, err
	}
	node, err := c.lookup(path)
	if err != nil {
		return nil, nil, nil, err
	}
	ch := make(chan zk.Event, 1)
	c.childWatches[path] = append(c.childWatches[path], ch)
	return childNames(node), node.stat(), ch, nil
}

func childNames(node *fakeNode) []string {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *FakeConn) GetACL(path string) ([]zk.ACL, *zk.Stat, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, nil, err
	}
	node, err := c.lookup(path)
	if err != nil {
		return nil, nil, err
	}
	return node.acl, node.stat(), nil
}

func (c *FakeConn) SetACL(path string, acl []zk.ACL, version int32) (*zk.Stat, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, err
	}
	if len(acl) == 0 {
		return nil, zk.ErrInvalidACL
	}
	node, err := c.lookup(path)
	if err != nil {
		return nil, err
	}
	if version != -1 && version != node.aversion {
		return nil, zk.ErrBadVersion
	}
	c.zxid++
	node.acl = acl
	node.aversion++
	return node.stat(), nil
}

func (c *FakeConn) AddAuth(scheme string, auth []byte) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.takeErr()
}

func (c *FakeConn) Multi(ops ...any) ([]zk.MultiResponse, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return nil, err
	}

	// dry run against a deep copy, so failure applies nothing
	saved := c.root
	c.root = cloneNode(saved)
	c.muted = true
	c.pending = nil

	responses := make([]zk.MultiResponse, len(ops))
	var failure error
	for i, op := range ops {
		res, err := c.applyMultiOp(op)
		responses[i] = res
		responses[i].Error = err
		if err != nil {
			failure = err
			break
		}
	}

	c.muted = false
	if failure != nil {
		c.root = saved
		c.pending = nil
		return responses, failure
	}
	for _, p := range c.pending {
		c.fire(p.kind, p.path, p.evType)
	}
	c.pending = nil
	return responses, nil
}

func (c *FakeConn) applyMultiOp(op any) (zk.MultiResponse, error) {
	switch o := op.(type) {
	case *zk.CreateRequest:
		created, err := c.create(o.Path, o.Data, o.Flags, o.Acl, 0)
		return zk.MultiResponse{String: created}, err
	case *zk.DeleteRequest:
		return zk.MultiResponse{}, c.del(o.Path, o.Version)
	case *zk.SetDataRequest:
		stat, err := c.set(o.Path, o.Data, o.Version)
		return zk.MultiResponse{Stat: stat}, err
	case *zk.CheckVersionRequest:
		node, err := c.lookup(o.Path)
		if err != nil {
			return zk.MultiResponse{}, err
		}
		if o.Version != -1 && o.Version != node.version {
			return zk.MultiResponse{}, zk.ErrBadVersion
		}
		return zk.MultiResponse{}, nil
	default:
		return zk.MultiResponse{}, zk.ErrUnknown
	}
}

func cloneNode(n *fakeNode) *fakeNode {
	clone := *n
	clone.children = make(map[string]*fakeNode, len(n.children))
	for name, child := range n.children {
		clone.children[name] = cloneNode(child)
	}
	return &clone
}

func (c *FakeConn) Sync(path string) (string, error) {
	c.mut.Lock()
	defer c.mut.Unlock()
	if err := c.takeErr(); err != nil {
		return "", err
	}
	return path, nil
}

func (c *FakeConn) SessionID() int64 {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.sessionID
}

func (c *FakeConn) State() zk.State {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.state
}

func (c *FakeConn) Close() {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.state = zk.StateDisconnected
	for path := range c.dataWatches {
		c.fire(watchData, path, zk.EventNotWatching)
	}
	for path := range c.existWatches {
		c.fire(watchExist, path, zk.EventNotWatching)
	}
	for path := range c.childWatches {
		c.fire(watchChild, path, zk.EventNotWatching)
	}
}

var _ Conn = (*FakeConn)(nil)
