package zkcli

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-zookeeper/zk"
)

// Disposition is the creation mode of a node.
type Disposition int

const (
	Persistent Disposition = iota
	PersistentSequential
	Ephemeral
	EphemeralSequential
	PersistentTTL
	PersistentSequentialTTL
	Container
)

var dispositionNames = map[Disposition]string{
	Persistent:              "persistent",
	PersistentSequential:    "persistent-sequential",
	Ephemeral:               "ephemeral",
	EphemeralSequential:     "ephemeral-sequential",
	PersistentTTL:           "persistent-ttl",
	PersistentSequentialTTL: "persistent-sequential-ttl",
	Container:               "container",
}

func (d Disposition) String() string {
	name, ok := dispositionNames[d]
	if !ok {
		return "persistent"
	}
	return name
}

// IsSequential reports whether created names get a sequence suffix.
func (d Disposition) IsSequential() bool {
	return d == PersistentSequential || d == EphemeralSequential ||
		d == PersistentSequentialTTL
}

// Client is a synchronous, typed facade over the native client. Failure
// codes surface as the native sentinel errors so callers can classify them
// with errors.Is and the helpers in this package.
type Client struct {
	conn    Conn
	logger  Logger
	servers []string
	timeout time.Duration

	readOnly bool

	lastEvent atomic.Pointer[Event]
}

// Option configures a Client.
type Option func(c *Client)

// WithLogger replaces the default no-op logger.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithReadOnly makes every mutating call fail with ErrReadOnly before any
// network I/O. The native client has no read-only session mode, so the
// guard lives client-side.
func WithReadOnly() Option {
	return func(c *Client) {
		c.readOnly = true
	}
}

// New wraps an already-established native connection.
func New(conn Conn, options ...Option) *Client {
	c := &Client{
		conn:   conn,
		logger: nopLogger{},
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Dial connects to the given servers and wraps the connection. Session
// state events are drained into an atomic reference readable through
// LastEvent, keeping the native notification thread out of wrapper state.
func Dial(servers []string, sessionTimeout time.Duration, options ...Option) (*Client, error) {
	if len(servers) == 0 {
		return nil, errors.New("zkcli: server list must not be empty")
	}
	if sessionTimeout < time.Second {
		return nil, errors.New("zkcli: session timeout must not be too small")
	}

	c := New(nil, options...)
	c.servers = zk.FormatServers(servers)
	c.timeout = sessionTimeout

	conn, events, err := zk.Connect(
		c.servers, sessionTimeout,
		zk.WithLogger(nativeLogger{logger: c.logger}),
		zk.WithLogInfo(false),
	)
	if err != nil {
		return nil, err
	}
	c.conn = conn

	go c.consumeSessionEvents(events)

	return c, nil
}

func (c *Client) consumeSessionEvents(events <-chan zk.Event) {
	for ev := range events {
		projected := eventOf(ev)
		c.lastEvent.Store(&projected)
		if projected.State == StateExpired {
			c.logger.Warnf("Session expired")
		}
	}
}

// LastEvent returns the most recent session event, if any was delivered.
func (c *Client) LastEvent() (Event, bool) {
	ev := c.lastEvent.Load()
	if ev == nil {
		return Event{}, false
	}
	return *ev, true
}

// Servers returns the server list the client was dialed with.
func (c *Client) Servers() []string {
	return c.servers
}

// Session returns the current connection identity and lifecycle state.
func (c *Client) Session() Session {
	return Session{
		ID:      c.conn.SessionID(),
		Timeout: c.timeout,
		State:   stateOf(c.conn.State()),
	}
}

// ReadOnly reports whether mutating calls are rejected client-side.
func (c *Client) ReadOnly() bool {
	return c.readOnly
}

// Close shuts down the native connection.
func (c *Client) Close() {
	c.conn.Close()
}

func (c *Client) guardMutation() error {
	if c.readOnly {
		return ErrReadOnly
	}
	return nil
}

// Get returns the data and status of a node.
func (c *Client) Get(path string) ([]byte, Status, error) {
	data, stat, err := c.conn.Get(path)
	if err != nil {
		return nil, Status{}, err
	}
	return data, statusOf(stat), nil
}

// GetW is Get with a one-shot data watch.
func (c *Client) GetW(path string) ([]byte, Status, <-chan Event, error) {
	data, stat, events, err := c.conn.GetW(path)
	if err != nil {
		return nil, Status{}, nil, err
	}
	return data, statusOf(stat), projectEvents(events), nil
}

// Set replaces the data of a node. A version of -1 skips the version check.
func (c *Client) Set(path string, data []byte, version int32) (Status, error) {
	if err := c.guardMutation(); err != nil {
		return Status{}, err
	}
	stat, err := c.conn.Set(path, data, version)
	if err != nil {
		return Status{}, err
	}
	return statusOf(stat), nil
}

// Create makes a new node with the given disposition and returns the
// actual name, which differs from path for sequential dispositions.
// A nil acl defaults to world-readable with all permissions.
func (c *Client) Create(
	path string, data []byte, disposition Disposition,
	ttl time.Duration, acl []ACL,
) (string, error) {
	if err := c.guardMutation(); err != nil {
		return "", err
	}
	if acl == nil {
		acl = OpenACL(PermAll)
	}
	if len(acl) == 0 {
		return "", ErrEmptyACL
	}
	nacl := toNativeACL(acl)

	switch disposition {
	case Persistent:
		return c.conn.Create(path, data, 0, nacl)
	case PersistentSequential:
		return c.conn.Create(path, data, zk.FlagSequence, nacl)
	case Ephemeral:
		return c.conn.Create(path, data, zk.FlagEphemeral, nacl)
	case EphemeralSequential:
		return c.conn.Create(path, data, zk.FlagEphemeral|zk.FlagSequence, nacl)
	case PersistentTTL:
		return c.conn.CreateTTL(path, data, zk.FlagTTL, nacl, ttl)
	case PersistentSequentialTTL:
		return c.conn.CreateTTL(path, data, zk.FlagTTL|zk.FlagSequence, nacl, ttl)
	case Container:
		return c.conn.CreateContainer(path, data, zk.FlagTTL, nacl)
	default:
		return "", fmt.Errorf("zkcli: unknown disposition %d", disposition)
	}
}

// Delete removes a node. A version of -1 skips the version check.
func (c *Client) Delete(path string, version int32) error {
	if err := c.guardMutation(); err != nil {
		return err
	}
	return c.conn.Delete(path, version)
}

// Exists returns the status of a node and whether it is present at all.
func (c *Client) Exists(path string) (Status, bool, error) {
	ok, stat, err := c.conn.Exists(path)
	if err != nil {
		return Status{}, false, err
	}
	return statusOf(stat), ok, nil
}

// ExistsW is Exists with a one-shot watch covering creation, deletion and
// data changes.
func (c *Client) ExistsW(path string) (Status, bool, <-chan Event, error) {
	ok, stat, events, err := c.conn.ExistsW(path)
	if err != nil {
		return Status{}, false, nil, err
	}
	return statusOf(stat), ok, projectEvents(events), nil
}

// Children lists the child names of a node.
func (c *Client) Children(path string) ([]string, Status, error) {
	children, stat, err := c.conn.Children(path)
	if err != nil {
		return nil, Status{}, err
	}
	return children, statusOf(stat), nil
}

// ChildrenW is Children with a one-shot child watch.
func (c *Client) ChildrenW(path string) ([]string, Status, <-chan Event, error) {
	children, stat, events, err := c.conn.ChildrenW(path)
	if err != nil {
		return nil, Status{}, nil, err
	}
	return children, statusOf(stat), projectEvents(events), nil
}

// GetACL returns the access-control list of a node.
func (c *Client) GetACL(path string) ([]ACL, Status, error) {
	nacl, stat, err := c.conn.GetACL(path)
	if err != nil {
		return nil, Status{}, err
	}
	return fromNativeACL(nacl), statusOf(stat), nil
}

// SetACL replaces the access-control list of a node. The version is the
// ACL version (Status.ACLVersion), and -1 skips the check. An empty list
// fails before any network call.
func (c *Client) SetACL(path string, acl []ACL, version int32) (Status, error) {
	if err := c.guardMutation(); err != nil {
		return Status{}, err
	}
	if len(acl) == 0 {
		return Status{}, ErrEmptyACL
	}
	stat, err := c.conn.SetACL(path, toNativeACL(acl), version)
	if err != nil {
		return Status{}, err
	}
	return statusOf(stat), nil
}

// AddAuth attaches credentials to the session, typically with the
// "digest" scheme and auth of the form "username:password".
func (c *Client) AddAuth(scheme string, auth []byte) error {
	return c.conn.AddAuth(scheme, auth)
}

// Sync flushes the channel between this client's server and the leader
// so subsequent reads observe all prior writes.
func (c *Client) Sync(path string) error {
	_, err := c.conn.Sync(path)
	return err
}
