package zkcli

import (
	"time"

	"github.com/go-zookeeper/zk"
)

// Status is a point-in-time metadata snapshot of a node. It is derived
// fresh from the native stat on every query and never cached.
type Status struct {
	Czxid int64
	Mzxid int64
	Pzxid int64

	Ctime time.Time
	Mtime time.Time

	Version        int32
	ChildVersion   int32
	ACLVersion     int32
	EphemeralOwner int64
	DataLength     int32
	NumChildren    int32
}

// IsEphemeral reports whether the node is tied to a session.
func (s Status) IsEphemeral() bool {
	return s.EphemeralOwner != 0
}

func statusOf(stat *zk.Stat) Status {
	if stat == nil {
		return Status{}
	}
	return Status{
		Czxid:          stat.Czxid,
		Mzxid:          stat.Mzxid,
		Pzxid:          stat.Pzxid,
		Ctime:          time.UnixMilli(stat.Ctime),
		Mtime:          time.UnixMilli(stat.Mtime),
		Version:        stat.Version,
		ChildVersion:   stat.Cversion,
		ACLVersion:     stat.Aversion,
		EphemeralOwner: stat.EphemeralOwner,
		DataLength:     stat.DataLength,
		NumChildren:    stat.NumChildren,
	}
}

// State is the wrapper's view of the session lifecycle.
type State int

const (
	StateUnknown State = iota
	StateDisconnected
	StateConnecting
	StateConnected
	StateConnectedReadOnly
	StateAuthenticated
	StateAuthFailed
	StateExpired
	StateClosed
)

var stateNames = map[State]string{
	StateUnknown:           "unknown",
	StateDisconnected:      "disconnected",
	StateConnecting:        "connecting",
	StateConnected:         "connected",
	StateConnectedReadOnly: "connected-read-only",
	StateAuthenticated:     "authenticated",
	StateAuthFailed:        "auth-failed",
	StateExpired:           "expired",
	StateClosed:            "closed",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if !ok {
		return "unknown"
	}
	return name
}

func stateOf(s zk.State) State {
	switch s {
	case zk.StateDisconnected:
		return StateDisconnected
	case zk.StateConnecting:
		return StateConnecting
	case zk.StateConnected:
		return StateConnected
	case zk.StateConnectedReadOnly:
		return StateConnectedReadOnly
	case zk.StateSaslAuthenticated:
		return StateAuthenticated
	case zk.StateHasSession:
		return StateConnected
	case zk.StateAuthFailed:
		return StateAuthFailed
	case zk.StateExpired:
		return StateExpired
	default:
		return StateUnknown
	}
}

// EventType classifies a watch notification.
type EventType int

const (
	EventNone EventType = iota
	EventNodeCreated
	EventNodeDeleted
	EventNodeDataChanged
	EventNodeChildrenChanged
	EventSession
)

var eventNames = map[EventType]string{
	EventNone:                "none",
	EventNodeCreated:         "node-created",
	EventNodeDeleted:         "node-deleted",
	EventNodeDataChanged:     "node-data-changed",
	EventNodeChildrenChanged: "node-children-changed",
	EventSession:             "session",
}

func (t EventType) String() string {
	name, ok := eventNames[t]
	if !ok {
		return "none"
	}
	return name
}

// Event is a watch notification projected into the wrapper's vocabulary.
type Event struct {
	Type  EventType
	State State
	Path  string
	Err   error
}

func eventOf(ev zk.Event) Event {
	out := Event{
		State: stateOf(ev.State),
		Path:  ev.Path,
		Err:   ev.Err,
	}
	switch ev.Type {
	case zk.EventNodeCreated:
		out.Type = EventNodeCreated
	case zk.EventNodeDeleted:
		out.Type = EventNodeDeleted
	case zk.EventNodeDataChanged:
		out.Type = EventNodeDataChanged
	case zk.EventNodeChildrenChanged:
		out.Type = EventNodeChildrenChanged
	case zk.EventSession:
		out.Type = EventSession
	default:
		out.Type = EventNone
	}
	return out
}

// Session describes the connection identity and lifecycle state,
// re-derived on demand.
type Session struct {
	ID      int64
	Timeout time.Duration
	State   State
}
