package zkcli

import (
	"errors"

	"github.com/go-zookeeper/zk"
)

// ErrReadOnly indicates a mutating operation on a read-only client.
// It is raised before any network call.
var ErrReadOnly = errors.New("zkcli: client is read-only")

// ErrEmptyACL indicates an attempt to set an empty ACL list on a node.
var ErrEmptyACL = errors.New("zkcli: ACL list must not be empty")

// Render turns an operation error into the single-line message shown to
// the user. Unexpected errors fall through with their own text.
func Render(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, zk.ErrNoNode):
		return "no such node"
	case errors.Is(err, zk.ErrBadVersion):
		return "version mismatch"
	case errors.Is(err, zk.ErrNodeExists):
		return "node already exists"
	case errors.Is(err, zk.ErrNotEmpty):
		return "node has children"
	case errors.Is(err, zk.ErrInvalidACL):
		return "invalid ACL"
	case errors.Is(err, ErrEmptyACL):
		return "ACL list must not be empty"
	case errors.Is(err, zk.ErrNoChildrenForEphemerals):
		return "ephemeral nodes cannot have children"
	case errors.Is(err, zk.ErrSessionExpired):
		return "session has expired"
	case errors.Is(err, zk.ErrNoAuth):
		return "not authorized"
	case errors.Is(err, zk.ErrAuthFailed):
		return "authentication failed"
	case errors.Is(err, ErrReadOnly):
		return "client is read-only"
	case errors.Is(err, zk.ErrUnknown):
		return "coordination service error"
	case IsConnectionLoss(err):
		return "connection lost"
	default:
		return err.Error()
	}
}

func IsNoNode(err error) bool {
	return errors.Is(err, zk.ErrNoNode)
}

func IsNodeExists(err error) bool {
	return errors.Is(err, zk.ErrNodeExists)
}

func IsBadVersion(err error) bool {
	return errors.Is(err, zk.ErrBadVersion)
}

func IsNotEmpty(err error) bool {
	return errors.Is(err, zk.ErrNotEmpty)
}

func IsSessionExpired(err error) bool {
	return errors.Is(err, zk.ErrSessionExpired)
}

func IsNoAuth(err error) bool {
	return errors.Is(err, zk.ErrNoAuth) || errors.Is(err, zk.ErrAuthFailed)
}

// IsConnectionLoss reports errors caused by losing the server connection,
// as opposed to a per-node failure.
func IsConnectionLoss(err error) bool {
	return errors.Is(err, zk.ErrConnectionClosed) ||
		errors.Is(err, zk.ErrNoServer) ||
		errors.Is(err, zk.ErrClosing)
}
