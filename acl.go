package zkcli

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-zookeeper/zk"
)

// Perms is a bitmask of node permissions.
type Perms int32

const (
	PermRead   Perms = 1 << iota // read data and list children
	PermWrite                    // write data
	PermCreate                   // create children
	PermDelete                   // delete children
	PermAdmin                    // set permissions

	PermAll = PermRead | PermWrite | PermCreate | PermDelete | PermAdmin
)

// permOrder is the canonical rendering order.
var permOrder = []struct {
	ch   byte
	perm Perms
}{
	{'r', PermRead},
	{'w', PermWrite},
	{'c', PermCreate},
	{'d', PermDelete},
	{'a', PermAdmin},
}

// ParsePerms parses a permission character class. Each of 'r', 'w', 'c',
// 'd', 'a' sets the corresponding bit and '*' sets all of them.
func ParsePerms(s string) (Perms, error) {
	var perms Perms
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'r':
			perms |= PermRead
		case 'w':
			perms |= PermWrite
		case 'c':
			perms |= PermCreate
		case 'd':
			perms |= PermDelete
		case 'a':
			perms |= PermAdmin
		case '*':
			perms |= PermAll
		default:
			return 0, fmt.Errorf("zkcli: invalid permission character %q", string(s[i]))
		}
	}
	return perms, nil
}

// String renders the granted permissions in canonical "rwcda" order.
func (p Perms) String() string {
	var b strings.Builder
	for _, entry := range permOrder {
		if p&entry.perm != 0 {
			b.WriteByte(entry.ch)
		}
	}
	return b.String()
}

// Mask renders a fixed-width form with '-' for absent permissions,
// e.g. "rw--a". Used by display-oriented output.
func (p Perms) Mask() string {
	var b strings.Builder
	for _, entry := range permOrder {
		if p&entry.perm != 0 {
			b.WriteByte(entry.ch)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// ID is an identity understood by one of the fixed authentication schemes:
// world, auth, digest, host or ip.
type ID struct {
	Scheme string
	ID     string
}

func WorldID() ID {
	return ID{Scheme: "world", ID: "anyone"}
}

func AuthID() ID {
	return ID{Scheme: "auth"}
}

func DigestID(username string, password string) ID {
	return ID{Scheme: "digest", ID: username + ":" + password}
}

func HostID(domain string) ID {
	return ID{Scheme: "host", ID: domain}
}

// ParseID parses a "scheme:id" string, enforcing scheme-specific syntax.
func ParseID(s string) (ID, error) {
	scheme, rest, hasID := strings.Cut(s, ":")
	switch scheme {
	case "world":
		if rest != "anyone" {
			return ID{}, errors.New(`zkcli: world scheme requires the id "anyone"`)
		}
		return WorldID(), nil

	case "auth":
		if rest != "" {
			return ID{}, errors.New("zkcli: auth scheme does not take an id")
		}
		return AuthID(), nil

	case "digest":
		if !hasID || rest == "" {
			return ID{}, errors.New("zkcli: digest scheme requires username:password")
		}
		username, _, ok := strings.Cut(rest, ":")
		if !ok || username == "" {
			return ID{}, errors.New("zkcli: digest scheme requires username:password")
		}
		return ID{Scheme: "digest", ID: rest}, nil

	case "host":
		if !hasID || rest == "" {
			return ID{}, errors.New("zkcli: host scheme requires a domain name")
		}
		return HostID(rest), nil

	case "ip":
		if !hasID || rest == "" {
			return ID{}, errors.New("zkcli: ip scheme requires an address")
		}
		if err := validateIPID(rest); err != nil {
			return ID{}, err
		}
		return ID{Scheme: "ip", ID: rest}, nil

	default:
		return ID{}, fmt.Errorf("zkcli: unrecognized scheme %q", scheme)
	}
}

func validateIPID(s string) error {
	addr, prefix, hasPrefix := strings.Cut(s, "/")
	ip := net.ParseIP(addr)
	if ip == nil {
		return fmt.Errorf("zkcli: invalid ip address %q", addr)
	}
	if !hasPrefix {
		return nil
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return fmt.Errorf("zkcli: invalid ip prefix %q", prefix)
	}
	max := 128
	if ip.To4() != nil {
		max = 32
	}
	if n < 0 || n > max {
		return fmt.Errorf("zkcli: ip prefix %d out of range [0,%d]", n, max)
	}
	return nil
}

func (id ID) String() string {
	if id.Scheme == "auth" && id.ID == "" {
		return "auth"
	}
	return id.Scheme + ":" + id.ID
}

// key identifies an ACL entry for merge and remove operations.
func (id ID) key() string {
	return id.Scheme + ":" + id.ID
}

// ACL binds an identity to a permission bitmask.
type ACL struct {
	ID    ID
	Perms Perms
}

func (a ACL) String() string {
	return a.ID.String() + "=" + a.Perms.String()
}

// ParseACL parses "scheme:id=permchars". The split happens on the last '='
// so that digest passwords containing '=' stay intact.
func ParseACL(s string) (ACL, error) {
	idx := strings.LastIndexByte(s, '=')
	if idx < 0 {
		return ACL{}, fmt.Errorf("zkcli: ACL %q missing '='", s)
	}
	id, err := ParseID(s[:idx])
	if err != nil {
		return ACL{}, err
	}
	perms, err := ParsePerms(s[idx+1:])
	if err != nil {
		return ACL{}, err
	}
	return ACL{ID: id, Perms: perms}, nil
}

// ParseACLList parses each entry, failing on the first invalid one.
func ParseACLList(entries []string) ([]ACL, error) {
	acl := make([]ACL, 0, len(entries))
	for _, entry := range entries {
		a, err := ParseACL(entry)
		if err != nil {
			return nil, err
		}
		acl = append(acl, a)
	}
	return acl, nil
}

// ReplaceACL discards the existing list in favor of updates. It exists
// so the three setacl edit modes share one shape.
func ReplaceACL(_ []ACL, updates []ACL) []ACL {
	out := make([]ACL, len(updates))
	copy(out, updates)
	return out
}

// MergeACL merges updates into existing keyed by identity. An update for an
// identity already present replaces that entry wholesale, it does not OR the
// permission bits.
func MergeACL(existing []ACL, updates []ACL) []ACL {
	merged := make([]ACL, len(existing))
	copy(merged, existing)
	for _, update := range updates {
		replaced := false
		for i, entry := range merged {
			if entry.ID.key() == update.ID.key() {
				merged[i] = update
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, update)
		}
	}
	return merged
}

// RemoveACL removes entries whose identity matches any of the given ids.
func RemoveACL(existing []ACL, remove []ACL) []ACL {
	result := make([]ACL, 0, len(existing))
	for _, entry := range existing {
		removed := false
		for _, r := range remove {
			if entry.ID.key() == r.ID.key() {
				removed = true
				break
			}
		}
		if !removed {
			result = append(result, entry)
		}
	}
	return result
}

// OpenACL grants the given permissions to everyone.
func OpenACL(perms Perms) []ACL {
	return []ACL{{ID: WorldID(), Perms: perms}}
}

func toNativeACL(acl []ACL) []zk.ACL {
	out := make([]zk.ACL, 0, len(acl))
	for _, a := range acl {
		out = append(out, zk.ACL{
			Perms:  int32(a.Perms),
			Scheme: a.ID.Scheme,
			ID:     a.ID.ID,
		})
	}
	return out
}

func fromNativeACL(acl []zk.ACL) []ACL {
	out := make([]ACL, 0, len(acl))
	for _, a := range acl {
		out = append(out, ACL{
			ID:    ID{Scheme: a.Scheme, ID: a.ID},
			Perms: Perms(a.Perms),
		})
	}
	return out
}
