package zkcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePerms(t *testing.T) {
	t.Run("each character", func(t *testing.T) {
		perms, err := ParsePerms("rwcda")
		assert.NoError(t, err)
		assert.Equal(t, PermAll, perms)
	})

	t.Run("star is all", func(t *testing.T) {
		perms, err := ParsePerms("*")
		assert.NoError(t, err)
		assert.Equal(t, PermAll, perms)
	})

	t.Run("subset in any order", func(t *testing.T) {
		perms, err := ParsePerms("dr")
		assert.NoError(t, err)
		assert.Equal(t, PermRead|PermDelete, perms)
		assert.Equal(t, "rd", perms.String())
	})

	t.Run("unknown character fails whole parse", func(t *testing.T) {
		_, err := ParsePerms("rwx")
		assert.Error(t, err)
	})

	t.Run("mask rendering", func(t *testing.T) {
		assert.Equal(t, "rw---", (PermRead | PermWrite).Mask())
		assert.Equal(t, "rwcda", PermAll.Mask())
		assert.Equal(t, "-----", Perms(0).Mask())
	})
}

func TestParseID(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			in   string
			want ID
		}{
			{"world:anyone", WorldID()},
			{"auth", AuthID()},
			{"auth:", AuthID()},
			{"digest:alice:secret", DigestID("alice", "secret")},
			{"host:example.com", HostID("example.com")},
			{"ip:10.0.0.1", ID{Scheme: "ip", ID: "10.0.0.1"}},
			{"ip:10.0.0.0/8", ID{Scheme: "ip", ID: "10.0.0.0/8"}},
			{"ip:::1/128", ID{Scheme: "ip", ID: "::1/128"}},
		}
		for _, tt := range tests {
			id, err := ParseID(tt.in)
			assert.NoError(t, err, "ParseID(%q)", tt.in)
			assert.Equal(t, tt.want, id, "ParseID(%q)", tt.in)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		inputs := []string{
			"world",
			"world:bad",
			"digest",
			"digest:",
			"digest:alice",
			"host",
			"host:",
			"ip:",
			"ip:nonsense",
			"ip:1.2.3.4/33",
			"ip:::1/129",
			"ip:1.2.3.4/-1",
			"auth:somebody",
			"unknown:id",
		}
		for _, in := range inputs {
			_, err := ParseID(in)
			assert.Error(t, err, "ParseID(%q) should fail", in)
		}
	})
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "world:anyone", WorldID().String())
	assert.Equal(t, "auth", AuthID().String())
	assert.Equal(t, "digest:alice:secret", DigestID("alice", "secret").String())
}

func TestParseACL(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		inputs := []string{
			"world:anyone=r",
			"world:anyone=rwcda",
			"digest:alice:secret=rw",
			"host:example.com=cd",
			"ip:10.0.0.0/8=ra",
		}
		for _, in := range inputs {
			acl, err := ParseACL(in)
			assert.NoError(t, err, "ParseACL(%q)", in)
			assert.Equal(t, in, acl.String(), "round trip of %q", in)
		}
	})

	t.Run("canonicalizes permission order", func(t *testing.T) {
		acl, err := ParseACL("world:anyone=dwr")
		assert.NoError(t, err)
		assert.Equal(t, "world:anyone=rwd", acl.String())
	})

	t.Run("star expands to all", func(t *testing.T) {
		acl, err := ParseACL("world:anyone=*")
		assert.NoError(t, err)
		assert.Equal(t, "world:anyone=rwcda", acl.String())
	})

	t.Run("split on last equals", func(t *testing.T) {
		acl, err := ParseACL("digest:alice:pa=ss=rw")
		assert.NoError(t, err)
		assert.Equal(t, "digest", acl.ID.Scheme)
		assert.Equal(t, "alice:pa=ss", acl.ID.ID)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, in := range []string{"world:anyone", "world:anyone=rx", "nope:x=r", "=r"} {
			_, err := ParseACL(in)
			assert.Error(t, err, "ParseACL(%q) should fail", in)
		}
	})
}

func TestReplaceACL(t *testing.T) {
	existing := []ACL{{ID: WorldID(), Perms: PermWrite}}
	updates := []ACL{{ID: HostID("example.com"), Perms: PermRead}}
	assert.Equal(t, updates, ReplaceACL(existing, updates))
	assert.Equal(t, PermWrite, existing[0].Perms)
}

func TestMergeACL(t *testing.T) {
	t.Run("adds new identity", func(t *testing.T) {
		existing := []ACL{{ID: WorldID(), Perms: PermWrite}}
		updates := []ACL{{ID: HostID("example.com"), Perms: PermRead}}
		merged := MergeACL(existing, updates)
		assert.Equal(t, []ACL{
			{ID: WorldID(), Perms: PermWrite},
			{ID: HostID("example.com"), Perms: PermRead},
		}, merged)
	})

	// Merging an entry for an existing identity replaces the whole entry,
	// last writer wins. It does NOT OR the permission bits: adding
	// world:anyone=r on top of world:anyone=w yields r, not rw.
	t.Run("replaces per identity rather than OR-ing bits", func(t *testing.T) {
		existing := []ACL{{ID: WorldID(), Perms: PermWrite}}
		updates := []ACL{{ID: WorldID(), Perms: PermRead}}
		merged := MergeACL(existing, updates)
		assert.Equal(t, []ACL{{ID: WorldID(), Perms: PermRead}}, merged)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		existing := []ACL{{ID: WorldID(), Perms: PermWrite}}
		MergeACL(existing, []ACL{{ID: WorldID(), Perms: PermRead}})
		assert.Equal(t, PermWrite, existing[0].Perms)
	})
}

func TestRemoveACL(t *testing.T) {
	existing := []ACL{
		{ID: WorldID(), Perms: PermAll},
		{ID: HostID("example.com"), Perms: PermRead},
	}

	t.Run("removes by identity", func(t *testing.T) {
		result := RemoveACL(existing, []ACL{{ID: WorldID()}})
		assert.Equal(t, []ACL{{ID: HostID("example.com"), Perms: PermRead}}, result)
	})

	t.Run("unknown identity is a no-op", func(t *testing.T) {
		result := RemoveACL(existing, []ACL{{ID: AuthID()}})
		assert.Equal(t, existing, result)
	})

	t.Run("removing everything yields empty list", func(t *testing.T) {
		result := RemoveACL(existing, existing)
		assert.Empty(t, result)
	})
}

func TestNativeACLConversion(t *testing.T) {
	acl := []ACL{
		{ID: WorldID(), Perms: PermAll},
		{ID: DigestID("alice", "secret"), Perms: PermRead | PermWrite},
	}
	assert.Equal(t, acl, fromNativeACL(toNativeACL(acl)))
}
