package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind_MatchOneLevel(t *testing.T) {
	st := newShellTest(t)
	st.eval(t, "mk /task-1")
	st.eval(t, "mk /task-2")
	st.eval(t, "mk /other")
	st.eval(t, "mk /task-1/task-3")

	st.reset()
	st.eval(t, "find ^task /")
	assert.Equal(t, "/task-1\n/task-2\n", st.out.String(),
		"one level deep unless --recursive")

	st.reset()
	st.eval(t, "find -r ^task /")
	assert.Equal(t, "/task-1\n/task-1/task-3\n/task-2\n", st.out.String())
}

func TestFind_DefaultsToWorkingPath(t *testing.T) {
	st := newShellTest(t)
	st.eval(t, "mk /app")
	st.eval(t, "mk /app/db")
	st.eval(t, "cd /app")

	st.reset()
	st.eval(t, "find db")
	assert.Equal(t, "/app/db\n", st.out.String())
}

func TestFind_BadPattern(t *testing.T) {
	st := newShellTest(t)
	_, err := st.shell.Eval(st.ctx, "find [ /")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad pattern")
	assert.Contains(t, err.Error(), "usage: find")
}

func TestFind_ExecGet(t *testing.T) {
	st := newShellTest(t)
	st.eval(t, "mk /a")
	st.eval(t, `set -f /a "one"`)
	st.eval(t, "mk /b")
	st.eval(t, `set -f /b "two"`)

	st.reset()
	st.eval(t, "find . / --exec get -s")
	assert.Equal(t, "/a\none\n/b\ntwo\n", st.out.String())

	t.Run("quiet drops the match echo", func(t *testing.T) {
		st.reset()
		st.eval(t, "find -q . / --exec get -s")
		assert.Equal(t, "one\ntwo\n", st.out.String())
	})
}

func TestFind_ExecSet(t *testing.T) {
	st := newShellTest(t)
	st.eval(t, "mk /a")
	st.eval(t, "mk /b")

	st.eval(t, `find -q . / --exec set "same"`)

	st.reset()
	st.eval(t, "get -s /a /b")
	assert.Equal(t, "/a:\nsame\n/b:\nsame\n", st.out.String())
}

func TestFind_ExecRmToleratesVanishedNodes(t *testing.T) {
	st := newShellTest(t)
	st.eval(t, "mk /task-a")
	st.eval(t, "mk /task-a/task-b")

	// recursive enumeration snapshots both nodes; deleting task-a's
	// subtree during the act phase removes task-b before its own turn
	st.reset()
	st.eval(t, "find -r -q ^task / --exec rm -r")
	assert.Equal(t, "", st.errOut.String(),
		"a node already gone counts as deleted")

	st.reset()
	st.eval(t, "ls /")
	assert.Equal(t, "", st.out.String())
}

func TestFind_HaltStopsAtFirstFailure(t *testing.T) {
	st := newShellTest(t)
	st.eval(t, "mk /a")
	st.eval(t, "mk /b")
	st.eval(t, "mk /a/child")

	// creating "child" again under /a fails; without --halt the loop
	// moves on to /b, with it the command aborts
	st.reset()
	st.eval(t, "find -q . / --exec mk child")
	assert.Contains(t, st.errOut.String(), "node already exists")
	st.reset()
	st.eval(t, "ls /b")
	assert.Equal(t, "child\n", st.out.String())

	st.eval(t, "rm -r -f /b")
	st.eval(t, "mk /b")
	_, err := st.shell.Eval(st.ctx, "find -q --halt . / --exec mk child")
	require.Error(t, err)
	st.reset()
	st.eval(t, "ls /b")
	assert.Equal(t, "", st.out.String(), "--halt stops before reaching /b")
}

func TestFind_ExecStat(t *testing.T) {
	st := newShellTest(t)
	st.eval(t, "mk /a")

	st.reset()
	st.eval(t, "find -q a / --exec stat -c")
	assert.Contains(t, st.out.String(), "/a ")
	assert.Contains(t, st.out.String(), "v=0")
}

func TestFind_UnknownSubCommand(t *testing.T) {
	st := newShellTest(t)
	_, err := st.shell.Eval(st.ctx, "find . / --exec explode")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sub-command")
}
