package shell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDataArg(t *testing.T) {
	t.Run("literal", func(t *testing.T) {
		data, err := readDataArg("hello")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("file reference", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "payload.bin")
		require.NoError(t, os.WriteFile(name, []byte{0x00, 0xff, 0x10}, 0o600))

		data, err := readDataArg("@" + name)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, data)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readDataArg("@/no/such/file")
		require.Error(t, err)
	})
}

func TestEncoding(t *testing.T) {
	t.Run("utf-8 names pass through", func(t *testing.T) {
		for _, name := range []string{"", "utf-8", "UTF-8", "utf8"} {
			data, err := encodeString("héllo", name)
			require.NoError(t, err)
			assert.Equal(t, []byte("héllo"), data)

			text, err := decodeBytes(data, name)
			require.NoError(t, err)
			assert.Equal(t, "héllo", text)
		}
	})

	t.Run("latin-1 round trip", func(t *testing.T) {
		data, err := encodeString("héllo", "ISO-8859-1")
		require.NoError(t, err)
		assert.Equal(t, []byte{'h', 0xe9, 'l', 'l', 'o'}, data)

		text, err := decodeBytes(data, "ISO-8859-1")
		require.NoError(t, err)
		assert.Equal(t, "héllo", text)
	})

	t.Run("unknown charset", func(t *testing.T) {
		_, err := encodeString("x", "klingon-9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported charset")

		_, err = decodeBytes([]byte("x"), "klingon-9")
		require.Error(t, err)
	})
}
