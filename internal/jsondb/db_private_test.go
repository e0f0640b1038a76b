package jsondb

import (
	"errors"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomically(t *testing.T) {
	dir := t.TempDir()

	t.Run("success", func(t *testing.T) {
		content := []byte("install\n")

		// use an uncommon mode to check it's set correctly
		perm := os.FileMode(0640)

		err := WriteFileAtomically(dir, "state", perm, func(f *os.File) error {
			_, err := f.Write(content)
			return err
		})
		require.NoError(t, err)

		// ensure that there are no stray temporary files
		infos, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Equal(t, 1, len(infos))
		require.Equal(t, "state", infos[0].Name())
		i, err := infos[0].Info()
		require.Nil(t, err)
		require.Equal(t, perm, i.Mode())

		filename := path.Join(dir, "state")
		contents, err := os.ReadFile(filename)
		require.NoError(t, err)
		require.Equal(t, content, contents)

		err = os.Remove(filename)
		require.NoError(t, err)
	})

	t.Run("error", func(t *testing.T) {
		err := WriteFileAtomically(dir, "no-state", 0640, func(f *os.File) error {
			return errors.New("something went wrong")
		})
		require.Error(t, err)

		_, err = os.Stat(path.Join(dir, "no-state"))
		require.Error(t, err)

		// ensure there are no stray temporary files
		infos, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Equal(t, 0, len(infos))
	})

	t.Run("replaces", func(t *testing.T) {
		for _, c := range []string{"portal\n", "configure\n"} {
			err := WriteFileAtomically(dir, "state", 0600, func(f *os.File) error {
				_, err := f.WriteString(c)
				return err
			})
			require.NoError(t, err)
		}
		contents, err := os.ReadFile(path.Join(dir, "state"))
		require.NoError(t, err)
		require.Equal(t, "configure\n", string(contents))
	})
}
