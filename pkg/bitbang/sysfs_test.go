package bitbang

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

// fakeSysfs points sysfsRoot at a temporary tree with export and unexport
// files. Pin directories are created by the caller.
func fakeSysfs(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{"export", "unexport"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}
	old := sysfsRoot
	sysfsRoot = root
	t.Cleanup(func() { sysfsRoot = old })
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOpenSysfsUnexportsOnError(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		wantErr string
	}{
		{"no direction file", nil, "failed to set pin 7 direction"},
		{"no value file", []string{"direction"}, "failed to open pin 7 value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := fakeSysfs(t)
			dir := filepath.Join(root, "gpio7")
			require.NoError(t, os.Mkdir(dir, 0o755))
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
			}

			_, err := OpenSysfs(7, "out")
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Equal(t, "7", readFile(t, filepath.Join(root, "export")))
			assert.Equal(t, "7", readFile(t, filepath.Join(root, "unexport")), "pin released")
		})
	}
}

func TestSysfsLine(t *testing.T) {
	root := fakeSysfs(t)
	dir := filepath.Join(root, "gpio12")
	require.NoError(t, os.Mkdir(dir, 0o755))
	for _, f := range []string{"direction", "value"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0o644))
	}

	line, err := OpenSysfs(12, "out")
	require.NoError(t, err)
	assert.Equal(t, "out", readFile(t, filepath.Join(dir, "direction")))

	require.NoError(t, line.Out(gpio.High))
	assert.Equal(t, gpio.High, line.Read())
	require.NoError(t, line.Out(gpio.Low))
	assert.Equal(t, gpio.Low, line.Read())

	assert.Empty(t, readFile(t, filepath.Join(root, "unexport")))
	require.NoError(t, line.Close())
	assert.Equal(t, "12", readFile(t, filepath.Join(root, "unexport")))
}
