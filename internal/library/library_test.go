package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func makeLibrary(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "LDConfig.ldr"), "0 colours\n")
	writeFile(t, filepath.Join(root, "parts", "3001.dat"), "0 Brick 2 x 4\n")
	writeFile(t, filepath.Join(root, "parts", "s", "3001s01.dat"), "0 sub\n")
	writeFile(t, filepath.Join(root, "p", "Stud.dat"), "0 Stud\n")
	writeFile(t, filepath.Join(root, "p", "48", "4-4cyli.dat"), "0 hi-res\n")
	writeFile(t, filepath.Join(root, "p", "4-4cyli.dat"), "0 std\n")
	writeFile(t, filepath.Join(root, "unofficial", "parts", "99999.dat"), "0 unofficial\n")
	return root
}

func TestSearchPaths(t *testing.T) {
	root := makeLibrary(t)

	paths := SearchPaths(Options{Root: root, Resolution: ResolutionStandard})
	assert.Equal(t, []string{
		filepath.Join(root, "parts"),
		filepath.Join(root, "parts", "s"),
		filepath.Join(root, "p"),
	}, paths)

	paths = SearchPaths(Options{Root: root, Resolution: ResolutionHigh, UseUnofficial: true})
	assert.Equal(t, []string{
		filepath.Join(root, "parts"),
		filepath.Join(root, "parts", "s"),
		filepath.Join(root, "unofficial", "parts"),
		filepath.Join(root, "p", "48"),
		filepath.Join(root, "p"),
	}, paths)
}

func TestSearchPaths_StudLogoDir(t *testing.T) {
	root := makeLibrary(t)
	logos := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(logos, "8"), 0755))

	paths := SearchPaths(Options{Root: root, Resolution: ResolutionLow, LogoStuds: true, StudLogoDir: logos})
	require.GreaterOrEqual(t, len(paths), 4)
	assert.Equal(t, filepath.Join(logos, "8"), paths[2])
	assert.Equal(t, logos, paths[3])

	paths = SearchPaths(Options{Root: root, StudLogoDir: logos})
	assert.NotContains(t, paths, logos)
}

func TestFindInstallDir(t *testing.T) {
	root := makeLibrary(t)

	dir, err := FindInstallDir(root)
	require.NoError(t, err)
	assert.Equal(t, root, dir)

	_, err = FindInstallDir(t.TempDir())
	assert.ErrorIs(t, err, ErrNoInstallDir)
}

func TestLocate(t *testing.T) {
	root := makeLibrary(t)
	lib := New(root, SearchPaths(Options{Root: root, Resolution: ResolutionHigh}))

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"exact", "3001.dat", filepath.Join(root, "parts", "3001.dat")},
		{"upper case", "3001.DAT", filepath.Join(root, "parts", "3001.dat")},
		{"backslash subdir", `s\3001S01.dat`, filepath.Join(root, "parts", "s", "3001s01.dat")},
		{"mixed case file on disk", "stud.dat", filepath.Join(root, "p", "Stud.dat")},
		{"high res first", "4-4cyli.dat", filepath.Join(root, "p", "48", "4-4cyli.dat")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lib.Locate(tt.ref, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocate_ParentDirAndMissing(t *testing.T) {
	root := makeLibrary(t)
	lib := New(root, SearchPaths(Options{Root: root}))

	modelDir := t.TempDir()
	writeFile(t, filepath.Join(modelDir, "Wing.ldr"), "0 wing\n")

	got, err := lib.Locate("wing.ldr", modelDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(modelDir, "Wing.ldr"), got)

	_, err = lib.Locate("99999.dat", "")
	assert.ErrorIs(t, err, ErrNotFound, "unofficial parts are not searched by default")

	_, err = lib.Locate(filepath.Join(modelDir, "nope.ldr"), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocate_DirectoryCache(t *testing.T) {
	root := makeLibrary(t)
	lib := New(root, SearchPaths(Options{Root: root}))

	_, err := lib.Locate("STUD.DAT", "")
	require.NoError(t, err)
	_, misses := lib.DirStats()

	_, err = lib.Locate("STUD.DAT", "")
	require.NoError(t, err)
	hits, misses2 := lib.DirStats()
	assert.Equal(t, misses, misses2, "second lookup should reuse cached listings")
	assert.Positive(t, hits)

	lib.Reset()
	hits, _ = lib.DirStats()
	assert.Zero(t, hits)
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.dat")
	writeFile(t, path, "\xef\xbb\xbf0 Title\r\n3 16 0 0 0 1 0 0 0 1 0\r\n")

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"0 Title", "3 16 0 0 0 1 0 0 0 1 0"}, lines)

	_, err = ReadLines(filepath.Join(t.TempDir(), "missing.dat"))
	assert.Error(t, err)
}
