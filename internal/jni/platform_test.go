package jni

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		name     string
		goos     string
		override string
		src      Source
		want     Platform
	}{
		{"linux", "linux", "", MapSource{}, Generic},
		{"darwin", "darwin", "", MapSource{}, AppleDesktop},
		{"native windows", "windows", "", MapSource{}, Generic},
		{"cygwin ostype", "windows", "", MapSource{"OSTYPE": "cygwin"}, PosixEmulation},
		{"msys ostype", "windows", "", MapSource{"OSTYPE": "msys"}, PosixEmulation},
		{"msystem", "windows", "", MapSource{"MSYSTEM": "MINGW64"}, PosixEmulation},
		{"ostype ignored off windows", "linux", "", MapSource{"OSTYPE": "cygwin"}, Generic},
		{"override", "linux", "apple", MapSource{}, AppleDesktop},
		{"env override", "darwin", "", MapSource{"JNIENV_PLATFORM": "generic"}, Generic},
		{"explicit beats env", "linux", "cygwin", MapSource{"JNIENV_PLATFORM": "generic"}, PosixEmulation},
		{"nil source", "windows", "", nil, Generic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectPlatform(tc.goos, tc.override, tc.src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := DetectPlatform("linux", "beos", nil)
	assert.Error(t, err)
}

func TestParsePlatformRoundTrip(t *testing.T) {
	for _, p := range []Platform{Generic, AppleDesktop, PosixEmulation} {
		got, err := ParsePlatform(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
}

func TestListAllSubdirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, d := range []string{"/jdk/include/linux", "/jdk/include/a/b/c", "/jdk/lib"} {
		require.NoError(t, fs.MkdirAll(d, 0o755))
	}
	require.NoError(t, afero.WriteFile(fs, "/jdk/include/jni.h", []byte{}, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/jdk/include/linux/jni_md.h", []byte{}, 0o644))

	got := ListAllSubdirectories(fs, "/jdk/include")
	assert.ElementsMatch(t, []string{
		"/jdk/include",
		"/jdk/include/a",
		"/jdk/include/a/b",
		"/jdk/include/a/b/c",
		"/jdk/include/linux",
	}, got)
	assert.Equal(t, "/jdk/include", got[0], "root comes first")

	assert.Equal(t, []string{"/nowhere/include"}, ListAllSubdirectories(fs, "/nowhere/include"))
}

func TestListAllSubdirectoriesFollowsSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "real-include", "linux"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "jdk"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join("..", "real-include"), filepath.Join(base, "jdk", "include")))

	root := filepath.Join(base, "jdk", "include")
	got := ListAllSubdirectories(afero.NewOsFs(), root)
	assert.Equal(t, []string{root, filepath.Join(root, "linux")}, got)
}

func TestSources(t *testing.T) {
	t.Setenv("JNIENV_TEST_HOME", "/from/env")
	t.Setenv("JNIENV_TEST_EMPTY", "")

	vs := NewViperSource()
	v, ok := vs.Lookup("JNIENV_TEST_HOME")
	require.True(t, ok)
	assert.Equal(t, "/from/env", v)

	_, ok = vs.Lookup("JNIENV_TEST_EMPTY")
	assert.False(t, ok)
	_, ok = vs.Lookup("JNIENV_TEST_UNSET_KEY")
	assert.False(t, ok)

	vs.Set("JNIENV_TEST_HOME", "/pinned")
	v, _ = vs.Lookup("JNIENV_TEST_HOME")
	assert.Equal(t, "/pinned", v)

	chain := Chain{nil, MapSource{"JAVA_HOME": ""}, MapSource{"JAVA_HOME": "/second"}}
	v, ok = chain.Lookup("JAVA_HOME")
	require.True(t, ok)
	assert.Equal(t, "/second", v)
}
