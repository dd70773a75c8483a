package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lumedb "github.com/wizardsarehere/LumeDB"
)

// isolate points HOME and the XDG directories at a temp dir so tests never
// pick up the developer's real config files.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, ".local", "share"))
	for _, key := range []string{
		"LUMEDB_CONFIG", "LUMEDB_FOLDER", "LUMEDB_FILE", "LUMEDB_READABLE",
		"LUMEDB_NO_BLANK_DATA", "LUMEDB_CHECK_UPDATES", "LUMEDB_WATCH",
		"LUMEDB_BACKUP_INTERVAL", "LUMEDB_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJSONFile(t *testing.T) {
	isolate(t)
	projectDir := t.TempDir()

	writeConfig(t, projectDir, "lumedb.json", `{
		"folder": "mydb",
		"file": "records",
		"readable": true,
		"backupInterval": "90s"
	}`)

	settings, err := Load(projectDir)
	require.NoError(t, err)

	require.NotNil(t, settings.Folder)
	assert.Equal(t, "mydb", *settings.Folder)
	require.NotNil(t, settings.File)
	assert.Equal(t, "records", *settings.File)
	require.NotNil(t, settings.Readable)
	assert.True(t, *settings.Readable)
	require.NotNil(t, settings.BackupInterval)
	assert.Equal(t, 90*time.Second, settings.BackupInterval.Duration())
	assert.Nil(t, settings.NoBlankData)
}

func TestLoadJSONCComments(t *testing.T) {
	isolate(t)
	projectDir := t.TempDir()

	writeConfig(t, projectDir, "lumedb.jsonc", `{
		// Where the database lives.
		"folder": "commented",
		"watch": true, // reload on external edits
	}`)

	settings, err := Load(projectDir)
	require.NoError(t, err)

	require.NotNil(t, settings.Folder)
	assert.Equal(t, "commented", *settings.Folder)
	require.NotNil(t, settings.Watch)
	assert.True(t, *settings.Watch)
}

func TestLoadYAMLFile(t *testing.T) {
	isolate(t)
	projectDir := t.TempDir()

	writeConfig(t, projectDir, "lumedb.yaml", `
folder: yamldb
noBlankData: true
backupInterval: 2
`)

	settings, err := Load(projectDir)
	require.NoError(t, err)

	require.NotNil(t, settings.Folder)
	assert.Equal(t, "yamldb", *settings.Folder)
	require.NotNil(t, settings.NoBlankData)
	assert.True(t, *settings.NoBlankData)
	require.NotNil(t, settings.BackupInterval)
	assert.Equal(t, 2*time.Minute, settings.BackupInterval.Duration())
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	isolate(t)
	projectDir := t.TempDir()

	writeConfig(t, GetPaths().Config, "lumedb.json", `{
		"folder": "global",
		"file": "globalfile"
	}`)
	writeConfig(t, projectDir, "lumedb.json", `{
		"folder": "project"
	}`)

	settings, err := Load(projectDir)
	require.NoError(t, err)

	require.NotNil(t, settings.Folder)
	assert.Equal(t, "project", *settings.Folder)
	// Fields the project file does not set survive from the global file.
	require.NotNil(t, settings.File)
	assert.Equal(t, "globalfile", *settings.File)
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	projectDir := t.TempDir()

	writeConfig(t, projectDir, "lumedb.json", `{
		"folder": "fromfile",
		"readable": false
	}`)

	t.Setenv("LUMEDB_FOLDER", "fromenv")
	t.Setenv("LUMEDB_READABLE", "true")
	t.Setenv("LUMEDB_BACKUP_INTERVAL", "90s")

	settings, err := Load(projectDir)
	require.NoError(t, err)

	require.NotNil(t, settings.Folder)
	assert.Equal(t, "fromenv", *settings.Folder)
	require.NotNil(t, settings.Readable)
	assert.True(t, *settings.Readable)
	require.NotNil(t, settings.BackupInterval)
	assert.Equal(t, 90*time.Second, settings.BackupInterval.Duration())
}

func TestLoadEnvIntervalMinutes(t *testing.T) {
	isolate(t)

	t.Setenv("LUMEDB_BACKUP_INTERVAL", "2.5")

	settings, err := Load("")
	require.NoError(t, err)

	require.NotNil(t, settings.BackupInterval)
	assert.Equal(t, 150*time.Second, settings.BackupInterval.Duration())
}

func TestLoadConfigEnvFile(t *testing.T) {
	isolate(t)
	extraDir := t.TempDir()

	path := writeConfig(t, extraDir, "custom.json", `{
		"file": "pointed"
	}`)
	t.Setenv("LUMEDB_CONFIG", path)

	settings, err := Load("")
	require.NoError(t, err)

	require.NotNil(t, settings.File)
	assert.Equal(t, "pointed", *settings.File)
}

func TestLoadInvalidFileSurfaces(t *testing.T) {
	isolate(t)
	projectDir := t.TempDir()

	writeConfig(t, projectDir, "lumedb.json", `{not json at all`)

	_, err := Load(projectDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadInvalidBoolEnv(t *testing.T) {
	isolate(t)

	t.Setenv("LUMEDB_WATCH", "maybe")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LUMEDB_WATCH")
}

func TestLoadMissingFilesIgnored(t *testing.T) {
	isolate(t)

	settings, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, settings.Folder)
	assert.Nil(t, settings.File)
}

func TestSettingsApply(t *testing.T) {
	folder := "applied"
	readable := true
	interval := Interval(45 * time.Second)

	settings := &Settings{
		Folder:         &folder,
		Readable:       &readable,
		BackupInterval: &interval,
	}

	opts := lumedb.DefaultOptions()
	settings.Apply(&opts)

	assert.Equal(t, "applied", opts.Folder)
	assert.Equal(t, lumedb.DefaultFile, opts.File)
	assert.True(t, opts.Readable)
	assert.Equal(t, 45*time.Second, opts.BackupInterval)
}

func TestParseInterval(t *testing.T) {
	cases := []struct {
		input string
		want  time.Duration
	}{
		{"90s", 90 * time.Second},
		{"5m", 5 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"5", 5 * time.Minute},
		{"0.5", 30 * time.Second},
	}
	for _, tc := range cases {
		got, err := parseInterval(tc.input)
		require.NoError(t, err, "parseInterval(%q)", tc.input)
		assert.Equal(t, tc.want, got, "parseInterval(%q)", tc.input)
	}

	_, err := parseInterval("soon")
	assert.Error(t, err)
}
