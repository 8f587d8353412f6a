package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/j-marthe/sistema-gestion-archivos-backend/config"
)

func runConfigGenerate(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newConfigCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs(append([]string{"generate"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigGenerate_Stdout(t *testing.T) {
	out, err := runConfigGenerate(t)
	require.NoError(t, err)

	var conf config.AppConfig
	require.NoError(t, yaml.Unmarshal([]byte(out), &conf))
	assert.Equal(t, config.Default().Server.Port, conf.Server.Port)
	assert.Equal(t, "local", conf.Storage.Driver)
	assert.Equal(t, 6, conf.Storage.RetryAttempts)
}

func TestConfigGenerate_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := runConfigGenerate(t, "--output", path)
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = runConfigGenerate(t, "--output", path)
	assert.ErrorContains(t, err, "已存在")

	_, err = runConfigGenerate(t, "--output", path, "--overwrite")
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_upload_mb")
}
