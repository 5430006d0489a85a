package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("data-dir", "", "")
	fs.Uint64("seed", 0, "")
	fs.StringSlice("target", nil, "")
	fs.String("s3-bucket", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("", nil)

	require.NoError(t, err)
	assert.Equal(t, "data", s.DataDir)
	assert.Equal(t, filepath.Join("data", "business-units"), s.BusinessUnitDir)
	assert.Equal(t, uint64(42), s.Seed)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, "data", s.EnterpriseOutputDir())
	assert.Equal(t, filepath.Join("data", "business-units"), s.BusinessUnitOutputDir())
}

func TestLoad_ConfigFileThenFlags(t *testing.T) {
	// Given
	dir := t.TempDir()
	path := filepath.Join(dir, "qsynth.yaml")
	content := `data_dir: "/srv/dashboard"
seed: 7
targets: ["q1-2024", "q2-2024"]
output_dir: "/tmp/out"
s3:
  bucket: "dash-data"
  prefix: "synthetic/"`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--seed", "9", "--target", "q4-2024"}))

	// When
	s, err := Load(path, fs)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "/srv/dashboard", s.DataDir)
	assert.Equal(t, uint64(9), s.Seed)
	assert.Equal(t, []string{"q4-2024"}, s.Targets)
	assert.Equal(t, "dash-data", s.S3.Bucket)
	assert.Equal(t, "synthetic/", s.S3.Prefix)
	assert.Equal(t, "/tmp/out", s.EnterpriseOutputDir())
	assert.Equal(t, filepath.Join("/tmp/out", "business-units"), s.BusinessUnitOutputDir())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("QSYNTH_DATA_DIR", "/env/data")
	t.Setenv("QSYNTH_S3_BUCKET", "env-bucket")

	s, err := Load("", newFlags())

	require.NoError(t, err)
	assert.Equal(t, "/env/data", s.DataDir)
	assert.Equal(t, "env-bucket", s.S3.Bucket)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestRegisterFlags_BindsEveryKey(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	RegisterServerFlags(fs)

	for name := range flagKeys {
		assert.NotNil(t, fs.Lookup(name), name)
	}

	require.NoError(t, fs.Parse([]string{"--port", "9090", "--baseline", "q2-2024", "--target", "q1-2024,q4-2023"}))
	s, err := Load("", fs)

	require.NoError(t, err)
	assert.Equal(t, "9090", s.Server.Port)
	assert.Equal(t, "localhost", s.Server.Host)
	assert.Equal(t, "q2-2024", s.Baseline)
	assert.Equal(t, []string{"q1-2024", "q4-2023"}, s.Targets)
	assert.Equal(t, "data", s.DataDir)
}
