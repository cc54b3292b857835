package cfg

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Data struct {
	Verbose bool   `yaml:"verbose"`
	Server  Server `yaml:"server"`
	TLS     TLS    `yaml:"tls"`
}

type Server struct {
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
}

type TLS struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

func (d *Data) RegisterFlags(f *flag.FlagSet) {
	f.BoolVar(&d.Verbose, "verbose", false, "")
	f.IntVar(&d.Server.Port, "server.port", 80, "")
	f.DurationVar(&d.Server.Timeout, "server.timeout", 60*time.Second, "")
	f.StringVar(&d.TLS.Cert, "tls.cert", "CERT", "")
	f.StringVar(&d.TLS.Key, "tls.key", "KEY", "")
}

func TestDefaults(t *testing.T) {
	var d Data
	require.NoError(t, Unmarshal(&d, Defaults()))
	assert.Equal(t, Data{
		Verbose: false,
		Server: Server{
			Port:    80,
			Timeout: 60 * time.Second,
		},
		TLS: TLS{
			Cert: "CERT",
			Key:  "KEY",
		},
	}, d)
}

func TestParse(t *testing.T) {
	yaml := []byte(`
server:
  port: 2000
  timeout: 60h
tls:
  key: YAML
`)

	var c Data
	err := Unmarshal(&c,
		Defaults(),
		YAML(yaml),
		Flags([]string{"-verbose", "-server.port=21"}),
	)
	require.NoError(t, err)

	require.Equal(t, Data{
		Verbose: true,
		Server: Server{
			Port:    21,
			Timeout: 60 * time.Hour,
		},
		TLS: TLS{
			Cert: "CERT",
			Key:  "YAML",
		},
	}, c)
}

// TestFlagsKeepEarlierSources checks that flags which are not supplied do not
// reset values to their defaults.
func TestFlagsKeepEarlierSources(t *testing.T) {
	var c Data
	err := Unmarshal(&c,
		Defaults(),
		YAML([]byte("server:\n  port: 2000\n")),
		Flags(nil),
	)
	require.NoError(t, err)
	require.Equal(t, 2000, c.Server.Port)
	require.Equal(t, "CERT", c.TLS.Cert)
}

func TestYAMLFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(dir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("verbose: true\n"), 0o600))

		var c Data
		require.NoError(t, Unmarshal(&c, Defaults(), YAMLFile(path)))
		require.True(t, c.Verbose)
		require.Equal(t, 80, c.Server.Port)
	})

	t.Run("empty path", func(t *testing.T) {
		var c Data
		require.NoError(t, Unmarshal(&c, YAMLFile("")))
		require.Equal(t, Data{}, c)
	})

	t.Run("missing file", func(t *testing.T) {
		var c Data
		err := Unmarshal(&c, YAMLFile(filepath.Join(dir, "missing.yaml")))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown field", func(t *testing.T) {
		path := filepath.Join(dir, "unknown.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  host: localhost\n"), 0o600))

		var c Data
		require.Error(t, Unmarshal(&c, YAMLFile(path)))
	})
}

func TestFlagsErrors(t *testing.T) {
	t.Run("unknown flag", func(t *testing.T) {
		var c Data
		require.Error(t, Unmarshal(&c, Flags([]string{"-nope"})))
	})

	t.Run("no flags registered", func(t *testing.T) {
		var c TLS
		require.Error(t, Unmarshal(&c, Flags(nil)))
		require.Error(t, Unmarshal(&c, Defaults()))
	})

	t.Run("no sources", func(t *testing.T) {
		require.Panics(t, func() { _ = Unmarshal(&Data{}) })
	})
}
