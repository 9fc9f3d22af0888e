// FILE: lixenwraith/flatconfig/convenience_test.go
package flatconfig

import (
	"bytes"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSetStruct tests flattening structs into configuration values
func TestSetStruct(t *testing.T) {
	type tls struct {
		Enabled bool   `config:"enabled"`
		Cert    string `config:"cert,omitempty"`
	}
	type server struct {
		Host     string            `config:"host"`
		Ports    []int             `config:"ports"`
		TLS      tls               `config:"tls"`
		Proxy    *tls              `config:"proxy"`
		Started  time.Time         `config:"started"`
		Secret   string            `config:"-"`
		Raw      []byte            `config:"raw"`
		Pair     [2]string         `config:"pair"`
		Headers  map[string]string `config:"headers"`
		Untagged string
		internal string
	}

	started := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	svc := New()
	err := svc.SetStruct("app.", &server{
		Host:     "localhost",
		Ports:    []int{80, 443},
		TLS:      tls{Enabled: true, Cert: "c.pem"},
		Started:  started,
		Secret:   "hidden",
		Raw:      []byte("bytes"),
		Pair:     [2]string{"l", "r"},
		Headers:  map[string]string{"X-Id": "1"},
		Untagged: "plain",
		internal: "skip",
	})
	require.NoError(t, err)

	assert.Equal(t, FlatMap{
		"app.host":         "localhost",
		"app.ports[0]":     80,
		"app.ports[1]":     443,
		"app.tls.enabled":  true,
		"app.tls.cert":     "c.pem",
		"app.started":      started,
		"app.raw":          "bytes",
		"app.pair[0]":      "l",
		"app.pair[1]":      "r",
		"app.headers.X-Id": "1",
		"app.Untagged":     "plain",
	}, svc.Snapshot())

	t.Run("LoadedValuesOverride", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "o.json", `{"app": {"host": "remote"}}`)
		_, err := svc.LoadConfiguration(path)
		require.NoError(t, err)

		host, _ := svc.String("app.host", "")
		assert.Equal(t, "remote", host)
		port, _ := svc.Int("app.ports[1]", 0)
		assert.Equal(t, 443, port)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		assert.ErrorIs(t, svc.SetStruct("", 42), ErrInvalidArgument)
		assert.ErrorIs(t, svc.SetStruct("", (*server)(nil)), ErrInvalidArgument)
	})
}

// TestDump tests TOML output of the merged configuration
func TestDump(t *testing.T) {
	svc := New()
	path := writeFile(t, t.TempDir(), "app.json", `{
		"name": "demo",
		"server": {"host": "localhost", "port": 8080},
		"backends": [{"name": "a"}, {"name": "b"}],
		"optional": null
	}`)
	_, err := svc.LoadConfiguration(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.Dump(&buf))

	out := buf.String()
	assert.Contains(t, out, `name = "demo"`)
	assert.Contains(t, out, "[server]")
	assert.Contains(t, out, "[[backends]]")
	assert.NotContains(t, out, "optional")

	var decoded map[string]any
	_, err = toml.Decode(out, &decoded)
	require.NoError(t, err)

	reloaded := flattenTree(normalizeTOML(decoded))
	assert.Equal(t, "localhost", reloaded["server.host"])
	assert.Equal(t, int64(8080), reloaded["server.port"])
	assert.Equal(t, "b", reloaded["backends[1].name"])

	t.Run("TopLevelArrayIsNotATable", func(t *testing.T) {
		svc := New()
		require.NoError(t, svc.SetValue("[0]", "x"))
		assert.Error(t, svc.Dump(&bytes.Buffer{}))
	})
}

func TestDebug(t *testing.T) {
	svc := New()
	require.NoError(t, svc.SetValue("port", int64(80)))

	out := svc.Debug()
	assert.Contains(t, out, "Providers: [json xml yaml]")
	assert.Contains(t, out, "port = 80 (int64)")
}
