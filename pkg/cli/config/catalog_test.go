package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestCatalogConfigure(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		cfg := Catalog{path: writeCatalogFile(t, `
[[category]]
id = "network"
name = "Red de distribución"
description = "Incidencias en la red"

[[incident_type]]
id = "leak"
name = "Fuga"

[[zone]]
id = "zone-3"
name = "Distrito Centro"
`)}

		catalog, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, catalog).NotNil()
		gt.True(t, catalog.HasCategory("network"))
		gt.True(t, catalog.HasIncidentType("leak"))
		gt.True(t, catalog.HasZone("zone-3"))
		gt.False(t, catalog.HasCategory("no-such"))
	})

	t.Run("no path yields nil catalog", func(t *testing.T) {
		var cfg Catalog
		catalog, err := cfg.Configure()
		gt.NoError(t, err).Required()
		gt.Value(t, catalog).Nil()
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := Catalog{path: "/no/such/file.toml"}
		_, err := cfg.Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("duplicate IDs rejected", func(t *testing.T) {
		cfg := Catalog{path: writeCatalogFile(t, `
[[category]]
id = "network"
name = "Red"

[[category]]
id = "network"
name = "Red otra vez"
`)}

		_, err := cfg.Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("entry without name rejected", func(t *testing.T) {
		cfg := Catalog{path: writeCatalogFile(t, `
[[zone]]
id = "zone-9"
`)}

		_, err := cfg.Configure()
		gt.Value(t, err).NotNil()
	})
}
