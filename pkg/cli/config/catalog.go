package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/aquanet-ops/aquanet/pkg/domain/model/config"
)

// Catalog holds CLI flags for the reference data file (categories, incident
// types, zones) loaded at startup.
type Catalog struct {
	path string
}

// catalogFile is the TOML shape of the reference data file
type catalogFile struct {
	Categories    []categoryEntry `toml:"category"`
	IncidentTypes []typeEntry     `toml:"incident_type"`
	Zones         []zoneEntry     `toml:"zone"`
}

type categoryEntry struct {
	ID          string `toml:"id"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

func (c *categoryEntry) Validate() error {
	if c.ID == "" {
		return goerr.New("category ID is required")
	}
	if c.Name == "" {
		return goerr.New("category name is required", goerr.V("id", c.ID))
	}
	return nil
}

type typeEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

func (t *typeEntry) Validate() error {
	if t.ID == "" {
		return goerr.New("incident type ID is required")
	}
	if t.Name == "" {
		return goerr.New("incident type name is required", goerr.V("id", t.ID))
	}
	return nil
}

type zoneEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

func (z *zoneEntry) Validate() error {
	if z.ID == "" {
		return goerr.New("zone ID is required")
	}
	if z.Name == "" {
		return goerr.New("zone name is required", goerr.V("id", z.ID))
	}
	return nil
}

func (f *catalogFile) Validate() error {
	seen := make(map[string]bool)
	for _, cat := range f.Categories {
		if err := cat.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category")
		}
		if seen["cat:"+cat.ID] {
			return goerr.New("duplicate category ID", goerr.V("id", cat.ID))
		}
		seen["cat:"+cat.ID] = true
	}
	for _, t := range f.IncidentTypes {
		if err := t.Validate(); err != nil {
			return goerr.Wrap(err, "invalid incident type")
		}
		if seen["type:"+t.ID] {
			return goerr.New("duplicate incident type ID", goerr.V("id", t.ID))
		}
		seen["type:"+t.ID] = true
	}
	for _, z := range f.Zones {
		if err := z.Validate(); err != nil {
			return goerr.Wrap(err, "invalid zone")
		}
		if seen["zone:"+z.ID] {
			return goerr.New("duplicate zone ID", goerr.V("id", z.ID))
		}
		seen["zone:"+z.ID] = true
	}
	return nil
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to the TOML reference data file (categories, incident types, zones)",
			Sources:     cli.EnvVars("AQUANET_CATALOG"),
			Destination: &c.path,
		},
	}
}

// Configure loads and validates the catalog file. Returns nil when no path
// was provided; incident creation then skips reference data validation.
func (c *Catalog) Configure() (*domainConfig.Catalog, error) {
	if c.path == "" {
		return nil, nil
	}

	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read catalog file", goerr.V("path", c.path))
	}

	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML catalog", goerr.V("path", c.path))
	}

	if err := file.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed", goerr.V("path", c.path))
	}

	return file.toDomain(), nil
}

func (f *catalogFile) toDomain() *domainConfig.Catalog {
	categories := make([]domainConfig.Category, len(f.Categories))
	for i, cat := range f.Categories {
		categories[i] = domainConfig.Category{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
		}
	}

	incidentTypes := make([]domainConfig.IncidentType, len(f.IncidentTypes))
	for i, t := range f.IncidentTypes {
		incidentTypes[i] = domainConfig.IncidentType{
			ID:   t.ID,
			Name: t.Name,
		}
	}

	zones := make([]domainConfig.Zone, len(f.Zones))
	for i, z := range f.Zones {
		zones[i] = domainConfig.Zone{
			ID:   z.ID,
			Name: z.Name,
		}
	}

	return &domainConfig.Catalog{
		Categories:    categories,
		IncidentTypes: incidentTypes,
		Zones:         zones,
	}
}
