package config

// Catalog holds the per-deployment reference data: incident categories,
// incident types and supply zones. Loaded once at startup from TOML.
type Catalog struct {
	Categories    []Category
	IncidentTypes []IncidentType
	Zones         []Zone
}

// Category is an incident category (e.g. leak, outage, quality)
type Category struct {
	ID          string
	Name        string
	Description string
}

// IncidentType is a finer-grained incident classification
type IncidentType struct {
	ID   string
	Name string
}

// Zone is a water supply zone
type Zone struct {
	ID   string
	Name string
}

// HasCategory reports whether the catalog defines the category ID
func (c *Catalog) HasCategory(id string) bool {
	for _, cat := range c.Categories {
		if cat.ID == id {
			return true
		}
	}
	return false
}

// HasIncidentType reports whether the catalog defines the incident type ID
func (c *Catalog) HasIncidentType(id string) bool {
	for _, t := range c.IncidentTypes {
		if t.ID == id {
			return true
		}
	}
	return false
}

// HasZone reports whether the catalog defines the zone ID
func (c *Catalog) HasZone(id string) bool {
	for _, z := range c.Zones {
		if z.ID == id {
			return true
		}
	}
	return false
}
