// pkg/catalog/catalog.go

// Package catalog defines the versioned restaurant profile file managed
// by the catalog-admin tool and seeded into Postgres.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

// profileSchema constrains a single catalog entry. Hours keys are limited
// to lowercase weekday names so runtime lookups stay exact.
const profileSchema = `{
	"type": "object",
	"required": ["id", "name", "cuisine", "hours", "address", "phone", "menuItems"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string", "minLength": 1},
		"cuisine": {"type": "string"},
		"hours": {
			"type": "object",
			"additionalProperties": false,
			"patternProperties": {
				"^(monday|tuesday|wednesday|thursday|friday|saturday|sunday)$": {"type": "string"}
			}
		},
		"address": {"type": "string"},
		"phone": {"type": "string"},
		"website": {"type": "string"},
		"contactEmail": {"type": "string"},
		"specials": {"type": "array", "items": {"type": "string"}},
		"menuItems": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "price"],
				"properties": {
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"price": {"type": "number", "minimum": 0},
					"category": {"type": "string"}
				}
			}
		}
	}
}`

func LoadCatalog(path string) (*RestaurantCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat RestaurantCatalog
	err = json.Unmarshal(data, &cat)
	return &cat, err
}

// Validate rejects duplicate IDs and checks every profile against the
// JSON schema.
func (c *RestaurantCatalog) Validate() error {
	if len(c.Restaurants) == 0 {
		return fmt.Errorf("catalog contains no restaurants")
	}

	schemaLoader := gojsonschema.NewStringLoader(profileSchema)
	ids := make(map[string]bool)
	for _, profile := range c.Restaurants {
		if ids[profile.ID] {
			return fmt.Errorf("duplicate restaurant ID: %s", profile.ID)
		}
		ids[profile.ID] = true

		result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(profile))
		if err != nil {
			return fmt.Errorf("validation error for %s: %w", profile.ID, err)
		}
		if !result.Valid() {
			errs := make([]string, len(result.Errors()))
			for i, desc := range result.Errors() {
				errs[i] = desc.String()
			}
			return fmt.Errorf("restaurant %s failed validation: %v", profile.ID, errs)
		}
	}

	return nil
}
