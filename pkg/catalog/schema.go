// pkg/catalog/schema.go
package catalog

type RestaurantCatalog struct {
	Version     string    `json:"version"`
	LastUpdated string    `json:"lastUpdated"`
	Restaurants []Profile `json:"restaurants"`
}

type Profile struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Cuisine      string            `json:"cuisine"`
	Hours        map[string]string `json:"hours"`
	Address      string            `json:"address"`
	Phone        string            `json:"phone"`
	Website      string            `json:"website,omitempty"`
	ContactEmail string            `json:"contactEmail,omitempty"`
	Specials     []string          `json:"specials,omitempty"`
	MenuItems    []MenuItem        `json:"menuItems"`
}

type MenuItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
}
