package guard

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRoutes is the storefront's route table: home, login and
// register are public; checkout, order confirmation and order history
// require a session; the admin panel requires privilege.
func DefaultRoutes() []Route {
	return []Route{
		{Pattern: "/", Class: Public},
		{Pattern: "/login", Class: Public},
		{Pattern: "/register", Class: Public},
		{Pattern: "/checkout/{productId}", Class: Protected},
		{Pattern: "/order/{orderId}", Class: Protected},
		{Pattern: "/orders", Class: Protected},
		{Pattern: "/admin-panel", Class: Admin},
	}
}

// routesFile is the on-disk route table shape.
type routesFile struct {
	Routes []routeEntry `yaml:"routes"`
}

type routeEntry struct {
	Pattern string `yaml:"pattern"`
	Class   string `yaml:"class"`
}

// LoadRoutes reads a route table from a YAML file.
func LoadRoutes(path string) ([]Route, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	var file routesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse routes file: %w", err)
	}

	routes := make([]Route, 0, len(file.Routes))
	for _, entry := range file.Routes {
		if entry.Pattern == "" {
			return nil, fmt.Errorf("route with empty pattern")
		}
		class, err := parseClass(entry.Class)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", entry.Pattern, err)
		}
		routes = append(routes, Route{Pattern: entry.Pattern, Class: class})
	}
	return routes, nil
}

// LoadRoutesOrDefault loads the route table from path, or returns the
// default table when path is empty.
func LoadRoutesOrDefault(path string) ([]Route, error) {
	if path == "" {
		return DefaultRoutes(), nil
	}
	return LoadRoutes(path)
}

func parseClass(s string) (Class, error) {
	switch s {
	case "public":
		return Public, nil
	case "protected":
		return Protected, nil
	case "admin":
		return Admin, nil
	default:
		return Public, fmt.Errorf("unknown route class %q", s)
	}
}
