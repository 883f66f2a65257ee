package guard

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRoutesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "routes.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRoutes(t *testing.T) {
	path := writeRoutesFile(t, `
routes:
  - pattern: /
    class: public
  - pattern: /account
    class: protected
  - pattern: /staff/{section}
    class: admin
`)

	routes, err := LoadRoutes(path)
	if err != nil {
		t.Fatalf("LoadRoutes() error = %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("len(routes) = %d, want 3", len(routes))
	}
	if routes[1].Pattern != "/account" || routes[1].Class != Protected {
		t.Errorf("routes[1] = %+v, want /account protected", routes[1])
	}
	if routes[2].Class != Admin {
		t.Errorf("routes[2].Class = %v, want Admin", routes[2].Class)
	}
}

func TestLoadRoutesUnknownClass(t *testing.T) {
	path := writeRoutesFile(t, `
routes:
  - pattern: /x
    class: superuser
`)

	if _, err := LoadRoutes(path); err == nil {
		t.Error("LoadRoutes() with unknown class should fail")
	}
}

func TestLoadRoutesEmptyPattern(t *testing.T) {
	path := writeRoutesFile(t, `
routes:
  - class: public
`)

	if _, err := LoadRoutes(path); err == nil {
		t.Error("LoadRoutes() with empty pattern should fail")
	}
}

func TestLoadRoutesMissingFile(t *testing.T) {
	if _, err := LoadRoutes(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadRoutes() with missing file should fail")
	}
}

func TestLoadRoutesOrDefault(t *testing.T) {
	routes, err := LoadRoutesOrDefault("")
	if err != nil {
		t.Fatalf("LoadRoutesOrDefault() error = %v", err)
	}
	if len(routes) != len(DefaultRoutes()) {
		t.Errorf("len(routes) = %d, want default table", len(routes))
	}
}

func TestClassString(t *testing.T) {
	cases := []struct {
		class Class
		want  string
	}{
		{Public, "public"},
		{Protected, "protected"},
		{Admin, "admin"},
	}
	for _, tc := range cases {
		if got := tc.class.String(); got != tc.want {
			t.Errorf("Class(%d).String() = %q, want %q", tc.class, got, tc.want)
		}
	}
}
