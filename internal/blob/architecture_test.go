package blob

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

// layerRule restricts which packages may import a backend tree. Backends may
// import each other.
type layerRule struct {
	backend string
	allowed []string
}

var layerRules = []layerRule{
	{backend: "memberbook/internal/infra/blob", allowed: []string{"memberbook/internal/blob"}},
	{backend: "memberbook/internal/infra/persistence", allowed: []string{"memberbook/internal/core"}},
}

// TestBackendsStayBehindFacades keeps production code on the blob.Store and
// PersistentStore interfaces. Tests may build backends directly.
func TestBackendsStayBehindFacades(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, "memberbook/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	if len(pkgs) == 0 {
		t.Fatalf("no packages loaded")
	}

	seen := make(map[string]struct{})
	for _, pkg := range pkgs {
		for _, rule := range layerRules {
			if underPrefix(pkg.PkgPath, rule.backend) || allowedBy(pkg.PkgPath, rule.allowed) {
				continue
			}
			for importPath := range pkg.Imports {
				if underPrefix(importPath, rule.backend) {
					seen[pkg.PkgPath+": "+importPath] = struct{}{}
				}
			}
		}
	}

	violations := make([]string, 0, len(seen))
	for v := range seen {
		violations = append(violations, v)
	}
	sort.Strings(violations)
	for _, v := range violations {
		t.Errorf("forbidden backend import: %s", v)
	}
}

func allowedBy(pkgPath string, allowed []string) bool {
	for _, prefix := range allowed {
		if pkgPath == prefix {
			return true
		}
	}
	return false
}

func underPrefix(importPath, prefix string) bool {
	return importPath == prefix || strings.HasPrefix(importPath, prefix+"/")
}
