package core

import (
	"testing"

	"memberbook/testutil"
)

func TestCoreDoesNotImportOuterLayers(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.ImportUnder(
		"memberbook/cmd",
		"memberbook/internal/command",
		"memberbook/internal/archive",
		"memberbook/internal/blob",
		"memberbook/internal/adapters",
		"memberbook/internal/platform",
	), "core must not depend on front ends or archives")
}
