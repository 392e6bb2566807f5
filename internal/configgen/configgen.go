// Package configgen writes a localized producer.config template.
package configgen

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ibs-source/es-producer/internal/i18n"
)

// FileName is the name of the generated file
const FileName = "producer.config"

//go:embed producer.config.template
var template string

// Render substitutes every catalog key found in the template with its
// translation
func Render(catalog i18n.Catalog) string {
	keys := catalog.Keys()
	// longest first, so a key that prefixes another cannot clobber it
	sort.SliceStable(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, catalog[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Generate writes the rendered template to dir/producer.config and returns
// the path written
func Generate(dir string, catalog i18n.Catalog) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(Render(catalog)), 0o644); err != nil { // #nosec G306 - not a secret until edited
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
