// assets/embed.go
//
// Embedded SQL migrations. Shipping the schema inside the binary keeps
// deployment free of a working-directory layout; db.go applies these in
// lexical order and records them in _migrations.

package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed *.sql
var FS embed.FS

// MigrationFiles lists the embedded migration names in apply order.
func MigrationFiles() ([]string, error) {
	entries, err := fs.Glob(FS, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

// MigrationSQL returns the contents of one migration.
func MigrationSQL(name string) (string, error) {
	b, err := FS.ReadFile(name)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
