// Package sqlscripts resolves named SQL scripts. The scripts ship embedded
// in the binary; a directory on disk may override any of them by file name.
package sqlscripts

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/vvka-141/loanstage/internal/files/filesystem"
	"github.com/vvka-141/loanstage/pkg/loanstage"
)

//go:embed sql/*.sql
var embedded embed.FS

// Script names, without the .sql extension.
const (
	CreateSchemas       = "create_schemas"
	CreateStagingTables = "create_staging_tables"
	CreateCoreTables    = "create_core_tables"
	CreateDatamartTable = "create_datamart_table"

	InsertToMart = "insert_to_mart"
)

// SchemaScripts creates every schema and table, in execution order.
var SchemaScripts = []string{
	CreateSchemas,
	CreateStagingTables,
	CreateCoreTables,
	CreateDatamartTable,
}

// CreateTemp returns the temp table script of kind, e.g. create_temp_table_clients.
func CreateTemp(kind loanstage.RecordKind) string {
	return "create_temp_table_" + string(kind)
}

// Upsert returns the staging upsert script of kind, e.g. upsert_clients.
func Upsert(kind loanstage.RecordKind) string {
	return "upsert_" + string(kind)
}

// InsertToCore returns the staging-to-core script of kind, e.g. insert_to_clients.
func InsertToCore(kind loanstage.RecordKind) string {
	return "insert_to_" + string(kind)
}

// All lists every script the loader and schema command reference.
func All() []string {
	names := append([]string(nil), SchemaScripts...)
	for _, kind := range loanstage.LoadOrder {
		names = append(names, CreateTemp(kind), Upsert(kind), InsertToCore(kind))
	}
	return append(names, InsertToMart)
}

// Catalog reads scripts by name.
type Catalog struct {
	files filesystem.Provider
}

// NewCatalog returns a catalog over the embedded scripts, with files in
// overrideDir taking precedence. An empty overrideDir uses embedded scripts only.
func NewCatalog(overrideDir string) *Catalog {
	base := filesystem.NewEmbedFileSystem(embedded, "sql")
	if overrideDir == "" {
		return &Catalog{files: base}
	}
	return &Catalog{files: filesystem.NewOverlay(filesystem.NewOSFileSystem(overrideDir), base)}
}

// NewCatalogFrom returns a catalog over an arbitrary provider.
func NewCatalogFrom(p filesystem.Provider) *Catalog {
	return &Catalog{files: p}
}

// Script returns the SQL text of name. Unknown names and empty files are
// configuration errors.
func (c *Catalog) Script(name string) (string, error) {
	data, err := c.files.ReadFile(name + ".sql")
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("SQL script %s not found in %s: %w", name, c.files.Describe(), loanstage.ErrConfiguration)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read SQL script %s: %w", name, err)
	}
	sql := string(data)
	if strings.TrimSpace(sql) == "" {
		return "", fmt.Errorf("SQL script %s is empty: %w", name, loanstage.ErrConfiguration)
	}
	return sql, nil
}

// Validate checks that every referenced script resolves.
func (c *Catalog) Validate() error {
	var errs []error
	for _, name := range All() {
		if _, err := c.Script(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Source names where scripts are read from.
func (c *Catalog) Source() string {
	return c.files.Describe()
}
