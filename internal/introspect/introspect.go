// Package introspect discovers child (line-item) tables from a skill's
// live SQLite schema, so the frontend can render repeatable sub-forms
// without any hand-written UI configuration.
package introspect

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/skillgate/skillgate/internal/schema"
)

// childSuffixes mark a table as a detail table of the suffix-stripped
// parent, mapped to the collection parameter name the parent action
// expects.
var childSuffixes = map[string]string{
	"_item":    "items",
	"_detail":  "details",
	"_line":    "lines",
	"_entry":   "entries",
	"_reading": "readings",
	"_account": "accounts",
}

// excludeColumns are never rendered: surrogate keys, timestamps, computed
// amounts, and quantity tracking columns maintained by the skill itself.
var excludeColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	// computed (qty * rate)
	"amount": true, "net_amount": true, "total_amount": true,
	"base_amount": true, "base_net_amount": true,
	// system-maintained quantity tracking
	"received_qty": true, "invoiced_qty": true, "delivered_qty": true,
	"billed_qty": true, "returned_qty": true, "transferred_qty": true,
	"completed_qty": true, "produced_qty": true,
}

// ChildTable is the discovered schema of one detail table.
type ChildTable struct {
	Table     string         `json:"table"`
	ParamName string         `json:"param_name"`
	Fields    []schema.Field `json:"fields"`
}

// Introspector reads per-skill SQLite databases under
// <dataDir>/<skill>/data.sqlite.
type Introspector struct {
	dataDir string
}

// New creates an Introspector rooted at dataDir.
func New(dataDir string) *Introspector {
	return &Introspector{dataDir: dataDir}
}

// Introspect returns child tables grouped by parent entity name. A skill
// without a database yields an empty map, not an error. Results are
// computed fresh per call; the PRAGMA reads are cheap enough that caching
// would only add a staleness problem.
func (in *Introspector) Introspect(skill string) (map[string][]ChildTable, error) {
	path := filepath.Join(in.dataDir, skill, "data.sqlite")
	if _, err := os.Stat(path); err != nil {
		return map[string][]ChildTable{}, nil
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("introspect: open %q: %w", path, err)
	}
	defer db.Close()

	tables, err := listTables(db)
	if err != nil {
		return nil, fmt.Errorf("introspect: %s: %w", skill, err)
	}

	known := map[string]bool{}
	for _, t := range tables {
		known[t] = true
	}

	result := map[string][]ChildTable{}
	for _, table := range tables {
		parent, suffix, ok := classifyChild(table, known)
		if !ok {
			continue
		}
		fields, err := childFields(db, table, parent)
		if err != nil {
			return nil, fmt.Errorf("introspect: %s.%s: %w", skill, table, err)
		}
		if len(fields) == 0 {
			continue
		}
		result[parent] = append(result[parent], ChildTable{
			Table:     table,
			ParamName: childSuffixes[suffix],
			Fields:    fields,
		})
	}
	return result, nil
}

func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(
		"SELECT name FROM sqlite_master WHERE type='table' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// classifyChild reports whether a table is a detail table: its name must
// end in a child suffix AND the stripped prefix must itself be a known
// table. "invoice_item" is a child of "invoice"; a lone "work_item" with
// no "work" table stays a parent.
func classifyChild(table string, known map[string]bool) (parent, suffix string, ok bool) {
	for s := range childSuffixes {
		if strings.HasSuffix(table, s) {
			p := strings.TrimSuffix(table, s)
			if known[p] {
				return p, s, true
			}
		}
	}
	return "", "", false
}

// childFields reads column metadata and maps user-editable columns through
// the shared inference engine. The parent foreign key ({parent}_id) and
// system columns are excluded; nullability drives the required flag.
func childFields(db *sql.DB, table, parent string) ([]schema.Field, error) {
	rows, err := db.Query(
		`SELECT name, type, "notnull" FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parentFK := parent + "_id"
	var fields []schema.Field

	for rows.Next() {
		var (
			name, sqlType string
			notNull       int
		)
		if err := rows.Scan(&name, &sqlType, &notNull); err != nil {
			return nil, err
		}
		if excludeColumns[name] || name == parentFK {
			continue
		}

		kebab := strings.ReplaceAll(name, "_", "-")
		field := schema.Infer(kebab, schema.Hints{DeclaredType: declaredType(sqlType)})
		field.Required = notNull != 0
		applyColumnRules(&field, kebab)
		fields = append(fields, field)
	}
	return fields, rows.Err()
}

// declaredType maps a SQLite column affinity to the inference engine's
// declared-type vocabulary.
func declaredType(sqlType string) string {
	t := strings.ToUpper(sqlType)
	switch {
	case strings.Contains(t, "INT"):
		return "integer"
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"),
		strings.Contains(t, "DOUB"), strings.Contains(t, "NUMERIC"),
		strings.Contains(t, "DECIMAL"):
		return "float"
	case strings.Contains(t, "BOOL"):
		return "boolean"
	default:
		return ""
	}
}

// applyColumnRules layers storage-specific conventions on top of the
// shared inference: lookup columns reference the id/name pair of the
// target table, quantity columns start at 1, and percentage columns are
// rendered as percent inputs.
func applyColumnRules(field *schema.Field, kebab string) {
	switch {
	case field.Type == schema.TypeEntityLookup:
		field.LookupValueField = "id"
		field.LookupDisplayField = "name"
	case kebab == "qty" || kebab == "quantity":
		field.Default = "1"
		field.Min = 1
	case strings.HasSuffix(kebab, "-percent") || strings.HasSuffix(kebab, "-percentage"):
		field.Type = schema.TypePercent
		field.Step = 0.01
	}
}
