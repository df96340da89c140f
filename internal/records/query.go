package records

import (
	"fmt"
	"strings"

	"github.com/mrlokans/criminaldb/internal/schema"
)

// Statement builders. Table and column names come from the schema registry
// only; every value is a bound ? placeholder, which gorm rewrites to the
// dialect's bind variable.

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func columnList(fields []schema.Field) string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
	}
	return strings.Join(cols, ", ")
}

func insertStatement(desc schema.Descriptor) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		desc.Table, columnList(desc.Fields), placeholders(len(desc.Fields)))
}

func selectStatement(table string, fields []schema.Field, byID bool) string {
	var b strings.Builder
	b.WriteString("SELECT id")
	if len(fields) > 0 {
		b.WriteString(", ")
		b.WriteString(columnList(fields))
	}
	b.WriteString(" FROM ")
	b.WriteString(table)
	if byID {
		b.WriteString(" WHERE id = ?")
	}
	b.WriteString(" ORDER BY id")
	return b.String()
}

func existsStatement(table string) string {
	return fmt.Sprintf("SELECT id FROM %s WHERE id = ?", table)
}

func updateStatement(desc schema.Descriptor) string {
	sets := make([]string, len(desc.Fields))
	for i, f := range desc.Fields {
		sets[i] = f.Column + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", desc.Table, strings.Join(sets, ", "))
}

func deleteStatement(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
}

func countStatement(table string) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
}
