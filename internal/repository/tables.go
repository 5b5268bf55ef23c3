package repository

import (
	"context"

	"gorm.io/gorm"

	"invoice-reconciliation-backend/internal/common"
)

// RequireTables is the table-presence contract between stages: a stage
// calls it for every upstream table before it writes anything.
func RequireTables(ctx context.Context, db *gorm.DB, stage string, tables ...any) error {
	migrator := db.WithContext(ctx).Migrator()
	for _, t := range tables {
		if migrator.HasTable(t) {
			continue
		}
		name := tableName(db, t)
		return common.MissingTable(stage, name)
	}
	return nil
}

func tableName(db *gorm.DB, model any) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil || stmt.Schema == nil {
		return "unknown"
	}
	return stmt.Schema.Table
}

// TableSnapshot is a raw, column-ordered read of one table.
type TableSnapshot struct {
	Columns []string
	Rows    [][]any
}

// ColumnIndex returns the position of name in Columns, or -1.
func (t TableSnapshot) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func readTable(ctx context.Context, db *gorm.DB, model any) (TableSnapshot, error) {
	rows, err := db.WithContext(ctx).Model(model).Order("id ASC").Rows()
	if err != nil {
		return TableSnapshot{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return TableSnapshot{}, err
	}
	snap := TableSnapshot{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return TableSnapshot{}, err
		}
		snap.Rows = append(snap.Rows, vals)
	}
	return snap, rows.Err()
}
