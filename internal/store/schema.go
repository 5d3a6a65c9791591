package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableLLMRequestEvents = "llm_request_events"
	tableSessionEvents    = "session_events"
	tableSequence         = "global_sequence"
)

// eventColumns are shared by every event table: a row id, the global
// sequence number, and the UTC timestamp in unix milliseconds.
func eventColumns(cols ...*schema.Column) []*schema.Column {
	return append([]*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
	}, cols...)
}

func text(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Default: ""}
}

func integer(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Default: 0}
}

// newTable makes the first column the primary key and indexes the named
// columns.
func newTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := schema.NewTable(name).AddPrimary(cols[0])
	for _, c := range cols[1:] {
		t.AddColumn(c)
	}
	for _, c := range indexed {
		t.AddIndex(name+"_"+c, false, []string{c})
	}
	return t
}

// tables is the whole schema. Migration only adds; it never drops.
var tables = []*schema.Table{
	newTable(tableLLMRequestEvents, eventColumns(
		text("provider"),
		text("model"),
		text("purpose"),
		text("topic"),
		integer("input_tokens"),
		integer("output_tokens"),
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		text("error_message"),
		text("request_body"),
		text("response_body"),
	), "purpose", "timestamp"),
	newTable(tableSessionEvents, eventColumns(
		text("session_id"),
		text("owner"),
		text("kind"),
		text("action"),
		text("topic"),
		integer("total"),
		integer("correct"),
		text("detail"),
	), "owner", "session_id"),
	newTable(tableSequence, []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}),
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// migrate creates missing tables, columns and indexes, then seeds the
// single sequence row.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	query, args := builder().Insert(tableSequence).
		Columns("id", "next_val").Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if err := drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("seed sequence: %w", err)
	}
	return nil
}
