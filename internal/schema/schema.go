// Package schema is the static registry of the record entities.
//
// Each entity has a table and an ordered list of logical fields. The same list
// drives form rendering in the UI and the column lists of every SQL statement,
// so field order is significant: insert values, update assignments and select
// columns all follow it.
//
//	fields := schema.FieldsFor(schema.Criminal)
//	// ["Name", "Age", "Gender", "Crime", "Crime Date", "Status"]
//
//	desc, _ := schema.Describe(schema.Criminal)
//	desc.Columns()
//	// ["name", "age", "gender", "crime", "crime_date", "status"]
package schema

import (
	"strings"
)

type Entity string

const (
	Criminal Entity = "criminal"
	Officer  Entity = "officer"
	Case     Entity = "case"
	Evidence Entity = "evidence"
)

// Kind tells the CRUD engine how to coerce a raw value before binding it.
type Kind int

const (
	KindText Kind = iota
	KindInteger
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}

// dateToken marks a logical field as a date.
const dateToken = "Date"

type Field struct {
	Name     string `json:"name"`
	Column   string `json:"column"`
	Kind     Kind   `json:"-"`
	Required bool   `json:"required"` // NOT NULL in the store
}

type Descriptor struct {
	Entity Entity  `json:"entity"`
	Table  string  `json:"table"`
	Fields []Field `json:"fields"`
}

// ColumnName maps a logical field name onto its storage column.
func ColumnName(logical string) string {
	return strings.ReplaceAll(strings.ToLower(logical), " ", "_")
}

func newField(name string, kind Kind, required bool) Field {
	if strings.Contains(name, dateToken) {
		kind = KindDate
	}
	return Field{Name: name, Column: ColumnName(name), Kind: kind, Required: required}
}

func text(name string) Field     { return newField(name, KindText, false) }
func required(name string) Field { return newField(name, KindText, true) }
func integer(name string) Field  { return newField(name, KindInteger, false) }

var order = []Entity{Criminal, Officer, Case, Evidence}

var registry = map[Entity]Descriptor{
	Criminal: {
		Entity: Criminal,
		Table:  "criminals",
		Fields: []Field{required("Name"), integer("Age"), text("Gender"), text("Crime"), text("Crime Date"), text("Status")},
	},
	Officer: {
		Entity: Officer,
		Table:  "officers",
		Fields: []Field{required("Name"), text("Officer Rank"), text("Department")},
	},
	Case: {
		Entity: Case,
		Table:  "cases",
		Fields: []Field{required("Case Name"), text("Case Date"), text("Description"), integer("Officer ID")},
	},
	Evidence: {
		Entity: Evidence,
		Table:  "evidence",
		Fields: []Field{integer("Case ID"), text("Evidence Type"), text("Description")},
	},
}

// Entities returns every registered entity in display order.
func Entities() []Entity {
	out := make([]Entity, len(order))
	copy(out, order)
	return out
}

// Describe returns the descriptor of e. The returned field slice is a copy.
func Describe(e Entity) (Descriptor, bool) {
	d, ok := registry[e]
	if !ok {
		return Descriptor{}, false
	}
	d.Fields = append([]Field(nil), d.Fields...)
	return d, true
}

// FieldsFor returns the ordered logical field names of e, or an empty slice for
// an unknown entity.
func FieldsFor(e Entity) []string {
	d, ok := registry[e]
	if !ok {
		return nil
	}
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Lookup resolves an entity by entity name ("criminal") or table name
// ("criminals"), ignoring case and surrounding space.
func Lookup(name string) (Entity, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range order {
		if string(e) == name || registry[e].Table == name {
			return e, true
		}
	}
	return "", false
}

// Columns returns the storage columns in field order.
func (d Descriptor) Columns() []string {
	cols := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		cols[i] = f.Column
	}
	return cols
}

// Field finds a field by logical name. The match is exact.
func (d Descriptor) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
