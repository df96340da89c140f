// Package records is the generic CRUD engine over the entities of the schema
// registry.
//
// Every operation validates its input completely before it touches the store,
// runs inside exactly one acquired session and returns a *failure.Error on any
// failure:
//
//	engine := records.NewEngine(provider)
//	id, err := engine.Create(ctx, schema.Officer, []string{"Jane Doe", "Sergeant", "Homicide"})
//	rows, err := engine.Read(ctx, schema.Officer, []string{"Name"}, "")
//
// The engine does no authorization. Callers gate it behind an authenticated
// identity.
package records

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mrlokans/criminaldb/internal/database"
	"github.com/mrlokans/criminaldb/internal/failure"
	"github.com/mrlokans/criminaldb/internal/schema"
)

type Engine struct {
	provider database.Provider
}

func NewEngine(provider database.Provider) *Engine {
	return &Engine{provider: provider}
}

func describe(op string, entity schema.Entity) (schema.Descriptor, error) {
	desc, ok := schema.Describe(entity)
	if !ok {
		return schema.Descriptor{}, failure.Validation(op, errors.Wrapf(ErrUnknownEntity, "%q", string(entity)))
	}
	return desc, nil
}

// Create inserts one row from values given in registry field order and returns
// the store-assigned id. Every value is required.
func (e *Engine) Create(ctx context.Context, entity schema.Entity, values []string) (int64, error) {
	const op = "records.create"

	desc, err := describe(op, entity)
	if err != nil {
		return 0, err
	}
	args, err := bindValues(desc, values, true)
	if err != nil {
		return 0, failure.Validation(op, err)
	}

	var id int64
	err = database.WithSession(ctx, e.provider, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var err error
			id, err = insert(tx, desc, args)
			return err
		})
	})
	if err != nil {
		return 0, database.Classify(op, err)
	}

	log.WithFields(log.Fields{"entity": entity, "id": id}).Debug("Record created")
	return id, nil
}

func insert(tx *gorm.DB, desc schema.Descriptor, args []any) (int64, error) {
	stmt := insertStatement(desc)
	var id int64

	if tx.Dialector.Name() == "mysql" {
		if err := tx.Exec(stmt, args...).Error; err != nil {
			return 0, err
		}
		if err := tx.Raw("SELECT LAST_INSERT_ID()").Row().Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	if err := tx.Raw(stmt+" RETURNING id", args...).Row().Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// Read returns the id plus the requested fields of every matching row, ordered
// by id. No fields means all of them; an empty id means no filter. No rows is
// an empty result, not an error.
func (e *Engine) Read(ctx context.Context, entity schema.Entity, fields []string, id string) ([]Record, error) {
	const op = "records.read"

	desc, err := describe(op, entity)
	if err != nil {
		return nil, err
	}
	selected, err := selectFields(desc, fields)
	if err != nil {
		return nil, failure.Validation(op, err)
	}

	var args []any
	if id != "" {
		n, err := ParseID(id)
		if err != nil {
			return nil, failure.Validation(op, err)
		}
		args = append(args, n)
	}

	names := make([]string, len(selected))
	for i, f := range selected {
		names[i] = f.Name
	}

	result := []Record{}
	err = database.WithSession(ctx, e.provider, func(db *gorm.DB) error {
		rows, err := db.Raw(selectStatement(desc.Table, selected, len(args) > 0), args...).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecord(rows, names)
			if err != nil {
				return err
			}
			result = append(result, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, database.Classify(op, err)
	}
	return result, nil
}

func scanRecord(rows *sql.Rows, names []string) (Record, error) {
	raw := make([]any, len(names))
	dest := make([]any, len(names)+1)
	rec := Record{Fields: names, Values: make([]*string, len(names))}

	dest[0] = &rec.ID
	for i := range raw {
		dest[i+1] = &raw[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return Record{}, err
	}
	for i, v := range raw {
		rec.Values[i] = render(v)
	}
	return rec, nil
}

// Load fetches one full record, as the update form does before editing.
func (e *Engine) Load(ctx context.Context, entity schema.Entity, id string) (*Record, error) {
	const op = "records.load"

	if _, err := ParseID(id); err != nil {
		return nil, failure.Validation(op, err)
	}
	recs, err := e.Read(ctx, entity, nil, id)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, failure.NotFound(op, ErrNotFound)
	}
	return &recs[0], nil
}

// Update overwrites every field of the row with id. A missing row is reported
// as not found before anything is written. Required fields must be non-empty;
// empty optional values are stored as NULL.
func (e *Engine) Update(ctx context.Context, entity schema.Entity, id string, values []string) error {
	const op = "records.update"

	desc, err := describe(op, entity)
	if err != nil {
		return err
	}
	rowID, err := ParseID(id)
	if err != nil {
		return failure.Validation(op, err)
	}
	args, err := bindValues(desc, values, false)
	if err != nil {
		return failure.Validation(op, err)
	}

	err = database.WithSession(ctx, e.provider, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var found int64
			err := tx.Raw(existsStatement(desc.Table), rowID).Row().Scan(&found)
			if errors.Is(err, sql.ErrNoRows) {
				return failure.NotFound(op, ErrNotFound)
			}
			if err != nil {
				return err
			}
			return tx.Exec(updateStatement(desc), append(args, rowID)...).Error
		})
	})
	if err != nil {
		return database.Classify(op, err)
	}

	log.WithFields(log.Fields{"entity": entity, "id": rowID}).Debug("Record updated")
	return nil
}

// Delete removes the row with id and reports how many rows went away. Zero is
// a success. Dependent rows follow the store's foreign key policy.
func (e *Engine) Delete(ctx context.Context, entity schema.Entity, id string) (int64, error) {
	const op = "records.delete"

	desc, err := describe(op, entity)
	if err != nil {
		return 0, err
	}
	rowID, err := ParseID(id)
	if err != nil {
		return 0, failure.Validation(op, err)
	}

	var affected int64
	err = database.WithSession(ctx, e.provider, func(db *gorm.DB) error {
		res := db.Exec(deleteStatement(desc.Table), rowID)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, database.Classify(op, err)
	}

	log.WithFields(log.Fields{"entity": entity, "id": rowID, "affected": affected}).Debug("Record deleted")
	return affected, nil
}

// Count returns the number of rows of one entity.
func (e *Engine) Count(ctx context.Context, entity schema.Entity) (int64, error) {
	const op = "records.count"

	desc, err := describe(op, entity)
	if err != nil {
		return 0, err
	}

	var count int64
	err = database.WithSession(ctx, e.provider, func(db *gorm.DB) error {
		return db.Raw(countStatement(desc.Table)).Row().Scan(&count)
	})
	if err != nil {
		return 0, database.Classify(op, err)
	}
	return count, nil
}

// Counts returns the row count of every entity. An entity whose count fails is
// logged and reported as 0.
func (e *Engine) Counts(ctx context.Context) map[schema.Entity]int64 {
	counts := make(map[schema.Entity]int64, len(schema.Entities()))
	for _, entity := range schema.Entities() {
		n, err := e.Count(ctx, entity)
		if err != nil {
			log.WithError(err).WithField("entity", entity).Warn("Failed to count records")
			n = 0
		}
		counts[entity] = n
	}
	return counts
}
