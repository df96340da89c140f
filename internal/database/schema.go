package database

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mrlokans/criminaldb/internal/entities"
)

const opEnsureSchema = "database.ensure_schema"

// tableModels lists the tables in creation order. Referenced tables come first.
var tableModels = []any{
	&entities.User{},
	&entities.Officer{},
	&entities.Criminal{},
	&entities.Case{},
	&entities.Evidence{},
}

// EnsureSchema creates every missing table and the criminal name index. Tables
// that already exist are left exactly as they are, whatever their columns, so
// running it against an initialized store changes nothing.
func EnsureSchema(ctx context.Context, p Provider) error {
	return WithSession(ctx, p, func(db *gorm.DB) error {
		m := db.Migrator()

		for _, model := range tableModels {
			if m.HasTable(model) {
				continue
			}
			if err := m.CreateTable(model); err != nil {
				return Classify(opEnsureSchema, errors.Wrapf(err, "create table for %T", model))
			}
			log.WithField("model", modelName(model)).Debug("Created table")
		}

		if !m.HasIndex(&entities.Criminal{}, entities.CriminalNameIndex) {
			if err := m.CreateIndex(&entities.Criminal{}, entities.CriminalNameIndex); err != nil {
				return Classify(opEnsureSchema, errors.Wrap(err, "create criminal name index"))
			}
			log.WithField("index", entities.CriminalNameIndex).Debug("Created index")
		}
		return nil
	})
}

func modelName(model any) string {
	if t, ok := model.(interface{ TableName() string }); ok {
		return t.TableName()
	}
	return "unknown"
}
