package cli

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mrlokans/criminaldb/internal/failure"
	"github.com/mrlokans/criminaldb/internal/records"
	"github.com/mrlokans/criminaldb/internal/schema"
)

func newRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List, add, update and delete records",
		Long: fmt.Sprintf(`Work with the records of one entity.

Entities: %s. Table names (criminals, officers, ...) work too.
Dates are written as YYYY-MM-DD.`, entityList()),
	}

	cmd.AddCommand(newRecordsListCommand())
	cmd.AddCommand(newRecordsAddCommand())
	cmd.AddCommand(newRecordsUpdateCommand())
	cmd.AddCommand(newRecordsDeleteCommand())
	return cmd
}

func entityList() string {
	names := make([]string, 0, len(schema.Entities()))
	for _, e := range schema.Entities() {
		names = append(names, string(e))
	}
	return strings.Join(names, ", ")
}

// resolveEntity accepts an entity or table name. Unknown names are passed
// through for the engine to reject.
func resolveEntity(name string) schema.Entity {
	if e, ok := schema.Lookup(name); ok {
		return e
	}
	return schema.Entity(name)
}

// applyAssignments overlays "Field=value" pairs onto values, which follow the
// entity's field order.
func applyAssignments(entity schema.Entity, values []string, assignments []string) ([]string, error) {
	const op = "cli.records"

	fields := schema.FieldsFor(entity)
	if fields == nil {
		return nil, failure.Validation(op, errors.Wrapf(records.ErrUnknownEntity, "%q", string(entity)))
	}
	if values == nil {
		values = make([]string, len(fields))
	}

	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return nil, failure.Validation(op, errors.Errorf("invalid assignment %q, use Field=value", a))
		}
		name = strings.TrimSpace(name)

		idx := -1
		for i, f := range fields {
			if f == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, failure.Validation(op, errors.Wrapf(records.ErrUnknownField, "%q", name))
		}
		values[idx] = value
	}
	return values, nil
}

func newRecordsListCommand() *cobra.Command {
	var (
		opts   loginOptions
		fields []string
		id     string
	)
	cmd := &cobra.Command{
		Use:   "list <entity>",
		Short: "Show records as a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := signIn(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			entity := resolveEntity(args[0])
			rows, err := app.Engine.Read(cmd.Context(), entity, fields, id)
			if err != nil {
				return err
			}

			columns := fields
			if len(columns) == 0 {
				columns = schema.FieldsFor(entity)
			}
			renderRecords(cmd.OutOrStdout(), columns, rows)
			return nil
		},
	}
	addLoginFlags(cmd, &opts)
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Fields to show (default all)")
	cmd.Flags().StringVar(&id, "id", "", "Only show the record with this id")
	return cmd
}

func newRecordsAddCommand() *cobra.Command {
	var (
		opts        loginOptions
		assignments []string
	)
	cmd := &cobra.Command{
		Use:   "add <entity>",
		Short: "Add a record; every field must be set",
		Example: `  criminaldb records add officer -u jdoe -p secret \
    --set "Name=Jane Roe" --set "Officer Rank=Sergeant" --set Department=Homicide`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := resolveEntity(args[0])
			values, err := applyAssignments(entity, nil, assignments)
			if err != nil {
				return err
			}

			app, _, err := signIn(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			newID, err := app.Engine.Create(cmd.Context(), entity, values)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %d\n", entity, newID)
			return nil
		},
	}
	addLoginFlags(cmd, &opts)
	cmd.Flags().StringArrayVar(&assignments, "set", nil, `Field value as "Field=value" (repeatable)`)
	return cmd
}

func newRecordsUpdateCommand() *cobra.Command {
	var (
		opts        loginOptions
		assignments []string
	)
	cmd := &cobra.Command{
		Use:   "update <entity> <id>",
		Short: "Change fields of a record; unset fields keep their value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entity := resolveEntity(args[0])
			if _, err := applyAssignments(entity, nil, assignments); err != nil {
				return err
			}

			app, _, err := signIn(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			current, err := app.Engine.Load(cmd.Context(), entity, args[1])
			if err != nil {
				return err
			}
			values, err := applyAssignments(entity, current.Strings(), assignments)
			if err != nil {
				return err
			}
			if err := app.Engine.Update(cmd.Context(), entity, args[1], values); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d\n", entity, current.ID)
			return nil
		},
	}
	addLoginFlags(cmd, &opts)
	cmd.Flags().StringArrayVar(&assignments, "set", nil, `Field value as "Field=value" (repeatable)`)
	return cmd
}

func newRecordsDeleteCommand() *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "delete <entity> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := signIn(cmd, opts)
			if err != nil {
				return err
			}
			defer app.Close()

			entity := resolveEntity(args[0])
			affected, err := app.Engine.Delete(cmd.Context(), entity, args[1])
			if err != nil {
				return err
			}
			if affected == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No %s with id %s\n", entity, args[1])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", entity, args[1])
			return nil
		},
	}
	addLoginFlags(cmd, &opts)
	return cmd
}
