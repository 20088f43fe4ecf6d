package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-twennie/components/characteristics"
	"github.com/goliatone/go-twennie/pkg/prompt"
	"github.com/goliatone/go-twennie/pkg/validation"
)

// newNewCmd builds the interactive command. A nil driver means the terminal.
func newNewCmd(a *app, driver prompt.Driver) *cobra.Command {
	return &cobra.Command{
		Use:   "new <kind>",
		Short: "Fill in a unit interactively and validate it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := a.catalog.Get(args[0])
			if err != nil {
				return err
			}

			opts := []prompt.Option{prompt.WithDriver(driver)}
			if tags, err := characteristics.DefaultTags(); err == nil {
				opts = append(opts, prompt.WithSuggestions(tags))
			}
			p, err := prompt.New(opts...)
			if err != nil {
				return err
			}

			sub, err := p.Collect(cmd.Context(), schema)
			if err != nil {
				return err
			}
			normalized, result := validation.NewEngine(a.catalog).Validate(schema.Kind, sub)
			if !result.Valid {
				if err := printResult(cmd.OutOrStdout(), result, nil, false); err != nil {
					return err
				}
				return errInvalid
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(normalized)
		},
	}
}
