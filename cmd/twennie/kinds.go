package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-twennie/pkg/apidoc"
)

func newKindsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the registered content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tTITLE\tOPERATION\tFIELDS")
			for _, schema := range a.catalog.Schemas() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", schema.Kind, schema.Title, apidoc.OperationID(schema), len(schema.Fields))
			}
			return tw.Flush()
		},
	}
}

func newOpenAPICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the submission API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := apidoc.JSON(cmd.Context(), a.catalog)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
