package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-twennie/pkg/apidoc"
	"github.com/goliatone/go-twennie/pkg/validation"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		checkSpec  bool
	)

	cmd := &cobra.Command{
		Use:   "validate <kind> <file>",
		Short: "Validate a JSON or YAML submission",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := readSubmission(args[1], cmd.InOrStdin())
			if err != nil {
				return err
			}
			normalized, result := validation.NewEngine(a.catalog).Validate(args[0], sub)
			if err := printResult(cmd.OutOrStdout(), result, normalized, jsonOutput); err != nil {
				return err
			}
			if !result.Valid {
				return errInvalid
			}
			if checkSpec {
				return checkOpenAPI(cmd.OutOrStdout(), a, args[0], normalized)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&checkSpec, "openapi", false, "also check the normalised body against the published OpenAPI schema")
	return cmd
}

// readSubmission decodes path as YAML when its extension says so and as JSON
// otherwise. "-" reads JSON from stdin.
func readSubmission(path string, stdin io.Reader) (validation.Submission, error) {
	if path == "-" {
		return validation.DecodeJSON(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return validation.DecodeYAML(data)
	default:
		return validation.DecodeJSON(strings.NewReader(string(data)))
	}
}

// checkOpenAPI reports where a body the engine accepts would still be
// rejected by a client validating against the OpenAPI document.
func checkOpenAPI(w io.Writer, a *app, kind string, normalized validation.Submission) error {
	schema, err := a.catalog.Get(kind)
	if err != nil {
		return err
	}
	check := apidoc.CheckSubmission(schema, normalized)
	if check.Valid {
		_, err := fmt.Fprintln(w, "conforms to "+apidoc.OperationID(schema))
		return err
	}
	for _, issue := range check.Issues {
		if _, err := fmt.Fprintf(w, "- openapi %s: %s\n", issue.Field, issue.Message); err != nil {
			return err
		}
	}
	return errInvalid
}

type resultOutput struct {
	Valid      bool                  `json:"valid"`
	Issues     []validation.Issue    `json:"issues"`
	Submission validation.Submission `json:"submission,omitempty"`
}

func printResult(w io.Writer, result validation.Result, normalized validation.Submission, asJSON bool) error {
	if asJSON {
		issues := result.Issues
		if issues == nil {
			issues = []validation.Issue{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resultOutput{Valid: result.Valid, Issues: issues, Submission: normalized})
	}
	if result.Valid {
		_, err := fmt.Fprintln(w, "valid")
		return err
	}
	for _, message := range result.Messages() {
		if _, err := fmt.Fprintln(w, "- "+message); err != nil {
			return err
		}
	}
	return nil
}
