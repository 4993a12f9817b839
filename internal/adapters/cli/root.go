// Package cli is the cobra command tree behind cmd/app.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"procure-to-pay/internal/app"
	"procure-to-pay/internal/core"
	"procure-to-pay/internal/store"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

// TransitionLister reads the document audit log.
type TransitionLister interface {
	ListTransitions(ctx context.Context, documentType string, documentID int) ([]store.Transition, error)
}

// Deps are the collaborators the commands call. History is nil when no
// database is configured.
type Deps struct {
	Service app.ApplicationService
	Finder  core.DraftReceiptFinder
	History TransitionLister
}

// NewRootCommand builds the command tree. deps is resolved lazily so that
// --help works without any configuration.
func NewRootCommand(deps func() (*Deps, error)) *cobra.Command {
	root := &cobra.Command{
		Use:   "p2p",
		Short: "Procure-to-pay document engine",
		Long: `p2p recomputes, validates and submits purchasing and receivables documents.

Documents are read as JSON from a file argument, or from stdin when the
argument is "-". Results are printed as indented JSON.

Environment variables (or .env):
  BACKEND_URL    - base URL of the REST backend
  BACKEND_TOKEN  - bearer token sent to the backend`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRecomputeCmd(deps),
		newSubmitCmd(deps),
		newDatesCmd(deps),
		newSitesCmd(deps),
		newCustomersCmd(deps),
		newConflictsCmd(deps),
		newPOCmd(deps),
		newGRNCmd(deps),
		newInvoiceCmd(deps),
		newReceiptCmd(deps),
		newHistoryCmd(deps),
	)
	return root
}

// readDocument decodes the JSON document at path ("-" for stdin) into v.
func readDocument(cmd *cobra.Command, path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// errIssues is returned by --strict when a recompute reports validation findings.
type errIssues struct{ n int }

func (e errIssues) Error() string { return fmt.Sprintf("%d validation issue(s)", e.n) }
