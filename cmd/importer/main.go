// Command importer runs the bulk transaction import pipeline from the
// terminal: validate a spreadsheet locally or submit it to the configured
// import executor.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jesusrangel13/wallet-app/internal/domain/import/executor"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/service"
	"github.com/jesusrangel13/wallet-app/internal/domain/import/session"
	"github.com/jesusrangel13/wallet-app/pkg/catalog"
	"github.com/jesusrangel13/wallet-app/pkg/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "importer",
		Short: "Bulk transaction import for wallet-app",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newValidateCmd(), newSubmitCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newValidateCmd() *cobra.Command {
	var categoriesFlag, groupsFlag []string

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Extract and validate a CSV/XLSX file, printing per-row verdicts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := buildSession(args[0], categoriesFlag, groupsFlag)
			if err != nil {
				return err
			}

			for _, r := range sess.Rows() {
				if r.IsValid() {
					fmt.Printf("row %d: ok", r.RowNumber)
					if r.SuggestedCategory != "" && !strings.EqualFold(r.SuggestedCategory, r.Category) {
						fmt.Printf(" (category suggestion: %s)", r.SuggestedCategory)
					}
					fmt.Println()
					continue
				}
				fmt.Printf("row %d: %s\n", r.RowNumber, strings.Join(r.Errors, "; "))
			}

			valid, invalid := sess.Counts()
			fmt.Printf("%d valid, %d invalid\n", valid, invalid)
			return nil
		},
	}

	addCatalogFlags(cmd, &categoriesFlag, &groupsFlag)
	return cmd
}

func newSubmitCmd() *cobra.Command {
	var (
		categoriesFlag, groupsFlag []string
		accountFlag                string
		includeInvalid             bool
	)

	cmd := &cobra.Command{
		Use:   "submit <file>",
		Short: "Run the full pipeline and submit valid rows to the import executor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := uuid.Parse(accountFlag)
			if err != nil {
				return fmt.Errorf("invalid --account: %w", err)
			}

			sess, err := buildSession(args[0], categoriesFlag, groupsFlag)
			if err != nil {
				return err
			}

			cfg := config.Load()
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			client := executor.NewClient(cfg.Executor.BaseURL, cfg.Executor.Token, cfg.Executor.Timeout, logger)
			svc := service.NewImportService(client, logger)

			res, err := svc.Submit(cmd.Context(), sess, parseCatalog(categoriesFlag), service.SubmitOptions{
				AccountID:      accountID,
				CurrencyCode:   cfg.Import.DefaultCurrency,
				IncludeInvalid: includeInvalid,
			})
			if err != nil {
				return err
			}

			fmt.Printf("submitted %d rows: %d succeeded, %d failed\n",
				len(res.SubmittedRows), res.Result.SuccessCount, res.Result.FailedCount)
			for _, n := range res.Result.FailedRows {
				fmt.Printf("row %d failed server-side\n", n)
			}
			return nil
		},
	}

	addCatalogFlags(cmd, &categoriesFlag, &groupsFlag)
	cmd.Flags().StringVar(&accountFlag, "account", "", "account UUID the transactions belong to")
	cmd.Flags().BoolVar(&includeInvalid, "include-invalid", false, "submit invalid rows as-is (they are expected to fail server-side)")
	_ = cmd.MarkFlagRequired("account")
	return cmd
}

func addCatalogFlags(cmd *cobra.Command, categories, groups *[]string) {
	cmd.Flags().StringSliceVar(categories, "categories", nil, "known categories as name or name=uuid pairs")
	cmd.Flags().StringSliceVar(groups, "groups", nil, "known groups as name or name=uuid pairs")
}

func buildSession(path string, categoriesFlag, groupsFlag []string) (*session.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := service.NewImportService(nil, logger)
	return svc.BuildSession(path, "", data, parseCatalog(categoriesFlag), parseCatalog(groupsFlag))
}

// parseCatalog turns "name" or "name=uuid" flag values into a catalog. Names
// without an identifier get a fresh one, which is enough for local
// validation runs.
func parseCatalog(values []string) *catalog.Catalog {
	entries := make([]catalog.Entry, 0, len(values))
	for _, v := range values {
		name, rawID, hasID := strings.Cut(v, "=")
		entry := catalog.Entry{Name: strings.TrimSpace(name), ID: uuid.New()}
		if hasID {
			if id, err := uuid.Parse(strings.TrimSpace(rawID)); err == nil {
				entry.ID = id
			}
		}
		entries = append(entries, entry)
	}
	return catalog.New(entries)
}
