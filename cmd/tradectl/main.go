package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// errTradeRejected marks a trade that failed validation. The verdict has
// already been printed, so main only sets the exit code.
var errTradeRejected = errors.New("trade rejected")

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errTradeRejected) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	leaguePath   string
	proposalPath string
	year         int
	date         string
	jsonOutput   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tradectl",
		Short:         "Validate and execute trades against a league file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.leaguePath, "league", "league.json", "league JSON file")
	flags.StringVar(&opts.proposalPath, "proposal", "", "trade proposal JSON file")
	flags.IntVar(&opts.year, "year", 0, "current season year (default: SEASON_YEAR or the clock)")
	flags.StringVar(&opts.date, "date", "", "current date as YYYY-MM-DD (default: today)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "print the result as JSON")

	root.AddCommand(
		newValidateCmd(opts),
		newExecuteCmd(opts),
		newHistoryCmd(opts),
	)
	return root
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check a proposal without changing the league",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg, err := openLeague(cmd.Context(), opts)
			if err != nil {
				return err
			}
			proposal, err := readProposal(opts.proposalPath)
			if err != nil {
				return err
			}

			result, err := lg.trades.Validate(cmd.Context(), proposal)
			if err != nil {
				return err
			}
			if err := printResult(cmd.OutOrStdout(), result, opts.jsonOutput); err != nil {
				return err
			}
			if !result.Valid() {
				return errTradeRejected
			}
			return nil
		},
	}
}

func newExecuteCmd(opts *options) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a proposal and write the updated league back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg, err := openLeague(cmd.Context(), opts)
			if err != nil {
				return err
			}
			proposal, err := readProposal(opts.proposalPath)
			if err != nil {
				return err
			}

			rec, err := lg.trades.Execute(cmd.Context(), proposal)
			var execErr *domain.ExecutionError
			if errors.As(err, &execErr) {
				if perr := printRejection(cmd.OutOrStdout(), execErr.Violation, opts.jsonOutput); perr != nil {
					return perr
				}
				return errTradeRejected
			}
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = opts.leaguePath
			}
			if err := lg.save(cmd.Context(), outPath, rec); err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec, opts.jsonOutput)
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "write the updated league here instead of --league")
	return cmd
}

func newHistoryCmd(opts *options) *cobra.Command {
	var teamID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the trades a team took part in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lg, err := openLeague(cmd.Context(), opts)
			if err != nil {
				return err
			}
			records, err := lg.trades.History(cmd.Context(), teamID)
			if err != nil {
				return fmt.Errorf("team %s: %w", teamID, err)
			}
			return printHistory(cmd.OutOrStdout(), teamID, records, opts.jsonOutput)
		},
	}
	cmd.Flags().StringVar(&teamID, "team", "", "team id")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}
