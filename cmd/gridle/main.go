package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridle/gridle"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gridle: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		columns     []string
		titles      []string
		rows        int
		language    string
		langPath    string
		theme       string
		mode        string
		selectable  bool
		useCache    bool
		persist     bool
		pushState   bool
		preload     bool
		debug       bool
		stateDir    string
		instanceKey string
	)

	cmd := &cobra.Command{
		Use:   "gridle [flags] URL",
		Short: "Browse a paginated REST endpoint as an interactive data grid",
		Long: `gridle points an interactive data grid at a REST endpoint that
serves {"data": [...], "totalRecords": N} pages and supports the
page/perPage/offset, filtering[column] and sorting[column] query
parameters.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := gridle.Options{
				URL:             args[0],
				Columns:         columns,
				ColumnTitles:    titles,
				RowsPerPage:     rows,
				Language:        language,
				LangPath:        langPath,
				Theme:           theme,
				Format:          parseMode(mode),
				Selectable:      selectable,
				UseCache:        useCache,
				PersistState:    persist,
				UsePushState:    pushState,
				PreloadNextPage: preload,
				Debug:           debug,
				StateDir:        stateDir,
				InstanceKey:     instanceKey,
				CacheExpiry:     8 * time.Hour,
			}
			return runTUI(opts)
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "record fields to show (required)")
	cmd.Flags().StringSliceVar(&titles, "titles", nil, "display titles, aligned with --columns")
	cmd.Flags().IntVar(&rows, "rows", 0, "rows per page (10, 20, 50, 100, 250, 500, 1000)")
	cmd.Flags().StringVar(&language, "language", "", "language tag, e.g. en_US")
	cmd.Flags().StringVar(&langPath, "lang-path", "", "directory with <lang>.json bundles")
	cmd.Flags().StringVar(&theme, "theme", "", "theme: default, light or dark")
	cmd.Flags().StringVar(&mode, "mode", "table", "layout: table, list or cards")
	cmd.Flags().BoolVar(&selectable, "selectable", false, "enable row selection")
	cmd.Flags().BoolVar(&useCache, "cache", false, "cache responses in a local database")
	cmd.Flags().BoolVar(&persist, "persist", false, "persist column layout, sorting and filters")
	cmd.Flags().BoolVar(&pushState, "push-state", false, "mirror query state into history")
	cmd.Flags().BoolVar(&preload, "preload", false, "preload the next page into the cache")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose logging")
	cmd.Flags().StringVar(&stateDir, "state-dir", "", "override the state directory")
	cmd.Flags().StringVar(&instanceKey, "instance", "", "instance key for state and cache isolation")
	_ = cmd.MarkFlagRequired("columns")

	cmd.AddCommand(versionCmd())
	return cmd
}

func parseMode(s string) gridle.Format {
	switch strings.ToLower(s) {
	case "list":
		return gridle.FormatList
	case "cards":
		return gridle.FormatCards
	default:
		return gridle.FormatTable
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gridle version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}
