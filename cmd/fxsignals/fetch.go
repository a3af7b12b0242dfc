package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/newthinker/fxsignals/internal/core"
	"github.com/newthinker/fxsignals/internal/session"
	"github.com/newthinker/fxsignals/internal/storage/archive"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch signals for a date range",
	Long: `Fetch the daily forex signals between --start and --end (inclusive,
YYYY-MM-DD) and print them. With --export the workbook is saved to the
configured archive.`,
	RunE: runFetch,
}

var (
	fetchStart  string
	fetchEnd    string
	fetchExport bool
	fetchJSON   bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "Start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "End date (YYYY-MM-DD)")
	fetchCmd.Flags().BoolVar(&fetchExport, "export", false, "save the results as an xlsx workbook")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print results as JSON")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	start, err := core.ParseDate(fetchStart)
	if err != nil {
		return fmt.Errorf("--start: %s", core.UserMessage(err))
	}
	end, err := core.ParseDate(fetchEnd)
	if err != nil {
		return fmt.Errorf("--end: %s", core.UserMessage(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newClient(cfg, log)
	log.Debug("fetching signals",
		zap.String("upstream", client.BaseURL()),
		zap.String("start", start.String()),
		zap.String("end", end.String()),
	)

	s := session.New(client, log)
	results, err := s.FetchRange(ctx, core.DateRange{Start: start, End: end})
	if err != nil {
		log.Debug("fetch failed", zap.Error(err))
		return fmt.Errorf("%s", core.UserMessage(err))
	}

	out := cmd.OutOrStdout()
	if fetchJSON {
		if err := printJSON(out, results); err != nil {
			return err
		}
	} else {
		printTable(out, results)
	}

	if !fetchExport {
		return nil
	}
	if len(results) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No signals in range, nothing to export.")
		return nil
	}

	data, filename, err := s.Export()
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	store, err := openArchive(cfg)
	if err != nil {
		return err
	}
	replaced, err := saveExport(ctx, store, filename, data)
	if err != nil {
		return err
	}

	log.Info("export saved",
		zap.String("filename", filename),
		zap.String("archive", archiveLocation(cfg, store)),
		zap.Int("bytes", len(data)),
		zap.Bool("replaced", replaced),
	)
	fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d signals to %s\n", len(results), filename)
	return nil
}

// saveExport writes data under filename and reports whether an earlier
// export of the same range was overwritten.
func saveExport(ctx context.Context, store archive.Storage, filename string, data []byte) (bool, error) {
	existed, err := store.Exists(ctx, filename)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", filename, core.WrapError(core.ErrArchiveFailed, err))
	}
	if err := store.Write(ctx, filename, data); err != nil {
		return false, fmt.Errorf("saving %s: %w", filename, core.WrapError(core.ErrArchiveFailed, err))
	}
	return existed, nil
}

// printTable writes results with one column per display field.
func printTable(out io.Writer, results core.QueryResult) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No signals found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	headers := make([]string, 0, len(core.Columns))
	for _, col := range core.Columns {
		headers = append(headers, strings.ToUpper(col.Header))
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, rec := range results {
		cells := make([]string, 0, len(core.Columns))
		for _, col := range core.Columns {
			cells = append(cells, rec.Display(col.Field))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d signals\n", len(results))
}

func printJSON(out io.Writer, results core.QueryResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"results": results})
}
