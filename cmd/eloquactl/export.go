package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/eloquacloud/eloqua-sdk-go/eloqua/bulk"
)

var (
	exportFields   []string
	exportList     string
	exportParent   int
	exportActivity string
	exportOut      string
	exportFormat   = formatCSV
	exportPoll     time.Duration
	exportTimeout  time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export <object>",
	Short: "Run a Bulk export and write the records out",
	Long: `export builds an export job, submits it, waits for the sync to
finish, and writes the records as CSV or JSON.

Without --field the whole field catalog is exported. --list narrows the
export to members of a shared list, given by name or id.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringArrayVar(&exportFields, "field", nil, "field to export, by display or internal name (repeatable)")
	exportCmd.Flags().StringVar(&exportList, "list", "", "shared list to filter on, by name or id")
	exportCmd.Flags().IntVar(&exportParent, "parent", 0, "parent definition id for customobjects and events")
	exportCmd.Flags().StringVar(&exportActivity, "activity-type", "", "activity type for activity exports")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write records to this file instead of stdout")
	exportCmd.Flags().Var(&exportFormat, "format", "output format: csv or json")
	exportCmd.Flags().DurationVar(&exportPoll, "poll", 10*time.Second, "sync status poll interval")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 30*time.Minute, "bound on the whole sync wait")
}

func runExport(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	var jobOpts []bulk.JobOption
	if exportParent != 0 {
		jobOpts = append(jobOpts, bulk.WithParentID(exportParent))
	}
	if exportActivity != "" {
		jobOpts = append(jobOpts, bulk.WithActivityType(exportActivity))
	}
	job, err := bulk.NewExport(bulk.Object(args[0]), jobOpts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc := client.Bulk()
	if err := svc.AddFields(ctx, job, exportFields...); err != nil {
		return err
	}
	if exportList != "" {
		ref := bulk.ListRef{Name: exportList}
		if id, err := strconv.Atoi(exportList); err == nil {
			ref = bulk.ListRef{ID: id}
		}
		if err := svc.FilterExistsList(ctx, job, ref); err != nil {
			return err
		}
	}

	def, err := svc.CreateDefinition(ctx, job)
	if err != nil {
		return err
	}
	defer svc.DeleteDefinition(ctx, def.URI)

	sync, err := svc.CreateSync(ctx, def.URI)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "sync %s queued\n", sync.URI)

	sync, err = svc.WaitForSync(ctx, sync.URI, bulk.WaitOptions{Interval: exportPoll, Timeout: exportTimeout})
	if err != nil {
		return err
	}
	if sync.Status != bulk.SyncSuccess {
		reportSyncLogs(cmd, svc, sync.URI)
		if sync.Status == bulk.SyncError {
			return fmt.Errorf("sync finished with status %s", sync.Status)
		}
	}

	records, err := svc.GetSyncedData(ctx, sync.URI)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%d records\n", len(records))

	out := io.Writer(os.Stdout)
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if exportFormat == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	return writeCSV(out, job, records)
}

// reportSyncLogs prints the sync's log entries to stderr.
func reportSyncLogs(cmd *cobra.Command, svc *bulk.Service, syncURI string) {
	logs, err := svc.GetSyncLogs(cmd.Context(), syncURI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not fetch sync logs: %v\n", err)
		return
	}
	for _, entry := range logs {
		fmt.Fprintf(os.Stderr, "%s %s %s\n", entry.Severity, entry.StatusCode, entry.Message)
	}
}

// writeCSV renders records with one column per job field, in the order
// the fields were added.
func writeCSV(out io.Writer, job *bulk.Job, records []bulk.Record) error {
	var header []string
	seen := make(map[string]bool)
	for _, f := range job.Fields {
		if seen[f.Name] {
			continue
		}
		seen[f.Name] = true
		header = append(header, f.Name)
	}

	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for _, rec := range records {
		for i, name := range header {
			if v, ok := rec[name]; ok && v != nil {
				row[i] = fmt.Sprint(v)
			} else {
				row[i] = ""
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
