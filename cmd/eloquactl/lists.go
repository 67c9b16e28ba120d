package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eloquacloud/eloqua-sdk-go/eloqua/bulk"
)

var (
	listsSearch string
	listsFormat = formatTable
)

var listsCmd = &cobra.Command{
	Use:   "lists <object>",
	Short: "List the shared lists for an object",
	Long: `lists prints the shared lists defined for an object kind, usually
contacts or accounts. The statement column is the markup export filters
reference a list by.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		lists, err := client.Bulk().ListLists(cmd.Context(), bulk.Object(args[0]), listsSearch)
		if err != nil {
			return err
		}

		if listsFormat == formatJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(lists)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tCOUNT\tSTATEMENT\tURI")
		for _, l := range lists {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", l.Name, l.Count, l.Statement, l.URI)
		}
		return w.Flush()
	},
}

func init() {
	listsCmd.Flags().StringVar(&listsSearch, "search", "", "narrow by list name, spaces match anything")
	listsCmd.Flags().Var(&listsFormat, "format", "output format: table or json")
}
