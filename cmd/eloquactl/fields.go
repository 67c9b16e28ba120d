package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eloquacloud/eloqua-sdk-go/eloqua/bulk"
)

var (
	fieldsParent   int
	fieldsActivity string
	fieldsFormat   = formatTable
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <object>",
	Short: "List the field catalog for an object",
	Long: `fields prints the Bulk field catalog for an object kind: contacts,
accounts, customobjects, events, emailaddresses, or activities.

Custom object sets and events need --parent; activities need
--activity-type.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		var opts []bulk.JobOption
		if fieldsParent != 0 {
			opts = append(opts, bulk.WithParentID(fieldsParent))
		}
		if fieldsActivity != "" {
			opts = append(opts, bulk.WithActivityType(fieldsActivity))
		}

		fields, err := client.Bulk().ListFieldsFor(cmd.Context(), bulk.Object(args[0]), opts...)
		if err != nil {
			return err
		}

		if fieldsFormat == formatJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(fields)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tINTERNAL NAME\tTYPE\tSTATEMENT")
		for _, f := range fields {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name, f.InternalName, f.DataType, f.Statement)
		}
		return w.Flush()
	},
}

func init() {
	fieldsCmd.Flags().IntVar(&fieldsParent, "parent", 0, "parent definition id for customobjects and events")
	fieldsCmd.Flags().StringVar(&fieldsActivity, "activity-type", "",
		"activity type ("+strings.Join(bulk.ActivityTypes(), ", ")+")")
	fieldsCmd.Flags().Var(&fieldsFormat, "format", "output format: table or json")
}
