package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/eloquacloud/eloqua-sdk-go/eloqua"
)

var (
	verbose bool
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "eloquactl",
	Short: "Explore and export Eloqua data through the Bulk API",
	Long: `eloquactl drives the Eloqua Bulk 2.0 API from the command line:
listing an instance's field catalogs and shared lists, and running full
export jobs.

Credentials are read from ELOQUA_COMPANY, ELOQUA_USER, and
ELOQUA_PASSWORD, with ELOQUA_BASE_URL optionally pinning the instance.
A .env file in the working directory is loaded when present.`,
	Example: `  $ eloquactl fields contacts
  $ eloquactl lists contacts --search "Hot"
  $ eloquactl export contacts --field C_EmailAddress --field C_FirstName --list "Hot Leads"`,

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and retries")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load credentials from this file instead of .env")
	rootCmd.AddCommand(fieldsCmd, listsCmd, exportCmd, versionCmd)
}

// Execute runs the root command until completion or interrupt.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newClient builds a connected client from the environment.
func newClient(cmd *cobra.Command) (*eloqua.Client, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var opts []eloqua.Option
	if verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, eloqua.WithLogger(eloqua.LoggerFunc(zl.Sugar().Debugw)))
	}

	client, err := eloqua.NewClientFromEnv(opts...)
	if err != nil {
		return nil, err
	}
	if !client.Connected() {
		if err := client.Connect(cmd.Context()); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}

// outputFormat is a flag value constrained to the formats the commands
// can render.
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatCSV   outputFormat = "csv"
)

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(v string) error {
	switch outputFormat(v) {
	case formatTable, formatJSON, formatCSV:
		*f = outputFormat(v)
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json, or csv)", v)
}

func (f *outputFormat) Type() string { return "format" }
