package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"s3bridge/config"
	"s3bridge/storage/types"
)

// errOperationFailed marks a command whose storage call resolved to an
// ErrorInfo. The ErrorInfo itself has already been printed.
var errOperationFailed = errors.New("operation failed")

// globalFlags are the persistent flags shared by every subcommand. Each
// overrides its environment counterpart only when set.
type globalFlags struct {
	region          string
	accessKeyID     string
	secretAccessKey string
	endpoint        string
	pathStyle       bool
	sse             bool
	debug           bool
	logLevel        string
	metricsAddr     string
}

func (f *globalFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.region, "region", "", "AWS region (default from AWS_REGION)")
	pf.StringVar(&f.accessKeyID, "access-key-id", "", "access key id (default from AWS_ACCESS_KEY_ID)")
	pf.StringVar(&f.secretAccessKey, "secret-access-key", "", "secret access key (default from AWS_SECRET_ACCESS_KEY)")
	pf.StringVar(&f.endpoint, "endpoint", "", "custom S3 endpoint URL for S3-compatible stores")
	pf.BoolVar(&f.pathStyle, "path-style", false, "address buckets by path instead of virtual host")
	pf.BoolVar(&f.sse, "sse", false, "request AES256 server-side encryption on upload")
	pf.BoolVar(&f.debug, "debug", false, "log every request and response")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address while the command runs")
}

func (f *globalFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("region") {
		cfg.Storage.S3.Region = f.region
	}
	if flags.Changed("access-key-id") {
		cfg.Storage.S3.AccessKeyID = f.accessKeyID
	}
	if flags.Changed("secret-access-key") {
		cfg.Storage.S3.SecretAccessKey = f.secretAccessKey
	}
	if flags.Changed("endpoint") {
		cfg.Storage.S3.Endpoint = f.endpoint
	}
	if flags.Changed("path-style") {
		cfg.Storage.S3.UsePathStyle = f.pathStyle
	}
	if flags.Changed("sse") {
		cfg.Storage.S3.ServerSideEncryption = f.sse
	}
	if flags.Changed("debug") {
		cfg.Storage.S3.Debug = f.debug
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("metrics-addr") {
		cfg.Observability.MetricsAddr = f.metricsAddr
	}
}

type objectFunc func(ctx context.Context, app *Application, ref types.ObjectRef) error

func newRootCommand(std streams, ov overrides) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "s3bridge",
		Short:         "Check, inspect, download and upload S3 objects.",
		Long:          `s3bridge runs a single S3 object operation and prints its outcome as JSON: {"ok":true,"value":...} on success or {"ok":false,"error":...} on failure.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(std.in)
	root.SetOut(std.out)
	root.SetErr(std.err)
	flags.register(root)

	// withObject builds the application for one invocation and hands the
	// parsed bucket and key to fn.
	withObject := func(fn objectFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfiguration(cmd, flags)
			if err != nil {
				return err
			}

			app := buildApplication(cfg, std, ov)
			defer app.Close()

			ref := types.ObjectRef{Bucket: args[0], Key: args[1]}
			return app.execute(cmd.Context(), func(ctx context.Context) error {
				return fn(ctx, app, ref)
			})
		}
	}

	root.AddCommand(
		newExistsCommand(std, withObject),
		newPropertiesCommand(std, withObject),
		newGetCommand(std, withObject),
		newPutCommand(std, withObject),
	)
	return root
}

func newExistsCommand(std streams, withObject func(objectFunc) func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <bucket> <key>",
		Short: "Report whether an object exists.",
		Long:  `Exists probes the object with a HEAD request. A missing object is a successful result with "exists": false; any other failure is reported as an error.`,
		Args:  cobra.ExactArgs(2),
		RunE: withObject(func(ctx context.Context, app *Application, ref types.ObjectRef) error {
			outcome, err := app.invoker.CheckExists(ctx, app.cfg.StoreConfig(), ref).Await(ctx)
			if err != nil {
				return err
			}
			return report(std.out, outcome)
		}),
	}
}

func newPropertiesCommand(std streams, withObject func(objectFunc) func(*cobra.Command, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   "properties <bucket> <key>",
		Short: "Print object metadata.",
		Args:  cobra.ExactArgs(2),
		RunE: withObject(func(ctx context.Context, app *Application, ref types.ObjectRef) error {
			outcome, err := app.invoker.GetProperties(ctx, app.cfg.StoreConfig(), ref).Await(ctx)
			if err != nil {
				return err
			}
			return report(std.out, outcome)
		}),
	}
}

func newGetCommand(std streams, withObject func(objectFunc) func(*cobra.Command, []string) error) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "get <bucket> <key>",
		Short: "Download an object.",
		Long:  `Get downloads the object. With --out the body is written to that file and the result is printed to stdout; otherwise the body goes to stdout and the result to stderr.`,
		Args:  cobra.ExactArgs(2),
		RunE: withObject(func(ctx context.Context, app *Application, ref types.ObjectRef) error {
			outcome, err := app.invoker.GetObject(ctx, app.cfg.StoreConfig(), ref).Await(ctx)
			if err != nil {
				return err
			}

			resultOut := std.out
			if got, failure := outcome.Unwrap(); failure == nil {
				if outPath != "" {
					if err := os.WriteFile(outPath, got.Body, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", outPath, err)
					}
				} else {
					if _, err := std.out.Write(got.Body); err != nil {
						return fmt.Errorf("write body: %w", err)
					}
					resultOut = std.err
				}
			}

			return report(resultOut, types.Map(outcome, types.GetResult.Redacted))
		}),
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the object body to this file")
	return cmd
}

func newPutCommand(std streams, withObject func(objectFunc) func(*cobra.Command, []string) error) *cobra.Command {
	var inPath string

	cmd := &cobra.Command{
		Use:   "put <bucket> <key>",
		Short: "Upload an object.",
		Long:  `Put uploads the contents of --file, or stdin when no file is given. The content type is inferred from the key's extension.`,
		Args:  cobra.ExactArgs(2),
		RunE: withObject(func(ctx context.Context, app *Application, ref types.ObjectRef) error {
			body, err := readInput(inPath, std.in)
			if err != nil {
				return err
			}

			outcome, err := app.invoker.PutObject(ctx, app.cfg.StoreConfig(), ref, body).Await(ctx)
			if err != nil {
				return err
			}
			return report(std.out, outcome)
		}),
	}
	cmd.Flags().StringVarP(&inPath, "file", "f", "", "read the object body from this file instead of stdin")
	return cmd
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path != "" {
		body, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return body, nil
	}
	if stdin == nil {
		return []byte{}, nil
	}
	body, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return body, nil
}

// report prints the outcome as indented JSON and turns a failure into
// errOperationFailed.
func report[T any](w io.Writer, outcome types.Outcome[T]) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if !outcome.IsSuccess() {
		return errOperationFailed
	}
	return nil
}
