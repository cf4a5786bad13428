package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/dicomanon"
	"github.com/carbocation/dicomanon/anonymize"
	"github.com/carbocation/dicomanon/compileinfo"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const envPrefix = "DICOMANON"

// newRootCommand wires flags, environment and logging around an Anonymizer.
// Logs go to logOut.
func newRootCommand(logOut io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "dicomanon --input a.dcm,b.dcm --output a_out.dcm,b_out.dcm",
		Short: "Overwrite patient-identifying fields in DICOM files",
		Long: `dicomanon replaces Patient Name, Patient ID, Patient Birth Date, Study ID
and Institution Name in each input DICOM file and writes the result to the
output at the same position in the list. Paths may be local or gs://bucket/object.

Every flag can also be set through the environment, e.g. DICOMANON_INPUT.`,
		Version:      compileinfo.Get().Short(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), v, logOut)
		},
	}

	flags := cmd.Flags()
	flags.StringP("input", "i", "", "Comma-separated list of DICOM files to anonymize.")
	flags.StringP("output", "o", "", "Comma-separated list of paths to write, one per input. An output may not be the same path as its input.")
	flags.Bool("allow-missing", false, "Insert target attributes that are absent from an input instead of failing.")
	flags.String("log-level", "info", "Log level: debug, info, warn or error.")
	flags.String("log-format", "console", "Log format: console or json.")
	flags.String("gcs-credentials", "", "Service account JSON used for gs:// paths. Defaults to application default credentials.")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	return cmd
}

func run(ctx context.Context, v *viper.Viper, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := newLogger(v.GetString("log-level"), v.GetString("log-format"), logOut)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger = logger.With(zap.String("run_id", uuid.New().String()))
	logger.Debug(compileinfo.Get().String())

	input, output := v.GetString("input"), v.GetString("output")
	if input == "" || output == "" {
		return &anonymize.ArgumentError{Msg: "both --input and --output are required"}
	}

	pairs, err := anonymize.ParsePairs(input, output)
	if err != nil {
		return err
	}

	client, err := maybeStorageClient(ctx, v.GetString("gcs-credentials"), pairs)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}

	a := anonymize.New(logger, anonymize.NewClockSeededStudyIDGenerator(), anonymize.Options{
		AllowMissing:  v.GetBool("allow-missing"),
		StorageClient: client,
	})

	done, err := a.Run(ctx, pairs)
	if err != nil {
		logger.Error("aborted", zap.Int("completed", done), zap.Int("total", len(pairs)), zap.Error(err))
		return err
	}

	logger.Info("finished", zap.Int("completed", done))

	return nil
}

// maybeStorageClient returns nil unless some path lives in google storage.
func maybeStorageClient(ctx context.Context, credentials string, pairs []anonymize.Pair) (*storage.Client, error) {
	paths := make([]string, 0, 2*len(pairs))
	for _, pair := range pairs {
		paths = append(paths, pair.Input, pair.Output)
	}

	if !dicomanon.NeedsGoogleStorage(paths...) {
		return nil, nil
	}

	var opts []option.ClientOption
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(dicomanon.ExpandHome(credentials)))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("could not create google storage client: %w", err)
	}

	return client, nil
}
