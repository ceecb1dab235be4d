package cli

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"confbot/internal/features/docstore/domain"
	"confbot/internal/features/docstore/infrastructure"
	docstore_http "confbot/internal/features/docstore/presentation/http"
	"confbot/internal/logging"
	"confbot/internal/server"
)

// Options are the command-line settings of a document server.
type Options struct {
	Port     int
	Dir      string
	LogLevel string
}

type defaults struct {
	use     string
	port    int
	dirFlag string
	dir     string
}

var kindDefaults = map[domain.Kind]defaults{
	domain.KindSchema: {use: "schema-server", port: 5001, dirFlag: "schema-dir", dir: "/data/schemas"},
	domain.KindValues: {use: "values-server", port: 5002, dirFlag: "values-dir", dir: "/data/values"},
}

// NewCommand builds the root command for the document server of kind.
func NewCommand(kind domain.Kind) *cobra.Command {
	d, ok := kindDefaults[kind]
	if !ok {
		panic(fmt.Sprintf("unknown document kind %q", kind))
	}

	opts := Options{}
	cmd := &cobra.Command{
		Use:           d.use,
		Short:         fmt.Sprintf("Serve %s documents by application name", kind),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(opts.LogLevel).With().Str("service", d.use).Logger()
			router, err := NewRouter(kind, opts, logger)
			if err != nil {
				return err
			}
			return server.Run(fmt.Sprintf(":%d", opts.Port), router, logger)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.Port, "port", d.port, "port to listen on")
	flags.StringVar(&opts.Dir, d.dirFlag, d.dir, fmt.Sprintf("directory holding <app>.%s documents", suffixHint(kind)))
	flags.StringVar(&opts.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	return cmd
}

// NewRouter validates opts and wires a router serving documents of kind.
func NewRouter(kind domain.Kind, opts Options, logger zerolog.Logger) (*gin.Engine, error) {
	if opts.Port <= 0 || opts.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", opts.Port)
	}
	info, err := os.Stat(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s directory: %w", kind, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", opts.Dir)
	}

	logger.Info().Str("dir", opts.Dir).Int("port", opts.Port).Msg("document server configured")

	router := server.NewRouter(logger)
	store := infrastructure.NewFileStore(opts.Dir, kind)
	docstore_http.NewDocumentHandler(store, kind, logger).Register(router)
	return router, nil
}

func suffixHint(kind domain.Kind) string {
	if kind == domain.KindValues {
		return "value.json"
	}
	return "schema.json"
}
