package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/corpvoice/corpvoice/internal/llm"
	"github.com/corpvoice/corpvoice/internal/pipeline"
	"github.com/corpvoice/corpvoice/internal/render"
	"github.com/corpvoice/corpvoice/internal/schema"
	"github.com/corpvoice/corpvoice/internal/shell"
	"github.com/corpvoice/corpvoice/internal/store"
)

// rootOptions are shared by all subcommands.
type rootOptions struct {
	configDir string
	provider  string
	model     string
	logLevel  string
}

func main() {
	// API keys commonly live in a .env file next to the configs; absence is
	// fine, the environment may carry them directly.
	_ = godotenv.Load()

	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "corpvoice",
		Short:         "Template-grounded corporate response generation with deviation scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", ".", "directory holding the JSON configuration documents")
	root.PersistentFlags().StringVar(&opts.provider, "provider", "openai", "generation provider (openai, anthropic, google)")
	root.PersistentFlags().StringVar(&opts.model, "model", llm.DefaultModel, "model identifier")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newGenerateCmd(opts))
	root.AddCommand(newTemplatesCmd(opts))
	root.AddCommand(newDepartmentsCmd(opts))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Logging is diagnostic only; user
// output goes to stdout through the shell and renderers.
func newLogger(levelStr string) *zap.Logger {
	level := zapcore.WarnLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "error":
		level = zapcore.ErrorLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildPipeline wires the store, generation client, and pipeline. A missing
// API credential fails here, before any request-specific work.
func buildPipeline(opts *rootOptions, log *zap.Logger) (*store.Store, *pipeline.Pipeline, error) {
	s := store.New(opts.configDir, log)
	client, err := llm.NewClient(opts.provider, opts.model, log)
	if err != nil {
		return nil, nil, err
	}
	return s, pipeline.New(s, client, log), nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Interactively generate one corporate response",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(opts.logLevel)
			defer func() { _ = log.Sync() }()

			s, p, err := buildPipeline(opts, log)
			if err != nil {
				return err
			}
			sh := shell.New(cmd.InOrStdin(), cmd.OutOrStdout(), s, p, log)
			return sh.Run(cmd.Context())
		},
	}
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		templateKey string
		inquiry     string
		tol         string
		department  string
		fieldFlags  []string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one response non-interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(opts.logLevel)
			defer func() { _ = log.Sync() }()

			s, p, err := buildPipeline(opts, log)
			if err != nil {
				return err
			}

			customerData, err := parseFields(fieldFlags)
			if err != nil {
				return err
			}
			companyInfo, err := s.DepartmentInfo(department)
			if err != nil {
				return err
			}

			result, err := p.Generate(cmd.Context(), schema.Request{
				TemplateKey:  templateKey,
				Inquiry:      inquiry,
				CustomerData: customerData,
				CompanyInfo:  companyInfo,
				Tolerance:    tol,
			})
			if err != nil {
				return err
			}

			if asJSON {
				b, err := render.RenderJSON(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), render.RenderText(result, companyInfo))
			return nil
		},
	}

	cmd.Flags().StringVar(&templateKey, "template", "", "template key (e.g. policy_cancellation_response)")
	cmd.Flags().StringVar(&inquiry, "inquiry", "", "customer inquiry text")
	cmd.Flags().StringVar(&tol, "tolerance", "minimal", "deviation tolerance (strict, minimal, moderate, flexible)")
	cmd.Flags().StringVar(&department, "department", "customer_service", "department profile to sign with")
	cmd.Flags().StringArrayVar(&fieldFlags, "field", nil, "customer data field as key=value (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result record as JSON")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("inquiry")

	return cmd
}

func newTemplatesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available response templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.New(opts.configDir, newLogger(opts.logLevel))
			keys, err := s.TemplateKeys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				prompt, err := s.TemplatePrompt(k)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, prompt)
				if fields := store.RequiredFields(k); len(fields) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "\tfields: %s\n", strings.Join(fields, ", "))
				}
			}
			return nil
		},
	}
}

func newDepartmentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List configured departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := store.New(opts.configDir, newLogger(opts.logLevel))
			depts, err := s.Departments()
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(depts))
			for k := range depts {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", k, depts[k])
			}
			return nil
		},
	}
}

// parseFields turns repeated key=value flags into a field map.
func parseFields(flags []string) (map[string]string, error) {
	fields := make(map[string]string, len(flags))
	for _, f := range flags {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q, want key=value", f)
		}
		fields[key] = value
	}
	return fields, nil
}
