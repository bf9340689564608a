// Package main provides the entry point for the alexa-ssml CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/alexa-ssml/internal/config"
	"github.com/dgnsrekt/alexa-ssml/internal/logging"
	"github.com/dgnsrekt/alexa-ssml/internal/markdown"
	"github.com/dgnsrekt/alexa-ssml/internal/script"
	"github.com/dgnsrekt/alexa-ssml/utils"
)

const (
	kindScript   = "script"
	kindMarkdown = "markdown"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	dialect    string
	copyOutput bool
	pretty     bool
	watch      bool
	logLevel   string

	// cfg is the effective configuration, resolved before each command runs.
	cfg       = config.DefaultConfig()
	logCloser = func() error { return nil }

	rootCmd = &cobra.Command{
		Use:   "alexa-ssml [SOURCE|DIR]",
		Short: "Render speech scripts and markdown as Alexa SSML",
		Long: paragraph(
			fmt.Sprintf("\nRender speech scripts and markdown as %s.\n\nYAML and JSON sources are read as scripts, anything else as markdown. A directory renders every *.ssml.yaml script and markdown file in it to a sibling .ssml file.", keyword("Alexa SSML")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, "", args)
		},
	}

	renderCmd = &cobra.Command{
		Use:     "render [SOURCE|DIR]",
		Short:   "Render a speech script",
		Long:    paragraph(fmt.Sprintf("\n%s a YAML or JSON speech script into SSML. Use - to read from stdin.", keyword("Render"))),
		Example: paragraph("alexa-ssml render intro.yaml\nalexa-ssml render --dialect generic intro.yaml\nalexa-ssml render --watch https://example.com/intro.yaml"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, kindScript, args)
		},
	}

	markdownCmd = &cobra.Command{
		Use:     "markdown [SOURCE|DIR]",
		Aliases: []string{"md"},
		Short:   "Convert markdown into Alexa SSML",
		Long:    paragraph(fmt.Sprintf("\n%s a markdown document into Alexa SSML. Use - to read from stdin.", keyword("Convert"))),
		Example: paragraph("alexa-ssml markdown README.md\ncat notes.md | alexa-ssml markdown\nalexa-ssml markdown docs/"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, kindMarkdown, args)
		},
	}
)

func validateOptions(cmd *cobra.Command) error {
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(utils.ExpandPath(configFile))
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	loaded, err := config.LoadConfigFromViper(nil)
	if err != nil {
		return err
	}

	// command line flags win over the file and the environment
	if cmd.Flags().Changed("dialect") {
		loaded.Dialect = dialect
	}
	if cmd.Flags().Changed("copy") {
		loaded.Copy = copyOutput
	}
	if cmd.Flags().Changed("pretty") {
		loaded.Pretty = pretty
	}
	if cmd.Flags().Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded

	closer, err := setupLog(cfg.Log)
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

func execute(cmd *cobra.Command, kind string, args []string) error {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}

	if arg == "" || arg == "-" {
		if yes, err := stdinIsPipe(); err != nil {
			return err
		} else if !yes {
			return cmd.Help()
		}
		if watch {
			return errors.New("cannot watch stdin")
		}
	}

	f, closeFetcher, err := newFetcher(cfg.Remote)
	if err != nil {
		return err
	}
	defer closeFetcher()

	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		if watch {
			return errors.New("cannot watch a directory")
		}
		return renderDir(cmd, kind, arg)
	}

	if kind == "" {
		kind = kindOf(arg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := sourceFromArg(ctx, f, arg)
	if err != nil {
		return err
	}
	defer src.reader.Close() //nolint:errcheck

	body, err := io.ReadAll(src.reader)
	if err != nil {
		return fmt.Errorf("unable to read from reader: %w", err)
	}

	if !watch {
		return renderTo(cmd, kind, src.URL, body, os.Stdout)
	}

	// keep watching after a failed render, the next save may fix it
	if err := renderTo(cmd, kind, src.URL, body, os.Stdout); err != nil {
		printError(err)
	}
	if src.remote {
		return f.Poll(ctx, src.URL, func(body []byte) error {
			return reportError(renderTo(cmd, kind, src.URL, body, os.Stdout))
		})
	}
	return watchSource(ctx, arg, func() error {
		body, err := os.ReadFile(arg)
		if err != nil {
			return reportError(err)
		}
		return reportError(renderTo(cmd, kind, src.URL, body, os.Stdout))
	})
}

func reportError(err error) error {
	if err != nil {
		printError(err)
	}
	return err
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// kindOf picks the converter for a source when no subcommand forced one.
func kindOf(path string) string {
	if utils.IsScriptFile(path) {
		return kindScript
	}
	return kindMarkdown
}

// renderTo converts body and writes the result to w.
func renderTo(cmd *cobra.Command, kind, name string, body []byte, w io.Writer) error {
	out, err := render(cmd, kind, name, body)
	if err != nil {
		return err
	}
	return writeOutput(w, out)
}

func render(cmd *cobra.Command, kind, name string, body []byte) (string, error) {
	metrics := logging.StartRender(kind, name, cfg.Dialect)
	out, fragments, err := convert(kind, body, cfg, cmd.Flags().Changed("dialect"))
	metrics.End(out, fragments, err)
	return out, err
}

// convert renders b. A dialect given on the command line overrides the
// script's own; the configured dialect only fills in a missing one.
func convert(kind string, b []byte, c config.Config, forceDialect bool) (string, int, error) {
	switch kind {
	case kindScript:
		s, err := script.ParseBytes(b)
		if err != nil {
			return "", 0, err
		}
		if forceDialect || s.Dialect == "" {
			s.Dialect = c.Dialect
		}
		out, err := script.Render(s)
		return out, len(s.Steps), err

	case kindMarkdown:
		if forceDialect && c.Dialect != config.DialectAlexa {
			return "", 0, fmt.Errorf("markdown conversion only supports the %s dialect", config.DialectAlexa)
		}
		out, err := markdown.NewConverter(markdown.OptionsFromConfig(c.Markdown)).Convert(b)
		return out, 0, err

	default:
		return "", 0, fmt.Errorf("unknown source kind %q", kind)
	}
}

func main() {
	err := rootCmd.Execute()
	_ = logCloser()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&dialect, "dialect", "d", config.DialectAlexa, "rule set: alexa or generic")
	rootCmd.PersistentFlags().BoolVarP(&copyOutput, "copy", "c", false, "also copy the output to the clipboard")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "highlight output written to a terminal")
	rootCmd.PersistentFlags().BoolVarP(&watch, "watch", "w", false, "render again whenever the source changes")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(renderCmd, markdownCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, logging.AppName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, logging.AppName)}, dirs...)
	}

	if c := os.Getenv("ALEXA_SSML_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName(logging.AppName)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], logging.AppName+".yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
