package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/hbs/internal/scan"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
	stdout  io.Writer
	stderr  io.Writer
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version, stdout: os.Stdout, stderr: os.Stderr}
}

// options is everything the command line and configuration decide.
type options struct {
	scan       scan.Options
	paths      []string
	verbose    bool
	dump       bool
	tree       bool
	command    string
	commandExt string
	background bool
	output     string
	debug      bool
	logLevel   string
	config     string
}

// usageError marks malformed command-line input.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func help(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, heredoc.Doc(`
		hbs: How Big Search reports how many files match and how big they are.

		Usage:

			hbs [flags] [path...]

		Positional Arguments:
		  path    One or more start paths, anywhere on the command line. Each is
		          searched separately and all totals are added together.
		          Defaults to the current directory.

		Type masks are applied in order: '-N -L' counts symbolic links only.
		Directories are counted on the type masks alone; every other entry must
		also pass the filter and the mode tests.

		The display flags -p, -u, -g and -t are ignored unless -v or -d is used.

		Examples:

		  hbs -f '*.c'                      count '.c' files here
		  hbs -rv -f '*.o' /usr/local/src   list all '.o' files below a tree
		  hbs -Y -r                         everything but directories, recursively
		  hbs -r -f '*.o' ~/src -c rm       remove every '.o' file found
		  hbs -NL /usr/lib -v               symbolic links only (add -l for target sizes)

		Flags:
	`))
	fmt.Fprint(out, cmd.Flags().FlagUsages())
}

//nolint:funlen // Flag table.
func (c CLI) command() *cobra.Command {
	var opts options

	config := viper.New()

	cmd := &cobra.Command{
		Use:           "hbs [flags] [path...]",
		Short:         "How Big Search: count and size files matching a filter",
		Version:       c.version,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(config, opts.config); err != nil {
				return err
			}

			applyConfig(config, &opts)

			opts.paths = args

			return logic(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetOut(c.stdout)
	cmd.SetErr(c.stderr)
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) { help(cmd) })
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err: err}
	})

	cmd.SetGlobalNormalizationFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	flags := cmd.Flags()
	flags.SortFlags = false

	skip := &opts.scan.Skip

	maskFlag(flags, skip, "all-types", "A", scan.AllKinds, false, "Count all file types (default)")
	maskFlag(flags, skip, "no-types", "N", scan.AllKinds, true, "Don't count any file types")
	maskFlag(flags, skip, "sym-link", "L", scan.KindsOf(scan.KindSymlink), false, "Count symbolic links (as files: see -l)")
	maskFlag(flags, skip, "no-sym-link", "K", scan.KindsOf(scan.KindSymlink), true, "Don't count symbolic links")
	maskFlag(flags, skip, "regular-file", "R", scan.KindsOf(scan.KindRegular), false, "Count regular files")
	maskFlag(flags, skip, "no-regular-file", "E", scan.KindsOf(scan.KindRegular), true, "Don't count regular files")
	maskFlag(flags, skip, "directory", "D", scan.KindsOf(scan.KindDir), false, "Count directories")
	maskFlag(flags, skip, "no-directory", "Y", scan.KindsOf(scan.KindDir), true, "Don't count directories")
	maskFlag(flags, skip, "char-device", "C", scan.KindsOf(scan.KindCharDevice), false, "Count character devices")
	maskFlag(flags, skip, "no-char-device", "V", scan.KindsOf(scan.KindCharDevice), true, "Don't count character devices")
	maskFlag(flags, skip, "block-device", "B", scan.KindsOf(scan.KindBlockDevice), false, "Count block devices")
	maskFlag(flags, skip, "no-block-device", "O", scan.KindsOf(scan.KindBlockDevice), true, "Don't count block devices")
	maskFlag(flags, skip, "fifo", "F", scan.KindsOf(scan.KindFIFO), false, "Count fifo files")
	maskFlag(flags, skip, "no-fifo", "I", scan.KindsOf(scan.KindFIFO), true, "Don't count fifo files")
	maskFlag(flags, skip, "socket", "S", scan.KindsOf(scan.KindSocket), false, "Count sockets")
	maskFlag(flags, skip, "no-socket", "T", scan.KindsOf(scan.KindSocket), true, "Don't count sockets")

	flags.StringVarP(&opts.scan.Pattern, "filter", "f", "", "Count files whose name matches the glob (e.g. '*.c')")
	flags.VarP(&modeValue{test: &opts.scan.AndMode}, "and-mode", "j", "Count files exactly matching octal mode bits")
	flags.VarP(&modeValue{test: &opts.scan.OrMode}, "or-mode", "i", "Count files matching any octal mode bits")
	flags.VarP(&modeValue{test: &opts.scan.XorMode}, "xor-mode", "x", "Count files matching octal mode bits")

	flags.StringVarP(&opts.command, "cmd-mode", "c", "", "Execute the command on every counted file (Cmd file)")
	flags.StringVarP(&opts.commandExt, "cmd-ext", "e", "", "Extension for cmd-mode (Cmd file.old <cwd>/file.Ext)")
	flags.BoolVarP(&opts.background, "background", "b", false, "Execute the command in the background")

	flags.BoolVarP(&opts.scan.Recursive, "recursive", "r", false, "Recurse into subdirectories")
	flags.BoolVarP(&opts.scan.FollowLinks, "follow-links", "l", false, "Count link targets instead of links (no loop checks)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Display each file counted and each command executed")
	flags.BoolVarP(&opts.dump, "dump", "d", false, "Dump the path of each file counted (verbose without sizes)")
	flags.BoolVarP(&opts.tree, "tree", "t", false, "Display each file in a tree format")
	flags.BoolVarP(&opts.scan.ShowPerms, "permissions", "p", false, "Show file permissions")
	flags.BoolVarP(&opts.scan.ShowUID, "user-id", "u", false, "Show the owner's user id")
	flags.BoolVarP(&opts.scan.ShowGID, "group-id", "g", false, "Show the owner's group id")

	flags.StringVarP(&opts.output, "output", "o", "text", "Summary format: text or json")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug output")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.config, "config", "", "Config file (default $HOME/.config/hbs/config.yaml)")
	flags.BoolP("help", "h", false, "Show this display")

	bindConfig(config, flags)

	return cmd
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.run(os.Args[1:])
}

// run executes the command for args. Malformed input prints a diagnostic
// and a hint but is not an error.
func (c CLI) run(args []string) error {
	if args == nil {
		args = []string{}
	}

	cmd := c.command()
	cmd.SetArgs(args)

	err := cmd.Execute()

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintln(c.stderr, usage.Error())
		fmt.Fprintln(c.stdout, "Try --help or -h for a list of valid options.")

		return nil
	}

	return err
}

// configKeys are the flags a config file or HBS_* variable may preset.
var configKeys = []string{ //nolint:gochecknoglobals // Config constant
	"filter",
	"recursive",
	"follow-links",
	"verbose",
	"dump",
	"tree",
	"permissions",
	"user-id",
	"group-id",
	"background",
	"output",
	"debug",
	"log-level",
}

func bindConfig(config *viper.Viper, flags *pflag.FlagSet) {
	for _, key := range configKeys {
		_ = config.BindPFlag(key, flags.Lookup(key))
	}

	config.SetEnvPrefix("HBS")
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	config.AutomaticEnv()
}

// loadConfig reads the config file. A missing default file is fine, a
// missing explicit one is not.
func loadConfig(config *viper.Viper, file string) error {
	if file != "" {
		config.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			config.AddConfigPath(filepath.Join(home, ".config", "hbs"))
		}

		config.SetConfigName("config")
		config.SetConfigType("yaml")
	}

	if err := config.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}

// applyConfig copies the layered values back into opts; explicit flags
// win over the environment, which wins over the file.
func applyConfig(config *viper.Viper, opts *options) {
	opts.scan.Pattern = config.GetString("filter")
	opts.scan.Recursive = config.GetBool("recursive")
	opts.scan.FollowLinks = config.GetBool("follow-links")
	opts.verbose = config.GetBool("verbose")
	opts.dump = config.GetBool("dump")
	opts.tree = config.GetBool("tree")
	opts.scan.ShowPerms = config.GetBool("permissions")
	opts.scan.ShowUID = config.GetBool("user-id")
	opts.scan.ShowGID = config.GetBool("group-id")
	opts.background = config.GetBool("background")
	opts.output = config.GetString("output")
	opts.debug = config.GetBool("debug")
	opts.logLevel = config.GetString("log-level")

	opts.scan.Display = scan.ResolveDisplay(opts.verbose, opts.dump, opts.tree)
}
