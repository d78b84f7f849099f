// Package cmd implements the htmlview CLI commands.
//
// The command structure follows a root command that dispatches to
// subcommands (render, config).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/htmlview/pkg/blockengine"
	"github.com/go-drift/htmlview/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

var rootCmd = &Command{
	Name:  "htmlview",
	Short: "htmlview - render markup documents to pixels",
	Long: `htmlview lays out and paints markup documents through the view
controller, the same way an embedding host does, and writes the result
as a PNG image.

Use "htmlview <command> --help" for more information about a command.`,
	Usage: "htmlview <command> [flags]",
}

// Commands registered with the CLI, in registration order.
var (
	commands    = make(map[string]*Command)
	subCommands []*Command
)

// Output streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// globals holds the parsed global flags.
type globals struct {
	configDir string
	verbose   bool
}

var global globals

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	subCommands = append(subCommands, cmd)
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return execute(os.Args[1:])
}

// execute runs a command, reporting a panic and returning it as an error.
func execute(args []string) (err error) {
	defer errors.RecoverWithCallback("cmd.Execute", func(r any) {
		err = fmt.Errorf("internal error: %v", r)
	})
	return run(args)
}

func run(args []string) error {
	global = globals{configDir: "."}

	if len(args) == 0 {
		printHelp()
		return nil
	}

	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp()
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(stdout, "htmlview version %s (engine %s, built %s)\n", Version, blockengine.Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--verbose":
			global.verbose = true
		case "--config-dir":
			if i+1 >= len(args) {
				return fmt.Errorf("--config-dir requires a directory path")
			}
			global.configDir = args[i+1]
			i++
		default:
			if dir, ok := strings.CutPrefix(arg, "--config-dir="); ok {
				global.configDir = dir
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp()
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp()
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// installLogHandler routes view errors to stderr.
func installLogHandler(verbose bool) {
	errors.SetHandler(&errors.LogHandler{Verbose: verbose || global.verbose, Out: stderr})
}

func printHelp() {
	fmt.Fprintln(stdout, rootCmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", rootCmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range subCommands {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  -v, --version        Show version information")
	fmt.Fprintln(stdout, "  --config-dir DIR     Directory containing htmlview.yaml (default: .)")
	fmt.Fprintln(stdout, "  --verbose            Report errors with kinds, sizes and stack traces")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  htmlview render page.html              Render page.html to page.png")
	fmt.Fprintln(stdout, "  htmlview render - --out out.png        Render markup from stdin")
	fmt.Fprintln(stdout, "  htmlview config                        Show the effective configuration")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
