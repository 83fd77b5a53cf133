package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/lockpass/cmd"
	"github.com/illarion/lockpass/internal/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// No subcommand is a no-op
	if len(os.Args) < 2 {
		printUsage()
		return
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "add":
		runAdd(ctx, os.Args[2:])
	case "update":
		runUpdate(ctx, os.Args[2:])
	case "rm", "remove":
		runRm(ctx, os.Args[2:])
	case "show":
		runShow(ctx, os.Args[2:])
	case "ls", "list":
		runList(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "gen":
		runGen(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// parseArgs parses flags that may appear before or after positional arguments
func parseArgs(fs *flag.FlagSet, args []string) []string {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional
		}
		// Parse consumed a "--" terminator; everything after it is positional
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...)
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// requireName returns the single record name argument or exits with usage
func requireName(command string, args []string) string {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s requires exactly one record name\n", command)
		fmt.Fprintf(os.Stderr, "Usage: lockpass %s <name>\n", command)
		os.Exit(1)
	}
	return args[0]
}

func runInit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	parseArgs(fs, args)

	cmd.Init(ctx)
}

func runAdd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	genShort := fs.Bool("g", false, "Generate the password instead of prompting")
	genLong := fs.Bool("auto-generate", false, "Generate the password instead of prompting")
	name := requireName("add", parseArgs(fs, args))

	cmd.Add(ctx, name, *genShort || *genLong)
}

func runUpdate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	genShort := fs.Bool("g", false, "Generate the password instead of prompting")
	genLong := fs.Bool("auto-generate", false, "Generate the password instead of prompting")
	name := requireName("update", parseArgs(fs, args))

	cmd.Update(ctx, name, *genShort || *genLong)
}

func runRm(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	names := parseArgs(fs, args)
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one record name\n")
		fmt.Fprintf(os.Stderr, "Usage: lockpass rm <name> [name...]\n")
		os.Exit(1)
	}

	cmd.Remove(ctx, names)
}

func runShow(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	noClipboard := fs.Bool("no-clipboard", false, "Print only, do not copy to clipboard")
	name := requireName("show", parseArgs(fs, args))

	cmd.Show(ctx, name, !*noClipboard)
}

func runList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	parseArgs(fs, args)

	cmd.List(ctx)
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	parseArgs(fs, args)

	cmd.Status(ctx)
}

func runGen(_ context.Context, args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	length := fs.Int("length", core.DefaultPolicy.Length, "Password length")
	parseArgs(fs, args)

	cmd.Generate(*length)
}

func runKeyring(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lockpass keyring <save|delete|status>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave(ctx)
	case "delete":
		cmd.KeyringDelete()
	case "status":
		cmd.KeyringStatus()
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: lockpass keyring <save|delete|status>")
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: lockpass completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("lockpass - Encrypted command-line password store")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lockpass <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init         Create a new store in the store directory")
	fmt.Println("  add          Add a record")
	fmt.Println("  update       Change the password of a record")
	fmt.Println("  rm, remove   Remove records")
	fmt.Println("  show         Print a record password and copy it to the clipboard")
	fmt.Println("  ls, list     List record names")
	fmt.Println("  status       Show store status (no password required)")
	fmt.Println("  gen          Generate a random password")
	fmt.Println("  keyring      Manage password in OS keyring")
	fmt.Println("  completion   Generate shell completions")
	fmt.Println("  help         Show help for a command")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Printf("  %-18s Master password (skips keyring and prompt)\n", core.EnvPassword)
	fmt.Printf("  %-18s Store directory (default: current directory)\n", cmd.EnvDir)
	fmt.Printf("  %-18s Never create a missing store (set by completions)\n", cmd.EnvNoCreate)
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  lockpass add github              # Prompt for the github password")
	fmt.Println("  lockpass add mail -g             # Store a generated password")
	fmt.Println("  lockpass show github             # Print and copy to clipboard")
	fmt.Println("  lockpass list                    # List record names")
	fmt.Println()
	fmt.Println("Use 'lockpass help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("lockpass init")
		fmt.Println()
		fmt.Println("Creates an empty store (db.dat, nonce.dat, salt.dat) in the store directory.")
		fmt.Println("Prompts for a master password twice. The password is not stored anywhere")
		fmt.Println("unless you save it with 'lockpass keyring save'.")
		fmt.Println("Other commands create the store automatically if it is missing.")
	case "add":
		fmt.Println("lockpass add [-g|--auto-generate] <name>")
		fmt.Println()
		fmt.Println("Adds a record. Fails if a record with the same name exists.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -g, --auto-generate   Generate an 8 character password instead of prompting")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  lockpass add github")
		fmt.Println("  lockpass add \"mail server\" --auto-generate")
	case "update":
		fmt.Println("lockpass update [-g|--auto-generate] <name>")
		fmt.Println()
		fmt.Println("Replaces the password of an existing record.")
		fmt.Println("Fails if no record with that name exists.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -g, --auto-generate   Generate an 8 character password instead of prompting")
	case "rm", "remove":
		fmt.Println("lockpass rm <name> [name...]")
		fmt.Println()
		fmt.Println("Removes records. Names that are not in the store are reported and skipped.")
	case "show":
		fmt.Println("lockpass show [--no-clipboard] <name>")
		fmt.Println()
		fmt.Println("Prints the password of a record and copies it to the clipboard.")
		fmt.Println("If the clipboard is unavailable only a warning is shown.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  --no-clipboard   Print only")
	case "ls", "list":
		fmt.Println("lockpass list")
		fmt.Println()
		fmt.Println("Prints record names, one per line, in the order they were stored.")
	case "status":
		fmt.Println("lockpass status")
		fmt.Println()
		fmt.Println("Shows store location, size, timestamps, vault id, keyring state")
		fmt.Println("and git integration.")
		fmt.Println()
		fmt.Println("Does not require a password.")
	case "gen":
		fmt.Println("lockpass gen [--length N]")
		fmt.Println()
		fmt.Println("Prints a random password with upper and lower case letters, digits")
		fmt.Println("and symbols. Does not touch the store.")
	case "keyring":
		fmt.Println("lockpass keyring <save|delete|status>")
		fmt.Println()
		fmt.Println("Manages the master password in the OS keyring.")
		fmt.Println("Passwords are keyed by the store's vault id.")
		fmt.Println()
		fmt.Println("Subcommands:")
		fmt.Println("  save     Verify and save the master password")
		fmt.Println("  delete   Remove the saved password")
		fmt.Println("  status   Report whether a password is saved")
	case "completion":
		fmt.Println("lockpass completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(lockpass completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(lockpass completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  lockpass completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
