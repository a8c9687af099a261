package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/group38/ojweb/config"
	"github.com/group38/ojweb/internal/adapters/ojapi"
	"github.com/group38/ojweb/internal/bootstrap"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	Out    io.Writer
}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(os.Stdout); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	bootstrap.SetLogLevel(cfg.SlogLevel())

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
		Out:    os.Stdout,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"whoami": {
			name:        "whoami",
			description: "Show the judge API's current login user and gateway role",
			run:         runWhoAmI,
		},
		"schemes": {
			name:        "schemes",
			description: "List obfuscation schemes per language",
			run:         runSchemes,
		},
		"submissions": {
			name:        "submissions",
			description: "List recent submissions (fetches pages concurrently)",
			run:         runSubmissions,
		},
	}
}

func printUsage(w io.Writer) error {
	if err := writef(w, "Usage: ojweb-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(w, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(w, "  %-24s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

// apiOptions are the connection flags every command accepts.
type apiOptions struct {
	BaseURL  string
	Account  string
	Password string
}

func (o *apiOptions) register(fs *flag.FlagSet, cfg config.AppConfig) {
	fs.StringVar(&o.BaseURL, "api", cfg.API.BaseURL, "Judge API base URL (defaults to OJ_API_BASE_URL)")
	fs.StringVar(&o.Account, "account", "", "Sign in with this account before running the command")
	fs.StringVar(&o.Password, "password", "", "Password for --account (falls back to OJWEB_ADMIN_PASSWORD)")
}

// newAPIClient builds a judge API client whose cookie jar keeps the session
// across calls, signing in first when an account was given.
func newAPIClient(cctx *commandContext, opts apiOptions) (*ojapi.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	client, err := ojapi.NewClient(ojapi.Config{
		BaseURL:    strings.TrimSpace(opts.BaseURL),
		Timeout:    cctx.Config.API.Timeout,
		HTTPClient: &http.Client{Jar: jar, Timeout: cctx.Config.API.Timeout},
		Logger:     cctx.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("judge api client: %w", err)
	}

	account := strings.TrimSpace(opts.Account)
	if account == "" {
		return client, nil
	}
	password := opts.Password
	if password == "" {
		password = os.Getenv("OJWEB_ADMIN_PASSWORD")
	}
	user, _, err := client.Users().Login(cctx.Ctx, ojapi.UserLoginRequest{
		UserAccount:  account,
		UserPassword: password,
	})
	if err != nil {
		return nil, fmt.Errorf("sign in as %q: %w", account, err)
	}
	if cctx.Logger != nil {
		cctx.Logger.DebugContext(cctx.Ctx, "signed in", "user", user.UserName, "role", user.UserRole)
	}
	return client, nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	if len(args) == 0 {
		_, err := fmt.Fprintln(w)
		return err
	}
	_, err := fmt.Fprintln(w, args...)
	return err
}
