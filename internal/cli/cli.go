// Package cli is the command-line entry point: the interactive TUI plus a
// handful of one-shot subcommands against the same backend.
package cli

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"nexus-cli/internal/auth"
	"nexus-cli/internal/backend"
	"nexus-cli/internal/chat"
	"nexus-cli/internal/config"
	"nexus-cli/internal/domain"
	"nexus-cli/internal/files"
	"nexus-cli/internal/sessions"
	"nexus-cli/internal/utils"
)

func Run() int {
	if len(os.Args) < 2 {
		return runTUI(os.Args[1:])
	}

	cmd := os.Args[1]
	if strings.HasPrefix(cmd, "-") {
		return runTUI(os.Args[1:])
	}
	switch cmd {
	case "send":
		return runSend(os.Args[2:])
	case "upload":
		return runUpload(os.Args[2:])
	case "sessions":
		return runSessions(os.Args[2:])
	case "create":
		return runCreate(os.Args[2:])
	case "delete":
		return runDelete(os.Args[2:])
	case "tui":
		return runTUI(os.Args[2:])
	default:
		usage()
		return 1
	}
}

func usage() {
	fmt.Println("nexus <command> [options]")
	fmt.Println("Commands: send, upload, sessions, create, delete, tui")
}

// commonFlags registers the flags shared by every subcommand.
func commonFlags(fs *flag.FlagSet) (backendURL, email, token *string, verbose *bool) {
	backendURL = fs.String("backend", "", "backend base URL (default from NEXUS_BACKEND_URL)")
	email = fs.String("email", "", "account email")
	token = fs.String("token", "", "bearer token")
	verbose = fs.Bool("verbose", false, "debug logging")
	return
}

// loadConfig merges the environment config with flag overrides.
func loadConfig(backendURL, email, token string, verbose bool) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if email != "" {
		cfg.Email = email
	}
	if token != "" {
		cfg.Token = token
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// buildStack assembles the shared component graph for one invocation.
func buildStack(cfg config.Config, logger *utils.Logger) (*auth.Context, *chat.Orchestrator, *sessions.Bridge) {
	authCtx := auth.Login(auth.Principal{Email: cfg.Email}, auth.NewStaticTokenSource(cfg.Token))
	client := backend.NewClient(cfg.BackendURL, authCtx, cfg.RequestTimeout, logger)
	orch := chat.NewOrchestrator(chat.NewStore(), chat.NewIdentity(), client, authCtx, logger)
	bridge := sessions.NewBridge(client, orch, logger)
	return authCtx, orch, bridge
}

func runSend(args []string) int {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	backendURL, email, token, verbose := commonFlags(fs)
	sessionID := fs.String("session", "", "continue an existing session")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Println("usage: nexus send [options] \"message\"")
		return 1
	}

	cfg, err := loadConfig(*backendURL, *email, *token, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	logger := utils.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	_, orch, _ := buildStack(cfg, logger)
	if *sessionID != "" {
		orch.Tracker().Select(*sessionID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if _, err := orch.SubmitText(ctx, strings.Join(fs.Args(), " ")); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	printTranscript(orch)
	return 0
}

func runUpload(args []string) int {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	backendURL, email, token, verbose := commonFlags(fs)
	sessionID := fs.String("session", "", "continue an existing session")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Println("usage: nexus upload [options] <path>")
		return 1
	}
	path := fs.Arg(0)

	cfg, err := loadConfig(*backendURL, *email, *token, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	logger := utils.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	_, orch, _ := buildStack(cfg, logger)
	if *sessionID != "" {
		orch.Tracker().Select(*sessionID)
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", path, err)
		return 1
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to stat %s: %v\n", path, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	up := files.Upload{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Reader:      f,
	}
	if _, err := orch.SubmitFile(ctx, up); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	printTranscript(orch)
	return 0
}

func runSessions(args []string) int {
	fs := flag.NewFlagSet("sessions", flag.ContinueOnError)
	backendURL, email, token, verbose := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := loadConfig(*backendURL, *email, *token, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	logger := utils.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	_, _, bridge := buildStack(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if err := bridge.Refresh(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	for _, s := range bridge.Sessions() {
		fmt.Printf("%s  %-10s  %s  %s\n", s.ID, s.Domain, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Title)
	}
	return 0
}

func runCreate(args []string) int {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	backendURL, email, token, verbose := commonFlags(fs)
	dom := fs.String("domain", "", "initial domain classification")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := loadConfig(*backendURL, *email, *token, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	logger := utils.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	_, _, bridge := buildStack(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	created, err := bridge.Create(ctx, strings.Join(fs.Args(), " "), domain.FromString(*dom))
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	fmt.Printf("created session %s  %s\n", created.ID, created.Title)
	return 0
}

func runDelete(args []string) int {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	backendURL, email, token, verbose := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Println("usage: nexus delete [options] <session-id>")
		return 1
	}

	cfg, err := loadConfig(*backendURL, *email, *token, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	logger := utils.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	_, _, bridge := buildStack(cfg, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	if err := bridge.Delete(ctx, fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return 1
	}
	fmt.Println("session deleted")
	return 0
}

// printTranscript dumps the conversation accumulated during a one-shot run.
func printTranscript(orch *chat.Orchestrator) {
	for _, msg := range orch.Store().Messages() {
		switch msg.Role {
		case chat.RoleUser:
			fmt.Printf("> %s\n", msg.Content)
		case chat.RoleSystem:
			fmt.Printf("  %s\n", msg.Content)
		case chat.RoleAssistant:
			fmt.Println(msg.Content)
			if msg.Meta.Kind != chat.MetadataNone && msg.Meta.Agent.Agent != "" {
				fmt.Printf("  [%s]\n", msg.Meta.Agent.Agent)
			}
		}
	}
	if id := orch.Tracker().Active(); id != "" {
		fmt.Printf("session: %s\n", id)
	}
}
