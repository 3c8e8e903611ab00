// Command halyard-admin is the operator CLI for the Central database:
// schema migrations and authorized-org allow-list management.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/halyard-dev/halyard/config"
	"github.com/halyard-dev/halyard/internal/bootstrap"
	"github.com/halyard-dev/halyard/internal/data"
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
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Apply pending database migrations",
			run:         runMigrate,
		},
		"org-list": {
			name:        "org-list",
			description: "List authorized organizations",
			run:         runOrgList,
		},
		"org-add": {
			name:        "org-add",
			description: "Authorize an organization for zones and domain patterns",
			run:         runOrgAdd,
		},
		"org-update": {
			name:        "org-update",
			description: "Replace an organization's zones, domain patterns, or enabled flag",
			run:         runOrgUpdate,
		},
		"org-remove": {
			name:        "org-remove",
			description: "Remove an organization from the allow list",
			run:         runOrgRemove,
		},
		"workers": {
			name:        "workers",
			description: "List worker endpoints and when each was last seen",
			run:         runWorkers,
		},
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: halyard-admin <command> [flags]")
	fmt.Fprintln(os.Stderr)

	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%s\n", name, cmds[name].description)
	}
	_ = w.Flush()
}

func connect(ctx *commandContext) (*sql.DB, error) {
	return bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: ctx.Config.Postgres,
		Logger:   ctx.Logger,
	})
}

func runMigrate(ctx *commandContext, _ []string) error {
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx.Ctx, defaultMigrationTimeout)
	defer cancel()

	return bootstrap.RunMigrations(migrateCtx, db, ctx.Logger)
}

func runOrgList(ctx *commandContext, _ []string) error {
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	orgs, err := data.NewAuthorizedOrgRepo(db).List(ctx.Ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORG\tENABLED\tZONES\tDOMAIN PATTERNS")
	for _, org := range orgs {
		fmt.Fprintf(w, "%s\t%t\t%s\t%s\n",
			org.GitHubOrg,
			org.Enabled,
			strings.Join(org.Zones, ","),
			strings.Join(org.DomainPatterns, ","),
		)
	}
	return w.Flush()
}

func orgFlags(name string) (*flag.FlagSet, *string, *string, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	zones := fs.String("zones", "", "comma-separated zones the org may deploy to")
	domains := fs.String("domains", "", "comma-separated domain patterns, e.g. '*.example.com'")
	enabled := fs.Bool("enabled", true, "whether the org is enabled")
	return fs, zones, domains, enabled
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func runOrgAdd(ctx *commandContext, args []string) error {
	fs, zones, domains, enabled := orgFlags("org-add")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: halyard-admin org-add [flags] <github-org>")
	}

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	org, err := data.NewAuthorizedOrgRepo(db).Create(ctx.Ctx, data.AuthorizedOrgParams{
		GitHubOrg:      fs.Arg(0),
		Zones:          splitList(*zones),
		DomainPatterns: splitList(*domains),
		Enabled:        *enabled,
	})
	if err != nil {
		return err
	}

	ctx.Logger.Info("organization authorized", "org", org.GitHubOrg, "zones", org.Zones)
	return nil
}

func runOrgUpdate(ctx *commandContext, args []string) error {
	fs, zones, domains, enabled := orgFlags("org-update")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: halyard-admin org-update [flags] <github-org>")
	}

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	org, err := data.NewAuthorizedOrgRepo(db).Update(ctx.Ctx, fs.Arg(0), data.AuthorizedOrgParams{
		GitHubOrg:      fs.Arg(0),
		Zones:          splitList(*zones),
		DomainPatterns: splitList(*domains),
		Enabled:        *enabled,
	})
	if err != nil {
		return err
	}

	ctx.Logger.Info("organization updated", "org", org.GitHubOrg, "enabled", org.Enabled)
	return nil
}

func runOrgRemove(ctx *commandContext, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: halyard-admin org-remove <github-org>")
	}

	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := data.NewAuthorizedOrgRepo(db).Delete(ctx.Ctx, args[0]); err != nil {
		return err
	}

	ctx.Logger.Info("organization removed", "org", args[0])
	return nil
}

func runWorkers(ctx *commandContext, _ []string) error {
	db, err := connect(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	workers, err := data.NewWorkerRepo(db).ListEnabled(ctx.Ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ZONE\tENDPOINT\tLAST SEEN")
	for _, worker := range workers {
		lastSeen := "never"
		if worker.LastSeen != nil {
			lastSeen = worker.LastSeen.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", worker.Zone, worker.Endpoint, lastSeen)
	}
	return w.Flush()
}
