package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"checkline/internal/app"
	"checkline/internal/config"
	"checkline/internal/domain"
	"checkline/internal/facade"
	"checkline/internal/migrate"
)

var rootCmd = &cobra.Command{
	Use:   "checkline",
	Short: "Checkline CLI",
	Long: `Checkline tracks businesses through staged setup checklists.
- Business: one venture with a stage (idea, launch, growth, mature, sunset), a priority tier and a revenue posture.
- Tasks: checklist items seeded from a template catalog per business; statuses go pending -> in_progress -> completed, or skipped.
- Health: a 0-100 score per business from checklist completion, revenue, recency and open critical work, with a signal (critical, stale, attention, healthy).
- Focus: the next task across all businesses, primary tier first and least healthy first within a tier.
- Journal: every saved change is appended to a local SQLite log, view it with 'checkline history'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("no-color") {
			color.NoColor = true
		}
	},
}

var errReported = errors.New("command failed")

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "error: ")
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CHECKLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	pf := rootCmd.PersistentFlags()
	pf.StringP("workspace", "w", ".", "workspace directory")
	pf.String("config", "", "config file (default <workspace>/checkline.yml)")
	pf.String("store", "", "checklist document path (overrides config)")
	pf.String("operator", "", "operator id (overrides config)")
	pf.String("log-level", "", "log level (overrides config)")
	pf.Bool("no-journal", false, "do not open the activity journal")
	pf.Bool("json", false, "output JSON")
	pf.Bool("no-color", false, "disable colored output")
	for _, name := range []string{"workspace", "config", "store", "operator", "log-level", "no-journal", "json", "no-color"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
}

func registerCommands() {
	for _, spec := range actionCommands {
		rootCmd.AddCommand(actionCmd(spec))
	}
	rootCmd.AddCommand(execCmd())
	rootCmd.AddCommand(healthCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(configCmd())
}

// actionSpec maps a subcommand onto a facade action. The positional
// argument, when present, fills the named request field.
type actionSpec struct {
	action string
	short  string
	arg    string
}

var actionCommands = []actionSpec{
	{action: "status", short: "Show checklist progress for a business"},
	{action: "overview", short: "Rank every business by attention"},
	{action: "businesses", short: "List businesses with health"},
	{action: "focus", short: "Show the next task across all businesses"},
	{action: "next", short: "Show the next task for a business"},
	{action: "daily", short: "Generate today's stand-up"},
	{action: "list", short: "List tasks"},
	{action: "grouped", short: "Show stage progress by category"},
	{action: "summary", short: "Print the plain-text state summary"},
	{action: "detail", short: "Show a task", arg: "taskId"},
	{action: "complete", short: "Mark a task completed", arg: "taskId"},
	{action: "skip", short: "Skip a task", arg: "taskId"},
	{action: "start", short: "Mark a task in progress", arg: "taskId"},
	{action: "add", short: "Add a custom task", arg: "title"},
	{action: "add-business", short: "Add a business", arg: "businessName"},
	{action: "set-stage", short: "Move a business to a stage", arg: "stage"},
	{action: "use", short: "Set the active business", arg: "businessId"},
}

func actionCmd(spec actionSpec) *cobra.Command {
	var req facade.Command
	use := spec.action
	if spec.arg != "" {
		use += " <" + spec.arg + ">"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: spec.short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Action = spec.action
			if len(args) == 1 {
				setField(&req, spec.arg, args[0])
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return printResult(cmd.OutOrStdout(), a.Facade().Execute(ctx, req))
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.BusinessID, "business", "b", "", "business id, name or short name")
	f.StringVar(&req.Stage, "stage", "", "stage")
	switch spec.action {
	case "list":
		f.StringVar(&req.Category, "category", "", "category filter")
		f.StringVar(&req.Status, "status", "", "status filter")
		f.IntVar(&req.Limit, "limit", 0, "maximum tasks shown")
	case "add":
		f.StringVar(&req.Category, "category", "", "category (default <stage>-custom)")
		f.StringVar(&req.Description, "description", "", "description")
		f.StringVar(&req.Priority, "priority", "", "critical, high, medium or low")
		f.StringVar(&req.Notes, "notes", "", "notes")
	case "add-business":
		f.StringVar(&req.ShortName, "short-name", "", "display abbreviation")
		f.StringVar(&req.BusinessPriority, "priority", "", "primary, secondary, supporting or passive")
		f.StringVar(&req.RevenueStatus, "revenue", "", "active, pre-revenue, declining or paused")
		f.StringVar(&req.Domain, "domain", "", "domain")
	case "complete", "skip", "start":
		f.StringVar(&req.Notes, "notes", "", "notes")
	}
	return cmd
}

func setField(req *facade.Command, field, value string) {
	switch field {
	case "taskId":
		req.TaskID = value
	case "title":
		req.Title = value
	case "businessName":
		req.BusinessName = value
	case "stage":
		req.Stage = value
	case "businessId":
		req.BusinessID = value
	}
}

func execCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [request-json]",
		Short: "Run a raw facade request (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			if len(args) == 1 {
				raw = []byte(args[0])
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				raw = data
			}
			var req facade.Command
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("invalid request json: %w", err)
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return printResult(cmd.OutOrStdout(), a.Facade().Execute(ctx, req))
			})
		},
	}
	return cmd
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Score every business, worst first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Load(ctx); err != nil {
					return err
				}
				hs := a.Engine.AllBusinessHealth()
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), hs)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.AppendHeader(table.Row{"Short", "Name", "Priority", "Stage", "Score", "Signal", "Checklist", "Idle", "Critical open"})
				for _, h := range hs {
					tw.AppendRow(table.Row{h.ShortName, h.Name, h.Priority, h.Stage, h.Score, signalColor(h.Signal), fmt.Sprintf("%d%%", h.ChecklistPercent), fmt.Sprintf("%dd", h.DaysSinceActivity), h.CriticalBlocked})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func historyCmd() *cobra.Command {
	var limit int
	var business string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if a.Journal == nil {
					return errors.New("journal is disabled")
				}
				var businessID string
				if business != "" {
					if err := a.Load(ctx); err != nil {
						return err
					}
					b, ok := a.Engine.ResolveBusiness(business)
					if !ok {
						return fmt.Errorf("business %s: %w", business, domain.ErrNotFound)
					}
					businessID = b.ID
				}
				entries, err := a.Journal.Tail(ctx, limit, businessID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), entries)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(cmd.OutOrStdout())
				tw.AppendHeader(table.Row{"ID", "When", "Event", "Kind", "Entity", "Business"})
				for _, e := range entries {
					tw.AppendRow(table.Row{e.ID, e.TS.Format("2006-01-02 15:04:05"), e.Type, e.EntityKind, e.EntityID, e.BusinessID})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries")
	cmd.Flags().StringVarP(&business, "business", "b", "", "business id, name or short name")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Upgrade the stored document to the current version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				raw, err := a.Store.Read(ctx)
				if err != nil {
					return err
				}
				if raw == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "no document at", a.Store.Location())
					return nil
				}
				from, err := migrate.Version(raw)
				if err != nil {
					return err
				}
				if err := a.Load(ctx); err != nil {
					return err
				}
				if !a.Engine.Dirty() {
					fmt.Fprintf(cmd.OutOrStdout(), "document is current (v%d)\n", from)
					return nil
				}
				if err := a.Engine.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "upgraded %s from v%d to v%d\n", a.Store.Location(), from, domain.CurrentVersion)
				return nil
			})
		},
	}
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{Use: "config", Short: "Manage checkline.yml"}
	cfg.AddCommand(configInitCmd())
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default checkline.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; use --force to overwrite", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault(viper.GetString("operator"))), 0o644); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(cmd.OutOrStdout(), cfg)
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate checkline.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := viper.GetString("config")
			if path == "" {
				path = config.Path(viper.GetString("workspace"))
			}
			if _, err := config.FromFile(path); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "config ok:", path)
			return nil
		},
	}
}

// --- helpers ---

func overrides() app.Overrides {
	return app.Overrides{
		ConfigPath: viper.GetString("config"),
		StorePath:  viper.GetString("store"),
		OperatorID: viper.GetString("operator"),
		LogLevel:   viper.GetString("log-level"),
		NoJournal:  viper.GetBool("no-journal"),
	}
}

func effectiveConfig() (*config.Config, error) {
	ov := overrides()
	ov.NoJournal = true
	a, err := app.Open(viper.GetString("workspace"), ov)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.Config, nil
}

func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.Open(viper.GetString("workspace"), overrides())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// printResult writes facade output, sending "❌" results to stderr in red
// and failing the command.
func printResult(w io.Writer, out string) error {
	if strings.HasPrefix(out, "❌") {
		color.New(color.FgRed).Fprintln(os.Stderr, out)
		return errReported
	}
	fmt.Fprintln(w, out)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func signalColor(s domain.Signal) string {
	switch s {
	case domain.SignalCritical:
		return color.RedString(string(s))
	case domain.SignalStale:
		return color.MagentaString(string(s))
	case domain.SignalAttention:
		return color.YellowString(string(s))
	}
	return color.GreenString(string(s))
}
