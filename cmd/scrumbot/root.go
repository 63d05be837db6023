package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tamnara/scrumbot/internal/chat"
	"github.com/tamnara/scrumbot/internal/config"
	"github.com/tamnara/scrumbot/internal/reminder"
	"github.com/tamnara/scrumbot/internal/scrumbot"
	"github.com/tamnara/scrumbot/internal/server"
)

var version = "dev"

var (
	reportKind   string
	reportOut    string
	reportFormat string
)

var rootCmd = &cobra.Command{
	Use:           "scrumbot",
	Short:         "Scrum and weekly check-in reminders for Discord",
	Long:          `scrumbot reminds the team to file daily scrums and weekly plans and retrospects on a GitHub project board, and mentions whoever has not.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and run the reminder schedule",
	Args:  cobra.NoArgs,
	RunE:  runBot,
}

var checkCmd = &cobra.Command{
	Use:   "check <daily|weekly-plan|weekly-retro>",
	Short: "Show who has submitted today, without sending anything",
	Args:  cobra.ExactArgs(1),
	RunE:  checkSubmissions,
}

var holidayCmd = &cobra.Command{
	Use:   "holiday",
	Short: "Ask the holiday calendar about today",
	Args:  cobra.NoArgs,
	RunE:  checkHoliday,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export today's submissions as JSON, CSV or Excel",
	Args:  cobra.NoArgs,
	RunE:  generateReport,
}

func execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd, checkCmd, holidayCmd, reportCmd)

	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	rootCmd.PersistentFlags().String("tz", "", "time zone of the schedule (env TZ_NAME)")
	rootCmd.PersistentFlags().Bool("json", false, "print JSON instead of a table")

	runCmd.Flags().String("http-addr", "", "address of the health endpoint (env HTTP_ADDR)")

	reportCmd.Flags().StringVarP(&reportKind, "kind", "k", "daily", "daily, weekly-plan or weekly-retro")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "reports", "Output directory")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "json,csv,xlsx", "Comma-separated formats: json, csv, xlsx")

	_ = viper.BindPFlag("env-file", rootCmd.PersistentFlags().Lookup("env-file"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("LOG_LEVEL", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("TZ_NAME", rootCmd.PersistentFlags().Lookup("tz"))
	_ = viper.BindPFlag("HTTP_ADDR", runCmd.Flags().Lookup("http-addr"))
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper(), viper.GetString("env-file"))
}

func newApp(validate func(*config.Config) error) (*scrumbot.Application, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if validate != nil {
		if err := validate(cfg); err != nil {
			return nil, err
		}
	}
	return scrumbot.New(cfg), nil
}

func runBot(cmd *cobra.Command, args []string) error {
	app, err := newApp((*config.Config).ValidateBot)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bot, err := chat.NewBot(app.Config.Discord.Token, app.Registry, app.Commands(), app.Logger)
	if err != nil {
		return err
	}
	app.AttachSender(bot)

	if err := bot.Open(ctx); err != nil {
		return err
	}
	defer bot.Close()

	sched := app.Scheduler()
	sched.Start(ctx)
	defer sched.Stop()

	handler := server.New(server.Config{
		Holidays: app.Oracle,
		Channels: app.Registry,
		Jobs:     sched,
		Version:  version,
	})
	if err := server.ListenAndServe(ctx, app.Config.HTTPAddr, handler, app.Logger); err != nil {
		return fmt.Errorf("http server: %w", err)
	}

	app.Logger.Info("shutting down")
	return nil
}

func checkSubmissions(cmd *cobra.Command, args []string) error {
	kind, err := reminder.ParseKind(args[0])
	if err != nil {
		return err
	}
	app, err := newApp((*config.Config).Validate)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	bar := newSpinner("Reading project board")
	if err := app.Source.HealthCheck(ctx); err != nil {
		finishBar(bar)
		return fmt.Errorf("%s is unavailable: %w", app.Source.Name(), err)
	}
	rep, err := app.Check(ctx, kind, time.Now())
	finishBar(bar)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if viper.GetBool("json") {
		return printJSON(out, rep)
	}

	fmt.Fprintf(out, "%s for %s (%d items fetched, %d issues counted)\n\n", rep.Kind, rep.Date, rep.Fetched, len(rep.Issues))

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.AppendHeader(table.Row{"#", "User", "Submitted", "Mention"})
	for i, row := range rep.Rows {
		submitted := "no"
		if row.Submitted {
			submitted = "yes"
		}
		tw.AppendRow(table.Row{i + 1, row.User, submitted, row.MentionID})
	}
	tw.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%d/%d", len(rep.Rows)-len(rep.Unsubmitted()), len(rep.Rows)), ""})
	tw.Render()
	return nil
}

func checkHoliday(cmd *cobra.Command, args []string) error {
	app, err := newApp(nil)
	if err != nil {
		return err
	}
	if app.Config.Holiday.APIKey == "" {
		return fmt.Errorf("missing required configuration: API_KEY")
	}

	bar := newSpinner("Asking the holiday calendar")
	isHoliday := app.Oracle.Refresh(cmd.Context())
	finishBar(bar)

	today := time.Now().In(app.Config.Location).Format("2006-01-02")
	if app.Oracle.LastRefresh().IsZero() {
		return fmt.Errorf("holiday lookup for %s failed; see log", today)
	}
	if viper.GetBool("json") {
		return printJSON(cmd.OutOrStdout(), map[string]any{"date": today, "holiday": isHoliday})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s holiday: %t\n", today, isHoliday)
	return nil
}

func generateReport(cmd *cobra.Command, args []string) error {
	kind, err := reminder.ParseKind(reportKind)
	if err != nil {
		return err
	}
	formats := parseCommaList(reportFormat)
	if len(formats) == 0 {
		return fmt.Errorf("no report format given")
	}
	app, err := newApp((*config.Config).Validate)
	if err != nil {
		return err
	}

	bar := newSpinner("Generating report")
	paths, err := app.GenerateReport(cmd.Context(), kind, time.Now(), reportOut, formats)
	finishBar(bar)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Reports saved to %s/\n", reportOut)
	for _, p := range paths {
		fmt.Fprintf(out, "  -> %s (%s)\n", p, strings.TrimPrefix(strings.ToUpper(filepath.Ext(p)), "."))
	}
	return nil
}
