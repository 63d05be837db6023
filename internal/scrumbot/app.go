package scrumbot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tamnara/scrumbot/internal/chat"
	"github.com/tamnara/scrumbot/internal/config"
	"github.com/tamnara/scrumbot/internal/github"
	"github.com/tamnara/scrumbot/internal/holiday"
	"github.com/tamnara/scrumbot/internal/reminder"
	"github.com/tamnara/scrumbot/internal/report"
	"github.com/tamnara/scrumbot/internal/schedule"
	"github.com/tamnara/scrumbot/internal/tracking"
)

// TickInterval is how often the announcement and check jobs wake up.
const TickInterval = 10 * time.Second

// HolidayCheckInterval is how often the holiday job looks at the cache. It
// only calls the calendar when the cache is stale.
const HolidayCheckInterval = time.Hour

// Broadcaster delivers a message to every channel of a type.
type Broadcaster interface {
	Broadcast(ctx context.Context, channelType string, msg chat.Message) error
}

type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	Source    tracking.ItemSource
	Oracle    *holiday.Oracle
	Registry  *chat.Registry
	Notifier  Broadcaster
	Reminders []reminder.Reminder
	Generator *report.Generator

	guard *reminder.Guard
}

func New(cfg *config.Config) *Application {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	client := github.NewClient(cfg.GitHub.Token, cfg.GitHub.Org, cfg.GitHub.ProjectNumber,
		github.WithEndpoint(cfg.GitHub.APIURL),
		github.WithLogger(logger),
	)
	source := github.NewProjectSource(client)
	logger.Info("project source initialized", "org", cfg.GitHub.Org, "project", cfg.GitHub.ProjectNumber, "users", len(cfg.UserMap))

	var lister holiday.Lister
	if cfg.Holiday.APIKey != "" {
		lister = holiday.NewClient(cfg.Holiday.APIKey, cfg.Holiday.APIURL)
	}

	return NewWithSource(cfg, logger, source, holiday.NewOracle(lister, cfg.Location, logger))
}

// NewWithSource builds an application around an existing board source and
// holiday oracle. The notifier is attached later with AttachSender.
func NewWithSource(cfg *config.Config, logger *slog.Logger, source tracking.ItemSource, oracle *holiday.Oracle) *Application {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	links := reminder.Links{
		DailyScrum:       cfg.Links.DailyScrum,
		WeeklyPlanning:   cfg.Links.WeeklyPlanning,
		WeeklyRetrospect: cfg.Links.WeeklyRetrospect,
	}
	return &Application{
		Config:    cfg,
		Logger:    logger,
		Source:    source,
		Oracle:    oracle,
		Registry:  chat.NewRegistry(logger),
		Reminders: reminder.Defaults(links),
		Generator: report.NewGenerator(source, tracking.UserMap(cfg.UserMap), logger),
		guard:     reminder.NewGuard(),
	}
}

// AttachSender routes outgoing messages through sender to the channels the
// registry discovers.
func (app *Application) AttachSender(sender chat.Sender) {
	app.Notifier = chat.NewNotifier(app.Registry, sender, app.Logger)
}

// Commands returns the chat commands answered by the bot.
func (app *Application) Commands() *chat.Commands {
	return chat.DefaultCommands(chat.LinkCommands{
		Notice:   app.Config.Links.Notice,
		Service:  app.Config.Links.Service,
		Feedback: app.Config.Links.Feedback,
	})
}

// Jobs is the job table of a running bot.
func (app *Application) Jobs() []schedule.Job {
	jobs := []schedule.Job{
		{Name: "holiday-refresh", Interval: HolidayCheckInterval, Run: app.refreshHoliday},
		{Name: "announcements", Interval: TickInterval, Run: app.announce},
	}
	for _, r := range app.Reminders {
		jobs = append(jobs, schedule.Job{
			Name:     string(r.Kind) + "-check",
			Interval: TickInterval,
			Run:      app.followUpJob(r),
		})
	}
	return jobs
}

// Scheduler builds a scheduler over Jobs.
func (app *Application) Scheduler() *schedule.Scheduler {
	return schedule.New(app.Logger, app.Jobs()...)
}

func (app *Application) refreshHoliday(ctx context.Context, now time.Time) error {
	if app.Oracle.Stale(now) {
		app.Oracle.Refresh(ctx)
	}
	return nil
}

func (app *Application) announce(ctx context.Context, now time.Time) error {
	clock := reminder.ClockOf(now.In(app.Config.Location))
	isHoliday := app.Oracle.HolidayAt(now)

	var errs []error
	for _, r := range app.Reminders {
		if !r.Announce(clock, isHoliday) {
			continue
		}
		if !app.guard.Allow("announce:"+string(r.Kind), now) {
			continue
		}
		app.Logger.Info("sending announcement", "kind", r.Kind)
		if err := app.send(ctx, r.Announcement()); err != nil {
			errs = append(errs, fmt.Errorf("announce %s: %w", r.Kind, err))
		}
	}
	return errors.Join(errs...)
}

func (app *Application) followUpJob(r reminder.Reminder) func(context.Context, time.Time) error {
	return func(ctx context.Context, now time.Time) error {
		if !r.FollowUp(reminder.ClockOf(now.In(app.Config.Location)), app.Oracle.HolidayAt(now)) {
			return nil
		}
		if !app.guard.Allow("follow-up:"+string(r.Kind), now) {
			return nil
		}
		return app.FollowUp(ctx, r.Kind, now)
	}
}

// FollowUp reconciles kind for the day of now and mentions every user who
// has not submitted, one message each.
func (app *Application) FollowUp(ctx context.Context, kind reminder.Kind, now time.Time) error {
	logger := app.Logger.With("run_id", uuid.NewString(), "kind", kind)

	r, ok := reminder.Find(app.Reminders, kind)
	if !ok {
		return fmt.Errorf("unknown reminder kind %q", kind)
	}

	rep, err := app.Check(ctx, kind, now)
	if err != nil {
		logger.Error("board unavailable; follow-ups skipped", "error", err)
		return err
	}

	stats := app.Generator.Statistics(rep)
	logger.Info("submissions reconciled",
		"date", rep.Date,
		"fetched", stats["fetched"],
		"issues", stats["issues"],
		"submitted", stats["submitted"],
		"unsubmitted", stats["unsubmitted"],
	)

	var errs []error
	for _, mention := range rep.Mentions {
		if mention == "" {
			logger.Warn("unsubmitted user has no chat id; sending without mention")
		}
		if err := app.send(ctx, r.FollowUpFor(mention)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		logger.Error("follow-up delivery incomplete", "failed", len(errs), "mentions", len(rep.Mentions))
	}
	return errors.Join(errs...)
}

// Check runs one reconciliation for kind on the day of now, without looking
// at the time windows and without sending anything.
func (app *Application) Check(ctx context.Context, kind reminder.Kind, now time.Time) (*report.Report, error) {
	r, ok := reminder.Find(app.Reminders, kind)
	if !ok {
		return nil, fmt.Errorf("unknown reminder kind %q", kind)
	}
	return app.Generator.Generate(ctx, r, now.In(app.Config.Location))
}

// GenerateReport runs Check and writes the result in formats under outDir.
func (app *Application) GenerateReport(ctx context.Context, kind reminder.Kind, now time.Time, outDir string, formats []string) ([]string, error) {
	app.Logger.Info("generating report", "kind", kind, "out", outDir, "formats", formats)

	rep, err := app.Check(ctx, kind, now)
	if err != nil {
		app.Logger.Error("failed to generate report", "error", err)
		return nil, err
	}

	paths, err := report.NewExporter(outDir).Export(rep, formats)
	for _, p := range paths {
		app.Logger.Info("report exported", "file", p)
	}
	if err != nil {
		return paths, err
	}

	stats := app.Generator.Statistics(rep)
	app.Logger.Info("report generation complete",
		"total", stats["total"],
		"unsubmitted", stats["unsubmitted"],
	)
	return paths, nil
}

func (app *Application) send(ctx context.Context, msg chat.Message) error {
	if app.Notifier == nil {
		return errors.New("no chat sender attached")
	}
	return app.Notifier.Broadcast(ctx, chat.ChannelAlarm, msg)
}
