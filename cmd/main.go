package main

//
//  @title           tradepulse API
//  @version         1.0
//  @description     Taiwan-market trade log reconstruction and profit/loss reporting.
//  @termsOfService  https://github.com/guttosm/tradepulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/tradepulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        report
//  @tag.description Profit/loss reports rebuilt from the trade log
//
//  @tag.name        trades
//  @tag.description Trade-log entry
//
//  @tag.name        webhook
//  @tag.description LINE Messaging API callback
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/guttosm/tradepulse/config"
	_ "github.com/guttosm/tradepulse/docs" // swagger docs
	"github.com/guttosm/tradepulse/internal/app"
	"github.com/guttosm/tradepulse/internal/ingestion"
	"github.com/guttosm/tradepulse/internal/logger"
	"github.com/guttosm/tradepulse/internal/report"
	"github.com/guttosm/tradepulse/internal/storage"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	waitForSignal()
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	signal.Stop(quit)
}

// reportOptions are the flags of the report mode.
type reportOptions struct {
	pretty bool
	push   bool
	style  string
	width  int
}

// runReport generates one report and prints it to w, optionally pushing it to
// the configured LINE recipient as well.
func runReport(ctx context.Context, cfg config.Config, opts reportOptions, w io.Writer) error {
	comps, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	r, err := comps.Reports.Generate(ctx)
	if err != nil {
		return err
	}

	out := report.Text(r)
	if opts.pretty {
		out, err = report.Render(report.Markdown(r), opts.style, opts.width)
		if err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, out); err != nil {
		return err
	}

	if !opts.push {
		return nil
	}
	if comps.Line == nil || cfg.Line.PushTo == "" {
		return errors.New("push requested but LINE_CHANNEL_TOKEN or LINE_PUSH_TO is unset")
	}
	return app.PushReport(ctx, comps.Reports, comps.Line, cfg.Line.PushTo)
}

// runSchedule pushes the report on cfg.Schedule.ReportCron until interrupted.
func runSchedule(ctx context.Context, cfg config.Config) error {
	comps, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer comps.Close()

	if comps.Line == nil || cfg.Line.PushTo == "" {
		return errors.New("schedule mode requires LINE_CHANNEL_TOKEN and LINE_PUSH_TO")
	}

	s := app.NewScheduler(ctx)
	err = s.Add("report-push", cfg.Schedule.ReportCron, func(ctx context.Context) error {
		return app.PushReport(ctx, comps.Reports, comps.Line, cfg.Line.PushTo)
	})
	if err != nil {
		return err
	}

	s.Start()
	waitForSignal()
	s.Stop()
	return nil
}

// runNames rebuilds the company name table from stock list exports.
func runNames(ctx context.Context, lists, out string, parallel int) error {
	files := splitFlagList(lists)
	if len(files) == 0 {
		return errors.New("--lists is required")
	}
	table, err := ingestion.BuildCompanyTable(ctx, files, parallel)
	if err != nil {
		return err
	}
	if err := ingestion.WriteCompanyTable(out, table); err != nil {
		return err
	}
	logger.L().Info().Int("companies", len(table)).Str("out", out).Msg("company table written")
	return nil
}

// runImport copies a CSV trade log into the trade_log table.
func runImport(ctx context.Context, cfg config.Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	entries, err := ingestion.DecodeTradeLog(ctx, f)
	if err != nil {
		return err
	}

	db, err := app.InitPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := storage.NewPostgresStore(db).ImportBatch(ctx, entries); err != nil {
		return err
	}
	logger.L().Info().Int("rows", len(entries)).Str("file", path).Msg("trade log imported")
	return nil
}

func splitFlagList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// main is the entry point of the tradepulse application.
//
// Modes (selected via --mode flag):
//   - report:   Prints the profit/loss report; --push also sends it over LINE.
//   - api:      Starts the REST API and, when LINE is configured, the webhook.
//   - schedule: Pushes the report on REPORT_CRON until interrupted.
//   - names:    Rebuilds the company name table from stock list exports.
//   - import:   Copies a CSV trade log into Postgres.
func main() {
	ctx := context.Background()

	config.LoadConfig()

	mode := flag.String("mode", "report", "Mode: report, api, schedule, names or import")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	csvPath := flag.String("csv", "", "Trade log CSV (overrides TRADES_CSV_PATH; input file for import)")
	pretty := flag.Bool("pretty", false, "Render the report as styled markdown")
	style := flag.String("style", "", "glamour style for --pretty (dark, light, notty; empty detects)")
	width := flag.Int("width", 100, "Word wrap width for --pretty")
	push := flag.Bool("push", false, "Also push the report to LINE_PUSH_TO")
	lists := flag.String("lists", "", "Comma-separated stock list CSV exports for names mode")
	out := flag.String("out", config.AppConfig.Names.Path, "Output path for names mode")
	parallel := flag.Int("parallel", 0, "How many stock lists to parse concurrently (0=auto)")
	flag.Parse()

	if *mode == "report" {
		// stdout carries the report
		logger.SetOutput(os.Stderr)
	}
	logger.Init()

	cfg := config.AppConfig
	if *csvPath != "" && *mode != "import" {
		cfg.Store.CSVPath = *csvPath
	}

	var err error
	switch *mode {
	case "report":
		err = runReport(ctx, cfg, reportOptions{pretty: *pretty, push: *push, style: *style, width: *width}, os.Stdout)

	case "api":
		logger.L().Info().Msg("starting API server")

		router, cleanup, initErr := app.InitializeApp()
		if initErr != nil {
			logger.L().Fatal().Err(initErr).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(ctx, server, cleanup)

	case "schedule":
		logger.L().Info().Str("cron", cfg.Schedule.ReportCron).Msg("starting report scheduler")
		err = runSchedule(ctx, cfg)

	case "names":
		err = runNames(ctx, *lists, *out, *parallel)

	case "import":
		if *csvPath == "" {
			logger.L().Fatal().Msg("--csv is required for import")
		}
		err = runImport(ctx, cfg, *csvPath)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}

	if err != nil {
		logger.L().Fatal().Err(err).Str("mode", *mode).Msg("run failed")
	}
}
