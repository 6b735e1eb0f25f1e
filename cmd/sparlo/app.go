// File: cmd/sparlo/app.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"sparlo-benchmark/internal/config"
	"sparlo-benchmark/internal/domain/model"
	"sparlo-benchmark/internal/infra/adapters/ai"
	"sparlo-benchmark/internal/infra/adapters/sparlo"
	httpapi "sparlo-benchmark/internal/infra/http"
	"sparlo-benchmark/internal/infra/logging"
	"sparlo-benchmark/internal/infra/metrics"
	"sparlo-benchmark/internal/infra/store"
	"sparlo-benchmark/internal/infra/worker"
	"sparlo-benchmark/internal/ui/live"
	"sparlo-benchmark/internal/usecase"
)

// App wires configuration, logging and the Sparlo client once per invocation.
// Command handlers build what else they need on top.
type App struct {
	cfg    *config.Config
	log    *zerolog.Logger
	client *sparlo.Client
}

func NewApp(cfgPath string, dev bool) (*App, error) {
	cfg, err := config.LoadConfig(cfgPath, dev)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.Log, dev)
	if dev {
		log.Info().Msg("developer mode enabled")
	}
	metrics.MustRegister()
	log.Debug().
		Str("base_url", cfg.Sparlo.BaseURL).
		Str("api_key", logging.Redact(cfg.Sparlo.APIKey, dev)).
		Msg("sparlo client configured")
	client := sparlo.NewClient(cfg.Sparlo.BaseURL, cfg.Sparlo.APIKey, cfg.Sparlo.Timeout, log)
	return &App{cfg: cfg, log: log, client: client}, nil
}

// caseMeta carries the curation flags of a single --problem run.
type caseMeta struct {
	Segment       string
	Summary       string
	PriorArt      string
	Domain        string
	Contradiction string
	Sweetspot     string
	Expected      string
}

// caseFile is one entry of a --cases JSON file.
type caseFile struct {
	ID            string `json:"id"`
	Problem       string `json:"problem"`
	Segment       string `json:"segment"`
	Summary       string `json:"summary"`
	PriorArt      string `json:"prior_art"`
	DomainSpec    string `json:"domain_spec"`
	Contradiction string `json:"contradiction"`
	SweetspotPred string `json:"sweetspot_pred"`
	ExpectedGrade string `json:"expected_grade"`
}

func loadCases(problem, casesFile string, meta caseMeta) ([]model.BenchmarkCase, error) {
	if problem != "" {
		return []model.BenchmarkCase{{
			ID:             uuid.NewString(),
			ProblemText:    problem,
			Segment:        meta.Segment,
			ProblemSummary: meta.Summary,
			PriorArt:       meta.PriorArt,
			DomainSpec:     meta.Domain,
			Contradiction:  meta.Contradiction,
			SweetspotPred:  meta.Sweetspot,
			ExpectedGrade:  meta.Expected,
		}}, nil
	}

	b, err := os.ReadFile(casesFile)
	if err != nil {
		return nil, fmt.Errorf("read cases file: %w", err)
	}
	var entries []caseFile
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse cases file: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("cases file is empty")
	}
	cases := make([]model.BenchmarkCase, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Problem) == "" {
			return nil, fmt.Errorf("case %q has no problem text", e.ID)
		}
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		cases = append(cases, model.BenchmarkCase{
			ID:             id,
			ProblemText:    e.Problem,
			Segment:        e.Segment,
			ProblemSummary: e.Summary,
			PriorArt:       e.PriorArt,
			DomainSpec:     e.DomainSpec,
			Contradiction:  e.Contradiction,
			SweetspotPred:  e.SweetspotPred,
			ExpectedGrade:  e.ExpectedGrade,
		})
	}
	return cases, nil
}

// RunBenchmark drives the full pipeline for every case and prints a summary.
func (a *App) RunBenchmark(ctx context.Context, cases []model.BenchmarkCase) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithRunID(ctx, uuid.NewString())

	if a.cfg.Baseline.APIKey == "" {
		return fmt.Errorf("baseline.api_key is required (or set OPENAI_API_KEY)")
	}
	aiAdapter, err := ai.NewOpenAIAdapter(a.cfg.Baseline.APIKey, a.cfg.Baseline.Model, a.cfg.Baseline.BaseURL)
	if err != nil {
		return fmt.Errorf("openai adapter: %w", err)
	}
	a.log.Info().Str("model", a.cfg.Baseline.Model).Msg("baseline adapter ready")

	results := store.NewCSVResults(a.cfg.Benchmark.ResultsFile)
	archive := store.NewReportDir(a.cfg.Benchmark.ReportsDir)

	if a.cfg.Admin.Port > 0 {
		srv := httpapi.NewServer(a.cfg, a.log)
		go func() {
			if err := srv.Start(); err != nil {
				a.log.Warn().Err(err).Msg("admin server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	bench := usecase.NewBenchmarkUseCase(
		a.client, aiAdapter, aiAdapter, results, archive,
		a.cfg.Sparlo.PollInterval, a.cfg.Sparlo.WatchTimeout, a.log,
	)

	pool := worker.NewPool(a.cfg.Benchmark.Workers, a.log)
	pool.Start(ctx)
	defer pool.Stop()

	runner := worker.NewCaseRunner(bench, a.log)
	out := runner.Run(ctx, pool, cases)

	var sparloWins, baselineWins, ties int
	for _, r := range out {
		if r == nil {
			continue
		}
		line := fmt.Sprintf("%s  sparlo=%s baseline=%s", r.Case.ID, r.Sparlo.Status, r.Baseline.Status)
		if r.Evaluated {
			line += fmt.Sprintf("  winner=%s margin=%+d", r.Evaluation.Winner, r.Evaluation.ScoreMargin())
			switch r.Evaluation.Winner {
			case "sparlo":
				sparloWins++
			case "baseline":
				baselineWins++
			default:
				ties++
			}
		}
		fmt.Println(line)
	}
	fmt.Printf("\nRESULTS: Sparlo %d | Baseline %d | Ties %d\n", sparloWins, baselineWins, ties)
	return ctx.Err()
}

// WatchReport opens the interactive watch view. With a challenge it first
// creates the report, then watches it.
func (a *App) WatchReport(ctx context.Context, reportID, challenge string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if reportID == "" {
		id, err := a.client.CreateReport(ctx, challenge)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		reportID = id
		fmt.Printf("Report %s created\n", reportID)
	}
	ctx = logging.WithReportID(ctx, reportID)

	createdAt := time.Now()
	if r, err := a.client.GetReport(ctx, reportID); err == nil && !r.CreatedAt.IsZero() {
		createdAt = r.CreatedAt
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	clarify := usecase.NewClarifyUseCase(a.client, reportID, a.log)
	watcher := usecase.NewWatcher(a.client, reportID, a.cfg.Sparlo.PollInterval, a.cfg.Sparlo.WatchTimeout, a.log)
	events := watcher.Watch(watchCtx)

	m := live.NewModel(events, clarify, live.Options{
		ReducedMotion: a.cfg.UI.ReducedMotion,
		CreatedAt:     createdAt,
	})
	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

// Chat runs a line-oriented follow-up conversation on stdout. SIGINT cancels
// the in-flight assistant turn; a second SIGINT (or EOF) exits.
func (a *App) Chat(ctx context.Context, reportID string) error {
	ctx = logging.WithReportID(ctx, reportID)

	printer := &chatPrinter{}
	chat := usecase.NewChatUseCase(a.client, reportID, a.log, printer.onChange)
	printer.chat = chat

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT)
	defer signal.Stop(sigc)
	go func() {
		for range sigc {
			if chat.IsLoading() {
				chat.CancelStream()
				continue
			}
			os.Exit(0)
		}
	}()

	fmt.Printf("Chatting about report %s. Empty line or \"exit\" to quit.\n", reportID)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024)
	for {
		fmt.Print("\nyou> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "exit" || line == "quit" {
			break
		}
		printer.beginTurn()
		if err := chat.SubmitMessage(ctx, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// chatPrinter streams the growing assistant message to stdout as the
// transcript changes.
type chatPrinter struct {
	chat    usecase.ChatUseCase
	printed int
}

func (p *chatPrinter) beginTurn() {
	p.printed = 0
	fmt.Print("\nsparlo> ")
}

func (p *chatPrinter) onChange() {
	msgs := p.chat.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.Role != model.ChatRoleAssistant {
		return
	}
	if len(last.Content) > p.printed {
		fmt.Print(last.Content[p.printed:])
		p.printed = len(last.Content)
	}
	if !last.IsStreaming {
		if last.Cancelled {
			fmt.Print(" [cancelled]")
		}
		if last.Error != "" {
			fmt.Print("\n! " + last.Error)
		}
		fmt.Println()
	}
}

// Export re-emits every persisted result as one JSON document, for analysis
// outside the harness.
func (a *App) Export(ctx context.Context, out string) error {
	results := store.NewCSVResults(a.cfg.Benchmark.ResultsFile)
	rows, err := results.List(ctx)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if out == "" {
		fmt.Println(string(b))
		return nil
	}
	if err := os.WriteFile(out, b, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	a.log.Info().Str("path", out).Int("results", len(rows)).Msg("results exported")
	return nil
}

// Status prints the aggregate view of the results store.
func (a *App) Status(ctx context.Context) error {
	results := store.NewCSVResults(a.cfg.Benchmark.ResultsFile)
	rows, err := results.List(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No results yet. Run 'sparlo-benchmark run' first.")
		return nil
	}

	var complete, evaluated, sparloWins, baselineWins int
	for _, r := range rows {
		if r.Sparlo.Status == model.RunStatusComplete && r.Baseline.Status == model.RunStatusComplete {
			complete++
		}
		if r.Evaluated {
			evaluated++
			switch r.Evaluation.Winner {
			case "sparlo":
				sparloWins++
			case "baseline":
				baselineWins++
			}
		}
	}
	fmt.Printf("Total problems: %d\n", len(rows))
	fmt.Printf("Complete (both runs): %d\n", complete)
	fmt.Printf("Evaluated: %d\n", evaluated)
	if evaluated > 0 {
		fmt.Printf("\nResults: Sparlo %d | Baseline %d | Ties %d\n",
			sparloWins, baselineWins, evaluated-sparloWins-baselineWins)
	}
	return nil
}
