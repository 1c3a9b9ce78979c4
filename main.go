package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-scraper/api"
	"travel-scraper/config"
	"travel-scraper/lookup"
	"travel-scraper/metrics"
	"travel-scraper/models"
	"travel-scraper/scraper/browser"
	"travel-scraper/scraper/confirmtkt"
	"travel-scraper/scraper/ixigo"
	"travel-scraper/scraper/olx"
	"travel-scraper/services"
	"travel-scraper/storage"
	"travel-scraper/utils"
)

const usage = `usage: travel-scraper <mode> [flags]

modes:
  serve                 run the HTTP API
  scrape  -domain ...   scrape one route or classifieds scope and print a fare summary
  search  -domain ...   read cached results and print a fare summary
  warm                  scrape the popular train and flight routes
`

type app struct {
	cfg         *config.Config
	logger      *utils.Logger
	metrics     *metrics.Metrics
	store       storage.Store
	trains      *services.TrainService
	flights     *services.FlightService
	classifieds *services.ClassifiedService
	insights    *services.InsightService
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	mode, args := os.Args[1], os.Args[2:]

	cfg := config.Load()
	logger := utils.NewLoggerWithConfig(utils.LogConfig{
		Level:         cfg.LogLevel,
		Format:        cfg.LogFormat,
		NoColor:       cfg.LogNoColor,
		FluentEnabled: cfg.FluentEnabled,
		FluentHost:    cfg.FluentHost,
		FluentPort:    cfg.FluentPort,
		FluentTag:     mode,
	})
	defer logger.Close()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Startup failed: %v", err)
		os.Exit(1)
	}
	defer a.store.Close()

	switch mode {
	case "serve":
		err = a.serve(ctx)
	case "scrape":
		err = a.scrape(ctx, args)
	case "search":
		err = a.search(ctx, args)
	case "warm":
		a.warm(ctx)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("%s failed: %v", mode, err)
		os.Exit(1)
	}
}

func newApp(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*app, error) {
	m := metrics.New()

	var store storage.Store
	if cfg.StoreBackend == "memory" {
		logger.Warn("Using the in-memory store: nothing survives a restart")
		store = storage.NewMemoryStore()
	} else {
		pg, err := storage.NewPostgresStore(ctx, cfg.DSN(), logger)
		if err != nil {
			logger.Error("Make sure Postgres is running: docker compose up -d")
			return nil, err
		}
		store = pg
	}

	selectors, err := config.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		return nil, err
	}
	retry := &utils.RetryConfig{MaxAttempts: cfg.MaxRetries, Delay: cfg.RetryDelay, Logger: logger}

	trainOpener := browser.NewOpener(browser.Options{
		ChromeBin:         cfg.ChromeBin,
		NavigationTimeout: cfg.NavTimeoutTrains,
		WaitSelector:      selectors.Trains.WaitFor,
		WaitTimeout:       cfg.PageWaitTimeout,
		SettleDelay:       cfg.SettleTrains,
		Logger:            logger,
	})
	flightOpener := browser.NewOpener(browser.Options{
		ChromeBin:         cfg.ChromeBin,
		NavigationTimeout: cfg.NavTimeoutFlights,
		WaitSelector:      selectors.Flights.WaitFor,
		WaitTimeout:       cfg.PageWaitTimeout,
		SettleDelay:       cfg.SettleFlights,
		Logger:            logger,
	})

	olxClient, err := olx.NewClient(olx.Options{
		Endpoint:     cfg.OLXEndpoint,
		PageSize:     cfg.OLXPageSize,
		PageDelayMin: cfg.PageDelayMin,
		PageDelayMax: cfg.PageDelayMax,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	deps := services.Deps{
		Store:      store,
		Normalizer: services.NewNormalizer(logger),
		Reconciler: services.NewReconciler(store, logger, m),
		Logger:     logger,
		Metrics:    m,
		Sink:       &storage.CSVSink{Path: cfg.CSVOutputPath},
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		store:   store,
		trains: services.NewTrainService(confirmtkt.New(trainOpener, selectors.Trains, retry, logger), deps, services.Options{
			TTL:      cfg.TrainTTL,
			MaxItems: cfg.MaxTrains,
			MemoSize: cfg.SearchMemoSize,
			MemoTTL:  cfg.SearchMemoTTL,
		}),
		flights: services.NewFlightService(ixigo.New(flightOpener, selectors.Flights, retry, logger), deps, services.Options{
			TTL:      cfg.FlightTTL,
			MaxItems: cfg.MaxFlights,
			MemoSize: cfg.SearchMemoSize,
			MemoTTL:  cfg.SearchMemoTTL,
		}),
		classifieds: services.NewClassifiedService(olxClient, deps, services.Options{TTL: cfg.ClassifiedTTL}, cfg.OLXMaxPages),
		insights:    services.NewInsightService(logger),
	}, nil
}

func (a *app) serve(ctx context.Context) error {
	srv := api.NewServer(a.cfg.HTTPAddr, api.Services{
		Trains:      a.trains,
		Flights:     a.flights,
		Classifieds: a.classifieds,
	}, a.metrics, a.logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// cliRequest holds the flags shared by the scrape and search modes.
type cliRequest struct {
	domain   string
	from     string
	to       string
	date     string
	location string
	category string
	sortBy   string
}

func parseRequest(mode string, args []string) (cliRequest, error) {
	var r cliRequest
	fs := flag.NewFlagSet(mode, flag.ContinueOnError)
	fs.StringVar(&r.domain, "domain", "trains", "trains | flights | classifieds")
	fs.StringVar(&r.from, "from", "", "origin city")
	fs.StringVar(&r.to, "to", "", "destination city")
	fs.StringVar(&r.date, "date", "", "travel date, YYYY-MM-DD (required for flights)")
	fs.StringVar(&r.location, "location", "", "classifieds location slug")
	fs.StringVar(&r.category, "category", "", "classifieds category slug")
	fs.StringVar(&r.sortBy, "sort", "", "sort key")
	if err := fs.Parse(args); err != nil {
		return r, err
	}
	return r, nil
}

func (a *app) scrape(ctx context.Context, args []string) error {
	r, err := parseRequest("scrape", args)
	if err != nil {
		return err
	}
	route := r.from + " → " + r.to

	switch models.Domain(r.domain) {
	case models.DomainTrains:
		res, err := a.trains.Scrape(ctx, models.RouteScrapeRequest{FromCity: r.from, ToCity: r.to})
		if err != nil {
			return err
		}
		a.logScrape(r.domain, res.SavedCount, res.UpdatedCount, res.ErrorCount, res.Source, res.FallbackReason)
		a.insights.Print(os.Stdout, a.insights.TrainReport(route, res.Items))
	case models.DomainFlights:
		res, err := a.flights.Scrape(ctx, models.RouteScrapeRequest{FromCity: r.from, ToCity: r.to, Date: r.date})
		if err != nil {
			return err
		}
		a.logScrape(r.domain, res.SavedCount, res.UpdatedCount, res.ErrorCount, res.Source, res.FallbackReason)
		a.insights.Print(os.Stdout, a.insights.FlightReport(route+" "+r.date, res.Items))
	case models.DomainClassifieds:
		res, err := a.classifieds.Scrape(ctx, models.ClassifiedScrapeRequest{Location: r.location, Category: r.category})
		if err != nil {
			return err
		}
		a.logScrape(r.domain, res.SavedCount, res.UpdatedCount, res.ErrorCount, res.Source, "")
		a.insights.Print(os.Stdout, a.insights.ListingReport(scopeLabel(r), res.Items))
	default:
		return fmt.Errorf("unknown domain %q", r.domain)
	}

	fmt.Printf("  Done. Raw CSV → %s | Clean data → %s store\n\n", a.cfg.CSVOutputPath, a.cfg.StoreBackend)
	return nil
}

func (a *app) logScrape(domain string, saved, updated, failed int, source, fallbackReason string) {
	if fallbackReason != "" {
		a.logger.Warn("[%s] Live scrape degraded (%s); results are generated", domain, fallbackReason)
	}
	a.logger.Info("[%s] %d saved, %d updated, %d failed (source: %s)", domain, saved, updated, failed, source)
}

func (a *app) search(ctx context.Context, args []string) error {
	r, err := parseRequest("search", args)
	if err != nil {
		return err
	}
	route := r.from + " → " + r.to

	var fr freshness
	switch models.Domain(r.domain) {
	case models.DomainTrains:
		res, err := a.trains.Search(ctx, models.TrainSearchRequest{FromCity: r.from, ToCity: r.to, Date: r.date, SortBy: r.sortBy})
		if err != nil {
			return err
		}
		fr = freshness{res.CacheAgeHours, res.NeedsScraping}
		a.insights.Print(os.Stdout, a.insights.TrainReport(route, res.Items))
	case models.DomainFlights:
		res, err := a.flights.Search(ctx, models.FlightSearchRequest{FromCity: r.from, ToCity: r.to, Date: r.date, SortBy: r.sortBy})
		if err != nil {
			return err
		}
		fr = freshness{res.CacheAgeHours, res.NeedsScraping}
		a.insights.Print(os.Stdout, a.insights.FlightReport(route+" "+r.date, res.Items))
	case models.DomainClassifieds:
		res, err := a.classifieds.Search(ctx, models.ClassifiedSearchRequest{Location: r.location, Category: r.category, SortBy: r.sortBy})
		if err != nil {
			return err
		}
		fr = freshness{res.CacheAgeHours, res.NeedsScraping}
		a.insights.Print(os.Stdout, a.insights.ListingReport(scopeLabel(r), res.Items))
	default:
		return fmt.Errorf("unknown domain %q", r.domain)
	}

	switch {
	case fr.ageHours == nil:
		a.logger.Warn("[%s] Never scraped; run the scrape mode first", r.domain)
	case fr.needsScraping:
		a.logger.Warn("[%s] Cache is %dh old and due for a scrape", r.domain, *fr.ageHours)
	default:
		a.logger.Info("[%s] Cache is %dh old", r.domain, *fr.ageHours)
	}
	return nil
}

type freshness struct {
	ageHours      *int
	needsScraping bool
}

func scopeLabel(r cliRequest) string {
	location := r.location
	if location == "" {
		location = lookup.DefaultOLXLocation
	}
	if r.category == "" {
		return location
	}
	return location + " / " + r.category
}

// warm scrapes the popular routes one at a time, paced by the pool.
// Flights are warmed for tomorrow.
func (a *app) warm(ctx context.Context) {
	pool := utils.NewWorkerPool(a.cfg.WarmConcurrency, a.cfg.WarmInterval)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(models.DateLayout)

	var failed []error
	failures := make(chan error, len(lookup.PopularTrainRoutes)+len(lookup.PopularFlightRoutes))

	for _, rt := range lookup.PopularTrainRoutes {
		req := models.RouteScrapeRequest{FromCity: rt.From, ToCity: rt.To}
		pool.Submit(ctx, func(ctx context.Context) {
			res, err := a.trains.Scrape(ctx, req)
			if err != nil {
				failures <- fmt.Errorf("trains %s-%s: %w", req.FromCity, req.ToCity, err)
				return
			}
			a.logger.Info("[warm] trains %s → %s: %d trains (%s)", req.FromCity, req.ToCity, len(res.Items), res.Source)
		})
	}
	for _, rt := range lookup.PopularFlightRoutes {
		req := models.RouteScrapeRequest{FromCity: rt.From, ToCity: rt.To, Date: tomorrow}
		pool.Submit(ctx, func(ctx context.Context) {
			res, err := a.flights.Scrape(ctx, req)
			if err != nil {
				failures <- fmt.Errorf("flights %s-%s: %w", req.FromCity, req.ToCity, err)
				return
			}
			a.logger.Info("[warm] flights %s → %s on %s: %d flights (%s)", req.FromCity, req.ToCity, req.Date, len(res.Items), res.Source)
		})
	}
	pool.Wait()
	close(failures)

	for err := range failures {
		failed = append(failed, err)
	}
	if err := errors.Join(failed...); err != nil {
		a.logger.Error("[warm] %d routes failed: %v", len(failed), err)
		return
	}
	a.logger.Info("[warm] All popular routes refreshed")
}
