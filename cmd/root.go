package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/spendguard/spendguard/internal/alert"
	"github.com/spendguard/spendguard/internal/api"
	"github.com/spendguard/spendguard/internal/budget"
	"github.com/spendguard/spendguard/internal/cache"
	"github.com/spendguard/spendguard/internal/config"
	"github.com/spendguard/spendguard/internal/crosstab"
	"github.com/spendguard/spendguard/internal/notify"
	"github.com/spendguard/spendguard/internal/period"
	"github.com/spendguard/spendguard/internal/source"
	"github.com/spendguard/spendguard/internal/store"
)

var (
	flagDataDir string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "spendguard",
	Short: "Personal finance budget guard",
	Long:  "Track wallets and transactions against spending-limit rules, with cached reads and threshold alerts.",
	RunE:  runStatus,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default: XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")
}

// app bundles one session's worth of wired core instances. Built once per
// invocation and passed by reference, never package globals.
type app struct {
	cfg       config.Config
	log       zerolog.Logger
	store     *store.Store
	cache     *cache.Store
	sync      *crosstab.Sync
	unbind    func()
	budgets   *store.BudgetRepository
	txs       *store.TransactionRepository
	dedup     *alert.Dedup
	notifier  *alert.Notifier
	evaluator *budget.Evaluator
	calc      *period.Calculator
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := zerolog.WarnLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	dataDir := config.DataDir(cfg)
	if flagDataDir != "" {
		dataDir = flagDataDir
	}

	st, err := store.Open(filepath.Join(dataDir, "spendguard.db"))
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	c := cache.New(logger, nil)

	transport, err := crosstab.NewStorageTransport(filepath.Join(dataDir, "crosstab"), 0, logger)
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("opening crosstab transport: %w", err)
	}
	sync := crosstab.New(transport, logger, nil)
	unbind := crosstab.Bind(sync, c)

	dedup := alert.NewDedup(st.KV(), logger, nil)
	categories := store.NewCategoryRepository(st)
	budgetsRepo := store.NewBudgetRepository(st, c, sync, dedup, categories, nil)
	txRepo := store.NewTransactionRepository(st, c, sync)

	// The data API takes over reads when configured; the local store is
	// the offline source of truth otherwise.
	var (
		budgetSrc budget.BudgetSource      = budgetsRepo
		txSrc     budget.TransactionSource = txRepo
	)
	if cfg.API.BaseURL != "" {
		client := api.NewClient(cfg.API.BaseURL, config.SessionKey(cfg))
		if client == nil {
			_ = st.Close()
			_ = sync.Close()
			return nil, api.ErrNotAuthenticated
		}
		budgetSrc, txSrc = client, client
	}

	cachedBudgets := source.NewBudgets(budgetSrc, c, cfg.Cache.TTL(), cfg.Cache.StaleThreshold())
	cachedTxs := source.NewTransactions(txSrc, c, cfg.Cache.TTL(), cfg.Cache.StaleThreshold())

	return &app{
		cfg:       cfg,
		log:       logger,
		store:     st,
		cache:     c,
		sync:      sync,
		unbind:    unbind,
		budgets:   budgetsRepo,
		txs:       txRepo,
		dedup:     dedup,
		notifier:  alert.NewNotifier(dedup, notify.NewLogDispatcher(logger), logger),
		evaluator: budget.NewEvaluator(cachedBudgets, cachedTxs, logger),
		calc:      period.NewCalculator(nil),
	}, nil
}

func (a *app) Close() {
	a.unbind()
	if err := a.sync.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing crosstab transport")
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn().Err(err).Msg("closing store")
	}
}
