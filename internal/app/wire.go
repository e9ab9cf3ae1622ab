package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"vtruck/internal/api"
	"vtruck/internal/domain"
	"vtruck/internal/logger"
	"vtruck/internal/maps"
	"vtruck/internal/metrics"
	authsvc "vtruck/internal/services/auth"
	"vtruck/internal/services/catalog"
	draftsvc "vtruck/internal/services/drafts"
	fleetsvc "vtruck/internal/services/fleet"
	kycsvc "vtruck/internal/services/kyc"
	loadsvc "vtruck/internal/services/loads"
	marketsvc "vtruck/internal/services/market"
	settingssvc "vtruck/internal/services/settings"
	"vtruck/internal/store"
)

// Wire holds the stores, clients and services of one invocation.
type Wire struct {
	Config  *Config
	Log     *zap.Logger
	Metrics *metrics.Recorder

	API      *api.HTTPClient
	Maps     *maps.Client
	Sessions domain.SessionStore
	Prefs    domain.PreferenceStore
	Catalog  *catalog.Catalog

	Settings *settingssvc.Service
	Auth     *authsvc.Service
	Loads    *loadsvc.Service
	Market   *marketsvc.Service
	Fleet    *fleetsvc.Service
	KYC      *kycsvc.Service
	Drafts   *draftsvc.Service
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg *Config) (*Wire, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
		Writer: cfg.LogWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("create home %s: %w", cfg.Home, err)
	}

	// File-based stores
	sessionStore := store.NewSessionFileStore(cfg.Home, cfg.App.Passphrase)
	prefStore := store.NewPreferenceFileStore(cfg.Home)
	draftStore := store.NewDraftFileStore(cfg.Home)

	// Backend clients share the metrics recorder and optional HTTP client
	rec := metrics.NewRecorder()
	retry := api.DefaultRetryConfig()
	retry.MaxRetries = cfg.API.MaxRetries
	client, err := api.NewHTTP(api.Config{
		BaseURL:       cfg.API.BaseURL,
		BasicUser:     cfg.API.BasicUser,
		BasicPassword: cfg.API.BasicPassword,
		Timeout:       cfg.API.Timeout,
		RateLimit:     cfg.API.RateLimit,
		Burst:         cfg.API.Burst,
		Retry:         retry,
		HTTP:          cfg.HTTP,
		Sessions:      sessionStore,
		Logger:        log,
		Metrics:       rec,
	})
	if err != nil {
		return nil, err
	}
	mapsCfg := maps.DefaultConfig()
	mapsCfg.BaseURL = cfg.Maps.BaseURL
	mapsCfg.APIKey = cfg.Maps.APIKey
	mapsCfg.HTTP = cfg.HTTP
	mapsCfg.Logger = log
	mapsClient := maps.New(mapsCfg)

	// High-level services
	cat := catalog.New(client)
	settings := settingssvc.New(client, log)
	fleet := fleetsvc.New(client, cat, sessionStore, prefStore, log)
	market := marketsvc.New(client, fleet, sessionStore, mapsClient, marketsvc.Config{
		RadiusKM: cfg.Market.RadiusKM,
		PerPage:  cfg.Market.PerPage,
	}, log)

	return &Wire{
		Config:   cfg,
		Log:      log,
		Metrics:  rec,
		API:      client,
		Maps:     mapsClient,
		Sessions: sessionStore,
		Prefs:    prefStore,
		Catalog:  cat,
		Settings: settings,
		Auth:     authsvc.New(client, sessionStore, settings, log),
		Loads:    loadsvc.New(client, cat, mapsClient, log),
		Market:   market,
		Fleet:    fleet,
		KYC:      kycsvc.New(client, sessionStore, log),
		Drafts:   draftsvc.New(draftStore, log),
	}, nil
}

// Close flushes the logger.
func (w *Wire) Close() {
	_ = w.Log.Sync()
}
