package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/cfbcountdown/go/internal/gateway"
	"github.com/mcdev12/cfbcountdown/go/internal/kickoff"
	"github.com/mcdev12/cfbcountdown/go/internal/logos"
	"github.com/mcdev12/cfbcountdown/go/internal/models"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Gateway   *gateway.Service
	Watcher   *kickoff.Watcher
	Publisher kickoff.Publisher
}

func setupServices(ctx context.Context, config *Config, games []models.Game) (*Services, error) {
	// Wire up dependency chain
	// Fixture → Catalog → Gateway (sessions, API, logos) → Kickoff watcher
	clock := clockwork.NewRealClock()

	resolver := logos.NewResolver(os.DirFS(config.Logos.Dir),
		logos.WithPrefix(config.Logos.Prefix),
		logos.WithFallback(config.Logos.Fallback),
	)

	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.TickInterval = config.Schedule.TickInterval

	catalog := gateway.Catalog{
		Games:       games,
		Conferences: config.Schedule.Conferences,
	}
	gatewayService := gateway.NewService(gatewayConfig, catalog, resolver, clock)

	publisher, err := setupPublisher(ctx, config, gatewayService)
	if err != nil {
		return nil, err
	}

	return &Services{
		Gateway:   gatewayService,
		Watcher:   kickoff.NewWatcher(clock, publisher, games),
		Publisher: publisher,
	}, nil
}

// setupPublisher always announces kickoffs to connected pages and the log,
// and to JetStream when enabled.
func setupPublisher(ctx context.Context, config *Config, pages kickoff.Publisher) (kickoff.Publisher, error) {
	publishers := kickoff.Fanout{pages, kickoff.LogPublisher{}}
	if !config.Kickoff.Enabled {
		return publishers, nil
	}

	jsConfig := kickoff.DefaultJetStreamConfig()
	if config.Kickoff.NatsURL != "" {
		jsConfig.URL = config.Kickoff.NatsURL
	}
	if config.Kickoff.StreamName != "" {
		jsConfig.StreamName = config.Kickoff.StreamName
	}
	if config.Kickoff.SubjectPrefix != "" {
		jsConfig.SubjectPrefix = config.Kickoff.SubjectPrefix
	}

	js, err := kickoff.NewJetStreamPublisher(ctx, jsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kickoff publisher: %w", err)
	}

	log.Info().
		Str("nats_url", jsConfig.URL).
		Str("stream", jsConfig.StreamName).
		Msg("kickoff events will be published to JetStream")
	return append(publishers, js), nil
}
