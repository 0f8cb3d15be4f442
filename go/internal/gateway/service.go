package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/mcdev12/cfbcountdown/go/internal/countdown"
	"github.com/mcdev12/cfbcountdown/go/internal/kickoff"
	"github.com/mcdev12/cfbcountdown/go/internal/logos"
	"github.com/rs/zerolog/log"
)

// Service is the schedule gateway: WebSocket sessions plus the read API
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	apiHandler        *APIHandler
	logos             *logos.Resolver
	clock             countdown.Clock
}

// Config holds configuration for the schedule gateway
type Config struct {
	ConnectionConfig ConnectionConfig
	TickInterval     time.Duration
}

// DefaultConfig returns default configuration for the schedule gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		TickInterval:     countdown.TickInterval,
	}
}

// NewService creates a new schedule gateway service
func NewService(config Config, catalog Catalog, resolver *logos.Resolver, clock countdown.Clock) *Service {
	factory := func(id string, sender Sender) *Session {
		return NewSession(id, catalog, clock, resolver, config.TickInterval, sender)
	}

	connectionManager := NewConnectionManager(config.ConnectionConfig, factory)

	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager),
		apiHandler:        NewAPIHandler(catalog, clock, resolver),
		logos:             resolver,
		clock:             clock,
	}
}

// Start runs the gateway until ctx is cancelled
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting schedule gateway service")
	s.connectionManager.Start(ctx)
	log.Info().Msg("schedule gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket, API and logo routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	s.apiHandler.RegisterRoutes(mux)
	mux.Handle(s.logos.Prefix(), s.logos.Handler())
	log.Info().Msg("schedule gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	stats := s.connectionManager.GetConnectionStats()
	stats["service"] = "schedule_gateway"
	stats["status"] = "running"
	return stats
}

// Publish implements kickoff.Publisher by broadcasting the kickoff to every page
func (s *Service) Publish(_ context.Context, event kickoff.Event) error {
	scheduleEvent, err := NewScheduleEvent(EventTypeKickoff, event, s.clock.Now())
	if err != nil {
		return err
	}
	s.connectionManager.BroadcastAll(scheduleEvent)
	return nil
}

// Close implements kickoff.Publisher; connections are closed when Start returns
func (s *Service) Close() error {
	return nil
}
