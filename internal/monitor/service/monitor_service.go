package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/monitor/config"
	"options-trading-backend/internal/monitor/repository"
	"options-trading-backend/pkg/common"
	"options-trading-backend/pkg/logger"
	"options-trading-backend/pkg/telegram"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// maxHealthBody caps how much of a probe response body is read.
const maxHealthBody = 4096

// MonitorService polls service health endpoints, records observations and
// alerts on state transitions.
type MonitorService interface {
	Start(ctx context.Context)
	CheckAll(ctx context.Context)
	SendSummary(ctx context.Context)
}

// NewMonitorService creates a new monitor service. redisClient may be nil;
// transition events are then only logged and sent to Telegram.
func NewMonitorService(
	healthRepo repository.HealthRepository,
	redisClient *redis.Client,
	notifier telegram.Notifier,
	logger *logger.Logger,
	cfg *config.Config,
	pollInterval time.Duration,
	requestTimeout time.Duration,
) MonitorService {
	return &monitorService{
		healthRepo:   healthRepo,
		redisClient:  redisClient,
		notifier:     notifier,
		logger:       logger,
		cfg:          cfg,
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: requestTimeout},
		lastStates:   make(map[string]entity.HealthState),
	}
}

type monitorService struct {
	healthRepo   repository.HealthRepository
	redisClient  *redis.Client
	notifier     telegram.Notifier
	logger       *logger.Logger
	cfg          *config.Config
	pollInterval time.Duration
	httpClient   *http.Client

	mu         sync.Mutex
	lastStates map[string]entity.HealthState
}

// Start begins the periodic probe loop and the summary cron. It blocks until
// the context is cancelled.
func (s *monitorService) Start(ctx context.Context) {
	c := cron.New()
	if s.cfg.Monitor.SummaryCron != "" {
		if _, err := c.AddFunc(s.cfg.Monitor.SummaryCron, func() { s.SendSummary(ctx) }); err != nil {
			s.logger.Error("Failed to register summary cron", logger.ErrorField(err))
		} else {
			c.Start()
			defer c.Stop()
		}
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.CheckAll(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Monitor service stopping")
			return
		case <-ticker.C:
			s.CheckAll(ctx)
		}
	}
}

// CheckAll probes every configured target once.
func (s *monitorService) CheckAll(ctx context.Context) {
	for _, target := range s.cfg.Monitor.Targets {
		check := s.probe(ctx, target)
		if err := s.healthRepo.Create(ctx, check); err != nil {
			s.logger.Error("Failed to store health check",
				logger.ErrorField(err), logger.Field("service", target.Name))
		}
		s.handleTransition(ctx, check)
	}
}

func (s *monitorService) probe(ctx context.Context, target config.Target) *entity.ServiceHealthCheck {
	check := &entity.ServiceHealthCheck{
		Service:   target.Name,
		URL:       target.URL,
		CheckedAt: time.Now().UTC(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL, nil)
	if err != nil {
		check.State = entity.HealthStateDown
		check.Error = err.Error()
		return check
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	check.LatencyMS = float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			check.State = entity.HealthStateTimeout
		} else {
			check.State = entity.HealthStateDown
		}
		check.Error = err.Error()
		return check
	}
	defer resp.Body.Close()

	check.HTTPStatus = resp.StatusCode
	if resp.StatusCode >= http.StatusBadRequest {
		check.State = entity.HealthStateDegraded
		check.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return check
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHealthBody))
	if err != nil {
		check.State = entity.HealthStateDegraded
		check.Error = err.Error()
		return check
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Status != "" && payload.Status != "healthy" {
		check.State = entity.HealthStateDegraded
		check.Error = fmt.Sprintf("reported status %q", payload.Status)
		return check
	}

	check.State = entity.HealthStateHealthy
	return check
}

// handleTransition alerts when a service moves between states. The first
// observation after startup only seeds the baseline.
func (s *monitorService) handleTransition(ctx context.Context, check *entity.ServiceHealthCheck) {
	s.mu.Lock()
	prev, seen := s.lastStates[check.Service]
	s.lastStates[check.Service] = check.State
	s.mu.Unlock()

	if !seen || prev == check.State {
		return
	}

	s.logger.Warn("Service health state changed",
		logger.Field("service", check.Service),
		logger.Field("from", string(prev)),
		logger.Field("to", string(check.State)),
		logger.Field("error", check.Error))

	msg := fmt.Sprintf("*%s* health changed: %s → %s", check.Service, prev, check.State)
	if check.Error != "" {
		msg += fmt.Sprintf("\n`%s`", check.Error)
	}
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Error("Failed to send health alert", logger.ErrorField(err))
	}

	if s.redisClient != nil {
		event, _ := json.Marshal(check)
		if err := s.redisClient.Publish(ctx, common.RedisChannelHealth, event).Err(); err != nil {
			s.logger.Error("Failed to publish health event", logger.ErrorField(err))
		}
	}
}

// SendSummary reports per-service 24h uptime to Telegram.
func (s *monitorService) SendSummary(ctx context.Context) {
	since := time.Now().UTC().Add(-24 * time.Hour)

	var b strings.Builder
	b.WriteString("*Daily health summary*\n")
	for _, target := range s.cfg.Monitor.Targets {
		uptime, err := s.healthRepo.UptimeSince(ctx, target.Name, since)
		if err != nil {
			s.logger.Error("Failed to compute uptime",
				logger.ErrorField(err), logger.Field("service", target.Name))
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %.1f%% uptime\n", target.Name, uptime))
	}

	if err := s.notifier.SendMessage(b.String()); err != nil {
		s.logger.Error("Failed to send daily summary", logger.ErrorField(err))
	}
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
