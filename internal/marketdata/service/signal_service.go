package service

import (
	"context"
	"encoding/json"
	"fmt"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/logger"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SignalService defines the interface for managing trading signals.
type SignalService interface {
	CreateSignal(ctx context.Context, req *dto.CreateSignalRequest) (*dto.SignalResponse, error)
	GetSignals(ctx context.Context, symbol, status string) ([]*dto.SignalResponse, error)
	GetSignalByID(ctx context.Context, id int64) (*dto.SignalResponse, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*dto.SignalResponse, error)
}

// NewSignalService creates a new signal service.
func NewSignalService(signalRepo repository.SignalRepository, logger *logger.Logger) SignalService {
	return &signalService{signalRepo: signalRepo, logger: logger}
}

type signalService struct {
	signalRepo repository.SignalRepository
	logger     *logger.Logger
}

var validDirections = map[string]bool{"LONG": true, "SHORT": true, "NEUTRAL": true}

// CreateSignal validates and stores a new signal. Signals always start ACTIVE.
func (s *signalService) CreateSignal(ctx context.Context, req *dto.CreateSignalRequest) (*dto.SignalResponse, error) {
	if req.Symbol == "" || req.SignalType == "" {
		return nil, fmt.Errorf("%w: symbol and signal_type are required", ErrValidation)
	}
	if !validDirections[req.Direction] {
		return nil, fmt.Errorf("%w: direction must be LONG, SHORT or NEUTRAL", ErrValidation)
	}
	if req.ConfidenceScore < 0 || req.ConfidenceScore > 100 {
		return nil, fmt.Errorf("%w: confidence_score must be within [0, 100]", ErrValidation)
	}

	conditions := req.MarketConditions
	if len(conditions) == 0 {
		conditions = json.RawMessage("{}")
	}

	signal := &entity.TradingSignal{
		Symbol:           req.Symbol,
		SignalType:       req.SignalType,
		Direction:        req.Direction,
		EntryPrice:       req.EntryPrice,
		StopLoss:         req.StopLoss,
		TargetPrice:      req.TargetPrice,
		ConfidenceScore:  req.ConfidenceScore,
		Reasoning:        req.Reasoning,
		Status:           entity.SignalStatusActive,
		Timeframe:        req.Timeframe,
		MarketConditions: datatypes.JSON(conditions),
	}

	if err := s.signalRepo.Create(ctx, signal); err != nil {
		s.logger.Error("Failed to create signal", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create signal: %w", err)
	}

	s.logger.Info("Stored trading signal",
		logger.Field("signal_id", signal.ID),
		logger.Field("signal_type", signal.SignalType))
	return s.mapToResponse(signal), nil
}

// GetSignals lists signals filtered by symbol and status.
func (s *signalService) GetSignals(ctx context.Context, symbol, status string) ([]*dto.SignalResponse, error) {
	st := entity.SignalStatus(status)
	if status != "" && !isKnownStatus(st) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	signals, err := s.signalRepo.Find(ctx, symbol, st)
	if err != nil {
		return nil, fmt.Errorf("failed to get signals: %w", err)
	}

	out := make([]*dto.SignalResponse, 0, len(signals))
	for i := range signals {
		out = append(out, s.mapToResponse(&signals[i]))
	}
	return out, nil
}

// GetSignalByID retrieves a single signal.
func (s *signalService) GetSignalByID(ctx context.Context, id int64) (*dto.SignalResponse, error) {
	signal, err := s.signalRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: signal %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}
	return s.mapToResponse(signal), nil
}

// UpdateStatus transitions a signal out of ACTIVE. Terminal states cannot
// change again.
func (s *signalService) UpdateStatus(ctx context.Context, id int64, status string) (*dto.SignalResponse, error) {
	target := entity.SignalStatus(status)
	if !isKnownStatus(target) || target == entity.SignalStatusActive {
		return nil, fmt.Errorf("%w: cannot transition to %q", ErrValidation, status)
	}

	signal, err := s.signalRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: signal %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}
	if signal.Status != entity.SignalStatusActive {
		return nil, fmt.Errorf("%w: signal %d is already %s", ErrInvalidTransition, id, signal.Status)
	}

	if err := s.signalRepo.UpdateStatus(ctx, id, target); err != nil {
		return nil, fmt.Errorf("failed to update signal status: %w", err)
	}

	signal.Status = target
	s.logger.Info("Signal status updated",
		logger.Field("signal_id", id),
		logger.Field("status", string(target)))
	return s.mapToResponse(signal), nil
}

func (s *signalService) mapToResponse(signal *entity.TradingSignal) *dto.SignalResponse {
	return &dto.SignalResponse{
		ID:               signal.ID,
		Symbol:           signal.Symbol,
		SignalType:       signal.SignalType,
		Direction:        signal.Direction,
		EntryPrice:       signal.EntryPrice,
		StopLoss:         signal.StopLoss,
		TargetPrice:      signal.TargetPrice,
		ConfidenceScore:  signal.ConfidenceScore,
		Reasoning:        signal.Reasoning,
		Status:           string(signal.Status),
		Timeframe:        signal.Timeframe,
		MarketConditions: json.RawMessage(signal.MarketConditions),
		CreatedAt:        signal.CreatedAt,
		UpdatedAt:        signal.UpdatedAt,
	}
}

func isKnownStatus(s entity.SignalStatus) bool {
	switch s {
	case entity.SignalStatusActive, entity.SignalStatusTriggered,
		entity.SignalStatusExpired, entity.SignalStatusCancelled:
		return true
	}
	return false
}
