package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/dto"
	"options-trading-backend/internal/marketdata/repository"
	"options-trading-backend/pkg/logger"

	"gorm.io/gorm"
)

// ConfigService defines the interface for typed system configuration.
type ConfigService interface {
	Get(ctx context.Context, key string) (*dto.ConfigResponse, error)
	Set(ctx context.Context, key string, req *dto.SetConfigRequest) (*dto.ConfigResponse, error)
	GetAll(ctx context.Context) ([]*dto.ConfigResponse, error)
}

// NewConfigService creates a new config service.
func NewConfigService(configRepo repository.ConfigRepository, logger *logger.Logger) ConfigService {
	return &configService{configRepo: configRepo, logger: logger}
}

type configService struct {
	configRepo repository.ConfigRepository
	logger     *logger.Logger
}

// Get retrieves a configuration entry with its value decoded per its type.
func (s *configService) Get(ctx context.Context, key string) (*dto.ConfigResponse, error) {
	cfg, err := s.configRepo.Get(ctx, key)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: config %q", ErrNotFound, key)
		}
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	return s.mapToResponse(cfg)
}

// Set validates the value against its declared type and upserts the entry.
func (s *configService) Set(ctx context.Context, key string, req *dto.SetConfigRequest) (*dto.ConfigResponse, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: config key is required", ErrValidation)
	}

	valueType := entity.ConfigValueType(strings.ToUpper(req.ValueType))
	if valueType == "" {
		valueType = entity.ConfigTypeString
	}
	if err := validateConfigValue(req.Value, valueType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	cfg := &entity.SystemConfig{
		Key:         key,
		Value:       req.Value,
		ValueType:   valueType,
		Description: req.Description,
	}
	if err := s.configRepo.Upsert(ctx, cfg); err != nil {
		s.logger.Error("Failed to set config", logger.ErrorField(err), logger.Field("key", key))
		return nil, fmt.Errorf("failed to set config: %w", err)
	}

	s.logger.Info("Updated config", logger.Field("key", key), logger.Field("value", req.Value))
	return s.mapToResponse(cfg)
}

// GetAll retrieves every configuration entry.
func (s *configService) GetAll(ctx context.Context) ([]*dto.ConfigResponse, error) {
	cfgs, err := s.configRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get configs: %w", err)
	}

	out := make([]*dto.ConfigResponse, 0, len(cfgs))
	for i := range cfgs {
		resp, err := s.mapToResponse(&cfgs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *configService) mapToResponse(cfg *entity.SystemConfig) (*dto.ConfigResponse, error) {
	value, err := decodeConfigValue(cfg.Value, cfg.ValueType)
	if err != nil {
		return nil, fmt.Errorf("corrupt config value for %q: %w", cfg.Key, err)
	}
	return &dto.ConfigResponse{
		Key:         cfg.Key,
		Value:       value,
		ValueType:   string(cfg.ValueType),
		Description: cfg.Description,
		UpdatedAt:   cfg.UpdatedAt,
	}, nil
}

// decodeConfigValue converts the stored string per the type discriminator.
// Unknown types fall back to STRING.
func decodeConfigValue(raw string, valueType entity.ConfigValueType) (interface{}, error) {
	switch valueType {
	case entity.ConfigTypeNumber:
		return strconv.ParseFloat(raw, 64)
	case entity.ConfigTypeBoolean:
		return strings.EqualFold(raw, "true"), nil
	case entity.ConfigTypeJSON:
		var v interface{}
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return raw, nil
	}
}

func validateConfigValue(raw string, valueType entity.ConfigValueType) error {
	switch valueType {
	case entity.ConfigTypeNumber:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return fmt.Errorf("value %q is not a number", raw)
		}
	case entity.ConfigTypeBoolean:
		if !strings.EqualFold(raw, "true") && !strings.EqualFold(raw, "false") {
			return fmt.Errorf("value %q is not a boolean", raw)
		}
	case entity.ConfigTypeJSON:
		if !json.Valid([]byte(raw)) {
			return fmt.Errorf("value is not valid JSON")
		}
	case entity.ConfigTypeString:
	default:
		return fmt.Errorf("unknown value type %q", valueType)
	}
	return nil
}
