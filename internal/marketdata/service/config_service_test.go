package service

import (
	"context"
	"testing"

	"options-trading-backend/internal/entity"
	"options-trading-backend/internal/marketdata/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeConfigRepo struct {
	entries map[string]*entity.SystemConfig
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{entries: map[string]*entity.SystemConfig{}}
}

func (f *fakeConfigRepo) Get(ctx context.Context, key string) (*entity.SystemConfig, error) {
	cfg, ok := f.entries[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *cfg
	return &cp, nil
}

func (f *fakeConfigRepo) Upsert(ctx context.Context, cfg *entity.SystemConfig) error {
	cp := *cfg
	f.entries[cfg.Key] = &cp
	return nil
}

func (f *fakeConfigRepo) FindAll(ctx context.Context) ([]entity.SystemConfig, error) {
	var out []entity.SystemConfig
	for _, cfg := range f.entries {
		out = append(out, *cfg)
	}
	return out, nil
}

func TestConfigService_TypedRoundTrip(t *testing.T) {
	svc := NewConfigService(newFakeConfigRepo(), testLogger(t))
	ctx := context.Background()

	tests := []struct {
		name      string
		key       string
		value     string
		valueType string
		expected  interface{}
	}{
		{"number", "max_risk_per_trade", "2.5", "NUMBER", 2.5},
		{"boolean true", "trading_enabled", "true", "BOOLEAN", true},
		{"boolean false", "data_collection_enabled", "FALSE", "BOOLEAN", false},
		{"string", "broker_name", "zerodha", "STRING", "zerodha"},
		{"string by default", "notes", "hello", "", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := svc.Set(ctx, tt.key, &dto.SetConfigRequest{Value: tt.value, ValueType: tt.valueType})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, set.Value)

			got, err := svc.Get(ctx, tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.Value)
		})
	}
}

func TestConfigService_JSONValue(t *testing.T) {
	svc := NewConfigService(newFakeConfigRepo(), testLogger(t))

	set, err := svc.Set(context.Background(), "strategy_params",
		&dto.SetConfigRequest{Value: `{"lots": 2, "hedged": true}`, ValueType: "JSON"})
	require.NoError(t, err)

	m, ok := set.Value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 2.0, m["lots"])
	assert.Equal(t, true, m["hedged"])
}

func TestConfigService_RejectsMistypedValues(t *testing.T) {
	svc := NewConfigService(newFakeConfigRepo(), testLogger(t))
	ctx := context.Background()

	tests := []struct {
		name      string
		value     string
		valueType string
	}{
		{"not a number", "abc", "NUMBER"},
		{"not a boolean", "yes", "BOOLEAN"},
		{"not json", "{broken", "JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Set(ctx, "some_key", &dto.SetConfigRequest{Value: tt.value, ValueType: tt.valueType})
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := svc.Set(ctx, "", &dto.SetConfigRequest{Value: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConfigService_GetMissingKey(t *testing.T) {
	svc := NewConfigService(newFakeConfigRepo(), testLogger(t))

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
