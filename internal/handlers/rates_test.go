package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cargomail/internal/models"
	"cargomail/internal/repositories"
	"cargomail/internal/services/rates"
)

type MockRateRepo struct {
	mock.Mock
}

func (m *MockRateRepo) ListActive(ctx context.Context) ([]models.TariffRate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.TariffRate), args.Error(1)
}

func (m *MockRateRepo) ListInactive(ctx context.Context) ([]models.TariffRate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.TariffRate), args.Error(1)
}

func (m *MockRateRepo) GetByID(ctx context.Context, id uint) (*models.TariffRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TariffRate), args.Error(1)
}

func (m *MockRateRepo) Create(ctx context.Context, rate *models.TariffRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepo) CreateBatch(ctx context.Context, batch []*models.TariffRate) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockRateRepo) Update(ctx context.Context, rate *models.TariffRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepo) FindActiveByRoute(ctx context.Context, origin, destination string) ([]models.TariffRate, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).([]models.TariffRate), args.Error(1)
}

func (m *MockRateRepo) FindConflicts(ctx context.Context, probe repositories.ConflictProbe) ([]models.TariffRate, error) {
	args := m.Called(ctx, probe)
	return args.Get(0).([]models.TariffRate), args.Error(1)
}

func (m *MockRateRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRateRepo) DistinctServices(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockCountryRepo struct {
	mock.Mock
}

func (m *MockCountryRepo) List(ctx context.Context) ([]models.Country, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Country), args.Error(1)
}

func (m *MockCountryRepo) GetByCode(ctx context.Context, code string) (*models.Country, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Country), args.Error(1)
}

func (m *MockCountryRepo) Exists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCountryRepo) Upsert(ctx context.Context, country *models.Country) error {
	args := m.Called(ctx, country)
	return args.Error(0)
}

func TestBulkCreateHandler_ResponseShape(t *testing.T) {
	rateRepo := new(MockRateRepo)
	countryRepo := new(MockCountryRepo)
	countryRepo.On("Exists", mock.Anything, mock.Anything).Return(true, nil)
	rateRepo.On("FindConflicts", mock.Anything, mock.Anything).Return([]models.TariffRate{}, nil)
	rateRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	svc := rates.NewService(rateRepo, countryRepo, nil, nil, nil, time.Second)
	handler := NewRateHandler(svc)

	app := fiber.New()
	app.Post("/tariff-rates/bulk", handler.BulkCreate)

	body, _ := json.Marshal(map[string]interface{}{
		"origin_country":      "CN",
		"destination_country": "US",
		"base_rate":           0.5,
		"minimum_tariff":      25,
		"category_configs": []map[string]interface{}{
			{"category": "Electronics", "surcharge": 0.1},
			{"category": "Gifts", "surcharge": 0.3},
		},
	})
	req := httptest.NewRequest("POST", "/tariff-rates/bulk", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	raw, _ := io.ReadAll(resp.Body)
	var payload map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, float64(2), payload["total_created"])
	assert.NotContains(t, payload, "created_count")
}
