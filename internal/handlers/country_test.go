package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cargomail/internal/errors"
	"cargomail/internal/models"
)

func TestCountryHandler_Get(t *testing.T) {
	repo := new(MockCountryRepo)
	repo.On("GetByCode", mock.Anything, "CN").Return(&models.Country{ID: 1, Code: "CN", Name: "China"}, nil)
	repo.On("GetByCode", mock.Anything, "ZZ").Return(nil, errors.ErrCountryNotFound)

	app := fiber.New()
	handler := NewCountryHandler(repo)
	app.Get("/countries/:code", handler.Get)

	resp, err := app.Test(httptest.NewRequest("GET", "/countries/CN", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var country models.Country
	assert.NoError(t, json.Unmarshal(raw, &country))
	assert.Equal(t, "China", country.Name)

	resp, err = app.Test(httptest.NewRequest("GET", "/countries/ZZ", nil))
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
