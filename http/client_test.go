package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeHubServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/devices/register", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer reg-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(APIError{"bad token", 401, 106})
			return
		}
		var result DeviceRegisterResult
		result.Data.DeviceID = "dev-1"
		result.Data.Name = "verdant"
		result.Token = "dev-token"
		json.NewEncoder(w).Encode(result)
	})
	mux.HandleFunc("/readings", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer dev-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(APIError{"bad token", 401, 106})
			return
		}
		var result ReadingsResult
		result.Readings.SoilMoisture = 25
		result.Readings.Temperature = 35
		result.Readings.AirHumidity = 30
		json.NewEncoder(w).Encode(result)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAPIClient_RegisterAndRead(t *testing.T) {
	ass := assert.New(t)
	server := makeHubServer(t)

	client := NewAPIClient(&Config{
		HubURL:                  server.URL,
		DeviceRegistrationToken: "reg-token",
	})

	readings, err := client.RegisterAndRead()
	require.NoError(t, err)
	ass.Equal("dev-1", client.Device.DeviceID)
	ass.Equal(25.0, readings.SoilMoisture)
	ass.Equal(35.0, readings.Temperature)
	ass.Equal(30.0, readings.AirHumidity)
}

func TestAPIClient_RegisterBadToken(t *testing.T) {
	ass := assert.New(t)
	server := makeHubServer(t)

	client := NewAPIClient(&Config{
		HubURL:                  server.URL,
		DeviceRegistrationToken: "wrong",
	})

	err := client.Register()
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	ass.Equal(401, apiErr.StatusCode)
}

func TestAPIClient_ReadingsWithoutRegister(t *testing.T) {
	client := NewAPIClient(&Config{HubURL: "http://localhost:0"})
	_, err := client.Readings()
	assert.Error(t, err)
}
