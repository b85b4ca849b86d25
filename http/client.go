// Package http is a client for a remote sensor hub which can supply live
// environmental readings in place of the synthetic simulation.
package http

import (
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/verdantio/verdant/estimate"
	"github.com/verdantio/verdant/util"
)

var logger = util.Logger.WithField("module", "http")

////////////////////////////////////////
// JSON data types
////////////////////////////////////////

type DeviceRegisterResult struct {
	Data struct {
		DeviceID string `json:"deviceId"`
		Name     string `json:"name"`
		ID       int    `json:"id"`
	} `json:"data"`
	Token string `json:"token"`
}

type ReadingsResult struct {
	Readings estimate.Readings `json:"readings"`
	TakenAt  string            `json:"takenAt"`
}

type APIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Code       int    `json:"code"`
}

func (err *APIError) Error() string {
	return fmt.Sprintf("a sensor hub API error occurred (code %d): %s", err.Code, err.Message)
}

var _ error = (*APIError)(nil)

////////////////////////////////////////
// API
////////////////////////////////////////

func checkAPIError(err interface{}) *APIError {
	apiErr, ok := err.(*APIError)
	if !ok || apiErr == nil {
		return &APIError{"Invalid response", 500, util.EC_Internal}
	}
	return apiErr
}

type Config struct {
	HubURL                  string
	DeviceRegistrationToken string
}

type DeviceData struct {
	DeviceID    string
	DeviceToken string
}

type APIClient struct {
	Config *Config
	Device *DeviceData
	rest   *resty.Client
}

func NewAPIClient(config *Config) *APIClient {
	return &APIClient{
		config,
		nil,
		resty.New().
			SetBaseURL(config.HubURL).
			SetError(&APIError{}),
	}
}

// Register registers this device with the sensor hub, acquiring a device
// token for subsequent requests
func (a *APIClient) Register() error {
	req := a.rest.R()
	req.SetHeader("Authorization", "Bearer "+a.Config.DeviceRegistrationToken)
	req.SetResult(&DeviceRegisterResult{})
	res, err := req.Post("/devices/register")
	if err != nil {
		return err
	}
	if res.IsError() {
		return checkAPIError(res.Error())
	}
	result := res.Result().(*DeviceRegisterResult)
	a.Device = &DeviceData{
		DeviceID:    result.Data.DeviceID,
		DeviceToken: result.Token,
	}
	logger.WithField("deviceID", a.Device.DeviceID).Info("device registered")
	return nil
}

// Readings fetches the hub's latest environmental readings
func (a *APIClient) Readings() (readings estimate.Readings, err error) {
	if a.Device == nil {
		err = fmt.Errorf("no device data to fetch readings with")
		return
	}
	req := a.rest.R()
	req.SetHeader("Authorization", "Bearer "+a.Device.DeviceToken)
	req.SetResult(&ReadingsResult{})
	res, err := req.Get("/readings")
	if err != nil {
		return
	}
	if res.IsError() {
		err = checkAPIError(res.Error())
		return
	}
	result := res.Result().(*ReadingsResult)
	readings = result.Readings
	logger.WithField("readings", readings).Debug("fetched hub readings")
	return
}

// RegisterAndRead registers the device if necessary and fetches readings
func (a *APIClient) RegisterAndRead() (readings estimate.Readings, err error) {
	if a.Device == nil {
		err = a.Register()
		if err != nil {
			return
		}
	}
	readings, err = a.Readings()
	return
}
