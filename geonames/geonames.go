// Package geonames implements the timezone lookup capability against the
// GeoNames timezoneJSON web service. The service is rate limited per
// account and per hour; quota exhaustion is surfaced as errors.QuotaError so
// callers can stop issuing lookups and retry in a later run.
package geonames

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/flightlog/flightlog"
	"github.com/flightlog/flightlog/errors"
	"github.com/flightlog/flightlog/logging"
)

// DefaultBaseURL is the production timezoneJSON endpoint
const DefaultBaseURL = "http://api.geonames.org/timezoneJSON"

// GeoNames status codes, per
// http://www.geonames.org/export/webservice-exception.html
const (
	statusAuthError   = 10
	statusInvalidDate = 14
	statusNoResult    = 15
	statusDailyLimit  = 18
	statusHourlyLimit = 19
	statusWeeklyLimit = 20
)

// ClientConf configures a GeoNames Client
type ClientConf struct {
	Username   string        // GeoNames account name, required
	BaseURL    string        // Defaults to DefaultBaseURL
	Timeout    time.Duration // Per-request timeout. Defaults to 3s.
	MaxRetries int           // Retry budget for 429/5xx responses. Defaults to 3.
	Logger     *logging.Logger
	HTTPClient *http.Client
}

// Client calls the GeoNames timezoneJSON service. It implements
// flightlog.TimezoneSource.
type Client struct {
	conf   *ClientConf
	logger *logging.Logger
	http   *http.Client
}

// CreateClient returns a new GeoNames Client
func CreateClient(conf *ClientConf) *Client {
	if conf.BaseURL == "" {
		conf.BaseURL = DefaultBaseURL
	}
	if conf.Timeout == 0 {
		conf.Timeout = 3 * time.Second
	}
	if conf.MaxRetries == 0 {
		conf.MaxRetries = 3
	}
	logger := conf.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	httpClient := conf.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: conf.Timeout}
	}
	return &Client{conf: conf, logger: logger, http: httpClient}
}

// Lookup resolves the timezone identifier and GMT offset for a coordinate
// pair on the given date. Transient HTTP failures are retried with backoff
// up to the configured budget; service-reported conditions are mapped to the
// error taxonomy (QuotaError, AuthError, NotFoundError, BadDateError).
func (c *Client) Lookup(ctx context.Context, lat, lon float64, date time.Time) (flightlog.Timezone, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("date", date.Format(flightlog.DateFormat))
	params.Set("username", c.conf.Username)
	reqURL := c.conf.BaseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= c.conf.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * 500 * time.Millisecond
			c.logger.Debugf("geonames: retry %d for (%.4f, %.4f) after %v", attempt, lat, lon, backoff)
			select {
			case <-ctx.Done():
				return flightlog.Timezone{}, ctx.Err()
			case <-time.After(backoff):
			}
		}
		tz, retryable, err := c.call(ctx, reqURL, lat, lon, date)
		if err == nil {
			return tz, nil
		}
		if !retryable {
			return flightlog.Timezone{}, err
		}
		lastErr = err
	}
	return flightlog.Timezone{}, errors.ResolutionError{
		Lat: lat, Lon: lon,
		Message: fmt.Sprintf("retry budget exhausted: %v", lastErr),
	}
}

func (c *Client) call(ctx context.Context, reqURL string, lat, lon float64, date time.Time) (flightlog.Timezone, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return flightlog.Timezone{}, false, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return flightlog.Timezone{}, true, errors.ResolutionError{Lat: lat, Lon: lon, Message: err.Error()}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return flightlog.Timezone{}, true, errors.ResolutionError{Lat: lat, Lon: lon, Message: err.Error()}
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return flightlog.Timezone{}, true, errors.ResolutionError{
			Lat: lat, Lon: lon,
			Message: fmt.Sprintf("http status %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return flightlog.Timezone{}, false, errors.ResolutionError{
			Lat: lat, Lon: lon,
			Message: fmt.Sprintf("http status %d: %s", resp.StatusCode, string(body)),
		}
	}
	if !gjson.ValidBytes(body) {
		return flightlog.Timezone{}, true, errors.ResolutionError{Lat: lat, Lon: lon, Message: "malformed response body"}
	}
	doc := gjson.ParseBytes(body)
	if status := doc.Get("status"); status.Exists() {
		return flightlog.Timezone{}, false, c.statusError(status, lat, lon, date)
	}
	tzid := doc.Get("timezoneId")
	if !tzid.Exists() || tzid.String() == "" {
		return flightlog.Timezone{}, false, errors.NotFoundError{Lat: lat, Lon: lon}
	}
	offset := doc.Get("gmtOffset")
	if dates := doc.Get("dates"); dates.Exists() && dates.IsArray() && len(dates.Array()) > 1 {
		// the dates array carries the offset that applied on the queried
		// date, which differs from gmtOffset around DST boundaries
		if o := dates.Array()[1].Get("offsetToGmt"); o.Exists() {
			offset = o
		}
	}
	if !offset.Exists() {
		return flightlog.Timezone{}, false, errors.BadDateError{Date: date}
	}
	return flightlog.Timezone{ID: tzid.String(), GMTOffset: offset.Float()}, false, nil
}

func (c *Client) statusError(status gjson.Result, lat, lon float64, date time.Time) error {
	code := int(status.Get("value").Int())
	msg := status.Get("message").String()
	c.logger.Warnf("geonames: service status %d: %s", code, msg)
	switch code {
	case statusDailyLimit, statusHourlyLimit, statusWeeklyLimit:
		return errors.QuotaError{Message: msg}
	case statusAuthError:
		return errors.AuthError{Message: msg}
	case statusInvalidDate:
		return errors.BadDateError{Date: date}
	case statusNoResult:
		return errors.NotFoundError{Lat: lat, Lon: lon}
	default:
		return errors.ResolutionError{Lat: lat, Lon: lon, Message: fmt.Sprintf("service status %d: %s", code, msg)}
	}
}
