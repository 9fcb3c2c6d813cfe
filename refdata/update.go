package refdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/flightlog/flightlog/logging"
)

// Source URLs for reference-data refreshes
const (
	OurAirportsURL      = "https://davidmegginson.github.io/ourairports-data/airports.csv"
	OpenFlightsURLBase  = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/"
	openFlightsAirlines = "airlines.dat"
	openFlightsAircraft = "planes.dat"
)

// UpdaterConf configures an Updater
type UpdaterConf struct {
	DataDir    string        // Directory reference files are written to
	Timeout    time.Duration // Per-download timeout. Defaults to 30s.
	Logger     *logging.Logger
	HTTPClient *http.Client
}

// Updater refreshes local copies of the reference tables
type Updater struct {
	conf   *UpdaterConf
	logger *logging.Logger
	http   *http.Client
}

// CreateUpdater returns a new Updater writing into the given data directory
func CreateUpdater(conf *UpdaterConf) *Updater {
	if conf.Timeout == 0 {
		conf.Timeout = 30 * time.Second
	}
	logger := conf.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	httpClient := conf.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: conf.Timeout}
	}
	return &Updater{conf: conf, logger: logger, http: httpClient}
}

// UpdateAirports downloads a fresh OurAirports airport table
func (u *Updater) UpdateAirports(ctx context.Context) error {
	return u.download(ctx, OurAirportsURL, filepath.Join(u.conf.DataDir, "airports.csv"))
}

// UpdateAirlines downloads a fresh OpenFlights airline table
func (u *Updater) UpdateAirlines(ctx context.Context) error {
	return u.download(ctx, OpenFlightsURLBase+openFlightsAirlines, filepath.Join(u.conf.DataDir, openFlightsAirlines))
}

// UpdateAircraft downloads a fresh OpenFlights aircraft table
func (u *Updater) UpdateAircraft(ctx context.Context) error {
	return u.download(ctx, OpenFlightsURLBase+openFlightsAircraft, filepath.Join(u.conf.DataDir, openFlightsAircraft))
}

// UpdateAll refreshes every reference table, stopping at the first failure
func (u *Updater) UpdateAll(ctx context.Context) error {
	if err := u.UpdateAirports(ctx); err != nil {
		return err
	}
	if err := u.UpdateAirlines(ctx); err != nil {
		return err
	}
	return u.UpdateAircraft(ctx)
}

// download fetches a URL into a temporary file and renames it over the
// target only on success, so a failed refresh never truncates a good copy
func (u *Updater) download(ctx context.Context, url, path string) error {
	u.logger.Infof("refdata: updating %s from %s", path, url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := u.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refdata: %s returned status %d", url, resp.StatusCode)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	u.logger.Infof("refdata: completed update of %s", path)
	return nil
}
