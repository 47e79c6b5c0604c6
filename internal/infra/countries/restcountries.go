// Package countries implements the country data source against the
// REST Countries v3.1 API, with an optional Redis read-through cache.
package countries

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"atlas/config"
	"atlas/internal/domain/entity"
	"atlas/internal/domain/service"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultBatchSize = 10

	// allFields trims the /all payload down to what the domain model carries.
	allFields = "name,cca3,capital,region,subregion,population,currencies,languages,borders,flags,tld,timezones,latlng,idd,car"
)

// countryDTO mirrors the REST Countries v3.1 response shape.
type countryDTO struct {
	Name struct {
		Common   string `json:"common"`
		Official string `json:"official"`
	} `json:"name"`
	CCA3       string   `json:"cca3"`
	Capital    []string `json:"capital"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Population int64    `json:"population"`
	Currencies map[string]struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"currencies"`
	Languages map[string]string `json:"languages"`
	Borders   []string          `json:"borders"`
	Flags     struct {
		PNG string `json:"png"`
		SVG string `json:"svg"`
		Alt string `json:"alt"`
	} `json:"flags"`
	TLD       []string  `json:"tld"`
	Timezones []string  `json:"timezones"`
	LatLng    []float64 `json:"latlng"`
	IDD       struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	Car struct {
		Side string `json:"side"`
	} `json:"car"`
}

// restCountries is the HTTP client for the REST Countries API.
type restCountries struct {
	baseURL    string
	batchSize  int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewRESTCountries creates the upstream country source.
func NewRESTCountries(cfg *config.Config, logger *slog.Logger) service.CountrySource {
	timeout := defaultTimeout
	batchSize := defaultBatchSize
	baseURL := ""

	if cfg.Countries != nil {
		if cfg.Countries.Timeout > 0 {
			timeout = cfg.Countries.Timeout
		}
		if cfg.Countries.BatchSize > 0 {
			batchSize = cfg.Countries.BatchSize
		}
		baseURL = cfg.Countries.BaseURL
	}

	return &restCountries{
		baseURL:    strings.TrimRight(baseURL, "/"),
		batchSize:  batchSize,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// All retrieves every country, sorted by common name.
func (s *restCountries) All(ctx context.Context) ([]*entity.Country, error) {
	dtos, err := s.fetch(ctx, "/all?fields="+allFields)
	if err != nil {
		return nil, err
	}

	result := make([]*entity.Country, 0, len(dtos))
	for i := range dtos {
		result = append(result, dtos[i].toEntity())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CommonName < result[j].CommonName
	})

	return result, nil
}

// GetByCode resolves a single alpha-3 code.
func (s *restCountries) GetByCode(ctx context.Context, code string) (*entity.Country, error) {
	dtos, err := s.fetch(ctx, "/alpha/"+url.PathEscape(strings.ToUpper(code)))
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, service.ErrCountryNotFound
	}

	return dtos[0].toEntity(), nil
}

// GetManyByCodes resolves codes in fixed-size chunks, concurrently. Chunks
// that fail are logged and omitted so one bad upstream call does not sink
// the whole lookup.
func (s *restCountries) GetManyByCodes(ctx context.Context, codes []string) ([]*entity.Country, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	chunks := chunkCodes(codes, s.batchSize)
	results := make([][]*entity.Country, len(chunks))

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		group.Go(func() error {
			dtos, err := s.fetch(groupCtx, "/alpha?codes="+url.QueryEscape(strings.Join(chunk, ",")))
			if err != nil {
				s.logger.Warn("Country batch lookup failed",
					slog.String("codes", strings.Join(chunk, ",")),
					slog.Any("error", err),
				)

				return nil
			}

			batch := make([]*entity.Country, 0, len(dtos))
			for j := range dtos {
				batch = append(batch, dtos[j].toEntity())
			}

			mu.Lock()
			results[i] = batch
			mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}

	merged := make([]*entity.Country, 0, len(codes))
	for _, batch := range results {
		merged = append(merged, batch...)
	}

	return merged, nil
}

func (s *restCountries) fetch(ctx context.Context, path string) ([]countryDTO, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "countries request failed")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck

		return nil, service.ErrCountryNotFound
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body) //nolint:errcheck

		return nil, errors.Errorf("countries API returned status %d", resp.StatusCode)
	}

	var dtos []countryDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, errors.Wrap(err, "decode countries response")
	}

	return dtos, nil
}

func (d *countryDTO) toEntity() *entity.Country {
	country := &entity.Country{
		Code:            d.CCA3,
		CommonName:      d.Name.Common,
		OfficialName:    d.Name.Official,
		Capitals:        d.Capital,
		Region:          d.Region,
		Subregion:       d.Subregion,
		Population:      d.Population,
		Borders:         d.Borders,
		FlagPNG:         d.Flags.PNG,
		FlagSVG:         d.Flags.SVG,
		FlagAlt:         d.Flags.Alt,
		TopLevelDomains: d.TLD,
		Timezones:       d.Timezones,
		DrivingSide:     d.Car.Side,
	}

	currencyCodes := make([]string, 0, len(d.Currencies))
	for code := range d.Currencies {
		currencyCodes = append(currencyCodes, code)
	}
	sort.Strings(currencyCodes)
	for _, code := range currencyCodes {
		currency := d.Currencies[code]
		country.Currencies = append(country.Currencies, entity.Currency{
			Code:   code,
			Name:   currency.Name,
			Symbol: currency.Symbol,
		})
	}

	languages := make([]string, 0, len(d.Languages))
	for _, name := range d.Languages {
		languages = append(languages, name)
	}
	sort.Strings(languages)
	country.Languages = languages

	// REST Countries reports latlng as [latitude, longitude].
	if len(d.LatLng) == 2 {
		country.Coordinates = orb.Point{d.LatLng[1], d.LatLng[0]}
	}

	if d.IDD.Root != "" {
		for _, suffix := range d.IDD.Suffixes {
			country.CallingCodes = append(country.CallingCodes, d.IDD.Root+suffix)
		}
		if len(d.IDD.Suffixes) == 0 {
			country.CallingCodes = []string{d.IDD.Root}
		}
	}

	return country
}

func chunkCodes(codes []string, size int) [][]string {
	if size <= 0 {
		size = defaultBatchSize
	}

	chunks := make([][]string, 0, (len(codes)+size-1)/size)
	for start := 0; start < len(codes); start += size {
		end := min(start+size, len(codes))
		chunks = append(chunks, codes[start:end])
	}

	return chunks
}
