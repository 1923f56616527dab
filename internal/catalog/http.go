package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"github.com/Simplici0/decoquote/internal/cache"
	"github.com/Simplici0/decoquote/internal/pricing"
)

const maxResponseBytes = 1 << 20

// Cache is the subset of the Redis cache HTTPSource uses.
type Cache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// HTTPOptions configures an HTTPSource.
type HTTPOptions struct {
	BaseURL  string
	Timeout  time.Duration
	Retries  uint64
	Backoff  time.Duration
	Cache    Cache
	CacheTTL time.Duration
	Client   *http.Client
}

// HTTPSource loads pricing data from the upstream product-data service.
type HTTPSource struct {
	baseURL  string
	client   *http.Client
	retries  uint64
	backoff  time.Duration
	cache    Cache
	cacheTTL time.Duration
	log      logrus.FieldLogger
}

// NewHTTPSource validates opts and returns a source. A nil Cache disables
// response caching.
func NewHTTPSource(opts HTTPOptions, log logrus.FieldLogger) (*HTTPSource, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid upstream base url %q", opts.BaseURL)
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}

	return &HTTPSource{
		baseURL:  base.String(),
		client:   client,
		retries:  opts.Retries,
		backoff:  backoff,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		log:      log,
	}, nil
}

type blankCostPayload struct {
	Style     string  `json:"style"`
	BlankCost float64 `json:"blank_cost"`
}

type tierPayload struct {
	Label             string  `json:"label"`
	MinQty            int     `json:"min_qty"`
	MaxQty            *int    `json:"max_qty"`
	MarginDenominator float64 `json:"margin_denominator"`
}

type costRowPayload struct {
	Component     string  `json:"component,omitempty"`
	TierLabel     string  `json:"tier_label"`
	BaselineUnits float64 `json:"baseline_units"`
	BaseCost      float64 `json:"base_cost"`
	IncrementCost float64 `json:"increment_cost"`
	IncrementSize float64 `json:"increment_size"`
}

type profilePayload struct {
	UnitName        string               `json:"unit_name"`
	DefaultBaseline float64              `json:"default_baseline"`
	LTMThreshold    int                  `json:"ltm_threshold"`
	LTMFee          float64              `json:"ltm_fee"`
	Rounding        pricing.RoundingRule `json:"rounding"`
}

// Load implements Source. Successful results are cached when a cache is
// configured; cache failures are logged and otherwise ignored.
func (s *HTTPSource) Load(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error) {
	style = NormalizeStyle(style)
	key := cache.Key(cache.KeyPrefixCatalog, style, string(method))
	entry := s.log.WithFields(logrus.Fields{"style": style, "method": method})

	if s.cache != nil {
		var cached pricing.PricingData
		err := s.cache.Get(ctx, key, &cached)
		switch {
		case err == nil:
			entry.Debug("catalog cache hit")
			return cached, nil
		case !errors.Is(err, cache.ErrMiss):
			entry.WithError(err).Warn("catalog cache read failed")
		}
	}

	data, err := s.fetch(ctx, style, method)
	if err != nil {
		return pricing.PricingData{}, &FetchError{Style: style, Method: method, Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			entry.WithError(err).Warn("catalog cache write failed")
		}
	}
	return data, nil
}

func (s *HTTPSource) fetch(ctx context.Context, style string, method pricing.Method) (pricing.PricingData, error) {
	profile, ok := pricing.DefaultProfile(method)
	if !ok {
		return pricing.PricingData{}, fmt.Errorf("%w: unknown method %q", pricing.ErrInvalidRequest, method)
	}

	stylePath := "/styles/" + url.PathEscape(style)
	methodPath := stylePath + "/methods/" + url.PathEscape(string(method))

	var blank blankCostPayload
	if err := s.getJSON(ctx, stylePath+"/blank-cost", &blank); err != nil {
		return pricing.PricingData{}, fmt.Errorf("blank cost: %w", err)
	}

	var tiers struct {
		Tiers []tierPayload `json:"tiers"`
	}
	if err := s.getJSON(ctx, methodPath+"/tiers", &tiers); err != nil {
		return pricing.PricingData{}, fmt.Errorf("tiers: %w", err)
	}

	var costs struct {
		Rows []costRowPayload `json:"rows"`
	}
	if err := s.getJSON(ctx, methodPath+"/costs", &costs); err != nil {
		return pricing.PricingData{}, fmt.Errorf("cost rows: %w", err)
	}

	var override profilePayload
	switch err := s.getJSON(ctx, methodPath+"/profile", &override); {
	case err == nil:
		profile = applyProfile(profile, override)
	case errors.Is(err, ErrNotFound):
	default:
		return pricing.PricingData{}, fmt.Errorf("profile: %w", err)
	}

	data := pricing.PricingData{
		Style:     style,
		Method:    method,
		BlankCost: blank.BlankCost,
		Profile:   profile,
	}
	for _, t := range tiers.Tiers {
		tier := pricing.Tier{Label: t.Label, MinQty: t.MinQty, MarginDenominator: t.MarginDenominator}
		if t.MaxQty != nil {
			tier.MaxQty = *t.MaxQty
		}
		data.Tiers = append(data.Tiers, tier)
	}
	for _, r := range costs.Rows {
		row := pricing.CostRow{
			TierLabel:     r.TierLabel,
			BaselineUnits: r.BaselineUnits,
			BaseCost:      r.BaseCost,
			IncrementCost: r.IncrementCost,
			IncrementSize: r.IncrementSize,
		}
		if r.Component == "" {
			data.Rows = append(data.Rows, row)
			continue
		}
		if data.AddonRows == nil {
			data.AddonRows = make(map[string][]pricing.CostRow)
		}
		data.AddonRows[r.Component] = append(data.AddonRows[r.Component], row)
	}
	if err := checkCosts(data); err != nil {
		return pricing.PricingData{}, err
	}
	return data, nil
}

func applyProfile(p pricing.Profile, o profilePayload) pricing.Profile {
	if o.UnitName != "" {
		p.UnitName = o.UnitName
	}
	if o.DefaultBaseline > 0 {
		p.DefaultBaseline = o.DefaultBaseline
	}
	if o.LTMThreshold > 0 {
		p.LTM = pricing.LTMPolicy{ThresholdQty: o.LTMThreshold, FlatFee: o.LTMFee}
	}
	if o.Rounding != "" {
		p.Rounding = o.Rounding
	}
	return p
}

// getJSON fetches path and decodes the body into dest, retrying transport
// errors and 5xx responses with exponential backoff.
func (s *HTTPSource) getJSON(ctx context.Context, path string, dest any) error {
	backoff := retry.WithMaxRetries(s.retries, retry.NewExponential(s.backoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("get %s: %w", path, err))
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		case resp.StatusCode >= http.StatusInternalServerError:
			return retry.RetryableError(fmt.Errorf("get %s: status %d", path, resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("get %s: status %d", path, resp.StatusCode)
		}

		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dest); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	})
}
