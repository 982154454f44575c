package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and its outbound throttle.
type HTTPClientConfig struct {
	Client *http.Client
	// Limiter throttles outbound calls; nil disables throttling.
	Limiter *rate.Limiter
}

// NewHTTPClientConfig shares client behind a limiter allowing ratePerSec calls
// per second. A non-positive rate disables throttling.
func NewHTTPClientConfig(client *http.Client, ratePerSec float64) HTTPClientConfig {
	cfg := HTTPClientConfig{Client: client}
	if ratePerSec > 0 {
		burst := int(math.Ceil(ratePerSec))
		if burst < 3 {
			// one build issues three calls at once
			burst = 3
		}
		cfg.Limiter = rate.NewLimiter(rate.Limit(ratePerSec), burst)
	}
	return cfg
}

var (
	errRateLimited   = errors.New("rate limited")
	errUnauthorized  = errors.New("unauthorized")
	errServerError   = errors.New("server error")
	errUnexpected    = errors.New("unexpected status code")
	errCircuitOpen   = errors.New("circuit breaker open")
	errNoHTTPClient  = errors.New("http client not configured")
	errMissingAPIKey = errors.New("api key is not configured")
)

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequestWithResilience executes the HTTP request once, behind the rate
// limiter and circuit breaker. Failed calls are not retried.
func doRequestWithResilience(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if cfg.Limiter != nil {
		if err := cfg.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := buildRequest()
	if err != nil {
		return nil, err
	}

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if statusErr := checkStatus(resp); statusErr != nil {
			return nil, statusErr
		}
		return resp, nil
	})
	if err != nil {
		// If circuit is open, say so.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp, nil
}

// getJSON runs the request through doRequestWithResilience and decodes the body into out.
func getJSON(
	ctx context.Context,
	cfg HTTPClientConfig,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
	out any,
) error {
	resp, err := doRequestWithResilience(ctx, cfg, cb, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", weather.ErrMalformedPayload, err)
	}
	return nil
}

// checkStatus closes the body and returns an error for non-2xx responses.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	body := strings.TrimSpace(string(b))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", errUnauthorized, body)
	case resp.StatusCode == http.StatusTooManyRequests:
		return errRateLimited
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
	default:
		return fmt.Errorf("%w: %d %s", errUnexpected, resp.StatusCode, body)
	}
}

func formatCoord(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
