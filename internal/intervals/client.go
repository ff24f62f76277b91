// Package intervals is a thin client for the intervals.icu REST API.
//
// Every call is a single request: there is no retry, no cache and no
// de-duplication of identical in-flight calls. Cancellation belongs to the
// caller's context.
package intervals

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/logger"
)

// ErrMissingAPIKey is returned by New when no key is configured
var ErrMissingAPIKey = errors.New("intervals API key is not set (use INTERVALS_API_KEY or 'stridelog keyring set --api-key')")

// APIError is any non-2xx response
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("intervals api error: %d - %s", e.StatusCode, e.Body)
}

// Client talks to one intervals.icu account
type Client struct {
	baseURL   string
	auth      string
	athleteID string
	http      *http.Client
	log       *log.Logger
}

// Option customises a Client
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithAthleteID scopes calls to a specific athlete instead of the key owner
func WithAthleteID(id string) Option {
	return func(c *Client) {
		if id != "" {
			c.athleteID = id
		}
	}
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// New creates a client. An empty key is rejected up front so that a missing
// configuration is reported instead of surfacing later as a 401.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if strings.TrimSpace(creds.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		baseURL:   constants.DefaultIntervalsURL,
		auth:      "Basic " + base64.StdEncoding.EncodeToString([]byte(creds.APIKey+":")),
		athleteID: constants.CurrentAthleteID,
		http:      &http.Client{},
		log:       logger.Named("intervals"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AthleteID returns the athlete the client is scoped to
func (c *Client) AthleteID() string {
	return c.athleteID
}

func (c *Client) athletePath(parts ...string) string {
	return "/athlete/" + url.PathEscape(c.athleteID) + strings.Join(parts, "")
}

func (r DateRange) query() url.Values {
	q := url.Values{}
	if r.Oldest != "" {
		q.Set("oldest", r.Oldest)
	}
	if r.Newest != "" {
		q.Set("newest", r.Newest)
	}
	return q
}

// do sends one request and decodes a JSON response into out when out is
// non-nil. The API key never reaches the log.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("failed to call intervals api: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetCurrentAthlete returns the profile of the key owner
func (c *Client) GetCurrentAthlete(ctx context.Context) (*Athlete, error) {
	var a Athlete
	if err := c.do(ctx, http.MethodGet, "/athlete", nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAthlete returns the profile of a specific athlete
func (c *Client) GetAthlete(ctx context.Context, id string) (*Athlete, error) {
	var a Athlete
	if err := c.do(ctx, http.MethodGet, "/athlete/"+url.PathEscape(id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAthletes returns the athletes the key owner coaches
func (c *Client) GetAthletes(ctx context.Context) ([]Athlete, error) {
	var out []Athlete
	if err := c.do(ctx, http.MethodGet, "/athlete/athletes", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetWorkouts(ctx context.Context, r DateRange) ([]Workout, error) {
	var out []Workout
	if err := c.do(ctx, http.MethodGet, c.athletePath("/workouts"), r.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetWorkoutHistory returns workouts from the last 30 days up to now
func (c *Client) GetWorkoutHistory(ctx context.Context, now time.Time) ([]Workout, error) {
	return c.GetWorkouts(ctx, HistoryRange(now))
}

// CreateWorkout posts w without its id and returns the stored workout
func (c *Client) CreateWorkout(ctx context.Context, w Workout) (*Workout, error) {
	w.ID = ""
	var out Workout
	if err := c.do(ctx, http.MethodPost, c.athletePath("/workouts"), nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorkout(ctx context.Context, id string, u WorkoutUpdate) (*Workout, error) {
	var out Workout
	if err := c.do(ctx, http.MethodPut, c.athletePath("/workouts/", url.PathEscape(id)), nil, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.athletePath("/workouts/", url.PathEscape(id)), nil, nil, nil)
}

func (c *Client) GetActivities(ctx context.Context, r DateRange) ([]Activity, error) {
	var out []Activity
	if err := c.do(ctx, http.MethodGet, c.athletePath("/activities"), r.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetWellness(ctx context.Context, r DateRange) ([]Wellness, error) {
	var out []Wellness
	if err := c.do(ctx, http.MethodGet, c.athletePath("/wellness"), r.query(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.do(ctx, http.MethodGet, c.athletePath("/fitness"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
