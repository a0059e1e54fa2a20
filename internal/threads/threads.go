// Package threads derives the discussion thread directory from the
// public race schedule API. The chat core never consults this list; it
// only resolves human-readable titles and lock/pin status for clients.
package threads

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Thread is one per-event discussion room as shown to clients.
type Thread struct {
	ID     string    `json:"id"`
	GPID   string    `json:"gpId"`
	Title  string    `json:"title"`
	Date   time.Time `json:"date"`
	Locked bool      `json:"locked"`
	Pinned bool      `json:"pinned"`
}

// Service fetches the season schedule and derives the thread list.
// Responses are cached for a configurable TTL.
type Service struct {
	baseURL string
	client  *http.Client
	ttl     time.Duration
	log     *zerolog.Logger
	now     func() time.Time

	mu        sync.Mutex
	cached    []Thread
	fetchedAt time.Time
}

// NewService constructs a service against an Ergast-compatible API.
func NewService(baseURL string, ttl time.Duration, logger *zerolog.Logger) *Service {
	return &Service{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		ttl:     ttl,
		log:     logger,
		now:     time.Now,
	}
}

type scheduleResponse struct {
	MRData struct {
		RaceTable struct {
			Races []struct {
				Round    string `json:"round"`
				RaceName string `json:"raceName"`
				Date     string `json:"date"`
				Time     string `json:"time"`
			} `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

// Threads returns the current season's threads, pinned first. A
// positive limit truncates the list.
func (s *Service) Threads(ctx context.Context, limit int) ([]Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached == nil || s.now().Sub(s.fetchedAt) > s.ttl {
		threads, err := s.fetch(ctx)
		if err != nil {
			if s.cached == nil {
				return nil, err
			}
			// Serve stale rather than nothing.
			s.log.Warn().Err(err).Msg("schedule refresh failed, serving cached threads")
		} else {
			s.cached = threads
			s.fetchedAt = s.now()
		}
	}

	result := make([]Thread, len(s.cached))
	copy(result, s.cached)
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (s *Service) fetch(ctx context.Context) ([]Thread, error) {
	year := s.now().Year()
	url := fmt.Sprintf("%s/%d/races.json", s.baseURL, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build schedule request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch schedule: unexpected status %d", resp.StatusCode)
	}

	var schedule scheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&schedule); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	return s.derive(schedule), nil
}

// derive builds one thread per round, locks every round except the
// current and previous one, pins the current and next one, and sorts
// pinned threads first.
func (s *Service) derive(schedule scheduleResponse) []Thread {
	races := schedule.MRData.RaceTable.Races
	threads := make([]Thread, 0, len(races))
	for _, r := range races {
		date := parseRaceTime(r.Date, r.Time)
		threads = append(threads, Thread{
			ID:     r.Round,
			GPID:   r.Round,
			Title:  fmt.Sprintf("%d MEGATHREAD -- %s", date.Year(), r.RaceName),
			Date:   date,
			Locked: false,
			Pinned: false,
		})
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].Date.Before(threads[j].Date)
	})

	if len(threads) == 0 {
		return threads
	}

	now := s.now()
	current := -1
	for i, t := range threads {
		if !t.Date.Before(now) {
			current = i
			break
		}
	}
	if current == -1 {
		current = len(threads) - 1
	}

	for i := range threads {
		threads[i].Locked = !(i == current || i == current-1)
	}
	threads[current].Pinned = true
	if current+1 < len(threads) {
		threads[current+1].Pinned = true
	}

	sort.SliceStable(threads, func(i, j int) bool {
		if threads[i].Pinned != threads[j].Pinned {
			return threads[i].Pinned
		}
		return threads[i].Date.Before(threads[j].Date)
	})

	return threads
}

func parseRaceTime(date, clock string) time.Time {
	if clock == "" {
		clock = "00:00:00Z"
	}
	t, err := time.Parse(time.RFC3339, date+"T"+clock)
	if err != nil {
		t, err = time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}
		}
	}
	return t
}
