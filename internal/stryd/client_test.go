package stryd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("runner@example.com", "secret", nil)
	c.baseURL = srv.URL
	c.retryDelay = time.Millisecond
	c.maxRetryDelay = 10 * time.Millisecond
	return c
}

func authenticated(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/email/signin", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok123", "id": "user1"})
	})
	mux.HandleFunc("/", handler)

	c := newTestClient(t, mux)
	if err := c.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	return c
}

func TestAuthenticate(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email/signin" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds map[string]string
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("failed to decode signin body: %v", err)
		}
		if creds["email"] != "runner@example.com" || creds["password"] != "secret" {
			t.Errorf("unexpected credentials: %v", creds)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok123", "id": "user1"})
	}))

	if err := c.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !c.IsAuthenticated() {
		t.Error("client not authenticated after signin")
	}
	if c.UserID() != "user1" {
		t.Errorf("user id: got %q, want %q", c.UserID(), "user1")
	}
}

func TestAuthenticateRejected(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))

	err := c.Authenticate(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnauthorized(err) {
		t.Errorf("got %v, want unauthorized HTTPError", err)
	}
	if c.IsAuthenticated() {
		t.Error("client authenticated after rejected signin")
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"id": "user1"})
	}))

	if err := c.Authenticate(context.Background()); err == nil {
		t.Fatal("expected error for signin response without token")
	}
}

func TestRequestsRequireAuthentication(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request reached the server without a token")
	}))

	if _, err := c.GetCalendar(context.Background(), time.Now(), time.Now()); err == nil {
		t.Fatal("expected error before Authenticate")
	}
}

func TestGetCalendar(t *testing.T) {
	c := authenticated(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/users/calendar" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer: tok123" {
			t.Errorf("authorization header: got %q", got)
		}
		q := r.URL.Query()
		if q.Get("srtDate") != "01-15-2026" || q.Get("endDate") != "01-22-2026" {
			t.Errorf("unexpected date range: %s to %s", q.Get("srtDate"), q.Get("endDate"))
		}
		if q.Get("sortBy") != "StartDate" {
			t.Errorf("sortBy: got %q", q.Get("sortBy"))
		}
		fmt.Fprint(w, `{"activities": [
			{"id": 1, "name": "Morning Run", "type": "run", "timestamp": 1768500000},
			{"id": 2, "name": "Intervals", "type": "run", "timestamp": 1768600000}
		]}`)
	})

	start := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	activities, err := c.GetCalendar(context.Background(), start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("GetCalendar: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(activities))
	}
	if activities[0].ID != 1 || activities[0].Name != "Morning Run" {
		t.Errorf("unexpected first activity: %+v", activities[0])
	}
}

func TestGetActivityDetail(t *testing.T) {
	c := authenticated(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/activities/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{
			"id": 42,
			"name": "Tempo",
			"moving_time": 3600,
			"distance": 12000.5,
			"timestamp_list": [1, 2, 3],
			"heart_rate_list": [140, null, 150],
			"loc_list": [{"Lat": 51.5, "Lng": -0.1}, null]
		}`)
	})

	detail, err := c.GetActivityDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetActivityDetail: %v", err)
	}
	if detail.ID != 42 || detail.MovingTime != 3600 {
		t.Errorf("unexpected detail: id=%d moving_time=%d", detail.ID, detail.MovingTime)
	}
	if detail.Distance == nil || *detail.Distance != 12000.5 {
		t.Errorf("distance: got %v", detail.Distance)
	}
	if len(detail.HeartRateList) != 3 || detail.HeartRateList[1] != nil {
		t.Errorf("in-array null not preserved: %v", detail.HeartRateList)
	}
	if len(detail.LocList) != 2 || detail.LocList[0] == nil || detail.LocList[1] != nil {
		t.Errorf("loc list not preserved: %v", detail.LocList)
	}
	if *detail.LocList[0].Lat != 51.5 {
		t.Errorf("lat: got %v, want 51.5", *detail.LocList[0].Lat)
	}
}

func TestGetActivityDetailNotFound(t *testing.T) {
	c := authenticated(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	detail, err := c.GetActivityDetail(context.Background(), 99)
	if err != nil {
		t.Fatalf("GetActivityDetail: %v", err)
	}
	if detail != nil {
		t.Errorf("got %+v, want nil for absent activity", detail)
	}
}

func TestRetriesTransientFailures(t *testing.T) {
	var attempts int
	c := authenticated(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			http.Error(w, "server error", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"activities": []}`)
	})

	if _, err := c.GetCalendar(context.Background(), time.Now(), time.Now()); err != nil {
		t.Fatalf("GetCalendar: %v", err)
	}
	if attempts != 3 {
		t.Errorf("got %d attempts, want 3", attempts)
	}
}

func TestRetriesExhausted(t *testing.T) {
	var attempts int
	c := authenticated(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := c.GetCalendar(context.Background(), time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected error")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("got %v, want wrapped 429 HTTPError", err)
	}
	if attempts != 4 {
		t.Errorf("got %d attempts, want 4 (initial + 3 retries)", attempts)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var attempts int
	c := authenticated(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	if _, err := c.GetCalendar(context.Background(), time.Now(), time.Now()); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("got %d attempts, want 1", attempts)
	}
}

func TestDownloadFITFile(t *testing.T) {
	blob := []byte{0x0e, 0x10, 0x43, 0x08}
	c := authenticated(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/activities/7/fit" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write(blob)
	})

	data, err := c.DownloadFITFile(context.Background(), 7)
	if err != nil {
		t.Fatalf("DownloadFITFile: %v", err)
	}
	if string(data) != string(blob) {
		t.Errorf("got %v, want %v", data, blob)
	}
}

func TestErrorPredicates(t *testing.T) {
	if !IsNotFound(&HTTPError{StatusCode: 404}) {
		t.Error("IsNotFound(404) = false")
	}
	if !IsUnauthorized(&HTTPError{StatusCode: 401}) {
		t.Error("IsUnauthorized(401) = false")
	}
	if !IsTooManyRequests(&HTTPError{StatusCode: 429}) {
		t.Error("IsTooManyRequests(429) = false")
	}
	if IsNotFound(errors.New("not an http error")) {
		t.Error("IsNotFound matched a plain error")
	}
}
