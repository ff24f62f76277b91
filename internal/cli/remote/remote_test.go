package remote

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/stridelog/internal/cli"
	"github.com/julianstephens/stridelog/internal/cli/clitest"
	"github.com/julianstephens/stridelog/internal/constants"
	"github.com/julianstephens/stridelog/internal/intervals"
	"github.com/julianstephens/stridelog/internal/notifier"
	"github.com/julianstephens/stridelog/internal/storage/memory"
)

type recorder struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string][]byte
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := req.Method + " " + req.URL.Path
	if req.URL.RawQuery != "" {
		key += "?" + req.URL.RawQuery
	}
	r.requests = append(r.requests, key)
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		if r.bodies == nil {
			r.bodies = map[string][]byte{}
		}
		r.bodies[req.Method+" "+req.URL.Path] = data
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// apiServer fakes the intervals.icu endpoints the commands call
func apiServer(t *testing.T, rec *recorder) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /athlete", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeJSON(w, intervals.Athlete{ID: 7, Name: "Giulia"})
	})
	mux.HandleFunc("GET /athlete/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeJSON(w, intervals.Athlete{ID: 9, Name: "Marco"})
	})
	mux.HandleFunc("GET /athlete/athletes", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeJSON(w, []intervals.Athlete{{ID: 9, Name: "Marco"}})
	})
	mux.HandleFunc("GET /athlete/i/workouts", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeJSON(w, []intervals.Workout{
			{ID: "w1", Name: "Easy", Type: "Run", Date: "2025-03-10", Status: constants.WorkoutCompleted},
			{ID: "w2", Name: "Tempo", Type: "Run", Date: "2025-03-13", Status: constants.WorkoutPlanned, Duration: 2700},
		})
	})
	mux.HandleFunc("POST /athlete/i/workouts", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeJSON(w, intervals.Workout{ID: "w3", Name: "Intervals", Type: "Run", Date: "2025-03-12", Status: constants.WorkoutPlanned})
	})
	mux.HandleFunc("PUT /athlete/i/workouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		writeJSON(w, intervals.Workout{ID: r.PathValue("id"), Name: "Tempo", Type: "Run", Date: "2025-03-13", Status: constants.WorkoutCompleted})
	})
	mux.HandleFunc("DELETE /athlete/i/workouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /athlete/i/activities", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		km := 10000.0
		writeJSON(w, []intervals.Activity{{ID: "a1", Name: "Morning run", Type: "Run", Distance: &km}})
	})
	mux.HandleFunc("GET /athlete/i/wellness", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		kg := 61.5
		writeJSON(w, []intervals.Wellness{{ID: "2025-03-12", Date: "2025-03-12", Weight: &kg}})
	})
	mux.HandleFunc("GET /athlete/i/fitness", func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		fit := 42.0
		writeJSON(w, intervals.Stats{AthleteID: 7, Fitness: &fit})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type hooks struct {
	mu       sync.Mutex
	payloads []notifier.Payload
}

func hookServer(t *testing.T, h *hooks) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p notifier.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("webhook body: %v", err)
		}
		h.mu.Lock()
		h.payloads = append(h.payloads, p)
		h.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func remoteContext(t *testing.T) (*cli.Context, *recorder, *hooks) {
	t.Helper()
	rec := &recorder{}
	h := &hooks{}
	api := apiServer(t, rec)
	hook := hookServer(t, h)

	ctx := clitest.Context(t, memory.NewStore())
	ctx.Config.Intervals.APIKey = "test-key"
	ctx.IntervalsOptions = []intervals.Option{intervals.WithBaseURL(api.URL)}
	ctx.Notifier = notifier.New(map[constants.WebhookEvent]string{
		constants.EventWorkoutCreated:   hook.URL,
		constants.EventWorkoutCompleted: hook.URL,
		constants.EventStatsUpdated:     hook.URL,
	}, "")
	return ctx, rec, h
}

func TestReadCommands(t *testing.T) {
	ctx, rec, _ := remoteContext(t)

	cmds := []interface{ Run(*cli.Context) error }{
		&AthleteCmd{},
		&AthleteCmd{ID: "i9"},
		&AthletesCmd{},
		&WorkoutsCmd{},
		&WorkoutsCmd{RangeFlags: RangeFlags{Week: true}},
		&HistoryCmd{},
		&ActivitiesCmd{RangeFlags: RangeFlags{Oldest: "2025-03-01", Newest: "2025-03-12"}},
		&WellnessCmd{},
		&StatsCmd{},
	}
	for _, cmd := range cmds {
		if err := cmd.Run(ctx); err != nil {
			t.Fatalf("%T.Run() failed: %v", cmd, err)
		}
	}

	want := []string{
		"GET /athlete",
		"GET /athlete/i9",
		"GET /athlete/athletes",
		"GET /athlete/i/workouts?newest=2025-03-12&oldest=2025-02-10",
		"GET /athlete/i/workouts?newest=2025-03-15&oldest=2025-03-09",
		"GET /athlete/i/workouts?newest=2025-03-12&oldest=2025-02-10",
		"GET /athlete/i/activities?newest=2025-03-12&oldest=2025-03-01",
		"GET /athlete/i/wellness?newest=2025-03-12&oldest=2025-02-10",
		"GET /athlete/i/fitness",
	}
	if diff := cmp.Diff(want, rec.requests); diff != "" {
		t.Errorf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkoutCreateNotifies(t *testing.T) {
	ctx, rec, h := remoteContext(t)

	cmd := &WorkoutCreateCmd{Name: "Intervals", Type: "Run", Duration: "45m", Km: 8}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	var sent intervals.Workout
	if err := json.Unmarshal(rec.bodies["POST /athlete/i/workouts"], &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if sent.Date != "2025-03-12" || sent.Duration != 2700 || sent.Distance == nil || *sent.Distance != 8000 {
		t.Errorf("sent workout = %+v", sent)
	}
	if sent.Status != constants.WorkoutPlanned {
		t.Errorf("Status = %q, want PLANNED", sent.Status)
	}

	if len(h.payloads) != 1 || h.payloads[0].Event != constants.EventWorkoutCreated {
		t.Fatalf("payloads = %+v, want one workout.created", h.payloads)
	}
	if !strings.Contains(string(h.payloads[0].Data), `"w3"`) {
		t.Errorf("payload data %s does not carry the created workout", h.payloads[0].Data)
	}
}

func TestWorkoutCreateInvalid(t *testing.T) {
	ctx, rec, _ := remoteContext(t)

	tests := []struct {
		name string
		cmd  WorkoutCreateCmd
	}{
		{"bad duration", WorkoutCreateCmd{Name: "x", Type: "Run", Duration: "forever"}},
		{"bad date", WorkoutCreateCmd{Name: "x", Type: "Run", Date: "12/03/2025"}},
		{"negative km", WorkoutCreateCmd{Name: "x", Type: "Run", Km: -1}},
		{"no name", WorkoutCreateCmd{Name: " ", Type: "Run"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("Run() should fail")
			}
		})
	}
	if len(rec.requests) != 0 {
		t.Errorf("invalid workouts reached the API: %v", rec.requests)
	}
}

func TestWorkoutCompleteWithActivity(t *testing.T) {
	ctx, rec, h := remoteContext(t)

	if err := (&WorkoutCompleteCmd{ID: "w2", Activity: "a1"}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got := string(rec.bodies["PUT /athlete/i/workouts/w2"]); got != `{"status":"COMPLETED"}` {
		t.Errorf("update body = %s", got)
	}
	if len(h.payloads) != 1 || h.payloads[0].Event != constants.EventWorkoutCompleted {
		t.Fatalf("payloads = %+v, want one workout.completed", h.payloads)
	}

	var data struct {
		Activity *intervals.Activity `json:"activity"`
	}
	if err := json.Unmarshal(h.payloads[0].Data, &data); err != nil {
		t.Fatalf("payload data: %v", err)
	}
	if data.Activity == nil || data.Activity.ID != "a1" {
		t.Errorf("activity = %+v, want a1", data.Activity)
	}
}

func TestWorkoutUpdateAndDelete(t *testing.T) {
	ctx, rec, _ := remoteContext(t)

	name := "Threshold"
	km := 12.0
	if err := (&WorkoutUpdateCmd{ID: "w2", Name: &name, Km: &km}).Run(ctx); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := string(rec.bodies["PUT /athlete/i/workouts/w2"]); got != `{"name":"Threshold","distance":12000}` {
		t.Errorf("update body = %s", got)
	}

	if err := (&WorkoutUpdateCmd{ID: "w2"}).Run(ctx); err == nil {
		t.Error("update with no fields should fail")
	}
	bad := "done"
	if err := (&WorkoutUpdateCmd{ID: "w2", Status: &bad}).Run(ctx); err == nil {
		t.Error("update with an unknown status should fail")
	}

	if err := (&WorkoutDeleteCmd{ID: "w2", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if last := rec.requests[len(rec.requests)-1]; last != "DELETE /athlete/i/workouts/w2" {
		t.Errorf("last request = %q", last)
	}
}

func TestStatsNotify(t *testing.T) {
	ctx, _, h := remoteContext(t)
	if err := (&StatsCmd{Notify: true}).Run(ctx); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(h.payloads) != 1 || h.payloads[0].Event != constants.EventStatsUpdated {
		t.Errorf("payloads = %+v, want one stats.updated", h.payloads)
	}
}

func TestMissingWebhookIsSkipped(t *testing.T) {
	ctx, _, _ := remoteContext(t)
	ctx.Notifier = notifier.New(nil, "")
	if err := (&WorkoutCreateCmd{Name: "Easy", Type: "Run"}).Run(ctx); err != nil {
		t.Errorf("Run() without webhook URL failed: %v", err)
	}
}

func TestMissingAPIKey(t *testing.T) {
	gokeyring.MockInit()
	ctx := clitest.Context(t, memory.NewStore())

	err := (&AthleteCmd{}).Run(ctx)
	if !errors.Is(err, intervals.ErrMissingAPIKey) {
		t.Errorf("Run() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	ctx := clitest.Context(t, memory.NewStore())
	ctx.Config.Intervals.APIKey = "bad"
	ctx.IntervalsOptions = []intervals.Option{intervals.WithBaseURL(srv.URL)}

	var apiErr *intervals.APIError
	if err := (&StatsCmd{}).Run(ctx); !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Run() error = %v, want a 401 APIError", err)
	}
}

func TestRangeFlagsValidate(t *testing.T) {
	tests := []struct {
		name    string
		flags   RangeFlags
		wantErr bool
	}{
		{"empty", RangeFlags{}, false},
		{"dates", RangeFlags{Oldest: "2025-01-01", Newest: "2025-02-01"}, false},
		{"week", RangeFlags{Week: true}, false},
		{"bad date", RangeFlags{Oldest: "01/01/2025"}, true},
		{"week and dates", RangeFlags{Week: true, Newest: "2025-02-01"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.flags.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWebhookParse(t *testing.T) {
	ctx := clitest.Context(t, memory.NewStore())

	good := `{"event":"notification.send","timestamp":"2025-03-12T09:00:00Z","data":{"title":"Race week","message":"Taper!"}}`
	if err := (&WebhookParseCmd{in: strings.NewReader(good)}).Run(ctx); err != nil {
		t.Errorf("Run() failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "payload.json")
	stats := `{"event":"external.stats.sync","timestamp":"2025-03-12T09:00:00Z","data":{"fitness":40}}`
	if err := os.WriteFile(path, []byte(stats), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := (&WebhookParseCmd{File: path}).Run(ctx); err != nil {
		t.Errorf("Run() from file failed: %v", err)
	}

	bad := `{"event":"workout.created","timestamp":"2025-03-12T09:00:00Z","data":{}}`
	err := (&WebhookParseCmd{in: strings.NewReader(bad)}).Run(ctx)
	if !errors.Is(err, notifier.ErrUnknownEvent) {
		t.Errorf("Run() error = %v, want ErrUnknownEvent", err)
	}
}
