package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alijeyrad/simorq_frontdesk/config"
	"github.com/Alijeyrad/simorq_frontdesk/internal/api/http/router"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/layout"
	"github.com/Alijeyrad/simorq_frontdesk/internal/schedule/slot"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/appointment"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/patient"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/scheduling"
	"github.com/Alijeyrad/simorq_frontdesk/internal/service/visit"
	"github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"
)

func at(d, h, m int) time.Time {
	return time.Date(2024, 3, d, h, m, 0, 0, time.Local)
}

func fixedNow() time.Time { return at(4, 8, 0) }

// clinicJSON renders one upstream appointment record.
func clinicJSON(id int64, status string, start time.Time, minutes int, isNew bool) string {
	return fmt.Sprintf(`{"id":%d,"status":%q,"patient":{"id":7,"first_name":"Ada","last_name":"Byron","is_new":%t},"start":%q,"end":%q,"notes":""}`,
		id, status, isNew, start.Format(time.RFC3339), start.Add(time.Duration(minutes)*time.Minute).Format(time.RFC3339))
}

// fakeClinic stands in for the upstream records API. Routes not registered
// answer 404.
type fakeClinic struct {
	t      *testing.T
	routes map[string]func(w nethttp.ResponseWriter, r *nethttp.Request)
}

func (f *fakeClinic) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/api/ping" {
		assert.Equal(f.t, "Token front-desk", r.Header.Get("Authorization"))
	}
	h, found := f.routes[r.Method+" "+r.URL.Path]
	if !found {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Not found."}`)
		return
	}
	h(w, r)
}

func reply(status int, body string) func(nethttp.ResponseWriter, *nethttp.Request) {
	return func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func newTestApp(t *testing.T, routes map[string]func(nethttp.ResponseWriter, *nethttp.Request)) *fiber.App {
	t.Helper()
	upstream := httptest.NewServer(&fakeClinic{t: t, routes: routes})
	t.Cleanup(upstream.Close)

	client, err := clinicapi.New(clinicapi.Config{BaseURL: upstream.URL, Timeout: 2 * time.Second},
		clinicapi.WithAlerter(clinicapi.AlerterFunc(func(_ context.Context, _ string, _ int) {})))
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.TimeoutSeconds = 5
	cfg.Observability.ServiceName = "frontdesk-test"

	sched, err := scheduling.New(client, nil, scheduling.Config{
		Slots:  slot.DefaultConfig(),
		Layout: layout.DefaultConfig(),
	}, fixedNow, nil)
	require.NoError(t, err)

	r := router.NewRouter(router.Params{
		Cfg:            cfg,
		Upstream:       client,
		SchedulingSvc:  sched,
		AppointmentSvc: appointment.New(client),
		VisitSvc:       visit.New(client, nil),
		PatientSvc:     patient.New(client),
	})
	return New(cfg, nil, r, false)
}

type envelope struct {
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Token front-desk")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, fiber.TestConfig{Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != nethttp.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
		"GET /api/ping": reply(200, `{"message":"pong"}`),
	})

	for _, path := range []string{"/livez", "/readyz", "/startupz"} {
		resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusOK, resp.StatusCode, path)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/api/v1/schedule/view", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestScheduleSlots(t *testing.T) {
	app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
		"GET /api/appointments": func(w nethttp.ResponseWriter, r *nethttp.Request) {
			assert.Equal(t, "2024-03-04", r.URL.Query().Get("start_after"))
			assert.Equal(t, "2024-03-04", r.URL.Query().Get("start_before"))
			reply(200, "["+clinicJSON(1, "SC", at(4, 10, 0), 30, false)+"]")(w, r)
		},
	})

	status, env := call(t, app, nethttp.MethodGet, "/api/v1/schedule/slots?date=2024-03-04&start=09:00", "")
	require.Equal(t, nethttp.StatusOK, status, env.Error)

	var opts struct {
		StartOptions []struct {
			Label    string `json:"label"`
			Disabled bool   `json:"disabled"`
		} `json:"start_options"`
		EndOptions []struct {
			Label    string `json:"label"`
			Disabled bool   `json:"disabled"`
		} `json:"end_options"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &opts))
	require.Len(t, opts.StartOptions, 32)

	disabled := map[string]bool{}
	for _, o := range opts.StartOptions {
		disabled[o.Label] = o.Disabled
	}
	assert.True(t, disabled["10:00 AM"])
	assert.False(t, disabled["10:30 AM"])

	endDisabled := map[string]bool{}
	for _, o := range opts.EndOptions {
		endDisabled[o.Label] = o.Disabled
	}
	assert.False(t, endDisabled["10:00 AM"], "ending as the next appointment starts is allowed")
	assert.True(t, endDisabled["10:15 AM"])

	status, _ = call(t, app, nethttp.MethodGet, "/api/v1/schedule/slots?date=2024-03-04&start=09:07", "")
	assert.Equal(t, nethttp.StatusBadRequest, status)

	status, _ = call(t, app, nethttp.MethodGet, "/api/v1/schedule/slots", "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestScheduleTimeline(t *testing.T) {
	app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
		"GET /api/appointments": reply(200, `{"count":1,"next":null,"results":[`+clinicJSON(1, "SC", at(5, 9, 0), 60, true)+`]}`),
	})

	status, env := call(t, app, nethttp.MethodGet, "/api/v1/schedule/timeline?mode=week&anchor=2024-03-04", "")
	require.Equal(t, nethttp.StatusOK, status, env.Error)

	var tl struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
		Count    int    `json:"count"`
		Grid     struct {
			Columns []json.RawMessage `json:"columns"`
		} `json:"grid"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tl))
	assert.Equal(t, "Mar 2024", tl.Title)
	assert.Equal(t, "4 - 10", tl.Subtitle)
	assert.Equal(t, 1, tl.Count)
	assert.Len(t, tl.Grid.Columns, 7)

	status, _ = call(t, app, nethttp.MethodGet, "/api/v1/schedule/timeline?mode=month", "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestScheduleViewNavigation(t *testing.T) {
	var seen []string
	app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
		"GET /api/appointments": func(w nethttp.ResponseWriter, r *nethttp.Request) {
			seen = append(seen, r.URL.Query().Get("start_after")+".."+r.URL.Query().Get("start_before"))
			reply(200, "[]")(w, r)
		},
	})

	status, _ := call(t, app, nethttp.MethodGet, "/api/v1/schedule/view", "")
	require.Equal(t, nethttp.StatusOK, status)
	status, _ = call(t, app, nethttp.MethodPost, "/api/v1/schedule/view/next", "")
	require.Equal(t, nethttp.StatusOK, status)
	status, _ = call(t, app, nethttp.MethodPost, "/api/v1/schedule/view/mode/today", "")
	require.Equal(t, nethttp.StatusOK, status)
	status, _ = call(t, app, nethttp.MethodPut, "/api/v1/schedule/view/anchor", `{"date":"2024-03-20"}`)
	require.Equal(t, nethttp.StatusOK, status)

	assert.Equal(t, []string{
		"2024-03-04..2024-03-10",
		"2024-03-11..2024-03-17",
		"2024-03-04..2024-03-04",
		"2024-03-20..2024-03-20",
	}, seen)

	status, _ = call(t, app, nethttp.MethodPost, "/api/v1/schedule/view/mode/year", "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}

func TestBookAppointment(t *testing.T) {
	existing := clinicJSON(1, "SC", at(4, 10, 0), 30, false)

	t.Run("created and re-fetched", func(t *testing.T) {
		app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
			"GET /api/appointments":   reply(200, "["+existing+"]"),
			"POST /api/appointments":  reply(201, `{"id":2}`),
			"GET /api/appointments/2": reply(200, clinicJSON(2, "SC", at(4, 11, 0), 30, false)),
		})
		body := fmt.Sprintf(`{"start":%q,"end":%q,"patient":7}`, at(4, 11, 0).Format(time.RFC3339), at(4, 11, 30).Format(time.RFC3339))
		status, env := call(t, app, nethttp.MethodPost, "/api/v1/appointments", body)
		require.Equal(t, nethttp.StatusCreated, status, env.Error)

		var a struct {
			ID      int64 `json:"id"`
			Patient struct {
				FirstName string `json:"first_name"`
			} `json:"patient"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &a))
		assert.Equal(t, int64(2), a.ID)
		assert.Equal(t, "Ada", a.Patient.FirstName)
	})

	t.Run("overlap is a conflict", func(t *testing.T) {
		app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
			"GET /api/appointments": reply(200, "["+existing+"]"),
		})
		body := fmt.Sprintf(`{"start":%q,"end":%q,"patient":7}`, at(4, 10, 15).Format(time.RFC3339), at(4, 10, 45).Format(time.RFC3339))
		status, _ := call(t, app, nethttp.MethodPost, "/api/v1/appointments", body)
		assert.Equal(t, nethttp.StatusConflict, status)
	})

	t.Run("upstream field errors", func(t *testing.T) {
		app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
			"GET /api/appointments":  reply(200, "[]"),
			"POST /api/appointments": reply(400, `{"notes":["Too long."]}`),
		})
		body := fmt.Sprintf(`{"start":%q,"end":%q,"patient":7,"notes":"x"}`, at(4, 11, 0).Format(time.RFC3339), at(4, 11, 30).Format(time.RFC3339))
		status, env := call(t, app, nethttp.MethodPost, "/api/v1/appointments", body)
		assert.Equal(t, nethttp.StatusBadRequest, status)
		assert.Equal(t, map[string]string{"notes": "Too long."}, env.Fields)
	})

	t.Run("offset-free timestamps are local", func(t *testing.T) {
		var sent struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		}
		app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
			"GET /api/appointments": reply(200, "["+existing+"]"),
			"POST /api/appointments": func(w nethttp.ResponseWriter, r *nethttp.Request) {
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
				reply(201, `{"id":2}`)(w, r)
			},
			"GET /api/appointments/2": reply(200, clinicJSON(2, "SC", at(4, 11, 0), 30, false)),
		})
		body := `{"start":"2024-03-04T11:00:00","end":"2024-03-04T11:30","patient":7}`
		status, env := call(t, app, nethttp.MethodPost, "/api/v1/appointments", body)
		require.Equal(t, nethttp.StatusCreated, status, env.Error)
		assert.True(t, sent.Start.Equal(at(4, 11, 0)), "start %s", sent.Start)
		assert.True(t, sent.End.Equal(at(4, 11, 30)), "end %s", sent.End)
	})

	t.Run("unparseable start", func(t *testing.T) {
		app := newTestApp(t, nil)
		status, env := call(t, app, nethttp.MethodPost, "/api/v1/appointments", `{"start":"soon","end":"2024-03-04T11:30:00","patient":7}`)
		assert.Equal(t, nethttp.StatusBadRequest, status)
		assert.Equal(t, "invalid start", env.Error)
	})

	t.Run("missing patient", func(t *testing.T) {
		app := newTestApp(t, nil)
		body := fmt.Sprintf(`{"start":%q,"end":%q}`, at(4, 11, 0).Format(time.RFC3339), at(4, 11, 30).Format(time.RFC3339))
		status, _ := call(t, app, nethttp.MethodPost, "/api/v1/appointments", body)
		assert.Equal(t, nethttp.StatusBadRequest, status)
	})
}

func TestAppointmentErrors(t *testing.T) {
	app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
		"GET /api/appointments/5":    reply(200, clinicJSON(5, "DO", at(4, 9, 0), 30, false)),
		"GET /api/appointments/6":    reply(500, `{"detail":"boom"}`),
		"DELETE /api/appointments/5": reply(204, ""),
	})

	status, _ := call(t, app, nethttp.MethodGet, "/api/v1/appointments/404", "")
	assert.Equal(t, nethttp.StatusNotFound, status)

	status, _ = call(t, app, nethttp.MethodGet, "/api/v1/appointments/6", "")
	assert.Equal(t, nethttp.StatusBadGateway, status)

	status, _ = call(t, app, nethttp.MethodGet, "/api/v1/appointments/abc", "")
	assert.Equal(t, nethttp.StatusBadRequest, status)

	body := fmt.Sprintf(`{"start":%q,"end":%q,"patient":7}`, at(4, 9, 0).Format(time.RFC3339), at(4, 9, 30).Format(time.RFC3339))
	status, _ = call(t, app, nethttp.MethodPut, "/api/v1/appointments/5", body)
	assert.Equal(t, nethttp.StatusConflict, status, "done appointments are not editable")

	status, _ = call(t, app, nethttp.MethodPost, "/api/v1/appointments/5/finish", "")
	assert.Equal(t, nethttp.StatusConflict, status, "done never transitions")

	status, _ = call(t, app, nethttp.MethodDelete, "/api/v1/appointments/5", "")
	assert.Equal(t, nethttp.StatusNoContent, status)
}

func TestVisitFlow(t *testing.T) {
	status := "SC"
	var patched []string
	app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
		"GET /api/appointments/3": func(w nethttp.ResponseWriter, r *nethttp.Request) {
			reply(200, clinicJSON(3, status, at(4, 9, 0), 30, false))(w, r)
		},
		"PATCH /api/appointments/3": func(w nethttp.ResponseWriter, r *nethttp.Request) {
			var b map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&b))
			status = b["status"]
			patched = append(patched, status)
			reply(200, `{"id":3}`)(w, r)
		},
		"PATCH /api/patients/7": reply(200, `{"id":7}`),
	})

	code, env := call(t, app, nethttp.MethodPost, "/api/v1/appointments/3/start", "")
	require.Equal(t, nethttp.StatusOK, code, env.Error)
	var out struct {
		Step string `json:"step"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "progress_note", out.Step)

	code, _ = call(t, app, nethttp.MethodPost, "/api/v1/appointments/3/finish", "")
	require.Equal(t, nethttp.StatusOK, code)
	assert.Equal(t, []string{"CI", "DO"}, patched)
}

func TestPatientSearch(t *testing.T) {
	app := newTestApp(t, map[string]func(nethttp.ResponseWriter, *nethttp.Request){
		"GET /api/patients": func(w nethttp.ResponseWriter, r *nethttp.Request) {
			assert.Equal(t, "03-04", r.URL.Query().Get("search"))
			reply(200, `[{"id":7,"first_name":"Ada","last_name":"Byron","is_new":false}]`)(w, r)
		},
	})

	status, env := call(t, app, nethttp.MethodGet, "/api/v1/patients?search=3/4", "")
	require.Equal(t, nethttp.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), "Byron")

	status, _ = call(t, app, nethttp.MethodGet, "/api/v1/patients?search=", "")
	assert.Equal(t, nethttp.StatusBadRequest, status)
}
