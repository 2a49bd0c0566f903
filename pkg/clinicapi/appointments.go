package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
)

const appointmentsPath = "/api/appointments"

// dateLayout is the query-string date format the upstream filters accept.
const dateLayout = time.DateOnly

// ListQuery filters the appointment list. From and To are inclusive days;
// zero values are omitted.
type ListQuery struct {
	From     time.Time
	To       time.Time
	Patient  int64
	Ordering string
	Limit    int
	Offset   int
}

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if !q.From.IsZero() {
		v.Set("start_after", q.From.Format(dateLayout))
	}
	if !q.To.IsZero() {
		v.Set("start_before", q.To.Format(dateLayout))
	}
	if q.Patient != 0 {
		v.Set("patient", strconv.FormatInt(q.Patient, 10))
	}
	if q.Ordering != "" {
		v.Set("ordering", q.Ordering)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	return v
}

// Page is a list response. Next is empty on the last page or when the
// upstream did not paginate.
type Page[T any] struct {
	Results []T
	Next    string
	Count   int
}

// decodePage accepts either a bare array or a {count, next, results} envelope.
func decodePage[T any](data json.RawMessage) (Page[T], error) {
	var p Page[T]
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err := json.Unmarshal(trimmed, &p.Results)
		p.Count = len(p.Results)
		return p, err
	}
	var env struct {
		Count   int     `json:"count"`
		Next    *string `json:"next"`
		Results []T     `json:"results"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return p, err
	}
	p.Results = env.Results
	p.Count = env.Count
	if env.Next != nil {
		p.Next = *env.Next
	}
	return p, nil
}

func (c *Client) ListAppointments(ctx context.Context, q ListQuery) (Page[appointment.Appointment], error) {
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: appointmentsPath, Query: q.values()})
	if err != nil {
		return Page[appointment.Appointment]{}, err
	}
	return decodePage[appointment.Appointment](res.Data)
}

func (c *Client) GetAppointment(ctx context.Context, id int64) (appointment.Appointment, error) {
	var a appointment.Appointment
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: appointmentPath(id)})
	if err != nil {
		return a, err
	}
	return a, res.Decode(&a)
}

// CreateAppointment posts body in field-error mode and returns the created
// resource as echoed by the upstream.
func (c *Client) CreateAppointment(ctx context.Context, body appointment.WriteBody) (appointment.Appointment, error) {
	return c.writeAppointment(ctx, http.MethodPost, appointmentsPath, body)
}

func (c *Client) UpdateAppointment(ctx context.Context, id int64, body appointment.WriteBody) (appointment.Appointment, error) {
	return c.writeAppointment(ctx, http.MethodPut, appointmentPath(id), body)
}

func (c *Client) writeAppointment(ctx context.Context, method, path string, body appointment.WriteBody) (appointment.Appointment, error) {
	var a appointment.Appointment
	res, err := c.Do(ctx, Request{Method: method, Path: path, Body: body, FieldErrors: true})
	if err != nil {
		return a, err
	}
	// Create responses are not expanded; callers re-fetch for the full record.
	var echoed struct {
		ID int64 `json:"id"`
	}
	if err := res.Decode(&echoed); err != nil {
		return a, err
	}
	a.ID = echoed.ID
	return a, nil
}

// SetStatus patches only the status field.
func (c *Client) SetStatus(ctx context.Context, id int64, s appointment.Status) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   appointmentPath(id),
		Body:   map[string]string{"status": s.Code()},
	})
	return err
}

func (c *Client) DeleteAppointment(ctx context.Context, id int64) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: appointmentPath(id)})
	return err
}

func appointmentPath(id int64) string {
	return appointmentsPath + "/" + strconv.FormatInt(id, 10)
}
