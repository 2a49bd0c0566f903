package clinicapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Alijeyrad/simorq_frontdesk/internal/appointment"
)

const patientsPath = "/api/patients"

// SearchPatients matches name, email or a DOB fragment on the upstream.
func (c *Client) SearchPatients(ctx context.Context, search string) ([]appointment.Patient, error) {
	q := url.Values{}
	q.Set("search", search)
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: patientsPath, Query: q})
	if err != nil {
		return nil, err
	}
	page, err := decodePage[appointment.Patient](res.Data)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (c *Client) GetPatient(ctx context.Context, id int64) (appointment.Patient, error) {
	var p appointment.Patient
	res, err := c.Do(ctx, Request{Method: http.MethodGet, Path: patientPath(id)})
	if err != nil {
		return p, err
	}
	return p, res.Decode(&p)
}

// PatchPatient sends only the given fields. Validation failures come back
// per field rather than as an alert.
func (c *Client) PatchPatient(ctx context.Context, id int64, fields map[string]any) (Result, error) {
	return c.Do(ctx, Request{
		Method:      http.MethodPatch,
		Path:        patientPath(id),
		Body:        fields,
		FieldErrors: true,
	})
}

func patientPath(id int64) string {
	return patientsPath + "/" + strconv.FormatInt(id, 10)
}

// MarkReturning clears the new-patient flag after a first visit.
func (c *Client) MarkReturning(ctx context.Context, id int64) error {
	_, err := c.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   patientPath(id),
		Body:   map[string]bool{"is_new": false},
	})
	return err
}
