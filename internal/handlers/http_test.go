package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/barbearia-nativa/bookingd/internal/apperr"
	"github.com/barbearia-nativa/bookingd/internal/booking"
	"github.com/barbearia-nativa/bookingd/internal/catalog"
	"github.com/barbearia-nativa/bookingd/internal/contact"
	"github.com/barbearia-nativa/bookingd/internal/model"
)

// memStore backs every repository interface the handlers need, so the
// full HTTP surface can be exercised without a database.
type memStore struct {
	nextApptID    int64
	appts         map[int64]model.Appointment
	nextServiceID int64
	services      map[int64]model.Service
	nextMsgID     int64
	msgs          map[int64]model.ContactMessage
	hours         map[time.Weekday]model.BusinessHours
}

func newMemStore() *memStore {
	st := &memStore{
		nextApptID:    1,
		appts:         map[int64]model.Appointment{},
		nextServiceID: 1,
		services:      map[int64]model.Service{},
		nextMsgID:     1,
		msgs:          map[int64]model.ContactMessage{},
		hours:         map[time.Weekday]model.BusinessHours{},
	}
	for wd := time.Monday; wd <= time.Friday; wd++ {
		st.hours[wd] = model.BusinessHours{Weekday: wd, OpenTime: "09:00", CloseTime: "19:00", Active: true}
	}
	return st
}

func (st *memStore) activeAt(date, timeOfDay string, excludeID int64) bool {
	for _, a := range st.appts {
		if a.ID != excludeID && a.Date == date && a.Time == timeOfDay && a.Status != model.StatusCancelled {
			return true
		}
	}
	return false
}

func (st *memStore) Insert(_ context.Context, appt *model.Appointment) (int64, error) {
	if st.activeAt(appt.Date, appt.Time, 0) {
		return 0, apperr.Conflict("an appointment already exists at this time")
	}
	appt.ID = st.nextApptID
	st.nextApptID++
	appt.CreatedAt = time.Now()
	st.appts[appt.ID] = *appt
	return appt.ID, nil
}

func (st *memStore) Get(_ context.Context, id int64) (model.Appointment, error) {
	a, ok := st.appts[id]
	if !ok {
		return model.Appointment{}, apperr.NotFound("appointment not found")
	}
	return a, nil
}

func (st *memStore) List(_ context.Context, serviceID int64, date, status string) ([]model.Appointment, error) {
	var out []model.Appointment
	for _, a := range st.appts {
		if serviceID != 0 && a.ServiceID != serviceID {
			continue
		}
		if date != "" && a.Date != date {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (st *memStore) Update(_ context.Context, appt *model.Appointment) error {
	if _, ok := st.appts[appt.ID]; !ok {
		return apperr.NotFound("appointment not found")
	}
	if appt.Status != model.StatusCancelled && st.activeAt(appt.Date, appt.Time, appt.ID) {
		return apperr.Conflict("an appointment already exists at this time")
	}
	st.appts[appt.ID] = *appt
	return nil
}

func (st *memStore) Cancel(_ context.Context, id int64) error {
	a, ok := st.appts[id]
	if !ok {
		return apperr.NotFound("appointment not found")
	}
	a.Status = model.StatusCancelled
	st.appts[id] = a
	return nil
}

func (st *memStore) BookedTimes(_ context.Context, date string) ([]string, error) {
	var out []string
	for _, a := range st.appts {
		if a.Date == date && a.Status != model.StatusCancelled {
			out = append(out, a.Time)
		}
	}
	return out, nil
}

func (st *memStore) HasActiveAt(_ context.Context, date, timeOfDay string, excludeID int64) (bool, error) {
	return st.activeAt(date, timeOfDay, excludeID), nil
}

func (st *memStore) CountActiveByService(_ context.Context, serviceID int64) (int64, error) {
	var n int64
	for _, a := range st.appts {
		if a.ServiceID == serviceID && a.Status != model.StatusCancelled {
			n++
		}
	}
	return n, nil
}

type serviceStore struct{ st *memStore }

func (s serviceStore) List(_ context.Context, active *bool) ([]model.Service, error) {
	var out []model.Service
	for _, svc := range s.st.services {
		if active != nil && svc.Active != *active {
			continue
		}
		out = append(out, svc)
	}
	return out, nil
}

func (s serviceStore) Get(_ context.Context, id int64) (model.Service, error) {
	svc, ok := s.st.services[id]
	if !ok {
		return model.Service{}, apperr.NotFound("service not found")
	}
	return svc, nil
}

func (s serviceStore) Insert(_ context.Context, svc *model.Service) (int64, error) {
	for _, existing := range s.st.services {
		if existing.Name == svc.Name {
			return 0, apperr.Conflict("a service with this name already exists")
		}
	}
	svc.ID = s.st.nextServiceID
	s.st.nextServiceID++
	s.st.services[svc.ID] = *svc
	return svc.ID, nil
}

func (s serviceStore) Update(_ context.Context, svc *model.Service) error {
	if _, ok := s.st.services[svc.ID]; !ok {
		return apperr.NotFound("service not found")
	}
	s.st.services[svc.ID] = *svc
	return nil
}

func (s serviceStore) Deactivate(_ context.Context, id int64) error {
	svc, ok := s.st.services[id]
	if !ok {
		return apperr.NotFound("service not found")
	}
	svc.Active = false
	s.st.services[id] = svc
	return nil
}

type hoursStore struct{ st *memStore }

func (h hoursStore) ForWeekday(_ context.Context, wd time.Weekday) (model.BusinessHours, error) {
	bh, ok := h.st.hours[wd]
	if !ok {
		return model.BusinessHours{Weekday: wd, Active: false}, nil
	}
	return bh, nil
}

type contactStore struct{ st *memStore }

func (c contactStore) Insert(_ context.Context, msg *model.ContactMessage) (int64, error) {
	msg.ID = c.st.nextMsgID
	c.st.nextMsgID++
	msg.CreatedAt = time.Now()
	c.st.msgs[msg.ID] = *msg
	return msg.ID, nil
}

func (c contactStore) Get(_ context.Context, id int64) (model.ContactMessage, error) {
	m, ok := c.st.msgs[id]
	if !ok {
		return model.ContactMessage{}, apperr.NotFound("contact message not found")
	}
	return m, nil
}

func (c contactStore) List(_ context.Context, read *bool, limit, offset int) ([]model.ContactMessage, error) {
	var out []model.ContactMessage
	for _, m := range c.st.msgs {
		if read != nil && m.Read != *read {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (c contactStore) SetRead(_ context.Context, id int64, read bool) error {
	m, ok := c.st.msgs[id]
	if !ok {
		return apperr.NotFound("contact message not found")
	}
	m.Read = read
	c.st.msgs[id] = m
	return nil
}

func (c contactStore) Delete(_ context.Context, id int64) error {
	if _, ok := c.st.msgs[id]; !ok {
		return apperr.NotFound("contact message not found")
	}
	delete(c.st.msgs, id)
	return nil
}

func (c contactStore) Stats(_ context.Context) (model.ContactStats, error) {
	var st model.ContactStats
	for _, m := range c.st.msgs {
		st.Total++
		if !m.Read {
			st.Unread++
		}
	}
	return st, nil
}

func (c contactStore) Recent(ctx context.Context, limit int) ([]model.ContactMessage, error) {
	return c.List(ctx, nil, limit, 0)
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()
	st := newMemStore()
	logger := slog.New(slog.DiscardHandler)

	bookingSvc := booking.NewService(st, serviceStore{st}, hoursStore{st}, 30, logger)
	catalogSvc := catalog.NewService(serviceStore{st}, st, logger)
	contactSvc := contact.NewService(contactStore{st}, logger)

	mux := http.NewServeMux()
	Register(mux,
		NewAppointmentHandler(bookingSvc, logger),
		NewServiceHandler(catalogSvc, bookingSvc, logger),
		NewContactHandler(contactSvc, logger),
	)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, st
}

func seedService(t *testing.T, st *memStore, name string, active bool) int64 {
	t.Helper()
	svc := model.Service{Name: name, Price: 35, DurationMinutes: 30, Active: active}
	id, err := serviceStore{st}.Insert(context.Background(), &svc)
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return id
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func validBooking(serviceID int64) map[string]any {
	return map[string]any{
		"customer_name":  "João Silva",
		"customer_email": "joao@example.com",
		"customer_phone": "11987654321",
		"service_id":     serviceID,
		"date":           "2024-06-10",
		"time":           "10:00",
	}
}

func TestCreateAppointment_Created(t *testing.T) {
	srv, st := newTestServer(t)
	svcID := seedService(t, st, "Corte Masculino", true)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", validBooking(svcID))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var appt model.Appointment
	decodeBody(t, resp, &appt)
	if appt.ID == 0 || appt.Status != model.StatusPending {
		t.Fatalf("unexpected appointment: %+v", appt)
	}
}

func TestCreateAppointment_ValidationDetails(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", map[string]any{
		"customer_name": "",
		"date":          "junk",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error   string              `json:"error"`
		Details []apperr.FieldError `json:"details"`
	}
	decodeBody(t, resp, &body)
	if body.Error != "invalid request data" {
		t.Fatalf("unexpected error message: %q", body.Error)
	}
	if len(body.Details) == 0 {
		t.Fatal("expected field details in the response")
	}
}

func TestCreateAppointment_Conflict(t *testing.T) {
	srv, st := newTestServer(t)
	svcID := seedService(t, st, "Corte Masculino", true)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", validBooking(svcID))
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", validBooking(svcID))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCreateAppointment_InactiveService(t *testing.T) {
	srv, st := newTestServer(t)
	svcID := seedService(t, st, "Barba Completa", false)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", validBooking(svcID))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateAppointment_BadJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/appointments", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetAppointment_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/appointments/999")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetAppointment_BadID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/appointments/abc")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCancelAppointment(t *testing.T) {
	srv, st := newTestServer(t)
	svcID := seedService(t, st, "Corte Masculino", true)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", validBooking(svcID))
	var appt model.Appointment
	decodeBody(t, resp, &appt)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/appointments/"+itoa(appt.ID), nil)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var out map[string]any
	decodeBody(t, resp2, &out)
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp2.StatusCode)
	}
	if out["status"] != model.StatusCancelled {
		t.Fatalf("expected cancelled, got %v", out["status"])
	}
}

func TestAvailability(t *testing.T) {
	srv, st := newTestServer(t)
	svcID := seedService(t, st, "Corte Masculino", true)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", validBooking(svcID))
	resp.Body.Close()

	resp, err := http.Get(srv.URL + "/api/v1/appointments/availability/2024-06-10")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var avail model.Availability
	decodeBody(t, resp, &avail)
	if avail.TotalFree != 19 {
		t.Fatalf("expected 19 free slots, got %d", avail.TotalFree)
	}
	for _, slot := range avail.FreeSlots {
		if slot == "10:00" {
			t.Fatal("booked slot listed as free")
		}
	}
}

func TestAvailability_ClosedDay(t *testing.T) {
	srv, _ := newTestServer(t)

	// 2024-06-09 is a Sunday.
	resp, err := http.Get(srv.URL + "/api/v1/appointments/availability/2024-06-09")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var avail model.Availability
	decodeBody(t, resp, &avail)
	if avail.TotalFree != 0 || avail.FreeSlots == nil {
		t.Fatalf("expected empty free slots, got %+v", avail)
	}
}

func TestDeactivateService_BlockedByAppointments(t *testing.T) {
	srv, st := newTestServer(t)
	svcID := seedService(t, st, "Corte Masculino", true)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/appointments", validBooking(svcID))
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/services/"+itoa(svcID), nil)
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if resp2.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp2.StatusCode)
	}
	var body struct {
		Error              string `json:"error"`
		ActiveAppointments int64  `json:"active_appointments"`
	}
	decodeBody(t, resp2, &body)
	if body.ActiveAppointments != 1 {
		t.Fatalf("expected active_appointments 1, got %d", body.ActiveAppointments)
	}
}

func TestDeactivateService_Success(t *testing.T) {
	srv, st := newTestServer(t)
	svcID := seedService(t, st, "Sobrancelha", true)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/services/"+itoa(svcID), nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if st.services[svcID].Active {
		t.Fatal("service should be inactive")
	}
}

func TestCreateService_DuplicateName(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{"name": "Corte Masculino", "price": 35}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/services", body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/services", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestContactFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/contacts", map[string]any{
		"name":    "Maria Souza",
		"email":   "maria@example.com",
		"message": "Vocês atendem aos sábados?",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var msg model.ContactMessage
	decodeBody(t, resp, &msg)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/contacts/"+itoa(msg.ID), map[string]any{"read": true})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/v1/contacts/stats/overview")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	var stats model.ContactStats
	decodeBody(t, resp, &stats)
	if stats.Total != 1 || stats.Read != 1 || stats.Unread != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/api/v1/appointments", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
