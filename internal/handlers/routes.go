package handlers

import "net/http"

// Register attaches the API routes to the mux. Method+path patterns let
// the mux answer 405 for wrong methods on known paths.
func Register(mux *http.ServeMux, appts *AppointmentHandler, services *ServiceHandler, contacts *ContactHandler) {
	mux.HandleFunc("GET /api/v1/appointments", appts.List)
	mux.HandleFunc("POST /api/v1/appointments", appts.Create)
	mux.HandleFunc("GET /api/v1/appointments/availability/{date}", appts.Availability)
	mux.HandleFunc("GET /api/v1/appointments/{id}", appts.Get)
	mux.HandleFunc("PUT /api/v1/appointments/{id}", appts.Update)
	mux.HandleFunc("DELETE /api/v1/appointments/{id}", appts.Cancel)

	mux.HandleFunc("GET /api/v1/services", services.List)
	mux.HandleFunc("POST /api/v1/services", services.Create)
	mux.HandleFunc("GET /api/v1/services/{id}", services.Get)
	mux.HandleFunc("PUT /api/v1/services/{id}", services.Update)
	mux.HandleFunc("DELETE /api/v1/services/{id}", services.Deactivate)
	mux.HandleFunc("GET /api/v1/services/{id}/appointments", services.Appointments)

	mux.HandleFunc("GET /api/v1/contacts", contacts.List)
	mux.HandleFunc("POST /api/v1/contacts", contacts.Create)
	mux.HandleFunc("GET /api/v1/contacts/stats/overview", contacts.Stats)
	mux.HandleFunc("GET /api/v1/contacts/recent", contacts.Recent)
	mux.HandleFunc("GET /api/v1/contacts/{id}", contacts.Get)
	mux.HandleFunc("PUT /api/v1/contacts/{id}", contacts.SetRead)
	mux.HandleFunc("DELETE /api/v1/contacts/{id}", contacts.Delete)
}
