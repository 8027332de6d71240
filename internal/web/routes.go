package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attendance/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	identitiesHandler := handlers.NewIdentitiesHandler(s.identities, s.log)
	attendanceHandler := handlers.NewAttendanceHandler(s.ledger, s.log)
	configHandler := handlers.NewConfigHandler(s.config)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", configHandler.Get)

		r.Get("/identities", identitiesHandler.List)

		r.Get("/attendance", attendanceHandler.List)
		r.Get("/attendance/{name}/today", attendanceHandler.Today)
	})

	s.router.Get("/", s.serveIndex)
}

// serveIndex points browsers at the JSON API.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Face Attendance</title></head>
<body>
    <h1>Face Attendance</h1>
    <ul>
        <li><a href="/api/v1/health">/api/v1/health</a></li>
        <li><a href="/api/v1/config">/api/v1/config</a></li>
        <li><a href="/api/v1/identities">/api/v1/identities</a></li>
        <li><a href="/api/v1/attendance">/api/v1/attendance</a></li>
    </ul>
</body>
</html>`))
}
