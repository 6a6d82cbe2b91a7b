package api

import (
	"net/http"

	"github.com/ignite/openbeacon/internal/domain"
	"github.com/ignite/openbeacon/internal/pkg/httputil"
	"github.com/ignite/openbeacon/internal/pkg/logger"
	"github.com/ignite/openbeacon/internal/service/track"
)

// HandleCreateEmail is the issuer-side call: it creates the pending
// TrackedEmail row and returns the pixel URL and img tag for the compose
// flow to embed. The row is committed before this responds, so sending the
// email after a 201 cannot race the recorder.
func (s *Server) HandleCreateEmail(w http.ResponseWriter, r *http.Request) {
	var in track.IssueInput
	if !httputil.Decode(w, r, &in) {
		return
	}

	issued, err := s.svc.Issue(r.Context(), in)
	if err == track.ErrInvalidRecipient {
		httputil.BadRequest(w, "recipient_email is not a valid email address")
		return
	}
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	logger.Info("tracked email issued",
		"id", issued.ID,
		"recipient", issued.RecipientEmail,
		"owner", issued.OwnerUserID,
	)
	httputil.Created(w, issued)
}

// HandleListEmails returns tracked emails with their seen/seen_at fields
// for the dashboard collaborator. Optional ?owner= filters by owner.
func (s *Server) HandleListEmails(w http.ResponseWriter, r *http.Request) {
	emails, err := s.svc.List(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if emails == nil {
		emails = []domain.TrackedEmail{}
	}
	httputil.OK(w, emails)
}

// HandleHealth reports liveness.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]string{"status": "ok"})
}
