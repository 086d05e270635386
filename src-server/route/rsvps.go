package route

import (
	"errors"
	"guestlist/src-server/form"
	"guestlist/src-server/identity"
	"guestlist/src-server/ledger"
	"guestlist/src-server/metric"
	"guestlist/src-server/utils"
	"log/slog"
	"net/http"
	"time"
)

func Rsvps(muxer *http.ServeMux, as *utils.AppState) {
	backend := identity.NewBunBackend(as.BunDB)
	rsvpLedger := ledger.New(as.BunDB, as.Hashids.Rsvp)

	// respond to an event
	muxer.HandleFunc("POST /events/{id}/rsvps", GuestSessionMiddleware(as, backend,
		func(w http.ResponseWriter, r *http.Request) {
			session, ok := guestSessionFromCtx(r.Context())
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get guest session from middleware"))
				return
			}
			event := findEvent(w, r, as, "id")
			if event == nil {
				return
			}
			if err := r.ParseForm(); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte("Invalid request body"))
				return
			}

			startTimer := time.Now()
			rsvp, err := rsvpLedger.Submit(r.Context(), event, ledger.Submission{
				Name:     r.PostFormValue("name"),
				Response: r.PostFormValue("commit"),
				Answers:  answersFromForm(r.PostForm),
			})
			switch {
			case errors.Is(err, form.ErrValidationFailed), errors.Is(err, ledger.ErrResponseCreationFailed):
				metric.RsvpSubmissions.WithLabelValues("invalid").Inc()
				slog.Debug("rsvp rejected", "event", event.ID, "error", err)
				redirectWith(w, r, eventPath(event.PublicID()), "", alertIncomplete)
				return
			case err != nil:
				metric.RsvpSubmissions.WithLabelValues("error").Inc()
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't save rsvp"))
				slog.Error("can't save rsvp", "event", event.ID, "error", err)
				return
			}
			as.MetricChans.ObserveDatabaseWrite(startTimer)
			metric.RsvpSubmissions.WithLabelValues("created").Inc()

			session.Set.Record(event.Hash, rsvp.Token)
			if err := session.Save(r.Context()); err != nil {
				slog.Error("can't save guest session", "error", err)
			}
			redirectWith(w, r, eventPath(event.PublicID()), noticeThanks, "")
		}))

	// cancel one of the guest's own rsvps; the outcome is never revealed
	destroy := GuestSessionMiddleware(as, backend,
		func(w http.ResponseWriter, r *http.Request) {
			session, ok := guestSessionFromCtx(r.Context())
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get guest session from middleware"))
				return
			}
			event := findEvent(w, r, as, "id")
			if event == nil {
				return
			}

			startTimer := time.Now()
			deleted, err := rsvpLedger.Destroy(r.Context(), event, r.PathValue("token"), session.Set)
			switch {
			case err != nil:
				metric.RsvpDestroys.WithLabelValues("error").Inc()
				slog.Error("can't destroy rsvp", "event", event.ID, "error", err)
			case deleted:
				as.MetricChans.ObserveDatabaseWrite(startTimer)
				metric.RsvpDestroys.WithLabelValues("destroyed").Inc()
			default:
				metric.RsvpDestroys.WithLabelValues("ignored").Inc()
			}

			if err := session.Save(r.Context()); err != nil {
				slog.Error("can't save guest session", "error", err)
			}
			redirectWith(w, r, eventPath(event.PublicID()), "", "")
		})
	muxer.HandleFunc("POST /events/{id}/rsvps/{token}/delete", destroy)
	muxer.HandleFunc("DELETE /events/{id}/rsvps/{token}", destroy)
}
