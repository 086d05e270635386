package route

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"guestlist/src-server/form"
	"guestlist/src-server/identity"
	"guestlist/src-server/ledger"
	"guestlist/src-server/model"
	"guestlist/src-server/utils"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"github.com/uptrace/bun"
)

var validate = validator.New()

type CustomFieldRespBody struct {
	ID        int64    `json:"id"`
	FieldName string   `json:"fieldName"`
	FieldType string   `json:"fieldType"`
	Required  bool     `json:"required"`
	Options   []string `json:"options"`
	Position  int      `json:"position"`
}

type AnswerRespBody struct {
	CustomFieldID int64  `json:"customFieldId"`
	FieldName     string `json:"fieldName"`
	Value         string `json:"value"`
}

type RsvpRespBody struct {
	Name     string           `json:"name"`
	Response string           `json:"response"`
	Answers  []AnswerRespBody `json:"answers"`
	Mine     bool             `json:"mine"`
	Token    string           `json:"token,omitempty"` // only for the guest's own rsvps
}

type EventRespBody struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Body         string                `json:"body"`
	DateUnixUTC  int64                 `json:"dateUnixUTC"`
	CustomFields []CustomFieldRespBody `json:"customFields"`
	Rsvps        []RsvpRespBody        `json:"rsvps"`
	Responded    bool                  `json:"responded"`
	Notice       string                `json:"notice,omitempty"`
	Alert        string                `json:"alert,omitempty"`
	AdminToken   string                `json:"adminToken,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	respBodyJson, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't marshal response body"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(respBodyJson)
}

// findEvent resolves the {id} path value. On a miss it has already redirected
// the guest home and returns nil.
func findEvent(w http.ResponseWriter, r *http.Request, as *utils.AppState, pathKey string) *model.Event {
	startTimer := time.Now()
	event, err := model.FindPublishedEvent(r.Context(), as.BunDB, as.Hashids.Event, r.PathValue(pathKey))
	switch {
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrUnpublished):
		redirectWith(w, r, "/", "", alertNotViewable)
		return nil
	case err != nil:
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Can't find event"))
		slog.Error("can't find event", "id", r.PathValue(pathKey), "error", err)
		return nil
	}
	as.MetricChans.ObserveDatabaseRead(startTimer)
	return event
}

func eventRespBody(event *model.Event, rsvps []*model.Rsvp, set *identity.Set) EventRespBody {
	respBody := EventRespBody{
		ID:           event.PublicID(),
		Title:        event.Title,
		Body:         event.Body,
		DateUnixUTC:  event.Date,
		CustomFields: make([]CustomFieldRespBody, 0, len(event.CustomFields)),
		Rsvps:        make([]RsvpRespBody, 0, len(rsvps)),
	}
	for _, field := range event.CustomFields {
		options := []string(field.Options)
		if options == nil {
			options = []string{}
		}
		respBody.CustomFields = append(respBody.CustomFields, CustomFieldRespBody{
			ID:        field.ID,
			FieldName: field.FieldName,
			FieldType: string(field.FieldType),
			Required:  field.Required,
			Options:   options,
			Position:  field.Position,
		})
	}
	for _, rsvp := range rsvps {
		mine := set.Contains(event.Hash, rsvp.Token)
		rsvpRespBody := RsvpRespBody{
			Name:     rsvp.Name,
			Response: string(rsvp.Response),
			Answers:  make([]AnswerRespBody, 0),
			Mine:     mine,
		}
		if mine {
			rsvpRespBody.Token = rsvp.Token
			respBody.Responded = true
		}
		for _, field := range event.CustomFields {
			if response := rsvp.CustomFieldResponseFor(field); response != nil {
				rsvpRespBody.Answers = append(rsvpRespBody.Answers, AnswerRespBody{
					CustomFieldID: field.ID,
					FieldName:     field.FieldName,
					Value:         response.ResponseValue,
				})
			}
		}
		respBody.Rsvps = append(respBody.Rsvps, rsvpRespBody)
	}
	return respBody
}

func Events(muxer *http.ServeMux, as *utils.AppState) {
	backend := identity.NewBunBackend(as.BunDB)
	rsvpLedger := ledger.New(as.BunDB, as.Hashids.Rsvp)

	type CreateEventReqBody struct {
		Title string `validate:"required,max=255"`
		Body  string
		Date  string
	}

	// create an event together with its custom fields, then send the
	// organizer to the admin page
	muxer.HandleFunc("POST /events", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("Invalid request body"))
			return
		}
		reqBody := CreateEventReqBody{
			Title: strings.TrimSpace(r.PostFormValue("title")),
			Body:  r.PostFormValue("body"),
			Date:  r.PostFormValue("date"),
		}
		if err := validate.Struct(reqBody); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte("Please provide a title of at most 255 characters"))
			return
		}

		event := &model.Event{
			Title: reqBody.Title,
			Body:  reqBody.Body,
		}
		if reqBody.Date != "" {
			date, err := utils.ParseDate(as.When, reqBody.Date, time.Now())
			if err != nil {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte("Can't understand the date"))
				return
			}
			event.Date = date
		}
		specs := fieldSpecsFromForm(r.PostForm)

		startTimer := time.Now()
		if err := as.BunDB.RunInTx(r.Context(), &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
			if err := event.Insert(ctx, tx); err != nil {
				return err
			}
			fields, err := form.CreateFields(ctx, tx, event.ID, specs)
			if err != nil {
				return err
			}
			event.CustomFields = fields
			return nil
		}); err != nil {
			if errors.Is(err, form.ErrSchemaInvalid) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte("Invalid custom fields"))
				slog.Debug("invalid custom field batch", "error", err)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create event"))
			slog.Error("can't create event", "error", err)
			return
		}
		as.MetricChans.ObserveDatabaseWrite(startTimer)

		hash, err := as.Hashids.Event.Encode(event.ID)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't create event id"))
			slog.Error("can't encode event id", "error", err)
			return
		}
		event.Hash = hash
		http.Redirect(w, r, eventPath(event.PublicID())+"/admin/"+event.AdminToken, http.StatusSeeOther)
	})

	// show an event with its rsvps
	muxer.HandleFunc("GET /events/{id}", GuestSessionMiddleware(as, backend,
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

			rsvps, err := rsvpLedger.List(r.Context(), event)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Can't get rsvps"))
				slog.Error("can't list rsvps", "event", event.ID, "error", err)
				return
			}

			respBody := eventRespBody(event, rsvps, session.Set)
			respBody.Notice = r.URL.Query().Get("notice")
			respBody.Alert = r.URL.Query().Get("alert")
			writeJSON(w, http.StatusOK, respBody)
		}))

	// the organizer's view, reachable only with the admin token
	muxer.HandleFunc("GET /events/{id}/admin/{adminToken}", func(w http.ResponseWriter, r *http.Request) {
		event := findEvent(w, r, as, "id")
		if event == nil {
			return
		}
		if subtle.ConstantTimeCompare([]byte(event.AdminToken), []byte(r.PathValue("adminToken"))) != 1 {
			redirectWith(w, r, "/", "", alertNotViewable)
			return
		}

		rsvps, err := rsvpLedger.List(r.Context(), event)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Can't get rsvps"))
			slog.Error("can't list rsvps", "event", event.ID, "error", err)
			return
		}

		respBody := eventRespBody(event, rsvps, nil)
		respBody.AdminToken = event.AdminToken
		writeJSON(w, http.StatusOK, respBody)
	})
}
