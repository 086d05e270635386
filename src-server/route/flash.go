package route

import (
	"net/http"
	"net/url"
)

const (
	noticeThanks     = "Thank you for responding!"
	alertIncomplete  = "Please complete all required fields"
	alertNotViewable = "This event is no longer viewable."
)

// redirectWith sends a 303 to path, carrying an optional notice or alert in
// the query string.
func redirectWith(w http.ResponseWriter, r *http.Request, path string, notice string, alert string) {
	query := url.Values{}
	if notice != "" {
		query.Set("notice", notice)
	}
	if alert != "" {
		query.Set("alert", alert)
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func eventPath(publicID string) string {
	return "/events/" + url.PathEscape(publicID)
}
