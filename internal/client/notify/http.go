package notify

import "net/http"

// Default titles and messages for HTTP failures forwarded by the request
// interceptor. Callers can override the message per request; the title
// always comes from the status.
var httpTitles = map[int]string{
	http.StatusBadRequest:          "Validation failed",
	http.StatusUnauthorized:        "Not authorized",
	http.StatusForbidden:           "Access denied",
	http.StatusNotFound:            "Not found",
	http.StatusConflict:            "Conflict",
	http.StatusUnprocessableEntity: "Validation failed",
}

var httpMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request",
	http.StatusUnauthorized:        "Please log in to continue",
	http.StatusForbidden:           "You do not have the rights for this action",
	http.StatusNotFound:            "The requested resource does not exist",
	http.StatusRequestTimeout:      "The request timed out",
	http.StatusConflict:            "Data conflict",
	http.StatusUnprocessableEntity: "Invalid data",
	http.StatusTooManyRequests:     "Too many requests",
	http.StatusInternalServerError: "Temporary server problem",
	http.StatusBadGateway:          "Service unavailable",
	http.StatusServiceUnavailable:  "Service under maintenance",
	http.StatusGatewayTimeout:      "The server took too long to respond",
}

// PublishHTTPError publishes an error notification for a failed call.
// status 0 means the server could not be reached at all. A non-empty
// message overrides the status default.
func (b *Bus) PublishHTTPError(status int, message string) Notification {
	title := "Connection error"
	if t, ok := httpTitles[status]; ok {
		title = t
	} else if status >= 500 {
		title = "Server error"
	}

	if message == "" {
		if status == 0 {
			message = "The server cannot be reached"
		} else if m, ok := httpMessages[status]; ok {
			message = m
		} else {
			message = http.StatusText(status)
		}
	}
	return b.Publish(KindError, title, message, 0)
}
