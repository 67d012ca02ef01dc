package envelope

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Fallbacks applied when an error carries no status or public title.
const (
	DefaultStatus = http.StatusInternalServerError
	DefaultTitle  = "Internal Server Error"
)

// Envelope is the stable JSON shape returned on every failure path.
type Envelope struct {
	Status   int    `json:"status"`
	Error    string `json:"error"`
	Response Body   `json:"response"`
}

// Body carries the human-readable message: a single string for handler
// errors, a one-element array for unmatched routes.
type Body struct {
	Message any `json:"message"`
}

// StatusCoder is implemented by errors that carry an HTTP status.
type StatusCoder interface {
	StatusCode() int
}

// TitledError is implemented by errors that carry a public title safe to
// return to clients.
type TitledError interface {
	PublicTitle() string
}

// HTTPError is a convenience error carrying a status, a public title, and a
// detail message.
type HTTPError struct {
	Status int
	Title  string
	Detail string
}

// NewHTTPError builds an HTTPError with the given status and messages.
func NewHTTPError(status int, title, detail string) *HTTPError {
	return &HTTPError{Status: status, Title: title, Detail: detail}
}

func (e *HTTPError) Error() string { return e.Detail }

func (e *HTTPError) StatusCode() int { return e.Status }

func (e *HTTPError) PublicTitle() string { return e.Title }

// StatusOf extracts the HTTP status from err, defaulting to 500.
func StatusOf(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		if status := sc.StatusCode(); status > 0 {
			return status
		}
	}
	return DefaultStatus
}

// TitleOf extracts the public title from err, defaulting to
// "Internal Server Error".
func TitleOf(err error) string {
	var te TitledError
	if errors.As(err, &te) {
		if title := te.PublicTitle(); title != "" {
			return title
		}
	}
	return DefaultTitle
}

// MessageOf extracts the detail message from err, with the same fallback as
// the title.
func MessageOf(err error) string {
	if err == nil || err.Error() == "" {
		return DefaultTitle
	}
	return err.Error()
}

// Render writes the error envelope for err with a matching HTTP status.
func Render(c *gin.Context, err error) {
	status := StatusOf(err)
	c.JSON(status, Envelope{
		Status:   status,
		Error:    TitleOf(err),
		Response: Body{Message: MessageOf(err)},
	})
}

// ErrorHandler is the terminal error middleware. It lets the chain run, then
// renders the envelope for the last recorded error and reports it through
// reporter. When no error was recorded, control falls through untouched so
// the NoRoute handler can fire.
func ErrorHandler(reporter func(error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		if reporter != nil {
			reporter(err)
		}
		if c.Writer.Written() {
			return
		}
		Render(c, err)
	}
}

// NoRoute handles unmatched routes with the fixed 404 envelope. The message
// is a one-element array of the form "Cannot <METHOD> <path>".
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := strings.ToUpper(c.Request.Method)
		c.JSON(http.StatusNotFound, Envelope{
			Status:   http.StatusNotFound,
			Error:    "Not Found",
			Response: Body{Message: []string{fmt.Sprintf("Cannot %s %s", method, c.Request.URL.Path)}},
		})
	}
}
