package server

import (
	"bytes"
	"errors"
	"html/template"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/northwind-labs/website/internal/leads"
)

// resultPage is returned to browsers that post the forms without JavaScript.
var resultPage = template.Must(template.New("result").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="robots" content="noindex">
<title>{{.Title}} | Northwind Labs</title>
<link rel="stylesheet" href="/css/site.css">
</head>
<body>
<main class="form-result">
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{- if .Fields}}
<ul>{{range .Fields}}<li>{{.}}</li>{{end}}</ul>
{{- end}}
<p><a href="{{.Back}}">Go back</a></p>
</main>
</body>
</html>
`))

type pageData struct {
	Title   string
	Message string
	Fields  []string
	Back    string
}

// HandleContact accepts a project enquiry as JSON or a form post.
func (h *Handlers) HandleContact(c echo.Context) error {
	var form leads.ContactForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.leads.SubmitContact(c.Request().Context(), form, c.RealIP())
	if err != nil {
		return h.formError(c, err, "/contact")
	}
	return h.respond(c, http.StatusOK, map[string]string{"status": "sent"}, pageData{
		Title:   "Thanks for getting in touch",
		Message: "We have received your message and will reply within two working days.",
		Back:    "/",
	})
}

// HandleNewsletter accepts a newsletter signup as JSON or a form post.
func (h *Handlers) HandleNewsletter(c echo.Context) error {
	var form leads.NewsletterForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	created, err := h.leads.Subscribe(c.Request().Context(), form, c.RealIP())
	if err != nil {
		return h.formError(c, err, "/")
	}

	status := http.StatusOK
	msg := "You are already on the list."
	if created {
		status = http.StatusCreated
		msg = "You are subscribed. Look out for our next issue."
	}
	return h.respond(c, status, map[string]any{"status": "subscribed", "created": created}, pageData{
		Title:   "Newsletter",
		Message: msg,
		Back:    "/",
	})
}

func (h *Handlers) formError(c echo.Context, err error, back string) error {
	var verr *leads.ValidationError
	var status int
	body := errorResponse{}
	page := pageData{Title: "Something went wrong", Back: back}

	switch {
	case errors.As(err, &verr):
		status = http.StatusUnprocessableEntity
		body.Error = "validation failed"
		body.Fields = verr.Fields
		page.Title = "Please check the form"
		page.Message = "Some fields need your attention:"
		page.Fields = slices.Sorted(maps.Values(verr.Fields))
	case errors.Is(err, leads.ErrBotCheck):
		status = http.StatusForbidden
		body.Error = "bot check failed"
		page.Message = "We could not verify that you are human. Please try again."
	case errors.Is(err, leads.ErrNewsletterDisabled):
		status = http.StatusServiceUnavailable
		body.Error = "newsletter is not available"
		page.Message = "The newsletter is not available right now."
	case errors.Is(err, leads.ErrDelivery):
		status = http.StatusBadGateway
		body.Error = "message could not be delivered"
		page.Message = "Your message could not be delivered. Please email us directly."
	default:
		h.logger.ErrorContext(c.Request().Context(), "form submission failed", "err", err)
		status = http.StatusInternalServerError
		body.Error = "internal error"
		page.Message = "Please try again later."
	}
	return h.respond(c, status, body, page)
}

// respond writes body as JSON unless the client prefers HTML.
func (h *Handlers) respond(c echo.Context, status int, body any, page pageData) error {
	if !wantsHTML(c.Request()) {
		return c.JSON(status, body)
	}
	var buf bytes.Buffer
	if err := resultPage.Execute(&buf, page); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMETextHTML) && !strings.Contains(accept, echo.MIMEApplicationJSON)
}
