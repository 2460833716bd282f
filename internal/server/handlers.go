package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/northwind-labs/website/internal/history"
	"github.com/northwind-labs/website/internal/index"
	"github.com/northwind-labs/website/internal/leads"
	"github.com/northwind-labs/website/internal/metrics"
	"github.com/northwind-labs/website/internal/search"
)

const (
	visitorCookie = "visitor_id"
	visitorMaxAge = 365 * 24 * time.Hour
	maxLimit      = search.FullLimit
)

type Handlers struct {
	store    *index.Store
	searcher *search.Searcher
	history  history.Store
	leads    *leads.Service
	locale   language.Tag
	logger   *slog.Logger
	robots   []byte
	sitemap  []byte
}

func NewHandlers(d Deps, logger *slog.Logger, robots, sitemap []byte) *Handlers {
	return &Handlers{
		store:    d.Store,
		searcher: d.Searcher,
		history:  d.History,
		leads:    d.Leads,
		locale:   d.Locale,
		logger:   logger,
		robots:   robots,
		sitemap:  sitemap,
	}
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []search.Result `json:"results"`
	Total   int             `json:"total"`
}

// HandleSearch serves the quick-search dropdown.
func (h *Handlers) HandleSearch(c echo.Context) error {
	query := c.QueryParam("q")
	limit := search.QuickLimit
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = min(n, maxLimit)
	}

	results := h.searcher.Search(query, limit)
	metrics.RecordSearch("quick", len(results))

	return c.JSON(http.StatusOK, searchResponse{
		Query:   query,
		Results: results,
		Total:   len(results),
	})
}

type fullSearchResponse struct {
	Query string          `json:"query"`
	Type  string          `json:"type"`
	Sort  search.SortMode `json:"sort"`
	search.Page
}

// HandleFullSearch serves the results page: the top candidates filtered by
// type, reordered and paginated.
func (h *Handlers) HandleFullSearch(c echo.Context) error {
	query := c.QueryParam("q")

	typ, err := search.ParseTypeFilter(c.QueryParam("type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mode, err := search.ParseSortMode(c.QueryParam("sort"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	page := 1
	if s := c.QueryParam("page"); s != "" {
		if page, err = strconv.Atoi(s); err != nil || page < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid page")
		}
	}

	results := h.searcher.Search(query, search.FullLimit)
	metrics.RecordSearch("full", len(results))
	results = search.FilterByType(results, typ)
	results = search.SortResults(results, mode, h.locale)

	if h.searcher.Accepts(query) {
		ctx := c.Request().Context()
		if err := h.history.Record(ctx, h.visitorID(c), query); err != nil {
			h.logger.WarnContext(ctx, "record search history", "err", err)
		}
	}

	filter := string(typ)
	if filter == "" {
		filter = search.TypeAll
	}
	return c.JSON(http.StatusOK, fullSearchResponse{
		Query: query,
		Type:  filter,
		Sort:  mode,
		Page:  search.Paginate(results, page, search.ResultsPerPage),
	})
}

// HandleRecent lists the visitor's recent full-search queries.
func (h *Handlers) HandleRecent(c echo.Context) error {
	queries := []string{}
	if cookie, err := c.Cookie(visitorCookie); err == nil && validVisitor(cookie.Value) {
		recent, err := h.history.Recent(c.Request().Context(), cookie.Value, history.DefaultSize)
		if err != nil {
			return err
		}
		if recent != nil {
			queries = recent
		}
	}
	return c.JSON(http.StatusOK, map[string]any{"queries": queries})
}

type statusResponse struct {
	CatalogSize int    `json:"catalogSize"`
	History     string `json:"history"`
	Newsletter  bool   `json:"newsletter"`
}

func (h *Handlers) HandleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, statusResponse{
		CatalogSize: h.store.Count(),
		History:     h.history.Name(),
		Newsletter:  h.leads.NewsletterEnabled(),
	})
}

func (h *Handlers) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) HandleRobots(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, h.robots)
}

func (h *Handlers) HandleSitemap(c echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, h.sitemap)
}

// visitorID returns the visitor cookie, issuing a new one when it is missing
// or malformed.
func (h *Handlers) visitorID(c echo.Context) string {
	if cookie, err := c.Cookie(visitorCookie); err == nil && validVisitor(cookie.Value) {
		return cookie.Value
	}
	id := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func validVisitor(v string) bool {
	return uuid.Validate(v) == nil
}
