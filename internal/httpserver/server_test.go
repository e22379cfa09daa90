package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"prognocore.com/web/internal/backend"
	"prognocore.com/web/internal/config"
	"prognocore.com/web/internal/forms"
	"prognocore.com/web/internal/handlers"
)

type submission struct {
	endpoint backend.Endpoint
	payload  any
}

type fakeSubmitter struct {
	mu     sync.Mutex
	status forms.Status
	calls  []submission
}

func (f *fakeSubmitter) Submit(_ context.Context, endpoint backend.Endpoint, payload any) forms.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, submission{endpoint: endpoint, payload: payload})
	return f.status
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testSite() config.SiteConfig {
	return config.SiteConfig{
		Env:          "local",
		Dev:          false,
		BaseURL:      "https://prognocore.com",
		TemplatesDir: "../../templates",
		PublicDir:    "../../public",
	}
}

func newTestRouter(t *testing.T, sub *fakeSubmitter, analytics handlers.Analytics) http.Handler {
	t.Helper()
	h, err := NewRouter(Deps{Site: testSite(), Submitter: sub, Analytics: analytics})
	require.NoError(t, err)
	return h
}

// client keeps cookies between requests like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, h: h, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// post sends a form with the CSRF header taken from the cookie jar.
func (c *client) post(path string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	c.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if ck, ok := c.cookies["csrf_token"]; ok {
		req.Header.Set("X-CSRF-Token", ck.Value)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return c.do(req)
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return doc
}

func TestNewRouterRequiresSubmitter(t *testing.T) {
	_, err := NewRouter(Deps{Site: testSite()})
	require.ErrorIs(t, err, ErrNoSubmitter)
}

func TestHealthz(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	rec := c.get("/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestHomePage(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))

	doc := document(t, rec)
	require.Equal(t, "dark", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, "/assets/img/logo-white.svg", doc.Find("#site-logo").AttrOr("src", ""))
	require.Equal(t, "/", doc.Find(".nav-link.active").AttrOr("href", ""))
	require.Equal(t, 1, doc.Find("#newsletter-form").Length())
	require.Equal(t, 1, doc.Find("#theme-toggle").Length())
	require.Equal(t, 4, doc.Find(".industries-preview .industry-card").Length())
	require.Equal(t, 2, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Contains(t, doc.Find("title").Text(), "PrognoCore")

	token := c.cookies["csrf_token"]
	require.NotNil(t, token)
	require.Equal(t, token.Value, doc.Find(`#newsletter-form input[name="csrf_token"]`).AttrOr("value", ""))
}

func TestServiceDetail(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))

	rec := c.get("/services/equipment-monitoring")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	require.Equal(t, "Equipment Condition Monitoring", strings.TrimSpace(doc.Find(".service-detail h1").Text()))
	require.Equal(t, "/services", doc.Find(".nav-link.active").AttrOr("href", ""))
	require.Positive(t, doc.Find(".breadcrumbs li").Length())

	rec = c.get("/services/unknown-slug")
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc = document(t, rec)
	require.Equal(t, "Service not found", strings.TrimSpace(doc.Find(".not-found h1").Text()))
	require.Equal(t, 1, doc.Find("#site-logo").Length(), "layout kept on unknown slug")
}

func TestIndustryDetail(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))

	rec := c.get("/industries/manufacturing")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Manufacturing Industry Solutions")

	rec = c.get("/industries/nowhere")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Industry not found")
}

func TestDetailSlugIsUnescapedOnce(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/services/equipment%2Dmonitoring", http.StatusOK, "Equipment Condition Monitoring"},
		{"/services/equipment%252Dmonitoring", http.StatusNotFound, "Service not found"},
		{"/industries/oil%252Dgas", http.StatusNotFound, "Industry not found"},
		{"/services/equipment-monitoring/", http.StatusOK, "Equipment Condition Monitoring"},
		{"/services/", http.StatusNotFound, "Service not found"},
	}
	for _, tc := range cases {
		rec := c.get(tc.path)
		if rec.Code != tc.status {
			t.Fatalf("GET %s = %d, want %d", tc.path, rec.Code, tc.status)
		}
		require.Contains(t, rec.Body.String(), tc.body, tc.path)
	}
}

func TestListings(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	for _, path := range []string{"/services", "/industries", "/contact"} {
		rec := c.get(path)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
	}
	doc := document(t, c.get("/services"))
	doc.Find(".service-card").Each(func(_ int, s *goquery.Selection) {
		require.True(t, strings.HasPrefix(s.AttrOr("href", ""), "/services/"))
	})
}

func TestMarkdownPages(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))

	doc := document(t, c.get("/learn-more"))
	require.Positive(t, doc.Find(".toc a").Length())
	require.Equal(t, "#from-reactive-to-predictive-the-evolution-of-maintenance", doc.Find(".toc a").First().AttrOr("href", ""))

	rec := c.get("/privacy")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "March 2025")

	rec = c.get("/about")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Predict. Prevent. Perform.")
}

func TestNotFound(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	rec := c.get("/nope/at/all")
	require.Equal(t, http.StatusNotFound, rec.Code)
	doc := document(t, rec)
	require.Equal(t, "Page not found", strings.TrimSpace(doc.Find(".not-found h1").Text()))
}

func TestRobotsAndSitemap(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))

	rec := c.get("/robots.txt")
	require.Contains(t, rec.Body.String(), "Sitemap: https://prognocore.com/sitemap.xml")

	rec = c.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, loc := range []string{
		"https://prognocore.com/",
		"https://prognocore.com/services/equipment-monitoring",
		"https://prognocore.com/industries/manufacturing",
		"https://prognocore.com/learn-more",
		"https://prognocore.com/contact",
	} {
		require.Contains(t, body, "<loc>"+loc+"</loc>")
	}
}

func TestContactRejectsInvalidInput(t *testing.T) {
	sub := &fakeSubmitter{status: forms.Success}
	c := newClient(t, newTestRouter(t, sub, handlers.Analytics{}))
	c.get("/contact")

	rec := c.post("/contact", url.Values{"name": {"Ada"}, "email": {"not-an-email"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Zero(t, sub.count())

	doc := document(t, rec)
	require.Equal(t, "Ada", doc.Find("#name").AttrOr("value", ""))
	require.Equal(t, 1, doc.Find("#email-error").Length())
	require.Equal(t, 1, doc.Find("#message-error").Length())
	require.Zero(t, doc.Find("header").Length(), "htmx gets the form only")
}

func contactValues() url.Values {
	return url.Values{
		"name":    {"Ada Lovelace"},
		"email":   {"ada@example.com"},
		"company": {"Analytical Engines"},
		"reason":  {string(forms.ReasonConsultation)},
		"message": {"We run 40 compressors."},
	}
}

// htmx 2 drops 4xx bodies unless responseHandling says otherwise; the
// validation fragments are sent with 422.
func TestLayoutSwapsValidationResponses(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	doc := document(t, c.get("/contact"))

	raw, ok := doc.Find(`meta[name="htmx-config"]`).Attr("content")
	require.True(t, ok, "layout carries htmx-config")
	var cfg struct {
		ResponseHandling []struct {
			Code  string `json:"code"`
			Swap  bool   `json:"swap"`
			Error bool   `json:"error"`
		} `json:"responseHandling"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))

	// first matching entry wins, as in htmx
	swaps := func(status int) bool {
		code := strconv.Itoa(status)
		for _, h := range cfg.ResponseHandling {
			if regexp.MustCompile(h.Code).MatchString(code) {
				return h.Swap
			}
		}
		t.Fatalf("no responseHandling entry for %s", code)
		return false
	}
	require.True(t, swaps(http.StatusUnprocessableEntity))
	require.True(t, swaps(http.StatusOK))
	require.False(t, swaps(http.StatusNoContent))
	require.False(t, swaps(http.StatusForbidden))
	require.False(t, swaps(http.StatusInternalServerError))

	rec := c.post("/contact", url.Values{"email": {"ada@example.com"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, 1, document(t, rec).Find("#contact-form #name-error").Length())
}

func TestContactSuccessClearsForm(t *testing.T) {
	sub := &fakeSubmitter{status: forms.Success}
	c := newClient(t, newTestRouter(t, sub, handlers.Analytics{}))
	c.get("/contact")

	rec := c.post("/contact", contactValues(), true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sub.count())
	require.Equal(t, backend.EndpointContact, sub.calls[0].endpoint)
	got, ok := sub.calls[0].payload.(forms.Contact)
	require.True(t, ok)
	require.Equal(t, "Ada Lovelace", got.Name)

	doc := document(t, rec)
	require.Equal(t, 1, doc.Find(".form-status.success").Length())
	require.Empty(t, doc.Find("#name").AttrOr("value", "x"))
}

func TestContactFailureKeepsValues(t *testing.T) {
	sub := &fakeSubmitter{status: forms.Failure}
	c := newClient(t, newTestRouter(t, sub, handlers.Analytics{}))
	c.get("/contact")

	rec := c.post("/contact", contactValues(), false)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	require.Equal(t, 1, doc.Find("header").Length(), "plain posts get the whole page")
	require.Equal(t, 1, doc.Find(".form-status.error").Length())
	require.Equal(t, "Ada Lovelace", doc.Find("#name").AttrOr("value", ""))
	require.Equal(t, "We run 40 compressors.", doc.Find("#message").Text())
}

func TestNewsletter(t *testing.T) {
	sub := &fakeSubmitter{status: forms.Success}
	c := newClient(t, newTestRouter(t, sub, handlers.Analytics{}))
	c.get("/")

	rec := c.post("/newsletter", url.Values{"email": {"bad"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Zero(t, sub.count())

	rec = c.post("/newsletter", url.Values{"email": {"ops@example.com"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sub.count())
	require.Equal(t, backend.EndpointNewsletter, sub.calls[0].endpoint)
	require.Equal(t, 1, document(t, rec).Find(".form-status.success").Length())
}

func TestSubmitLimitPerClient(t *testing.T) {
	sub := &fakeSubmitter{status: forms.Success}
	c := newClient(t, newTestRouter(t, sub, handlers.Analytics{}))
	c.get("/")

	form := url.Values{"email": {"ops@example.com"}}
	for i := 0; i < SubmitLimit; i++ {
		if rec := c.post("/newsletter", form, true); rec.Code != http.StatusOK {
			t.Fatalf("submission %d = %d", i+1, rec.Code)
		}
	}
	rec := c.post("/newsletter", form, true)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Equal(t, SubmitLimit, sub.count())
}

func TestPostWithoutCSRFIsRejected(t *testing.T) {
	sub := &fakeSubmitter{status: forms.Success}
	c := newClient(t, newTestRouter(t, sub, handlers.Analytics{}))
	c.get("/contact")

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(contactValues().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := c.do(req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Zero(t, sub.count())
}

func TestThemeToggleHTMX(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	c.get("/")

	rec := c.post("/theme/toggle", url.Values{}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &trigger))
	require.Equal(t, "light", trigger["themeChanged"]["theme"])
	require.Equal(t, "light", c.cookies["theme"].Value)

	doc := document(t, rec)
	require.Equal(t, "🌙", doc.Find("#theme-toggle button").Text())
	require.Equal(t, "true", doc.Find("#site-logo").AttrOr("hx-swap-oob", ""))

	rec = c.post("/theme/toggle", url.Values{}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "dark", c.cookies["theme"].Value, "two toggles return to the start")
}

func TestThemeToggleFormPost(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{}))
	c.get("/services")

	form := url.Values{"csrf_token": {c.cookies["csrf_token"].Value}}
	req := httptest.NewRequest(http.MethodPost, "/theme/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/services")
	rec := c.do(req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/services", rec.Header().Get("Location"))

	doc := document(t, c.get("/services"))
	require.Equal(t, "light", doc.Find("html").AttrOr("data-theme", ""))
	require.Equal(t, "/assets/img/logo-dark.svg", doc.Find("#site-logo").AttrOr("src", ""))
}

func TestConsentBannerAndAnalytics(t *testing.T) {
	c := newClient(t, newTestRouter(t, &fakeSubmitter{}, handlers.Analytics{GA4MeasurementID: "G-TEST123"}))

	doc := document(t, c.get("/"))
	require.Equal(t, 2, doc.Find("#cookie-consent button").Length())
	require.Zero(t, doc.Find("script[data-ga-id]").Length(), "no analytics before consent")

	rec := c.post("/consent", url.Values{"answer": {"maybe"}}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.post("/consent", url.Values{"answer": {"accepted"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "accepted", c.cookies["cookie-consent"].Value)
	_, hidden := document(t, rec).Find("#cookie-consent").Attr("hidden")
	require.True(t, hidden)

	doc = document(t, c.get("/"))
	require.Zero(t, doc.Find("#cookie-consent button").Length())
	require.Equal(t, "G-TEST123", doc.Find("script[data-ga-id]").AttrOr("data-ga-id", ""))
}

func TestBackToRejectsForeignReferer(t *testing.T) {
	cases := map[string]string{
		"":                                "/",
		"https://evil.test/services":      "/",
		"http://example.com/about?x=1":    "/about?x=1",
		"http://example.com//evil.test/x": "/",
		"/industries":                     "/industries",
	}
	for ref, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/theme/toggle", nil)
		req.Header.Set("Referer", ref)
		if got := backTo(req); got != want {
			t.Fatalf("backTo(%q) = %q, want %q", ref, got, want)
		}
	}
}
