package server

import (
	"encoding/json"
	"iter"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"dailies/internal/db"

	"github.com/google/go-cmp/cmp"
)

type memHistory struct {
	mx   sync.Mutex
	runs []db.Run
}

func (h *memHistory) AddRun(demo string, run db.Run) error {
	h.mx.Lock()
	defer h.mx.Unlock()
	run.Demo = demo
	h.runs = append(h.runs, run)
	return nil
}

func (h *memHistory) Runs(demo string) iter.Seq2[db.Run, error] {
	return func(yield func(db.Run, error) bool) {
		h.mx.Lock()
		defer h.mx.Unlock()
		for i := len(h.runs) - 1; i >= 0; i-- {
			if h.runs[i].Demo == demo && !yield(h.runs[i], nil) {
				return
			}
		}
	}
}

func testConfig() Config {
	return Config{
		Port:            8080,
		ThrottleBuckets: 4,
		ThrottleRate:    1000,
		ThrottleBurst:   1000,
		ShutdownTimeout: time.Second,
		AdminKey:        "letmein",
	}
}

func newTestServer(t *testing.T, config Config) (*Server, *memHistory) {
	t.Helper()
	h := &memHistory{}
	return New(config, h), h
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(s, req)
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("status = %d, want %d", have, want)
	}
	for _, d := range demos {
		if !strings.Contains(w.Body.String(), `href="`+d.Path()+`"`) {
			t.Fatalf("index misses link to %s", d.Path())
		}
	}
}

func TestDemoPages(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	for _, d := range demos {
		w := do(s, httptest.NewRequest(http.MethodGet, d.Path(), nil))
		if have, want := w.Code, http.StatusOK; have != want {
			t.Fatalf("GET %s status = %d, want %d", d.Path(), have, want)
		}
		if !strings.Contains(w.Body.String(), "<form") {
			t.Fatalf("GET %s has no form", d.Path())
		}
	}
}

func TestDemoForms(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	for _, tc := range []struct {
		name string
		path string
		form url.Values
		want string
	}{
		{"caesar encode", "/caesar-cipher/", url.Values{"mode": {"encode"}, "text": {"Hello, World! 123"}, "shift": {"3"}}, "khoor, zruog! 123"},
		{"caesar decode", "/caesar-cipher/", url.Values{"mode": {"decode"}, "text": {"abc"}, "shift": {"1"}}, "zab"},
		{"caesar empty", "/caesar-cipher/", url.Values{"mode": {"encode"}, "text": {"  "}, "shift": {"1"}}, "please enter some text"},
		{"caesar shift", "/caesar-cipher/", url.Values{"text": {"abc"}, "shift": {"26"}}, "shift: must be between 0 and 25"},
		{"tip", "/tip-calculator/", url.Values{"bill": {"150"}, "percent": {"12"}, "people": {"5"}}, "$33.60"},
		{"tip percent", "/tip-calculator/", url.Values{"bill": {"150"}, "percent": {"20"}, "people": {"5"}}, "percent: must be one of"},
		{"band", "/band-name-generator/", url.Values{"city": {"Bristol"}, "pet": {"Rabbit"}}, "Bristol Rabbit"},
		{"band missing", "/band-name-generator/", url.Values{"city": {"Bristol"}}, "please fill in both fields"},
		{"calc", "/calculator/", url.Values{"a": {"7"}, "b": {"2"}, "op": {"/"}}, "7 / 2 = 3"},
		{"calc zero", "/calculator/", url.Values{"a": {"7"}, "b": {"0"}, "op": {"/"}}, "cannot divide by zero"},
		{"calc negative", "/calculator/", url.Values{"a": {"-7"}, "b": {"1"}, "op": {"+"}}, "a: must not be negative"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := postForm(s, tc.path, tc.form)
			if have, want := w.Code, http.StatusOK; have != want {
				t.Fatalf("status = %d, want %d", have, want)
			}
			// html/template escapes the result, so compare the escaped text.
			body := w.Body.String()
			if want := escape(tc.want); !strings.Contains(body, want) {
				t.Fatalf("body misses %q:\n%s", want, body)
			}
		})
	}
}

func escape(s string) string {
	return strings.NewReplacer("'", "&#39;", "&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&#34;").Replace(s)
}

func TestFormKeepsInput(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := postForm(s, "/band-name-generator/", url.Values{"city": {"Oslo"}, "pet": {""}})
	if !strings.Contains(w.Body.String(), `value="Oslo"`) {
		t.Fatal("form did not keep the entered city")
	}
}

func TestAPI(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	for _, tc := range []struct {
		demo   string
		body   string
		status int
		want   apiResponse
	}{
		{"caesar", `{"text":"xyz","shift":3,"mode":"encode"}`, http.StatusOK, apiResponse{Result: "abc"}},
		{"caesar", `{"text":"","shift":3}`, http.StatusUnprocessableEntity, apiResponse{Error: "please enter some text"}},
		{"tip", `{"bill":100,"percent":10,"people":1}`, http.StatusOK, apiResponse{Result: "$110.00"}},
		{"band", `{"city":"Paris","pet":"Milo"}`, http.StatusOK, apiResponse{Result: "Paris Milo"}},
		{"calc", `{"a":"5","b":3,"op":"*"}`, http.StatusOK, apiResponse{Result: "5 * 3 = 15"}},
		{"calc", `{"a":1,"b":0,"op":"/"}`, http.StatusUnprocessableEntity, apiResponse{Error: "cannot divide by zero"}},
		{"calc", `{"a":[1]}`, http.StatusBadRequest, apiResponse{Error: `field "a": must be a string or a number`}},
		{"poker", `{}`, http.StatusNotFound, apiResponse{Error: "unknown demo"}},
	} {
		t.Run(tc.demo+tc.body, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/"+tc.demo, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := do(s, req)

			if have, want := w.Code, tc.status; have != want {
				t.Fatalf("status = %d, want %d: %s", have, want, w.Body)
			}

			var resp apiResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, resp); diff != "" {
				t.Fatalf("response mismatch (-want +have):\n%s", diff)
			}
		})
	}
}

func TestAPIBadJSON(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := do(s, httptest.NewRequest(http.MethodPost, "/api/caesar", strings.NewReader("{")))
	if have, want := w.Code, http.StatusBadRequest; have != want {
		t.Fatalf("status = %d, want %d", have, want)
	}
}

func TestHistoryRecorded(t *testing.T) {
	s, h := newTestServer(t, testConfig())

	postForm(s, "/caesar-cipher/", url.Values{"mode": {"encode"}, "text": {"abc"}, "shift": {"1"}, "extra": {"x"}})
	postForm(s, "/caesar-cipher/", url.Values{"text": {""}})

	if have, want := len(h.runs), 2; have != want {
		t.Fatalf("recorded %d runs, want %d", have, want)
	}

	first := h.runs[0]
	if diff := cmp.Diff(map[string]string{"mode": "encode", "text": "abc", "shift": "1"}, first.Input); diff != "" {
		t.Fatalf("input mismatch (-want +have):\n%s", diff)
	}
	if have, want := first.Output, "bcd"; have != want {
		t.Fatalf("output = %q, want %q", have, want)
	}
	if have, want := h.runs[1].Error, "please enter some text"; have != want {
		t.Fatalf("error = %q, want %q", have, want)
	}
}

func TestNilHistory(t *testing.T) {
	s := New(testConfig(), nil)

	w := postForm(s, "/band-name-generator/", url.Values{"city": {"Rome"}, "pet": {"Rex"}})
	if !strings.Contains(w.Body.String(), "Rome Rex") {
		t.Fatal("run without history failed")
	}

	req := httptest.NewRequest(http.MethodGet, "/history/band", nil)
	req.Header.Set(adminKeyName, "letmein")
	if have, want := do(s, req).Code, http.StatusNotFound; have != want {
		t.Fatalf("history status = %d, want %d", have, want)
	}
}

func TestAdmin(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	postForm(s, "/band-name-generator/", url.Values{"city": {"Lima"}, "pet": {"Coco"}})

	for _, path := range []string{"/history/band", "/metrics"} {
		w := do(s, httptest.NewRequest(http.MethodGet, path, nil))
		if have, want := w.Code, http.StatusNotFound; have != want {
			t.Fatalf("%s without key: status = %d, want %d", path, have, want)
		}

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set(adminKeyName, "wrong")
		if have, want := do(s, req).Code, http.StatusNotFound; have != want {
			t.Fatalf("%s with wrong key: status = %d, want %d", path, have, want)
		}

		req = httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: adminKeyName, Value: "letmein"})
		if have, want := do(s, req).Code, http.StatusOK; have != want {
			t.Fatalf("%s with key: status = %d, want %d", path, have, want)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/history/band", nil)
	req.Header.Set(adminKeyName, "letmein")
	if body := do(s, req).Body.String(); !strings.Contains(body, "Lima Coco") {
		t.Fatalf("history misses run:\n%s", body)
	}
}

func TestAdminDisabled(t *testing.T) {
	config := testConfig()
	config.AdminKey = ""
	s, _ := newTestServer(t, config)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set(adminKeyName, "")
	if have, want := do(s, req).Code, http.StatusNotFound; have != want {
		t.Fatalf("status = %d, want %d", have, want)
	}
}

func TestDemoPathRedirect(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	for path, want := range map[string]string{
		"/CaesarCipher":   "/caesar-cipher/",
		"/caesar-cipher":  "/caesar-cipher/",
		"/caesar":         "/caesar-cipher/",
		"/Tip_Calculator": "/tip-calculator/",
		"/calc/":          "/calculator/",
	} {
		w := do(s, httptest.NewRequest(http.MethodGet, path, nil))
		if have, want := w.Code, http.StatusMovedPermanently; have != want {
			t.Fatalf("%s: status = %d, want %d", path, have, want)
		}
		if have := w.Header().Get("Location"); have != want {
			t.Fatalf("%s: location = %q, want %q", path, have, want)
		}
	}
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/nope", nil),
		httptest.NewRequest(http.MethodDelete, "/caesar-cipher/", nil),
	} {
		w := do(s, req)
		if have, want := w.Code, http.StatusNotFound; have != want && have != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: status = %d, want %d", req.Method, req.URL, have, want)
		}
	}
}

func TestStaticETag(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	w := do(s, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	if have, want := w.Code, http.StatusOK; have != want {
		t.Fatalf("status = %d, want %d", have, want)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("content type = %q", ct)
	}

	req := httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
	req.Header.Set("If-None-Match", w.Header().Get("ETag"))
	if have, want := do(s, req).Code, http.StatusNotModified; have != want {
		t.Fatalf("revalidation status = %d, want %d", have, want)
	}
}

func TestThrottle(t *testing.T) {
	config := testConfig()
	config.ThrottleBuckets = 1
	config.ThrottleRate = 0.001
	config.ThrottleBurst = 2
	s, _ := newTestServer(t, config)

	var codes []int
	for range 3 {
		codes = append(codes, do(s, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
	if diff := cmp.Diff([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes); diff != "" {
		t.Fatalf("status codes mismatch (-want +have):\n%s", diff)
	}
}

func TestHostRedirect(t *testing.T) {
	config := testConfig()
	config.Host = "dailies.example"
	s, _ := newTestServer(t, config)

	w := do(s, httptest.NewRequest(http.MethodGet, "http://other.example/tip-calculator/?x=1", nil))
	if have, want := w.Code, http.StatusTemporaryRedirect; have != want {
		t.Fatalf("status = %d, want %d", have, want)
	}
	if have, want := w.Header().Get("Location"), "//dailies.example/tip-calculator/?x=1"; have != want {
		t.Fatalf("location = %q, want %q", have, want)
	}
}

func TestHeaders(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := do(s, req)

	if have, want := w.Header().Get(requestIDHeader), "abc-123"; have != want {
		t.Fatalf("request id = %q, want %q", have, want)
	}
	if have, want := w.Header().Get("X-Robots-Tag"), "noindex, nofollow"; have != want {
		t.Fatalf("robots = %q, want %q", have, want)
	}

	w = do(s, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("no request id generated")
	}
}

func TestRecover(t *testing.T) {
	internalError := statusHandler(http.StatusInternalServerError, []byte("oops"), "text/plain")
	h := recoverMiddleware(internalError, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Partial", "1")
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if have, want := w.Code, http.StatusInternalServerError; have != want {
		t.Fatalf("status = %d, want %d", have, want)
	}
	if w.Header().Get("X-Partial") != "" {
		t.Fatal("headers of the failed handler leaked")
	}
}

func TestNewPanicsOnMissingConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New without port did not panic")
		}
	}()
	New(Config{}, nil)
}
