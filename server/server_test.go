package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ZaguanLabs/pivotlai"
	"github.com/ZaguanLabs/pivotlai/processor"
	"github.com/ZaguanLabs/pivotlai/provider"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() log.FieldLogger {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger
}

func newTestServer(detected string) (*Server, *provider.MockCapability) {
	m := provider.NewMockCapability()
	o := pivotlai.NewOrchestrator(m,
		pivotlai.WithLogger(quietLogger()),
		pivotlai.WithProcessor(processor.NewHTMLProcessor()),
	)
	s := New(Config{
		Orchestrator: o,
		Detector:     &provider.MockDetector{Detection: pivotlai.Detection{Language: detected, Confidence: 0.9}},
		Summarizer:   &provider.MockSummarizer{},
		Logger:       quietLogger(),
	})
	return s, m
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer("en")

	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a request ID header")
	}

	var body map[string]string
	decode(t, rec, &body)
	if body["status"] != "ok" || body["version"] != pivotlai.FullVersion() {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestRequestIDPassthrough(t *testing.T) {
	s, _ := newTestServer("en")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("Expected the client request ID, got %q", got)
	}
}

func TestLanguages(t *testing.T) {
	s, _ := newTestServer("en")

	rec := do(t, s, http.MethodGet, "/v1/languages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Selectable []pivotlai.Language `json:"selectable"`
		Known      []pivotlai.Language `json:"known"`
		Pivot      string              `json:"pivot"`
	}
	decode(t, rec, &body)

	if len(body.Selectable) != len(pivotlai.SelectableLanguages) || body.Selectable[0].Name != "English" {
		t.Errorf("Unexpected selectable languages: %v", body.Selectable)
	}
	if len(body.Known) != len(pivotlai.LanguageNames) {
		t.Errorf("Expected %d known languages, got %d", len(pivotlai.LanguageNames), len(body.Known))
	}
	if body.Pivot != "en" {
		t.Errorf("Expected pivot 'en', got %q", body.Pivot)
	}
}

func TestDetect(t *testing.T) {
	s, _ := newTestServer("es-ES")

	rec := do(t, s, http.MethodPost, "/v1/detect", `{"text":"Hola Mundo"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body detectResponse
	decode(t, rec, &body)
	if body.Language != "es" || body.Name != "Spanish" || body.Defaulted {
		t.Errorf("Unexpected detection: %+v", body)
	}
}

func TestDetect_DefaultsToEnglish(t *testing.T) {
	s, _ := newTestServer("")

	rec := do(t, s, http.MethodPost, "/v1/detect", `{"text":"???"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body detectResponse
	decode(t, rec, &body)
	if body.Language != "en" || !body.Defaulted || body.Warning == "" {
		t.Errorf("Expected a defaulted detection, got %+v", body)
	}
}

func TestBadRequests(t *testing.T) {
	s, _ := newTestServer("en")

	tests := []struct {
		name string
		path string
		body string
	}{
		{"detect invalid json", "/v1/detect", `{`},
		{"detect missing text", "/v1/detect", `{}`},
		{"detect blank text", "/v1/detect", `{"text":"   "}`},
		{"summarize missing text", "/v1/summarize", `{"lang":"en"}`},
		{"translate missing target", "/v1/translate", `{"text":"Hola"}`},
		{"translate unknown content type", "/v1/translate", `{"text":"{}","source_lang":"es","target_lang":"en","content_type":"json"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.path, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s, _ := newTestServer("en")

	rec := do(t, s, http.MethodPost, "/v1/summarize", `{"text":"First sentence. Second sentence."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]string
	decode(t, rec, &body)
	if body["summary"] != "First sentence." {
		t.Errorf("Unexpected summary: %q", body["summary"])
	}
}

func TestSummarize_NonEnglish(t *testing.T) {
	s, _ := newTestServer("es")

	rec := do(t, s, http.MethodPost, "/v1/summarize", `{"text":"Hola Mundo."}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d", rec.Code)
	}
}

func TestSummarize_Unconfigured(t *testing.T) {
	s := New(Config{
		Orchestrator: pivotlai.NewOrchestrator(provider.NewMockCapability(), pivotlai.WithLogger(quietLogger())),
		Detector:     &provider.MockDetector{Detection: pivotlai.Detection{Language: "en"}},
		Logger:       quietLogger(),
	})

	rec := do(t, s, http.MethodPost, "/v1/summarize", `{"text":"Hello."}`)
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("Expected 501, got %d", rec.Code)
	}
}

func TestSummarize_BackendError(t *testing.T) {
	s := New(Config{
		Orchestrator: pivotlai.NewOrchestrator(provider.NewMockCapability(), pivotlai.WithLogger(quietLogger())),
		Detector:     &provider.MockDetector{Detection: pivotlai.Detection{Language: "en"}},
		Summarizer:   &provider.MockSummarizer{Err: errors.New("quota exceeded")},
		Logger:       quietLogger(),
	})

	rec := do(t, s, http.MethodPost, "/v1/summarize", `{"text":"Hello."}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502, got %d", rec.Code)
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		detected string
		text     string
		status   pivotlai.Status
		hops     int
	}{
		{"direct", `{"text":"Hola","source_lang":"es","target_lang":"en"}`, "", "Hello", pivotlai.StatusDirect, 1},
		{"pivot", `{"text":"Hola","source_lang":"es","target_lang":"fr"}`, "", "Bonjour", pivotlai.StatusPivot, 3},
		{"identity", `{"text":"Hola","source_lang":" es ","target_lang":"es"}`, "", "Hola", pivotlai.StatusIdentity, 0},
		{"detected source", `{"text":"Hola","target_lang":"fr"}`, "es", "Bonjour", pivotlai.StatusPivot, 3},
		{"unsupported", `{"text":"Hola","source_lang":"es","target_lang":"ja"}`, "", "Hola", pivotlai.StatusFailed, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(tt.detected)

			rec := do(t, s, http.MethodPost, "/v1/translate", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var body translateResponse
			decode(t, rec, &body)
			if body.Text != tt.text || body.Status != string(tt.status) || body.HopCount != tt.hops {
				t.Errorf("Unexpected response: %+v", body)
			}
			if body.ID == "" {
				t.Error("Expected a result ID")
			}
			if tt.status == pivotlai.StatusFailed && body.Error == "" {
				t.Error("Expected the failure to be reported")
			}
		})
	}
}

func TestTranslate_CodesPassThrough(t *testing.T) {
	m := provider.NewEmptyMockCapability().
		AddPair("zh-Hant", "zh-Hans", map[string]string{"漢字": "汉字"})
	s := New(Config{
		Orchestrator: pivotlai.NewOrchestrator(m, pivotlai.WithLogger(quietLogger())),
		Logger:       quietLogger(),
	})

	rec := do(t, s, http.MethodPost, "/v1/translate", `{"text":"漢字","source_lang":"zh-Hant","target_lang":"zh-Hans"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body translateResponse
	decode(t, rec, &body)
	if body.Text != "汉字" || body.Status != string(pivotlai.StatusDirect) {
		t.Errorf("Unexpected response: %+v", body)
	}
	if body.SourceLang != "zh-Hant" || body.TargetLang != "zh-Hans" {
		t.Errorf("Expected codes echoed unchanged, got %q -> %q", body.SourceLang, body.TargetLang)
	}

	creates := m.CreateCalls()
	if len(creates) != 1 || creates[0] != provider.PairKey("zh-Hant", "zh-Hans") {
		t.Errorf("Expected one session for zh-Hant->zh-Hans, got %v", creates)
	}
}

func TestTranslate_HTMLContent(t *testing.T) {
	s, m := newTestServer("")

	rec := do(t, s, http.MethodPost, "/v1/translate",
		`{"text":"<p>Hola</p><p>Hola Mundo</p>","source_lang":"es","target_lang":"en","content_type":"html"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body contentResponse
	decode(t, rec, &body)
	if !strings.Contains(body.Content, "<p>Hello</p>") || !strings.Contains(body.Content, "<p>Hello World</p>") {
		t.Errorf("Unexpected content: %s", body.Content)
	}
	if body.TranslatedCount != 2 || body.TotalNodes != 2 {
		t.Errorf("Unexpected counts: %+v", body)
	}
	if m.CallCount() == 0 {
		t.Error("Expected the capability to be used")
	}
}
