package chi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/result"
	searchuc "github.com/raviX007/natural-language-wine-search/internal/usecase/search"
)

func TestPage_WithoutCredentialPrompts(t *testing.T) {
	f := newFixture()
	rr := f.do(httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Natural Language Wine Search",
		"Please enter your OpenAI API key in the sidebar to start searching.",
		"Show me all red wines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "Reset Database") {
		t.Error("reset form should be hidden without a credential")
	}
}

func TestPageSearch_RendersCards(t *testing.T) {
	f := newFixture()
	f.searcher.resp = searchuc.Response{
		Query:   mustStructured(t, "bold", `eq("color", "red")`, 0),
		Results: []result.Result{testResult(t, "Opus One", 2018, 0.876)},
	}

	rr := f.do(formRequest("/search", url.Values{"api_key": {"sk-test-key-123456"}, "q": {"bold reds"}}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{"Opus One (2018)", "96/100", "Cabernet Sauvignon", "87.6%", "Search Results"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if f.searcher.lastCred.APIKey() != "sk-test-key-123456" {
		t.Errorf("credential = %s", f.searcher.lastCred)
	}
}

func TestPageSearch_EmptyResults(t *testing.T) {
	f := newFixture()
	f.searcher.resp = searchuc.Response{Query: mustStructured(t, "x", "NO_FILTER", 0)}

	rr := f.do(formRequest("/search", url.Values{"api_key": {"sk-test-key-123456"}, "q": {"unicorn wine"}}))

	if !strings.Contains(rr.Body.String(), "No matching wines found. Try modifying your search query.") {
		t.Error("expected empty state")
	}
}

func TestPageSearch_ErrorWithHint(t *testing.T) {
	f := newFixture()
	f.searcher.err = domain.ErrTranslation

	rr := f.do(formRequest("/search", url.Values{"api_key": {"sk-test-key-123456"}, "q": {"reds"}}))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Search error: query translation failed") {
		t.Error("expected error message")
	}
	if !strings.Contains(body, "Try rephrasing your query or using simpler search terms.") {
		t.Error("expected remediation hint")
	}
}

func TestPageSearch_EscapesInput(t *testing.T) {
	f := newFixture()
	f.searcher.resp = searchuc.Response{Query: mustStructured(t, "x", "NO_FILTER", 0)}

	rr := f.do(formRequest("/search", url.Values{"api_key": {"sk-test-key-123456"}, "q": {`<script>alert(1)</script>`}}))

	if strings.Contains(rr.Body.String(), "<script>alert(1)</script>") {
		t.Error("query must be HTML-escaped")
	}
}

func TestPageReset_NeedsCheckbox(t *testing.T) {
	f := newFixture()
	rr := f.do(formRequest("/reset", url.Values{"api_key": {"sk-test-key-123456"}}))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rr.Code)
	}
	if f.resetter.lastConfirmed {
		t.Error("reset should not be confirmed")
	}
}

func TestPageReset_Confirmed(t *testing.T) {
	f := newFixture()
	rr := f.do(formRequest("/reset", url.Values{"api_key": {"sk-test-key-123456"}, "confirm": {"on"}}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Database has been reset!") {
		t.Error("expected success notice")
	}
}
