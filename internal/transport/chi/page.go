package chi

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/result"
	logpkg "github.com/raviX007/natural-language-wine-search/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"percent": func(score float64) string { return fmt.Sprintf("%.1f%%", score*100) },
}).ParseFS(templateFS, "templates/index.html"))

// card is one rendered search hit.
type card struct {
	Title       string
	Description string
	Grape       string
	Color       string
	Country     string
	Rating      int
	Score       float64
}

// pageData is everything the search page renders.
type pageData struct {
	Examples      []string
	APIKey        string
	HasCredential bool
	Query         string
	Searched      bool
	Structured    StructuredQuery
	Cards         []card
	Error         *ErrorResponse
	Notice        string
}

// Page handles GET /.
func (s *Server) Page(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.newPage(credentialFrom(r)))
}

// PageSearch handles POST /search from the page form.
func (s *Server) PageSearch(w http.ResponseWriter, r *http.Request) {
	cred := credentialFrom(r)
	data := s.newPage(cred)
	data.Query = r.PostFormValue("q")

	if cred.IsEmpty() {
		s.render(w, r, http.StatusOK, data)
		return
	}
	if data.Query == "" {
		s.render(w, r, http.StatusOK, data)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	resp, err := s.search.Search(ctx, cred, data.Query)
	setUsageHeaders(w, usage)
	if err != nil {
		errResp, status := s.classify(r, err)
		data.Error = &errResp
		s.render(w, r, status, data)
		return
	}

	data.Searched = true
	data.Structured = structuredToResponse(resp.Query)
	data.Cards = toCards(resp.Results)
	s.render(w, r, http.StatusOK, data)
}

// PageReset handles POST /reset from the page form. The confirm checkbox must be ticked.
func (s *Server) PageReset(w http.ResponseWriter, r *http.Request) {
	cred := credentialFrom(r)
	data := s.newPage(cred)

	ctx, usage := domain.NewContextWithUsage(r.Context())
	n, err := s.collection.Reset(ctx, cred, r.PostFormValue("confirm") == "on")
	setUsageHeaders(w, usage)
	if err != nil {
		errResp, status := s.classify(r, err)
		data.Error = &errResp
		s.render(w, r, status, data)
		return
	}

	logpkg.FromContext(r.Context()).Warn("database reset", zap.Int("records", n))
	data.Notice = "Database has been reset!"
	s.render(w, r, http.StatusOK, data)
}

func (s *Server) newPage(cred domain.Credential) pageData {
	return pageData{
		Examples:      s.examples,
		APIKey:        cred.APIKey(),
		HasCredential: !cred.IsEmpty(),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		logpkg.FromContext(r.Context()).Error("render page", zap.Error(err))
	}
}

func toCards(results []result.Result) []card {
	cards := make([]card, len(results))
	for i := range results {
		rec := results[i].Record()
		cards[i] = card{
			Title:       rec.Title(),
			Description: rec.Description(),
			Grape:       rec.Grape(),
			Color:       string(rec.Color()),
			Country:     rec.Country(),
			Rating:      rec.Rating(),
			Score:       results[i].Score(),
		}
	}
	return cards
}
