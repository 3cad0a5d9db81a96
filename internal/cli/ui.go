package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	"github.com/raviX007/natural-language-wine-search/internal/domain"
	"github.com/raviX007/natural-language-wine-search/internal/domain/search/result"
	searchuc "github.com/raviX007/natural-language-wine-search/internal/usecase/search"
)

// showSuccess displays a success message
func showSuccess(w io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold)
	_, _ = green.Fprintf(w, "✓ %s\n", message)
}

// showError displays an error message
func showError(w io.Writer, message string) {
	red := color.New(color.FgRed, color.Bold)
	_, _ = red.Fprintf(w, "✗ %s\n", message)
}

// showInfo displays an info message
func showInfo(w io.Writer, message string) {
	blue := color.New(color.FgBlue)
	_, _ = blue.Fprintln(w, message)
}

// showFailure prints err together with a remediation hint when one applies.
func showFailure(w io.Writer, err error) {
	showError(w, err.Error())
	if hint := hintFor(err); hint != "" {
		showInfo(w, hint)
	}
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredential):
		return "Pass --api-key or set OPENAI_API_KEY."
	case errors.Is(err, domain.ErrConfirmationRequired):
		return "Re-run with --yes to reset without a prompt."
	case errors.Is(err, domain.ErrVectorDimMismatch):
		return "The stored collection does not match the embedding model. Run `winesearch reset` to rebuild it."
	case errors.Is(err, domain.ErrEmbeddingProviderError), errors.Is(err, domain.ErrCompletionProviderError):
		return "Please check your OpenAI API key and try again."
	case errors.Is(err, domain.ErrTranslation), errors.Is(err, domain.ErrInvalidQuery):
		return "Try rephrasing your query or using simpler search terms."
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "Check that the vector database is running and reachable, then try again."
	default:
		return ""
	}
}

// printResults renders the translated query and one card per wine.
func printResults(w io.Writer, resp searchuc.Response) {
	faint := color.New(color.Faint)
	_, _ = faint.Fprintf(w, "query: %q  filter: %s", resp.Query.Text(), resp.Query.Filter())
	if resp.Query.Limit() > 0 {
		_, _ = faint.Fprintf(w, "  limit: %d", resp.Query.Limit())
	}
	_, _ = fmt.Fprintln(w)

	if len(resp.Results) == 0 {
		showInfo(w, "No matching wines found. Try modifying your search query.")
		return
	}
	for i := range resp.Results {
		printCard(w, &resp.Results[i])
	}
}

func printCard(w io.Writer, r *result.Result) {
	title := color.New(color.FgMagenta, color.Bold)
	label := color.New(color.FgCyan)
	rec := r.Record()

	_, _ = fmt.Fprintln(w)
	_, _ = title.Fprintf(w, "🍷 %s\n", rec.Title())
	_, _ = fmt.Fprintf(w, "   %s\n", rec.Description())
	for _, row := range [][2]string{
		{"Grape", rec.Grape()},
		{"Color", string(rec.Color())},
		{"Country", rec.Country()},
		{"Rating", fmt.Sprintf("%d/100", rec.Rating())},
	} {
		_, _ = label.Fprintf(w, "   %-8s", row[0])
		_, _ = fmt.Fprintln(w, row[1])
	}
	if r.Score() > 0 {
		_, _ = label.Fprintf(w, "   %-8s", "Match")
		_, _ = fmt.Fprintf(w, "%.1f%%\n", r.Score()*100)
	}
}

// confirmReset asks the user to approve dropping the collection.
func confirmReset(message string) (bool, error) {
	var ok bool
	prompt := &survey.Confirm{
		Message: message,
		Default: false,
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// resetQuestion omits the record count when it could not be read.
func resetQuestion(collection string, count int, countErr error) string {
	if countErr != nil {
		return fmt.Sprintf("Drop %s and reseed it from the catalog?", collection)
	}
	return fmt.Sprintf("Drop %s (%d records) and reseed it from the catalog?", collection, count)
}

// promptAPIKey asks for the OpenAI key without echoing it.
func promptAPIKey() (string, error) {
	var key string
	prompt := &survey.Password{
		Message: "OpenAI API key:",
	}
	if err := survey.AskOne(prompt, &key, survey.WithValidator(survey.Required)); err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}
