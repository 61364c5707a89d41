/*
Package advice asks a language model for tips on reaching a goal.

PURPOSE:
  The advice service is an external collaborator. Its output is shown to
  the user and never touches goal data, so every failure (no key,
  network error, bad status, empty or malformed response) ends in a
  fallback text instead of an error.

FLOW:
  Service.Advice(ctx, Request)
    -> BuildPrompt(Request)
    -> Generator.Generate(ctx, prompt)   // GeminiClient in production
    -> text, or FallbackEmpty / FallbackError

SEE ALSO:
  - gemini.go: HTTP client for the generateContent endpoint
*/
package advice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	FallbackEmpty = "No advice could be generated right now. Keep focusing on your goal!"
	FallbackError = "Something went wrong while fetching advice. Please try again later."
)

// ErrNotConfigured is returned by a generator without credentials.
var ErrNotConfigured = errors.New("advice generator not configured")

// Request carries what the model needs to know about one goal.
type Request struct {
	GoalTitle string
	Current   decimal.Decimal
	Target    decimal.Decimal
	Unit      string
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the text to show. Fallback is set when Text is one of the
// fallback messages.
type Result struct {
	Text     string
	Fallback bool
}

type Service struct {
	Generator Generator
	Timeout   time.Duration
}

func NewService(gen Generator) *Service {
	return &Service{Generator: gen, Timeout: 20 * time.Second}
}

// Advice never fails; errors are logged and replaced by a fallback text.
func (s *Service) Advice(ctx context.Context, req Request) Result {
	if s == nil || s.Generator == nil {
		return Result{Text: FallbackError, Fallback: true}
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	text, err := s.Generator.Generate(ctx, BuildPrompt(req))
	if err != nil {
		log.Printf("[Advice] Generation failed for %q: %v", req.GoalTitle, err)
		return Result{Text: FallbackError, Fallback: true}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Text: FallbackEmpty, Fallback: true}
	}
	return Result{Text: text}
}

// BuildPrompt asks for three concrete, motivating tips.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "My goal: %s.\n", req.GoalTitle)
	fmt.Fprintf(&b, "Current progress: %s %s.\n", req.Current.String(), req.Unit)
	fmt.Fprintf(&b, "Target: %s %s.\n", req.Target.String(), req.Unit)
	b.WriteString("\nPlease give me 3 concrete and motivating tips to reach this goal. ")
	b.WriteString("Keep the tone kind and encouraging.")

	return b.String()
}
