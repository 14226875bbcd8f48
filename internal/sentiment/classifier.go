// Package sentiment classifies place reviews and summarizes the overall
// mood of a set of reviews.
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Label is the sentiment of one piece of text.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
	Neutral  Label = "Neutral"
)

// Overall sentiment categories for a set of labels.
const (
	MostlyPositive = "Mostly Positive"
	MostlyNegative = "Mostly Negative"
	Mixed          = "Mixed Feelings"
	AllNeutral     = "Neutral"
)

var (
	ErrNoAPIKey        = errors.New("sentiment: no api key configured")
	ErrUnknownProvider = errors.New("sentiment: unknown provider")
	ErrUnparseable     = errors.New("sentiment: unrecognised label")
)

const maxReviewChars = 2000

// instruction is sent ahead of each review.
const instruction = "Classify the sentiment of the following place review. " +
	"Answer with exactly one word: Positive, Negative or Neutral."

// Classifier labels a single piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Label, error)
}

// ParseLabel extracts a label from a model reply.
func ParseLabel(reply string) (Label, error) {
	s := strings.ToLower(strings.TrimSpace(reply))
	switch {
	case strings.HasPrefix(s, "positive"):
		return Positive, nil
	case strings.HasPrefix(s, "negative"):
		return Negative, nil
	case strings.HasPrefix(s, "neutral"):
		return Neutral, nil
	case strings.Contains(s, "negative"):
		return Negative, nil
	case strings.Contains(s, "positive"):
		return Positive, nil
	case strings.Contains(s, "neutral"):
		return Neutral, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnparseable, reply)
}

// Result is the classification of one review.
type Result struct {
	Text  string `json:"text"`
	Label Label  `json:"label,omitempty"`
	Error string `json:"error,omitempty"`
}

// Summary counts labels and names the overall sentiment.
type Summary struct {
	Positive int      `json:"positive"`
	Negative int      `json:"negative"`
	Neutral  int      `json:"neutral"`
	Analyzed int      `json:"analyzed"`
	Failed   int      `json:"failed"`
	Overall  string   `json:"overall"`
	Results  []Result `json:"results,omitempty"`
}

// Summarize counts labels. The overall category is Mostly Positive when
// positives exceed 1.5x negatives, Mostly Negative for the reverse, Mixed
// Feelings when any positive or negative exists, and Neutral otherwise.
func Summarize(labels []Label) Summary {
	var s Summary
	for _, l := range labels {
		switch l {
		case Positive:
			s.Positive++
		case Negative:
			s.Negative++
		case Neutral:
			s.Neutral++
		default:
			continue
		}
		s.Analyzed++
	}

	pos, neg := float64(s.Positive), float64(s.Negative)
	switch {
	case s.Positive > 0 && pos > 1.5*neg:
		s.Overall = MostlyPositive
	case s.Negative > 0 && neg > 1.5*pos:
		s.Overall = MostlyNegative
	case s.Positive > 0 || s.Negative > 0:
		s.Overall = Mixed
	default:
		s.Overall = AllNeutral
	}
	return s
}

// AnalyzeReviews classifies each non-blank review in order. Failures are
// logged, recorded in the result list and left out of the counts.
func AnalyzeReviews(ctx context.Context, c Classifier, reviews []string, log *zap.Logger) Summary {
	if log == nil {
		log = zap.NewNop()
	}

	var labels []Label
	var results []Result
	failed := 0

	for i, text := range reviews {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		if r := []rune(text); len(r) > maxReviewChars {
			text = string(r[:maxReviewChars])
		}

		label, err := c.Classify(ctx, text)
		if err != nil {
			log.Warn("review classification failed", zap.Int("review", i), zap.Error(err))
			results = append(results, Result{Text: text, Error: err.Error()})
			failed++
			continue
		}
		labels = append(labels, label)
		results = append(results, Result{Text: text, Label: label})
	}

	s := Summarize(labels)
	s.Failed = failed
	s.Results = results
	return s
}

// Options selects and configures a classifier backend.
type Options struct {
	Provider string // "openai" or "gemini"
	Model    string
	APIKey   string
	BaseURL  string // openai only
}

// New builds the classifier for opts.Provider.
func New(ctx context.Context, opts Options) (Classifier, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "openai":
		return NewOpenAI(opts.APIKey, opts.Model, opts.BaseURL), nil
	case "gemini":
		return NewGemini(ctx, opts.APIKey, opts.Model)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, opts.Provider)
}
