// Package translate renders complaint text in English for support staff.
//
// Farmers often file complaints in Hausa, Yoruba or Igbo. The complaint
// detail page offers an English rendering via Google Cloud Translation.
//
// Graceful degradation: if the API key is not set, NewTranslator returns a
// nil *Translator and every method on it returns the input unchanged.
package translate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// backend is the subset of *translate.Client used here.
type backend interface {
	Translate(ctx context.Context, inputs []string, target language.Tag, opts *translate.Options) ([]translate.Translation, error)
	Close() error
}

// Result is one translated field.
type Result struct {
	Original   string
	Text       string
	Source     string
	Translated bool
}

// Translator wraps the Cloud Translation client.
type Translator struct {
	client backend
	target language.Tag
}

// NewTranslator creates a Translator targeting English.
//
// Returns nil, nil if apiKey is empty.
func NewTranslator(ctx context.Context, apiKey string) (*Translator, error) {
	if apiKey == "" {
		log.Println("⚠️  GOOGLE_TRANSLATE_API_KEY not set. Complaint translation disabled.")
		return nil, nil
	}

	client, err := translate.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create translation client: %w", err)
	}

	log.Println("✓ Google translation configured successfully")
	return &Translator{client: client, target: language.English}, nil
}

// Enabled reports whether translations are available.
func (t *Translator) Enabled() bool {
	return t != nil && t.client != nil
}

// ToEnglish translates texts in one batch. Blank entries are not sent.
//
// Flow:
//  1. Collect non-blank inputs
//  2. One Translate call for the batch
//  3. Map results back by position; text already in English is marked
//     untranslated
//
// On a nil translator every Result echoes its input.
func (t *Translator) ToEnglish(ctx context.Context, texts []string) ([]Result, error) {
	results := make([]Result, len(texts))
	for i, s := range texts {
		results[i] = Result{Original: s, Text: s}
	}
	if !t.Enabled() {
		return results, nil
	}

	var (
		inputs []string
		index  []int
	)
	for i, s := range texts {
		if strings.TrimSpace(s) == "" {
			continue
		}
		inputs = append(inputs, s)
		index = append(index, i)
	}
	if len(inputs) == 0 {
		return results, nil
	}

	out, err := t.client.Translate(ctx, inputs, t.target, &translate.Options{Format: translate.Text})
	if err != nil {
		return results, fmt.Errorf("translation failed: %w", err)
	}
	if len(out) != len(inputs) {
		return results, fmt.Errorf("translation returned %d results for %d inputs", len(out), len(inputs))
	}

	for j, tr := range out {
		i := index[j]
		base, _ := tr.Source.Base()
		results[i].Source = base.String()
		if tr.Source == language.Und || sameLanguage(tr.Source, t.target) {
			continue
		}
		results[i].Text = tr.Text
		results[i].Translated = true
	}
	log.Printf("  ✓ Translated %d field(s)", len(inputs))
	return results, nil
}

func sameLanguage(a, b language.Tag) bool {
	ab, _ := a.Base()
	bb, _ := b.Base()
	return ab == bb
}

// Close releases the underlying client.
func (t *Translator) Close() error {
	if !t.Enabled() {
		return nil
	}
	return t.client.Close()
}
