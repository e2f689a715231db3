// ABOUTME: Joke request client backed by Gemini text generation
// ABOUTME: Sends the comedian prompt with a strict schema and stamps joke IDs
package jokes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/ujokes/ujokes-go/internal/gemini"
)

const (
	DefaultModel     = "gemini-3-pro-preview"
	DefaultBatchSize = 20
)

// Joke is one setup/punchline pair
type Joke struct {
	ID        string `json:"id" yaml:"id"`
	Setup     string `json:"setup" yaml:"setup"`
	Punchline string `json:"punchline" yaml:"punchline"`
}

// Batch is the set of jokes produced by one generation call
type Batch struct {
	Jokes       []Joke    `json:"jokes" yaml:"jokes"`
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`
}

// Len returns the number of jokes in the batch
func (b Batch) Len() int {
	return len(b.Jokes)
}

// record is the shape the model is asked to return
type record struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// Config selects the model and batch size
type Config struct {
	Model     string
	BatchSize int
}

// Generator requests joke batches
type Generator struct {
	gen    gemini.ContentGenerator
	cfg    Config
	schema *genai.Schema
	log    zerolog.Logger
	now    func() time.Time
}

// NewGenerator creates a joke generator
func NewGenerator(gen gemini.ContentGenerator, cfg Config, log zerolog.Logger) (*Generator, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}

	schema, err := gemini.SchemaFor[[]record]()
	if err != nil {
		return nil, err
	}

	return &Generator{
		gen:    gen,
		cfg:    cfg,
		schema: schema,
		log:    log.With().Str("component", "jokes").Logger(),
		now:    time.Now,
	}, nil
}

// SystemInstruction is the comedian persona sent with every request
func SystemInstruction(n int) string {
	return fmt.Sprintf(`You are the world's most successful stand-up comedian.
Your jokes are legendary for being 100%% laughable, clever, and fresh.

CRITICAL RULES:
1. Generate exactly %d jokes.
2. NO "dad jokes" or stale puns.
3. Use observational humor, witty subversions, and surprising punchlines.
4. Ensure a mix of short one-liners and slightly longer setups.
5. The humor should be sharp, modern, and high-energy.

Format: Return a strict JSON array of objects with "setup" and "punchline" strings.`, n)
}

// UserPrompt is the fixed request for a batch
func UserPrompt(n int) string {
	return fmt.Sprintf("Write %d of your absolute best, most hilarious jokes that would make a whole stadium roar with laughter.", n)
}

// Generate requests a new batch. Transport failures are returned; a response
// that cannot be parsed yields an empty batch and a log line instead.
func (g *Generator) Generate(ctx context.Context) (Batch, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction(g.cfg.BatchSize), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    g.schema,
	}
	contents := []*genai.Content{genai.NewContentFromText(UserPrompt(g.cfg.BatchSize), genai.RoleUser)}

	start := g.now()
	resp, err := g.gen.GenerateContent(ctx, g.cfg.Model, contents, cfg)
	if err != nil {
		return Batch{}, fmt.Errorf("generate jokes: %w", err)
	}

	var text string
	if resp != nil {
		text = resp.Text()
	}

	batch, err := ParseBatch(text, g.now())
	if err != nil {
		g.log.Error().Err(err).Msg("failed to parse jokes")
		return Batch{}, nil
	}

	g.log.Info().
		Int("count", batch.Len()).
		Dur("elapsed", g.now().Sub(start)).
		Msg("jokes generated")
	return batch, nil
}

// ParseBatch decodes the model's JSON array and assigns joke IDs.
// Empty text is treated as an empty array.
func ParseBatch(text string, now time.Time) (Batch, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "[]"
	}

	var recs []record
	if err := json.Unmarshal([]byte(text), &recs); err != nil {
		return Batch{}, fmt.Errorf("parse jokes: %w", err)
	}

	batch := Batch{
		Jokes:       make([]Joke, 0, len(recs)),
		GeneratedAt: now,
	}
	for i, r := range recs {
		batch.Jokes = append(batch.Jokes, Joke{
			ID:        NewID(now, i),
			Setup:     r.Setup,
			Punchline: r.Punchline,
		})
	}
	return batch, nil
}

// NewID builds a batch-unique joke ID from the generation time and index
func NewID(now time.Time, index int) string {
	return fmt.Sprintf("joke-%d-%d", now.UnixMilli(), index)
}
