// ABOUTME: Tests for the joke request client
// ABOUTME: Uses a fake content generator to check requests, parsing and IDs
package jokes

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	text string
	err  error

	model  string
	config *genai.GenerateContentConfig
	prompt string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func newTestGenerator(t *testing.T, fake *fakeGenerator) *Generator {
	t.Helper()
	g, err := NewGenerator(fake, Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	g.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return g
}

func TestParseBatch(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	text := `[{"setup":"Why?","punchline":"Because."},{"setup":"Who?","punchline":"Me."}]`

	batch, err := ParseBatch(text, now)
	if err != nil {
		t.Fatalf("ParseBatch failed: %v", err)
	}

	if batch.Len() != 2 {
		t.Fatalf("expected 2 jokes, got %d", batch.Len())
	}
	want := []Joke{
		{ID: "joke-1700000000123-0", Setup: "Why?", Punchline: "Because."},
		{ID: "joke-1700000000123-1", Setup: "Who?", Punchline: "Me."},
	}
	for i, j := range batch.Jokes {
		if j != want[i] {
			t.Errorf("joke %d: expected %+v, got %+v", i, want[i], j)
		}
	}
	if !batch.GeneratedAt.Equal(now) {
		t.Errorf("unexpected GeneratedAt %v", batch.GeneratedAt)
	}
}

func TestParseBatchIDsUnique(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 20; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"setup":"s","punchline":"p"}`)
	}
	sb.WriteString("]")

	batch, err := ParseBatch(sb.String(), time.Now())
	if err != nil {
		t.Fatalf("ParseBatch failed: %v", err)
	}
	if batch.Len() != 20 {
		t.Fatalf("expected 20 jokes, got %d", batch.Len())
	}

	seen := make(map[string]bool)
	for _, j := range batch.Jokes {
		if j.ID == "" {
			t.Fatal("empty joke ID")
		}
		if seen[j.ID] {
			t.Fatalf("duplicate joke ID %s", j.ID)
		}
		seen[j.ID] = true
	}
}

func TestParseBatchSoftCases(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantLen int
		wantErr bool
	}{
		{"empty text", "", 0, false},
		{"empty array", "[]", 0, false},
		{"null", "null", 0, false},
		{"not json", "Sure! Here are some jokes:", 0, true},
		{"wrong shape", `{"setup":"x"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := ParseBatch(tt.text, time.Now())
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if batch.Len() != tt.wantLen {
				t.Errorf("expected %d jokes, got %d", tt.wantLen, batch.Len())
			}
		})
	}
}

func TestGenerateRequest(t *testing.T) {
	fake := &fakeGenerator{text: `[{"setup":"a","punchline":"b"}]`}
	g := newTestGenerator(t, fake)

	batch, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if batch.Len() != 1 || batch.Jokes[0].ID != "joke-1700000000000-0" {
		t.Fatalf("unexpected batch %+v", batch)
	}

	if fake.model != DefaultModel {
		t.Errorf("expected model %q, got %q", DefaultModel, fake.model)
	}
	if fake.config.ResponseMIMEType != "application/json" {
		t.Errorf("unexpected mime type %q", fake.config.ResponseMIMEType)
	}
	if fake.config.ResponseSchema == nil || fake.config.ResponseSchema.Type != genai.TypeArray {
		t.Errorf("expected array response schema, got %+v", fake.config.ResponseSchema)
	}
	sys := fake.config.SystemInstruction.Parts[0].Text
	if !strings.Contains(sys, "Generate exactly 20 jokes.") {
		t.Errorf("system instruction missing batch size: %q", sys)
	}
	if !strings.HasPrefix(fake.prompt, "Write 20 of your absolute best") {
		t.Errorf("unexpected prompt %q", fake.prompt)
	}
}

func TestGenerateParseFailureYieldsEmptyBatch(t *testing.T) {
	g := newTestGenerator(t, &fakeGenerator{text: "not json at all"})

	batch, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("parse failure should not be returned, got %v", err)
	}
	if batch.Len() != 0 {
		t.Errorf("expected empty batch, got %d jokes", batch.Len())
	}
}

func TestGenerateTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	g := newTestGenerator(t, &fakeGenerator{err: boom})

	if _, err := g.Generate(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}
