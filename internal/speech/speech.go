// ABOUTME: Speech request client backed by Gemini text-to-speech
// ABOUTME: Returns raw PCM narration, cached locally and deduplicated in flight
package speech

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"github.com/ujokes/ujokes-go/internal/gemini"
	"github.com/ujokes/ujokes-go/internal/jokes"
	"github.com/ujokes/ujokes-go/internal/store"
	"github.com/ujokes/ujokes-go/pkg/audio"
	"github.com/ujokes/ujokes-go/pkg/audio/decode"
)

const (
	DefaultModel = "gemini-2.5-flash-preview-tts"
	DefaultVoice = "Puck"

	cachePrefix = "audio:"
	promptLead  = "Perform this joke as a high-energy, hilarious, squeaky comedic character. Make it sound unstoppable and funny: "
)

// Cache persists synthesized payloads between runs
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Config selects the model and voice
type Config struct {
	Model string
	Voice string
}

// Audio is a synthesized narration payload
type Audio struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"` // little-endian 16-bit PCM
	CacheHit bool   `json:"-"`
}

// Format derives the PCM format from the payload MIME type, e.g. audio/L16;codec=pcm;rate=24000
func (a Audio) Format() audio.Format {
	f := audio.SpeechFormat()
	for _, param := range strings.Split(a.MIMEType, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(k, "rate") {
			continue
		}
		if rate, err := strconv.Atoi(v); err == nil && rate > 0 {
			f.SampleRate = rate
		}
	}
	return f
}

// Buffer decodes the payload into normalized samples
func (a Audio) Buffer() (audio.Buffer, error) {
	format := a.Format()
	dec, err := decode.NewPCM(format)
	if err != nil {
		return audio.Buffer{}, err
	}
	defer dec.Close()

	samples, err := dec.Decode(a.Data)
	if err != nil {
		return audio.Buffer{}, err
	}
	return audio.Buffer{Samples: samples, Format: format}, nil
}

// Synthesizer requests narrations
type Synthesizer struct {
	gen   gemini.ContentGenerator
	cfg   Config
	cache Cache
	log   zerolog.Logger

	sf singleflight.Group
}

// NewSynthesizer creates a synthesizer; cache may be nil
func NewSynthesizer(gen gemini.ContentGenerator, cfg Config, cache Cache, log zerolog.Logger) *Synthesizer {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = DefaultVoice
	}
	return &Synthesizer{
		gen:   gen,
		cfg:   cfg,
		cache: cache,
		log:   log.With().Str("component", "speech").Logger(),
	}
}

// Prompt wraps text in the performance direction sent to the speech model
func Prompt(text string) string {
	return promptLead + text
}

// JokeText is what gets narrated when a joke is played
func JokeText(j jokes.Joke) string {
	return j.Setup + "... " + j.Punchline
}

type result struct {
	audio Audio
	ok    bool
}

// Synthesize narrates text. A response without an audio payload returns ok=false
// and no error; transport failures are returned.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (Audio, bool, error) {
	key := s.cacheKey(text)

	if a, ok := s.lookup(ctx, key); ok {
		return a, true, nil
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		if a, ok := s.lookup(ctx, key); ok {
			return result{audio: a, ok: true}, nil
		}

		a, ok, err := s.request(ctx, text)
		if err != nil || !ok {
			return result{}, err
		}
		s.save(ctx, key, a)
		return result{audio: a, ok: true}, nil
	})
	if err != nil {
		return Audio{}, false, err
	}
	r := v.(result)
	return r.audio, r.ok, nil
}

func (s *Synthesizer) request(ctx context.Context, text string) (Audio, bool, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityAudio)},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.cfg.Voice},
			},
		},
	}
	contents := []*genai.Content{genai.NewContentFromText(Prompt(text), genai.RoleUser)}

	resp, err := s.gen.GenerateContent(ctx, s.cfg.Model, contents, cfg)
	if err != nil {
		return Audio{}, false, fmt.Errorf("synthesize speech: %w", err)
	}

	blob := gemini.FirstInlineData(resp)
	if blob == nil {
		s.log.Warn().Msg("speech response carried no audio")
		return Audio{}, false, nil
	}

	s.log.Debug().
		Str("mime", blob.MIMEType).
		Int("bytes", len(blob.Data)).
		Msg("speech synthesized")
	return Audio{MIMEType: blob.MIMEType, Data: blob.Data}, true, nil
}

func (s *Synthesizer) lookup(ctx context.Context, key string) (Audio, bool) {
	if s.cache == nil {
		return Audio{}, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.log.Warn().Err(err).Msg("speech cache read failed")
		}
		return Audio{}, false
	}

	var a Audio
	if err := json.Unmarshal(raw, &a); err != nil || len(a.Data) == 0 {
		s.log.Warn().Err(err).Str("key", key).Msg("ignoring bad speech cache entry")
		return Audio{}, false
	}
	a.CacheHit = true
	return a, true
}

func (s *Synthesizer) save(ctx context.Context, key string, a Audio) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw); err != nil {
		s.log.Warn().Err(err).Msg("speech cache write failed")
	}
}

func (s *Synthesizer) cacheKey(text string) string {
	raw := s.cfg.Model + "|" + s.cfg.Voice + "|" + text
	sum := sha256.Sum256([]byte(raw))
	return cachePrefix + hex.EncodeToString(sum[:])
}

// ClearCache removes every cached narration
func ClearCache(ctx context.Context, st *store.Store) error {
	return st.DeletePrefix(ctx, cachePrefix)
}
