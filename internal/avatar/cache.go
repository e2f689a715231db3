// ABOUTME: Profile photo cache for the signed-in user
// ABOUTME: Downloads the provider's photo URL once and serves it from disk afterwards
package avatar

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// maxPhotoBytes caps a single download
const maxPhotoBytes = 5 << 20

// Cache manages profile photo downloads
type Cache struct {
	dir    string
	client *http.Client
	log    zerolog.Logger

	mu          sync.Mutex
	currentPath string
}

// NewCache creates a cache rooted at dir
func NewCache(dir string, log zerolog.Logger) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "ujokes-avatars")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Cache{
		dir:    dir,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log.With().Str("component", "avatar").Logger(),
	}, nil
}

// Fetch returns a local path for the photo at photoURL, downloading it if needed.
// An empty URL yields an empty path and no error.
func (c *Cache) Fetch(ctx context.Context, photoURL string) (string, error) {
	if photoURL == "" {
		return "", nil
	}

	hash := sha256.Sum256([]byte(photoURL))
	base := fmt.Sprintf("%x", hash[:8])

	if matches, _ := filepath.Glob(filepath.Join(c.dir, base+".*")); len(matches) > 0 {
		c.log.Debug().Str("path", matches[0]).Msg("avatar cache hit")
		c.setCurrent(matches[0])
		return matches[0], nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to download avatar: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("avatar download failed: HTTP %d", resp.StatusCode)
	}

	cachePath := filepath.Join(c.dir, base+extension(photoURL, resp.Header.Get("Content-Type")))
	tmp, err := os.CreateTemp(c.dir, ".tmp-"+base+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create cache file: %w", err)
	}
	_, copyErr := io.Copy(tmp, io.LimitReader(resp.Body, maxPhotoBytes))
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmp.Name())
		if copyErr == nil {
			copyErr = closeErr
		}
		return "", fmt.Errorf("failed to save avatar: %w", copyErr)
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	c.log.Info().Str("path", cachePath).Msg("avatar saved")
	c.setCurrent(cachePath)
	return cachePath, nil
}

// CurrentPath returns the most recently fetched photo
func (c *Cache) CurrentPath() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPath
}

// Forget clears the current photo, e.g. after logout
func (c *Cache) Forget() {
	c.setCurrent("")
}

// Cleanup removes every cached photo
func (c *Cache) Cleanup() error {
	c.Forget()
	return os.RemoveAll(c.dir)
}

func (c *Cache) setCurrent(path string) {
	c.mu.Lock()
	c.currentPath = path
	c.mu.Unlock()
}

// extension picks a file extension from the URL path, then the content type
func extension(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			return ext
		}
	}

	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "image/png":
			return ".png"
		case "image/webp":
			return ".webp"
		case "image/gif":
			return ".gif"
		}
	}
	return ".jpg"
}
