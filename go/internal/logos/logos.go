package logos

import (
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultPrefix is the URL path logos are served under.
	DefaultPrefix = "/logos/"
	// DefaultFallback is the asset used when no logo matches a name.
	DefaultFallback = "teams/ncaa.png"

	teamsDir  = "teams"
	extension = ".png"
)

// Resolver maps team and conference names to logo URLs.
// Lookups never fail: names without a matching asset resolve to the fallback.
type Resolver struct {
	assets   fs.FS
	prefix   string
	fallback string

	mu    sync.RWMutex
	cache map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPrefix sets the URL prefix logos are served under.
func WithPrefix(prefix string) Option {
	return func(r *Resolver) {
		if !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		r.prefix = prefix
	}
}

// WithFallback sets the asset path, relative to the asset root, used for missing logos.
func WithFallback(asset string) Option {
	return func(r *Resolver) {
		if asset != "" {
			r.fallback = asset
		}
	}
}

// NewResolver creates a resolver over assets. A nil assets resolves everything to the fallback.
func NewResolver(assets fs.FS, opts ...Option) *Resolver {
	r := &Resolver{
		assets:   assets,
		prefix:   DefaultPrefix,
		fallback: DefaultFallback,
		cache:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TeamLogo returns the logo URL for a team.
func (r *Resolver) TeamLogo(team string) string {
	return r.resolve(teamsDir + "/" + team + extension)
}

// ConferenceLogo returns the logo URL for a conference code.
func (r *Resolver) ConferenceLogo(code string) string {
	return r.resolve(code + extension)
}

// Prefix returns the URL path logos are served under.
func (r *Resolver) Prefix() string {
	return r.prefix
}

// FallbackURL returns the URL of the placeholder logo.
func (r *Resolver) FallbackURL() string {
	return r.url(r.fallback)
}

func (r *Resolver) resolve(asset string) string {
	r.mu.RLock()
	cached, ok := r.cache[asset]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	resolved := r.FallbackURL()
	if r.exists(asset) {
		resolved = r.url(asset)
	} else {
		log.Debug().Str("asset", asset).Msg("logo not found, using fallback")
	}

	r.mu.Lock()
	r.cache[asset] = resolved
	r.mu.Unlock()
	return resolved
}

func (r *Resolver) exists(asset string) bool {
	if r.assets == nil || !fs.ValidPath(asset) {
		return false
	}
	info, err := fs.Stat(r.assets, asset)
	return err == nil && !info.IsDir()
}

func (r *Resolver) url(asset string) string {
	parts := strings.Split(asset, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return r.prefix + strings.Join(parts, "/")
}

// Handler serves logo assets under the resolver's prefix, substituting the fallback for missing files.
func (r *Resolver) Handler() http.Handler {
	return http.StripPrefix(r.prefix, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet && req.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		asset := strings.TrimPrefix(path.Clean("/"+req.URL.Path), "/")
		if !r.exists(asset) {
			asset = r.fallback
			if !r.exists(asset) {
				http.NotFound(w, req)
				return
			}
		}
		r.serveAsset(w, req, asset)
	}))
}

func (r *Resolver) serveAsset(w http.ResponseWriter, req *http.Request, asset string) {
	f, err := r.assets.Open(asset)
	if err != nil {
		http.NotFound(w, req)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, "failed to read logo", http.StatusInternalServerError)
		return
	}

	if rs, ok := f.(io.ReadSeeker); ok {
		http.ServeContent(w, req, info.Name(), info.ModTime(), rs)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := io.Copy(w, f); err != nil {
		log.Error().Err(err).Str("asset", asset).Msg("failed to write logo")
	}
}
