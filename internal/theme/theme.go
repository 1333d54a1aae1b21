// Package theme resolves, toggles and persists the light/dark preference.
//
// Document state is derived in one place, Apply, and read back with Marker.
// Persistence goes through a Store handed to the Controller, so handlers
// never touch cookies or session keys directly.
package theme

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/metrics"
)

// Theme is the applied color scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Key is the name the preference is persisted under.
const Key = "theme"

// ErrStorageUnavailable is returned by stores that cannot be reached for
// this request.
var ErrStorageUnavailable = errors.New("theme storage unavailable")

// Parse returns the Theme named by s.
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	default:
		return "", false
	}
}

// Flip returns the other theme.
func (t Theme) Flip() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Presentation is everything the page needs to show a theme.
type Presentation struct {
	Theme Theme
	// Attr is the value of the data-theme attribute; empty means the
	// attribute is omitted.
	Attr        string
	Icon        string
	AriaPressed bool
}

// Apply maps a theme to its document state.
func Apply(t Theme) Presentation {
	if t == Dark {
		return Presentation{Theme: Dark, Attr: string(Dark), Icon: "fa-sun", AriaPressed: true}
	}
	return Presentation{Theme: Light, Attr: "", Icon: "fa-moon", AriaPressed: false}
}

// Marker reads the applied theme back from a data-theme attribute value.
func Marker(attr string) Theme {
	if attr == string(Dark) {
		return Dark
	}
	return Light
}

// Hint is the client's color-scheme preference.
type Hint int

const (
	HintNone Hint = iota
	HintLight
	HintDark
)

// HintHeader is the client hint carrying prefers-color-scheme.
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// HintFromRequest reads the color-scheme client hint.
func HintFromRequest(r *http.Request) Hint {
	switch strings.Trim(strings.ToLower(r.Header.Get(HintHeader)), `" `) {
	case "dark":
		return HintDark
	case "light":
		return HintLight
	default:
		return HintNone
	}
}

// Default is the theme used when nothing is persisted.
func (h Hint) Default() Theme {
	if h == HintDark {
		return Dark
	}
	return Light
}

// Store persists the raw preference string.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
}

// Controller applies the load/toggle rules on top of a Store. Store errors
// never escape: reads fall back to the hint and writes are best-effort.
type Controller struct {
	store  Store
	logger *zap.Logger
}

// NewController creates a Controller backed by store.
func NewController(store Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{store: store, logger: logger}
}

// Load returns the persisted theme, or the hint's default when nothing
// valid is stored or the store fails.
func (c *Controller) Load(ctx context.Context, hint Hint) Theme {
	raw, err := safeLoad(ctx, c.store)
	if err != nil {
		metrics.ThemeStorageErrorsTotal.WithLabelValues("load").Inc()
		c.logger.Debug("theme load failed", zap.Error(err))
		return hint.Default()
	}
	if t, ok := Parse(raw); ok {
		return t
	}
	return hint.Default()
}

// Toggle flips current, persists the result if it can, and returns it.
func (c *Controller) Toggle(ctx context.Context, current Theme) Theme {
	next := current.Flip()
	if err := safeSave(ctx, c.store, string(next)); err != nil {
		metrics.ThemeStorageErrorsTotal.WithLabelValues("save").Inc()
		c.logger.Debug("theme save failed", zap.Error(err))
	}
	metrics.ThemeTogglesTotal.WithLabelValues(string(next)).Inc()
	return next
}

// safeLoad and safeSave turn store panics (scs panics when no session is
// loaded into the context) into ErrStorageUnavailable.
func safeLoad(ctx context.Context, s Store) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrStorageUnavailable
		}
	}()
	return s.Load(ctx)
}

func safeSave(ctx context.Context, s Store, value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrStorageUnavailable
		}
	}()
	return s.Save(ctx, value)
}
