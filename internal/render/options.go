package render

import "go.uber.org/zap"

// DefaultMarkerClass marks elements that hold rendered Markdown so
// stylesheets can target them.
const DefaultMarkerClass = "markdown-content"

type config struct {
	gfm         bool
	hardWraps   bool
	headingIDs  bool
	emoji       bool
	markerClass string
	link        LinkFormatter
	logger      *zap.Logger
}

func defaultConfig() config {
	return config{
		gfm:         true,
		hardWraps:   true,
		markerClass: DefaultMarkerClass,
		link:        DefaultLinkFormatter,
		logger:      zap.NewNop(),
	}
}

// Option configures a Renderer.
type Option func(*config)

// WithGFM toggles the GitHub-flavored Markdown extensions (tables,
// strikethrough, autolinks, task lists). Enabled by default.
func WithGFM(on bool) Option {
	return func(c *config) { c.gfm = on }
}

// WithHardWraps toggles rendering single newlines as <br>. Enabled by default.
func WithHardWraps(on bool) Option {
	return func(c *config) { c.hardWraps = on }
}

// WithHeadingIDs toggles automatic id attributes on headings. Disabled by
// default.
func WithHeadingIDs(on bool) Option {
	return func(c *config) { c.headingIDs = on }
}

// WithEmoji toggles :shortcode: emoji. Disabled by default.
func WithEmoji(on bool) Option {
	return func(c *config) { c.emoji = on }
}

// WithMarkerClass sets the class added to every target that receives
// rendered content. An empty name keeps the default.
func WithMarkerClass(name string) Option {
	return func(c *config) {
		if name != "" {
			c.markerClass = name
		}
	}
}

// WithLinkFormatter replaces the anchor markup used for links. A nil
// formatter keeps DefaultLinkFormatter.
func WithLinkFormatter(f LinkFormatter) Option {
	return func(c *config) {
		if f != nil {
			c.link = f
		}
	}
}

// WithLogger sets the logger used for debug output. A nil logger keeps the
// default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
