package config

import "time"

// Option describes one configuration key, its default, and what it does.
type Option struct {
	Key     string
	Default any
	Comment string
}

// Options returns every configuration key with its default. It seeds viper
// defaults and the generated config file.
func Options() []Option {
	return []Option{
		{Key: "http_addr", Default: "127.0.0.1:3340", Comment: "Listen address for `chatview serve`"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug, info, warn, error"},
		{Key: "log.format", Default: "console", Comment: "Log encoding: console or json"},

		{Key: "render.marker_class", Default: "markdown-content", Comment: "Class added to every element holding rendered Markdown"},
		{Key: "render.hard_wraps", Default: true, Comment: "Render single newlines as line breaks"},
		{Key: "render.gfm", Default: true, Comment: "GitHub-flavored Markdown: tables, strikethrough, autolinks, task lists"},
		{Key: "render.heading_ids", Default: false, Comment: "Generate id attributes for headings"},
		{Key: "render.emoji", Default: false, Comment: "Expand :shortcode: emoji"},

		{Key: "chat.max_message_bytes", Default: 65536, Comment: "Largest Markdown message accepted over HTTP or WebSocket"},

		{Key: "web.keepalive", Default: 25 * time.Second, Comment: "Interval between SSE keep-alive patches"},
		{Key: "web.secret_file", Default: "", Comment: "Signing key for author tokens; when set, posting messages requires a token"},
		{Key: "web.token_ttl", Default: 24 * time.Hour, Comment: "Lifetime of tokens minted by `chatview token`"},

		{Key: "watch.debounce", Default: 150 * time.Millisecond, Comment: "Quiet period before a watched file is re-rendered"},
	}
}
