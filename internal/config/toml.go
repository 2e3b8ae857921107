package config

import (
	"fmt"
	"strings"
	"time"
)

// RenderDefaultTOML renders a commented config file holding every default.
func RenderDefaultTOML() string {
	var b strings.Builder
	b.WriteString("# chatview configuration (TOML)\n\n")

	var topLevel []Option
	sections := map[string][]Option{}
	var order []string
	for _, o := range Options() {
		section, key, ok := strings.Cut(o.Key, ".")
		if !ok {
			topLevel = append(topLevel, o)
			continue
		}
		if _, seen := sections[section]; !seen {
			order = append(order, section)
		}
		sections[section] = append(sections[section], Option{Key: key, Default: o.Default, Comment: o.Comment})
	}

	for _, o := range topLevel {
		writeOption(&b, o)
	}
	for _, section := range order {
		b.WriteString("[" + section + "]\n")
		for _, o := range sections[section] {
			writeOption(&b, o)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeOption(b *strings.Builder, o Option) {
	if o.Comment != "" {
		b.WriteString("# " + o.Comment + "\n")
	}
	switch v := o.Default.(type) {
	case string:
		fmt.Fprintf(b, "%s = %q\n\n", o.Key, v)
	case time.Duration:
		fmt.Fprintf(b, "%s = %q\n\n", o.Key, v.String())
	default:
		fmt.Fprintf(b, "%s = %v\n\n", o.Key, v)
	}
}
