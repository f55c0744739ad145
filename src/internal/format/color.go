// FILE: pidcat/src/internal/format/color.go
package format

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"pidcat/src/internal/color"
	"pidcat/src/internal/core"

	"github.com/charmbracelet/lipgloss"
	"github.com/lixenwraith/log"
)

// highlightRule restyles the capture groups of an anchored message pattern.
// A nil style leaves its group plain.
type highlightRule struct {
	name   string
	re     *regexp.Regexp
	styles []*lipgloss.Style
}

func (h highlightRule) apply(msg string) string {
	loc := h.re.FindStringSubmatchIndex(msg)
	if loc == nil {
		return msg
	}

	var b strings.Builder
	pos := loc[0]
	b.WriteString(msg[:pos])
	for g := 1; g < len(loc)/2; g++ {
		start, end := loc[2*g], loc[2*g+1]
		if start < 0 {
			continue
		}
		b.WriteString(msg[pos:start])
		seg := msg[start:end]
		if g-1 < len(h.styles) && h.styles[g-1] != nil {
			seg = h.styles[g-1].Render(seg)
		}
		b.WriteString(seg)
		pos = end
	}
	b.WriteString(msg[pos:])
	return b.String()
}

// ColorFormatter is the terminal renderer: tag column, level badge,
// highlighted and wrapped message, and colored lifecycle banners.
// It carries render state and must be used from a single goroutine.
type ColorFormatter struct {
	opts        Options
	renderer    *lipgloss.Renderer
	colors      *color.Allocator
	badges      map[core.Level]string
	rules       []highlightRule
	headerWidth int
	logger      *log.Logger

	lastTag    string
	hasLastTag bool
}

// NewColorFormatter creates the terminal renderer
func NewColorFormatter(opts Options, logger *log.Logger) *ColorFormatter {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(opts.Profile)

	f := &ColorFormatter{
		opts:        opts,
		renderer:    r,
		colors:      color.NewAllocator(),
		headerWidth: core.HeaderWidth(opts.TagWidth),
		logger:      logger,
	}
	f.badges = f.buildBadges()
	f.rules = f.buildRules()

	logger.Debug("msg", "Color formatter created",
		"component", "color_formatter",
		"tag_width", opts.TagWidth,
		"width", opts.Width,
		"profile", opts.Profile,
		"highlight_rules", len(f.rules))
	return f
}

func (f *ColorFormatter) style(fg, bg *color.Color) lipgloss.Style {
	s := f.renderer.NewStyle()
	if fg != nil {
		s = s.Foreground(fg.Lip())
	}
	if bg != nil {
		s = s.Background(bg.Lip())
	}
	return s
}

func ptr(c color.Color) *color.Color { return &c }

func (f *ColorFormatter) buildBadges() map[core.Level]string {
	levels := []struct {
		level  core.Level
		fg, bg color.Color
	}{
		{core.LevelVerbose, color.White, color.Black},
		{core.LevelDebug, color.Black, color.Blue},
		{core.LevelInfo, color.Black, color.Green},
		{core.LevelWarn, color.Black, color.Yellow},
		{core.LevelError, color.Black, color.Red},
		{core.LevelFatal, color.Black, color.Red},
	}

	badges := make(map[core.Level]string, len(levels))
	for _, b := range levels {
		badges[b.level] = f.style(ptr(b.fg), ptr(b.bg)).Render(" " + b.level.String() + " ")
	}
	return badges
}

func (f *ColorFormatter) buildRules() []highlightRule {
	red := f.style(ptr(color.Red), nil)
	green := f.style(ptr(color.Green), nil)
	yellow := f.style(ptr(color.Yellow), nil)

	rules := []highlightRule{{
		name:   "strict_mode",
		re:     regexp.MustCompile(`^(StrictMode policy violation)(; ~duration=)(\d+ ms)`),
		styles: []*lipgloss.Style{&red, nil, &yellow},
	}}
	if f.opts.ColorGC {
		rules = append(rules, highlightRule{
			name:   "gc",
			re:     regexp.MustCompile(`^(GC_(?:CONCURRENT|FOR_M?ALLOC|EXTERNAL_ALLOC|EXPLICIT) )(freed <?\d+.)(, \d+\% free \d+./\d+., )(paused \d+ms(?:\+\d+ms)?)`),
			styles: []*lipgloss.Style{nil, &green, nil, &yellow},
		})
	}
	return rules
}

// Badge returns the rendered level token, or a plain fallback for unknown
// letters.
func (f *ColorFormatter) Badge(level core.Level) string {
	if b, ok := f.badges[level]; ok {
		return b
	}
	return " " + level.String() + " "
}

// fitTag keeps the last width characters of tag and right-justifies it.
func fitTag(tag string, width int) string {
	r := []rune(tag)
	if len(r) > width {
		r = r[len(r)-width:]
	}
	return strings.Repeat(" ", width-len(r)) + string(r)
}

// FormatRecord renders one record line
func (f *ColorFormatter) FormatRecord(rec core.Record) ([]byte, error) {
	var b strings.Builder

	if f.opts.TagWidth > 0 {
		if !f.hasLastTag || rec.Tag != f.lastTag || f.opts.AlwaysShowTags {
			f.lastTag, f.hasLastTag = rec.Tag, true
			c := f.colors.Allocate(rec.Tag)
			b.WriteString(f.style(&c, nil).Render(fitTag(rec.Tag, f.opts.TagWidth)))
		} else {
			b.WriteString(strings.Repeat(" ", f.opts.TagWidth))
		}
		b.WriteByte(' ')
	}

	b.WriteString(f.Badge(rec.Level))
	b.WriteByte(' ')

	msg := rec.Message
	for _, rule := range f.rules {
		msg = rule.apply(msg)
	}
	b.WriteString(Wrap(msg, f.opts.Width, f.headerWidth))
	b.WriteByte('\n')

	return []byte(b.String()), nil
}

// FormatBanner renders a lifecycle banner and forces the next record to
// redraw its tag.
func (f *ColorFormatter) FormatBanner(banner core.Banner) ([]byte, error) {
	f.lastTag, f.hasLastTag = "", false

	barWidth := f.headerWidth - 1
	if barWidth < 0 {
		barWidth = 0
	}
	pad := strings.Repeat(" ", barWidth)

	var b strings.Builder
	b.WriteByte('\n')

	switch banner.Kind {
	case core.BannerStarted:
		bar := f.style(nil, ptr(color.White)).Render(pad)
		b.WriteString(bar)
		b.WriteString(Wrap(fmt.Sprintf(" Process %s created for %s\n", banner.Package, banner.Target), f.opts.Width, f.headerWidth))
		b.WriteString(bar)
		fmt.Fprintf(&b, " PID: %s   UID: %s   GIDs: %s", banner.PID, banner.UID, banner.GIDs)
	case core.BannerEnded:
		b.WriteString(f.style(nil, ptr(color.Red)).Render(pad))
		fmt.Fprintf(&b, " Process %s (PID: %s) ended", banner.Package, banner.PID)
	default:
		return nil, fmt.Errorf("unknown banner kind: %d", banner.Kind)
	}

	b.WriteString("\n\n")
	return []byte(b.String()), nil
}

// Name returns the formatter name
func (f *ColorFormatter) Name() string {
	return "color"
}
