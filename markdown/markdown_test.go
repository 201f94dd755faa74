package markdown_test

import (
	"strings"
	"testing"

	"github.com/fibnas/mdecho"
	"github.com/fibnas/mdecho/markdown"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	t.Parallel()

	theme := mdecho.DefaultTheme()

	t.Run("empty input returns empty string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", markdown.Render("", 80, theme))
	})

	t.Run("plain paragraph", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("hello world", 80, theme)
		assert.Contains(t, result, "hello world")
	})

	t.Run("heading renders with marker and styling", func(t *testing.T) {
		t.Parallel()
		heading := markdown.Render("# Title", 80, theme)
		paragraph := markdown.Render("Title", 80, theme)
		assert.Contains(t, heading, "# Title")
		assert.NotEqual(t, heading, paragraph)
	})

	t.Run("deep heading styled differently from top level", func(t *testing.T) {
		t.Parallel()
		h1 := markdown.Render("# Title", 80, theme)
		h3 := markdown.Render("### Title", 80, theme)
		assert.Contains(t, h3, "### Title")
		assert.NotEqual(t, h1, h3)
	})

	t.Run("bold text", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, markdown.Render("**bold**", 80, theme), "bold")
	})

	t.Run("italic text", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, markdown.Render("*italic*", 80, theme), "italic")
	})

	t.Run("inline code", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, markdown.Render("`code`", 80, theme), "code")
	})

	t.Run("fenced code block preserves content without reflow", func(t *testing.T) {
		t.Parallel()
		src := "```go\nfmt.Println(\"hello world\")\n```"
		result := markdown.Render(src, 20, theme)
		assert.Contains(t, result, `fmt.Println("hello world")`)
	})

	t.Run("fenced code block shows language label", func(t *testing.T) {
		t.Parallel()
		src := "```python\nprint('hi')\n```"
		result := markdown.Render(src, 80, theme)
		assert.Contains(t, result, "python")
		assert.Contains(t, result, "print('hi')")
	})

	t.Run("bullet list", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("- one\n- two\n- three", 80, theme)
		assert.Contains(t, result, "• one")
		assert.Contains(t, result, "• two")
		assert.Contains(t, result, "• three")
	})

	t.Run("ordered list", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("1. first\n2. second", 80, theme)
		assert.Contains(t, result, "1. first")
		assert.Contains(t, result, "2. second")
	})

	t.Run("nested list indents", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("- outer\n  - inner", 80, theme)
		assert.Contains(t, result, "• outer")
		assert.Contains(t, result, "  • inner")
	})

	t.Run("blockquote carries a bar", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("> quoted text", 80, theme)
		assert.Contains(t, result, "┃")
		assert.Contains(t, result, "quoted text")
	})

	t.Run("thematic break", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, markdown.Render("---", 80, theme), "─")
	})

	t.Run("link shows text and URL", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("[click](https://example.com)", 80, theme)
		assert.Contains(t, result, "click")
		assert.Contains(t, result, "example.com")
	})

	t.Run("image shows alt and URL", func(t *testing.T) {
		t.Parallel()
		result := markdown.Render("![a cat](cat.png)", 80, theme)
		assert.Contains(t, result, "a cat")
		assert.Contains(t, result, "cat.png")
	})

	t.Run("paragraph wraps to width", func(t *testing.T) {
		t.Parallel()
		long := "word1 word2 word3 word4 word5 word6 word7 word8 word9 word10 word11 word12"
		result := markdown.Render(long, 30, theme)
		assert.Contains(t, result, "word1")
		assert.Contains(t, result, "word12")
		lines := strings.Split(result, "\n")
		assert.Greater(t, len(lines), 1, "expected wrapping at width 30")
	})

	t.Run("rendering is idempotent", func(t *testing.T) {
		t.Parallel()
		src := "# Title\n\nBody with **bold** and a\n\n- list\n- of things\n\n```go\ncode\n```"
		first := markdown.Render(src, 60, theme)
		second := markdown.Render(src, 60, theme)
		assert.Equal(t, first, second)
	})

	t.Run("malformed input never fails", func(t *testing.T) {
		t.Parallel()
		inputs := []string{
			"```\nunclosed fence",
			"[broken link(",
			"**unterminated bold",
			"# \n>\n- \n1.",
			strings.Repeat(">", 50),
		}
		for _, src := range inputs {
			assert.NotPanics(t, func() { markdown.Render(src, 40, theme) })
		}
	})

	t.Run("themed render keeps content intact", func(t *testing.T) {
		t.Parallel()
		themed := mdecho.Theme{Base: "light", Text: "#222222", Accent: "#ff8800"}
		result := markdown.Render("# Title\n\nBody", 80, themed)
		assert.Contains(t, result, "# Title")
		assert.Contains(t, result, "Body")
	})

	t.Run("zero width falls back to default", func(t *testing.T) {
		t.Parallel()
		assert.Contains(t, markdown.Render("hello", 0, theme), "hello")
	})
}
