// Package markdown converts markdown documents to Alexa SSML.
package markdown

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dgnsrekt/alexa-ssml/alexa"
	"github.com/dgnsrekt/alexa-ssml/internal/config"
	"github.com/dgnsrekt/alexa-ssml/ssml"
	"github.com/dgnsrekt/alexa-ssml/utils"
)

// Options controls the conversion.
type Options struct {
	IncludeCodeBlocks bool
	ExpandLinks       bool
	HeadingPause      ssml.BreakStrength
	// SplitSentences wraps each sentence of a paragraph in an s element.
	SplitSentences    bool
}

// OptionsFromConfig maps the markdown section of the configuration.
func OptionsFromConfig(c config.MarkdownConfig) Options {
	return Options{
		IncludeCodeBlocks: c.IncludeCodeBlocks,
		ExpandLinks:       c.ExpandLinks,
		HeadingPause:      ssml.BreakStrength(c.HeadingPause),
		SplitSentences:    c.SplitSentences,
	}
}

// Converter walks a goldmark AST and drives an alexa.Builder.
type Converter struct {
	opts Options
	md   goldmark.Markdown
}

// NewConverter returns a converter. An empty HeadingPause means strong.
func NewConverter(opts Options) *Converter {
	if opts.HeadingPause == "" {
		opts.HeadingPause = ssml.BreakStrong
	}
	return &Converter{
		opts: opts,
		md:   goldmark.New(),
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Convert renders src as a speak document. Front matter is ignored.
func (c *Converter) Convert(src []byte) (string, error) {
	source := utils.RemoveFrontmatter(src)
	doc := c.md.Parser().Parse(text.NewReader(source))

	b := alexa.New()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := c.block(b, n, source); err != nil {
			return "", err
		}
	}
	log.Debug("markdown converted", "blocks", doc.ChildCount(), "fragments", b.Len())
	return b.Build()
}

func (c *Converter) block(b *alexa.Builder, node ast.Node, source []byte) error {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		inline, err := c.inlineChildren(n, source)
		if err != nil {
			return err
		}
		if strings.TrimSpace(inline) != "" {
			return c.paragraph(b, strings.TrimSpace(inline))
		}

	case *ast.Heading:
		inline, err := c.inlineChildren(n, source)
		if err != nil {
			return err
		}
		if strings.TrimSpace(inline) == "" {
			return nil
		}
		b.SpeakWithEmphasis(strings.TrimSpace(inline), alexa.EmphasisStrong).PauseByStrength(c.opts.HeadingPause)

	case *ast.List:
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if err := c.listItem(b, item, source); err != nil {
				return err
			}
		}

	case *ast.Blockquote:
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if err := c.block(b, child, source); err != nil {
				return err
			}
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if !c.opts.IncludeCodeBlocks {
			return nil
		}
		if code := codeText(n, source); code != "" {
			b.Paragraph(textEscaper.Replace(code))
		}

	case *ast.ThematicBreak:
		b.PauseByStrength(ssml.BreakXtraStrong)

	case *ast.HTMLBlock:
		// raw HTML is not speakable
	}
	return b.Err()
}

func (c *Converter) paragraph(b *alexa.Builder, inline string) error {
	if !c.opts.SplitSentences {
		b.Paragraph(inline)
		return b.Err()
	}
	sentences := splitSentences(inline)
	if len(sentences) < 2 {
		b.Paragraph(inline)
		return b.Err()
	}
	inner, err := fragment(func(sb *alexa.Builder) {
		for _, s := range sentences {
			sb.Sentence(s)
		}
	})
	if err != nil {
		return err
	}
	b.Paragraph(inner)
	return b.Err()
}

// listItem speaks the item's own text as a sentence, then any nested
// blocks such as sub-lists.
func (c *Converter) listItem(b *alexa.Builder, item ast.Node, source []byte) error {
	var parts []string
	var nested []ast.Node
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.TextBlock, *ast.Paragraph:
			inline, err := c.inlineChildren(child, source)
			if err != nil {
				return err
			}
			if s := strings.TrimSpace(inline); s != "" {
				parts = append(parts, s)
			}
		default:
			nested = append(nested, child)
		}
	}
	if len(parts) > 0 {
		b.Sentence(strings.Join(parts, " "))
	}
	for _, n := range nested {
		if err := c.block(b, n, source); err != nil {
			return err
		}
	}
	return b.Err()
}

func (c *Converter) inlineChildren(node ast.Node, source []byte) (string, error) {
	var sb strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		s, err := c.inline(child, source)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func (c *Converter) inline(node ast.Node, source []byte) (string, error) {
	switch n := node.(type) {
	case *ast.Text:
		// goldmark leaves entity references in the raw segment
		seg := util.ResolveNumericReferences(util.ResolveEntityNames(n.Segment.Value(source)))
		s := textEscaper.Replace(string(seg))
		if n.SoftLineBreak() || n.HardLineBreak() {
			s += " "
		}
		return s, nil

	case *ast.String:
		return textEscaper.Replace(string(n.Value)), nil

	case *ast.CodeSpan:
		var sb strings.Builder
		for child := n.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				sb.Write(t.Segment.Value(source))
			}
		}
		return textEscaper.Replace(sb.String()), nil

	case *ast.Emphasis:
		inner, err := c.inlineChildren(n, source)
		if err != nil {
			return "", err
		}
		level := alexa.EmphasisModerate
		if n.Level >= 2 {
			level = alexa.EmphasisStrong
		}
		return fragment(func(b *alexa.Builder) { b.SpeakWithEmphasis(inner, level) })

	case *ast.Link:
		inner, err := c.inlineChildren(n, source)
		if err != nil {
			return "", err
		}
		if c.opts.ExpandLinks && len(n.Destination) > 0 {
			inner = strings.TrimSpace(inner) + " " + textEscaper.Replace(string(n.Destination))
		}
		return inner, nil

	case *ast.AutoLink:
		return textEscaper.Replace(string(n.Label(source))), nil

	case *ast.Image:
		dest := string(n.Destination)
		if isAudio(dest) {
			return fragment(func(b *alexa.Builder) { b.PlayAudio(attrEscaper.Replace(dest)) })
		}
		return c.inlineChildren(n, source)

	case *ast.RawHTML:
		return "", nil

	default:
		return c.inlineChildren(n, source)
	}
}

// fragment runs op on a scratch builder and returns the markup it produced.
func fragment(op func(b *alexa.Builder)) (string, error) {
	b := alexa.New()
	op(b)
	if err := b.Err(); err != nil {
		return "", err
	}
	return b.Body(), nil
}

func isAudio(dest string) bool {
	return strings.HasPrefix(strings.ToLower(dest), "https://") && strings.HasSuffix(dest, ".mp3")
}

func codeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}
