package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Calibri"
	fontSize  = 11
	textColor = "000000"
	metaColor = "595959"
)

var (
	reHeading  = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet   = regexp.MustCompile(`^[\-\*•]\s+(.+)$`)
	reNumbered = regexp.MustCompile(`^\d+\.\s+(.+)$`)
)

// Document describes a summary to export.
type Document struct {
	Title       string
	SourceURL   string
	Model       string
	GeneratedAt time.Time
	Markdown    string
}

// WriteDocx renders doc as a .docx file at path, creating the parent directory.
func WriteDocx(path string, doc Document) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("export docx: empty path")
	}
	if strings.TrimSpace(doc.Markdown) == "" {
		return errors.New("export docx: empty summary")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export docx: ensure directory: %w", err)
	}

	out, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("export docx: new document: %w", err)
	}

	title := strings.TrimSpace(doc.Title)
	if title == "" {
		title = "Résumé"
	}
	addStyledRun(out.AddParagraph(""), title, true, 18, textColor)
	if meta := metadataLine(doc); meta != "" {
		addStyledRun(out.AddParagraph(""), meta, false, 9, metaColor)
	}

	for _, line := range strings.Split(doc.Markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == "---" {
			continue
		}
		if m := reHeading.FindStringSubmatch(trimmed); m != nil {
			addStyledRun(out.AddParagraph(""), m[2], true, headingSize(len(m[1])), textColor)
			continue
		}
		if m := reBullet.FindStringSubmatch(trimmed); m != nil {
			addRichText(out.AddParagraph(""), "• "+m[1])
			continue
		}
		if reNumbered.MatchString(trimmed) {
			addRichText(out.AddParagraph(""), trimmed)
			continue
		}
		addRichText(out.AddParagraph(""), trimmed)
	}

	if err := out.SaveTo(path); err != nil {
		return fmt.Errorf("export docx: save %s: %w", path, err)
	}
	return nil
}

func metadataLine(doc Document) string {
	parts := make([]string, 0, 3)
	if doc.SourceURL != "" {
		parts = append(parts, "Source : "+doc.SourceURL)
	}
	if doc.Model != "" {
		parts = append(parts, "Modèle : "+doc.Model)
	}
	if !doc.GeneratedAt.IsZero() {
		parts = append(parts, doc.GeneratedAt.Format("2006-01-02 15:04"))
	}
	return strings.Join(parts, " · ")
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 18
	case 2:
		return 16
	case 3:
		return 13
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64, color string) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color(color)
	if bold {
		run.Bold(true)
	}
}

func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)
	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color(textColor)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color(textColor).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}

// TitleFromMarkdown returns the first heading text, or "" when there is none.
func TitleFromMarkdown(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if m := reHeading.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			return cleanMarkdownInline(strings.Trim(m[2], "[] "))
		}
	}
	return ""
}
