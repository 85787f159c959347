// Package export renders a markdown summary into a Word document.
//
// Only the markdown the summary prompt asks for is interpreted: ATX headings,
// bullet and numbered list items, and **bold** spans. Everything else is kept
// as plain paragraphs.
package export
