// Package screenplay renders generated episodes as plain-text
// Hollywood-style scripts: sluglines, action paragraphs, centered
// speaker names, and parenthetical directions. It is a pure formatting
// layer with no storage or model access.
package screenplay
