// Package quizdoc extracts quiz questions from semi-structured HTML pages.
// A configurable set of CSS selectors locates question blocks, their text,
// correct and incorrect answers, explanations, supplementary paragraphs and
// illustrations. Extracted text is reduced to a small subset of inline HTML
// and normalized into a consistent shape.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, etree/).
package quizdoc
