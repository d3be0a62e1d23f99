// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdown converts editor-authored markdown to sanitized HTML. Raw HTML in
// the source is passed to the sanitizer, which keeps only UGC-safe markup.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewMarkdown creates a renderer with GitHub-flavoured extensions.
func NewMarkdown() *Markdown {
	return &Markdown{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
	}
}

// Render returns sanitized HTML for src. Empty input yields "".
func (m *Markdown) Render(src string) (string, error) {
	if src == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return m.policy.Sanitize(buf.String()), nil
}

// RenderFields renders each named markdown field. Empty fields are omitted.
func (m *Markdown) RenderFields(fields map[string]string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	for name, src := range fields {
		if src == "" {
			continue
		}
		html, err := m.Render(src)
		if err != nil {
			return nil, err
		}
		out[name] = html
	}
	return out, nil
}
