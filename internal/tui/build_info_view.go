// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/sticky-chain/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo, author string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("StickyChain"))
	b.WriteString("\n\nVersion: ")
	b.WriteString(valueOrNA(info.Version))
	b.WriteString("\nDate:    ")
	b.WriteString(valueOrNA(info.Date))
	b.WriteString("\nCommit:  ")
	b.WriteString(valueOrNA(info.Commit))
	b.WriteString("\nAuthor:  ")
	b.WriteString(valueOrNA(author))
	b.WriteString("\n\nesc close")

	return overlayBoxStyle.Render(b.String())
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
