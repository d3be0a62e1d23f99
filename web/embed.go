// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the built single-page front end.
package web

import "embed"

// Dist holds the front-end build output. index.html is the shell served
// for every client-side route.
//
//go:embed all:dist
var Dist embed.FS
