// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/pathway-go/internal/model"
)

func TestTicketPNG(t *testing.T) {
	reg := model.EventRegistration{ID: "2f1c7f9e-8c55-4c8f-9a1a-0a4b1c2d3e4f"}

	assert.Equal(t, "https://pathway.test/admin/api/registrations/"+reg.ID,
		TicketPayload("https://pathway.test/", reg))

	data, err := TicketPNG("https://pathway.test", reg)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, TicketSize, img.Bounds().Dx())
}
