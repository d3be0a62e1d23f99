// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/olegiv/pathway-go/internal/model"
)

// TicketSize is the edge length of a ticket QR code in pixels.
const TicketSize = 320

// TicketPayload is the text encoded in a registration ticket. Door staff
// scan it and look the registration up by id.
func TicketPayload(baseURL string, reg model.EventRegistration) string {
	return fmt.Sprintf("%s/admin/api/registrations/%s", strings.TrimRight(baseURL, "/"), reg.ID)
}

// TicketPNG renders the registration ticket as a PNG QR code.
func TicketPNG(baseURL string, reg model.EventRegistration) ([]byte, error) {
	png, err := qrcode.Encode(TicketPayload(baseURL, reg), qrcode.Medium, TicketSize)
	if err != nil {
		return nil, fmt.Errorf("encoding ticket: %w", err)
	}
	return png, nil
}
