// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusTeapot, map[string]string{"k": "v"})

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["k"] != "v" {
		t.Errorf("body = %v", body)
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	jsonError(w, http.StatusBadRequest, "nope")

	var body map[string]string
	json.NewDecoder(w.Body).Decode(&body)
	if body["error"] != "nope" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Topic string `json:"topic"`
	}

	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"topic":"x"}`))
	if err := decodeJSON(r, &dst); err != nil {
		t.Fatalf("decode valid body: %v", err)
	}
	if dst.Topic != "x" {
		t.Errorf("topic = %q", dst.Topic)
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`{"bogus":true}`))
	if err := decodeJSON(r, &dst); err == nil {
		t.Error("expected error for unknown field")
	}

	r = httptest.NewRequest("POST", "/", strings.NewReader(`not json`))
	if err := decodeJSON(r, &dst); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestGenerateRequestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		req     generateRequest
		wantErr bool
	}{
		{"defaults", generateRequest{Topic: "coffee"}, false},
		{"whitespace topic", generateRequest{Topic: "   "}, true},
		{"long topic", generateRequest{Topic: strings.Repeat("x", 501)}, true},
		{"bad tone", generateRequest{Topic: "coffee", Tone: "sarcastic"}, true},
		{"bad style", generateRequest{Topic: "coffee", ImageStyle: "cubist"}, true},
		{"bad provider", generateRequest{Topic: "coffee", ImageProvider: "midjourney"}, true},
		{"full valid", generateRequest{Topic: "coffee", Tone: "corporate", ImageStyle: "anime", ImageProvider: "nano-banana"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.req.normalize()
			if (msg != "") != tt.wantErr {
				t.Errorf("normalize() = %q, wantErr %v", msg, tt.wantErr)
			}
		})
	}

	// Defaults are filled in.
	req := generateRequest{Topic: "  spaced   out  topic "}
	if msg := req.normalize(); msg != "" {
		t.Fatalf("normalize: %s", msg)
	}
	if req.Topic != "spaced out topic" {
		t.Errorf("topic = %q, want collapsed whitespace", req.Topic)
	}
	if req.Tone != "casual" || req.ImageStyle != "realistic" || req.ImageProvider != "dalle" {
		t.Errorf("defaults = %q %q %q", req.Tone, req.ImageStyle, req.ImageProvider)
	}
}
