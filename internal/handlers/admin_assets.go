// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"toorrii/internal/activity"
	"toorrii/internal/render"
	"toorrii/internal/storage"
)

// assetKinds maps the partner image fields to their form labels.
var assetKinds = map[string]string{
	"logo":     "Logo",
	"banniere": "Banner",
}

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 512

// AssetUpload stores a partner logo or banner and re-renders its form
// field with the public URL, which the partner form then submits.
func (a *Admin) AssetUpload(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	label, ok := assetKinds[kind]
	if !ok {
		http.Error(w, "unknown asset kind", http.StatusBadRequest)
		return
	}
	field := render.AssetField{Kind: kind, Label: label, Enabled: a.assets != nil}

	if a.assets == nil {
		field.Error = "File uploads are not configured."
		a.renderer.Fragment(w, "partner_form", "asset_field", field)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(storage.MaxUploadSize); err != nil {
		field.Error = "The file is too large (max 5 MB)."
		a.renderer.Fragment(w, "partner_form", "asset_field", field)
		return
	}
	field.URL = r.FormValue(kind)

	file, header, err := r.FormFile("file")
	if err != nil {
		field.Error = "Choose a file to upload."
		a.renderer.Fragment(w, "partner_form", "asset_field", field)
		return
	}
	defer file.Close()

	if header.Size > storage.MaxUploadSize {
		field.Error = "The file is too large (max 5 MB)."
		a.renderer.Fragment(w, "partner_form", "asset_field", field)
		return
	}

	contentType, err := detectContentType(file, header.Header.Get("Content-Type"))
	if err != nil {
		slog.Error("read upload failed", "error", err)
		field.Error = "The file could not be read."
		a.renderer.Fragment(w, "partner_form", "asset_field", field)
		return
	}

	key, err := storage.ObjectKey(kind, header.Filename, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			field.Error = "Only PNG, JPEG, WebP, GIF and SVG images are accepted."
		} else {
			field.Error = "The file could not be stored."
		}
		a.renderer.Fragment(w, "partner_form", "asset_field", field)
		return
	}

	if err := a.assets.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("asset upload failed", "error", err, "key", key)
		field.Error = "Upload failed. Please try again."
		a.renderer.Fragment(w, "partner_form", "asset_field", field)
		return
	}

	field.URL = a.assets.FileURL(key)
	a.record(r, activity.ActionUpload, activity.EntityAsset, key, header.Filename)
	slog.Info("asset uploaded", "key", key, "size", header.Size)
	a.renderer.Fragment(w, "partner_form", "asset_field", field)
}

// detectContentType sniffs the first bytes of f and rewinds it. SVG sniffs
// as text, so the declared type is kept when present.
func detectContentType(f io.ReadSeeker, declared string) (string, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	sniffed := http.DetectContentType(buf[:n])
	if declared == "image/svg+xml" && !strings.HasPrefix(sniffed, "image/") {
		return declared, nil
	}
	return sniffed, nil
}
