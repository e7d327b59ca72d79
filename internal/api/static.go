// VendorHub - Corporate Vendor Management and Procurement
// Copyright 2026 VendorHub Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vendorhub/vendorhub

package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// servePage serves one named file from the static directory.
func (rt *Router) servePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(rt.cfg.Server.StaticDir, name))
	}
}

// serveStaticOrIndex serves static assets for signed-in users. The
// bare path maps to the landing page. Unknown paths fall through to
// the catch-all so confined roles are redirected instead of 404'd.
func (rt *Router) serveStaticOrIndex(w http.ResponseWriter, r *http.Request) {
	cleaned := path.Clean(r.URL.Path)
	if cleaned == "/" || cleaned == "." {
		cleaned = "/index.html"
	}

	full := filepath.Join(rt.cfg.Server.StaticDir, filepath.FromSlash(cleaned))

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		rt.gate.NotFound()(w, r)
		return
	}

	http.ServeFile(w, r, full)
}
