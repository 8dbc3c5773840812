package http

import (
	"bytes"
	"net/http"

	"saldo/internal/export"
	"saldo/internal/log"
)

// handleExport downloads the export snapshot as a JSON attachment. When a
// publisher is configured the same snapshot is published.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exporter == nil {
		ErrorResponse(http.StatusNotFound, "export is not configured").Write(w)
		return
	}

	var buf bytes.Buffer
	snap, err := s.exporter.Export(r.Context(), &buf)
	if err != nil {
		s.events.LogError(r.Context(), "Export failed", err, log.ComponentExport, log.OpExport,
			log.NewFields().WithErrorType(log.ErrorTypeInternal))
		InternalServerError("export failed").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(snap.ExportDate)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
