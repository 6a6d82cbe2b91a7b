package api

import (
	"net/http"
	"strings"

	"github.com/ignite/openbeacon/internal/config"
	"github.com/ignite/openbeacon/internal/pkg/logger"
	"github.com/ignite/openbeacon/internal/token"
)

// 1x1 transparent GIF, 43 bytes. The graphic control extension marks color
// index 0 transparent so the pixel is invisible on any background.
var pixelGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21,
	0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00,
	0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44,
	0x01, 0x00, 0x3b,
}

func pixelStatusFor(mode string) int {
	if mode == config.ResponseModeDecoy {
		// Some mail providers flag obvious pixel endpoints; answering 404
		// with the image body still renders while looking like a miss.
		return http.StatusNotFound
	}
	return http.StatusOK
}

// HandleOpen serves the tracking pixel. Whatever RecordOpen decides, the
// response is byte-identical: the GIF with anti-caching headers and the one
// configured status. A cacheable or broken response here would either
// suppress later opens or visibly break the email.
func (s *Server) HandleOpen(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get(token.QueryParam)

	outcome := s.svc.RecordOpen(r.Context(), tok)
	logger.Debug("pixel served",
		"outcome", outcome.String(),
		"ip", realIP(r),
		"user_agent", r.UserAgent(),
	)

	s.servePixel(w)
}

func (s *Server) servePixel(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.WriteHeader(s.pixelStatus)
	w.Write(pixelGIF)
}

func realIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
