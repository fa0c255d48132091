package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/lox/weathercompare/internal/imagegen"
)

// handleOGImage serves the preview image for the page the same query renders.
// Images are cached by the values drawn on them.
func (s *Server) handleOGImage(w http.ResponseWriter, r *http.Request) {
	p, err := s.openView(r, loadIntent)
	if err != nil {
		http.Error(w, "weather data unavailable", http.StatusBadGateway)
		return
	}

	data := imagegen.FromView(p.View())
	key := data.Key()
	if png, ok := s.ogCache.Get(key); ok {
		servePNG(w, png)
		return
	}

	png, err := imagegen.GenerateOGImage(data)
	if err != nil {
		log.Printf("api: OG image: %v", err)
		http.Error(w, "image generation failed", http.StatusInternalServerError)
		return
	}
	s.ogCache.Set(key, png)
	servePNG(w, png)
}

func servePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=600")
	w.Write(data)
}
