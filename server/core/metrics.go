package core

import (
	"fmt"
	"net/http"

	"github.com/arl/statsviz"
)

// ServeMetrics exposes the runtime statsviz dashboard at /debug/statsviz/.
// It blocks like http.ListenAndServe.
func ServeMetrics(port int) error {
	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		return fmt.Errorf("register statsviz: %w", err)
	}
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
