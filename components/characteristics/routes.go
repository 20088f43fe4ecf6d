package characteristics

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is satisfied by *http.ServeMux and chi.Router.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts the handler under basePath and returns the pattern.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("characteristics: missing mux")
	}
	opts := NewOptions(fns...)
	pattern := mountPath(basePath, opts.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}

// MountPath returns the full route the handler is served at.
func MountPath(basePath string, fns ...OptionFn) string {
	return mountPath(basePath, NewOptions(fns...).RoutePath)
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = "/" + strings.TrimLeft(strings.TrimSpace(routePath), "/")

	if basePath == "" || basePath == "/" {
		return routePath
	}
	return "/" + strings.Trim(basePath, "/") + routePath
}
