package webui

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// newAPIProxy forwards same-origin /api requests to the robot API at apiURL.
// The caller strips the /api prefix; the remaining path is appended to
// apiURL's path.
func newAPIProxy(apiURL string) (http.Handler, error) {
	target, err := url.Parse(apiURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid robot API URL %q", apiURL)
	}

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if id := middleware.GetReqID(pr.In.Context()); id != "" && pr.Out.Header.Get(wificonfig.RequestIDHeader) == "" {
				pr.Out.Header.Set(wificonfig.RequestIDHeader, id)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.Warn("Robot API proxy error",
				zap.String("path", r.URL.Path),
				zap.String("target", target.String()),
				zap.Error(err),
			)
			http.Error(w, "robot API unreachable", http.StatusBadGateway)
		},
	}, nil
}
