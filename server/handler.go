package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cshum/thumborurl"
	"github.com/cshum/thumborurl/thumborpath"
	"go.uber.org/zap"
)

var (
	ErrNotFound         = thumborpath.NewError("not found", http.StatusNotFound)
	ErrMethodNotAllowed = thumborpath.NewError("method not allowed", http.StatusMethodNotAllowed)
	ErrInvalidJSON      = thumborpath.NewError("invalid json", http.StatusBadRequest)
)

type signResponse struct {
	URL string `json:"url"`
}

type batchResponse struct {
	URLs []string `json:"urls"`
}

type paramsResponse struct {
	Signature string              `json:"signature,omitempty"`
	Valid     bool                `json:"valid"`
	Params    thumborpath.Options `json:"params"`
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	resJSON(w, map[string]any{
		"thumborurl": map[string]any{
			"version": thumborurl.Version,
			"unsafe":  s.App.Unsafe(),
		},
	})
}

func handleOk(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	resJSON(w, GetHealthStats())
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	resError(w, ErrNotFound)
}

// handleSign GET with query parameters or POST with JSON Options
func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	var o thumborpath.Options
	var err error
	if r.Method == http.MethodPost {
		err = s.decodeJSON(w, r, &o)
	} else {
		o, err = optionsFromQuery(r.URL.Query())
	}
	if err != nil {
		resError(w, err)
		return
	}
	url, err := s.App.Generate(o)
	if err != nil {
		s.logError(r, err)
		resError(w, err)
		return
	}
	resJSON(w, signResponse{URL: url})
}

func (s *Server) handleSignBatch(w http.ResponseWriter, r *http.Request) {
	var batch []thumborpath.Options
	if err := s.decodeJSON(w, r, &batch); err != nil {
		resError(w, err)
		return
	}
	urls, err := s.App.GenerateBatch(r.Context(), batch)
	if err != nil {
		s.logError(r, err)
		// keep the failing batch index in the message
		e := thumborpath.WrapError(err)
		e.Message = strings.Replace(err.Error(), e.Error(), e.Message, 1)
		resJSONStatus(w, e.Code, e)
		return
	}
	resJSON(w, batchResponse{URLs: urls})
}

// handleParams echoes the Options parsed from a thumbor path
func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/params")
	o, sig := thumborpath.Parse(path)
	if o.Image == "" {
		resError(w, thumborpath.ErrImageRequired)
		return
	}
	resJSON(w, paramsResponse{
		Signature: sig,
		Valid:     sig != "" && s.App.Verify(path),
		Params:    o,
	})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if s.Debug {
			s.Logger.Debug("decode", zap.Error(err))
		}
		return ErrInvalidJSON
	}
	return nil
}

func (s *Server) logError(r *http.Request, err error) {
	e := thumborpath.WrapError(err)
	if e.Code >= http.StatusInternalServerError {
		s.Logger.Error("sign", zap.String("uri", r.URL.String()), zap.Error(err))
	} else if s.Debug {
		s.Logger.Debug("sign", zap.String("uri", r.URL.String()), zap.Error(err))
	}
}

func isNoopRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && (r.URL.Path == "/healthcheck" || r.URL.Path == "/favicon.ico")
}

func (s *Server) accessLogHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isNoopRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		wr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wr, r)
		s.Logger.Info("access",
			zap.Int("status", wr.status),
			zap.String("method", r.Method),
			zap.String("uri", r.URL.String()),
			zap.String("ip", RealIP(r)),
			zap.String("user_agent", r.UserAgent()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// stripQueryStringHandler redirects to the path without its query,
// except for signPath which takes its options from the query
func stripQueryStringHandler(next http.Handler, signPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" && r.URL.Path != signPath {
			u := *r.URL
			u.RawQuery = ""
			http.Redirect(w, r, u.String(), http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func resJSON(w http.ResponseWriter, v any) {
	resJSONStatus(w, http.StatusOK, v)
}

func resJSONStatus(w http.ResponseWriter, status int, v any) {
	buf, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	_, _ = w.Write(buf)
}

func resError(w http.ResponseWriter, err error) {
	e := thumborpath.WrapError(err)
	if e.Code == 0 {
		e.Code = http.StatusInternalServerError
	}
	resJSONStatus(w, e.Code, e)
}
