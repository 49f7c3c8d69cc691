package server

import (
	"net/http"
	"sort"
	"strings"
)

type Middleware func(http.Handler) http.Handler

func route(middlewares ...Middleware) Middleware {
	return func(handler http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// methods dispatches by request method, 405 for methods not listed
type methods map[string]http.HandlerFunc

func (m methods) serve(w http.ResponseWriter, r *http.Request) {
	if handler, ok := m[r.Method]; ok {
		handler(w, r)
		return
	}
	allow := make([]string, 0, len(m))
	for method := range m {
		allow = append(allow, method)
	}
	sort.Strings(allow)
	w.Header().Set("Allow", strings.Join(allow, ", "))
	resError(w, ErrMethodNotAllowed)
}

func handlePath(path string, m methods) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				next.ServeHTTP(w, r)
				return
			}
			m.serve(w, r)
		})
	}
}

func handlePrefix(prefix string, m methods) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
			m.serve(w, r)
		})
	}
}

func (s *Server) routes() http.Handler {
	return route(
		handlePath("", methods{http.MethodGet: s.handleDefault}),
		handlePath("/", methods{http.MethodGet: s.handleDefault}),
		handlePath("/favicon.ico", methods{http.MethodGet: handleOk}),
		handlePath("/healthcheck", methods{http.MethodGet: handleOk}),
		handlePath("/health", methods{http.MethodGet: handleHealth}),
		handlePath("/sign", methods{
			http.MethodGet:  s.handleSign,
			http.MethodPost: s.handleSign,
		}),
		handlePath("/sign/batch", methods{http.MethodPost: s.handleSignBatch}),
		handlePrefix("/params/", methods{http.MethodGet: s.handleParams}),
	)(http.HandlerFunc(handleNotFound))
}
