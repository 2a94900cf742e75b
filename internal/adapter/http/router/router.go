package router

import "net/http"

type AccountRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

type InternalQueryRouteRegistrar interface {
	RegisterRoutes(mux *http.ServeMux)
}

func New(
	accountController AccountRouteRegistrar,
	internalQueryController InternalQueryRouteRegistrar,
) *http.ServeMux {
	mux := http.NewServeMux()
	registerSwaggerRoutes(mux)

	if accountController != nil {
		accountController.RegisterRoutes(mux)
	}
	if internalQueryController != nil {
		internalQueryController.RegisterRoutes(mux)
	}

	return mux
}
