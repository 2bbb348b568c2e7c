//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// apiDoc is served when no generated docs package registered itself.
// `swag init -g cmd/mlmodeld/docs.go` produces the full document.
type apiDoc struct{}

func (apiDoc) ReadDoc() string {
	return `{
  "swagger": "2.0",
  "info": {"title": "mlmodeld API", "version": "1.0"},
  "basePath": "/",
  "paths": {
    "/models": {"get": {"tags": ["models"]}, "post": {"tags": ["models"]}},
    "/models/{name}": {"get": {"tags": ["models"]}, "delete": {"tags": ["models"]}},
    "/models/{name}/rows": {"post": {"tags": ["models"]}},
    "/models/{name}/train": {"post": {"tags": ["models"]}},
    "/models/{name}/predict": {"post": {"tags": ["models"]}},
    "/frameworks": {"get": {"tags": ["frameworks"]}}
  }
}`
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	if _, err := swag.ReadDoc(); err != nil {
		swag.Register(swag.Name, apiDoc{})
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
