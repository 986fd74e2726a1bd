package httpapi

import (
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swaggest/swgui/v5emb"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
func NewRouter(app *App) http.Handler {
	r := gin.New()
	r.Use(WithRequestID(), WithLogging(), withRecovery())

	r.GET("/healthz", app.healthHandler)
	r.GET("/debug/metrics", app.metricsHandler)
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))
	r.GET("/openapi.yaml", app.openapiHandler)
	if app.Doc != nil {
		r.GET("/openapi.json", app.openapiJSONHandler)
	}
	swUI := v5emb.New("Inventory Service", "/openapi.yaml", "/docs/")
	r.GET("/docs/*any", gin.WrapH(swUI))

	authed := r.Group("/", app.RequireUser())
	authed.GET("/me", app.meHandler)
	authed.GET("/products", app.listProductsHandler)
	authed.POST("/products", app.createProductHandler)
	authed.GET("/products/:id", app.getProductHandler)
	authed.DELETE("/products/:id", app.deleteProductHandler)
	authed.POST("/products/delete", app.deleteProductFormHandler)
	authed.GET("/dashboard", app.dashboardHandler)

	r.NoRoute(func(c *gin.Context) {
		WriteJSONError(c, http.StatusNotFound, "not_found", "")
	})
	return r
}
