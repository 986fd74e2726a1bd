package httpapi

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/fairyhunter13/inventory-service/internal/auth"
	"github.com/fairyhunter13/inventory-service/internal/config"
	"github.com/fairyhunter13/inventory-service/internal/dashboard"
	httpopenapi "github.com/fairyhunter13/inventory-service/internal/http/openapi"
	"github.com/fairyhunter13/inventory-service/internal/inventory"
	"github.com/fairyhunter13/inventory-service/internal/model"
	"github.com/fairyhunter13/inventory-service/internal/obs"
)

type App struct {
	Cfg     config.Config
	Service *inventory.Service
	Auth    auth.Provider
	Doc     *openapi3.T
	closing atomic.Bool
	started time.Time
	now     func() time.Time
}

func NewApp(cfg config.Config, svc *inventory.Service, provider auth.Provider, doc *openapi3.T) *App {
	return &App{Cfg: cfg, Service: svc, Auth: provider, Doc: doc, started: time.Now(), now: time.Now}
}

// StartShutdown makes mutations fail fast while in-flight requests drain.
func (a *App) StartShutdown() {
	a.closing.Store(true)
}

func (a *App) dashboardOptions() dashboard.Options {
	return dashboard.Options{
		LowStockDefault: a.Cfg.LowStockDefault,
		TrendWeeks:      a.Cfg.TrendWeeks,
		MonthlyMonths:   a.Cfg.MonthlyMonths,
		RecentLimit:     a.Cfg.RecentLimit,
	}
}

func (a *App) refuseWhileClosing(c *gin.Context) bool {
	if a.closing.Load() {
		WriteJSONError(c, http.StatusServiceUnavailable, "shutting_down", "")
		return true
	}
	return false
}

func (a *App) createProductHandler(c *gin.Context) {
	if a.refuseWhileClosing(c) {
		return
	}
	form := isForm(c.Request)
	var raw model.RawFields
	switch {
	case form:
		if err := c.ShouldBindWith(&raw, binding.Form); err != nil {
			WriteJSONError(c, http.StatusBadRequest, "invalid_form", err.Error())
			return
		}
		if raw.LowStockAt == "" {
			raw.LowStockAt = model.FormValue(c.PostForm("lowStockAt"))
		}
	case isJSON(c.Request):
		if err := c.ShouldBindJSON(&raw); err != nil {
			WriteJSONError(c, http.StatusBadRequest, "invalid_json", err.Error())
			return
		}
	default:
		WriteJSONError(c, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json or a form")
		return
	}

	p, err := a.Service.Create(c.Request.Context(), principalFrom(c).ID, raw)
	if err != nil {
		writeResult(c, err)
		return
	}
	if form {
		c.Redirect(http.StatusSeeOther, "/products")
		return
	}
	c.Header("Location", "/products/"+p.ID)
	c.JSON(http.StatusCreated, inventory.Created(p))
}

func (a *App) deleteProductHandler(c *gin.Context) {
	if a.refuseWhileClosing(c) {
		return
	}
	err := a.Service.Delete(c.Request.Context(), principalFrom(c).ID, c.Param("id"))
	if err != nil {
		writeResult(c, err)
		return
	}
	c.JSON(http.StatusOK, inventory.ResultFromError(nil))
}

func (a *App) deleteProductFormHandler(c *gin.Context) {
	if a.refuseWhileClosing(c) {
		return
	}
	err := a.Service.Delete(c.Request.Context(), principalFrom(c).ID, c.PostForm("id"))
	if err != nil {
		writeResult(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/products")
}

func (a *App) listProductsHandler(c *gin.Context) {
	ps, err := a.Service.List(c.Request.Context(), principalFrom(c).ID)
	if err != nil {
		writeResult(c, err)
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	c.JSON(http.StatusOK, inventory.Paginate(ps, c.Query("q"), page, a.Cfg.PageSize))
}

func (a *App) getProductHandler(c *gin.Context) {
	p, err := a.Service.Get(c.Request.Context(), principalFrom(c).ID, c.Param("id"))
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			WriteJSONError(c, http.StatusNotFound, "not_found", "")
			return
		}
		writeResult(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (a *App) dashboardHandler(c *gin.Context) {
	ps, err := a.Service.List(c.Request.Context(), principalFrom(c).ID)
	if err != nil {
		writeResult(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.Summarize(ps, a.now(), a.dashboardOptions()))
}

type meResponse struct {
	auth.Principal
	ProductCount int64 `json:"product_count"`
}

func (a *App) meHandler(c *gin.Context) {
	p := principalFrom(c)
	n, err := a.Service.Count(c.Request.Context(), p.ID)
	if err != nil {
		writeResult(c, err)
		return
	}
	c.JSON(http.StatusOK, meResponse{Principal: p, ProductCount: n})
}

func (a *App) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *App) metricsHandler(c *gin.Context) {
	m := gin.H{"uptime_sec": time.Since(a.started).Seconds()}
	for k, v := range obs.Snapshot() {
		m[k] = v
	}
	c.JSON(http.StatusOK, m)
}

func (a *App) openapiHandler(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", httpopenapi.YAML)
}

func (a *App) openapiJSONHandler(c *gin.Context) {
	c.JSON(http.StatusOK, a.Doc)
}
