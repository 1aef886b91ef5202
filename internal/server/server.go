package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adforge/adforge/internal/config"
	"github.com/adforge/adforge/internal/core"
	"github.com/adforge/adforge/internal/core/lineage"
	"github.com/adforge/adforge/internal/core/model"
	"github.com/adforge/adforge/internal/core/view"
	"github.com/adforge/adforge/internal/gen"
	"github.com/adforge/adforge/internal/logger"
)

type Server struct {
	session *core.Session
	cfg     *config.Config
	log     *logger.Logger
}

func New(session *core.Session, cfg *config.Config, log *logger.Logger) *Server {
	return &Server{session: session, cfg: cfg, log: log}
}

func (s *Server) SetupRouter() *gin.Engine {
	if s.cfg.Server.Mode == "prod" || s.cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(s.cfg.Server.AllowOrigins) == 1 && s.cfg.Server.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.cfg.Server.AllowOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/session", s.startSession)
	r.POST("/session/reset", s.resetSession)
	r.GET("/session/error", s.sessionError)

	r.GET("/tree", s.tree)
	r.GET("/layout", s.layout)
	r.POST("/nodes/:id/toggle", s.toggleNode)
	r.DELETE("/nodes/:id", s.deleteNode)

	r.POST("/concepts/:id/evolve", s.evolve)
	r.POST("/concepts/:id/pivot", s.pivot)
	r.POST("/concepts/:id/remix/suggestions", s.remixSuggestions)
	r.POST("/concepts/:id/remix", s.executeRemix)
	r.POST("/concepts/:id/status", s.setStatus)
	r.POST("/concepts/images", s.generateImages)

	r.POST("/workflows/quick-scale", s.quickScale)
	r.POST("/workflows/ugc-pack", s.ugcPack)
	r.POST("/workflows/campaign", s.campaign)

	r.GET("/concepts", s.concepts)
	r.GET("/concepts/grouped", s.groupedConcepts)
	r.GET("/export", s.export)

	return r
}

// fail maps domain errors onto HTTP statuses and a single-message body.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, core.ErrConfirmRequired):
		status = http.StatusPreconditionRequired
	case errors.Is(err, core.ErrNoSession), errors.Is(err, lineage.ErrIncompleteLineage):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, gen.ErrNoVision), errors.Is(err, gen.ErrNoImages):
		status = http.StatusNotImplemented
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

type startSessionRequest struct {
	Image       string `json:"image" binding:"required"`
	MimeType    string `json:"mime_type"`
	Caption     string `json:"caption"`
	ProductInfo string `json:"product_info"`
	OfferInfo   string `json:"offer_info"`
}

func (s *Server) startSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	err := s.session.Start(c.Request.Context(), gen.BlueprintInput{
		ImageB64:    req.Image,
		ImageMIME:   req.MimeType,
		Caption:     req.Caption,
		ProductInfo: req.ProductInfo,
		OfferInfo:   req.OfferInfo,
	})
	if err != nil {
		fail(c, err)
		return
	}
	bp, _ := s.session.Blueprint()
	c.JSON(http.StatusCreated, gin.H{"blueprint": bp, "nodes": s.session.Tree()})
}

func (s *Server) resetSession(c *gin.Context) {
	s.session.Reset()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (s *Server) sessionError(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"error": s.session.LastError(), "busy": s.session.Busy()})
}

func (s *Server) tree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"nodes": s.session.Tree()})
}

func (s *Server) layout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"positions": s.session.Layout()})
}

func (s *Server) toggleNode(c *gin.Context) {
	if err := s.session.ToggleNode(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": s.session.Tree()})
}

func (s *Server) deleteNode(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	if err := s.session.DeleteSubtree(c.Param("id"), confirmed); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": s.session.Tree()})
}

type evolveRequest struct {
	Axis     gen.EvolveAxis  `json:"axis" binding:"required"`
	NewValue json.RawMessage `json:"new_value" binding:"required"`
}

func (s *Server) evolve(c *gin.Context) {
	var req evolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	node, err := s.session.Evolve(c.Request.Context(), c.Param("id"), req.Axis, req.NewValue)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"node": node})
}

type pivotRequest struct {
	Pivot  gen.PivotType   `json:"pivot" binding:"required"`
	Config gen.PivotConfig `json:"config"`
}

func (s *Server) pivot(c *gin.Context) {
	var req pivotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	node, err := s.session.QuickPivot(c.Request.Context(), c.Param("id"), req.Pivot, req.Config)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"node": node})
}

type remixSuggestionsRequest struct {
	Component model.DnaComponent `json:"component" binding:"required"`
}

func (s *Server) remixSuggestions(c *gin.Context) {
	var req remixSuggestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	suggestions, err := s.session.RequestRemixSuggestions(c.Request.Context(), c.Param("id"), req.Component)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

func (s *Server) executeRemix(c *gin.Context) {
	var suggestion model.Suggestion
	if err := c.ShouldBindJSON(&suggestion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	node, err := s.session.ExecuteRemix(c.Request.Context(), c.Param("id"), suggestion)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"node": node})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) setStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := s.session.SetConceptStatus(c.Param("id"), req.Status); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type imagesRequest struct {
	NodeIDs          []string `json:"node_ids" binding:"required"`
	AllowExploration bool     `json:"allow_exploration"`
}

func (s *Server) generateImages(c *gin.Context) {
	var req imagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := s.session.GenerateImages(c.Request.Context(), req.NodeIDs, req.AllowExploration); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nodes": s.session.Tree()})
}

type quickScaleRequest struct {
	Variations int `json:"variations"`
}

func (s *Server) quickScale(c *gin.Context) {
	var req quickScaleRequest
	_ = c.ShouldBindJSON(&req)
	if err := s.session.QuickScale(c.Request.Context(), req.Variations); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"nodes": s.session.Tree()})
}

func (s *Server) ugcPack(c *gin.Context) {
	if err := s.session.UGCDiversityPack(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"nodes": s.session.Tree()})
}

func (s *Server) campaign(c *gin.Context) {
	if err := s.session.OneClickCampaign(c.Request.Context()); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"nodes": s.session.Tree()})
}

func filterFromQuery(c *gin.Context) view.Filter {
	return view.Filter{
		CampaignTag:        c.Query("campaign"),
		PersonaDescription: c.Query("persona"),
		Format:             c.Query("format"),
		TriggerName:        c.Query("trigger"),
		AngleNodeID:        c.Query("angle_node"),
	}
}

func (s *Server) concepts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"concepts": s.session.Concepts(filterFromQuery(c))})
}

func (s *Server) groupedConcepts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"groups": s.session.GroupedConcepts(filterFromQuery(c))})
}

// export hands the flat concept list to whatever archive tooling sits
// downstream.
func (s *Server) export(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"concepts": s.session.Concepts(view.Filter{})})
}
