package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/catalog"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/internal/kg"
	"github.com/Al-Mansori/Edrak-Knowledge-Explorer/backend/pkg/config"
	"go.uber.org/zap"
)

// setupRouter wires every endpoint. The kg endpoints take an optional
// `file` query parameter selecting a per-document graph; without it they
// serve the global aggregate graph.
func setupRouter(cfg *config.Config, svc *kg.Service, cat *catalog.Catalog, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "documents": cat.Len()})
	})

	// Document catalog
	router.GET("/documents", func(c *gin.Context) {
		q := c.Query("q")
		skip, ok := intQuery(c, "skip", 0, 0, -1)
		if !ok {
			return
		}
		limit, ok := intQuery(c, "limit", 50, 1, 200)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, cat.List(q, skip, limit))
	})

	router.GET("/documents/:id", func(c *gin.Context) {
		doc, ok := cat.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	// File downloads
	serveFile := func(dir string) gin.HandlerFunc {
		return func(c *gin.Context) {
			path, err := catalog.SafeJoin(dir, c.Param("filename"))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.File(path)
		}
	}
	router.GET("/files/pdf/:filename", serveFile(cfg.PDFDir))
	router.GET("/files/content-list/:filename", serveFile(cfg.ContentListDir))
	router.GET("/files/summary/:filename", serveFile(cfg.SummaryDir))

	// Knowledge graph queries
	kgGroup := router.Group("/kg")
	{
		kgGroup.GET("/list", func(c *gin.Context) {
			c.JSON(http.StatusOK, svc.List())
		})

		kgGroup.GET("/node-link", func(c *gin.Context) {
			minDegree, ok := intQuery(c, "min_degree", 0, 0, -1)
			if !ok {
				return
			}
			maxNodes, ok := intQuery(c, "max_nodes", 2000, 1, cfg.MaxNodesCap)
			if !ok {
				return
			}
			view, err := svc.NodeLink(c.Query("file"), kg.FilterSpec{
				Query:     c.Query("query"),
				MinDegree: minDegree,
				MaxNodes:  maxNodes,
			})
			if err != nil {
				respondEngineError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, view)
		})

		kgGroup.GET("/neighbors", func(c *gin.Context) {
			center := c.Query("center")
			if center == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "center is required"})
				return
			}
			depth, ok := intQuery(c, "depth", 1, 1, 4)
			if !ok {
				return
			}
			maxNodes, ok := intQuery(c, "max_nodes", 500, 1, cfg.EgoMaxNodesCap)
			if !ok {
				return
			}
			view, err := svc.Neighbors(c.Query("file"), kg.EgoSpec{
				Center:   center,
				Depth:    depth,
				MaxNodes: maxNodes,
			})
			if err != nil {
				respondEngineError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, view)
		})

		kgGroup.GET("/triplets", func(c *gin.Context) {
			skip, ok := intQuery(c, "skip", 0, 0, -1)
			if !ok {
				return
			}
			limit, ok := intQuery(c, "limit", 200, 1, cfg.TripletLimitCap)
			if !ok {
				return
			}
			page, err := svc.Triplets(c.Query("file"), skip, limit)
			if err != nil {
				respondEngineError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, page)
		})

		kgGroup.GET("/stats", func(c *gin.Context) {
			stats, err := svc.Stats(c.Query("file"))
			if err != nil {
				respondEngineError(c, log, err)
				return
			}
			c.JSON(http.StatusOK, stats)
		})
	}

	return router
}

// intQuery parses an integer query parameter with a default and inclusive
// bounds (max < 0 means unbounded). On a violation it writes a 400
// response and returns ok=false.
func intQuery(c *gin.Context, name string, def, min, max int) (int, bool) {
	raw := c.Query(name)
	v := def
	if raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
			return 0, false
		}
		v = parsed
	}
	if v < min || (max >= 0 && v > max) {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " out of range"})
		return 0, false
	}
	return v, true
}

// respondEngineError maps engine errors to HTTP statuses: NotFound -> 404,
// InvalidArgument -> 400, anything else -> 500.
func respondEngineError(c *gin.Context, log *zap.Logger, err error) {
	var notFound kg.ErrNotFound
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var invalid kg.ErrInvalidArgument
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Error("Graph query failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute graph query"})
}
