package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/brewlab/hop-finder/internal/auth"
	"github.com/brewlab/hop-finder/internal/catalog"
	"github.com/brewlab/hop-finder/internal/db"
	"github.com/brewlab/hop-finder/internal/hops"
	"github.com/brewlab/hop-finder/internal/ingest"
	"github.com/brewlab/hop-finder/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	Store       *db.Store
	AuthService *auth.Service
	Echo        *echo.Echo
	DB          *pgxpool.Pool
	Catalog     *catalog.Cache
	Registry    *ingest.Registry

	// CatalogPath is the hops.json file the snapshot reloads from. Empty
	// means /reload is disabled.
	CatalogPath string
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(pool *pgxpool.Pool, cache *catalog.Cache, registry *ingest.Registry, catalogPath string) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:5173"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		DB:          pool,
		Store:       db.NewStore(pool),
		AuthService: auth.NewService(pool),
		Echo:        e,
		Catalog:     cache,
		Registry:    registry,
		CatalogPath: catalogPath,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")

	// Catalog queries run against the in-memory snapshot.
	api.GET("/hops", s.handleListHops)
	api.GET("/hops/search", s.handleSearchHops)
	api.GET("/hops/:id", s.handleGetHop)
	api.GET("/hops/:id/similar", s.handleSimilarHops)
	api.GET("/aromas", s.handleGetAromas)
	api.GET("/sources", s.handleGetSources)
	api.GET("/stats", s.handleGetStats)

	// Admin routes (ingest and catalog reload)
	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/ingest/source/:id", s.handleIngestSource)
	admin.POST("/ingest/all", s.handleIngestAll)
	admin.GET("/ingest/runs", s.handleListIngestRuns)
	admin.POST("/reload", s.handleReloadCatalog)

	// Auth routes
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)

	// Protected routes (saved comparisons)
	comparisons := api.Group("/comparisons")
	comparisons.Use(auth.Middleware)
	comparisons.POST("", s.handleSaveComparison)
	comparisons.GET("", s.handleListComparisons)
	comparisons.DELETE("/:id", s.handleDeleteComparison)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// hopView is a catalog profile decorated with the derived fields clients
// render: the uniqueId, the classification badges and the aroma rankings.
type hopView struct {
	models.HopProfile
	UniqueID       string                   `json:"unique_id"`
	Classification models.HopClassification `json:"classification"`
	TopAromas      []hops.RankedAroma       `json:"top_aromas"`
	BottomAromas   []hops.RankedAroma       `json:"bottom_aromas"`
}

func newHopView(h models.HopProfile) hopView {
	return hopView{
		HopProfile:     h,
		UniqueID:       h.UniqueID(),
		Classification: hops.Classify(h),
		TopAromas:      hops.TopAromas(h, 3),
		BottomAromas:   hops.BottomAromas(h, 3),
	}
}

func (s *Server) handleListHops(c echo.Context) error {
	query, err := parseFilterQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	limit, offset := parsePagination(c)

	snap := s.Catalog.Current()
	matched := hops.FilterAndSort(snap.Profiles, query)
	total := len(matched)

	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}

	views := make([]hopView, 0, len(matched))
	for _, h := range matched {
		views = append(views, newHopView(h))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"hops":   views,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// handleSearchHops is the persistent-store listing: keyword search, source
// and numeric range filters pushed down to SQL. Aroma ranking constraints
// live on /hops instead, the snapshot is the authority for those.
func (s *Server) handleSearchHops(c echo.Context) error {
	limit, offset := parsePagination(c)

	params := db.ListParams{
		Query:   c.QueryParam("q"),
		Source:  c.QueryParam("source"),
		Country: c.QueryParam("country"),
		SortBy:  c.QueryParam("sort"),
		Limit:   limit,
		Offset:  offset,
	}
	params.MinAlpha, params.MaxAlpha = floatParam(c, "alpha_min"), floatParam(c, "alpha_max")
	params.MinOil, params.MaxOil = floatParam(c, "oil_min"), floatParam(c, "oil_max")
	params.MinCohumulone, params.MaxCohumulone = floatParam(c, "coh_min"), floatParam(c, "coh_max")

	result, err := s.Store.ListHops(c.Request().Context(), params)
	if err != nil {
		c.Logger().Errorf("Failed to list hops: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetHop(c echo.Context) error {
	id := c.Param("id")

	snap := s.Catalog.Current()
	if h, ok := snap.Get(id); ok {
		return c.JSON(http.StatusOK, newHopView(h))
	}

	// Fall back to the store for hops ingested after the snapshot was built.
	name, source, ok := splitUniqueID(id)
	if ok {
		h, err := s.Store.GetHop(c.Request().Context(), name, source)
		if err == nil {
			return c.JSON(http.StatusOK, newHopView(*h))
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			c.Logger().Errorf("Failed to get hop %q: %v", id, err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
}

func (s *Server) handleSimilarHops(c echo.Context) error {
	id := c.Param("id")
	name, source, ok := splitUniqueID(id)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid hop ID, expected \"Name (Source)\""})
	}

	limit := 5
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 20 {
		limit = l
	}

	// The distance query silently returns garbage for a missing anchor, so
	// check existence first.
	if _, err := s.Store.GetHop(c.Request().Context(), name, source); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		c.Logger().Errorf("Failed to look up hop %q: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	similar, err := s.Store.SimilarHops(c.Request().Context(), name, source, limit)
	if err != nil {
		c.Logger().Errorf("Failed to find similar hops for %q: %v", id, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}

	views := make([]hopView, 0, len(similar))
	for _, h := range similar {
		views = append(views, newHopView(h))
	}
	return c.JSON(http.StatusOK, views)
}

func (s *Server) handleGetAromas(c echo.Context) error {
	return c.JSON(http.StatusOK, models.AromaCategories)
}

func (s *Server) handleGetSources(c echo.Context) error {
	sources, err := s.Store.GetSources(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, sources)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

// Admin handlers

func (s *Server) handleIngestSource(c echo.Context) error {
	sourceID := c.Param("id")
	pipeline := ingest.NewPipeline(s.DB, s.Registry)

	stats, err := pipeline.IngestSource(c.Request().Context(), sourceID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": fmt.Sprintf("%s ingestion complete", sourceID),
		"stats":   stats,
	})
}

func (s *Server) handleIngestAll(c echo.Context) error {
	pipeline := ingest.NewPipeline(s.DB, s.Registry)

	results, err := pipeline.IngestAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "All registry sources ingestion complete",
		"results": results,
	})
}

func (s *Server) handleListIngestRuns(c echo.Context) error {
	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	runs, err := s.Store.ListIngestRuns(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, runs)
}

func (s *Server) handleReloadCatalog(c echo.Context) error {
	if s.CatalogPath == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No catalog file configured"})
	}

	snap, err := catalog.LoadFile(s.CatalogPath)
	if err != nil {
		c.Logger().Errorf("Catalog reload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	s.Catalog.Replace(snap)
	log.Printf("[api] catalog reloaded from %s: %d hops", s.CatalogPath, len(snap.Profiles))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Catalog reloaded",
		"hops":    len(snap.Profiles),
	})
}

// Auth handlers

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Signup(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	resp, err := s.AuthService.Login(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCreds) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, resp)
}

// Protected handlers

func (s *Server) handleSaveComparison(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req auth.SaveComparisonRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	saved, err := s.AuthService.SaveComparison(c.Request().Context(), userID, req)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyComparison) || errors.Is(err, auth.ErrTooManyHops) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save comparison"})
	}

	return c.JSON(http.StatusCreated, saved)
}

func (s *Server) handleListComparisons(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	comparisons, err := s.AuthService.ListComparisons(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch comparisons"})
	}

	if comparisons == nil {
		comparisons = []auth.SavedComparison{}
	}
	return c.JSON(http.StatusOK, comparisons)
}

func (s *Server) handleDeleteComparison(c echo.Context) error {
	userID, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	comparisonID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid comparison ID"})
	}

	if err := s.AuthService.DeleteComparison(c.Request().Context(), userID, comparisonID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete comparison"})
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		// Check X-Admin-Secret header or Bearer token
		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret() (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Print("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
