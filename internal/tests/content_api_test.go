// internal/tests/content_api_test.go
package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pagecraft/pagecraft-backend/internal/cache"
	"github.com/pagecraft/pagecraft-backend/internal/config"
	"github.com/pagecraft/pagecraft-backend/internal/database"
	"github.com/pagecraft/pagecraft-backend/internal/handlers"
	"github.com/pagecraft/pagecraft-backend/internal/middleware"
	"github.com/pagecraft/pagecraft-backend/internal/services"
	"github.com/pagecraft/pagecraft-backend/internal/utils"
)

// ContentAPITestSuite exercises the HTTP surface end to end against an
// in-memory database, from login through the public read path.
type ContentAPITestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	token  string
}

func (suite *ContentAPITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:apitest?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(suite.T(), err)
	sqlDB, err := db.DB()
	require.NoError(suite.T(), err)
	sqlDB.SetMaxOpenConns(1)
	suite.db = db

	require.NoError(suite.T(), database.RunMigrations(db))
	require.NoError(suite.T(), database.SeedInitialData(db))

	cfg := &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
		Cache: config.CacheConfig{ShardCount: 4},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	suite.router = buildTestRouter(db, cfg)
	suite.token = suite.login("admin@pagecraft.local", "admin123!@#")
}

// buildTestRouter wires the same handlers as the production router, minus the
// per-IP rate limiters, which would throttle a fast test run.
func buildTestRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	renderCache := cache.NewBlockCache(cfg.Cache.ShardCount)

	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, renderCache)
	sectionService := services.NewSectionService(db, renderCache)
	subsectionService := services.NewSubsectionService(db, renderCache)
	blockService := services.NewBlockService(db, renderCache)
	publicService := services.NewPublicService(db, renderCache)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	sectionHandler := handlers.NewSectionHandler(sectionService)
	subsectionHandler := handlers.NewSubsectionHandler(subsectionService)
	blockHandler := handlers.NewBlockHandler(blockService)
	publicHandler := handlers.NewPublicHandler(publicService)

	r := gin.New()
	r.Use(middleware.I18nMiddleware())

	v1 := r.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)
	auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
	auth.POST("/users", middleware.AuthRequired(), middleware.AdminRequired(), authHandler.CreateUser)

	products := v1.Group("/products", middleware.AuthRequired())
	products.GET("", productHandler.GetProducts)
	products.POST("", productHandler.CreateProduct)
	products.GET("/:id", productHandler.GetProduct)
	products.PUT("/:id", productHandler.UpdateProduct)
	products.DELETE("/:id", productHandler.DeleteProduct)
	products.GET("/:id/sections", sectionHandler.GetSections)
	products.POST("/:id/sections", sectionHandler.CreateSection)
	products.PUT("/:id/sections/reorder", sectionHandler.ReorderSections)

	sections := v1.Group("/sections", middleware.AuthRequired())
	sections.GET("/:id", sectionHandler.GetSection)
	sections.PUT("/:id", sectionHandler.UpdateSection)
	sections.DELETE("/:id", sectionHandler.DeleteSection)
	sections.GET("/:id/subsections", subsectionHandler.GetSubsections)
	sections.POST("/:id/subsections", subsectionHandler.CreateSubsection)
	sections.PUT("/:id/subsections/reorder", subsectionHandler.ReorderSubsections)

	subsections := v1.Group("/subsections", middleware.AuthRequired())
	subsections.GET("/:id", subsectionHandler.GetSubsection)
	subsections.PUT("/:id", subsectionHandler.UpdateSubsection)
	subsections.DELETE("/:id", subsectionHandler.DeleteSubsection)
	subsections.GET("/:id/blocks", blockHandler.GetBlocks)
	subsections.POST("/:id/blocks", blockHandler.CreateBlock)
	subsections.PUT("/:id/blocks/reorder", blockHandler.ReorderBlocks)

	blocks := v1.Group("/blocks", middleware.AuthRequired())
	blocks.GET("/:id", blockHandler.GetBlock)
	blocks.PUT("/:id", blockHandler.UpdateBlock)
	blocks.DELETE("/:id", blockHandler.DeleteBlock)

	public := v1.Group("/public")
	public.GET("/products/:slug/nav", publicHandler.GetNavigation)
	public.GET("/subsections/:id", publicHandler.GetSubsectionContent)
	public.GET("/search", publicHandler.Search)

	return r
}

func (suite *ContentAPITestSuite) login(email, password string) string {
	w := suite.do("POST", "/v1/auth/login", gin.H{"email": email, "password": password}, false)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	body := suite.parse(w)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

// do issues a request against the test router, attaching the admin token when
// authed is true.
func (suite *ContentAPITestSuite) do(method, path string, payload interface{}, authed bool) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		require.NoError(suite.T(), err)
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reqBody)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ContentAPITestSuite) parse(w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

// createProduct is a helper for tests that need a content tree to work on.
func (suite *ContentAPITestSuite) createProduct(name string, published bool) map[string]interface{} {
	w := suite.do("POST", "/v1/products", gin.H{"name": name, "is_published": published}, true)
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	return suite.parse(w)["data"].(map[string]interface{})["product"].(map[string]interface{})
}

func (suite *ContentAPITestSuite) createSection(productID, title string, published bool) map[string]interface{} {
	w := suite.do("POST", fmt.Sprintf("/v1/products/%s/sections", productID), gin.H{"title": title, "is_published": published}, true)
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	return suite.parse(w)["data"].(map[string]interface{})["section"].(map[string]interface{})
}

func (suite *ContentAPITestSuite) createSubsection(sectionID, title string, published bool) map[string]interface{} {
	w := suite.do("POST", fmt.Sprintf("/v1/sections/%s/subsections", sectionID), gin.H{"title": title, "is_published": published}, true)
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	return suite.parse(w)["data"].(map[string]interface{})["subsection"].(map[string]interface{})
}

func (suite *ContentAPITestSuite) createParagraph(subsectionID, text string) map[string]interface{} {
	w := suite.do("POST", fmt.Sprintf("/v1/subsections/%s/blocks", subsectionID), gin.H{"type": "paragraph", "text": text}, true)
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())
	return suite.parse(w)["data"].(map[string]interface{})["block"].(map[string]interface{})
}

func (suite *ContentAPITestSuite) TestLoginRejectsBadCredentials() {
	w := suite.do("POST", "/v1/auth/login", gin.H{"email": "admin@pagecraft.local", "password": "wrong"}, false)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *ContentAPITestSuite) TestMeReturnsAdminProfile() {
	w := suite.do("GET", "/v1/auth/me", nil, true)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	data := suite.parse(w)["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(suite.T(), "admin", user["username"])
	assert.Equal(suite.T(), "admin", user["user_type"])
	_, leaked := user["password_hash"]
	assert.False(suite.T(), leaked)
}

func (suite *ContentAPITestSuite) TestEditorEndpointsRequireAuth() {
	w := suite.do("GET", "/v1/products", nil, false)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do("POST", "/v1/products", gin.H{"name": "x"}, false)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *ContentAPITestSuite) TestProductSlugDeduplication() {
	first := suite.createProduct("Feature Guide", false)
	second := suite.createProduct("Feature Guide", false)

	assert.Equal(suite.T(), "feature-guide", first["slug"])
	assert.Equal(suite.T(), "feature-guide-2", second["slug"])
}

func (suite *ContentAPITestSuite) TestSubsectionSlugDeduplicationWithinSection() {
	product := suite.createProduct("Handbook", false)
	section := suite.createSection(product["id"].(string), "Basics", false)

	first := suite.createSubsection(section["id"].(string), "Getting Started", false)
	second := suite.createSubsection(section["id"].(string), "Getting Started", false)

	assert.Equal(suite.T(), "getting-started", first["slug"])
	assert.Equal(suite.T(), "getting-started-2", second["slug"])
}

func (suite *ContentAPITestSuite) TestBlockDeleteClosesOrderGap() {
	product := suite.createProduct("Manual", false)
	section := suite.createSection(product["id"].(string), "Chapter", false)
	subsection := suite.createSubsection(section["id"].(string), "Page", false)
	subID := subsection["id"].(string)

	one := suite.createParagraph(subID, "one")
	two := suite.createParagraph(subID, "two")
	three := suite.createParagraph(subID, "three")
	_ = one

	w := suite.do("DELETE", "/v1/blocks/"+two["id"].(string), nil, true)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("GET", fmt.Sprintf("/v1/subsections/%s/blocks", subID), nil, true)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	blocks := suite.parse(w)["data"].(map[string]interface{})["blocks"].([]interface{})
	require.Len(suite.T(), blocks, 2)
	last := blocks[1].(map[string]interface{})
	assert.Equal(suite.T(), three["id"], last["id"])
	assert.EqualValues(suite.T(), 2, last["order_index"])

	// The next append reuses position 3
	fourth := suite.createParagraph(subID, "four")
	assert.EqualValues(suite.T(), 3, fourth["order_index"])
}

func (suite *ContentAPITestSuite) TestReorderRejectsForeignIDAndKeepsOrder() {
	product := suite.createProduct("Reorder Target", false)
	pid := product["id"].(string)
	first := suite.createSection(pid, "One", false)
	second := suite.createSection(pid, "Two", false)

	w := suite.do("PUT", fmt.Sprintf("/v1/products/%s/sections/reorder", pid), gin.H{
		"ordered_ids": []string{second["id"].(string), "7b7ad99a-76c8-4bb0-8dcb-1d8a640a0d41"},
	}, true)
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code, w.Body.String())

	w = suite.do("GET", fmt.Sprintf("/v1/products/%s/sections", pid), nil, true)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	sections := suite.parse(w)["data"].(map[string]interface{})["sections"].([]interface{})
	require.Len(suite.T(), sections, 2)
	assert.Equal(suite.T(), first["id"], sections[0].(map[string]interface{})["id"])
	assert.Equal(suite.T(), second["id"], sections[1].(map[string]interface{})["id"])
}

func (suite *ContentAPITestSuite) TestReorderAppliesRotation() {
	product := suite.createProduct("Rotation", false)
	pid := product["id"].(string)
	a := suite.createSection(pid, "A", false)
	b := suite.createSection(pid, "B", false)
	c := suite.createSection(pid, "C", false)

	w := suite.do("PUT", fmt.Sprintf("/v1/products/%s/sections/reorder", pid), gin.H{
		"ordered_ids": []string{c["id"].(string), a["id"].(string), b["id"].(string)},
	}, true)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	w = suite.do("GET", fmt.Sprintf("/v1/products/%s/sections", pid), nil, true)
	sections := suite.parse(w)["data"].(map[string]interface{})["sections"].([]interface{})
	require.Len(suite.T(), sections, 3)
	assert.Equal(suite.T(), c["id"], sections[0].(map[string]interface{})["id"])
	assert.Equal(suite.T(), a["id"], sections[1].(map[string]interface{})["id"])
	assert.Equal(suite.T(), b["id"], sections[2].(map[string]interface{})["id"])
}

func (suite *ContentAPITestSuite) TestBlockTypeImmutableOverHTTP() {
	product := suite.createProduct("Types", false)
	section := suite.createSection(product["id"].(string), "S", false)
	subsection := suite.createSubsection(section["id"].(string), "P", false)
	block := suite.createParagraph(subsection["id"].(string), "text")

	w := suite.do("PUT", "/v1/blocks/"+block["id"].(string), gin.H{
		"type": "heading", "heading_level": 1,
	}, true)
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code, w.Body.String())
}

func (suite *ContentAPITestSuite) TestPublicReadGatedOnPublishChain() {
	product := suite.createProduct("Public Docs", true)
	section := suite.createSection(product["id"].(string), "Guide", true)
	subsection := suite.createSubsection(section["id"].(string), "Intro", true)
	suite.createParagraph(subsection["id"].(string), "welcome")

	subID := subsection["id"].(string)

	// Published chain: visible, and idempotent across repeated reads
	for i := 0; i < 2; i++ {
		w := suite.do("GET", "/v1/public/subsections/"+subID, nil, false)
		require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
		blocks := suite.parse(w)["data"].(map[string]interface{})["blocks"].([]interface{})
		assert.Len(suite.T(), blocks, 1)
	}

	// Navigation shows the published branch
	w := suite.do("GET", "/v1/public/products/"+product["slug"].(string)+"/nav", nil, false)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	nav := suite.parse(w)["data"].(map[string]interface{})["navigation"].(map[string]interface{})
	assert.Len(suite.T(), nav["sections"].([]interface{}), 1)

	// Unpublish the section: the subsection disappears from the public API
	w = suite.do("PUT", "/v1/sections/"+section["id"].(string), gin.H{"is_published": false}, true)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do("GET", "/v1/public/subsections/"+subID, nil, false)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do("GET", "/v1/public/products/"+product["slug"].(string)+"/nav", nil, false)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	nav = suite.parse(w)["data"].(map[string]interface{})["navigation"].(map[string]interface{})
	assert.Empty(suite.T(), nav["sections"])
}

func (suite *ContentAPITestSuite) TestPublicSearch() {
	product := suite.createProduct("Searchable", true)
	section := suite.createSection(product["id"].(string), "Ops", true)
	subsection := suite.createSubsection(section["id"].(string), "Observability Guide", true)
	suite.createParagraph(subsection["id"].(string), "dashboards and alerts")

	w := suite.do("GET", "/v1/public/search?q=observability", nil, false)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	results := suite.parse(w)["data"].(map[string]interface{})["results"].([]interface{})
	require.NotEmpty(suite.T(), results)
	found := results[0].(map[string]interface{})
	assert.Equal(suite.T(), "observability-guide", found["slug"])

	w = suite.do("GET", "/v1/public/search", nil, false)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *ContentAPITestSuite) TestAdminCanProvisionEditor() {
	w := suite.do("POST", "/v1/auth/users", gin.H{
		"username":  "editor_one",
		"email":     "editor@pagecraft.local",
		"password":  "Str0ng!Pass",
		"user_type": "editor",
	}, true)
	require.Equal(suite.T(), http.StatusCreated, w.Code, w.Body.String())

	token := suite.login("editor@pagecraft.local", "Str0ng!Pass")
	assert.NotEmpty(suite.T(), token)
}

func TestContentAPISuite(t *testing.T) {
	suite.Run(t, new(ContentAPITestSuite))
}
