package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-marketplace-api/internal/constants"
	"github.com/yukikurage/task-marketplace-api/internal/database"
	"github.com/yukikurage/task-marketplace-api/internal/identity"
	"github.com/yukikurage/task-marketplace-api/internal/repository"
	"github.com/yukikurage/task-marketplace-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// apiSuite drives the full router against an in-memory database.
type apiSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (s *apiSuite) SetupTest() {
	var err error
	s.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	s.Require().NoError(err)

	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(database.MigrateDatabase(s.db))

	tokens, err := identity.NewTokenIssuer(identity.Config{Secret: "handler-test-secret-0123", TTL: time.Hour})
	s.Require().NoError(err)

	stores := repository.NewStores(s.db)
	tx := repository.NewTransactor(s.db)
	taskService := services.NewTaskService(stores, tx, nil, nil, zerolog.Nop())

	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.router.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("session-test-secret"))))

	RegisterRoutes(s.router, Handlers{
		Auth:     NewAuthHandler(services.NewAuthService(stores, tx, tokens, zerolog.Nop())),
		Category: NewCategoryHandler(services.NewCatalogService(stores, tx, nil, zerolog.Nop())),
		Task:     NewTaskHandler(taskService),
		Offer:    NewOfferHandler(taskService),
		Progress: NewProgressHandler(taskService),
		Skill:    NewSkillHandler(services.NewSkillService(stores, tx, zerolog.Nop())),
	}, tokens)
}

func (s *apiSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	sqlDB.Close()
}

// request performs an HTTP call against the router. token may be empty.
func (s *apiSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *apiSuite) decode(w *httptest.ResponseRecorder, v interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *apiSuite) login(username string) string {
	w := s.request(http.MethodPost, "/api/auth/login", "", gin.H{"username": username, "password": "password123"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	s.decode(w, &resp)
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

// signupUser registers a task owner and returns its bearer token.
func (s *apiSuite) signupUser(username string) string {
	w := s.request(http.MethodPost, "/api/auth/users/signup", "", gin.H{
		"username":   username,
		"password":   "password123",
		"first_name": "Alex",
		"last_name":  "Owner",
		"email":      username + "@example.com",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return s.login(username)
}

// signupProvider registers an individual provider and returns its bearer token.
func (s *apiSuite) signupProvider(username string) string {
	w := s.request(http.MethodPost, "/api/auth/providers/signup", "", gin.H{
		"username":      username,
		"password":      "password123",
		"provider_type": "individual",
		"email":         username + "@example.com",
		"individual_details": gin.H{
			"first_name": "Sam",
			"last_name":  "Builder",
		},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return s.login(username)
}

func (s *apiSuite) createCategory(token, name string) string {
	w := s.request(http.MethodPost, "/api/categories", token, gin.H{"name": name})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	s.decode(w, &resp)
	return resp.ID
}

func (s *apiSuite) createTask(token, categoryID, name string) map[string]interface{} {
	w := s.request(http.MethodPost, "/api/tasks", token, gin.H{
		"name":                name,
		"description":         "Paint two bedrooms",
		"expected_start_date": time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"expected_hours":      6,
		"hourly_rate":         "45.50",
		"currency":            "AUD",
		"category_id":         categoryID,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task map[string]interface{}
	s.decode(w, &task)
	return task
}

func (s *apiSuite) submitOffer(token, taskID string) string {
	w := s.request(http.MethodPost, "/api/tasks/offer", token, gin.H{
		"task_id": taskID,
		"rate":    40,
		"message": "Available next week",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var offer struct {
		ID string `json:"id"`
	}
	s.decode(w, &offer)
	return offer.ID
}

func (s *apiSuite) taskStatus(token, taskID string) string {
	w := s.request(http.MethodGet, "/api/tasks/"+taskID, token, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task struct {
		Status string `json:"status"`
	}
	s.decode(w, &task)
	return task.Status
}

func errorCode(s *apiSuite, w *httptest.ResponseRecorder) string {
	var resp struct {
		Code string `json:"code"`
	}
	s.decode(w, &resp)
	return resp.Code
}
