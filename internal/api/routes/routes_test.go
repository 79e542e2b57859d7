package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"github.com/yoockh/devconnect/internal/api/handlers"
	"github.com/yoockh/devconnect/internal/api/middleware"
	"github.com/yoockh/devconnect/internal/api/routes"
	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/models"
	"github.com/yoockh/devconnect/internal/services"
	"github.com/yoockh/devconnect/internal/testsupport"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type APITestSuite struct {
	suite.Suite
	router   *gin.Engine
	profiles *testsupport.ProfileStore
	users    *testsupport.UserStore
	tokens   *auth.TokenService

	janeToken  string
	adminToken string
}

func (s *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	jane := models.User{ID: "u1", Name: "Jane", Email: "jane@example.com", Role: models.RoleUser}
	admin := models.User{ID: "admin", Name: "Root", Email: "root@example.com", Role: models.RoleAdmin}

	s.profiles = testsupport.NewProfileStore()
	s.users = testsupport.NewUserStore(jane, admin)
	s.tokens = auth.NewTokenService("test-secret", "devconnect", time.Hour)

	profileSvc := services.NewProfileService(s.profiles, s.users,
		services.WithCache(testsupport.NewCache(), time.Minute),
		services.WithEvents(&testsupport.Events{}),
		services.WithLogger(log),
	)
	userSvc := services.NewUserService(s.users, s.tokens)
	avatarSvc := services.NewAvatarService(s.users, nil, profileSvc)

	s.router = gin.New()
	s.router.Use(middleware.RequestLogger(log))
	routes.RegisterRoutes(s.router, routes.Deps{
		Profile: handlers.NewProfileHandler(profileSvc),
		User:    handlers.NewUserHandler(userSvc, avatarSvc),
		Tokens:  s.tokens,
	})

	var err error
	s.janeToken, err = s.tokens.Issue(&jane)
	s.Require().NoError(err)
	s.adminToken, err = s.tokens.Issue(&admin)
	s.Require().NoError(err)
}

func (s *APITestSuite) do(method, path string, body any, token string) (*httptest.ResponseRecorder, map[string]any) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *APITestSuite) TestPublicProbes() {
	w, body := s.do(http.MethodGet, "/api/profile/test", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.Equal("profile works", body["msg"])

	w, _ = s.do(http.MethodGet, "/ping", nil, "")
	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get(middleware.HeaderRequestID))
}

func (s *APITestSuite) TestRegisterLoginCurrent() {
	w, body := s.do(http.MethodPost, "/api/users/register", gin.H{
		"name": "John", "email": "john@example.com", "password": "secret1", "password2": "secret1",
	}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal("john@example.com", body["email"])
	s.NotContains(body, "password_hash")

	w, body = s.do(http.MethodPost, "/api/users/login", gin.H{
		"email": "john@example.com", "password": "secret1",
	}, "")
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal(true, body["success"])
	tok, _ := body["token"].(string)
	s.Require().Greater(len(tok), len("Bearer "))

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	req.Header.Set("Authorization", tok)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "john@example.com")
}

func (s *APITestSuite) TestRegisterValidation() {
	w, body := s.do(http.MethodPost, "/api/users/register", gin.H{"email": "bad"}, "")
	s.Equal(http.StatusBadRequest, w.Code)
	errs, _ := body["errors"].(map[string]any)
	s.Contains(errs, "email")
	s.Contains(errs, "password")
}

func (s *APITestSuite) TestProfileRequiresToken() {
	w, _ := s.do(http.MethodPost, "/api/profile", gin.H{"handle": "jane"}, "")
	s.Equal(http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/profile", nil, "garbage")
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *APITestSuite) TestUpsertAndRead() {
	w, body := s.do(http.MethodPost, "/api/profile", gin.H{
		"handle": "jane", "status": "Developer", "skills": "go, sql", "twitter": "https://twitter.com/jane",
	}, s.janeToken)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.Equal([]any{"go", "sql"}, body["skills"])

	w, body = s.do(http.MethodGet, "/api/profile/handle/jane", nil, "")
	s.Require().Equal(http.StatusOK, w.Code)
	owner, _ := body["user"].(map[string]any)
	s.Equal("Jane", owner["name"])
	social, _ := body["social"].(map[string]any)
	s.Equal("https://twitter.com/jane", social["twitter"])

	w, _ = s.do(http.MethodGet, "/api/profile/user/u1", nil, "")
	s.Equal(http.StatusOK, w.Code)

	w, _ = s.do(http.MethodGet, "/api/profile", nil, s.janeToken)
	s.Equal(http.StatusOK, w.Code)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile/all", nil))
	s.Equal(http.StatusOK, rec.Code)
	var all []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &all))
	s.Len(all, 1)
}

func (s *APITestSuite) TestUpsertRejectsBadInput() {
	w, body := s.do(http.MethodPost, "/api/profile", gin.H{"website": "not a url"}, s.janeToken)
	s.Equal(http.StatusBadRequest, w.Code)
	errs, _ := body["errors"].(map[string]any)
	s.Contains(errs, "website")
	s.Equal(0, s.profiles.Len())
}

func (s *APITestSuite) TestUpsertDuplicateHandle() {
	w, _ := s.do(http.MethodPost, "/api/profile", gin.H{"handle": "taken"}, s.adminToken)
	s.Require().Equal(http.StatusOK, w.Code)

	w, body := s.do(http.MethodPost, "/api/profile", gin.H{"handle": "taken"}, s.janeToken)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(1, s.profiles.Len())
	errs, _ := body["errors"].(map[string]any)
	s.Equal([]any{"That handle already exists"}, errs["handle"])
}

func (s *APITestSuite) TestMissingProfile() {
	w, body := s.do(http.MethodGet, "/api/profile/handle/nobody", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
	errs, _ := body["errors"].(map[string]any)
	s.Contains(errs, "noprofile")

	w, _ = s.do(http.MethodGet, "/api/profile/all", nil, "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *APITestSuite) TestExperienceLifecycle() {
	w, _ := s.do(http.MethodPost, "/api/profile", gin.H{"handle": "jane"}, s.janeToken)
	s.Require().Equal(http.StatusOK, w.Code)

	w, body := s.do(http.MethodPost, "/api/profile/experience", gin.H{
		"title": "Dev", "company": "Acme", "from": "2020-01-01", "current": true,
	}, s.janeToken)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	exp, _ := body["experience"].([]any)
	s.Require().Len(exp, 1)
	id, _ := exp[0].(map[string]any)["id"].(string)
	s.Require().NotEmpty(id)

	w, _ = s.do(http.MethodDelete, "/api/profile/experience/"+primitive.NewObjectID().Hex(), nil, s.janeToken)
	s.Equal(http.StatusNotFound, w.Code)

	w, body = s.do(http.MethodDelete, "/api/profile/experience/"+id, nil, s.janeToken)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Empty(body["experience"])
}

func (s *APITestSuite) TestEducationValidation() {
	w, body := s.do(http.MethodPost, "/api/profile/education", gin.H{"school": "MIT"}, s.janeToken)
	s.Equal(http.StatusBadRequest, w.Code)
	errs, _ := body["errors"].(map[string]any)
	s.Contains(errs, "degree")
	s.Contains(errs, "fieldofstudy")
	s.Contains(errs, "from")
}

func (s *APITestSuite) TestDeleteAccount() {
	w, _ := s.do(http.MethodPost, "/api/profile", gin.H{"handle": "jane"}, s.janeToken)
	s.Require().Equal(http.StatusOK, w.Code)

	w, body := s.do(http.MethodDelete, "/api/profile", nil, s.janeToken)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(true, body["success"])
	s.Equal(0, s.profiles.Len())
	s.False(s.users.Has("u1"))
}

func (s *APITestSuite) TestAdminDelete() {
	w, _ := s.do(http.MethodDelete, "/api/admin/users/admin", nil, s.janeToken)
	s.Equal(http.StatusForbidden, w.Code)
	s.True(s.users.Has("admin"))

	w, body := s.do(http.MethodDelete, "/api/admin/users/u1", nil, s.adminToken)
	s.Equal(http.StatusOK, w.Code)
	s.Equal(true, body["success"])
	s.False(s.users.Has("u1"))
}

func (s *APITestSuite) TestAvatarUploadRequiresFile() {
	w, _ := s.do(http.MethodPost, "/api/users/avatar", nil, s.janeToken)
	s.Equal(http.StatusBadRequest, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
