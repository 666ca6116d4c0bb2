package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"reviewhub-api/config"
	"reviewhub-api/handlers"
	"reviewhub-api/middleware"
	"reviewhub-api/models"
	"reviewhub-api/repositories"
	"reviewhub-api/services"
)

// mailbox stands in for the SMTP notifier and keeps every message so
// tests can fish the confirmation code out of the body.
type mailbox struct {
	bodies []string
}

func (m *mailbox) Send(subject, body, from string, to []string) error {
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *mailbox) lastCode() string {
	if len(m.bodies) == 0 {
		return ""
	}
	return strings.TrimPrefix(m.bodies[len(m.bodies)-1], "Your confirmation code: ")
}

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	tokens services.TokenService
	mail   *mailbox

	userToken  string
	otherToken string
	modToken   string
	adminToken string
}

func (suite *IntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (suite *IntegrationTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		suite.T().Fatal("Failed to open test database:", err)
	}
	if err := config.Migrate(db); err != nil {
		suite.T().Fatal("Failed to migrate test database:", err)
	}

	suite.db = db
	suite.mail = &mailbox{}
	suite.setupRouter()
	suite.seedUsers()
}

func (suite *IntegrationTestSuite) setupRouter() {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(suite.db)
	categoryRepo := repositories.NewCategoryRepository(suite.db)
	genreRepo := repositories.NewGenreRepository(suite.db)
	titleRepo := repositories.NewTitleRepository(suite.db)
	reviewRepo := repositories.NewReviewRepository(suite.db)
	commentRepo := repositories.NewCommentRepository(suite.db)

	// Initialize services
	suite.tokens = services.NewTokenService([]byte("test-secret"), config.TokenTTL)
	authService := services.NewAuthService(userRepo, suite.tokens, suite.mail)
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	genreService := services.NewGenreService(genreRepo)
	titleService := services.NewTitleService(titleRepo, categoryRepo, genreRepo)
	reviewService := services.NewReviewService(reviewRepo, titleRepo)
	commentService := services.NewCommentService(commentRepo, reviewRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	genreHandler := handlers.NewGenreHandler(genreService)
	titleHandler := handlers.NewTitleHandler(titleService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Setup router
	router := gin.New()

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Identify(suite.tokens, userRepo))
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/token", authHandler.GetToken)
		}

		users := v1.Group("/users")
		{
			users.GET("/me", middleware.RequireAuth(), authHandler.GetMe)
			users.PATCH("/me", middleware.RequireAuth(), authHandler.UpdateMe)

			users.GET("", userHandler.GetUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:username", userHandler.GetUser)
			users.PATCH("/:username", userHandler.UpdateUser)
			users.DELETE("/:username", userHandler.DeleteUser)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.GetCategories)
			categories.POST("", categoryHandler.CreateCategory)
			categories.DELETE("/:slug", categoryHandler.DeleteCategory)
		}

		genres := v1.Group("/genres")
		{
			genres.GET("", genreHandler.GetGenres)
			genres.POST("", genreHandler.CreateGenre)
			genres.DELETE("/:slug", genreHandler.DeleteGenre)
		}

		titles := v1.Group("/titles")
		{
			titles.GET("", titleHandler.GetTitles)
			titles.POST("", titleHandler.CreateTitle)
			titles.GET("/:title_id", titleHandler.GetTitle)
			titles.PATCH("/:title_id", titleHandler.UpdateTitle)
			titles.DELETE("/:title_id", titleHandler.DeleteTitle)

			reviews := titles.Group("/:title_id/reviews")
			{
				reviews.GET("", reviewHandler.GetReviews)
				reviews.POST("", reviewHandler.CreateReview)
				reviews.GET("/:review_id", reviewHandler.GetReview)
				reviews.PATCH("/:review_id", reviewHandler.UpdateReview)
				reviews.DELETE("/:review_id", reviewHandler.DeleteReview)

				comments := reviews.Group("/:review_id/comments")
				{
					comments.GET("", commentHandler.GetComments)
					comments.POST("", commentHandler.CreateComment)
					comments.GET("/:comment_id", commentHandler.GetComment)
					comments.PATCH("/:comment_id", commentHandler.UpdateComment)
					comments.DELETE("/:comment_id", commentHandler.DeleteComment)
				}
			}
		}
	}

	suite.router = router
}

// seedUsers creates one user per role directly in the database and mints
// their tokens, skipping the signup round-trip most tests do not need.
func (suite *IntegrationTestSuite) seedUsers() {
	suite.userToken = suite.createUserWithToken("regular", "regular@example.com", models.RoleUser)
	suite.otherToken = suite.createUserWithToken("bystander", "bystander@example.com", models.RoleUser)
	suite.modToken = suite.createUserWithToken("mod", "mod@example.com", models.RoleModerator)
	suite.adminToken = suite.createUserWithToken("boss", "boss@example.com", models.RoleAdmin)
}

func (suite *IntegrationTestSuite) createUserWithToken(username, email string, role models.UserRole) string {
	user := &models.User{Username: username, Email: email, Role: role}
	suite.Require().NoError(suite.db.Create(user).Error)

	token, err := suite.tokens.Issue(user)
	suite.Require().NoError(err)
	return token
}

func (suite *IntegrationTestSuite) do(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		suite.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (suite *IntegrationTestSuite) decode(env envelope, out interface{}) {
	suite.Require().NoError(json.Unmarshal(env.Data, out))
}

func (suite *IntegrationTestSuite) createTitle(name string, year int) models.TitleView {
	w, env := suite.do("POST", "/api/v1/titles", suite.adminToken, models.CreateTitleRequest{
		Name: name,
		Year: year,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var title models.TitleView
	suite.decode(env, &title)
	return title
}

func (suite *IntegrationTestSuite) createReview(titleID uint, token, text string, score int) models.ReviewView {
	w, env := suite.do("POST", fmt.Sprintf("/api/v1/titles/%d/reviews", titleID), token, models.CreateReviewRequest{
		Text:  text,
		Score: score,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var review models.ReviewView
	suite.decode(env, &review)
	return review
}

func (suite *IntegrationTestSuite) TestSignupAndTokenFlow() {
	w, env := suite.do("POST", "/api/v1/auth/signup", "", models.SignupRequest{
		Username: "newcomer",
		Email:    "newcomer@example.com",
	})
	suite.Equal(http.StatusOK, w.Code)

	var signupResp models.SignupResponse
	suite.decode(env, &signupResp)
	suite.Equal("newcomer", signupResp.Username)
	suite.Equal("newcomer@example.com", signupResp.Email)

	code := suite.mail.lastCode()
	suite.NotEmpty(code)

	w, env = suite.do("POST", "/api/v1/auth/token", "", models.TokenRequest{
		Username:         "newcomer",
		ConfirmationCode: code,
	})
	suite.Equal(http.StatusOK, w.Code)

	var tokenResp models.TokenResponse
	suite.decode(env, &tokenResp)
	suite.NotEmpty(tokenResp.AccessToken)

	// The issued token authenticates /users/me.
	w, env = suite.do("GET", "/api/v1/users/me", tokenResp.AccessToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	var me models.User
	suite.decode(env, &me)
	suite.Equal("newcomer", me.Username)
	suite.Equal(models.RoleUser, me.Role)
}

func (suite *IntegrationTestSuite) TestSignupRejectsReservedAndMismatched() {
	w, _ := suite.do("POST", "/api/v1/auth/signup", "", models.SignupRequest{
		Username: "me",
		Email:    "me@example.com",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// Existing username with a different email is a conflict.
	w, _ = suite.do("POST", "/api/v1/auth/signup", "", models.SignupRequest{
		Username: "regular",
		Email:    "someone-else@example.com",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestTokenForWrongUserRejected() {
	suite.do("POST", "/api/v1/auth/signup", "", models.SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	aliceCode := suite.mail.lastCode()

	suite.do("POST", "/api/v1/auth/signup", "", models.SignupRequest{
		Username: "bob",
		Email:    "bob@example.com",
	})

	// Alice's code presented under Bob's username hides as a 404.
	w, _ := suite.do("POST", "/api/v1/auth/token", "", models.TokenRequest{
		Username:         "bob",
		ConfirmationCode: aliceCode,
	})
	suite.Equal(http.StatusNotFound, w.Code)

	w, _ = suite.do("POST", "/api/v1/auth/token", "", models.TokenRequest{
		Username:         "alice",
		ConfirmationCode: "not-a-code",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestAnonymousReadsCatalogButCannotWrite() {
	title := suite.createTitle("Dune", 2021)

	w, env := suite.do("GET", fmt.Sprintf("/api/v1/titles/%d", title.ID), "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var got models.TitleView
	suite.decode(env, &got)
	suite.Equal("Dune", got.Name)
	suite.Nil(got.Rating)

	w, _ = suite.do("POST", "/api/v1/titles", "", models.CreateTitleRequest{Name: "Nope", Year: 2022})
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("POST", "/api/v1/categories", "", models.CreateCategoryRequest{Name: "Movies", Slug: "movies"})
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("POST", fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID), "", models.CreateReviewRequest{Text: "x", Score: 5})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *IntegrationTestSuite) TestCatalogWritesAreAdminOnly() {
	w, _ := suite.do("POST", "/api/v1/categories", suite.userToken, models.CreateCategoryRequest{Name: "Movies", Slug: "movies"})
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("POST", "/api/v1/categories", suite.modToken, models.CreateCategoryRequest{Name: "Movies", Slug: "movies"})
	suite.Equal(http.StatusForbidden, w.Code)

	w, env := suite.do("POST", "/api/v1/categories", suite.adminToken, models.CreateCategoryRequest{Name: "Movies", Slug: "movies"})
	suite.Equal(http.StatusCreated, w.Code)

	var category models.Category
	suite.decode(env, &category)
	suite.Equal("movies", category.Slug)

	// Anyone can list.
	w, _ = suite.do("GET", "/api/v1/categories", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do("DELETE", "/api/v1/categories/movies", suite.userToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("DELETE", "/api/v1/categories/movies", suite.adminToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w, _ = suite.do("DELETE", "/api/v1/categories/movies", suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestReviewLifecycleAndRating() {
	title := suite.createTitle("Arrival", 2016)

	review := suite.createReview(title.ID, suite.userToken, "Thoughtful", 8)
	suite.Equal("regular", review.Author)
	suite.createReview(title.ID, suite.otherToken, "Slow", 6)

	// A second review from the same author is rejected.
	w, _ := suite.do("POST", fmt.Sprintf("/api/v1/titles/%d/reviews", title.ID), suite.userToken, models.CreateReviewRequest{Text: "Again", Score: 9})
	suite.Equal(http.StatusBadRequest, w.Code)

	// Rating is the mean of the scores.
	w, env := suite.do("GET", fmt.Sprintf("/api/v1/titles/%d", title.ID), "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var got models.TitleView
	suite.decode(env, &got)
	suite.Require().NotNil(got.Rating)
	suite.InDelta(7.0, *got.Rating, 0.001)

	// Out-of-range scores never land.
	w, _ = suite.do("PATCH", fmt.Sprintf("/api/v1/titles/%d/reviews/%d", title.ID, review.ID), suite.userToken, map[string]interface{}{"score": 11})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestOwnershipOnReviews() {
	title := suite.createTitle("Heat", 1995)
	review := suite.createReview(title.ID, suite.userToken, "Classic", 9)
	path := fmt.Sprintf("/api/v1/titles/%d/reviews/%d", title.ID, review.ID)

	// A different plain user can read but not touch it.
	w, _ := suite.do("GET", path, suite.otherToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do("PATCH", path, suite.otherToken, map[string]interface{}{"text": "mine now"})
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("DELETE", path, suite.otherToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	// The author edits their own review.
	w, env := suite.do("PATCH", path, suite.userToken, map[string]interface{}{"text": "Still a classic"})
	suite.Equal(http.StatusOK, w.Code)

	var updated models.ReviewView
	suite.decode(env, &updated)
	suite.Equal("Still a classic", updated.Text)

	// A moderator removes someone else's review.
	w, _ = suite.do("DELETE", path, suite.modToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w, _ = suite.do("GET", path, "", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestCommentsUnderReview() {
	title := suite.createTitle("Alien", 1979)
	review := suite.createReview(title.ID, suite.userToken, "Scary", 10)
	base := fmt.Sprintf("/api/v1/titles/%d/reviews/%d/comments", title.ID, review.ID)

	w, env := suite.do("POST", base, suite.otherToken, models.CreateCommentRequest{Text: "Agreed"})
	suite.Equal(http.StatusCreated, w.Code)

	var comment models.CommentView
	suite.decode(env, &comment)
	suite.Equal("bystander", comment.Author)

	// Only the author, a moderator, or an admin may delete it.
	path := fmt.Sprintf("%s/%d", base, comment.ID)
	w, _ = suite.do("DELETE", path, suite.userToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("DELETE", path, suite.otherToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	// Deleting the review takes its comments with it.
	comment2W, _ := suite.do("POST", base, suite.otherToken, models.CreateCommentRequest{Text: "Still here"})
	suite.Equal(http.StatusCreated, comment2W.Code)

	w, _ = suite.do("DELETE", fmt.Sprintf("/api/v1/titles/%d/reviews/%d", title.ID, review.ID), suite.userToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Comment{}).Count(&count).Error)
	suite.Equal(int64(0), count)
}

func (suite *IntegrationTestSuite) TestUserCollectionIsAdminOnly() {
	w, _ := suite.do("GET", "/api/v1/users", suite.userToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do("GET", "/api/v1/users", suite.modToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, env := suite.do("GET", "/api/v1/users", suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	var listing struct {
		Users []models.User `json:"users"`
	}
	suite.decode(env, &listing)
	suite.Len(listing.Users, 4)

	// Admin creates a user with an explicit role.
	w, env = suite.do("POST", "/api/v1/users", suite.adminToken, models.CreateUserRequest{
		Username: "fresh",
		Email:    "fresh@example.com",
		Role:     models.RoleModerator,
	})
	suite.Equal(http.StatusCreated, w.Code)

	var created models.User
	suite.decode(env, &created)
	suite.Equal(models.RoleModerator, created.Role)

	w, _ = suite.do("DELETE", "/api/v1/users/fresh", suite.adminToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w, _ = suite.do("GET", "/api/v1/users/fresh", suite.adminToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestMePatchCannotEscalateRole() {
	w, env := suite.do("PATCH", "/api/v1/users/me", suite.userToken, map[string]interface{}{
		"bio":  "just watching",
		"role": "admin",
	})
	suite.Equal(http.StatusOK, w.Code)

	var me models.User
	suite.decode(env, &me)
	suite.Equal("just watching", me.Bio)
	suite.Equal(models.RoleUser, me.Role)

	// The admin path does change roles, and the change is live on the
	// next request without a new token.
	w, _ = suite.do("PATCH", "/api/v1/users/regular", suite.adminToken, map[string]interface{}{"role": "moderator"})
	suite.Equal(http.StatusOK, w.Code)

	w, env = suite.do("GET", "/api/v1/users/me", suite.userToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.decode(env, &me)
	suite.Equal(models.RoleModerator, me.Role)
}

func (suite *IntegrationTestSuite) TestInvalidTokenRejected() {
	w, _ := suite.do("GET", "/api/v1/users/me", "garbage-token", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.do("GET", "/api/v1/users/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	// A token for a deleted user is dead.
	ghostToken := suite.createUserWithToken("ghost", "ghost@example.com", models.RoleUser)
	w, _ = suite.do("DELETE", "/api/v1/users/ghost", suite.adminToken, nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w, _ = suite.do("GET", "/api/v1/users/me", ghostToken, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *IntegrationTestSuite) TestTitleFilters() {
	w, _ := suite.do("POST", "/api/v1/categories", suite.adminToken, models.CreateCategoryRequest{Name: "Movies", Slug: "movies"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	w, _ = suite.do("POST", "/api/v1/genres", suite.adminToken, models.CreateGenreRequest{Name: "Sci-Fi", Slug: "scifi"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	w, _ = suite.do("POST", "/api/v1/titles", suite.adminToken, models.CreateTitleRequest{
		Name:     "Blade Runner",
		Year:     1982,
		Category: "movies",
		Genre:    []string{"scifi"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	suite.createTitle("Casablanca", 1942)

	type titleListing struct {
		Titles []models.TitleView `json:"titles"`
	}

	w, env := suite.do("GET", "/api/v1/titles?genre=scifi", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	var listing titleListing
	suite.decode(env, &listing)
	suite.Require().Len(listing.Titles, 1)
	suite.Equal("Blade Runner", listing.Titles[0].Name)

	w, env = suite.do("GET", "/api/v1/titles?year=1942", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	listing = titleListing{}
	suite.decode(env, &listing)
	suite.Require().Len(listing.Titles, 1)
	suite.Equal("Casablanca", listing.Titles[0].Name)

	// Unknown genre slug on create is a 404, not a silent skip.
	w, _ = suite.do("POST", "/api/v1/titles", suite.adminToken, models.CreateTitleRequest{
		Name:  "Mystery",
		Year:  2000,
		Genre: []string{"no-such"},
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestListSurvivesZeroPagingParams() {
	w, _ := suite.do("POST", "/api/v1/categories", suite.adminToken, models.CreateCategoryRequest{Name: "Movies", Slug: "movies"})
	suite.Require().Equal(http.StatusCreated, w.Code)

	// An explicit ?limit=0 dodges the form defaults; it must be clamped,
	// not zero out the query or the page arithmetic.
	w, env := suite.do("GET", "/api/v1/categories?limit=0&page=0", "", nil)
	suite.Equal(http.StatusOK, w.Code)

	var listing struct {
		Categories []models.Category      `json:"categories"`
		Pagination map[string]interface{} `json:"pagination"`
	}
	suite.decode(env, &listing)
	suite.Require().Len(listing.Categories, 1)
	suite.Equal(float64(1), listing.Pagination["total_pages"])
	suite.Equal(float64(1), listing.Pagination["current_page"])
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
