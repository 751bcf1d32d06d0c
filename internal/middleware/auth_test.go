package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/brennanwesley/jobticketinvoice-sub000/internal/utils"
)

const testSecret = "middleware-test-secret"

func testRouter(handler gin.HandlerFunc, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{AuthRequired(testSecret)}, extra...)
	chain = append(chain, handler)
	router.GET("/protected", chain...)
	return router
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	router := testRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	if got := doRequest(router, "").Code; got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
}

func TestAuthRequiredMalformedHeader(t *testing.T) {
	router := testRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	if got := doRequest(router, "Token abc").Code; got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
	if got := doRequest(router, "Bearer not-a-jwt").Code; got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
}

func TestAuthRequiredWrongSecret(t *testing.T) {
	router := testRouter(func(c *gin.Context) { c.Status(http.StatusOK) })

	token, err := utils.GenerateAccessToken("user-1", "tech", "company-1", "other-secret", 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if got := doRequest(router, "Bearer "+token).Code; got != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", got)
	}
}

func TestAuthRequiredSetsContext(t *testing.T) {
	var gotUser, gotRole, gotCompany string
	router := testRouter(func(c *gin.Context) {
		gotUser = c.GetString(ContextUserID)
		gotRole = c.GetString(ContextRole)
		gotCompany = c.GetString(ContextCompanyID)
		c.Status(http.StatusOK)
	})

	token, err := utils.GenerateAccessToken("user-1", "manager", "company-1", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if got := doRequest(router, "Bearer "+token).Code; got != http.StatusOK {
		t.Fatalf("status = %d, want 200", got)
	}
	if gotUser != "user-1" || gotRole != "manager" || gotCompany != "company-1" {
		t.Errorf("context = (%q, %q, %q)", gotUser, gotRole, gotCompany)
	}
}

func TestRequireAnyRole(t *testing.T) {
	router := testRouter(
		func(c *gin.Context) { c.Status(http.StatusOK) },
		RequireAnyRole("manager", "admin"),
	)

	techToken, err := utils.GenerateAccessToken("user-1", "tech", "company-1", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if got := doRequest(router, "Bearer "+techToken).Code; got != http.StatusForbidden {
		t.Errorf("tech status = %d, want 403", got)
	}

	managerToken, err := utils.GenerateAccessToken("user-2", "manager", "company-1", testSecret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if got := doRequest(router, "Bearer "+managerToken).Code; got != http.StatusOK {
		t.Errorf("manager status = %d, want 200", got)
	}
}
