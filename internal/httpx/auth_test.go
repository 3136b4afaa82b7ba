package httpx

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newAuthRouter(secret string) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", Auth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", time.Hour)
	tok, err := issuer.Issue("user-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := newAuthRouter("s3cret")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if want := `"user_id":"user-42"`; !strings.Contains(w.Body.String(), want) {
		t.Fatalf("body=%s, expected %s", w.Body.String(), want)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	r := newAuthRouter("s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, expected 401", w.Code)
	}
}

func TestAuth_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("other-secret", time.Hour)
	tok, _ := issuer.Issue("user-42")

	r := newAuthRouter("s3cret")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, expected 401", w.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("s3cret", -time.Minute)
	tok, _ := issuer.Issue("user-42")

	r := newAuthRouter("s3cret")
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, expected 401", w.Code)
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
