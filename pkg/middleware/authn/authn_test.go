package authn

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/mock/gomock"

	"github.com/canopyhq/canopy/pkg/authn"
	"github.com/canopyhq/canopy/pkg/authn/mocks"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
)

func newRouter(a Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	authenticated := router.Group("/", RequireAuthentication(a))
	authenticated.GET("/nodes", func(c *gin.Context) {
		claims, ok := authn.AuthClaimsFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": claims.Subject})
	})

	admin := authenticated.Group("/", RequireRole(authn.RoleAdmin))
	admin.POST("/nodes", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return router
}

func do(router *gin.Engine, method, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/nodes", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthentication(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthenticator := mocks.NewMockAuthenticator(ctrl)
	router := newRouter(mockAuthenticator)

	t.Run("valid_token", func(t *testing.T) {
		mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "good").
			Return(&authn.AuthClaims{Subject: "7", Role: authn.RoleUser}, nil)

		w := do(router, http.MethodGet, "Bearer good")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "7", gjson.Get(w.Body.String(), "subject").String())
	})

	t.Run("scheme_is_case_insensitive", func(t *testing.T) {
		mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "good").
			Return(&authn.AuthClaims{Subject: "7", Role: authn.RoleUser}, nil)

		w := do(router, http.MethodGet, "bearer good")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing_header_is_passed_on", func(t *testing.T) {
		mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "").
			Return(nil, serverErrors.ErrMissingBearerToken)

		w := do(router, http.MethodGet, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "bearer_token_missing", gjson.Get(w.Body.String(), "code").String())
	})

	t.Run("other_scheme", func(t *testing.T) {
		w := do(router, http.MethodGet, "Basic YWRtaW46YWRtaW4=")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "unauthenticated", gjson.Get(w.Body.String(), "code").String())
	})

	t.Run("invalid_token", func(t *testing.T) {
		mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "bad").
			Return(nil, serverErrors.ErrUnauthenticated)

		w := do(router, http.MethodGet, "Bearer bad")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "unauthenticated", gjson.Get(w.Body.String(), "code").String())
	})
}

func TestRequireRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthenticator := mocks.NewMockAuthenticator(ctrl)
	router := newRouter(mockAuthenticator)

	t.Run("user_is_forbidden", func(t *testing.T) {
		mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "user").
			Return(&authn.AuthClaims{Subject: "2", Role: authn.RoleUser}, nil)

		w := do(router, http.MethodPost, "Bearer user")
		require.Equal(t, http.StatusForbidden, w.Code)
		require.Equal(t, "forbidden", gjson.Get(w.Body.String(), "code").String())
	})

	t.Run("admin_is_allowed", func(t *testing.T) {
		mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "admin").
			Return(&authn.AuthClaims{Subject: "1", Role: authn.RoleAdmin}, nil)

		w := do(router, http.MethodPost, "Bearer admin")
		require.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("without_authentication", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		r := gin.New()
		r.POST("/nodes", RequireRole(authn.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusCreated) })

		w := do(r, http.MethodPost, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
