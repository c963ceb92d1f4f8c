package server

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/canopyhq/canopy/pkg/authn"
	authnmocks "github.com/canopyhq/canopy/pkg/authn/mocks"
	"github.com/canopyhq/canopy/pkg/authn/local"
	"github.com/canopyhq/canopy/pkg/logger"
	"github.com/canopyhq/canopy/pkg/password"
	"github.com/canopyhq/canopy/pkg/server/commands"
	serverErrors "github.com/canopyhq/canopy/pkg/server/errors"
	"github.com/canopyhq/canopy/pkg/storage"
	"github.com/canopyhq/canopy/pkg/storage/memory"
	mockstorage "github.com/canopyhq/canopy/pkg/storage/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type issuerOnly struct{}

func (issuerOnly) IssueToken(string, string, authn.Role) (string, error) {
	return "token", nil
}

func newLocalAuthenticator(t *testing.T) *local.Authenticator {
	t.Helper()
	a, err := local.NewAuthenticator(local.Config{
		SigningKey: strings.Repeat("s", local.MinSigningKeyLength),
		Issuer:     "canopy",
		Audience:   "canopy-api",
	})
	require.NoError(t, err)
	return a
}

func TestNewServerWithOpts(t *testing.T) {
	t.Run("requires_datastore", func(t *testing.T) {
		_, err := NewServerWithOpts(WithTokenIssuer(newLocalAuthenticator(t)))
		require.EqualError(t, err, "a datastore option must be provided")
	})

	t.Run("requires_issuer", func(t *testing.T) {
		_, err := NewServerWithOpts(WithDatastore(memory.New()))
		require.EqualError(t, err, "a token issuer option must be provided")
	})

	t.Run("requires_authenticator_if_issuer_cannot_validate", func(t *testing.T) {
		_, err := NewServerWithOpts(WithDatastore(memory.New()), WithTokenIssuer(issuerOnly{}))
		require.EqualError(t, err, "an authenticator option must be provided")
	})

	t.Run("issuer_validates_its_own_tokens", func(t *testing.T) {
		issuer := newLocalAuthenticator(t)
		s := MustNewServerWithOpts(WithDatastore(memory.New()), WithTokenIssuer(issuer))
		defer s.Close()

		require.Same(t, issuer, s.authenticator)
		require.NotNil(t, s.hasher)
	})

	t.Run("must_panics", func(t *testing.T) {
		require.PanicsWithError(t, "a datastore option must be provided", func() {
			_ = MustNewServerWithOpts()
		})
	})
}

func TestAuthenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockAuthenticator := authnmocks.NewMockAuthenticator(ctrl)
	mockAuthenticator.EXPECT().Close()

	s := MustNewServerWithOpts(
		WithDatastore(memory.New()),
		WithTokenIssuer(issuerOnly{}),
		WithAuthenticator(mockAuthenticator),
	)
	defer s.Close()

	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		want := &authn.AuthClaims{Subject: "1", Username: "alice", Role: authn.RoleAdmin}
		mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "good").Return(want, nil)

		got, err := s.Authenticate(ctx, "good")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	tests := []struct {
		name     string
		returned error
		wantErr  error
		wantCode string
	}{
		{
			name:     "unauthenticated",
			returned: authn.ErrUnauthenticated,
			wantErr:  serverErrors.ErrUnauthenticated,
			wantCode: "unauthenticated",
		},
		{
			name:     "wrapped_unauthenticated",
			returned: errors.Join(authn.ErrUnauthenticated, errors.New("bad audience")),
			wantErr:  serverErrors.ErrUnauthenticated,
			wantCode: "unauthenticated",
		},
		{
			name:     "missing_token",
			returned: authn.ErrMissingBearerToken,
			wantErr:  serverErrors.ErrMissingBearerToken,
			wantCode: "bearer_token_missing",
		},
		{
			name:     "already_encoded",
			returned: serverErrors.ErrForbidden,
			wantErr:  serverErrors.ErrForbidden,
			wantCode: "forbidden",
		},
		{
			name:     "unexpected",
			returned: errors.New("jwks endpoint unreachable"),
			wantCode: "internal_error",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			mockAuthenticator.EXPECT().Authenticate(gomock.Any(), "token").Return(nil, test.returned)

			claims, err := s.Authenticate(ctx, "token")
			require.Nil(t, claims)
			require.Error(t, err)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
			}
			require.Equal(t, test.wantCode, serverErrors.Encode(err).Code())
		})
	}
}

func TestIsReady(t *testing.T) {
	ctx := context.Background()

	t.Run("memory_is_ready", func(t *testing.T) {
		s := MustNewServerWithOpts(WithDatastore(memory.New()), WithTokenIssuer(newLocalAuthenticator(t)))
		defer s.Close()

		ready, err := s.IsReady(ctx)
		require.NoError(t, err)
		require.True(t, ready)
	})

	t.Run("datastore_not_ready", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDatastore := mockstorage.NewMockDatastore(ctrl)
		mockDatastore.EXPECT().IsReady(gomock.Any()).Return(storage.ReadinessStatus{
			Message: "datastore requires migrations",
		}, nil)

		l, logs := logger.NewObserverLogger("warn")
		s := MustNewServerWithOpts(
			WithDatastore(mockDatastore),
			WithTokenIssuer(newLocalAuthenticator(t)),
			WithLogger(l),
		)
		defer s.Close()

		ready, err := s.IsReady(ctx)
		require.NoError(t, err)
		require.False(t, ready)
		require.Equal(t, 1, logs.FilterMessage("datastore is not ready").Len())
	})

	t.Run("probe_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockDatastore := mockstorage.NewMockDatastore(ctrl)
		mockDatastore.EXPECT().IsReady(gomock.Any()).Return(storage.ReadinessStatus{}, errors.New("connection refused"))

		s := MustNewServerWithOpts(WithDatastore(mockDatastore), WithTokenIssuer(newLocalAuthenticator(t)))
		defer s.Close()

		ready, err := s.IsReady(ctx)
		require.ErrorContains(t, err, "connection refused")
		require.False(t, ready)
	})
}

func TestSeedUsersThenLogin(t *testing.T) {
	ctx := context.Background()
	s := MustNewServerWithOpts(
		WithDatastore(memory.New()),
		WithTokenIssuer(newLocalAuthenticator(t)),
		WithPasswordHasher(password.NewHasher(bcrypt.MinCost)),
	)
	defer s.Close()

	accounts := []commands.RegisterRequest{
		{Username: "admin", Password: "admin123", Role: "Admin"},
		{Username: "user", Password: "user123", Role: "User"},
	}

	created, err := s.SeedUsers(ctx, accounts)
	require.NoError(t, err)
	require.Equal(t, 2, created)

	created, err = s.SeedUsers(ctx, accounts)
	require.NoError(t, err)
	require.Zero(t, created)

	res, err := s.Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	require.Equal(t, authn.RoleAdmin, res.Role)

	claims, err := s.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
	require.Equal(t, authn.RoleAdmin, claims.Role)

	_, err = s.Login(ctx, "user", "wrong")
	require.ErrorIs(t, err, serverErrors.ErrAuthFailed)
}

func TestNodeOperations(t *testing.T) {
	ctx := context.Background()
	s := MustNewServerWithOpts(WithDatastore(memory.New()), WithTokenIssuer(newLocalAuthenticator(t)))
	defer s.Close()

	root, err := s.CreateNode(ctx, &commands.CreateNodeRequest{Name: "root"})
	require.NoError(t, err)

	child, err := s.CreateNode(ctx, &commands.CreateNodeRequest{Name: "child", ParentID: &root.ID})
	require.NoError(t, err)

	_, err = s.UpdateNode(ctx, &commands.UpdateNodeRequest{ID: root.ID, Name: "root", ParentID: &child.ID})
	require.ErrorIs(t, err, serverErrors.ErrCycle)

	err = s.DeleteNode(ctx, root.ID)
	require.ErrorIs(t, err, serverErrors.ErrNodeHasChildren)

	tree, err := s.GetTree(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 3, tree.Count())

	exported, err := s.ExportTree(ctx, &root.ID, "json")
	require.NoError(t, err)
	require.Equal(t, "application/json", exported.ContentType)

	require.NoError(t, s.DeleteNode(ctx, child.ID))

	_, err = s.GetNode(ctx, child.ID)
	require.ErrorIs(t, err, serverErrors.NodeNotFoundError(child.ID))

	nodes, err := s.ListNodes(ctx)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
}
