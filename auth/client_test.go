package auth_test

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/compass/auth"
	"github.com/xy-planning-network/compass/identity"
	"github.com/xy-planning-network/compass/identity/identitymock"
	"github.com/xy-planning-network/compass/logger"
	"github.com/xy-planning-network/compass/storage"
)

var errProvider = errors.New("provider down")

func newTestClient(t *testing.T, opts ...auth.ClientOptFn) (*auth.Client, *identitymock.MockProvider, *storage.Map) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	p := identitymock.NewMockProvider(ctrl)
	m := storage.NewMap()
	opts = append([]auth.ClientOptFn{auth.WithLogger(logger.NewLogger(logger.WithLogger(log.New(io.Discard, "", 0))))}, opts...)

	return auth.New(p, m, opts...), p, m
}

func TestIsAuthenticated(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name     string
		session  *identity.Session
		err      error
		expected bool
	}{
		{"Session", &identity.Session{AccessToken: "a"}, nil, true},
		{"No-Session", nil, nil, false},
		{"Error", nil, errProvider, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			c, p, _ := newTestClient(t)
			p.EXPECT().GetSession(ctx).Return(tc.session, tc.err).Times(1)

			// Act
			actual, err := c.IsAuthenticated(ctx)

			// Assert
			require.Equal(t, tc.expected, actual)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c, p, _ := newTestClient(t)
	p.EXPECT().GetUser(ctx).Return(&identity.User{ID: "u1"}, nil)

	// Act
	u, err := c.CurrentUser(ctx)

	// Assert
	require.Nil(t, err)
	require.Equal(t, "u1", u.ID)
}

func TestSignOut(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
	}{
		{"Success", nil},
		{"Provider-Fails", errProvider},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			c, p, m := newTestClient(t)
			require.Nil(t, c.Tokens().StoreTokens(ctx, "a", "r"))
			require.Nil(t, c.Tokens().CompleteQuestionnaire(ctx, "{}"))
			p.EXPECT().SignOut(ctx).Return(tc.err)

			// Act
			err := c.SignOut(ctx)

			// Assert
			require.ErrorIs(t, err, tc.err)
			require.Zero(t, m.Len())
		})
	}
}

func TestHandleOAuthCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("No-Access-Token", func(t *testing.T) {
		for _, raw := range []string{
			"https://compass.example.com/chatbot",
			"https://compass.example.com/chatbot#refresh_token=r",
			"https://compass.example.com/chatbot#error=access_denied",
			"/chatbot#access_token=",
		} {
			// Arrange
			c, _, m := newTestClient(t)

			// Act
			clean, ok := c.HandleOAuthCallback(ctx, raw)

			// Assert
			require.False(t, ok)
			require.Empty(t, clean)
			require.Zero(t, m.Len())
		}
	})

	t.Run("Provider-Rejects", func(t *testing.T) {
		// Arrange
		c, p, m := newTestClient(t)
		p.EXPECT().SetSession(ctx, "a", "r").Return(nil, errProvider)

		// Act
		clean, ok := c.HandleOAuthCallback(ctx, "https://compass.example.com/#access_token=a&refresh_token=r")

		// Assert
		require.False(t, ok)
		require.Empty(t, clean)
		require.Zero(t, m.Len())
	})

	t.Run("Success", func(t *testing.T) {
		// Arrange
		c, p, _ := newTestClient(t)
		p.EXPECT().
			SetSession(ctx, "a", "r").
			Return(&identity.Session{AccessToken: "a", RefreshToken: "r"}, nil)

		// Act
		clean, ok := c.HandleOAuthCallback(ctx, "https://compass.example.com/chatbot?welcome=1#access_token=a&expires_in=3600&refresh_token=r&token_type=bearer")

		// Assert
		require.True(t, ok)
		require.Equal(t, "/chatbot?welcome=1", clean)

		access, err := c.Tokens().AccessToken(ctx)
		require.Nil(t, err)
		require.Equal(t, "a", access)

		refresh, err := c.Tokens().RefreshToken(ctx)
		require.Nil(t, err)
		require.Equal(t, "r", refresh)
	})

	t.Run("Malformed-Pairs", func(t *testing.T) {
		// Arrange
		c, p, _ := newTestClient(t)
		p.EXPECT().
			SetSession(ctx, "a", "r").
			Return(&identity.Session{AccessToken: "a", RefreshToken: "r"}, nil)

		// Act
		clean, ok := c.HandleOAuthCallback(ctx, "https://compass.example.com/chatbot#access_token=a&state=50%&x;y=1&refresh_token=r")

		// Assert
		require.True(t, ok)
		require.Equal(t, "/chatbot", clean)

		refresh, err := c.Tokens().RefreshToken(ctx)
		require.Nil(t, err)
		require.Equal(t, "r", refresh)
	})

	t.Run("Root", func(t *testing.T) {
		// Arrange
		c, p, _ := newTestClient(t)
		p.EXPECT().SetSession(ctx, "a", "").Return(&identity.Session{AccessToken: "a"}, nil)

		// Act
		clean, ok := c.HandleOAuthCallback(ctx, "https://compass.example.com#access_token=a")

		// Assert
		require.True(t, ok)
		require.Equal(t, "/", clean)
	})
}

func TestRefreshAccessToken(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name    string
		session *identity.Session
		err     error
		token   string
		ok      bool
	}{
		{"Success", &identity.Session{AccessToken: "new-a", RefreshToken: "new-r"}, nil, "new-a", true},
		{"Error", nil, errProvider, "", false},
		{"No-Session", nil, nil, "", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			c, p, _ := newTestClient(t)
			require.Nil(t, c.Tokens().StoreTokens(ctx, "old-a", "old-r"))
			p.EXPECT().RefreshSession(ctx).Return(tc.session, tc.err).Times(1)

			// Act
			token, ok := c.RefreshAccessToken(ctx)

			// Assert
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.token, token)

			stored, err := c.Tokens().AccessToken(ctx)
			require.Nil(t, err)
			if tc.ok {
				require.Equal(t, "new-a", stored)
			} else {
				require.Equal(t, "old-a", stored)
			}
		})
	}
}

func TestListen(t *testing.T) {
	// Arrange
	ctx := context.Background()
	c, p, m := newTestClient(t)

	var emitter identity.Emitter
	p.EXPECT().
		OnAuthStateChange(gomock.Any()).
		DoAndReturn(func(fn identity.Handler) identity.Subscription { return emitter.Subscribe(fn) })

	// Act
	sub := c.Listen(ctx)

	// Assert
	for _, ev := range []identity.Event{identity.SignedIn, identity.TokenRefreshed, identity.UserUpdated} {
		emitter.Emit(ev, &identity.Session{AccessToken: "a-" + ev.String(), RefreshToken: "r-" + ev.String()})

		access, err := c.Tokens().AccessToken(ctx)
		require.Nil(t, err)
		require.Equal(t, "a-"+ev.String(), access)
	}

	// Act
	emitter.Emit(identity.TokenRefreshed, nil)

	// Assert
	access, err := c.Tokens().AccessToken(ctx)
	require.Nil(t, err)
	require.Equal(t, "a-USER_UPDATED", access)

	// Arrange
	require.Nil(t, c.Tokens().CompleteQuestionnaire(ctx, "{}"))

	// Act
	emitter.Emit(identity.SignedOut, nil)

	// Assert
	require.Zero(t, m.Len())

	// Act
	sub.Unsubscribe()
	sub.Unsubscribe()
	emitter.Emit(identity.SignedIn, &identity.Session{AccessToken: "late"})

	// Assert
	require.Zero(t, m.Len())
	require.Zero(t, emitter.Len())
}
