package monocloudauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/monocloud/auth-go/authcore"
	"github.com/monocloud/auth-go/internal/adapter"
	"github.com/monocloud/auth-go/mock/mock_authcore"
	"go.uber.org/mock/gomock"
)

func TestInstanceGetSession(t *testing.T) {
	t.Parallel()

	want := &authcore.Session{User: authcore.Claims{"sub": "user-1"}}

	ctrl := gomock.NewController(t)
	core := mock_authcore.NewMockProvider(ctrl)
	core.EXPECT().GetSession(gomock.Any(), gomock.Any(), gomock.Any()).Return(want, nil)

	i := NewWithProvider(core)

	got, err := i.GetSession(context.Background())
	if err != nil {
		t.Fatalf("GetSession() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("session mismatch (-want +got):\n%s", diff)
	}
}

func TestInstanceGetSessionFromRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	core := mock_authcore.NewMockProvider(ctrl)
	core.EXPECT().GetSession(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req authcore.CookieReader, _ authcore.CookieWriter) (*authcore.Session, error) {
			v, err := req.Cookie("session")
			if err != nil {
				return nil, err
			}
			if v != "encoded" {
				t.Errorf("Cookie(session) = %q, want %q", v, "encoded")
			}

			return nil, nil
		})

	i := NewWithProvider(core)

	r := httptest.NewRequest(http.MethodGet, "/page", http.NoBody)
	r.AddCookie(&http.Cookie{Name: "session", Value: "encoded"})

	if _, err := i.GetSessionFromRequest(httptest.NewRecorder(), r); err != nil {
		t.Fatalf("GetSessionFromRequest() = %v", err)
	}
}

func TestInstanceGetTokens(t *testing.T) {
	t.Parallel()

	want := &authcore.Tokens{AccessToken: "at", IDToken: "idt"}

	ctrl := gomock.NewController(t)
	core := mock_authcore.NewMockProvider(ctrl)
	core.EXPECT().GetTokens(gomock.Any(), gomock.Any(), gomock.Any(), &authcore.TokenOptions{ForceRefresh: true}).Return(want, nil)

	i := NewWithProvider(core)

	got, err := i.GetTokens(context.Background(), &authcore.TokenOptions{ForceRefresh: true})
	if err != nil {
		t.Fatalf("GetTokens() = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestInstanceIsAuthenticated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	core := mock_authcore.NewMockProvider(ctrl)
	core.EXPECT().IsAuthenticated(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

	i := NewWithProvider(core)

	got, err := i.IsAuthenticated(context.Background())
	if err != nil {
		t.Fatalf("IsAuthenticated() = %v", err)
	}
	if !got {
		t.Error("IsAuthenticated() = false, want true")
	}
}

func TestInstanceIsUserInGroup(t *testing.T) {
	t.Parallel()

	session := &authcore.Session{User: authcore.Claims{"sub": "user-1", "groups": []any{"ops"}}}

	type args struct {
		groups  []string
		options []ProtectOption
	}
	tests := []struct {
		name    string
		args    args
		session *authcore.Session
		want    bool
		wantErr bool
	}{
		{
			name:    "nil groups is a caller mistake",
			args:    args{groups: nil},
			session: session,
			wantErr: true,
		},
		{
			name:    "member",
			args:    args{groups: []string{"ops"}},
			session: session,
			want:    true,
		},
		{
			name:    "not a member",
			args:    args{groups: []string{"admin"}},
			session: session,
			want:    false,
		},
		{
			name:    "no session",
			args:    args{groups: []string{"ops"}},
			session: nil,
			want:    false,
		},
		{
			name: "custom claim",
			args: args{groups: []string{"auditor"}, options: []ProtectOption{WithGroupsClaim("roles")}},
			session: &authcore.Session{
				User: authcore.Claims{"roles": []any{"auditor"}},
			},
			want: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			core := mock_authcore.NewMockProvider(ctrl)
			core.EXPECT().Options().Return(testCoreOptions()).AnyTimes()
			if tt.args.groups == nil {
				// validation must fail before any session lookup
				core.EXPECT().GetSession(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			} else {
				core.EXPECT().GetSession(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.session, nil)
			}

			i := NewWithProvider(core)

			got, err := i.IsUserInGroup(context.Background(), tt.args.groups, tt.args.options...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IsUserInGroup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("IsUserInGroup() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInstanceRedirectToSignIn(t *testing.T) {
	t.Parallel()

	t.Run("outside a request scope", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		core := mock_authcore.NewMockProvider(ctrl)
		core.EXPECT().Options().Return(testCoreOptions()).AnyTimes()

		i := NewWithProvider(core)

		if err := i.RedirectToSignIn(context.Background(), httptest.NewRecorder(), "/after"); err == nil {
			t.Fatal("RedirectToSignIn() expected error outside a request scope")
		}
	})

	t.Run("within a request scope", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		core := mock_authcore.NewMockProvider(ctrl)
		core.EXPECT().Options().Return(testCoreOptions()).AnyTimes()
		core.EXPECT().IsAuthenticated(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		i := NewWithProvider(core)

		r := httptest.NewRequest(http.MethodGet, "/page", http.NoBody)
		ctx := adapter.WithScope(context.Background(), r, make(http.Header))

		w := httptest.NewRecorder()
		if err := i.RedirectToSignIn(ctx, w, "/after"); err != nil {
			t.Fatalf("RedirectToSignIn() = %v", err)
		}

		if w.Code != http.StatusTemporaryRedirect {
			t.Errorf("status = %d, want %d", w.Code, http.StatusTemporaryRedirect)
		}
		want := "https://app.example.com/api/auth/signin?return_url=" + url.QueryEscape("/after")
		if got := w.Header().Get("Location"); got != want {
			t.Errorf("Location = %q, want %q", got, want)
		}
	})

	t.Run("empty return url falls back to the forwarded path", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		core := mock_authcore.NewMockProvider(ctrl)
		core.EXPECT().Options().Return(testCoreOptions()).AnyTimes()
		core.EXPECT().IsAuthenticated(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)

		i := NewWithProvider(core)

		r := httptest.NewRequest(http.MethodGet, "/page", http.NoBody)
		r.Header.Set(HeaderForwardedPath, "/original?tab=open")
		ctx := adapter.WithScope(context.Background(), r, make(http.Header))

		w := httptest.NewRecorder()
		if err := i.RedirectToSignIn(ctx, w, ""); err != nil {
			t.Fatalf("RedirectToSignIn() = %v", err)
		}

		want := "https://app.example.com/api/auth/signin?return_url=" + url.QueryEscape("/original?tab=open")
		if got := w.Header().Get("Location"); got != want {
			t.Errorf("Location = %q, want %q", got, want)
		}
	})

	t.Run("existing session is left alone", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		core := mock_authcore.NewMockProvider(ctrl)
		core.EXPECT().Options().Return(testCoreOptions()).AnyTimes()
		core.EXPECT().IsAuthenticated(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)

		i := NewWithProvider(core)

		r := httptest.NewRequest(http.MethodGet, "/page", http.NoBody)
		ctx := adapter.WithScope(context.Background(), r, make(http.Header))

		w := httptest.NewRecorder()
		if err := i.RedirectToSignIn(ctx, w, "/after"); err != nil {
			t.Fatalf("RedirectToSignIn() = %v", err)
		}
		if got := w.Header().Get("Location"); got != "" {
			t.Errorf("Location = %q, want no redirect", got)
		}
	})
}
