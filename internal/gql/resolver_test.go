package gql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
	"github.com/dropDatabas3/gqlgate/internal/store"
)

func seedSchema(t *testing.T, st store.SchemaStore, s *types.Schema) *types.Schema {
	t.Helper()
	if err := st.SaveSchema(context.Background(), s); err != nil {
		t.Fatalf("seeding schema: %v", err)
	}
	return s
}

func newResolver(st store.SchemaStore) *SchemaResolver {
	return NewSchemaResolver(st, nil)
}

func TestResolve_BearerMatch(t *testing.T) {
	st := store.NewMemory()
	private := seedSchema(t, st, &types.Schema{
		Name:    "Mobile App",
		Scope:   types.MustScope("entry:read"),
		Enabled: true,
	})
	seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	r := newResolver(st)
	sc, err := r.Resolve(context.Background(), &RequestContext{
		Authorization: "Bearer " + private.AccessToken,
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sc.ID != private.ID {
		t.Fatalf("resolved schema %d, want %d", sc.ID, private.ID)
	}
}

func TestResolve_BearerNoMatchIsTerminal(t *testing.T) {
	st := store.NewMemory()
	// Hay schema público perfectamente usable, pero un bearer que no
	// matchea jamás cae a él.
	seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	r := newResolver(st)
	_, err := r.Resolve(context.Background(), &RequestContext{
		Authorization: "Bearer nope",
	})
	if err != ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestResolve_DisabledSchemaForbidden(t *testing.T) {
	st := store.NewMemory()
	private := seedSchema(t, st, &types.Schema{
		Name:  "Disabled",
		Scope: types.MustScope("entry:read"),
	})

	r := newResolver(st)
	_, err := r.Resolve(context.Background(), &RequestContext{
		Authorization: "Bearer " + private.AccessToken,
	})
	if err != ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestResolve_ExpiredSchemaForbidden(t *testing.T) {
	st := store.NewMemory()
	expiry := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	private := seedSchema(t, st, &types.Schema{
		Name:       "Expired",
		Scope:      types.MustScope("entry:read"),
		Enabled:    true,
		ExpiryDate: &expiry,
	})

	r := newResolver(st)
	r.now = func() time.Time { return expiry.Add(time.Second) }

	_, err := r.Resolve(context.Background(), &RequestContext{
		Authorization: "Bearer " + private.AccessToken,
	})
	if err != ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	// Antes de la expiración el mismo schema resuelve.
	r.now = func() time.Time { return expiry.Add(-time.Second) }
	if _, err := r.Resolve(context.Background(), &RequestContext{
		Authorization: "Bearer " + private.AccessToken,
	}); err != nil {
		t.Fatalf("before expiry: %v", err)
	}
}

func TestResolve_ActiveSchemaPrecedesPublic(t *testing.T) {
	st := store.NewMemory()
	active := seedSchema(t, st, &types.Schema{
		Name:    "Session",
		Scope:   types.MustScope("entry:*"),
		Enabled: true,
	})
	public := seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	r := newResolver(st)
	sc, err := r.Resolve(context.Background(), &RequestContext{
		ActiveSchema: func(ctx context.Context) (*types.Schema, error) {
			return active, nil
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sc.ID != active.ID {
		t.Fatalf("resolved %d, want active %d (public is %d)", sc.ID, active.ID, public.ID)
	}
}

func TestResolve_ActiveSchemaErrorFallsBackToPublic(t *testing.T) {
	st := store.NewMemory()
	public := seedSchema(t, st, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true})

	r := newResolver(st)
	sc, err := r.Resolve(context.Background(), &RequestContext{
		ActiveSchema: func(ctx context.Context) (*types.Schema, error) {
			return nil, errors.New("session backend down")
		},
	})
	if err != nil {
		t.Fatalf("active schema errors must be swallowed, got %v", err)
	}
	if sc.ID != public.ID {
		t.Fatalf("resolved %d, want public %d", sc.ID, public.ID)
	}
}

func TestResolve_NoPublicSchemaForbidden(t *testing.T) {
	st := store.NewMemory()
	r := newResolver(st)
	_, err := r.Resolve(context.Background(), &RequestContext{})
	if err != ErrForbidden {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestResolve_BearerPrecedesActiveSchema(t *testing.T) {
	st := store.NewMemory()
	bearer := seedSchema(t, st, &types.Schema{
		Name:    "Token",
		Scope:   types.MustScope("entry:read"),
		Enabled: true,
	})
	other := seedSchema(t, st, &types.Schema{
		Name:    "Session",
		Scope:   types.MustScope("entry:*"),
		Enabled: true,
	})

	r := newResolver(st)
	sc, err := r.Resolve(context.Background(), &RequestContext{
		Authorization: "Bearer " + bearer.AccessToken,
		ActiveSchema: func(ctx context.Context) (*types.Schema, error) {
			return other, nil
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sc.ID != bearer.ID {
		t.Fatalf("bearer must win: got %d, want %d", sc.ID, bearer.ID)
	}
}
