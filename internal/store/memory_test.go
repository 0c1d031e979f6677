package store

import (
	"context"
	"testing"

	"github.com/dropDatabas3/gqlgate/internal/domain/types"
)

func TestMemory_SaveGeneratesTokenAndIDs(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	s := &types.Schema{Name: "A", Scope: types.MustScope("entry:read"), Enabled: true}
	if err := st.SaveSchema(ctx, s); err != nil {
		t.Fatalf("SaveSchema: %v", err)
	}
	if s.ID == 0 || s.UID == "" || s.AccessToken == "" {
		t.Fatalf("identifiers not assigned: %+v", s)
	}

	got, err := st.GetSchemaByToken(ctx, s.AccessToken)
	if err != nil {
		t.Fatalf("GetSchemaByToken: %v", err)
	}
	if got.ID != s.ID {
		t.Fatalf("lookup returned %d, want %d", got.ID, s.ID)
	}

	byUID, err := st.GetSchemaByUID(ctx, s.UID)
	if err != nil || byUID.ID != s.ID {
		t.Fatalf("GetSchemaByUID: %v %+v", err, byUID)
	}
}

func TestMemory_UpdateKeepsUID(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	s := &types.Schema{Name: "A", Scope: types.MustScope("entry:read"), Enabled: true}
	if err := st.SaveSchema(ctx, s); err != nil {
		t.Fatalf("SaveSchema: %v", err)
	}
	uid := s.UID

	s.Name = "A renamed"
	s.UID = "tampered"
	if err := st.SaveSchema(ctx, s); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.UID != uid {
		t.Fatalf("uid changed on update: %q", s.UID)
	}

	got, _ := st.GetSchemaByID(ctx, s.ID)
	if got.Name != "A renamed" {
		t.Fatalf("name = %q", got.Name)
	}
}

func TestMemory_TokenChangeRemapsLookup(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	s := &types.Schema{Name: "A", Scope: types.MustScope("entry:read"), Enabled: true}
	if err := st.SaveSchema(ctx, s); err != nil {
		t.Fatalf("SaveSchema: %v", err)
	}
	old := s.AccessToken

	s.AccessToken = "rotated-token"
	if err := st.SaveSchema(ctx, s); err != nil {
		t.Fatalf("rotate: %v", err)
	}

	if _, err := st.GetSchemaByToken(ctx, old); !IsNotFound(err) {
		t.Fatalf("old token must stop resolving, err = %v", err)
	}
	if _, err := st.GetSchemaByToken(ctx, "rotated-token"); err != nil {
		t.Fatalf("new token: %v", err)
	}
}

func TestMemory_SinglePublicSchema(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	if err := st.SaveSchema(ctx, &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true}); err != nil {
		t.Fatalf("first public: %v", err)
	}

	second := &types.Schema{Scope: types.MustScope("entry:read"), Enabled: true, IsPublic: true}
	if err := st.SaveSchema(ctx, second); err != ErrPublicSchemaExists {
		t.Fatalf("err = %v, want ErrPublicSchemaExists", err)
	}
	// El registro rechazado no retiene identificadores.
	if second.ID != 0 || second.UID != "" {
		t.Fatalf("rejected record kept identifiers: %+v", second)
	}

	pub, err := st.GetPublicSchema(ctx)
	if err != nil {
		t.Fatalf("GetPublicSchema: %v", err)
	}
	if !pub.IsPublic {
		t.Fatal("not public")
	}
}

func TestMemory_DuplicateToken(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	a := &types.Schema{Name: "A", AccessToken: "tok", Scope: types.MustScope("entry:read"), Enabled: true}
	if err := st.SaveSchema(ctx, a); err != nil {
		t.Fatalf("first: %v", err)
	}
	b := &types.Schema{Name: "B", AccessToken: "tok", Scope: types.MustScope("entry:read"), Enabled: true}
	if err := st.SaveSchema(ctx, b); err != ErrDuplicateToken {
		t.Fatalf("err = %v, want ErrDuplicateToken", err)
	}
}

func TestMemory_EmptyTokenLookup(t *testing.T) {
	st := NewMemory()
	// Un token vacío jamás matchea nada, ni siquiera al schema público.
	if _, err := st.GetSchemaByToken(context.Background(), ""); !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestMemory_DeleteSchema(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	s := &types.Schema{Name: "A", Scope: types.MustScope("entry:read"), Enabled: true}
	if err := st.SaveSchema(ctx, s); err != nil {
		t.Fatalf("SaveSchema: %v", err)
	}
	if err := st.DeleteSchemaByID(ctx, s.ID); err != nil {
		t.Fatalf("DeleteSchemaByID: %v", err)
	}
	if _, err := st.GetSchemaByID(ctx, s.ID); !IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
	if _, err := st.GetSchemaByToken(ctx, s.AccessToken); !IsNotFound(err) {
		t.Fatalf("token lookup after delete: err = %v", err)
	}
	if err := st.DeleteSchemaByID(ctx, s.ID); !IsNotFound(err) {
		t.Fatalf("double delete: err = %v", err)
	}
}

func TestMemory_ListOrdered(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()
	for _, name := range []string{"c", "a", "b"} {
		if err := st.SaveSchema(ctx, &types.Schema{Name: name, Scope: types.MustScope("entry:read"), Enabled: true}); err != nil {
			t.Fatalf("SaveSchema: %v", err)
		}
	}
	out, err := st.ListSchemas(ctx)
	if err != nil {
		t.Fatalf("ListSchemas: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i-1].ID >= out[i].ID {
			t.Fatalf("list not ordered by id: %v", []int64{out[i-1].ID, out[i].ID})
		}
	}
}

func TestMemory_ClonesOnRead(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	s := &types.Schema{Name: "A", Scope: types.MustScope("entry:read"), Enabled: true}
	if err := st.SaveSchema(ctx, s); err != nil {
		t.Fatalf("SaveSchema: %v", err)
	}

	got, _ := st.GetSchemaByID(ctx, s.ID)
	got.Name = "mutated"

	again, _ := st.GetSchemaByID(ctx, s.ID)
	if again.Name != "A" {
		t.Fatal("reads must return copies")
	}
}
