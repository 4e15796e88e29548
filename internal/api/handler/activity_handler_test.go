package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/sactel/admin-console/internal/core/domain"
	"github.com/sactel/admin-console/internal/core/ports"
)

type stubActivityService struct {
	recentFn func(ctx context.Context, limit int) ([]domain.Activity, error)
}

func (s *stubActivityService) Process(context.Context, ports.ActivityInput) error { return nil }

func (s *stubActivityService) Recent(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.recentFn(ctx, limit)
}

type recordingRecorder struct {
	got []ports.ActivityInput
}

func (r *recordingRecorder) Enqueue(in ports.ActivityInput) { r.got = append(r.got, in) }

func TestActivityHandler_List(t *testing.T) {
	e := newEcho()
	var gotLimit int
	h := NewActivityHandler(&stubActivityService{
		recentFn: func(ctx context.Context, limit int) ([]domain.Activity, error) {
			gotLimit = limit
			return []domain.Activity{{ID: "a1", Kind: domain.ActivityRoomUpdated, EntityID: "hab-101"}}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/actividad?limit=5", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotLimit != 5 {
		t.Fatalf("expected limit 5, got %d", gotLimit)
	}
	var got []domain.Activity
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0].EntityID != "hab-101" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestActivityHandler_List_EmptyIsArray(t *testing.T) {
	e := newEcho()
	h := NewActivityHandler(&stubActivityService{
		recentFn: func(ctx context.Context, limit int) ([]domain.Activity, error) { return nil, nil },
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/actividad", nil), rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestActivityHandler_List_BadLimit(t *testing.T) {
	e := newEcho()
	h := NewActivityHandler(&stubActivityService{})

	for _, q := range []string{"abc", "-1"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/actividad?limit="+q, nil), httptest.NewRecorder())

		err := h.List(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("limit=%s: expected 400, got %v", q, err)
		}
	}
}

func TestBillingHandler_RecordsActivity(t *testing.T) {
	e := newEcho()
	rec := &recordingRecorder{}
	estado := domain.RoomCleaning
	h := NewBillingHandler(&stubBillingService{
		patchRoomFn: func(ctx context.Context, id string, patch domain.RoomPatch) (*domain.Room, error) {
			return &domain.Room{ID: id, Numero: "101", Estado: estado}, nil
		},
		createFn: func(ctx context.Context, in ports.CreateInvoiceInput) (*ports.InvoiceResult, error) {
			return &ports.InvoiceResult{Invoice: &domain.Invoice{ID: "i1", Numero: "F-0006", Cliente: "ACME", Total: 2784, Estado: domain.InvoicePending}}, nil
		},
	}, rec, zerolog.Nop())

	c := e.NewContext(jsonRequest(http.MethodPatch, "/habitaciones/hab-101", `{"estado":"limpieza"}`), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("hab-101")
	c.Set("role", "admin")
	c.Set("email", "admin@empresa.com")
	if err := h.PatchRoom(c); err != nil {
		t.Fatalf("patch error: %v", err)
	}

	c = e.NewContext(jsonRequest(http.MethodPost, "/facturas", validInvoiceBody), httptest.NewRecorder())
	if err := h.CreateInvoice(c); err != nil {
		t.Fatalf("create error: %v", err)
	}

	if len(rec.got) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(rec.got))
	}
	room := rec.got[0]
	if room.Kind != domain.ActivityRoomUpdated || room.EntityID != "hab-101" || room.Actor != "admin@empresa.com" {
		t.Errorf("unexpected room entry: %+v", room)
	}
	if room.Summary != "habitación 101: estado=limpieza" {
		t.Errorf("unexpected room summary: %q", room.Summary)
	}
	inv := rec.got[1]
	if inv.Kind != domain.ActivityInvoiceCreated || inv.EntityID != "i1" || inv.Actor != "" {
		t.Errorf("unexpected invoice entry: %+v", inv)
	}
}

func TestBillingHandler_ReplayRecordsNoActivity(t *testing.T) {
	e := newEcho()
	rec := &recordingRecorder{}
	h := NewBillingHandler(&stubBillingService{
		createFn: func(ctx context.Context, in ports.CreateInvoiceInput) (*ports.InvoiceResult, error) {
			return &ports.InvoiceResult{Invoice: &domain.Invoice{ID: "i1"}, AlreadyExisted: true}, nil
		},
	}, rec, zerolog.Nop())

	c := e.NewContext(jsonRequest(http.MethodPost, "/facturas", validInvoiceBody), httptest.NewRecorder())
	if err := h.CreateInvoice(c); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if len(rec.got) != 0 {
		t.Fatalf("expected no activity for a replay, got %+v", rec.got)
	}
}
