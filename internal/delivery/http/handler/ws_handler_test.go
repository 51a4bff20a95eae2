package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"teleradiology-case-routing/internal/delivery/dto"
	"teleradiology-case-routing/internal/delivery/http/middleware"
	"teleradiology-case-routing/internal/domain/entity"
	"teleradiology-case-routing/internal/infrastructure/realtime"
	"teleradiology-case-routing/internal/testutil"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type fakeNotifier struct {
	mu           sync.Mutex
	disconnected []uuid.UUID
}

func (f *fakeNotifier) NotifyNewCase(ctx context.Context, view *dto.CaseResponse) (int, error) {
	return 0, nil
}

func (f *fakeNotifier) NotifyCaseAccepted(ctx context.Context, view *dto.CaseResponse) bool {
	return false
}

func (f *fakeNotifier) NotifyReportCompleted(ctx context.Context, view *dto.CaseResponse) bool {
	return false
}

func (f *fakeNotifier) RecordDisconnect(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnected = append(f.disconnected, userID)
	return nil
}

func (f *fakeNotifier) disconnects() []uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uuid.UUID(nil), f.disconnected...)
}

func newWSServer(t *testing.T, userID uuid.UUID, role entity.Role) (*httptest.Server, *realtime.Hub, *fakeNotifier) {
	t.Helper()

	log := testutil.NewLogger()
	hub := realtime.NewHub(log)
	notifier := &fakeNotifier{}
	h := NewWSHandler(hub, notifier, log, 8)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := middleware.ContextWithUser(r.Context(), userID, "user@test.com", role, "token-id")
		h.Connect(w, r.WithContext(ctx))
	}))
	t.Cleanup(srv.Close)
	return srv, hub, notifier
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWSHandler_DeliversEventsAndRecordsDisconnect(t *testing.T) {
	userID := uuid.New()
	srv, hub, notifier := newWSServer(t, userID, entity.RoleRadiologist)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	waitFor(t, func() bool { return hub.IsConnected(userID) })

	caseID := uuid.New()
	if !hub.Send(userID, realtime.Event{Type: realtime.EventNewCase, Data: dto.CaseResponse{ID: caseID, Modality: "CT Head"}}) {
		t.Fatal("expected send to connected user")
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var msg struct {
		Type string           `json:"type"`
		Data dto.CaseResponse `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Type != realtime.EventNewCase || msg.Data.ID != caseID {
		t.Fatalf("unexpected message %s", data)
	}

	conn.Close()
	waitFor(t, func() bool { return !hub.IsConnected(userID) })
	waitFor(t, func() bool { return len(notifier.disconnects()) == 1 })
	if got := notifier.disconnects()[0]; got != userID {
		t.Fatalf("expected disconnect for %s, got %s", userID, got)
	}
}

func TestWSHandler_RejectsMismatchedRadiologistHeader(t *testing.T) {
	srv, hub, _ := newWSServer(t, uuid.New(), entity.RoleRadiologist)

	header := http.Header{}
	header.Set("X-Radiologist-Id", uuid.NewString())
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), header)
	if err == nil {
		t.Fatal("expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}
	if hub.ClientCount() != 0 {
		t.Fatal("expected no registered client")
	}
}

func TestWSHandler_ReplacedConnectionDoesNotRecordDisconnect(t *testing.T) {
	userID := uuid.New()
	srv, hub, notifier := newWSServer(t, userID, entity.RoleRadiologist)

	first, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial first: %v", err)
	}
	defer first.Close()
	waitFor(t, func() bool { return hub.IsConnected(userID) })

	second, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	if err != nil {
		t.Fatalf("dial second: %v", err)
	}
	defer second.Close()

	// The first socket is closed by the server once its queue is replaced.
	first.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := first.ReadMessage(); err == nil {
		t.Fatal("expected first connection to be closed")
	}

	if !hub.Send(userID, realtime.Event{Type: realtime.EventCaseAccepted}) {
		t.Fatal("expected the second connection to be current")
	}
	second.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := second.ReadMessage(); err != nil {
		t.Fatalf("read second: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if n := len(notifier.disconnects()); n != 0 {
		t.Fatalf("expected no disconnect while a newer connection is live, got %d", n)
	}
}
