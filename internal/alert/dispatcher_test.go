package alert

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
)

// presenceRecorder captures presence callbacks for assertions.
type presenceRecorder struct {
	mu     sync.Mutex
	events []presenceEvent
}

type presenceEvent struct {
	donorID string
	online  bool
}

func (p *presenceRecorder) record(donorID string, online bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, presenceEvent{donorID: donorID, online: online})
}

func (p *presenceRecorder) snapshot() []presenceEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]presenceEvent(nil), p.events...)
}

// testDispatcher sets up a Dispatcher behind a test HTTP server that mirrors
// the production WebSocket endpoint: register on connect, then a read pump
// translating inbound messages into dispatcher commands.
func testDispatcher(t *testing.T, onPresence PresenceFunc) (*Dispatcher, func() *ws.Conn) {
	t.Helper()

	dispatcher := NewDispatcher(onPresence, clockwork.NewRealClock())
	t.Cleanup(func() { dispatcher.Stop() })

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		if err := dispatcher.Register(conn); err != nil {
			conn.Close()
			return
		}

		go func() {
			defer dispatcher.Unregister(conn)
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					return
				}
				msg, err := DecodeInbound(data)
				if err != nil {
					continue
				}
				switch msg.Type {
				case TypeRegisterDonor:
					dispatcher.BindDonor(conn, msg.DonorID)
				case TypeUnregister:
					dispatcher.Unregister(conn)
					return
				}
			}
		}()
	}))
	t.Cleanup(func() { server.Close() })

	dial := func() *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	return dispatcher, dial
}

func readJSON(t *testing.T, conn *ws.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))
	return result
}

func sendJSON(t *testing.T, conn *ws.Conn, payload any) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(payload))
}

func waitForClientCount(d *Dispatcher, expected int) bool {
	for range 100 {
		if d.ClientCount() == expected {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func waitForBoundDonors(d *Dispatcher, expected int) bool {
	for range 100 {
		if len(d.BoundDonorIDs()) == expected {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

func testDonor(id string, bt domain.BloodType, city, state string) domain.Donor {
	return domain.Donor{
		ID:          id,
		Name:        "Donor " + id,
		BloodType:   bt,
		City:        city,
		State:       state,
		IsAvailable: true,
	}
}

func testRequest(bt domain.BloodType, urgency domain.Urgency) domain.BloodRequest {
	return domain.BloodRequest{
		ID:              "req-1",
		PatientName:     "Patient",
		BloodTypeNeeded: bt,
		Urgency:         urgency,
		UnitsNeeded:     2,
		HospitalName:    "General Hospital",
		City:            "Boston",
		State:           "MA",
		Status:          domain.RequestActive,
	}
}

func TestDispatcher_WelcomeOnRegister(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	conn := dial()
	require.True(t, waitForClientCount(dispatcher, 1))

	welcome := readJSON(t, conn)
	assert.Equal(t, TypeWelcome, welcome["type"])
	assert.Equal(t, Disclaimer, welcome["disclaimer"])
	assert.NotEmpty(t, welcome["message"])
	assert.NotEmpty(t, welcome["timestamp"])
}

func TestDispatcher_BindDonorAck(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	conn := dial()
	readJSON(t, conn) // welcome

	sendJSON(t, conn, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-1"})

	ack := readJSON(t, conn)
	assert.Equal(t, TypeRegistrationSuccess, ack["type"])
	assert.Equal(t, "donor-1", ack["donor_id"])

	require.True(t, waitForBoundDonors(dispatcher, 1))
	assert.Equal(t, []string{"donor-1"}, dispatcher.BoundDonorIDs())
}

func TestDispatcher_InvalidDonorIDKeepsConnection(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	conn := dial()
	readJSON(t, conn) // welcome

	sendJSON(t, conn, map[string]string{"type": TypeRegisterDonor, "donor_id": "   "})

	errMsg := readJSON(t, conn)
	assert.Equal(t, TypeError, errMsg["type"])
	assert.NotEmpty(t, errMsg["message"])

	// The connection survives the bad bind and can still register.
	sendJSON(t, conn, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-1"})
	ack := readJSON(t, conn)
	assert.Equal(t, TypeRegistrationSuccess, ack["type"])
	assert.Equal(t, 1, dispatcher.ClientCount())
}

func TestDispatcher_RebindReplacesEarlierConnection(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	connA := dial()
	readJSON(t, connA) // welcome
	sendJSON(t, connA, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-1"})
	readJSON(t, connA) // ack

	connB := dial()
	readJSON(t, connB) // welcome
	sendJSON(t, connB, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-1"})
	readJSON(t, connB) // ack

	require.True(t, waitForClientCount(dispatcher, 2))
	require.True(t, waitForBoundDonors(dispatcher, 1))

	// The binding moved to connB. connA stays registered as an anonymous
	// subscriber, so a fan-out reaches connB with a targeted alert and
	// connA with only the broadcast.
	donor := testDonor("donor-1", domain.APos, "Boston", "MA")
	result, err := dispatcher.Notify(testRequest(domain.APos, domain.UrgencyCritical), []domain.Donor{donor})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlertsSent)

	targeted := readJSON(t, connB)
	assert.Equal(t, TypeEmergencyAlert, targeted["type"])

	broadcastOnly := readJSON(t, connA)
	assert.Equal(t, TypeGeneralAlert, broadcastOnly["type"])
}

func TestDispatcher_UnregisterIdempotent(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	conn := dial()
	readJSON(t, conn) // welcome
	require.True(t, waitForClientCount(dispatcher, 1))

	sendJSON(t, conn, map[string]string{"type": TypeUnregister})
	require.True(t, waitForClientCount(dispatcher, 0))

	// The read pump also unregisters on close; a second unregister for the
	// same connection must not disturb the registry.
	conn.Close()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, dispatcher.ClientCount())
}

func TestDispatcher_NormalUrgencyIsSilent(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	conn := dial()
	readJSON(t, conn) // welcome
	sendJSON(t, conn, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-1"})
	readJSON(t, conn) // ack

	donor := testDonor("donor-1", domain.ONeg, "Boston", "MA")
	result, err := dispatcher.Notify(testRequest(domain.APos, domain.UrgencyNormal), []domain.Donor{donor})
	require.NoError(t, err)
	assert.Equal(t, 0, result.AlertsSent)
	assert.Equal(t, 0, result.TotalCompatible)

	// No payload of any kind reaches subscribers.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestDispatcher_EmergencyFanOut(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	matched := dial()
	readJSON(t, matched) // welcome
	sendJSON(t, matched, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-direct"})
	readJSON(t, matched) // ack

	incompatible := dial()
	readJSON(t, incompatible) // welcome
	sendJSON(t, incompatible, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-ab"})
	readJSON(t, incompatible) // ack

	anonymous := dial()
	readJSON(t, anonymous) // welcome

	require.True(t, waitForClientCount(dispatcher, 3))
	require.True(t, waitForBoundDonors(dispatcher, 2))

	candidates := []domain.Donor{
		testDonor("donor-direct", domain.APos, "Boston", "MA"),
		testDonor("donor-ab", domain.ABPos, "Boston", "MA"),
		testDonor("donor-offline", domain.ONeg, "Austin", "TX"),
	}

	result, err := dispatcher.Notify(testRequest(domain.APos, domain.UrgencyCritical), candidates)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlertsSent)
	assert.Equal(t, 2, result.TotalCompatible)

	// The matched bound donor sees the targeted alert first, then the broadcast.
	targeted := readJSON(t, matched)
	assert.Equal(t, TypeEmergencyAlert, targeted["type"])
	assert.Equal(t, string(domain.UrgencyCritical), targeted["urgency"])
	assert.Equal(t, float64(2), targeted["total_compatible_donors"])
	assert.Equal(t, "Direct", targeted["compatibility"])
	assert.Equal(t, float64(2), targeted["location_priority"])
	assert.NotEmpty(t, targeted["alert_id"])
	blood, ok := targeted["blood_request"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "req-1", blood["id"])

	for _, conn := range []*ws.Conn{matched, incompatible, anonymous} {
		broadcast := readJSON(t, conn)
		assert.Equal(t, TypeGeneralAlert, broadcast["type"])
		assert.Equal(t, float64(1), broadcast["compatible_donors_alerted"])
		assert.Equal(t, float64(2), broadcast["total_compatible_donors"])
		assert.Contains(t, broadcast["message"], "A+")
	}
}

func TestDispatcher_FailedSendEvictsConnection(t *testing.T) {
	dispatcher, dial := testDispatcher(t, nil)

	healthy := dial()
	readJSON(t, healthy) // welcome

	dying := dial()
	readJSON(t, dying) // welcome

	require.True(t, waitForClientCount(dispatcher, 2))

	dying.Close()

	// The first write after close fails and marks the writer dead; the next
	// fan-out detects it and evicts the connection without aborting.
	request := testRequest(domain.APos, domain.UrgencyUrgent)
	for range 100 {
		_, err := dispatcher.Notify(request, nil)
		require.NoError(t, err)
		if dispatcher.ClientCount() == 1 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 1, dispatcher.ClientCount())

	// The healthy subscriber kept receiving broadcasts throughout.
	broadcast := readJSON(t, healthy)
	assert.Equal(t, TypeGeneralAlert, broadcast["type"])
}

func TestDispatcher_PresenceCallbacks(t *testing.T) {
	recorder := &presenceRecorder{}
	dispatcher, dial := testDispatcher(t, recorder.record)

	conn := dial()
	readJSON(t, conn) // welcome
	sendJSON(t, conn, map[string]string{"type": TypeRegisterDonor, "donor_id": "donor-1"})
	readJSON(t, conn) // ack

	require.True(t, waitForBoundDonors(dispatcher, 1))

	sendJSON(t, conn, map[string]string{"type": TypeUnregister})
	require.True(t, waitForClientCount(dispatcher, 0))

	require.Eventually(t, func() bool {
		return len(recorder.snapshot()) == 2
	}, time.Second, 10*time.Millisecond)

	events := recorder.snapshot()
	assert.Equal(t, presenceEvent{donorID: "donor-1", online: true}, events[0])
	assert.Equal(t, presenceEvent{donorID: "donor-1", online: false}, events[1])
}

func TestDispatcher_StopClosesSubscribers(t *testing.T) {
	recorder := &presenceRecorder{}
	dispatcher := NewDispatcher(recorder.record, clockwork.NewRealClock())

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	ready := make(chan *ws.Conn, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		ready <- conn
	}))
	t.Cleanup(func() { server.Close() })

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	serverConn := <-ready
	require.NoError(t, dispatcher.Register(serverConn))
	dispatcher.BindDonor(serverConn, "donor-1")
	require.True(t, waitForBoundDonors(dispatcher, 1))

	dispatcher.Stop()

	// The client sees the connection close once the dispatcher is gone.
	require.NoError(t, client.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := client.ReadMessage(); err != nil {
			break
		}
	}

	// Every bound donor is signalled offline during shutdown.
	require.Eventually(t, func() bool {
		events := recorder.snapshot()
		return len(events) == 2 && !events[1].online
	}, time.Second, 10*time.Millisecond)
}
