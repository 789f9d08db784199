package alert

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"

	"github.com/WilliamTrivedi/Blood-Donation/internal/domain"
	"github.com/WilliamTrivedi/Blood-Donation/internal/matching"
	"github.com/WilliamTrivedi/Blood-Donation/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
	maxDonorIDLen  = 100
)

// dispatcherCmd is the command interface for the Dispatcher actor.
type dispatcherCmd interface{ isDispatcherCmd() }

type baseDispatcherCmd struct{}

func (baseDispatcherCmd) isDispatcherCmd() {}

type registerCmd struct {
	baseDispatcherCmd
	connection   *websocket.Conn
	errorChannel chan error
}

type unregisterCmd struct {
	baseDispatcherCmd
	connection *websocket.Conn
}

type bindDonorCmd struct {
	baseDispatcherCmd
	connection *websocket.Conn
	donorID    string
}

type notifyCmd struct {
	baseDispatcherCmd
	request      domain.BloodRequest
	candidates   []domain.Donor
	replyChannel chan notifyReply
}

type clientCountCmd struct {
	baseDispatcherCmd
	replyChannel chan int
}

type boundDonorsCmd struct {
	baseDispatcherCmd
	replyChannel chan []string
}

type stopCmd struct {
	baseDispatcherCmd
}

type notifyReply struct {
	result NotifyResult
	err    error
}

// NotifyResult carries the fan-out counts back to the request-creation
// handler for bookkeeping.
type NotifyResult struct {
	AlertsSent      int
	TotalCompatible int
}

// PresenceFunc is invoked off the actor goroutine whenever a donor identity
// comes online (bind) or goes offline (unbind/disconnect).
type PresenceFunc func(donorID string, online bool)

// Dispatcher manages live WebSocket subscribers and fans out emergency
// alerts for urgent blood requests. All registry state is owned by a single
// goroutine consuming a command channel.
type Dispatcher struct {
	cmdCh      chan dispatcherCmd
	clock      clockwork.Clock
	clients    map[*websocket.Conn]*clientWriter
	donorConns map[string]*websocket.Conn
	connDonor  map[*websocket.Conn]string
	onPresence PresenceFunc
	done       chan struct{}
}

// NewDispatcher creates and starts a dispatcher. onPresence may be nil.
func NewDispatcher(onPresence PresenceFunc, clock clockwork.Clock) *Dispatcher {
	d := &Dispatcher{
		cmdCh:      make(chan dispatcherCmd, 256),
		clock:      clock,
		clients:    make(map[*websocket.Conn]*clientWriter),
		donorConns: make(map[string]*websocket.Conn),
		connDonor:  make(map[*websocket.Conn]string),
		onPresence: onPresence,
		done:       make(chan struct{}),
	}
	go d.run()
	return d
}

// Register adds a connection to the subscriber set and sends the welcome
// payload. The connection carries no donor binding until it registers one.
func (d *Dispatcher) Register(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	d.cmdCh <- registerCmd{connection: conn, errorChannel: errCh}

	timer := d.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case err := <-errCh:
		return err
	case <-timer.Chan():
		return fmt.Errorf("register command timed out after %v", commandTimeout)
	}
}

// Unregister removes a connection from the subscriber set and drops any
// donor binding it held. Unregistering an unknown connection is a no-op.
func (d *Dispatcher) Unregister(conn *websocket.Conn) {
	d.cmdCh <- unregisterCmd{connection: conn}
}

// BindDonor binds a donor identity to the connection, replacing any earlier
// binding for the same donor. The acknowledgment (success or error) is sent
// back over the connection itself.
func (d *Dispatcher) BindDonor(conn *websocket.Conn, donorID string) {
	d.cmdCh <- bindDonorCmd{connection: conn, donorID: donorID}
}

// Notify fans out alerts for an urgent or critical blood request: one
// targeted payload per eligible donor with a live binding, then one broadcast
// to every subscriber. Normal-urgency requests are a silent no-op. Individual
// send failures evict the failed connection and never abort the fan-out.
func (d *Dispatcher) Notify(request domain.BloodRequest, candidates []domain.Donor) (NotifyResult, error) {
	replyCh := make(chan notifyReply, 1)
	d.cmdCh <- notifyCmd{request: request, candidates: candidates, replyChannel: replyCh}

	select {
	case reply := <-replyCh:
		return reply.result, reply.err
	case <-d.done:
		return NotifyResult{}, fmt.Errorf("dispatcher stopped")
	}
}

// ClientCount returns the number of connected subscribers.
// Returns -1 if the command times out.
func (d *Dispatcher) ClientCount() int {
	replyCh := make(chan int, 1)
	d.cmdCh <- clientCountCmd{replyChannel: replyCh}

	timer := d.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-timer.Chan():
		slog.Warn("ClientCount timed out", "timeout", commandTimeout)
		return -1
	}
}

// BoundDonorIDs returns the donor identities currently bound to a connection.
func (d *Dispatcher) BoundDonorIDs() []string {
	replyCh := make(chan []string, 1)
	d.cmdCh <- boundDonorsCmd{replyChannel: replyCh}

	timer := d.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case ids := <-replyCh:
		return ids
	case <-timer.Chan():
		slog.Warn("BoundDonorIDs timed out", "timeout", commandTimeout)
		return nil
	}
}

// Stop shuts down the dispatcher, closing all subscriber connections.
// Blocks until the dispatcher goroutine has exited or timeout is reached.
func (d *Dispatcher) Stop() {
	d.cmdCh <- stopCmd{}

	timer := d.clock.NewTimer(stopTimeout)
	defer timer.Stop()

	select {
	case <-d.done:
		slog.Info("Dispatcher stopped gracefully")
	case <-timer.Chan():
		slog.Warn("Dispatcher stop timeout exceeded", "timeout", stopTimeout)
	}
}

func (d *Dispatcher) run() {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Dispatcher panic recovered", "panic", r)
			d.closeAllClients("dispatcher panic")
		}
	}()
	defer close(d.done)

	for cmd := range d.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			d.handleRegister(c)
		case unregisterCmd:
			d.handleUnregister(c)
		case bindDonorCmd:
			d.handleBindDonor(c)
		case notifyCmd:
			start := d.clock.Now()
			result, err := d.handleNotify(c.request, c.candidates)
			metrics.DispatcherNotifyDuration.Observe(d.clock.Since(start).Seconds())
			c.replyChannel <- notifyReply{result: result, err: err}
		case clientCountCmd:
			c.replyChannel <- len(d.clients)
		case boundDonorsCmd:
			ids := make([]string, 0, len(d.donorConns))
			for id := range d.donorConns {
				ids = append(ids, id)
			}
			c.replyChannel <- ids
		case stopCmd:
			d.handleStop()
			return
		default:
			slog.Warn("Dispatcher received unknown command type", "command_type", fmt.Sprintf("%T", cmd))
		}
	}
}

func (d *Dispatcher) handleRegister(c registerCmd) {
	if _, exists := d.clients[c.connection]; exists {
		c.errorChannel <- nil
		return
	}

	cw := newClientWriter(c.connection, d.clock)
	d.clients[c.connection] = cw
	metrics.DispatcherActiveConnections.Set(float64(len(d.clients)))

	welcome := WelcomePayload{
		Type:       TypeWelcome,
		Message:    "Connected to blood donation alerts",
		Disclaimer: Disclaimer,
		Timestamp:  d.clock.Now().UTC(),
	}
	d.send(c.connection, cw, welcome)

	slog.Debug("Subscriber registered", "total_clients", len(d.clients))
	c.errorChannel <- nil
}

func (d *Dispatcher) handleUnregister(c unregisterCmd) {
	cw, exists := d.clients[c.connection]
	if !exists {
		return
	}

	cw.stop()
	delete(d.clients, c.connection)
	metrics.DispatcherActiveConnections.Set(float64(len(d.clients)))

	d.dropBinding(c.connection)

	slog.Debug("Subscriber unregistered", "remaining_clients", len(d.clients))
}

// dropBinding removes the donor binding held by conn, if any, and signals
// the donor offline. The connection itself stays untouched.
func (d *Dispatcher) dropBinding(conn *websocket.Conn) {
	donorID, bound := d.connDonor[conn]
	if !bound {
		return
	}
	delete(d.connDonor, conn)
	if d.donorConns[donorID] == conn {
		delete(d.donorConns, donorID)
		metrics.DispatcherBoundDonors.Set(float64(len(d.donorConns)))
		d.signalPresence(donorID, false)
	}
}

func (d *Dispatcher) handleBindDonor(c bindDonorCmd) {
	cw, exists := d.clients[c.connection]
	if !exists {
		return
	}

	donorID := sanitizeDonorID(c.donorID)
	if donorID == "" {
		metrics.DispatcherMalformedMessagesTotal.Inc()
		d.send(c.connection, cw, ErrorPayload{Type: TypeError, Message: "Invalid donor ID"})
		return
	}

	// A connection holds at most one binding; rebinding it releases the old one.
	if prev, bound := d.connDonor[c.connection]; bound && prev != donorID {
		d.dropBinding(c.connection)
	}

	// A later bind for the same donor replaces the earlier connection's
	// binding. The earlier connection stays registered as an anonymous
	// subscriber.
	if old, exists := d.donorConns[donorID]; exists && old != c.connection {
		delete(d.connDonor, old)
	}

	d.donorConns[donorID] = c.connection
	d.connDonor[c.connection] = donorID
	metrics.DispatcherBoundDonors.Set(float64(len(d.donorConns)))
	d.signalPresence(donorID, true)

	ack := AckPayload{
		Type:    TypeRegistrationSuccess,
		Message: "Registered for emergency alerts",
		DonorID: donorID,
	}
	d.send(c.connection, cw, ack)

	slog.Info("Donor bound to connection", "donor_id", donorID, "bound_donors", len(d.donorConns))
}

func (d *Dispatcher) handleNotify(request domain.BloodRequest, candidates []domain.Donor) (NotifyResult, error) {
	// Defense in depth: the request handler must not invoke us for Normal
	// requests, but a stray call is a silent no-op rather than a spurious
	// broadcast.
	if !request.Urgency.RequiresAlert() {
		return NotifyResult{}, nil
	}

	matches, err := matching.FindCompatible(candidates, request.BloodTypeNeeded, request.City, request.State)
	if err != nil {
		return NotifyResult{}, err
	}

	now := d.clock.Now().UTC()
	var failed []*websocket.Conn
	alertsSent := 0

	// Phase one: targeted alerts to eligible donors with a live binding.
	// Each bound donor identity receives at most one targeted alert.
	for _, match := range matches {
		conn, bound := d.donorConns[match.Donor.ID]
		if !bound {
			continue
		}
		cw, exists := d.clients[conn]
		if !exists {
			continue
		}

		payload := EmergencyAlertPayload{
			Type:                  TypeEmergencyAlert,
			Urgency:               request.Urgency,
			BloodRequest:          request,
			TotalCompatibleDonors: len(matches),
			Timestamp:             now,
			AlertID:               uuid.NewString(),
			LocationPriority:      match.LocationRank,
			Compatibility:         match.Compatibility(),
		}
		data, err := json.Marshal(payload)
		if err != nil {
			slog.Error("Failed to marshal emergency alert", "error", err)
			continue
		}

		if cw.enqueue(data) {
			alertsSent++
		} else {
			failed = append(failed, conn)
		}
	}

	// Phase two: one broadcast to every subscriber, matched or not.
	broadcast := GeneralAlertPayload{
		Type:                    TypeGeneralAlert,
		Message:                 fmt.Sprintf("%s blood request: %s needed at %s, %s", request.Urgency, request.BloodTypeNeeded, request.HospitalName, request.City),
		Urgency:                 request.Urgency,
		CompatibleDonorsAlerted: alertsSent,
		TotalCompatibleDonors:   len(matches),
		Timestamp:               now,
	}
	data, err := json.Marshal(broadcast)
	if err != nil {
		slog.Error("Failed to marshal general alert", "error", err)
	} else {
		for conn, cw := range d.clients {
			if !cw.enqueue(data) {
				failed = append(failed, conn)
			}
		}
	}

	for _, conn := range failed {
		slog.Warn("Evicting subscriber after failed send")
		metrics.DispatcherSendFailuresTotal.Inc()
		d.handleUnregister(unregisterCmd{connection: conn})
	}

	metrics.DispatcherAlertsSentTotal.WithLabelValues(string(request.Urgency)).Add(float64(alertsSent))
	metrics.DispatcherBroadcastsTotal.Inc()

	slog.Info("Emergency fan-out complete",
		"request_id", request.ID,
		"urgency", request.Urgency,
		"alerts_sent", alertsSent,
		"total_compatible", len(matches),
		"subscribers", len(d.clients),
	)

	return NotifyResult{AlertsSent: alertsSent, TotalCompatible: len(matches)}, nil
}

func (d *Dispatcher) handleStop() {
	slog.Info("Dispatcher shutting down", "clients", len(d.clients), "bound_donors", len(d.donorConns))
	d.closeAllClients("Server shutting down")
}

// closeAllClients closes every subscriber connection with the given reason.
// Used during graceful shutdown and panic recovery.
func (d *Dispatcher) closeAllClients(reason string) {
	for conn, cw := range d.clients {
		cw.stopGraceful(reason)
		delete(d.clients, conn)
	}
	for donorID := range d.donorConns {
		delete(d.donorConns, donorID)
		d.signalPresence(donorID, false)
	}
	for conn := range d.connDonor {
		delete(d.connDonor, conn)
	}
	metrics.DispatcherActiveConnections.Set(0)
	metrics.DispatcherBoundDonors.Set(0)
}

// send enqueues a payload for one connection, evicting it on failure.
func (d *Dispatcher) send(conn *websocket.Conn, cw *clientWriter, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal payload", "error", err)
		return
	}
	if !cw.enqueue(data) {
		metrics.DispatcherSendFailuresTotal.Inc()
		d.handleUnregister(unregisterCmd{connection: conn})
	}
}

// signalPresence runs the presence callback off the actor goroutine so slow
// storage cannot stall registry mutations.
func (d *Dispatcher) signalPresence(donorID string, online bool) {
	if d.onPresence == nil {
		return
	}
	go d.onPresence(donorID, online)
}

// sanitizeDonorID normalizes an inbound donor identifier. Returns "" for
// anything unusable.
func sanitizeDonorID(raw string) string {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxDonorIDLen {
		return ""
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return ""
		}
	}
	return id
}
