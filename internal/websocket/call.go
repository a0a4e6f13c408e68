package websocket

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/webrtc/v4"
	"github.com/sirupsen/logrus"
)

type callState int

const (
	callRinging callState = iota
	callActive
)

type callEventKind int

const (
	evAnswer callEventKind = iota
	evReject
	evHangup
	evDisconnect
)

type callEvent struct {
	kind   callEventKind
	from   string
	answer AnswerCallPayload
}

// callSession is the ephemeral state for one call. It is never persisted;
// its whole lifecycle runs inside a single goroutine fed by the events
// channel, so state transitions need no locking of their own.
type callSession struct {
	id       string
	callerID string
	calleeID string
	isVideo  bool
	events   chan callEvent
}

func (cs *callSession) peerOf(userID string) string {
	if userID == cs.callerID {
		return cs.calleeID
	}
	return cs.callerID
}

// CallManager owns every live call session. Each session gets an opaque
// call ID at invite time that every subsequent signaling event must carry,
// so a stale answer or reject can never be matched to the wrong invite.
// A user participates in at most one live call at a time.
type CallManager struct {
	mu     sync.Mutex
	calls  map[string]*callSession
	byUser map[string]string // user id -> call id

	relay   *Relay
	timeout time.Duration
}

// NewCallManager wires a call manager to the relay. The timeout bounds how
// long an invite rings before the caller is told nobody answered.
func NewCallManager(relay *Relay, timeout time.Duration) *CallManager {
	return &CallManager{
		calls:   make(map[string]*callSession),
		byUser:  make(map[string]string),
		relay:   relay,
		timeout: timeout,
	}
}

// Invite starts a call session and delivers callIncoming to the callee if
// online. An offline or busy remote party produces no immediate failure;
// the invite resolves through the ring timeout.
func (m *CallManager) Invite(callerID string, p CallUserPayload) {
	if p.UserToCall == "" || p.UserToCall == callerID {
		return
	}
	if p.SignalData.Type != webrtc.SDPTypeOffer {
		logrus.WithFields(logrus.Fields{
			"caller": callerID,
			"type":   p.SignalData.Type.String(),
		}).Warn("call invite without an SDP offer, dropped")
		return
	}

	cs := &callSession{
		id:       uuid.New().String(),
		callerID: callerID,
		calleeID: p.UserToCall,
		isVideo:  p.IsVideoCall,
		events:   make(chan callEvent, 8),
	}

	m.mu.Lock()
	if _, busy := m.byUser[callerID]; busy {
		m.mu.Unlock()
		return
	}
	if _, busy := m.byUser[p.UserToCall]; busy {
		// The callee never rings; the caller finds out via timeout.
		m.mu.Unlock()
		logrus.WithFields(logrus.Fields{
			"caller": callerID,
			"callee": p.UserToCall,
		}).Info("callee busy, invite not delivered")
		return
	}
	m.calls[cs.id] = cs
	m.byUser[callerID] = cs.id
	m.byUser[p.UserToCall] = cs.id
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"call":   cs.id,
		"caller": callerID,
		"callee": p.UserToCall,
		"video":  p.IsVideoCall,
	}).Info("call invite")

	m.relay.CallIncoming(p.UserToCall, CallIncomingPayload{
		CallID:      cs.id,
		SignalData:  p.SignalData,
		From:        callerID,
		Name:        p.Name,
		ProfilePic:  p.ProfilePic,
		IsVideoCall: p.IsVideoCall,
	})

	go m.run(cs)
}

// run is the per-call event loop
func (m *CallManager) run(cs *callSession) {
	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	state := callRinging
	for {
		select {
		case ev := <-cs.events:
			switch ev.kind {
			case evAnswer:
				if state != callRinging || ev.from != cs.calleeID {
					continue
				}
				state = callActive
				if !timer.Stop() {
					<-timer.C
				}
				m.relay.CallAccepted(cs.callerID, CallAcceptedPayload{
					CallID:             cs.id,
					Signal:             ev.answer.Signal,
					ReceiverName:       ev.answer.ReceiverName,
					ReceiverProfilePic: ev.answer.ReceiverProfilePic,
				})

			case evReject:
				// Reject only exists while ringing; an active call ends via
				// hangup, never via a late reject.
				if state != callRinging || ev.from != cs.calleeID {
					continue
				}
				m.relay.CallRejected(cs.callerID, cs.id)
				m.teardown(cs)
				return

			case evHangup, evDisconnect:
				if ev.from != cs.callerID && ev.from != cs.calleeID {
					continue
				}
				m.relay.CallEnded(cs.peerOf(ev.from), cs.id)
				m.teardown(cs)
				return
			}

		case <-timer.C:
			// Nobody answered. The callee is not told the invite expired;
			// it discovers staleness only by acting on the dead call id.
			m.relay.CallTimeout(cs.callerID, cs.id)
			m.teardown(cs)
			logrus.WithField("call", cs.id).Info("call invite timed out")
			return
		}
	}
}

func (m *CallManager) teardown(cs *callSession) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.calls, cs.id)
	if m.byUser[cs.callerID] == cs.id {
		delete(m.byUser, cs.callerID)
	}
	if m.byUser[cs.calleeID] == cs.id {
		delete(m.byUser, cs.calleeID)
	}
}

// dispatch routes an event to the session identified by callID, falling back
// to the sender's active call when the client did not echo the call id.
// Events for unknown or finished calls are stale and silently ignored.
func (m *CallManager) dispatch(callID, fromUserID string, ev callEvent) {
	m.mu.Lock()
	if callID == "" {
		callID = m.byUser[fromUserID]
	}
	cs, ok := m.calls[callID]
	m.mu.Unlock()

	if !ok {
		logrus.WithFields(logrus.Fields{
			"call": callID,
			"from": fromUserID,
		}).Debug("signaling event for unknown call, ignored")
		return
	}

	select {
	case cs.events <- ev:
	default:
		logrus.WithField("call", cs.id).Warn("call event queue full, event dropped")
	}
}

// Answer accepts a ringing call. The signal must be an SDP answer matching
// the kind the caller advertised; the media kind itself is caller-decided
// and never renegotiated here.
func (m *CallManager) Answer(fromUserID string, p AnswerCallPayload) {
	if p.Signal.Type != webrtc.SDPTypeAnswer {
		logrus.WithField("from", fromUserID).Warn("call answer without an SDP answer, dropped")
		return
	}
	m.dispatch(p.CallID, fromUserID, callEvent{kind: evAnswer, from: fromUserID, answer: p})
}

// Reject declines a ringing call
func (m *CallManager) Reject(fromUserID string, p RejectCallPayload) {
	m.dispatch(p.CallID, fromUserID, callEvent{kind: evReject, from: fromUserID})
}

// End hangs up a call from either side
func (m *CallManager) End(fromUserID string, p EndCallPayload) {
	m.dispatch(p.CallID, fromUserID, callEvent{kind: evHangup, from: fromUserID})
}

// Disconnect terminates any live call the user participates in. Called when
// the user's transport session drops; the surviving peer gets callEnded.
func (m *CallManager) Disconnect(userID string) {
	m.mu.Lock()
	callID, ok := m.byUser[userID]
	m.mu.Unlock()
	if !ok {
		return
	}
	m.dispatch(callID, userID, callEvent{kind: evDisconnect, from: userID})
}

// ActiveCalls reports how many call sessions are currently live
func (m *CallManager) ActiveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
