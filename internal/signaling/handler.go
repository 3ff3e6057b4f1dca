package signaling

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/isqad/melody"
	"github.com/rs/zerolog/log"

	"github.com/skillswap/signaling/internal/auth"
	"github.com/skillswap/signaling/internal/core"
	"github.com/skillswap/signaling/internal/eventbus"
	"github.com/skillswap/signaling/internal/signaling/rpc"
	"github.com/skillswap/signaling/internal/telemetry"
)

const wsConnSessionKey = "conn"

const (
	msgBookingNotFound = "Booking not found"
	msgNotAuthorized   = "Not authorized to join this session"
	msgJoinFailed      = "Failed to join room"
)

// Server wires the socket lifecycle to the trackers: authentication at
// handshake, the access gate and room membership on join, the relay for
// signaling payloads, presence on connect/disconnect.
type Server struct {
	verifier auth.TokenVerifier
	gate     *AccessGate
	rooms    *RoomRegistry
	conns    *ConnRegistry
	presence *PresenceService
}

func NewServer(
	verifier auth.TokenVerifier,
	gate *AccessGate,
	presence *PresenceService,
) *Server {
	return &Server{
		verifier: verifier,
		gate:     gate,
		rooms:    NewRoomRegistry(),
		conns:    NewConnRegistry(),
		presence: presence,
	}
}

// WebsocketHandler authenticates the handshake and upgrades it. The
// credential is verified before the websocket session exists, so a
// rejected connection leaves no partial state anywhere.
func (srv *Server) WebsocketHandler(websocket *melody.Melody) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := auth.TokenFromRequest(r)

		userID, err := srv.verifier.Verify(r.Context(), token)
		if err != nil {
			log.Warn().Err(err).Str("service", "signaling").Msg("handshake rejected")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		sessKeys := make(map[string]interface{})
		sessKeys[wsConnSessionKey] = NewConn(userID)

		if err := websocket.HandleRequestWithKeys(w, r, sessKeys); err != nil {
			log.Error().Err(err).Str("service", "signaling").Msg("can't handle request")
		}
	}
}

func (srv *Server) ConnectHandler() func(session *melody.Session) {
	return func(session *melody.Session) {
		conn, err := getConnFromSession(session)
		if err != nil {
			log.Error().Err(err).Str("service", "signaling").Msg("extract conn")
			_ = session.Close()
			return
		}

		conn.Attach(session)
		srv.handleConnect(conn)
	}
}

func (srv *Server) handleConnect(conn *Conn) {
	srv.conns.Add(conn)
	telemetry.ConnectionOpened()

	srv.presence.OnConnect(context.Background(), conn.UserID)

	log.Info().Str("service", "signaling").Str("userID", conn.UserID).
		Str("connID", conn.ID).Msg("user connected")
}

// DisconnectHandler is the only cleanup path: network drop and explicit
// close both land here. Leave events go out before membership is
// removed, and presence is decremented even when store writes fail.
func (srv *Server) DisconnectHandler() func(session *melody.Session) {
	return func(session *melody.Session) {
		conn, err := getConnFromSession(session)
		if err != nil {
			log.Error().Err(err).Str("service", "signaling").Msg("extract conn")
			return
		}

		srv.handleDisconnect(conn)
	}
}

func (srv *Server) handleDisconnect(conn *Conn) {
	leftAt := time.Now().UTC()
	for _, roomID := range conn.Rooms() {
		srv.broadcastOthers(roomID, conn, rpc.NewSessionUserLeftRpc(roomID, conn.UserID, leftAt))
	}
	srv.rooms.Leave(conn)
	telemetry.SetRoomsTotal(srv.rooms.Len())

	srv.conns.Remove(conn)
	telemetry.ConnectionClosed()

	srv.presence.OnDisconnect(context.Background(), conn.UserID)

	log.Info().Str("service", "signaling").Str("userID", conn.UserID).
		Str("connID", conn.ID).Msg("user disconnected")
}

func (srv *Server) MessageHandler() func(session *melody.Session, msg []byte) {
	return func(session *melody.Session, msg []byte) {
		conn, err := getConnFromSession(session)
		if err != nil {
			log.Error().Err(err).Str("service", "signaling").Msg("extract conn")
			return
		}

		r, err := rpc.RpcFromReader(bytes.NewReader(msg))
		if err != nil {
			log.Warn().Err(err).Str("service", "signaling").Str("userID", conn.UserID).
				Msg("rpc parse error")
			return
		}

		srv.dispatch(conn, r)
	}
}

// dispatch routes one parsed client message. The message set is closed:
// adding a method without a case here fails to deliver loudly in tests
// rather than silently at runtime.
func (srv *Server) dispatch(conn *Conn, r rpc.Rpc) {
	switch m := r.(type) {
	case *rpc.JoinRoomRpc:
		srv.handleJoinRoom(conn, m.Params.BookingID)
	case *rpc.OfferRpc:
		m.Params.From = conn.UserID
		srv.relay(conn, m.Params.RoomID, m)
	case *rpc.AnswerRpc:
		m.Params.From = conn.UserID
		srv.relay(conn, m.Params.RoomID, m)
	case *rpc.ICECandidateRpc:
		m.Params.From = conn.UserID
		srv.relay(conn, m.Params.RoomID, m)
	case *rpc.ChatMessageRpc:
		m.Params.From = conn.UserID
		if m.Params.Timestamp == "" {
			m.Params.Timestamp = time.Now().UTC().Format(time.RFC3339)
		}
		srv.relay(conn, m.Params.RoomID, m)
	default:
		log.Error().Str("service", "signaling").Str("rpcMethod", string(r.GetMethod())).
			Msg("undefined method")
	}
}

// handleJoinRoom runs the access gate, then membership, then session
// presence. Order matters: the gate rejects before any room state is
// touched; the member set is updated before the catch-up enumeration so
// a concurrent second joiner cannot be missed.
func (srv *Server) handleJoinRoom(conn *Conn, bookingID string) {
	ctx := context.Background()

	booking, err := srv.gate.Authorize(ctx, bookingID, conn.UserID)
	if err != nil {
		srv.rejectJoin(conn, bookingID, err)
		return
	}

	roomID := booking.RoomID()
	srv.rooms.Join(roomID, conn)
	telemetry.SetRoomsTotal(srv.rooms.Len())

	srv.send(conn, rpc.NewJoinedRoomRpc(roomID, booking.ID))

	joinedAt := time.Now().UTC()

	// Catch-up for the late joiner: without this, whoever joined first
	// would be invisible to the second party.
	for member := range srv.rooms.Members(roomID) {
		if member.UserID == conn.UserID {
			continue
		}
		srv.send(conn, rpc.NewSessionUserJoinedRpc(roomID, member.UserID, joinedAt))
	}

	srv.broadcastOthers(roomID, conn, rpc.NewSessionUserJoinedRpc(roomID, conn.UserID, joinedAt))

	srv.gate.MarkJoined(ctx, booking, conn.UserID)

	srv.broadcastOthers(roomID, conn, rpc.NewUserJoinedRpc(conn.UserID))
}

func (srv *Server) rejectJoin(conn *Conn, bookingID string, err error) {
	var message, reason string
	switch {
	case errors.Is(err, core.ErrBookingNotFound):
		message, reason = msgBookingNotFound, "not_found"
	case errors.Is(err, core.ErrNotAuthorized):
		message, reason = msgNotAuthorized, "not_authorized"
	default:
		message, reason = msgJoinFailed, "store_failure"
	}

	telemetry.JoinFailures.WithLabelValues(reason).Inc()
	log.Warn().Err(err).Str("service", "signaling").Str("userID", conn.UserID).
		Str("bookingID", bookingID).Msg("join rejected")

	srv.send(conn, rpc.NewErrorRpc(message))
}

// relay forwards a signaling payload to the rest of the room. The relay
// is transport, not a state machine: offer/answer ordering is left to
// the two peers.
func (srv *Server) relay(sender *Conn, roomID string, r rpc.Rpc) {
	if roomID == "" {
		return
	}

	srv.broadcastOthers(roomID, sender, r)
	telemetry.RelayedMessages.WithLabelValues(string(r.GetMethod())).Inc()
}

// HandlePresenceEvent fans one global presence transition out to every
// local connection except those of the user it describes. Fed by the
// eventbus subscription, which makes the broadcast reach users connected
// to other instances too.
func (srv *Server) HandlePresenceEvent(event eventbus.PresenceEvent) {
	var r rpc.Rpc
	if event.Online {
		r = rpc.NewUserOnlineRpc(event.UserID)
	} else {
		r = rpc.NewUserOfflineRpc(event.UserID)
	}

	payload, err := r.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("service", "signaling").Msg("can't marshal presence rpc")
		return
	}

	srv.conns.BroadcastExceptUser(event.UserID, payload)
}

func (srv *Server) send(conn *Conn, r rpc.Rpc) {
	payload, err := r.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("service", "signaling").Msg("can't marshal rpc")
		return
	}

	if err := conn.Send(payload); err != nil {
		log.Error().Err(err).Str("service", "signaling").Str("userID", conn.UserID).
			Str("rpcMethod", string(r.GetMethod())).Msg("can't write to session")
	}
}

func (srv *Server) broadcastOthers(roomID string, sender *Conn, r rpc.Rpc) {
	payload, err := r.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("service", "signaling").Msg("can't marshal rpc")
		return
	}

	srv.rooms.BroadcastOthers(roomID, sender, payload)
}

func getConnFromSession(s *melody.Session) (*Conn, error) {
	value, ok := s.Keys[wsConnSessionKey]
	if !ok {
		return nil, fmt.Errorf("no conn for given session: %+v", s)
	}
	conn, ok := value.(*Conn)
	if !ok {
		return nil, fmt.Errorf("can't convert conn: %+v", value)
	}
	return conn, nil
}
