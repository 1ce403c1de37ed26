package ws

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/pavilionhq/pavilion/internal/game"
)

// room is the single broadcast group every connection joins. The server
// runs one global session, so there is exactly one room.
const room = "pavilion"

// ConnCtx is the per-connection state kept on the socket after login.
type ConnCtx struct {
	Username string
	Avatar   string
}

type Server struct {
	engine *game.Engine
	io     *socketio.Server
}

func New(engine *game.Engine) *Server {
	return &Server{engine: engine}
}

// Broadcast implements game.Broadcaster over the socket.io room. Delivery is
// best-effort; socket.io writes to each connection independently, so one
// slow client does not hold up the rest.
func (srv *Server) Broadcast(event string, payload any) {
	if srv.io == nil {
		return
	}
	srv.io.BroadcastToRoom("/", room, event, payload)
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.io = io

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		s.Join(room)
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "login", func(s socketio.Conn, payload struct {
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}) {
		p, err := srv.engine.Login(payload.Username, payload.Avatar)
		if err != nil {
			s.Emit("loginError", loginErrorMessage(err))
			return
		}
		s.SetContext(&ConnCtx{Username: p.Name, Avatar: p.Avatar})
		s.Emit("loginSuccess", map[string]any{"username": p.Name, "avatar": p.Avatar})
	})

	io.OnEvent("/", "chatMessage", func(s socketio.Conn, payload struct {
		Text string `json:"text"`
	}) {
		ctx := connCtx(s)
		if ctx.Username == "" {
			return
		}
		if _, err := srv.engine.Chat(ctx.Username, payload.Text); err != nil {
			log.Debug().Err(err).Str("username", ctx.Username).Msg("chat message dropped")
		}
	})

	io.OnEvent("/", "submitPrediction", func(s socketio.Conn, payload struct {
		Prediction string `json:"prediction"`
	}) {
		ctx := connCtx(s)
		if ctx.Username == "" {
			return
		}
		srv.engine.SubmitPrediction(ctx.Username, payload.Prediction)
	})

	io.OnEvent("/", "submitQuizAnswer", func(s socketio.Conn, payload struct {
		Answer        string `json:"answer"`
		CorrectAnswer string `json:"correctAnswer"`
	}) {
		ctx := connCtx(s)
		if ctx.Username == "" {
			return
		}
		srv.engine.SubmitQuizAnswer(ctx.Username, payload.Answer, payload.CorrectAnswer)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		ctx := connCtx(s)
		if ctx.Username != "" {
			srv.engine.Logout(ctx.Username)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func connCtx(s socketio.Conn) *ConnCtx {
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx != nil {
		return ctx
	}
	return &ConnCtx{}
}

func loginErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrNameTaken):
		return "Username is already taken. Please choose another one."
	case errors.Is(err, game.ErrEmptyName):
		return "Username must not be empty."
	default:
		return "Login failed. Please try again."
	}
}
