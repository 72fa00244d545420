package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/quizline/trivia-services/internal/apperr"
	"github.com/quizline/trivia-services/internal/triviasvc/service"
)

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	sessions  *service.SessionService
	rounds    *service.RoundService
	teams     *service.TeamService
	players   *service.PlayerService
	answers   *service.AnswerService
	invites   *service.InviteService
	games     *service.GameService
}

func NewHandler(
	sessions *service.SessionService,
	rounds *service.RoundService,
	teams *service.TeamService,
	players *service.PlayerService,
	answers *service.AnswerService,
	invites *service.InviteService,
	games *service.GameService,
) *Handler {
	return &Handler{
		sessions: sessions,
		rounds:   rounds,
		teams:    teams,
		players:  players,
		answers:  answers,
		invites:  invites,
		games:    games,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	json.NewEncoder(w).Encode(rsp)
}

func (h *Handler) OK(w http.ResponseWriter, code int, data interface{}) {
	h.CreateResponse(w, Response{Code: code, Data: data})
}

// Fail maps the error taxonomy to transport status codes; untyped
// errors are logged and hidden behind a generic message.
func (h *Handler) Fail(w http.ResponseWriter, err error) {
	var code int
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		code = http.StatusNotFound
	case apperr.Permission:
		code = http.StatusForbidden
	case apperr.Validation:
		code = http.StatusBadRequest
	case apperr.InvalidState, apperr.Duplicate, apperr.Conflict:
		code = http.StatusConflict
	default:
		log.Errorf("internal error: %v", err)
		h.CreateResponse(w, Response{Code: http.StatusInternalServerError, Error: "internal error"})
		return
	}
	h.CreateResponse(w, Response{Code: code, Error: err.Error()})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"user_id": 8003022,
		"exp":     expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}

// currentUserID pulls the authenticated caller out of the verified JWT.
func currentUserID(r *http.Request) (int64, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, apperr.Wrap(apperr.Permission, "missing identity", err)
	}

	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, apperr.Wrap(apperr.Permission, "malformed user_id claim", err)
		}
		return id, nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, apperr.Wrap(apperr.Permission, "malformed user_id claim", err)
		}
		return id, nil
	}
	return 0, apperr.New(apperr.Permission, "user_id claim missing")
}

func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, apperr.Newf(apperr.Validation, "invalid %s", name)
	}
	return id, nil
}

func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	return nil
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: fmt.Sprintf("trivia service is running at port %s", os.Getenv("TRIVIA_SERVICE_PORT")),
		Code:    200,
	}
	json.NewEncoder(w).Encode(rsp)
}
