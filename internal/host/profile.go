package host

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gauthierbraillon/winelocals/internal/account"
	"github.com/gauthierbraillon/winelocals/internal/log"
	"github.com/gauthierbraillon/winelocals/internal/session"
	"github.com/gauthierbraillon/winelocals/internal/shell"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"` // #nosec G117 -- request body field
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"` // #nosec G117 -- request body field
	Password        string `json:"password"`        // #nosec G117 -- request body field
	ConfirmPassword string `json:"confirmPassword"` // #nosec G117 -- request body field
}

type profileResponse struct {
	User     session.User      `json:"user"`
	Name     string            `json:"name"`
	Initials string            `json:"initials"`
	View     shell.ProfileView `json:"view"`
}

type listResponse[T any] struct {
	Status  shell.Status `json:"status"`
	Title   string       `json:"title"`
	Message string       `json:"message,omitempty"`
	Items   []T          `json:"items"`
}

func (s *Server) profile(sess session.Session) profileResponse {
	return profileResponse{
		User:     sess.User,
		Name:     sess.User.DisplayName(),
		Initials: sess.User.Initials(),
		View:     s.shell.ProfileView(),
	}
}

// token returns the bearer token, or writes 401 and returns "".
func (s *Server) token(w http.ResponseWriter, r *http.Request) string {
	jwt, err := s.sessionToken()
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "not_signed_in", "sign in to see this screen")
		return ""
	}
	return jwt
}

func (s *Server) sessionToken() (string, error) {
	sess, err := s.sessions.Current()
	if err != nil {
		return "", err
	}
	return sess.JWT, nil
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Current()
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "not_signed_in", "no active session")
		return
	}
	writeJSON(w, http.StatusOK, s.profile(sess))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, err := s.accounts.Login(r.Context(), strings.TrimSpace(req.Identifier), req.Password)
	switch {
	case errors.Is(err, account.ErrMissingField):
		writeError(w, r, http.StatusBadRequest, "missing_field", err.Error())
		return
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, r, http.StatusUnauthorized, "invalid_credentials", "E-mail ou senha inválidos")
		return
	case err != nil:
		log.FromContext(r.Context()).Warn().Err(err).Msg("login failed")
		writeError(w, r, http.StatusBadGateway, "login_failed", err.Error())
		return
	}

	if err := s.sessions.Update(sess); err != nil {
		writeError(w, r, http.StatusInternalServerError, "session", err.Error())
		return
	}
	s.shell.Back()
	writeJSON(w, http.StatusOK, s.profile(sess))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(); err != nil {
		writeError(w, r, http.StatusInternalServerError, "session", err.Error())
		return
	}
	s.orders.Unmount()
	s.vouchers.Unmount()
	s.shell.Logout()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfileView(w http.ResponseWriter, r *http.Request) {
	view, err := shell.ParseProfileView(chi.URLParam(r, "view"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, "unknown_view", err.Error())
		return
	}
	s.shell.Open(view)
	writeJSON(w, http.StatusOK, s.shell.State())
}

func (s *Server) loadOrders(ctx context.Context, key string) ([]account.Order, error) {
	typ, jwt, _ := strings.Cut(key, "|")
	return s.accounts.Orders(ctx, jwt, account.OrderType(typ))
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	typ, err := account.ParseOrderType(r.URL.Query().Get("type"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_type", err.Error())
		return
	}
	jwt := s.token(w, r)
	if jwt == "" {
		return
	}
	s.shell.Open(shell.ViewOrders)

	st := s.orders.Mount(r.Context(), string(typ)+"|"+jwt)
	if errors.Is(st.Err, account.ErrUnauthorized) {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", st.Err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listed(st, typ.Title(), account.MsgNoOrders))
}

func (s *Server) handleVouchers(w http.ResponseWriter, r *http.Request) {
	jwt := s.token(w, r)
	if jwt == "" {
		return
	}
	s.shell.Open(shell.ViewVouchers)

	st := s.vouchers.Mount(r.Context(), jwt)
	if errors.Is(st.Err, account.ErrUnauthorized) {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", st.Err.Error())
		return
	}
	writeJSON(w, http.StatusOK, listed(st, "Meus Cupons", account.MsgNoVouchers))
}

// listed renders a list screen. Failed fetches show the empty message.
func listed[T any](st shell.ScreenState[T], title, empty string) listResponse[T] {
	resp := listResponse[T]{Status: st.Status, Title: title, Items: st.Items}
	if resp.Items == nil {
		resp.Items = []T{}
	}
	if len(resp.Items) == 0 {
		resp.Message = empty
	}
	return resp
}

func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	form := account.PasswordChange{Current: req.CurrentPassword, New: req.Password, Confirm: req.ConfirmPassword}
	if err := form.Validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, "invalid_form", err.Error())
		return
	}

	jwt := s.token(w, r)
	if jwt == "" {
		return
	}
	s.shell.Open(shell.ViewSecurity)

	if err := s.accounts.ChangePassword(r.Context(), jwt, form); err != nil {
		log.FromContext(r.Context()).Warn().Err(err).Msg("password change failed")
		status := http.StatusBadGateway
		if errors.Is(err, account.ErrUnauthorized) {
			status = http.StatusUnauthorized
		}
		writeError(w, r, status, "password_change_failed", account.MsgPasswordFailed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": account.MsgPasswordChanged})
}
