package userhandler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/renanjardim/back-end-rota-certa/internal/domain"
	"github.com/renanjardim/back-end-rota-certa/internal/service"
	"github.com/renanjardim/back-end-rota-certa/pkg/dto"
	"github.com/renanjardim/back-end-rota-certa/pkg/logger"
)

type UserService interface {
	Register(fullName, email, password string, roles []string) (*service.AuthResult, error)
	Login(email, password string) (*service.AuthResult, error)
	ForgotPassword(email string) error
	UpdateProfile(actorID, targetID int64, patch domain.UserPatch) error
}

type UserHandler struct {
	srv UserService
}

func New(srv UserService) *UserHandler {
	return &UserHandler{
		srv: srv,
	}
}

func (uh *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.Register

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a register request")
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	defer closeBody(r.Body)

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid register fields", logger.Error(err))
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := uh.srv.Register(req.FullName, req.Email, req.Password, req.Roles)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			writeMessage(w, http.StatusConflict, "E-mail já cadastrado.")
			return
		}

		logger.Log.Error("error while registering user", logger.String("email", req.Email), logger.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Message: "Usuário registrado com sucesso!",
		UserID:  result.UserID,
		Roles:   result.Roles,
		Token:   result.Token,
	})
}

func (uh *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.Login

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a login request")
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	defer closeBody(r.Body)

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid login fields", logger.Error(err))
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := uh.srv.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrIncorrectCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Credenciais inválidas.")
			return
		}

		logger.Log.Error("error while logging in", logger.String("email", req.Email), logger.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Message: "Login realizado com sucesso!",
		UserID:  result.UserID,
		Roles:   result.Roles,
		Token:   result.Token,
	})
}

func (uh *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPassword

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a forgot-password request")
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	defer closeBody(r.Body)

	if err := req.IsValid(); err != nil {
		logger.Log.Warn("invalid forgot-password fields", logger.Error(err))
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := uh.srv.ForgotPassword(req.Email); err != nil {
		logger.Log.Error("error while processing password recovery", logger.String("email", req.Email), logger.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
		return
	}

	writeMessage(w, http.StatusOK, "Se o e-mail estiver registrado, um link de recuperação de senha será enviado.")
}

func (uh *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userIDHeader := r.Header.Get("User-ID")
	actorID, err := strconv.ParseInt(userIDHeader, 10, 64)
	if err != nil {
		logger.Log.Warn("missing or invalid user ID in header", logger.String("user_id", userIDHeader), logger.Error(err))
		writeMessage(w, http.StatusUnauthorized, "Autenticação falhou: ID do usuário não fornecido.")
		return
	}

	targetID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		logger.Log.Warn("invalid user ID in path", logger.Error(err))
		writeMessage(w, http.StatusBadRequest, "ID de usuário inválido.")
		return
	}

	var req dto.UpdateProfile
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.Warn("error while decoding a profile update request")
		writeMessage(w, http.StatusBadRequest, "Corpo da requisição inválido.")
		return
	}
	defer closeBody(r.Body)

	patch := domain.UserPatch{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}
	if patch.Empty() {
		writeMessage(w, http.StatusBadRequest, "Nenhum campo para atualizar.")
		return
	}

	if err := uh.srv.UpdateProfile(actorID, targetID, patch); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			writeMessage(w, http.StatusForbidden, "Você não tem permissão para atualizar este usuário.")
		case errors.Is(err, domain.ErrUserNotFound):
			writeMessage(w, http.StatusNotFound, "Usuário não encontrado.")
		case errors.Is(err, domain.ErrUserExists):
			writeMessage(w, http.StatusConflict, "E-mail já cadastrado.")
		default:
			logger.Log.Error("error while updating profile", logger.Int64("user_id", targetID), logger.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Erro interno do servidor.")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Usuário atualizado com sucesso!")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.Message{Message: message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("error while encoding response to JSON", logger.Error(err))
	}
}

func closeBody(body io.ReadCloser) {
	if err := body.Close(); err != nil {
		logger.Log.Error("error while closing request body", logger.Error(err))
	}
}
