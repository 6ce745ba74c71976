package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/signup-api/internal/application/activation"
)

const invalidCodeMessage = "Invalid verification code"

// VerificationHandler serves code issue and code check endpoints.
type VerificationHandler struct {
	svc activation.Service
}

func NewVerificationHandler(svc activation.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// SendEmail handles POST /api/sendEmail {"to": "..."}.
func (h *VerificationHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req activation.SendRequest
	if err := decode(r, &req); err != nil {
		httpError(w, err)
		return
	}
	h.send(w, r, req.To)
}

// VerifyCode handles POST /api/verifyCode {"email": "...", "code": "..."}.
func (h *VerificationHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req activation.CheckRequest
	if err := decode(r, &req); err != nil {
		httpError(w, err)
		return
	}
	h.check(w, r, req)
}

// Action handles POST /v1/verification/{action} with "request" and "validate-code".
func (h *VerificationHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var body struct {
			Email string `json:"email" validate:"required,email_or_phone"`
		}
		if err := decode(r, &body); err != nil {
			httpError(w, err)
			return
		}
		h.send(w, r, body.Email)
	case "validate-code":
		var req activation.CheckRequest
		if err := decode(r, &req); err != nil {
			httpError(w, err)
			return
		}
		h.check(w, r, req)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *VerificationHandler) send(w http.ResponseWriter, r *http.Request, to string) {
	if err := h.svc.SendActivation(r.Context(), to); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Message: "Code sent successfully"})
}

func (h *VerificationHandler) check(w http.ResponseWriter, r *http.Request, req activation.CheckRequest) {
	res, err := h.svc.CheckCode(r.Context(), req.Email, req.Code)
	if err != nil {
		httpError(w, err)
		return
	}
	if !res.Matched {
		writeJSON(w, http.StatusOK, ResultEnvelope{Error: invalidCodeMessage})
		return
	}
	writeJSON(w, http.StatusOK, ResultEnvelope{Success: true, Ticket: res.Ticket})
}
